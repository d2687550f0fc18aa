package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log"

	"moodlist/internal/llm"
	"moodlist/internal/session"
	"moodlist/internal/toolcall"
	"moodlist/internal/tools"
)

// ErrNoToolCalls means the model's output contained nothing matching the
// whitelisted call grammar, so the dispatcher executed zero calls.
var ErrNoToolCalls = errors.New("model output contained no tool calls")

// Orchestrator wires the session store, the slot-filling machine, the model
// client, the call parser and the dispatcher into one request-response cycle.
type Orchestrator struct {
	store       session.Store
	machine     *Machine
	generator   llm.Generator
	dispatcher  *tools.Dispatcher
	reviewer    *Reviewer // nil disables the review loop
	searchLimit int
}

func NewOrchestrator(store session.Store, machine *Machine, generator llm.Generator, dispatcher *tools.Dispatcher, reviewer *Reviewer, searchLimit int) *Orchestrator {
	return &Orchestrator{
		store:       store,
		machine:     machine,
		generator:   generator,
		dispatcher:  dispatcher,
		reviewer:    reviewer,
		searchLimit: searchLimit,
	}
}

// HandleMessage runs one full turn for a user message and returns the reply
// text: a clarifying question while slots are missing, or the playlist link
// on success. The whole turn runs under the store's per-key lock, so two
// concurrent messages from the same user never interleave.
//
// On external failure the session is preserved (state ERROR) so the user can
// retry without re-entering slots; it is removed only on terminal success.
func (o *Orchestrator) HandleMessage(ctx context.Context, userID, text string) (string, error) {
	var (
		reply    string
		turnErr  error
		terminal bool
	)

	o.store.Update(userID, func(sess *session.Session) {
		if q := o.machine.Advance(sess, text); q != "" {
			reply = q
			return
		}
		reply, turnErr = o.runDispatchCycle(ctx, sess)
		terminal = sess.State == session.StateDone
	})

	if terminal {
		o.store.Remove(userID)
	}
	return reply, turnErr
}

// runDispatchCycle generates tool calls from the filled slots, executes them,
// and optionally runs the bounded review loop. At most one review-triggered
// re-generation happens; after that the last result is returned regardless of
// the verdict.
func (o *Orchestrator) runDispatchCycle(ctx context.Context, sess *session.Session) (string, error) {
	feedback := ""
	var result *tools.Result

	for attempt := 0; ; attempt++ {
		sess.State = session.StateDispatching
		raw, err := o.generator.Generate(ctx, generationSystemPrompt, buildGenerationQuery(sess, o.searchLimit, feedback))
		if err != nil {
			return "", o.fail(sess, fmt.Errorf("generation failed: %w", err))
		}

		calls := toolcall.Parse(raw)
		if len(calls) == 0 {
			log.Printf("[Orchestrator] No tool calls in model output for user %s", sess.UserID)
			return "", o.fail(sess, ErrNoToolCalls)
		}

		result, err = o.dispatcher.Run(ctx, sess.UserID, calls)
		if err != nil {
			return "", o.fail(sess, err)
		}
		if result == nil || !result.Success || result.URL == "" {
			return "", o.fail(sess, errors.New("dispatch finished without a playlist"))
		}

		if o.reviewer == nil {
			break
		}
		sess.State = session.StateAwaitingReview
		verdict, err := o.reviewer.Review(ctx, sess.Slots, result.TrackNames)
		if err != nil {
			// A review failure never discards a finished playlist.
			log.Printf("[Orchestrator] Review call failed for user %s: %v", sess.UserID, err)
			break
		}
		if verdict.Approved {
			break
		}
		if attempt >= reviewRetryLimit {
			log.Printf("[Orchestrator] Review retries exhausted for user %s, returning last result", sess.UserID)
			break
		}
		feedback = verdict.Feedback
		log.Printf("[Orchestrator] Review rejected playlist for user %s, regenerating once", sess.UserID)
	}

	sess.State = session.StateDone
	sess.LastOutput = outputFromResult(result)
	return "Your playlist is ready: " + result.URL, nil
}

// fail records the failure on the session and keeps it alive for a retry.
func (o *Orchestrator) fail(sess *session.Session, err error) error {
	sess.State = session.StateError
	sess.LastOutput = &session.Output{Error: err.Error()}
	return err
}

func outputFromResult(res *tools.Result) *session.Output {
	return &session.Output{
		Success:    res.Success,
		URL:        res.URL,
		TrackIDs:   res.TrackIDs,
		TrackNames: res.TrackNames,
		Error:      res.Error,
	}
}
