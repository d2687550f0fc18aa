// Package dialogue drives the multi-turn slot-filling conversation and the
// generate/parse/dispatch/review cycle that follows it.
package dialogue

import (
	"moodlist/internal/session"
	"moodlist/internal/slots"
)

// Machine decides, given the current slots, whether to ask a clarifying
// question or signal readiness for dispatch.
type Machine struct {
	schema slots.Schema
}

func NewMachine(schema slots.Schema) *Machine {
	return &Machine{schema: schema}
}

// Advance applies one user message to the session: extracts slot answers,
// resolves the awaited free-form slot, then either picks the next question
// (first missing slot in schema order) or marks the session ready.
//
// Returns the clarifying question to send, or "" when all slots are filled.
// A slot answered in this turn is part of the filled set before the question
// is chosen, so it is never re-asked.
func (m *Machine) Advance(sess *session.Session, text string) string {
	extracted := m.schema.Extract(text, sess.Slots)
	extracted = m.schema.FillPending(sess.PendingSlot, text, sess.Slots, extracted)
	for name, val := range extracted {
		if sess.Slots[name] == "" {
			sess.Slots[name] = val
		}
	}

	missing := m.schema.Missing(sess.Slots)
	if len(missing) == 0 {
		sess.State = session.StateReady
		sess.PendingSlot = ""
		sess.PendingQuestion = ""
		return ""
	}

	next, _ := m.schema.Get(missing[0])
	sess.State = session.StateCollecting
	sess.PendingSlot = next.Name
	sess.PendingQuestion = next.Question
	return next.Question
}
