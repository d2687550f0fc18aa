package dialogue

import (
	"context"
	"strings"

	"moodlist/internal/llm"
)

// ApprovalSentinel is the exact model reply that counts as approval. Any
// other text is treated as revision feedback.
const ApprovalSentinel = "$$EXIT$$"

// reviewRetryLimit bounds review-triggered re-generations to one.
const reviewRetryLimit = 1

// Verdict is one review outcome. It lives for a single dispatch cycle and is
// never persisted.
type Verdict struct {
	Approved bool
	Feedback string
}

// Reviewer asks the model to judge a dispatched playlist against the user's
// collected context.
type Reviewer struct {
	gen llm.Generator
}

func NewReviewer(gen llm.Generator) *Reviewer {
	return &Reviewer{gen: gen}
}

func (r *Reviewer) Review(ctx context.Context, slotValues map[string]string, trackNames []string) (Verdict, error) {
	reply, err := r.gen.Generate(ctx, reviewSystemPrompt, buildReviewQuery(slotValues, trackNames))
	if err != nil {
		return Verdict{}, err
	}
	trimmed := strings.TrimSpace(reply)
	if trimmed == ApprovalSentinel {
		return Verdict{Approved: true}, nil
	}
	return Verdict{Feedback: trimmed}, nil
}
