package dialogue

import (
	"context"
	"errors"
	"testing"
)

func TestReview_ApprovalSentinelExactMatch(t *testing.T) {
	gen := &fakeGenerator{responses: []string{"  $$EXIT$$\n"}}
	r := NewReviewer(gen)

	v, err := r.Review(context.Background(), map[string]string{"situation": "happy"}, []string{"Song by Artist"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.Approved {
		t.Errorf("expected approval for sentinel reply")
	}
}

func TestReview_AnyOtherTextIsFeedback(t *testing.T) {
	for _, reply := range []string{
		"$$EXIT$$ looks great!",
		"Needs more upbeat tracks.",
		"exit",
		"",
	} {
		gen := &fakeGenerator{responses: []string{reply}}
		v, err := NewReviewer(gen).Review(context.Background(), nil, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v.Approved {
			t.Errorf("reply %q must not count as approval", reply)
		}
	}
}

func TestReview_GeneratorErrorPropagates(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model down")}
	_, err := NewReviewer(gen).Review(context.Background(), nil, nil)
	if err == nil {
		t.Errorf("expected error from failed review call")
	}
}
