package dialogue

import (
	"testing"

	"moodlist/internal/session"
	"moodlist/internal/slots"
)

func TestAdvance_FirstMessageAsksNextMissingSlot(t *testing.T) {
	m := NewMachine(slots.DefaultSchema())
	sess := session.New("u1")

	q := m.Advance(sess, "I'm feeling happy")
	if q == "" {
		t.Fatalf("expected a clarifying question")
	}
	if sess.Slots[slots.SlotSituation] != "happy" {
		t.Errorf("expected situation=happy, got %v", sess.Slots)
	}
	if sess.PendingSlot != slots.SlotAge {
		t.Errorf("expected next question to target age, got %s", sess.PendingSlot)
	}
	if sess.State != session.StateCollecting {
		t.Errorf("expected COLLECTING, got %s", sess.State)
	}
}

func TestAdvance_NeverReasksSlotAnsweredSameTurn(t *testing.T) {
	m := NewMachine(slots.DefaultSchema())
	sess := session.New("u1")

	m.Advance(sess, "I'm feeling sad, I'm 30 years old and I like rock")
	if sess.PendingSlot == slots.SlotSituation || sess.PendingSlot == slots.SlotAge || sess.PendingSlot == slots.SlotGenre {
		t.Errorf("machine re-asked a slot answered this turn: %s", sess.PendingSlot)
	}
	if sess.PendingSlot != slots.SlotLocation {
		t.Errorf("expected location to be asked next, got %s", sess.PendingSlot)
	}
}

func TestAdvance_MonotonicProgress(t *testing.T) {
	m := NewMachine(slots.DefaultSchema())
	sess := session.New("u1")

	messages := []string{
		"I'm feeling anxious",
		"27",
		"Berlin",
		"ambient please",
		"something slow with piano",
	}
	prev := 0
	for _, msg := range messages {
		m.Advance(sess, msg)
		if len(sess.Slots) < prev {
			t.Fatalf("filled slot count decreased after %q: %v", msg, sess.Slots)
		}
		prev = len(sess.Slots)
	}
	if sess.State != session.StateReady {
		t.Errorf("expected READY after all slots filled, state=%s slots=%v", sess.State, sess.Slots)
	}
}

func TestAdvance_ReadyWhenAllSlotsPresent(t *testing.T) {
	m := NewMachine(slots.DefaultSchema())
	sess := session.New("u1")
	sess.Slots = map[string]string{
		slots.SlotSituation:  "happy",
		slots.SlotAge:        "24",
		slots.SlotLocation:   "Boston",
		slots.SlotGenre:      "pop",
		slots.SlotPreference: "upbeat",
	}

	q := m.Advance(sess, "go ahead")
	if q != "" {
		t.Errorf("expected no question, got %q", q)
	}
	if sess.State != session.StateReady {
		t.Errorf("expected READY, got %s", sess.State)
	}
	if sess.PendingSlot != "" || sess.PendingQuestion != "" {
		t.Errorf("expected pending question cleared, got %s/%s", sess.PendingSlot, sess.PendingQuestion)
	}
}

func TestAdvance_UnrecognizedTextRepeatsQuestion(t *testing.T) {
	m := NewMachine(slots.DefaultSchema())
	sess := session.New("u1")

	m.Advance(sess, "I'm feeling happy")
	before := len(sess.Slots)
	q := m.Advance(sess, "hmm let me think")
	if q == "" {
		t.Fatalf("expected the machine to keep asking")
	}
	if len(sess.Slots) != before {
		t.Errorf("unrecognized text must not change slots: %v", sess.Slots)
	}
	if sess.PendingSlot != slots.SlotAge {
		t.Errorf("expected age still pending, got %s", sess.PendingSlot)
	}
}
