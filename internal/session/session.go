package session

import "time"

// State is the current position of a conversation in the dialogue flow.
type State string

const (
	StateCollecting     State = "COLLECTING"
	StateReady          State = "READY"
	StateDispatching    State = "DISPATCHING"
	StateAwaitingReview State = "AWAITING_REVIEW"
	StateDone           State = "DONE"
	StateError          State = "ERROR"
)

// Output is the terminal result of the last dispatch cycle, kept on the
// session so a user can retry after an external failure without re-filling
// slots.
type Output struct {
	Success    bool     `json:"success"`
	URL        string   `json:"url,omitempty"`
	TrackIDs   []string `json:"track_ids,omitempty"`
	TrackNames []string `json:"track_names,omitempty"`
	Error      string   `json:"error,omitempty"`
}

// Session holds the per-user slot state accumulated across turns.
// Slots, once set, are never overwritten for the lifetime of the session.
type Session struct {
	UserID          string            `json:"user_id"`
	Slots           map[string]string `json:"slots"`
	State           State             `json:"state"`
	PendingSlot     string            `json:"pending_slot,omitempty"`
	PendingQuestion string            `json:"pending_question,omitempty"`
	LastOutput      *Output           `json:"last_output,omitempty"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// New returns a fresh collecting-state session for the given user.
func New(userID string) *Session {
	return &Session{
		UserID:    userID,
		Slots:     make(map[string]string),
		State:     StateCollecting,
		UpdatedAt: time.Now(),
	}
}
