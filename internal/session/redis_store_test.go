package session

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// unreachableClient returns a client whose commands fail fast, for exercising
// the degrade-to-fresh paths without a live backend.
func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestDecodeSession_RoundTrip(t *testing.T) {
	src := New("u1")
	src.Slots["genre"] = "pop"
	src.State = StateReady
	raw, err := json.Marshal(src)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	got := decodeSession(raw, "u1")
	if got.UserID != "u1" || got.State != StateReady || got.Slots["genre"] != "pop" {
		t.Errorf("unexpected decoded session: %+v", got)
	}
}

func TestDecodeSession_CorruptPayloadResets(t *testing.T) {
	got := decodeSession([]byte(`{not json`), "u1")
	if got.UserID != "u1" || got.State != StateCollecting || len(got.Slots) != 0 {
		t.Errorf("expected fresh session for corrupt payload, got %+v", got)
	}
}

func TestDecodeSession_NilSlotsNormalized(t *testing.T) {
	got := decodeSession([]byte(`{"user_id":"u1","state":"COLLECTING"}`), "u1")
	if got.Slots == nil {
		t.Errorf("expected initialized slot map")
	}
}

func TestRedisStore_KeyLockSurvivesRemove(t *testing.T) {
	s := NewRedisStore(unreachableClient(), time.Minute)
	before := s.keyLock("u1")
	s.Remove("u1")
	after := s.keyLock("u1")
	if before != after {
		t.Errorf("Remove must not replace the per-key mutex")
	}
}

func TestRedisStore_UnreachableBackendDegradesToFresh(t *testing.T) {
	s := NewRedisStore(unreachableClient(), time.Minute)

	got := s.GetOrCreate("u1")
	if got.UserID != "u1" || got.State != StateCollecting {
		t.Errorf("expected fresh session when the backend is unreachable, got %+v", got)
	}

	ran := false
	s.Update("u1", func(sess *Session) {
		ran = true
		sess.Slots["genre"] = "pop"
	})
	if !ran {
		t.Errorf("Update must still run fn against a fresh session")
	}
}
