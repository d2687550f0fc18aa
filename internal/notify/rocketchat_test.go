package notify

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestSendPostsWebhookPayload(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &got); err != nil {
			t.Errorf("invalid payload: %v", err)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewRocketChatNotifier(srv.URL, time.Second)
	if err := n.Send(context.Background(), "alice", "playlist ready"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Channel != "@alice" {
		t.Errorf("expected channel @alice, got %q", got.Channel)
	}
	if got.Text != "playlist ready" {
		t.Errorf("unexpected text %q", got.Text)
	}
}

func TestSendKeepsExistingAtPrefix(t *testing.T) {
	var got webhookPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		json.Unmarshal(body, &got)
	}))
	defer srv.Close()

	n := NewRocketChatNotifier(srv.URL, time.Second)
	if err := n.Send(context.Background(), "@bob", "hi"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Channel != "@bob" {
		t.Errorf("expected channel @bob, got %q", got.Channel)
	}
}

func TestSendRejectsNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad token", http.StatusUnauthorized)
	}))
	defer srv.Close()

	n := NewRocketChatNotifier(srv.URL, time.Second)
	if err := n.Send(context.Background(), "alice", "hi"); err == nil {
		t.Fatal("expected error for 401 response")
	}
}
