package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// Notifier pushes an out-of-band message to a user on the chat platform.
type Notifier interface {
	Send(ctx context.Context, userHandle, text string) error
}

// RocketChatNotifier posts messages through a Rocket.Chat incoming webhook.
type RocketChatNotifier struct {
	WebhookURL string
	HTTPClient *http.Client
}

func NewRocketChatNotifier(webhookURL string, timeout time.Duration) *RocketChatNotifier {
	return &RocketChatNotifier{
		WebhookURL: webhookURL,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

type webhookPayload struct {
	Channel string `json:"channel,omitempty"`
	Text    string `json:"text"`
}

// Send delivers text to userHandle as a direct message. A handle starting
// with "@" is used as-is, otherwise the prefix is added.
func (n *RocketChatNotifier) Send(ctx context.Context, userHandle, text string) error {
	channel := userHandle
	if channel != "" && channel[0] != '@' {
		channel = "@" + channel
	}

	payload, err := json.Marshal(webhookPayload{Channel: channel, Text: text})
	if err != nil {
		return fmt.Errorf("failed to encode webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", n.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("webhook returned status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}
