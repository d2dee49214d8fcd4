package data

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/lk2023060901/filecdn-backend/internal/upload/biz"
)

// Notification event types sent to the webhook.
const (
	eventPending      = "pending"
	eventClearPending = "clear_pending"
	eventOutcome      = "outcome"
	eventMessage      = "message"
)

// webhookEvent is the JSON body posted for every status signal.
type webhookEvent struct {
	Type      string `json:"type"`
	ChannelID string `json:"channel_id,omitempty"`
	MessageTS string `json:"message_ts,omitempty"`
	Outcome   string `json:"outcome,omitempty"`
	Text      string `json:"text,omitempty"`
}

// WebhookNotifier posts status signals to a configured webhook. With
// an empty URL every call is a no-op, which keeps the pipeline usable
// without a chat integration.
type WebhookNotifier struct {
	client *http.Client
	url    string
}

func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebhookNotifier{
		client: &http.Client{Timeout: timeout},
		url:    url,
	}
}

func (n *WebhookNotifier) MarkPending(ctx context.Context, src biz.SourceContext) error {
	return n.post(ctx, webhookEvent{Type: eventPending, ChannelID: src.ChannelID, MessageTS: src.MessageTS})
}

func (n *WebhookNotifier) ClearPending(ctx context.Context, src biz.SourceContext) error {
	return n.post(ctx, webhookEvent{Type: eventClearPending, ChannelID: src.ChannelID, MessageTS: src.MessageTS})
}

func (n *WebhookNotifier) MarkOutcome(ctx context.Context, src biz.SourceContext, outcome biz.GroupOutcome) error {
	return n.post(ctx, webhookEvent{Type: eventOutcome, ChannelID: src.ChannelID, MessageTS: src.MessageTS, Outcome: string(outcome)})
}

func (n *WebhookNotifier) SendMessage(ctx context.Context, src biz.SourceContext, text string) error {
	return n.post(ctx, webhookEvent{Type: eventMessage, ChannelID: src.ChannelID, MessageTS: src.MessageTS, Text: text})
}

func (n *WebhookNotifier) post(ctx context.Context, event webhookEvent) error {
	if n.url == "" {
		return nil
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode webhook event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post webhook event: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
