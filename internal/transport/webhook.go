package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// emailRequest is the JSON body posted to the email provider endpoint.
type emailRequest struct {
	Sender  string   `json:"sender"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	Body    string   `json:"body"`
}

// publishRequest is the JSON body posted to the bulk-message endpoint.
type publishRequest struct {
	Topic   string `json:"topic"`
	Message string `json:"message"`
}

// WebhookTransport delivers through an HTTP notification provider: one
// endpoint for email sends, one for topic publishes. Both are expected to
// answer 202 Accepted with a JSON receipt. The URLs are injected from
// config so tests can point to a local mock.
type WebhookTransport struct {
	emailURL   string
	topicURL   string
	httpClient *http.Client
}

func NewWebhookTransport(emailURL, topicURL string, timeout time.Duration) *WebhookTransport {
	return &WebhookTransport{
		emailURL: emailURL,
		topicURL: topicURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (t *WebhookTransport) SendEmail(ctx context.Context, senderIdentity string, to []string, subject, body string) (*Receipt, error) {
	return t.post(ctx, t.emailURL, emailRequest{
		Sender:  senderIdentity,
		To:      to,
		Subject: subject,
		Body:    body,
	})
}

func (t *WebhookTransport) Publish(ctx context.Context, topic, message string) (*Receipt, error) {
	return t.post(ctx, t.topicURL, publishRequest{
		Topic:   topic,
		Message: message,
	})
}

func (t *WebhookTransport) post(ctx context.Context, url string, payload any) (*Receipt, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusAccepted {
		return nil, fmt.Errorf("unexpected provider status: %d", resp.StatusCode)
	}

	var receipt Receipt
	if err := json.NewDecoder(resp.Body).Decode(&receipt); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &receipt, nil
}

// compile-time checks that WebhookTransport implements both transports
var (
	_ EmailTransport = (*WebhookTransport)(nil)
	_ TopicTransport = (*WebhookTransport)(nil)
)
