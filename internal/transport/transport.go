package transport

import "context"

// Receipt is the provider acknowledgement for one send.
type Receipt struct {
	MessageID string `json:"messageId"`
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// EmailTransport abstracts the email provider. senderIdentity is the
// channel identity (tenant-configured or the process-wide default) the
// provider sends on behalf of.
//
// Mocking these interfaces in tests gives full control over provider
// behaviour without making real HTTP calls.
type EmailTransport interface {
	SendEmail(ctx context.Context, senderIdentity string, to []string, subject, body string) (*Receipt, error)
}

// TopicTransport abstracts the bulk-message provider. Publish fans out to
// every subscriber of the topic; there is no point-to-point destination.
type TopicTransport interface {
	Publish(ctx context.Context, topic, message string) (*Receipt, error)
}
