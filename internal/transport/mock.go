package transport

import (
	"context"
	"sync"
)

// MockTransport records every send for inspection in unit tests.
type MockTransport struct {
	mu sync.Mutex

	EmailCalls []EmailCall
	Publishes  []PublishCall

	SendEmailErr error
	PublishErr   error
}

type EmailCall struct {
	Sender  string
	To      []string
	Subject string
	Body    string
}

type PublishCall struct {
	Topic   string
	Message string
}

func NewMockTransport() *MockTransport {
	return &MockTransport{}
}

func (m *MockTransport) SendEmail(_ context.Context, senderIdentity string, to []string, subject, body string) (*Receipt, error) {
	if m.SendEmailErr != nil {
		return nil, m.SendEmailErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EmailCalls = append(m.EmailCalls, EmailCall{
		Sender: senderIdentity, To: to, Subject: subject, Body: body,
	})
	return &Receipt{MessageID: "mock-email", Status: "accepted"}, nil
}

func (m *MockTransport) Publish(_ context.Context, topic, message string) (*Receipt, error) {
	if m.PublishErr != nil {
		return nil, m.PublishErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Publishes = append(m.Publishes, PublishCall{Topic: topic, Message: message})
	return &Receipt{MessageID: "mock-publish", Status: "accepted"}, nil
}

// compile-time checks
var (
	_ EmailTransport = (*MockTransport)(nil)
	_ TopicTransport = (*MockTransport)(nil)
)
