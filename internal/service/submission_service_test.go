package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/broker"
	"github.com/projectdolphin/notification-pipeline/internal/domain"
	"github.com/projectdolphin/notification-pipeline/internal/service"
)

func TestSubmissionService_Submit(t *testing.T) {
	queue := broker.NewMockQueue()
	svc := service.NewSubmissionService(queue, zap.NewNop())

	msg := &domain.NotificationMessage{
		Application: "acme",
		OutputType:  "SMS",
		Message:     "hello",
		PhoneNumber: "+15551234567",
	}
	if err := svc.Submit(context.Background(), msg); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	if len(queue.Enqueued) != 1 {
		t.Fatalf("expected 1 enqueued message, got %d", len(queue.Enqueued))
	}

	// The enqueued body must be the exact wire schema the worker parses.
	parsed, err := domain.ParseMessage([]byte(queue.Enqueued[0]))
	if err != nil {
		t.Fatalf("enqueued body does not round-trip: %v", err)
	}
	if parsed.Application != "acme" || parsed.Channel() != domain.ChannelSMS {
		t.Fatalf("unexpected round-trip result: %+v", parsed)
	}
}

func TestSubmissionService_SubmitRejectsInvalid(t *testing.T) {
	tests := []struct {
		name    string
		msg     *domain.NotificationMessage
		wantErr error
	}{
		{
			name:    "missing application",
			msg:     &domain.NotificationMessage{OutputType: "SMS", Message: "hi", PhoneNumber: "+1555"},
			wantErr: domain.ErrInvalidArgument,
		},
		{
			name:    "unknown channel",
			msg:     &domain.NotificationMessage{Application: "acme", OutputType: "CARRIER_PIGEON", Message: "hi"},
			wantErr: domain.ErrInvalidChannel,
		},
		{
			name:    "empty message",
			msg:     &domain.NotificationMessage{Application: "acme", OutputType: "SMS", PhoneNumber: "+1555"},
			wantErr: domain.ErrEmptyMessage,
		},
		{
			name:    "sms without phone number",
			msg:     &domain.NotificationMessage{Application: "acme", OutputType: "SMS", Message: "hi"},
			wantErr: domain.ErrInvalidRecipient,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			queue := broker.NewMockQueue()
			svc := service.NewSubmissionService(queue, zap.NewNop())

			err := svc.Submit(context.Background(), tc.msg)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("Submit() error = %v, want %v", err, tc.wantErr)
			}
			if len(queue.Enqueued) != 0 {
				t.Fatal("invalid message must not be enqueued")
			}
		})
	}
}

func TestSubmissionService_SubmitPreservesScheduling(t *testing.T) {
	queue := broker.NewMockQueue()
	svc := service.NewSubmissionService(queue, zap.NewNop())

	msg := &domain.NotificationMessage{
		Application:    "acme",
		OutputType:     "EMAIL",
		Subject:        "Reminder",
		Message:        "hello",
		EmailAddresses: domain.StringList{"user@x.com"},
		Date:           "2026-09-01",
		Time:           "09:00",
		Interval:       &domain.Interval{Days: []int{7}},
	}
	if err := svc.Submit(context.Background(), msg); err != nil {
		t.Fatalf("Submit() error = %v", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal([]byte(queue.Enqueued[0]), &raw); err != nil {
		t.Fatalf("unmarshal enqueued body: %v", err)
	}
	for _, field := range []string{"Date", "Time", "Interval"} {
		if _, ok := raw[field]; !ok {
			t.Fatalf("scheduling field %s dropped from wire body", field)
		}
	}
}

type failingProducer struct{ err error }

func (f *failingProducer) Enqueue(context.Context, []byte) error { return f.err }

func TestSubmissionService_SubmitEnqueueFailure(t *testing.T) {
	cause := errors.New("broker unavailable")
	svc := service.NewSubmissionService(&failingProducer{err: cause}, zap.NewNop())

	msg := &domain.NotificationMessage{
		Application: "acme",
		OutputType:  "SMS",
		Message:     "hi",
		PhoneNumber: "+15551234567",
	}
	if err := svc.Submit(context.Background(), msg); !errors.Is(err, cause) {
		t.Fatalf("Submit() error = %v, want wrapped %v", err, cause)
	}
}
