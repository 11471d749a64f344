package domain_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
)

func TestParseMessage_Valid(t *testing.T) {
	body := `{"Application":"acme","OutputType":"sms","Message":"hi","PhoneNumber":"+15551234567"}`

	msg, err := domain.ParseMessage([]byte(body))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.Application != "acme" {
		t.Fatalf("expected application=acme, got %s", msg.Application)
	}
	if msg.Channel() != domain.ChannelSMS {
		t.Fatalf("expected channel normalized to SMS, got %s", msg.Channel())
	}
}

func TestParseMessage_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unparsable body", `{not json`},
		{"empty body", ``},
		{"missing application", `{"OutputType":"SMS","Message":"hi"}`},
		{"wrong type for application", `{"Application":42}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.ParseMessage([]byte(tc.body))
			if !errors.Is(err, domain.ErrMalformedMessage) {
				t.Fatalf("expected ErrMalformedMessage, got %v", err)
			}
		})
	}
}

func TestStringList_AcceptsBareString(t *testing.T) {
	msg, err := domain.ParseMessage([]byte(
		`{"Application":"acme","OutputType":"EMAIL","EmailAddresses":"solo@x.com","Subject":"s","Message":"m"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual([]string(msg.EmailAddresses), []string{"solo@x.com"}) {
		t.Fatalf("expected one-element list, got %v", msg.EmailAddresses)
	}
}

func TestStringList_NullEntriesDecodeEmpty(t *testing.T) {
	msg, err := domain.ParseMessage([]byte(
		`{"Application":"acme","OutputType":"EMAIL","EmailAddresses":[null,"a@x.com"],"Subject":"s","Message":"m"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual([]string(msg.EmailAddresses), []string{"", "a@x.com"}) {
		t.Fatalf("expected null to decode as empty string, got %v", msg.EmailAddresses)
	}
}

func TestEmailRecipients(t *testing.T) {
	tests := []struct {
		name      string
		addresses domain.StringList
		recipient string
		want      []string
	}{
		{"uses provided addresses", domain.StringList{"a@x.com", "b@x.com"}, "fallback@x.com", []string{"a@x.com", "b@x.com"}},
		{"filters empty entries", domain.StringList{"", "a@x.com"}, "fallback@x.com", []string{"a@x.com"}},
		{"null-only falls back to recipient", domain.StringList{""}, "fallback@x.com", []string{"fallback@x.com"}},
		{"nil list falls back to recipient", nil, "fallback@x.com", []string{"fallback@x.com"}},
		{"nothing usable", domain.StringList{""}, "", []string{}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			msg := &domain.NotificationMessage{
				EmailAddresses: tc.addresses,
				Recipient:      tc.recipient,
			}
			got := msg.EmailRecipients()
			if len(got) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, got)
			}
			for i := range got {
				if got[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, got)
				}
			}
		})
	}
}

func TestBroadcastTarget(t *testing.T) {
	msg := &domain.NotificationMessage{PhoneNumber: "+15551234567", PushToken: "tok"}
	if got := msg.BroadcastTarget(); got != "+15551234567" {
		t.Fatalf("expected phone number preferred, got %s", got)
	}
	msg.PhoneNumber = ""
	if got := msg.BroadcastTarget(); got != "tok" {
		t.Fatalf("expected push token fallback, got %s", got)
	}
}

func TestNotificationMessage_Validate(t *testing.T) {
	valid := domain.NotificationMessage{
		Application: "acme",
		OutputType:  "SMS",
		Message:     "hi",
		PhoneNumber: "+15551234567",
	}

	tests := []struct {
		name    string
		mutate  func(m *domain.NotificationMessage)
		wantErr error
	}{
		{"valid sms", func(m *domain.NotificationMessage) {}, nil},
		{"lowercase output type accepted", func(m *domain.NotificationMessage) { m.OutputType = "sms" }, nil},
		{"missing application", func(m *domain.NotificationMessage) { m.Application = "" }, domain.ErrInvalidArgument},
		{"invalid channel", func(m *domain.NotificationMessage) { m.OutputType = "FAX" }, domain.ErrInvalidChannel},
		{"empty message", func(m *domain.NotificationMessage) { m.Message = "" }, domain.ErrEmptyMessage},
		{"sms without phone", func(m *domain.NotificationMessage) { m.PhoneNumber = "" }, domain.ErrInvalidRecipient},
		{"push without token", func(m *domain.NotificationMessage) {
			m.OutputType = "PUSH"
			m.PhoneNumber = ""
		}, domain.ErrInvalidRecipient},
		{"email without addresses", func(m *domain.NotificationMessage) {
			m.OutputType = "EMAIL"
			m.Subject = "s"
		}, domain.ErrInvalidRecipient},
		{"interval out of range", func(m *domain.NotificationMessage) {
			m.Interval = &domain.Interval{Days: []int{32}}
		}, domain.ErrInvalidInterval},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := valid
			tc.mutate(&m)
			err := m.Validate()
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestInterval_Validate(t *testing.T) {
	tests := []struct {
		name     string
		interval domain.Interval
		wantErr  bool
	}{
		{"empty interval", domain.Interval{}, false},
		{"valid bounds", domain.Interval{Days: []int{1, 31}, Weeks: []int{52}, Months: []int{12}, Years: []int{2026}}, false},
		{"day too large", domain.Interval{Days: []int{32}}, true},
		{"week zero", domain.Interval{Weeks: []int{0}}, true},
		{"month too large", domain.Interval{Months: []int{13}}, true},
		{"year before epoch", domain.Interval{Years: []int{1969}}, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.interval.Validate()
			if tc.wantErr != (err != nil) {
				t.Fatalf("wantErr=%v, got %v", tc.wantErr, err)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidInterval) {
				t.Fatalf("expected ErrInvalidInterval, got %v", err)
			}
		})
	}
}
