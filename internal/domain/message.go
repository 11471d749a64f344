package domain

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Channel is the delivery channel for a notification.
// OutputType values are case-insensitive on input and normalized to upper.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
	ChannelPush  Channel = "PUSH"
)

func (c Channel) IsValid() bool {
	switch c {
	case ChannelEmail, ChannelSMS, ChannelPush:
		return true
	}
	return false
}

// StringList tolerates the two shapes producers have been observed to send
// for EmailAddresses: a JSON array (possibly containing nulls) or a bare
// JSON string, which is normalized into a one-element list. Null entries
// decode as empty strings and are filtered later, at recipient resolution.
type StringList []string

func (l *StringList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*l = StringList{single}
		return nil
	}

	var entries []*string
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}
	out := make(StringList, 0, len(entries))
	for _, e := range entries {
		if e == nil {
			out = append(out, "")
			continue
		}
		out = append(out, *e)
	}
	*l = out
	return nil
}

// NotificationMessage is the unit of work pulled from the queue. Field names
// mirror the wire schema the submission API produces; the worker treats the
// queued body as immutable and only derives its own records from it.
type NotificationMessage struct {
	Application    string     `json:"Application"`
	OutputType     string     `json:"OutputType"`
	Subject        string     `json:"Subject,omitempty"`
	Message        string     `json:"Message"`
	Recipient      string     `json:"Recipient,omitempty"`
	EmailAddresses StringList `json:"EmailAddresses,omitempty"`
	PhoneNumber    string     `json:"PhoneNumber,omitempty"`
	PushToken      string     `json:"PushToken,omitempty"`
	Date           string     `json:"Date,omitempty"`
	Time           string     `json:"Time,omitempty"`
	Interval       *Interval  `json:"Interval,omitempty"`
}

// ParseMessage deserializes a raw queue body into a typed message.
// An unparsable body or a missing Application yields ErrMalformedMessage;
// a partially-populated message is never returned.
func ParseMessage(body []byte) (*NotificationMessage, error) {
	var m NotificationMessage
	if err := json.Unmarshal(body, &m); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMessage, err)
	}
	if m.Application == "" {
		return nil, fmt.Errorf("%w: missing Application", ErrMalformedMessage)
	}
	return &m, nil
}

// Channel returns the delivery channel with the upper-case normalization
// applied. The result may be invalid; the dispatcher rejects those.
func (m *NotificationMessage) Channel() Channel {
	return Channel(strings.ToUpper(m.OutputType))
}

// EmailRecipients resolves the address list for the EMAIL path: null and
// empty entries are filtered out of EmailAddresses first, and only if
// nothing survives does Recipient serve as the single fallback address.
func (m *NotificationMessage) EmailRecipients() []string {
	out := make([]string, 0, len(m.EmailAddresses))
	for _, a := range m.EmailAddresses {
		if a != "" {
			out = append(out, a)
		}
	}
	if len(out) == 0 && m.Recipient != "" {
		return []string{m.Recipient}
	}
	return out
}

// BroadcastTarget is the display value logged for SMS/PUSH deliveries.
// It is informational only: those channels publish to a topic, not to the
// individual phone number or push token.
func (m *NotificationMessage) BroadcastTarget() string {
	if m.PhoneNumber != "" {
		return m.PhoneNumber
	}
	return m.PushToken
}

// Validate applies the submission-time rules: a registered application, a
// valid channel, a non-empty message, the channel-specific delivery target,
// and in-range interval values. The worker does not call this; queued
// bodies are re-validated only as far as processing requires.
func (m *NotificationMessage) Validate() error {
	if m.Application == "" {
		return fmt.Errorf("%w: Application is required", ErrInvalidArgument)
	}
	if !m.Channel().IsValid() {
		return ErrInvalidChannel
	}
	if m.Message == "" {
		return ErrEmptyMessage
	}

	switch m.Channel() {
	case ChannelSMS:
		if m.PhoneNumber == "" {
			return fmt.Errorf("%w: PhoneNumber is required for SMS", ErrInvalidRecipient)
		}
	case ChannelEmail:
		if len(m.EmailAddresses) == 0 {
			return fmt.Errorf("%w: EmailAddresses is required for EMAIL", ErrInvalidRecipient)
		}
	case ChannelPush:
		if m.PushToken == "" {
			return fmt.Errorf("%w: PushToken is required for PUSH", ErrInvalidRecipient)
		}
	}

	if m.Interval != nil {
		if err := m.Interval.Validate(); err != nil {
			return err
		}
	}
	return nil
}
