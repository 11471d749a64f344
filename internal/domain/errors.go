package domain

import "errors"

// Sentinel errors used throughout the application.
// The worker converts every processing error into a failed audit record at
// the processor boundary; only ErrQueuePoll ever reaches the poll loop.
// HTTP handlers translate the API-side errors to status codes via a single
// mapError function.
var (
	// Worker-side taxonomy.
	ErrInvalidArgument    = errors.New("invalid argument")
	ErrMalformedMessage   = errors.New("malformed message body")
	ErrConfigNotFound     = errors.New("application config not found")
	ErrNoRecipient        = errors.New("no usable recipient for message")
	ErrMissingField       = errors.New("required message field is empty")
	ErrUnsupportedChannel = errors.New("unsupported output type")
	ErrTransport          = errors.New("transport send failed")
	ErrAuditWrite         = errors.New("audit record write failed")
	ErrQueuePoll          = errors.New("queue poll failed")

	// API-side taxonomy.
	ErrNotFound         = errors.New("not found")
	ErrConflict         = errors.New("conflict: application already registered")
	ErrInvalidChannel   = errors.New("invalid output type: must be EMAIL, SMS, or PUSH")
	ErrInvalidRecipient = errors.New("missing delivery target for output type")
	ErrEmptyMessage     = errors.New("message must not be empty")
	ErrInvalidInterval  = errors.New("interval value out of range")

	ErrInvalidApplicationID   = errors.New("application_id must not be empty")
	ErrInvalidApplicationName = errors.New("name must not be empty")
	ErrInvalidContactEmail    = errors.New("contact_email must not be empty")
)
