package domain

import "time"

// AuditStatus is the terminal verdict recorded for one processing attempt.
type AuditStatus string

const (
	AuditDelivered AuditStatus = "delivered"
	AuditFailed    AuditStatus = "failed"
)

func (s AuditStatus) IsValid() bool {
	return s == AuditDelivered || s == AuditFailed
}

// AuditRecord is one append-only processing outcome. Retries of the same
// queue message produce additional records; nothing is ever updated or
// deleted.
type AuditRecord struct {
	ID            string      `json:"id"`
	ApplicationID string      `json:"application_id"`
	Timestamp     time.Time   `json:"timestamp"`
	Status        AuditStatus `json:"status"`
	Payload       string      `json:"payload"`
	Error         *string     `json:"error,omitempty"`
}

// AuditFilter holds query parameters for the audit listing endpoint.
type AuditFilter struct {
	ApplicationID string
	Status        *AuditStatus
	Limit         int
}
