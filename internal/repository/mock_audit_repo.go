package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
)

// MockAuditStore is an in-memory AuditStore used in unit tests.
type MockAuditStore struct {
	mu      sync.Mutex
	records []*domain.AuditRecord

	// Set in tests to simulate audit storage unavailability.
	RecordErr error
}

func NewMockAuditStore() *MockAuditStore {
	return &MockAuditStore{}
}

func (m *MockAuditStore) Record(_ context.Context, rec *domain.AuditRecord) error {
	if m.RecordErr != nil {
		return fmt.Errorf("%w: %v", domain.ErrAuditWrite, m.RecordErr)
	}
	if rec.ApplicationID == "" || !rec.Status.IsValid() {
		return fmt.Errorf("%w: audit record needs application_id and a valid status", domain.ErrInvalidArgument)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *rec
	m.records = append(m.records, &clone)
	return nil
}

func (m *MockAuditStore) List(_ context.Context, f domain.AuditFilter) ([]*domain.AuditRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*domain.AuditRecord
	for _, rec := range m.records {
		if rec.ApplicationID != f.ApplicationID {
			continue
		}
		if f.Status != nil && rec.Status != *f.Status {
			continue
		}
		clone := *rec
		out = append(out, &clone)
	}
	return out, nil
}

// Records returns a snapshot of everything recorded so far.
func (m *MockAuditStore) Records() []*domain.AuditRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*domain.AuditRecord, len(m.records))
	copy(out, m.records)
	return out
}

// compile-time check
var _ AuditStore = (*MockAuditStore)(nil)
