package repository

import (
	"context"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
)

// AuditStore is the append-only outcome log. Record is best-effort from the
// processor's perspective: a storage failure surfaces as ErrAuditWrite and
// must never change an already-determined delivery verdict.
type AuditStore interface {
	Record(ctx context.Context, rec *domain.AuditRecord) error
	List(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, error)
}
