package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
)

type pgAuditStore struct {
	pool *pgxpool.Pool
}

// NewPgAuditStore returns an AuditStore backed by PostgreSQL.
func NewPgAuditStore(pool *pgxpool.Pool) AuditStore {
	return &pgAuditStore{pool: pool}
}

func (s *pgAuditStore) Record(ctx context.Context, rec *domain.AuditRecord) error {
	if rec.ApplicationID == "" || !rec.Status.IsValid() {
		return fmt.Errorf("%w: audit record needs application_id and a valid status", domain.ErrInvalidArgument)
	}

	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_records (id, application_id, recorded_at, status, payload, error)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		rec.ID, rec.ApplicationID, rec.Timestamp, rec.Status, rec.Payload, rec.Error,
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrAuditWrite, err)
	}
	return nil
}

func (s *pgAuditStore) List(ctx context.Context, f domain.AuditFilter) ([]*domain.AuditRecord, error) {
	limit := f.Limit
	if limit <= 0 || limit > 1000 {
		limit = 100
	}

	query := `
		SELECT id, application_id, recorded_at, status, payload, error
		FROM audit_records
		WHERE application_id = $1`
	args := []any{f.ApplicationID}
	if f.Status != nil {
		query += ` AND status = $2`
		args = append(args, *f.Status)
	}
	query += fmt.Sprintf(` ORDER BY recorded_at DESC LIMIT %d`, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list audit records: %w", err)
	}
	defer rows.Close()

	var records []*domain.AuditRecord
	for rows.Next() {
		var rec domain.AuditRecord
		if err := rows.Scan(&rec.ID, &rec.ApplicationID, &rec.Timestamp,
			&rec.Status, &rec.Payload, &rec.Error); err != nil {
			return nil, fmt.Errorf("scan audit record: %w", err)
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}
