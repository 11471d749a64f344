package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
)

type pgApplicationRepository struct {
	pool *pgxpool.Pool
}

// NewPgApplicationRepository returns an ApplicationRepository backed by PostgreSQL.
func NewPgApplicationRepository(pool *pgxpool.Pool) ApplicationRepository {
	return &pgApplicationRepository{pool: pool}
}

// Resolve fetches the delivery routing subset for the worker.
func (r *pgApplicationRepository) Resolve(ctx context.Context, applicationID string) (*domain.TenantDeliveryConfig, error) {
	if applicationID == "" {
		return nil, fmt.Errorf("%w: applicationID must not be empty", domain.ErrInvalidArgument)
	}

	var cfg domain.TenantDeliveryConfig
	var sender, topic *string
	err := r.pool.QueryRow(ctx, `
		SELECT application_id, email_sender_identity, bulk_message_topic
		FROM applications WHERE application_id = $1`, applicationID,
	).Scan(&cfg.ApplicationID, &sender, &topic)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("resolve application config: %w", err)
	}

	if sender != nil {
		cfg.EmailSenderIdentity = *sender
	}
	if topic != nil {
		cfg.BulkMessageTopic = *topic
	}
	return &cfg, nil
}

func (r *pgApplicationRepository) Create(ctx context.Context, app *domain.Application) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO applications
			(application_id, name, contact_email, domain,
			 email_sender_identity, bulk_message_topic, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`,
		app.ApplicationID, app.Name, app.ContactEmail, app.Domain,
		nullable(app.EmailSenderIdentity), nullable(app.BulkMessageTopic),
		app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "applications_pkey") {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert application: %w", err)
	}
	return nil
}

func (r *pgApplicationRepository) GetByID(ctx context.Context, applicationID string) (*domain.Application, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT application_id, name, contact_email, domain,
		       email_sender_identity, bulk_message_topic, created_at, updated_at
		FROM applications WHERE application_id = $1`, applicationID)

	app, err := scanApplication(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return app, err
}

func (r *pgApplicationRepository) List(ctx context.Context) ([]*domain.Application, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT application_id, name, contact_email, domain,
		       email_sender_identity, bulk_message_topic, created_at, updated_at
		FROM applications ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}
	defer rows.Close()

	var apps []*domain.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, app)
	}
	return apps, rows.Err()
}

func (r *pgApplicationRepository) Update(ctx context.Context, app *domain.Application) error {
	tag, err := r.pool.Exec(ctx, `
		UPDATE applications
		SET name = $2, contact_email = $3, domain = $4,
		    email_sender_identity = $5, bulk_message_topic = $6, updated_at = $7
		WHERE application_id = $1`,
		app.ApplicationID, app.Name, app.ContactEmail, app.Domain,
		nullable(app.EmailSenderIdentity), nullable(app.BulkMessageTopic),
		app.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgApplicationRepository) Delete(ctx context.Context, applicationID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM applications WHERE application_id = $1`, applicationID)
	if err != nil {
		return fmt.Errorf("delete application: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *pgApplicationRepository) CreateAPIKey(ctx context.Context, key *domain.APIKey) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO api_keys
			(id, application_id, secret, name, created_at, expires_at, is_active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		key.ID, key.ApplicationID, key.Secret, nullable(key.Name),
		key.CreatedAt, key.ExpiresAt, key.Active,
	)
	if err != nil {
		return fmt.Errorf("insert api key: %w", err)
	}
	return nil
}

func (r *pgApplicationRepository) ListAPIKeys(ctx context.Context, applicationID string) ([]*domain.APIKey, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, application_id, name, created_at, expires_at, last_used_at, is_active
		FROM api_keys WHERE application_id = $1 ORDER BY created_at`, applicationID)
	if err != nil {
		return nil, fmt.Errorf("list api keys: %w", err)
	}
	defer rows.Close()

	var keys []*domain.APIKey
	for rows.Next() {
		var k domain.APIKey
		var name *string
		// The secret is deliberately not selected: it is shown once, at creation.
		if err := rows.Scan(&k.ID, &k.ApplicationID, &name,
			&k.CreatedAt, &k.ExpiresAt, &k.LastUsedAt, &k.Active); err != nil {
			return nil, fmt.Errorf("scan api key: %w", err)
		}
		if name != nil {
			k.Name = *name
		}
		keys = append(keys, &k)
	}
	return keys, rows.Err()
}

func (r *pgApplicationRepository) DeleteAPIKey(ctx context.Context, applicationID, keyID string) error {
	tag, err := r.pool.Exec(ctx,
		`DELETE FROM api_keys WHERE application_id = $1 AND id = $2`,
		applicationID, keyID)
	if err != nil {
		return fmt.Errorf("delete api key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanApplication(row pgx.Row) (*domain.Application, error) {
	var app domain.Application
	var sender, topic *string
	if err := row.Scan(&app.ApplicationID, &app.Name, &app.ContactEmail, &app.Domain,
		&sender, &topic, &app.CreatedAt, &app.UpdatedAt); err != nil {
		return nil, err
	}
	if sender != nil {
		app.EmailSenderIdentity = *sender
	}
	if topic != nil {
		app.BulkMessageTopic = *topic
	}
	return &app, nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
