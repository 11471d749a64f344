package repository

import (
	"context"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
)

// TenantConfigStore is the narrow lookup contract the worker depends on.
// Resolve is a pure read: an empty applicationID is ErrInvalidArgument and a
// lookup miss is ErrConfigNotFound, which the processor treats as a terminal
// failure for the message.
type TenantConfigStore interface {
	Resolve(ctx context.Context, applicationID string) (*domain.TenantDeliveryConfig, error)
}

// ApplicationRepository defines all persistence operations for tenant
// registration and API-key management. The pgx implementation is in
// pg_application_repo.go; tests use a hand-written mock.
type ApplicationRepository interface {
	TenantConfigStore

	Create(ctx context.Context, app *domain.Application) error
	GetByID(ctx context.Context, applicationID string) (*domain.Application, error)
	List(ctx context.Context) ([]*domain.Application, error)
	Update(ctx context.Context, app *domain.Application) error
	Delete(ctx context.Context, applicationID string) error

	CreateAPIKey(ctx context.Context, key *domain.APIKey) error
	ListAPIKeys(ctx context.Context, applicationID string) ([]*domain.APIKey, error)
	DeleteAPIKey(ctx context.Context, applicationID, keyID string) error
}
