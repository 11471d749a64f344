package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
	"github.com/projectdolphin/notification-pipeline/internal/repository"
)

// AdminService owns tenant registration and API-key lifecycle. Delivery
// config written here is what the worker's configuration resolver reads.
type AdminService struct {
	repo   repository.ApplicationRepository
	audit  repository.AuditStore
	logger *zap.Logger
}

func NewAdminService(repo repository.ApplicationRepository, audit repository.AuditStore, logger *zap.Logger) *AdminService {
	return &AdminService{repo: repo, audit: audit, logger: logger}
}

func (s *AdminService) RegisterApplication(ctx context.Context, req domain.CreateApplicationRequest) (*domain.Application, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	app := &domain.Application{
		ApplicationID:       req.ApplicationID,
		Name:                req.Name,
		ContactEmail:        req.ContactEmail,
		Domain:              req.Domain,
		EmailSenderIdentity: req.EmailSenderIdentity,
		BulkMessageTopic:    req.BulkMessageTopic,
		CreatedAt:           now,
		UpdatedAt:           now,
	}
	if err := s.repo.Create(ctx, app); err != nil {
		return nil, err
	}

	s.logger.Info("application registered", zap.String("application", app.ApplicationID))
	return app, nil
}

func (s *AdminService) GetApplication(ctx context.Context, applicationID string) (*domain.Application, error) {
	return s.repo.GetByID(ctx, applicationID)
}

func (s *AdminService) ListApplications(ctx context.Context) ([]*domain.Application, error) {
	return s.repo.List(ctx)
}

func (s *AdminService) UpdateApplication(ctx context.Context, applicationID string, req domain.CreateApplicationRequest) (*domain.Application, error) {
	app, err := s.repo.GetByID(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	app.Name = req.Name
	app.ContactEmail = req.ContactEmail
	app.Domain = req.Domain
	app.EmailSenderIdentity = req.EmailSenderIdentity
	app.BulkMessageTopic = req.BulkMessageTopic
	app.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, app); err != nil {
		return nil, err
	}
	return app, nil
}

func (s *AdminService) DeleteApplication(ctx context.Context, applicationID string) error {
	return s.repo.Delete(ctx, applicationID)
}

// CreateAPIKey issues a new opaque credential for the application. The
// secret is present only on this response; listings never include it.
func (s *AdminService) CreateAPIKey(ctx context.Context, applicationID string, req domain.CreateAPIKeyRequest) (*domain.APIKey, error) {
	if _, err := s.repo.GetByID(ctx, applicationID); err != nil {
		return nil, err
	}

	secret, err := generateSecret()
	if err != nil {
		return nil, fmt.Errorf("generate api key: %w", err)
	}

	key := &domain.APIKey{
		ID:            uuid.New().String(),
		ApplicationID: applicationID,
		Secret:        secret,
		Name:          req.Name,
		CreatedAt:     time.Now().UTC(),
		ExpiresAt:     req.ExpiresAt,
		Active:        true,
	}
	if err := s.repo.CreateAPIKey(ctx, key); err != nil {
		return nil, err
	}

	s.logger.Info("api key issued",
		zap.String("application", applicationID), zap.String("key_id", key.ID))
	return key, nil
}

func (s *AdminService) ListAPIKeys(ctx context.Context, applicationID string) ([]*domain.APIKey, error) {
	if _, err := s.repo.GetByID(ctx, applicationID); err != nil {
		return nil, err
	}
	return s.repo.ListAPIKeys(ctx, applicationID)
}

func (s *AdminService) RevokeAPIKey(ctx context.Context, applicationID, keyID string) error {
	return s.repo.DeleteAPIKey(ctx, applicationID, keyID)
}

// ListAudit exposes the append-only processing outcomes to operators.
func (s *AdminService) ListAudit(ctx context.Context, filter domain.AuditFilter) ([]*domain.AuditRecord, error) {
	if filter.ApplicationID == "" {
		return nil, fmt.Errorf("%w: application filter is required", domain.ErrInvalidArgument)
	}
	return s.audit.List(ctx, filter)
}

func generateSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return "pk_" + hex.EncodeToString(buf), nil
}
