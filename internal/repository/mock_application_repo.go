package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/projectdolphin/notification-pipeline/internal/domain"
)

// MockApplicationRepository is a hand-written, in-memory implementation of
// ApplicationRepository used in unit tests. No mock-generation library needed.
type MockApplicationRepository struct {
	mu   sync.RWMutex
	apps map[string]*domain.Application
	keys map[string]*domain.APIKey

	// Optional error overrides — set in tests to simulate failure paths.
	ResolveErr error
	CreateErr  error
}

func NewMockApplicationRepository() *MockApplicationRepository {
	return &MockApplicationRepository{
		apps: make(map[string]*domain.Application),
		keys: make(map[string]*domain.APIKey),
	}
}

func (m *MockApplicationRepository) Resolve(_ context.Context, applicationID string) (*domain.TenantDeliveryConfig, error) {
	if m.ResolveErr != nil {
		return nil, m.ResolveErr
	}
	if applicationID == "" {
		return nil, fmt.Errorf("%w: applicationID must not be empty", domain.ErrInvalidArgument)
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	app, ok := m.apps[applicationID]
	if !ok {
		return nil, domain.ErrConfigNotFound
	}
	return app.DeliveryConfig(), nil
}

func (m *MockApplicationRepository) Create(_ context.Context, app *domain.Application) error {
	if m.CreateErr != nil {
		return m.CreateErr
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.apps[app.ApplicationID]; exists {
		return domain.ErrConflict
	}
	clone := *app
	m.apps[app.ApplicationID] = &clone
	return nil
}

func (m *MockApplicationRepository) GetByID(_ context.Context, applicationID string) (*domain.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	app, ok := m.apps[applicationID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *app
	return &clone, nil
}

func (m *MockApplicationRepository) List(_ context.Context) ([]*domain.Application, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	apps := make([]*domain.Application, 0, len(m.apps))
	for _, app := range m.apps {
		clone := *app
		apps = append(apps, &clone)
	}
	return apps, nil
}

func (m *MockApplicationRepository) Update(_ context.Context, app *domain.Application) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[app.ApplicationID]; !ok {
		return domain.ErrNotFound
	}
	clone := *app
	m.apps[app.ApplicationID] = &clone
	return nil
}

func (m *MockApplicationRepository) Delete(_ context.Context, applicationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.apps[applicationID]; !ok {
		return domain.ErrNotFound
	}
	delete(m.apps, applicationID)
	return nil
}

func (m *MockApplicationRepository) CreateAPIKey(_ context.Context, key *domain.APIKey) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	clone := *key
	m.keys[key.ID] = &clone
	return nil
}

func (m *MockApplicationRepository) ListAPIKeys(_ context.Context, applicationID string) ([]*domain.APIKey, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var keys []*domain.APIKey
	for _, k := range m.keys {
		if k.ApplicationID != applicationID {
			continue
		}
		clone := *k
		clone.Secret = "" // listings never reveal the secret
		keys = append(keys, &clone)
	}
	return keys, nil
}

func (m *MockApplicationRepository) DeleteAPIKey(_ context.Context, applicationID, keyID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	k, ok := m.keys[keyID]
	if !ok || k.ApplicationID != applicationID {
		return domain.ErrNotFound
	}
	delete(m.keys, keyID)
	return nil
}

// compile-time check
var _ ApplicationRepository = (*MockApplicationRepository)(nil)
