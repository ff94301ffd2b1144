package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
	"github.com/stretchr/testify/mock"
)

// TestifyMockSettingsStore is a mock of store.SettingsStore for use with
// testify/mock expectations.
type TestifyMockSettingsStore struct {
	mock.Mock
}

var _ store.SettingsStore = (*TestifyMockSettingsStore)(nil)

// Get is a mock implementation of store.SettingsStore.Get
func (m *TestifyMockSettingsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationSettings, error) {
	args := m.Called(ctx, userID)
	if s, ok := args.Get(0).(*domain.NotificationSettings); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}

// Upsert is a mock implementation of store.SettingsStore.Upsert
func (m *TestifyMockSettingsStore) Upsert(ctx context.Context, settings *domain.NotificationSettings) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}
