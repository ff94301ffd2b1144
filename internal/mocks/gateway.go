package mocks

import (
	"context"
	"sync"

	"github.com/phrazzld/flashdeck/internal/domain"
)

// MockGateway stands in for remote.Gateway.
type MockGateway struct {
	FetchCardsFn      func(ctx context.Context) ([]domain.Card, error)
	FetchCategoriesFn func(ctx context.Context) ([]domain.Category, error)
	FetchSyncSignalFn func(ctx context.Context) (*domain.SyncSummary, error)
	PingFn            func(ctx context.Context) error
	GetSettingsFn     func(ctx context.Context) (*domain.NotificationSettings, error)
	PutSettingsFn     func(ctx context.Context, s *domain.NotificationSettings) error

	// Defaults returned when the matching Fn is nil.
	Cards      []domain.Card
	Categories []domain.Category

	mu    sync.Mutex
	calls map[string]int
}

// Calls returns how many times method was invoked.
func (m *MockGateway) Calls(method string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[method]
}

// TotalCalls returns the number of invocations across all methods.
func (m *MockGateway) TotalCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		n += c
	}
	return n
}

func (m *MockGateway) record(method string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[method]++
}

// FetchCards implements the gateway interface.
func (m *MockGateway) FetchCards(ctx context.Context) ([]domain.Card, error) {
	m.record("FetchCards")
	if m.FetchCardsFn != nil {
		return m.FetchCardsFn(ctx)
	}
	return m.Cards, nil
}

// FetchCategories implements the gateway interface.
func (m *MockGateway) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	m.record("FetchCategories")
	if m.FetchCategoriesFn != nil {
		return m.FetchCategoriesFn(ctx)
	}
	return m.Categories, nil
}

// FetchSyncSignal implements the gateway interface.
func (m *MockGateway) FetchSyncSignal(ctx context.Context) (*domain.SyncSummary, error) {
	m.record("FetchSyncSignal")
	if m.FetchSyncSignalFn != nil {
		return m.FetchSyncSignalFn(ctx)
	}
	return &domain.SyncSummary{CardCount: len(m.Cards), CategoryCount: len(m.Categories)}, nil
}

// Ping implements the gateway interface.
func (m *MockGateway) Ping(ctx context.Context) error {
	m.record("Ping")
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}

// GetSettings implements the gateway interface.
func (m *MockGateway) GetSettings(ctx context.Context) (*domain.NotificationSettings, error) {
	m.record("GetSettings")
	if m.GetSettingsFn != nil {
		return m.GetSettingsFn(ctx)
	}
	return &domain.NotificationSettings{ReminderTime: domain.DefaultReminderTime}, nil
}

// PutSettings implements the gateway interface.
func (m *MockGateway) PutSettings(ctx context.Context, s *domain.NotificationSettings) error {
	m.record("PutSettings")
	if m.PutSettingsFn != nil {
		return m.PutSettingsFn(ctx, s)
	}
	return nil
}
