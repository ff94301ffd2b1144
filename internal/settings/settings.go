// Package settings reads and writes notification settings with a degraded
// local fallback.
//
// A Manager starts in ModePrimary, where the API is the store of record and
// a local copy is kept alongside. The first failed primary read or write
// moves it to ModeFallback for the rest of its life; from then on only the
// local store is used. There is no automatic recovery.
package settings

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/kvstore"
)

// LocalKey is the durable store key of the local copy.
const LocalKey = "flashcards_notification_settings"

// Mode is the manager's persistence tier.
type Mode int

// Modes.
const (
	ModePrimary Mode = iota
	ModeFallback
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	switch m {
	case ModePrimary:
		return "primary"
	case ModeFallback:
		return "fallback"
	default:
		return fmt.Sprintf("Mode(%d)", int(m))
	}
}

// Remote is the primary store.
type Remote interface {
	GetSettings(ctx context.Context) (*domain.NotificationSettings, error)
	PutSettings(ctx context.Context, s *domain.NotificationSettings) error
}

// Manager is safe for concurrent use.
type Manager struct {
	primary Remote
	local   kvstore.Store
	logger  *slog.Logger

	mu   sync.Mutex
	mode Mode
}

// NewManager creates a Manager in ModePrimary.
func NewManager(primary Remote, local kvstore.Store, logger *slog.Logger) *Manager {
	if primary == nil {
		panic("primary cannot be nil")
	}
	if local == nil {
		panic("local store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		primary: primary,
		local:   local,
		logger:  logger.With(slog.String("component", "settings_manager")),
		mode:    ModePrimary,
	}
}

// Mode returns the current tier.
func (m *Manager) Mode() Mode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

// Get returns the settings from the current tier. In fallback mode, missing
// local settings yield the defaults.
func (m *Manager) Get(ctx context.Context) (*domain.NotificationSettings, error) {
	if m.Mode() == ModePrimary {
		s, err := m.primary.GetSettings(ctx)
		if err == nil {
			m.storeLocal(ctx, s)
			return s, nil
		}
		m.degrade("read", err)
	}
	return m.loadLocal(ctx)
}

// Save validates s and writes it to the current tier.
func (m *Manager) Save(ctx context.Context, s *domain.NotificationSettings) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if m.Mode() == ModePrimary {
		err := m.primary.PutSettings(ctx, s)
		if err == nil {
			m.storeLocal(ctx, s)
			return nil
		}
		m.degrade("write", err)
	}

	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := m.local.Set(ctx, LocalKey, raw); err != nil {
		return fmt.Errorf("failed to save settings locally: %w", err)
	}
	return nil
}

func (m *Manager) degrade(op string, cause error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.mode == ModeFallback {
		return
	}
	m.mode = ModeFallback
	m.logger.Warn("settings store unavailable, using local fallback",
		slog.String("op", op),
		slog.String("error", cause.Error()))
}

// storeLocal keeps the local copy current while in primary mode. Failures
// only cost freshness of the fallback.
func (m *Manager) storeLocal(ctx context.Context, s *domain.NotificationSettings) {
	raw, err := json.Marshal(s)
	if err == nil {
		err = m.local.Set(ctx, LocalKey, raw)
	}
	if err != nil {
		m.logger.Debug("failed to mirror settings locally", slog.String("error", err.Error()))
	}
}

func (m *Manager) loadLocal(ctx context.Context) (*domain.NotificationSettings, error) {
	raw, err := m.local.Get(ctx, LocalKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			d := domain.DefaultNotificationSettings(uuid.Nil)
			return &d, nil
		}
		return nil, fmt.Errorf("failed to read local settings: %w", err)
	}

	var s domain.NotificationSettings
	if err := json.Unmarshal(raw, &s); err != nil {
		m.logger.Warn("local settings unreadable, using defaults", slog.String("error", err.Error()))
		d := domain.DefaultNotificationSettings(uuid.Nil)
		return &d, nil
	}
	return &s, nil
}
