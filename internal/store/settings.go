package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
)

// SettingsStore persists per-user notification settings.
type SettingsStore interface {
	// Get returns ErrSettingsNotFound when the user never saved settings.
	Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationSettings, error)

	// Upsert creates or replaces the user's settings.
	Upsert(ctx context.Context, settings *domain.NotificationSettings) error
}
