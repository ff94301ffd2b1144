package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
)

// PostgresSettingsStore implements store.SettingsStore on PostgreSQL, one
// row per user.
type PostgresSettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSettingsStore creates a settings store on db.
func NewPostgresSettingsStore(db store.DBTX, logger *slog.Logger) *PostgresSettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "settings_store")),
	}
}

var _ store.SettingsStore = (*PostgresSettingsStore)(nil)

// Get returns store.ErrSettingsNotFound when the user has no row.
func (s *PostgresSettingsStore) Get(ctx context.Context, userID uuid.UUID) (*domain.NotificationSettings, error) {
	var settings domain.NotificationSettings
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, enabled, reminder_time, daily_goal, updated_at
		FROM notification_settings
		WHERE user_id = $1`, userID).Scan(
		&settings.UserID,
		&settings.Enabled,
		&settings.ReminderTime,
		&settings.DailyGoal,
		&settings.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrSettingsNotFound
		}
		logger.FromContextOrDefault(ctx, s.logger).Error("failed to get settings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, store.NewStoreError("settings", "get", "query failed", MapError(err))
	}
	return &settings, nil
}

// Upsert writes settings, replacing any existing row for the user.
func (s *PostgresSettingsStore) Upsert(ctx context.Context, settings *domain.NotificationSettings) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settings.Validate(); err != nil {
		return fmt.Errorf("%w: %v", store.ErrInvalidEntity, err)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO notification_settings (user_id, enabled, reminder_time, daily_goal, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (user_id) DO UPDATE
		SET enabled = EXCLUDED.enabled,
		    reminder_time = EXCLUDED.reminder_time,
		    daily_goal = EXCLUDED.daily_goal,
		    updated_at = EXCLUDED.updated_at`,
		settings.UserID,
		settings.Enabled,
		settings.ReminderTime,
		settings.DailyGoal,
		settings.UpdatedAt,
	)
	if err != nil {
		if IsForeignKeyViolation(err) {
			return fmt.Errorf("%w: user %s not found", store.ErrInvalidEntity, settings.UserID)
		}
		log.Error("failed to upsert settings",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return MapError(err)
	}

	log.Debug("settings saved", slog.String("user_id", settings.UserID.String()))
	return nil
}
