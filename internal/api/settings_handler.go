package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
)

// SettingsHandler serves the caller's notification settings.
type SettingsHandler struct {
	settings store.SettingsStore
	now      func() time.Time
	logger   *slog.Logger
}

// NewSettingsHandler creates a SettingsHandler.
func NewSettingsHandler(settings store.SettingsStore, logger *slog.Logger) *SettingsHandler {
	if settings == nil {
		panic("settings cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SettingsHandler{
		settings: settings,
		now:      time.Now,
		logger:   logger.With(slog.String("component", "settings_handler")),
	}
}

// GetSettings returns the stored settings, or the defaults for a user who
// never saved any.
func (h *SettingsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	settings, err := h.settings.Get(r.Context(), userID)
	if errors.Is(err, store.ErrSettingsNotFound) {
		defaults := domain.DefaultNotificationSettings(userID)
		settings, err = &defaults, nil
	}
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load settings")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}

// PutSettings replaces the caller's settings. A user_id in the body is
// ignored; the token decides whose settings change.
func (h *SettingsHandler) PutSettings(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SettingsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	settings := &domain.NotificationSettings{
		UserID:       userID,
		Enabled:      req.Enabled,
		ReminderTime: req.ReminderTime,
		DailyGoal:    req.DailyGoal,
		UpdatedAt:    h.now().UTC(),
	}
	if err := settings.Validate(); err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err), "")
		return
	}

	if err := h.settings.Upsert(r.Context(), settings); err != nil {
		HandleAPIError(w, r, err, "Failed to save settings")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("settings saved",
		slog.Bool("enabled", settings.Enabled))
	shared.RespondWithJSON(w, r, http.StatusOK, settings)
}
