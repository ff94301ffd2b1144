package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Settings validation errors
var (
	ErrReminderTimeInvalid = errors.New("reminder time must be HH:MM")
	ErrDailyGoalInvalid    = errors.New("daily goal must be between 0 and 1000")
)

// DefaultReminderTime is used when a user never picked one.
const DefaultReminderTime = "19:00"

// NotificationSettings holds a user's study reminder preferences.
type NotificationSettings struct {
	UserID       uuid.UUID `json:"user_id"`
	Enabled      bool      `json:"enabled"`
	ReminderTime string    `json:"reminder_time"`
	DailyGoal    int       `json:"daily_goal"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DefaultNotificationSettings returns the settings a new user starts with.
func DefaultNotificationSettings(userID uuid.UUID) NotificationSettings {
	return NotificationSettings{
		UserID:       userID,
		Enabled:      false,
		ReminderTime: DefaultReminderTime,
		DailyGoal:    20,
		UpdatedAt:    time.Now().UTC(),
	}
}

// Validate checks the reminder time format and the goal range.
func (s *NotificationSettings) Validate() error {
	if _, err := time.Parse("15:04", s.ReminderTime); err != nil {
		return ErrReminderTimeInvalid
	}
	if s.DailyGoal < 0 || s.DailyGoal > 1000 {
		return ErrDailyGoalInvalid
	}
	return nil
}
