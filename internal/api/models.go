package api

import (
	"time"

	"github.com/google/uuid"
)

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse is returned by register and login.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// CreateCategoryRequest is the body of POST /api/categories.
type CreateCategoryRequest struct {
	Name     string     `json:"name"      validate:"required,max=100"`
	ParentID *uuid.UUID `json:"parent_id"`
}

// CreateCardRequest is the body of POST /api/cards. Options and
// CorrectOption are set together for multiple-choice cards.
type CreateCardRequest struct {
	CategoryID    *uuid.UUID `json:"category_id"`
	Front         string     `json:"front"          validate:"required,max=2000"`
	Back          string     `json:"back"           validate:"max=5000"`
	BackImageURL  string     `json:"back_image_url" validate:"omitempty,url,max=2048"`
	Options       []string   `json:"options"        validate:"omitempty,min=2,max=10,dive,required,max=500"`
	CorrectOption *int       `json:"correct_option" validate:"omitempty,gte=0"`
}

// IsMultipleChoice reports whether the request describes a multiple-choice
// card.
func (r CreateCardRequest) IsMultipleChoice() bool {
	return len(r.Options) > 0
}

// SettingsRequest is the body of PUT /api/settings.
type SettingsRequest struct {
	Enabled      bool   `json:"enabled"`
	ReminderTime string `json:"reminder_time" validate:"required,datetime=15:04"`
	DailyGoal    int    `json:"daily_goal"    validate:"gte=0,lte=1000"`
}
