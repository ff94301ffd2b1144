package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
)

// UserStore persists accounts.
type UserStore interface {
	// Create stores a user whose HashedPassword is already set.
	// Returns ErrEmailExists if the email is taken.
	Create(ctx context.Context, user *domain.User) error

	// GetByID returns ErrUserNotFound if there is no such user.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail returns ErrUserNotFound if there is no such user.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}
