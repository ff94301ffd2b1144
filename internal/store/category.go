package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
)

// CategoryStore persists a user's categories.
type CategoryStore interface {
	// Create stores a new category. A duplicate name under the same parent
	// returns ErrDuplicate.
	Create(ctx context.Context, category *domain.Category) error

	// ListByUser returns every category owned by userID ordered by name
	// ascending. Children are not populated.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Category, error)

	// CountByUser returns how many categories userID owns.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
