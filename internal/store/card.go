package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
)

// CardStore persists a user's cards.
type CardStore interface {
	// Create stores a new card. It returns ErrInvalidEntity when the card
	// fails validation or its category does not belong to the card's user.
	Create(ctx context.Context, card *domain.Card) error

	// ListByUser returns every card owned by userID, newest first
	// (created_at descending). An empty result is not an error.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Card, error)

	// CountByUser returns how many cards userID owns.
	CountByUser(ctx context.Context, userID uuid.UUID) (int, error)
}
