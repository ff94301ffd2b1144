package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/store"
)

// MockCardStore implements store.CardStore for testing
type MockCardStore struct {
	CreateFn      func(ctx context.Context, card *domain.Card) error
	ListByUserFn  func(ctx context.Context, userID uuid.UUID) ([]domain.Card, error)
	CountByUserFn func(ctx context.Context, userID uuid.UUID) (int, error)

	// Cards is returned by default, filtered to the requested user.
	Cards []domain.Card
}

var _ store.CardStore = (*MockCardStore)(nil)

// Create implements the CardStore interface
func (m *MockCardStore) Create(ctx context.Context, card *domain.Card) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, card)
	}
	m.Cards = append(m.Cards, *card)
	return nil
}

// ListByUser implements the CardStore interface
func (m *MockCardStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Card, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	out := []domain.Card{}
	for _, c := range m.Cards {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

// CountByUser implements the CardStore interface
func (m *MockCardStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.CountByUserFn != nil {
		return m.CountByUserFn(ctx, userID)
	}
	cards, _ := m.ListByUser(ctx, userID)
	return len(cards), nil
}

// MockCategoryStore implements store.CategoryStore for testing
type MockCategoryStore struct {
	CreateFn      func(ctx context.Context, category *domain.Category) error
	ListByUserFn  func(ctx context.Context, userID uuid.UUID) ([]domain.Category, error)
	CountByUserFn func(ctx context.Context, userID uuid.UUID) (int, error)

	Categories []domain.Category
}

var _ store.CategoryStore = (*MockCategoryStore)(nil)

// Create implements the CategoryStore interface
func (m *MockCategoryStore) Create(ctx context.Context, category *domain.Category) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, category)
	}
	m.Categories = append(m.Categories, *category)
	return nil
}

// ListByUser implements the CategoryStore interface
func (m *MockCategoryStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Category, error) {
	if m.ListByUserFn != nil {
		return m.ListByUserFn(ctx, userID)
	}
	out := []domain.Category{}
	for _, c := range m.Categories {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}

// CountByUser implements the CategoryStore interface
func (m *MockCategoryStore) CountByUser(ctx context.Context, userID uuid.UUID) (int, error) {
	if m.CountByUserFn != nil {
		return m.CountByUserFn(ctx, userID)
	}
	categories, _ := m.ListByUser(ctx, userID)
	return len(categories), nil
}
