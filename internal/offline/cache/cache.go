// Package cache persists the last successfully fetched cards and categories
// so the client can serve them while offline.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/kvstore"
)

// Storage keys. The snapshot is always written as a unit.
const (
	KeyCards      = "flashcards_cache_cards"
	KeyCategories = "flashcards_cache_categories"
	KeyTimestamp  = "flashcards_cache_timestamp"
)

// ErrNotFound is returned by Load when there is no usable snapshot.
var ErrNotFound = errors.New("no cached data")

// WriteError reports a failed Save. The previous snapshot, if any, is left
// in place.
type WriteError struct {
	Err error
}

// Error implements the error interface.
func (e *WriteError) Error() string {
	return fmt.Sprintf("failed to write cache: %v", e.Err)
}

// Unwrap returns the underlying cause.
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Snapshot is the cached pair of collections and when it was captured.
type Snapshot struct {
	Cards      []domain.Card
	Categories []domain.Category
	SavedAt    time.Time
}

// Store is the local cache. It owns the three snapshot keys exclusively.
type Store struct {
	kv     kvstore.Store
	logger *slog.Logger
	now    func() time.Time
}

// New creates a cache over kv.
func New(kv kvstore.Store, logger *slog.Logger) *Store {
	if kv == nil {
		panic("kv store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		kv:     kv,
		logger: logger.With(slog.String("component", "local_cache")),
		now:    time.Now,
	}
}

// Save replaces the snapshot with cards and categories, stamped with the
// current time. Either all three keys are written or none is.
func (s *Store) Save(ctx context.Context, cards []domain.Card, categories []domain.Category) error {
	if cards == nil {
		cards = []domain.Card{}
	}
	if categories == nil {
		categories = []domain.Category{}
	}

	cardsJSON, err := json.Marshal(cards)
	if err != nil {
		return &WriteError{Err: fmt.Errorf("encode cards: %w", err)}
	}
	categoriesJSON, err := json.Marshal(categories)
	if err != nil {
		return &WriteError{Err: fmt.Errorf("encode categories: %w", err)}
	}

	savedAt := s.now().UTC()
	err = s.kv.SetMany(ctx, map[string][]byte{
		KeyCards:      cardsJSON,
		KeyCategories: categoriesJSON,
		KeyTimestamp:  []byte(strconv.FormatInt(savedAt.UnixMilli(), 10)),
	})
	if err != nil {
		return &WriteError{Err: err}
	}

	s.logger.Debug("saved snapshot",
		slog.Int("cards", len(cards)),
		slog.Int("categories", len(categories)))
	return nil
}

// Load returns the most recently saved snapshot, or ErrNotFound when none
// exists or it cannot be decoded.
func (s *Store) Load(ctx context.Context) (*Snapshot, error) {
	var snap Snapshot

	if err := s.read(ctx, KeyCards, &snap.Cards); err != nil {
		return nil, err
	}
	if err := s.read(ctx, KeyCategories, &snap.Categories); err != nil {
		return nil, err
	}
	if snap.Cards == nil {
		snap.Cards = []domain.Card{}
	}
	if snap.Categories == nil {
		snap.Categories = []domain.Category{}
	}

	raw, err := s.kv.Get(ctx, KeyTimestamp)
	switch {
	case err == nil:
		if ms, perr := strconv.ParseInt(string(raw), 10, 64); perr == nil {
			snap.SavedAt = time.UnixMilli(ms).UTC()
		}
	case errors.Is(err, kvstore.ErrNotFound):
	default:
		return nil, s.miss(KeyTimestamp, err)
	}

	return &snap, nil
}

// Clear removes the snapshot.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.kv.Delete(ctx, KeyCards, KeyCategories, KeyTimestamp); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}

func (s *Store) read(ctx context.Context, key string, out any) error {
	raw, err := s.kv.Get(ctx, key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return ErrNotFound
		}
		return s.miss(key, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return s.miss(key, err)
	}
	return nil
}

// miss logs why a cached value was unusable and reports it as a cache miss.
func (s *Store) miss(key string, err error) error {
	s.logger.Warn("cached value unusable",
		slog.String("key", key),
		slog.String("error", err.Error()))
	return fmt.Errorf("%w: %s: %v", ErrNotFound, key, err)
}
