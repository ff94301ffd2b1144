// Package progress snapshots an in-progress study session to short-lived
// storage so an interrupted run can be resumed.
package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/kvstore"
)

// Key is the single storage key holding the saved session.
const Key = "flashcards_study_progress"

// ErrNotFound is returned by Load when no usable session is saved.
var ErrNotFound = errors.New("no saved study progress")

// Persister saves, restores and clears one study session. The last save
// wins; there is no merging, and a finished session stays resumable until
// it is cleared.
type Persister struct {
	kv     kvstore.Store
	logger *slog.Logger
}

// New creates a Persister over kv, which should be the short-lived store.
func New(kv kvstore.Store, logger *slog.Logger) *Persister {
	if kv == nil {
		panic("kv store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Persister{
		kv:     kv,
		logger: logger.With(slog.String("component", "progress_persister")),
	}
}

// Save overwrites the saved session.
func (p *Persister) Save(ctx context.Context, session *domain.StudySession) error {
	if session == nil {
		return fmt.Errorf("%w: nil session", domain.ErrValidation)
	}
	if err := session.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	raw, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode study progress: %w", err)
	}
	if err := p.kv.Set(ctx, Key, raw); err != nil {
		return fmt.Errorf("failed to save study progress: %w", err)
	}

	p.logger.Debug("saved study progress",
		slog.Int("current_index", session.CurrentIndex),
		slog.Int("cards", len(session.Cards)))
	return nil
}

// Load returns the saved session, or ErrNotFound when there is none or it
// cannot be decoded.
func (p *Persister) Load(ctx context.Context) (*domain.StudySession, error) {
	raw, err := p.kv.Get(ctx, Key)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read study progress: %w", err)
	}

	var session domain.StudySession
	if err := json.Unmarshal(raw, &session); err != nil {
		p.logger.Warn("saved study progress is unreadable", slog.String("error", err.Error()))
		return nil, ErrNotFound
	}
	if err := session.Validate(); err != nil {
		p.logger.Warn("saved study progress is inconsistent", slog.String("error", err.Error()))
		return nil, ErrNotFound
	}
	return &session, nil
}

// Clear removes the saved session. Clearing when nothing is saved is not an
// error.
func (p *Persister) Clear(ctx context.Context) error {
	if err := p.kv.Delete(ctx, Key); err != nil {
		return fmt.Errorf("failed to clear study progress: %w", err)
	}
	return nil
}

// Exists reports whether a loadable session is saved.
func (p *Persister) Exists(ctx context.Context) bool {
	_, err := p.Load(ctx)
	return err == nil
}
