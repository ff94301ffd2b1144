// Package study runs a study session: it builds the shuffled working deck
// from the selected categories and records answers as the user goes.
package study

import (
	"errors"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/domain"
)

// Study errors
var (
	// ErrNoCards is returned when the filter leaves nothing to study.
	ErrNoCards = errors.New("no cards to study")

	// ErrSessionFinished is returned when answering past the last card.
	ErrSessionFinished = errors.New("study session already finished")

	// ErrNotMultipleChoice is returned when an option is picked for a
	// simple card.
	ErrNotMultipleChoice = errors.New("card is not multiple choice")
)

// Shuffler permutes n elements through swap. *rand.Rand satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// Engine creates and advances study sessions.
type Engine struct {
	shuffler Shuffler
	now      func() time.Time
}

// NewEngine creates an Engine. A nil shuffler uses the global random source.
func NewEngine(shuffler Shuffler) *Engine {
	if shuffler == nil {
		shuffler = globalShuffler{}
	}
	return &Engine{shuffler: shuffler, now: time.Now}
}

// Start builds a session from cards. When filter is non-empty only cards
// filed under one of those categories or any of their descendants are
// included.
func (e *Engine) Start(cards []domain.Card, categories []domain.Category, filter []uuid.UUID) (*domain.StudySession, error) {
	deck := make([]domain.Card, 0, len(cards))
	if len(filter) == 0 {
		deck = append(deck, cards...)
	} else {
		ids := domain.DescendantIDs(categories, filter)
		for _, c := range cards {
			if c.InCategory(ids) {
				deck = append(deck, c)
			}
		}
	}
	if len(deck) == 0 {
		return nil, ErrNoCards
	}

	e.shuffler.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })

	var kept []uuid.UUID
	if len(filter) > 0 {
		kept = append(kept, filter...)
	}

	return &domain.StudySession{
		Cards:          deck,
		CurrentIndex:   0,
		Remaining:      len(deck),
		CategoryFilter: kept,
		StartedAt:      e.now().UTC(),
	}, nil
}

// Current returns the card being studied.
func Current(s *domain.StudySession) (*domain.Card, error) {
	if s.Finished() {
		return nil, ErrSessionFinished
	}
	return &s.Cards[s.CurrentIndex], nil
}

// RecordAnswer scores the current card and moves to the next one. Only the
// session tally changes; the card's own counters belong to the server.
func RecordAnswer(s *domain.StudySession, correct bool) error {
	if _, err := Current(s); err != nil {
		return err
	}

	if correct {
		s.Correct++
	} else {
		s.Incorrect++
	}
	s.Remaining--
	s.CurrentIndex++
	return nil
}

// AnswerOption scores a multiple-choice pick for the current card and
// reports whether it was right.
func AnswerOption(s *domain.StudySession, choice int) (bool, error) {
	card, err := Current(s)
	if err != nil {
		return false, err
	}
	if !card.IsMultipleChoice() {
		return false, ErrNotMultipleChoice
	}

	correct := card.CheckOption(choice)
	return correct, RecordAnswer(s, correct)
}

// Summary is the result of a session.
type Summary struct {
	Total     int
	Correct   int
	Incorrect int
	Remaining int
	Accuracy  float64 // fraction of answered cards that were correct
	Elapsed   time.Duration
}

// Summarize reports the session's tally as of now.
func Summarize(s *domain.StudySession, now time.Time) Summary {
	sum := Summary{
		Total:     len(s.Cards),
		Correct:   s.Correct,
		Incorrect: s.Incorrect,
		Remaining: s.Remaining,
	}
	if answered := s.Correct + s.Incorrect; answered > 0 {
		sum.Accuracy = float64(s.Correct) / float64(answered)
	}
	if !s.StartedAt.IsZero() && now.After(s.StartedAt) {
		sum.Elapsed = now.Sub(s.StartedAt)
	}
	return sum
}
