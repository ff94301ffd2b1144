package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Study session validation errors
var (
	ErrSessionIndexOutOfRange = errors.New("study session index out of range")
	ErrSessionCountersInvalid = errors.New("study session counters do not add up")
)

// StudySession is the state of an in-progress study run: the shuffled
// working deck, the position in it and the running tally. It is what gets
// snapshotted when a run is interrupted.
type StudySession struct {
	Cards          []Card      `json:"cards"`
	CurrentIndex   int         `json:"current_index"`
	Correct        int         `json:"correct"`
	Incorrect      int         `json:"incorrect"`
	Remaining      int         `json:"remaining"`
	CategoryFilter []uuid.UUID `json:"category_filter,omitempty"`
	StartedAt      time.Time   `json:"started_at"`
}

// Validate checks that the index and counters are consistent with the deck.
func (s *StudySession) Validate() error {
	if s.CurrentIndex < 0 || s.CurrentIndex > len(s.Cards) {
		return ErrSessionIndexOutOfRange
	}
	if s.Correct < 0 || s.Incorrect < 0 || s.Remaining < 0 {
		return ErrSessionCountersInvalid
	}
	if s.Correct+s.Incorrect+s.Remaining != len(s.Cards) {
		return ErrSessionCountersInvalid
	}
	return nil
}

// Finished reports whether every card in the deck has been answered.
func (s *StudySession) Finished() bool {
	return s.CurrentIndex >= len(s.Cards)
}
