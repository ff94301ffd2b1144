package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CardType discriminates how a card is answered.
type CardType string

// Supported card types
const (
	CardTypeSimple         CardType = "simple"
	CardTypeMultipleChoice CardType = "multiple_choice"
)

// Card-specific validation errors
var (
	// ErrCardIDEmpty is returned when a card ID is empty or nil.
	ErrCardIDEmpty = errors.New("card ID cannot be empty")

	// ErrCardUserIDEmpty is returned when a card's user ID is empty or nil.
	ErrCardUserIDEmpty = errors.New("card user ID cannot be empty")

	// ErrCardFrontEmpty is returned when a card has no front text.
	ErrCardFrontEmpty = errors.New("card front cannot be empty")

	// ErrCardTypeInvalid is returned for an unknown card type.
	ErrCardTypeInvalid = errors.New("invalid card type")

	// ErrCardOptionsInvalid is returned when a multiple-choice card has
	// fewer than two options or the correct option is out of range.
	ErrCardOptionsInvalid = errors.New("multiple choice card needs at least two options and a valid correct option")

	// ErrCardCountersNegative is returned when a review counter is below zero.
	ErrCardCountersNegative = errors.New("card counters cannot be negative")
)

// Card is a single flashcard owned by a user and optionally filed under a
// category. Multiple-choice cards carry their options and the index of the
// correct one; simple cards leave both empty.
type Card struct {
	ID             uuid.UUID  `json:"id"`
	UserID         uuid.UUID  `json:"user_id"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty"`
	Front          string     `json:"front"`
	Back           string     `json:"back"`
	BackImageURL   string     `json:"back_image_url,omitempty"`
	CorrectCount   int        `json:"correct_count"`
	IncorrectCount int        `json:"incorrect_count"`
	CardType       CardType   `json:"card_type"`
	Options        []string   `json:"options,omitempty"`
	CorrectOption  *int       `json:"correct_option,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// NewCard creates a simple recall card with a fresh ID and timestamps.
func NewCard(userID uuid.UUID, categoryID *uuid.UUID, front, back string) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: categoryID,
		Front:      front,
		Back:       back,
		CardType:   CardTypeSimple,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// NewMultipleChoiceCard creates a multiple-choice card. correct is the index
// into options of the right answer.
func NewMultipleChoiceCard(
	userID uuid.UUID,
	categoryID *uuid.UUID,
	front string,
	options []string,
	correct int,
) (*Card, error) {
	now := time.Now().UTC()
	card := &Card{
		ID:            uuid.New(),
		UserID:        userID,
		CategoryID:    categoryID,
		Front:         front,
		CardType:      CardTypeMultipleChoice,
		Options:       options,
		CorrectOption: &correct,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if correct >= 0 && correct < len(options) {
		card.Back = options[correct]
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Card has valid data.
func (c *Card) Validate() error {
	if c.ID == uuid.Nil {
		return ErrCardIDEmpty
	}

	if c.UserID == uuid.Nil {
		return ErrCardUserIDEmpty
	}

	if c.Front == "" {
		return ErrCardFrontEmpty
	}

	if c.CorrectCount < 0 || c.IncorrectCount < 0 {
		return ErrCardCountersNegative
	}

	switch c.Type() {
	case CardTypeSimple:
	case CardTypeMultipleChoice:
		if len(c.Options) < 2 || c.CorrectOption == nil ||
			*c.CorrectOption < 0 || *c.CorrectOption >= len(c.Options) {
			return ErrCardOptionsInvalid
		}
	default:
		return fmt.Errorf("%w: %q", ErrCardTypeInvalid, c.CardType)
	}

	return nil
}

// Type returns the card type, treating an unset type as simple. Rows written
// before card types existed have no type.
func (c *Card) Type() CardType {
	if c.CardType == "" {
		return CardTypeSimple
	}
	return c.CardType
}

// IsMultipleChoice reports whether the card is answered by picking an option.
func (c *Card) IsMultipleChoice() bool {
	return c.Type() == CardTypeMultipleChoice
}

// CheckOption reports whether choice is the correct option of a
// multiple-choice card. It is always false for simple cards.
func (c *Card) CheckOption(choice int) bool {
	if !c.IsMultipleChoice() || c.CorrectOption == nil {
		return false
	}
	return choice == *c.CorrectOption
}

// InCategory reports whether the card is filed under one of the given
// category IDs.
func (c *Card) InCategory(ids map[uuid.UUID]struct{}) bool {
	if c.CategoryID == nil {
		return false
	}
	_, ok := ids[*c.CategoryID]
	return ok
}
