package api

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/markup"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
)

// ContentHandler serves the caller's cards and categories.
type ContentHandler struct {
	cards      store.CardStore
	categories store.CategoryStore
	logger     *slog.Logger
}

// NewContentHandler creates a ContentHandler.
func NewContentHandler(cards store.CardStore, categories store.CategoryStore, logger *slog.Logger) *ContentHandler {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if categories == nil {
		panic("categories cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ContentHandler{
		cards:      cards,
		categories: categories,
		logger:     logger.With(slog.String("component", "content_handler")),
	}
}

// ListCards returns the caller's cards, newest first, as a JSON array.
func (h *ContentHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	cards, err := h.cards.ListByUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load cards")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, cards)
}

// ListCategories returns the caller's categories by name as a JSON array.
func (h *ContentHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	categories, err := h.categories.ListByUser(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load categories")
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, categories)
}

// CreateCategory adds a category, optionally under a parent. Category
// names are plain text.
func (h *ContentHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateCategoryRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	category, err := domain.NewCategory(userID, markup.Strip(req.Name), req.ParentID)
	if err != nil {
		HandleAPIError(w, r, fmt.Errorf("%w: %v", domain.ErrValidation, err), "")
		return
	}

	if err := h.categories.Create(r.Context(), category); err != nil {
		HandleAPIError(w, r, err, "Failed to create category")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("category created",
		slog.String("category_id", category.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, category)
}

// CreateCard adds a simple or multiple-choice card. Text fields are
// sanitized before storage.
func (h *ContentHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req CreateCardRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	card, err := buildCard(userID, req)
	if err != nil {
		HandleAPIError(w, r, err, "")
		return
	}

	if err := h.cards.Create(r.Context(), card); err != nil {
		HandleAPIError(w, r, err, "Failed to create card")
		return
	}
	logger.FromContextOrDefault(r.Context(), h.logger).Info("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("card_type", string(card.Type())))
	shared.RespondWithJSON(w, r, http.StatusCreated, card)
}

func buildCard(userID uuid.UUID, req CreateCardRequest) (*domain.Card, error) {
	front, err := markup.Clean(req.Front)
	if err != nil {
		return nil, err
	}

	var card *domain.Card
	if req.IsMultipleChoice() {
		options := make([]string, len(req.Options))
		for i, opt := range req.Options {
			if options[i], err = markup.Clean(opt); err != nil {
				return nil, err
			}
		}
		correct := -1
		if req.CorrectOption != nil {
			correct = *req.CorrectOption
		}
		card, err = domain.NewMultipleChoiceCard(userID, req.CategoryID, front, options, correct)
	} else {
		card, err = domain.NewCard(userID, req.CategoryID, front, markup.CleanOptional(req.Back))
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrValidation, err)
	}
	card.BackImageURL = req.BackImageURL
	return card, nil
}
