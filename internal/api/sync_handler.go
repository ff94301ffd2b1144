package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/flashdeck/internal/api/shared"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/store"
	"golang.org/x/sync/errgroup"
)

// SyncHandler answers the client's synchronization probe.
type SyncHandler struct {
	cards      store.CardStore
	categories store.CategoryStore
	now        func() time.Time
	logger     *slog.Logger
}

// NewSyncHandler creates a SyncHandler.
func NewSyncHandler(cards store.CardStore, categories store.CategoryStore, logger *slog.Logger) *SyncHandler {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if categories == nil {
		panic("categories cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &SyncHandler{
		cards:      cards,
		categories: categories,
		now:        time.Now,
		logger:     logger.With(slog.String("component", "sync_handler")),
	}
}

// Sync reports how many cards and categories the caller has. Both counts
// are taken concurrently; either failing fails the request.
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var summary domain.SyncSummary
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		n, err := h.cards.CountByUser(ctx, userID)
		summary.CardCount = n
		return err
	})
	g.Go(func() error {
		n, err := h.categories.CountByUser(ctx, userID)
		summary.CategoryCount = n
		return err
	})
	if err := g.Wait(); err != nil {
		HandleAPIError(w, r, err, "Failed to synchronize")
		return
	}
	summary.Timestamp = h.now().UTC()

	logger.FromContextOrDefault(r.Context(), h.logger).Debug("sync probe",
		slog.Int("card_count", summary.CardCount),
		slog.Int("category_count", summary.CategoryCount))
	shared.RespondWithJSON(w, r, http.StatusOK, summary)
}
