package remote

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/phrazzld/flashdeck/internal/domain"
)

// TokenSource supplies the bearer token for authenticated calls.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

// Gateway issues the remote reads consumed by the offline layer. It never
// touches local state.
type Gateway struct {
	req    requester
	tokens TokenSource
	logger *slog.Logger
}

// NewGateway creates a Gateway against baseURL. A nil client uses
// http.DefaultClient.
func NewGateway(baseURL string, client *http.Client, tokens TokenSource, logger *slog.Logger) *Gateway {
	if tokens == nil {
		panic("token source cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		req:    newRequester(baseURL, client),
		tokens: tokens,
		logger: logger.With(slog.String("component", "remote_gateway")),
	}
}

// FetchCards returns the signed-in user's cards, newest first.
func (g *Gateway) FetchCards(ctx context.Context) ([]domain.Card, error) {
	var cards []domain.Card
	if err := g.authed(ctx, "fetch cards", http.MethodGet, "/api/cards", nil, &cards); err != nil {
		return nil, err
	}
	if cards == nil {
		cards = []domain.Card{}
	}
	return cards, nil
}

// FetchCategories returns the signed-in user's categories ordered by name.
func (g *Gateway) FetchCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	if err := g.authed(ctx, "fetch categories", http.MethodGet, "/api/categories", nil, &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return categories, nil
}

// FetchSyncSignal performs the sync round trip. The summary only confirms
// the server is reachable and holds data; it is not cached.
func (g *Gateway) FetchSyncSignal(ctx context.Context) (*domain.SyncSummary, error) {
	var summary domain.SyncSummary
	if err := g.authed(ctx, "sync", http.MethodPost, "/api/sync", nil, &summary); err != nil {
		return nil, err
	}
	return &summary, nil
}

// Ping checks that the API answers its health endpoint. It needs no session.
func (g *Gateway) Ping(ctx context.Context) error {
	return g.req.do(ctx, "ping", http.MethodGet, "/health", "", nil, nil)
}

// GetSettings returns the signed-in user's notification settings.
func (g *Gateway) GetSettings(ctx context.Context) (*domain.NotificationSettings, error) {
	var s domain.NotificationSettings
	if err := g.authed(ctx, "get settings", http.MethodGet, "/api/settings", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// PutSettings stores the signed-in user's notification settings.
func (g *Gateway) PutSettings(ctx context.Context, s *domain.NotificationSettings) error {
	return g.authed(ctx, "put settings", http.MethodPut, "/api/settings", s, nil)
}

func (g *Gateway) authed(ctx context.Context, op, method, path string, body, out any) error {
	token, err := g.tokens.Token(ctx)
	if err != nil {
		return &FetchError{Op: op, StatusCode: http.StatusUnauthorized, Err: err}
	}

	if err := g.req.do(ctx, op, method, path, token, body, out); err != nil {
		g.logger.Debug("remote call failed",
			slog.String("op", op),
			slog.Int("status", StatusCode(err)),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
