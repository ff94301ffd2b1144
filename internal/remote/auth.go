package remote

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/platform/kvstore"
)

// TokenKey is the durable store key holding the signed-in user's token.
const TokenKey = "flashcards_auth_token"

// SessionUser identifies the signed-in user.
type SessionUser struct {
	ID        uuid.UUID
	Email     string
	ExpiresAt time.Time
}

// tokenClaims mirrors the claims the server signs into access tokens.
type tokenClaims struct {
	UserID uuid.UUID `json:"uid"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

type tokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthClient manages the signed-in session. The token lives in the durable
// key-value store so it survives restarts; the client never verifies its
// signature, only decodes it to learn who is signed in and until when.
type AuthClient struct {
	req    requester
	store  kvstore.Store
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex
	listeners map[int]func(*SessionUser)
	nextID    int
}

// NewAuthClient creates an AuthClient against baseURL persisting its token
// in store.
func NewAuthClient(baseURL string, client *http.Client, store kvstore.Store, logger *slog.Logger) *AuthClient {
	if store == nil {
		panic("store cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthClient{
		req:       newRequester(baseURL, client),
		store:     store,
		logger:    logger.With(slog.String("component", "auth_client")),
		now:       time.Now,
		listeners: make(map[int]func(*SessionUser)),
	}
}

// Login exchanges credentials for a token, stores it and notifies
// subscribers.
func (a *AuthClient) Login(ctx context.Context, email, password string) (*SessionUser, error) {
	return a.authenticate(ctx, "login", "/api/auth/login", email, password)
}

// Register creates an account and signs it in.
func (a *AuthClient) Register(ctx context.Context, email, password string) (*SessionUser, error) {
	return a.authenticate(ctx, "register", "/api/auth/register", email, password)
}

func (a *AuthClient) authenticate(ctx context.Context, op, path, email, password string) (*SessionUser, error) {
	var resp tokenResponse
	body := credentials{Email: strings.TrimSpace(email), Password: password}
	if err := a.req.do(ctx, op, http.MethodPost, path, "", body, &resp); err != nil {
		return nil, err
	}

	user, err := a.decode(resp.Token)
	if err != nil {
		return nil, &FetchError{Op: op, Err: fmt.Errorf("server returned an unusable token: %w", err)}
	}

	if err := a.store.Set(ctx, TokenKey, []byte(resp.Token)); err != nil {
		return nil, fmt.Errorf("failed to store session: %w", err)
	}

	a.logger.Info("signed in", slog.String("user_id", user.ID.String()))
	a.notify(user)
	return user, nil
}

// Logout forgets the stored token and notifies subscribers with nil.
func (a *AuthClient) Logout(ctx context.Context) error {
	if err := a.store.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	a.logger.Info("signed out")
	a.notify(nil)
	return nil
}

// CurrentUser returns the signed-in user, or nil when there is no session or
// the stored token has expired.
func (a *AuthClient) CurrentUser(ctx context.Context) (*SessionUser, error) {
	raw, err := a.store.Get(ctx, TokenKey)
	if err != nil {
		if errors.Is(err, kvstore.ErrNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session: %w", err)
	}

	user, err := a.decode(string(raw))
	if err != nil {
		a.logger.Warn("discarding unreadable stored token", slog.String("error", err.Error()))
		return nil, nil
	}
	if !user.ExpiresAt.IsZero() && !a.now().Before(user.ExpiresAt) {
		return nil, nil
	}
	return user, nil
}

// Token implements TokenSource. It returns ErrNoSession when nobody is
// signed in or the session expired.
func (a *AuthClient) Token(ctx context.Context) (string, error) {
	user, err := a.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrNoSession
	}
	raw, err := a.store.Get(ctx, TokenKey)
	if err != nil {
		return "", ErrNoSession
	}
	return string(raw), nil
}

// Subscribe registers fn for session changes: the new user after a sign in,
// nil after a sign out. The returned function removes the subscription.
func (a *AuthClient) Subscribe(fn func(*SessionUser)) (unsubscribe func()) {
	a.mu.Lock()
	defer a.mu.Unlock()

	id := a.nextID
	a.nextID++
	a.listeners[id] = fn

	return func() {
		a.mu.Lock()
		defer a.mu.Unlock()
		delete(a.listeners, id)
	}
}

func (a *AuthClient) notify(user *SessionUser) {
	a.mu.Lock()
	fns := make([]func(*SessionUser), 0, len(a.listeners))
	for _, fn := range a.listeners {
		fns = append(fns, fn)
	}
	a.mu.Unlock()

	for _, fn := range fns {
		fn(user)
	}
}

func (a *AuthClient) decode(token string) (*SessionUser, error) {
	var claims tokenClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil, err
	}
	if claims.UserID == uuid.Nil {
		return nil, errors.New("token has no user id")
	}

	user := &SessionUser{ID: claims.UserID, Email: claims.Email}
	if claims.ExpiresAt != nil {
		user.ExpiresAt = claims.ExpiresAt.Time
	}
	return user, nil
}
