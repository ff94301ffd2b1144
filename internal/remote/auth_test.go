package remote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/platform/kvstore"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, userID uuid.UUID, email string, expiresAt time.Time) string {
	t.Helper()
	claims := tokenClaims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func newAuthServer(t *testing.T, userID uuid.UUID, expiresAt time.Time) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	handler := func(w http.ResponseWriter, r *http.Request) {
		var c credentials
		if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if c.Password != "correct-password" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, tokenResponse{
			Token:     signToken(t, userID, c.Email, expiresAt),
			ExpiresAt: expiresAt,
		})
	}
	mux.HandleFunc("POST /api/auth/login", handler)
	mux.HandleFunc("POST /api/auth/register", handler)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestAuthClient_LoginStoresTokenAndNotifies(t *testing.T) {
	userID := uuid.New()
	srv := newAuthServer(t, userID, time.Now().Add(time.Hour))
	store := kvstore.NewMemory()
	client := NewAuthClient(srv.URL, srv.Client(), store, logger.Discard())

	var notified []*SessionUser
	client.Subscribe(func(u *SessionUser) { notified = append(notified, u) })

	user, err := client.Login(context.Background(), " a@example.com ", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
	assert.Equal(t, "a@example.com", user.Email)

	current, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	require.NotNil(t, current)
	assert.Equal(t, userID, current.ID)

	token, err := client.Token(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, token)

	require.Len(t, notified, 1)
	assert.Equal(t, userID, notified[0].ID)
}

func TestAuthClient_LoginRejected(t *testing.T) {
	srv := newAuthServer(t, uuid.New(), time.Now().Add(time.Hour))
	store := kvstore.NewMemory()
	client := NewAuthClient(srv.URL, srv.Client(), store, nil)

	_, err := client.Login(context.Background(), "a@example.com", "wrong")

	assert.Equal(t, http.StatusUnauthorized, StatusCode(err))
	assert.Contains(t, err.Error(), "Invalid email or password")
	assert.Zero(t, store.Len())
}

func TestAuthClient_Register(t *testing.T) {
	userID := uuid.New()
	srv := newAuthServer(t, userID, time.Now().Add(time.Hour))
	client := NewAuthClient(srv.URL, srv.Client(), kvstore.NewMemory(), nil)

	user, err := client.Register(context.Background(), "new@example.com", "correct-password")
	require.NoError(t, err)
	assert.Equal(t, userID, user.ID)
}

func TestAuthClient_LogoutClearsSession(t *testing.T) {
	srv := newAuthServer(t, uuid.New(), time.Now().Add(time.Hour))
	client := NewAuthClient(srv.URL, srv.Client(), kvstore.NewMemory(), nil)

	_, err := client.Login(context.Background(), "a@example.com", "correct-password")
	require.NoError(t, err)

	last := &SessionUser{}
	unsubscribe := client.Subscribe(func(u *SessionUser) { last = u })

	require.NoError(t, client.Logout(context.Background()))
	assert.Nil(t, last)

	user, err := client.CurrentUser(context.Background())
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = client.Token(context.Background())
	assert.ErrorIs(t, err, ErrNoSession)

	unsubscribe()
	_, err = client.Login(context.Background(), "a@example.com", "correct-password")
	require.NoError(t, err)
	assert.Nil(t, last, "unsubscribed listener is not called")
}

func TestAuthClient_ExpiredAndGarbageTokens(t *testing.T) {
	ctx := context.Background()
	store := kvstore.NewMemory()
	client := NewAuthClient("http://unused", nil, store, nil)

	require.NoError(t, store.Set(ctx, TokenKey, []byte(signToken(t, uuid.New(), "a@example.com", time.Now().Add(-time.Minute)))))
	user, err := client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user, "expired token means no session")

	require.NoError(t, store.Set(ctx, TokenKey, []byte("not-a-jwt")))
	user, err = client.CurrentUser(ctx)
	require.NoError(t, err)
	assert.Nil(t, user)

	_, err = client.Token(ctx)
	assert.ErrorIs(t, err, ErrNoSession)
}
