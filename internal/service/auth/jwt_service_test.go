package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret  = "test-secret-that-is-long-enough-for-testing"
	wrongSecret = "wrong-secret-that-is-long-enough-for-testing"
)

func TestNewJWTService(t *testing.T) {
	_, err := NewJWTService(config.AuthConfig{JWTSecret: "short", TokenLifetimeMinutes: 60})
	assert.Error(t, err)

	svc, err := NewJWTService(config.AuthConfig{JWTSecret: testSecret, TokenLifetimeMinutes: 60})
	require.NoError(t, err)
	assert.NotNil(t, svc)
}

func TestGenerateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	svc := newHMACJWTService(testSecret, tokenLifetime, func() time.Time { return fixedTime })

	token, expiresAt, err := svc.GenerateToken(context.Background(), userID, "a@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, fixedTime.Add(tokenLifetime), expiresAt)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)

	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "a@example.com", claims.Email)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(tokenLifetime).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	tokenLifetime := 60 * time.Minute
	userID := uuid.New()

	at := func(secret string, ts time.Time) *hmacJWTService {
		return newHMACJWTService(secret, tokenLifetime, func() time.Time { return ts })
	}
	issue := func(t *testing.T) string {
		token, _, err := at(testSecret, fixedTime).GenerateToken(context.Background(), userID, "a@example.com")
		require.NoError(t, err)
		return token
	}

	tests := []struct {
		name      string
		validator *hmacJWTService
		token     func(t *testing.T) string
		wantErr   error
	}{
		{
			name:      "valid token",
			validator: at(testSecret, fixedTime),
			token:     issue,
		},
		{
			name:      "within clock skew after expiry",
			validator: at(testSecret, fixedTime.Add(tokenLifetime+time.Minute)),
			token:     issue,
		},
		{
			name:      "expired token",
			validator: at(testSecret, fixedTime.Add(tokenLifetime+time.Hour)),
			token:     issue,
			wantErr:   ErrExpiredToken,
		},
		{
			name:      "invalid signature",
			validator: at(wrongSecret, fixedTime),
			token:     issue,
			wantErr:   ErrInvalidToken,
		},
		{
			name:      "malformed token",
			validator: at(testSecret, fixedTime),
			token:     func(*testing.T) string { return "this.is.not.a.valid.jwt.token" },
			wantErr:   ErrInvalidToken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := tc.validator.ValidateToken(context.Background(), tc.token(t))
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				assert.Nil(t, claims)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, userID, claims.UserID)
		})
	}
}

func TestBcryptVerifier(t *testing.T) {
	v := NewBcryptVerifier(4)

	hash, err := v.Hash("correct horse")
	require.NoError(t, err)
	assert.NotEqual(t, "correct horse", hash)

	assert.NoError(t, v.Compare(hash, "correct horse"))
	assert.Error(t, v.Compare(hash, "battery staple"))

	// Out-of-range cost falls back to the default.
	assert.NotNil(t, NewBcryptVerifier(0))
}
