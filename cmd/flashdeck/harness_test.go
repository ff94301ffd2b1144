package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/phrazzld/flashdeck/internal/config"
	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/platform/kvstore"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/stretchr/testify/require"
)

const (
	testEmail    = "learner@example.com"
	testPassword = "password123"
)

// fakeAPI serves the endpoints the client uses.
type fakeAPI struct {
	t   *testing.T
	srv *httptest.Server

	down         atomic.Bool
	settingsDown atomic.Bool
	syncCalls    atomic.Int32
	healthCalls  atomic.Int32

	userID     uuid.UUID
	mu         sync.Mutex
	cards      []domain.Card
	categories []domain.Category
	settings   *domain.NotificationSettings
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	api := &fakeAPI{t: t, userID: uuid.New()}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("OK"))
	})
	mux.HandleFunc("POST /api/auth/login", api.login)
	mux.HandleFunc("POST /api/auth/register", api.login)
	mux.HandleFunc("GET /api/cards", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		api.respond(w, r, api.cards)
	})
	mux.HandleFunc("GET /api/categories", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		api.respond(w, r, api.categories)
	})
	mux.HandleFunc("POST /api/sync", func(w http.ResponseWriter, r *http.Request) {
		api.syncCalls.Add(1)
		api.mu.Lock()
		defer api.mu.Unlock()
		api.respond(w, r, domain.SyncSummary{
			CardCount:     len(api.cards),
			CategoryCount: len(api.categories),
			Timestamp:     time.Now().UTC(),
		})
	})
	mux.HandleFunc("GET /api/settings", func(w http.ResponseWriter, r *http.Request) {
		api.mu.Lock()
		defer api.mu.Unlock()
		s := api.settings
		if s == nil {
			d := domain.DefaultNotificationSettings(api.userID)
			s = &d
		}
		api.respondSettings(w, r, s)
	})
	mux.HandleFunc("PUT /api/settings", func(w http.ResponseWriter, r *http.Request) {
		var s domain.NotificationSettings
		if err := json.NewDecoder(r.Body).Decode(&s); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		api.mu.Lock()
		defer api.mu.Unlock()
		api.settings = &s
		api.respondSettings(w, r, &s)
	})

	api.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			api.healthCalls.Add(1)
		}
		if api.down.Load() {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(api.srv.Close)
	return api
}

func (api *fakeAPI) login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil || creds.Password != testPassword {
		http.Error(w, `{"error":"Invalid credentials"}`, http.StatusUnauthorized)
		return
	}

	expires := time.Now().Add(time.Hour)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":   api.userID.String(),
		"email": creds.Email,
		"exp":   expires.Unix(),
	}).SignedString([]byte("test-secret-test-secret-test-secret"))
	require.NoError(api.t, err)

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"token": token, "expires_at": expires})
}

func (api *fakeAPI) respond(w http.ResponseWriter, r *http.Request, body any) {
	if !strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ") {
		http.Error(w, `{"error":"Authorization header required"}`, http.StatusUnauthorized)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}

func (api *fakeAPI) respondSettings(w http.ResponseWriter, r *http.Request, s *domain.NotificationSettings) {
	if api.settingsDown.Load() {
		http.Error(w, `{"error":"unavailable"}`, http.StatusInternalServerError)
		return
	}
	api.respond(w, r, s)
}

func (api *fakeAPI) addCategory(t *testing.T, name string, parent *domain.Category) *domain.Category {
	t.Helper()
	var parentID *uuid.UUID
	if parent != nil {
		parentID = &parent.ID
	}
	cat, err := domain.NewCategory(api.userID, name, parentID)
	require.NoError(t, err)

	api.mu.Lock()
	defer api.mu.Unlock()
	api.categories = append(api.categories, *cat)
	return cat
}

func (api *fakeAPI) addCard(t *testing.T, front, back string, category *domain.Category) *domain.Card {
	t.Helper()
	var categoryID *uuid.UUID
	if category != nil {
		categoryID = &category.ID
	}
	card, err := domain.NewCard(api.userID, categoryID, front, back)
	require.NoError(t, err)

	api.mu.Lock()
	defer api.mu.Unlock()
	api.cards = append(api.cards, *card)
	return card
}

func (api *fakeAPI) addChoiceCard(t *testing.T, front string, options []string, correct int, category *domain.Category) {
	t.Helper()
	var categoryID *uuid.UUID
	if category != nil {
		categoryID = &category.ID
	}
	card, err := domain.NewMultipleChoiceCard(api.userID, categoryID, front, options, correct)
	require.NoError(t, err)

	api.mu.Lock()
	defer api.mu.Unlock()
	api.cards = append(api.cards, *card)
}

// harness runs commands against one fakeAPI with stores that persist across
// invocations, the way the on-disk files do.
type harness struct {
	api     *fakeAPI
	durable *kvstore.Memory
	session *kvstore.Memory

	probeInterval time.Duration
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	return &harness{
		api:           newFakeAPI(t),
		durable:       kvstore.NewMemory(),
		session:       kvstore.NewMemory(),
		probeInterval: time.Second,
	}
}

func (h *harness) factory(context.Context) (*client, error) {
	cfg := config.ClientConfig{
		APIBaseURL:     h.api.srv.URL,
		RequestTimeout: 2 * time.Second,
		ProbeInterval:  h.probeInterval,
		SyncResetDelay: 10 * time.Millisecond,
	}
	return newClient(cfg, logger.Discard(), h.api.srv.Client(), h.durable, h.session), nil
}

func (h *harness) run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	return h.runFrom(strings.NewReader(input), args...)
}

// runFrom executes one command reading input from in. It is safe to call
// from a goroutine other than the test's.
func (h *harness) runFrom(in io.Reader, args ...string) (string, error) {
	var out bytes.Buffer
	root := newRootCommand(h.factory, in, &out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func (h *harness) mustRun(t *testing.T, input string, args ...string) string {
	t.Helper()
	out, err := h.run(t, input, args...)
	require.NoError(t, err, out)
	return out
}

func (h *harness) login(t *testing.T) {
	t.Helper()
	h.mustRun(t, "", "login", "--email", testEmail, "--password", testPassword)
}
