package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"

	"github.com/phrazzld/flashdeck/internal/config"
	"github.com/phrazzld/flashdeck/internal/events"
	"github.com/phrazzld/flashdeck/internal/offline/cache"
	"github.com/phrazzld/flashdeck/internal/offline/connectivity"
	"github.com/phrazzld/flashdeck/internal/offline/coordinator"
	"github.com/phrazzld/flashdeck/internal/offline/progress"
	"github.com/phrazzld/flashdeck/internal/platform/kvstore"
	"github.com/phrazzld/flashdeck/internal/platform/logger"
	"github.com/phrazzld/flashdeck/internal/remote"
	"github.com/phrazzld/flashdeck/internal/settings"
	"github.com/phrazzld/flashdeck/internal/study"
)

// client is the wired object graph behind every command.
type client struct {
	logger *slog.Logger

	durable kvstore.Store
	session kvstore.Store

	events      *events.InMemoryEventEmitter
	auth        *remote.AuthClient
	gateway     *remote.Gateway
	monitor     *connectivity.Monitor
	detector    *connectivity.Detector
	cache       *cache.Store
	coordinator *coordinator.Coordinator
	progress    *progress.Persister
	settings    *settings.Manager
	engine      *study.Engine
}

// clientFactory builds a client for one command invocation.
type clientFactory func(ctx context.Context) (*client, error)

// openClient loads the client configuration and opens the on-disk stores.
func openClient(ctx context.Context) (*client, error) {
	cfg, err := config.LoadClient()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	// Log output would interleave with command output, so it goes to a file.
	if cfg.Log.File == "" {
		cfg.Log.File = filepath.Join(filepath.Dir(cfg.Client.CachePath), "flashdeck.log")
	}
	log, err := logger.Setup(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	durable, err := kvstore.OpenSQLite(ctx, cfg.Client.CachePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	session, err := kvstore.OpenSQLite(ctx, cfg.Client.SessionPath)
	if err != nil {
		_ = durable.Close()
		return nil, fmt.Errorf("failed to open session store: %w", err)
	}

	httpClient := &http.Client{Timeout: cfg.Client.RequestTimeout}
	return newClient(cfg.Client, log, httpClient, durable, session), nil
}

// newClient wires the offline layer. durable holds the cache, the token and
// the settings fallback; session holds study progress only.
func newClient(
	cfg config.ClientConfig,
	log *slog.Logger,
	httpClient *http.Client,
	durable, session kvstore.Store,
) *client {
	if durable == nil || session == nil {
		panic("key-value stores cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}

	auth := remote.NewAuthClient(cfg.APIBaseURL, httpClient, durable, log)
	gateway := remote.NewGateway(cfg.APIBaseURL, httpClient, auth, log)

	emitter := events.NewInMemoryEventEmitter(log)
	monitor := connectivity.NewMonitor(gateway, emitter, log,
		connectivity.WithResetDelay(cfg.SyncResetDelay))
	localCache := cache.New(durable, log)
	coord := coordinator.New(gateway, localCache, monitor, log)
	emitter.RegisterHandler(coord, events.TypeConnectivityOnline)

	return &client{
		logger:      log,
		durable:     durable,
		session:     session,
		events:      emitter,
		auth:        auth,
		gateway:     gateway,
		monitor:     monitor,
		detector:    connectivity.NewDetector(gateway, monitor, cfg.ProbeInterval, log),
		cache:       localCache,
		coordinator: coord,
		progress:    progress.New(session, log),
		settings:    settings.NewManager(gateway, durable, log),
		engine:      study.NewEngine(nil),
	}
}

// checkConnectivity probes the API once so the monitor reflects reality
// before data is loaded.
func (c *client) checkConnectivity(ctx context.Context) bool {
	return c.detector.Check(ctx)
}

// requireSession returns the signed-in user or an error telling the user to
// log in.
func (c *client) requireSession(ctx context.Context) (*remote.SessionUser, error) {
	user, err := c.auth.CurrentUser(ctx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, errNotSignedIn
	}
	return user, nil
}

var errNotSignedIn = errors.New("not signed in; run 'flashdeck login' first")

func (c *client) Close() error {
	c.monitor.Close()
	return errors.Join(c.durable.Close(), c.session.Close())
}
