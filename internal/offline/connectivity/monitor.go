// Package connectivity tracks whether the API is reachable and runs the
// synchronization status machine.
//
// A Monitor holds the online flag, the sync status and the time of the last
// successful sync. A Detector probes the API and feeds transitions into the
// Monitor. Transitions and status changes are published as events.
package connectivity

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/events"
)

// ErrOffline is returned by ForceSync when the monitor is offline.
var ErrOffline = errors.New("offline")

// DefaultResetDelay is how long a success or error status stays visible
// before returning to idle.
const DefaultResetDelay = 3 * time.Second

// Status is the synchronization status.
type Status string

// Sync statuses. StatusSyncing holds only while a sync request is
// outstanding.
const (
	StatusIdle    Status = "idle"
	StatusSyncing Status = "syncing"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// State is a point-in-time copy of the monitor.
type State struct {
	Online     bool      `json:"online"`
	Status     Status    `json:"status"`
	LastSyncAt time.Time `json:"last_sync_at,omitzero"`
}

// SyncSignaler issues the sync round trip.
type SyncSignaler interface {
	FetchSyncSignal(ctx context.Context) (*domain.SyncSummary, error)
}

// Monitor is safe for concurrent use.
type Monitor struct {
	gateway    SyncSignaler
	emitter    events.EventEmitter
	logger     *slog.Logger
	resetDelay time.Duration
	now        func() time.Time

	mu         sync.Mutex
	online     bool
	status     Status
	lastSyncAt time.Time
	inflight   int    // outstanding ForceSync calls
	generation uint64 // bumped whenever a reset is armed or a sync starts
	resetTimer *time.Timer
}

// Option configures a Monitor.
type Option func(*Monitor)

// WithResetDelay overrides DefaultResetDelay.
func WithResetDelay(d time.Duration) Option {
	return func(m *Monitor) {
		if d > 0 {
			m.resetDelay = d
		}
	}
}

// WithInitialOnline sets the starting online flag. The default is online.
func WithInitialOnline(online bool) Option {
	return func(m *Monitor) { m.online = online }
}

// WithClock replaces time.Now for recording LastSyncAt.
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// NewMonitor creates a Monitor that syncs through gateway and publishes to
// emitter.
func NewMonitor(gateway SyncSignaler, emitter events.EventEmitter, logger *slog.Logger, opts ...Option) *Monitor {
	if gateway == nil {
		panic("gateway cannot be nil")
	}
	if emitter == nil {
		panic("emitter cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	m := &Monitor{
		gateway:    gateway,
		emitter:    emitter,
		logger:     logger.With(slog.String("component", "connectivity_monitor")),
		resetDelay: DefaultResetDelay,
		now:        time.Now,
		online:     true,
		status:     StatusIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// IsOnline reports the current online flag.
func (m *Monitor) IsOnline() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.online
}

// Status returns the current sync status.
func (m *Monitor) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.status
}

// LastSyncAt returns when the last successful sync finished, or the zero
// time.
func (m *Monitor) LastSyncAt() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastSyncAt
}

// State returns a consistent copy of all three fields.
func (m *Monitor) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stateLocked()
}

func (m *Monitor) stateLocked() State {
	return State{Online: m.online, Status: m.status, LastSyncAt: m.lastSyncAt}
}

// ForceSync issues one sync request. It returns ErrOffline without touching
// any state when offline. Otherwise the status moves to syncing, then to
// success or error, and back to idle after the reset delay. Failures are not
// retried.
//
// Overlapping calls are not serialized. The status stays syncing until the
// last outstanding call completes; that call's outcome becomes the status and
// arms the idle reset.
func (m *Monitor) ForceSync(ctx context.Context) error {
	m.mu.Lock()
	if !m.online {
		m.mu.Unlock()
		return ErrOffline
	}
	m.inflight++
	m.cancelResetLocked()
	m.status = StatusSyncing
	state := m.stateLocked()
	m.mu.Unlock()
	m.publishStatus(ctx, state)

	summary, err := m.gateway.FetchSyncSignal(ctx)

	m.mu.Lock()
	m.inflight--
	if err == nil {
		m.lastSyncAt = m.now()
	}
	last := m.inflight == 0
	if last {
		if err != nil {
			m.status = StatusError
		} else {
			m.status = StatusSuccess
		}
		m.generation++
		gen := m.generation
		m.resetTimer = time.AfterFunc(m.resetDelay, func() { m.resetToIdle(gen) })
	}
	state = m.stateLocked()
	m.mu.Unlock()
	if last {
		m.publishStatus(ctx, state)
	}

	if err != nil {
		m.logger.Warn("sync failed", slog.String("error", err.Error()))
		return err
	}

	m.logger.Info("sync succeeded",
		slog.Int("card_count", summary.CardCount),
		slog.Int("category_count", summary.CategoryCount))
	return nil
}

func (m *Monitor) cancelResetLocked() {
	m.generation++
	if m.resetTimer != nil {
		m.resetTimer.Stop()
		m.resetTimer = nil
	}
}

func (m *Monitor) resetToIdle(gen uint64) {
	m.mu.Lock()
	if m.generation != gen || m.inflight > 0 {
		m.mu.Unlock()
		return
	}
	m.status = StatusIdle
	m.resetTimer = nil
	state := m.stateLocked()
	m.mu.Unlock()

	m.publishStatus(context.Background(), state)
}

// SetOnline records a platform reachability report. Reports that do not
// change the flag are ignored. Going online publishes
// events.TypeConnectivityOnline and runs exactly one ForceSync; going
// offline publishes events.TypeConnectivityOffline.
func (m *Monitor) SetOnline(ctx context.Context, online bool) {
	m.mu.Lock()
	if m.online == online {
		m.mu.Unlock()
		return
	}
	m.online = online
	state := m.stateLocked()
	m.mu.Unlock()

	eventType := events.TypeConnectivityOffline
	if online {
		eventType = events.TypeConnectivityOnline
	}
	m.logger.Info("connectivity changed", slog.Bool("online", online))
	m.publish(ctx, eventType, state)

	if online {
		// The error is already logged and reflected in the status.
		_ = m.ForceSync(ctx)
	}
}

// Close stops a pending idle reset.
func (m *Monitor) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cancelResetLocked()
}

func (m *Monitor) publishStatus(ctx context.Context, state State) {
	m.publish(ctx, events.TypeSyncStatus, state)
}

func (m *Monitor) publish(ctx context.Context, eventType string, state State) {
	event, err := events.NewEvent(eventType, state)
	if err != nil {
		m.logger.Error("failed to build event", slog.String("type", eventType), slog.String("error", err.Error()))
		return
	}
	// Handler failures are logged by the emitter and do not affect the monitor.
	_ = m.emitter.EmitEvent(ctx, event)
}
