// Package coordinator decides, for every load cycle, whether cards and
// categories come from the API or from the local cache, and exposes the
// result as a single View.
package coordinator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/phrazzld/flashdeck/internal/domain"
	"github.com/phrazzld/flashdeck/internal/events"
	"github.com/phrazzld/flashdeck/internal/offline/cache"
	"github.com/phrazzld/flashdeck/internal/offline/connectivity"
	"golang.org/x/sync/errgroup"
)

// User-facing messages for a cycle that ends without data.
const (
	NoOfflineDataMessage = "No offline data available. Connect to the internet to load your flashcards."
	LoadFailedMessage    = "Failed to load flashcards. Please try again later."
)

// Source says where the current View's data came from.
type Source string

// Data sources.
const (
	SourceNone   Source = ""
	SourceRemote Source = "remote"
	SourceCache  Source = "cache"
)

// View is what callers observe. Err and Message are set together, only when
// a cycle ended with no data at all; cached data after a failed fetch is
// served without an error.
type View struct {
	Cards      []domain.Card
	Categories []domain.Category
	Loading    bool
	Err        error
	Message    string
	Source     Source
	CachedAt   time.Time // capture time of cached data; zero for remote data
}

// Fetcher reads the remote collections.
type Fetcher interface {
	FetchCards(ctx context.Context) ([]domain.Card, error)
	FetchCategories(ctx context.Context) ([]domain.Category, error)
}

// Cache is the local snapshot store.
type Cache interface {
	Save(ctx context.Context, cards []domain.Card, categories []domain.Category) error
	Load(ctx context.Context) (*cache.Snapshot, error)
}

// OnlineChecker reports reachability.
type OnlineChecker interface {
	IsOnline() bool
}

// Coordinator exclusively owns the in-memory cards and categories. It is
// safe for concurrent use.
type Coordinator struct {
	fetcher Fetcher
	cache   Cache
	online  OnlineChecker
	logger  *slog.Logger

	mu   sync.Mutex
	view View
	seq  uint64 // id of the newest cycle; older cycles are discarded

	subsMu  sync.Mutex
	subs    map[int]func(View)
	nextSub int
}

var _ events.EventHandler = (*Coordinator)(nil)

// New creates a Coordinator with an empty, idle view.
func New(fetcher Fetcher, c Cache, online OnlineChecker, logger *slog.Logger) *Coordinator {
	if fetcher == nil {
		panic("fetcher cannot be nil")
	}
	if c == nil {
		panic("cache cannot be nil")
	}
	if online == nil {
		panic("online checker cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Coordinator{
		fetcher: fetcher,
		cache:   c,
		online:  online,
		logger:  logger.With(slog.String("component", "offline_coordinator")),
		view:    View{Cards: []domain.Card{}, Categories: []domain.Category{}},
		subs:    make(map[int]func(View)),
	}
}

// View returns the current view.
func (c *Coordinator) View() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.view
}

// cycleResult is the outcome of one load cycle before it is applied.
type cycleResult struct {
	cards      []domain.Card
	categories []domain.Category
	source     Source
	cachedAt   time.Time
	err        error
	message    string
}

// Refetch runs one load cycle and returns the view it produced. When a newer
// cycle starts before this one finishes, or ctx is canceled, this cycle's
// results are dropped and the returned view is whatever is current.
func (c *Coordinator) Refetch(ctx context.Context) View {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	c.view.Loading = true
	c.view.Err = nil
	c.view.Message = ""
	started := c.view
	c.mu.Unlock()
	c.notify(started)

	log := c.logger.With(slog.Uint64("cycle", seq))

	var res cycleResult
	if c.online.IsOnline() {
		res = c.loadRemote(ctx, seq, log)
	} else {
		log.Debug("offline, reading cache")
		res = c.loadCache(ctx, log, connectivity.ErrOffline, NoOfflineDataMessage)
	}

	c.mu.Lock()
	if seq != c.seq {
		current := c.seq
		view := c.view
		c.mu.Unlock()
		log.Debug("discarding superseded load cycle", slog.Uint64("current_cycle", current))
		return view
	}
	if ctx.Err() != nil {
		c.view.Loading = false
		view := c.view
		c.mu.Unlock()
		log.Debug("load cycle canceled", slog.String("error", ctx.Err().Error()))
		c.notify(view)
		return view
	}
	c.view = View{
		Cards:      res.cards,
		Categories: res.categories,
		Loading:    false,
		Err:        res.err,
		Message:    res.message,
		Source:     res.source,
		CachedAt:   res.cachedAt,
	}
	view := c.view
	c.mu.Unlock()

	c.notify(view)
	return view
}

func (c *Coordinator) loadRemote(ctx context.Context, seq uint64, log *slog.Logger) cycleResult {
	cards, categories, err := c.fetchBoth(ctx)
	if err != nil {
		log.Warn("remote fetch failed, falling back to cache", slog.String("error", err.Error()))
		return c.loadCache(ctx, log, err, LoadFailedMessage)
	}

	if c.isCurrent(seq) && ctx.Err() == nil {
		if werr := c.cache.Save(ctx, cards, categories); werr != nil {
			// The in-memory view still reflects the fetch.
			log.Warn("failed to write cache", slog.String("error", werr.Error()))
		}
	}

	return cycleResult{cards: cards, categories: categories, source: SourceRemote}
}

// fetchBoth reads cards and categories concurrently. Either failing fails
// both; no partial result is returned.
func (c *Coordinator) fetchBoth(ctx context.Context) ([]domain.Card, []domain.Category, error) {
	var (
		cards      []domain.Card
		categories []domain.Category
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		cards, err = c.fetcher.FetchCards(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = c.fetcher.FetchCategories(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	if cards == nil {
		cards = []domain.Card{}
	}
	if categories == nil {
		categories = []domain.Category{}
	}
	return cards, categories, nil
}

// loadCache serves the snapshot. cause explains why the cache is being read
// and is reported, together with the miss, when there is no snapshot.
func (c *Coordinator) loadCache(ctx context.Context, log *slog.Logger, cause error, message string) cycleResult {
	snap, err := c.cache.Load(ctx)
	if err != nil {
		if !errors.Is(err, cache.ErrNotFound) {
			err = fmt.Errorf("%w: %w", cache.ErrNotFound, err)
		}
		log.Info("no cached data available", slog.String("cause", cause.Error()))
		return cycleResult{
			cards:      []domain.Card{},
			categories: []domain.Category{},
			err:        fmt.Errorf("%w (%w)", err, cause),
			message:    message,
		}
	}

	log.Debug("serving cached data",
		slog.Int("cards", len(snap.Cards)),
		slog.Int("categories", len(snap.Categories)),
		slog.Time("saved_at", snap.SavedAt))
	return cycleResult{
		cards:      snap.Cards,
		categories: snap.Categories,
		source:     SourceCache,
		cachedAt:   snap.SavedAt,
	}
}

func (c *Coordinator) isCurrent(seq uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return seq == c.seq
}

// HandleEvent refetches when connectivity returns. Other events are ignored.
func (c *Coordinator) HandleEvent(ctx context.Context, event *events.Event) error {
	if event.Type != events.TypeConnectivityOnline {
		return nil
	}
	c.logger.Info("connectivity restored, reloading")
	c.Refetch(ctx)
	return nil
}

// Subscribe registers fn to be called with every new view. The returned
// function removes the subscription.
func (c *Coordinator) Subscribe(fn func(View)) (unsubscribe func()) {
	c.subsMu.Lock()
	defer c.subsMu.Unlock()

	id := c.nextSub
	c.nextSub++
	c.subs[id] = fn

	return func() {
		c.subsMu.Lock()
		defer c.subsMu.Unlock()
		delete(c.subs, id)
	}
}

func (c *Coordinator) notify(v View) {
	c.subsMu.Lock()
	fns := make([]func(View), 0, len(c.subs))
	for _, fn := range c.subs {
		fns = append(fns, fn)
	}
	c.subsMu.Unlock()

	for _, fn := range fns {
		fn(v)
	}
}
