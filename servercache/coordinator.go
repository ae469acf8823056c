// Package servercache coordinates loading of the airport snapshot on the
// server. Lookups resolve through three stages in order: the in-memory
// snapshot, the persistent cache and finally the origin (the provider, or the
// bundled sample data when permitted).
package servercache

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/jhonatancruzmail/SkyConnectExplorer/airports"
	"github.com/jhonatancruzmail/SkyConnectExplorer/aviationstack"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/cache"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/logger"
	"github.com/jhonatancruzmail/SkyConnectExplorer/pkg/metrics"
)

const loadKey = "airports"

// Stage names the tier that resolved a load.
type Stage string

const (
	StageMemory     Stage = "memory"
	StagePersistent Stage = "persistent"
	StageOrigin     Stage = "origin"
	StageSample     Stage = "sample"
)

// State describes the coordinator's in-memory tier.
type State string

const (
	StateEmpty     State = "empty"
	StateLoading   State = "loading"
	StatePopulated State = "populated"
)

// Upstream fetches raw airport pages from the provider.
type Upstream interface {
	FetchPage(ctx context.Context, apiKey string, params aviationstack.PageParams) (*aviationstack.ProviderPage, error)
}

// FallbackProvider supplies bundled sample data.
type FallbackProvider interface {
	Load() (airports.Page, error)
}

// Entry is an immutable airport snapshot. It is replaced wholesale, never mutated.
type Entry struct {
	Airports  []airports.Airport `json:"airports"`
	Total     int                `json:"total"`
	Timestamp time.Time          `json:"timestamp"`
}

// Settings configures how the origin is reached.
type Settings struct {
	APIKey          string
	PageLimit       int
	FallbackAllowed bool
	RevalidateAfter time.Duration
}

// Option configures a Coordinator.
type Option func(*Coordinator)

// WithPersistentCache enables the persistent stage backed by store.
func WithPersistentCache(store cache.Cache) Option {
	return func(c *Coordinator) {
		if store != nil {
			c.persistent = cache.NewCacheManager(store)
		}
	}
}

// WithFallback sets the sample data provider.
func WithFallback(p FallbackProvider) Option {
	return func(c *Coordinator) { c.fallback = p }
}

// WithClock replaces the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) { c.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) Option {
	return func(c *Coordinator) {
		if l != nil {
			c.log = l
		}
	}
}

// Coordinator serves the airport snapshot and guarantees at most one load in
// flight at a time. It is safe for concurrent use.
type Coordinator struct {
	upstream   Upstream
	fallback   FallbackProvider
	persistent *cache.CacheManager
	settings   Settings
	now        func() time.Time
	log        *logger.Logger

	group singleflight.Group

	mu         sync.RWMutex
	snapshot   *Entry
	loading    bool
	generation uint64
}

// New creates a Coordinator in the Empty state.
func New(upstream Upstream, settings Settings, opts ...Option) *Coordinator {
	if settings.RevalidateAfter <= 0 {
		settings.RevalidateAfter = cache.RevalidateTTL
	}
	if settings.PageLimit <= 0 {
		settings.PageLimit = 10000
	}

	c := &Coordinator{
		upstream: upstream,
		settings: settings,
		now:      time.Now,
		log:      logger.WithField("component", "server_cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetAirports returns the current snapshot, loading it if necessary.
// Concurrent callers during a load share its result or its error.
func (c *Coordinator) GetAirports(ctx context.Context) (airports.Page, error) {
	if entry, ok := c.memory(); ok {
		metrics.CacheResolutions.WithLabelValues(string(StageMemory)).Inc()
		return entry.page(), nil
	}

	// the load outlives any single caller's cancellation since others may share it
	result := c.group.DoChan(loadKey, func() (interface{}, error) {
		return c.load(context.WithoutCancel(ctx))
	})

	select {
	case res := <-result:
		if res.Err != nil {
			return airports.Page{}, res.Err
		}
		return res.Val.(*Entry).page(), nil
	case <-ctx.Done():
		return airports.Page{}, ctx.Err()
	}
}

// Invalidate drops the in-memory snapshot and any in-flight handle. The
// persistent stage keeps its own revalidation window.
func (c *Coordinator) Invalidate() {
	c.mu.Lock()
	c.snapshot = nil
	c.loading = false
	c.generation++
	c.mu.Unlock()

	c.group.Forget(loadKey)
	c.log.Info("Server cache invalidated")
}

// State reports the state of the in-memory tier.
func (c *Coordinator) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()

	switch {
	case c.snapshot != nil:
		return StatePopulated
	case c.loading:
		return StateLoading
	default:
		return StateEmpty
	}
}

// Snapshot returns the in-memory entry without triggering a load.
func (c *Coordinator) Snapshot() (Entry, bool) {
	entry, ok := c.memory()
	if !ok {
		return Entry{}, false
	}
	return *entry, true
}

func (c *Coordinator) memory() (*Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot, c.snapshot != nil
}

func (c *Coordinator) load(ctx context.Context) (*Entry, error) {
	c.mu.Lock()
	if c.snapshot != nil {
		entry := c.snapshot
		c.mu.Unlock()
		return entry, nil
	}
	gen := c.generation
	c.loading = true
	c.mu.Unlock()

	entry, stage, err := c.resolve(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.generation == gen {
		c.loading = false
		if err == nil {
			c.snapshot = entry
		}
	}
	if err != nil {
		metrics.LoadFailures.Inc()
		c.log.Error(err, "Failed to load airports")
		return nil, err
	}

	metrics.CacheResolutions.WithLabelValues(string(stage)).Inc()
	c.log.Info("Airports loaded into server cache", "source", string(stage), "count", len(entry.Airports), "total", entry.Total)
	return entry, nil
}

func (c *Coordinator) resolve(ctx context.Context) (*Entry, Stage, error) {
	if entry, ok := c.readPersistent(ctx); ok {
		return entry, StagePersistent, nil
	}

	entry, originErr := c.fetchOrigin(ctx)
	if originErr == nil {
		c.writePersistent(ctx, entry)
		return entry, StageOrigin, nil
	}

	if c.settings.FallbackAllowed && c.fallback != nil {
		page, err := c.fallback.Load()
		if err == nil {
			c.log.Warn("Using bundled sample airports as fallback (non-production only)", "cause", originErr.Error())
			return &Entry{Airports: page.Airports, Total: page.Total, Timestamp: c.now()}, StageSample, nil
		}
		c.log.Error(err, "Failed to load sample airports")
	}

	return nil, "", classify(originErr)
}

func (c *Coordinator) fetchOrigin(ctx context.Context) (*Entry, error) {
	if c.settings.APIKey == "" {
		return nil, &ConfigurationError{Reason: "AVIATIONSTACK_API_KEY is not configured; an API key is required in production"}
	}

	offset, limit := 0, c.settings.PageLimit
	page, err := c.upstream.FetchPage(ctx, c.settings.APIKey, aviationstack.PageParams{Offset: &offset, Limit: &limit})
	if err != nil {
		metrics.UpstreamRequests.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.UpstreamRequests.WithLabelValues("success").Inc()

	return &Entry{
		Airports:  airports.ToDomain(page.Records),
		Total:     page.Total,
		Timestamp: c.now(),
	}, nil
}

func (c *Coordinator) readPersistent(ctx context.Context) (*Entry, bool) {
	if c.persistent == nil {
		return nil, false
	}

	var entry Entry
	err := c.persistent.GetJSON(ctx, cache.AirportsKey(), &entry)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			c.log.Warn("Persistent airport cache unavailable", "error", err.Error())
		}
		return nil, false
	}
	if len(entry.Airports) == 0 || c.now().Sub(entry.Timestamp) >= c.settings.RevalidateAfter {
		return nil, false
	}
	return &entry, true
}

func (c *Coordinator) writePersistent(ctx context.Context, entry *Entry) {
	if c.persistent == nil {
		return
	}
	if err := c.persistent.SetJSON(ctx, cache.AirportsKey(), entry, c.settings.RevalidateAfter); err != nil {
		c.log.Error(err, "Failed to store airports in persistent cache")
	}
}

func (e *Entry) page() airports.Page {
	return airports.Page{Airports: e.Airports, Total: e.Total}
}
