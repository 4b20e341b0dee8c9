package swr

import (
	"context"
	"errors"
	"sync"
	"time"

	"dex_data/internal/app/port"

	gocache "github.com/patrickmn/go-cache"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
)

// Fetcher performs the remote call behind one key.
type Fetcher[T any] func(ctx context.Context) (T, error)

// Response is the state of one key as seen by a consumer.
type Response[T any] struct {
	Data         T
	Error        error
	IsValidating bool
}

type entry struct {
	data      any
	err       error
	hasData   bool
	updatedAt time.Time
}

type revalidator struct {
	leaseUntil time.Time
	tick       func()
	stop       chan struct{}
}

// Cache is a stale-while-revalidate cache with per-key request coalescing.
type Cache struct {
	cfg     Config
	store   *gocache.Cache
	group   singleflight.Group
	logger  port.Logger
	metrics *metrics
	now     func() time.Time

	mu       sync.Mutex
	watchers map[string]*revalidator
	closed   bool
	wg       sync.WaitGroup
}

// Option customizes a Cache.
type Option func(*Cache)

// WithClock replaces the clock used for freshness and observer leases.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a cache. Metrics are registered on reg when it is not nil.
func New(cfg Config, logger port.Logger, reg prometheus.Registerer, opts ...Option) *Cache {
	cfg = cfg.withDefaults()
	c := &Cache{
		cfg:      cfg,
		store:    gocache.New(cfg.Retention, cfg.CleanupInterval),
		logger:   logger,
		metrics:  newMetrics(reg),
		now:      time.Now,
		watchers: make(map[string]*revalidator),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Use returns the state of key, fetching it when the cached entry is missing or older
// than opts.DedupingInterval. Concurrent uses of the same key share one fetch.
func Use[T any](ctx context.Context, c *Cache, key Key, fetch Fetcher[T], opts Options) Response[T] {
	if key == nil {
		c.metrics.lookups.WithLabelValues(key.kind(), "skipped").Inc()
		return Response[T]{}
	}
	id, kind := key.String(), key.kind()

	if opts.RefreshInterval > 0 {
		observe(c, id, kind, fetch, opts.RefreshInterval)
	}

	current, found := c.lookup(id)
	if found && c.now().Sub(current.updatedAt) < opts.DedupingInterval {
		c.metrics.lookups.WithLabelValues(kind, "fresh").Inc()
		return toResponse[T](current, false)
	}
	if found {
		c.metrics.lookups.WithLabelValues(kind, "stale").Inc()
	} else {
		c.metrics.lookups.WithLabelValues(kind, "miss").Inc()
	}

	if !opts.Suspense {
		go func() { _ = revalidate(context.Background(), c, id, kind, fetch) }()
		return toResponse[T](current, true)
	}

	if err := revalidate(ctx, c, id, kind, fetch); err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		resp := toResponse[T](current, true)
		resp.Error = err
		return resp
	}
	settled, _ := c.lookup(id)
	return toResponse[T](settled, false)
}

// Release stops background revalidation of key. An in-flight fetch still completes and is stored.
func (c *Cache) Release(key Key) {
	if key == nil {
		return
	}
	id := key.String()
	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.watchers[id]; ok {
		c.removeWatcherLocked(id, r)
		close(r.stop)
	}
}

// Invalidate drops the cached entry of key so the next Use fetches again.
func (c *Cache) Invalidate(key Key) {
	if key == nil {
		return
	}
	c.store.Delete(key.String())
}

// Close stops every background revalidator and waits for them to exit.
func (c *Cache) Close() {
	c.mu.Lock()
	c.closed = true
	for id, r := range c.watchers {
		c.removeWatcherLocked(id, r)
		close(r.stop)
	}
	c.mu.Unlock()
	c.wg.Wait()
}

func (c *Cache) lookup(id string) (entry, bool) {
	v, ok := c.store.Get(id)
	if !ok {
		return entry{}, false
	}
	e, ok := v.(entry)
	return e, ok
}

func (c *Cache) settle(id, kind string, data any, err error) {
	previous, found := c.lookup(id)
	next := entry{updatedAt: c.now()}
	if err != nil {
		c.metrics.fetches.WithLabelValues(kind, "error").Inc()
		if c.logger != nil {
			c.logger.Debug("Fetch failed, keeping previous data", "key", id, "error", err)
		}
		next.err = err
		if found {
			next.data, next.hasData = previous.data, previous.hasData
		}
	} else {
		c.metrics.fetches.WithLabelValues(kind, "success").Inc()
		next.data, next.hasData = data, true
	}
	c.store.SetDefault(id, next)
}

// revalidate runs fetch for id, joining a fetch already in flight. The fetch itself runs on a
// detached context bounded by FetchTimeout; ctx only bounds how long this caller waits.
func revalidate[T any](ctx context.Context, c *Cache, id, kind string, fetch Fetcher[T]) error {
	ch := c.group.DoChan(id, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.Background(), c.cfg.FetchTimeout)
		defer cancel()

		start := time.Now()
		data, err := fetch(fetchCtx)
		c.metrics.fetchDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
		c.settle(id, kind, data, err)
		return nil, err
	})
	select {
	case res := <-ch:
		return res.Err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func observe[T any](c *Cache, id, kind string, fetch Fetcher[T], interval time.Duration) {
	lease := c.now().Add(interval * time.Duration(c.cfg.ObserverLeaseCycles))
	tick := func() { _ = revalidate(context.Background(), c, id, kind, fetch) }

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	if r, ok := c.watchers[id]; ok {
		r.leaseUntil = lease
		r.tick = tick
		return
	}
	r := &revalidator{leaseUntil: lease, tick: tick, stop: make(chan struct{})}
	c.watchers[id] = r
	c.metrics.revalidators.Inc()
	c.wg.Add(1)
	go c.runRevalidator(id, r, interval)
}

func (c *Cache) runRevalidator(id string, r *revalidator, interval time.Duration) {
	defer c.wg.Done()
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case <-ticker.C:
		}

		c.mu.Lock()
		expired := c.now().After(r.leaseUntil)
		if expired {
			c.removeWatcherLocked(id, r)
		}
		tick := r.tick
		c.mu.Unlock()

		if expired {
			if c.logger != nil {
				c.logger.Debug("No observers left, stopping revalidation", "key", id)
			}
			return
		}
		tick()
	}
}

func (c *Cache) removeWatcherLocked(id string, r *revalidator) {
	if c.watchers[id] == r {
		delete(c.watchers, id)
		c.metrics.revalidators.Dec()
	}
}

func toResponse[T any](e entry, validating bool) Response[T] {
	resp := Response[T]{Error: e.err, IsValidating: validating}
	if e.hasData {
		if v, ok := e.data.(T); ok {
			resp.Data = v
		}
	}
	return resp
}
