// ABOUTME: In-memory query cache with staleness tracking and request deduplication
// ABOUTME: Shares one in-flight fetch per key and refetches on interval or invalidation

package query

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Defaults applied when Config fields are zero.
const (
	DefaultStaleTime       = 5 * time.Minute
	DefaultGCTime          = 10 * time.Minute
	DefaultRetries         = 3
	DefaultMutationRetries = 1
)

// FetchFunc loads the data for one query key.
type FetchFunc func(ctx context.Context) (any, error)

// Config sets cache-wide defaults. Zero values fall back to the
// package defaults above; pass a negative retry count to disable
// retrying entirely (an explicit zero cannot be told apart from an
// unset field).
type Config struct {
	StaleTime       time.Duration
	GCTime          time.Duration
	Retries         int // extra attempts after a failed read; negative = none
	MutationRetries int // extra attempts after a failed mutation; negative = none
}

// Options tunes a single query. Zero values inherit the cache config;
// the zero Options keeps the query enabled with defaults.
type Options struct {
	StaleTime       time.Duration // freshness window
	RefetchInterval time.Duration // background refetch cadence, 0 = none
	GCTime          time.Duration // eviction delay after last unsubscribe
	Retries         int           // extra attempts; negative disables retries
	Disabled        bool          // suppress all fetching for this query
}

// Result is a snapshot of one cache entry.
type Result struct {
	Data       any
	Err        error
	FetchedAt  time.Time
	IsFetching bool
}

// IsLoading reports the initial state: fetching with nothing cached yet.
func (r Result) IsLoading() bool {
	return r.IsFetching && r.FetchedAt.IsZero()
}

// Cache is the process-wide query cache. Create one per process with
// New and tear it down with Close; components receive it by reference
// rather than through package globals.
type Cache struct {
	cfg    Config
	flight singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool
}

type entry struct {
	key  Key
	fn   FetchFunc
	opts Options

	data      any
	err       error
	fetchedAt time.Time
	stale     bool
	fetching  bool

	subs         map[*Subscription]struct{}
	stopInterval chan struct{}
	gcTimer      *time.Timer
}

// New creates a cache with the given defaults.
func New(cfg Config) *Cache {
	if cfg.StaleTime <= 0 {
		cfg.StaleTime = DefaultStaleTime
	}
	if cfg.GCTime <= 0 {
		cfg.GCTime = DefaultGCTime
	}
	switch {
	case cfg.Retries == 0:
		cfg.Retries = DefaultRetries
	case cfg.Retries < 0:
		cfg.Retries = 0
	}
	switch {
	case cfg.MutationRetries == 0:
		cfg.MutationRetries = DefaultMutationRetries
	case cfg.MutationRetries < 0:
		cfg.MutationRetries = 0
	}
	return &Cache{
		cfg:     cfg,
		entries: make(map[string]*entry),
	}
}

// Fetch returns the cached data for key when fresh, otherwise runs fn
// (deduplicated with any concurrent fetch for the same key) and caches
// the outcome. A disabled query returns nil without fetching.
func (c *Cache) Fetch(ctx context.Context, key Key, fn FetchFunc, opts Options) (any, error) {
	if opts.Disabled {
		return nil, nil
	}
	e := c.ensure(key, fn, opts)
	if e == nil {
		return nil, nil
	}

	c.mu.Lock()
	if c.fresh(e, time.Now()) {
		data := e.data
		c.mu.Unlock()
		slog.Debug("Query cache hit", "key", key.String())
		return data, nil
	}
	c.mu.Unlock()

	slog.Debug("Query cache miss", "key", key.String())
	return c.refresh(ctx, e)
}

// Subscribe attaches to key, fetching when the entry is absent or
// stale and starting the shared interval refetch when configured. The
// caller must Close the subscription to release the entry.
func (c *Cache) Subscribe(key Key, fn FetchFunc, opts Options) *Subscription {
	e := c.ensure(key, fn, opts)
	s := &Subscription{cache: c, ch: make(chan Result, 1)}
	if e == nil {
		s.closed = true
		close(s.ch)
		return s
	}
	s.entry = e

	c.mu.Lock()
	e.subs[s] = struct{}{}
	if e.gcTimer != nil {
		e.gcTimer.Stop()
		e.gcTimer = nil
	}
	needFetch := !opts.Disabled && !e.fetching && !c.fresh(e, time.Now())
	if !opts.Disabled && opts.RefetchInterval > 0 && e.stopInterval == nil {
		stop := make(chan struct{})
		e.stopInterval = stop
		go c.intervalLoop(e, opts.RefetchInterval, stop)
	}
	s.push(c.resultLocked(e))
	c.mu.Unlock()

	if needFetch {
		go c.refresh(context.Background(), e)
	}
	return s
}

// Invalidate marks every entry whose key starts with prefix as stale.
// Entries with active subscribers refetch immediately; the rest
// refetch lazily on next access.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	var refetch []*entry
	for _, e := range c.entries {
		if !e.key.HasPrefix(prefix) {
			continue
		}
		e.stale = true
		if len(e.subs) > 0 && !e.opts.Disabled && !e.fetching {
			refetch = append(refetch, e)
		}
	}
	c.mu.Unlock()

	slog.Debug("Query cache invalidated", "prefix", prefix.String(), "refetching", len(refetch))
	for _, e := range refetch {
		go c.refresh(context.Background(), e)
	}
}

// Clear drops every entry and stops their timers. Remaining
// subscribers observe an empty snapshot and receive no further
// refetches; this is the logout path.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	slog.Debug("Query cache cleared")
}

// Close clears the cache and rejects further use.
func (c *Cache) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearLocked()
	c.closed = true
}

// Snapshot returns the current state of key without fetching.
func (c *Cache) Snapshot(key Key) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key.String()]
	if !ok {
		return Result{}, false
	}
	return c.resultLocked(e), true
}

func (c *Cache) clearLocked() {
	for _, e := range c.entries {
		if e.stopInterval != nil {
			close(e.stopInterval)
			e.stopInterval = nil
		}
		if e.gcTimer != nil {
			e.gcTimer.Stop()
			e.gcTimer = nil
		}
		e.data = nil
		e.err = nil
		e.fetchedAt = time.Time{}
		e.stale = false
		c.notifyLocked(e)
	}
	c.entries = make(map[string]*entry)
}

// ensure returns the entry for key, creating it lazily. The fetch
// function and options are refreshed on every call so the latest
// subscriber's configuration wins.
func (c *Cache) ensure(key Key, fn FetchFunc, opts Options) *entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	e, ok := c.entries[key.String()]
	if !ok {
		e = &entry{
			key:  key,
			subs: make(map[*Subscription]struct{}),
		}
		c.entries[key.String()] = e
	}
	e.fn = fn
	e.opts = opts
	return e
}

// fresh reports whether the entry can be served without fetching.
// Only successful fetches stamp fetchedAt, so an errored entry is
// never fresh. Caller holds c.mu.
func (c *Cache) fresh(e *entry, now time.Time) bool {
	if e.stale || e.fetchedAt.IsZero() {
		return false
	}
	return now.Sub(e.fetchedAt) < c.staleTime(e.opts)
}

func (c *Cache) staleTime(opts Options) time.Duration {
	if opts.StaleTime > 0 {
		return opts.StaleTime
	}
	return c.cfg.StaleTime
}

func (c *Cache) gcTime(opts Options) time.Duration {
	if opts.GCTime > 0 {
		return opts.GCTime
	}
	return c.cfg.GCTime
}

func (c *Cache) retries(opts Options) int {
	if opts.Retries < 0 {
		return 0
	}
	if opts.Retries > 0 {
		return opts.Retries
	}
	return c.cfg.Retries
}

// refresh runs the entry's fetch function through singleflight so
// concurrent callers for the same key share one physical request.
// Failed fetches retry immediately up to the configured count; the
// prior data is kept on failure.
func (c *Cache) refresh(ctx context.Context, e *entry) (any, error) {
	v, err, _ := c.flight.Do(e.key.String(), func() (any, error) {
		c.mu.Lock()
		e.fetching = true
		fn := e.fn
		attempts := c.retries(e.opts) + 1
		c.notifyLocked(e)
		c.mu.Unlock()

		var v any
		var err error
		for i := 0; i < attempts; i++ {
			v, err = fn(ctx)
			if err == nil {
				break
			}
		}

		c.mu.Lock()
		e.fetching = false
		if err == nil {
			e.data = v
			e.err = nil
			e.fetchedAt = time.Now()
			e.stale = false
		} else {
			e.err = err
			slog.Debug("Query fetch failed", "key", e.key.String(), "attempts", attempts, "error", err)
		}
		c.notifyLocked(e)
		c.mu.Unlock()
		return v, err
	})
	return v, err
}

// intervalLoop drives background refetches for one entry until the
// last subscriber detaches.
func (c *Cache) intervalLoop(e *entry, interval time.Duration, stop chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			c.refresh(context.Background(), e)
		}
	}
}

// evict removes an entry once its GC timer fires, unless it was
// resubscribed or replaced in the meantime.
func (c *Cache) evict(key string, e *entry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cur, ok := c.entries[key]
	if ok && cur == e && len(e.subs) == 0 {
		delete(c.entries, key)
		slog.Debug("Query cache evicted", "key", key)
	}
}

// resultLocked builds a snapshot. Caller holds c.mu.
func (c *Cache) resultLocked(e *entry) Result {
	return Result{
		Data:       e.data,
		Err:        e.err,
		FetchedAt:  e.fetchedAt,
		IsFetching: e.fetching,
	}
}

// notifyLocked pushes the current snapshot to every subscriber.
// Caller holds c.mu.
func (c *Cache) notifyLocked(e *entry) {
	if len(e.subs) == 0 {
		return
	}
	r := c.resultLocked(e)
	for s := range e.subs {
		s.push(r)
	}
}
