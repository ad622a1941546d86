// Package querycache is a key-addressed fetch cache with freshness and retention
// windows. Concurrent callers of one key share a single in-flight request.
package querycache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	DefaultStaleTime = 5 * time.Minute
	DefaultGCTime    = 30 * time.Minute
)

type Options struct {
	// StaleTime is how long data is served without a new request.
	StaleTime time.Duration
	// GCTime is how long an entry is kept after its last use.
	GCTime time.Duration
	// SweepInterval is how often the janitor evicts expired entries.
	// Zero means GCTime / 2; negative disables the janitor.
	SweepInterval time.Duration
	Logger        *slog.Logger
	// Now replaces time.Now in tests.
	Now func() time.Time
}

type entry struct {
	value     any
	fetchedAt time.Time
	usedAt    time.Time
}

type Cache struct {
	opts  Options
	group singleflight.Group

	mu      sync.Mutex
	entries map[string]*entry
	closed  bool

	stop chan struct{}
	done chan struct{}
	// refreshes tracks detached background revalidations.
	refreshes sync.WaitGroup
}

func New(opts Options) *Cache {
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	if opts.GCTime <= 0 {
		opts.GCTime = DefaultGCTime
	}
	if opts.SweepInterval == 0 {
		opts.SweepInterval = opts.GCTime / 2
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	c := &Cache{
		opts:    opts,
		entries: make(map[string]*entry),
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}

	if opts.SweepInterval > 0 {
		go c.janitor(opts.SweepInterval)
	} else {
		close(c.done)
	}
	return c
}

// Close stops the janitor and waits for background refreshes to finish.
func (c *Cache) Close() {
	c.mu.Lock()
	if !c.closed {
		c.closed = true
		close(c.stop)
	}
	c.mu.Unlock()
	<-c.done
	c.refreshes.Wait()
}

func (c *Cache) janitor(every time.Duration) {
	defer close(c.done)
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			if n := c.Sweep(); n > 0 {
				c.opts.Logger.Debug("Evicted cache entries", slog.Int("count", n))
			}
		}
	}
}

// Sweep evicts entries unused for longer than GCTime and returns how many went.
func (c *Cache) Sweep() int {
	now := c.opts.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	n := 0
	for key, e := range c.entries {
		if now.Sub(e.usedAt) > c.opts.GCTime {
			delete(c.entries, key)
			n++
		}
	}
	return n
}

func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Result carries the data plus whether it was served past its freshness window.
type Result[T any] struct {
	Data      T
	Stale     bool
	FetchedAt time.Time
}

// lookup returns the live entry for key, dropping it first if it has expired.
func (c *Cache) lookup(key string, now time.Time) (*entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if now.Sub(e.usedAt) > c.opts.GCTime {
		delete(c.entries, key)
		return nil, false
	}
	e.usedAt = now
	cp := *e
	return &cp, true
}

// fetch runs fn once per key for all concurrent callers. The shared call is
// detached from any single caller's cancellation; each caller still stops
// waiting when its own ctx is done.
func (c *Cache) fetch(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, time.Time, error) {
	type shared struct {
		value     any
		fetchedAt time.Time
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key, func() (any, error) {
		value, err := fn(detached)
		if err != nil {
			return nil, err
		}
		now := c.opts.Now()
		c.mu.Lock()
		c.entries[key] = &entry{value: value, fetchedAt: now, usedAt: now}
		c.mu.Unlock()
		return shared{value: value, fetchedAt: now}, nil
	})

	var res singleflight.Result
	select {
	case <-ctx.Done():
		return nil, time.Time{}, ctx.Err()
	case res = <-ch:
	}
	if res.Err != nil {
		return nil, time.Time{}, res.Err
	}
	if res.Shared {
		c.opts.Logger.Debug("Shared in-flight query", slog.String("key", key))
	}
	s := res.Val.(shared)
	return s.value, s.fetchedAt, nil
}

// revalidate refreshes key in the background unless the cache is closed.
func (c *Cache) revalidate(key string, fn func(context.Context) (any, error)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.refreshes.Add(1)
	go func() {
		defer c.refreshes.Done()
		// Detached so a caller that goes away does not abort the refresh.
		if _, _, err := c.fetch(context.Background(), key, fn); err != nil {
			c.opts.Logger.Warn("Background refresh failed", slog.String("key", key), slog.Any("error", err))
		}
	}()
}

// Fetch returns data for key. Fresh entries are served directly; stale ones are
// served and refreshed in the background; missing ones are fetched with fn.
func Fetch[T any](ctx context.Context, c *Cache, key string, fn func(context.Context) (T, error)) (Result[T], error) {
	erased := func(ctx context.Context) (any, error) { return fn(ctx) }
	now := c.opts.Now()

	if e, ok := c.lookup(key, now); ok {
		data, ok := e.value.(T)
		if !ok {
			return Result[T]{}, fmt.Errorf("cache key %q holds %T", key, e.value)
		}
		stale := now.Sub(e.fetchedAt) >= c.opts.StaleTime
		if stale {
			c.revalidate(key, erased)
		}
		return Result[T]{Data: data, Stale: stale, FetchedAt: e.fetchedAt}, nil
	}

	v, fetchedAt, err := c.fetch(ctx, key, erased)
	if err != nil {
		return Result[T]{}, err
	}
	data, ok := v.(T)
	if !ok {
		return Result[T]{}, fmt.Errorf("cache key %q holds %T", key, v)
	}
	return Result[T]{Data: data, FetchedAt: fetchedAt}, nil
}
