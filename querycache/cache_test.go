package querycache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"f1dashboard/f1api"
	"f1dashboard/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.now = f.now.Add(d)
	f.mu.Unlock()
}

func newTestCache(t *testing.T) (*Cache, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 2, 15, 0, 0, 0, time.UTC)}
	c := New(Options{
		Logger:        slog.New(slog.NewTextHandler(io.Discard, nil)),
		Now:           clock.Now,
		SweepInterval: -1,
	})
	t.Cleanup(c.Close)
	return c, clock
}

func counting(calls *atomic.Int32, value []string) func(context.Context) ([]string, error) {
	return func(context.Context) ([]string, error) {
		calls.Add(1)
		return value, nil
	}
}

func TestFreshHitNoRequest(t *testing.T) {
	c, clock := newTestCache(t)
	var calls atomic.Int32
	fn := counting(&calls, []string{"a"})

	res, err := Fetch(context.Background(), c, "k", fn)
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, res.Data)
	assert.False(t, res.Stale)

	clock.Advance(4 * time.Minute)
	res, err = Fetch(context.Background(), c, "k", fn)
	require.NoError(t, err)
	assert.False(t, res.Stale)
	assert.Equal(t, int32(1), calls.Load())
}

func TestConcurrentCallersShareRequest(t *testing.T) {
	c, _ := newTestCache(t)
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	fn := func(context.Context) ([]string, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return []string{"shared"}, nil
	}

	var wg sync.WaitGroup
	results := make([]Result[[]string], 5)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := Fetch(context.Background(), c, "drivers", fn)
			assert.NoError(t, err)
			results[i] = res
		}(i)
	}

	<-started
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, res := range results {
		assert.Equal(t, []string{"shared"}, res.Data)
	}
}

func TestCancelledCallerDoesNotFailSharedRequest(t *testing.T) {
	c, _ := newTestCache(t)
	started := make(chan struct{})
	release := make(chan struct{})
	fn := func(ctx context.Context) ([]string, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []string{"shared"}, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	leaderErr := make(chan error, 1)
	go func() {
		_, err := Fetch(ctx, c, "drivers", fn)
		leaderErr <- err
	}()
	<-started

	follower := make(chan Result[[]string], 1)
	go func() {
		res, err := Fetch(context.Background(), c, "drivers", fn)
		assert.NoError(t, err)
		follower <- res
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leaderErr, context.Canceled, "the cancelled caller stops waiting")

	close(release)
	assert.Equal(t, []string{"shared"}, (<-follower).Data)
	assert.Equal(t, 1, c.Len(), "the shared result is cached")
}

func TestNoRefreshAfterClose(t *testing.T) {
	c, clock := newTestCache(t)
	var calls atomic.Int32
	fn := counting(&calls, []string{"a"})

	_, err := Fetch(context.Background(), c, "k", fn)
	require.NoError(t, err)

	clock.Advance(6 * time.Minute)
	c.Close()

	res, err := Fetch(context.Background(), c, "k", fn)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	c.refreshes.Wait()
	assert.Equal(t, int32(1), calls.Load(), "a closed cache starts no background refresh")
}

func TestStaleWhileRevalidate(t *testing.T) {
	c, clock := newTestCache(t)
	var calls atomic.Int32
	var value atomic.Value
	value.Store([]string{"v1"})
	fn := func(context.Context) ([]string, error) {
		calls.Add(1)
		return value.Load().([]string), nil
	}

	_, err := Fetch(context.Background(), c, "races", fn)
	require.NoError(t, err)

	value.Store([]string{"v2"})
	clock.Advance(6 * time.Minute)

	res, err := Fetch(context.Background(), c, "races", fn)
	require.NoError(t, err)
	assert.True(t, res.Stale)
	assert.Equal(t, []string{"v1"}, res.Data, "stale data is served first")

	c.refreshes.Wait()
	assert.Equal(t, int32(2), calls.Load())

	res, err = Fetch(context.Background(), c, "races", fn)
	require.NoError(t, err)
	assert.False(t, res.Stale)
	assert.Equal(t, []string{"v2"}, res.Data)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFailedRefreshKeepsStaleEntry(t *testing.T) {
	c, clock := newTestCache(t)
	var fail atomic.Bool
	fn := func(context.Context) ([]string, error) {
		if fail.Load() {
			return nil, errors.New("offline")
		}
		return []string{"kept"}, nil
	}
	_, err := Fetch(context.Background(), c, "teams", fn)
	require.NoError(t, err)

	fail.Store(true)
	clock.Advance(10 * time.Minute)
	res, err := Fetch(context.Background(), c, "teams", fn)
	require.NoError(t, err)
	c.refreshes.Wait()

	assert.Equal(t, []string{"kept"}, res.Data)
	assert.Equal(t, 1, c.Len())
}

func TestErrorsAreNotCached(t *testing.T) {
	c, _ := newTestCache(t)
	var calls atomic.Int32
	fn := func(context.Context) ([]string, error) {
		calls.Add(1)
		return nil, errors.New("boom")
	}

	_, err := Fetch(context.Background(), c, "k", fn)
	require.Error(t, err)
	_, err = Fetch(context.Background(), c, "k", fn)
	require.Error(t, err)

	assert.Equal(t, int32(2), calls.Load())
	assert.Zero(t, c.Len())
}

func TestRetentionWindow(t *testing.T) {
	c, clock := newTestCache(t)
	var calls atomic.Int32
	fn := counting(&calls, []string{"x"})

	_, err := Fetch(context.Background(), c, "k", fn)
	require.NoError(t, err)

	clock.Advance(29 * time.Minute)
	assert.Zero(t, c.Sweep())
	assert.Equal(t, 1, c.Len())

	clock.Advance(2 * time.Minute)
	assert.Equal(t, 1, c.Sweep())
	assert.Zero(t, c.Len())

	res, err := Fetch(context.Background(), c, "k", fn)
	require.NoError(t, err)
	assert.False(t, res.Stale)
	assert.Equal(t, int32(2), calls.Load())
}

func TestExpiredEntryRefetchedOnAccess(t *testing.T) {
	c, clock := newTestCache(t)
	var calls atomic.Int32
	fn := counting(&calls, []string{"x"})

	Fetch(context.Background(), c, "k", fn)
	clock.Advance(31 * time.Minute)

	res, err := Fetch(context.Background(), c, "k", fn)
	require.NoError(t, err)
	assert.False(t, res.Stale, "an evicted entry is fetched, not revalidated")
	assert.Equal(t, int32(2), calls.Load())
}

func TestKeysAreIndependent(t *testing.T) {
	c, _ := newTestCache(t)
	var calls atomic.Int32

	Fetch(context.Background(), c, KeyDrivers, counting(&calls, []string{"d"}))
	Fetch(context.Background(), c, KeyTeams, counting(&calls, []string{"t"}))
	c.Invalidate(KeyDrivers)
	Fetch(context.Background(), c, KeyDrivers, counting(&calls, []string{"d"}))

	assert.Equal(t, int32(3), calls.Load())
	assert.Equal(t, 2, c.Len())
}

func TestTypeMismatch(t *testing.T) {
	c, _ := newTestCache(t)
	Fetch(context.Background(), c, "k", func(context.Context) (int, error) { return 1, nil })

	_, err := Fetch(context.Background(), c, "k", func(context.Context) (string, error) { return "", nil })
	assert.ErrorContains(t, err, `cache key "k" holds int`)
}

func TestJanitorStopsOnClose(t *testing.T) {
	c := New(Options{SweepInterval: time.Millisecond, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	Fetch(context.Background(), c, "k", func(context.Context) (int, error) { return 1, nil })
	time.Sleep(5 * time.Millisecond)
	c.Close()
	c.Close()
}

func TestResourceHelpersOverHTTP(t *testing.T) {
	var calls atomic.Int32
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Write([]byte(`[{"id":1,"name":"A"}]`))
	}))
	defer ts.Close()

	api := f1api.NewF1API(ts.URL, f1api.WithHTTPClient(ts.Client()), f1api.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	c, _ := newTestCache(t)
	ctx := context.Background()

	drivers, err := Drivers(ctx, c, api)
	require.NoError(t, err)
	assert.Equal(t, []models.Driver{{ID: 1, Name: "A"}}, drivers.Data)

	_, err = Drivers(ctx, c, api)
	require.NoError(t, err)
	_, err = Teams(ctx, c, api)
	require.NoError(t, err)
	_, err = Races(ctx, c, api)
	require.NoError(t, err)
	_, err = Circuits(ctx, c, api)
	require.NoError(t, err)

	assert.Equal(t, int32(4), calls.Load())
}
