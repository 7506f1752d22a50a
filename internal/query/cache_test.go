// ABOUTME: Tests for the query cache
// ABOUTME: Verifies staleness, deduplication, retries, invalidation, and GC

package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestFetch_ServesFreshFromCache(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	var calls int32
	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "data", nil
	}

	for i := 0; i < 3; i++ {
		v, err := c.Fetch(context.Background(), K("bookings", "list"), fn, Options{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if v != "data" {
			t.Fatalf("expected cached data, got %v", v)
		}
	}

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected 1 physical fetch, got %d", got)
	}
}

func TestFetch_RefetchesWhenStale(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	var calls int32
	fn := func(ctx context.Context) (any, error) {
		return atomic.AddInt32(&calls, 1), nil
	}
	opts := Options{StaleTime: 20 * time.Millisecond}

	c.Fetch(context.Background(), K("stats"), fn, opts)
	time.Sleep(50 * time.Millisecond)
	v, err := c.Fetch(context.Background(), K("stats"), fn, opts)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if v != int32(2) {
		t.Errorf("expected second fetch after staleness, got %v", v)
	}
}

func TestFetch_DeduplicatesConcurrentCalls(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	var calls int32
	release := make(chan struct{})
	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return "shared", nil
	}

	const workers = 8
	var wg sync.WaitGroup
	results := make([]any, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := c.Fetch(context.Background(), K("rooms", "available"), fn, Options{})
			if err != nil {
				t.Errorf("unexpected error: %v", err)
			}
			results[i] = v
		}(i)
	}

	// Let every goroutine reach the in-flight fetch before releasing.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly 1 physical fetch for concurrent callers, got %d", got)
	}
	for i, v := range results {
		if v != "shared" {
			t.Errorf("caller %d got %v, expected shared result", i, v)
		}
	}
}

func TestFetch_RetriesFailedReads(t *testing.T) {
	c := New(Config{Retries: 3})
	defer c.Close()

	var calls int32
	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("backend down")
	}

	_, err := c.Fetch(context.Background(), K("stats"), fn, Options{})
	if err == nil {
		t.Fatal("expected error after exhausted retries")
	}
	if got := atomic.LoadInt32(&calls); got != 4 {
		t.Errorf("expected 4 attempts (1 + 3 retries), got %d", got)
	}
}

func TestNew_NegativeConfigDisablesRetries(t *testing.T) {
	c := New(Config{Retries: -1, MutationRetries: -1})
	defer c.Close()

	var reads, writes int32
	readFn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&reads, 1)
		return nil, errors.New("backend down")
	}
	writeFn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&writes, 1)
		return nil, errors.New("backend down")
	}

	if _, err := c.Fetch(context.Background(), K("stats"), readFn, Options{}); err == nil {
		t.Fatal("expected read error")
	}
	if got := atomic.LoadInt32(&reads); got != 1 {
		t.Errorf("expected a single read attempt with retries disabled, got %d", got)
	}

	if _, err := c.Mutate(context.Background(), writeFn, MutationOptions{}); err == nil {
		t.Fatal("expected mutation error")
	}
	if got := atomic.LoadInt32(&writes); got != 1 {
		t.Errorf("expected a single mutation attempt with retries disabled, got %d", got)
	}
}

func TestFetch_NegativeRetriesDisablesRetrying(t *testing.T) {
	c := New(Config{Retries: 3})
	defer c.Close()

	var calls int32
	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("nope")
	}

	c.Fetch(context.Background(), K("guests", "search", "0"), fn, Options{Retries: -1})
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected single attempt with retries disabled, got %d", got)
	}
}

func TestFetch_KeepsPriorDataOnFailure(t *testing.T) {
	c := New(Config{Retries: -1})
	defer c.Close()

	var fail atomic.Bool
	fn := func(ctx context.Context) (any, error) {
		if fail.Load() {
			return nil, errors.New("backend down")
		}
		return "good", nil
	}
	opts := Options{StaleTime: 10 * time.Millisecond, Retries: -1}
	key := K("dashboard", "stats")

	if _, err := c.Fetch(context.Background(), key, fn, opts); err != nil {
		t.Fatalf("seed fetch failed: %v", err)
	}

	fail.Store(true)
	time.Sleep(30 * time.Millisecond)
	_, err := c.Fetch(context.Background(), key, fn, opts)
	if err == nil {
		t.Fatal("expected refetch error")
	}

	r, ok := c.Snapshot(key)
	if !ok {
		t.Fatal("expected entry to survive a failed refetch")
	}
	if r.Data != "good" {
		t.Errorf("expected prior data kept on failure, got %v", r.Data)
	}
	if r.Err == nil {
		t.Error("expected snapshot to carry the fetch error")
	}
}

func TestFetch_Disabled(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	var calls int32
	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "x", nil
	}

	v, err := c.Fetch(context.Background(), K("guests", "search", ""), fn, Options{Disabled: true})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != nil {
		t.Errorf("disabled query should return nil, got %v", v)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("disabled query must not fetch")
	}
}

func TestInvalidate_PrefixMatching(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	var bookingCalls, roomCalls int32
	bookingsFn := func(ctx context.Context) (any, error) {
		return atomic.AddInt32(&bookingCalls, 1), nil
	}
	roomsFn := func(ctx context.Context) (any, error) {
		return atomic.AddInt32(&roomCalls, 1), nil
	}

	ctx := context.Background()
	c.Fetch(ctx, K("bookings", "list"), bookingsFn, Options{})
	c.Fetch(ctx, K("bookings", "active"), bookingsFn, Options{})
	c.Fetch(ctx, K("rooms", "occupancy"), roomsFn, Options{})

	c.Invalidate(K("bookings"))

	c.Fetch(ctx, K("bookings", "list"), bookingsFn, Options{})
	c.Fetch(ctx, K("bookings", "active"), bookingsFn, Options{})
	c.Fetch(ctx, K("rooms", "occupancy"), roomsFn, Options{})

	if got := atomic.LoadInt32(&bookingCalls); got != 4 {
		t.Errorf("expected both booking queries refetched after invalidation, got %d calls", got)
	}
	if got := atomic.LoadInt32(&roomCalls); got != 1 {
		t.Errorf("rooms query must be untouched by bookings invalidation, got %d calls", got)
	}
}

func TestInvalidate_RefetchesSubscribedEntries(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	var calls int32
	fn := func(ctx context.Context) (any, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	sub := c.Subscribe(K("bookings", "active"), fn, Options{})
	defer sub.Close()

	waitForData(t, sub, int32(1))
	c.Invalidate(K("bookings"))
	waitForData(t, sub, int32(2))
}

func TestSubscribe_IntervalRefetchStopsOnClose(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	var calls int32
	fn := func(ctx context.Context) (any, error) {
		return atomic.AddInt32(&calls, 1), nil
	}

	sub := c.Subscribe(K("dashboard", "stats"), fn, Options{
		StaleTime:       5 * time.Millisecond,
		RefetchInterval: 20 * time.Millisecond,
	})

	waitForData(t, sub, int32(1))
	// Wait for at least one interval tick.
	deadline := time.After(2 * time.Second)
	for atomic.LoadInt32(&calls) < 2 {
		select {
		case <-deadline:
			t.Fatal("interval refetch never fired")
		case <-time.After(10 * time.Millisecond):
		}
	}

	sub.Close()
	settled := atomic.LoadInt32(&calls)
	time.Sleep(100 * time.Millisecond)
	if got := atomic.LoadInt32(&calls); got > settled+1 {
		t.Errorf("interval kept firing after close: %d -> %d", settled, got)
	}
}

func TestSubscribe_EntryEvictedAfterGCDelay(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	fn := func(ctx context.Context) (any, error) { return "x", nil }
	key := K("guests", "search", "01234567890")

	sub := c.Subscribe(key, fn, Options{GCTime: 20 * time.Millisecond})
	waitForData(t, sub, "x")
	sub.Close()

	deadline := time.After(2 * time.Second)
	for {
		if _, ok := c.Snapshot(key); !ok {
			return
		}
		select {
		case <-deadline:
			t.Fatal("entry was never evicted after GC delay")
		case <-time.After(10 * time.Millisecond):
		}
	}
}

func TestSubscribe_ResubscribeCancelsGC(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	fn := func(ctx context.Context) (any, error) { return "x", nil }
	key := K("dashboard", "stats")

	first := c.Subscribe(key, fn, Options{GCTime: 50 * time.Millisecond})
	waitForData(t, first, "x")
	first.Close()

	second := c.Subscribe(key, fn, Options{GCTime: 50 * time.Millisecond})
	defer second.Close()

	time.Sleep(150 * time.Millisecond)
	if _, ok := c.Snapshot(key); !ok {
		t.Error("entry evicted while a subscriber was attached")
	}
}

func TestClear_DropsEverything(t *testing.T) {
	c := New(Config{})
	defer c.Close()

	fn := func(ctx context.Context) (any, error) { return "x", nil }
	ctx := context.Background()
	c.Fetch(ctx, K("bookings", "list"), fn, Options{})
	c.Fetch(ctx, K("auth", "user"), fn, Options{})

	c.Clear()

	if _, ok := c.Snapshot(K("bookings", "list")); ok {
		t.Error("expected bookings entry dropped after clear")
	}
	if _, ok := c.Snapshot(K("auth", "user")); ok {
		t.Error("expected auth entry dropped after clear")
	}
}

func TestMutate_RetriesAndCallbacks(t *testing.T) {
	c := New(Config{MutationRetries: 1})
	defer c.Close()

	var calls int32
	var succeeded any
	fn := func(ctx context.Context) (any, error) {
		if atomic.AddInt32(&calls, 1) == 1 {
			return nil, errors.New("transient")
		}
		return "booked", nil
	}

	v, err := c.Mutate(context.Background(), fn, MutationOptions{
		OnSuccess: func(v any) { succeeded = v },
		OnError:   func(error) { t.Error("OnError must not fire on eventual success") },
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != "booked" || succeeded != "booked" {
		t.Errorf("expected booked result via return and callback, got %v / %v", v, succeeded)
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 attempts (1 + 1 retry), got %d", got)
	}
}

func TestMutate_ErrorAfterRetries(t *testing.T) {
	c := New(Config{MutationRetries: 1})
	defer c.Close()

	var calls int32
	var gotErr error
	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return nil, errors.New("still failing")
	}

	_, err := c.Mutate(context.Background(), fn, MutationOptions{
		OnSuccess: func(any) { t.Error("OnSuccess must not fire on failure") },
		OnError:   func(e error) { gotErr = e },
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if gotErr == nil {
		t.Error("expected OnError callback")
	}
	if got := atomic.LoadInt32(&calls); got != 2 {
		t.Errorf("expected 2 attempts, got %d", got)
	}
}

func TestResult_IsLoading(t *testing.T) {
	loading := Result{IsFetching: true}
	if !loading.IsLoading() {
		t.Error("fetching with nothing cached should be loading")
	}
	refreshing := Result{IsFetching: true, FetchedAt: time.Now()}
	if refreshing.IsLoading() {
		t.Error("background refresh of cached data is not loading")
	}
}

func TestFetch_AfterCloseReturnsNil(t *testing.T) {
	c := New(Config{})
	c.Close()

	var calls int32
	fn := func(ctx context.Context) (any, error) {
		atomic.AddInt32(&calls, 1)
		return "x", nil
	}
	v, err := c.Fetch(context.Background(), K("stats"), fn, Options{})
	if err != nil || v != nil {
		t.Errorf("closed cache should be inert, got %v, %v", v, err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Error("closed cache must not fetch")
	}
}

// waitForData reads subscription updates until one carries want.
func waitForData(t *testing.T, sub *Subscription, want any) {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		select {
		case r, ok := <-sub.Updates():
			if !ok {
				t.Fatal("subscription closed while waiting for data")
			}
			if r.Data == want {
				return
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %v", want)
		}
	}
}
