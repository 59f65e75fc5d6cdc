package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSetGet(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, ok, err := store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Minute))
	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), value)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(ctx, "report", []byte("cached"), 60*time.Second))

	current = base.Add(59 * time.Second)
	_, ok, err := store.Get(ctx, "report")
	require.NoError(t, err)
	assert.True(t, ok, "entry must survive until the ttl elapses")

	current = base.Add(61 * time.Second)
	_, ok, err = store.Get(ctx, "report")
	require.NoError(t, err)
	assert.False(t, ok, "entry must expire after the ttl")
	assert.Equal(t, 0, store.Len(), "expired entry is reaped on access")
}

func TestMemoryStoreZeroTTLNeverExpires(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	store.now = func() time.Time { return current }

	require.NoError(t, store.Set(ctx, "pinned", []byte("v"), 0))

	current = base.AddDate(1, 0, 0)
	_, ok, err := store.Get(ctx, "pinned")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStoreDeletePattern(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	keys := []string{
		"report:2024-06:MONTHLY:1:2:none",
		"report:2024-06:MONTHLY:3:4:abc",
		"report:2024-Q2:QUARTERLY:1:2:none",
		"report:2023:ANNUAL:1:2:none",
		"tax:US/CA/",
	}
	for _, k := range keys {
		require.NoError(t, store.Set(ctx, k, []byte("v"), 0))
	}

	removed, err := store.Delete(ctx, "report:2024-06:*")
	require.NoError(t, err)
	assert.Equal(t, int64(2), removed)

	_, ok, _ := store.Get(ctx, "report:2024-Q2:QUARTERLY:1:2:none")
	assert.True(t, ok, "non-matching keys survive")
	_, ok, _ = store.Get(ctx, "tax:US/CA/")
	assert.True(t, ok)

	// A pattern without wildcards deletes the single exact key
	removed, err = store.Delete(ctx, "tax:US/CA/")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestReadThroughComputesOncePerTTL(t *testing.T) {
	ctx := context.Background()
	c := NewReadThroughCache(NewMemoryStore())

	var calls int32
	compute := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("result"), nil
	}

	for i := 0; i < 5; i++ {
		value, err := c.GetOrCompute(ctx, "k", time.Minute, compute)
		require.NoError(t, err)
		assert.Equal(t, []byte("result"), value)
	}
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestReadThroughRecomputesAfterExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	current := base
	store.now = func() time.Time { return current }
	c := NewReadThroughCache(store)

	var calls int32
	compute := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return []byte("result"), nil
	}

	_, err := c.GetOrCompute(ctx, "k", 60*time.Second, compute)
	require.NoError(t, err)

	current = base.Add(61 * time.Second)
	_, err = c.GetOrCompute(ctx, "k", 60*time.Second, compute)
	require.NoError(t, err)
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestReadThroughCollapsesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	c := NewReadThroughCache(NewMemoryStore())

	var calls int32
	release := make(chan struct{})
	compute := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return []byte("shared"), nil
	}

	const workers = 20
	var wg sync.WaitGroup
	results := make([][]byte, workers)
	errs := make([]error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = c.GetOrCompute(ctx, "hot", time.Minute, compute)
		}(i)
	}

	// Let every worker reach the flight before the computation finishes
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "concurrent misses collapse into one computation")
	for i := 0; i < workers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, []byte("shared"), results[i])
	}
}

func TestReadThroughNeverCachesFailures(t *testing.T) {
	ctx := context.Background()
	c := NewReadThroughCache(NewMemoryStore())

	boom := errors.New("source unavailable")
	var calls int32
	failing := func(ctx context.Context) ([]byte, error) {
		atomic.AddInt32(&calls, 1)
		return nil, boom
	}

	_, err := c.GetOrCompute(ctx, "k", time.Minute, failing)
	require.ErrorIs(t, err, boom)

	// The failure was not cached, so the next call retries and can succeed
	value, err := c.GetOrCompute(ctx, "k", time.Minute, func(ctx context.Context) ([]byte, error) {
		return []byte("recovered"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, []byte("recovered"), value)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestReadThroughStats(t *testing.T) {
	ctx := context.Background()
	c := NewReadThroughCache(NewMemoryStore())

	compute := func(ctx context.Context) ([]byte, error) { return []byte("v"), nil }

	_, _ = c.GetOrCompute(ctx, "a", time.Minute, compute) // miss
	_, _ = c.GetOrCompute(ctx, "a", time.Minute, compute) // hit
	_, _ = c.GetOrCompute(ctx, "b", time.Minute, compute) // miss

	stats := c.Stats()
	assert.Equal(t, uint64(1), stats.Hits)
	assert.Equal(t, uint64(2), stats.Misses)
	assert.InDelta(t, 33.3, stats.HitRate, 0.1)
}

func TestInvalidateByPrefix(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	c := NewReadThroughCache(store)

	require.NoError(t, store.Set(ctx, "report:2024-06:MONTHLY:1:2:none", []byte("v"), 0))
	require.NoError(t, store.Set(ctx, "report:2024-07:MONTHLY:1:2:none", []byte("v"), 0))

	removed, err := c.InvalidateByPrefix(ctx, "report:2024-06")
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)

	_, ok, _ := store.Get(ctx, "report:2024-07:MONTHLY:1:2:none")
	assert.True(t, ok)
}
