package geocode

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"sorun_takip_backend/platform/metrics"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingResolver struct {
	mu     sync.Mutex
	calls  int
	result MergedAddress
	err    error
	block  chan struct{}
}

func (r *countingResolver) Resolve(ctx context.Context, lat, lon float64) (MergedAddress, error) {
	r.mu.Lock()
	r.calls++
	r.mu.Unlock()
	if r.block != nil {
		<-r.block
	}
	return r.result, r.err
}

func (r *countingResolver) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

func TestCachedResolverServesFromCacheWithinTTL(t *testing.T) {
	inner := &countingResolver{result: MergedAddress{City: "İstanbul", District: "Fatih"}}
	clock := clockwork.NewFakeClock()
	cached := NewCachedResolver(inner, 10, time.Hour, clock, metrics.NewForTesting())

	first, err := cached.Resolve(context.Background(), 41.0082, 28.9784)
	require.NoError(t, err)
	second, err := cached.Resolve(context.Background(), 41.0082, 28.9784)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.callCount())
}

func TestCachedResolverExpiresAfterTTL(t *testing.T) {
	inner := &countingResolver{result: MergedAddress{City: "İstanbul"}}
	clock := clockwork.NewFakeClock()
	cached := NewCachedResolver(inner, 10, time.Hour, clock, metrics.NewForTesting())

	_, err := cached.Resolve(context.Background(), 41.0, 29.0)
	require.NoError(t, err)

	clock.Advance(2 * time.Hour)

	_, err = cached.Resolve(context.Background(), 41.0, 29.0)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.callCount())
}

func TestCachedResolverDistinctCoordinatesMiss(t *testing.T) {
	inner := &countingResolver{result: MergedAddress{City: "Ankara"}}
	cached := NewCachedResolver(inner, 10, time.Hour, clockwork.NewFakeClock(), metrics.NewForTesting())

	_, err := cached.Resolve(context.Background(), 39.92, 32.85)
	require.NoError(t, err)
	_, err = cached.Resolve(context.Background(), 39.93, 32.85)
	require.NoError(t, err)

	assert.Equal(t, 2, inner.callCount())
}

func TestCachedResolverEvictsLeastRecentlyUsed(t *testing.T) {
	inner := &countingResolver{result: MergedAddress{City: "İzmir"}}
	cached := NewCachedResolver(inner, 2, time.Hour, clockwork.NewFakeClock(), metrics.NewForTesting())

	ctx := context.Background()
	_, _ = cached.Resolve(ctx, 1.0, 1.0)
	_, _ = cached.Resolve(ctx, 2.0, 2.0)
	// Touch the first entry so the second becomes least recently used.
	_, _ = cached.Resolve(ctx, 1.0, 1.0)
	_, _ = cached.Resolve(ctx, 3.0, 3.0)

	require.Equal(t, 3, inner.callCount())

	_, _ = cached.Resolve(ctx, 1.0, 1.0) // still cached
	assert.Equal(t, 3, inner.callCount())

	_, _ = cached.Resolve(ctx, 2.0, 2.0) // evicted, refetched
	assert.Equal(t, 4, inner.callCount())
}

func TestCachedResolverDoesNotCacheFailures(t *testing.T) {
	inner := &countingResolver{err: errors.New("all providers failed")}
	cached := NewCachedResolver(inner, 10, time.Hour, clockwork.NewFakeClock(), metrics.NewForTesting())

	_, err := cached.Resolve(context.Background(), 41.0, 29.0)
	require.Error(t, err)
	_, err = cached.Resolve(context.Background(), 41.0, 29.0)
	require.Error(t, err)

	assert.Equal(t, 2, inner.callCount())
}

func TestCachedResolverCollapsesConcurrentLookups(t *testing.T) {
	inner := &countingResolver{
		result: MergedAddress{City: "İstanbul"},
		block:  make(chan struct{}),
	}
	cached := NewCachedResolver(inner, 10, time.Hour, clockwork.NewFakeClock(), metrics.NewForTesting())

	const workers = 5
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, _ = cached.Resolve(context.Background(), 41.0082, 28.9784)
		}()
	}

	// Give every worker time to join the in-flight call, then release it.
	time.Sleep(50 * time.Millisecond)
	close(inner.block)
	wg.Wait()

	assert.Equal(t, 1, inner.callCount())
}
