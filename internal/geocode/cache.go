package geocode

import (
	"context"
	"fmt"
	"sync"
	"time"

	"sorun_takip_backend/platform/metrics"

	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"
)

// CachedResolver decorates an AddressResolver with a bounded TTL+LRU cache
// keyed by rounded coordinates. Concurrent lookups for the same coordinate
// are collapsed into one upstream call. Failures are never cached.
type CachedResolver struct {
	inner   AddressResolver
	ttl     time.Duration
	clock   clockwork.Clock
	metrics *metrics.Metrics
	group   singleflight.Group
	cache   *lruCache
}

func NewCachedResolver(inner AddressResolver, maxEntries int, ttl time.Duration, clock clockwork.Clock, m *metrics.Metrics) *CachedResolver {
	return &CachedResolver{
		inner:   inner,
		ttl:     ttl,
		clock:   clock,
		metrics: m,
		cache:   newLRUCache(maxEntries),
	}
}

func (c *CachedResolver) Resolve(ctx context.Context, lat, lon float64) (MergedAddress, error) {
	key := fmt.Sprintf("%.6f,%.6f", lat, lon)

	if merged, ok := c.cache.get(key, c.clock.Now()); ok {
		c.metrics.GeocodeCache.WithLabelValues("hit").Inc()
		return merged, nil
	}
	c.metrics.GeocodeCache.WithLabelValues("miss").Inc()

	value, err, _ := c.group.Do(key, func() (interface{}, error) {
		// A concurrent caller may have populated the entry while this
		// goroutine waited on the flight group.
		if merged, ok := c.cache.get(key, c.clock.Now()); ok {
			return merged, nil
		}
		merged, err := c.inner.Resolve(ctx, lat, lon)
		if err != nil {
			return MergedAddress{}, err
		}
		c.cache.put(key, merged, c.clock.Now().Add(c.ttl))
		return merged, nil
	})
	if err != nil {
		return MergedAddress{}, err
	}
	return value.(MergedAddress), nil
}

var _ AddressResolver = (*CachedResolver)(nil)

// lruCache is a thread-safe LRU cache with per-entry expiry.
type lruCache struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*cacheEntry
	head       *cacheEntry // most recently used
	tail       *cacheEntry // least recently used
}

type cacheEntry struct {
	key       string
	value     MergedAddress
	expiresAt time.Time
	prev      *cacheEntry
	next      *cacheEntry
}

func newLRUCache(maxEntries int) *lruCache {
	if maxEntries < 1 {
		maxEntries = 1
	}
	return &lruCache{
		maxEntries: maxEntries,
		entries:    make(map[string]*cacheEntry),
	}
}

func (c *lruCache) get(key string, now time.Time) (MergedAddress, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return MergedAddress{}, false
	}
	if now.After(e.expiresAt) {
		delete(c.entries, key)
		c.remove(e)
		return MergedAddress{}, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache) put(key string, value MergedAddress, expiresAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = expiresAt
		c.moveToFront(e)
		return
	}

	e := &cacheEntry{key: key, value: value, expiresAt: expiresAt}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache) moveToFront(e *cacheEntry) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache) addToFront(e *cacheEntry) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache) remove(e *cacheEntry) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
