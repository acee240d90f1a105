package notification

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// dedupeMaxEntries caps the tracking table so a burst of distinct events
// cannot grow it without bound. When the cap is hit, expired entries are
// swept first; if the table is still full the oldest entry is evicted.
const dedupeMaxEntries = 10000

// Deduper suppresses repeated notifications for the same (user, event)
// pair within a TTL window. Each recipient tracks independently, so one
// user's notification never swallows another's.
type Deduper struct {
	mu      sync.Mutex
	clock   clockwork.Clock
	ttl     time.Duration
	entries map[string]time.Time
}

func NewDeduper(ttl time.Duration, clock clockwork.Clock) *Deduper {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Deduper{
		clock:   clock,
		ttl:     ttl,
		entries: make(map[string]time.Time),
	}
}

// ShouldSend reports whether a notification for the given key may be sent
// now, and records the send if so.
func (d *Deduper) ShouldSend(key string) bool {
	if d == nil || d.ttl <= 0 {
		return true
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.clock.Now()
	if last, ok := d.entries[key]; ok && now.Sub(last) < d.ttl {
		return false
	}

	if len(d.entries) >= dedupeMaxEntries {
		d.sweepLocked(now)
	}

	d.entries[key] = now
	return true
}

func (d *Deduper) sweepLocked(now time.Time) {
	var (
		oldestKey string
		oldestAt  time.Time
	)
	for key, at := range d.entries {
		if now.Sub(at) >= d.ttl {
			delete(d.entries, key)
			continue
		}
		if oldestKey == "" || at.Before(oldestAt) {
			oldestKey = key
			oldestAt = at
		}
	}
	if len(d.entries) >= dedupeMaxEntries && oldestKey != "" {
		delete(d.entries, oldestKey)
	}
}
