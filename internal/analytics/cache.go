package analytics

import (
	"sync"
	"time"

	"github.com/anmarochka/resto-booking/internal/model"
)

// SnapshotCache holds the most recent snapshot per restaurant so the
// dashboard does not recompute on every read. Entries older than ttl
// are treated as missing; the Refresher keeps them warm.
type SnapshotCache struct {
	mu   sync.RWMutex
	ttl  time.Duration
	data map[string]cachedSnapshot
}

type cachedSnapshot struct {
	snap model.AnalyticsSnapshot
	at   time.Time
}

func NewSnapshotCache(ttl time.Duration) *SnapshotCache {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &SnapshotCache{ttl: ttl, data: make(map[string]cachedSnapshot)}
}

// Get returns the cached snapshot for a restaurant if it is still fresh.
func (c *SnapshotCache) Get(restaurantID string, now time.Time) (model.AnalyticsSnapshot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.data[restaurantID]
	if !ok || now.Sub(e.at) > c.ttl {
		return model.AnalyticsSnapshot{}, false
	}
	return e.snap, true
}

// Put stores a freshly computed snapshot.
func (c *SnapshotCache) Put(restaurantID string, snap model.AnalyticsSnapshot, now time.Time) {
	c.mu.Lock()
	c.data[restaurantID] = cachedSnapshot{snap: snap, at: now}
	c.mu.Unlock()
}
