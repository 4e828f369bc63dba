// Package cache fronts the analytics aggregate queries with a short-TTL
// in-memory store. Writes elsewhere never invalidate entries; staleness is
// bounded by the TTL. Concurrent misses may recompute in parallel, which is
// accepted (no single-flight).
package cache

import (
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

type AnalyticsCache struct {
	store *gocache.Cache
}

func NewAnalyticsCache(ttl time.Duration) *AnalyticsCache {
	return &AnalyticsCache{
		store: gocache.New(ttl, 2*ttl),
	}
}

func (c *AnalyticsCache) Get(key string) (interface{}, bool) {
	return c.store.Get(key)
}

func (c *AnalyticsCache) Set(key string, value interface{}) {
	c.store.SetDefault(key, value)
}

// SummaryKey and FunnelKey scope entries per organization.
func SummaryKey(organizationID uint) string {
	return fmt.Sprintf("analytics:summary:%d", organizationID)
}

func FunnelKey(organizationID uint) string {
	return fmt.Sprintf("analytics:funnel:%d", organizationID)
}
