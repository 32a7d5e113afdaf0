package spotly

import (
	"context"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// Cache is the keyed query cache behind every read operation. A key
// holds the last successful fetch result; mutations mark dependent
// keys stale so the next read re-fetches. Concurrent reads of the same
// key are coalesced into a single in-flight request.
//
// This is a UI freshness mechanism, not a resilience mechanism: there
// are no TTLs and no retries. Staleness is transient; the next read
// always fetches current server truth.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]*cacheEntry
	// inflight tracks keys with a fetch underway. The value flips to
	// true when an invalidation lands mid-flight, so the fetch result
	// is stored already stale instead of masking the mutation.
	inflight map[string]bool
	group    singleflight.Group
	obs      *observability
}

type cacheEntry struct {
	value     any
	stale     bool
	fetchedAt time.Time
}

func newCache(obs *observability) *Cache {
	return &Cache{
		entries:  make(map[string]*cacheEntry),
		inflight: make(map[string]bool),
		obs:      obs,
	}
}

// Invalidate marks each key stale, along with every key scoped under it
// with a ":" separator. It is called by mutations only after the server
// confirmed success; a failed mutation invalidates nothing.
func (c *Cache) Invalidate(keys ...string) {
	var marked int64
	c.mu.Lock()
	for _, prefix := range keys {
		for k, e := range c.entries {
			if k == prefix || strings.HasPrefix(k, prefix+":") {
				if !e.stale {
					e.stale = true
					marked++
				}
			}
		}
		// A fetch already in flight may predate this mutation; its
		// result must not land fresh.
		for k := range c.inflight {
			if k == prefix || strings.HasPrefix(k, prefix+":") {
				c.inflight[k] = true
			}
		}
	}
	c.mu.Unlock()
	c.obs.recordCacheInvalidation(context.Background(), marked)
}

// Fresh reports whether key holds a result that a read would return
// without fetching.
func (c *Cache) Fresh(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries[key]
	return ok && !e.stale
}

// get returns the cached value for key, fetching (coalesced) when the
// key is missing or stale. When a re-fetch fails but a previous result
// exists, that result is returned alongside the error so stale data
// stays visible.
func (c *Cache) get(ctx context.Context, key string, fetch func(context.Context) (any, error)) (any, error) {
	c.mu.RLock()
	prev, hasPrev := c.entries[key]
	c.mu.RUnlock()

	if hasPrev && !prev.stale {
		c.obs.recordCacheHit(ctx, key)
		return prev.value, nil
	}
	c.obs.recordCacheMiss(ctx, key)

	v, err, _ := c.group.Do(key, func() (any, error) {
		// Another coalesced caller may have refreshed the key while
		// this one waited on the flight lock.
		c.mu.Lock()
		e, ok := c.entries[key]
		if ok && !e.stale {
			c.mu.Unlock()
			return e.value, nil
		}
		c.inflight[key] = false
		c.mu.Unlock()

		value, err := fetch(ctx)

		c.mu.Lock()
		invalidated := c.inflight[key]
		delete(c.inflight, key)
		if err == nil {
			c.entries[key] = &cacheEntry{value: value, stale: invalidated, fetchedAt: time.Now()}
		}
		c.mu.Unlock()

		if err != nil {
			return nil, err
		}
		return value, nil
	})

	if err != nil {
		if hasPrev {
			return prev.value, err
		}
		return nil, err
	}
	return v, nil
}

// cachedFetch is the typed read path used by the resource services.
func cachedFetch[T any](ctx context.Context, c *Client, key string, fetch func(context.Context) (T, error)) (T, error) {
	v, err := c.cache.get(ctx, key, func(ctx context.Context) (any, error) {
		return fetch(ctx)
	})
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, err
	}
	return t, err
}
