package photoengine

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// maxCachedPages bounds the number of pages a PageCache holds.
const maxCachedPages = 1024

// PageCache is an in-memory TTL cache of photo pages keyed by scroll session.
// Repeated mounts of the same grid share the pages fetched so far.
type PageCache struct {
	mu    sync.RWMutex
	pages map[string]cachedPage
	ttl   time.Duration
	store PhotoStore
}

type cachedPage struct {
	photos  []Photo
	more    bool
	fetched time.Time
}

// NewPageCache creates a PageCache backed by the given store.
func NewPageCache(s PhotoStore, ttl time.Duration) *PageCache {
	return &PageCache{
		pages: make(map[string]cachedPage),
		ttl:   ttl,
		store: s,
	}
}

func pageKey(cacheKey string, q PhotoQuery) string {
	return fmt.Sprintf("%s|%s|%d|%d", cacheKey, q.Camera, q.Offset, q.Limit)
}

// Invalidate clears the cache so the next read triggers a fresh load.
func (c *PageCache) Invalidate() {
	c.mu.Lock()
	c.pages = make(map[string]cachedPage)
	c.mu.Unlock()
}

// Page returns the photos of q and whether more exist past it.
// It tries a read lock first; only takes a write lock if a reload is needed.
func (c *PageCache) Page(ctx context.Context, cacheKey string, q PhotoQuery) ([]Photo, bool, error) {
	key := pageKey(cacheKey, q)

	c.mu.RLock()
	if p, ok := c.pages[key]; ok && time.Since(p.fetched) < c.ttl {
		c.mu.RUnlock()
		return p.photos, p.more, nil
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()
	if p, ok := c.pages[key]; ok && time.Since(p.fetched) < c.ttl {
		return p.photos, p.more, nil
	}

	// One extra row tells us whether another page exists.
	probe := q
	probe.Limit = q.Limit + 1
	photos, err := c.store.GetPhotos(ctx, probe)
	if err != nil {
		return nil, false, err
	}
	more := len(photos) > q.Limit
	if more {
		photos = photos[:q.Limit]
	}
	now := time.Now()
	if len(c.pages) >= maxCachedPages {
		c.evict(now)
	}
	c.pages[key] = cachedPage{photos: photos, more: more, fetched: now}
	return photos, more, nil
}

// evict drops expired pages, and every page when none have expired yet.
// Callers hold the write lock.
func (c *PageCache) evict(now time.Time) {
	for k, p := range c.pages {
		if now.Sub(p.fetched) >= c.ttl {
			delete(c.pages, k)
		}
	}
	if len(c.pages) >= maxCachedPages {
		c.pages = make(map[string]cachedPage)
	}
}

// Len returns the number of cached pages, expired ones included.
func (c *PageCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.pages)
}
