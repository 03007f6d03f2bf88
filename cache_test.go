package photoengine

import (
	"context"
	"testing"
	"time"
)

// countingStore counts GetPhotos calls made through the cache.
type countingStore struct {
	PhotoStore
	calls int
}

func (s *countingStore) GetPhotos(ctx context.Context, q PhotoQuery) ([]Photo, error) {
	s.calls++
	return s.PhotoStore.GetPhotos(ctx, q)
}

func newCountingStore(t *testing.T, n int) *countingStore {
	t.Helper()
	s := newTestSQLiteStore(t)
	seedStore(t, s, makeFeed(n)...)
	return &countingStore{PhotoStore: s}
}

func TestPageCacheServesFromMemory(t *testing.T) {
	store := newCountingStore(t, 5)
	cache := NewPageCache(store, time.Minute)
	ctx := context.Background()
	q := PhotoQuery{Limit: 2}

	first, more, err := cache.Page(ctx, "grid", q)
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(first) != 2 || !more {
		t.Fatalf("first page = %d photos, more=%v", len(first), more)
	}
	if _, _, err := cache.Page(ctx, "grid", q); err != nil {
		t.Fatalf("Page: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("store calls = %d, want 1", store.calls)
	}

	if _, _, err := cache.Page(ctx, "other", q); err != nil {
		t.Fatalf("Page: %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("a different cache key should load separately, calls = %d", store.calls)
	}

	cache.Invalidate()
	if _, _, err := cache.Page(ctx, "grid", q); err != nil {
		t.Fatalf("Page: %v", err)
	}
	if store.calls != 3 {
		t.Fatalf("store calls after invalidate = %d, want 3", store.calls)
	}
}

func TestPageCacheLastPage(t *testing.T) {
	store := newCountingStore(t, 5)
	cache := NewPageCache(store, time.Minute)

	photos, more, err := cache.Page(context.Background(), "grid", PhotoQuery{Offset: 3, Limit: 2})
	if err != nil {
		t.Fatalf("Page: %v", err)
	}
	if len(photos) != 2 || more {
		t.Fatalf("last page = %d photos, more=%v; want 2, false", len(photos), more)
	}
}

func TestPageCacheExpires(t *testing.T) {
	store := newCountingStore(t, 3)
	cache := NewPageCache(store, 10*time.Millisecond)
	ctx := context.Background()

	cache.Page(ctx, "grid", PhotoQuery{Limit: 2})
	time.Sleep(20 * time.Millisecond)
	cache.Page(ctx, "grid", PhotoQuery{Limit: 2})
	if store.calls != 2 {
		t.Fatalf("store calls = %d, want 2 after expiry", store.calls)
	}
}

func TestInfiniteScrollNextPage(t *testing.T) {
	store := newCountingStore(t, 5)
	scroller := NewInfiniteScroll(NewPageCache(store, time.Minute))
	ctx := context.Background()

	state, err := scroller.Scroll(ctx, ScrollOptions{CacheKey: "grid", InitialOffset: 1, ItemsPerPage: 2})
	if err != nil {
		t.Fatalf("Scroll: %v", err)
	}
	if !equalIDs(state.Photos, "photo-01", "photo-02") {
		t.Fatalf("photos = %v", ids(state.Photos))
	}
	if state.OnLastPhotoVisible != "/grid/?cacheKey=grid&offset=3" {
		t.Fatalf("next = %q", state.OnLastPhotoVisible)
	}

	state, _ = scroller.Scroll(ctx, ScrollOptions{CacheKey: "grid", InitialOffset: 3, ItemsPerPage: 2})
	if len(state.Photos) != 2 || state.OnLastPhotoVisible != "" {
		t.Fatalf("final page = %v next=%q", ids(state.Photos), state.OnLastPhotoVisible)
	}
}

func TestPageCacheBoundsSize(t *testing.T) {
	store := newCountingStore(t, 3)
	cache := NewPageCache(store, time.Millisecond)
	ctx := context.Background()

	for i := 0; i < maxCachedPages; i++ {
		if _, _, err := cache.Page(ctx, "grid", PhotoQuery{Offset: i, Limit: 2}); err != nil {
			t.Fatalf("Page: %v", err)
		}
	}
	time.Sleep(5 * time.Millisecond)
	if _, _, err := cache.Page(ctx, "grid", PhotoQuery{Offset: maxCachedPages, Limit: 2}); err != nil {
		t.Fatalf("Page: %v", err)
	}
	if n := cache.Len(); n != 1 {
		t.Fatalf("cache holds %d pages after expiry sweep, want 1", n)
	}

	cache = NewPageCache(store, time.Hour)
	for i := 0; i < 3*maxCachedPages; i++ {
		cache.Page(ctx, "grid", PhotoQuery{Offset: i, Limit: 2})
	}
	if n := cache.Len(); n > maxCachedPages {
		t.Fatalf("cache holds %d pages, want at most %d", n, maxCachedPages)
	}
}
