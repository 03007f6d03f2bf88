package photoengine

import (
	"context"
	"net/url"
	"strconv"
)

// ScrollOptions configures one page request of an infinite-scroll session.
type ScrollOptions struct {
	CacheKey      string
	InitialOffset int
	ItemsPerPage  int
	Camera        *Camera
}

// ScrollState is what a scroller hands back to the grid: the photos to show
// and the URL to request once the last of them becomes visible. An empty
// OnLastPhotoVisible means the session is exhausted.
type ScrollState struct {
	Photos             []Photo
	OnLastPhotoVisible string
}

// PhotoScroller owns pagination state for infinite grids.
type PhotoScroller interface {
	Scroll(ctx context.Context, opts ScrollOptions) (ScrollState, error)
}

// InfiniteScroll is the default PhotoScroller. It reads pages through a
// PageCache and points the visibility trigger at the /grid/ fragment route.
type InfiniteScroll struct {
	cache *PageCache
}

// NewInfiniteScroll creates an InfiniteScroll reading through cache.
func NewInfiniteScroll(cache *PageCache) *InfiniteScroll {
	return &InfiniteScroll{cache: cache}
}

// Scroll returns the page at opts.InitialOffset.
func (s *InfiniteScroll) Scroll(ctx context.Context, opts ScrollOptions) (ScrollState, error) {
	q := PhotoQuery{Offset: opts.InitialOffset, Limit: opts.ItemsPerPage}
	if opts.Camera != nil {
		q.Camera = opts.Camera.Key()
	}
	photos, more, err := s.cache.Page(ctx, opts.CacheKey, q)
	if err != nil {
		return ScrollState{}, err
	}
	state := ScrollState{Photos: photos}
	if more {
		state.OnLastPhotoVisible = NextPageURL(opts.CacheKey, opts.InitialOffset+len(photos), q.Camera)
	}
	return state, nil
}

// NextPageURL builds the /grid/ fragment URL for a scroll session.
func NextPageURL(cacheKey string, offset int, camera string) string {
	v := url.Values{}
	v.Set("cacheKey", cacheKey)
	v.Set("offset", strconv.Itoa(offset))
	if camera != "" {
		v.Set("camera", camera)
	}
	return "/grid/?" + v.Encode()
}
