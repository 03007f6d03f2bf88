package photoengine

import (
	"context"
	"io"

	"github.com/a-h/templ"
)

const (
	// GridPageSize is the number of photos fetched per infinite-scroll page.
	GridPageSize = 24
	// GridInitialCount is the number of photos rendered before scrolling starts.
	GridInitialCount = 24
)

// GridProps are the inputs of a photo grid template.
type GridProps struct {
	Photos                 []Photo
	Camera                 *Camera
	OnLastPhotoVisible     string // URL fetched when the last photo scrolls into view
	AnimateOnFirstLoadOnly bool
	StaggerOnFirstLoadOnly bool
}

// GridInfiniteProps configure PhotoGridInfinite.
type GridInfiniteProps struct {
	CacheKey               string
	InitialOffset          int
	Camera                 *Camera
	AnimateOnFirstLoadOnly bool
}

// PhotoGridInfinite is a grid whose pages come from scroller. It forwards
// its props plus GridPageSize to the scroller at render time and renders
// whatever comes back through grid; it keeps no state of its own.
func PhotoGridInfinite(scroller PhotoScroller, grid func(GridProps) templ.Component, props GridInfiniteProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		state, err := scroller.Scroll(ctx, ScrollOptions{
			CacheKey:      props.CacheKey,
			InitialOffset: props.InitialOffset,
			ItemsPerPage:  GridPageSize,
			Camera:        props.Camera,
		})
		if err != nil {
			return err
		}
		return grid(GridProps{
			Photos:                 state.Photos,
			Camera:                 props.Camera,
			OnLastPhotoVisible:     state.OnLastPhotoVisible,
			AnimateOnFirstLoadOnly: props.AnimateOnFirstLoadOnly,
		}).Render(ctx, w)
	})
}
