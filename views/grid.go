package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/photoengine"
)

// PhotoGrid renders thumbnails linking to their photo pages. When
// OnLastPhotoVisible is set, the last thumbnail requests that URL once it is
// revealed and the response replaces the placeholder after the grid.
func PhotoGrid(props photoengine.GridProps) templ.Component {
	return component(func(h *htmlWriter) {
		if len(props.Photos) == 0 {
			return
		}
		h.raw("<div")
		h.attr("class", gridClass(props))
		h.raw(">")
		last := len(props.Photos) - 1
		for i, p := range props.Photos {
			h.raw(`<a class="item"`)
			h.attr("href", p.Link())
			if i == last && props.OnLastPhotoVisible != "" {
				h.attr("hx-get", props.OnLastPhotoVisible)
				h.raw(` hx-trigger="revealed" hx-swap="outerHTML"`)
				h.attr("hx-target", "#"+moreID(props.OnLastPhotoVisible))
			}
			h.raw("><img")
			h.attr("src", p.ThumbPath())
			h.attr("alt", photoengine.TitleForPhoto(p))
			h.raw(` loading="lazy"`)
			if p.Width > 0 && p.Height > 0 {
				h.attr("width", strconv.Itoa(p.Width))
				h.attr("height", strconv.Itoa(p.Height))
			}
			h.raw("></a>")
		}
		h.raw("</div>")
		if props.OnLastPhotoVisible != "" {
			h.raw("<div")
			h.attr("id", moreID(props.OnLastPhotoVisible))
			h.raw(` class="grid-more"></div>`)
		}
	})
}
