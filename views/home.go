package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/photoengine"
)

// Home renders the feed: camera nav, the first grid page and the infinite
// grid that continues it.
func Home(site photoengine.SiteConfig, page photoengine.HomePage) templ.Component {
	head := headFromPageMeta(page.Meta)
	head.JSONLD = photoengine.WebsiteJsonLD(site)
	return Layout(site, head, feedBody(page, ""))
}

// Camera renders the feed of one camera.
func Camera(site photoengine.SiteConfig, page photoengine.HomePage) templ.Component {
	head := headFromPageMeta(page.Meta)
	heading := ""
	if page.Camera != nil {
		heading = "Shot on " + page.Camera.Display()
	}
	return Layout(site, head, feedBody(page, heading))
}

func feedBody(page photoengine.HomePage, heading string) templ.Component {
	return component(func(h *htmlWriter) {
		if heading != "" {
			h.raw("<h2>")
			h.text(heading)
			h.raw("</h2>")
		}
		if len(page.Cameras) > 0 {
			h.raw(`<ul class="cameras">`)
			for _, cc := range page.Cameras {
				active := page.Camera != nil && page.Camera.Key() == cc.Camera.Key()
				h.raw("<li><a")
				h.attr("class", NavClass(active))
				h.attr("href", CameraLink(cc.Camera))
				h.raw(">")
				h.text(cc.Camera.Display())
				h.raw(" <span>")
				h.text(strconv.Itoa(cc.Count))
				h.raw("</span></a></li>")
			}
			h.raw("</ul>")
		}
		if len(page.Photos) == 0 {
			h.raw(`<p class="empty">No photos yet.</p>`)
			return
		}
		h.render(PhotoGrid(photoengine.GridProps{
			Photos:                 page.Photos,
			Camera:                 page.Camera,
			AnimateOnFirstLoadOnly: true,
			StaggerOnFirstLoadOnly: true,
		}))
		h.render(page.More)
	})
}
