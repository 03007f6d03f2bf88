package views

import (
	"strconv"

	"github.com/a-h/templ"

	"github.com/eringen/photoengine"
	"github.com/eringen/photoengine/caption"
)

// PhotoLarge renders the full-width rendition with its caption line.
// priority loads the image eagerly at high fetch priority; prefetchShare
// prefetches the metadata the share link uses.
func PhotoLarge(site photoengine.SiteConfig, p photoengine.Photo, priority, prefetchShare bool) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw(`<figure class="photo-large"`)
		h.attr("id", "photo-"+p.IDShort)
		h.raw("><img")
		h.attr("src", p.ImagePath())
		h.attr("alt", photoengine.TitleForPhoto(p))
		if p.Width > 0 && p.Height > 0 {
			h.attr("width", strconv.Itoa(p.Width))
			h.attr("height", strconv.Itoa(p.Height))
		}
		if priority {
			h.raw(` loading="eager" fetchpriority="high"`)
		} else {
			h.raw(` loading="lazy"`)
		}
		h.raw("><figcaption>")

		h.raw(`<a class="title"`)
		h.attr("href", p.Link())
		h.raw(">")
		h.text(photoengine.TitleForPhoto(p))
		h.raw("</a>")

		if cam := p.Camera(); !cam.IsZero() {
			h.raw(`<a class="camera"`)
			h.attr("href", CameraLink(cam))
			h.raw(">")
			h.text(cam.Display())
			h.raw("</a>")
		}
		if exp := photoengine.ExposureText(p); exp != "" {
			h.raw(`<span class="exposure">`)
			h.text(exp)
			h.raw("</span>")
		}
		if d := photoengine.DescriptionForPhoto(p); d != "" {
			h.raw(`<time`)
			h.attr("datetime", p.TakenAt.UTC().Format("2006-01-02T15:04:05Z"))
			h.raw(">")
			h.text(d)
			h.raw("</time>")
		}

		share := photoengine.AbsoluteRouteForPhoto(site, p)
		h.raw(`<a class="share"`)
		h.attr("href", share)
		h.attr("data-share-url", share)
		h.raw(">Share</a>")
		if prefetchShare {
			h.raw(`<link rel="prefetch"`)
			h.attr("href", "/api/photos/"+PathEscape(p.IDShort)+"/metadata")
			h.raw(">")
		}
		h.raw("</figcaption>")

		if p.Caption != "" {
			h.raw(`<div class="caption">`)
			h.render(caption.Caption(p.Caption))
			h.raw("</div>")
		}
		h.raw("</figure>")
	})
}

// PhotoLinks renders previous/next navigation for photo within photos,
// the contiguous feed window around it.
func PhotoLinks(p photoengine.Photo, photos []photoengine.Photo) templ.Component {
	prev, next := photoengine.AdjacentPhotos(p, photos)
	return component(func(h *htmlWriter) {
		h.raw(`<nav class="photo-links">`)
		writeAdjacent(h, prev, "prev", "← Prev")
		writeAdjacent(h, next, "next", "Next →")
		h.raw("</nav>")
	})
}

func writeAdjacent(h *htmlWriter, p *photoengine.Photo, rel, label string) {
	if p == nil {
		h.raw(`<span class="disabled">`)
		h.text(label)
		h.raw("</span>")
		return
	}
	h.raw("<a")
	h.attr("href", p.Link())
	h.attr("rel", rel)
	h.raw(">")
	h.text(label)
	h.raw("</a>")
}

// PhotoPage is the photo detail page: the large photo, the following photos
// as a grid, and prev/next links. The side column comes first on mobile.
func PhotoPage(site photoengine.SiteConfig, data photoengine.PhotoPageData) templ.Component {
	head := headFromMetadata(data.Meta)
	head.JSONLD = photoengine.PhotographJsonLD(data.Photo, site)

	body := component(func(h *htmlWriter) {
		h.raw(`<div class="photo-page">`)
		h.render(PhotoLarge(site, data.Photo, true, true))
		h.raw(`<div class="site-grid side-first"><div class="main">`)
		h.render(PhotoGrid(photoengine.GridProps{
			Photos:                 data.Grid,
			AnimateOnFirstLoadOnly: true,
			StaggerOnFirstLoadOnly: true,
		}))
		h.raw(`</div><div class="side">`)
		h.render(PhotoLinks(data.Photo, data.Neighbors))
		h.raw("</div></div></div>")
	})
	return Layout(site, head, body)
}
