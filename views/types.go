package views

import (
	"github.com/eringen/photoengine"
)

// Head carries everything the <head> partial renders. Pages fill it from a
// photoengine.PageMeta or, on photo pages, from photoengine.Metadata.
type Head struct {
	Title       string
	Description string
	URL         string   // canonical + og:url
	OGType      string   // "website" or "article"
	Images      []string // absolute og:image / twitter:image URLs
	TwitterCard string   // "summary" or "summary_large_image"
	JSONLD      string
	CSRFToken   string // admin pages only
	NoIndex     bool
}

func headFromPageMeta(m photoengine.PageMeta) Head {
	h := Head{
		Title:       m.Title,
		Description: m.Description,
		URL:         m.URL,
		OGType:      m.OGType,
		TwitterCard: "summary",
	}
	if m.Image != "" {
		h.Images = []string{m.Image}
		h.TwitterCard = "summary_large_image"
	}
	return h
}

// headFromMetadata maps photo metadata onto Head. A zero Metadata leaves the
// page-specific tags empty and the site defaults apply.
func headFromMetadata(m photoengine.Metadata) Head {
	h := Head{
		Title:       m.Title,
		Description: m.Description,
		OGType:      "article",
	}
	if og := m.OpenGraph; og != nil {
		h.URL = og.URL
		h.Images = og.Images
	}
	if tw := m.Twitter; tw != nil {
		h.TwitterCard = tw.Card
		if len(h.Images) == 0 {
			h.Images = tw.Images
		}
	}
	return h
}
