package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/photoengine"
)

// Layout wraps body in the site chrome: <head> tags, header and footer.
func Layout(site photoengine.SiteConfig, head Head, body templ.Component) templ.Component {
	return component(func(h *htmlWriter) {
		h.raw("<!doctype html>\n<html lang=\"en\"><head>")
		h.raw(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		writeHead(h, site, head)
		h.raw(`<link rel="icon" href="/favicon.svg" type="image/svg+xml">`)
		h.raw(`<link rel="stylesheet" href="/public/photoengine.css">`)
		h.raw(`<link rel="alternate" type="application/rss+xml"`)
		h.attr("title", site.Name)
		h.raw(` href="/feed.xml">`)
		h.raw(`<script src="/public/photoengine.js" defer></script>`)
		h.raw("</head><body><div class=\"site\">")

		h.raw(`<header class="site-header"><h1><a href="/">`)
		h.text(site.Name)
		h.raw("</a></h1>")
		if site.Description != "" {
			h.raw(`<p class="tagline">`)
			h.text(site.Description)
			h.raw("</p>")
		}
		h.raw("</header><main>")
		h.render(body)
		h.raw(`</main><footer class="site-footer"><a href="/feed.xml">RSS</a>`)
		if site.Author != "" {
			h.raw(" · ")
			h.text(site.Author)
		}
		h.raw("</footer></div></body></html>")
	})
}

func writeHead(h *htmlWriter, site photoengine.SiteConfig, head Head) {
	title := site.Name
	if head.Title != "" && head.Title != site.Name {
		title = head.Title + " | " + site.Name
	}
	description := head.Description
	if description == "" {
		description = site.Description
	}

	h.raw("<title>")
	h.text(title)
	h.raw("</title>")
	if description != "" {
		h.raw(`<meta name="description"`)
		h.attr("content", description)
		h.raw(">")
	}
	if head.NoIndex {
		h.raw(`<meta name="robots" content="noindex">`)
	}
	if head.CSRFToken != "" {
		h.raw(`<meta name="csrf-token"`)
		h.attr("content", head.CSRFToken)
		h.raw(">")
	}
	if head.URL != "" {
		h.raw(`<link rel="canonical"`)
		h.attr("href", head.URL)
		h.raw(">")
	}

	ogTitle := head.Title
	if ogTitle == "" {
		ogTitle = site.Name
	}
	ogType := head.OGType
	if ogType == "" {
		ogType = "website"
	}
	meta := func(attr, key, value string) {
		if value == "" {
			return
		}
		h.raw("<meta")
		h.attr(attr, key)
		h.attr("content", value)
		h.raw(">")
	}
	meta("property", "og:site_name", site.Name)
	meta("property", "og:type", ogType)
	meta("property", "og:title", ogTitle)
	meta("property", "og:description", description)
	meta("property", "og:url", head.URL)
	for _, img := range head.Images {
		meta("property", "og:image", img)
	}

	card := head.TwitterCard
	if card == "" {
		card = "summary"
	}
	meta("name", "twitter:card", card)
	meta("name", "twitter:title", ogTitle)
	meta("name", "twitter:description", description)
	for _, img := range head.Images {
		meta("name", "twitter:image", img)
	}

	if head.JSONLD != "" {
		// encoding/json escapes <, > and & so the payload cannot close the tag.
		h.raw(`<script type="application/ld+json">`, head.JSONLD, "</script>")
	}
}
