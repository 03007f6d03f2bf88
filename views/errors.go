package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/photoengine"
)

func NotFound(site photoengine.SiteConfig) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="error"><h2>Not found</h2><p>That page does not exist. <a href="/">Back to photos</a></p></section>`)
	})
	return Layout(site, Head{Title: "Not found", NoIndex: true}, body)
}

func ServerError(site photoengine.SiteConfig) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="error"><h2>Something went wrong</h2><p>Try again in a moment. <a href="/">Back to photos</a></p></section>`)
	})
	return Layout(site, Head{Title: "Error", NoIndex: true}, body)
}
