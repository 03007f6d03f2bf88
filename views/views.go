// Package views is the default set of photoengine page components.
package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/photoengine"
)

// New returns ViewFuncs rendering the default components for site.
func New(site photoengine.SiteConfig) photoengine.ViewFuncs {
	return photoengine.ViewFuncs{
		Home: func(page photoengine.HomePage) templ.Component {
			return Home(site, page)
		},
		Camera: func(page photoengine.HomePage) templ.Component {
			return Camera(site, page)
		},
		Photo: func(data photoengine.PhotoPageData) templ.Component {
			return PhotoPage(site, data)
		},
		PhotoGrid: PhotoGrid,
		AdminLogin: func(showError bool, csrfToken string) templ.Component {
			return AdminLogin(site, showError, csrfToken)
		},
		AdminDashboard: func(photos []photoengine.Photo, message, csrfToken string) templ.Component {
			return AdminDashboard(site, photos, message, csrfToken)
		},
		AdminPhotoForm: func(p photoengine.Photo, csrfToken string) templ.Component {
			return AdminPhotoForm(site, p, csrfToken)
		},
		NotFound: func() templ.Component {
			return NotFound(site)
		},
		ServerError: func() templ.Component {
			return ServerError(site)
		},
	}
}
