package views

import (
	"github.com/a-h/templ"

	"github.com/eringen/photoengine"
)

func adminHead(csrfToken string) Head {
	return Head{Title: "Admin", CSRFToken: csrfToken, NoIndex: true}
}

func csrfField(h *htmlWriter, token string) {
	h.raw(`<input type="hidden" name="_csrf"`)
	h.attr("value", token)
	h.raw(">")
}

// AdminLogin renders the password form.
func AdminLogin(site photoengine.SiteConfig, showError bool, csrfToken string) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="admin"><h2>Admin</h2>`)
		if showError {
			h.raw(`<p class="message">Wrong password.</p>`)
		}
		h.raw(`<form method="post" action="/admin/login/">`)
		csrfField(h, csrfToken)
		h.raw(`<input type="password" name="password" placeholder="Password" autocomplete="current-password" required>`)
		h.raw(`<button type="submit">Log in</button></form></section>`)
	})
	return Layout(site, adminHead(csrfToken), body)
}

// AdminDashboard renders the upload form and the table of all photos,
// hidden ones included.
func AdminDashboard(site photoengine.SiteConfig, photos []photoengine.Photo, message, csrfToken string) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="admin" id="dashboard"><h2>Photos</h2>`)
		if message != "" {
			h.raw(`<p class="message">`)
			h.text(message)
			h.raw("</p>")
		}

		h.raw(`<form method="post" action="/admin/logout/">`)
		csrfField(h, csrfToken)
		h.raw(`<button type="submit">Log out</button></form>`)

		h.raw(`<h3>Upload</h3><form class="edit" method="post" action="/admin/upload/" enctype="multipart/form-data">`)
		csrfField(h, csrfToken)
		h.raw(`<input type="file" name="image" accept="image/jpeg,image/png,image/gif,image/webp" required>`)
		writePhotoFields(h, photoengine.Photo{})
		h.raw(`<button type="submit">Upload</button></form>`)

		h.raw(`<table><thead><tr><th></th><th>Title</th><th>Camera</th><th>Taken</th><th>State</th><th></th></tr></thead><tbody>`)
		for _, p := range photos {
			h.raw("<tr><td><img")
			h.attr("src", p.ThumbPath())
			h.attr("alt", photoengine.TitleForPhoto(p))
			h.raw(` loading="lazy"></td><td><a`)
			h.attr("href", p.Link())
			h.raw(">")
			h.text(photoengine.TitleForPhoto(p))
			h.raw("</a></td><td>")
			h.text(p.Camera().Display())
			h.raw("</td><td>")
			h.text(formatTakenAt(p.TakenAt))
			h.raw("</td><td>")
			if p.Hidden {
				h.raw("hidden")
			} else {
				h.raw("visible")
			}
			h.raw(`</td><td><a`)
			h.attr("href", "/admin/photo/"+PathEscape(p.ID)+"/")
			h.raw(`>Edit</a> <form method="post" style="display:inline"`)
			h.attr("action", "/admin/photo/"+PathEscape(p.ID)+"/hidden/")
			h.raw(">")
			csrfField(h, csrfToken)
			if p.Hidden {
				h.raw(`<button type="submit">Show</button>`)
			} else {
				h.raw(`<button type="submit">Hide</button>`)
			}
			h.raw(`</form> <button type="button"`)
			h.attr("hx-delete", "/admin/photo/"+PathEscape(p.ID)+"/")
			h.attr("hx-confirm", "Delete "+photoengine.TitleForPhoto(p)+"?")
			h.raw(">Delete</button></td></tr>")
		}
		h.raw("</tbody></table></section>")
	})
	return Layout(site, adminHead(csrfToken), body)
}

// AdminPhotoForm renders the edit form of one photo.
func AdminPhotoForm(site photoengine.SiteConfig, p photoengine.Photo, csrfToken string) templ.Component {
	body := component(func(h *htmlWriter) {
		h.raw(`<section class="admin"><h2>Edit photo</h2><img class="preview"`)
		h.attr("src", p.ThumbPath())
		h.attr("alt", photoengine.TitleForPhoto(p))
		h.raw(`><form class="edit" method="post" action="/admin/save/">`)
		csrfField(h, csrfToken)
		h.raw(`<input type="hidden" name="id"`)
		h.attr("value", p.ID)
		h.raw(">")
		writePhotoFields(h, p)
		h.raw(`<button type="submit">Save</button> <a href="/admin/">Cancel</a></form></section>`)
	})
	return Layout(site, adminHead(csrfToken), body)
}

func writePhotoFields(h *htmlWriter, p photoengine.Photo) {
	field := func(label, name, typ, value string) {
		h.raw("<label>")
		h.text(label)
		h.raw(" <input")
		h.attr("type", typ)
		h.attr("name", name)
		h.attr("value", value)
		if typ == "number" {
			h.raw(` min="0" step="any"`)
		}
		h.raw("></label>")
	}
	field("Title", "title", "text", p.Title)
	h.raw(`<label>Caption <textarea name="caption" rows="3">`)
	h.text(p.Caption)
	h.raw("</textarea></label>")
	field("Tags", "tags", "text", photoengine.FormatTags(p.Tags))
	field("Make", "make", "text", p.Make)
	field("Model", "model", "text", p.Model)
	field("Lens", "lens", "text", p.LensModel)
	field("Focal length (mm)", "focal", "number", itoa(p.FocalLength))
	field("Aperture (ƒ)", "fnumber", "number", ftoa(p.FNumber))
	field("ISO", "iso", "number", itoa(p.ISO))
	field("Exposure (s)", "exposure", "text", p.ExposureTime)
	field("Taken at (UTC)", "taken_at", "datetime-local", formatInputTime(p.TakenAt))
	h.raw(`<label><input type="checkbox" name="hidden" value="1"`)
	h.attrIf(p.Hidden, "checked")
	h.raw("> Hidden</label>")
}
