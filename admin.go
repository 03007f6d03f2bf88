package photoengine

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// takenAtLayout is the format of the datetime-local input in the admin form.
const takenAtLayout = "2006-01-02T15:04"

func (a *App) handleAdmin(c echo.Context) error {
	if !IsAdmin(c) {
		return Render(c, a.Views.AdminLogin(false, CsrfToken(c)))
	}
	return a.renderAdminDashboard(c, c.QueryParam("msg"))
}

func (a *App) handleAdminPhoto(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	photo, err := a.Store.GetPhoto(c.Request().Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	return Render(c, a.Views.AdminPhotoForm(photo, CsrfToken(c)))
}

func (a *App) handleAdminLogin(c echo.Context) error {
	if !a.loginLimiter.Allow(c.RealIP()) {
		return c.String(http.StatusTooManyRequests, "Too many login attempts. Try again later.")
	}
	pass := c.FormValue("password")
	if subtle.ConstantTimeCompare([]byte(pass), []byte(a.Config.AdminPassword)) == 1 {
		if err := setAdminSession(c); err != nil {
			return err
		}
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	a.Logger.Warn("failed admin login", "ip", c.RealIP())
	return Render(c, a.Views.AdminLogin(true, CsrfToken(c)))
}

func handleAdminLogout(c echo.Context) error {
	if err := clearAdminSession(c); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, "/admin/")
}

// photoFromForm reads the editable photo fields. A non-empty message reports
// the first invalid field.
func photoFromForm(c echo.Context) (Photo, string) {
	p := Photo{
		Title:        strings.TrimSpace(c.FormValue("title")),
		Caption:      strings.TrimSpace(c.FormValue("caption")),
		Make:         strings.TrimSpace(c.FormValue("make")),
		Model:        strings.TrimSpace(c.FormValue("model")),
		LensModel:    strings.TrimSpace(c.FormValue("lens")),
		ExposureTime: strings.TrimSpace(c.FormValue("exposure")),
		Hidden:       c.FormValue("hidden") != "",
	}

	p.Tags = ParseTags(c.FormValue("tags"))

	var err error
	if v := strings.TrimSpace(c.FormValue("focal")); v != "" {
		if p.FocalLength, err = strconv.Atoi(v); err != nil || p.FocalLength < 0 {
			return Photo{}, "Invalid focal length."
		}
	}
	if v := strings.TrimSpace(c.FormValue("fnumber")); v != "" {
		if p.FNumber, err = strconv.ParseFloat(v, 64); err != nil || p.FNumber < 0 {
			return Photo{}, "Invalid aperture."
		}
	}
	if v := strings.TrimSpace(c.FormValue("iso")); v != "" {
		if p.ISO, err = strconv.Atoi(v); err != nil || p.ISO < 0 {
			return Photo{}, "Invalid ISO."
		}
	}
	if v := strings.TrimSpace(c.FormValue("taken_at")); v != "" {
		t, err := time.ParseInLocation(takenAtLayout, v, time.UTC)
		if err != nil {
			return Photo{}, "Invalid capture date. Use YYYY-MM-DDTHH:MM."
		}
		p.TakenAt = t
	}
	return p, ""
}

func (a *App) handleAdminSave(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	ctx := c.Request().Context()

	existing, err := a.Store.GetPhoto(ctx, strings.TrimSpace(c.FormValue("id")))
	if errors.Is(err, ErrNotFound) {
		return a.renderAdminDashboard(c, "Photo not found.")
	}
	if err != nil {
		return err
	}

	edited, msg := photoFromForm(c)
	if msg != "" {
		return a.renderAdminDashboard(c, msg)
	}

	existing.Title = edited.Title
	existing.Caption = edited.Caption
	existing.Tags = edited.Tags
	existing.Make = edited.Make
	existing.Model = edited.Model
	existing.LensModel = edited.LensModel
	existing.FocalLength = edited.FocalLength
	existing.FNumber = edited.FNumber
	existing.ISO = edited.ISO
	existing.ExposureTime = edited.ExposureTime
	existing.Hidden = edited.Hidden
	if !edited.TakenAt.IsZero() {
		existing.TakenAt = edited.TakenAt
	}

	if err := a.Store.SavePhoto(ctx, existing); err != nil {
		return err
	}
	a.Cache.Invalidate()
	return a.renderAdminDashboard(c, "saved")
}

func (a *App) handleAdminToggleHidden(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	ctx := c.Request().Context()
	photo, err := a.Store.GetPhoto(ctx, c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.NoContent(http.StatusNotFound)
		}
		return err
	}
	photo.Hidden = !photo.Hidden
	if err := a.Store.SavePhoto(ctx, photo); err != nil {
		return err
	}
	a.Cache.Invalidate()
	if photo.Hidden {
		return a.renderAdminDashboard(c, "hidden")
	}
	return a.renderAdminDashboard(c, "visible")
}

func (a *App) handleAdminDelete(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}
	ctx := c.Request().Context()
	photo, err := a.Store.GetPhoto(ctx, c.Param("id"))
	if errors.Is(err, ErrNotFound) {
		return Redirect(c, "/admin/?msg=deleted")
	}
	if err != nil {
		return err
	}
	if err := a.Store.DeletePhoto(ctx, photo.ID); err != nil {
		return err
	}
	a.removePhotoFiles(photo)
	a.Cache.Invalidate()
	return Redirect(c, "/admin/?msg=deleted")
}

func (a *App) renderAdminDashboard(c echo.Context, msg string) error {
	photos, err := a.Store.GetPhotos(c.Request().Context(), PhotoQuery{IncludeHidden: true})
	if err != nil {
		return err
	}
	return Render(c, a.Views.AdminDashboard(photos, msg, CsrfToken(c)))
}
