package photoengine

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

func (a *App) handleHome(c echo.Context) error {
	ctx := c.Request().Context()
	photos, err := a.Store.GetPhotos(ctx, PhotoQuery{Limit: GridInitialCount})
	if err != nil {
		return err
	}
	cameras, err := a.Store.ListCameras(ctx)
	if err != nil {
		return err
	}
	page := HomePage{
		Meta: PageMeta{
			Title:       a.Config.Name,
			Description: a.Config.Description,
			URL:         BuildURL(a.Config.URL),
			OGType:      "website",
		},
		Photos:  photos,
		Cameras: cameras,
	}
	if len(photos) > 0 {
		page.Meta.Image = AbsoluteURL(a.Config.URL, photos[0].ImagePath())
	}
	if len(photos) == GridInitialCount {
		page.More = PhotoGridInfinite(a.Scroller, a.Views.PhotoGrid, GridInfiniteProps{
			CacheKey:               feedCacheKey(""),
			InitialOffset:          GridInitialCount,
			AnimateOnFirstLoadOnly: true,
		})
	}
	return Render(c, a.Views.Home(page))
}

func (a *App) handlePhoto(c echo.Context) error {
	data, err := LoadPhotoPage(c.Request().Context(), a.Store, a.Config, c.Param("photoId"))
	if errors.Is(err, ErrNotFound) {
		return Redirect(c, "/")
	}
	if err != nil {
		return err
	}
	return Render(c, a.Views.Photo(data))
}

func (a *App) handlePhotoMetadata(c echo.Context) error {
	meta, err := ResolveMetadata(c.Request().Context(), a.Store, a.Config, c.Param("photoId"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, meta)
}

// findCamera resolves a camera key against the cameras that have visible photos.
// feedCacheKey is the scroll cache key of the home feed, or of a camera feed
// when cameraKey is set.
func feedCacheKey(cameraKey string) string {
	if cameraKey == "" {
		return "grid"
	}
	return "camera-" + cameraKey
}

func (a *App) findCamera(c echo.Context, key string) (*Camera, error) {
	cameras, err := a.Store.ListCameras(c.Request().Context())
	if err != nil {
		return nil, err
	}
	return cameraByKey(cameras, key), nil
}

func cameraByKey(cameras []CameraCount, key string) *Camera {
	for _, cc := range cameras {
		if cc.Camera.Key() == key {
			cam := cc.Camera
			return &cam
		}
	}
	return nil
}

func (a *App) handleCamera(c echo.Context) error {
	ctx := c.Request().Context()
	key := c.Param("camera")
	cameras, err := a.Store.ListCameras(ctx)
	if err != nil {
		return err
	}
	cam := cameraByKey(cameras, key)
	if cam == nil {
		return RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
	}
	photos, err := a.Store.GetPhotos(ctx, PhotoQuery{Limit: GridInitialCount, Camera: key})
	if err != nil {
		return err
	}
	total, err := a.Store.CountPhotos(ctx, key)
	if err != nil {
		return err
	}
	page := HomePage{
		Meta: PageMeta{
			Title:       "Shot on " + cam.Display(),
			Description: fmt.Sprintf("%d photos shot on %s", total, cam.Display()),
			URL:         BuildURL(a.Config.URL, "shot-on", key),
			OGType:      "website",
		},
		Photos:  photos,
		Cameras: cameras,
		Camera:  cam,
	}
	if len(photos) > 0 {
		page.Meta.Image = AbsoluteURL(a.Config.URL, photos[0].ImagePath())
	}
	if len(photos) == GridInitialCount {
		page.More = PhotoGridInfinite(a.Scroller, a.Views.PhotoGrid, GridInfiniteProps{
			CacheKey:               feedCacheKey(key),
			InitialOffset:          GridInitialCount,
			Camera:                 cam,
			AnimateOnFirstLoadOnly: true,
		})
	}
	return Render(c, a.Views.Camera(page))
}

// handleGrid serves the next page of an infinite grid as an HTML fragment.
func (a *App) handleGrid(c echo.Context) error {
	if !a.gridLimiter.Allow(c.RealIP()) {
		return c.NoContent(http.StatusTooManyRequests)
	}
	cacheKey := strings.TrimSpace(c.QueryParam("cacheKey"))
	if cacheKey == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "cacheKey is required")
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		return echo.NewHTTPError(http.StatusBadRequest, "offset must be a non-negative integer")
	}
	// Only keys the feed pages hand out are accepted; the page cache is
	// keyed by them.
	cameraKey := c.QueryParam("camera")
	if cacheKey != feedCacheKey(cameraKey) {
		return echo.NewHTTPError(http.StatusBadRequest, "unknown cacheKey")
	}
	var cam *Camera
	if cameraKey != "" {
		if cam, err = a.findCamera(c, cameraKey); err != nil {
			return err
		}
		if cam == nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unknown camera")
		}
	}
	return Render(c, PhotoGridInfinite(a.Scroller, a.Views.PhotoGrid, GridInfiniteProps{
		CacheKey:      cacheKey,
		InitialOffset: offset,
		Camera:        cam,
	}))
}

func (a *App) handleSitemap(c echo.Context) error {
	ctx := c.Request().Context()
	photos, err := a.Store.GetPhotos(ctx, PhotoQuery{})
	if err != nil {
		return err
	}
	cameras, err := a.Store.ListCameras(ctx)
	if err != nil {
		return err
	}
	return a.renderSitemap(c, photos, cameras)
}

func (a *App) handleFeed(c echo.Context) error {
	photos, err := a.Store.GetPhotos(c.Request().Context(), PhotoQuery{Limit: feedSize})
	if err != nil {
		return err
	}
	return a.renderRSS(c, photos)
}

// handleFavicon serves favicon.svg from the static dir, or the embedded
// default when the site ships none.
func (a *App) handleFavicon(c echo.Context) error {
	custom := filepath.Join(a.staticDir, "favicon.svg")
	if _, err := os.Stat(custom); err == nil {
		return c.File(custom)
	}
	b, err := EmbeddedAssets.ReadFile("embedded/favicon.svg")
	if err != nil {
		return err
	}
	return c.Blob(http.StatusOK, "image/svg+xml", b)
}

// handleRobots generates robots.txt from the site URL.
func (a *App) handleRobots(c echo.Context) error {
	body := fmt.Sprintf("User-agent: *\nAllow: /\nDisallow: /admin/\nDisallow: /grid/\n\nSitemap: %s\n",
		AbsoluteURL(a.Config.URL, "/sitemap.xml"))
	return c.String(http.StatusOK, body)
}

func (a *App) httpErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	he, ok := err.(*echo.HTTPError)
	if ok && he.Code == http.StatusNotFound {
		_ = RenderStatus(c, http.StatusNotFound, a.Views.NotFound())
		return
	}
	code := http.StatusInternalServerError
	if ok {
		code = he.Code
	}
	if code >= 500 {
		a.Logger.Error("server error", "method", c.Request().Method, "uri", c.Request().RequestURI, "err", err)
		_ = RenderStatus(c, code, a.Views.ServerError())
		return
	}
	a.Echo.DefaultHTTPErrorHandler(err, c)
}
