// Package photoengine is a photo portfolio engine built with Go, Echo, and templ.
// It provides a chronological photo feed with infinite scroll, photo pages with
// neighbor navigation and social previews, camera pages, RSS, sitemap, and an
// admin area for uploads out of the box.
//
// Users provide their own templ templates via the ViewFuncs struct (the views
// package ships a default set), and photoengine handles all the handler logic,
// middleware, and database operations.
package photoengine

import (
	"context"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/a-h/templ"
	"github.com/charmbracelet/log"
	"github.com/labstack/echo/v4"
)

// HomePage is the data behind the feed and camera pages.
type HomePage struct {
	Meta    PageMeta
	Photos  []Photo         // rendered server-side
	More    templ.Component // infinite grid continuing after Photos
	Cameras []CameraCount
	Camera  *Camera // set on camera pages
}

// ViewFuncs holds user-provided templ components that the framework calls
// when rendering pages.
type ViewFuncs struct {
	Home           func(page HomePage) templ.Component
	Camera         func(page HomePage) templ.Component
	Photo          func(page PhotoPageData) templ.Component
	PhotoGrid      func(props GridProps) templ.Component
	AdminLogin     func(showError bool, csrfToken string) templ.Component
	AdminDashboard func(photos []Photo, message string, csrfToken string) templ.Component
	AdminPhotoForm func(photo Photo, csrfToken string) templ.Component
	NotFound       func() templ.Component
	ServerError    func() templ.Component
}

// App is the central photoengine application. It wires together the store,
// cache, scroller, handlers, middleware, and user-provided templates.
type App struct {
	Config   SiteConfig
	Echo     *echo.Echo
	Store    PhotoStore
	Cache    *PageCache
	Scroller PhotoScroller
	Views    ViewFuncs
	Logger   *log.Logger

	loginLimiter *LoginLimiter
	gridLimiter  *VisitorLimiter
	customRoutes []func(*App)
	staticDir    string
}

// New creates a new photoengine App with the given configuration and view functions.
func New(cfg SiteConfig, views ViewFuncs, opts ...Option) *App {
	cfg.setDefaults()

	a := &App{
		Config:    cfg,
		Echo:      echo.New(),
		Views:     views,
		staticDir: "public",
	}
	a.Echo.HideBanner = true

	for _, opt := range opts {
		opt(a)
	}
	if a.Logger == nil {
		a.Logger = NewLogger(os.Stderr, cfg.LogLevel)
	}

	return a
}

// OpenStore opens the Postgres store when DatabaseURL is set and the SQLite
// store at DatabasePath otherwise.
func OpenStore(ctx context.Context, cfg SiteConfig) (PhotoStore, error) {
	if cfg.DatabaseURL != "" {
		return NewPostgresStore(ctx, cfg.DatabaseURL)
	}
	return NewSQLiteStore(cfg.DatabasePath)
}

// Open opens the store and builds the page cache and scroller. It is enough
// for offline work such as imports; Init calls it before registering routes.
func (a *App) Open(ctx context.Context) error {
	if a.Store == nil {
		store, err := OpenStore(ctx, a.Config)
		if err != nil {
			return fmt.Errorf("photoengine: init store: %w", err)
		}
		a.Store = store
	}
	if a.Cache == nil {
		a.Cache = NewPageCache(a.Store, a.Config.PageCacheTTL)
	}
	if a.Scroller == nil {
		a.Scroller = NewInfiniteScroll(a.Cache)
	}
	return nil
}

// Init opens the store, builds the cache, and registers middleware and routes.
// Start calls it; tests call it directly and drive a.Echo with httptest.
func (a *App) Init(ctx context.Context) error {
	if a.Config.AdminPassword == "" {
		return fmt.Errorf("photoengine: AdminPassword is required")
	}
	if a.Config.SessionSecret == "" {
		return fmt.Errorf("photoengine: SessionSecret is required")
	}

	if err := a.Open(ctx); err != nil {
		return err
	}

	a.stopLimiters()
	a.loginLimiter = NewLoginLimiter(5, time.Minute)
	a.gridLimiter = NewVisitorLimiter(a.Config.GridRate, a.Config.GridBurst, 10*time.Minute)

	a.setupMiddleware()
	a.setupRoutes()

	for _, fn := range a.customRoutes {
		fn(a)
	}
	return nil
}

// Start initializes the app and serves until the server is shut down.
func (a *App) Start(ctx context.Context) error {
	if err := a.Init(ctx); err != nil {
		return err
	}
	a.Logger.Info("listening", "addr", a.Config.Addr, "url", a.Config.URL)
	if err := a.Echo.Start(a.Config.Addr); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (a *App) Shutdown(ctx context.Context) error {
	return a.Echo.Shutdown(ctx)
}

func (a *App) setupRoutes() {
	e := a.Echo

	// Serve embedded engine assets (photoengine.js, photoengine.css).
	// Everything else under /public/ falls through to the static dir.
	embeddedFS, _ := fs.Sub(EmbeddedAssets, "embedded")
	embeddedHandler := http.FileServer(http.FS(embeddedFS))
	e.GET("/public/photoengine.js", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))
	e.GET("/public/photoengine.css", echo.WrapHandler(http.StripPrefix("/public/", embeddedHandler)))

	// Static assets and uploaded renditions
	e.Static("/public", a.staticDir)
	e.GET("/favicon.svg", a.handleFavicon)
	e.GET("/robots.txt", a.handleRobots)

	// Public routes
	e.GET("/sitemap.xml", a.handleSitemap)
	e.GET("/feed.xml", a.handleFeed)
	e.GET("/", a.handleHome)
	e.GET("/p/:photoId/", a.handlePhoto)
	e.GET("/shot-on/:camera/", a.handleCamera)
	e.GET("/grid/", a.handleGrid)
	e.GET("/api/photos/:photoId/metadata", a.handlePhotoMetadata)

	// Admin routes
	e.GET("/admin/", a.handleAdmin)
	e.POST("/admin/login/", a.handleAdminLogin)
	e.POST("/admin/logout/", handleAdminLogout)
	e.GET("/admin/photo/:id/", a.handleAdminPhoto)
	e.POST("/admin/save/", a.handleAdminSave)
	e.POST("/admin/photo/:id/hidden/", a.handleAdminToggleHidden)
	e.DELETE("/admin/photo/:id/", a.handleAdminDelete)
	e.POST("/admin/upload/", a.handlePhotoUpload)
}

func (a *App) stopLimiters() {
	if a.loginLimiter != nil {
		a.loginLimiter.Stop()
	}
	if a.gridLimiter != nil {
		a.gridLimiter.Stop()
	}
}

// Close cleans up resources. Call this when the app is shutting down.
func (a *App) Close() error {
	a.stopLimiters()
	if a.Store != nil {
		return a.Store.Close()
	}
	return nil
}

// EnvOr returns the value of the environment variable key, or fallback if empty.
func EnvOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// MustEnv returns the value of the environment variable key, or fatally exits if empty.
func MustEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		log.Fatal("required environment variable is not set", "key", key)
	}
	return v
}

// EnvInt returns the integer value of key, or fallback if unset or invalid.
func EnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

// EnvBool reports whether key is set to "true" (case-insensitive).
func EnvBool(key string) bool {
	return strings.EqualFold(os.Getenv(key), "true")
}
