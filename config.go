package photoengine

import (
	"time"

	"github.com/charmbracelet/log"
)

// SiteConfig holds all configuration for a photoengine site.
type SiteConfig struct {
	Name        string // Site name (default "Photos")
	URL         string // Canonical URL (default "http://localhost:3000")
	Description string // Site description for RSS and meta tags
	Author      string // Photographer name for JSON-LD

	Addr         string // Listen address (default ":3000")
	DatabasePath string // SQLite path (default "data/photos.db")
	DatabaseURL  string // Postgres DSN; when set, Postgres is used instead of SQLite

	AdminPassword string // Required: admin login password
	SessionSecret string // Required: session encryption secret
	CookieSecure  bool   // Set true for HTTPS

	PageCacheTTL time.Duration // Grid page cache TTL (default 5min)
	GridRate     float64       // Grid fragment requests per second per IP (default 5)
	GridBurst    int           // Grid fragment burst per IP (default 20)

	LogLevel string // debug, info, warn, error (default "info")
}

// WithDefaults returns c with unset fields filled in, the same way New does.
func (c SiteConfig) WithDefaults() SiteConfig {
	c.setDefaults()
	return c
}

func (c *SiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "Photos"
	}
	if c.URL == "" {
		c.URL = "http://localhost:3000"
	}
	if c.Addr == "" {
		c.Addr = ":3000"
	}
	if c.DatabasePath == "" {
		c.DatabasePath = "data/photos.db"
	}
	if c.PageCacheTTL == 0 {
		c.PageCacheTTL = 5 * time.Minute
	}
	if c.GridRate == 0 {
		c.GridRate = 5
	}
	if c.GridBurst == 0 {
		c.GridBurst = 20
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Option configures additional App behavior.
type Option func(*App)

// WithCustomRoutes registers additional routes on the Echo instance.
// The callback receives the App before the server starts.
func WithCustomRoutes(fn func(*App)) Option {
	return func(a *App) {
		a.customRoutes = append(a.customRoutes, fn)
	}
}

// WithStaticDir sets the directory for static assets and uploads (default "public").
func WithStaticDir(dir string) Option {
	return func(a *App) {
		a.staticDir = dir
	}
}

// WithStore makes the App use an already opened store instead of opening one
// from DatabaseURL/DatabasePath. The App still closes it on Close.
func WithStore(s PhotoStore) Option {
	return func(a *App) {
		a.Store = s
	}
}

// WithScroller replaces the default infinite-scroll collaborator.
func WithScroller(s PhotoScroller) Option {
	return func(a *App) {
		a.Scroller = s
	}
}

// WithLogger replaces the default stderr logger.
func WithLogger(l *log.Logger) Option {
	return func(a *App) {
		a.Logger = l
	}
}
