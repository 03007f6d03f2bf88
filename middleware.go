package photoengine

import (
	"net/http"
	"strings"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const (
	sessionName     = "admin_session"
	sessionAuthKey  = "authenticated"
	sessionMaxAge   = 60 * 60 * 12
	csrfCookieName  = "_csrf"
	csrfTokenLookup = "header:X-CSRF-Token,form:_csrf"
)

// routeKind groups request paths that share caching and slash rules.
type routeKind int

const (
	routePage     routeKind = iota // HTML pages: home, photo, camera
	routeAsset                     // /public/ renditions and embedded assets
	routeFeed                      // feed.xml, sitemap.xml, robots.txt
	routeFragment                  // /grid/ pages and /api/ JSON
	routeAdmin
	routeFile // favicon and other root files
)

var feedPaths = map[string]bool{
	"/feed.xml":    true,
	"/sitemap.xml": true,
	"/robots.txt":  true,
}

func classifyRoute(path string) routeKind {
	switch {
	case strings.HasPrefix(path, "/public/"):
		return routeAsset
	case feedPaths[path]:
		return routeFeed
	case strings.HasPrefix(path, "/admin"):
		return routeAdmin
	case strings.HasPrefix(path, "/grid/"), strings.HasPrefix(path, "/api/"):
		return routeFragment
	case path == "/favicon.svg":
		return routeFile
	}
	return routePage
}

// cacheControl is the Cache-Control value sent for each route kind. Renditions
// are content-addressed by photo ID, so they never change in place.
var cacheControl = map[routeKind]string{
	routePage:     "public, max-age=3600",
	routeAsset:    "public, max-age=31536000, immutable",
	routeFeed:     "public, max-age=86400",
	routeFragment: "public, max-age=300",
	routeAdmin:    "no-store",
	routeFile:     "public, max-age=86400",
}

func (a *App) setupMiddleware() {
	e := a.Echo

	e.IPExtractor = echo.ExtractIPFromXFFHeader(
		echo.TrustLoopback(true),
		echo.TrustLinkLocal(false),
		echo.TrustPrivateNet(true),
	)
	e.HTTPErrorHandler = a.httpErrorHandler

	e.Pre(middleware.NonWWWRedirect())

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		Skipper: func(c echo.Context) bool {
			return classifyRoute(c.Request().URL.Path) == routeAsset
		},
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			kv := []interface{}{"method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "ip", v.RemoteIP}
			if v.Status >= http.StatusInternalServerError {
				a.Logger.Warn("request", kv...)
			} else {
				a.Logger.Info("request", kv...)
			}
			return nil
		},
	}))

	e.Use(middleware.Recover())

	e.Use(middleware.GzipWithConfig(middleware.GzipConfig{
		Level: 5,
		Skipper: func(c echo.Context) bool {
			// Renditions are already JPEG-compressed.
			return classifyRoute(c.Request().URL.Path) == routeAsset
		},
	}))

	e.Use(middleware.SecureWithConfig(middleware.SecureConfig{
		XSSProtection:         "1; mode=block",
		ContentTypeNosniff:    "nosniff",
		XFrameOptions:         "DENY",
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: "default-src 'self'; script-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data: blob:; connect-src 'self'",
		HSTSMaxAge:            31536000,
	}))

	e.Use(session.Middleware(a.newSessionStore()))

	e.Use(middleware.CSRFWithConfig(middleware.CSRFConfig{
		TokenLookup:    csrfTokenLookup,
		CookieName:     csrfCookieName,
		CookiePath:     "/",
		CookieSameSite: http.SameSiteLaxMode,
		CookieSecure:   a.Config.CookieSecure,
		ErrorHandler: func(err error, c echo.Context) error {
			a.Logger.Warn("csrf rejected", "ip", c.RealIP(), "path", c.Request().URL.Path, "err", err)
			return c.String(http.StatusForbidden, "Forbidden")
		},
	}))

	e.Use(middleware.AddTrailingSlashWithConfig(middleware.TrailingSlashConfig{
		RedirectCode: http.StatusMovedPermanently,
		Skipper: func(c echo.Context) bool {
			kind := classifyRoute(c.Request().URL.Path)
			return kind != routePage && kind != routeAdmin
		},
	}))

	e.Use(cacheControlMiddleware)
}

func cacheControlMiddleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		kind := classifyRoute(c.Request().URL.Path)
		c.Response().Header().Set("Cache-Control", cacheControl[kind])
		return next(c)
	}
}

func (a *App) newSessionStore() *sessions.CookieStore {
	store := sessions.NewCookieStore([]byte(a.Config.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		HttpOnly: true,
		MaxAge:   sessionMaxAge,
		SameSite: http.SameSiteLaxMode,
		Secure:   a.Config.CookieSecure,
	}
	return store
}

// IsAdmin reports whether the request carries an authenticated admin session.
func IsAdmin(c echo.Context) bool {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return false
	}
	auth, _ := sess.Values[sessionAuthKey].(bool)
	return auth
}

func setAdminSession(c echo.Context) error {
	return saveAdminSession(c, func(s *sessions.Session) {
		s.Values[sessionAuthKey] = true
	})
}

func clearAdminSession(c echo.Context) error {
	return saveAdminSession(c, func(s *sessions.Session) {
		delete(s.Values, sessionAuthKey)
		s.Options.MaxAge = -1
	})
}

func saveAdminSession(c echo.Context, update func(*sessions.Session)) error {
	sess, err := session.Get(sessionName, c)
	if err != nil {
		return err
	}
	update(sess)
	return sess.Save(c.Request(), c.Response())
}

// CsrfToken returns the token the CSRF middleware stored for this request,
// for embedding in admin forms and the csrf-token meta tag.
func CsrfToken(c echo.Context) string {
	token, _ := c.Get(middleware.DefaultCSRFConfig.ContextKey).(string)
	return token
}
