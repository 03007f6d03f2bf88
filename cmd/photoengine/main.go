package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/eringen/photoengine"
	"github.com/eringen/photoengine/views"
)

// version is set at build time via ldflags.
var version = "dev"

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// A missing .env is fine; the environment may be set directly.
	_ = godotenv.Load()

	switch os.Args[1] {
	case "serve":
		if err := runServe(); err != nil {
			log.Fatal("serve failed", "err", err)
		}
	case "import":
		if len(os.Args) < 3 {
			fmt.Fprintln(os.Stderr, "Usage: photoengine import <dir>")
			os.Exit(1)
		}
		if err := runImport(os.Args[2]); err != nil {
			log.Fatal("import failed", "err", err)
		}
	case "version":
		fmt.Printf("photoengine %s\n", version)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

// configFromEnv reads SiteConfig from the environment.
func configFromEnv() photoengine.SiteConfig {
	cfg := photoengine.SiteConfig{
		Name:          photoengine.EnvOr("SITE_NAME", "Photos"),
		URL:           photoengine.EnvOr("SITE_URL", "http://localhost:3000"),
		Description:   os.Getenv("SITE_DESCRIPTION"),
		Author:        os.Getenv("SITE_AUTHOR"),
		Addr:          photoengine.EnvOr("ADDR", ":3000"),
		DatabasePath:  photoengine.EnvOr("DATABASE_PATH", "data/photos.db"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		SessionSecret: os.Getenv("ADMIN_SESSION_SECRET"),
		CookieSecure:  photoengine.EnvBool("COOKIE_SECURE"),
		GridBurst:     photoengine.EnvInt("GRID_BURST", 0),
		LogLevel:      photoengine.EnvOr("LOG_LEVEL", "info"),
	}
	if ttl := photoengine.EnvInt("PAGE_CACHE_TTL_SECONDS", 0); ttl > 0 {
		cfg.PageCacheTTL = time.Duration(ttl) * time.Second
	}
	return cfg.WithDefaults()
}

func runServe() error {
	cfg := configFromEnv()
	cfg.AdminPassword = photoengine.MustEnv("ADMIN_PASSWORD")
	cfg.SessionSecret = photoengine.MustEnv("ADMIN_SESSION_SECRET")

	app := photoengine.New(cfg, views.New(cfg),
		photoengine.WithStaticDir(photoengine.EnvOr("STATIC_DIR", "public")),
	)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- app.Start(ctx)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	app.Logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	app.Logger.Info("server stopped")
	return nil
}

func printUsage() {
	fmt.Println(`photoengine - A photo portfolio engine built with Go, Echo, and templ

Usage:
  photoengine <command> [arguments]

Commands:
  serve         Run the web server
  import <dir>  Import every image in a directory
  version       Print the photoengine version
  help          Show this help message

Environment (also read from .env):
  SITE_NAME, SITE_URL, SITE_DESCRIPTION, SITE_AUTHOR, ADDR, STATIC_DIR
  DATABASE_PATH (SQLite) or DATABASE_URL (Postgres)
  ADMIN_PASSWORD, ADMIN_SESSION_SECRET, COOKIE_SECURE
  GRID_BURST, PAGE_CACHE_TTL_SECONDS, LOG_LEVEL

Examples:
  photoengine serve
  photoengine import ~/Pictures/export`)
}
