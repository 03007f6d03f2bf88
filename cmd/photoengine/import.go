package main

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync/atomic"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/eringen/photoengine"
	"github.com/eringen/photoengine/views"
)

// maxConcurrentImports bounds how many images are decoded at once.
const maxConcurrentImports = 4

var importExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

func runImport(dir string) error {
	cfg := configFromEnv()
	app := photoengine.New(cfg, views.New(cfg),
		photoengine.WithStaticDir(photoengine.EnvOr("STATIC_DIR", "public")),
	)
	defer app.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.Open(ctx); err != nil {
		return err
	}

	var paths []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if importExts[strings.ToLower(filepath.Ext(path))] {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", dir, err)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no images found in %s", dir)
	}

	var imported, failed atomic.Int64
	var g errgroup.Group
	g.SetLimit(maxConcurrentImports)

	for _, path := range paths {
		path := path
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			p, err := importFile(ctx, app, path)
			if err != nil {
				failed.Add(1)
				app.Logger.Error("import failed", "file", path, "err", err)
				return nil // keep going; failures are reported per file
			}
			imported.Add(1)
			app.Logger.Info("imported", "file", path, "url", p.Link())
			return nil
		})
	}
	_ = g.Wait()

	app.Logger.Info("import finished", "imported", imported.Load(), "failed", failed.Load())
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if failed.Load() > 0 {
		return fmt.Errorf("%d of %d files failed", failed.Load(), len(paths))
	}
	return nil
}

// importFile imports one image, titled after its file name and dated by its
// modification time.
func importFile(ctx context.Context, app *photoengine.App, path string) (photoengine.Photo, error) {
	f, err := os.Open(path)
	if err != nil {
		return photoengine.Photo{}, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return photoengine.Photo{}, err
	}

	return app.ImportPhoto(ctx, f, photoengine.Photo{
		Title:   titleFromFilename(filepath.Base(path)),
		TakenAt: info.ModTime().UTC(),
	})
}

// titleFromFilename turns "golden-gate_at-dusk.jpg" into "Golden Gate At Dusk".
func titleFromFilename(name string) string {
	name = strings.TrimSuffix(name, filepath.Ext(name))
	parts := strings.FieldsFunc(name, func(r rune) bool {
		return r == '-' || r == '_' || r == ' '
	})
	for i, p := range parts {
		if len(p) > 0 {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
