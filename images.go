package photoengine

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/nfnt/resize"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	maxImageWidth = 2048
	thumbBounds   = 600
	jpegQuality   = 85
	maxUploadSize = 25 << 20 // 25MB
	uploadsSubdir = "uploads"
)

// ErrInvalidImage is returned when an upload cannot be decoded as an image.
var ErrInvalidImage = errors.New("invalid image")

// renditions are the encoded files stored for one photo.
type renditions struct {
	large  []byte
	thumb  []byte
	width  int
	height int
}

// processImage decodes an image from src and encodes a large JPEG rendition
// no wider than maxImageWidth plus a thumbnail fitting thumbBounds.
func processImage(src io.Reader) (renditions, error) {
	img, _, err := image.Decode(src)
	if err != nil {
		return renditions{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}

	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	large := img
	if w > maxImageWidth {
		newH := h * maxImageWidth / w
		dst := image.NewRGBA(image.Rect(0, 0, maxImageWidth, newH))
		draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
		large = dst
		w, h = maxImageWidth, newH
	}

	thumb := resize.Thumbnail(thumbBounds, thumbBounds, img, resize.Lanczos3)

	var largeBuf, thumbBuf bytes.Buffer
	if err := jpeg.Encode(&largeBuf, large, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return renditions{}, fmt.Errorf("encode jpeg: %w", err)
	}
	if err := jpeg.Encode(&thumbBuf, thumb, &jpeg.Options{Quality: jpegQuality}); err != nil {
		return renditions{}, fmt.Errorf("encode thumbnail: %w", err)
	}

	return renditions{
		large:  largeBuf.Bytes(),
		thumb:  thumbBuf.Bytes(),
		width:  w,
		height: h,
	}, nil
}

// newPhotoID returns a full id and the 8-character short id used in URLs.
func newPhotoID() (string, string) {
	id := uuid.NewString()
	return id, strings.ReplaceAll(id, "-", "")[:8]
}

// ImportPhoto processes the image in src, writes its renditions to the
// uploads directory, and saves meta as a new photo. TakenAt defaults to now.
func (a *App) ImportPhoto(ctx context.Context, src io.Reader, meta Photo) (Photo, error) {
	r, err := processImage(src)
	if err != nil {
		return Photo{}, err
	}

	p := meta
	p.ID, p.IDShort = newPhotoID()
	p.Filename = p.ID + ".jpg"
	p.ThumbFilename = p.ID + "-thumb.jpg"
	p.Width, p.Height = r.width, r.height
	if p.TakenAt.IsZero() {
		p.TakenAt = time.Now().UTC()
	}

	dir := filepath.Join(a.staticDir, uploadsSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Photo{}, fmt.Errorf("create uploads dir: %w", err)
	}
	largePath := filepath.Join(dir, p.Filename)
	thumbPath := filepath.Join(dir, p.ThumbFilename)
	if err := os.WriteFile(largePath, r.large, 0o644); err != nil {
		return Photo{}, fmt.Errorf("write image: %w", err)
	}
	if err := os.WriteFile(thumbPath, r.thumb, 0o644); err != nil {
		os.Remove(largePath)
		return Photo{}, fmt.Errorf("write thumbnail: %w", err)
	}

	if err := a.Store.SavePhoto(ctx, p); err != nil {
		os.Remove(largePath)
		os.Remove(thumbPath)
		return Photo{}, err
	}
	a.Cache.Invalidate()
	a.Logger.Info("photo imported", "id", p.ID, "short", p.IDShort, "width", p.Width, "height", p.Height)
	return p, nil
}

// removePhotoFiles deletes a photo's renditions, ignoring files already gone.
func (a *App) removePhotoFiles(p Photo) {
	dir := filepath.Join(a.staticDir, uploadsSubdir)
	for _, name := range []string{p.Filename, p.ThumbFilename} {
		if name == "" {
			continue
		}
		if err := os.Remove(filepath.Join(dir, filepath.Base(name))); err != nil && !os.IsNotExist(err) {
			a.Logger.Warn("remove rendition", "file", name, "err", err)
		}
	}
}

func (a *App) handlePhotoUpload(c echo.Context) error {
	if !IsAdmin(c) {
		return c.Redirect(http.StatusSeeOther, "/admin/")
	}

	file, err := c.FormFile("image")
	if err != nil {
		return c.String(http.StatusBadRequest, "No image file provided")
	}
	if file.Size > maxUploadSize {
		return c.String(http.StatusBadRequest, "File too large (max 25MB)")
	}

	meta, msg := photoFromForm(c)
	if msg != "" {
		return a.renderAdminDashboard(c, msg)
	}

	src, err := file.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	if _, err := a.ImportPhoto(c.Request().Context(), src, meta); err != nil {
		if errors.Is(err, ErrInvalidImage) {
			return c.String(http.StatusBadRequest, "Invalid image: "+err.Error())
		}
		return err
	}
	return a.renderAdminDashboard(c, "uploaded")
}
