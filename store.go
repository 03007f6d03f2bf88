package photoengine

import (
	"context"
	"errors"
	"strings"
)

// ErrNotFound is returned when a requested photo does not exist.
var ErrNotFound = errors.New("photo not found")

// PhotoQuery selects a page of photos in feed order (newest first).
type PhotoQuery struct {
	Limit         int
	Offset        int
	Camera        string // Camera.Key(); empty means all cameras
	IncludeHidden bool
}

// PhotoFetcher is the read surface the photo detail page needs.
type PhotoFetcher interface {
	// GetPhoto returns a photo by full or short id, or ErrNotFound.
	GetPhoto(ctx context.Context, id string) (Photo, error)

	// GetPhotosTakenBeforePhoto returns up to limit visible photos that
	// precede photo in the feed, nearest first.
	GetPhotosTakenBeforePhoto(ctx context.Context, photo Photo, limit int) ([]Photo, error)

	// GetPhotosTakenAfterPhotoInclusive returns photo followed by up to
	// limit-1 visible photos that follow it in the feed.
	GetPhotosTakenAfterPhotoInclusive(ctx context.Context, photo Photo, limit int) ([]Photo, error)
}

// PhotoStore is implemented by the SQLite and Postgres stores.
type PhotoStore interface {
	PhotoFetcher

	// GetPhotos returns a page of photos in feed order.
	GetPhotos(ctx context.Context, q PhotoQuery) ([]Photo, error)

	// CountPhotos counts visible photos, optionally for one camera key.
	CountPhotos(ctx context.Context, camera string) (int, error)

	// ListCameras returns cameras of visible photos, most used first.
	ListCameras(ctx context.Context) ([]CameraCount, error)

	// SavePhoto upserts a photo by id.
	SavePhoto(ctx context.Context, p Photo) error

	// DeletePhoto removes a photo by id. Missing ids are not an error.
	DeletePhoto(ctx context.Context, id string) error

	Close() error
}

// photoColumns is shared by both stores so scan order stays in one place.
const photoColumns = `id, id_short, title, caption, tags, make, model, lens_model,
	focal_length, f_number, iso, exposure_time, filename, thumb_filename,
	width, height, taken_at, hidden, created_at, updated_at`

// NormalizeTags lowercases and trims tags, dropping empties and duplicates.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ParseTags splits a comma-delimited tag string, either the ",street,night,"
// column format or admin input like "Street, night", into normalized tags.
func ParseTags(tagString string) []string {
	return NormalizeTags(strings.Split(tagString, ","))
}

// FormatTags renders tags for display and form input, e.g. "street, night".
func FormatTags(tags []string) string {
	return strings.Join(tags, ", ")
}

// joinTags stores tags in the ",a,b," column format.
func joinTags(tags []string) string {
	normalized := NormalizeTags(tags)
	if len(normalized) == 0 {
		return ""
	}
	return "," + strings.Join(normalized, ",") + ","
}
