package photoengine

import (
	"strings"
	"time"
)

// Photo is the core content type stored in the database and rendered by templates.
type Photo struct {
	ID      string
	IDShort string

	Title   string
	Caption string
	Tags    []string

	Make      string
	Model     string
	LensModel string

	FocalLength  int // millimetres
	FNumber      float64
	ISO          int
	ExposureTime string // e.g. "1/250"

	Filename      string // large rendition under the uploads dir
	ThumbFilename string
	Width         int
	Height        int

	TakenAt   time.Time
	Hidden    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Link is the site-relative URL of the photo's detail page.
func (p Photo) Link() string {
	return "/p/" + p.IDShort + "/"
}

// ImagePath is the site-relative URL of the large rendition.
func (p Photo) ImagePath() string {
	return "/public/" + uploadsSubdir + "/" + p.Filename
}

// ThumbPath is the site-relative URL of the thumbnail, falling back to the
// large rendition for photos imported without one.
func (p Photo) ThumbPath() string {
	if p.ThumbFilename == "" {
		return p.ImagePath()
	}
	return "/public/" + uploadsSubdir + "/" + p.ThumbFilename
}

// AspectRatio returns width/height, or 1 when dimensions are unknown.
func (p Photo) AspectRatio() float64 {
	if p.Width <= 0 || p.Height <= 0 {
		return 1
	}
	return float64(p.Width) / float64(p.Height)
}

// Camera returns the camera the photo was shot on.
func (p Photo) Camera() Camera {
	return Camera{Make: p.Make, Model: p.Model}
}

// Camera identifies a camera body by make and model.
type Camera struct {
	Make  string
	Model string
}

// IsZero reports whether neither make nor model is set.
func (c Camera) IsZero() bool {
	return strings.TrimSpace(c.Make) == "" && strings.TrimSpace(c.Model) == ""
}

// Key is the URL slug used by /shot-on/:camera/ and the grid camera filter.
func (c Camera) Key() string {
	return Slugify(c.Make + " " + c.Model)
}

// Display returns a human readable camera name. The make is dropped when the
// model already starts with it ("Canon" + "Canon EOS R5").
func (c Camera) Display() string {
	mk, model := strings.TrimSpace(c.Make), strings.TrimSpace(c.Model)
	if mk == "" {
		return model
	}
	if model == "" {
		return mk
	}
	if strings.HasPrefix(strings.ToLower(model), strings.ToLower(mk)) {
		return model
	}
	return mk + " " + model
}

// CameraCount is a camera together with the number of visible photos shot on it.
type CameraCount struct {
	Camera Camera
	Count  int
}

// PageMeta carries per-page OpenGraph and SEO metadata into the <head> template.
type PageMeta struct {
	Title       string
	Description string
	URL         string // canonical + og:url
	OGType      string // "website" or "article"
	Image       string // absolute og:image URL, optional
}
