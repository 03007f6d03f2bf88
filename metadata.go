package photoengine

import (
	"context"
	"errors"
	"net/url"
	"path"
	"strconv"
	"strings"
)

// Metadata is the <head> contract of a page: title, description and the
// social preview cards. The zero value renders no page-specific tags.
type Metadata struct {
	Title       string       `json:"title,omitempty"`
	Description string       `json:"description,omitempty"`
	OpenGraph   *OpenGraph   `json:"openGraph,omitempty"`
	Twitter     *TwitterCard `json:"twitter,omitempty"`
}

// OpenGraph holds og:* properties.
type OpenGraph struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	URL         string   `json:"url"`
}

// TwitterCard holds twitter:* properties.
type TwitterCard struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
	Card        string   `json:"card"`
}

// IsZero reports whether m carries no metadata at all.
func (m Metadata) IsZero() bool {
	return m.Title == "" && m.Description == "" && m.OpenGraph == nil && m.Twitter == nil
}

// TitleForPhoto returns the display title, "Untitled" when none was set.
func TitleForPhoto(p Photo) string {
	if t := strings.TrimSpace(p.Title); t != "" {
		return t
	}
	return "Untitled"
}

// DescriptionForPhoto is the upper-cased capture date, e.g. "12 MAR 2024 18:04".
func DescriptionForPhoto(p Photo) string {
	if p.TakenAt.IsZero() {
		return ""
	}
	return strings.ToUpper(p.TakenAt.Format("02 Jan 2006 15:04"))
}

// ExposureText formats the exposure fields that are set,
// e.g. "35mm ƒ/2 1/250s ISO 400".
func ExposureText(p Photo) string {
	var parts []string
	if p.FocalLength > 0 {
		parts = append(parts, strconv.Itoa(p.FocalLength)+"mm")
	}
	if p.FNumber > 0 {
		parts = append(parts, "ƒ/"+strconv.FormatFloat(p.FNumber, 'f', -1, 64))
	}
	if p.ExposureTime != "" {
		parts = append(parts, p.ExposureTime+"s")
	}
	if p.ISO > 0 {
		parts = append(parts, "ISO "+strconv.Itoa(p.ISO))
	}
	return strings.Join(parts, " ")
}

// OGImageDescriptionForPhoto returns the caption when present, otherwise a
// line built from camera, exposure and capture date.
func OGImageDescriptionForPhoto(p Photo) string {
	if c := strings.TrimSpace(p.Caption); c != "" {
		return c
	}
	var parts []string
	if cam := p.Camera().Display(); cam != "" {
		parts = append(parts, cam)
	}
	if exp := ExposureText(p); exp != "" {
		parts = append(parts, exp)
	}
	if d := DescriptionForPhoto(p); d != "" {
		parts = append(parts, d)
	}
	return strings.Join(parts, " · ")
}

// AbsoluteURL joins a base URL with a site-relative path without adding a
// trailing slash, for file URLs.
func AbsoluteURL(base, p string) string {
	u, err := url.Parse(base)
	if err != nil {
		return base + p
	}
	u.Path = path.Join(u.Path, p)
	return u.String()
}

// AbsoluteRouteForPhotoImage returns the absolute URLs used as preview images.
func AbsoluteRouteForPhotoImage(cfg SiteConfig, p Photo) []string {
	return []string{AbsoluteURL(cfg.URL, p.ImagePath())}
}

// AbsoluteRouteForPhoto returns the shareable absolute URL of a photo page.
func AbsoluteRouteForPhoto(cfg SiteConfig, p Photo) string {
	return AbsoluteURL(cfg.URL, "/p/"+p.IDShort)
}

// MetadataForPhoto derives the page and social preview metadata of a photo.
func MetadataForPhoto(cfg SiteConfig, p Photo) Metadata {
	title := TitleForPhoto(p)
	description := OGImageDescriptionForPhoto(p)
	images := AbsoluteRouteForPhotoImage(cfg, p)
	return Metadata{
		Title:       title,
		Description: description,
		OpenGraph: &OpenGraph{
			Title:       title,
			Description: description,
			Images:      images,
			URL:         AbsoluteRouteForPhoto(cfg, p),
		},
		Twitter: &TwitterCard{
			Title:       title,
			Description: description,
			Images:      images,
			Card:        "summary_large_image",
		},
	}
}

// ResolveMetadata fetches photoID and returns its metadata. A missing photo
// yields the zero Metadata and no error; the page handler redirects separately.
func ResolveMetadata(ctx context.Context, f PhotoFetcher, cfg SiteConfig, photoID string) (Metadata, error) {
	p, err := f.GetPhoto(ctx, photoID)
	if errors.Is(err, ErrNotFound) {
		return Metadata{}, nil
	}
	if err != nil {
		return Metadata{}, err
	}
	return MetadataForPhoto(cfg, p), nil
}
