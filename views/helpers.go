package views

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/eringen/photoengine"
)

// PathEscape wraps url.PathEscape for use in component markup.
func PathEscape(s string) string {
	return url.PathEscape(s)
}

// CameraLink returns the /shot-on/ page of a camera.
func CameraLink(c photoengine.Camera) string {
	return "/shot-on/" + PathEscape(c.Key()) + "/"
}

// NavClass returns CSS classes for a camera nav entry, with active variant.
func NavClass(active bool) string {
	if active {
		return "camera active"
	}
	return "camera"
}

// gridClass returns the grid container classes for the animation flags.
func gridClass(props photoengine.GridProps) string {
	classes := []string{"photo-grid"}
	if props.AnimateOnFirstLoadOnly {
		classes = append(classes, "animate")
	}
	if props.StaggerOnFirstLoadOnly {
		classes = append(classes, "stagger")
	}
	return strings.Join(classes, " ")
}

// moreID derives the DOM id of the placeholder the next grid page replaces.
func moreID(nextURL string) string {
	return "more-" + photoengine.Slugify(nextURL)
}

// formatTakenAt renders a capture time for the admin table and captions.
func formatTakenAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}

// formatInputTime renders t for a datetime-local input.
func formatInputTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format("2006-01-02T15:04")
}

func itoa(n int) string {
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}

func ftoa(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
