package photoengine

import (
	"context"
	"encoding/json"
	"testing"
	"time"
)

func TestTitleForPhoto(t *testing.T) {
	if got := TitleForPhoto(Photo{Title: "  Pier  "}); got != "Pier" {
		t.Errorf("TitleForPhoto = %q, want Pier", got)
	}
	if got := TitleForPhoto(Photo{}); got != "Untitled" {
		t.Errorf("TitleForPhoto(empty) = %q, want Untitled", got)
	}
}

func TestExposureText(t *testing.T) {
	tests := []struct {
		photo Photo
		want  string
	}{
		{Photo{FocalLength: 35, FNumber: 2, ExposureTime: "1/250", ISO: 400}, "35mm ƒ/2 1/250s ISO 400"},
		{Photo{FNumber: 1.4}, "ƒ/1.4"},
		{Photo{}, ""},
	}
	for _, tt := range tests {
		if got := ExposureText(tt.photo); got != tt.want {
			t.Errorf("ExposureText(%+v) = %q, want %q", tt.photo, got, tt.want)
		}
	}
}

func TestOGImageDescriptionForPhoto(t *testing.T) {
	taken := time.Date(2024, 3, 12, 18, 4, 0, 0, time.UTC)
	p := Photo{Make: "FUJIFILM", Model: "X100V", FocalLength: 23, TakenAt: taken}
	want := "FUJIFILM X100V · 23mm · 12 MAR 2024 18:04"
	if got := OGImageDescriptionForPhoto(p); got != want {
		t.Errorf("OGImageDescriptionForPhoto = %q, want %q", got, want)
	}

	p.Caption = "Evening ferry"
	if got := OGImageDescriptionForPhoto(p); got != "Evening ferry" {
		t.Errorf("caption should win, got %q", got)
	}
}

func TestMetadataForPhoto(t *testing.T) {
	cfg := SiteConfig{URL: "https://photos.example.com/"}
	p := Photo{ID: "full-id", IDShort: "abc123", Title: "Pier", Filename: "full-id.jpg"}
	m := MetadataForPhoto(cfg, p)

	if m.Title != "Pier" {
		t.Fatalf("Title = %q", m.Title)
	}
	if m.OpenGraph.URL != "https://photos.example.com/p/abc123" {
		t.Fatalf("og url = %q", m.OpenGraph.URL)
	}
	wantImage := "https://photos.example.com/public/uploads/full-id.jpg"
	if len(m.OpenGraph.Images) != 1 || m.OpenGraph.Images[0] != wantImage {
		t.Fatalf("og images = %v", m.OpenGraph.Images)
	}
	if m.Twitter.Card != "summary_large_image" || m.Twitter.Images[0] != wantImage {
		t.Fatalf("twitter = %+v", m.Twitter)
	}
	if m.OpenGraph.Description != m.Description || m.Twitter.Title != m.Title {
		t.Fatalf("social cards disagree with page metadata")
	}
}

func TestResolveMetadataMissingPhoto(t *testing.T) {
	m, err := ResolveMetadata(context.Background(), &fakeFetcher{}, SiteConfig{}, "nope")
	if err != nil {
		t.Fatalf("ResolveMetadata: %v", err)
	}
	if !m.IsZero() {
		t.Fatalf("expected zero metadata, got %+v", m)
	}
	b, _ := json.Marshal(m)
	if string(b) != "{}" {
		t.Fatalf("zero metadata marshals to %s, want {}", b)
	}
}

func TestResolveMetadataByShortID(t *testing.T) {
	f := &fakeFetcher{feed: makeFeed(2)}
	m, err := ResolveMetadata(context.Background(), f, SiteConfig{URL: "https://x.example"}, "p01")
	if err != nil {
		t.Fatalf("ResolveMetadata: %v", err)
	}
	if m.Title != "Photo 1" || m.OpenGraph == nil {
		t.Fatalf("unexpected metadata %+v", m)
	}
}

func TestCameraDisplayAndKey(t *testing.T) {
	tests := []struct {
		cam     Camera
		display string
		key     string
	}{
		{Camera{Make: "Canon", Model: "Canon EOS R5"}, "Canon EOS R5", "canon-canon-eos-r5"},
		{Camera{Make: "FUJIFILM", Model: "X100V"}, "FUJIFILM X100V", "fujifilm-x100v"},
		{Camera{Model: "iPhone 15 Pro"}, "iPhone 15 Pro", "iphone-15-pro"},
		{Camera{}, "", ""},
	}
	for _, tt := range tests {
		if got := tt.cam.Display(); got != tt.display {
			t.Errorf("Display(%+v) = %q, want %q", tt.cam, got, tt.display)
		}
		if got := tt.cam.Key(); got != tt.key {
			t.Errorf("Key(%+v) = %q, want %q", tt.cam, got, tt.key)
		}
	}
}
