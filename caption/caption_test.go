package caption

import (
	"bytes"
	"context"
	"strings"
	"testing"
)

func TestFormatInlineEmphasis(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"*italic*", "<em>italic</em>"},
		{"fog over **the bay** at *dawn*", "fog over <strong>the bay</strong> at <em>dawn</em>"},
		{"**bold *italic* text**", "<strong>bold <em>italic</em> text</strong>"},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestFormatInlineEscapesHTML(t *testing.T) {
	got := FormatInline(`<script>alert("x")</script>`)
	if strings.Contains(got, "<script>") {
		t.Fatalf("FormatInline left markup unescaped: %q", got)
	}
}

func TestFormatInlineLinks(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{
			"[print shop](https://example.com/prints_and_more)",
			`<a href="https://example.com/prints_and_more">print shop</a>`,
		},
		{
			"see [map](https://maps.example.com)^ here",
			`see <a href="https://maps.example.com" target="_blank" rel="noopener noreferrer">map</a> here`,
		},
		{
			"[series](/shot-on/fujifilm-x100v/)",
			`<a href="/shot-on/fujifilm-x100v/">series</a>`,
		},
		{
			"[bad](javascript:void)",
			"bad",
		},
	}
	for _, tt := range tests {
		got := FormatInline(tt.input)
		if got != tt.expected {
			t.Errorf("FormatInline(%q)\n  got:  %q\n  want: %q", tt.input, got, tt.expected)
		}
	}
}

func TestSafeURLRejectsProtocolRelative(t *testing.T) {
	if got := SafeURL("//evil.example.com/x"); got != "" {
		t.Fatalf("SafeURL returned %q, want empty", got)
	}
}

func TestRenderParagraphs(t *testing.T) {
	got := Render("first line\nsecond line\n\n\nnext *paragraph*")
	want := "<p>first line<br>second line</p><p>next <em>paragraph</em></p>"
	if got != want {
		t.Fatalf("Render = %q, want %q", got, want)
	}
	if Render("  \n\n ") != "" {
		t.Fatalf("expected blank caption to render nothing")
	}
}

func TestCaptionComponent(t *testing.T) {
	var buf bytes.Buffer
	if err := Caption("**hi**").Render(context.Background(), &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if buf.String() != "<p><strong>hi</strong></p>" {
		t.Fatalf("unexpected output %q", buf.String())
	}
}
