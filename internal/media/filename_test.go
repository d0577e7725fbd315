// internal/media/filename_test.go
package media

import (
	"strings"
	"testing"
)

func TestSequenceFilename(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		index    int
		url      string
		expected string
	}{
		{"image with extension", KindImage, 1, "https://cdn.example.com/a.jpg", "image_1.jpg"},
		{"video with extension", KindVideo, 3, "https://v.redd.it/x/DASH_720.mp4", "video_3.mp4"},
		{"image without extension", KindImage, 2, "https://cdn.example.com/media/raw", "image_2.jpg"},
		{"video without extension", KindVideo, 7, "https://v.redd.it/abc123", "video_7.mp4"},
		{"webp preserved", KindImage, 4, "https://i.example.com/pic.webp", "image_4.webp"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SequenceFilename(tt.kind, tt.index, tt.url); got != tt.expected {
				t.Errorf("SequenceFilename = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestTitleFilename(t *testing.T) {
	got := TitleFilename("Hello, World! Photo #1", "https://cdn.example.com/a.jpg")
	if !strings.HasPrefix(got, "Hello__World__Photo__1_") {
		t.Errorf("sanitized prefix wrong: %q", got)
	}
	if !strings.HasSuffix(got, ".jpg") {
		t.Errorf("extension wrong: %q", got)
	}

	// hash portion is 8 hex chars between the final underscore and extension
	trimmed := strings.TrimSuffix(got, ".jpg")
	hash := trimmed[strings.LastIndex(trimmed, "_")+1:]
	if len(hash) != 8 {
		t.Errorf("hash length = %d, want 8 (%q)", len(hash), got)
	}

	// deterministic
	if again := TitleFilename("Hello, World! Photo #1", "https://cdn.example.com/a.jpg"); again != got {
		t.Errorf("not deterministic: %q vs %q", got, again)
	}
}

func TestTitleFilenameTruncation(t *testing.T) {
	long := strings.Repeat("a", 80)
	got := TitleFilename(long, "https://cdn.example.com/b.png")
	prefix := got[:strings.LastIndex(got, "_")]
	if len(prefix) != 50 {
		t.Errorf("title prefix length = %d, want 50", len(prefix))
	}
}

func TestExtensionOf(t *testing.T) {
	tests := []struct {
		url      string
		expected string
	}{
		{"https://a.com/x.jpg", ".jpg"},
		{"https://a.com/x.jpg?y=1", ".jpg"},
		{"https://a.com/x", ""},
		{"https://a.com/dir.d/x", ""},
	}
	for _, tt := range tests {
		if got := ExtensionOf(tt.url); got != tt.expected {
			t.Errorf("ExtensionOf(%q) = %q, want %q", tt.url, got, tt.expected)
		}
	}
}
