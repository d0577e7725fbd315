// internal/media/normalize_test.go
package media

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name        string
		rawURL      string
		baseURL     string
		expected    string
		expectError bool
	}{
		{
			name:     "protocol relative gets https",
			rawURL:   "//cdn.example.com/a.jpg",
			expected: "https://cdn.example.com/a.jpg",
		},
		{
			name:     "query stripped",
			rawURL:   "https://cdn.example.com/a.jpg?x=1&y=2",
			expected: "https://cdn.example.com/a.jpg",
		},
		{
			name:     "protocol relative with query",
			rawURL:   "//cdn.example.com/a.jpg?x=1",
			expected: "https://cdn.example.com/a.jpg",
		},
		{
			name:     "relative resolved against base",
			rawURL:   "/img/b.png",
			baseURL:  "https://site.com/page",
			expected: "https://site.com/img/b.png",
		},
		{
			name:     "relative without leading slash",
			rawURL:   "img/b.png",
			baseURL:  "https://site.com/section/page",
			expected: "https://site.com/section/img/b.png",
		},
		{
			name:     "html entities decoded",
			rawURL:   "https://preview.example.com/x.jpg?a=1&amp;b=2",
			expected: "https://preview.example.com/x.jpg",
		},
		{
			name:     "entity decoded inside path",
			rawURL:   "https://example.com/a&amp;b.jpg",
			expected: "https://example.com/a&b.jpg",
		},
		{
			name:     "reddit video fallback",
			rawURL:   "https://v.redd.it/x/DASH_720.mp4?source=fallback",
			expected: "https://v.redd.it/x/DASH_720.mp4",
		},
		{
			name:     "absolute url untouched",
			rawURL:   "http://example.com/media/clip.webm",
			expected: "http://example.com/media/clip.webm",
		},
		{
			name:        "empty string",
			rawURL:      "",
			expectError: true,
		},
		{
			name:        "whitespace only",
			rawURL:      "   ",
			expectError: true,
		},
		{
			name:        "relative without base",
			rawURL:      "img/a.jpg",
			expectError: true,
		},
		{
			name:        "scheme without host",
			rawURL:      "https://",
			expectError: true,
		},
		{
			name:        "unparseable base",
			rawURL:      "/a.jpg",
			baseURL:     "://bad",
			expectError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.rawURL, tt.baseURL)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got %q", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.expected {
				t.Errorf("Normalize(%q, %q) = %q, want %q", tt.rawURL, tt.baseURL, got, tt.expected)
			}
		})
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{
		"//cdn.example.com/a.jpg?x=1",
		"https://site.com/img/b.png",
		"https://preview.example.com/x.jpg?a=1&amp;b=2",
		"https://v.redd.it/x/DASH_720.mp4?source=fallback",
		"https://example.com/path%2520double.jpg",
		"http://example.com/with%20space.png",
	}

	for _, input := range inputs {
		once, err := Normalize(input, "")
		if err != nil {
			t.Fatalf("Normalize(%q) failed: %v", input, err)
		}
		twice, err := Normalize(once, "")
		if err != nil {
			t.Fatalf("Normalize(Normalize(%q)) failed: %v", input, err)
		}
		if once != twice {
			t.Errorf("not idempotent for %q: first %q, second %q", input, once, twice)
		}
	}
}
