// internal/extract/html_test.go
package extract

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"github.com/valpere/MediaScrapexter/internal/media"
)

func parseHTML(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse HTML: %v", err)
	}
	return doc
}

func TestHTMLExtractorImages(t *testing.T) {
	tests := []struct {
		name     string
		html     string
		expected []string
	}{
		{
			name:     "plain image accepted",
			html:     `<img src="/img/b.png" width="200" height="200">`,
			expected: []string{"/img/b.png"},
		},
		{
			name:     "small image rejected",
			html:     `<img src="//cdn.example.com/a.jpg?x=1" width="10" height="10">`,
			expected: nil,
		},
		{
			name:     "one small dimension rejects",
			html:     `<img src="/wide.jpg" width="600" height="20">`,
			expected: nil,
		},
		{
			name:     "missing dimensions accepted",
			html:     `<img src="/nodims.jpg">`,
			expected: []string{"/nodims.jpg"},
		},
		{
			name:     "unparsable dimensions accepted",
			html:     `<img src="/odd.jpg" width="auto" height="100%">`,
			expected: []string{"/odd.jpg"},
		},
		{
			name:     "px suffix parsed",
			html:     `<img src="/px.jpg" width="30px" height="200px">`,
			expected: nil,
		},
		{
			name:     "lazy load source used",
			html:     `<img data-src="/lazy.jpg">`,
			expected: []string{"/lazy.jpg"},
		},
		{
			name:     "data-original fallback",
			html:     `<img data-original="/orig.jpg">`,
			expected: []string{"/orig.jpg"},
		},
		{
			name:     "src wins over lazy attrs",
			html:     `<img src="/real.jpg" data-src="/lazy.jpg">`,
			expected: []string{"/real.jpg"},
		},
		{
			name:     "no source skipped",
			html:     `<img alt="decorative">`,
			expected: nil,
		},
		{
			name: "junk patterns rejected",
			html: `<img src="/images/thumbnail/a.jpg">
			       <img src="/Icon-large.png">
			       <img src="/user/AVATAR.jpg">
			       <img src="/emoji/smile.png">
			       <img src="/loading.gif">
			       <img src="/content/real.jpg">`,
			expected: []string{"/content/real.jpg"},
		},
	}

	extractor := NewHTMLExtractor(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			candidates := extractor.Extract(parseHTML(t, tt.html))
			if len(candidates) != len(tt.expected) {
				t.Fatalf("got %d candidates, want %d: %+v", len(candidates), len(tt.expected), candidates)
			}
			for i, want := range tt.expected {
				if candidates[i].URL != want {
					t.Errorf("candidates[%d].URL = %q, want %q", i, candidates[i].URL, want)
				}
				if candidates[i].Kind != media.KindImage {
					t.Errorf("candidates[%d].Kind = %q, want image", i, candidates[i].Kind)
				}
			}
		})
	}
}

func TestHTMLExtractorVideos(t *testing.T) {
	html := `
		<video src="/clips/a.mp4"></video>
		<video><source src="/clips/b.webm"></video>
		<video><source data-src="/clips/lazy.mp4"></video>
		<video src="/thumbnail/tiny.mp4" width="10"></video>`

	extractor := NewHTMLExtractor(nil)
	candidates := extractor.Extract(parseHTML(t, html))

	// No size or junk filtering applies to videos, so all four survive.
	var urls []string
	for _, c := range candidates {
		if c.Kind != media.KindVideo {
			t.Errorf("unexpected kind %q for %q", c.Kind, c.URL)
		}
		urls = append(urls, c.URL)
	}
	want := []string{"/clips/a.mp4", "/clips/b.webm", "/clips/lazy.mp4", "/thumbnail/tiny.mp4"}
	if len(urls) != len(want) {
		t.Fatalf("got %v, want %v", urls, want)
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("urls[%d] = %q, want %q", i, urls[i], want[i])
		}
	}
}

func TestHTMLExtractorEndToEndScenario(t *testing.T) {
	// The two scenario cases from the pipeline contract: a tiny protocol-
	// relative image is dropped, a real relative image resolves against the
	// page base.
	html := `
		<html><head><title>Gallery Page</title></head><body>
		<img src="//cdn.example.com/a.jpg?x=1" width="10" height="10">
		<img src="/img/b.png" width="200" height="200">
		</body></html>`

	extractor := NewHTMLExtractor(nil)
	collector := media.NewCollector("https://site.com/page")
	collector.AddAll(extractor.Extract(parseHTML(t, html)))

	items := collector.Items()
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(items), items)
	}
	if items[0].CanonicalURL != "https://site.com/img/b.png" {
		t.Errorf("CanonicalURL = %q, want https://site.com/img/b.png", items[0].CanonicalURL)
	}
	if items[0].Kind != media.KindImage {
		t.Errorf("Kind = %q, want image", items[0].Kind)
	}
}

func TestHTMLExtractorCapturesTitle(t *testing.T) {
	html := `<html><head><title> My Page </title></head><body><img src="/a.jpg"></body></html>`
	candidates := NewHTMLExtractor(nil).Extract(parseHTML(t, html))
	if len(candidates) != 1 {
		t.Fatalf("got %d candidates", len(candidates))
	}
	if candidates[0].SourceTitle != "My Page" {
		t.Errorf("SourceTitle = %q, want %q", candidates[0].SourceTitle, "My Page")
	}
}
