// internal/extract/html.go
package extract

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/valpere/MediaScrapexter/internal/media"
)

// minImageDimension rejects declared thumbnail-sized images. Images with no
// parseable dimensions are never rejected on size.
const minImageDimension = 50

// junkPatterns mark decorative, non-content image sources. Matching is
// case-insensitive substring matching on the raw source attribute.
var junkPatterns = []string{"thumbnail", "icon", "avatar", "emoji", "loading"}

// imageSourceAttrs are probed in order; the first non-empty wins. Lazy-load
// variants carry the real source on pages that defer image loading.
var imageSourceAttrs = []string{"src", "data-src", "data-original"}

// HTMLExtractor scans parsed markup for image and video candidates. It is a
// heuristic filter over noisy markup: missed media and the odd decorative
// image slipping through are acceptable, but the filter rules themselves are
// exact.
type HTMLExtractor struct {
	logger *zap.Logger
}

// NewHTMLExtractor creates an HTML media extractor.
func NewHTMLExtractor(logger *zap.Logger) *HTMLExtractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTMLExtractor{logger: logger}
}

// Extract returns media candidates discovered in the document, in document
// order: images first, then video/source elements. Candidate URLs are left in
// raw form; the collector normalizes them against the page base URL.
func (e *HTMLExtractor) Extract(doc *goquery.Document) []media.Candidate {
	var candidates []media.Candidate

	title := strings.TrimSpace(doc.Find("title").First().Text())

	doc.Find("img").Each(func(_ int, sel *goquery.Selection) {
		src := firstAttr(sel, imageSourceAttrs)
		if src == "" {
			return
		}
		if tooSmall(sel) {
			return
		}
		if isJunkSource(src) {
			e.logger.Debug("rejected junk image source", zap.String("src", src))
			return
		}
		candidates = append(candidates, media.Candidate{
			Kind:        media.KindImage,
			URL:         src,
			SourceTitle: title,
		})
	})

	// Videos carry no size or junk filtering.
	doc.Find("video, source").Each(func(_ int, sel *goquery.Selection) {
		src := firstAttr(sel, []string{"src", "data-src"})
		if src == "" {
			return
		}
		candidates = append(candidates, media.Candidate{
			Kind:        media.KindVideo,
			URL:         src,
			SourceTitle: title,
		})
	})

	return candidates
}

// firstAttr returns the first non-empty attribute among attrs.
func firstAttr(sel *goquery.Selection, attrs []string) string {
	for _, attr := range attrs {
		if value, ok := sel.Attr(attr); ok {
			if value = strings.TrimSpace(value); value != "" {
				return value
			}
		}
	}
	return ""
}

// tooSmall reports whether a declared dimension parses below the minimum.
// Absent or unparsable dimensions never reject.
func tooSmall(sel *goquery.Selection) bool {
	for _, attr := range []string{"width", "height"} {
		raw, ok := sel.Attr(attr)
		if !ok {
			continue
		}
		value, err := parseDimension(raw)
		if err != nil {
			continue
		}
		if value < minImageDimension {
			return true
		}
	}
	return false
}

// parseDimension parses a declared width/height, tolerating a trailing unit
// suffix ("100px").
func parseDimension(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	raw = strings.TrimSuffix(raw, "px")
	return strconv.Atoi(strings.TrimSpace(raw))
}

// isJunkSource reports whether the raw source matches a junk pattern.
func isJunkSource(src string) bool {
	lower := strings.ToLower(src)
	for _, pattern := range junkPatterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
