// internal/media/normalize.go
package media

import (
	"fmt"
	"html"
	"net/url"
	"strings"
)

// maxDecodePasses bounds repeated percent-decoding of double-encoded URLs.
const maxDecodePasses = 3

// Normalize canonicalizes a discovered media reference into an absolute,
// query-stripped, entity-decoded URL. The rules are applied in order:
//
//  1. protocol-relative references ("//host/...") get an https scheme
//  2. references without a scheme are resolved against baseURL
//  3. HTML entities and double-encoded percent escapes are decoded
//  4. the query component is stripped
//
// No network access occurs. Malformed input (empty string, unparseable URL,
// relative reference without a usable base) returns an error and the caller
// is expected to skip the candidate.
func Normalize(rawURL, baseURL string) (string, error) {
	s := strings.TrimSpace(rawURL)
	if s == "" {
		return "", fmt.Errorf("empty URL")
	}

	if strings.HasPrefix(s, "//") {
		s = "https:" + s
	}

	s = html.UnescapeString(s)

	u, err := url.Parse(s)
	if err != nil {
		return "", fmt.Errorf("unparseable URL %q: %w", rawURL, err)
	}

	if !u.IsAbs() {
		if baseURL == "" {
			return "", fmt.Errorf("relative URL %q without base", rawURL)
		}
		base, err := url.Parse(baseURL)
		if err != nil || !base.IsAbs() {
			return "", fmt.Errorf("cannot resolve %q against base %q", rawURL, baseURL)
		}
		u = base.ResolveReference(u)
	}

	// Percent-decode until stable so double-encoded reserved characters
	// collapse to their literal form. Invalid escapes end the loop with the
	// last good value.
	decoded := u.String()
	for i := 0; i < maxDecodePasses; i++ {
		next, err := url.PathUnescape(decoded)
		if err != nil || next == decoded {
			break
		}
		decoded = next
	}

	u, err = url.Parse(decoded)
	if err != nil {
		return "", fmt.Errorf("URL %q corrupted by decoding: %w", rawURL, err)
	}

	if (u.Scheme == "http" || u.Scheme == "https") && u.Host == "" {
		return "", fmt.Errorf("URL %q has no host", rawURL)
	}

	u.RawQuery = ""
	u.Fragment = ""

	return u.String(), nil
}
