// internal/media/filename.go
package media

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/url"
	"path"
	"regexp"
)

const (
	// maxTitleLength caps the sanitized-title prefix of generated filenames.
	maxTitleLength = 50
	// urlHashLength is the number of hex characters of the URL hash kept in
	// title-based filenames.
	urlHashLength = 8
)

var nonWordChars = regexp.MustCompile(`\W`)

// ExtensionOf returns the file extension of a URL's path, including the
// leading dot, or the empty string when the path has none. The query string
// is never considered part of the extension.
func ExtensionOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return path.Ext(rawURL)
	}
	return path.Ext(u.Path)
}

// SequenceFilename produces the `{kind}_{index}{ext}` name used by the local
// sink, falling back to the kind's default extension when the URL has none.
func SequenceFilename(kind Kind, index int, rawURL string) string {
	ext := ExtensionOf(rawURL)
	if ext == "" {
		ext = kind.DefaultExtension()
	}
	return fmt.Sprintf("%s_%d%s", kind, index, ext)
}

// TitleFilename produces the `{safe_title}_{hash}{ext}` name used when a
// source title is available: the title with every non-word character replaced
// by an underscore, truncated to 50 characters, followed by the first 8 hex
// characters of the URL's MD5.
func TitleFilename(title, rawURL string) string {
	safe := nonWordChars.ReplaceAllString(title, "_")
	if len(safe) > maxTitleLength {
		safe = safe[:maxTitleLength]
	}
	ext := ExtensionOf(rawURL)
	return fmt.Sprintf("%s_%s%s", safe, HashURL(rawURL)[:urlHashLength], ext)
}

// HashURL returns the hex MD5 of a URL, used for stable short identifiers in
// generated filenames.
func HashURL(rawURL string) string {
	sum := md5.Sum([]byte(rawURL))
	return hex.EncodeToString(sum[:])
}
