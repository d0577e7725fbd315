// internal/extract/charset.go
package extract

import (
	"io"
	"mime"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// DecodeBody wraps body so reads yield UTF-8, using the charset parameter of
// the Content-Type header. Pages without a declared charset, or declaring
// UTF-8, pass through unchanged; unknown charsets also pass through rather
// than failing the whole page.
func DecodeBody(body io.Reader, contentType string) io.Reader {
	name := charsetName(contentType)
	if name == "" || name == "utf-8" {
		return body
	}
	enc, err := htmlindex.Get(name)
	if err != nil || enc == nil {
		return body
	}
	return transform.NewReader(body, enc.NewDecoder())
}

func charsetName(contentType string) string {
	if contentType == "" {
		return ""
	}
	_, params, err := mime.ParseMediaType(contentType)
	if err != nil {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(params["charset"]))
}
