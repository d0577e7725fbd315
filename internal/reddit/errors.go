// internal/reddit/errors.go
package reddit

import (
	"errors"
	"fmt"
)

// Sentinel errors for source states the orchestrator must surface distinctly
// from generic failures. Both are terminal for the affected source only.
var (
	ErrNotFound  = errors.New("source not found")
	ErrForbidden = errors.New("source forbidden")
)

// StatusError wraps an unexpected HTTP status from the listing API.
type StatusError struct {
	URL        string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("reddit API returned HTTP %d for %s", e.StatusCode, e.URL)
}

// IsNotFound reports whether err denotes a missing subreddit or post.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsForbidden reports whether err denotes a private, quarantined or banned
// source.
func IsForbidden(err error) bool {
	return errors.Is(err, ErrForbidden)
}
