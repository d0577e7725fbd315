// internal/sink/sink.go
package sink

import (
	"context"
	"fmt"

	"github.com/valpere/MediaScrapexter/internal/media"
)

// Mode selects the persistence destination for a run.
type Mode string

const (
	ModeLocal   Mode = "local"
	ModeArchive Mode = "archive"
	ModeRemote  Mode = "remote"
)

// ValidModes returns all supported persistence modes.
func ValidModes() []Mode {
	return []Mode{ModeLocal, ModeArchive, ModeRemote}
}

// IsValid checks if the mode is a known value.
func (m Mode) IsValid() bool {
	for _, valid := range ValidModes() {
		if m == valid {
			return true
		}
	}
	return false
}

// PersistResult is the per-item outcome of handing a retrieved file to a
// sink. Location is the final local path, the archive path, or the remote
// reference depending on the sink.
type PersistResult struct {
	Item      media.Item `json:"item"`
	Location  string     `json:"location,omitempty"`
	Persisted bool       `json:"persisted"`
	Error     string     `json:"error,omitempty"`
}

// Sink persists successfully retrieved items. Implementations must remove
// any scratch file they consume on both success and failure paths so no
// partial files accumulate across runs. Close finalizes the destination and
// must be called exactly once at the end of a run.
type Sink interface {
	Persist(ctx context.Context, result media.RetrievalResult) PersistResult
	Close() error
}

// failure builds a failed PersistResult with a formatted error.
func failure(item media.Item, format string, args ...interface{}) PersistResult {
	return PersistResult{
		Item:  item,
		Error: fmt.Sprintf(format, args...),
	}
}
