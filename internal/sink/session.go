// internal/sink/session.go
package sink

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// sessionTimestampLayout names run directories the way the scraper always
// has, so runs sort chronologically on disk.
const sessionTimestampLayout = "20060102_150405"

// Session is the process-scoped state of one pipeline run: a timestamped
// scratch directory exclusive to the run. Concurrent runs get distinct
// directories and never collide.
type Session struct {
	ID        string
	Dir       string
	CreatedAt time.Time
}

// NewSession creates the run directory under baseDir.
func NewSession(baseDir string) (*Session, error) {
	if baseDir == "" {
		baseDir = "downloads"
	}
	now := time.Now()
	dir := filepath.Join(baseDir, now.Format(sessionTimestampLayout))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create run directory %s: %w", dir, err)
	}
	return &Session{
		ID:        uuid.NewString(),
		Dir:       dir,
		CreatedAt: now,
	}, nil
}

// ScratchPath returns the run-scoped path for a filename.
func (s *Session) ScratchPath(filename string) string {
	return filepath.Join(s.Dir, filename)
}

// Cleanup removes the run directory and everything in it. Used by archive
// and remote runs, where the directory is pure scratch space; local runs
// keep the directory as their destination.
func (s *Session) Cleanup() error {
	if s.Dir == "" {
		return nil
	}
	if err := os.RemoveAll(s.Dir); err != nil {
		return fmt.Errorf("failed to remove run directory %s: %w", s.Dir, err)
	}
	return nil
}
