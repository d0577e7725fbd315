// internal/sink/local.go
package sink

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/valpere/MediaScrapexter/internal/media"
)

// LocalSink keeps retrieved files in a run-scoped directory on disk. When a
// retrieved file is already inside the destination directory (the usual case,
// since retrieval stages into the session directory) persisting is a no-op;
// otherwise the file is moved in.
type LocalSink struct {
	dir    string
	logger *zap.Logger
}

// NewLocalSink creates a sink rooted at dir, creating it if needed.
func NewLocalSink(dir string, logger *zap.Logger) (*LocalSink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &LocalSink{dir: dir, logger: logger}, nil
}

// Persist moves the retrieved file into the destination directory.
func (s *LocalSink) Persist(_ context.Context, result media.RetrievalResult) PersistResult {
	if !result.Succeeded() {
		return failure(result.Item, "cannot persist item with status %s", result.Status)
	}

	dest := filepath.Join(s.dir, filepath.Base(result.LocalPath))
	if sameFile(result.LocalPath, dest) {
		return PersistResult{Item: result.Item, Location: dest, Persisted: true}
	}

	if err := moveFile(result.LocalPath, dest); err != nil {
		os.Remove(result.LocalPath)
		return failure(result.Item, "failed to move %s: %v", result.LocalPath, err)
	}

	s.logger.Debug("persisted file", zap.String("path", dest))
	return PersistResult{Item: result.Item, Location: dest, Persisted: true}
}

// Close is a no-op: local files are final as soon as they are persisted.
func (s *LocalSink) Close() error {
	return nil
}

// Dir returns the destination directory.
func (s *LocalSink) Dir() string {
	return s.dir
}

func sameFile(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}

// moveFile renames src to dest, falling back to copy-and-delete across
// filesystems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
