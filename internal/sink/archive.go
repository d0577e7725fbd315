// internal/sink/archive.go
package sink

import (
	"archive/zip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/valpere/MediaScrapexter/internal/media"
)

// ArchiveSink bundles retrieved files into a single zip archive. Each scratch
// file is deleted as soon as it has been written into the archive, so a
// finished run leaves only the archive behind.
type ArchiveSink struct {
	path   string
	file   *os.File
	writer *zip.Writer
	count  int
	logger *zap.Logger
}

// NewArchiveSink creates the archive file at path, creating parent
// directories as needed.
func NewArchiveSink(path string, logger *zap.Logger) (*ArchiveSink, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create archive directory: %w", err)
		}
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create archive %s: %w", path, err)
	}
	return &ArchiveSink{
		path:   path,
		file:   file,
		writer: zip.NewWriter(file),
		logger: logger,
	}, nil
}

// Persist copies the retrieved file into the archive and removes the scratch
// file, on failure as well as success.
func (s *ArchiveSink) Persist(_ context.Context, result media.RetrievalResult) PersistResult {
	if !result.Succeeded() {
		return failure(result.Item, "cannot persist item with status %s", result.Status)
	}
	defer os.Remove(result.LocalPath)

	entry, err := s.writer.Create(filepath.Base(result.LocalPath))
	if err != nil {
		return failure(result.Item, "failed to create archive entry: %v", err)
	}

	file, err := os.Open(result.LocalPath)
	if err != nil {
		return failure(result.Item, "failed to open %s: %v", result.LocalPath, err)
	}
	defer file.Close()

	if _, err := io.Copy(entry, file); err != nil {
		return failure(result.Item, "failed to write archive entry: %v", err)
	}

	s.count++
	s.logger.Debug("bundled file",
		zap.String("archive", s.path),
		zap.String("entry", filepath.Base(result.LocalPath)))
	return PersistResult{Item: result.Item, Location: s.path, Persisted: true}
}

// Close finalizes the zip central directory and closes the archive file.
func (s *ArchiveSink) Close() error {
	if err := s.writer.Close(); err != nil {
		s.file.Close()
		return fmt.Errorf("failed to finalize archive: %w", err)
	}
	return s.file.Close()
}

// Count returns the number of files bundled so far.
func (s *ArchiveSink) Count() int {
	return s.count
}
