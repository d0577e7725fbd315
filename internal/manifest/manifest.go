// internal/manifest/manifest.go

// Package manifest records what a retrieval run did: one row per media item
// with its outcome, plus run-level metadata. Manifests can be written as
// JSON, CSV, XLSX, or a SQLite table.
package manifest

import (
	"fmt"
	"time"
)

// Format identifies a manifest output format.
type Format string

const (
	FormatJSON   Format = "json"
	FormatCSV    Format = "csv"
	FormatXLSX   Format = "xlsx"
	FormatSQLite Format = "sqlite"
)

// ValidFormats returns all supported manifest formats.
func ValidFormats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatXLSX, FormatSQLite}
}

// IsValid checks if the format is a known value.
func (f Format) IsValid() bool {
	for _, valid := range ValidFormats() {
		if f == valid {
			return true
		}
	}
	return false
}

// Record is one manifest row describing the outcome of a single media item.
type Record struct {
	RunID      string    `json:"run_id"`
	URL        string    `json:"url"`
	Kind       string    `json:"kind"`
	Filename   string    `json:"filename"`
	Status     string    `json:"status"`
	StatusCode int       `json:"status_code,omitempty"`
	Bytes      int64     `json:"bytes,omitempty"`
	Location   string    `json:"location,omitempty"`
	Error      string    `json:"error,omitempty"`
	FetchedAt  time.Time `json:"fetched_at"`
}

// columns is the canonical column order shared by the tabular writers.
var columns = []string{
	"run_id", "url", "kind", "filename", "status",
	"status_code", "bytes", "location", "error", "fetched_at",
}

// row flattens a record into the canonical column order.
func (r Record) row() []string {
	return []string{
		r.RunID,
		r.URL,
		r.Kind,
		r.Filename,
		r.Status,
		fmt.Sprintf("%d", r.StatusCode),
		fmt.Sprintf("%d", r.Bytes),
		r.Location,
		r.Error,
		r.FetchedAt.Format(time.RFC3339),
	}
}

// Writer persists manifest records. Close must be called exactly once; for
// file-based writers it finalizes the output file.
type Writer interface {
	Write(records []Record) error
	Close() error
}

// NewWriter returns a writer for the given format targeting path. For SQLite
// the path is the database file; records land in the "media_manifest" table.
func NewWriter(format Format, path string) (Writer, error) {
	switch format {
	case FormatJSON:
		return NewJSONWriter(path)
	case FormatCSV:
		return NewCSVWriter(path)
	case FormatXLSX:
		return NewXLSXWriter(path)
	case FormatSQLite:
		return NewSQLiteWriter(path)
	default:
		return nil, fmt.Errorf("unsupported manifest format: %s", format)
	}
}

// WriteManifest writes all records in one shot and closes the writer.
func WriteManifest(format Format, path string, records []Record) error {
	writer, err := NewWriter(format, path)
	if err != nil {
		return err
	}
	if err := writer.Write(records); err != nil {
		writer.Close()
		return err
	}
	return writer.Close()
}
