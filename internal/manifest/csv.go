// internal/manifest/csv.go
package manifest

import (
	"encoding/csv"
	"fmt"
	"os"
)

// CSVWriter writes the manifest as CSV with a fixed header row.
type CSVWriter struct {
	filename    string
	file        *os.File
	writer      *csv.Writer
	wroteHeader bool
}

// NewCSVWriter creates a new CSV manifest writer.
func NewCSVWriter(filename string) (*CSVWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &CSVWriter{
		filename: filename,
		file:     file,
		writer:   csv.NewWriter(file),
	}, nil
}

// Write appends records, emitting the header before the first row.
func (w *CSVWriter) Write(records []Record) error {
	if !w.wroteHeader {
		if err := w.writer.Write(columns); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
		w.wroteHeader = true
	}
	for _, record := range records {
		if err := w.writer.Write(record.row()); err != nil {
			return fmt.Errorf("failed to write record: %w", err)
		}
	}
	w.writer.Flush()
	return w.writer.Error()
}

// Close flushes buffered rows and closes the file.
func (w *CSVWriter) Close() error {
	if w.writer != nil {
		w.writer.Flush()
		w.writer = nil
	}
	if w.file != nil {
		err := w.file.Close()
		w.file = nil
		return err
	}
	return nil
}
