// internal/manifest/json.go
package manifest

import (
	"encoding/json"
	"os"
)

// JSONWriter writes the manifest as an indented JSON array.
type JSONWriter struct {
	filename string
	file     *os.File
	records  []Record
}

// NewJSONWriter creates a new JSON manifest writer.
func NewJSONWriter(filename string) (*JSONWriter, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, err
	}
	return &JSONWriter{filename: filename, file: file}, nil
}

// Write buffers records; the file is written on Close so the output is a
// single well-formed array even across multiple Write calls.
func (w *JSONWriter) Write(records []Record) error {
	w.records = append(w.records, records...)
	return nil
}

// Close encodes the buffered records and closes the file.
func (w *JSONWriter) Close() error {
	if w.file == nil {
		return nil
	}
	encoder := json.NewEncoder(w.file)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(w.records)
	closeErr := w.file.Close()
	w.file = nil
	if err != nil {
		return err
	}
	return closeErr
}
