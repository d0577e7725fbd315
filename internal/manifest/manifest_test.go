// internal/manifest/manifest_test.go
package manifest

import (
	"database/sql"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

func sampleRecords() []Record {
	fetched := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []Record{
		{
			RunID:     "run-1",
			URL:       "https://cdn.example.com/a.jpg",
			Kind:      "image",
			Filename:  "image_1.jpg",
			Status:    "success",
			Bytes:     2048,
			Location:  "/downloads/image_1.jpg",
			FetchedAt: fetched,
		},
		{
			RunID:      "run-1",
			URL:        "https://cdn.example.com/gone.mp4",
			Kind:       "video",
			Filename:   "video_1.mp4",
			Status:     "http_error",
			StatusCode: 404,
			Error:      "HTTP 404",
			FetchedAt:  fetched,
		},
	}
}

func TestFormatIsValid(t *testing.T) {
	for _, format := range ValidFormats() {
		if !format.IsValid() {
			t.Errorf("format %q should be valid", format)
		}
	}
	if Format("pdf").IsValid() {
		t.Error("unknown format should be invalid")
	}
}

func TestNewWriterUnknownFormat(t *testing.T) {
	if _, err := NewWriter(Format("pdf"), "x"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestJSONManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.json")
	if err := WriteManifest(FormatJSON, path, sampleRecords()); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read manifest: %v", err)
	}
	var decoded []Record
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("decode manifest: %v", err)
	}
	if len(decoded) != 2 {
		t.Fatalf("decoded %d records, want 2", len(decoded))
	}
	if decoded[0].URL != "https://cdn.example.com/a.jpg" {
		t.Errorf("first URL = %q", decoded[0].URL)
	}
	if decoded[1].StatusCode != 404 {
		t.Errorf("second StatusCode = %d, want 404", decoded[1].StatusCode)
	}
}

func TestCSVManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.csv")
	if err := WriteManifest(FormatCSV, path, sampleRecords()); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	file, err := os.Open(path)
	if err != nil {
		t.Fatalf("open manifest: %v", err)
	}
	defer file.Close()

	rows, err := csv.NewReader(file).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("csv has %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "run_id" || rows[0][1] != "url" {
		t.Errorf("unexpected header: %v", rows[0])
	}
	if rows[2][4] != "http_error" {
		t.Errorf("status column = %q, want http_error", rows[2][4])
	}
}

func TestXLSXManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.xlsx")
	if err := WriteManifest(FormatXLSX, path, sampleRecords()); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}

	file, err := excelize.OpenFile(path)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer file.Close()

	rows, err := file.GetRows(xlsxSheetName)
	if err != nil {
		t.Fatalf("read sheet: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("sheet has %d rows, want header + 2", len(rows))
	}
	if rows[1][3] != "image_1.jpg" {
		t.Errorf("filename cell = %q", rows[1][3])
	}
}

func TestSQLiteManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "manifest.db")
	writer, err := NewSQLiteWriter(path)
	if err != nil {
		t.Fatalf("NewSQLiteWriter: %v", err)
	}
	if err := writer.Write(sampleRecords()); err != nil {
		t.Fatalf("Write: %v", err)
	}
	count, err := writer.Count("run-1")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 2 {
		t.Errorf("Count = %d, want 2", count)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		t.Fatalf("reopen database: %v", err)
	}
	defer db.Close()

	var status string
	err = db.QueryRow(
		"SELECT status FROM media_manifest WHERE url = ?",
		"https://cdn.example.com/gone.mp4",
	).Scan(&status)
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if status != "http_error" {
		t.Errorf("status = %q, want http_error", status)
	}
}
