// internal/manifest/xlsx.go
package manifest

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
)

const xlsxSheetName = "Manifest"

// XLSXWriter writes the manifest as an Excel workbook with a single sheet.
type XLSXWriter struct {
	filename string
	file     *excelize.File
	row      int
}

// NewXLSXWriter creates a new XLSX manifest writer.
func NewXLSXWriter(filename string) (*XLSXWriter, error) {
	file := excelize.NewFile()
	index, err := file.NewSheet(xlsxSheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheet: %w", err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}

	w := &XLSXWriter{filename: filename, file: file, row: 1}
	for i, column := range columns {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return nil, err
		}
		if err := file.SetCellValue(xlsxSheetName, cell, column); err != nil {
			return nil, fmt.Errorf("failed to write header: %w", err)
		}
	}
	w.row++
	return w, nil
}

// Write appends records as rows after the header.
func (w *XLSXWriter) Write(records []Record) error {
	for _, record := range records {
		values := []interface{}{
			record.RunID,
			record.URL,
			record.Kind,
			record.Filename,
			record.Status,
			record.StatusCode,
			record.Bytes,
			record.Location,
			record.Error,
			record.FetchedAt.Format(time.RFC3339),
		}
		for i, value := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, w.row)
			if err != nil {
				return err
			}
			if err := w.file.SetCellValue(xlsxSheetName, cell, value); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
		w.row++
	}
	return nil
}

// Close saves the workbook to disk.
func (w *XLSXWriter) Close() error {
	if w.file == nil {
		return nil
	}
	err := w.file.SaveAs(w.filename)
	closeErr := w.file.Close()
	w.file = nil
	if err != nil {
		return err
	}
	return closeErr
}
