package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var (
	// ErrUnsupportedFormat is returned for uploads that are neither CSV nor XLSX
	ErrUnsupportedFormat = errors.New("unsupported file format: only .csv and .xlsx are accepted")

	// ErrEmptyFile is returned when the upload has no header row
	ErrEmptyFile = errors.New("file has no header row")
)

// Row is one data row keyed by canonical column name.
// Line is the 1-based index of the row among data rows (the header is not counted).
type Row struct {
	Line   int
	Fields map[string]string
}

// Parse dispatches on the file extension
func Parse(filename string, r io.Reader, m FieldMapping) ([]Row, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return ParseCSV(r, m)
	case ".xlsx":
		return ParseXLSX(r, m)
	default:
		return nil, ErrUnsupportedFormat
	}
}

// ParseCSV reads a comma separated upload
func ParseCSV(r io.Reader, m FieldMapping) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read csv: %w", err)
	}

	return toRows(records, m)
}

// ParseXLSX reads the first sheet of an Excel workbook
func ParseXLSX(r io.Reader, m FieldMapping) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyFile
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("unable to read sheet %q: %w", sheets[0], err)
	}

	return toRows(records, m)
}

func toRows(records [][]string, m FieldMapping) ([]Row, error) {
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	columns := m.Resolve(records[0])

	rows := make([]Row, 0, len(records)-1)
	for i, record := range records[1:] {
		if blank(record) {
			continue
		}

		fields := make(map[string]string, len(columns))
		for idx, canonical := range columns {
			if idx < len(record) {
				fields[canonical] = strings.TrimSpace(record[idx])
			}
		}

		rows = append(rows, Row{Line: i + 1, Fields: fields})
	}

	return rows, nil
}

func blank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
