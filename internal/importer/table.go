// Package importer reads sales and product sheets exported from the shop
// into domain records. CSV and the first sheet of an XLSX workbook are
// supported; columns are matched by header name.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

var ErrMissingColumn = errors.New("missing required column")

// Table is a header-indexed sheet. Blank rows are dropped; lines keeps the
// 1-based source line of each remaining row for error messages.
type Table struct {
	columns map[string]int
	lines   []int
	Rows    [][]string
}

// Line returns the source line of Rows[i].
func (t *Table) Line(i int) int {
	if i < 0 || i >= len(t.lines) {
		return i + 2
	}
	return t.lines[i]
}

// ReadFile loads a .csv or .xlsx file.
func ReadFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(f)
	case ".csv", "":
		return ReadCSV(f)
	default:
		return nil, fmt.Errorf("unsupported file type %s", filepath.Ext(path))
	}
}

func ReadCSV(r io.Reader) (*Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	// csv.Reader skips empty lines, so source lines come from FieldPos.
	var (
		records [][]string
		lines   []int
	)
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		records = append(records, record)
		lines = append(lines, line)
	}
	return newTable(records, lines)
}

// ReadXLSX reads the first sheet of a workbook.
func ReadXLSX(r io.Reader) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx file has no sheets")
	}
	sheet := sheets[0]

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows from sheet %s: %w", sheet, err)
	}
	defer rows.Close()

	var (
		records [][]string
		lines   []int
	)
	for rows.Next() {
		record, err := rows.Columns()
		if err != nil {
			return nil, fmt.Errorf("failed to read row from sheet %s: %w", sheet, err)
		}
		records = append(records, record)
		lines = append(lines, len(records))
	}
	if err := rows.Error(); err != nil {
		return nil, fmt.Errorf("error iterating rows in sheet %s: %w", sheet, err)
	}

	return newTable(records, lines)
}

func newTable(records [][]string, lines []int) (*Table, error) {
	if len(records) == 0 {
		return nil, errors.New("file has no header row")
	}

	columns := make(map[string]int, len(records[0]))
	for i, col := range records[0] {
		key := normalizeHeader(col)
		if key == "" {
			continue
		}
		if _, exists := columns[key]; !exists {
			columns[key] = i
		}
	}

	t := &Table{columns: columns}
	for i, record := range records[1:] {
		if isBlank(record) {
			continue
		}
		t.Rows = append(t.Rows, record)
		t.lines = append(t.lines, lines[i+1])
	}

	return t, nil
}

// column returns the index of the first header matching any alias.
func (t *Table) column(aliases ...string) (int, bool) {
	for _, alias := range aliases {
		if idx, ok := t.columns[normalizeHeader(alias)]; ok {
			return idx, true
		}
	}
	return -1, false
}

func (t *Table) require(name string, aliases ...string) (int, error) {
	idx, ok := t.column(append([]string{name}, aliases...)...)
	if !ok {
		return -1, fmt.Errorf("%w: %s", ErrMissingColumn, name)
	}
	return idx, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func normalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
	h = strings.NewReplacer(" ", "_", "-", "_").Replace(h)
	return h
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
