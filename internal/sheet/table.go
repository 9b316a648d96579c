package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/menu-builder/constants"
	"github.com/joseph-ayodele/menu-builder/internal/common"
)

// Table is a header row plus data rows, all as strings. Rows may be shorter than Header.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]string
}

// Cell returns row r, column c, or "" past the end of a short row.
func (t *Table) Cell(r, c int) string {
	if r < 0 || r >= len(t.Rows) || c < 0 || c >= len(t.Rows[r]) {
		return ""
	}
	return t.Rows[r][c]
}

// Set writes a cell, growing the row as needed.
func (t *Table) Set(r, c int, v string) {
	for len(t.Rows[r]) <= c {
		t.Rows[r] = append(t.Rows[r], "")
	}
	t.Rows[r][c] = v
}

// Column finds a header case-insensitively, ignoring surrounding space. -1 when absent.
func (t *Table) Column(name string) int {
	for i, h := range t.Header {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}

// EnsureColumn returns the index of name, appending it to the header when missing.
func (t *Table) EnsureColumn(name string) (int, bool) {
	if i := t.Column(name); i >= 0 {
		return i, false
	}
	t.Header = append(t.Header, name)
	return len(t.Header) - 1, true
}

// ReadFile loads an .xlsx (sheetName or the first sheet) or .csv file.
// Any failure is reported as an input error.
func ReadFile(path, sheetName string) (*Table, error) {
	switch constants.MapExtToFormat(filepath.Ext(path)) {
	case constants.XLSX:
		t, err := readXLSX(path, sheetName)
		if err != nil {
			return nil, common.InputError(path, err)
		}
		return t, nil
	case constants.CSV:
		t, err := readCSV(path)
		if err != nil {
			return nil, common.InputError(path, err)
		}
		return t, nil
	default:
		return nil, common.InputError(path, fmt.Errorf("unsupported spreadsheet extension %q", filepath.Ext(path)))
	}
}

func readXLSX(path, sheetName string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	sheet, err := pickSheet(f, sheetName)
	if err != nil {
		return nil, err
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return fromRows(sheet, rows)
}

func pickSheet(f *excelize.File, name string) (string, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return "", errors.New("workbook has no sheets")
	}
	if name == "" {
		return sheets[0], nil
	}
	for _, s := range sheets {
		if s == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("sheet %q not found (have %s)", name, strings.Join(sheets, ", "))
}

func readCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	var rows [][]string
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	return fromRows("", rows)
}

func fromRows(sheet string, rows [][]string) (*Table, error) {
	if len(rows) == 0 {
		return nil, errors.New("no header row")
	}
	header := make([]string, len(rows[0]))
	copy(header, rows[0])
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	return &Table{Sheet: sheet, Header: header, Rows: rows[1:]}, nil
}
