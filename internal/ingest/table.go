package ingest

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/newthinker/traderstats/internal/core"
	"github.com/xuri/excelize/v2"
)

// DefaultSheet is the sheet TradingView writes completed trades to.
const DefaultSheet = "List of trades"

// Table is one sheet of an export: a header row and string cells.
type Table struct {
	Sheet  string
	Header []string
	Rows   [][]string
}

// ReadTable decodes an export, choosing the reader from the file extension.
// For workbooks the named sheet is used when present, otherwise the first sheet.
func ReadTable(name string, data []byte, sheet string) (Table, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx", ".xlsm":
		return readWorkbook(data, sheet)
	case ".csv":
		return readCSV(data)
	default:
		return Table{}, core.WrapError(core.ErrUnsupportedFormat,
			fmt.Errorf("%q: expected .xlsx or .csv", name))
	}
}

func readWorkbook(data []byte, sheet string) (Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return Table{}, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Table{}, fmt.Errorf("workbook has no sheets")
	}

	name := sheets[0]
	for _, s := range sheets {
		if s == sheet {
			name = s
			break
		}
	}

	rows, err := f.GetRows(name)
	if err != nil {
		return Table{}, fmt.Errorf("reading sheet %q: %w", name, err)
	}

	return newTable(name, rows), nil
}

func readCSV(data []byte) (Table, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))))
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Table{}, fmt.Errorf("reading csv: %w", err)
		}
		rows = append(rows, rec)
	}

	return newTable("", rows), nil
}

func newTable(sheet string, rows [][]string) Table {
	t := Table{Sheet: sheet}
	if len(rows) == 0 {
		return t
	}
	t.Header = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		t.Header[i] = strings.TrimSpace(h)
	}
	t.Rows = rows[1:]
	return t
}

// column returns the index of the named header, matching exactly first and
// then case-insensitively. It returns -1 when the column is absent.
func (t Table) column(name string) int {
	if name == "" {
		return -1
	}
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	for i, h := range t.Header {
		if strings.EqualFold(h, name) {
			return i
		}
	}
	return -1
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
