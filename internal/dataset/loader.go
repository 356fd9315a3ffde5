package dataset

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// LoadError reports an unreadable or structurally invalid source. It is the
// only failure that crosses the engine boundary; no partial dataset is ever
// returned alongside it.
type LoadError struct {
	Path string
	Err  error
}

func (e *LoadError) Error() string { return fmt.Sprintf("load %s: %v", e.Path, e.Err) }
func (e *LoadError) Unwrap() error { return e.Err }

// Load reads a tabular source into a Dataset with no transformation.
// The format is chosen by extension: .xlsx uses the spreadsheet reader,
// everything else is parsed as CSV. Identical source bytes always produce
// an identical Dataset.
func Load(path string) (*Dataset, error) {
	var (
		ds  *Dataset
		err error
	)
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		ds, err = loadXLSX(path)
	} else {
		ds, err = loadCSV(path)
	}
	if err != nil {
		return nil, err
	}

	slog.Info("dataset loaded",
		slog.String("path", path),
		slog.Int("rows", ds.Rows()),
		slog.Int("columns", ds.ColumnCount()))
	return ds, nil
}

func loadCSV(path string) (*Dataset, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}

	// Strip UTF-8 BOM written by Excel exports.
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	reader := csv.NewReader(bytes.NewReader(content))
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(records) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("source has no header row")}
	}

	ds, err := New(records[0], records[1:])
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return ds, nil
}

func loadXLSX(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	if len(rows) == 0 {
		return nil, &LoadError{Path: path, Err: fmt.Errorf("sheet %q has no header row", sheets[0])}
	}

	// The sheet reader trims trailing empty cells, so pad every data row
	// to the header width; short rows are missing values, not corruption.
	header := rows[0]
	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		} else if len(row) > len(header) {
			row = row[:len(header)]
		}
		data = append(data, row)
	}

	ds, err := New(header, data)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	return ds, nil
}
