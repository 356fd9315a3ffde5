package dataset

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Cell is a single nullable table cell. Valid is false when the source
// held no value (empty string or a recognised null token).
type Cell struct {
	Text  string
	Valid bool
}

// nullTokens are source values treated as missing, matched case-insensitively.
var nullTokens = map[string]bool{
	"":     true,
	"na":   true,
	"n/a":  true,
	"nan":  true,
	"null": true,
}

// NewCell converts a raw source value into a Cell, mapping null tokens
// to an invalid cell.
func NewCell(raw string) Cell {
	if nullTokens[strings.ToLower(strings.TrimSpace(raw))] {
		return Cell{}
	}
	return Cell{Text: raw, Valid: true}
}

// Column is a named column of cells in source row order.
type Column struct {
	Name  string
	Cells []Cell
}

// Dataset is an in-memory columnar table. The column set is fixed after
// construction; rows are never dropped or reordered. Once preprocessing has
// produced the final Dataset it is treated as read-only and is safe to share
// across concurrent readers.
type Dataset struct {
	cols  []Column
	index map[string]int // lower-cased column name -> position
	rows  int
}

// New builds a Dataset from a header row and data rows. Every row must have
// exactly one value per header column.
func New(headers []string, rows [][]string) (*Dataset, error) {
	if len(headers) == 0 {
		return nil, fmt.Errorf("source has no header row")
	}

	ds := &Dataset{
		cols:  make([]Column, len(headers)),
		index: make(map[string]int, len(headers)),
		rows:  len(rows),
	}
	for c, name := range headers {
		name = strings.TrimSpace(name)
		ds.cols[c] = Column{Name: name, Cells: make([]Cell, len(rows))}
		key := strings.ToLower(name)
		if _, dup := ds.index[key]; !dup {
			ds.index[key] = c
		}
	}

	for r, row := range rows {
		if len(row) != len(headers) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", r+1, len(row), len(headers))
		}
		for c, raw := range row {
			ds.cols[c].Cells[r] = NewCell(raw)
		}
	}
	return ds, nil
}

// Rows returns the number of records.
func (ds *Dataset) Rows() int { return ds.rows }

// ColumnCount returns the number of columns.
func (ds *Dataset) ColumnCount() int { return len(ds.cols) }

// ColumnNames returns the column names in source order.
func (ds *Dataset) ColumnNames() []string {
	names := make([]string, len(ds.cols))
	for i, col := range ds.cols {
		names[i] = col.Name
	}
	return names
}

// HasColumn reports whether a column exists. Lookup is case-insensitive.
func (ds *Dataset) HasColumn(name string) bool {
	_, ok := ds.index[strings.ToLower(name)]
	return ok
}

// ColumnAt returns a pointer to the i-th column. Mutating the returned
// column is only safe on a Dataset obtained from Clone and not yet shared.
func (ds *Dataset) ColumnAt(i int) *Column { return &ds.cols[i] }

// CellAt returns the cell at a row/column position. The second return is
// false when the column does not exist.
func (ds *Dataset) CellAt(row int, name string) (Cell, bool) {
	c, ok := ds.index[strings.ToLower(name)]
	if !ok || row < 0 || row >= ds.rows {
		return Cell{}, false
	}
	return ds.cols[c].Cells[row], true
}

// StringAt returns the non-null string value at a row/column position.
func (ds *Dataset) StringAt(row int, name string) (string, bool) {
	cell, ok := ds.CellAt(row, name)
	if !ok || !cell.Valid {
		return "", false
	}
	return cell.Text, true
}

// IntAt parses the cell as an integer. Values exported as floats by
// spreadsheet tools ("1990.0") are accepted and truncated.
func (ds *Dataset) IntAt(row int, name string) (int, bool) {
	s, ok := ds.StringAt(row, name)
	if !ok {
		return 0, false
	}
	s = strings.TrimSpace(s)
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return int(f), true
	}
	return 0, false
}

// FloatAt parses the cell as a float. Thousands separators are stripped.
func (ds *Dataset) FloatAt(row int, name string) (float64, bool) {
	s, ok := ds.StringAt(row, name)
	if !ok {
		return 0, false
	}
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// RowStrings returns one record as display strings, nulls rendered empty.
func (ds *Dataset) RowStrings(row int) []string {
	out := make([]string, len(ds.cols))
	for c := range ds.cols {
		cell := ds.cols[c].Cells[row]
		if cell.Valid {
			out[c] = cell.Text
		}
	}
	return out
}

// Clone returns a deep copy. The copy may be mutated by its owner without
// affecting the original.
func (ds *Dataset) Clone() *Dataset {
	out := &Dataset{
		cols:  make([]Column, len(ds.cols)),
		index: make(map[string]int, len(ds.index)),
		rows:  ds.rows,
	}
	for i, col := range ds.cols {
		cells := make([]Cell, len(col.Cells))
		copy(cells, col.Cells)
		out.cols[i] = Column{Name: col.Name, Cells: cells}
	}
	for k, v := range ds.index {
		out.index[k] = v
	}
	return out
}

// AppendDerivedColumn adds a new column. It fails when the name is already
// taken or the cell count does not match the record count.
func (ds *Dataset) AppendDerivedColumn(name string, cells []Cell) error {
	if ds.HasColumn(name) {
		return fmt.Errorf("column %q already exists", name)
	}
	if len(cells) != ds.rows {
		return fmt.Errorf("column %q has %d cells, dataset has %d rows", name, len(cells), ds.rows)
	}
	ds.index[strings.ToLower(name)] = len(ds.cols)
	ds.cols = append(ds.cols, Column{Name: name, Cells: cells})
	return nil
}

// Fingerprint returns a 64-bit content identity over column names and cell
// values. Identical source bytes always hash to the same fingerprint, which
// the preprocess cache uses as its memoization key.
func (ds *Dataset) Fingerprint() uint64 {
	h := xxhash.New()
	var lenBuf [4]byte
	writeStr := func(s string) {
		binary.LittleEndian.PutUint32(lenBuf[:], uint32(len(s)))
		h.Write(lenBuf[:])
		h.WriteString(s)
	}
	for _, col := range ds.cols {
		writeStr(col.Name)
		for _, cell := range col.Cells {
			if !cell.Valid {
				h.Write([]byte{0})
				continue
			}
			h.Write([]byte{1})
			writeStr(cell.Text)
		}
	}
	return h.Sum64()
}
