package preprocess

import (
	"fmt"
	"time"

	"crashlens/internal/dataset"
)

const dateFormat = "2006-01-02"

// Run derives normalized fields and repairs missing values. It is a pure
// function of its input: the argument is never mutated and the same input
// always yields a byte-identical output.
//
// Two steps, in order:
//
//  1. Date derivation. When year, month and day columns all exist and no
//     date column is present yet, a Date column is appended. A combination
//     that does not form a valid calendar date yields a null date for that
//     record only.
//  2. Forward-fill. Every column is scanned in record order and each null
//     is replaced with the nearest preceding non-null value. A column that
//     starts null keeps its leading nulls.
//
// Running the output through Run again is a no-op, so Run(Run(d)) == Run(d).
func Run(ds *dataset.Dataset) *dataset.Dataset {
	out := ds.Clone()
	deriveDate(out)
	forwardFill(out)
	return out
}

func deriveDate(ds *dataset.Dataset) {
	f := ds.Features()
	if !f.HasDate || ds.HasColumn(dataset.ColDate) {
		return
	}

	cells := make([]dataset.Cell, ds.Rows())
	for i := 0; i < ds.Rows(); i++ {
		year, okY := ds.IntAt(i, dataset.ColYear)
		month, okM := ds.IntAt(i, dataset.ColMonth)
		day, okD := ds.IntAt(i, dataset.ColDay)
		if !okY || !okM || !okD || !validDate(year, month, day) {
			continue // null date, never a fatal error
		}
		cells[i] = dataset.Cell{
			Text:  time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC).Format(dateFormat),
			Valid: true,
		}
	}

	// The clone is private to this call, Date cannot already exist here.
	if err := ds.AppendDerivedColumn(dataset.ColDate, cells); err != nil {
		panic(fmt.Sprintf("preprocess: %v", err))
	}
}

// validDate rejects component combinations time.Date would silently
// normalize, such as April 31 becoming May 1.
func validDate(year, month, day int) bool {
	if month < 1 || month > 12 || day < 1 || day > 31 {
		return false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	return t.Year() == year && t.Month() == time.Month(month) && t.Day() == day
}

// forwardFill applies the repair uniformly to all columns, categorical and
// numeric alike, matching the source system's indiscriminate fill policy.
func forwardFill(ds *dataset.Dataset) {
	for c := 0; c < ds.ColumnCount(); c++ {
		col := ds.ColumnAt(c)
		var last dataset.Cell
		for i := range col.Cells {
			if col.Cells[i].Valid {
				last = col.Cells[i]
			} else if last.Valid {
				col.Cells[i] = last
			}
		}
	}
}
