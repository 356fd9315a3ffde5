package analytics

import (
	"crashlens/internal/dataset"
)

// MatchAll is the sentinel a categorical constraint uses to mean "no
// restriction". An empty string is treated the same way.
const MatchAll = "All"

// FilterSpec is the declarative filter the presentation layer supplies:
// an inclusive year range plus optional exact-match categorical constraints.
// Constraints compose conjunctively.
type FilterSpec struct {
	YearMin  int    `json:"year_min"`
	YearMax  int    `json:"year_max"`
	Operator string `json:"operator,omitempty"`
	Location string `json:"location,omitempty"`
}

func matchAll(value string) bool { return value == "" || value == MatchAll }

// View is a non-owning, ordered subset of a Dataset produced by Filter.
// It never mutates the underlying Dataset. The decade of every member row
// is derived fresh during construction, so a View always carries a decade
// column consistent with its records regardless of the Dataset's columns.
type View struct {
	ds      *dataset.Dataset
	rows    []int // indices into ds, in original record order
	decades []int // per member row, (year // 10) * 10
	spec    FilterSpec
}

// Filter applies spec to a preprocessed Dataset and returns the matching
// View.
//
//   - Records with a null or unparseable year fail the year predicate.
//   - Operator and location constraints are exact, case-sensitive matches;
//     MatchAll (or empty) disables them. A constraint naming a column the
//     dataset does not expose is skipped, not errored.
//   - The location constraint applies to the dataset's location-bearing
//     column (Country preferred over Location, decided once at load).
//
// An empty View is a valid result.
func Filter(ds *dataset.Dataset, spec FilterSpec) *View {
	f := ds.Features()
	operatorActive := f.HasOperator && !matchAll(spec.Operator)
	locationActive := f.HasLocation() && !matchAll(spec.Location)

	v := &View{ds: ds, spec: spec}
	for i := 0; i < ds.Rows(); i++ {
		year, ok := ds.IntAt(i, dataset.ColYear)
		if !ok || year < spec.YearMin || year > spec.YearMax {
			continue
		}
		if operatorActive {
			op, ok := ds.StringAt(i, dataset.ColOperator)
			if !ok || op != spec.Operator {
				continue
			}
		}
		if locationActive {
			loc, ok := ds.StringAt(i, f.LocationColumn)
			if !ok || loc != spec.Location {
				continue
			}
		}
		v.rows = append(v.rows, i)
		v.decades = append(v.decades, decadeOf(year))
	}
	return v
}

// decadeOf buckets a year into its decade using floor division, so the
// result is always a multiple of 10 no greater than the year.
func decadeOf(year int) int {
	d := year / 10
	if year < 0 && year%10 != 0 {
		d--
	}
	return d * 10
}

// Len returns the number of records in the view.
func (v *View) Len() int { return len(v.rows) }

// Spec returns the filter specification that produced the view.
func (v *View) Spec() FilterSpec { return v.spec }

// Dataset returns the underlying dataset the view indexes into.
func (v *View) Dataset() *dataset.Dataset { return v.ds }

// RowIndex translates a view position into the original record index.
func (v *View) RowIndex(i int) int { return v.rows[i] }

// Decade returns the derived decade of the i-th view record.
func (v *View) Decade(i int) int { return v.decades[i] }

// Year returns the year of the i-th view record. Membership guarantees a
// parseable year.
func (v *View) Year(i int) int {
	year, _ := v.ds.IntAt(v.rows[i], dataset.ColYear)
	return year
}

// StringAt returns the non-null string value of a column for the i-th
// view record.
func (v *View) StringAt(i int, column string) (string, bool) {
	return v.ds.StringAt(v.rows[i], column)
}

// FloatAt returns the numeric value of a column for the i-th view record.
func (v *View) FloatAt(i int, column string) (float64, bool) {
	return v.ds.FloatAt(v.rows[i], column)
}

// CellAt returns the raw cell of a column for the i-th view record.
func (v *View) CellAt(i int, column string) (dataset.Cell, bool) {
	return v.ds.CellAt(v.rows[i], column)
}
