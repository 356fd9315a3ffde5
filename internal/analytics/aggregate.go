package analytics

import (
	"math"
	"sort"

	"crashlens/internal/dataset"
)

// The aggregation functions are independent, stateless and pure: they never
// mutate the View or its Dataset, and every one of them tolerates an empty
// View by returning zero or empty results.

// CountsByYear maps each year appearing in the view to its record count.
// The map is unordered; callers sort ascending for presentation.
func CountsByYear(v *View) map[int]int {
	counts := make(map[int]int)
	for i := 0; i < v.Len(); i++ {
		counts[v.Year(i)]++
	}
	return counts
}

// CountsByDecade maps each decade appearing in the view to its record
// count, using the view's derived decade column. Decade grouping never
// loses or duplicates records relative to CountsByYear.
func CountsByDecade(v *View) map[int]int {
	counts := make(map[int]int)
	for i := 0; i < v.Len(); i++ {
		counts[v.Decade(i)]++
	}
	return counts
}

// CategoryCount is one entry of a top-N ranking.
type CategoryCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// TopCategories returns the n most frequent distinct non-null values of a
// column, most frequent first. Ties break by first appearance in the view,
// which keeps the ranking stable and deterministic. Fewer than n entries
// are returned when fewer distinct values exist; a column the dataset does
// not expose yields nil.
func TopCategories(v *View, column string, n int) []CategoryCount {
	if n <= 0 || !v.Dataset().HasColumn(column) {
		return nil
	}

	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	order := make([]string, 0)
	for i := 0; i < v.Len(); i++ {
		val, ok := v.StringAt(i, column)
		if !ok {
			continue
		}
		if _, seen := counts[val]; !seen {
			firstSeen[val] = i
			order = append(order, val)
		}
		counts[val]++
	}

	ranked := make([]CategoryCount, 0, len(order))
	for _, val := range order {
		ranked = append(ranked, CategoryCount{Value: val, Count: counts[val]})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return firstSeen[ranked[i].Value] < firstSeen[ranked[j].Value]
	})

	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// ColumnGap reports missing values for one column of a view.
type ColumnGap struct {
	Column            string  `json:"column"`
	MissingCount      int     `json:"missing_count"`
	MissingPercentage float64 `json:"missing_percentage"`
}

// MissingReport lists every column with at least one null among the view's
// records, sorted descending by missing count (dataset column order on
// ties). Percentages are relative to the view size, rounded to two
// decimals. An empty view or a fully-populated view yields an empty report.
func MissingReport(v *View) []ColumnGap {
	if v.Len() == 0 {
		return nil
	}

	var report []ColumnGap
	for _, name := range v.Dataset().ColumnNames() {
		missing := 0
		for i := 0; i < v.Len(); i++ {
			if cell, ok := v.CellAt(i, name); ok && !cell.Valid {
				missing++
			}
		}
		if missing > 0 {
			report = append(report, ColumnGap{
				Column:            name,
				MissingCount:      missing,
				MissingPercentage: round2(float64(missing) / float64(v.Len()) * 100),
			})
		}
	}
	sort.SliceStable(report, func(i, j int) bool {
		return report[i].MissingCount > report[j].MissingCount
	})
	return report
}

// Metrics are the descriptive statistics of a view.
type Metrics struct {
	TotalRecords    int     `json:"total_records"`
	AveragePerYear  float64 `json:"average_per_year"`
	TotalFatalities float64 `json:"total_fatalities"`

	// AverageFatalitiesPerRecord is nil when the dataset has no
	// fatalities column or the view holds no usable values.
	AverageFatalitiesPerRecord *float64 `json:"average_fatalities_per_record"`
}

// Summarize computes the view's summary metrics. The per-year average uses
// the requested filter span (YearMax-YearMin+1), not the span of surviving
// records, and is zero when the span is not positive. Fatality metrics
// degrade gracefully when the column is absent: the total reports 0 and the
// mean reports nil.
func Summarize(v *View) Metrics {
	m := Metrics{TotalRecords: v.Len()}

	if span := v.Spec().YearMax - v.Spec().YearMin + 1; span > 0 {
		m.AveragePerYear = float64(m.TotalRecords) / float64(span)
	}

	if !v.Dataset().Features().HasFatalities {
		return m
	}
	var sum float64
	valid := 0
	for i := 0; i < v.Len(); i++ {
		if f, ok := v.FloatAt(i, dataset.ColFatalities); ok {
			sum += f
			valid++
		}
	}
	m.TotalFatalities = sum
	if valid > 0 {
		avg := round2(sum / float64(valid))
		m.AverageFatalitiesPerRecord = &avg
	}
	return m
}

func round2(x float64) float64 { return math.Round(x*100) / 100 }
