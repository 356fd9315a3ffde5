package domain

// The engine-to-presentation contract: plain ordered sequences and key-value
// shapes the presentation layer renders as charts, tables and metric cards.
// Nothing here carries widget or rendering state.

// TrendPoint is one point of a counts-over-time series, sorted ascending
// by period before it leaves the service.
type TrendPoint struct {
	Period int `json:"period"`
	Count  int `json:"count"`
}

// RankingEntry is one row of a top-N ranking table.
type RankingEntry struct {
	Rank  int    `json:"rank"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// Ranking is a top-N ranking over one categorical column. Advisory is set
// when the ranking was skipped because the source lacks the column.
type Ranking struct {
	Category string         `json:"category"`
	Column   string         `json:"column,omitempty"`
	Entries  []RankingEntry `json:"entries"`
	Advisory string         `json:"advisory,omitempty"`
}

// MissingColumn is one row of the missing-value audit.
type MissingColumn struct {
	Column            string  `json:"column"`
	MissingCount      int     `json:"missing_count"`
	MissingPercentage float64 `json:"missing_percentage"`
}

// Summary carries the headline metrics for the current filter.
type Summary struct {
	TotalRecords               int      `json:"total_records"`
	DatasetRecords             int      `json:"dataset_records"`
	AveragePerYear             float64  `json:"average_per_year"`
	TotalFatalities            float64  `json:"total_fatalities"`
	AverageFatalitiesPerRecord *float64 `json:"average_fatalities_per_record"`
	Advisory                   string   `json:"advisory,omitempty"`
}

// FilterOptions feeds the presentation layer's selection widgets: the year
// slider bounds and the distinct values of the categorical filters, sorted.
type FilterOptions struct {
	YearMin        int      `json:"year_min"`
	YearMax        int      `json:"year_max"`
	Operators      []string `json:"operators"`
	Locations      []string `json:"locations"`
	LocationColumn string   `json:"location_column,omitempty"`
}

// DatasetInfo describes the loaded dataset.
type DatasetInfo struct {
	ID          string   `json:"id"`
	Rows        int      `json:"rows"`
	ColumnCount int      `json:"column_count"`
	Columns     []string `json:"columns"`
	YearMin     int      `json:"year_min"`
	YearMax     int      `json:"year_max"`
	Fingerprint string   `json:"fingerprint"`
}

// Table is a generic table-ready result (data samples, exports).
type Table struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
	Matched int        `json:"matched"`
	Total   int        `json:"total"`
}
