package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/google/uuid"

	"crashlens/internal/analytics"
	"crashlens/internal/dataset"
	"crashlens/internal/preprocess"
	"crashlens/pkg/contracts/domain"
)

// Ranking categories exposed by the service.
const (
	CategoryOperators = "operators"
	CategoryLocations = "locations"
)

// AnalyticsService owns the session dataset: loaded once, preprocessed
// through the cache, immutable afterward. Every query method filters and
// aggregates on demand and returns presentation-ready contracts.
type AnalyticsService struct {
	logger   *slog.Logger
	data     *dataset.Dataset
	features dataset.Features
	id       string
}

// NewAnalyticsService loads the source, runs preprocessing through cache
// and returns a ready service. Load failures surface unchanged as
// *dataset.LoadError.
func NewAnalyticsService(sourcePath string, cache *preprocess.Cache, logger *slog.Logger) (*AnalyticsService, error) {
	raw, err := dataset.Load(sourcePath)
	if err != nil {
		return nil, err
	}

	data := cache.Run(raw)
	s := &AnalyticsService{
		logger:   logger.With(slog.String("component", "analytics_service")),
		data:     data,
		features: data.Features(),
		id:       uuid.New().String(),
	}

	s.logger.Info("analytics service ready",
		slog.String("dataset_id", s.id),
		slog.String("source", sourcePath),
		slog.Int("rows", data.Rows()),
		slog.Int("columns", data.ColumnCount()),
		slog.Bool("has_operator", s.features.HasOperator),
		slog.Bool("has_fatalities", s.features.HasFatalities),
		slog.String("location_column", s.features.LocationColumn))
	return s, nil
}

// Info describes the loaded dataset.
func (s *AnalyticsService) Info(ctx context.Context) domain.DatasetInfo {
	yearMin, yearMax := s.yearBounds()
	return domain.DatasetInfo{
		ID:          s.id,
		Rows:        s.data.Rows(),
		ColumnCount: s.data.ColumnCount(),
		Columns:     s.data.ColumnNames(),
		YearMin:     yearMin,
		YearMax:     yearMax,
		Fingerprint: fmt.Sprintf("%016x", s.data.Fingerprint()),
	}
}

// FilterOptions returns the values the presentation layer offers in its
// selection widgets: the dataset's year bounds and the sorted distinct
// operator and location values.
func (s *AnalyticsService) FilterOptions(ctx context.Context) domain.FilterOptions {
	opts := domain.FilterOptions{
		Operators: []string{},
		Locations: []string{},
	}
	opts.YearMin, opts.YearMax = s.yearBounds()
	if s.features.HasOperator {
		opts.Operators = s.distinctValues(dataset.ColOperator)
	}
	if s.features.HasLocation() {
		opts.LocationColumn = s.features.LocationColumn
		opts.Locations = s.distinctValues(s.features.LocationColumn)
	}
	return opts
}

// DefaultFilter returns the match-all specification covering the whole
// dataset, the state the presentation layer starts from.
func (s *AnalyticsService) DefaultFilter(ctx context.Context) analytics.FilterSpec {
	yearMin, yearMax := s.yearBounds()
	return analytics.FilterSpec{
		YearMin:  yearMin,
		YearMax:  yearMax,
		Operator: analytics.MatchAll,
		Location: analytics.MatchAll,
	}
}

// Summary computes the headline metrics for a filter.
func (s *AnalyticsService) Summary(ctx context.Context, spec analytics.FilterSpec) domain.Summary {
	view := analytics.Filter(s.data, spec)
	m := analytics.Summarize(view)

	out := domain.Summary{
		TotalRecords:               m.TotalRecords,
		DatasetRecords:             s.data.Rows(),
		AveragePerYear:             m.AveragePerYear,
		TotalFatalities:            m.TotalFatalities,
		AverageFatalitiesPerRecord: m.AverageFatalitiesPerRecord,
	}
	if !s.features.HasFatalities {
		out.Advisory = "fatalities column not present in source; fatality metrics unavailable"
	}
	s.logger.DebugContext(ctx, "summary computed",
		slog.Int("matched", m.TotalRecords),
		slog.Int("total", s.data.Rows()))
	return out
}

// YearlyTrend returns crash counts per year, ascending by year.
func (s *AnalyticsService) YearlyTrend(ctx context.Context, spec analytics.FilterSpec) []domain.TrendPoint {
	view := analytics.Filter(s.data, spec)
	return sortedTrend(analytics.CountsByYear(view))
}

// DecadeTrend returns crash counts per decade, ascending by decade.
func (s *AnalyticsService) DecadeTrend(ctx context.Context, spec analytics.FilterSpec) []domain.TrendPoint {
	view := analytics.Filter(s.data, spec)
	return sortedTrend(analytics.CountsByDecade(view))
}

// Rankings returns the top-N values of a ranking category. An unknown
// category is an error; a known category whose column the source lacks
// degrades to an empty ranking with an advisory.
func (s *AnalyticsService) Rankings(ctx context.Context, spec analytics.FilterSpec, category string, limit int) (domain.Ranking, error) {
	var column string
	switch category {
	case CategoryOperators:
		column = dataset.ColOperator
	case CategoryLocations:
		column = s.features.LocationColumn
	default:
		return domain.Ranking{}, fmt.Errorf("unknown ranking category %q", category)
	}

	out := domain.Ranking{Category: category, Column: column, Entries: []domain.RankingEntry{}}
	if column == "" || !s.data.HasColumn(column) {
		out.Advisory = fmt.Sprintf("%s column not present in source; ranking skipped", strings.TrimSuffix(category, "s"))
		return out, nil
	}

	view := analytics.Filter(s.data, spec)
	for i, cc := range analytics.TopCategories(view, column, limit) {
		out.Entries = append(out.Entries, domain.RankingEntry{Rank: i + 1, Value: cc.Value, Count: cc.Count})
	}
	return out, nil
}

// MissingValues audits null cells across the filtered view.
func (s *AnalyticsService) MissingValues(ctx context.Context, spec analytics.FilterSpec) []domain.MissingColumn {
	view := analytics.Filter(s.data, spec)
	report := analytics.MissingReport(view)
	out := make([]domain.MissingColumn, len(report))
	for i, gap := range report {
		out[i] = domain.MissingColumn{
			Column:            gap.Column,
			MissingCount:      gap.MissingCount,
			MissingPercentage: gap.MissingPercentage,
		}
	}
	return out
}

// Sample returns the first limit rows of the filtered view as a table.
func (s *AnalyticsService) Sample(ctx context.Context, spec analytics.FilterSpec, limit int) domain.Table {
	view := analytics.Filter(s.data, spec)
	if limit <= 0 || limit > view.Len() {
		limit = view.Len()
	}
	rows := make([][]string, limit)
	for i := 0; i < limit; i++ {
		rows[i] = s.data.RowStrings(view.RowIndex(i))
	}
	return domain.Table{
		Columns: s.data.ColumnNames(),
		Rows:    rows,
		Matched: view.Len(),
		Total:   s.data.Rows(),
	}
}

// yearBounds scans the dataset for the minimum and maximum parseable year.
// Returns zeros when no record carries a year.
func (s *AnalyticsService) yearBounds() (int, int) {
	first := true
	var yearMin, yearMax int
	for i := 0; i < s.data.Rows(); i++ {
		year, ok := s.data.IntAt(i, dataset.ColYear)
		if !ok {
			continue
		}
		if first {
			yearMin, yearMax = year, year
			first = false
			continue
		}
		if year < yearMin {
			yearMin = year
		}
		if year > yearMax {
			yearMax = year
		}
	}
	return yearMin, yearMax
}

// distinctValues returns the sorted distinct non-null values of a column.
func (s *AnalyticsService) distinctValues(column string) []string {
	seen := make(map[string]bool)
	values := []string{}
	for i := 0; i < s.data.Rows(); i++ {
		if v, ok := s.data.StringAt(i, column); ok && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}

func sortedTrend(counts map[int]int) []domain.TrendPoint {
	points := make([]domain.TrendPoint, 0, len(counts))
	for period, count := range counts {
		points = append(points, domain.TrendPoint{Period: period, Count: count})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Period < points[j].Period })
	return points
}
