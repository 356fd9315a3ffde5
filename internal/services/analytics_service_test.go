package services

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crashlens/internal/analytics"
	"crashlens/internal/dataset"
	"crashlens/internal/preprocess"
)

const fixtureCSV = `Year,Month,Day,Operator,Country,Fatalities
1972,10,13,Aeroflot,Russia,10
1985,8,12,JAL,Japan,520
1985,7,1,Aeroflot,Russia,
2001,11,12,American Airlines,USA,265
`

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestService(t *testing.T, csv string) *AnalyticsService {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crashes.csv")
	require.NoError(t, os.WriteFile(path, []byte(csv), 0o644))

	svc, err := NewAnalyticsService(path, preprocess.NewCache(), testLogger())
	require.NoError(t, err)
	return svc
}

func TestNewAnalyticsService_LoadFailure(t *testing.T) {
	_, err := NewAnalyticsService(filepath.Join(t.TempDir(), "absent.csv"), preprocess.NewCache(), testLogger())
	var loadErr *dataset.LoadError
	require.Error(t, err)
	assert.True(t, errors.As(err, &loadErr), "load failures cross the boundary unchanged")
}

func TestInfo(t *testing.T) {
	svc := newTestService(t, fixtureCSV)

	info := svc.Info(context.Background())
	assert.NotEmpty(t, info.ID)
	assert.Equal(t, 4, info.Rows)
	assert.Equal(t, 1972, info.YearMin)
	assert.Equal(t, 2001, info.YearMax)
	assert.Contains(t, info.Columns, "Date", "preprocessing derived the date column")
	assert.Len(t, info.Fingerprint, 16)
}

func TestFilterOptions(t *testing.T) {
	svc := newTestService(t, fixtureCSV)

	opts := svc.FilterOptions(context.Background())
	assert.Equal(t, 1972, opts.YearMin)
	assert.Equal(t, 2001, opts.YearMax)
	assert.Equal(t, []string{"Aeroflot", "American Airlines", "JAL"}, opts.Operators, "distinct and sorted")
	assert.Equal(t, []string{"Japan", "Russia", "USA"}, opts.Locations)
	assert.Equal(t, dataset.ColCountry, opts.LocationColumn)
}

func TestFilterOptions_NoCategoricalColumns(t *testing.T) {
	svc := newTestService(t, "Year\n1990\n2005\n")

	opts := svc.FilterOptions(context.Background())
	assert.Empty(t, opts.Operators)
	assert.Empty(t, opts.Locations)
	assert.Empty(t, opts.LocationColumn)
}

func TestDefaultFilter(t *testing.T) {
	svc := newTestService(t, fixtureCSV)

	spec := svc.DefaultFilter(context.Background())
	assert.Equal(t, 1972, spec.YearMin)
	assert.Equal(t, 2001, spec.YearMax)
	assert.Equal(t, analytics.MatchAll, spec.Operator)
	assert.Equal(t, analytics.MatchAll, spec.Location)
}

func TestSummary(t *testing.T) {
	svc := newTestService(t, fixtureCSV)
	ctx := context.Background()

	sum := svc.Summary(ctx, svc.DefaultFilter(ctx))
	assert.Equal(t, 4, sum.TotalRecords)
	assert.Equal(t, 4, sum.DatasetRecords)
	// Forward fill carries 520 into the null fatalities cell.
	assert.InDelta(t, 10+520+520+265, sum.TotalFatalities, 1e-9)
	require.NotNil(t, sum.AverageFatalitiesPerRecord)
	assert.InDelta(t, 328.75, *sum.AverageFatalitiesPerRecord, 1e-9)
	assert.Empty(t, sum.Advisory)
}

func TestSummary_NoFatalitiesAdvisory(t *testing.T) {
	svc := newTestService(t, "Year,Operator\n1990,JAL\n")
	ctx := context.Background()

	sum := svc.Summary(ctx, svc.DefaultFilter(ctx))
	assert.Equal(t, 1, sum.TotalRecords)
	assert.Nil(t, sum.AverageFatalitiesPerRecord)
	assert.NotEmpty(t, sum.Advisory)
}

func TestYearlyTrend(t *testing.T) {
	svc := newTestService(t, fixtureCSV)
	ctx := context.Background()

	points := svc.YearlyTrend(ctx, svc.DefaultFilter(ctx))
	require.Len(t, points, 3)
	assert.Equal(t, 1972, points[0].Period)
	assert.Equal(t, 1, points[0].Count)
	assert.Equal(t, 1985, points[1].Period)
	assert.Equal(t, 2, points[1].Count)
	assert.Equal(t, 2001, points[2].Period)
}

func TestDecadeTrend(t *testing.T) {
	svc := newTestService(t, fixtureCSV)
	ctx := context.Background()

	points := svc.DecadeTrend(ctx, analytics.FilterSpec{YearMin: 1980, YearMax: 2010})
	require.Len(t, points, 2)
	assert.Equal(t, 1980, points[0].Period)
	assert.Equal(t, 2, points[0].Count)
	assert.Equal(t, 2000, points[1].Period)
	assert.Equal(t, 1, points[1].Count)
}

func TestRankings(t *testing.T) {
	svc := newTestService(t, fixtureCSV)
	ctx := context.Background()

	ranking, err := svc.Rankings(ctx, svc.DefaultFilter(ctx), CategoryOperators, 2)
	require.NoError(t, err)
	assert.Equal(t, CategoryOperators, ranking.Category)
	assert.Equal(t, dataset.ColOperator, ranking.Column)
	require.Len(t, ranking.Entries, 2)
	assert.Equal(t, 1, ranking.Entries[0].Rank)
	assert.Equal(t, "Aeroflot", ranking.Entries[0].Value)
	assert.Equal(t, 2, ranking.Entries[0].Count)
}

func TestRankings_UnknownCategory(t *testing.T) {
	svc := newTestService(t, fixtureCSV)

	_, err := svc.Rankings(context.Background(), svc.DefaultFilter(context.Background()), "pilots", 5)
	assert.Error(t, err)
}

func TestRankings_AbsentColumnAdvisory(t *testing.T) {
	svc := newTestService(t, "Year\n1990\n")
	ctx := context.Background()

	ranking, err := svc.Rankings(ctx, svc.DefaultFilter(ctx), CategoryLocations, 5)
	require.NoError(t, err)
	assert.Empty(t, ranking.Entries)
	assert.NotEmpty(t, ranking.Advisory)
}

func TestMissingValues(t *testing.T) {
	svc := newTestService(t, "Year,Operator\n1990,JAL\n1991,\n")
	ctx := context.Background()

	report := svc.MissingValues(ctx, svc.DefaultFilter(ctx))
	// Forward fill closes the operator gap, nothing left to audit.
	assert.Empty(t, report)
}

func TestMissingValues_LeadingNullSurvivesFill(t *testing.T) {
	svc := newTestService(t, "Year,Operator\n1990,\n1991,JAL\n")
	ctx := context.Background()

	report := svc.MissingValues(ctx, svc.DefaultFilter(ctx))
	require.Len(t, report, 1)
	assert.Equal(t, dataset.ColOperator, report[0].Column)
	assert.Equal(t, 1, report[0].MissingCount)
	assert.InDelta(t, 50.0, report[0].MissingPercentage, 1e-9)
}

func TestSample(t *testing.T) {
	svc := newTestService(t, fixtureCSV)
	ctx := context.Background()

	table := svc.Sample(ctx, svc.DefaultFilter(ctx), 2)
	assert.Len(t, table.Rows, 2)
	assert.Equal(t, 4, table.Matched)
	assert.Equal(t, 4, table.Total)
	assert.Contains(t, table.Columns, "Operator")

	all := svc.Sample(ctx, svc.DefaultFilter(ctx), 100)
	assert.Len(t, all.Rows, 4, "limit caps at the match count")
}

func TestService_SharedCacheAcrossLoads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crashes.csv")
	require.NoError(t, os.WriteFile(path, []byte(fixtureCSV), 0o644))

	cache := preprocess.NewCache()
	a, err := NewAnalyticsService(path, cache, testLogger())
	require.NoError(t, err)
	b, err := NewAnalyticsService(path, cache, testLogger())
	require.NoError(t, err)

	assert.Equal(t, 1, cache.Len(), "same content preprocesses once")
	assert.NotEqual(t, a.id, b.id, "sessions stay distinct")
}
