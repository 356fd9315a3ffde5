package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crashlens/pkg/contracts/domain"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	content = bytes.TrimPrefix(content, []byte{0xEF, 0xBB, 0xBF})

	records, err := csv.NewReader(bytes.NewReader(content)).ReadAll()
	require.NoError(t, err)
	return records
}

func TestWriteCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	err := w.WriteCSV("out/trend.csv", WriteOptions{
		Headers:   []string{"Year", "Crashes"},
		Records:   [][]string{{"1990", "2"}, {"2005", "1"}},
		BOMPrefix: true,
	})
	require.NoError(t, err)

	path := filepath.Join(dir, "out", "trend.csv")
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(raw, []byte{0xEF, 0xBB, 0xBF}), "BOM prefix present")

	records := readCSV(t, path)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"Year", "Crashes"}, records[0])
	assert.Equal(t, []string{"2005", "1"}, records[2])
}

func TestWriteCSV_EmptyRecords(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir)

	require.NoError(t, w.WriteSimpleCSV("empty.csv", []string{"Column"}, nil))

	records := readCSV(t, filepath.Join(dir, "empty.csv"))
	require.Len(t, records, 1, "header row only")
}

func TestWriteReport(t *testing.T) {
	avg := 8.33
	rep := Report{
		Info: domain.DatasetInfo{ID: "abc", Rows: 3},
		Summary: domain.Summary{
			TotalRecords:               3,
			DatasetRecords:             3,
			TotalFatalities:            25,
			AverageFatalitiesPerRecord: &avg,
		},
		Yearly:  []domain.TrendPoint{{Period: 1990, Count: 2}, {Period: 2005, Count: 1}},
		Decades: []domain.TrendPoint{{Period: 1990, Count: 2}, {Period: 2000, Count: 1}},
		Operators: domain.Ranking{
			Category: "operators",
			Column:   "Operator",
			Entries:  []domain.RankingEntry{{Rank: 1, Value: "Aeroflot", Count: 2}},
		},
		Locations: domain.Ranking{
			Category: "locations",
			Column:   "Country",
			Entries:  []domain.RankingEntry{{Rank: 1, Value: "Russia", Count: 2}},
		},
		Missing: []domain.MissingColumn{{Column: "Fatalities", MissingCount: 1, MissingPercentage: 33.33}},
	}

	dir := t.TempDir()
	require.NoError(t, NewCSVWriter(dir).WriteReport(rep))

	years := readCSV(t, filepath.Join(dir, "crashes_by_year.csv"))
	assert.Equal(t, [][]string{{"Year", "Crashes"}, {"1990", "2"}, {"2005", "1"}}, years)

	decades := readCSV(t, filepath.Join(dir, "crashes_by_decade.csv"))
	assert.Equal(t, []string{"Decade", "Crashes"}, decades[0])

	operators := readCSV(t, filepath.Join(dir, "top_operators.csv"))
	assert.Equal(t, [][]string{{"Rank", "Operator", "Crashes"}, {"1", "Aeroflot", "2"}}, operators)

	locations := readCSV(t, filepath.Join(dir, "top_locations.csv"))
	assert.Equal(t, []string{"Rank", "Country", "Crashes"}, locations[0], "header follows the resolved column")

	missing := readCSV(t, filepath.Join(dir, "missing_values.csv"))
	assert.Equal(t, [][]string{{"Column", "Missing Count", "Percentage"}, {"Fatalities", "1", "33.33"}}, missing)

	content, err := os.ReadFile(filepath.Join(dir, "report.json"))
	require.NoError(t, err)
	var decoded Report
	require.NoError(t, json.Unmarshal(content, &decoded))
	assert.Equal(t, rep.Summary.TotalRecords, decoded.Summary.TotalRecords)
	require.NotNil(t, decoded.Summary.AverageFatalitiesPerRecord)
	assert.InDelta(t, avg, *decoded.Summary.AverageFatalitiesPerRecord, 1e-9)
}

func TestWriteReport_AbsentLocationColumn(t *testing.T) {
	dir := t.TempDir()
	rep := Report{
		Locations: domain.Ranking{Category: "locations", Advisory: "location column not present in source; ranking skipped"},
	}
	require.NoError(t, NewCSVWriter(dir).WriteReport(rep))

	locations := readCSV(t, filepath.Join(dir, "top_locations.csv"))
	require.Len(t, locations, 1)
	assert.Equal(t, []string{"Rank", "Location", "Crashes"}, locations[0])
}
