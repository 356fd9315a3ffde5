package exporter

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"crashlens/pkg/contracts/domain"
)

// Report bundles every summary the report CLI exports for one filter.
type Report struct {
	Info      domain.DatasetInfo     `json:"dataset"`
	Summary   domain.Summary         `json:"summary"`
	Yearly    []domain.TrendPoint    `json:"crashes_by_year"`
	Decades   []domain.TrendPoint    `json:"crashes_by_decade"`
	Operators domain.Ranking         `json:"top_operators"`
	Locations domain.Ranking         `json:"top_locations"`
	Missing   []domain.MissingColumn `json:"missing_values"`
}

// WriteReport renders the report as one CSV file per summary plus a
// combined JSON document.
func (w *CSVWriter) WriteReport(rep Report) error {
	if err := w.WriteSimpleCSV("crashes_by_year.csv", []string{"Year", "Crashes"}, trendRows(rep.Yearly)); err != nil {
		return err
	}
	if err := w.WriteSimpleCSV("crashes_by_decade.csv", []string{"Decade", "Crashes"}, trendRows(rep.Decades)); err != nil {
		return err
	}
	if err := w.WriteSimpleCSV("top_operators.csv", []string{"Rank", "Operator", "Crashes"}, rankingRows(rep.Operators)); err != nil {
		return err
	}
	locationHeader := rep.Locations.Column
	if locationHeader == "" {
		locationHeader = "Location"
	}
	if err := w.WriteSimpleCSV("top_locations.csv", []string{"Rank", locationHeader, "Crashes"}, rankingRows(rep.Locations)); err != nil {
		return err
	}
	if err := w.WriteSimpleCSV("missing_values.csv", []string{"Column", "Missing Count", "Percentage"}, missingRows(rep.Missing)); err != nil {
		return err
	}
	return w.writeJSON("report.json", rep)
}

func (w *CSVWriter) writeJSON(name string, v interface{}) error {
	content, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}
	fullPath := filepath.Join(w.outDir, name)
	if err := os.WriteFile(fullPath, content, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func trendRows(points []domain.TrendPoint) [][]string {
	rows := make([][]string, len(points))
	for i, p := range points {
		rows[i] = []string{strconv.Itoa(p.Period), strconv.Itoa(p.Count)}
	}
	return rows
}

func rankingRows(ranking domain.Ranking) [][]string {
	rows := make([][]string, len(ranking.Entries))
	for i, e := range ranking.Entries {
		rows[i] = []string{strconv.Itoa(e.Rank), e.Value, strconv.Itoa(e.Count)}
	}
	return rows
}

func missingRows(missing []domain.MissingColumn) [][]string {
	rows := make([][]string, len(missing))
	for i, m := range missing {
		rows[i] = []string{
			m.Column,
			strconv.Itoa(m.MissingCount),
			strconv.FormatFloat(m.MissingPercentage, 'f', 2, 64),
		}
	}
	return rows
}
