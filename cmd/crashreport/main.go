// Command crashreport runs the analytics engine once over a source file and
// exports the summaries (yearly and decade trends, top rankings, missing
// value audit, headline metrics) as CSV files plus a combined JSON report.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"time"

	"crashlens/internal/analytics"
	"crashlens/internal/config"
	"crashlens/internal/exporter"
	"crashlens/internal/infrastructure"
	"crashlens/internal/preprocess"
	"crashlens/internal/services"
)

func main() {
	source := flag.String("source", "", "tabular source file, csv or xlsx (defaults to the configured data source)")
	out := flag.String("out", "reports", "output directory for the generated files")
	yearMin := flag.Int("year-min", 0, "lower year bound, inclusive (defaults to the dataset minimum)")
	yearMax := flag.Int("year-max", 0, "upper year bound, inclusive (defaults to the dataset maximum)")
	operator := flag.String("operator", analytics.MatchAll, "exact operator filter, All for no restriction")
	location := flag.String("location", analytics.MatchAll, "exact location filter, All for no restriction")
	top := flag.Int("top", 10, "ranking size for operators and locations")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", "error", err)
		os.Exit(1)
	}

	if *source == "" {
		*source = cfg.Data.Source
	}

	start := time.Now()
	service, err := services.NewAnalyticsService(*source, preprocess.NewCache(), logger)
	if err != nil {
		logger.Error("failed to load dataset", "error", err, "source", *source)
		os.Exit(1)
	}

	ctx := context.Background()
	spec := service.DefaultFilter(ctx)
	if *yearMin != 0 {
		spec.YearMin = *yearMin
	}
	if *yearMax != 0 {
		spec.YearMax = *yearMax
	}
	spec.Operator = *operator
	spec.Location = *location

	operators, err := service.Rankings(ctx, spec, services.CategoryOperators, *top)
	if err != nil {
		logger.Error("operator ranking failed", "error", err)
		os.Exit(1)
	}
	locations, err := service.Rankings(ctx, spec, services.CategoryLocations, *top)
	if err != nil {
		logger.Error("location ranking failed", "error", err)
		os.Exit(1)
	}

	report := exporter.Report{
		Info:      service.Info(ctx),
		Summary:   service.Summary(ctx, spec),
		Yearly:    service.YearlyTrend(ctx, spec),
		Decades:   service.DecadeTrend(ctx, spec),
		Operators: operators,
		Locations: locations,
		Missing:   service.MissingValues(ctx, spec),
	}

	writer := exporter.NewCSVWriter(*out)
	if err := writer.WriteReport(report); err != nil {
		logger.Error("failed to write report", "error", err, "out", *out)
		os.Exit(1)
	}

	logger.Info("report complete",
		"out", *out,
		"matched", report.Summary.TotalRecords,
		"total", report.Summary.DatasetRecords,
		"duration", time.Since(start).String())
}
