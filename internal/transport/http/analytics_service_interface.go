package http

import (
	"context"

	"crashlens/internal/analytics"
	"crashlens/pkg/contracts/domain"
)

// AnalyticsServiceInterface is the contract the handlers depend on,
// implemented by services.AnalyticsService.
type AnalyticsServiceInterface interface {
	Info(ctx context.Context) domain.DatasetInfo
	FilterOptions(ctx context.Context) domain.FilterOptions
	DefaultFilter(ctx context.Context) analytics.FilterSpec
	Summary(ctx context.Context, spec analytics.FilterSpec) domain.Summary
	YearlyTrend(ctx context.Context, spec analytics.FilterSpec) []domain.TrendPoint
	DecadeTrend(ctx context.Context, spec analytics.FilterSpec) []domain.TrendPoint
	Rankings(ctx context.Context, spec analytics.FilterSpec, category string, limit int) (domain.Ranking, error)
	MissingValues(ctx context.Context, spec analytics.FilterSpec) []domain.MissingColumn
	Sample(ctx context.Context, spec analytics.FilterSpec, limit int) domain.Table
}
