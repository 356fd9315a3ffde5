// Package services holds the application service layer. AnalyticsService
// owns the session dataset (load once, preprocess once, read-only after)
// and translates engine output into the presentation contracts under
// pkg/contracts/domain.
package services
