// Package analytics is the query engine over a preprocessed dataset. Filter
// turns a declarative FilterSpec into an ordered, non-owning View, and the
// aggregation functions (CountsByYear, CountsByDecade, TopCategories,
// MissingReport, Summarize) turn a View into chart-ready and table-ready
// summaries. Everything here is pure and safe for concurrent read-only use.
package analytics
