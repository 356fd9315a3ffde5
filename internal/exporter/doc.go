// Package exporter renders engine summaries to files: CSV tables with
// Excel-friendly encoding plus a combined JSON report document.
package exporter
