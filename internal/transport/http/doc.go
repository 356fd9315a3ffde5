// Package http is the presentation boundary over the analytics engine:
// chi handlers that collect filter choices from query parameters and render
// the engine's chart-ready and table-ready contracts as JSON. No computation
// happens here.
package http
