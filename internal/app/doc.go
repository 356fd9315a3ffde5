// Package app assembles the application: configuration, logging, the
// analytics service and the HTTP server with its middleware chain.
package app
