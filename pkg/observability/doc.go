// Package observability provides structured logging, Prometheus metrics,
// health checking, and graceful shutdown for the openshelf service.
package observability
