// Package logging assembles structured slog loggers and formatting helpers used
// across dcl.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so resolver and timer code can
// tag log lines with the run's correlation ID and bucket. Logs are written to
// stderr (plus an optional file) so command output on stdout stays parseable.
// A no-op logger is provided for tests and wiring code that cannot fail.
package logging
