// Package logging assembles structured slog loggers and formatting helpers used
// across astrogen.
//
// It owns the configurable console/JSON handlers, centralizes level and output
// plumbing, and exposes context-aware helpers so build code can tag log lines
// with build IDs, sectors, and stages automatically. The package also provides
// a no-op logger for tests and wiring code that cannot fail.
package logging
