// Package logging assembles structured slog loggers used across ntfypub.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so publish code can tag log lines
// with the topic and history record ID. The package also provides a no-op
// logger for tests and wiring code that cannot fail.
package logging
