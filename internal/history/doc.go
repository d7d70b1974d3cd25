// Package history keeps a local SQLite log of publish attempts.
//
// Each call to the notification service records one Entry with the outcome,
// the server-assigned message ID on success, and the error kind and HTTP
// status on failure. The CLI reads the log through List and trims it with
// Prune. Schema creation runs under an inter-process file lock so concurrent
// ntfypub invocations can share one database file.
package history
