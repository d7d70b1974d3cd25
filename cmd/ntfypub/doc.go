// Package main hosts the ntfypub CLI entrypoint and command graph.
//
// The Cobra command tree resolves configuration once, builds the ntfy client
// and notification service, and maps terminal invocations onto publish,
// history and configuration operations. Keep the commands thin: behavior
// belongs in the internal packages.
package main
