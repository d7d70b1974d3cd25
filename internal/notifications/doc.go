// Package notifications is the application layer above the ntfy client.
//
// Service fills in the publish defaults from config.toml (default topic,
// priority, tags, markdown, cache and Firebase flags), sends the message
// through an ntfy publisher, logs the outcome with the component logger and
// records each attempt in the publish history when a recorder is attached.
// History failures are logged and never change the publish result.
package notifications
