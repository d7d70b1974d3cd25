// Package config loads, normalizes, and validates ntfypub configuration data.
//
// It supplies defaults, expands user paths (including tilde shortcuts), reads
// TOML files, and honours environment fallbacks such as NTFY_TOKEN. The Config
// type centralizes server, credential, publish-default, history and logging
// settings so the CLI builds its ntfy client and helpers in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized URLs, canonical log formats, and clear validation errors.
package config
