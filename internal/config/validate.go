package config

import (
	"errors"
	"fmt"
	"net/url"

	"ntfypub/internal/ntfy"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validatePublish(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	parsed, err := url.Parse(c.Server.URL)
	if err != nil {
		return fmt.Errorf("server.url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("server.url must use http or https, got %q", c.Server.URL)
	}
	if parsed.Host == "" {
		return fmt.Errorf("server.url %q has no host", c.Server.URL)
	}
	if c.Server.DefaultTopic != "" {
		if err := ntfy.ValidateTopic(c.Server.DefaultTopic); err != nil {
			return fmt.Errorf("server.default_topic: %w", err)
		}
	}
	if c.Server.Token != "" && (c.Server.Username != "" || c.Server.Password != "") {
		return errors.New("server.token and server.username/password are mutually exclusive")
	}
	if c.Server.Username != "" && c.Server.Password == "" {
		return errors.New("server.password must be set when server.username is set")
	}
	if c.Server.Username == "" && c.Server.Password != "" {
		return errors.New("server.username must be set when server.password is set")
	}
	if c.Server.RateLimit < 0 {
		return errors.New("server.rate_limit must be >= 0")
	}
	return nil
}

func (c *Config) validatePublish() error {
	if _, err := ntfy.ParsePriority(c.Publish.Priority); err != nil {
		return fmt.Errorf("publish.priority: %w", err)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
