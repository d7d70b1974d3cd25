package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeServer()
	c.normalizePublish()
	if err := c.normalizeHistory(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeServer() {
	if value := lookupEnvTrimmed("NTFY_URL"); value != "" {
		c.Server.URL = value
	}
	c.Server.URL = strings.TrimRight(strings.TrimSpace(c.Server.URL), "/")
	if c.Server.URL == "" {
		c.Server.URL = defaultServerURL
	}
	if value := lookupEnvTrimmed("NTFY_TOPIC"); value != "" {
		c.Server.DefaultTopic = value
	}
	c.Server.DefaultTopic = strings.TrimSpace(c.Server.DefaultTopic)

	c.Server.Token = strings.TrimSpace(c.Server.Token)
	c.Server.Username = strings.TrimSpace(c.Server.Username)
	// Environment credentials replace file credentials of either kind.
	if value := lookupEnvTrimmed("NTFY_TOKEN"); value != "" {
		c.Server.Token = value
		c.Server.Username = ""
		c.Server.Password = ""
	} else if value := lookupEnvTrimmed("NTFY_USER"); value != "" {
		c.Server.Token = ""
		c.Server.Username = value
		c.Server.Password = os.Getenv("NTFY_PASSWORD")
	} else if value, ok := os.LookupEnv("NTFY_PASSWORD"); ok && value != "" && c.Server.Username != "" {
		c.Server.Password = value
	}
	if c.Server.RequestTimeout <= 0 {
		c.Server.RequestTimeout = defaultRequestTimeout
	}
	if c.Server.RateBurst <= 0 {
		c.Server.RateBurst = defaultRateBurst
	}
}

func (c *Config) normalizePublish() {
	c.Publish.Priority = strings.ToLower(strings.TrimSpace(c.Publish.Priority))
	if len(c.Publish.Tags) == 0 {
		return
	}
	tags := make([]string, 0, len(c.Publish.Tags))
	seen := make(map[string]struct{}, len(c.Publish.Tags))
	for _, tag := range c.Publish.Tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, exists := seen[tag]; exists {
			continue
		}
		seen[tag] = struct{}{}
		tags = append(tags, tag)
	}
	c.Publish.Tags = tags
}

func (c *Config) normalizeHistory() error {
	var err error
	if strings.TrimSpace(c.History.Path) == "" {
		c.History.Path = defaultHistoryPath
	}
	if c.History.Path, err = expandPath(c.History.Path); err != nil {
		return fmt.Errorf("history.path: %w", err)
	}
	if c.History.RetentionDays < 0 {
		c.History.RetentionDays = 0
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}

func lookupEnvTrimmed(key string) string {
	value, ok := os.LookupEnv(key)
	if !ok {
		return ""
	}
	return strings.TrimSpace(value)
}
