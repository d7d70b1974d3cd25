package testsupport

import (
	"path/filepath"
	"testing"

	"ntfypub/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config whose history lives in a per-test temp
// directory. NTFY_* environment variables are cleared for the test so host
// settings never leak into it.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()
	ClearNtfyEnv(t)

	cfgVal := config.Default()
	cfgVal.Server.DefaultTopic = "alerts"
	cfgVal.History.Path = filepath.Join(t.TempDir(), "history.db")
	cfgVal.Logging.Level = "error"

	for _, opt := range opts {
		opt(&cfgVal)
	}
	return &cfgVal
}

// WithServerURL points the config at a test server.
func WithServerURL(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Server.URL = url
	}
}

// WithDefaultTopic overrides server.default_topic; empty disables it.
func WithDefaultTopic(topic string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Server.DefaultTopic = topic
	}
}

// ClearNtfyEnv blanks every environment variable config.Load reads.
func ClearNtfyEnv(t testing.TB) {
	t.Helper()
	for _, key := range []string{"NTFY_URL", "NTFY_TOPIC", "NTFY_TOKEN", "NTFY_USER", "NTFY_PASSWORD"} {
		t.Setenv(key, "")
	}
}
