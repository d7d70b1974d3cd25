package config

const (
	defaultServerURL            = "https://ntfy.sh"
	defaultRequestTimeout       = 10
	defaultRateBurst            = 1
	defaultHistoryPath          = "~/.local/share/ntfypub/history.db"
	defaultHistoryRetentionDays = 30
	defaultLogFormat            = "console"
	defaultLogLevel             = "warn"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Server: Server{
			URL:            defaultServerURL,
			RequestTimeout: defaultRequestTimeout,
			RateBurst:      defaultRateBurst,
		},
		Publish: Publish{
			Cache:    true,
			Firebase: true,
		},
		History: History{
			Enabled:       true,
			Path:          defaultHistoryPath,
			RetentionDays: defaultHistoryRetentionDays,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
