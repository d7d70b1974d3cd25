package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"ntfypub/internal/config"
	"ntfypub/internal/history"
	"ntfypub/internal/logging"
	"ntfypub/internal/notifications"
	"ntfypub/internal/ntfy"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

// openHistory opens the publish history store, or returns nil when history is disabled.
func (c *commandContext) openHistory(ctx context.Context) (*history.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	if !cfg.History.Enabled {
		return nil, nil
	}
	store, err := history.Open(ctx, cfg.History.Path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	return store, nil
}

// withService builds the notification service for one command invocation.
// Expired history rows are pruned before fn runs.
func (c *commandContext) withService(ctx context.Context, fn func(*notifications.Service) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, closeLog, err := logging.NewFromConfig(cfg)
	if err != nil {
		return err
	}
	defer closeLog()
	client, err := cfg.NewClient()
	if err != nil {
		return fmt.Errorf("create ntfy client: %w", err)
	}

	opts := []notifications.Option{notifications.WithLogger(logger)}
	store, err := c.openHistory(ctx)
	if err != nil {
		logging.WarnWithContext(logger, "history unavailable", "history_open_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "set history.enabled = false or fix history.path"),
		)
	}
	if store != nil {
		defer store.Close()
		if removed, err := store.Prune(ctx, cfg.HistoryRetention()); err != nil {
			logger.Warn("history prune failed", logging.Error(err))
		} else if removed > 0 {
			logger.Debug("history pruned", logging.Int("removed", int(removed)))
		}
		opts = append(opts, notifications.WithRecorder(store))
	}

	return fn(notifications.NewService(cfg, client, opts...))
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// exitCode distinguishes failure kinds so scripts can react without parsing output.
func exitCode(err error) int {
	var ntfyErr *ntfy.Error
	if !errors.As(err, &ntfyErr) {
		return 1
	}
	switch ntfyErr.Kind {
	case ntfy.KindInvalidRequest:
		return 2
	case ntfy.KindUnauthorized:
		return 3
	case ntfy.KindTimeout, ntfy.KindNetworkError:
		return 4
	default:
		return 5
	}
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
