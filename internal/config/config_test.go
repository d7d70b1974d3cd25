package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"

	"ntfypub/internal/config"
	"ntfypub/internal/testsupport"
)

func writeConfig(t *testing.T, path string, value any) {
	t.Helper()
	data, err := toml.Marshal(value)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	testsupport.ClearNtfyEnv(t)
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if resolved != filepath.Join(tempHome, ".config", "ntfypub", "config.toml") {
		t.Fatalf("unexpected resolved path %q", resolved)
	}
	if cfg.Server.URL != "https://ntfy.sh" {
		t.Fatalf("unexpected server url %q", cfg.Server.URL)
	}
	wantHistory := filepath.Join(tempHome, ".local", "share", "ntfypub", "history.db")
	if cfg.History.Path != wantHistory {
		t.Fatalf("unexpected history path: got %q want %q", cfg.History.Path, wantHistory)
	}
	if !cfg.Publish.Cache || !cfg.Publish.Firebase {
		t.Fatal("expected cache and firebase enabled by default")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "warn" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}

	clientCfg := cfg.ClientConfig()
	if clientCfg.Timeout != 10*time.Second {
		t.Fatalf("expected 10s timeout, got %v", clientCfg.Timeout)
	}
	if _, err := cfg.NewClient(); err != nil {
		t.Fatalf("NewClient returned error: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	testsupport.ClearNtfyEnv(t)
	configPath := filepath.Join(t.TempDir(), "ntfypub.toml")

	type payload struct {
		Server struct {
			URL            string  `toml:"url"`
			DefaultTopic   string  `toml:"default_topic"`
			Token          string  `toml:"token"`
			RequestTimeout int     `toml:"request_timeout"`
			RateLimit      float64 `toml:"rate_limit"`
		} `toml:"server"`
		Publish struct {
			Priority string   `toml:"priority"`
			Tags     []string `toml:"tags"`
		} `toml:"publish"`
	}
	custom := payload{}
	custom.Server.URL = "https://ntfy.example.com/"
	custom.Server.DefaultTopic = "homelab"
	custom.Server.Token = "tk_file"
	custom.Server.RequestTimeout = 3
	custom.Server.RateLimit = 2
	custom.Publish.Priority = " HIGH "
	custom.Publish.Tags = []string{"server", " server ", ""}
	writeConfig(t, configPath, custom)

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Server.URL != "https://ntfy.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Server.URL)
	}
	if cfg.Server.DefaultTopic != "homelab" || cfg.Server.Token != "tk_file" {
		t.Fatalf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Publish.Priority != "high" {
		t.Fatalf("expected normalized priority, got %q", cfg.Publish.Priority)
	}
	if len(cfg.Publish.Tags) != 1 || cfg.Publish.Tags[0] != "server" {
		t.Fatalf("expected deduplicated tags, got %v", cfg.Publish.Tags)
	}
	if got := cfg.ClientConfig().Timeout; got != 3*time.Second {
		t.Fatalf("expected 3s timeout, got %v", got)
	}
	if len(cfg.ClientOptions()) != 1 {
		t.Fatal("expected rate limit option")
	}
}

func TestEnvVarOverridesConfigFileCredentials(t *testing.T) {
	testsupport.ClearNtfyEnv(t)
	configPath := filepath.Join(t.TempDir(), "ntfypub.toml")
	type payload struct {
		Server struct {
			Username string `toml:"username"`
			Password string `toml:"password"`
		} `toml:"server"`
	}
	custom := payload{}
	custom.Server.Username = "file-user"
	custom.Server.Password = "file-pass"
	writeConfig(t, configPath, custom)

	t.Setenv("NTFY_TOKEN", "tk_env")
	t.Setenv("NTFY_URL", "http://localhost:8080")
	t.Setenv("NTFY_TOPIC", "env_topic")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Token != "tk_env" || cfg.Server.Username != "" || cfg.Server.Password != "" {
		t.Fatalf("expected env token to replace basic auth, got %+v", cfg.Server)
	}
	if cfg.Server.URL != "http://localhost:8080" || cfg.Server.DefaultTopic != "env_topic" {
		t.Fatalf("expected env url and topic, got %+v", cfg.Server)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	testsupport.ClearNtfyEnv(t)
	cases := map[string]string{
		"bad scheme":      "[server]\nurl = \"ftp://ntfy.sh\"\n",
		"bad topic":       "[server]\ndefault_topic = \"not a topic\"\n",
		"mixed auth":      "[server]\ntoken = \"t\"\nusername = \"u\"\npassword = \"p\"\n",
		"user only":       "[server]\nusername = \"u\"\n",
		"bad priority":    "[publish]\npriority = \"loud\"\n",
		"bad level":       "[logging]\nlevel = \"verbose\"\n",
		"unknown section": "[daemon]\nenabled = true\n",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "ntfypub.toml")
			if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, _, _, err := config.Load(path); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestCreateSampleLoads(t *testing.T) {
	testsupport.ClearNtfyEnv(t)
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[server]") {
		t.Fatalf("sample missing server section: %s", data)
	}
	if _, _, _, err := config.Load(path); err != nil {
		t.Fatalf("sample config does not load: %v", err)
	}
}
