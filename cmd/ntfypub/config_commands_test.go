package main

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ntfypub/internal/ntfy"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t, http.StatusOK, okBody)

	out, _, err := runCLI(t, env.configPath, "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "[OK] valid")
	requireContains(t, out, env.server.URL)
	requireContains(t, out, "anonymous")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, _, err = runCLI(t, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, _, err := runCLI(t, "", "config", "init", "--path", target); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
	if _, _, err := runCLI(t, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}

	out, _, err = runCLI(t, target, "config", "validate")
	if err != nil {
		t.Fatalf("validate sample: %v", err)
	}
	requireContains(t, out, "Default topic")
}

func TestInvalidConfigFailsCommands(t *testing.T) {
	setupCLITestEnv(t, http.StatusOK, okBody)
	path := filepath.Join(t.TempDir(), "bad.toml")
	if err := os.WriteFile(path, []byte("[server]\nurl = \"ftp://example.com\"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, err := runCLI(t, path, "publish", "alerts", "hi"); err == nil {
		t.Fatal("expected invalid config to fail")
	}
}

func TestLogLevelFlagValidated(t *testing.T) {
	env := setupCLITestEnv(t, http.StatusOK, okBody)
	if _, _, err := runCLI(t, env.configPath, "--log-level", "verbose", "config", "validate"); err == nil {
		t.Fatal("expected invalid log level to fail")
	}
}

func TestTopicCommands(t *testing.T) {
	out, _, err := runCLI(t, "", "topic", "generate", "--prefix", "builds")
	if err != nil {
		t.Fatalf("topic generate: %v", err)
	}
	topic := strings.TrimSpace(out)
	if !strings.HasPrefix(topic, "builds_") {
		t.Fatalf("unexpected topic %q", topic)
	}
	if err := ntfy.ValidateTopic(topic); err != nil {
		t.Fatalf("generated topic invalid: %v", err)
	}

	out, _, err = runCLI(t, "", "topic", "check", topic)
	if err != nil {
		t.Fatalf("topic check: %v", err)
	}
	requireContains(t, out, "valid topic")

	if _, _, err := runCLI(t, "", "topic", "check", "bad topic"); err == nil {
		t.Fatal("expected invalid topic to fail")
	}
}

func TestRenderStatusLine(t *testing.T) {
	got := renderStatusLine("Published", statusOK, "alerts", false)
	if got != "  Published:         [OK] alerts" {
		t.Fatalf("renderStatusLine = %q", got)
	}
	colored := renderStatusLine("Published", statusError, "", true)
	if !strings.HasPrefix(colored, ansiRed) || !strings.HasSuffix(colored, ansiReset) {
		t.Fatalf("expected red line, got %q", colored)
	}
}
