package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ntfypub/internal/testsupport"
)

type cliTestEnv struct {
	configPath  string
	historyPath string
	server      *testsupport.FakeServer
}

// setupCLITestEnv starts a fake ntfy server answering with status and body,
// and writes a config file pointing at it.
func setupCLITestEnv(t *testing.T, status int, body string) *cliTestEnv {
	t.Helper()
	testsupport.ClearNtfyEnv(t)
	t.Setenv("NO_COLOR", "")
	base := t.TempDir()
	t.Setenv("HOME", filepath.Join(base, "home"))

	env := &cliTestEnv{
		configPath:  filepath.Join(base, "config.toml"),
		historyPath: filepath.Join(base, "data", "history.db"),
		server:      testsupport.NewFakeServer(t, status, body),
	}

	content := fmt.Sprintf(`[server]
url = %q
default_topic = "alerts"

[history]
path = %q

[logging]
level = "error"
`, env.server.URL, env.historyPath)
	if err := os.WriteFile(env.configPath, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return env
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

const okBody = testsupport.OKResponse
