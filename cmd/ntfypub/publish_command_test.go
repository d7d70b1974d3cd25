package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ntfypub/internal/ntfy"
)

func TestPublishCommandSendsMessage(t *testing.T) {
	env := setupCLITestEnv(t, http.StatusOK, okBody)

	out, _, err := runCLI(t, env.configPath,
		"publish", "alerts", "Backup", "finished",
		"--title", "Backups",
		"--priority", "high",
		"--tags", "floppy_disk,ok",
		"--action", "view, Open logs, https://example.com/logs",
		"--no-cache",
	)
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	requireContains(t, out, "Published")
	requireContains(t, out, "Zx81qLm2")

	reqs := env.server.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	if reqs[0].Method != http.MethodPost || reqs[0].Path != "/" {
		t.Fatalf("unexpected request %s %s", reqs[0].Method, reqs[0].Path)
	}
	if got := reqs[0].Header.Get("Cache"); got != "no" {
		t.Fatalf("Cache header = %q, want no", got)
	}

	payload := reqs[0].JSON(t)
	if payload["message"] != "Backup finished" || payload["title"] != "Backups" {
		t.Fatalf("unexpected payload: %v", payload)
	}
	if payload["priority"] != float64(4) {
		t.Fatalf("priority = %v, want 4", payload["priority"])
	}
	actions, _ := payload["actions"].([]any)
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %v", payload["actions"])
	}
	action, _ := actions[0].(map[string]any)
	if action["action"] != "view" || action["label"] != "Open logs" || action["url"] != "https://example.com/logs" {
		t.Fatalf("unexpected action: %v", action)
	}
}

func TestPublishCommandUsesDefaultTopicAndMessageFlag(t *testing.T) {
	env := setupCLITestEnv(t, http.StatusOK, okBody)

	if _, _, err := runCLI(t, env.configPath, "publish", "-m", "hello"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	payload := env.server.Last(t).JSON(t)
	if payload["topic"] != "alerts" || payload["message"] != "hello" {
		t.Fatalf("unexpected payload: %v", payload)
	}
}

func TestPublishCommandJSONOutput(t *testing.T) {
	env := setupCLITestEnv(t, http.StatusOK, okBody)

	out, _, err := runCLI(t, env.configPath, "publish", "alerts", "hi", "--json")
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	var decoded publishOutput
	if err := json.Unmarshal([]byte(out), &decoded); err != nil {
		t.Fatalf("decode output %q: %v", out, err)
	}
	if decoded.ID != "Zx81qLm2" || decoded.Topic != "alerts" {
		t.Fatalf("unexpected output: %#v", decoded)
	}
	if decoded.Time != time.Unix(1700000000, 0).UTC().Format(time.RFC3339) {
		t.Fatalf("time = %q", decoded.Time)
	}
	if decoded.Expires == "" {
		t.Fatal("expected expires in output")
	}
}

func TestPublishCommandUploadsFile(t *testing.T) {
	env := setupCLITestEnv(t, http.StatusOK, okBody)
	path := filepath.Join(t.TempDir(), "report.txt")
	if err := os.WriteFile(path, []byte("weekly numbers"), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	if _, _, err := runCLI(t, env.configPath, "publish", "alerts", "--file", path, "--title", "Report"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	reqs := env.server.Requests()
	if len(reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(reqs))
	}
	req := reqs[0]
	if req.Method != http.MethodPut || req.Path != "/alerts" {
		t.Fatalf("unexpected request %s %s", req.Method, req.Path)
	}
	if string(req.Body) != "weekly numbers" {
		t.Fatalf("body = %q", req.Body)
	}
	if req.Header.Get("Filename") != "report.txt" || req.Header.Get("Title") != "Report" {
		t.Fatalf("unexpected headers: %v", req.Header)
	}
}

func TestPublishCommandUnauthorized(t *testing.T) {
	env := setupCLITestEnv(t, http.StatusUnauthorized, `{"code":40101,"http":401,"error":"unauthorized"}`)

	_, _, err := runCLI(t, env.configPath, "publish", "alerts", "hi")
	if !ntfy.IsKind(err, ntfy.KindUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
	if code := exitCode(err); code != 3 {
		t.Fatalf("exit code = %d, want 3", code)
	}
	requireContains(t, err.Error(), `publish to "alerts"`)
}

func TestPublishCommandInvalidTopicSendsNothing(t *testing.T) {
	env := setupCLITestEnv(t, http.StatusOK, okBody)

	_, _, err := runCLI(t, env.configPath, "publish", "not/a/topic", "hi")
	if !ntfy.IsKind(err, ntfy.KindInvalidRequest) {
		t.Fatalf("expected invalid request, got %v", err)
	}
	if code := exitCode(err); code != 2 {
		t.Fatalf("exit code = %d, want 2", code)
	}
	if n := len(env.server.Requests()); n != 0 {
		t.Fatalf("expected no requests, got %d", n)
	}
}

func TestPublishFlagsToMessage(t *testing.T) {
	now := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)

	flags := publishFlags{delay: 30 * time.Minute, priority: "urgent", actions: []string{
		"http, Restart, https://api.example.com/restart, method=PUT; view, Docs, https://example.com",
	}}
	msg, err := flags.toMessage([]string{"ops"}, now)
	if err != nil {
		t.Fatalf("toMessage: %v", err)
	}
	if !msg.At.Equal(now.Add(30 * time.Minute)) {
		t.Fatalf("At = %v", msg.At)
	}
	if msg.Priority != ntfy.PriorityMax {
		t.Fatalf("priority = %v, want max", msg.Priority)
	}
	if len(msg.Actions) != 2 || msg.Actions[0].Method != "PUT" {
		t.Fatalf("unexpected actions: %#v", msg.Actions)
	}

	flags = publishFlags{at: "2024-06-02T09:30:00Z", attach: "https://example.com/a.png", filename: "a.png"}
	msg, err = flags.toMessage(nil, now)
	if err != nil {
		t.Fatalf("toMessage: %v", err)
	}
	if msg.At.Format(time.RFC3339) != "2024-06-02T09:30:00Z" {
		t.Fatalf("At = %v", msg.At)
	}
	if msg.Attachment == nil || msg.Attachment.URL != "https://example.com/a.png" || msg.Attachment.Filename != "a.png" {
		t.Fatalf("unexpected attachment: %#v", msg.Attachment)
	}
}

func TestPublishFlagsRejectConflicts(t *testing.T) {
	cases := map[string]publishFlags{
		"delay and at":     {delay: time.Minute, at: "2024-06-02T09:30:00Z"},
		"negative delay":   {delay: -time.Minute},
		"file and attach":  {file: "a.txt", attach: "https://example.com/a.txt"},
		"orphan filename":  {filename: "a.txt"},
		"bad priority":     {priority: "loud"},
		"bad action":       {actions: []string{"view"}},
		"bad at timestamp": {at: "tomorrow"},
	}
	for name, flags := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := flags.toMessage([]string{"alerts"}, time.Now()); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestExitCode(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{errors.New("plain"), 1},
		{&ntfy.Error{Kind: ntfy.KindInvalidRequest}, 2},
		{&ntfy.Error{Kind: ntfy.KindUnauthorized}, 3},
		{&ntfy.Error{Kind: ntfy.KindTimeout}, 4},
		{&ntfy.Error{Kind: ntfy.KindNetworkError}, 4},
		{&ntfy.Error{Kind: ntfy.KindServerError}, 5},
		{&ntfy.Error{Kind: ntfy.KindRejected}, 5},
	}
	for _, tc := range cases {
		if got := exitCode(tc.err); got != tc.want {
			t.Fatalf("exitCode(%v) = %d, want %d", tc.err, got, tc.want)
		}
	}
}

func TestTestNotifyCommand(t *testing.T) {
	env := setupCLITestEnv(t, http.StatusOK, okBody)

	out, _, err := runCLI(t, env.configPath, "test-notify")
	if err != nil {
		t.Fatalf("test-notify: %v", err)
	}
	requireContains(t, out, "sent to alerts")
	payload := env.server.Last(t).JSON(t)
	if !strings.Contains(payload["title"].(string), "Test") {
		t.Fatalf("unexpected title: %v", payload["title"])
	}
}
