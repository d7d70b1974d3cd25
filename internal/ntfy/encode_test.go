package ntfy

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"
)

func TestShortFormQuotesAndOrdersFields(t *testing.T) {
	action := Action{
		Type:    ActionHTTP,
		Label:   "Reply, now",
		URL:     "https://example.com",
		Method:  "put",
		Headers: map[string]string{"X-B": "2", "X-A": `say "hi"`},
		Body:    "a;b",
		Clear:   true,
	}
	want := `action=http, label="Reply, now", url=https://example.com, method=PUT, headers.X-A="say \"hi\"", headers.X-B=2, body="a;b", clear=true`
	if got := action.shortForm(); got != want {
		t.Fatalf("unexpected short form:\n got: %s\nwant: %s", got, want)
	}

	roundTrip, err := ParseActions(action.shortForm())
	if err != nil {
		t.Fatalf("ParseActions returned error: %v", err)
	}
	if roundTrip[0].Label != action.Label || roundTrip[0].Headers["X-A"] != `say "hi"` || roundTrip[0].Body != "a;b" {
		t.Fatalf("short form did not parse back: %+v", roundTrip[0])
	}
}

func TestShortFormEscapesBackslashes(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{`a,b\`, `action=view, label="a,b\\", url=https://x`},
		{`C:\dir`, `action=view, label="C:\\dir", url=https://x`},
		{`say \"hi\"`, `action=view, label="say \\\"hi\\\"", url=https://x`},
	}
	for _, tc := range tests {
		action := Action{Type: ActionView, Label: tc.label, URL: "https://x"}
		got := action.shortForm()
		if got != tc.want {
			t.Fatalf("label %q: short form\n got: %s\nwant: %s", tc.label, got, tc.want)
		}
		parsed, err := ParseActions(got)
		if err != nil {
			t.Fatalf("label %q: ParseActions returned error: %v", tc.label, err)
		}
		if len(parsed) != 1 || parsed[0].Label != tc.label || parsed[0].URL != "https://x" {
			t.Fatalf("label %q: parsed back as %+v", tc.label, parsed)
		}
	}
}

func TestShortFormOmitsDefaults(t *testing.T) {
	broadcast := Action{Type: ActionBroadcast, Label: "Ping", Intent: DefaultBroadcastIntent}
	if got := broadcast.shortForm(); got != "action=broadcast, label=Ping" {
		t.Fatalf("unexpected broadcast short form %q", got)
	}
	httpAction := Action{Type: ActionHTTP, Label: "Go", URL: "https://x", Method: http.MethodPost}
	if got := httpAction.shortForm(); got != "action=http, label=Go, url=https://x" {
		t.Fatalf("unexpected http short form %q", got)
	}
}

func TestEncodeHeaders(t *testing.T) {
	msg := &Message{
		Topic:    "alerts",
		Body:     "line one\nline two",
		Title:    "Plain",
		Priority: PriorityMax,
		Tags:     []string{"warning", "skull"},
		Markdown: true,
		Actions:  []Action{ViewAction("Open", "https://example.com")},
		Email:    "ops@example.com",
		At:       time.Unix(1700000000, 0),
		NoCache:  true,
	}
	h := http.Header{}
	encodeHeaders(msg, h)

	expect := map[string]string{
		"Title":    "Plain",
		"Priority": "5",
		"Tags":     "warning,skull",
		"Markdown": "yes",
		"Actions":  "action=view, label=Open, url=https://example.com",
		"Email":    "ops@example.com",
		"Delay":    "1700000000",
		"Cache":    "no",
	}
	for key, want := range expect {
		if got := h.Get(key); got != want {
			t.Fatalf("header %s: got %q want %q", key, got, want)
		}
	}
	if got := h.Get("Message"); got == msg.Body || got == "" {
		t.Fatalf("expected encoded multi-line message, got %q", got)
	}
	if h.Get("Firebase") != "" {
		t.Fatal("firebase header should be absent")
	}
}

func TestEncodeJSONNormalizesText(t *testing.T) {
	decomposed := "Cafe\u0301"
	payload, err := encodeJSON(&Message{Topic: "alerts", Title: decomposed, Priority: PriorityNormal})
	if err != nil {
		t.Fatalf("encodeJSON returned error: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(payload, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["title"] != "Caf\u00e9" {
		t.Fatalf("expected NFC title, got %q", decoded["title"])
	}
	if _, ok := decoded["priority"]; ok {
		t.Fatal("default priority should be omitted")
	}
	if _, ok := decoded["message"]; ok {
		t.Fatal("empty message should be omitted")
	}
}
