package ntfy_test

import (
	"testing"

	"ntfypub/internal/ntfy"
)

func TestParseActionsPositional(t *testing.T) {
	actions, err := ntfy.ParseActions(`view, Open portal, https://home.nest.com/, clear=true; http, Close door, https://api.example.com/door?close=1, method=PUT, headers.Authorization="Bearer a,b", body={"ok":true}`)
	if err != nil {
		t.Fatalf("ParseActions returned error: %v", err)
	}
	if len(actions) != 2 {
		t.Fatalf("expected 2 actions, got %d", len(actions))
	}
	view := actions[0]
	if view.Type != ntfy.ActionView || view.Label != "Open portal" || view.URL != "https://home.nest.com/" || !view.Clear {
		t.Fatalf("unexpected view action: %+v", view)
	}
	httpAction := actions[1]
	if httpAction.Type != ntfy.ActionHTTP || httpAction.URL != "https://api.example.com/door?close=1" {
		t.Fatalf("unexpected http action: %+v", httpAction)
	}
	if httpAction.Method != "PUT" || httpAction.Headers["Authorization"] != "Bearer a,b" {
		t.Fatalf("unexpected http method/headers: %+v", httpAction)
	}
	if httpAction.Body != `{"ok":true}` {
		t.Fatalf("unexpected body %q", httpAction.Body)
	}
}

func TestParseActionsExplicit(t *testing.T) {
	actions, err := ntfy.ParseActions(`action=broadcast, label="Take picture", extras.cmd=pic, extras.camera=front`)
	if err != nil {
		t.Fatalf("ParseActions returned error: %v", err)
	}
	if len(actions) != 1 {
		t.Fatalf("expected 1 action, got %d", len(actions))
	}
	got := actions[0]
	if got.Type != ntfy.ActionBroadcast || got.Label != "Take picture" {
		t.Fatalf("unexpected action: %+v", got)
	}
	if got.Extras["cmd"] != "pic" || got.Extras["camera"] != "front" {
		t.Fatalf("unexpected extras: %v", got.Extras)
	}
}

func TestParseActionsErrors(t *testing.T) {
	cases := []string{
		"view, Missing url",
		"launch, Rocket, https://example.com",
		"view, Open, https://example.com, bogus=1",
		"http, Go, https://example.com, method=FETCH",
	}
	for _, input := range cases {
		if _, err := ntfy.ParseActions(input); err == nil {
			t.Fatalf("expected error for %q", input)
		}
	}
	actions, err := ntfy.ParseActions("  ")
	if err != nil || actions != nil {
		t.Fatalf("expected empty definition to yield no actions, got %v %v", actions, err)
	}
}
