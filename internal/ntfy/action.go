package ntfy

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"unicode/utf8"
)

// ActionType names an ntfy action button kind.
type ActionType string

const (
	ActionView      ActionType = "view"
	ActionBroadcast ActionType = "broadcast"
	ActionHTTP      ActionType = "http"
)

// DefaultBroadcastIntent is the Android intent ntfy uses when none is set.
const DefaultBroadcastIntent = "io.heckel.ntfy.USER_ACTION"

// MaxActions is the number of action buttons ntfy accepts per message.
const MaxActions = 3

// Action is a button attached to a notification. Only the fields relevant to
// Type are encoded.
type Action struct {
	Type    ActionType
	Label   string
	URL     string
	Clear   bool
	Intent  string
	Extras  map[string]string
	Method  string
	Headers map[string]string
	Body    string
}

// ViewAction opens url when tapped.
func ViewAction(label, url string) Action {
	return Action{Type: ActionView, Label: label, URL: url}
}

// BroadcastAction sends an Android broadcast intent with optional extras.
func BroadcastAction(label string, extras map[string]string) Action {
	return Action{Type: ActionBroadcast, Label: label, Extras: extras}
}

// HTTPAction sends an HTTP request (POST unless Method is set) when tapped.
func HTTPAction(label, url string) Action {
	return Action{Type: ActionHTTP, Label: label, URL: url}
}

func (a Action) validate() error {
	if strings.TrimSpace(a.Label) == "" {
		return errors.New("action label must not be empty")
	}
	switch a.Type {
	case ActionView, ActionHTTP:
		if strings.TrimSpace(a.URL) == "" {
			return fmt.Errorf("%s action %q requires a url", a.Type, a.Label)
		}
	case ActionBroadcast:
	default:
		return fmt.Errorf("unknown action type %q", a.Type)
	}
	if a.Type == ActionHTTP && a.Method != "" && !validMethod(a.Method) {
		return fmt.Errorf("http action %q: unsupported method %q", a.Label, a.Method)
	}
	return nil
}

func validMethod(method string) bool {
	switch strings.ToUpper(method) {
	case http.MethodGet, http.MethodHead, http.MethodPost, http.MethodPut, http.MethodDelete,
		http.MethodConnect, http.MethodOptions, http.MethodTrace, http.MethodPatch:
		return true
	}
	return false
}

func (a Action) validateUTF8() error {
	values := []string{a.Label, a.URL, a.Intent, a.Method, a.Body}
	for k, v := range a.Extras {
		values = append(values, k, v)
	}
	for k, v := range a.Headers {
		values = append(values, k, v)
	}
	for _, value := range values {
		if !utf8.ValidString(value) {
			return fmt.Errorf("%s action %q has text that is not valid UTF-8", a.Type, a.Label)
		}
	}
	return nil
}

// shortForm renders the action in ntfy's header syntax, e.g.
// "action=view, label=Open, url=https://example.com".
func (a Action) shortForm() string {
	parts := []string{
		"action=" + string(a.Type),
		"label=" + quoteActionValue(a.Label),
	}
	switch a.Type {
	case ActionView:
		parts = append(parts, "url="+quoteActionValue(a.URL))
	case ActionBroadcast:
		if a.Intent != "" && a.Intent != DefaultBroadcastIntent {
			parts = append(parts, "intent="+quoteActionValue(a.Intent))
		}
		for _, key := range sortedKeys(a.Extras) {
			parts = append(parts, "extras."+key+"="+quoteActionValue(a.Extras[key]))
		}
	case ActionHTTP:
		parts = append(parts, "url="+quoteActionValue(a.URL))
		if method := strings.ToUpper(a.Method); method != "" && method != http.MethodPost {
			parts = append(parts, "method="+method)
		}
		for _, key := range sortedKeys(a.Headers) {
			parts = append(parts, "headers."+key+"="+quoteActionValue(a.Headers[key]))
		}
		if a.Body != "" {
			parts = append(parts, "body="+quoteActionValue(a.Body))
		}
	}
	if a.Clear {
		parts = append(parts, "clear=true")
	}
	return strings.Join(parts, ", ")
}

// quoteActionValue double-quotes values containing separators, quotes or
// backslashes. Backslashes are escaped before quotes.
func quoteActionValue(value string) string {
	if !strings.ContainsAny(value, ",;\"'\\") {
		return value
	}
	return `"` + actionValueEscaper.Replace(value) + `"`
}

var actionValueEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// ParseActions parses actions written in ntfy's short form. Both the explicit
// "action=view, label=Open, url=..." syntax and the positional
// "view, Open, https://..." syntax are accepted; multiple actions are
// separated by semicolons.
func ParseActions(definition string) ([]Action, error) {
	definition = strings.TrimSpace(definition)
	if definition == "" {
		return nil, nil
	}
	var actions []Action
	for _, raw := range splitQuoted(definition, ';') {
		if strings.TrimSpace(raw) == "" {
			continue
		}
		action, err := parseAction(raw)
		if err != nil {
			return nil, err
		}
		actions = append(actions, action)
	}
	return actions, nil
}

func parseAction(raw string) (Action, error) {
	var action Action
	fields := splitQuoted(raw, ',')
	for i, field := range fields {
		field = strings.TrimSpace(field)
		key, value, explicit := cutActionField(field)
		if !explicit {
			switch {
			case i == 0:
				key = "action"
			case i == 1:
				key = "label"
			case i == 2 && (action.Type == ActionView || action.Type == ActionHTTP):
				key = "url"
			default:
				return Action{}, fmt.Errorf("action %q: unexpected value %q", raw, field)
			}
			value = unquoteActionValue(field)
		}
		if err := action.set(key, value); err != nil {
			return Action{}, fmt.Errorf("action %q: %w", strings.TrimSpace(raw), err)
		}
	}
	if err := action.validate(); err != nil {
		return Action{}, err
	}
	return action, nil
}

func (a *Action) set(key, value string) error {
	switch {
	case key == "action":
		a.Type = ActionType(strings.ToLower(value))
	case key == "label":
		a.Label = value
	case key == "url":
		a.URL = value
	case key == "clear":
		a.Clear = strings.EqualFold(value, "true") || value == "1" || strings.EqualFold(value, "yes")
	case key == "intent":
		a.Intent = value
	case key == "method":
		a.Method = strings.ToUpper(value)
	case key == "body":
		a.Body = value
	case strings.HasPrefix(key, "extras."):
		if a.Extras == nil {
			a.Extras = make(map[string]string)
		}
		a.Extras[strings.TrimPrefix(key, "extras.")] = value
	case strings.HasPrefix(key, "headers."):
		if a.Headers == nil {
			a.Headers = make(map[string]string)
		}
		a.Headers[strings.TrimPrefix(key, "headers.")] = value
	default:
		return fmt.Errorf("unknown key %q", key)
	}
	return nil
}

// cutActionField splits key=value when the key is a known action key.
// Positional URLs such as "https://x?a=b" stay positional.
func cutActionField(field string) (string, string, bool) {
	key, value, ok := strings.Cut(field, "=")
	if !ok {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	lower := strings.ToLower(key)
	value = unquoteActionValue(strings.TrimSpace(value))
	switch {
	case lower == "action", lower == "label", lower == "url", lower == "clear", lower == "intent",
		lower == "method", lower == "body":
		return lower, value, true
	case strings.HasPrefix(lower, "extras."), strings.HasPrefix(lower, "headers."):
		// Header and extra names keep their case.
		prefix, name, _ := strings.Cut(key, ".")
		return strings.ToLower(prefix) + "." + name, value, true
	}
	return "", "", false
}

func unquoteActionValue(value string) string {
	if len(value) >= 2 {
		first, last := value[0], value[len(value)-1]
		if (first == '"' || first == '\'') && first == last {
			return unescapeActionValue(value[1:len(value)-1], rune(first))
		}
	}
	return value
}

// unescapeActionValue undoes \\ and \<quote>; other backslashes are literal.
func unescapeActionValue(inner string, quote rune) string {
	if !strings.ContainsRune(inner, '\\') {
		return inner
	}
	var b strings.Builder
	runes := []rune(inner)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r == '\\' && i+1 < len(runes) && (runes[i+1] == '\\' || runes[i+1] == quote) {
			i++
			r = runes[i]
		}
		b.WriteRune(r)
	}
	return b.String()
}

// splitQuoted splits s on sep, ignoring separators inside single or double
// quotes. Escaped quotes do not terminate a quoted run.
func splitQuoted(s string, sep rune) []string {
	var (
		parts   []string
		current strings.Builder
		quote   rune
		escaped bool
	)
	for _, r := range s {
		switch {
		case escaped:
			escaped = false
		case r == '\\' && quote != 0:
			escaped = true
		case quote != 0 && r == quote:
			quote = 0
		case quote == 0 && (r == '"' || r == '\''):
			quote = r
		case quote == 0 && r == sep:
			parts = append(parts, current.String())
			current.Reset()
			continue
		}
		current.WriteRune(r)
	}
	parts = append(parts, current.String())
	return parts
}
