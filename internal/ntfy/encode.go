package ntfy

import (
	"encoding/json"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// wireMessage is version 1 of the JSON publish envelope.
type wireMessage struct {
	Topic    string       `json:"topic"`
	Message  string       `json:"message,omitempty"`
	Title    string       `json:"title,omitempty"`
	Tags     []string     `json:"tags,omitempty"`
	Priority int          `json:"priority,omitempty"`
	Markdown bool         `json:"markdown,omitempty"`
	Actions  []wireAction `json:"actions,omitempty"`
	Click    string       `json:"click,omitempty"`
	Attach   string       `json:"attach,omitempty"`
	Filename string       `json:"filename,omitempty"`
	Icon     string       `json:"icon,omitempty"`
	Email    string       `json:"email,omitempty"`
	Call     string       `json:"call,omitempty"`
	Delay    string       `json:"delay,omitempty"`
}

type wireAction struct {
	Action  string            `json:"action"`
	Label   string            `json:"label"`
	URL     string            `json:"url,omitempty"`
	Clear   bool              `json:"clear,omitempty"`
	Intent  string            `json:"intent,omitempty"`
	Extras  map[string]string `json:"extras,omitempty"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Body    string            `json:"body,omitempty"`
}

func text(value string) string {
	return norm.NFC.String(value)
}

// encodeJSON builds the JSON envelope posted to the server root.
func encodeJSON(m *Message) ([]byte, error) {
	payload := wireMessage{
		Topic:    m.Topic,
		Message:  text(m.Body),
		Title:    text(m.Title),
		Tags:     normalizeTags(m.Tags),
		Priority: m.Priority.wire(),
		Markdown: m.Markdown,
		Click:    m.Click,
		Icon:     m.Icon,
		Email:    m.Email,
		Call:     m.Call,
		Delay:    delayValue(m),
	}
	if m.Attachment != nil {
		payload.Attach = m.Attachment.URL
		payload.Filename = text(m.Attachment.Filename)
	}
	for _, action := range m.Actions {
		payload.Actions = append(payload.Actions, toWireAction(action))
	}
	return json.Marshal(payload)
}

func toWireAction(a Action) wireAction {
	out := wireAction{
		Action: string(a.Type),
		Label:  text(a.Label),
		Clear:  a.Clear,
	}
	switch a.Type {
	case ActionView:
		out.URL = a.URL
	case ActionBroadcast:
		if a.Intent != DefaultBroadcastIntent {
			out.Intent = a.Intent
		}
		if len(a.Extras) > 0 {
			out.Extras = a.Extras
		}
	case ActionHTTP:
		out.URL = a.URL
		if method := strings.ToUpper(a.Method); method != http.MethodPost {
			out.Method = method
		}
		if len(a.Headers) > 0 {
			out.Headers = a.Headers
		}
		out.Body = a.Body
	}
	return out
}

// encodeHeaders carries every message field in ntfy request headers. It is
// used for file uploads, where the body is the file itself.
func encodeHeaders(m *Message, h http.Header) {
	setText := func(key, value string) {
		if value != "" {
			h.Set(key, encodeHeaderValue(text(value)))
		}
	}
	setText("Message", m.Body)
	setText("Title", m.Title)
	if p := m.Priority.wire(); p != 0 {
		h.Set("Priority", strconv.Itoa(p))
	}
	if tags := normalizeTags(m.Tags); len(tags) > 0 {
		setText("Tags", strings.Join(tags, ","))
	}
	if m.Markdown {
		h.Set("Markdown", "yes")
	}
	if len(m.Actions) > 0 {
		forms := make([]string, 0, len(m.Actions))
		for _, action := range m.Actions {
			forms = append(forms, action.shortForm())
		}
		setText("Actions", strings.Join(forms, "; "))
	}
	setText("Click", m.Click)
	setText("Icon", m.Icon)
	setText("Email", m.Email)
	setText("Call", m.Call)
	if m.Attachment != nil {
		setText("Attach", m.Attachment.URL)
		setText("Filename", m.Attachment.Filename)
	}
	if delay := delayValue(m); delay != "" {
		h.Set("Delay", delay)
	}
	applyFlagHeaders(m, h)
}

// applyFlagHeaders sets the delivery flags that have no JSON field.
func applyFlagHeaders(m *Message, h http.Header) {
	if m.NoCache {
		h.Set("Cache", "no")
	}
	if m.NoFirebase {
		h.Set("Firebase", "no")
	}
}

func delayValue(m *Message) string {
	if m.At.IsZero() {
		return ""
	}
	return strconv.FormatInt(m.At.Unix(), 10)
}

// encodeHeaderValue applies RFC 2047 encoding when value is not printable
// ASCII, which is how ntfy expects UTF-8 in headers.
func encodeHeaderValue(value string) string {
	return mime.BEncoding.Encode("UTF-8", value)
}
