package ntfy

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"
)

// Attachment references a file shown with the notification. Exactly one of
// URL or Path is set: URL attachments are linked by the server, Path
// attachments are uploaded as the request body.
type Attachment struct {
	URL      string
	Path     string
	Filename string
}

// URLAttachment links an externally hosted file.
func URLAttachment(url, filename string) *Attachment {
	return &Attachment{URL: url, Filename: filename}
}

// FileAttachment uploads a local file.
func FileAttachment(path, filename string) *Attachment {
	return &Attachment{Path: path, Filename: filename}
}

// Message is a single notification addressed to one topic. The client reads
// it during Publish and does not retain it.
type Message struct {
	Topic    string
	Body     string
	Title    string
	Priority Priority
	Tags     []string
	Markdown bool
	Actions  []Action
	Click    string
	Icon     string
	Email    string
	Call     string

	Attachment *Attachment

	// At schedules delivery; the zero value delivers immediately.
	At time.Time

	// NoCache and NoFirebase map to "Cache: no" and "Firebase: no".
	NoCache    bool
	NoFirebase bool
}

// Validate checks the message without touching the network.
func (m *Message) Validate() error {
	if m == nil {
		return errors.New("message is nil")
	}
	if err := ValidateTopic(m.Topic); err != nil {
		return err
	}
	if !m.Priority.Valid() {
		return fmt.Errorf("priority %d out of range", int(m.Priority))
	}
	if len(m.Actions) > MaxActions {
		return fmt.Errorf("too many actions: %d (max %d)", len(m.Actions), MaxActions)
	}
	for _, action := range m.Actions {
		if err := action.validate(); err != nil {
			return err
		}
	}
	if a := m.Attachment; a != nil {
		hasURL := strings.TrimSpace(a.URL) != ""
		hasPath := strings.TrimSpace(a.Path) != ""
		if hasURL == hasPath {
			return errors.New("attachment requires exactly one of url or path")
		}
	}
	if m.Email != "" {
		addr, err := mail.ParseAddress(m.Email)
		if err != nil {
			return fmt.Errorf("invalid email %q: %w", m.Email, err)
		}
		if addr.Address != m.Email {
			return fmt.Errorf("invalid email %q: use a bare address such as %q", m.Email, addr.Address)
		}
	}
	return m.validateUTF8()
}

// validateUTF8 rejects text the JSON encoder would otherwise replace with U+FFFD.
func (m *Message) validateUTF8() error {
	check := func(name, value string) error {
		if !utf8.ValidString(value) {
			return fmt.Errorf("%s is not valid UTF-8", name)
		}
		return nil
	}
	fields := []struct{ name, value string }{
		{"body", m.Body},
		{"title", m.Title},
		{"click", m.Click},
		{"icon", m.Icon},
		{"call", m.Call},
	}
	for _, f := range fields {
		if err := check(f.name, f.value); err != nil {
			return err
		}
	}
	for i, tag := range m.Tags {
		if err := check(fmt.Sprintf("tag %d", i+1), tag); err != nil {
			return err
		}
	}
	if a := m.Attachment; a != nil {
		if err := check("attachment url", a.URL); err != nil {
			return err
		}
		if err := check("attachment filename", a.Filename); err != nil {
			return err
		}
	}
	for i, action := range m.Actions {
		if err := action.validateUTF8(); err != nil {
			return fmt.Errorf("action %d: %w", i+1, err)
		}
	}
	return nil
}

// uploadsFile reports whether the message is sent as a file upload.
func (m *Message) uploadsFile() bool {
	return m.Attachment != nil && strings.TrimSpace(m.Attachment.Path) != ""
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	out := make([]string, 0, len(tags))
	seen := make(map[string]struct{}, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
