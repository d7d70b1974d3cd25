package history

import "time"

// Status is the outcome of a publish attempt.
type Status string

const (
	StatusSent   Status = "sent"
	StatusFailed Status = "failed"
)

// Entry is one recorded publish attempt.
type Entry struct {
	ID         string
	Topic      string
	Title      string
	MessageID  string
	Status     Status
	ErrorKind  string
	Error      string
	HTTPStatus int
	Latency    time.Duration
	CreatedAt  time.Time
}

// Filter narrows List results. A zero Limit uses DefaultListLimit.
type Filter struct {
	Topic  string
	Status Status
	Limit  int
}

// DefaultListLimit bounds List when the filter does not set a limit.
const DefaultListLimit = 50
