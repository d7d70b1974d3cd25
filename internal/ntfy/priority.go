package ntfy

import (
	"fmt"
	"strconv"
	"strings"
)

// Priority orders how intrusively clients present a notification.
type Priority int

const (
	// PriorityDefault leaves the priority unset on the wire.
	PriorityDefault Priority = 0
	PriorityMin     Priority = 1
	PriorityLow     Priority = 2
	PriorityNormal  Priority = 3
	PriorityHigh    Priority = 4
	PriorityMax     Priority = 5
)

// ParsePriority accepts ntfy priority names and numbers.
func ParsePriority(value string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "":
		return PriorityDefault, nil
	case "min", "1":
		return PriorityMin, nil
	case "low", "2":
		return PriorityLow, nil
	case "default", "3":
		return PriorityNormal, nil
	case "high", "4":
		return PriorityHigh, nil
	case "max", "urgent", "5":
		return PriorityMax, nil
	default:
		return PriorityDefault, fmt.Errorf("unknown priority %q", value)
	}
}

// Valid reports whether p is unset or within 1..5.
func (p Priority) Valid() bool {
	return p >= PriorityDefault && p <= PriorityMax
}

// wire returns the value sent to the server; zero means omit.
func (p Priority) wire() int {
	if p == PriorityNormal {
		return 0
	}
	return int(p)
}

func (p Priority) String() string {
	switch p {
	case PriorityDefault, PriorityNormal:
		return "default"
	case PriorityMin:
		return "min"
	case PriorityLow:
		return "low"
	case PriorityHigh:
		return "high"
	case PriorityMax:
		return "max"
	default:
		return strconv.Itoa(int(p))
	}
}
