package ntfy

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies why a publish failed.
type Kind int

const (
	// KindInvalidRequest means local validation failed; nothing was sent.
	KindInvalidRequest Kind = iota + 1
	// KindTimeout means no response arrived in time or the caller cancelled.
	// The server may still have accepted the message.
	KindTimeout
	// KindUnauthorized covers HTTP 401 and 403.
	KindUnauthorized
	// KindRejected covers the remaining 4xx responses.
	KindRejected
	// KindServerError covers 5xx responses and malformed success bodies.
	KindServerError
	// KindNetworkError covers connection failures and resets.
	KindNetworkError
)

func (k Kind) String() string {
	switch k {
	case KindInvalidRequest:
		return "invalid_request"
	case KindTimeout:
		return "timeout"
	case KindUnauthorized:
		return "unauthorized"
	case KindRejected:
		return "rejected"
	case KindServerError:
		return "server_error"
	case KindNetworkError:
		return "network_error"
	default:
		return "unknown"
	}
}

// Error is returned by every failed publish.
type Error struct {
	Kind Kind
	// HTTPStatus is zero when no response was received.
	HTTPStatus int
	// Code, Message and Link are taken from the server's JSON error body
	// when present.
	Code    int
	Message string
	Link    string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString("ntfy ")
	b.WriteString(e.Kind.String())
	if e.HTTPStatus != 0 {
		fmt.Fprintf(&b, " (http %d", e.HTTPStatus)
		if e.Code != 0 {
			fmt.Fprintf(&b, ", code %d", e.Code)
		}
		b.WriteByte(')')
	}
	if e.Message != "" {
		b.WriteString(": ")
		b.WriteString(e.Message)
	}
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the Kind of err, or zero when err is not an *Error.
func KindOf(err error) Kind {
	var ntfyErr *Error
	if errors.As(err, &ntfyErr) {
		return ntfyErr.Kind
	}
	return 0
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return err != nil && KindOf(err) == kind
}

func invalidRequest(err error) *Error {
	return &Error{Kind: KindInvalidRequest, Err: err}
}
