package ntfy

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// maxResponseBytes bounds how much of a response body is read.
const maxResponseBytes = 64 << 10

// PublishResponse is the server's acknowledgement of a published message.
type PublishResponse struct {
	ID      string
	Time    time.Time
	Expires time.Time
	Event   string
	Topic   string
}

type wireResponse struct {
	ID      string `json:"id"`
	Time    int64  `json:"time"`
	Expires int64  `json:"expires"`
	Event   string `json:"event"`
	Topic   string `json:"topic"`
}

type wireError struct {
	Code  int    `json:"code"`
	HTTP  int    `json:"http"`
	Error string `json:"error"`
	Link  string `json:"link"`
}

func decodePublishResponse(status int, body []byte) (*PublishResponse, error) {
	var payload wireResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, &Error{Kind: KindServerError, HTTPStatus: status, Err: fmt.Errorf("decode response: %w", err)}
	}
	if payload.ID == "" || payload.Time <= 0 {
		return nil, &Error{Kind: KindServerError, HTTPStatus: status, Err: errors.New("response missing id or time")}
	}
	resp := &PublishResponse{
		ID:    payload.ID,
		Time:  time.Unix(payload.Time, 0).UTC(),
		Event: payload.Event,
		Topic: payload.Topic,
	}
	if payload.Expires > 0 {
		resp.Expires = time.Unix(payload.Expires, 0).UTC()
	}
	return resp, nil
}

// statusError maps a non-2xx response to an *Error. The ntfy JSON error body
// is used for diagnostics when it parses; the kind depends only on status.
func statusError(status int, body []byte) *Error {
	err := &Error{HTTPStatus: status}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		err.Kind = KindUnauthorized
	case status >= 400 && status < 500:
		err.Kind = KindRejected
	default:
		err.Kind = KindServerError
	}

	var payload wireError
	if jsonErr := json.Unmarshal(body, &payload); jsonErr == nil && payload.Error != "" {
		err.Code = payload.Code
		err.Message = payload.Error
		err.Link = payload.Link
		return err
	}
	text := strings.TrimSpace(string(body))
	if len(text) > 512 {
		text = text[:512]
	}
	if text == "" {
		text = http.StatusText(status)
	}
	err.Message = text
	return err
}
