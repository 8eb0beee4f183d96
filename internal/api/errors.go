package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// Sentinels for the response classes callers branch on. A 404 means the
// resource is gone server-side (often fine, e.g. double-decline); a 409 means
// the server rejected a transition the client thought was valid, and the
// caller should re-fetch state.
var (
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
)

// Error is a non-2xx API response.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: server returned %d", e.Status)
	}
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

func (e *Error) Unwrap() error {
	switch e.Status {
	case http.StatusNotFound:
		return ErrNotFound
	case http.StatusConflict:
		return ErrConflict
	case http.StatusUnauthorized, http.StatusForbidden:
		return ErrUnauthorized
	}
	return nil
}

func newError(status int, body []byte) *Error {
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	// Only structured error fields are surfaced; a raw HTML or text body is
	// protocol detail, not a user-facing message, and the status alone is
	// enough for callers to branch on.
	msg := ""
	if json.Unmarshal(body, &payload) == nil {
		if payload.Error != "" {
			msg = payload.Error
		} else {
			msg = payload.Message
		}
	}
	return &Error{Status: status, Message: msg}
}

func asError(err error, target **Error) bool {
	return errors.As(err, target)
}
