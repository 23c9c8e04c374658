package apierror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is the type of error returned by the transport when the remote
// endpoint answers with a non-2xx status. It contains the HTTP status code so
// that callers can tell server failures from rejected queries.
type Error struct {
	err    error
	status int
}

func New(err error, status int) *Error {
	return &Error{
		err:    err,
		status: status,
	}
}

// FromResponse creates an Error from a response status and body. The body
// text, if any, becomes the error message.
func FromResponse(status int, body []byte) error {
	var err error
	text := strings.TrimSpace(string(body))
	if text != "" {
		err = errors.New(text)
	}
	if status == 0 {
		return err
	}
	return New(err, status)
}

func (e *Error) Error() string {
	if e.err != nil {
		return e.Text()
	}
	if e.status == 0 {
		return ""
	}
	// If there is only status, then return status text
	if text := http.StatusText(e.status); text != "" {
		return fmt.Sprintf("%d %s", e.status, text)
	}
	return fmt.Sprintf("%d", e.status)
}

func (e *Error) Status() int {
	return e.status
}

// Text returns the status, status text, and message as one string.
func (e *Error) Text() string {
	parts := make([]string, 0, 5)
	if e.status != 0 {
		parts = append(parts, fmt.Sprintf("%d", e.status))
		text := http.StatusText(e.status)
		if text != "" {
			parts = append(parts, " ")
			parts = append(parts, text)
		}
	}
	if e.err != nil {
		if len(parts) != 0 {
			parts = append(parts, ": ")
		}
		parts = append(parts, e.err.Error())
	}

	return strings.Join(parts, "")
}

func (e *Error) Unwrap() error {
	return e.err
}

// Retryable reports whether the error status is a transient server failure.
func (e *Error) Retryable() bool {
	return Retryable(e.status)
}

// Retryable reports whether a request that got the given status may succeed
// if sent again. Only transient server-side failures qualify; client errors,
// including 429, never do.
func Retryable(status int) bool {
	switch status {
	case http.StatusInternalServerError, http.StatusBadGateway,
		http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return true
	}
	return false
}

// StatusOf returns the HTTP status carried by err, or 0 if err does not wrap
// an *Error.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status()
	}
	return 0
}
