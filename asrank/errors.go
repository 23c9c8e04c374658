package asrank

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrNoDataset is returned when the ASRank service has no dataset at all,
	// neither before nor after the requested time.
	ErrNoDataset = errors.New("no asrank dataset available")
	// ErrClosed is returned by operations on a closed session.
	ErrClosed = errors.New("session closed")
	// ErrMalformedResponse is returned when a response does not have the
	// structure expected for the query that was sent.
	ErrMalformedResponse = errors.New("malformed asrank response")
)

// MalformedResponseError carries the query and the response that did not
// match it.
type MalformedResponseError struct {
	Query    string
	Response string
	Err      error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: %s", ErrMalformedResponse, e.Err)
}

func (e *MalformedResponseError) Unwrap() []error {
	return []error{ErrMalformedResponse, e.Err}
}

// malformed logs the query and response and returns a MalformedResponseError.
func malformed(query string, data json.RawMessage, err error) error {
	log.Errorw("Malformed response", "err", err, "response", string(data), "query", query)
	return &MalformedResponseError{
		Query:    query,
		Response: string(data),
		Err:      err,
	}
}
