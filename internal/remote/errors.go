package remote

import (
	"errors"
	"fmt"
)

// ErrNoSession is returned when an authenticated call is attempted without
// a valid stored token.
var ErrNoSession = errors.New("no active session")

// FetchError is the single failure kind of the remote layer. Non-2xx
// responses, transport errors, malformed payloads and a missing session all
// collapse into it; StatusCode is zero when no response was received.
type FetchError struct {
	Op         string
	StatusCode int
	Err        error
}

// Error implements the error interface.
func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("remote %s failed with status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("remote %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FetchError) Unwrap() error {
	return e.Err
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.StatusCode
	}
	return 0
}
