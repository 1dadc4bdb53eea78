// Package apierr defines the error taxonomy shared by the API clients and
// the services that consume them.
package apierr

import (
	"errors"
	"fmt"
)

// ErrUnauthenticated means no usable bearer token (or user id) is
// available; operations abort before any request is issued.
var ErrUnauthenticated = errors.New("unauthenticated: no bearer token available")

// ErrSendInFlight is returned when a send is attempted while a previous
// send on the same session has not settled.
var ErrSendInFlight = errors.New("a message send is already in flight")

// ErrSessionActive is returned when a session transition is attempted
// while another session is already open.
var ErrSessionActive = errors.New("a session is already active")

// ErrNoActiveSession is returned when a session-scoped operation is
// attempted from the selecting state.
var ErrNoActiveSession = errors.New("no active session")

// RemoteError is a non-2xx HTTP response, carrying the server's message
// when one was available.
type RemoteError struct {
	Status  int
	Message string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("remote error: status %d", e.Status)
	}
	return fmt.Sprintf("remote error: status %d: %s", e.Status, e.Message)
}

// MalformedResponseError means the body did not parse or did not match
// the expected shape. Distinguished from RemoteError so callers can tell
// a broken contract from a refused request.
type MalformedResponseError struct {
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return "malformed response: " + e.Reason
}

// NetworkError wraps a request that never completed.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "network error: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// IsRemoteStatus reports whether err is a RemoteError with the given
// HTTP status.
func IsRemoteStatus(err error, status int) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Status == status
}
