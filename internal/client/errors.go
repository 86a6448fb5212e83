package client

import (
	"errors"
	"fmt"
)

// ErrTransportTimeout is returned when a call misses its deadline. No retry
// happens at this layer.
var ErrTransportTimeout = errors.New("transport deadline exceeded")

// ErrClosed is returned for calls issued after the channel went away.
var ErrClosed = errors.New("transport closed")

// TransportError wraps a channel-level failure for one operation.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteError is a business error reported by the backend.
type RemoteError struct {
	Op     string
	Code   string
	Reason string
}

func (e *RemoteError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("remote error (%s): %s: %s", e.Code, e.Op, e.Reason)
	}
	return fmt.Sprintf("remote error: %s: %s", e.Op, e.Reason)
}

func AsRemoteError(err error) *RemoteError {
	var remote *RemoteError
	if errors.As(err, &remote) {
		return remote
	}
	return nil
}
