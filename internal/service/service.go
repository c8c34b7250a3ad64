// Package service talks to the social REST backend. It owns the request
// shapes for every command variant, an HTTP client with a retry policy,
// and the user-facing action API that falls back to the offline cache
// when the network is not there.
package service

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrUnauthorized indicates the session token was rejected.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrNoRequest indicates no request shape exists for a command.
	ErrNoRequest = errors.New("no request for command")
)

// Request is one opaque REST call: the core does not own the wire
// protocol, it only fills in what the backend defined.
type Request struct {
	Method string
	Path   string
	Body   []byte
}

// StatusError carries a non-2xx HTTP status.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("server returned status %d", e.Code)
}

// IsTransient reports whether the failure is worth retrying: server-side
// errors and transport failures are, client errors are not.
func IsTransient(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	// Transport-level failures (connection refused, timeouts) arrive as
	// plain errors from the HTTP client.
	return err != nil && !errors.Is(err, ErrUnauthorized)
}

// RemoteService executes a single request against the backend. No retry
// discipline is implied by the interface itself; implementations choose
// their own.
type RemoteService interface {
	Execute(ctx context.Context, req *Request) ([]byte, error)
	Ping(ctx context.Context) error
}
