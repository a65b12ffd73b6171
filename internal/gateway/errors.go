package gateway

import (
	"errors"
	"fmt"
)

// ErrEndpointUnavailable is returned when the backend does not expose an
// optional endpoint (404, 405 or 501). Callers use it as a capability check.
var ErrEndpointUnavailable = errors.New("endpoint unavailable")

// NetworkError is a request that never produced an HTTP response: the backend
// was unreachable, DNS failed, or the context was cancelled.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

// FetchError is a non-success HTTP response. Message is what the user should
// see: the backend's JSON "error" field, a preview of a non-JSON body, or a
// generic per-operation message.
type FetchError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *FetchError) Error() string { return e.Message }

// ParseError is a success response whose body was not the expected JSON.
type ParseError struct {
	Op  string
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: invalid response body: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// UserMessage returns the text to show for a failed mutation.
func UserMessage(err error) string {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Message
	}
	var ne *NetworkError
	if errors.As(err, &ne) {
		return "Could not reach the server. Please try again."
	}
	if err == nil {
		return ""
	}
	return err.Error()
}
