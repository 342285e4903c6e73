package gateway

import (
	"errors"
	"fmt"
)

// TransportError is the single failure kind of the gateway: a dial or I/O failure, a non-2xx
// status, or a body that could not be decoded.
type TransportError struct {
	Op     string
	Method string
	URL    string

	// Status is zero when no response was received.
	Status int
	Body   string

	Err error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s %s: %v", e.Op, e.Method, e.URL, e.Err)
	}
	msg := fmt.Sprintf("%s: %s %s: unexpected status %d", e.Op, e.Method, e.URL, e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransportError reports whether err is, or wraps, a *TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
