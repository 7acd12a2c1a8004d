package rpc

import (
	"errors"
	"fmt"
	"net/http"
)

// StatusError reports a request the service answered with a non-success
// status. The connection that produced it remains usable.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	text := http.StatusText(e.Code)
	if text == "" {
		text = fmt.Sprintf("status %d", e.Code)
	}
	if e.Message == "" {
		return text
	}
	return fmt.Sprintf("%s: %s", text, e.Message)
}

// TransportError reports a failure below the request layer. The connection
// that produced it must be discarded.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// IsFatal reports whether err means the connection can no longer be used.
func IsFatal(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// StatusCode extracts the service status from err, or 0 when err did not
// come from the service.
func StatusCode(err error) int {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code
	}
	return 0
}
