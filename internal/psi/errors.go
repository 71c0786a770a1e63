package psi

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidProxyAddress is returned when the proxy address is not "host:port".
	ErrInvalidProxyAddress = errors.New("invalid proxy address format: expected host:port")

	// ErrEmptyURL is returned when Run is called without a target URL.
	ErrEmptyURL = errors.New("target url is empty")
)

// StatusError is returned when the API answers with a status other than 200.
type StatusError struct {
	// StatusCode is the HTTP status received.
	StatusCode int

	// Body is the beginning of the response body, for diagnostics.
	Body string
}

// Error implements error.
func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("pagespeed api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("pagespeed api returned status %d: %s", e.StatusCode, e.Body)
}
