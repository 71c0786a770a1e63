package vitals

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when the body is not JSON or does not
// carry the top-level lighthouseResult object.
var ErrMalformedResponse = errors.New("malformed response")

// ParseError reasons.
const (
	// ReasonMissingField means an expected field was absent.
	ReasonMissingField = "missing_field"

	// ReasonTypeMismatch means a field was present but not a number.
	ReasonTypeMismatch = "type_mismatch"

	// ReasonOutOfRange means a numeric field was negative.
	ReasonOutOfRange = "out_of_range"
)

// ParseError reports a required metric field that could not be read.
type ParseError struct {
	// Reason is one of the Reason constants.
	Reason string

	// Field is the JSON path of the offending field.
	Field string
}

// Error implements error.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error: %s: %s", e.Reason, e.Field)
}
