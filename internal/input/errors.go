package input

import "errors"

// ErrEmptyInput is returned when the source holds no rows at all.
var ErrEmptyInput = errors.New("input is empty")
