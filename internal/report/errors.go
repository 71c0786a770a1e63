package report

import "errors"

// ErrUnknownFormat is returned when a format name is not recognised.
var ErrUnknownFormat = errors.New("unknown report format: must be csv, json, markdown, text or prometheus")
