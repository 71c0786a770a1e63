package pipeline

import "errors"

// ErrNoURLs is returned when the input holds no URL after normalization.
var ErrNoURLs = errors.New("no urls to assess")
