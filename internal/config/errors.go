package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
var (
	// ErrNoTarget is returned when neither a URL argument nor a list file is given.
	ErrNoTarget = errors.New("no target specified: provide one or more URLs or use --list")

	// ErrInvalidTimeout is returned when the per-request timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidConcurrency is returned when the parallel width is not positive.
	ErrInvalidConcurrency = errors.New("invalid concurrency: must be positive")

	// ErrInvalidMode is returned for a scheduling mode other than parallel or serial.
	ErrInvalidMode = errors.New("invalid mode: must be parallel or serial")

	// ErrInvalidDelay is returned when the serial delay is negative.
	ErrInvalidDelay = errors.New("invalid delay: must be non-negative")

	// ErrInvalidDevice is returned when a device is neither mobile nor desktop.
	ErrInvalidDevice = errors.New("invalid device: must be mobile or desktop")

	// ErrS3CredentialsIncomplete is returned when only half of a static key pair is set.
	ErrS3CredentialsIncomplete = errors.New("incomplete s3 credentials: set both access key and secret key")
)
