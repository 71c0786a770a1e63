// Package log provides secure logging functionality with automatic sanitization
// of credentials, built on top of the standard slog package.
//
// # Security Features
//
// The SecureHandler masks attributes whose key names a credential
// (api_key, secret_key, authorization, ...) and values that look like one,
// such as Google API keys and AWS access keys. It also rewrites the key
// query parameter of any URL that appears in a string or error value, so
// request URLs built for the PageSpeed Insights API can be logged safely:
//
//	https://www.googleapis.com/pagespeedonline/v5/runPagespeed?key=AIza...&url=...
//
// becomes
//
//	https://www.googleapis.com/pagespeedonline/v5/runPagespeed?key=***REDACTED***&url=...
//
// # Usage
//
//	logger := log.NewSecureLogger(os.Stderr, verbose)
//	slog.SetDefault(logger)
package log
