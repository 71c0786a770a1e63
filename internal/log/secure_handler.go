package log

import (
	"context"
	"io"
	"log/slog"
	"regexp"
	"slices"
	"strings"
)

// sensitiveKeys contains attribute keys that should always be sanitized.
var sensitiveKeys = map[string]bool{
	// HTTP headers
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-goog-api-key":      true,
	"proxy-authorization": true,

	// PageSpeed Insights and generic API credentials
	"key":               true,
	"api_key":           true,
	"apikey":            true,
	"api-key":           true,
	"pagespeed_api_key": true,
	"access_token":      true,

	// Object storage
	"access_key":        true,
	"secret_key":        true,
	"secretkey":         true,
	"aws_secret_access": true,
	"session_token":     true,
}

// sensitivePatterns contains regex patterns that indicate sensitive values.
// Values matching these patterns will be sanitized regardless of key name.
var sensitivePatterns = []*regexp.Regexp{
	// Google API keys
	regexp.MustCompile(`^AIza[0-9A-Za-z_-]{35}$`),

	// Bearer tokens
	regexp.MustCompile(`(?i)^bearer\s+.+`),

	// Long alphanumeric strings
	regexp.MustCompile(`^[a-zA-Z0-9]{32,}$`),

	// AWS access keys
	regexp.MustCompile(`^(AKIA|ASIA)[0-9A-Z]{16}$`),
}

// sensitiveKeywords mark a key as sensitive when they appear anywhere in it.
var sensitiveKeywords = []string{"password", "secret", "token", "credential", "api_key", "apikey"}

// keyParam matches a credential query parameter inside a URL.
var keyParam = regexp.MustCompile(`([?&](?:key|api_key|apikey)=)[^&\s"']*`)

// MaskValue is the string used to replace sensitive values.
const MaskValue = "***REDACTED***"

// SecureHandler wraps an slog.Handler to sanitize sensitive information.
// It intercepts log records and sanitizes attribute values that match
// sensitive key names or value patterns before passing them to the
// underlying handler.
type SecureHandler struct {
	// handler is the underlying slog handler that receives sanitized records.
	handler slog.Handler
}

// NewSecureHandler creates a new SecureHandler wrapping the given handler.
// If handler is nil, the returned SecureHandler will use slog.Default().Handler().
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled reports whether the handler handles records at the given level.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle sanitizes the record's message and attributes and passes it to the
// underlying handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	sanitized := slog.NewRecord(r.Time, r.Level, RedactURLKey(r.Message), r.PC)

	r.Attrs(func(a slog.Attr) bool {
		sanitized.AddAttrs(h.sanitizeAttr(a))
		return true
	})

	return h.handler.Handle(ctx, sanitized)
}

// WithAttrs returns a new handler with the given attributes added.
// Attributes are sanitized before being added.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	sanitizedAttrs := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		sanitizedAttrs[i] = h.sanitizeAttr(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(sanitizedAttrs)}
}

// WithGroup returns a new handler with the given group name.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

// sanitizeAttr sanitizes a single attribute, recursively handling groups.
func (h *SecureHandler) sanitizeAttr(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	if a.Value.Kind() == slog.KindGroup {
		attrs := a.Value.Group()
		sanitizedAttrs := make([]slog.Attr, len(attrs))
		for i, groupAttr := range attrs {
			sanitizedAttrs[i] = h.sanitizeAttr(groupAttr)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(sanitizedAttrs...)}
	}

	keyLower := strings.ToLower(a.Key)
	if sensitiveKeys[keyLower] || containsSensitiveKeyword(keyLower) {
		return slog.String(a.Key, MaskValue)
	}

	switch a.Value.Kind() {
	case slog.KindString:
		if redacted, ok := redactString(a.Value.String()); ok {
			return slog.String(a.Key, redacted)
		}
	case slog.KindAny:
		// Transport errors embed the request URL.
		if err, ok := a.Value.Any().(error); ok && err != nil {
			if redacted, ok := redactString(err.Error()); ok {
				return slog.String(a.Key, redacted)
			}
		}
	}

	return a
}

// redactString masks s entirely when it looks like a credential, or only its
// key query parameters when it contains a URL. ok is false when s is clean.
func redactString(s string) (string, bool) {
	if isSensitiveValue(s) {
		return MaskValue, true
	}
	if redacted := RedactURLKey(s); redacted != s {
		return redacted, true
	}
	return s, false
}

// containsSensitiveKeyword checks if the key contains sensitive keywords.
// The bare "key" is matched exactly by sensitiveKeys only, so names like
// "monkey" or "cache_key" stay visible.
func containsSensitiveKeyword(key string) bool {
	return slices.ContainsFunc(sensitiveKeywords, func(kw string) bool {
		return strings.Contains(key, kw)
	})
}

// isSensitiveValue checks if a value matches sensitive patterns.
func isSensitiveValue(value string) bool {
	return slices.ContainsFunc(sensitivePatterns, func(re *regexp.Regexp) bool {
		return re.MatchString(value)
	})
}

// RedactURLKey masks the value of key, api_key and apikey query parameters
// anywhere in s.
func RedactURLKey(s string) string {
	if !strings.Contains(s, "key=") {
		return s
	}
	return keyParam.ReplaceAllString(s, "${1}"+MaskValue)
}

// NewSecureLogger returns a text logger on w that redacts credentials.
// verbose selects Debug instead of Warn.
func NewSecureLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewSecureJSONLogger creates a new slog.Logger with secure handling
// that outputs JSON format. Useful for structured log aggregation.
func NewSecureJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
