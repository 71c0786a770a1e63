package model

import "time"

// FailureKind tags why a probe did not produce metrics.
type FailureKind string

const (
	// FailureTransport covers connection errors, timeouts and unreadable bodies.
	FailureTransport FailureKind = "transport_error"

	// FailureRateLimited is any non-200 answer from the API. In practice this
	// is quota exhaustion, which changes the guidance shown to the user.
	FailureRateLimited FailureKind = "blocked_rate_limited"

	// FailureMalformed means the body was not JSON or lacked the top-level
	// lighthouseResult object.
	FailureMalformed FailureKind = "malformed_response"

	// FailureParse means an expected metric field was missing or mistyped.
	FailureParse FailureKind = "parse_error"
)

// AllFailureKinds lists every failure kind in reporting order.
var AllFailureKinds = []FailureKind{
	FailureTransport,
	FailureRateLimited,
	FailureMalformed,
	FailureParse,
}

// ReportRow is the single outcome of one ProbeTask.
//
// A row is either a success (Metrics, Classified and Diagnostic set, Failure
// empty) or a failure (Failure set, the rest nil). Use OK to tell them apart.
type ReportRow struct {
	// Task identifies the (url, device) pair.
	Task ProbeTask `json:"task"`

	// Metrics is the extracted metric set. Nil for failures.
	Metrics *MetricSet `json:"metrics,omitempty"`

	// Classified holds one entry per classifiable metric. Nil for failures.
	Classified []ClassifiedMetric `json:"classified,omitempty"`

	// Diagnostic is the remediation signal. Nil for failures.
	Diagnostic *DiagnosticResult `json:"diagnostic,omitempty"`

	// Failure is the failure kind, empty on success.
	Failure FailureKind `json:"failure,omitempty"`

	// FailureDetail is the underlying error text, for logs and JSON output.
	FailureDetail string `json:"failure_detail,omitempty"`

	// Timestamp is when the outcome was observed.
	Timestamp time.Time `json:"timestamp"`
}

// NewSuccessRow builds a success row.
func NewSuccessRow(task ProbeTask, ms MetricSet, classified []ClassifiedMetric, diag DiagnosticResult, at time.Time) ReportRow {
	return ReportRow{
		Task:       task,
		Metrics:    &ms,
		Classified: classified,
		Diagnostic: &diag,
		Timestamp:  at,
	}
}

// NewFailureRow builds a failure row. err may be nil.
func NewFailureRow(task ProbeTask, kind FailureKind, err error, at time.Time) ReportRow {
	row := ReportRow{
		Task:      task,
		Failure:   kind,
		Timestamp: at,
	}
	if err != nil {
		row.FailureDetail = err.Error()
	}
	return row
}

// OK reports whether the row is a success.
func (r ReportRow) OK() bool {
	return r.Failure == "" && r.Metrics != nil
}

// Status returns the classified status for name and whether it was present.
func (r ReportRow) Status(name MetricName) (Status, bool) {
	for _, c := range r.Classified {
		if c.Name == name {
			return c.Status, true
		}
	}
	return "", false
}
