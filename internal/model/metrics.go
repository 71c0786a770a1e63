package model

// MetricName identifies a classifiable metric.
type MetricName string

const (
	// MetricLCP is Largest Contentful Paint, in seconds.
	MetricLCP MetricName = "LCP"

	// MetricCLS is Cumulative Layout Shift, unitless.
	MetricCLS MetricName = "CLS"

	// MetricINP is Interaction to Next Paint, in milliseconds.
	MetricINP MetricName = "INP"

	// MetricPerformance is the Lighthouse performance score on a 0-100 scale.
	MetricPerformance MetricName = "PERFORMANCE"
)

// CoreWebVitals is the pass/fail triad in its fixed reporting order.
var CoreWebVitals = []MetricName{MetricLCP, MetricCLS, MetricINP}

// MetricSet holds the raw values extracted from one API response.
// All values are non-negative.
type MetricSet struct {
	// LCPSeconds is Largest Contentful Paint in seconds.
	LCPSeconds float64 `json:"lcp_seconds"`

	// CLS is Cumulative Layout Shift.
	CLS float64 `json:"cls"`

	// INPMilliseconds is Interaction to Next Paint in milliseconds.
	// It is zero when INPMeasured is false.
	INPMilliseconds float64 `json:"inp_ms"`

	// INPMeasured is false when the response did not contain an INP audit.
	INPMeasured bool `json:"inp_measured"`

	// FCPSeconds is First Contentful Paint in seconds. Descriptive only.
	FCPSeconds float64 `json:"fcp_seconds"`

	// TTFBMilliseconds is the server response time in milliseconds. Descriptive only.
	TTFBMilliseconds float64 `json:"ttfb_ms"`

	// PerformanceScore is the Lighthouse performance category score, 0-100.
	PerformanceScore float64 `json:"performance_score"`
}

// Status is the three-level verdict for one metric.
type Status string

const (
	// StatusGood means the metric is within the "good" threshold.
	StatusGood Status = "good"

	// StatusNeedsImprovement means the metric is between the two thresholds.
	StatusNeedsImprovement Status = "needs_improvement"

	// StatusPoor means the metric exceeds the upper threshold.
	StatusPoor Status = "poor"
)

// ClassifiedMetric pairs a metric value with its verdict.
type ClassifiedMetric struct {
	Name   MetricName `json:"name"`
	Value  float64    `json:"value"`
	Status Status     `json:"status"`
}

// DiagnosticResult is the remediation signal derived from classified metrics.
type DiagnosticResult struct {
	// FixPriorityScore is a coarse ranking heuristic. Only compare it across
	// rows; it carries no absolute meaning.
	FixPriorityScore float64 `json:"fix_priority_score"`

	// FailingMetrics lists Core Web Vitals not classified good, in the order
	// LCP, CLS, INP.
	FailingMetrics []MetricName `json:"failing_metrics"`

	// RootCauses has one entry per poor metric.
	RootCauses []string `json:"root_causes"`

	// Recommendations has one entry per poor metric, aligned with RootCauses.
	Recommendations []string `json:"recommendations"`

	// OverallPass is true when FailingMetrics is empty.
	OverallPass bool `json:"overall_pass"`
}
