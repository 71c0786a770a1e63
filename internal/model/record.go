package model

import (
	"strconv"
	"strings"
)

// RecordHeader lists the column headers of the flat tabular export, in order.
var RecordHeader = []string{
	"URL",
	"Device",
	"Performance Score",
	"LCP (s)",
	"LCP Status",
	"CLS",
	"CLS Status",
	"INP (ms)",
	"INP Status",
	"FCP (s)",
	"TTFB (ms)",
	"CWV Overall",
	"Failing Metrics",
	"Fix Priority Score",
	"Root Cause",
	"Recommendation",
	"Date",
	"Error",
}

const (
	// NotMeasured is rendered in place of an unmeasured INP value and status.
	NotMeasured = "not_measured"

	// listSeparator joins multi-valued cells.
	listSeparator = "; "

	// dateLayout is the Date column format.
	dateLayout = "2006-01-02"
)

// Record is one ReportRow flattened into display strings.
// Failure rows leave every metric cell empty and fill Error.
type Record struct {
	URL              string `json:"url"`
	Device           string `json:"device"`
	PerformanceScore string `json:"performance_score"`
	LCP              string `json:"lcp_s"`
	LCPStatus        string `json:"lcp_status"`
	CLS              string `json:"cls"`
	CLSStatus        string `json:"cls_status"`
	INP              string `json:"inp_ms"`
	INPStatus        string `json:"inp_status"`
	FCP              string `json:"fcp_s"`
	TTFB             string `json:"ttfb_ms"`
	CWVOverall       string `json:"cwv_overall"`
	FailingMetrics   string `json:"failing_metrics"`
	FixPriorityScore string `json:"fix_priority_score"`
	RootCause        string `json:"root_cause"`
	Recommendation   string `json:"recommendation"`
	Date             string `json:"date"`
	Error            string `json:"error"`
}

// NewRecord flattens a row.
func NewRecord(row ReportRow) Record {
	rec := Record{
		URL:    row.Task.URL,
		Device: row.Task.Device.String(),
		Date:   row.Timestamp.Format(dateLayout),
	}

	if !row.OK() {
		rec.Error = "failed: " + string(row.Failure)
		return rec
	}

	ms := row.Metrics
	rec.PerformanceScore = formatFloat(ms.PerformanceScore, 0)
	rec.LCP = formatFloat(ms.LCPSeconds, 2)
	rec.CLS = formatFloat(ms.CLS, 3)
	rec.FCP = formatFloat(ms.FCPSeconds, 2)
	rec.TTFB = formatFloat(ms.TTFBMilliseconds, 0)

	if st, ok := row.Status(MetricLCP); ok {
		rec.LCPStatus = string(st)
	}
	if st, ok := row.Status(MetricCLS); ok {
		rec.CLSStatus = string(st)
	}
	if ms.INPMeasured {
		rec.INP = formatFloat(ms.INPMilliseconds, 0)
		if st, ok := row.Status(MetricINP); ok {
			rec.INPStatus = string(st)
		}
	} else {
		rec.INP = "n/a"
		rec.INPStatus = NotMeasured
	}

	if d := row.Diagnostic; d != nil {
		rec.CWVOverall = "fail"
		if d.OverallPass {
			rec.CWVOverall = "pass"
		}
		names := make([]string, len(d.FailingMetrics))
		for i, n := range d.FailingMetrics {
			names[i] = string(n)
		}
		rec.FailingMetrics = strings.Join(names, listSeparator)
		rec.FixPriorityScore = formatFloat(d.FixPriorityScore, 1)
		rec.RootCause = strings.Join(d.RootCauses, listSeparator)
		rec.Recommendation = strings.Join(d.Recommendations, listSeparator)
	}

	return rec
}

// Values returns the record cells in RecordHeader order.
func (r Record) Values() []string {
	return []string{
		r.URL,
		r.Device,
		r.PerformanceScore,
		r.LCP,
		r.LCPStatus,
		r.CLS,
		r.CLSStatus,
		r.INP,
		r.INPStatus,
		r.FCP,
		r.TTFB,
		r.CWVOverall,
		r.FailingMetrics,
		r.FixPriorityScore,
		r.RootCause,
		r.Recommendation,
		r.Date,
		r.Error,
	}
}

// Records flattens every row of the report, preserving order.
func (r *Report) Records() []Record {
	out := make([]Record, len(r.Rows))
	for i, row := range r.Rows {
		out[i] = NewRecord(row)
	}
	return out
}

func formatFloat(v float64, prec int) string {
	return strconv.FormatFloat(v, 'f', prec, 64)
}
