package model

import "time"

// Report is the ordered collection of rows produced by one batch run.
// Rows appear in completion order, which is not deterministic in parallel mode.
type Report struct {
	// Rows holds one entry per task.
	Rows []ReportRow `json:"rows"`

	// StartedAt is when the batch began.
	StartedAt time.Time `json:"started_at"`

	// FinishedAt is when the last task reached a terminal state.
	FinishedAt time.Time `json:"finished_at"`
}

// NewReport creates an empty report with capacity for n rows.
func NewReport(n int, startedAt time.Time) *Report {
	return &Report{
		Rows:      make([]ReportRow, 0, n),
		StartedAt: startedAt,
	}
}

// Append adds a row. The orchestrator serialises calls.
func (r *Report) Append(row ReportRow) {
	r.Rows = append(r.Rows, row)
}

// Len returns the number of rows.
func (r *Report) Len() int {
	return len(r.Rows)
}

// Progress is the completion signal published after every collected row.
type Progress struct {
	// Completed is the number of tasks that reached a terminal state.
	Completed int

	// Total is the number of tasks in the batch.
	Total int

	// Row is the row that was just collected.
	Row ReportRow
}

// Fraction returns Completed/Total in [0,1]. An empty batch reports 1.
func (p Progress) Fraction() float64 {
	if p.Total <= 0 {
		return 1
	}
	f := float64(p.Completed) / float64(p.Total)
	if f > 1 {
		return 1
	}
	return f
}

// Summary aggregates a report. Failed rows are counted but never enter the
// numeric aggregates.
type Summary struct {
	// Total is the number of rows.
	Total int `json:"total"`

	// Succeeded is the number of success rows.
	Succeeded int `json:"succeeded"`

	// Failed is the number of failure rows.
	Failed int `json:"failed"`

	// Passed is the number of success rows with OverallPass.
	Passed int `json:"passed"`

	// FailuresByKind counts failure rows per kind.
	FailuresByKind map[FailureKind]int `json:"failures_by_kind"`

	// MeanScoreByDevice is the mean performance score of success rows per device.
	// Devices without any success row are absent.
	MeanScoreByDevice map[Device]float64 `json:"mean_score_by_device"`

	// MeanScore is the mean performance score over all success rows.
	// Zero when there are none.
	MeanScore float64 `json:"mean_score"`
}

// Summary computes aggregates over the report.
func (r *Report) Summary() Summary {
	s := Summary{
		Total:             len(r.Rows),
		FailuresByKind:    make(map[FailureKind]int),
		MeanScoreByDevice: make(map[Device]float64),
	}

	sums := make(map[Device]float64)
	counts := make(map[Device]int)
	var total float64

	for _, row := range r.Rows {
		if !row.OK() {
			s.Failed++
			s.FailuresByKind[row.Failure]++
			continue
		}
		s.Succeeded++
		if row.Diagnostic != nil && row.Diagnostic.OverallPass {
			s.Passed++
		}
		sums[row.Task.Device] += row.Metrics.PerformanceScore
		counts[row.Task.Device]++
		total += row.Metrics.PerformanceScore
	}

	for d, n := range counts {
		s.MeanScoreByDevice[d] = sums[d] / float64(n)
	}
	if s.Succeeded > 0 {
		s.MeanScore = total / float64(s.Succeeded)
	}
	return s
}

// HasRateLimited reports whether any row was blocked by the API.
func (s Summary) HasRateLimited() bool {
	return s.FailuresByKind[FailureRateLimited] > 0
}
