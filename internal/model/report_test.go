package model

import (
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

var testTime = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

// successRow builds a success row with the given score and pass verdict.
func successRow(url string, device Device, score float64, pass bool) ReportRow {
	ms := MetricSet{
		LCPSeconds:       1.8,
		CLS:              0.05,
		INPMilliseconds:  150,
		INPMeasured:      true,
		FCPSeconds:       1.2,
		TTFBMilliseconds: 320,
		PerformanceScore: score,
	}
	classified := []ClassifiedMetric{
		{Name: MetricLCP, Value: 1.8, Status: StatusGood},
		{Name: MetricCLS, Value: 0.05, Status: StatusGood},
		{Name: MetricINP, Value: 150, Status: StatusGood},
	}
	diag := DiagnosticResult{OverallPass: pass}
	if !pass {
		diag.FailingMetrics = []MetricName{MetricLCP}
		diag.FixPriorityScore = 3
		diag.RootCauses = []string{"slow server"}
		diag.Recommendations = []string{"optimize images"}
	}
	return NewSuccessRow(ProbeTask{URL: url, Device: device}, ms, classified, diag, testTime)
}

// TestReportSummary tests aggregate computation.
func TestReportSummary(t *testing.T) {
	t.Parallel()

	t.Run("failed rows are excluded from mean scores", func(t *testing.T) {
		t.Parallel()

		r := NewReport(4, testTime)
		r.Append(successRow("https://a.example", DeviceMobile, 40, false))
		r.Append(successRow("https://b.example", DeviceMobile, 80, true))
		r.Append(successRow("https://a.example", DeviceDesktop, 90, true))
		r.Append(NewFailureRow(ProbeTask{URL: "https://b.example", Device: DeviceDesktop},
			FailureRateLimited, errors.New("status 429"), testTime))

		s := r.Summary()

		if s.Total != 4 || s.Succeeded != 3 || s.Failed != 1 {
			t.Errorf("unexpected counts: %+v", s)
		}
		if s.Passed != 2 {
			t.Errorf("expected 2 passed, got %d", s.Passed)
		}
		if got := s.MeanScoreByDevice[DeviceMobile]; got != 60 {
			t.Errorf("expected mobile mean 60, got %v", got)
		}
		if got := s.MeanScoreByDevice[DeviceDesktop]; got != 90 {
			t.Errorf("expected desktop mean 90, got %v", got)
		}
		if math.Abs(s.MeanScore-70) > 1e-9 {
			t.Errorf("expected overall mean 70, got %v", s.MeanScore)
		}
		if !s.HasRateLimited() {
			t.Error("expected rate limited flag")
		}
	})

	t.Run("all failed report has no device means", func(t *testing.T) {
		t.Parallel()

		r := NewReport(1, testTime)
		r.Append(NewFailureRow(ProbeTask{URL: "https://a.example", Device: DeviceMobile},
			FailureTransport, nil, testTime))

		s := r.Summary()
		if len(s.MeanScoreByDevice) != 0 {
			t.Errorf("expected no device means, got %v", s.MeanScoreByDevice)
		}
		if s.MeanScore != 0 {
			t.Errorf("expected zero mean, got %v", s.MeanScore)
		}
		if s.FailuresByKind[FailureTransport] != 1 {
			t.Errorf("expected one transport failure, got %v", s.FailuresByKind)
		}
	})
}

// TestProgressFraction tests the progress fraction bounds.
func TestProgressFraction(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		p    Progress
		want float64
	}{
		{name: "half", p: Progress{Completed: 2, Total: 4}, want: 0.5},
		{name: "done", p: Progress{Completed: 4, Total: 4}, want: 1},
		{name: "empty batch", p: Progress{}, want: 1},
		{name: "clamped", p: Progress{Completed: 5, Total: 4}, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := tt.p.Fraction(); got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

// TestNewRecord tests flattening rows into display records.
func TestNewRecord(t *testing.T) {
	t.Parallel()

	t.Run("success row fills metric columns", func(t *testing.T) {
		t.Parallel()

		rec := NewRecord(successRow("https://a.example", DeviceMobile, 87, false))

		if rec.PerformanceScore != "87" {
			t.Errorf("expected score 87, got %q", rec.PerformanceScore)
		}
		if rec.LCP != "1.80" || rec.LCPStatus != "good" {
			t.Errorf("unexpected LCP cells %q/%q", rec.LCP, rec.LCPStatus)
		}
		if rec.CWVOverall != "fail" {
			t.Errorf("expected fail, got %q", rec.CWVOverall)
		}
		if rec.FailingMetrics != "LCP" {
			t.Errorf("expected failing LCP, got %q", rec.FailingMetrics)
		}
		if rec.Date != "2026-03-14" {
			t.Errorf("unexpected date %q", rec.Date)
		}
		if rec.Error != "" {
			t.Errorf("expected no error, got %q", rec.Error)
		}
		if len(rec.Values()) != len(RecordHeader) {
			t.Errorf("values/header length mismatch: %d vs %d", len(rec.Values()), len(RecordHeader))
		}
	})

	t.Run("failure row carries error marker only", func(t *testing.T) {
		t.Parallel()

		row := NewFailureRow(ProbeTask{URL: "https://a.example", Device: DeviceDesktop},
			FailureParse, errors.New("missing_field"), testTime)
		rec := NewRecord(row)

		if !strings.Contains(rec.Error, "parse_error") {
			t.Errorf("expected parse_error marker, got %q", rec.Error)
		}
		if rec.PerformanceScore != "" || rec.LCP != "" || rec.CWVOverall != "" {
			t.Errorf("expected empty metric cells, got %+v", rec)
		}
		if rec.URL != "https://a.example" || rec.Device != "desktop" {
			t.Errorf("unexpected identity cells %q/%q", rec.URL, rec.Device)
		}
	})

	t.Run("unmeasured INP renders not measured", func(t *testing.T) {
		t.Parallel()

		row := successRow("https://a.example", DeviceMobile, 95, true)
		row.Metrics.INPMeasured = false
		row.Metrics.INPMilliseconds = 0
		row.Classified = row.Classified[:2]

		rec := NewRecord(row)
		if rec.INP != "n/a" || rec.INPStatus != NotMeasured {
			t.Errorf("unexpected INP cells %q/%q", rec.INP, rec.INPStatus)
		}
	})
}
