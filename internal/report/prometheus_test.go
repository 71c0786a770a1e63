package report

import (
	"bytes"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
)

// TestPrometheusWriter tests that the textfile output parses back.
func TestPrometheusWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewPrometheusWriter(&buf).Write(createTestReport()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var parser expfmt.TextParser
	families, err := parser.TextToMetricFamilies(&buf)
	if err != nil {
		t.Fatalf("output does not parse: %v", err)
	}

	score, ok := families["vitalscan_performance_score"]
	if !ok {
		t.Fatal("expected vitalscan_performance_score family")
	}
	if len(score.GetMetric()) != 2 {
		t.Fatalf("expected 2 score series, got %d", len(score.GetMetric()))
	}
	// Sorted by url: good.example before slow.example.
	if got := labelValue(score.GetMetric()[0], "url"); got != "https://good.example" {
		t.Errorf("expected first series for good.example, got %q", got)
	}
	if got := score.GetMetric()[0].GetGauge().GetValue(); got != 97 {
		t.Errorf("expected score 97, got %v", got)
	}

	failures, ok := families["vitalscan_probe_failures"]
	if !ok {
		t.Fatal("expected vitalscan_probe_failures family")
	}
	if len(failures.GetMetric()) != 4 {
		t.Errorf("expected one series per failure kind, got %d", len(failures.GetMetric()))
	}
	for _, m := range failures.GetMetric() {
		want := 0.0
		if labelValue(m, "kind") == "blocked_rate_limited" {
			want = 1
		}
		if m.GetGauge().GetValue() != want {
			t.Errorf("kind %s: expected %v, got %v", labelValue(m, "kind"), want, m.GetGauge().GetValue())
		}
	}

	pass := families["vitalscan_cwv_pass"]
	if pass == nil || len(pass.GetMetric()) != 2 {
		t.Fatal("expected 2 cwv_pass series")
	}
	if pass.GetMetric()[1].GetGauge().GetValue() != 0 {
		t.Error("expected slow.example to fail")
	}

	if _, ok := families["vitalscan_last_run_timestamp_seconds"]; !ok {
		t.Error("expected last run timestamp")
	}
}

// TestFamiliesSkipsEmpty tests that families without series are dropped.
func TestFamiliesSkipsEmpty(t *testing.T) {
	t.Parallel()

	report := createTestReport()
	report.Rows = report.Rows[2:]

	for _, mf := range Families(report) {
		if len(mf.GetMetric()) == 0 {
			t.Errorf("family %s has no series", mf.GetName())
		}
		if mf.GetName() == "vitalscan_inp_milliseconds" {
			t.Error("expected no INP family without success rows")
		}
	}
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
