package vitals

import (
	"testing"

	"github.com/nao1215/vitalscan/internal/model"
)

// TestClassifyBoundaries tests threshold boundaries for every classified metric.
func TestClassifyBoundaries(t *testing.T) {
	t.Parallel()

	tests := []struct {
		metric model.MetricName
		value  float64
		want   model.Status
	}{
		{model.MetricLCP, 0, model.StatusGood},
		{model.MetricLCP, 2.5, model.StatusGood},
		{model.MetricLCP, 2.500001, model.StatusNeedsImprovement},
		{model.MetricLCP, 4.0, model.StatusNeedsImprovement},
		{model.MetricLCP, 4.000001, model.StatusPoor},

		{model.MetricCLS, 0.1, model.StatusGood},
		{model.MetricCLS, 0.100001, model.StatusNeedsImprovement},
		{model.MetricCLS, 0.25, model.StatusNeedsImprovement},
		{model.MetricCLS, 0.250001, model.StatusPoor},

		{model.MetricINP, 200, model.StatusGood},
		{model.MetricINP, 200.000001, model.StatusNeedsImprovement},
		{model.MetricINP, 500, model.StatusNeedsImprovement},
		{model.MetricINP, 500.000001, model.StatusPoor},

		{model.MetricPerformance, 100, model.StatusGood},
		{model.MetricPerformance, 90, model.StatusGood},
		{model.MetricPerformance, 89.999, model.StatusNeedsImprovement},
		{model.MetricPerformance, 50, model.StatusNeedsImprovement},
		{model.MetricPerformance, 49.999, model.StatusPoor},
		{model.MetricPerformance, 0, model.StatusPoor},
	}

	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			t.Parallel()

			if got := Classify(tt.metric, tt.value); got != tt.want {
				t.Errorf("Classify(%s, %v) = %s, want %s", tt.metric, tt.value, got, tt.want)
			}
		})
	}
}

// TestClassifyIsPure tests that repeated calls agree.
func TestClassifyIsPure(t *testing.T) {
	t.Parallel()

	values := []float64{0, 0.1, 2.5, 3.3, 4, 199, 250, 501, 1e9}
	for _, name := range []model.MetricName{model.MetricLCP, model.MetricCLS, model.MetricINP, model.MetricPerformance} {
		for _, v := range values {
			first := Classify(name, v)
			for i := 0; i < 3; i++ {
				if got := Classify(name, v); got != first {
					t.Errorf("Classify(%s, %v) changed from %s to %s", name, v, first, got)
				}
			}
		}
	}
}

// TestClassifyUnknownMetric tests that descriptive metrics classify as good.
func TestClassifyUnknownMetric(t *testing.T) {
	t.Parallel()

	if got := Classify(model.MetricName("FCP"), 99); got != model.StatusGood {
		t.Errorf("expected good for unthresholded metric, got %s", got)
	}
}

// TestClassifyAll tests ordering and INP omission.
func TestClassifyAll(t *testing.T) {
	t.Parallel()

	t.Run("measured INP is included", func(t *testing.T) {
		t.Parallel()

		got := ClassifyAll(model.MetricSet{LCPSeconds: 5, CLS: 0.2, INPMilliseconds: 100, INPMeasured: true, PerformanceScore: 40})
		want := []model.ClassifiedMetric{
			{Name: model.MetricLCP, Value: 5, Status: model.StatusPoor},
			{Name: model.MetricCLS, Value: 0.2, Status: model.StatusNeedsImprovement},
			{Name: model.MetricINP, Value: 100, Status: model.StatusGood},
			{Name: model.MetricPerformance, Value: 40, Status: model.StatusPoor},
		}
		if len(got) != len(want) {
			t.Fatalf("expected %d metrics, got %d", len(want), len(got))
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("index %d: expected %+v, got %+v", i, want[i], got[i])
			}
		}
	})

	t.Run("unmeasured INP is omitted", func(t *testing.T) {
		t.Parallel()

		got := ClassifyAll(model.MetricSet{LCPSeconds: 1, CLS: 0, PerformanceScore: 99})
		for _, c := range got {
			if c.Name == model.MetricINP {
				t.Error("expected INP to be omitted")
			}
		}
		if len(got) != 3 {
			t.Errorf("expected 3 metrics, got %d", len(got))
		}
	})
}
