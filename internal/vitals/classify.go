package vitals

import "github.com/nao1215/vitalscan/internal/model"

// threshold holds the two published bounds for one metric.
// For lower-is-better metrics a value <= good is good and <= needsImprovement
// needs improvement. For the performance score the comparison is inverted:
// >= good is good and >= needsImprovement needs improvement.
type threshold struct {
	good             float64
	needsImprovement float64
	higherIsBetter   bool
}

// thresholds are the published Core Web Vitals and Lighthouse score bands.
// The performance score uses the 0-100 display scale (0.9 and 0.5 raw).
var thresholds = map[model.MetricName]threshold{
	model.MetricLCP:         {good: 2.5, needsImprovement: 4.0},
	model.MetricCLS:         {good: 0.1, needsImprovement: 0.25},
	model.MetricINP:         {good: 200, needsImprovement: 500},
	model.MetricPerformance: {good: 90, needsImprovement: 50, higherIsBetter: true},
}

// Classify maps a metric value onto a status. Boundaries are inclusive on the
// better side. Metrics without thresholds are descriptive and classify as good.
func Classify(name model.MetricName, value float64) model.Status {
	th, ok := thresholds[name]
	if !ok {
		return model.StatusGood
	}

	if th.higherIsBetter {
		switch {
		case value >= th.good:
			return model.StatusGood
		case value >= th.needsImprovement:
			return model.StatusNeedsImprovement
		default:
			return model.StatusPoor
		}
	}

	switch {
	case value <= th.good:
		return model.StatusGood
	case value <= th.needsImprovement:
		return model.StatusNeedsImprovement
	default:
		return model.StatusPoor
	}
}

// ClassifyAll classifies every classifiable metric of ms in the order LCP,
// CLS, INP, PERFORMANCE. INP is left out when it was not measured.
func ClassifyAll(ms model.MetricSet) []model.ClassifiedMetric {
	out := make([]model.ClassifiedMetric, 0, 4)
	add := func(name model.MetricName, v float64) {
		out = append(out, model.ClassifiedMetric{Name: name, Value: v, Status: Classify(name, v)})
	}

	add(model.MetricLCP, ms.LCPSeconds)
	add(model.MetricCLS, ms.CLS)
	if ms.INPMeasured {
		add(model.MetricINP, ms.INPMilliseconds)
	}
	add(model.MetricPerformance, ms.PerformanceScore)

	return out
}
