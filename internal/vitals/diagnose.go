package vitals

import "github.com/nao1215/vitalscan/internal/model"

// priorityWeights is the contribution of each Core Web Vital per status.
// Good contributes nothing.
var priorityWeights = map[model.MetricName]map[model.Status]float64{
	model.MetricLCP: {model.StatusPoor: 3, model.StatusNeedsImprovement: 0.5},
	model.MetricINP: {model.StatusPoor: 2, model.StatusNeedsImprovement: 0.5},
	model.MetricCLS: {model.StatusPoor: 1, model.StatusNeedsImprovement: 0.5},
}

// remedy is the static explanation attached to a poor metric.
type remedy struct {
	rootCause      string
	recommendation string
}

// remedies is only consulted for poor metrics.
var remedies = map[model.MetricName]remedy{
	model.MetricLCP: {
		rootCause:      "Slow server response, heavy images or render-blocking JavaScript",
		recommendation: "Reduce server response time, compress and preload the LCP image, defer render-blocking scripts",
	},
	model.MetricCLS: {
		rootCause:      "Layout shift from images, ads or web fonts without reserved space",
		recommendation: "Set explicit width and height on images and embeds, reserve ad slots, use font-display: swap with size-adjusted fallbacks",
	},
	model.MetricINP: {
		rootCause:      "Heavy JavaScript execution on the main thread",
		recommendation: "Break up long tasks, trim JavaScript bundles and delay third-party scripts",
	},
}

// Diagnose derives the remediation signal from classified metrics.
//
// Only LCP, CLS and INP take part. A metric missing from classified (for
// example an unmeasured INP) neither fails nor adds to the score. Root causes
// and recommendations are emitted for poor metrics only.
func Diagnose(classified []model.ClassifiedMetric) model.DiagnosticResult {
	statuses := make(map[model.MetricName]model.Status, len(classified))
	for _, c := range classified {
		statuses[c.Name] = c.Status
	}

	result := model.DiagnosticResult{
		FailingMetrics:  []model.MetricName{},
		RootCauses:      []string{},
		Recommendations: []string{},
	}

	for _, name := range model.CoreWebVitals {
		st, ok := statuses[name]
		if !ok || st == model.StatusGood {
			continue
		}

		result.FailingMetrics = append(result.FailingMetrics, name)
		result.FixPriorityScore += priorityWeights[name][st]

		if st == model.StatusPoor {
			r := remedies[name]
			result.RootCauses = append(result.RootCauses, r.rootCause)
			result.Recommendations = append(result.Recommendations, r.recommendation)
		}
	}

	result.OverallPass = len(result.FailingMetrics) == 0
	return result
}
