// Package vitals turns a PageSpeed Insights response into classified Core Web
// Vitals and a remediation signal.
//
// The package has three stages, all pure functions:
//
//   - DecodeResponse and Extract validate the response schema and produce a
//     model.MetricSet, or a typed error (ErrMalformedResponse, *ParseError).
//   - Classify maps a metric value to good, needs_improvement or poor using
//     the published thresholds.
//   - Diagnose derives the fix priority score, failing metrics and static
//     root cause and recommendation strings.
package vitals
