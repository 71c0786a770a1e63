// Package model defines the data structures shared by the assessment engine.
//
// The types here flow one way: a ProbeTask is built by the orchestrator,
// turned into a MetricSet and ClassifiedMetric slice by the vitals package,
// summarised into a DiagnosticResult, and finally wrapped in a ReportRow that
// is appended to the Report. None of these values are mutated after they are
// produced.
package model
