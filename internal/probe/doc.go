// Package probe runs a single (URL, device) assessment and always returns a
// report row.
//
// A probe moves through Dispatched, AwaitingResponse and then exactly one of
// Parsed or Failed. Every failure is captured in the row with a
// model.FailureKind; nothing is returned as an error and nothing is retried.
package probe
