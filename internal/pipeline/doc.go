// Package pipeline runs a batch of URL assessments.
//
// A BatchProcessor normalizes the input URLs, expands each one into a task per
// device and hands every task to a probe.Prober. In parallel mode tasks run on
// an errgroup bounded by the configured concurrency. Serial mode uses the same
// path with a width of one and a pause after every task, which keeps
// anonymous callers under the upstream quota.
//
// A task never fails the batch. Every task yields exactly one row, and
// progress is published after each row is collected.
package pipeline
