// Package telemetry installs the OpenTelemetry tracer provider.
//
// Tracing is off unless an OTLP/HTTP endpoint is configured. When it is on,
// probe spans and the outbound PageSpeed Insights requests are exported in
// batches and flushed on Shutdown.
package telemetry
