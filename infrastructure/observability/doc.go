// Package observability carries the client's Prometheus metrics and
// OpenTelemetry tracing. Both are optional: a nil *Collector ignores
// observations and a disabled tracer records nothing.
package observability
