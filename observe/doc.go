// Package observe provides logging, tracing and metrics for variable store
// operations.
//
// It is instrumentation only: InstrumentStore decorates a varstore.Store so
// every Get, GetOrCompute, Set and List records a span, counters, a duration
// histogram and a structured log line. The key builder and option registry
// never log on their own.
//
// Variable values are never logged; field keys listed in RedactedFields are
// masked.
package observe
