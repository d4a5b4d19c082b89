// Package monitoring provides Prometheus metrics for the embedding layer.
//
// Recorded series:
//   - v8shim_snippet_evaluations_total{op}: snippets evaluated per host API verb
//   - v8shim_exceptions_total{source}: exceptions routed by the bridge
//   - v8shim_metadata_records / v8shim_metadata_reclaimed_total: side-table size
//   - v8shim_accessor_invocations_total{kind}: host callbacks entered from script
//   - v8shim_protected_refs: engine references pinned by metadata and accessors
//   - v8shim_script_duration_seconds: Context.RunScript latency
//
// Example Usage:
//
//	metrics := monitoring.NewMetrics()
//	iso, err := v8.NewIsolate(v8.CreateParams{Metrics: metrics})
//	...
//	metrics.WriteText(os.Stderr)
package monitoring
