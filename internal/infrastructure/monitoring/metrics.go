package monitoring

import (
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

// Exception sources.
const (
	SourceScript   = "script"
	SourceHost     = "host"
	SourceCallback = "callback"
)

// Accessor invocation kinds.
const (
	KindGetter   = "getter"
	KindSetter   = "setter"
	KindFunction = "function"
)

// Metrics holds the Prometheus metrics of the embedding layer. Every Metrics
// value owns its registry so several isolates pools (and tests) can coexist
// in one process. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	SnippetEvaluations  *prometheus.CounterVec
	Exceptions          *prometheus.CounterVec
	MetadataRecords     prometheus.Gauge
	MetadataReclaimed   prometheus.Counter
	AccessorInvocations *prometheus.CounterVec
	ProtectedRefs       prometheus.Gauge
	ScriptDuration      prometheus.Histogram
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		SnippetEvaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "v8shim_snippet_evaluations_total",
				Help: "Total number of script snippets evaluated on behalf of host API calls",
			},
			[]string{"op"},
		),
		Exceptions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "v8shim_exceptions_total",
				Help: "Total number of exceptions routed through the exception bridge",
			},
			[]string{"source"},
		),
		MetadataRecords: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "v8shim_metadata_records",
				Help: "Number of live instance metadata records",
			},
		),
		MetadataReclaimed: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "v8shim_metadata_reclaimed_total",
				Help: "Total number of metadata records released after their object was reclaimed",
			},
		),
		AccessorInvocations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "v8shim_accessor_invocations_total",
				Help: "Total number of host callbacks invoked from script",
			},
			[]string{"kind"},
		),
		ProtectedRefs: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "v8shim_protected_refs",
				Help: "Number of engine references currently protected by the embedding layer",
			},
		),
		ScriptDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "v8shim_script_duration_seconds",
				Help:    "Script run duration in seconds",
				Buckets: []float64{.0001, .001, .005, .01, .05, .1, .5, 1, 5},
			},
		),
	}
}

// Registry returns the registry the metrics are registered with
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// RecordSnippet records a snippet evaluation for a host API operation
func (m *Metrics) RecordSnippet(op string) {
	if m == nil {
		return
	}
	m.SnippetEvaluations.WithLabelValues(op).Inc()
}

// RecordException records an exception routed by the bridge
func (m *Metrics) RecordException(source string) {
	if m == nil {
		return
	}
	m.Exceptions.WithLabelValues(source).Inc()
}

// MetadataCreated records a new metadata record
func (m *Metrics) MetadataCreated() {
	if m == nil {
		return
	}
	m.MetadataRecords.Inc()
}

// MetadataReleased records a released metadata record
func (m *Metrics) MetadataReleased() {
	if m == nil {
		return
	}
	m.MetadataRecords.Dec()
	m.MetadataReclaimed.Inc()
}

// RecordAccessor records a callback invocation
func (m *Metrics) RecordAccessor(kind string) {
	if m == nil {
		return
	}
	m.AccessorInvocations.WithLabelValues(kind).Inc()
}

// AddProtected adjusts the protected reference gauge
func (m *Metrics) AddProtected(delta int) {
	if m == nil {
		return
	}
	m.ProtectedRefs.Add(float64(delta))
}

// ObserveScript records a script run
func (m *Metrics) ObserveScript(d time.Duration) {
	if m == nil {
		return
	}
	m.ScriptDuration.Observe(d.Seconds())
}

// WriteText writes every metric in the Prometheus text exposition format
func (m *Metrics) WriteText(w io.Writer) error {
	if m == nil {
		return nil
	}
	families, err := m.registry.Gather()
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return err
		}
	}
	return nil
}
