package monitoring

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	m := NewMetrics()

	m.RecordSnippet("Get")
	m.RecordSnippet("Get")
	m.RecordSnippet("Set")
	m.RecordException(SourceScript)
	m.RecordAccessor(KindGetter)
	m.MetadataCreated()
	m.MetadataCreated()
	m.MetadataReleased()
	m.AddProtected(3)
	m.AddProtected(-1)
	m.ObserveScript(time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.SnippetEvaluations.WithLabelValues("Get")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SnippetEvaluations.WithLabelValues("Set")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Exceptions.WithLabelValues(SourceScript)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.AccessorInvocations.WithLabelValues(KindGetter)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MetadataRecords))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.MetadataReclaimed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ProtectedRefs))
}

func TestMetricsIndependentRegistries(t *testing.T) {
	a := NewMetrics()
	b := NewMetrics()

	a.RecordSnippet("Has")

	assert.Equal(t, 1.0, testutil.ToFloat64(a.SnippetEvaluations.WithLabelValues("Has")))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SnippetEvaluations.WithLabelValues("Has")))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.RecordSnippet("Get")
		m.RecordException(SourceHost)
		m.MetadataCreated()
		m.MetadataReleased()
		m.RecordAccessor(KindSetter)
		m.AddProtected(1)
		m.ObserveScript(time.Second)
	})
	assert.Nil(t, m.Registry())
	assert.NoError(t, m.WriteText(&bytes.Buffer{}))
}

func TestWriteText(t *testing.T) {
	m := NewMetrics()
	m.RecordSnippet("Delete")

	var buf bytes.Buffer
	require.NoError(t, m.WriteText(&buf))
	assert.Contains(t, buf.String(), `v8shim_snippet_evaluations_total{op="Delete"} 1`)
}
