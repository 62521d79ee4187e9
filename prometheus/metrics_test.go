package prometheus_test

import (
	"testing"
	"time"

	"github.com/jkowalik/sitesnap/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_counters_increment(t *testing.T) {
	t.Parallel()

	m := prometheus.NewMetrics()

	m.IncRequest("head")
	m.IncRequest("get")
	m.IncRequest("get")
	m.IncSaved()
	m.IncSkip("robots")
	m.IncSkip("robots")
	m.IncSkip("oversize")
	m.IncError("fetch")

	assert.Equal(t, float64(1), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("head")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.RequestsTotal.WithLabelValues("get")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PagesSavedTotal))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.SkipsTotal.WithLabelValues("robots")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SkipsTotal.WithLabelValues("oversize")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.ErrorsTotal.WithLabelValues("fetch")))
}

func TestMetrics_registered_on_dedicated_registry(t *testing.T) {
	t.Parallel()

	m := prometheus.NewMetrics()
	m.IncSaved()
	m.ObserveDuration(50 * time.Millisecond)

	families, err := m.Registry.Gather()
	require.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, mf := range families {
		names[mf.GetName()] = true
	}
	assert.True(t, names["crawler_pages_saved_total"])
	assert.True(t, names["crawler_request_duration_seconds"])
}

func TestMetrics_nil_receiver_is_noop(t *testing.T) {
	t.Parallel()

	var m *prometheus.Metrics

	assert.NotPanics(t, func() {
		m.IncRequest("head")
		m.ObserveDuration(time.Second)
		m.IncSaved()
		m.IncSkip("excluded")
		m.IncError("save")
	})
}
