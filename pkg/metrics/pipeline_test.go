package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestPipelineMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPipelineMetrics(reg)

	m.IncSuccess("clustering")
	m.IncSuccess("clustering")
	m.IncFailure("forecast")
	m.ObserveDuration("basket", 120*time.Millisecond)
	m.ObserveRows("basket", 500)

	if got := testutil.ToFloat64(m.success.WithLabelValues("clustering")); got != 2 {
		t.Fatalf("expected 2 successes, got %v", got)
	}
	if got := testutil.ToFloat64(m.failure.WithLabelValues("forecast")); got != 1 {
		t.Fatalf("expected 1 failure, got %v", got)
	}
}

func TestPipelineMetricsNilSafe(t *testing.T) {
	var m *PipelineMetrics
	m.IncSuccess("clustering")
	m.ObserveDuration("", time.Second)

	empty := NewPipelineMetrics(nil)
	empty.IncFailure("basket")
}
