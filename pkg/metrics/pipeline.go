package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// PipelineMetrics records per-component outcomes of analytics runs.
type PipelineMetrics struct {
	duration *prometheus.HistogramVec
	success  *prometheus.CounterVec
	failure  *prometheus.CounterVec
	rows     *prometheus.HistogramVec
}

// NewPipelineMetrics registers the pipeline metrics on the provided registerer.
func NewPipelineMetrics(reg prometheus.Registerer) *PipelineMetrics {
	if reg == nil {
		return &PipelineMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_component_duration_seconds",
		Help:    "Duration of analytics pipeline components in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"component"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_component_success",
		Help: "Successful pipeline component executions.",
	}, []string{"component"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pipeline_component_failure",
		Help: "Failed pipeline component executions.",
	}, []string{"component"})
	rows := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pipeline_input_rows",
		Help:    "Canonical rows fed into each component.",
		Buckets: prometheus.ExponentialBuckets(10, 10, 7),
	}, []string{"component"})
	reg.MustRegister(duration, success, failure, rows)
	return &PipelineMetrics{
		duration: duration,
		success:  success,
		failure:  failure,
		rows:     rows,
	}
}

// ObserveDuration records the duration for the named component.
func (p *PipelineMetrics) ObserveDuration(component string, duration time.Duration) {
	if p == nil || p.duration == nil {
		return
	}
	p.duration.WithLabelValues(normalizeLabel(component)).Observe(duration.Seconds())
}

// ObserveRows records the input row count for the named component.
func (p *PipelineMetrics) ObserveRows(component string, rows int) {
	if p == nil || p.rows == nil {
		return
	}
	p.rows.WithLabelValues(normalizeLabel(component)).Observe(float64(rows))
}

// IncSuccess increments the success counter for the named component.
func (p *PipelineMetrics) IncSuccess(component string) {
	if p == nil || p.success == nil {
		return
	}
	p.success.WithLabelValues(normalizeLabel(component)).Inc()
}

// IncFailure increments the failure counter for the named component.
func (p *PipelineMetrics) IncFailure(component string) {
	if p == nil || p.failure == nil {
		return
	}
	p.failure.WithLabelValues(normalizeLabel(component)).Inc()
}

func normalizeLabel(component string) string {
	if component == "" {
		return "unknown"
	}
	return component
}
