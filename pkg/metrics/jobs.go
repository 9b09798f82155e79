package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// JobMetrics records stock monitor job runs and the last observed stock
// health gauges.
type JobMetrics struct {
	duration    *prometheus.HistogramVec
	success     *prometheus.CounterVec
	failure     *prometheus.CounterVec
	lowStock    prometheus.Gauge
	orphanStock prometheus.Gauge
}

// NewJobMetrics registers the job metrics on the provided registerer.
func NewJobMetrics(reg prometheus.Registerer) *JobMetrics {
	if reg == nil {
		return &JobMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "job_duration_seconds",
		Help:      "Duration of scheduled jobs in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"job"})
	success := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_success_total",
		Help:      "Successful scheduled job executions.",
	}, []string{"job"})
	failure := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "job_failure_total",
		Help:      "Failed scheduled job executions.",
	}, []string{"job"})
	lowStock := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "low_stock_items",
		Help:      "Items at or below their minimum stock level at the last scan.",
	})
	orphanStock := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "orphan_stock_rows",
		Help:      "Stock rows whose SKU has no item master record at the last audit.",
	})
	reg.MustRegister(duration, success, failure, lowStock, orphanStock)
	return &JobMetrics{
		duration:    duration,
		success:     success,
		failure:     failure,
		lowStock:    lowStock,
		orphanStock: orphanStock,
	}
}

func (j *JobMetrics) ObserveDuration(job string, duration time.Duration) {
	if j == nil || j.duration == nil {
		return
	}
	j.duration.WithLabelValues(normalizeLabel(job)).Observe(duration.Seconds())
}

func (j *JobMetrics) IncSuccess(job string) {
	if j == nil || j.success == nil {
		return
	}
	j.success.WithLabelValues(normalizeLabel(job)).Inc()
}

func (j *JobMetrics) IncFailure(job string) {
	if j == nil || j.failure == nil {
		return
	}
	j.failure.WithLabelValues(normalizeLabel(job)).Inc()
}

func (j *JobMetrics) SetLowStockItems(n int) {
	if j == nil || j.lowStock == nil {
		return
	}
	j.lowStock.Set(float64(n))
}

func (j *JobMetrics) SetOrphanStockRows(n int) {
	if j == nil || j.orphanStock == nil {
		return
	}
	j.orphanStock.Set(float64(n))
}
