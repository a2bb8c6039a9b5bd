package prometheus

import (
	"context"
	"errors"
	"time"

	"github.com/marmos91/sandboxfs/pkg/metrics"
	"github.com/marmos91/sandboxfs/pkg/store"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// storeMetrics is the Prometheus implementation of metrics.StoreMetrics.
type storeMetrics struct {
	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	contentSize       *prometheus.HistogramVec
	files             prometheus.Gauge
}

// NewStoreMetrics creates a new Prometheus-backed StoreMetrics instance.
//
// Returns a no-op implementation if metrics are not enabled (InitRegistry not called).
func NewStoreMetrics() metrics.StoreMetrics {
	if !metrics.IsEnabled() {
		return metrics.NewNoopStoreMetrics()
	}

	reg := metrics.GetRegistry()

	return &storeMetrics{
		operationsTotal: promauto.With(reg).NewCounterVec(
			prometheus.CounterOpts{
				Name: "sandboxfs_store_operations_total",
				Help: "Total number of file store operations by operation and result",
			},
			[]string{"operation", "result"},
		),
		operationDuration: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "sandboxfs_store_operation_duration_milliseconds",
				Help: "Duration of file store operations in milliseconds",
				Buckets: []float64{
					0.1,  // 100us
					1,    // 1ms
					10,   // 10ms
					100,  // 100ms
					1000, // 1s
				},
			},
			[]string{"operation"},
		),
		contentSize: promauto.With(reg).NewHistogramVec(
			prometheus.HistogramOpts{
				Name: "sandboxfs_store_content_size_bytes",
				Help: "Distribution of content sizes read or written",
				Buckets: []float64{
					1024,     // 1KB
					65536,    // 64KB
					1048576,  // 1MB
					10485760, // 10MB
				},
			},
			[]string{"operation"},
		),
		files: promauto.With(reg).NewGauge(
			prometheus.GaugeOpts{
				Name: "sandboxfs_store_files",
				Help: "Number of managed files seen by the last listing",
			},
		),
	}
}

func (m *storeMetrics) RecordOperation(operation string, duration time.Duration, err error) {
	m.operationsTotal.WithLabelValues(operation, resultLabel(err)).Inc()
	m.operationDuration.WithLabelValues(operation).Observe(duration.Seconds() * 1000)
}

func (m *storeMetrics) RecordBytes(operation string, bytes int) {
	m.contentSize.WithLabelValues(operation).Observe(float64(bytes))
}

func (m *storeMetrics) SetFileCount(count int) {
	m.files.Set(float64(count))
}

// resultLabel keeps the label set bounded: one value per sentinel error.
func resultLabel(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, store.ErrNotFound):
		return "not_found"
	case errors.Is(err, store.ErrExists):
		return "exists"
	case errors.Is(err, store.ErrInvalidName):
		return "invalid_name"
	case errors.Is(err, store.ErrInvalidEncoding):
		return "invalid_encoding"
	case errors.Is(err, store.ErrNotRegular):
		return "not_regular"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "error"
	}
}
