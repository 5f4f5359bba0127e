package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// FileMetrics counts file operations by outcome. A nil *FileMetrics
// records nothing.
type FileMetrics struct {
	operations    *prometheus.CounterVec
	uploadedBytes prometheus.Counter
}

func NewFileMetrics(reg prometheus.Registerer) *FileMetrics {
	factory := promauto.With(reg)
	return &FileMetrics{
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "linkshare_file_operations_total",
			Help: "File operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		uploadedBytes: factory.NewCounter(prometheus.CounterOpts{
			Name: "linkshare_uploaded_bytes_total",
			Help: "Bytes accepted by successful uploads.",
		}),
	}
}

func (m *FileMetrics) observe(operation, outcome string) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
}

func (m *FileMetrics) uploaded(n int64) {
	if m == nil {
		return
	}
	m.uploadedBytes.Add(float64(n))
}
