package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gomaterials_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gomaterials_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	MaterialOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gomaterials_material_operations_total",
			Help: "Total number of material operations by outcome",
		},
		[]string{"operation", "result"},
	)

	AttachmentBytes = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gomaterials_attachment_bytes_written_total",
			Help: "Total number of attachment bytes written",
		},
		[]string{"kind"},
	)
)

func init() {
	prometheus.MustRegister(
		RequestsTotal,
		RequestDuration,
		MaterialOperations,
		AttachmentBytes,
	)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func RecordRequest(method, route, status string, duration time.Duration) {
	RequestsTotal.WithLabelValues(method, route, status).Inc()
	RequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordOperation counts a material operation; err decides the result label.
func RecordOperation(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	MaterialOperations.WithLabelValues(operation, result).Inc()
}

func RecordAttachment(kind string, size int64) {
	AttachmentBytes.WithLabelValues(kind).Add(float64(size))
}
