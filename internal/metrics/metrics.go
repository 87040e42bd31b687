package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	TaskProcessed   *prometheus.CounterVec
	ActiveWorkers   prometheus.Gauge
	PlacesRequests  *prometheus.CounterVec
	PlacesDurations *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	return &Metrics{
		TaskProcessed: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "places_tasks_processed_total",
			Help: "Total number of processed geocoding tasks.",
		}, []string{"status"}),
		ActiveWorkers: promauto.With(reg).NewGauge(prometheus.GaugeOpts{
			Name: "places_active_workers",
			Help: "Current number of active workers processing tasks.",
		}),
		PlacesRequests: promauto.With(reg).NewCounterVec(prometheus.CounterOpts{
			Name: "places_api_requests_total",
			Help: "Total number of requests sent to the Algolia Places API.",
		}, []string{"operation", "code"}),
		PlacesDurations: promauto.With(reg).NewHistogramVec(prometheus.HistogramOpts{
			Name:    "places_api_request_duration_seconds",
			Help:    "Duration of requests to the Algolia Places API.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
	}
}

// ObserveRequest records a single Places API call. A zero status code is
// reported as "error".
func (m *Metrics) ObserveRequest(operation string, statusCode int, elapsed time.Duration) {
	code := "error"
	if statusCode != 0 {
		code = strconv.Itoa(statusCode)
	}

	m.PlacesRequests.WithLabelValues(operation, code).Inc()
	m.PlacesDurations.WithLabelValues(operation).Observe(elapsed.Seconds())
}
