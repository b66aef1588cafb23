package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Registry holds all Prometheus metrics for SmartPark
type Registry struct {
	// HTTP metrics
	HTTPRequestsTotal    prometheus.CounterVec
	HTTPRequestDuration  prometheus.HistogramVec
	HTTPRequestsInFlight prometheus.GaugeVec

	// Allocation engine metrics
	FlightsAllocatedTotal   prometheus.Counter
	FlightsUnallocatedTotal prometheus.Counter
	FlightsReleasedTotal    prometheus.Counter
	FlightsArchivedTotal    prometheus.Counter
	BatchRunDuration        prometheus.Histogram
}

// NewRegistry initializes and returns a new Registry with all metrics
func NewRegistry() *Registry {
	return &Registry{
		HTTPRequestsTotal: *promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "smartpark_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: *promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "smartpark_http_request_duration_seconds",
				Help:    "HTTP request latency by endpoint and method",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: *promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "smartpark_http_requests_in_flight",
				Help: "Number of HTTP requests currently being served",
			},
			[]string{"endpoint"},
		),
		FlightsAllocatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "smartpark_flights_allocated_total",
				Help: "Flights successfully matched to a stand",
			},
		),
		FlightsUnallocatedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "smartpark_flights_unallocated_total",
				Help: "Flights the engine could not match to any stand",
			},
		),
		FlightsReleasedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "smartpark_flights_released_total",
				Help: "Allocated flights released back to pending by incident cascades",
			},
		),
		FlightsArchivedTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "smartpark_flights_archived_total",
				Help: "Completed flights written to the allocation history archive",
			},
		),
		BatchRunDuration: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "smartpark_batch_run_duration_seconds",
				Help:    "Duration of allocation batch runs",
				Buckets: prometheus.DefBuckets,
			},
		),
	}
}

// AddAllocated records n successful allocations. Nil-safe so services can
// run without a registry in tests.
func (m *Registry) AddAllocated(n int) {
	if m == nil {
		return
	}
	m.FlightsAllocatedTotal.Add(float64(n))
}

// AddUnallocated records n failed allocation attempts
func (m *Registry) AddUnallocated(n int) {
	if m == nil {
		return
	}
	m.FlightsUnallocatedTotal.Add(float64(n))
}

// AddReleased records n flights released by a cascade
func (m *Registry) AddReleased(n int) {
	if m == nil {
		return
	}
	m.FlightsReleasedTotal.Add(float64(n))
}

// AddArchived records n flights archived by the completion sweep
func (m *Registry) AddArchived(n int) {
	if m == nil {
		return
	}
	m.FlightsArchivedTotal.Add(float64(n))
}

// ObserveBatchDuration records the duration of one batch run in seconds
func (m *Registry) ObserveBatchDuration(seconds float64) {
	if m == nil {
		return
	}
	m.BatchRunDuration.Observe(seconds)
}
