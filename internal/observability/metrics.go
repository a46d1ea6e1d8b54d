package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	RequestCount    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	FetchCount    *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	CacheHits     prometheus.Counter
	StaleServed   prometheus.Counter
	DroppedEvents prometheus.Counter
	CurrentStatus prometheus.Gauge
	HealthStatus  prometheus.Gauge

	registry *prometheus.Registry
	handler  http.Handler
}

func NewMetrics() *Metrics {
	return &Metrics{
		RequestCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint", "status_code"},
		),
		FetchCount: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "feed_fetch_total",
				Help: "Total number of feed fetch attempts",
			},
			[]string{"acquirer", "result"},
		),
		FetchDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "feed_fetch_duration_seconds",
				Help:    "Feed fetch cycle duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
		),
		CacheHits: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "verdict_cache_hits_total",
				Help: "Number of status requests served from the fresh cache",
			},
		),
		StaleServed: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "verdict_stale_served_total",
				Help: "Number of status requests served from the stale fallback cache",
			},
		),
		DroppedEvents: prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "feed_dropped_events_total",
				Help: "Number of malformed feed records dropped during normalization",
			},
		),
		CurrentStatus: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "platform_status",
				Help: "Current platform verdict (1 = operational, 0 = degraded, -1 = unknown)",
			},
		),
		HealthStatus: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "app_health_status",
				Help: "Application health status (1 = healthy, 0 = unhealthy)",
			},
		),
	}
}

func (m *Metrics) RecordRequest(method, endpoint string, statusCode int, duration time.Duration) {
	status := strconv.Itoa(statusCode)
	m.RequestCount.WithLabelValues(method, endpoint, status).Inc()
	m.RequestDuration.WithLabelValues(method, endpoint, status).Observe(duration.Seconds())
}

func (m *Metrics) RecordFetch(acquirer string, err error, duration time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.FetchCount.WithLabelValues(acquirer, result).Inc()
	m.FetchDuration.Observe(duration.Seconds())
}

// SetVerdictStatus maps the tri-state verdict onto the status gauge.
// The argument follows verdict.Status.String().
func (m *Metrics) SetVerdictStatus(status string) {
	switch status {
	case "operational":
		m.CurrentStatus.Set(1)
	case "degraded":
		m.CurrentStatus.Set(0)
	default:
		m.CurrentStatus.Set(-1)
	}
}

func (m *Metrics) SetHealthStatus(healthy bool) {
	if healthy {
		m.HealthStatus.Set(1)
	} else {
		m.HealthStatus.Set(0)
	}
}

func (m *Metrics) Handler() http.Handler {
	if m.handler != nil {
		return m.handler
	}
	return promhttp.Handler()
}

func (m *Metrics) Register() error {
	m.registry = prometheus.NewRegistry()

	collectors := []prometheus.Collector{
		m.RequestCount,
		m.RequestDuration,
		m.FetchCount,
		m.FetchDuration,
		m.CacheHits,
		m.StaleServed,
		m.DroppedEvents,
		m.CurrentStatus,
		m.HealthStatus,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return err
		}
	}

	m.handler = promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
	return nil
}
