package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles the service's prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	RequestDuration *prometheus.HistogramVec
	MatchesRecorded prometheus.Counter
	RatingDelta     prometheus.Histogram
	EventsPublished *prometheus.CounterVec
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "padel",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		MatchesRecorded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "padel",
			Name:      "matches_recorded_total",
			Help:      "Match results recorded.",
		}),
		RatingDelta: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "padel",
			Name:      "rating_delta",
			Help:      "Absolute per-player rating change per match.",
			Buckets:   []float64{1, 2, 5, 10, 20, 40, 80},
		}),
		EventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "padel",
			Name:      "events_published_total",
			Help:      "Domain events published, by type.",
		}, []string{"event_type"}),
	}
	m.registry.MustRegister(m.RequestDuration, m.MatchesRecorded, m.RatingDelta, m.EventsPublished)
	return m
}

// Handler serves the /metrics endpoint.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one request into the duration histogram. The route
// label must be a path template, not a raw path, to keep cardinality bounded.
func (m *Metrics) ObserveRequest(route, method string, status int, duration time.Duration) {
	m.RequestDuration.WithLabelValues(route, method, strconv.Itoa(status)).
		Observe(duration.Seconds())
}
