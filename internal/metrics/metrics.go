package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors exported on /metrics.
type Metrics struct {
	requests       *prometheus.CounterVec
	latency        *prometheus.HistogramVec
	quizDraws      *prometheus.CounterVec
	quizRejections prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trivia",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, by route pattern, method and status.",
		}, []string{"route", "method", "status"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "trivia",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route pattern and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		quizDraws: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "trivia",
			Subsystem: "quiz",
			Name:      "draws_total",
			Help:      "Quiz draws by outcome.",
		}, []string{"outcome"}),
		quizRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "trivia",
			Subsystem: "quiz",
			Name:      "rejections_total",
			Help:      "Random draws discarded because the question was already asked.",
		}),
	}
	reg.MustRegister(m.requests, m.latency, m.quizDraws, m.quizRejections)
	return m
}

// ObserveRequest records one finished HTTP request. An empty route means no
// pattern matched.
func (m *Metrics) ObserveRequest(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	if route == "" {
		route = "unmatched"
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.latency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

// ObserveQuizDraw records the outcome of a quiz draw.
func (m *Metrics) ObserveQuizDraw(outcome string, rejections int) {
	if m == nil {
		return
	}
	m.quizDraws.WithLabelValues(outcome).Inc()
	if rejections > 0 {
		m.quizRejections.Add(float64(rejections))
	}
}
