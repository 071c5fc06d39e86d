// Package metrics expone métricas Prometheus del API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector registra las métricas del servidor. Los métodos toleran
// receiver nil para que el wiring sea opcional en tests.
type Collector struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpLatency  prometheus.Histogram

	adoptionsAccepted prometheus.Counter
	donations         prometheus.Counter
	refunds           prometheus.Counter
}

func NewCollector() *Collector {
	reg := prometheus.NewRegistry()

	c := &Collector{
		registry: reg,
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pawlume_http_requests_total",
			Help: "Requests HTTP por status code.",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "pawlume_http_latency_seconds",
			Help:    "Latencia de requests HTTP.",
			Buckets: prometheus.DefBuckets,
		}),
		adoptionsAccepted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pawlume_adoptions_accepted_total",
			Help: "Solicitudes de adopción aceptadas.",
		}),
		donations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pawlume_donations_recorded_total",
			Help: "Donaciones registradas en el ledger.",
		}),
		refunds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pawlume_donations_refunded_total",
			Help: "Refunds aplicados sobre el ledger.",
		}),
	}

	reg.MustRegister(c.httpRequests, c.httpLatency, c.adoptionsAccepted, c.donations, c.refunds)
	return c
}

func (c *Collector) RecordAdoptionAccepted() {
	if c == nil {
		return
	}
	c.adoptionsAccepted.Inc()
}

func (c *Collector) RecordDonation() {
	if c == nil {
		return
	}
	c.donations.Inc()
}

func (c *Collector) RecordRefund() {
	if c == nil {
		return
	}
	c.refunds.Inc()
}

// Handler expone /metrics.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// Middleware instrumenta status y latencia de cada request.
func (c *Collector) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if c == nil {
				next.ServeHTTP(w, r)
				return
			}

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(sw, r)

			c.httpRequests.WithLabelValues(strconv.Itoa(sw.status)).Inc()
			c.httpLatency.Observe(time.Since(start).Seconds())
		})
	}
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}
