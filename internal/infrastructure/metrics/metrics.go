// Package metrics contadores e histogramas Prometheus del API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jhoicas/stock-dashboard/internal/application/inventory"
)

var _ inventory.AdjustmentRecorder = (*Metrics)(nil)

// Metrics agrupa los colectores registrados.
type Metrics struct {
	adjustments     *prometheus.CounterVec
	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	streams         *prometheus.GaugeVec
	gatherer        prometheus.Gatherer
}

// New crea y registra los colectores en reg. Con nil usa un registro nuevo
// (más los colectores de proceso y runtime de Go).
func New(namespace string, reg *prometheus.Registry) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
		reg.MustRegister(prometheus.NewGoCollector(), prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))
	}
	m := &Metrics{
		adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_adjustments_total",
			Help:      "Ajustes de stock por acción y resultado.",
		}, []string{"action", "result"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Requests HTTP por método, ruta y status.",
		}, []string{"method", "route", "status"}),
		requestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duración de requests HTTP.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		streams: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "stream_subscribers",
			Help:      "Suscriptores SSE activos por tópico.",
		}, []string{"topic"}),
		gatherer: reg,
	}
	reg.MustRegister(m.adjustments, m.requests, m.requestDuration, m.streams)
	return m
}

// ObserveAdjustment implementa inventory.AdjustmentRecorder.
func (m *Metrics) ObserveAdjustment(action, result string) {
	m.adjustments.WithLabelValues(action, result).Inc()
}

// ObserveRequest registra un request terminado.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// StreamOpened / StreamClosed llevan la cuenta de suscriptores SSE.
func (m *Metrics) StreamOpened(topic string) { m.streams.WithLabelValues(topic).Inc() }
func (m *Metrics) StreamClosed(topic string) { m.streams.WithLabelValues(topic).Dec() }

// Handler expone /metrics en formato Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
