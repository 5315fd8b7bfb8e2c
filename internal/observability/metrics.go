package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "botanica"

// Metrics holds the service's Prometheus collectors. A nil *Metrics is valid and
// records nothing, so callers never need to branch on whether metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	cartAdds        prometheus.Counter
	recommendations prometheus.Counter
	reservations    *prometheus.CounterVec
	stockCommits    *prometheus.CounterVec
	sessionsIssued  prometheus.Counter
	journeyAdvances *prometheus.CounterVec
	liveUpdates     *prometheus.CounterVec
	sseClients      prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request latency in seconds by method/route/status.",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		}, []string{"method", "route", "status"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "api",
			Name:      "inflight_requests",
			Help:      "In-flight API requests.",
		}),
		cartAdds: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "cart",
			Name:      "adds_total",
			Help:      "Products added to carts.",
		}),
		recommendations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "recommendations",
			Name:      "generated_total",
			Help:      "Recommendation result sets generated.",
		}),
		reservations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "reservations_total",
			Help:      "Stock reservation attempts by result.",
		}, []string{"result"}),
		stockCommits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "inventory",
			Name:      "stock_commits_total",
			Help:      "Reserved stock committed at order confirmation by result.",
		}, []string{"result"}),
		sessionsIssued: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "session",
			Name:      "issued_total",
			Help:      "Visitor sessions minted for requests without a valid token.",
		}),
		journeyAdvances: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "journey",
			Name:      "advance_attempts_total",
			Help:      "Journey advancement attempts by result.",
		}, []string{"result"}),
		liveUpdates: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "impact",
			Name:      "live_updates_total",
			Help:      "Live impact updates recorded by type.",
		}, []string{"type"}),
		sseClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "sse",
			Name:      "clients",
			Help:      "Connected SSE clients.",
		}),
	}
	m.registry.MustRegister(
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.cartAdds,
		m.recommendations,
		m.reservations,
		m.stockCommits,
		m.sessionsIssued,
		m.journeyAdvances,
		m.liveUpdates,
		m.sseClients,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

func (m *Metrics) ApiInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) ApiInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveAPI(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route, status).Observe(d.Seconds())
}

func (m *Metrics) IncCartAdd() {
	if m == nil {
		return
	}
	m.cartAdds.Inc()
}

func (m *Metrics) IncRecommendations() {
	if m == nil {
		return
	}
	m.recommendations.Inc()
}

func (m *Metrics) ObserveReservation(ok bool) {
	if m == nil {
		return
	}
	m.reservations.WithLabelValues(result(ok, "reserved", "insufficient")).Inc()
}

// ObserveStockCommit records whether a confirmed order found its reservation.
func (m *Metrics) ObserveStockCommit(ok bool) {
	if m == nil {
		return
	}
	m.stockCommits.WithLabelValues(result(ok, "committed", "missing")).Inc()
}

func (m *Metrics) IncSessionIssued() {
	if m == nil {
		return
	}
	m.sessionsIssued.Inc()
}

func (m *Metrics) ObserveJourneyAdvance(advanced bool) {
	if m == nil {
		return
	}
	m.journeyAdvances.WithLabelValues(result(advanced, "advanced", "blocked")).Inc()
}

func (m *Metrics) IncLiveUpdate(updateType string) {
	if m == nil {
		return
	}
	m.liveUpdates.WithLabelValues(updateType).Inc()
}

func (m *Metrics) SSEClientConnected() {
	if m == nil {
		return
	}
	m.sseClients.Inc()
}

func (m *Metrics) SSEClientDisconnected() {
	if m == nil {
		return
	}
	m.sseClients.Dec()
}

func result(ok bool, yes, no string) string {
	if ok {
		return yes
	}
	return no
}
