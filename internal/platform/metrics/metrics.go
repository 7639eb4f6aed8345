package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Resolution results reported by IncURLResolution.
const (
	ResultHit      = "hit"
	ResultMiss     = "miss"
	ResultNotFound = "not_found"
)

// Metrics holds the Prometheus collectors exposed by the sitecam server.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry         *prometheus.Registry
	requestsTotal    *prometheus.CounterVec
	errorsTotal      prometheus.Counter
	artifactsCreated *prometheus.CounterVec
	artifactsDeleted *prometheus.CounterVec
	urlResolutions   *prometheus.CounterVec
	sharesCreated    prometheus.Counter
	artifactsStored  *prometheus.GaugeVec
}

// New creates the collectors on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	m := &Metrics{
		registry: registry,
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitecam_requests_total",
			Help: "Total number of HTTP requests received, by method",
		}, []string{"method"}),
		errorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitecam_errors_total",
			Help: "Total number of HTTP responses with error status (4xx or 5xx)",
		}),
		artifactsCreated: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitecam_artifacts_created_total",
			Help: "Annotations, note flags and bookmarks created, by kind",
		}, []string{"kind"}),
		artifactsDeleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitecam_artifacts_deleted_total",
			Help: "Annotations, note flags and bookmarks deleted, by kind",
		}, []string{"kind"}),
		urlResolutions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "sitecam_url_resolutions_total",
			Help: "Clip URL resolutions, by result",
		}, []string{"result"}),
		sharesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "sitecam_shares_created_total",
			Help: "Share links issued",
		}),
		artifactsStored: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "sitecam_artifacts_stored",
			Help: "Artifacts currently held by the store, by kind",
		}, []string{"kind"}),
	}

	registry.MustRegister(
		m.requestsTotal,
		m.errorsTotal,
		m.artifactsCreated,
		m.artifactsDeleted,
		m.urlResolutions,
		m.sharesCreated,
		m.artifactsStored,
	)

	return m
}

// IncRequests increments the request counter for method.
func (m *Metrics) IncRequests(method string) {
	if m == nil {
		return
	}
	m.requestsTotal.WithLabelValues(method).Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	if m == nil {
		return
	}
	m.errorsTotal.Inc()
}

func (m *Metrics) IncArtifactsCreated(kind string) {
	if m == nil {
		return
	}
	m.artifactsCreated.WithLabelValues(kind).Inc()
}

func (m *Metrics) IncArtifactsDeleted(kind string) {
	if m == nil {
		return
	}
	m.artifactsDeleted.WithLabelValues(kind).Inc()
}

// IncURLResolution records one clip URL lookup; result is one of the Result* constants.
func (m *Metrics) IncURLResolution(result string) {
	if m == nil {
		return
	}
	m.urlResolutions.WithLabelValues(result).Inc()
}

func (m *Metrics) IncSharesCreated() {
	if m == nil {
		return
	}
	m.sharesCreated.Inc()
}

// SetArtifactsStored sets the stored-artifacts gauge for kind.
func (m *Metrics) SetArtifactsStored(kind string, n int) {
	if m == nil {
		return
	}
	m.artifactsStored.WithLabelValues(kind).Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values (e.g. stored artifacts).
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
