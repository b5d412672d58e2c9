package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "zpanel"

// Metrics holds the panel's collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	Requests       *prometheus.CounterVec
	RequestLatency *prometheus.HistogramVec
	Actions        *prometheus.CounterVec
	Installs       *prometheus.CounterVec
	ApplianceUp    prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "appliance_requests_total",
				Help:      "Requests sent to the appliance API by path and outcome.",
			}, []string{"method", "path", "code"}),
		RequestLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "appliance_request_duration_seconds",
				Help:      "Time spent on appliance API requests.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"method", "path"}),
		Actions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "system_actions_total",
				Help:      "System actions dispatched from the panel.",
			}, []string{"command"}),
		Installs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "install_sessions_total",
				Help:      "Install streams bridged to the appliance by result.",
			}, []string{"result"}),
		ApplianceUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "appliance_up",
				Help:      "1 when the last reachability probe succeeded.",
			}),
	}
	m.registry.MustRegister(m.Requests, m.RequestLatency, m.Actions, m.Installs, m.ApplianceUp)
	return m
}

// ObserveRequest records one appliance exchange. Transport failures are
// counted with code "error".
func (m *Metrics) ObserveRequest(method, path string, status int, err error, elapsed time.Duration) {
	code := "error"
	if err == nil {
		code = strconv.Itoa(status)
	}
	m.Requests.WithLabelValues(method, path, code).Inc()
	m.RequestLatency.WithLabelValues(method, path).Observe(elapsed.Seconds())
}

// SetApplianceUp records the latest reachability probe.
func (m *Metrics) SetApplianceUp(up bool) {
	if up {
		m.ApplianceUp.Set(1)
		return
	}
	m.ApplianceUp.Set(0)
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
