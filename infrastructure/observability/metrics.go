// Package observability exposes Prometheus metrics for the service.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"funder/application/ports"
	pkgerrors "funder/pkg/errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Collector holds all Prometheus metrics for the application
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Model metrics
	Decodes *prometheus.CounterVec
	Stores  *prometheus.CounterVec
}

// NewCollector creates a collector with its own registry
func NewCollector(namespace string) *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		Decodes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "documents_decoded_total",
				Help:      "Total number of decoded documents by type and outcome",
			},
			[]string{"type", "outcome"},
		),
		Stores: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "entities_stored_total",
				Help:      "Total number of stored entities by type and outcome",
			},
			[]string{"type", "outcome"},
		),
	}

	registry.MustRegister(c.HTTPRequests, c.HTTPDuration, c.Decodes, c.Stores)
	return c
}

var _ ports.Metrics = (*Collector)(nil)

// ObserveDecode counts a decoded document
func (c *Collector) ObserveDecode(tag string, err error) {
	c.Decodes.WithLabelValues(labelType(tag), outcome(err)).Inc()
}

// ObserveStore counts a stored entity
func (c *Collector) ObserveStore(tag string, err error) {
	c.Stores.WithLabelValues(labelType(tag), outcome(err)).Inc()
}

// ObserveHTTP records a finished request
func (c *Collector) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry returns the collector's registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

func labelType(tag string) string {
	if tag == "" {
		return "unknown"
	}
	return tag
}

// outcome keeps label cardinality bounded by the error categories
func outcome(err error) string {
	if err == nil {
		return "ok"
	}
	if appErr := pkgerrors.GetAppError(err); appErr != nil {
		return string(appErr.Type)
	}
	return string(pkgerrors.ErrorTypeInternal)
}

// NopMetrics discards every observation
type NopMetrics struct{}

func (NopMetrics) ObserveDecode(string, error) {}
func (NopMetrics) ObserveStore(string, error)  {}
