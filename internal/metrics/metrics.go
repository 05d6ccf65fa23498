// Package metrics exposes Prometheus instrumentation for the diary store and
// its HTTP surface.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mark31d/OlympusAirDiary/internal/models"
)

// Collector holds all Prometheus metrics for one process. Each Collector owns
// its registry, so tests can build as many as they like.
type Collector struct {
	registry *prometheus.Registry

	// Store metrics
	Mutations     *prometheus.CounterVec
	PersistWrites *prometheus.CounterVec
	Memories      prometheus.Gauge
	Points        prometheus.Gauge

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	gaugeMu      sync.Mutex
	gaugeVersion uint64
}

// NewCollector creates and registers every metric under namespace.
func NewCollector(namespace string) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		Mutations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "mutations_total",
				Help:      "Store mutations applied, by operation",
			},
			[]string{"op"},
		),
		PersistWrites: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "persist_writes_total",
				Help:      "Durable writes attempted, by key and result",
			},
			[]string{"key", "result"},
		),
		Memories: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memories",
			Help:      "Memory records currently held",
		}),
		Points: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "points",
			Help:      "Current rewards balance",
		}),
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
	}

	c.registry.MustRegister(
		c.Mutations,
		c.PersistWrites,
		c.Memories,
		c.Points,
		c.HTTPRequests,
		c.HTTPDuration,
		collectors.NewGoCollector(),
	)
	return c
}

// MutationApplied implements diary.Recorder.
func (c *Collector) MutationApplied(op string) {
	c.Mutations.WithLabelValues(op).Inc()
}

// PersistCompleted implements diary.Recorder.
func (c *Collector) PersistCompleted(key string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	c.PersistWrites.WithLabelValues(key, result).Inc()
}

// ObserveSnapshot updates the state gauges. Subscribe it to the store.
// Snapshots older than the last one observed are ignored.
func (c *Collector) ObserveSnapshot(snap models.Snapshot) {
	c.gaugeMu.Lock()
	defer c.gaugeMu.Unlock()
	if snap.Version < c.gaugeVersion {
		return
	}
	c.gaugeVersion = snap.Version
	c.Memories.Set(float64(len(snap.Memories)))
	c.Points.Set(float64(snap.Points))
}

// ObserveRequest records one finished HTTP request.
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Registry returns the registry backing this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}
