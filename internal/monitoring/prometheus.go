package monitoring

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"PriceBoard/internal/model"
)

// Metrics holds all Prometheus metrics.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	selectionsTotal     *prometheus.CounterVec
	seriesPoints        prometheus.Gauge
	currentPrice        prometheus.Gauge
	percentChange       prometheus.Gauge
}

// NewMetrics creates the metrics on a private registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "priceboard_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "priceboard_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		selectionsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "priceboard_range_selections_total",
				Help: "Range selections by range id and outcome",
			},
			[]string{"range", "outcome"},
		),
		seriesPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "priceboard_series_points",
			Help: "Number of points in the current series",
		}),
		currentPrice: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "priceboard_current_price",
			Help: "Current price of the selected series",
		}),
		percentChange: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "priceboard_percent_change",
			Help: "Percent change over the selected range",
		}),
	}

	m.registry.MustRegister(
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.selectionsTotal,
		m.seriesPoints,
		m.currentPrice,
		m.percentChange,
		prometheus.NewGoCollector(),
	)
	return m
}

// RegisterGaugeFunc exposes a value sampled at scrape time.
func (m *Metrics) RegisterGaugeFunc(name, help string, fn func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{Name: name, Help: help}, fn))
}

// RecordSelectionFailure counts a failed selection attempt. Callers pass
// "unknown" as rangeID for ids outside the catalog to keep label cardinality bounded.
func (m *Metrics) RecordSelectionFailure(rangeID, outcome string) {
	m.selectionsTotal.WithLabelValues(rangeID, outcome).Inc()
}

func (m *Metrics) Name() string { return "metrics" }

// Publish records a successful selection.
func (m *Metrics) Publish(sel model.Selection) error {
	m.selectionsTotal.WithLabelValues(sel.Range.ID, "ok").Inc()
	m.seriesPoints.Set(float64(len(sel.Series)))
	m.currentPrice.Set(sel.Stats.CurrentPrice)
	m.percentChange.Set(sel.Stats.PercentChange)
	return nil
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Gatherer exposes the registry for tests and embedding.
func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

// MetricsMiddleware records request counts and latency per route.
func (m *Metrics) MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}
		m.httpRequestsTotal.WithLabelValues(c.Request.Method, endpoint, strconv.Itoa(c.Writer.Status())).Inc()
		m.httpRequestDuration.WithLabelValues(c.Request.Method, endpoint).Observe(time.Since(start).Seconds())
	}
}
