package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "lifemap"

// metrics はサーバーごとのPrometheusメトリクスです。
// サーバーごとにレジストリを持つため、テストで複数のサーバーを作っても重複登録になりません。
type metrics struct {
	registry       *prometheus.Registry
	requests       *prometheus.CounterVec
	layoutDuration prometheus.Histogram
	layoutItems    prometheus.Histogram
	skippedItems   prometheus.Counter
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "status"},
		),
		layoutDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "layout_duration_seconds",
			Help:      "Time spent computing a timeline layout",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 8),
		}),
		layoutItems: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Name:      "layout_items",
			Help:      "Number of items placed by a layout pass",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 10),
		}),
		skippedItems: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "layout_skipped_items_total",
			Help:      "Items skipped because their category does not exist",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.requests,
		m.layoutDuration,
		m.layoutItems,
		m.skippedItems,
	)
	return m
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
