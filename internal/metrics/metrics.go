package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "tidetracker"

// Collector holds the service metrics. A nil *Collector is valid and records
// nothing, so collaborators can take one optionally.
type Collector struct {
	RequestLatency     *prometheus.HistogramVec
	NOAAFetches        *prometheus.CounterVec
	CacheLookups       *prometheus.CounterVec
	ChartBuildDuration prometheus.Histogram
}

// NewCollector registers the metrics with reg. Pass prometheus.DefaultRegisterer
// to expose them through promhttp.Handler.
func NewCollector(reg prometheus.Registerer) *Collector {
	factory := promauto.With(reg)
	return &Collector{
		RequestLatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "request_latency_seconds",
				Help:      "HTTP request latencies in seconds.",
				Buckets:   []float64{0.001, 0.01, 0.1, 0.2, 0.4, 0.8, 1.0, 2.0, 4.0, 8.0},
			},
			[]string{"verb", "path", "code"},
		),
		NOAAFetches: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "noaa_fetches_total",
				Help:      "NOAA prediction fetches by outcome.",
			},
			[]string{"outcome"},
		),
		CacheLookups: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "cache_lookups_total",
				Help:      "Extremes cache lookups by layer and result.",
			},
			[]string{"layer", "result"},
		),
		ChartBuildDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "chart_build_duration_seconds",
				Help:      "Time spent turning extremes into a chart response.",
				Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),
	}
}

func (c *Collector) ObserveRequestLatency(verb, path, code string, latency time.Duration) {
	if c == nil {
		return
	}
	c.RequestLatency.With(prometheus.Labels{
		"code": code,
		"verb": verb,
		"path": path,
	}).Observe(latency.Seconds())
}

func (c *Collector) RecordNOAAFetch(outcome string) {
	if c == nil {
		return
	}
	c.NOAAFetches.WithLabelValues(outcome).Inc()
}

func (c *Collector) RecordCacheLookup(layer string, hit bool) {
	if c == nil {
		return
	}
	result := "miss"
	if hit {
		result = "hit"
	}
	c.CacheLookups.WithLabelValues(layer, result).Inc()
}

func (c *Collector) ObserveChartBuild(d time.Duration) {
	if c == nil {
		return
	}
	c.ChartBuildDuration.Observe(d.Seconds())
}

// LatencyHandler records the latency and status of every request. Panics in
// next are reported as 500 and re-thrown.
func (c *Collector) LatencyHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		path := ""
		if r.URL != nil {
			path = r.URL.Path
		}

		defer func() {
			if err := recover(); err != nil {
				c.ObserveRequestLatency(r.Method, path, "500", time.Since(start))
				panic(err)
			}
			c.ObserveRequestLatency(r.Method, path, strconv.Itoa(rec.status), time.Since(start))
		}()

		next.ServeHTTP(rec, r)
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}
