package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilCollectorIsNoop(t *testing.T) {
	var c *Collector

	assert.NotPanics(t, func() {
		c.RecordNOAAFetch("ok")
		c.RecordCacheLookup("lru", true)
		c.ObserveChartBuild(time.Millisecond)
		c.ObserveRequestLatency("GET", "/", "200", time.Millisecond)
	})
}

func TestCounters(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())

	c.RecordNOAAFetch("ok")
	c.RecordNOAAFetch("ok")
	c.RecordNOAAFetch("error")
	c.RecordCacheLookup("lru", true)
	c.RecordCacheLookup("dynamo", false)
	c.RecordCacheLookup("dynamo", false)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.NOAAFetches.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.NOAAFetches.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.CacheLookups.WithLabelValues("lru", "hit")))
	assert.Equal(t, 2.0, testutil.ToFloat64(c.CacheLookups.WithLabelValues("dynamo", "miss")))
}

func TestLatencyHandler(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		wantCode string
	}{
		{name: "implicit ok", status: 0, wantCode: "200"},
		{name: "not found", status: http.StatusNotFound, wantCode: "404"},
		{name: "bad gateway", status: http.StatusBadGateway, wantCode: "502"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := prometheus.NewRegistry()
			c := NewCollector(reg)
			h := c.LatencyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if tt.status != 0 {
					w.WriteHeader(tt.status)
				}
				_, _ = w.Write([]byte("body"))
			}))

			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/chart", nil))

			assert.Equal(t, "body", rec.Body.String())
			require.Equal(t, 1, testutil.CollectAndCount(c.RequestLatency))
			assert.Equal(t, map[string]string{
				"verb": http.MethodGet,
				"path": "/api/v1/chart",
				"code": tt.wantCode,
			}, latencyLabels(t, reg))
		})
	}
}

func TestLatencyHandlerRethrowsPanics(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	h := c.LatencyHandler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	assert.PanicsWithValue(t, "boom", func() {
		h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, 1, testutil.CollectAndCount(c.RequestLatency))
}

func TestChartBuildDuration(t *testing.T) {
	c := NewCollector(prometheus.NewRegistry())
	c.ObserveChartBuild(2 * time.Millisecond)

	assert.Equal(t, 1, testutil.CollectAndCount(c.ChartBuildDuration))
}

func latencyLabels(t *testing.T, reg *prometheus.Registry) map[string]string {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != "tidetracker_request_latency_seconds" {
			continue
		}
		require.Len(t, mf.GetMetric(), 1)
		labels := map[string]string{}
		for _, lp := range mf.GetMetric()[0].GetLabel() {
			labels[lp.GetName()] = lp.GetValue()
		}
		return labels
	}
	t.Fatal("request latency metric not gathered")
	return nil
}
