package app

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/tidetracker/internal/cache"
	"github.com/bbernstein/tidetracker/internal/config"
	"github.com/bbernstein/tidetracker/pkg/http/client"
)

const stationsJSON = `{"stationList":[{"stationId":"9414290","name":"San Francisco","state":"CA","lat":37.8063,"lon":-122.4659,"timeZoneCorr":"-8","stationType":"R"}]}`

const extremesJSON = `{"predictions":[
{"t":"2024-05-31 22:10","v":"5.10","type":"H"},
{"t":"2024-06-01 04:30","v":"-0.40","type":"L"},
{"t":"2024-06-01 11:00","v":"4.20","type":"H"},
{"t":"2024-06-01 16:20","v":"1.10","type":"L"},
{"t":"2024-06-01 22:40","v":"5.60","type":"H"},
{"t":"2024-06-02 05:10","v":"-0.70","type":"L"}]}`

type fakeNOAA struct{}

func (fakeNOAA) Get(_ context.Context, path string) (*client.Response, error) {
	if strings.Contains(path, "datagetter") {
		return &client.Response{StatusCode: http.StatusOK, Body: []byte(extremesJSON)}, nil
	}
	return &client.Response{StatusCode: http.StatusOK, Body: []byte(stationsJSON)}, nil
}

func setEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ENV", "test")
	t.Setenv("CACHE_ENABLE_DYNAMO", "false")
	t.Setenv("CACHE_ENABLE_LRU", "true")
	t.Setenv("CACHE_STATION_BUCKET", "")
	t.Setenv("TIDE_DAYTIME_MODE", "fixed")
	t.Setenv("TIDE_WIDTH", "640")
}

func TestNew(t *testing.T) {
	setEnv(t)

	a, err := New(context.Background(), Options{
		Registerer: prometheus.NewRegistry(),
		HTTPClient: fakeNOAA{},
	})
	require.NoError(t, err)

	assert.Equal(t, "test", a.Config.Environment)
	assert.Equal(t, 640.0, a.ChartConfig.Width)
	assert.NotNil(t, a.TideService)
	assert.NotNil(t, a.Handlers.Chart)
	assert.NotNil(t, a.Handlers.Extremes)
	assert.NotNil(t, a.Handlers.Stations)

	resp, err := a.Handlers.Extremes.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
		QueryStringParameters: map[string]string{"stationId": "9414290", "start": "2024-06-01", "days": "1"},
	})
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

	var body struct {
		Extremes []json.RawMessage `json:"extremes"`
	}
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	assert.Len(t, body.Extremes, 6)
}

func TestNew_InvalidChartConfig(t *testing.T) {
	setEnv(t)
	t.Setenv("TIDE_DAYTIME_MODE", "moon")

	_, err := New(context.Background(), Options{
		Registerer: prometheus.NewRegistry(),
		HTTPClient: fakeNOAA{},
	})
	assert.Error(t, err)
}

func TestNewExtremesCache(t *testing.T) {
	cfg := &config.CacheConfig{ExtremesLRUSize: 10, ExtremesLRUTTLMinutes: 5}

	c, err := newExtremesCache(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.Nil(t, c)

	cfg.EnableLRUCache = true
	c, err = newExtremesCache(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &cache.ExtremesCacheService{}, c)
}

func TestCacheStats(t *testing.T) {
	tests := []struct {
		name      string
		enableLRU string
		wantStats map[string]uint64
	}{
		{
			name:      "lru enabled counts the first miss",
			enableLRU: "true",
			wantStats: map[string]uint64{"lru_hits": 0, "lru_misses": 1, "store_hits": 0, "store_misses": 0},
		},
		{
			name:      "lru disabled",
			enableLRU: "false",
			wantStats: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setEnv(t)
			t.Setenv("CACHE_ENABLE_LRU", tt.enableLRU)

			a, err := New(context.Background(), Options{
				Registerer: prometheus.NewRegistry(),
				HTTPClient: fakeNOAA{},
			})
			require.NoError(t, err)

			resp, err := a.Handlers.Extremes.HandleRequest(context.Background(), events.APIGatewayProxyRequest{
				QueryStringParameters: map[string]string{"stationId": "9414290", "start": "2024-06-01", "days": "1"},
			})
			require.NoError(t, err)
			require.Equal(t, http.StatusOK, resp.StatusCode, resp.Body)

			assert.Equal(t, tt.wantStats, a.CacheStats())
			assert.NotPanics(t, a.LogCacheStats)
		})
	}
}
