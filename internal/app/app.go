// Package app wires configuration, caches, NOAA access and handlers into the
// pieces each binary serves.
package app

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidetracker/internal/cache"
	"github.com/bbernstein/tidetracker/internal/config"
	"github.com/bbernstein/tidetracker/internal/handler"
	"github.com/bbernstein/tidetracker/internal/metrics"
	"github.com/bbernstein/tidetracker/internal/server"
	"github.com/bbernstein/tidetracker/internal/station"
	"github.com/bbernstein/tidetracker/internal/tide"
	"github.com/bbernstein/tidetracker/pkg/http/client"
)

// Options override parts of the wiring. The zero value uses the environment
// and the default prometheus registry.
type Options struct {
	Registerer prometheus.Registerer
	// HTTPClient replaces the NOAA client built from Config.
	HTTPClient client.Interface
}

type App struct {
	Config      *config.Config
	ChartConfig *config.ChartConfig
	Metrics     *metrics.Collector
	TideService *tide.Service
	Handlers    server.Handlers

	// lruCache is nil unless the in-memory extremes layer is enabled.
	lruCache *cache.ExtremesCacheService
}

// New reads the environment and builds the application.
func New(ctx context.Context, opts Options) (*App, error) {
	cfg := config.LoadFromEnv()
	cfg.InitializeLogging()

	chartCfg, err := config.LoadChartConfig()
	if err != nil {
		return nil, err
	}

	reg := opts.Registerer
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	m := metrics.NewCollector(reg)

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = client.New(cfg.ClientOptions())
	}

	cacheCfg := config.GetCacheConfig()
	finder, err := newStationFinder(ctx, httpClient, cacheCfg)
	if err != nil {
		return nil, fmt.Errorf("initializing station finder: %w", err)
	}

	extremesCache, err := newExtremesCache(ctx, cacheCfg, m)
	if err != nil {
		return nil, fmt.Errorf("initializing extremes cache: %w", err)
	}

	svc, err := tide.NewService(tide.Deps{
		HTTPClient:    httpClient,
		StationFinder: finder,
		Cache:         extremesCache,
		Options:       chartCfg.FilterOptions(),
		DaytimeFor:    chartCfg.DaytimeFor,
		StepMinutes:   chartCfg.StepMinutes,
		DefaultDays:   chartCfg.DefaultDays,
		MaxDays:       chartCfg.MaxDays,
		Dimensions:    chartCfg.Dimensions(),
		Metrics:       m,
	})
	if err != nil {
		return nil, fmt.Errorf("initializing tide service: %w", err)
	}

	log.Debug().
		Str("environment", cfg.Environment).
		Str("noaa_base_url", cfg.NOAABaseURL).
		Str("daytime_mode", chartCfg.DaytimeMode).
		Msg("Application initialized")

	lruCache, _ := extremesCache.(*cache.ExtremesCacheService)

	return &App{
		lruCache:    lruCache,
		Config:      cfg,
		ChartConfig: chartCfg,
		Metrics:     m,
		TideService: svc,
		Handlers: server.Handlers{
			Chart:    handler.NewChartHandler(svc),
			Extremes: handler.NewExtremesHandler(svc),
			Stations: handler.NewStationsHandler(finder),
		},
	}, nil
}

// CacheStats reports extremes cache hits and misses per layer, or nil when
// the in-memory layer is disabled.
func (a *App) CacheStats() map[string]uint64 {
	if a.lruCache == nil {
		return nil
	}
	return a.lruCache.GetCacheStats()
}

// LogCacheStats writes CacheStats at debug level.
func (a *App) LogCacheStats() {
	stats := a.CacheStats()
	if stats == nil {
		return
	}
	ev := log.Debug()
	for k, v := range stats {
		ev = ev.Uint64(k, v)
	}
	ev.Msg("Extremes cache stats")
}

func newStationFinder(ctx context.Context, httpClient client.Interface, cfg *config.CacheConfig) (*station.NOAAStationFinder, error) {
	var opts []station.Option
	if cfg.StationBucket != "" {
		s3Client, err := cache.NewS3Client(ctx)
		if err != nil {
			return nil, err
		}
		opts = append(opts, station.WithS3Cache(cache.NewS3StationCache(s3Client, cfg.StationBucket, cfg.GetStationListTTL())))
	}
	return station.NewNOAAStationFinder(httpClient, cache.NewStationCache(), opts...), nil
}

// newExtremesCache returns nil when every layer is disabled.
func newExtremesCache(ctx context.Context, cfg *config.CacheConfig, m *metrics.Collector) (tide.ExtremesCache, error) {
	var store cache.ExtremesStore
	if cfg.EnableDynamoCache {
		dynamoClient, err := cache.NewDynamoClient(ctx)
		if err != nil {
			return nil, err
		}
		store = cache.NewDynamoExtremesCache(dynamoClient, cfg)
	}

	if !cfg.EnableLRUCache {
		if store == nil {
			return nil, nil
		}
		return store, nil
	}
	return cache.NewExtremesCacheService(cfg, store, m)
}
