package cache

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidetracker/internal/config"
	"github.com/bbernstein/tidetracker/internal/metrics"
	"github.com/bbernstein/tidetracker/internal/models"
)

// ExtremesStore is a persistent backing layer for extremes records.
type ExtremesStore interface {
	GetExtremes(ctx context.Context, stationID, window string) (*models.ExtremesRecord, error)
	SaveExtremes(ctx context.Context, record models.ExtremesRecord) error
}

// lruEntry wraps the cached data with metadata
type lruEntry struct {
	Data      *models.ExtremesRecord
	ExpiresAt time.Time
}

// ExtremesCacheService is a two-layer cache: an in-process LRU in front of an
// optional persistent store.
type ExtremesCacheService struct {
	lru     *lru.Cache[string, *lruEntry]
	store   ExtremesStore
	ttl     time.Duration
	clock   clock
	metrics *metrics.Collector

	lruHits     atomic.Uint64
	lruMisses   atomic.Uint64
	storeHits   atomic.Uint64
	storeMisses atomic.Uint64
}

// NewExtremesCacheService builds the cache. store may be nil for an LRU-only
// cache, and m may be nil to skip metrics.
func NewExtremesCacheService(cfg *config.CacheConfig, store ExtremesStore, m *metrics.Collector) (*ExtremesCacheService, error) {
	lruCache, err := lru.New[string, *lruEntry](cfg.ExtremesLRUSize)
	if err != nil {
		return nil, fmt.Errorf("creating LRU cache: %w", err)
	}

	return &ExtremesCacheService{
		lru:     lruCache,
		store:   store,
		ttl:     cfg.GetLRUTTL(),
		clock:   realClock{},
		metrics: m,
	}, nil
}

func cacheKey(stationID, window string) string {
	return stationID + ":" + window
}

// GetExtremes tries the LRU first, then the store. A store hit is promoted
// into the LRU. A miss in both returns nil, nil.
func (c *ExtremesCacheService) GetExtremes(ctx context.Context, stationID, window string) (*models.ExtremesRecord, error) {
	key := cacheKey(stationID, window)
	if entry, ok := c.lru.Get(key); ok {
		if c.clock.Now().Before(entry.ExpiresAt) {
			c.lruHits.Add(1)
			c.metrics.RecordCacheLookup("lru", true)
			return entry.Data, nil
		}
		c.lru.Remove(key)
	}
	c.lruMisses.Add(1)
	c.metrics.RecordCacheLookup("lru", false)

	if c.store == nil {
		return nil, nil
	}

	record, err := c.store.GetExtremes(ctx, stationID, window)
	if err != nil {
		return nil, fmt.Errorf("getting extremes from store: %w", err)
	}
	if record == nil {
		c.storeMisses.Add(1)
		c.metrics.RecordCacheLookup("store", false)
		return nil, nil
	}

	c.storeHits.Add(1)
	c.metrics.RecordCacheLookup("store", true)
	c.add(key, record)
	return record, nil
}

// SaveExtremes writes to the LRU and then the store. The LRU keeps the record
// even if the store write fails.
func (c *ExtremesCacheService) SaveExtremes(ctx context.Context, record models.ExtremesRecord) error {
	if err := record.Validate(); err != nil {
		return fmt.Errorf("invalid extremes record: %w", err)
	}

	c.add(cacheKey(record.StationID, record.Window), &record)

	if c.store == nil {
		return nil
	}
	if err := c.store.SaveExtremes(ctx, record); err != nil {
		log.Warn().Err(err).Str("station_id", record.StationID).Msg("Failed to persist extremes")
		return fmt.Errorf("saving extremes to store: %w", err)
	}
	return nil
}

func (c *ExtremesCacheService) add(key string, record *models.ExtremesRecord) {
	c.lru.Add(key, &lruEntry{
		Data:      record,
		ExpiresAt: c.clock.Now().Add(c.ttl),
	})
}

// GetCacheStats returns statistics about cache hits and misses
func (c *ExtremesCacheService) GetCacheStats() map[string]uint64 {
	return map[string]uint64{
		"lru_hits":     c.lruHits.Load(),
		"lru_misses":   c.lruMisses.Load(),
		"store_hits":   c.storeHits.Load(),
		"store_misses": c.storeMisses.Load(),
	}
}
