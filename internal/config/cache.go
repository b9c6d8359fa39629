package config

import (
	"time"

	"github.com/rs/zerolog/log"
)

// CacheConfig holds all cache-related configuration
type CacheConfig struct {
	// LRU Cache settings
	ExtremesLRUSize       int
	ExtremesLRUTTLMinutes int

	// DynamoDB Cache settings
	ExtremesTableName     string
	ExtremesDynamoTTLDays int

	// Station list settings
	StationListTTLDays int
	StationBucket      string

	// Batch processing settings
	BatchSize       int
	MaxBatchRetries int

	// General settings
	EnableLRUCache    bool
	EnableDynamoCache bool
}

const (
	defaultExtremesLRUSize       = 1000
	defaultExtremesLRUTTLMinutes = 15
	defaultExtremesTableName     = "tide-extremes-cache"
	defaultDynamoTTLDays         = 2
	defaultStationListTTLDays    = 2
	defaultBatchSize             = 25
	defaultMaxBatchRetries       = 3
)

// GetCacheConfig returns the cache configuration from environment variables or defaults
func GetCacheConfig() *CacheConfig {
	config := &CacheConfig{
		ExtremesLRUSize:       getEnvInt("CACHE_LRU_SIZE", defaultExtremesLRUSize),
		ExtremesLRUTTLMinutes: getEnvInt("CACHE_LRU_TTL_MINUTES", defaultExtremesLRUTTLMinutes),
		ExtremesTableName:     getEnvOrDefault("CACHE_TABLE_NAME", defaultExtremesTableName),
		ExtremesDynamoTTLDays: getEnvInt("CACHE_DYNAMO_TTL_DAYS", defaultDynamoTTLDays),
		StationListTTLDays:    getEnvInt("CACHE_STATION_LIST_TTL_DAYS", defaultStationListTTLDays),
		StationBucket:         getEnvOrDefault("CACHE_STATION_BUCKET", ""),
		BatchSize:             getEnvInt("CACHE_BATCH_SIZE", defaultBatchSize),
		MaxBatchRetries:       getEnvInt("CACHE_MAX_BATCH_RETRIES", defaultMaxBatchRetries),
		EnableLRUCache:        getEnvBool("CACHE_ENABLE_LRU", true),
		EnableDynamoCache:     getEnvBool("CACHE_ENABLE_DYNAMO", true),
	}

	log.Debug().
		Int("ExtremesLRUSize", config.ExtremesLRUSize).
		Int("ExtremesLRUTTLMinutes", config.ExtremesLRUTTLMinutes).
		Str("ExtremesTableName", config.ExtremesTableName).
		Int("ExtremesDynamoTTLDays", config.ExtremesDynamoTTLDays).
		Int("StationListTTLDays", config.StationListTTLDays).
		Str("StationBucket", config.StationBucket).
		Int("BatchSize", config.BatchSize).
		Int("MaxBatchRetries", config.MaxBatchRetries).
		Bool("EnableLRUCache", config.EnableLRUCache).
		Bool("EnableDynamoCache", config.EnableDynamoCache).
		Msg("Cache configuration loaded")

	return config
}

func (c *CacheConfig) GetLRUTTL() time.Duration {
	return time.Duration(c.ExtremesLRUTTLMinutes) * time.Minute
}

func (c *CacheConfig) GetDynamoTTL() time.Duration {
	return time.Duration(c.ExtremesDynamoTTLDays) * 24 * time.Hour
}

func (c *CacheConfig) GetStationListTTL() time.Duration {
	return time.Duration(c.StationListTTLDays) * 24 * time.Hour
}
