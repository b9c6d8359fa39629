package cache

import (
	"sync"
	"time"

	"github.com/bbernstein/tidetracker/internal/models"
)

const defaultStationTTL = 24 * time.Hour

// StationCache holds the NOAA station list in memory.
type StationCache struct {
	stations    []models.Station
	lastUpdated time.Time
	ttl         time.Duration
	clock       clock
	mu          sync.RWMutex
}

func NewStationCache() *StationCache {
	return &StationCache{
		stations: make([]models.Station, 0),
		ttl:      defaultStationTTL,
		clock:    realClock{},
	}
}

// GetStations returns the cached list, or nil when empty or expired.
func (c *StationCache) GetStations() []models.Station {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.isExpired() {
		return nil
	}
	return c.stations
}

func (c *StationCache) SetStations(stations []models.Station) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stations = stations
	c.lastUpdated = c.clock.Now()
}

func (c *StationCache) isExpired() bool {
	return c.lastUpdated.IsZero() || c.clock.Now().Sub(c.lastUpdated) > c.ttl
}
