package models

import (
	"context"
	"fmt"
	"time"
)

type Source string

const (
	SourceNOAA Source = "NOAA"
)

type Station struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	State          *string  `json:"state,omitempty"`
	Region         *string  `json:"region,omitempty"`
	Distance       float64  `json:"distance"`
	Latitude       float64  `json:"latitude"`
	Longitude      float64  `json:"longitude"`
	Source         Source   `json:"source"`
	Capabilities   []string `json:"capabilities"`
	TimeZoneOffset int      `json:"timeZoneOffset"` // seconds east of UTC
	StationType    *string  `json:"stationType,omitempty"`
}

// StationFinder looks up tide prediction stations.
type StationFinder interface {
	FindStation(ctx context.Context, stationID string) (*Station, error)
	FindNearestStations(ctx context.Context, lat, lon float64, limit int) ([]Station, error)
}

// Location is the station's standard-time zone, a fixed offset all year. It
// matches NOAA data requested with time_zone=lst.
func (s *Station) Location() *time.Location {
	return time.FixedZone(s.ID, s.TimeZoneOffset)
}

// Validate checks if a Station's fields are valid
func (s *Station) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("station ID is required")
	}
	if s.Latitude < -90 || s.Latitude > 90 {
		return fmt.Errorf("invalid latitude: %f", s.Latitude)
	}
	if s.Longitude < -180 || s.Longitude > 180 {
		return fmt.Errorf("invalid longitude: %f", s.Longitude)
	}
	// UTC-12 through UTC+14
	if s.TimeZoneOffset < -43200 || s.TimeZoneOffset > 50400 {
		return fmt.Errorf("invalid timezone offset: %d", s.TimeZoneOffset)
	}
	if s.Source != SourceNOAA {
		return fmt.Errorf("invalid source: %s", s.Source)
	}
	return nil
}
