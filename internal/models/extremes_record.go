package models

import (
	"fmt"
	"strings"
	"time"
)

// ExtremesRecord is a cached NOAA hi/lo response for a station and date window.
// Raw records are cached rather than parsed ones so the parser stays the only
// consumer of the NOAA encoding.
type ExtremesRecord struct {
	StationID   string       `dynamodbav:"stationId"`
	Window      string       `dynamodbav:"window"` // "20060102-20060102"
	Extremes    []RawExtreme `dynamodbav:"extremes"`
	LastUpdated int64        `dynamodbav:"lastUpdated"`
	TTL         int64        `dynamodbav:"ttl"`
}

// WindowKey formats the begin/end dates of a NOAA query.
func WindowKey(begin, end time.Time) string {
	return begin.Format("20060102") + "-" + end.Format("20060102")
}

// Validate checks if an ExtremesRecord's fields are valid
func (r *ExtremesRecord) Validate() error {
	if r.StationID == "" {
		return fmt.Errorf("station ID is required")
	}
	if r.Window == "" {
		return fmt.Errorf("window is required")
	}
	begin, end, ok := strings.Cut(r.Window, "-")
	if !ok {
		return fmt.Errorf("invalid window format: %s", r.Window)
	}
	b, err := time.Parse("20060102", begin)
	if err != nil {
		return fmt.Errorf("invalid window begin: %s", begin)
	}
	e, err := time.Parse("20060102", end)
	if err != nil {
		return fmt.Errorf("invalid window end: %s", end)
	}
	if e.Before(b) {
		return fmt.Errorf("window ends before it begins: %s", r.Window)
	}
	for i, x := range r.Extremes {
		if x.Type != "H" && x.Type != "L" {
			return fmt.Errorf("invalid extreme at index %d: type %q", i, x.Type)
		}
	}
	return nil
}
