package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/bbernstein/tidetracker/internal/chart"
	"github.com/bbernstein/tidetracker/internal/models"
	"github.com/bbernstein/tidetracker/internal/tide"
)

const (
	DaytimeModeFixed = "fixed"
	DaytimeModeSun   = "sun"
)

// ChartConfig controls curve sampling, display filtering and default chart
// dimensions. Every field is read from TIDE_<NAME>.
type ChartConfig struct {
	StepMinutes           float64 `envconfig:"STEP_MINUTES" default:"10"`
	MaxLowHeight          float64 `envconfig:"MAX_LOW_HEIGHT" default:"1.5"`
	SignificanceThreshold float64 `envconfig:"SIGNIFICANCE_THRESHOLD" default:"1.0"`
	DaytimeStart          int     `envconfig:"DAYTIME_START" default:"9"`
	DaytimeEnd            int     `envconfig:"DAYTIME_END" default:"18"`
	DaytimeMode           string  `envconfig:"DAYTIME_MODE" default:"fixed"`
	BestLowTolerance      float64 `envconfig:"BEST_LOW_TOLERANCE"` // tide.DefaultBestLowTolerance when unset
	DefaultDays           int     `envconfig:"DEFAULT_DAYS" default:"3"`
	MaxDays               int     `envconfig:"MAX_DAYS" default:"7"`
	Width                 float64 `envconfig:"WIDTH" default:"800"`
	Height                float64 `envconfig:"HEIGHT" default:"400"`
	Pad                   float64 `envconfig:"PAD" default:"24"`
	BottomPad             float64 `envconfig:"BOTTOM_PAD" default:"60"`
}

// LoadChartConfig reads and validates TIDE_* variables.
func LoadChartConfig() (*ChartConfig, error) {
	var cfg ChartConfig
	if err := envconfig.Process("TIDE", &cfg); err != nil {
		return nil, fmt.Errorf("loading chart config: %w", err)
	}
	if _, ok := os.LookupEnv("TIDE_BEST_LOW_TOLERANCE"); !ok {
		cfg.BestLowTolerance = tide.DefaultBestLowTolerance
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *ChartConfig) Validate() error {
	switch {
	case !(c.StepMinutes >= tide.MinStepMinutes && c.StepMinutes <= tide.MaxStepMinutes):
		return fmt.Errorf("step minutes must be between %g and %g, got %v", tide.MinStepMinutes, tide.MaxStepMinutes, c.StepMinutes)
	case c.SignificanceThreshold < 0:
		return fmt.Errorf("significance threshold must not be negative, got %v", c.SignificanceThreshold)
	case c.BestLowTolerance < 0:
		return fmt.Errorf("best low tolerance must not be negative, got %v", c.BestLowTolerance)
	case c.DaytimeStart < 0 || c.DaytimeEnd > 24 || c.DaytimeStart >= c.DaytimeEnd:
		return fmt.Errorf("invalid daytime hours %d-%d", c.DaytimeStart, c.DaytimeEnd)
	case c.DaytimeMode != DaytimeModeFixed && c.DaytimeMode != DaytimeModeSun:
		return fmt.Errorf("invalid daytime mode %q", c.DaytimeMode)
	case c.DefaultDays < 1 || c.MaxDays < c.DefaultDays:
		return fmt.Errorf("invalid day range: default %d, max %d", c.DefaultDays, c.MaxDays)
	case c.Width <= 2*c.Pad || c.Height <= c.Pad+c.BottomPad:
		return fmt.Errorf("chart %vx%v leaves no drawing area", c.Width, c.Height)
	case c.Width > tide.MaxDimension || c.Height > tide.MaxDimension:
		return fmt.Errorf("chart %vx%v exceeds %g px", c.Width, c.Height, tide.MaxDimension)
	}
	return nil
}

// FilterOptions converts the config for the display filter. The daytime
// window is always the fixed-hours one; see DaytimeFor for sun mode.
func (c *ChartConfig) FilterOptions() tide.FilterOptions {
	return tide.FilterOptions{
		SignificanceThreshold: c.SignificanceThreshold,
		MaxLowHeight:          c.MaxLowHeight,
		BestLowTolerance:      c.BestLowTolerance,
		Daytime:               tide.FixedHours{Start: c.DaytimeStart, End: c.DaytimeEnd},
	}
}

// DaytimeFor returns the daytime window to use at a station.
func (c *ChartConfig) DaytimeFor(st *models.Station) tide.DaytimeWindow {
	if c.DaytimeMode == DaytimeModeSun && st != nil {
		return tide.NewSunWindow(st)
	}
	return tide.FixedHours{Start: c.DaytimeStart, End: c.DaytimeEnd}
}

func (c *ChartConfig) Dimensions() chart.Dimensions {
	return chart.Dimensions{
		Width:     c.Width,
		Height:    c.Height,
		Pad:       c.Pad,
		BottomPad: c.BottomPad,
	}
}
