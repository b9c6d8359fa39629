// Package chart maps a sampled tide curve into screen space.
package chart

import (
	"errors"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/bbernstein/tidetracker/internal/models"
)

var (
	ErrEmptySeries       = errors.New("chart: empty series")
	ErrInvalidDimensions = errors.New("chart: drawing area has no size")
	ErrNonFinite         = errors.New("chart: non-finite height")
)

const (
	DefaultWidth     = 800.0
	DefaultHeight    = 400.0
	DefaultPad       = 24.0
	DefaultBottomPad = 60.0

	heightMargin = 0.5
	tickCount    = 10
)

// Dimensions is the pixel size of the drawing area. Pad applies to the top,
// left and right edges; BottomPad leaves room for time and date labels.
type Dimensions struct {
	Width     float64
	Height    float64
	Pad       float64
	BottomPad float64
}

func DefaultDimensions() Dimensions {
	return Dimensions{
		Width:     DefaultWidth,
		Height:    DefaultHeight,
		Pad:       DefaultPad,
		BottomPad: DefaultBottomPad,
	}
}

func (d Dimensions) validate() error {
	for _, v := range []float64{d.Width, d.Height, d.Pad, d.BottomPad} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return ErrInvalidDimensions
		}
	}
	if d.Width-2*d.Pad <= 0 || d.Height-d.BottomPad-d.Pad <= 0 {
		return ErrInvalidDimensions
	}
	return nil
}

// Baseline is the y coordinate of the bottom of the plot area.
func (d Dimensions) Baseline() float64 {
	return d.Height - d.BottomPad
}

// Mapping turns times and heights into pixel coordinates. It is immutable and
// cheap to rebuild whenever the series or the drawing area changes.
type Mapping struct {
	dims     Dimensions
	x        LinearScale
	y        LinearScale
	start    models.LocalTime
	end      models.LocalTime
	extremes []models.Extreme
}

// BuildMapping derives the time and height scales for series.
//
// The time domain spans the series. The height domain is the series range
// widened by half a unit on each side and then rounded outward to tick
// values, with larger heights drawn higher.
func BuildMapping(series []models.SamplePoint, extremes []models.Extreme, dims Dimensions) (*Mapping, error) {
	if len(series) == 0 {
		return nil, ErrEmptySeries
	}
	if err := dims.validate(); err != nil {
		return nil, err
	}

	times := make([]float64, len(series))
	heights := make([]float64, len(series))
	for i, p := range series {
		if math.IsNaN(p.H) || math.IsInf(p.H, 0) {
			return nil, ErrNonFinite
		}
		times[i] = float64(p.T)
		heights[i] = p.H
	}
	for _, e := range extremes {
		if math.IsNaN(e.H) || math.IsInf(e.H, 0) {
			return nil, ErrNonFinite
		}
	}

	start := models.LocalTime(floats.Min(times))
	end := models.LocalTime(floats.Max(times))
	hMin := floats.Min(heights) - heightMargin
	hMax := floats.Max(heights) + heightMargin

	return &Mapping{
		dims:     dims,
		x:        NewLinearScale(float64(start), float64(end), dims.Pad, dims.Width-dims.Pad),
		y:        NewLinearScale(hMin, hMax, dims.Baseline(), dims.Pad).Nice(tickCount),
		start:    start,
		end:      end,
		extremes: append([]models.Extreme(nil), extremes...),
	}, nil
}

func (m *Mapping) X(t models.LocalTime) float64 {
	return m.x.Map(float64(t))
}

func (m *Mapping) Y(h float64) float64 {
	return m.y.Map(h)
}

func (m *Mapping) Point(t models.LocalTime, h float64) models.ScreenPoint {
	return models.ScreenPoint{X: m.X(t), Y: m.Y(h)}
}

func (m *Mapping) Dimensions() Dimensions {
	return m.dims
}

func (m *Mapping) TimeDomain() (models.LocalTime, models.LocalTime) {
	return m.start, m.end
}

// HeightDomain is the niced height domain, bottom first.
func (m *Mapping) HeightDomain() (float64, float64) {
	return m.y.D0, m.y.D1
}

// Contains reports whether t lies inside the time domain.
func (m *Mapping) Contains(t models.LocalTime) bool {
	return t >= m.start && t <= m.end
}

// YTicks returns round height values for axis labels.
func (m *Mapping) YTicks() []float64 {
	return m.y.Ticks(tickCount)
}

// DayTicks returns every local midnight in the time domain, ends included.
func (m *Mapping) DayTicks() []models.LocalTime {
	first := m.start.StartOfDay()
	if first < m.start {
		first = first.AddDays(1)
	}

	var ticks []models.LocalTime
	for t := first; t <= m.end; t = t.AddDays(1) {
		ticks = append(ticks, t)
	}
	return ticks
}

// ExtremePoints places each extreme the mapping was built with.
func (m *Mapping) ExtremePoints() []models.ScreenPoint {
	out := make([]models.ScreenPoint, len(m.extremes))
	for i, e := range m.extremes {
		out[i] = m.Point(e.T, e.H)
	}
	return out
}

// Curve places every sample of series.
func (m *Mapping) Curve(series []models.SamplePoint) []models.ScreenPoint {
	out := make([]models.ScreenPoint, len(series))
	for i, p := range series {
		out[i] = m.Point(p.T, p.H)
	}
	return out
}
