package tide

import (
	"math"
	"sort"

	"github.com/bbernstein/tidetracker/internal/models"
)

// InterpolateAt returns the height of the sampled curve at q.
//
// Queries before the first sample or after the last return the boundary
// height; an empty series yields NaN.
func InterpolateAt(q models.LocalTime, series []models.SamplePoint) float64 {
	if len(series) == 0 {
		return math.NaN()
	}

	idx := searchSeries(series, q)
	if idx == 0 {
		return series[0].H
	}
	if idx >= len(series) {
		return series[len(series)-1].H
	}

	p1 := series[idx-1]
	p2 := series[idx]
	if p2.T == p1.T {
		return p2.H
	}
	ratio := float64(q-p1.T) / float64(p2.T-p1.T)
	return p1.H + (p2.H-p1.H)*ratio
}

// Trend reports whether the curve is rising or falling at q. It returns the
// empty TideType when q is outside the series or the curve is flat there.
func Trend(q models.LocalTime, series []models.SamplePoint) models.TideType {
	if len(series) < 2 || q < series[0].T || q > series[len(series)-1].T {
		return ""
	}

	idx := searchSeries(series, q)
	if idx == 0 {
		idx = 1
	}
	if idx >= len(series) {
		idx = len(series) - 1
	}
	// q sitting exactly on a sample looks forward.
	if series[idx].T == q && idx < len(series)-1 {
		idx++
	}

	switch d := series[idx].H - series[idx-1].H; {
	case d > 0:
		return models.TideTypeRising
	case d < 0:
		return models.TideTypeFalling
	}
	return ""
}

// searchSeries returns the index of the first sample at or after q.
func searchSeries(series []models.SamplePoint, q models.LocalTime) int {
	return sort.Search(len(series), func(i int) bool {
		return series[i].T >= q
	})
}
