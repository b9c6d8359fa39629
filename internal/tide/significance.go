package tide

import (
	"math"

	"github.com/bbernstein/tidetracker/internal/models"
)

const (
	// DefaultSignificanceThreshold is the height change in feet an interior
	// extreme needs against a neighbour to be shown.
	DefaultSignificanceThreshold = 1.0
	// DefaultMaxLowHeight is the highest low tide worth labelling, in feet.
	DefaultMaxLowHeight = 1.5
	// DefaultBestLowTolerance is 8 inches.
	DefaultBestLowTolerance = 8.0 / 12.0
)

// FilterOptions controls which extremes are displayed and annotated.
type FilterOptions struct {
	SignificanceThreshold float64
	MaxLowHeight          float64
	BestLowTolerance      float64
	Daytime               DaytimeWindow
}

func DefaultFilterOptions() FilterOptions {
	return FilterOptions{
		SignificanceThreshold: DefaultSignificanceThreshold,
		MaxLowHeight:          DefaultMaxLowHeight,
		BestLowTolerance:      DefaultBestLowTolerance,
		Daytime:               DefaultDaytime,
	}
}

// Display is the subset of extremes a chart shows.
type Display struct {
	Significant []models.Extreme
	Lows        []models.SignificantExtreme
}

// FilterSignificant drops interior extremes that differ from both neighbours
// by no more than threshold. The first and last extremes are always kept, and
// neighbours are taken from the full input, not from the filtered result.
func FilterSignificant(extremes []models.Extreme, threshold float64) []models.Extreme {
	if math.IsNaN(threshold) {
		threshold = DefaultSignificanceThreshold
	}

	out := make([]models.Extreme, 0, len(extremes))
	last := len(extremes) - 1
	for i, e := range extremes {
		if i == 0 || i == last {
			out = append(out, e)
			continue
		}
		if math.Abs(e.H-extremes[i-1].H) > threshold || math.Abs(e.H-extremes[i+1].H) > threshold {
			out = append(out, e)
		}
	}
	return out
}

// FilterLowsForDisplay keeps low tides no higher than maxHeight.
func FilterLowsForDisplay(significant []models.Extreme, maxHeight float64) []models.Extreme {
	out := make([]models.Extreme, 0, len(significant))
	for _, e := range significant {
		if e.Type == models.TideTypeLow && e.H <= maxHeight {
			out = append(out, e)
		}
	}
	return out
}

// AnnotateLows marks each low as daytime or not, and flags the daytime lows
// within tolerance of the lowest daytime low as best.
func AnnotateLows(lows []models.Extreme, window DaytimeWindow, tolerance float64) []models.SignificantExtreme {
	if window == nil {
		window = DefaultDaytime
	}

	out := make([]models.SignificantExtreme, len(lows))
	minDaytime := math.Inf(1)
	for i, e := range lows {
		out[i] = models.SignificantExtreme{Extreme: e, IsDaytime: window.IsDaytime(e.T)}
		if out[i].IsDaytime && e.H < minDaytime {
			minDaytime = e.H
		}
	}

	for i := range out {
		out[i].IsBestLow = out[i].IsDaytime && out[i].H-minDaytime <= tolerance
	}
	return out
}

// SelectDisplay runs the significance filter, the low filter and the
// annotation in order.
func SelectDisplay(extremes []models.Extreme, opts FilterOptions) Display {
	significant := FilterSignificant(extremes, opts.SignificanceThreshold)
	lows := FilterLowsForDisplay(significant, opts.MaxLowHeight)
	return Display{
		Significant: significant,
		Lows:        AnnotateLows(lows, opts.Daytime, opts.BestLowTolerance),
	}
}
