package chart

import (
	"math"

	"github.com/bbernstein/tidetracker/internal/models"
)

// NowMarker places the current time on the curve, where h is the curve height
// at now. The marker is visible only when now is inside the plotted range and
// both coordinates are finite. A non-finite h leaves H nil and the marker
// hidden.
func NowMarker(m *Mapping, now models.LocalTime, h float64) models.NowMarker {
	marker := models.NowMarker{T: now}
	if m == nil || !isFinite(h) {
		return marker
	}
	marker.H = &h

	marker.X = m.X(now)
	marker.Y = m.Y(h)
	marker.Visible = m.Contains(now) && isFinite(marker.X) && isFinite(marker.Y)
	return marker
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
