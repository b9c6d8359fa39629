package tide

import (
	"time"

	"github.com/keep94/sunrise"

	"github.com/bbernstein/tidetracker/internal/models"
)

// DaytimeWindow decides whether a station-local instant counts as daytime.
type DaytimeWindow interface {
	IsDaytime(t models.LocalTime) bool
}

// FixedHours is daytime for hours of day in [Start, End).
type FixedHours struct {
	Start int
	End   int
}

// DefaultDaytime is 9 AM to 6 PM.
var DefaultDaytime = FixedHours{Start: 9, End: 18}

func (f FixedHours) IsDaytime(t models.LocalTime) bool {
	h := t.Hour()
	return h >= f.Start && h < f.End
}

// SunWindow is daytime between sunrise and sunset at a station.
type SunWindow struct {
	Latitude  float64
	Longitude float64
	Location  *time.Location
}

// NewSunWindow builds a SunWindow for a station's coordinates and zone.
func NewSunWindow(st *models.Station) SunWindow {
	return SunWindow{
		Latitude:  st.Latitude,
		Longitude: st.Longitude,
		Location:  st.Location(),
	}
}

func (w SunWindow) IsDaytime(t models.LocalTime) bool {
	rise, set, ok := w.SunTimes(t)
	if !ok {
		return false
	}
	at := t.In(w.location())
	return !at.Before(rise) && at.Before(set)
}

// SunTimes returns sunrise and sunset for the calendar day containing t.
// ok is false when the sun does not both rise and set that day.
func (w SunWindow) SunTimes(t models.LocalTime) (rise, set time.Time, ok bool) {
	day := t.StartOfDay()
	midnight := day.In(w.location())

	var s sunrise.Sunrise
	s.Around(w.Latitude, w.Longitude, midnight.Add(12*time.Hour))

	// Around can land on a neighbouring day.
	for i := 0; i < 3; i++ {
		d := models.FromWallClock(s.Sunrise().In(w.location())).StartOfDay()
		if d == day {
			break
		}
		if d < day {
			s.AddDays(1)
		} else {
			s.AddDays(-1)
		}
	}

	rise = s.Sunrise().In(w.location())
	set = s.Sunset().In(w.location())
	if models.FromWallClock(rise).StartOfDay() != day || !set.After(rise) {
		return time.Time{}, time.Time{}, false
	}
	return rise, set, true
}

func (w SunWindow) location() *time.Location {
	if w.Location == nil {
		return time.UTC
	}
	return w.Location
}
