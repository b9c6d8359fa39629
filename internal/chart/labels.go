package chart

import (
	"math"
	"strconv"

	"github.com/bbernstein/tidetracker/internal/models"
)

// FormatClock renders a time of day as "12 AM", "12 PM" or "3:05 PM".
func FormatClock(t models.LocalTime) string {
	w := t.Time()
	if w.Minute() == 0 {
		switch w.Hour() {
		case 0:
			return "12 AM"
		case 12:
			return "12 PM"
		}
	}
	return w.Format("3:04 PM")
}

// FormatHeight rounds to a tenth and appends a foot mark, e.g. "-0.8′".
func FormatHeight(h float64) string {
	r := math.Round(h*10) / 10
	if r == 0 {
		r = 0 // drop the sign of -0
	}
	return strconv.FormatFloat(r, 'f', -1, 64) + "′"
}

// FormatWeekday is the short weekday name, e.g. "Mon".
func FormatWeekday(t models.LocalTime) string {
	return t.Format("Mon")
}

// FormatMonthDay is the short month and day, e.g. "Jun 3".
func FormatMonthDay(t models.LocalTime) string {
	return t.Format("Jan 2")
}

// DayTicks places and labels each midnight of the mapping.
func DayTicks(m *Mapping) []models.DayTick {
	ticks := m.DayTicks()
	out := make([]models.DayTick, len(ticks))
	for i, t := range ticks {
		out[i] = models.DayTick{
			T:        t,
			X:        m.X(t),
			Weekday:  FormatWeekday(t),
			MonthDay: FormatMonthDay(t),
		}
	}
	return out
}

// LowLabels places and labels each displayed low.
func LowLabels(m *Mapping, lows []models.SignificantExtreme) []models.LowLabel {
	out := make([]models.LowLabel, len(lows))
	for i, l := range lows {
		out[i] = models.LowLabel{
			SignificantExtreme: l,
			Position:           m.Point(l.T, l.H),
			HeightLabel:        FormatHeight(l.H),
			TimeLabel:          FormatClock(l.T),
		}
	}
	return out
}

// Geometry assembles everything a renderer needs for one drawing area.
func Geometry(m *Mapping, series []models.SamplePoint, lows []models.SignificantExtreme) *models.Geometry {
	hMin, hMax := m.HeightDomain()
	tMin, tMax := m.TimeDomain()
	dims := m.Dimensions()
	return &models.Geometry{
		Width:        dims.Width,
		Height:       dims.Height,
		Pad:          dims.Pad,
		BottomPad:    dims.BottomPad,
		HeightMin:    hMin,
		HeightMax:    hMax,
		TimeMin:      tMin,
		TimeMax:      tMax,
		YTicks:       m.YTicks(),
		Curve:        m.Curve(series),
		DayTicks:     DayTicks(m),
		Lows:         LowLabels(m, lows),
		ExtremePoint: m.ExtremePoints(),
	}
}
