package models

import "time"

const millisPerDay = int64(24 * time.Hour / time.Millisecond)

// LocalTime is a station-local, naive timestamp in milliseconds.
//
// NOAA reports predictions with time_zone=lst, i.e. as the station's
// standard-time wall clock with no zone attached. LocalTime keeps that wall clock by
// encoding it as if it were UTC, so calendar math (hour of day, midnight) is
// independent of the host time zone.
type LocalTime int64

// FromWallClock drops the zone of t and keeps its wall clock reading.
func FromWallClock(t time.Time) LocalTime {
	y, mo, d := t.Date()
	h, mi, s := t.Clock()
	return LocalTime(time.Date(y, mo, d, h, mi, s, t.Nanosecond(), time.UTC).UnixMilli())
}

// Time returns the wall clock as a UTC time.Time. The zone is meaningless.
func (t LocalTime) Time() time.Time {
	return time.UnixMilli(int64(t)).UTC()
}

// In attaches loc to the wall clock reading.
func (t LocalTime) In(loc *time.Location) time.Time {
	w := t.Time()
	return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), w.Nanosecond(), loc)
}

// Hour is the hour of day, 0-23.
func (t LocalTime) Hour() int {
	return t.Time().Hour()
}

// StartOfDay returns local midnight of the same calendar day.
func (t LocalTime) StartOfDay() LocalTime {
	ms := int64(t)
	rem := ms % millisPerDay
	if rem < 0 {
		rem += millisPerDay
	}
	return LocalTime(ms - rem)
}

// AddDays moves t by n calendar days.
func (t LocalTime) AddDays(n int) LocalTime {
	return t + LocalTime(int64(n)*millisPerDay)
}

// Format formats the wall clock with a time layout.
func (t LocalTime) Format(layout string) string {
	return t.Time().Format(layout)
}

func (t LocalTime) String() string {
	return t.Format("2006-01-02T15:04:05")
}
