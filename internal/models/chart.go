package models

import "fmt"

// ScreenPoint is a position in drawing-area pixels.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// NowMarker is the live "current time" dot on the curve.
type NowMarker struct {
	T       LocalTime `json:"t"`
	H       *float64  `json:"h,omitempty"` // nil when the curve is undefined at T
	X       float64   `json:"x"`
	Y       float64   `json:"y"`
	Visible bool      `json:"visible"`
}

// DayTick marks a station-local midnight inside the plotted range.
type DayTick struct {
	T        LocalTime `json:"t"`
	X        float64   `json:"x"`
	Weekday  string    `json:"weekday"`
	MonthDay string    `json:"monthDay"`
}

// LowLabel is a displayed low tide with its screen position and labels.
type LowLabel struct {
	SignificantExtreme
	Position    ScreenPoint `json:"position"`
	HeightLabel string      `json:"heightLabel"`
	TimeLabel   string      `json:"timeLabel"`
}

// Geometry holds everything that depends on the drawing area.
type Geometry struct {
	Width        float64       `json:"width"`
	Height       float64       `json:"height"`
	Pad          float64       `json:"pad"`
	BottomPad    float64       `json:"bottomPad"`
	HeightMin    float64       `json:"heightMin"`
	HeightMax    float64       `json:"heightMax"`
	TimeMin      LocalTime     `json:"timeMin"`
	TimeMax      LocalTime     `json:"timeMax"`
	YTicks       []float64     `json:"yTicks"`
	Curve        []ScreenPoint `json:"curve"`
	DayTicks     []DayTick     `json:"dayTicks"`
	Lows         []LowLabel    `json:"lows"`
	ExtremePoint []ScreenPoint `json:"extremePoints"`
}

// ChartResponse is everything a client needs to draw a tide chart.
type ChartResponse struct {
	ResponseType          string               `json:"responseType"`
	StationID             string               `json:"stationId"`
	StationName           string               `json:"stationName"`
	TimeZoneOffsetSeconds int                  `json:"timeZoneOffsetSeconds"`
	Start                 LocalTime            `json:"start"`
	End                   LocalTime            `json:"end"`
	StepMinutes           float64              `json:"stepMinutes"`
	Series                []SamplePoint        `json:"series"`
	Extremes              []Extreme            `json:"extremes"`
	Significant           []Extreme            `json:"significant"`
	Lows                  []SignificantExtreme `json:"lows"`
	Now                   NowMarker            `json:"now"`
	Trend                 *TideType            `json:"trend,omitempty"`
	Geometry              *Geometry            `json:"geometry,omitempty"`
}

// Validate checks that the response is internally consistent.
func (r *ChartResponse) Validate() error {
	if r.StationID == "" {
		return fmt.Errorf("station ID is required")
	}
	if r.End < r.Start {
		return fmt.Errorf("end %s before start %s", r.End, r.Start)
	}
	for i := 1; i < len(r.Series); i++ {
		if r.Series[i].T < r.Series[i-1].T {
			return fmt.Errorf("series not sorted at index %d", i)
		}
	}
	for i, e := range r.Extremes {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("invalid extreme at index %d: %w", i, err)
		}
	}
	if r.Trend != nil && !r.Trend.Valid() {
		return fmt.Errorf("invalid trend: %s", *r.Trend)
	}
	return nil
}
