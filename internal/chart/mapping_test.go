package chart

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/tidetracker/internal/models"
)

func lt(s string) models.LocalTime {
	t, err := time.Parse("2006-01-02 15:04", s)
	if err != nil {
		panic(err)
	}
	return models.LocalTime(t.UnixMilli())
}

func testSeries() []models.SamplePoint {
	return []models.SamplePoint{
		{T: lt("2024-06-01 03:00"), H: 4.2},
		{T: lt("2024-06-01 09:30"), H: -0.81},
		{T: lt("2024-06-02 02:00"), H: 5.93},
		{T: lt("2024-06-03 00:00"), H: 1.1},
	}
}

func TestBuildMapping(t *testing.T) {
	series := testSeries()
	extremes := []models.Extreme{
		{T: series[1].T, H: series[1].H, Type: models.TideTypeLow},
		{T: series[2].T, H: series[2].H, Type: models.TideTypeHigh},
	}

	m, err := BuildMapping(series, extremes, DefaultDimensions())
	require.NoError(t, err)

	start, end := m.TimeDomain()
	assert.Equal(t, series[0].T, start)
	assert.Equal(t, series[3].T, end)
	assert.InDelta(t, 24, m.X(start), 1e-9)
	assert.InDelta(t, 776, m.X(end), 1e-9)

	lo, hi := m.HeightDomain()
	assert.InDelta(t, -2, lo, 1e-12)
	assert.InDelta(t, 7, hi, 1e-12)
	assert.InDelta(t, 340, m.Y(lo), 1e-9)
	assert.InDelta(t, 24, m.Y(hi), 1e-9)
	assert.Greater(t, m.Y(0), m.Y(1), "higher water is drawn higher")

	assert.Equal(t, []float64{-2, -1, 0, 1, 2, 3, 4, 5, 6, 7}, m.YTicks())

	points := m.ExtremePoints()
	require.Len(t, points, 2)
	assert.Equal(t, m.Point(extremes[0].T, extremes[0].H), points[0])
	assert.Equal(t, m.Point(extremes[1].T, extremes[1].H), points[1])

	curve := m.Curve(series)
	require.Len(t, curve, len(series))
	for _, p := range curve {
		assert.True(t, p.X >= 24 && p.X <= 776)
		assert.True(t, p.Y >= 24 && p.Y <= 340)
	}
}

func TestBuildMapping_Errors(t *testing.T) {
	tests := []struct {
		name     string
		series   []models.SamplePoint
		extremes []models.Extreme
		dims     Dimensions
		want     error
	}{
		{name: "empty series", series: nil, dims: DefaultDimensions(), want: ErrEmptySeries},
		{name: "too narrow", series: testSeries(), dims: Dimensions{Width: 48, Height: 400, Pad: 24, BottomPad: 60}, want: ErrInvalidDimensions},
		{name: "too short", series: testSeries(), dims: Dimensions{Width: 800, Height: 84, Pad: 24, BottomPad: 60}, want: ErrInvalidDimensions},
		{name: "negative pad", series: testSeries(), dims: Dimensions{Width: 800, Height: 400, Pad: -1, BottomPad: 60}, want: ErrInvalidDimensions},
		{name: "NaN width", series: testSeries(), dims: Dimensions{Width: math.NaN(), Height: 400, Pad: 24, BottomPad: 60}, want: ErrInvalidDimensions},
		{name: "NaN height in series", series: []models.SamplePoint{{T: 0, H: math.NaN()}}, dims: DefaultDimensions(), want: ErrNonFinite},
		{
			name:     "infinite extreme",
			series:   testSeries(),
			extremes: []models.Extreme{{T: 0, H: math.Inf(-1), Type: models.TideTypeLow}},
			dims:     DefaultDimensions(),
			want:     ErrNonFinite,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := BuildMapping(tt.series, tt.extremes, tt.dims)
			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, m)
		})
	}
}

func TestBuildMapping_SingleSample(t *testing.T) {
	series := []models.SamplePoint{{T: lt("2024-06-01 12:00"), H: 1}}

	m, err := BuildMapping(series, nil, DefaultDimensions())
	require.NoError(t, err)

	assert.Equal(t, 400.0, m.X(series[0].T))
	lo, hi := m.HeightDomain()
	assert.InDelta(t, 0.5, lo, 1e-12)
	assert.InDelta(t, 1.5, hi, 1e-12)
	assert.InDelta(t, 182, m.Y(1), 1e-9)
	assert.Empty(t, m.DayTicks())
	assert.Empty(t, m.ExtremePoints())
}

func TestMapping_DayTicks(t *testing.T) {
	tests := []struct {
		name   string
		series []models.SamplePoint
		want   []models.LocalTime
	}{
		{
			name:   "end midnight included",
			series: testSeries(),
			want:   []models.LocalTime{lt("2024-06-02 00:00"), lt("2024-06-03 00:00")},
		},
		{
			name:   "start midnight included",
			series: []models.SamplePoint{{T: lt("2024-06-01 00:00"), H: 0}, {T: lt("2024-06-01 23:59"), H: 1}},
			want:   []models.LocalTime{lt("2024-06-01 00:00")},
		},
		{
			name:   "within one day",
			series: []models.SamplePoint{{T: lt("2024-06-01 01:00"), H: 0}, {T: lt("2024-06-01 23:00"), H: 1}},
			want:   nil,
		},
		{
			name:   "before the epoch",
			series: []models.SamplePoint{{T: lt("1969-12-30 18:00"), H: 0}, {T: lt("1970-01-01 06:00"), H: 1}},
			want:   []models.LocalTime{lt("1969-12-31 00:00"), lt("1970-01-01 00:00")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := BuildMapping(tt.series, nil, DefaultDimensions())
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.DayTicks())
		})
	}
}

func TestMapping_Idempotent(t *testing.T) {
	a, err := BuildMapping(testSeries(), nil, DefaultDimensions())
	require.NoError(t, err)
	b, err := BuildMapping(testSeries(), nil, DefaultDimensions())
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestNowMarker(t *testing.T) {
	m, err := BuildMapping(testSeries(), nil, DefaultDimensions())
	require.NoError(t, err)

	inside := NowMarker(m, lt("2024-06-01 12:00"), 2.5)
	assert.True(t, inside.Visible)
	require.NotNil(t, inside.H)
	assert.Equal(t, 2.5, *inside.H)
	assert.Equal(t, m.X(lt("2024-06-01 12:00")), inside.X)
	assert.Equal(t, m.Y(2.5), inside.Y)

	outside := NowMarker(m, lt("2024-06-05 12:00"), 1.1)
	assert.False(t, outside.Visible)
	assert.Greater(t, outside.X, 776.0)

	nan := NowMarker(m, lt("2024-06-01 12:00"), math.NaN())
	assert.False(t, nan.Visible)
	assert.Nil(t, nan.H)

	none := NowMarker(nil, lt("2024-06-01 12:00"), 1)
	assert.False(t, none.Visible)
	assert.Nil(t, none.H)
	assert.Equal(t, lt("2024-06-01 12:00"), none.T)
}
