package tide

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidetracker/internal/chart"
	"github.com/bbernstein/tidetracker/internal/metrics"
	"github.com/bbernstein/tidetracker/internal/models"
	"github.com/bbernstein/tidetracker/pkg/http/client"
)

const (
	DefaultDays = 3
	MaxDays     = 7

	// Bounds on per-request overrides. They cap the samples and pixels one
	// request can ask for.
	MinStepMinutes = 1.0
	MaxStepMinutes = 360.0
	MaxDimension   = 4096.0

	responseTypeChart = "chart"
	dateLayout        = "2006-01-02"
	noaaDateLayout    = "20060102"
)

// Deps are the collaborators of a Service. HTTPClient and StationFinder are
// required; everything else has a default.
type Deps struct {
	HTTPClient    client.Interface
	StationFinder models.StationFinder
	Cache         ExtremesCache
	Options       FilterOptions
	// DaytimeFor overrides Options.Daytime per station when set.
	DaytimeFor  func(*models.Station) DaytimeWindow
	StepMinutes float64
	DefaultDays int
	MaxDays     int
	Dimensions  chart.Dimensions
	Now         func() time.Time
	Metrics     *metrics.Collector
}

type Service struct {
	httpClient    client.Interface
	stationFinder models.StationFinder
	cache         ExtremesCache
	options       FilterOptions
	daytimeFor    func(*models.Station) DaytimeWindow
	stepMinutes   float64
	defaultDays   int
	maxDays       int
	dims          chart.Dimensions
	now           func() time.Time
	metrics       *metrics.Collector
}

func NewService(deps Deps) (*Service, error) {
	if deps.HTTPClient == nil {
		return nil, errors.New("tide service: http client is required")
	}
	if deps.StationFinder == nil {
		return nil, errors.New("tide service: station finder is required")
	}

	s := &Service{
		httpClient:    deps.HTTPClient,
		stationFinder: deps.StationFinder,
		cache:         deps.Cache,
		options:       deps.Options,
		daytimeFor:    deps.DaytimeFor,
		stepMinutes:   deps.StepMinutes,
		defaultDays:   deps.DefaultDays,
		maxDays:       deps.MaxDays,
		dims:          deps.Dimensions,
		now:           deps.Now,
		metrics:       deps.Metrics,
	}
	if s.options == (FilterOptions{}) {
		s.options = DefaultFilterOptions()
	}
	if s.stepMinutes <= 0 {
		s.stepMinutes = DefaultStepMinutes
	}
	if s.defaultDays <= 0 {
		s.defaultDays = DefaultDays
	}
	if s.maxDays <= 0 {
		s.maxDays = MaxDays
	}
	if s.defaultDays > s.maxDays {
		return nil, fmt.Errorf("tide service: default days %d exceeds max days %d", s.defaultDays, s.maxDays)
	}
	if s.dims == (chart.Dimensions{}) {
		s.dims = chart.DefaultDimensions()
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s, nil
}

// ChartRequest selects a station and window. Zero values take the service
// defaults.
type ChartRequest struct {
	StationID    string
	Start        string // station-local date, "2006-01-02"; today when empty
	Days         int
	Width        float64
	Height       float64
	StepMinutes  float64
	MaxLowHeight *float64
}

// validate checks the overrides against the Min/Max bounds. Zero means the
// service default and is always accepted.
func (r ChartRequest) validate() error {
	if r.StepMinutes != 0 && !(r.StepMinutes >= MinStepMinutes && r.StepMinutes <= MaxStepMinutes) {
		return NewInvalidRangeError(fmt.Sprintf("step minutes must be between %g and %g, got %g", MinStepMinutes, MaxStepMinutes, r.StepMinutes))
	}
	for _, d := range []struct {
		name  string
		value float64
	}{{"width", r.Width}, {"height", r.Height}} {
		if d.value != 0 && !(d.value > 0 && d.value <= MaxDimension) {
			return NewInvalidRangeError(fmt.Sprintf("%s must be between 0 and %g, got %g", d.name, MaxDimension, d.value))
		}
	}
	return nil
}

// window is a span of whole station-local days.
type window struct {
	start models.LocalTime // first midnight
	end   models.LocalTime // midnight after the last day
}

func (w window) noaaKey() string {
	begin := w.start.AddDays(-1).Time()
	end := w.end.Time()
	return models.WindowKey(begin, end)
}

// GetChart builds the full chart payload for one station and window.
func (s *Service) GetChart(ctx context.Context, req ChartRequest) (*models.ChartResponse, error) {
	began := time.Now()

	if err := req.validate(); err != nil {
		return nil, err
	}

	st, err := s.stationFinder.FindStation(ctx, req.StationID)
	if err != nil {
		return nil, fmt.Errorf("finding station: %w", err)
	}

	now := models.FromWallClock(s.now().In(st.Location()))
	w, err := s.resolveWindow(req.Start, req.Days, now)
	if err != nil {
		return nil, err
	}

	extremes, err := s.loadExtremes(ctx, st.ID, w)
	if err != nil {
		return nil, err
	}

	step := req.StepMinutes
	if step <= 0 {
		step = s.stepMinutes
	}
	series := Upsample(extremes, step)

	opts := s.options
	if s.daytimeFor != nil {
		opts.Daytime = s.daytimeFor(st)
	}
	if req.MaxLowHeight != nil {
		opts.MaxLowHeight = *req.MaxLowHeight
	}
	display := SelectDisplay(extremes, opts)

	resp := &models.ChartResponse{
		ResponseType:          responseTypeChart,
		StationID:             st.ID,
		StationName:           st.Name,
		TimeZoneOffsetSeconds: st.TimeZoneOffset,
		Start:                 w.start,
		End:                   w.end,
		StepMinutes:           step,
		Series:                series,
		Extremes:              extremes,
		Significant:           display.Significant,
		Lows:                  display.Lows,
		Now:                   models.NowMarker{T: now},
	}
	if trend := Trend(now, series); trend != "" {
		resp.Trend = &trend
	}

	dims := s.dims
	if req.Width > 0 {
		dims.Width = req.Width
	}
	if req.Height > 0 {
		dims.Height = req.Height
	}

	m, err := chart.BuildMapping(series, extremes, dims)
	switch {
	case errors.Is(err, chart.ErrEmptySeries):
		log.Warn().
			Str("station_id", st.ID).
			Str("window", w.noaaKey()).
			Msg("No extremes in window, returning chart without geometry")
	case err != nil:
		return nil, fmt.Errorf("mapping chart: %w", err)
	default:
		resp.Now = chart.NowMarker(m, now, InterpolateAt(now, series))
		resp.Geometry = chart.Geometry(m, series, display.Lows)
	}

	s.metrics.ObserveChartBuild(time.Since(began))
	log.Debug().
		Str("station_id", st.ID).
		Int("extremes", len(extremes)).
		Int("samples", len(series)).
		Int("lows", len(display.Lows)).
		Msg("Built tide chart")

	return resp, nil
}

// Extremes returns the parsed extremes covering a window.
func (s *Service) Extremes(ctx context.Context, stationID, start string, days int) ([]models.Extreme, error) {
	st, err := s.stationFinder.FindStation(ctx, stationID)
	if err != nil {
		return nil, fmt.Errorf("finding station: %w", err)
	}

	now := models.FromWallClock(s.now().In(st.Location()))
	w, err := s.resolveWindow(start, days, now)
	if err != nil {
		return nil, err
	}
	return s.loadExtremes(ctx, st.ID, w)
}

func (s *Service) resolveWindow(start string, days int, now models.LocalTime) (window, error) {
	if days == 0 {
		days = s.defaultDays
	}
	if days < 0 || days > s.maxDays {
		return window{}, NewInvalidRangeError(fmt.Sprintf("days must be between 1 and %d, got %d", s.maxDays, days))
	}

	first := now.StartOfDay()
	if start != "" {
		t, err := time.Parse(dateLayout, start)
		if err != nil {
			return window{}, NewInvalidRangeError(fmt.Sprintf("invalid start date %q, expected YYYY-MM-DD", start))
		}
		first = models.LocalTime(t.UnixMilli())
	}
	return window{start: first, end: first.AddDays(days)}, nil
}

// loadExtremes returns the extremes inside w plus the nearest one on either
// side, so the curve reaches both window edges.
func (s *Service) loadExtremes(ctx context.Context, stationID string, w window) ([]models.Extreme, error) {
	raw, err := s.rawExtremes(ctx, stationID, w)
	if err != nil {
		return nil, err
	}

	extremes, err := Parse(raw)
	if err != nil {
		var malformed *MalformedExtremesError
		if !errors.As(err, &malformed) || malformed.AllMalformed() {
			return nil, fmt.Errorf("parsing extremes: %w", err)
		}
		log.Warn().
			Err(err).
			Str("station_id", stationID).
			Int("dropped", len(malformed.Records)).
			Msg("Dropped malformed extremes")
	}
	return clipToWindow(extremes, w), nil
}

func clipToWindow(extremes []models.Extreme, w window) []models.Extreme {
	lo, hi := 0, len(extremes)
	for i, e := range extremes {
		if e.T < w.start {
			lo = i
		}
		if e.T > w.end {
			hi = i + 1
			break
		}
	}
	return extremes[lo:hi]
}

func (s *Service) rawExtremes(ctx context.Context, stationID string, w window) ([]models.RawExtreme, error) {
	key := w.noaaKey()

	if s.cache != nil {
		record, err := s.cache.GetExtremes(ctx, stationID, key)
		if err != nil {
			log.Warn().Err(err).Str("station_id", stationID).Msg("Extremes cache lookup failed")
		} else if record != nil {
			return record.Extremes, nil
		}
	}

	raw, err := s.fetchNoaaExtremes(ctx, stationID, w.start.AddDays(-1).Time(), w.end.Time())
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		record := models.ExtremesRecord{
			StationID:   stationID,
			Window:      key,
			Extremes:    raw,
			LastUpdated: s.now().Unix(),
		}
		if err := s.cache.SaveExtremes(ctx, record); err != nil {
			log.Warn().Err(err).Str("station_id", stationID).Msg("Failed to cache extremes")
		}
	}
	return raw, nil
}

func (s *Service) fetchNoaaExtremes(ctx context.Context, stationID string, begin, end time.Time) ([]models.RawExtreme, error) {
	q := url.Values{}
	q.Set("station", stationID)
	q.Set("begin_date", begin.Format(noaaDateLayout))
	q.Set("end_date", end.Format(noaaDateLayout))
	q.Set("product", "predictions")
	q.Set("datum", "MLLW")
	q.Set("units", "english")
	// Station standard time, the same fixed offset as Station.Location.
	q.Set("time_zone", "lst")
	q.Set("format", "json")
	q.Set("interval", "hilo")

	resp, err := s.httpClient.Get(ctx, "/api/prod/datagetter?"+q.Encode())
	if err != nil {
		s.metrics.RecordNOAAFetch("error")
		return nil, NewNoaaAPIError("fetching extremes", err)
	}

	log.Debug().
		Str("station_id", stationID).
		Str("begin_date", q.Get("begin_date")).
		Str("end_date", q.Get("end_date")).
		Msg("Fetched extremes from NOAA")

	var noaaResp models.NoaaResponse
	if err := json.Unmarshal(resp.Body, &noaaResp); err != nil {
		s.metrics.RecordNOAAFetch("error")
		return nil, NewNoaaAPIError("decoding response", err)
	}
	if noaaResp.Error != nil {
		s.metrics.RecordNOAAFetch("api_error")
		return nil, NewNoaaAPIError(noaaResp.Error.Message, nil)
	}

	s.metrics.RecordNOAAFetch("success")
	return noaaResp.Predictions, nil
}
