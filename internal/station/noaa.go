package station

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidetracker/internal/cache"
	"github.com/bbernstein/tidetracker/internal/models"
	"github.com/bbernstein/tidetracker/pkg/http/client"
)

// ErrNotFound is returned when no station has the requested ID.
var ErrNotFound = errors.New("station not found")

const (
	stationListPath     = "/mdapi/prod/webapi/tidepredstations.json"
	defaultNearestLimit = 5
)

type NOAAStationFinder struct {
	httpClient client.Interface
	memCache   *cache.StationCache
	s3Cache    cache.StationListCacheProvider
}

var _ models.StationFinder = (*NOAAStationFinder)(nil)

type Option func(*NOAAStationFinder)

// WithS3Cache adds a persistent station list cache behind the memory one.
func WithS3Cache(p cache.StationListCacheProvider) Option {
	return func(f *NOAAStationFinder) {
		f.s3Cache = p
	}
}

func NewNOAAStationFinder(httpClient client.Interface, memCache *cache.StationCache, opts ...Option) *NOAAStationFinder {
	if memCache == nil {
		memCache = cache.NewStationCache()
	}

	f := &NOAAStationFinder{
		httpClient: httpClient,
		memCache:   memCache,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FindNearestStations returns up to limit stations ordered by great-circle
// distance, with Distance filled in kilometres.
func (f *NOAAStationFinder) FindNearestStations(ctx context.Context, lat, lon float64, limit int) ([]models.Station, error) {
	if lat < -90 || lat > 90 {
		return nil, fmt.Errorf("invalid latitude: %f", lat)
	}
	if lon < -180 || lon > 180 {
		return nil, fmt.Errorf("invalid longitude: %f", lon)
	}

	stations, err := f.getStationList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting station list: %w", err)
	}

	result := make([]models.Station, len(stations))
	for i, st := range stations {
		result[i] = st
		result[i].Distance = calculateDistance(lat, lon, st.Latitude, st.Longitude)
	}

	sort.SliceStable(result, func(i, j int) bool {
		return result[i].Distance < result[j].Distance
	})

	if limit <= 0 {
		limit = defaultNearestLimit
	}
	if limit > len(result) {
		limit = len(result)
	}
	return result[:limit], nil
}

func (f *NOAAStationFinder) FindStation(ctx context.Context, stationID string) (*models.Station, error) {
	stations, err := f.getStationList(ctx)
	if err != nil {
		return nil, fmt.Errorf("getting station list: %w", err)
	}

	for _, st := range stations {
		if st.ID == stationID {
			found := st
			return &found, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", ErrNotFound, stationID)
}

func (f *NOAAStationFinder) getStationList(ctx context.Context) ([]models.Station, error) {
	if stations := f.memCache.GetStations(); stations != nil {
		log.Debug().Msg("Memory cache HIT for station list")
		return stations, nil
	}

	if f.s3Cache != nil {
		stations, err := f.s3Cache.GetStations(ctx)
		if err != nil {
			log.Error().Err(err).Msg("Error getting stations from S3 cache")
		} else if stations != nil {
			log.Debug().Msg("S3 cache HIT for station list")
			f.memCache.SetStations(stations)
			return stations, nil
		}
	}

	log.Debug().Msg("Cache MISS for station list, fetching from NOAA API")

	stations, err := f.fetchStations(ctx)
	if err != nil {
		return nil, err
	}

	if f.s3Cache != nil {
		if err := f.s3Cache.SaveStations(ctx, stations); err != nil {
			log.Error().Err(err).Msg("Failed to save stations to S3 cache")
		}
	}
	f.memCache.SetStations(stations)

	return stations, nil
}

type noaaStation struct {
	ID           string  `json:"stationId"`
	Name         string  `json:"name"`
	State        string  `json:"state"`
	Region       string  `json:"region"`
	Lat          float64 `json:"lat"`
	Lon          float64 `json:"lon"`
	TimeZoneCorr string  `json:"timeZoneCorr"`
	StationType  string  `json:"stationType"`
}

func (f *NOAAStationFinder) fetchStations(ctx context.Context) ([]models.Station, error) {
	resp, err := f.httpClient.Get(ctx, stationListPath)
	if err != nil {
		return nil, fmt.Errorf("fetching stations: %w", err)
	}
	if resp == nil {
		return nil, fmt.Errorf("no response from NOAA API")
	}

	var noaaResp struct {
		Stations []noaaStation `json:"stationList"`
	}
	if err := json.Unmarshal(resp.Body, &noaaResp); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}

	stations := make([]models.Station, 0, len(noaaResp.Stations))
	for _, s := range noaaResp.Stations {
		st := models.Station{
			ID:             s.ID,
			Name:           s.Name,
			State:          optional(s.State),
			Region:         optional(s.Region),
			Latitude:       s.Lat,
			Longitude:      s.Lon,
			Source:         models.SourceNOAA,
			Capabilities:   []string{"TIDE_PREDICTIONS"},
			TimeZoneOffset: parseTimeZoneOffset(s.TimeZoneCorr),
			StationType:    optional(s.StationType),
		}
		if err := st.Validate(); err != nil {
			log.Warn().Err(err).Str("station_id", s.ID).Msg("Skipping invalid station")
			continue
		}
		stations = append(stations, st)
	}

	return stations, nil
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// parseTimeZoneOffset converts NOAA's timeZoneCorr hours, which may be
// fractional, to seconds east of UTC.
func parseTimeZoneOffset(tzCorr string) int {
	hours, err := strconv.ParseFloat(strings.TrimSpace(tzCorr), 64)
	if err != nil {
		return 0
	}
	return int(math.Round(hours * 3600))
}

func calculateDistance(lat1, lon1, lat2, lon2 float64) float64 {
	const earthRadius = 6371.0 // km

	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadius * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}
