package station

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bbernstein/tidetracker/internal/models"
	"github.com/bbernstein/tidetracker/pkg/http/client"
)

type mockS3Cache struct {
	getStationsFunc  func(context.Context) ([]models.Station, error)
	saveStationsFunc func(context.Context, []models.Station) error
}

func (m *mockS3Cache) GetStations(ctx context.Context) ([]models.Station, error) {
	if m.getStationsFunc != nil {
		return m.getStationsFunc(ctx)
	}
	return nil, nil
}

func (m *mockS3Cache) SaveStations(ctx context.Context, stations []models.Station) error {
	if m.saveStationsFunc != nil {
		return m.saveStationsFunc(ctx, stations)
	}
	return nil
}

const stationListJSON = `{
  "stationList": [
    {"stationId": "9414290", "name": "San Francisco", "state": "CA", "region": "San Francisco Bay",
     "lat": 37.8063, "lon": -122.4659, "timeZoneCorr": "-8", "stationType": "R"},
    {"stationId": "9413450", "name": "Monterey", "state": "CA", "region": "",
     "lat": 36.6089, "lon": -121.8914, "timeZoneCorr": "-8", "stationType": "R"},
    {"stationId": "1612340", "name": "Honolulu", "state": "HI",
     "lat": 21.3067, "lon": -157.867, "timeZoneCorr": "-10", "stationType": "R"},
    {"stationId": "", "name": "Broken", "lat": 0, "lon": 0, "timeZoneCorr": "0"}
  ]
}`

func countingClient(calls *int32, body string, err error) *client.Client {
	return &client.Client{
		GetFunc: func(ctx context.Context, path string) (*client.Response, error) {
			atomic.AddInt32(calls, 1)
			if err != nil {
				return nil, err
			}
			return &client.Response{StatusCode: http.StatusOK, Body: []byte(body)}, nil
		},
	}
}

func TestFindStation(t *testing.T) {
	tests := []struct {
		name      string
		stationID string
		wantName  string
		wantErr   error
	}{
		{name: "existing station", stationID: "9414290", wantName: "San Francisco"},
		{name: "missing station", stationID: "0000000", wantErr: ErrNotFound},
		{name: "invalid entries are dropped", stationID: "", wantErr: ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			finder := NewNOAAStationFinder(countingClient(&calls, stationListJSON, nil), nil)

			st, err := finder.FindStation(context.Background(), tt.stationID)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantName, st.Name)
			assert.Equal(t, -8*3600, st.TimeZoneOffset)
			assert.Equal(t, models.SourceNOAA, st.Source)
			require.NotNil(t, st.State)
			assert.Equal(t, "CA", *st.State)
		})
	}
}

func TestFindNearestStations(t *testing.T) {
	tests := []struct {
		name    string
		lat     float64
		lon     float64
		limit   int
		wantIDs []string
		wantErr string
	}{
		{
			name:    "near san francisco",
			lat:     37.8,
			lon:     -122.4,
			limit:   2,
			wantIDs: []string{"9414290", "9413450"},
		},
		{
			name:    "near honolulu",
			lat:     21.3,
			lon:     -157.8,
			limit:   1,
			wantIDs: []string{"1612340"},
		},
		{
			name:    "default limit caps at available",
			lat:     37.8,
			lon:     -122.4,
			wantIDs: []string{"9414290", "9413450", "1612340"},
		},
		{
			name:    "invalid latitude",
			lat:     91,
			lon:     0,
			wantErr: "invalid latitude",
		},
		{
			name:    "invalid longitude",
			lat:     0,
			lon:     -181,
			wantErr: "invalid longitude",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			finder := NewNOAAStationFinder(countingClient(&calls, stationListJSON, nil), nil)

			got, err := finder.FindNearestStations(context.Background(), tt.lat, tt.lon, tt.limit)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)

			ids := make([]string, len(got))
			for i, st := range got {
				ids[i] = st.ID
			}
			assert.Equal(t, tt.wantIDs, ids)
			for i := 1; i < len(got); i++ {
				assert.LessOrEqual(t, got[i-1].Distance, got[i].Distance)
			}
		})
	}
}

func TestStationListCaching(t *testing.T) {
	t.Run("memory cache avoids refetch", func(t *testing.T) {
		var calls int32
		finder := NewNOAAStationFinder(countingClient(&calls, stationListJSON, nil), nil)

		for i := 0; i < 3; i++ {
			_, err := finder.FindStation(context.Background(), "9414290")
			require.NoError(t, err)
		}
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
	})

	t.Run("s3 hit skips NOAA", func(t *testing.T) {
		var calls int32
		s3 := &mockS3Cache{
			getStationsFunc: func(context.Context) ([]models.Station, error) {
				return []models.Station{{ID: "cached", Name: "From S3", Source: models.SourceNOAA}}, nil
			},
		}
		finder := NewNOAAStationFinder(countingClient(&calls, stationListJSON, nil), nil, WithS3Cache(s3))

		st, err := finder.FindStation(context.Background(), "cached")
		require.NoError(t, err)
		assert.Equal(t, "From S3", st.Name)
		assert.Equal(t, int32(0), atomic.LoadInt32(&calls))
	})

	t.Run("s3 miss fetches and saves", func(t *testing.T) {
		var calls int32
		var saved []models.Station
		s3 := &mockS3Cache{
			getStationsFunc: func(context.Context) ([]models.Station, error) {
				return nil, errors.New("bucket unavailable")
			},
			saveStationsFunc: func(_ context.Context, stations []models.Station) error {
				saved = stations
				return nil
			},
		}
		finder := NewNOAAStationFinder(countingClient(&calls, stationListJSON, nil), nil, WithS3Cache(s3))

		_, err := finder.FindStation(context.Background(), "9414290")
		require.NoError(t, err)
		assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
		assert.Len(t, saved, 3)
	})
}

func TestStationListErrors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		err     error
		wantErr string
	}{
		{name: "transport error", err: errors.New("connection refused"), wantErr: "connection refused"},
		{name: "bad json", body: "<html>", wantErr: "decoding response"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			finder := NewNOAAStationFinder(countingClient(&calls, tt.body, tt.err), nil)

			_, err := finder.FindStation(context.Background(), "9414290")
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestFinderAgainstHTTPServer(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, stationListPath, r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(stationListJSON))
	}))
	defer server.Close()

	httpClient := client.New(client.Options{BaseURL: server.URL, Timeout: 5 * time.Second})
	finder := NewNOAAStationFinder(httpClient, nil)

	st, err := finder.FindStation(context.Background(), "1612340")
	require.NoError(t, err)
	assert.Equal(t, "Honolulu", st.Name)
	assert.Equal(t, -10*3600, st.TimeZoneOffset)
}

func TestParseTimeZoneOffset(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"-8", -28800},
		{"-10", -36000},
		{"0", 0},
		{"9.5", 34200},
		{" -3.5 ", -12600},
		{"", 0},
		{"EST", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseTimeZoneOffset(tt.in))
		})
	}
}

func TestCalculateDistance(t *testing.T) {
	assert.InDelta(t, 0, calculateDistance(37.8, -122.4, 37.8, -122.4), 1e-9)
	// San Francisco to Monterey is roughly 142 km
	assert.InDelta(t, 142, calculateDistance(37.8063, -122.4659, 36.6089, -121.8914), 5)
}
