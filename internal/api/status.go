package api

import (
	"errors"
	"net/http"

	"github.com/bbernstein/tidetracker/internal/chart"
	"github.com/bbernstein/tidetracker/internal/station"
	"github.com/bbernstein/tidetracker/internal/tide"
)

// StatusFor maps a service error to an HTTP status and a message that is
// safe to show to clients.
func StatusFor(err error) (int, string) {
	var (
		paramErr  *ParameterError
		coordErr  InvalidCoordinatesError
		rangeErr  *tide.InvalidRangeError
		noaaErr   *tide.NoaaAPIError
		malformed *tide.MalformedExtremesError
	)

	switch {
	case errors.As(err, &paramErr):
		return http.StatusBadRequest, paramErr.Error()
	case errors.As(err, &coordErr):
		return http.StatusBadRequest, coordErr.Error()
	case errors.As(err, &rangeErr):
		return http.StatusBadRequest, rangeErr.Error()
	case errors.Is(err, chart.ErrInvalidDimensions):
		return http.StatusBadRequest, "Chart dimensions leave no drawing area"
	case errors.Is(err, station.ErrNotFound):
		return http.StatusNotFound, "Station not found"
	case errors.As(err, &noaaErr), errors.As(err, &malformed):
		return http.StatusBadGateway, "Error getting tide data from NOAA"
	}
	return http.StatusInternalServerError, "Internal Server Error"
}
