package api

import (
	"fmt"
	"strconv"

	"github.com/bbernstein/tidetracker/internal/tide"
)

type InvalidCoordinatesError struct{}

func (e InvalidCoordinatesError) Error() string {
	return "Invalid coordinates"
}

// ParameterError reports a missing or unparseable query parameter.
type ParameterError struct {
	Name  string
	Value string
	Err   error
}

func (e *ParameterError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("missing parameter %s", e.Name)
	}
	return fmt.Sprintf("invalid parameter %s=%q", e.Name, e.Value)
}

func (e *ParameterError) Unwrap() error {
	return e.Err
}

// Parameter parsing helpers
func ParseCoordinates(params map[string]string) (float64, float64, error) {
	latStr, hasLat := params["lat"]
	lonStr, hasLon := params["lon"]

	if !hasLat {
		return 0, 0, &ParameterError{Name: "lat"}
	}
	if !hasLon {
		return 0, 0, &ParameterError{Name: "lon"}
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return 0, 0, &ParameterError{Name: "lat", Value: latStr, Err: err}
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return 0, 0, &ParameterError{Name: "lon", Value: lonStr, Err: err}
	}

	if lat < -90 || lat > 90 || lon < -180 || lon > 180 {
		return 0, 0, InvalidCoordinatesError{}
	}

	return lat, lon, nil
}

// ParseLimit reads "limit", defaulting to 5. Non-positive values are rejected.
func ParseLimit(params map[string]string) (int, error) {
	s, ok := params["limit"]
	if !ok || s == "" {
		return 5, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParameterError{Name: "limit", Value: s, Err: err}
	}
	if n <= 0 {
		return 0, &ParameterError{Name: "limit", Value: s, Err: fmt.Errorf("must be positive")}
	}
	return n, nil
}

// ParseChartRequest reads the chart query parameters. Only stationId is
// required; range checks are left to the tide service.
func ParseChartRequest(params map[string]string) (tide.ChartRequest, error) {
	req := tide.ChartRequest{
		StationID: params["stationId"],
		Start:     params["start"],
	}
	if req.StationID == "" {
		return req, &ParameterError{Name: "stationId"}
	}

	var err error
	if req.Days, err = intParam(params, "days"); err != nil {
		return req, err
	}
	if req.Width, err = boundedParam(params, "width", 1, tide.MaxDimension); err != nil {
		return req, err
	}
	if req.Height, err = boundedParam(params, "height", 1, tide.MaxDimension); err != nil {
		return req, err
	}
	if req.StepMinutes, err = boundedParam(params, "stepMinutes", tide.MinStepMinutes, tide.MaxStepMinutes); err != nil {
		return req, err
	}
	if s, ok := params["maxLowHeight"]; ok && s != "" {
		v, err := floatParam(params, "maxLowHeight")
		if err != nil {
			return req, err
		}
		req.MaxLowHeight = &v
	}
	return req, nil
}

func intParam(params map[string]string, name string) (int, error) {
	s := params[name]
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, &ParameterError{Name: name, Value: s, Err: err}
	}
	return n, nil
}

func floatParam(params map[string]string, name string) (float64, error) {
	s := params[name]
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, &ParameterError{Name: name, Value: s, Err: err}
	}
	return v, nil
}

// boundedParam is floatParam restricted to [lo, hi]. An absent parameter is 0.
func boundedParam(params map[string]string, name string, lo, hi float64) (float64, error) {
	v, err := floatParam(params, name)
	if err != nil || params[name] == "" {
		return v, err
	}
	if !(v >= lo && v <= hi) {
		return 0, &ParameterError{Name: name, Value: params[name], Err: fmt.Errorf("must be between %g and %g", lo, hi)}
	}
	return v, nil
}
