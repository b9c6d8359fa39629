package tide

import (
	"errors"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/bbernstein/tidetracker/internal/models"
)

// NOAA sends "2006-01-02 15:04"; seconds and an ISO "T" joiner are tolerated.
var noaaTimeLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
}

var errNonFinite = errors.New("height is not finite")

// Parse converts raw NOAA extremes into canonical extremes sorted by time.
//
// Times are read as station wall clock; no zone conversion happens. Records
// that cannot be parsed are left out of the result and reported together in a
// *MalformedExtremesError, so the returned slice never carries NaN.
func Parse(raw []models.RawExtreme) ([]models.Extreme, error) {
	extremes := make([]models.Extreme, 0, len(raw))
	var bad []MalformedRecord

	for i, r := range raw {
		t, err := parseLocalTime(r.Time)
		if err != nil {
			bad = append(bad, MalformedRecord{Index: i, Field: "t", Value: r.Time, Err: err})
			continue
		}

		h, err := strconv.ParseFloat(strings.TrimSpace(r.Height), 64)
		if err == nil && (math.IsNaN(h) || math.IsInf(h, 0)) {
			err = errNonFinite
		}
		if err != nil {
			bad = append(bad, MalformedRecord{Index: i, Field: "v", Value: r.Height, Err: err})
			continue
		}

		var typ models.TideType
		switch r.Type {
		case "H":
			typ = models.TideTypeHigh
		case "L":
			typ = models.TideTypeLow
		default:
			bad = append(bad, MalformedRecord{Index: i, Field: "type", Value: r.Type})
			continue
		}

		extremes = append(extremes, models.Extreme{T: t, H: h, Type: typ})
	}

	sort.SliceStable(extremes, func(i, j int) bool {
		return extremes[i].T < extremes[j].T
	})

	if len(bad) > 0 {
		return extremes, &MalformedExtremesError{Records: bad, Total: len(raw)}
	}
	return extremes, nil
}

func parseLocalTime(s string) (models.LocalTime, error) {
	s = strings.Replace(strings.TrimSpace(s), " ", "T", 1)
	var err error
	for _, layout := range noaaTimeLayouts {
		var t time.Time
		t, err = time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return models.LocalTime(t.UnixMilli()), nil
		}
	}
	return 0, err
}
