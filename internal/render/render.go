// Package render draws a chart response as an image.
package render

import (
	"errors"

	"github.com/bbernstein/tidetracker/internal/models"
)

// ErrNoGeometry is returned when a response carries nothing to draw.
var ErrNoGeometry = errors.New("render: chart has no geometry")

const (
	backgroundHex = "0a2540"
	waterTopHex   = "2e8bc0"
	waterBaseHex  = "126e99"
	bestLowHex    = "ffd166"

	nowLineTop = 16.0
)

func drawable(resp *models.ChartResponse) (*models.Geometry, error) {
	if resp == nil || resp.Geometry == nil || len(resp.Geometry.Curve) == 0 {
		return nil, ErrNoGeometry
	}
	return resp.Geometry, nil
}
