package tide

import (
	"context"

	"github.com/bbernstein/tidetracker/internal/models"
)

type TideService interface {
	GetChart(ctx context.Context, req ChartRequest) (*models.ChartResponse, error)
	Extremes(ctx context.Context, stationID, start string, days int) ([]models.Extreme, error)
}

// ExtremesCache stores raw NOAA extremes per station and date window.
// GetExtremes returns nil, nil on a miss.
type ExtremesCache interface {
	GetExtremes(ctx context.Context, stationID, window string) (*models.ExtremesRecord, error)
	SaveExtremes(ctx context.Context, record models.ExtremesRecord) error
}
