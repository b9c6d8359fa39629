package handler

import (
	"context"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidetracker/internal/api"
	"github.com/bbernstein/tidetracker/internal/models"
)

type StationsHandler struct {
	stationFinder models.StationFinder
}

func NewStationsHandler(finder models.StationFinder) *StationsHandler {
	return &StationsHandler{
		stationFinder: finder,
	}
}

func (h *StationsHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	// Check if we're looking up by station ID or coordinates
	if stationID, ok := params["stationId"]; ok {
		station, err := h.stationFinder.FindStation(ctx, stationID)
		if err != nil {
			return errorResponse(err, "Error finding station")
		}
		if station == nil {
			return api.Error("Station not found", http.StatusNotFound)
		}
		return api.Success(api.NewStationsResponse([]models.Station{*station}))
	}

	lat, lon, err := api.ParseCoordinates(params)
	if err != nil {
		return errorResponse(err, "Invalid parameters")
	}

	limit, err := api.ParseLimit(params)
	if err != nil {
		return errorResponse(err, "Invalid parameters")
	}

	stations, err := h.stationFinder.FindNearestStations(ctx, lat, lon, limit)
	if err != nil {
		return errorResponse(err, "Error finding stations")
	}

	return api.Success(api.NewStationsResponse(stations))
}

// errorResponse logs err and converts it to an API Gateway error response.
func errorResponse(err error, msg string) (events.APIGatewayProxyResponse, error) {
	status, clientMsg := api.StatusFor(err)
	if status >= 500 {
		log.Error().Err(err).Int("status", status).Msg(msg)
	} else {
		log.Debug().Err(err).Int("status", status).Msg(msg)
	}
	return api.Error(clientMsg, status)
}
