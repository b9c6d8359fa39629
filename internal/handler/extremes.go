package handler

import (
	"context"
	"strconv"

	"github.com/aws/aws-lambda-go/events"

	"github.com/bbernstein/tidetracker/internal/api"
	"github.com/bbernstein/tidetracker/internal/tide"
)

type ExtremesHandler struct {
	tideService tide.TideService
}

func NewExtremesHandler(service tide.TideService) *ExtremesHandler {
	return &ExtremesHandler{tideService: service}
}

// HandleRequest returns the parsed high and low tides for a window.
func (h *ExtremesHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters

	stationID := params["stationId"]
	if stationID == "" {
		return errorResponse(&api.ParameterError{Name: "stationId"}, "Invalid parameters")
	}

	days := 0
	if s := params["days"]; s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return errorResponse(&api.ParameterError{Name: "days", Value: s, Err: err}, "Invalid parameters")
		}
		days = n
	}

	extremes, err := h.tideService.Extremes(ctx, stationID, params["start"], days)
	if err != nil {
		return errorResponse(err, "Error getting extremes")
	}
	return api.Success(api.NewExtremesResponse(stationID, extremes))
}
