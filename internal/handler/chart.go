package handler

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidetracker/internal/api"
	"github.com/bbernstein/tidetracker/internal/models"
	"github.com/bbernstein/tidetracker/internal/render"
	"github.com/bbernstein/tidetracker/internal/tide"
)

// Renderer draws a chart response in one image format.
type Renderer func(w io.Writer, resp *models.ChartResponse) error

// Format is an output format for the chart endpoint.
type Format struct {
	ContentType string
	Render      Renderer
}

var formats = map[string]Format{
	"svg": {ContentType: "image/svg+xml", Render: render.SVG},
	"png": {ContentType: "image/png", Render: render.PNG},
}

// LookupFormat returns the renderer for name ("svg" or "png"). JSON is not a
// rendered format and is not found here.
func LookupFormat(name string) (Format, bool) {
	f, ok := formats[strings.ToLower(name)]
	return f, ok
}

type ChartHandler struct {
	tideService tide.TideService
}

func NewChartHandler(service tide.TideService) *ChartHandler {
	return &ChartHandler{
		tideService: service,
	}
}

// HandleRequest serves the chart as JSON, or as an image when format=svg or
// format=png.
func (h *ChartHandler) HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	params := request.QueryStringParameters
	log.Info().Str("station_id", params["stationId"]).Msg("Handling chart request")

	req, err := api.ParseChartRequest(params)
	if err != nil {
		return errorResponse(err, "Invalid parameters")
	}

	resp, err := h.tideService.GetChart(ctx, req)
	if err != nil {
		return errorResponse(err, "Error getting tide chart")
	}

	name := params["format"]
	if name == "" || strings.EqualFold(name, "json") {
		return api.Success(resp)
	}

	format, ok := LookupFormat(name)
	if !ok {
		return api.Error("Unsupported format "+name, http.StatusBadRequest)
	}

	var buf bytes.Buffer
	if err := format.Render(&buf, resp); err != nil {
		if errors.Is(err, render.ErrNoGeometry) {
			return api.Error("No tide data to draw for this window", http.StatusNotFound)
		}
		return errorResponse(err, "Error rendering chart")
	}
	return api.Image(format.ContentType, buf.Bytes())
}
