package main

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidetracker/internal/app"
	"github.com/bbernstein/tidetracker/internal/server"
)

var (
	lambdaStart = lambda.Start // Allow mocking of lambda.Start in tests
	handlers    *server.Handlers
	setupOnce   sync.Once
	initApp     = func(ctx context.Context) (*app.App, error) { return app.New(ctx, app.Options{}) }
)

func InitializeService() error {
	var initError error
	setupOnce.Do(func() {
		log.Debug().Msg("Initializing tide service...")
		a, err := initApp(context.Background())
		if err != nil {
			initError = fmt.Errorf("failed to initialize service: %w", err)
			log.Error().Err(err).Msg("Failed to initialize service")
			return
		}
		handlers = &a.Handlers
	})
	return initError
}

// handleRequest serves /extremes from the extremes handler and every other
// path from the chart handler.
func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if handlers == nil {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       `{"responseType":"error","error":"Handler not initialized"}`,
		}, fmt.Errorf("handler not initialized")
	}

	if strings.HasSuffix(strings.TrimSuffix(request.Path, "/"), "/extremes") {
		return handlers.Extremes.HandleRequest(ctx, request)
	}
	return handlers.Chart.HandleRequest(ctx, request)
}

func main() {
	if err := InitializeService(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize service")
	}
	lambdaStart(handleRequest)
}
