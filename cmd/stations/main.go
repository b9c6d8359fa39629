package main

import (
	"context"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidetracker/internal/app"
	"github.com/bbernstein/tidetracker/internal/server"
)

var (
	lambdaStart     = lambda.Start // Allow mocking of lambda.Start in tests
	stationsHandler server.Handler
	setupOnce       sync.Once
)

func init() {
	setupOnce.Do(func() {
		a, err := app.New(context.Background(), app.Options{})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize stations service")
		}
		stationsHandler = a.Handlers.Stations
	})
}

func handleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return stationsHandler.HandleRequest(ctx, request)
}

func main() {
	lambdaStart(handleRequest)
}
