package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidetracker/internal/app"
	"github.com/bbernstein/tidetracker/internal/config"
	"github.com/bbernstein/tidetracker/internal/server"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverCfg, err := config.LoadServerConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load server config")
	}

	a, err := app.New(ctx, app.Options{})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize application")
	}

	router := server.NewRouter(serverCfg.Prefix, a.Handlers, a.Metrics, prometheus.DefaultGatherer)
	srv := server.New(serverCfg, router)

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("Server shutdown failed")
		}
		a.LogCacheStats()
	}()

	log.Info().Str("addr", srv.Addr).Str("prefix", serverCfg.Prefix).Msg("Listening")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
