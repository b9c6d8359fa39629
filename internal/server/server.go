// Package server exposes the API Gateway handlers over plain HTTP for local
// and container deployments.
package server

import (
	"context"
	"encoding/base64"
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/bbernstein/tidetracker/internal/api"
	"github.com/bbernstein/tidetracker/internal/config"
	"github.com/bbernstein/tidetracker/internal/metrics"
)

// Handler is anything that answers an API Gateway proxy request.
type Handler interface {
	HandleRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error)
}

type Handlers struct {
	Chart    Handler
	Extremes Handler
	Stations Handler
}

// NewRouter registers the API under prefix. Every route is wrapped by the
// latency collector; gatherer backs /metrics and may be nil to leave it out.
func NewRouter(prefix string, h Handlers, m *metrics.Collector, gatherer prometheus.Gatherer) *mux.Router {
	r := mux.NewRouter().StrictSlash(true)
	s := r
	if prefix != "" && prefix != "/" {
		s = r.PathPrefix(strings.TrimSuffix(prefix, "/")).Subrouter()
	}

	s.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
	}).Methods(http.MethodGet)

	if gatherer != nil {
		s.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	v1 := s.PathPrefix("/api/v1").Subrouter()
	v1.Use(m.LatencyHandler)
	v1.Handle("/chart", adapt(h.Chart, "")).Methods(http.MethodGet)
	v1.Handle("/chart.svg", adapt(h.Chart, "svg")).Methods(http.MethodGet)
	v1.Handle("/chart.png", adapt(h.Chart, "png")).Methods(http.MethodGet)
	v1.Handle("/extremes", adapt(h.Extremes, "")).Methods(http.MethodGet)
	v1.Handle("/stations", adapt(h.Stations, "")).Methods(http.MethodGet)

	return r
}

// adapt turns an http request into a proxy request for h. A non-empty format
// overrides the format query parameter.
func adapt(h Handler, format string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		params := make(map[string]string, len(r.URL.Query())+1)
		for k, v := range r.URL.Query() {
			if len(v) > 0 {
				params[k] = v[0]
			}
		}
		if format != "" {
			params["format"] = format
		}

		resp, err := h.HandleRequest(r.Context(), events.APIGatewayProxyRequest{
			HTTPMethod:            r.Method,
			Path:                  r.URL.Path,
			QueryStringParameters: params,
		})
		if err != nil {
			log.Error().Err(err).Str("path", r.URL.Path).Msg("Handler failed")
			status, msg := api.StatusFor(err)
			resp, _ = api.Error(msg, status)
		}
		write(w, resp)
	})
}

func write(w http.ResponseWriter, resp events.APIGatewayProxyResponse) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}

	body := []byte(resp.Body)
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(resp.Body)
		if err != nil {
			log.Error().Err(err).Msg("Decoding handler body")
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		body = decoded
	}

	status := resp.StatusCode
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)
	_, _ = w.Write(body)
}

// New builds the http.Server for cfg.
func New(cfg *config.ServerConfig, handler http.Handler) *http.Server {
	return &http.Server{
		Handler:      handler,
		Addr:         cfg.Addr(),
		WriteTimeout: 15 * time.Second,
		ReadTimeout:  15 * time.Second,
	}
}
