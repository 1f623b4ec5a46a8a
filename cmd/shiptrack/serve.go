package main

import (
	"encoding/json"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/parcelops/shiptrack/internal/config"
	"github.com/parcelops/shiptrack/pkg/logging"
	"github.com/parcelops/shiptrack/pkg/ups"
	"github.com/parcelops/shiptrack/pkg/usps"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the tracking HTTP service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.Setup(logging.Config{
				Level:  logging.LogLevel(cfg.LogLevel),
				Pretty: cfg.LogPretty,
				Output: os.Stderr,
			})

			srv := newServer(cfg, logger)

			r := chi.NewRouter()
			r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("OK"))
			})
			r.Handle("/metrics", promhttp.Handler())
			r.Post("/v1/track/{carrier}", srv.handleTrack)

			logger.Info().Str("addr", cfg.HTTPAddr()).Msg("Starting tracking service")
			return http.ListenAndServe(cfg.HTTPAddr(), r)
		},
	}
}

type server struct {
	ups    *ups.Client
	usps   *usps.Client
	logger zerolog.Logger
}

func newServer(cfg *config.Config, logger zerolog.Logger) *server {
	s := &server{
		ups:    ups.New(upsConfig(cfg)),
		logger: logger,
	}

	uspsClient, err := usps.New(uspsConfig(cfg))
	if err != nil {
		// USPS credentials are optional for a UPS-only deployment.
		logger.Warn().Err(err).Msg("USPS tracking disabled")
	} else {
		s.usps = uspsClient
	}

	return s
}

type trackRequestBody struct {
	TrackingNumbers []string `json:"trackingNumbers"`
	Raw             bool     `json:"raw"`
}

func (s *server) handleTrack(w http.ResponseWriter, r *http.Request) {
	var body trackRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if len(body.TrackingNumbers) == 0 {
		http.Error(w, "trackingNumbers is required", http.StatusBadRequest)
		return
	}

	var out interface{}
	switch chi.URLParam(r, "carrier") {
	case "ups":
		if body.Raw {
			out = s.ups.TrackRaw(r.Context(), body.TrackingNumbers)
		} else {
			out = s.ups.Track(r.Context(), body.TrackingNumbers)
		}
	case "usps":
		if s.usps == nil {
			http.Error(w, "usps tracking is not configured", http.StatusServiceUnavailable)
			return
		}
		if body.Raw {
			out = s.usps.TrackRaw(r.Context(), body.TrackingNumbers)
		} else {
			out = s.usps.Track(r.Context(), body.TrackingNumbers)
		}
	default:
		http.Error(w, "unknown carrier", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(out); err != nil {
		s.logger.Error().Err(err).Msg("Failed to write response")
	}
}
