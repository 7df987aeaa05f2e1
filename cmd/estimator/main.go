package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/solar-estimator/internal/adapter/http"
	"github.com/couchcryptid/solar-estimator/internal/adapter/nasapower"
	"github.com/couchcryptid/solar-estimator/internal/adapter/nominatim"
	"github.com/couchcryptid/solar-estimator/internal/adapter/pvgis"
	"github.com/couchcryptid/solar-estimator/internal/config"
	"github.com/couchcryptid/solar-estimator/internal/domain"
	"github.com/couchcryptid/solar-estimator/internal/observability"
	"github.com/couchcryptid/solar-estimator/internal/pipeline"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.LogLevel, cfg.LogFormat)
	metrics := observability.NewMetrics()

	var geocoder domain.Geocoder = nominatim.NewClient(
		cfg.NominatimBaseURL, cfg.NominatimUserAgent, cfg.NominatimTimeout, metrics, logger)
	geocoder = nominatim.NewCachedResolver(geocoder, cfg.NominatimCacheSize, metrics)
	logger.Info("nominatim geocoding configured",
		"base_url", cfg.NominatimBaseURL,
		"cache_size", cfg.NominatimCacheSize,
		"timeout", cfg.NominatimTimeout,
	)

	primary := pvgis.NewClient(cfg.PVGISBaseURL, cfg.PVGISTimeout, metrics, logger)
	fallback := nasapower.NewClient(cfg.NASAPowerBaseURL, cfg.NASAPowerTimeout, metrics, logger)
	logger.Info("irradiance providers configured",
		"primary", primary.Name(),
		"fallback", fallback.Name(),
	)

	p := pipeline.New(geocoder, primary, fallback, logger, metrics)

	defaults := pipeline.Request{
		Location:        cfg.DefaultLocation,
		AreaM2:          cfg.DefaultAreaM2,
		InterestRate:    cfg.DefaultInterestRate,
		PanelEfficiency: cfg.DefaultPanelEfficiency,
	}
	srv := httpadapter.NewServer(cfg.HTTPAddr, p, p, defaults, logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http server shutdown error", "error", err)
	}

	logger.Info("shutdown complete")
}
