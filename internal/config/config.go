package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Nominatim geocoding configuration. The usage policy requires an
	// identifying User-Agent on every request.
	NominatimBaseURL   string
	NominatimUserAgent string
	NominatimTimeout   time.Duration
	NominatimCacheSize int

	// Irradiance provider configuration.
	PVGISBaseURL     string
	PVGISTimeout     time.Duration
	NASAPowerBaseURL string
	NASAPowerTimeout time.Duration

	// Defaults applied when an estimate request omits a field.
	DefaultLocation        string
	DefaultAreaM2          float64
	DefaultInterestRate    float64
	DefaultPanelEfficiency float64
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	nominatimTimeout, err := parseDuration("NOMINATIM_TIMEOUT", "5s")
	if err != nil {
		return nil, err
	}
	pvgisTimeout, err := parseDuration("PVGIS_TIMEOUT", "15s")
	if err != nil {
		return nil, err
	}
	nasaTimeout, err := parseDuration("NASA_POWER_TIMEOUT", "10s")
	if err != nil {
		return nil, err
	}

	cacheSize, err := parsePositiveInt("NOMINATIM_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}

	areaM2, err := parseFloat("DEFAULT_AREA_M2", 100)
	if err != nil {
		return nil, err
	}
	interestRate, err := parseFloat("DEFAULT_INTEREST_RATE", 0.08)
	if err != nil {
		return nil, err
	}
	efficiency, err := parseFloat("DEFAULT_PANEL_EFFICIENCY", 0.18)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		NominatimBaseURL:   envOrDefault("NOMINATIM_BASE_URL", "https://nominatim.openstreetmap.org"),
		NominatimUserAgent: envOrDefault("NOMINATIM_USER_AGENT", "solar-estimator/1.0"),
		NominatimTimeout:   nominatimTimeout,
		NominatimCacheSize: cacheSize,

		PVGISBaseURL:     envOrDefault("PVGIS_BASE_URL", "https://re.jrc.ec.europa.eu/api/v5_2"),
		PVGISTimeout:     pvgisTimeout,
		NASAPowerBaseURL: envOrDefault("NASA_POWER_BASE_URL", "https://power.larc.nasa.gov"),
		NASAPowerTimeout: nasaTimeout,

		DefaultLocation:        envOrDefault("DEFAULT_LOCATION", "Accra, Ghana"),
		DefaultAreaM2:          areaM2,
		DefaultInterestRate:    interestRate,
		DefaultPanelEfficiency: efficiency,
	}

	if cfg.HTTPAddr == "" {
		return nil, fmt.Errorf("HTTP_ADDR is required")
	}
	if cfg.DefaultLocation == "" {
		return nil, fmt.Errorf("DEFAULT_LOCATION must not be empty")
	}
	if cfg.DefaultAreaM2 <= 0 {
		return nil, fmt.Errorf("DEFAULT_AREA_M2 must be positive")
	}
	if cfg.DefaultInterestRate < 0 {
		return nil, fmt.Errorf("DEFAULT_INTEREST_RATE must not be negative")
	}
	if cfg.DefaultPanelEfficiency <= 0 || cfg.DefaultPanelEfficiency > 1 {
		return nil, fmt.Errorf("DEFAULT_PANEL_EFFICIENCY must be in (0, 1]")
	}

	return cfg, nil
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func parseDuration(key, def string) (time.Duration, error) {
	s := envOrDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parsePositiveInt(key string, def int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseFloat(key string, def float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return v, nil
}
