// Package nasapower implements the fallback irradiance provider using the
// NASA POWER climatology point API. It retrieves one climatological
// all-sky surface shortwave value per calendar month and averages them.
package nasapower

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/couchcryptid/solar-estimator/internal/domain"
	"github.com/couchcryptid/solar-estimator/internal/observability"
)

// ProviderName identifies this provider in readings, logs, and metrics.
const ProviderName = "nasa-power"

// fillValue is NASA POWER's sentinel for missing data.
const fillValue = -999.0

var months = []string{"JAN", "FEB", "MAR", "APR", "MAY", "JUN", "JUL", "AUG", "SEP", "OCT", "NOV", "DEC"}

// Client implements domain.IrradianceProvider against the NASA POWER API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a NASA POWER client.
func NewClient(baseURL string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: baseURL,
		metrics: metrics,
		logger:  logger,
	}
}

func (c *Client) Name() string { return ProviderName }

// Fetch retrieves the twelve monthly climatological irradiance values for
// the coordinates and returns their arithmetic mean, rounded to two
// decimals. The API's ANN aggregate key is ignored.
func (c *Client) Fetch(ctx context.Context, coords domain.Coordinates) (domain.IrradianceReading, error) {
	params := url.Values{
		"parameters": {"ALLSKY_SFC_SW_DWN"},
		"community":  {"RE"},
		"latitude":   {strconv.FormatFloat(coords.Lat, 'f', -1, 64)},
		"longitude":  {strconv.FormatFloat(coords.Lon, 'f', -1, 64)},
		"format":     {"JSON"},
	}

	u := c.baseURL + "/api/temporal/climatology/point?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return domain.IrradianceReading{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(ProviderName).Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.IrradianceReading{}, fmt.Errorf("nasa power request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.IrradianceReading{}, fmt.Errorf("nasa power API error: status %d: %s", resp.StatusCode, body)
	}

	var powerResp response
	if err := json.NewDecoder(resp.Body).Decode(&powerResp); err != nil {
		return domain.IrradianceReading{}, fmt.Errorf("decode response: %w", err)
	}

	monthly := powerResp.Properties.Parameter.Irradiance
	if len(monthly) == 0 {
		return domain.IrradianceReading{}, fmt.Errorf("nasa power response missing ALLSKY_SFC_SW_DWN values")
	}

	var sum float64
	for _, m := range months {
		v, ok := monthly[m]
		if !ok {
			return domain.IrradianceReading{}, fmt.Errorf("nasa power response missing month %s", m)
		}
		if v == fillValue || v <= 0 {
			return domain.IrradianceReading{}, fmt.Errorf("nasa power returned unusable value %g for %s", v, m)
		}
		sum += v
	}
	daily := domain.Round2(sum / float64(len(months)))

	c.logger.Debug("nasa power climatology averaged",
		"lat", coords.Lat,
		"lon", coords.Lon,
		"daily_kwh_m2", daily,
	)

	return domain.IrradianceReading{
		Value:    daily,
		Unit:     domain.IrradianceUnit,
		Provider: ProviderName,
	}, nil
}

// NASA POWER API response types. The parameter block maps month
// abbreviations (plus an ANN aggregate) to kWh/m²/day values.

type response struct {
	Properties properties `json:"properties"`
}

type properties struct {
	Parameter parameter `json:"parameter"`
}

type parameter struct {
	Irradiance map[string]float64 `json:"ALLSKY_SFC_SW_DWN"`
}
