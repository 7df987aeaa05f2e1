// Package pvgis implements the primary irradiance provider using the
// European Commission's PVGIS v5.2 seriescalc API. It requests the hourly
// global-tilted-irradiance series for one representative year and aggregates
// it to an average daily value in kWh/m².
package pvgis

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
const ProviderName = "pvgis"

// referenceYear is the representative year the hourly series is requested
// for. Any complete year works; the downstream math only uses the average.
const referenceYear = 2020

// Client implements domain.IrradianceProvider against the PVGIS API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a PVGIS client.
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

// Fetch retrieves the hourly G(i) series for the coordinates and reduces it
// to an average daily irradiance, rounded to two decimals.
func (c *Client) Fetch(ctx context.Context, coords domain.Coordinates) (domain.IrradianceReading, error) {
	params := url.Values{
		"lat":           {strconv.FormatFloat(coords.Lat, 'f', -1, 64)},
		"lon":           {strconv.FormatFloat(coords.Lon, 'f', -1, 64)},
		"startyear":     {strconv.Itoa(referenceYear)},
		"endyear":       {strconv.Itoa(referenceYear)},
		"optimize":      {"1"},
		"pvtechchoice":  {"crystSi"},
		"mountingplace": {"fixed"},
		"loss":          {"14"},
		"outputformat":  {"json"},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/seriescalc?"+params.Encode(), nil)
	if err != nil {
		return domain.IrradianceReading{}, fmt.Errorf("create request: %w", err)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.UpstreamDuration.WithLabelValues(ProviderName).Observe(time.Since(start).Seconds())
	if err != nil {
		return domain.IrradianceReading{}, fmt.Errorf("pvgis request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return domain.IrradianceReading{}, fmt.Errorf("pvgis API error: status %d: %s", resp.StatusCode, body)
	}

	var pvgisResp response
	if err := json.NewDecoder(resp.Body).Decode(&pvgisResp); err != nil {
		return domain.IrradianceReading{}, fmt.Errorf("decode response: %w", err)
	}

	if len(pvgisResp.Outputs.Hourly) == 0 {
		return domain.IrradianceReading{}, fmt.Errorf("pvgis returned an empty hourly series")
	}

	// Sum of hourly Wh/m² values over the year, converted to kWh/m² and
	// spread over 365 days.
	var totalWh float64
	for _, h := range pvgisResp.Outputs.Hourly {
		totalWh += h.GlobalTilted
	}
	daily := domain.Round2(totalWh / 1000 / 365)

	if daily <= 0 {
		return domain.IrradianceReading{}, fmt.Errorf("pvgis series sums to non-positive irradiance %g", daily)
	}

	c.logger.Debug("pvgis series aggregated",
		"lat", coords.Lat,
		"lon", coords.Lon,
		"hours", len(pvgisResp.Outputs.Hourly),
		"daily_kwh_m2", daily,
	)

	return domain.IrradianceReading{
		Value:    daily,
		Unit:     domain.IrradianceUnit,
		Provider: ProviderName,
	}, nil
}

// PVGIS API response types.

type response struct {
	Outputs outputs `json:"outputs"`
}

type outputs struct {
	Hourly []hour `json:"hourly"`
}

type hour struct {
	Time         string  `json:"time"`
	GlobalTilted float64 `json:"G(i)"` // Wh/m² for the hour
}
