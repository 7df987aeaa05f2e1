package pipeline_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/couchcryptid/solar-estimator/internal/domain"
	"github.com/couchcryptid/solar-estimator/internal/observability"
	"github.com/couchcryptid/solar-estimator/internal/pipeline"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type stubGeocoder struct {
	coords domain.Coordinates
	err    error
	calls  int
}

func (s *stubGeocoder) Resolve(_ context.Context, _ string) (domain.Coordinates, error) {
	s.calls++
	if s.err != nil {
		return domain.Coordinates{}, s.err
	}
	return s.coords, nil
}

type stubProvider struct {
	name  string
	value float64
	err   error
	calls int
}

func (s *stubProvider) Name() string { return s.name }

func (s *stubProvider) Fetch(_ context.Context, _ domain.Coordinates) (domain.IrradianceReading, error) {
	s.calls++
	if s.err != nil {
		return domain.IrradianceReading{}, s.err
	}
	return domain.IrradianceReading{
		Value:    s.value,
		Unit:     domain.IrradianceUnit,
		Provider: s.name,
	}, nil
}

// --- helpers ---

func accraGeocoder() *stubGeocoder {
	return &stubGeocoder{coords: domain.Coordinates{Lat: 5.56, Lon: -0.20}}
}

func newPipeline(g domain.Geocoder, primary, fallback domain.IrradianceProvider) *pipeline.Pipeline {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return pipeline.New(g, primary, fallback, logger, observability.NewMetricsForTesting())
}

func accraRequest() pipeline.Request {
	return pipeline.Request{
		Location:        "Accra, Ghana",
		AreaM2:          100,
		InterestRate:    0.08,
		PanelEfficiency: 0.18,
	}
}

// --- tests ---

func TestEstimate_HappyPath(t *testing.T) {
	geocoder := accraGeocoder()
	primary := &stubProvider{name: "pvgis", value: 5.0}
	fallback := &stubProvider{name: "nasa-power", value: 4.8}

	p := newPipeline(geocoder, primary, fallback)
	result, err := p.Estimate(context.Background(), accraRequest())
	require.NoError(t, err)

	assert.Equal(t, "Accra, Ghana", result.Location)
	assert.InDelta(t, 5.56, result.Coordinates.Lat, 0.5)
	assert.InDelta(t, -0.20, result.Coordinates.Lon, 0.5)

	assert.Equal(t, 5.0, result.Irradiance.Value)
	assert.Equal(t, domain.SourcePrimary, result.Irradiance.Source)
	assert.Equal(t, "pvgis", result.Irradiance.Provider)

	// 5.0 × 365 × 100 × 0.18 = 32850 kWh/year = 90 kWh/day.
	assert.InDelta(t, 32850, result.AnnualEnergyKWh, 1e-9)
	assert.Equal(t, 58, result.Sizing.PanelsNeeded)
	assert.InDelta(t, 20.0, result.Sizing.InverterCapacityKW, 1e-9)
	assert.InDelta(t, 45.0, result.Sizing.BatteryCapacityKWh, 1e-9)

	assert.InDelta(t, 22195.0, result.Financials.TotalCost, 1e-9)
	assert.InDelta(t, 0.02702587519, result.Financials.LCOEPerKWh, 1e-9)
	assert.InDelta(t, 4927.5, result.Financials.AnnualSavings, 1e-9)
	require.NotNil(t, result.Financials.PaybackYears)
	assert.Equal(t, 6, *result.Financials.PaybackYears)

	assert.Equal(t, 1, primary.calls)
	assert.Zero(t, fallback.calls, "fallback must not run when primary succeeds")
}

func TestEstimate_FallbackOnPrimaryFailure(t *testing.T) {
	geocoder := accraGeocoder()
	primary := &stubProvider{name: "pvgis", err: errors.New("gateway timeout")}
	fallback := &stubProvider{name: "nasa-power", value: 4.8}

	p := newPipeline(geocoder, primary, fallback)
	result, err := p.Estimate(context.Background(), accraRequest())
	require.NoError(t, err)

	assert.Equal(t, domain.SourceFallback, result.Irradiance.Source)
	assert.Equal(t, "nasa-power", result.Irradiance.Provider)
	assert.Equal(t, 4.8, result.Irradiance.Value)
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls, "fallback must be invoked exactly once")
}

func TestEstimate_BothProvidersFail(t *testing.T) {
	geocoder := accraGeocoder()
	primary := &stubProvider{name: "pvgis", err: errors.New("malformed response")}
	fallback := &stubProvider{name: "nasa-power", err: errors.New("503")}

	p := newPipeline(geocoder, primary, fallback)
	_, err := p.Estimate(context.Background(), accraRequest())

	require.ErrorIs(t, err, domain.ErrIrradianceUnavailable)
	assert.Equal(t, domain.ReasonIrradianceUnavailable, domain.ReasonOf(err))
	assert.Equal(t, 1, primary.calls)
	assert.Equal(t, 1, fallback.calls)
}

func TestEstimate_LocationNotFoundFailsFast(t *testing.T) {
	geocoder := &stubGeocoder{err: domain.ErrLocationNotFound}
	primary := &stubProvider{name: "pvgis", value: 5.0}
	fallback := &stubProvider{name: "nasa-power", value: 4.8}

	p := newPipeline(geocoder, primary, fallback)
	_, err := p.Estimate(context.Background(), accraRequest())

	require.ErrorIs(t, err, domain.ErrLocationNotFound)
	assert.Equal(t, domain.ReasonLocationNotFound, domain.ReasonOf(err))
	assert.Zero(t, primary.calls, "irradiance lookup must not start after a geocoding failure")
	assert.Zero(t, fallback.calls)
}

func TestEstimate_InvalidInputRejectedBeforeNetwork(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*pipeline.Request)
	}{
		{"empty location", func(r *pipeline.Request) { r.Location = "" }},
		{"zero area", func(r *pipeline.Request) { r.AreaM2 = 0 }},
		{"negative area", func(r *pipeline.Request) { r.AreaM2 = -10 }},
		{"zero efficiency", func(r *pipeline.Request) { r.PanelEfficiency = 0 }},
		{"efficiency above one", func(r *pipeline.Request) { r.PanelEfficiency = 1.2 }},
		{"negative interest rate", func(r *pipeline.Request) { r.InterestRate = -0.01 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geocoder := accraGeocoder()
			primary := &stubProvider{name: "pvgis", value: 5.0}
			fallback := &stubProvider{name: "nasa-power", value: 4.8}
			p := newPipeline(geocoder, primary, fallback)

			req := accraRequest()
			tt.mutate(&req)

			_, err := p.Estimate(context.Background(), req)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Equal(t, domain.ReasonComputation, domain.ReasonOf(err))
			assert.Zero(t, geocoder.calls, "validation must precede all network calls")
			assert.Zero(t, primary.calls)
		})
	}
}

func TestEstimate_PaybackNotRecoveredAtHighInterest(t *testing.T) {
	p := newPipeline(accraGeocoder(), &stubProvider{name: "pvgis", value: 5.0}, &stubProvider{name: "nasa-power"})

	req := accraRequest()
	req.InterestRate = 0.50

	result, err := p.Estimate(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, result.Financials.PaybackYears, "investment is never recovered at 50% discounting")
}

func TestEstimate_Idempotent(t *testing.T) {
	p := newPipeline(accraGeocoder(), &stubProvider{name: "pvgis", value: 5.43}, &stubProvider{name: "nasa-power"})

	first, err := p.Estimate(context.Background(), accraRequest())
	require.NoError(t, err)
	second, err := p.Estimate(context.Background(), accraRequest())
	require.NoError(t, err)

	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated runs with identical inputs differ (-first +second):\n%s", diff)
	}
}

func TestCheckReadiness(t *testing.T) {
	p := newPipeline(accraGeocoder(), &stubProvider{name: "pvgis"}, &stubProvider{name: "nasa-power"})
	assert.NoError(t, p.CheckReadiness(context.Background()))

	missing := newPipeline(nil, &stubProvider{name: "pvgis"}, &stubProvider{name: "nasa-power"})
	assert.Error(t, missing.CheckReadiness(context.Background()))
}
