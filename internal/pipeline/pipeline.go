// Package pipeline orchestrates one estimation run: coordinate resolution,
// irradiance acquisition with ordered fallback, and the energy, sizing, and
// financial derivations. Stages run strictly in sequence; any stage failure
// aborts the run with a classified reason and no partial result.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/couchcryptid/solar-estimator/internal/domain"
	"github.com/couchcryptid/solar-estimator/internal/observability"
)

// Request holds the user inputs for one estimation run.
type Request struct {
	Location        string  `json:"location"`
	AreaM2          float64 `json:"area_m2"`
	InterestRate    float64 `json:"interest_rate"`
	PanelEfficiency float64 `json:"panel_efficiency"`
}

// Validate checks every parameter eagerly, before any network call is made.
func (r Request) Validate() error {
	if r.Location == "" {
		return fmt.Errorf("%w: location must not be empty", domain.ErrInvalidInput)
	}
	if r.AreaM2 <= 0 {
		return fmt.Errorf("%w: area must be positive, got %g", domain.ErrInvalidInput, r.AreaM2)
	}
	if r.InterestRate < 0 {
		return fmt.Errorf("%w: interest rate must not be negative, got %g", domain.ErrInvalidInput, r.InterestRate)
	}
	if r.PanelEfficiency <= 0 || r.PanelEfficiency > 1 {
		return fmt.Errorf("%w: panel efficiency must be in (0, 1], got %g", domain.ErrInvalidInput, r.PanelEfficiency)
	}
	return nil
}

// Pipeline wires a geocoder and two irradiance providers into the estimation
// sequence. One Pipeline serves many concurrent runs; it holds no per-run
// state.
type Pipeline struct {
	geocoder domain.Geocoder
	primary  domain.IrradianceProvider
	fallback domain.IrradianceProvider
	logger   *slog.Logger
	metrics  *observability.Metrics
}

// New creates a Pipeline with the given collaborators and observability.
func New(geocoder domain.Geocoder, primary, fallback domain.IrradianceProvider, logger *slog.Logger, metrics *observability.Metrics) *Pipeline {
	return &Pipeline{
		geocoder: geocoder,
		primary:  primary,
		fallback: fallback,
		logger:   logger,
		metrics:  metrics,
	}
}

// CheckReadiness returns nil when every collaborator is wired.
func (p *Pipeline) CheckReadiness(_ context.Context) error {
	if p.geocoder == nil {
		return errors.New("geocoder not configured")
	}
	if p.primary == nil || p.fallback == nil {
		return errors.New("irradiance providers not configured")
	}
	return nil
}

// Estimate runs the full sequence for one request. Failures come back as
// *domain.EstimationError carrying one of the three failure reasons.
func (p *Pipeline) Estimate(ctx context.Context, req Request) (domain.EstimationResult, error) {
	start := time.Now()
	result, err := p.estimate(ctx, req)
	p.metrics.EstimationDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		reason := domain.ReasonOf(err)
		p.metrics.EstimationRuns.WithLabelValues(string(reason)).Inc()
		p.logger.Error("estimation failed",
			"location", req.Location,
			"reason", string(reason),
			"error", err,
		)
		return domain.EstimationResult{}, err
	}

	p.metrics.EstimationRuns.WithLabelValues("success").Inc()
	p.logger.Info("estimation complete",
		"location", req.Location,
		"lat", result.Coordinates.Lat,
		"lon", result.Coordinates.Lon,
		"irradiance", result.Irradiance.Value,
		"irradiance_source", string(result.Irradiance.Source),
		"annual_energy_kwh", result.AnnualEnergyKWh,
		"panels", result.Sizing.PanelsNeeded,
		"total_cost", result.Financials.TotalCost,
	)
	return result, nil
}

func (p *Pipeline) estimate(ctx context.Context, req Request) (domain.EstimationResult, error) {
	if err := req.Validate(); err != nil {
		return domain.EstimationResult{}, domain.NewEstimationError(domain.ReasonComputation, err)
	}

	// Resolve coordinates first so an unresolvable location fails the run
	// before any irradiance lookup is attempted.
	coords, err := p.geocoder.Resolve(ctx, req.Location)
	if err != nil {
		return domain.EstimationResult{}, domain.NewEstimationError(domain.ReasonLocationNotFound,
			fmt.Errorf("resolve %q: %w", req.Location, err))
	}

	reading, err := p.fetchIrradiance(ctx, coords)
	if err != nil {
		return domain.EstimationResult{}, domain.NewEstimationError(domain.ReasonIrradianceUnavailable, err)
	}

	annualEnergy := domain.EstimateAnnualEnergy(reading.Value, req.AreaM2, req.PanelEfficiency)
	if annualEnergy <= 0 {
		return domain.EstimationResult{}, domain.NewEstimationError(domain.ReasonComputation,
			fmt.Errorf("%w: derived non-positive annual energy %g", domain.ErrInvalidInput, annualEnergy))
	}

	sizing := domain.SizeComponents(annualEnergy)
	totalCost := domain.SystemCost(sizing.PanelsNeeded, sizing.BatteryCapacityKWh)

	lcoe, err := domain.LCOE(totalCost, annualEnergy)
	if err != nil {
		return domain.EstimationResult{}, domain.NewEstimationError(domain.ReasonComputation, err)
	}

	savings := domain.AnnualSavings(annualEnergy)
	financials := domain.FinancialSummary{
		TotalCost:     totalCost,
		LCOEPerKWh:    lcoe,
		AnnualSavings: savings,
	}
	if year, recovered := domain.DiscountedPayback(totalCost, savings, req.InterestRate); recovered {
		financials.PaybackYears = &year
	}

	return domain.EstimationResult{
		Location:        req.Location,
		Coordinates:     coords,
		Irradiance:      reading,
		AnnualEnergyKWh: annualEnergy,
		Sizing:          sizing,
		Financials:      financials,
	}, nil
}

// fetchIrradiance tries the primary provider and, on any failure, the
// fallback exactly once. The two are never attempted concurrently: the
// fallback only starts after the primary's failure is confirmed.
func (p *Pipeline) fetchIrradiance(ctx context.Context, coords domain.Coordinates) (domain.IrradianceReading, error) {
	reading, primaryErr := p.primary.Fetch(ctx, coords)
	if primaryErr == nil {
		p.metrics.IrradianceRequests.WithLabelValues(p.primary.Name(), "success").Inc()
		reading.Source = domain.SourcePrimary
		return reading, nil
	}

	p.metrics.IrradianceRequests.WithLabelValues(p.primary.Name(), "error").Inc()
	p.logger.Warn("primary irradiance provider failed, trying fallback",
		"provider", p.primary.Name(),
		"lat", coords.Lat,
		"lon", coords.Lon,
		"error", primaryErr,
	)

	reading, fallbackErr := p.fallback.Fetch(ctx, coords)
	if fallbackErr == nil {
		p.metrics.IrradianceRequests.WithLabelValues(p.fallback.Name(), "success").Inc()
		p.metrics.FallbackUsed.Inc()
		reading.Source = domain.SourceFallback
		return reading, nil
	}

	p.metrics.IrradianceRequests.WithLabelValues(p.fallback.Name(), "error").Inc()
	return domain.IrradianceReading{}, fmt.Errorf("%w: %s: %v; %s: %v",
		domain.ErrIrradianceUnavailable,
		p.primary.Name(), primaryErr,
		p.fallback.Name(), fallbackErr,
	)
}
