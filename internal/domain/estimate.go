package domain

// Coordinates is a WGS-84 latitude/longitude pair produced by geocoding.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// IrradianceSource identifies which provider tier supplied a reading.
type IrradianceSource string

const (
	SourcePrimary  IrradianceSource = "primary"
	SourceFallback IrradianceSource = "fallback"
)

// IrradianceUnit is the common unit both providers normalize to.
const IrradianceUnit = "kWh/m²/day"

// IrradianceReading is an average daily irradiance value for one location.
// Source is stamped by the orchestrator; Provider is the service that
// actually answered (e.g. "pvgis", "nasa-power").
type IrradianceReading struct {
	Value    float64          `json:"value"`
	Unit     string           `json:"unit"`
	Source   IrradianceSource `json:"source"`
	Provider string           `json:"provider"`
}

// SystemSizing holds the component dimensions derived from annual energy.
// PanelsNeeded is always rounded up so the system is never undersized.
type SystemSizing struct {
	PanelsNeeded       int     `json:"panels_needed"`
	InverterCapacityKW float64 `json:"inverter_capacity_kw"`
	BatteryCapacityKWh float64 `json:"battery_capacity_kwh"`
}

// FinancialSummary holds project economics. PaybackYears is nil when the
// discounted cumulative savings never reach TotalCost within the modeled
// 25-year lifetime.
type FinancialSummary struct {
	TotalCost     float64 `json:"total_cost"`
	LCOEPerKWh    float64 `json:"lcoe_per_kwh"`
	AnnualSavings float64 `json:"annual_savings"`
	PaybackYears  *int    `json:"payback_years"`
}

// EstimationResult is the aggregate output of one pipeline run. It contains
// no timestamps or generated identifiers: identical inputs and identical
// upstream responses yield identical results.
type EstimationResult struct {
	Location        string            `json:"location"`
	Coordinates     Coordinates       `json:"coordinates"`
	Irradiance      IrradianceReading `json:"irradiance"`
	AnnualEnergyKWh float64           `json:"annual_energy_kwh"`
	Sizing          SystemSizing      `json:"sizing"`
	Financials      FinancialSummary  `json:"financials"`
}
