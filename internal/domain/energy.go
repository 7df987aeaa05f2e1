package domain

// Fixed model assumptions shared by sizing and cost math. PanelWattage feeds
// both panel count and system capacity, so the panels×0.35 kW relation stays
// consistent across SizeComponents and SystemCost.
const (
	PanelWattage        = 350.0 // W per panel
	PeakSunHours        = 4.5   // equivalent full-intensity hours per day
	BatteryAutonomyDays = 0.5   // half a day of storage

	SystemLifetimeYears = 25

	CostPerWatt       = 0.50  // USD per watt of panels
	BalanceOfSystem   = 0.15  // USD per watt for mounting, wiring, labor
	BatteryCostPerKWh = 200.0 // USD per kWh of storage
	RetailRatePerKWh  = 0.15  // assumed per-kWh value of produced energy
)

// EstimateAnnualEnergy converts average daily irradiance into expected annual
// yield for a given usable area and panel efficiency.
//
//	annualEnergyKWh = irradiance(kWh/m²/day) × 365 × area(m²) × efficiency
//
// Callers must supply irradiance > 0, area > 0, and efficiency in (0,1].
func EstimateAnnualEnergy(irradiance, areaM2, panelEfficiency float64) float64 {
	return irradiance * 365 * areaM2 * panelEfficiency
}
