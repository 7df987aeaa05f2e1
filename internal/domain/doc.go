// Package domain models solar photovoltaic potential estimation.
//
// # Data Sources
//
// Long-run average irradiance comes from two free satellite-derived services
// with an ordered fallback:
//
//	Primary:  PVGIS v5.2 seriescalc (https://re.jrc.ec.europa.eu/api/v5_2/).
//	          Returns an hourly global-tilted-irradiance series G(i) in Wh/m²
//	          for one representative year. The adapter sums the series,
//	          converts to kWh/m², and divides by 365 for a daily average.
//	Fallback: NASA POWER climatology point API
//	          (https://power.larc.nasa.gov/api/temporal/climatology/point).
//	          Returns one climatological ALLSKY_SFC_SW_DWN value per calendar
//	          month in kWh/m²/day. The adapter takes the mean of the twelve
//	          monthly values.
//
// Both adapters produce the same unit (kWh/m²/day, rounded to two decimals)
// so downstream math is source-agnostic. The reading records which provider
// actually answered.
//
// # Estimation Model
//
// Annual energy:
//
//	annualEnergyKWh = irradiance × 365 × areaM2 × panelEfficiency
//
// Component sizing, from daily energy (annual ÷ 365) with fixed assumptions
// of 350 W panels and 4.5 peak sun hours per day:
//
//	panelsNeeded       = ⌈ dailyEnergy / (0.350 kW × 4.5 h) ⌉   (never undersized)
//	inverterCapacityKW = dailyEnergy / 4.5
//	batteryCapacityKWh = dailyEnergy × 0.5                       (half-day autonomy)
//
// Financials use a 25-year system lifetime, $0.50/W panel cost, $0.15/W
// balance-of-system cost, and $200/kWh battery cost. LCOE amortizes total
// cost over lifetime production. The discounted payback period is the first
// year where cumulative discounted savings reach the total cost; projects
// that never recover the investment within the lifetime report no payback
// year rather than extrapolating.
//
// All estimation math in this package is pure: the same inputs always produce
// the same result.
package domain
