package domain

import "math"

// SizeComponents derives panel count, inverter capacity, and battery capacity
// from annual energy. Panel count is a ceiling: a daily load needing 9.01
// panels gets 10, never 9.
func SizeComponents(annualEnergyKWh float64) SystemSizing {
	dailyEnergy := annualEnergyKWh / 365

	panelDailyKWh := PanelWattage * PeakSunHours / 1000

	return SystemSizing{
		PanelsNeeded:       int(math.Ceil(dailyEnergy / panelDailyKWh)),
		InverterCapacityKW: Round2(dailyEnergy / PeakSunHours),
		BatteryCapacityKWh: Round2(dailyEnergy * BatteryAutonomyDays),
	}
}

// Round2 rounds to two decimal places, the precision both irradiance
// providers and the sizing outputs are reported at.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
