package domain

import (
	"fmt"
	"math"
)

// SystemCapacityKW is the installed capacity implied by a panel count.
func SystemCapacityKW(panelsNeeded int) float64 {
	return float64(panelsNeeded) * PanelWattage / 1000
}

// SystemCost prices the installation: panels plus balance-of-system per watt,
// plus battery storage per kWh.
func SystemCost(panelsNeeded int, batteryCapacityKWh float64) float64 {
	capacityKW := SystemCapacityKW(panelsNeeded)
	return capacityKW*(CostPerWatt+BalanceOfSystem)*1000 + batteryCapacityKWh*BatteryCostPerKWh
}

// LCOE is the levelized cost of energy: total cost amortized over lifetime
// production. Undefined for non-positive annual energy.
func LCOE(totalCost, annualEnergyKWh float64) (float64, error) {
	if annualEnergyKWh <= 0 {
		return 0, fmt.Errorf("%w: annual energy must be positive, got %g", ErrInvalidInput, annualEnergyKWh)
	}
	return totalCost / (annualEnergyKWh * SystemLifetimeYears), nil
}

// AnnualSavings values a year of production at the assumed retail rate.
func AnnualSavings(annualEnergyKWh float64) float64 {
	return annualEnergyKWh * RetailRatePerKWh
}

// DiscountedPayback returns the first year (1-based) where cumulative
// discounted savings reach totalCost, and true. When the cumulative sum never
// reaches totalCost within the system lifetime it returns 0 and false —
// the investment is not recovered, and we do not extrapolate past year 25.
func DiscountedPayback(totalCost, annualSavings, interestRate float64) (int, bool) {
	cumulative := 0.0
	for year := 1; year <= SystemLifetimeYears; year++ {
		cumulative += annualSavings / math.Pow(1+interestRate, float64(year))
		if cumulative >= totalCost {
			return year, true
		}
	}
	return 0, false
}
