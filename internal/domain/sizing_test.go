package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSizeComponents_ReferenceCase(t *testing.T) {
	// 32850 kWh/year = 90 kWh/day. One panel produces 0.35 kW × 4.5 h =
	// 1.575 kWh/day, so 90/1.575 = 57.14 panels → 58 after rounding up.
	sizing := SizeComponents(32850)

	assert.Equal(t, 58, sizing.PanelsNeeded)
	assert.InDelta(t, 20.0, sizing.InverterCapacityKW, 1e-9)
	assert.InDelta(t, 45.0, sizing.BatteryCapacityKWh, 1e-9)
}

func TestSizeComponents_AlwaysRoundsUp(t *testing.T) {
	// Daily energy equivalent to 9.01 panels must size 10, never 9.
	dailyEnergy := 9.01 * (PanelWattage * PeakSunHours / 1000)
	sizing := SizeComponents(dailyEnergy * 365)

	assert.Equal(t, 10, sizing.PanelsNeeded)
}

func TestSizeComponents_ZeroEnergy(t *testing.T) {
	sizing := SizeComponents(0)

	assert.Equal(t, 0, sizing.PanelsNeeded)
	assert.Zero(t, sizing.InverterCapacityKW)
	assert.Zero(t, sizing.BatteryCapacityKWh)
}

func TestSizeComponents_RoundsToTwoDecimals(t *testing.T) {
	// 1000 kWh/year = 2.7397... kWh/day.
	sizing := SizeComponents(1000)

	assert.InDelta(t, 0.61, sizing.InverterCapacityKW, 1e-9) // 2.7397/4.5 = 0.6088
	assert.InDelta(t, 1.37, sizing.BatteryCapacityKWh, 1e-9) // 2.7397*0.5 = 1.3698
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 5.68, Round2(5.675))
	assert.Equal(t, 5.67, Round2(5.674))
	assert.Equal(t, -1.23, Round2(-1.234))
	assert.Equal(t, 0.0, Round2(0))
}
