package kernels

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineubob/wildfiresim/units"
)

func TestRadiationFluxZeroWhenUnignited(t *testing.T) {
	got := RadiationFlux(false, 1200, 300, 5, 2.0, 1.0, 1.0)
	assert.Zero(t, got)
}

func TestRadiationFluxPositiveTowardCoolerTarget(t *testing.T) {
	got := RadiationFlux(true, units.Celsius(800).ToKelvin(), units.Celsius(20).ToKelvin(), 3, 2.5, 1.0, 1.0)
	assert.Greater(t, got, 0.0)
}

func TestRadiationFluxClampsViewFactor(t *testing.T) {
	// Extremely large source area at tiny distance should clamp to
	// viewFactor=1 rather than overshoot.
	close := RadiationFlux(true, 1200, 300, 0.01, 1e6, 1.0, 1.0)
	farther := RadiationFlux(true, 1200, 300, 0.1, 1e6, 1.0, 1.0)
	require.Greater(t, close, 0.0)
	assert.InDelta(t, close, farther, 1e-6, "both should clamp to the same viewFactor=1 flux")
}

func TestRadiationFluxLegacyMatchesSimplifiedForm(t *testing.T) {
	got := RadiationFluxLegacy(true, 800, 3, 2.5, 1.0)
	assert.Greater(t, got, 0.0)
	zero := RadiationFluxLegacy(false, 800, 3, 2.5, 1.0)
	assert.Zero(t, zero)
}

func TestConvectionFluxOnlyUpward(t *testing.T) {
	assert.Zero(t, ConvectionFlux(true, 5, 3, 100, 2))
	assert.Greater(t, ConvectionFlux(true, 3, 5, 100, 2), 0.0)
	assert.Zero(t, ConvectionFlux(false, 3, 5, 100, 2))
}

func TestWindRadiationMultiplierDownwindUpwind(t *testing.T) {
	from := units.NewVec3(0, 0, 0)
	downwind := units.NewVec3(10, 0, 0)
	upwind := units.NewVec3(-10, 0, 0)
	wind := units.NewVec3(5, 0, 0)

	down := WindRadiationMultiplier(from, downwind, wind)
	up := WindRadiationMultiplier(from, upwind, wind)
	assert.Greater(t, down, 1.0)
	assert.Less(t, up, 1.0)
}

func TestWindRadiationMultiplierCalmWindIsNeutral(t *testing.T) {
	from := units.NewVec3(0, 0, 0)
	to := units.NewVec3(10, 0, 0)
	calm := units.NewVec3(0.01, 0, 0)
	assert.Equal(t, 1.0, WindRadiationMultiplier(from, to, calm))
}

func TestVerticalFactorAsymmetry(t *testing.T) {
	climb := VerticalFactor(2)
	descend := VerticalFactor(-2)
	level := VerticalFactor(0)
	assert.Greater(t, climb, level)
	assert.Less(t, descend, level)
}

func TestSlopeFactorUphillDownhill(t *testing.T) {
	uphill := SlopeFactor(10, 5)
	downhill := SlopeFactor(10, -5)
	flat := SlopeFactor(10, 0)
	assert.Greater(t, uphill, flat)
	assert.Less(t, downhill, flat)
	assert.GreaterOrEqual(t, downhill, 0.3)
}

func TestWindAtHeightBelowRoughnessIsZero(t *testing.T) {
	assert.Zero(t, float64(WindAtHeight(10, 0.2)))
}

func TestWindAtHeightMatchesReferenceAtTenMeters(t *testing.T) {
	v := WindAtHeight(10, 10)
	assert.InDelta(t, 10, float64(v), 1e-9)
}

func TestWindAtHeightIncreasesWithHeight(t *testing.T) {
	low := WindAtHeight(10, 1)
	high := WindAtHeight(10, 20)
	assert.Greater(t, float64(high), float64(low))
}

func TestChannelingFactorOnlyAppliesAboveSlopeThreshold(t *testing.T) {
	wind := units.NewVec3(5, 0, 0)
	assert.Equal(t, 1.0, ChannelingFactor(wind, 1, 0, 10))
	assert.Greater(t, ChannelingFactor(wind, 1, 0, 20), 1.0)
}

func TestStefanBoltzmannConstant(t *testing.T) {
	assert.InDelta(t, 5.67e-8, StefanBoltzmann, 1e-12)
	_ = math.Pi
}
