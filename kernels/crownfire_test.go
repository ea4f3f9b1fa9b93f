package kernels

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mineubob/wildfiresim/fuel"
)

func TestEvaluateCrownTransitionExtremeLadderGuaranteed(t *testing.T) {
	in := CrownTransitionInput{
		SurfaceIntensityKW:   0,
		LadderFactor:         0.95,
		LadderIntensityKW:    650,
		CrownFireThresholdKW: 300,
		VerticalNeighbors:    0,
		WindSpeed:            0,
		Extreme:              true,
	}
	assert.True(t, EvaluateCrownTransition(in))
}

func TestEvaluateCrownTransitionExtremeLadderWithoutCombinedIntensityIsNotGuaranteed(t *testing.T) {
	in := CrownTransitionInput{
		SurfaceIntensityKW:   0,
		LadderFactor:         0.95,
		LadderIntensityKW:    0,
		CrownFireThresholdKW: 1000,
		VerticalNeighbors:    0,
		WindSpeed:            0,
		Extreme:              true,
	}
	assert.False(t, EvaluateCrownTransition(in))
}

func TestEvaluateCrownTransitionRequiresIntensityWithoutExtremeLadder(t *testing.T) {
	in := CrownTransitionInput{
		SurfaceIntensityKW:   50,
		LadderFactor:         0.2,
		CrownFireThresholdKW: 1000,
		VerticalNeighbors:    0,
		WindSpeed:            0,
		Extreme:              false,
	}
	assert.False(t, EvaluateCrownTransition(in))
}

func TestEvaluateCrownTransitionHighIntensityTransitions(t *testing.T) {
	in := CrownTransitionInput{
		SurfaceIntensityKW:   5000,
		LadderFactor:         0.5,
		CrownFireThresholdKW: 300,
		VerticalNeighbors:    8,
		WindSpeed:            15,
		Extreme:              false,
	}
	assert.True(t, EvaluateCrownTransition(in))
}

func TestEvaluateCrownTransitionMoreVerticalsLowersThreshold(t *testing.T) {
	base := CrownTransitionInput{SurfaceIntensityKW: 200, LadderFactor: 0.5, CrownFireThresholdKW: 350, WindSpeed: 0}
	few := base
	few.VerticalNeighbors = 0
	many := base
	many.VerticalNeighbors = 10

	assert.False(t, EvaluateCrownTransition(few))
	assert.True(t, EvaluateCrownTransition(many))
}

// TestEvaluateCrownTransitionScenarioStringybarkVsSmoothBark pins the
// stringybark-vs-smooth-bark comparison at matched surface intensity: each
// species' own threshold and ladder intensity decide the outcome.
func TestEvaluateCrownTransitionScenarioStringybarkVsSmoothBark(t *testing.T) {
	stringybark := fuel.EucalyptusStringybark()
	smoothBark := fuel.EucalyptusSmoothBark()

	stringy := CrownTransitionInput{
		SurfaceIntensityKW:   400,
		LadderFactor:         float64(stringybark.Bark.LadderFactor),
		LadderIntensityKW:    stringybark.LadderIntensity,
		CrownFireThresholdKW: stringybark.CrownFireThreshold,
		Extreme:              stringybark.Bark.LadderFactor > 0.7,
	}
	smooth := CrownTransitionInput{
		SurfaceIntensityKW:   400,
		LadderFactor:         float64(smoothBark.Bark.LadderFactor),
		LadderIntensityKW:    smoothBark.LadderIntensity,
		CrownFireThresholdKW: smoothBark.CrownFireThreshold,
		Extreme:              smoothBark.Bark.LadderFactor > 0.7,
	}

	assert.True(t, EvaluateCrownTransition(stringy))
	assert.False(t, EvaluateCrownTransition(smooth))
}

func TestSpottingDistanceScalesWithWindAndIntensity(t *testing.T) {
	bark := fuel.Bark{Kind: fuel.BarkStringybark, LadderFactor: 1.0, SheddingRate: 1.0}
	low := SpottingDistance(100, 2, 500, bark)
	high := SpottingDistance(100, 20, 5000, bark)
	assert.Greater(t, high, low)
}

func TestSpottingDistanceFuelFactorCapped(t *testing.T) {
	bark := fuel.Bark{Kind: fuel.BarkStringybark, LadderFactor: 1.0, SheddingRate: 1.0}
	smooth := fuel.Bark{Kind: fuel.BarkSmooth, LadderFactor: 0, SheddingRate: 0}
	withLadder := SpottingDistance(100, 10, 1000, bark)
	withoutLadder := SpottingDistance(100, 10, 1000, smooth)
	assert.Greater(t, withLadder, withoutLadder)
	assert.InDelta(t, 1.5, withLadder/withoutLadder, 1e-9)
}

func TestEvaluateOilExplosionRequiresAutoignitionTemp(t *testing.T) {
	_, ok := EvaluateOilExplosion(300, 400, 0.1, 50)
	assert.False(t, ok)

	ev, ok := EvaluateOilExplosion(450, 400, 0.1, 50)
	assert.True(t, ok)
	assert.Greater(t, ev.EnergyKJ, 0.0)
	assert.Greater(t, ev.BlastRadius, 0.0)
	assert.Equal(t, 200.0, ev.TempBumpC)
}

func TestEvaluateOilExplosionNoOilNoEvent(t *testing.T) {
	_, ok := EvaluateOilExplosion(500, 400, 0, 50)
	assert.False(t, ok)
}
