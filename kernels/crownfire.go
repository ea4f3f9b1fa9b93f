package kernels

import (
	"math"

	"github.com/mineubob/wildfiresim/fuel"
)

// CrownTransitionInput bundles the inputs to EvaluateCrownTransition so the
// call site (sim driver) doesn't need to thread positional args.
type CrownTransitionInput struct {
	SurfaceIntensityKW float64 // combined surface-fire intensity reaching the canopy base
	LadderFactor float64 // fuel.Bark.LadderFactor, [0,1]
	LadderIntensityKW float64 // fuel.Archetype.LadderIntensity, the ladder fuel's own contribution
	CrownFireThresholdKW float64 // fuel.Archetype.CrownFireThreshold, per-species base threshold
	VerticalNeighbors int // count of ignited elements stacked below the crown element
	WindSpeed float64 // m/s at canopy height
	Extreme bool // true when ladder fuel is classified extreme
}

// extremeLadderFactor is the threshold above which a ladder fuel is
// considered extreme for the purposes of the guaranteed-transition gate.
const extremeLadderFactor = 0.8

// guaranteedTransitionCombinedKW is the combined surface+ladder intensity
// (kW/m) above which an extreme ladder fuel guarantees a crown transition
// regardless of the per-species threshold.
const guaranteedTransitionCombinedKW = 300.0

// EvaluateCrownTransition implements the crown-fire transition gate,
// restyled from a raw bark-type branch (crates/core/src/australian.rs
// calculate_crown_transition / bark_ladder_contribution) onto continuous
// ladder-factor + shedding-rate terms. Two gates, either one transitions:
//  1. guaranteed: LadderFactor > extremeLadderFactor AND
//     (SurfaceIntensityKW + LadderIntensityKW) > guaranteedTransitionCombinedKW.
//  2. graduated: SurfaceIntensityKW >= CrownFireThresholdKW *
//     (1-ladder*{0.7 extreme | 0.3 normal}) * (1-0.5*verticals/10) * (1+0.05*w).
func EvaluateCrownTransition(in CrownTransitionInput) bool {
	if in.LadderFactor > extremeLadderFactor && in.SurfaceIntensityKW+in.LadderIntensityKW > guaranteedTransitionCombinedKW {
		return true
	}

	ladderDiscount := 0.3
	if in.Extreme {
		ladderDiscount = 0.7
	}

	verticals := float64(in.VerticalNeighbors)
	if verticals > 10 {
		verticals = 10
	}
	continuityFactor := 1.0 - 0.5*(verticals/10.0)

	threshold := in.CrownFireThresholdKW *
	(1.0 - in.LadderFactor*ladderDiscount) *
	continuityFactor *
	(1.0 + 0.05*in.WindSpeed)

	return in.SurfaceIntensityKW >= threshold
}

// SpottingDistance implements ember spotting-distance scaling with a
// ladder-factor + shedding-rate formulation, replacing a bark-type branch
// (calculate_spotting_distance / bark_ladder_contribution): base_distance
// scaled by wind, intensity, and a fuel factor derived from the bark's
// ladder factor and shedding rate instead of a fixed per-species multiplier.
func SpottingDistance(baseDistance, windSpeed, intensityKW float64, bark fuel.Bark) float64 {
	windFactor := 1.0 + math.Pow(windSpeed/10.0, 1.5)

	intensityFactor := math.Sqrt(intensityKW / 1000.0)
	if intensityFactor > 2.0 {
		intensityFactor = 2.0
	}

	fuelFactor := 1.0 + float64(bark.LadderFactor)*float64(bark.SheddingRate)
	if fuelFactor > 1.5 {
		fuelFactor = 1.5
	}

	return baseDistance * windFactor * intensityFactor * fuelFactor
}

// oilVaporFraction is the oil-vaporization rate: 0.01 * oil_content per
// unit remaining fuel mass, matching australian.rs update_oil_vaporization.
const oilVaporFraction = 0.01

// oilVaporEnergyPerKg is the MJ/kg (expressed in kJ/kg) energy release of
// vaporized volatile oil on autoignition.
const oilVaporEnergyPerKg = 43000.0

// ExplosionEvent describes an oil-vapor autoignition event at an element,
// matching australian.rs's ExplosionEvent.
type ExplosionEvent struct {
	EnergyKJ float64
	BlastRadius float64 // meters, sqrt(energy/1000)
	TempBumpC float64
}

// EvaluateOilExplosion checks whether an element's oil vapor has reached
// autoignition temperature and, if so, returns the resulting explosion
// event. ok is false when no explosion occurs.
func EvaluateOilExplosion(tempC, autoignitionTempC, oilContent, remainingMassKg float64) (ExplosionEvent, bool) {
	if tempC < autoignitionTempC || oilContent <= 0 || remainingMassKg <= 0 {
		return ExplosionEvent{}, false
	}
	vaporMass := oilVaporFraction * oilContent * remainingMassKg
	energy := vaporMass * oilVaporEnergyPerKg
	return ExplosionEvent{
		EnergyKJ: energy,
		BlastRadius: math.Sqrt(energy / 1000.0),
		TempBumpC: 200.0,
	}, true
}
