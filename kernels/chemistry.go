package kernels

// Stoichiometric ratios, fixed per unit mass of fuel consumed, grounded on
// crates/core/src/physics/combustion_physics.rs.
const (
	O2PerKgFuel = 1.33
	CO2PerKgFuel = 1.47
	H2OPerKgFuel = 0.56
	SmokePerKgFuel = 0.02
)

// CombustionProducts holds the mass (kg) of each species released by
// burning fuelMassKg of fuel at a given oxygen completeness.
type CombustionProducts struct {
	CO2Kg float64
	COKg float64
	H2OKg float64
	SmokeKg float64
	O2ConsumedKg float64
}

// oxygenStarvationFloor is the completeness below which combustion is
// treated as fully starved (all carbon product as CO, smoke tripled),
// matching oxygen-completeness ramp.
const oxygenStarvationFloor = 0.0

// CombustionChemistry implements oxygen-limited stoichiometry: full
// completeness (oxygenCompleteness=1) yields pure CO2; as completeness
// drops toward 0 the carbon product shifts linearly from CO2 to CO and
// smoke output increases, modeling incomplete combustion under oxygen
// starvation.
func CombustionChemistry(fuelMassKg, oxygenCompleteness float64) CombustionProducts {
	if fuelMassKg <= 0 {
		return CombustionProducts{}
	}
	completeness := oxygenCompleteness
	if completeness > 1 {
		completeness = 1
	}
	if completeness < oxygenStarvationFloor {
		completeness = oxygenStarvationFloor
	}

	totalCarbonProduct := CO2PerKgFuel * fuelMassKg
	co2 := totalCarbonProduct * completeness
	co := totalCarbonProduct * (1 - completeness)

	smokeBoost := 1.0 + (1.0-completeness)*2.0

	return CombustionProducts{
		CO2Kg: co2,
		COKg: co,
		H2OKg: H2OPerKgFuel * fuelMassKg,
		SmokeKg: SmokePerKgFuel * fuelMassKg * smokeBoost,
		O2ConsumedKg: O2PerKgFuel * fuelMassKg * completeness,
	}
}

// o2FullMassFraction and o2StarvedMassFraction bound the absolute cell
// oxygen mass fraction ramp CombustionCompleteness uses: at or above
// o2FullMassFraction combustion runs at full stoichiometric completeness,
// at or below o2StarvedMassFraction it is fully starved, matching
// combustion_physics.rs's oxygen-completeness curve.
const (
	o2FullMassFraction = 0.195
	o2StarvedMassFraction = 0.1
)

// CombustionCompleteness converts a cell's absolute oxygen mass fraction
// (atmosphere.Cell.Oxygen, not a ratio against required oxygen) into the
// [0,1] completeness fraction CombustionChemistry expects: 1 at or above
// o2FullMassFraction, 0 at or below o2StarvedMassFraction, linear between.
// This is a distinct concern from atmosphere.Cell.OxygenLimitedMultiplier,
// which throttles burn rate by the available/required ratio in a given
// cell volume; this throttles how completely the fuel that does burn
// converts to CO2 versus CO and smoke.
func CombustionCompleteness(o2MassFraction float64) float64 {
	switch {
	case o2MassFraction >= o2FullMassFraction:
		return 1.0
	case o2MassFraction <= o2StarvedMassFraction:
		return 0.0
	default:
		return (o2MassFraction - o2StarvedMassFraction) / (o2FullMassFraction - o2StarvedMassFraction)
	}
}
