// Package fuel holds the catalog of fuel archetypes elements clone their
// thermal and combustion properties from. Grounded on crates/core/src/fuel.rs
// and restyled after Gekko3D-gekko's value-type component structs
// (physics.go ColliderComponent).
package fuel

import "github.com/mineubob/wildfiresim/units"

// BarkKind enumerates the bark descriptors.
type BarkKind int

const (
	BarkSmooth BarkKind = iota
	BarkFibrous
	BarkStringybark
	BarkIronbark
	BarkPaperbark
)

func (k BarkKind) String() string {
	switch k {
	case BarkSmooth:
		return "smooth"
	case BarkFibrous:
		return "fibrous"
	case BarkStringybark:
		return "stringybark"
	case BarkIronbark:
		return "ironbark"
	case BarkPaperbark:
		return "paperbark"
	default:
		return "unknown"
	}
}

// Bark describes the ladder-fuel behavior of a trunk's bark.
type Bark struct {
	Kind BarkKind
	LadderFactor units.Fraction // [0,1]
	Flammability units.Fraction
	SheddingRate units.Rate
}

// Archetype is the value type cloned per fuel element. Zero value is
// not meaningful; construct via one of the catalog constructors below.
type Archetype struct {
	ID uint8
	Name string

	HeatContent float64 // kJ/kg
	IgnitionTemp units.Celsius
	MaxFlameTemp units.Celsius
	SpecificHeat float64 // kJ/(kg*K)
	BulkDensity float64 // kg/m^3
	SurfaceToVolume float64 // 1/m
	BedDepth units.Length

	BaseMoisture units.Fraction
	MoistureOfExtinction units.Fraction

	BurnRateCoefficient float64

	EmberProduction units.Fraction
	EmberReceptivity units.Fraction
	MaxSpottingDistance units.Length

	VolatileOilContent float64 // kg/kg
	OilVaporizationTemp units.Celsius
	OilAutoignitionTemp units.Celsius

	Bark Bark
	LadderIntensity float64 // kW/m
	CrownFireThreshold float64 // kW/m
}

// Valid reports whether the archetype satisfies the invariant
// 0 <= base_moisture <= moisture_of_extinction <= 1.
func (a Archetype) Valid() bool {
	return a.BaseMoisture >= 0 &&
	a.BaseMoisture <= a.MoistureOfExtinction &&
	a.MoistureOfExtinction <= 1
}

// Clone returns a deep (here: value) copy suitable for a new element to own
// independently of the catalog entry.
func (a Archetype) Clone() Archetype { return a }

// MaxFlameTemperature recomputes the achievable flame temperature for the
// element's current moisture, matching calculate_max_flame_temperature:
// base 800 + (heat-18000)/10, oil bonus
// +3000*oil_content, moisture penalty -400*moisture, clamped [600,1500].
func (a Archetype) MaxFlameTemperature(moisture units.Fraction) units.Celsius {
	base := 800.0 + (a.HeatContent-18000.0)/10.0
	oilBonus := a.VolatileOilContent * 3000.0
	moisturePenalty := float64(moisture) * 400.0
	return units.Celsius(units.Clamp(base+oilBonus-moisturePenalty, 600.0, 1500.0))
}

// EucalyptusStringybark is fuel id 1: extreme ladder fuel, the primary
// driver of crown-fire transitions at low surface intensity.
func EucalyptusStringybark() Archetype {
	return Archetype{
		ID: 1, Name: "Eucalyptus Stringybark",
		HeatContent: 21000.0, IgnitionTemp: 280.0, MaxFlameTemp: 1400.0,
		SpecificHeat: 1.5, BulkDensity: 550.0, SurfaceToVolume: 8.0, BedDepth: 0.5,
		BaseMoisture: 0.10, MoistureOfExtinction: 0.35,
		BurnRateCoefficient: 0.08,
		EmberProduction: 0.9, EmberReceptivity: 0.6, MaxSpottingDistance: 25000.0,
		VolatileOilContent: 0.04, OilVaporizationTemp: 170.0, OilAutoignitionTemp: 232.0,
		Bark: Bark{Kind: BarkStringybark, LadderFactor: 1.0, Flammability: 0.9, SheddingRate: 0.02},
		LadderIntensity: 650.0,
		CrownFireThreshold: 300.0,
	}
}

// EucalyptusSmoothBark is fuel id 2: much less ladder fuel than stringybark.
func EucalyptusSmoothBark() Archetype {
	return Archetype{
		ID: 2, Name: "Eucalyptus Smooth Bark",
		HeatContent: 20000.0, IgnitionTemp: 290.0, MaxFlameTemp: 1300.0,
		SpecificHeat: 1.5, BulkDensity: 600.0, SurfaceToVolume: 6.0, BedDepth: 0.3,
		BaseMoisture: 0.12, MoistureOfExtinction: 0.35,
		BurnRateCoefficient: 0.06,
		EmberProduction: 0.5, EmberReceptivity: 0.5, MaxSpottingDistance: 10000.0,
		VolatileOilContent: 0.02, OilVaporizationTemp: 170.0, OilAutoignitionTemp: 232.0,
		Bark: Bark{Kind: BarkSmooth, LadderFactor: 0.1, Flammability: 0.3, SheddingRate: 0.005},
		LadderIntensity: 200.0,
		CrownFireThreshold: 1000.0,
	}
}

// DryGrass is fuel id 3: fast ignition, low ember production.
func DryGrass() Archetype {
	return Archetype{
		ID: 3, Name: "Dry Grass",
		HeatContent: 18500.0, IgnitionTemp: 250.0, MaxFlameTemp: 900.0,
		SpecificHeat: 2.1, BulkDensity: 200.0, SurfaceToVolume: 12.0, BedDepth: 0.1,
		BaseMoisture: 0.05, MoistureOfExtinction: 0.25,
		BurnRateCoefficient: 0.15,
		EmberProduction: 0.2, EmberReceptivity: 0.8, MaxSpottingDistance: 500.0,
		Bark: Bark{Kind: BarkSmooth, LadderFactor: 0, Flammability: 0.1, SheddingRate: 0},
		LadderIntensity: 0,
		CrownFireThreshold: 2000.0,
	}
}

// Shrubland is fuel id 4.
func Shrubland() Archetype {
	return Archetype{
		ID: 4, Name: "Shrubland/Scrub",
		HeatContent: 19000.0, IgnitionTemp: 300.0, MaxFlameTemp: 1000.0,
		SpecificHeat: 1.8, BulkDensity: 350.0, SurfaceToVolume: 10.0, BedDepth: 0.4,
		BaseMoisture: 0.15, MoistureOfExtinction: 0.30,
		BurnRateCoefficient: 0.10,
		EmberProduction: 0.4, EmberReceptivity: 0.6, MaxSpottingDistance: 2000.0,
		VolatileOilContent: 0.01, OilVaporizationTemp: 180.0, OilAutoignitionTemp: 250.0,
		Bark: Bark{Kind: BarkFibrous, LadderFactor: 0.4, Flammability: 0.5, SheddingRate: 0.01},
		LadderIntensity: 300.0,
		CrownFireThreshold: 1200.0,
	}
}

// DeadWoodLitter is fuel id 5: ground litter, highly susceptible to embers.
func DeadWoodLitter() Archetype {
	return Archetype{
		ID: 5, Name: "Dead Wood/Litter",
		HeatContent: 19500.0, IgnitionTemp: 270.0, MaxFlameTemp: 950.0,
		SpecificHeat: 1.3, BulkDensity: 300.0, SurfaceToVolume: 9.0, BedDepth: 0.2,
		BaseMoisture: 0.05, MoistureOfExtinction: 0.25,
		BurnRateCoefficient: 0.12,
		EmberProduction: 0.5, EmberReceptivity: 0.9, MaxSpottingDistance: 1000.0,
		Bark: Bark{Kind: BarkSmooth, LadderFactor: 0, Flammability: 0.2, SheddingRate: 0},
		LadderIntensity: 0,
		CrownFireThreshold: 1500.0,
	}
}

// GreenVegetation is fuel id 6: fire resistant, high moisture.
func GreenVegetation() Archetype {
	return Archetype{
		ID: 6, Name: "Green Vegetation",
		HeatContent: 18000.0, IgnitionTemp: 350.0, MaxFlameTemp: 800.0,
		SpecificHeat: 2.2, BulkDensity: 400.0, SurfaceToVolume: 8.0, BedDepth: 0.3,
		BaseMoisture: 0.60, MoistureOfExtinction: 0.70,
		BurnRateCoefficient: 0.04,
		EmberProduction: 0.1, EmberReceptivity: 0.2, MaxSpottingDistance: 200.0,
		Bark: Bark{Kind: BarkSmooth, LadderFactor: 0, Flammability: 0.05, SheddingRate: 0},
		LadderIntensity: 0,
		CrownFireThreshold: 2500.0,
	}
}

// FromID looks up a catalog archetype by its stable fuel code, returning
// (archetype, true) on a known code and (zero, false) otherwise.
func FromID(id uint8) (Archetype, bool) {
	switch id {
	case 1:
		return EucalyptusStringybark(), true
	case 2:
		return EucalyptusSmoothBark(), true
	case 3:
		return DryGrass(), true
	case 4:
		return Shrubland(), true
	case 5:
		return DeadWoodLitter(), true
	case 6:
		return GreenVegetation(), true
	default:
		return Archetype{}, false
	}
}
