// Package element implements the per-element thermal state and ordered
// apply_heat protocol. Grounded on crates/core/src/element.rs,
// restyled after Gekko3D-gekko's component-with-methods style
// (physics.go RigidBodyComponent.ApplyLinearImpulse / ApplyImpulse).
package element

import (
	"math"

	"github.com/mineubob/wildfiresim/fuel"
	"github.com/mineubob/wildfiresim/units"
)

// ID is a stable per-element identifier, a plain u32 under the hood.
type ID uint32

// PartKind enumerates the structural part tags.
type PartKind int

const (
	PartRoot PartKind = iota
	PartTrunkLower
	PartTrunkMiddle
	PartTrunkUpper
	PartBarkAtHeight
	PartBranch
	PartCrown
	PartGroundLitter
	PartGroundVegetation
	PartBuildingWall
	PartBuildingRoof
	PartBuildingInterior
	PartVehicle
	PartSurface
)

// Part carries the structural tag plus the parameters some tags need
// (bark height, branch height/angle, building floor).
type Part struct {
	Kind PartKind
	Height units.Length // BarkAtHeight, Branch
	BranchAngle units.Degrees
	BuildingFloor uint8
}

// Element is the Lagrangian fuel-bearing point.
type Element struct {
	ID ID
	Position units.Vec3

	Fuel fuel.Archetype

	Temperature units.Celsius
	Moisture units.Fraction
	RemainingMass units.Mass
	Ignited bool
	FlameHeight units.Length

	ParentID *ID
	Part Part

	Elevation units.Length
	Slope units.Degrees

	Neighbors []ID // cached, valid only between rebuild events
}

const ambientDefault units.Celsius = 20.0

// New constructs an unignited element at ambient temperature with the
// archetype's base moisture, matching FuelElement::new.
func New(id ID, pos units.Vec3, f fuel.Archetype, mass units.Mass, part Part, parent *ID) *Element {
	return &Element{
		ID: id,
		Position: pos,
		Fuel: f.Clone(),
		Temperature: ambientDefault,
		Moisture: f.BaseMoisture,
		RemainingMass: mass,
		Part: part,
		ParentID: parent,
		Elevation: pos.Z,
	}
}

const latentHeatOfVaporization = 2260.0 // kJ/kg
const extinctionMass units.Mass = 0.010 // 10 g extinction threshold
const massEpsilon = 1e-6

// ApplyHeat runs the strict five-step ordering: evaporate moisture
// first, raise temperature with the remainder, clamp to
// [ambient, max_flame_temperature], then probabilistically gate ignition.
// draw is the caller-supplied uniform(0,1) sample from the centralized RNG
// (forbidding component-local RNG).
func (e *Element) ApplyHeat(heatKJ float64, dt float64, ambient units.Celsius, draw float64) {
	if heatKJ <= 0 || e.RemainingMass <= 0 {
		return
	}

	moistureMass := float64(e.RemainingMass) * float64(e.Moisture)
	if moistureMass > 0 {
		evaporationEnergy := moistureMass * latentHeatOfVaporization
		heatForEvaporation := heatKJ
		if heatForEvaporation > evaporationEnergy {
			heatForEvaporation = evaporationEnergy
		}
		moistureEvaporated := heatForEvaporation / latentHeatOfVaporization

		newMoistureMass := moistureMass - moistureEvaporated
		if newMoistureMass < 0 {
			newMoistureMass = 0
		}
		if e.RemainingMass > 0 {
			e.Moisture = units.Fraction(newMoistureMass / float64(e.RemainingMass))
		} else {
			e.Moisture = 0
		}

		remainingHeat := heatKJ - heatForEvaporation
		if remainingHeat > 0 && e.RemainingMass > 0 {
			tempRise := remainingHeat / (float64(e.RemainingMass) * e.Fuel.SpecificHeat)
			e.Temperature += units.Celsius(tempRise)
		}
	} else {
		tempRise := heatKJ / (float64(e.RemainingMass) * e.Fuel.SpecificHeat)
		e.Temperature += units.Celsius(tempRise)
	}

	maxTemp := e.Fuel.MaxFlameTemperature(e.Moisture)
	if e.Temperature > maxTemp {
		e.Temperature = maxTemp
	}
	if e.Temperature < ambient {
		e.Temperature = ambient
	}

	if !e.Ignited && e.Temperature >= e.Fuel.IgnitionTemp {
		e.evaluateIgnitionGate(dt, draw)
	}
}

// evaluateIgnitionGate implements p = moisture_factor * temp_factor * dt * 2.
func (e *Element) evaluateIgnitionGate(dt float64, draw float64) {
	moistureFactor := 1.0 - float64(e.Moisture)/float64(e.Fuel.MoistureOfExtinction)
	if moistureFactor < 0 {
		moistureFactor = 0
	}
	tempFactor := (float64(e.Temperature) - float64(e.Fuel.IgnitionTemp)) / 50.0
	if tempFactor > 1 {
		tempFactor = 1
	}
	if tempFactor < 0 {
		tempFactor = 0
	}
	prob := moistureFactor * tempFactor * dt * 2.0
	if draw < prob {
		e.Ignited = true
	}
}

// Ignite forces ignition at initialTemp, clamped to
// [ignition_temp, max_flame_temperature] the same way ApplyHeat clamps its
// own temperature rise.
func (e *Element) Ignite(initialTemp units.Celsius) {
	e.Ignited = true
	if initialTemp > e.Fuel.IgnitionTemp {
		e.Temperature = initialTemp
	} else {
		e.Temperature = e.Fuel.IgnitionTemp
	}
	if maxTemp := e.Fuel.MaxFlameTemperature(e.Moisture); e.Temperature > maxTemp {
		e.Temperature = maxTemp
	}
}

// BurnRate computes the burn_rate: k * max(0,1-m/m_ext) *
// clamp((T-T_ign)/200, 0, 1) * sqrt(remaining_mass), zero when unignited
// or out of fuel.
func (e *Element) BurnRate() units.Rate {
	if !e.Ignited || e.RemainingMass <= 0 {
		return 0
	}
	moistureFactor := 1.0 - float64(e.Moisture)/float64(e.Fuel.MoistureOfExtinction)
	if moistureFactor < 0 {
		moistureFactor = 0
	}
	tempFactor := units.Clamp((float64(e.Temperature)-float64(e.Fuel.IgnitionTemp))/200.0, 0, 1)
	return units.Rate(e.Fuel.BurnRateCoefficient * moistureFactor * tempFactor * sqrtMass(e.RemainingMass))
}

func sqrtMass(m units.Mass) float64 {
	if m <= 0 {
		return 0
	}
	return math.Sqrt(float64(m))
}

// ByramIntensity computes I = H*burn_rate*0.9*(assumed spread rate)/60, in
// kW/m, using a placeholder assumed spread rate of 30 m/min.
func (e *Element) ByramIntensity() float64 {
	if !e.Ignited || e.RemainingMass <= 0 {
		return 0
	}
	burnRate := float64(e.BurnRate())
	heatRelease := e.Fuel.HeatContent * burnRate * 0.9
	const assumedSpreadRateMPerMin = 30.0
	return (heatRelease * assumedSpreadRateMPerMin) / 60.0
}

// ComputeFlameHeight computes L = 0.0775 * I^0.46 from the current Byram
// intensity, without mutating the element.
func (e *Element) ComputeFlameHeight() units.Length {
	intensity := e.ByramIntensity()
	if intensity <= 0 {
		return 0
	}
	return units.Length(0.0775 * math.Pow(intensity, 0.46))
}

// UpdateFlameHeight refreshes the cached FlameHeight field.
func (e *Element) UpdateFlameHeight() {
	e.FlameHeight = e.ComputeFlameHeight()
}

// BurnFuel consumes remaining mass at BurnRate()*dt, extinguishing the
// element once remaining mass drops below the extinction threshold.
func (e *Element) BurnFuel(dt float64) {
	if !e.Ignited {
		return
	}
	rate := float64(e.BurnRate())
	newMass := float64(e.RemainingMass) - rate*dt
	if newMass < 0 {
		newMass = 0
	}
	e.RemainingMass = units.Mass(newMass)
	if e.RemainingMass < extinctionMass {
		e.Extinguish(ambientDefault)
	}
}

// Extinguish clears the ignited flag and cools the element to ambient.
func (e *Element) Extinguish(ambient units.Celsius) {
	e.Ignited = false
	e.Temperature = ambient
	e.FlameHeight = 0
}

// CanIgnite reports whether the element is eligible to catch fire: not
// already burning, has meaningful mass, and is below moisture-of-extinction.
func (e *Element) CanIgnite() bool {
	return !e.Ignited && e.RemainingMass > extinctionMass && e.Moisture < e.Fuel.MoistureOfExtinction
}

// RadiationSurfaceArea returns A_s = SAV * sqrt(remaining_mass), the source
// area term shared by the radiation kernel.
func (e *Element) RadiationSurfaceArea() float64 {
	return e.Fuel.SurfaceToVolume * sqrtMass(e.RemainingMass)
}

// Invariant reports whether the element currently satisfies the
// invariants (mass non-negative, ignited implies mass>epsilon, temperature
// within [ambient, max_flame], moisture within [0, moisture_of_extinction+eps]).
func (e *Element) Invariant(ambient units.Celsius) bool {
	if e.RemainingMass < 0 {
		return false
	}
	if e.Ignited && e.RemainingMass <= massEpsilon {
		return false
	}
	maxTemp := e.Fuel.MaxFlameTemperature(e.Moisture)
	if e.Temperature < ambient || e.Temperature > maxTemp {
		return false
	}
	const rebalanceEpsilon = 0.02
	if e.Moisture < 0 || float64(e.Moisture) > float64(e.Fuel.MoistureOfExtinction)+rebalanceEpsilon {
		return false
	}
	return true
}
