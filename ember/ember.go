// Package ember implements the ballistic ember particle system: spawn from intensely-burning elements, wind-drag/buoyancy/gravity
// transport, and landing ignition probability. Grounded on
// crates/core/src/core_types/ember.rs, restyled after Gekko3D-gekko's
// component-with-methods style (physics.go RigidBodyComponent) and its
// Vec3-embedding convention.
package ember

import (
	"math"

	"github.com/mineubob/wildfiresim/units"
)

// ID is a stable per-ember identifier.
type ID uint32

// Ember is a single airborne firebrand.
type Ember struct {
	ID ID
	Position units.Vec3
	Velocity units.Vec3
	Temperature units.Celsius
	Mass units.Mass // kg, in [1e-4, 1e-2]
	SourceFuelCode uint8
}

const airDensity = 1.225 // kg/m^3
const charDensity = 400.0
const gravity = 9.81

// UpdatePhysics advances one ember by dt seconds under wind drag, buoyancy
// (while hotter than 300 C), gravity, and radiative cooling.
func (e *Ember) UpdatePhysics(wind units.Vec3, ambient units.Celsius, dt float64) {
	volume := float64(e.Mass) / charDensity

	var buoyancyAccel float64
	if e.Temperature > 300 {
		tempRatio := float64(e.Temperature) / 300.0
		buoyancy := airDensity * gravity * volume * tempRatio
		buoyancyAccel = buoyancy / float64(e.Mass)
	}

	relativeVelocity := wind.Sub(e.Velocity)
	const dragCoeff = 0.4
	const crossSection = 0.01
	relSpeed := relativeVelocity.Norm()
	var dragAccel units.Vec3
	if relSpeed > 0.01 {
		dragForce := 0.5 * airDensity * dragCoeff * relSpeed * relSpeed * crossSection
		dragAccel = relativeVelocity.NormalizeOrZero().Scale(dragForce / float64(e.Mass))
	}

	accel := units.NewVec3(0, 0, buoyancyAccel).Add(dragAccel).Add(units.NewVec3(0, 0, -gravity))
	e.Velocity = e.Velocity.Add(accel.Scale(dt))
	e.Position = e.Position.Add(e.Velocity.Scale(dt))

	coolingRate := (float64(e.Temperature) - float64(ambient)) * 0.05
	e.Temperature -= units.Celsius(coolingRate * dt)
	if e.Temperature < ambient {
		e.Temperature = ambient
	}
}

// IsActive reports whether the ember is still hot and airborne ("Ember
// active while temperature > 200 C and z > 0").
func (e *Ember) IsActive() bool {
	return e.Temperature > 200 && e.Position.Z > 0
}

// HasLanded reports whether the ember has descended to ground level.
func (e *Ember) HasLanded() bool {
	return e.Position.Z < 1
}

// CanIgnite reports whether a landed ember is hot enough to ignite fuel.
func (e *Ember) CanIgnite() bool {
	return e.HasLanded() && e.Temperature > 250
}

// IgnitionProbability computes "receptivity * min(1,T/300) *
// min(1,m/0.001)" ignition chance against a ground-layer element of the
// given fuel receptivity.
func IgnitionProbability(e *Ember, fuelReceptivity units.Fraction) float64 {
	tempFactor := math.Min(1.0, float64(e.Temperature)/300.0)
	massFactor := math.Min(1.0, float64(e.Mass)/0.001)
	return float64(fuelReceptivity) * tempFactor * massFactor
}

// maxEmbersPerSpawn caps a single spawn call at 50 embers regardless of how
// large the computed count is.
const maxEmbersPerSpawn = 50

// Draws is the centralized uniform(0,1) sample source every spawn call
// consumes in a fixed order, ban on component-local RNG: the
// simulation driver supplies one draw per random quantity needed.
type Draws interface {
	// Next returns the next uniform(0,1) sample in the pipeline's
	// deterministic draw order.
	Next() float64
}

func uniform(d Draws, lo, hi float64) float64 {
	return lo + (hi-lo)*d.Next()
}

// Spawn generates embers from a burning element: count =
// min(50, floor(emberProduction*fuelRemaining*100)); velocity
// (U(-5,5),U(-5,5),U(8,20)); mass U(1e-4,1e-2); temperature =
// sourceTemp*U(0.7,0.9); spawn offset (0,0,+2). Each ember's id comes from
// the caller-supplied allocID so ids stay globally unique across spawns.
func Spawn(position units.Vec3, sourceTemp units.Celsius, fuelRemaining units.Mass, emberProduction float64, fuelTypeID uint8, draws Draws, allocID func() ID) []*Ember {
	count := int(emberProduction * float64(fuelRemaining) * 100.0)
	if count > maxEmbersPerSpawn {
		count = maxEmbersPerSpawn
	}
	if count <= 0 {
		return nil
	}

	spawnPos := position.Add(units.NewVec3(0, 0, 2))
	embers := make([]*Ember, 0, count)
	for i := 0; i < count; i++ {
		velocity := units.NewVec3(
			uniform(draws, -5, 5),
			uniform(draws, -5, 5),
			uniform(draws, 8, 20),
		)
		temp := units.Celsius(float64(sourceTemp) * uniform(draws, 0.7, 0.9))
		mass := units.Mass(uniform(draws, 1e-4, 1e-2))

		embers = append(embers, &Ember{
				ID: allocID(),
				Position: spawnPos,
				Velocity: velocity,
				Temperature: temp,
				Mass: mass,
				SourceFuelCode: fuelTypeID,
		})
	}
	return embers
}
