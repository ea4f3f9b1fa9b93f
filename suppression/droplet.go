package suppression

import (
	"math"

	"github.com/mineubob/wildfiresim/units"
)

const gravity = 9.81
const dragCoeff = 0.47 // sphere drag coefficient
const airDensity = 1.225

// Droplet is an airborne parcel of suppression agent, transported ballistically
// from its release point toward the ground or a targeted element.
type Droplet struct {
	Position units.Vec3
	Velocity units.Vec3
	Mass     units.Mass
	Kind     AgentKind
}

// radius derives an equivalent spherical radius from mass and agent density,
// used for drag cross-section.
func (d Droplet) radius() float64 {
	props := PropertiesFor(d.Kind)
	volume := float64(d.Mass) / props.Density
	return math.Cbrt(3.0 * volume / (4.0 * math.Pi))
}

// UpdatePhysics advances a droplet by dt seconds under gravity, wind drag,
// and evaporative mass loss, mirroring the ember package's ballistic model.
func (d *Droplet) UpdatePhysics(wind units.Vec3, dt float64) {
	r := d.radius()
	crossSection := math.Pi * r * r

	relativeVelocity := wind.Sub(d.Velocity)
	relSpeed := relativeVelocity.Norm()
	var dragAccel units.Vec3
	if relSpeed > 0.01 && d.Mass > 0 {
		dragForce := 0.5 * airDensity * dragCoeff * relSpeed * relSpeed * crossSection
		dragAccel = relativeVelocity.NormalizeOrZero().Scale(dragForce / float64(d.Mass))
	}

	accel := dragAccel.Add(units.NewVec3(0, 0, -gravity))
	d.Velocity = d.Velocity.Add(accel.Scale(dt))
	d.Position = d.Position.Add(d.Velocity.Scale(dt))

	props := PropertiesFor(d.Kind)
	d.Mass -= units.Mass(float64(d.Mass) * props.EvaporationRate * dt)
	if d.Mass < 0 {
		d.Mass = 0
	}
}

// HasLanded reports whether the droplet has reached ground level.
func (d Droplet) HasLanded() bool { return d.Position.Z <= 0 }

// IsSpent reports whether the droplet has fully evaporated.
func (d Droplet) IsSpent() bool { return d.Mass <= 1e-9 }

// CoverageContribution is the coverage fraction a landed droplet deposits on
// an element, proportional to remaining mass relative to a saturation mass.
func (d Droplet) CoverageContribution(saturationMass units.Mass) units.Fraction {
	if saturationMass <= 0 {
		return 0
	}
	return units.Fraction(units.Clamp01(float64(d.Mass) / float64(saturationMass)))
}
