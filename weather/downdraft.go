package weather

import (
	"math"

	"github.com/mineubob/wildfiresim/units"
)

const gravity = 9.81

// Downdraft models the Byers & Braham (1949) downdraft/gust-front dynamics
// that follow a pyroCb column collapse; the outflow is radially symmetric
// about Position. Grounded on crates/core/src/atmosphere/downdraft.rs.
type Downdraft struct {
	Position units.Vec3 // z ignored; horizontal center
	VerticalVelocity float64 // m/s, negative = downward
	Radius float64 // m
	OutflowVelocity float64 // m/s
}

// DowndraftFromPyroCb constructs a downdraft from pyroCb/column-collapse
// parameters, scenario 5: column_height, ambient T, precipitation
// loading -> |w_down| in (5,50) m/s.
func DowndraftFromPyroCb(center units.Vec3, columnHeight units.Length, ambientTemp units.Kelvin, precipLoadingKgM3 float64) Downdraft {
	downdraftDepth := float64(columnHeight) * 0.5

	loading := precipLoadingKgM3
	if loading > 1.5 {
		loading = 1.5
	}
	deltaTheta := 10.0 * loading

	var wDown float64
	if deltaTheta > 0 {
		wDown = -math.Sqrt(2 * gravity * downdraftDepth * deltaTheta / float64(ambientTemp))
	}

	outflow := math.Max(5.0, -wDown*0.8)
	initialRadius := units.Clamp(float64(columnHeight)*0.1, 200, 2000)

	return Downdraft{
		Position: center,
		VerticalVelocity: wDown,
		Radius: initialRadius,
		OutflowVelocity: outflow,
	}
}

// Update expands the downdraft's radius as the outflow spreads and decays
// both velocities at roughly 1%/s.
func (d *Downdraft) Update(dt float64) {
	d.Radius += d.OutflowVelocity * dt * 0.5

	const decayRate = 0.99
	decay := math.Pow(decayRate, dt)
	d.OutflowVelocity *= decay
	d.VerticalVelocity *= decay
}

// WindEffectAt returns the (u,v) outflow wind contribution at a horizontal
// position, radially symmetric and parabolic in profile (zero at center,
// peak at r=R/2, zero at the edge), rotational-invariance
// invariant.
func (d Downdraft) WindEffectAt(position units.Vec3) (float64, float64) {
	dx := float64(position.X - d.Position.X)
	dy := float64(position.Y - d.Position.Y)
	distance := math.Hypot(dx, dy)

	if distance > d.Radius || distance < 1.0 {
		return 0, 0
	}

	dirX, dirY := dx/distance, dy/distance
	normalizedDist := distance / d.Radius
	strength := d.OutflowVelocity * 4.0 * normalizedDist * (1.0 - normalizedDist)

	return dirX * strength, dirY * strength
}

// IsDissipated reports whether the downdraft's outflow has decayed below
// 1 m/s.
func (d Downdraft) IsDissipated() bool { return d.OutflowVelocity < 1.0 }
