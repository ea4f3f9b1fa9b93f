// Package kernels implements the physics kernels coupling elements
// to each other: radiative transfer, convection, wind/slope/vertical
// multipliers, crown-fire transition, and oil-explosion detection.
// Grounded on crates/core/src/physics.rs and crates/core/src/australian.rs,
// restyled after Gekko3D-gekko's free-function kernel style
// (physics.go's QuatToMat3-adjacent helpers) using mgl32.Vec3 directly for
// geometry the way transform_hierarchy.go does.
package kernels

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/mineubob/wildfiresim/units"
)

// StefanBoltzmann is sigma in W/(m^2*K^4).
const StefanBoltzmann = 5.67e-8

// radiationEmissivity and radiationUnitConversion implement
// Q = sigma*eps*F*(T_s^4-T_t^4)*A_t*0.001*blocking.
const radiationEmissivity = 0.95
const radiationUnitConversion = 0.001

// RadiationFlux computes the element-to-element radiative heat transfer:
// zero when the source is unignited or r<=0, otherwise signed as
// (T_s^4 - T_t^4). sourceArea is A_s =
// SAV*sqrt(mass); targetArea is A_t (the driver passes the target's
// SAV*sqrt(mass), computed the same way as A_s); blocking in [0,1] represents partial line-of-sight occlusion (1 =
// unobstructed).
func RadiationFlux(sourceIgnited bool, sourceTempK, targetTempK units.Kelvin, distance units.Length, sourceArea, targetArea, blocking float64) float64 {
	if !sourceIgnited || distance <= 0 {
		return 0
	}
	viewFactor := sourceArea / (4 * math.Pi * float64(distance) * float64(distance))
	if viewFactor > 1 {
		viewFactor = 1
	}
	ts4 := math.Pow(float64(sourceTempK), 4)
	tt4 := math.Pow(float64(targetTempK), 4)
	return StefanBoltzmann * radiationEmissivity * viewFactor * (ts4 - tt4) * targetArea * radiationUnitConversion * blocking
}

// RadiationFluxLegacy is the simplified (T/1000)^4 form kept alongside the
// full form (legacy/legacy_physics.rs); the production pipeline uses the
// full Stefan-Boltzmann form (RadiationFlux) instead, so this is retained
// only as the documented rejected alternative and exercised by tests.
func RadiationFluxLegacy(sourceIgnited bool, sourceTempC units.Celsius, distance units.Length, sourceArea, targetArea float64) float64 {
	if !sourceIgnited || distance <= 0 {
		return 0
	}
	tempK := sourceTempC.ToKelvin()
	viewFactor := sourceArea / (4 * math.Pi * float64(distance) * float64(distance))
	if viewFactor > 1 {
		viewFactor = 1
	}
	flux := StefanBoltzmann * math.Pow(float64(tempK)/1000.0, 4) * viewFactor * 10000.0
	return flux * targetArea * radiationUnitConversion
}

// ConvectionFlux computes the convective transfer: only nonzero when
// the target sits above the source and the source is ignited.
func ConvectionFlux(sourceIgnited bool, sourceZ, targetZ units.Length, sourceIntensityKWPerM float64, distance units.Length) float64 {
	if !sourceIgnited || targetZ <= sourceZ {
		return 0
	}
	return 0.15 * sourceIntensityKWPerM / (float64(distance) + 1.0)
}

// windAlignment returns cos(theta) between the source->target direction and
// the wind direction, and the wind's magnitude in m/s.
func windAlignment(from, to, wind units.Vec3) (cosTheta, windSpeed float64) {
	windSpeed = wind.Norm()
	if windSpeed < 0.1 {
		return 0, windSpeed
	}
	direction := to.Sub(from).NormalizeOrZero()
	windDir := wind.NormalizeOrZero()
	return direction.Dot(windDir), windSpeed
}

// WindRadiationMultiplier implements wind multiplier for radiation:
// downwind 1+cos(theta)*|w|*2.5, upwind max(0.05, exp(-|cos(theta)|*|w|*0.35)).
func WindRadiationMultiplier(from, to, wind units.Vec3) float64 {
	cosTheta, windSpeed := windAlignment(from, to, wind)
	if windSpeed < 0.1 {
		return 1.0
	}
	if cosTheta > 0 {
		return 1.0 + cosTheta*windSpeed*2.5
	}
	return math.Max(0.05, math.Exp(-math.Abs(cosTheta)*windSpeed*0.35))
}

// WindDiffusionMultiplier is the stronger-effect diffusion analogue:
// downwind 1+cos(theta)*|w|*3.0, upwind max(0.02, exp(-|cos(theta)|*|w|*0.4)).
func WindDiffusionMultiplier(from, to, wind units.Vec3) float64 {
	cosTheta, windSpeed := windAlignment(from, to, wind)
	if windSpeed < 0.1 {
		return 1.0
	}
	if cosTheta > 0 {
		return 1.0 + cosTheta*windSpeed*3.0
	}
	return math.Max(0.02, math.Exp(-math.Abs(cosTheta)*windSpeed*0.4))
}

// VerticalFactor implements climb/descend/level asymmetry:
// climbing = 2.5+0.1*dz, descending = 0.7/(1+0.2*|dz|), level = 1.
func VerticalFactor(dz units.Length) float64 {
	switch {
	case dz > 0:
		return 2.5 + 0.1*float64(dz)
	case dz < 0:
		return 0.7 / (1.0 + 0.2*math.Abs(float64(dz)))
	default:
		return 1.0
	}
}

// SlopeFactor implements slope multiplier: angle alpha from
// atan(dz/horizontal); uphill 1+(alpha/10)^1.5*2, downhill max(0.3, 1+alpha/30).
func SlopeFactor(horizontal, dz units.Length) float64 {
	if horizontal < 0.1 {
		return 1.0
	}
	alphaDeg := math.Atan(float64(dz)/float64(horizontal)) * 180 / math.Pi
	if alphaDeg > 0 {
		return 1.0 + math.Pow(alphaDeg/10.0, 1.5)*2.0
	}
	return math.Max(0.3, 1.0+alphaDeg/30.0)
}

// windReferenceHeight / roughnessLength implement the logarithmic wind
// profile with z0 = 0.5 m reference.
const roughnessLength = 0.5
const windReferenceHeight = 10.0

// WindAtHeight computes the logarithmic wind profile, returning 0 below the
// roughness length.
func WindAtHeight(wind10m units.Velocity, height units.Length) units.Velocity {
	if height < roughnessLength {
		return 0
	}
	return units.Velocity(float64(wind10m) * math.Log(float64(height)/roughnessLength) / math.Log(windReferenceHeight/roughnessLength))
}

// ChannelingFactor returns 1 + |wind.aspectUnit|*0.3 when localSlope exceeds
// 15 degrees, else 1; atmosphere.Grid.RefreshWindField applies the same
// rule inline rather than calling this function.
func ChannelingFactor(wind units.Vec3, aspectUnitX, aspectUnitY float64, localSlopeDeg float64) float64 {
	if localSlopeDeg <= 15 {
		return 1.0
	}
	wx, wy := wind.XY()
	windLen := math.Hypot(wx, wy)
	if windLen < 1e-9 {
		return 1.0
	}
	alignment := (wx*aspectUnitX + wy*aspectUnitY) / windLen
	return 1.0 + math.Abs(alignment)*0.3
}

// Vec3FromMgl adapts an mgl32.Vec3 into units.Vec3, for callers that hold
// render-side vectors (e.g. FFI marshaling).
func Vec3FromMgl(v mgl32.Vec3) units.Vec3 {
	return units.NewVec3(float64(v.X()), float64(v.Y()), float64(v.Z()))
}
