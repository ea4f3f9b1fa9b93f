// Package weather implements forcing signal and derived fire-danger
// indices: McArthur FFDI, Haines Index and its continuous variant, and
// pyroCb potential. Grounded on crates/core/src/weather.rs and
// crates/core/src/atmosphere/instability.rs, restyled after Gekko3D-gekko's
// small value-type-with-methods resources (physics.go's
// RigidBodyComponent-adjacent structs).
package weather

import (
	"math"

	"github.com/mineubob/wildfiresim/units"
)

// Forcing is the externally-supplied weather signal the driver ingests at
// the public surface (°C, km/h, fractions), "units at the
// boundary" rule.
type Forcing struct {
	Temperature units.Celsius
	HumidityPct float64 // 0-100
	WindSpeedKmh float64
	WindDirection units.Degrees // 0=N, clockwise
	DroughtFactor float64 // 0-10
}

// Default returns moderate conditions, matching WeatherSystem::default.
func Default() Forcing {
	return Forcing{Temperature: 25, HumidityPct: 50, WindSpeedKmh: 15, WindDirection: 0, DroughtFactor: 5}
}

// Catastrophic returns extreme conditions, matching WeatherSystem::catastrophic.
func Catastrophic() Forcing {
	return Forcing{Temperature: 45, HumidityPct: 10, WindSpeedKmh: 60, WindDirection: 0, DroughtFactor: 10}
}

// FFDI computes the McArthur Forest Fire Danger Index (always non-negative),
// grounded on crates/core/src/weather.rs calculate_ffdi.
func (f Forcing) FFDI() float64 {
	ffdi := f.DroughtFactor *
	(float64(f.Temperature) / 30.0) *
	((100.0 - f.HumidityPct) / 80.0) *
	(f.WindSpeedKmh / 20.0) * 10.0
	return math.Max(0, ffdi)
}

// FireDangerRating maps FFDI to the McArthur rating band.
func (f Forcing) FireDangerRating() string {
	switch ffdi := f.FFDI(); {
	case ffdi < 5:
		return "Low"
	case ffdi < 12:
		return "Moderate"
	case ffdi < 24:
		return "High"
	case ffdi < 50:
		return "Very High"
	case ffdi < 75:
		return "Severe"
	case ffdi < 100:
		return "Extreme"
	default:
		return "Catastrophic"
	}
}

// SpreadRateMultiplier is the FFDI-derived spread rate scalar, floor 1.
func (f Forcing) SpreadRateMultiplier() float64 {
	return math.Max(1.0, f.FFDI()/10.0)
}

// WindVectorMS converts the forcing's km/h wind speed and compass direction
// into an m/s world-space vector, unit-conversion-at-ingress rule.
func (f Forcing) WindVectorMS() units.Vec3 {
	ms := units.KmhToMs(f.WindSpeedKmh)
	rad := f.WindDirection.ToRadians()
	return units.NewVec3(math.Sin(float64(rad))*float64(ms), math.Cos(float64(rad))*float64(ms), 0)
}

// FuelMoistureFactor derives an effective fuel moisture fraction from
// baseMoisture and the current forcing, matching calculate_fuel_moisture.
func (f Forcing) FuelMoistureFactor(baseMoisture units.Fraction) units.Fraction {
	humidityFactor := f.HumidityPct / 100.0
	tempFactor := math.Min(2.0, 30.0/math.Max(10.0, float64(f.Temperature)))
	return units.Fraction(units.Clamp01(float64(baseMoisture) * humidityFactor * tempFactor))
}

// Stability holds the Haines Index family of atmospheric-instability
// metrics, and "Haines index in {2..6}" invariant.
type Stability struct {
	HainesIndex int // 2..6
	CHaines float64
	MixingHeight units.Length
}

func stabilityTerm(lapse float64) float64 {
	switch {
	case lapse < 4:
		return 1
	case lapse < 8:
		return 2
	default:
		return 3
	}
}

func moistureTerm(depression float64) float64 {
	switch {
	case depression < 6:
		return 1
	case depression < 10:
		return 2
	default:
		return 3
	}
}

// HainesIndex computes the discrete Haines Index (2..6) from a two-level
// temperature/dew-point sounding, per instability.rs haines_index.
func HainesIndex(t950C, t850C, td850C units.Celsius) int {
	lapse := float64(t950C - t850C)
	depression := float64(t850C - td850C)
	return int(stabilityTerm(lapse) + moistureTerm(depression))
}

func continuousStability(lapse float64) float64 {
	switch {
	case lapse < 4:
		return 1.0 + lapse/4.0
	case lapse < 8:
		return 2.0 + (lapse-4.0)/4.0
	default:
		return math.Min(3.0, 2.5+(lapse-8.0)/8.0)
	}
}

func continuousMoisture(depression float64) float64 {
	switch {
	case depression < 6:
		return 1.0 + depression/6.0
	case depression < 10:
		return 2.0 + (depression-6.0)/4.0
	default:
		return math.Min(3.0, 2.5+(depression-10.0)/8.0)
	}
}

// ContinuousHaines computes the finer-resolution Haines Index (2.0..6.0),
// per instability.rs continuous_haines.
func ContinuousHaines(t950C, t850C, td850C units.Celsius) float64 {
	lapse := float64(t950C - t850C)
	depression := float64(t850C - td850C)
	return units.Clamp(continuousStability(lapse)+continuousMoisture(depression), 2.0, 6.0)
}

// NewStability builds a Stability assessment from sounding data.
func NewStability(t950C, t850C, td850C units.Celsius, mixingHeight units.Length) Stability {
	return Stability{
		HainesIndex: HainesIndex(t950C, t850C, td850C),
		CHaines: ContinuousHaines(t950C, t850C, td850C),
		MixingHeight: mixingHeight,
	}
}

// PyroCbPotential estimates pyroCb formation likelihood (0..1), combining
// atmospheric instability with local fire intensity, per
// instability.rs pyrocb_potential.
func (s Stability) PyroCbPotential(fireIntensityKWPerM float64) float64 {
	hainesFactor := (float64(s.HainesIndex) - 2.0) / 4.0
	intensityFactor := math.Min(1.0, fireIntensityKWPerM/50_000.0)
	return hainesFactor * intensityFactor
}

// IsExtreme reports whether the Haines Index indicates extreme fire
// weather (HI >= 5).
func (s Stability) IsExtreme() bool { return s.HainesIndex >= 5 }
