package weather

import "math"

// FireWhirlDetector flags conditions favorable for fire-whirl formation:
// strong horizontal wind shear combined with high fire intensity, per
// crates/core/src/atmosphere/fire_whirl.rs.
type FireWhirlDetector struct {
	VorticityThreshold  float64 // 1/s
	IntensityThresholdKW float64 // kW/m
}

// DefaultFireWhirlDetector mirrors FireWhirlDetector::default: 0.2 s^-1,
// 10,000 kW/m.
func DefaultFireWhirlDetector() FireWhirlDetector {
	return FireWhirlDetector{VorticityThreshold: 0.2, IntensityThresholdKW: 10_000}
}

// Vorticity computes vertical vorticity omega = dv/dx - du/dy via central
// differences over a 2D wind sample stencil.
func Vorticity(uUp, uDown, vLeft, vRight, cellSize float64) float64 {
	dvdx := (vRight - vLeft) / (2 * cellSize)
	dudy := (uUp - uDown) / (2 * cellSize)
	return dvdx - dudy
}

// CheckConditions reports whether both the vorticity magnitude and fire
// intensity exceed this detector's thresholds.
func (d FireWhirlDetector) CheckConditions(vorticity, intensityKW float64) bool {
	return math.Abs(vorticity) > d.VorticityThreshold && intensityKW > d.IntensityThresholdKW
}

// IntensityIndex combines vorticity and intensity into a single 0..1 risk
// metric.
func (d FireWhirlDetector) IntensityIndex(vorticity, intensityKW float64) float64 {
	vortFactor := math.Min(2.0, math.Abs(vorticity)/d.VorticityThreshold) / 2.0
	intFactor := math.Min(5.0, intensityKW/d.IntensityThresholdKW) / 5.0
	return math.Min(1.0, vortFactor*intFactor)
}
