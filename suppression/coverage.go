package suppression

import "github.com/mineubob/wildfiresim/units"

// Coverage is the suppression-agent film remaining on one fuel element.
type Coverage struct {
	Kind     AgentKind
	Fraction units.Fraction // 0..1
}

// Decay reduces coverage by evaporation and additional heat-driven
// evaporation, matching crates/core/src/suppression/mod.rs's decay rule.
func (c *Coverage) Decay(dt float64, heatExposure float64) {
	props := PropertiesFor(c.Kind)
	loss := props.EvaporationRate * dt
	loss += heatExposure * props.HeatAbsorptionCoefficient * dt * 0.001
	remaining := float64(c.Fraction) - loss
	c.Fraction = units.Fraction(units.Clamp01(remaining))
}

// IsDepleted reports whether the coverage has fully evaporated.
func (c Coverage) IsDepleted() bool { return c.Fraction <= 1e-6 }

// CombustionMultiplier scales combustion rate down in proportion to coverage
// and the agent's inhibition strength; 1.0 = unsuppressed.
func (c Coverage) CombustionMultiplier() float64 {
	props := PropertiesFor(c.Kind)
	return 1.0 - float64(c.Fraction)*props.CombustionInhibition
}

// HeatAbsorptionMultiplier scales incoming radiative/convective heat down
// in proportion to coverage, representing evaporative heat sink.
func (c Coverage) HeatAbsorptionMultiplier() float64 {
	props := PropertiesFor(c.Kind)
	absorbed := float64(c.Fraction) * props.HeatAbsorptionCoefficient * 0.4
	if absorbed > 0.95 {
		absorbed = 0.95
	}
	return 1.0 - absorbed
}

// Apply adds the contribution of a landed droplet to this coverage,
// replacing the agent kind when the new droplet differs (mixed agents do
// not blend; the most recent application wins, matching typical aerial-drop
// overwrite behavior).
func (c *Coverage) Apply(kind AgentKind, contribution units.Fraction) {
	if kind != c.Kind {
		c.Kind = kind
		c.Fraction = contribution
		return
	}
	c.Fraction = units.Fraction(units.Clamp01(float64(c.Fraction) + float64(contribution)))
}
