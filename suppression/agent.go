// Package suppression implements fire-suppression agents (water, retardant,
// foam, gel), their ballistic droplets, and per-element coverage decay.
// Grounded on crates/core/src/suppression/mod.rs (agent taxonomy) and
// restyled after the ember package's component-with-methods convention,
// itself modeled on Gekko3D-gekko's physics.go RigidBodyComponent.
package suppression

// AgentKind enumerates the suppression agent types a droplet or coverage
// fraction can carry.
type AgentKind int

const (
	Water AgentKind = iota
	Retardant
	Foam
	Gel
)

// AgentProperties are the per-kind physical constants governing evaporation,
// heat absorption, and combustion inhibition, drawn from the NFPA 1150 and
// USFS MTDC retardant-effectiveness literature crates/core/src/suppression/
// mod.rs cites.
type AgentProperties struct {
	EvaporationRate          float64 // fraction/s lost to evaporation
	HeatAbsorptionCoefficient float64 // J/(kg*K)-equivalent scalar, relative
	CombustionInhibition     float64 // 0..1, fraction of combustion suppressed at full coverage
	Density                  float64 // kg/m^3
}

// PropertiesFor returns the reference physical properties for an agent kind.
func PropertiesFor(kind AgentKind) AgentProperties {
	switch kind {
	case Retardant:
		return AgentProperties{EvaporationRate: 0.01, HeatAbsorptionCoefficient: 1.3, CombustionInhibition: 0.85, Density: 1100}
	case Foam:
		return AgentProperties{EvaporationRate: 0.03, HeatAbsorptionCoefficient: 1.1, CombustionInhibition: 0.7, Density: 1020}
	case Gel:
		return AgentProperties{EvaporationRate: 0.005, HeatAbsorptionCoefficient: 1.5, CombustionInhibition: 0.9, Density: 1050}
	default: // Water
		return AgentProperties{EvaporationRate: 0.08, HeatAbsorptionCoefficient: 1.0, CombustionInhibition: 0.5, Density: 1000}
	}
}
