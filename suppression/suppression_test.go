package suppression

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mineubob/wildfiresim/units"
)

func TestPropertiesForDistinctPerKind(t *testing.T) {
	water := PropertiesFor(Water)
	retardant := PropertiesFor(Retardant)
	assert.Greater(t, water.EvaporationRate, retardant.EvaporationRate)
	assert.Less(t, water.CombustionInhibition, retardant.CombustionInhibition)
}

func TestDropletFallsUnderGravity(t *testing.T) {
	d := Droplet{Position: units.NewVec3(0, 0, 100), Mass: 0.01, Kind: Water}
	for i := 0; i < 10; i++ {
		d.UpdatePhysics(units.NewVec3(0, 0, 0), 0.1)
	}
	assert.Less(t, d.Velocity.Z, units.Length(0))
	assert.Less(t, float64(d.Position.Z), 100.0)
}

func TestDropletEvaporatesMassOverTime(t *testing.T) {
	d := Droplet{Position: units.NewVec3(0, 0, 100), Mass: 1.0, Kind: Foam}
	initial := d.Mass
	for i := 0; i < 100; i++ {
		d.UpdatePhysics(units.NewVec3(0, 0, 0), 1.0)
	}
	assert.Less(t, d.Mass, initial)
}

func TestDropletHasLandedAtGround(t *testing.T) {
	d := Droplet{Position: units.NewVec3(0, 0, 0)}
	assert.True(t, d.HasLanded())
	d.Position.Z = 5
	assert.False(t, d.HasLanded())
}

func TestCoverageContributionScalesWithMass(t *testing.T) {
	d := Droplet{Mass: 0.5, Kind: Water}
	c := d.CoverageContribution(1.0)
	assert.InDelta(t, 0.5, float64(c), 1e-9)
}

func TestCoverageContributionClampedToOne(t *testing.T) {
	d := Droplet{Mass: 5.0, Kind: Water}
	c := d.CoverageContribution(1.0)
	assert.Equal(t, units.Fraction(1.0), c)
}

func TestCoverageDecayReducesFraction(t *testing.T) {
	c := Coverage{Kind: Water, Fraction: 1.0}
	c.Decay(10.0, 0)
	assert.Less(t, float64(c.Fraction), 1.0)
}

func TestCoverageDecayFasterWithHeatExposure(t *testing.T) {
	a := Coverage{Kind: Water, Fraction: 1.0}
	b := Coverage{Kind: Water, Fraction: 1.0}
	a.Decay(1.0, 0)
	b.Decay(1.0, 1000)
	assert.Less(t, float64(b.Fraction), float64(a.Fraction))
}

func TestCoverageCombustionMultiplierReducesWithCoverage(t *testing.T) {
	none := Coverage{Kind: Retardant, Fraction: 0}
	full := Coverage{Kind: Retardant, Fraction: 1}
	assert.Equal(t, 1.0, none.CombustionMultiplier())
	assert.Less(t, full.CombustionMultiplier(), 1.0)
}

func TestCoverageApplySameKindAccumulates(t *testing.T) {
	c := Coverage{Kind: Water, Fraction: 0.3}
	c.Apply(Water, 0.3)
	assert.InDelta(t, 0.6, float64(c.Fraction), 1e-9)
}

func TestCoverageApplyDifferentKindOverwrites(t *testing.T) {
	c := Coverage{Kind: Water, Fraction: 0.9}
	c.Apply(Retardant, 0.4)
	assert.Equal(t, Retardant, c.Kind)
	assert.InDelta(t, 0.4, float64(c.Fraction), 1e-9)
}

func TestSetStepDropletsSeparatesLandedFromAirborne(t *testing.T) {
	s := NewSet()
	s.AddDroplets(Droplet{Position: units.NewVec3(0, 0, 0.05), Mass: 0.01, Kind: Water})
	s.AddDroplets(Droplet{Position: units.NewVec3(0, 0, 1000), Mass: 0.01, Kind: Water})

	landed := s.StepDroplets(units.NewVec3(0, 0, 0), 0.1)
	assert.Len(t, landed, 1)
	assert.Equal(t, 1, s.DropletCount())
}

func TestSetDepositAndDecayLifecycle(t *testing.T) {
	s := NewSet()
	d := Droplet{Mass: 0.5, Kind: Foam}
	s.Deposit(42, d, 1.0)

	c, ok := s.CoverageFor(42)
	assert.True(t, ok)
	assert.Greater(t, float64(c.Fraction), 0.0)

	for i := 0; i < 1000; i++ {
		s.DecayAll(1.0, nil)
	}
	_, ok = s.CoverageFor(42)
	assert.False(t, ok)
}
