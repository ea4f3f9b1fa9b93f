package sim

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineubob/wildfiresim/action"
	"github.com/mineubob/wildfiresim/fieldsolver"
	"github.com/mineubob/wildfiresim/fuel"
	"github.com/mineubob/wildfiresim/suppression"
	"github.com/mineubob/wildfiresim/terrain"
	"github.com/mineubob/wildfiresim/units"
	"github.com/mineubob/wildfiresim/weather"
)

func smallGrassTerrain(t *testing.T) *terrain.Terrain {
	t.Helper()
	terr := terrain.Flat(100, 100)
	nx, ny := terr.Dimensions()
	codes := make([]uint8, nx*ny)
	for i := range codes {
		codes[i] = 3 // dry grass, per DBCAWesternAustralia's table
	}
	table := terrain.FuelCodeTable{3: fuel.DryGrass}
	require.NoError(t, terr.SetFuelCodeGrid(codes, nx, ny, table))
	return terr
}

func newTestSim(t *testing.T) *Simulation {
	t.Helper()
	return New(Config{
		Terrain: smallGrassTerrain(t),
		Quality: fieldsolver.QualityLow,
		Forcing: weather.Default(),
		Seed:    42,
	})
}

func TestEmptyTerrainStepsWithoutBurning(t *testing.T) {
	s := newTestSim(t)
	for i := 0; i < 50; i++ {
		s.Step(1.0)
	}
	stats := s.Stats()
	assert.Equal(t, 0, stats.BurningElements)
	assert.Equal(t, uint64(50), stats.Tick)
}

func TestPopulateGroundCreatesElements(t *testing.T) {
	s := newTestSim(t)
	s.PopulateGround(2.0)
	assert.Greater(t, s.elements.len(), 0)
}

func TestIgniteBurnsElementsOverTime(t *testing.T) {
	s := newTestSim(t)
	s.PopulateGround(2.0)
	s.Ignite(50, 50, 0, 10)

	burning := false
	for i := 0; i < 20; i++ {
		s.Step(1.0)
		if s.Stats().BurningElements > 0 {
			burning = true
		}
	}
	assert.True(t, burning)
}

func TestSubmitActionIgnitesOnDrain(t *testing.T) {
	s := newTestSim(t)
	s.PopulateGround(2.0)
	s.SubmitAction(action.Action{
		Type:      action.IgniteSpot,
		Timestamp: 0,
		Position:  units.NewVec3(50, 50, 0),
		Param1:    10,
	})
	s.Step(1.0)
	assert.Greater(t, s.Stats().BurningElements, 0)
}

func TestModifyWeatherActionUpdatesForcing(t *testing.T) {
	s := newTestSim(t)
	s.SubmitAction(action.Action{Type: action.ModifyWeather, Param1: 9.5, Param2: 180})
	s.Step(1.0)
	assert.Equal(t, 9.5, s.forcing.DroughtFactor)
	assert.Equal(t, units.Degrees(180), s.forcing.WindDirection)
}

func TestAddSuppressionReleasesDroplets(t *testing.T) {
	s := newTestSim(t)
	s.AddSuppression(units.NewVec3(50, 50, 20), suppression.Water, 5.0, 10)
	assert.Equal(t, 10, s.suppression.DropletCount())
}

func TestFireFrontReflectsIgnitedElements(t *testing.T) {
	s := newTestSim(t)
	s.PopulateGround(2.0)
	s.Ignite(50, 50, 0, 10)
	assert.NotEmpty(t, s.FireFront())
}

func TestDeterministicStatsForIdenticalSeeds(t *testing.T) {
	a := newTestSim(t)
	b := newTestSim(t)
	a.PopulateGround(2.0)
	b.PopulateGround(2.0)
	a.Ignite(50, 50, 0, 10)
	b.Ignite(50, 50, 0, 10)

	for i := 0; i < 10; i++ {
		a.Step(0.5)
		b.Step(0.5)
	}

	assert.Equal(t, a.Stats().BurningElements, b.Stats().BurningElements)
	assert.InDelta(t, a.Stats().TotalBurnedMassKg, b.Stats().TotalBurnedMassKg, 1e-9)
}
