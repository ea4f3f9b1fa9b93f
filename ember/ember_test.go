package ember

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineubob/wildfiresim/units"
)

// sequenceDraws replays a fixed sequence of uniform(0,1) samples, the way a
// test double for the centralized RNG stream would.
type sequenceDraws struct {
	values []float64
	i      int
}

func (s *sequenceDraws) Next() float64 {
	v := s.values[s.i%len(s.values)]
	s.i++
	return v
}

func TestEmberPhysicsCoolsOverTime(t *testing.T) {
	e := &Ember{
		Position:    units.NewVec3(0, 0, 10),
		Velocity:    units.NewVec3(0, 0, 5),
		Temperature: 800,
		Mass:        0.001,
	}
	wind := units.NewVec3(10, 0, 0)
	initial := e.Temperature
	for i := 0; i < 100; i++ {
		e.UpdatePhysics(wind, 20, 0.1)
	}
	assert.Less(t, float64(e.Temperature), float64(initial))
	assert.True(t, e.Position.X != 0 || e.Position.Z != 10)
}

func TestEmberBuoyancyResistsFreefall(t *testing.T) {
	e := &Ember{
		Position:    units.NewVec3(0, 0, 2),
		Velocity:    units.NewVec3(0, 0, 0),
		Temperature: 600,
		Mass:        0.001,
	}
	for i := 0; i < 5; i++ {
		e.UpdatePhysics(units.Vec3{}, 20, 0.1)
	}
	assert.Greater(t, e.Velocity.Z, units.Length(-5))
}

func TestEmberLifecycleFlags(t *testing.T) {
	active := &Ember{Temperature: 300, Position: units.NewVec3(0, 0, 5)}
	assert.True(t, active.IsActive())
	assert.False(t, active.HasLanded())

	landed := &Ember{Temperature: 260, Position: units.NewVec3(0, 0, 0.5)}
	assert.True(t, landed.HasLanded())
	assert.True(t, landed.CanIgnite())

	cooled := &Ember{Temperature: 150, Position: units.NewVec3(0, 0, 0.5)}
	assert.False(t, cooled.IsActive())
	assert.False(t, cooled.CanIgnite())
}

func TestIgnitionProbabilityScalesWithTempAndMass(t *testing.T) {
	hot := &Ember{Temperature: 300, Mass: 0.001}
	cool := &Ember{Temperature: 150, Mass: 0.001}
	assert.Greater(t, IgnitionProbability(hot, 0.8), IgnitionProbability(cool, 0.8))
}

func TestSpawnProducesBoundedUpwardEmbers(t *testing.T) {
	draws := &sequenceDraws{values: []float64{0.5, 0.5, 0.5, 0.5, 0.5, 0.5}}
	nextID := ID(0)
	alloc := func() ID {
		nextID++
		return nextID
	}

	embers := Spawn(units.NewVec3(0, 0, 0), 1000, 5.0, 0.5, 1, draws, alloc)
	require.NotEmpty(t, embers)
	assert.LessOrEqual(t, len(embers), maxEmbersPerSpawn)
	for _, e := range embers {
		assert.Greater(t, float64(e.Velocity.Z), 0.0)
		assert.Greater(t, float64(e.Temperature), 0.0)
		assert.GreaterOrEqual(t, float64(e.Mass), 1e-4)
		assert.LessOrEqual(t, float64(e.Mass), 1e-2)
	}
}

func TestSpawnCapsAtFifty(t *testing.T) {
	draws := &sequenceDraws{values: []float64{0.5}}
	nextID := ID(0)
	alloc := func() ID {
		nextID++
		return nextID
	}
	embers := Spawn(units.NewVec3(0, 0, 0), 1000, 100.0, 1.0, 1, draws, alloc)
	assert.Len(t, embers, maxEmbersPerSpawn)
}

func TestSpawnZeroWhenProductionNegligible(t *testing.T) {
	draws := &sequenceDraws{values: []float64{0.5}}
	nextID := ID(0)
	alloc := func() ID {
		nextID++
		return nextID
	}
	embers := Spawn(units.NewVec3(0, 0, 0), 1000, 0.0001, 0.001, 1, draws, alloc)
	assert.Empty(t, embers)
}
