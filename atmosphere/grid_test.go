package atmosphere

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineubob/wildfiresim/terrain"
	"github.com/mineubob/wildfiresim/units"
)

func TestNewGridInitializesAmbientCells(t *testing.T) {
	g := NewGrid(4, 4, 3, 10, nil, units.Celsius(20).ToKelvin())
	c := g.CellAtIndices(0, 0, 0)
	require.NotNil(t, c)
	assert.Equal(t, units.Celsius(20).ToKelvin(), c.Temperature)
	assert.InDelta(t, ambientOxygen, float64(c.Oxygen), 1e-9)
}

func TestNewGridBakesTerrainElevation(t *testing.T) {
	terr := terrain.SingleHill(100, 100, 10, 0, 50, 30)
	g := NewGrid(10, 10, 3, 10, terr, units.Celsius(20).ToKelvin())
	center := g.CellAtIndices(5, 5, 0)
	edge := g.CellAtIndices(0, 0, 0)
	require.NotNil(t, center)
	require.NotNil(t, edge)
	assert.Greater(t, float64(center.Elevation), float64(edge.Elevation))
}

func TestCellAtOutOfBoundsReturnsNil(t *testing.T) {
	g := NewGrid(2, 2, 2, 10, nil, units.Celsius(20).ToKelvin())
	assert.Nil(t, g.CellAt(units.NewVec3(-100, -100, -100)))
	assert.Nil(t, g.CellAtIndices(99, 99, 99))
}

func TestRefreshWindFieldNoopBelowThreshold(t *testing.T) {
	g := NewGrid(3, 3, 3, 10, nil, units.Celsius(20).ToKelvin())
	g.RefreshWindField(units.NewVec3(0.01, 0, 0), nil)
	c := g.CellAtIndices(1, 1, 1)
	assert.Equal(t, units.Vec3{}, c.Wind)
}

func TestRefreshWindFieldAppliesAboveThreshold(t *testing.T) {
	g := NewGrid(3, 3, 3, 10, nil, units.Celsius(20).ToKelvin())
	g.RefreshWindField(units.NewVec3(5, 0, 0), nil)
	c := g.CellAtIndices(1, 1, 1)
	assert.NotEqual(t, units.Vec3{}, c.Wind)
}

func TestSimulatePlumeRiseHeatsCellsAbove(t *testing.T) {
	g := NewGrid(5, 5, 5, 2, nil, units.Celsius(20).ToKelvin())
	source := g.CellAt(units.NewVec3(4, 4, 2))
	require.NotNil(t, source)
	source.Temperature = g.ambientTemperature + 200
	source.Smoke = 0.5

	g.SimulatePlumeRise([]units.Vec3{units.NewVec3(4, 4, 2)}, 1.0)

	above := g.CellAt(units.NewVec3(4, 4, 4))
	require.NotNil(t, above)
	assert.Greater(t, float64(above.Temperature), float64(g.ambientTemperature))
}

func TestSimulatePlumeRiseSkipsBelowThreshold(t *testing.T) {
	g := NewGrid(3, 3, 3, 2, nil, units.Celsius(20).ToKelvin())
	before := *g.CellAt(units.NewVec3(2, 2, 4))
	g.SimulatePlumeRise([]units.Vec3{units.NewVec3(2, 2, 2)}, 1.0)
	after := g.CellAt(units.NewVec3(2, 2, 4))
	assert.Equal(t, before, *after)
}

func TestOxygenLimitedMultiplierRamp(t *testing.T) {
	c := Cell{Oxygen: 0.21}
	assert.Equal(t, 1.0, c.OxygenLimitedMultiplier(0, 1, 1))

	full := c.OxygenLimitedMultiplier(0.001, 1, 1000)
	assert.Equal(t, 1.0, full)

	starved := Cell{Oxygen: 0}
	assert.Equal(t, 0.0, starved.OxygenLimitedMultiplier(1, 1, 1))
}

func TestVisualExportGatedByFlag(t *testing.T) {
	g := NewGrid(2, 2, 1, 10, nil, units.Celsius(20).ToKelvin())
	dst := make([]float32, 4)
	assert.False(t, g.VisualExportSnapshot(dst))

	g.EnableVisualExport(true)
	assert.True(t, g.VisualExportSnapshot(dst))
}

func TestVisualExportSnapshotRejectsUndersizedDst(t *testing.T) {
	g := NewGrid(2, 2, 1, 10, nil, units.Celsius(20).ToKelvin())
	g.EnableVisualExport(true)
	dst := make([]float32, 1)
	assert.False(t, g.VisualExportSnapshot(dst))
}
