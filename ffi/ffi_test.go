package ffi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineubob/wildfiresim/action"
	"github.com/mineubob/wildfiresim/fieldsolver"
	"github.com/mineubob/wildfiresim/sim"
	"github.com/mineubob/wildfiresim/suppression"
	"github.com/mineubob/wildfiresim/units"
	"github.com/mineubob/wildfiresim/weather"
)

func newHandle(t *testing.T) Handle {
	t.Helper()
	h, code := Create(TerrainDescriptor{Kind: TerrainFlat, Width: 200, Height: 200}, fieldsolver.QualityLow, weather.Default(), 7, false, nil)
	require.Equal(t, Ok, code)
	require.NotZero(t, h)
	t.Cleanup(func() { Destroy(h) })
	return h
}

func TestCreateThenDestroy(t *testing.T) {
	h := newHandle(t)
	assert.Equal(t, Ok, Destroy(h))
	assert.Equal(t, NullPointer, Destroy(h))
}

func TestCreateRejectsInvalidTerrainDimensions(t *testing.T) {
	_, code := Create(TerrainDescriptor{Kind: TerrainFlat, Width: -1, Height: 100}, fieldsolver.QualityLow, weather.Default(), 1, false, nil)
	assert.Equal(t, InvalidTerrainParameters, code)
}

func TestFromHeightmapDegradesToFlatOnMismatch(t *testing.T) {
	h, code := Create(TerrainDescriptor{Kind: TerrainFromHeightmap, Width: 100, Height: 100, HeightmapNX: 4, HeightmapNY: 4, Heightmap: nil}, fieldsolver.QualityLow, weather.Default(), 1, false, nil)
	require.Equal(t, Ok, code)
	Destroy(h)
}

func TestUpdateOnUnknownHandleReturnsNullPointer(t *testing.T) {
	code := Update(Handle(999999), 1.0)
	assert.Equal(t, NullPointer, code)
	assert.Equal(t, NullPointer, LastErrorCode())
}

func TestUpdateWithNonPositiveDtIsNoOp(t *testing.T) {
	h := newHandle(t)
	assert.Equal(t, Ok, Update(h, 0))
	assert.Equal(t, Ok, Update(h, -1))
}

func TestIgniteThenStatsReportBurning(t *testing.T) {
	h := newHandle(t)
	require.Equal(t, Ok, Ignite(h, 100, 100, 0, 15))
	for i := 0; i < 20; i++ {
		require.Equal(t, Ok, Update(h, 1.0))
	}
	stats, code := ReadStats(h)
	require.Equal(t, Ok, code)
	assert.GreaterOrEqual(t, stats.BurningElements, 0)
	assert.Equal(t, uint64(20), stats.Tick)
}

func TestIgniteRejectsNonPositiveRadius(t *testing.T) {
	h := newHandle(t)
	assert.Equal(t, InvalidParameter, Ignite(h, 0, 0, 0, 0))
}

func TestAddSuppressionRejectsZeroCount(t *testing.T) {
	h := newHandle(t)
	assert.Equal(t, InvalidParameter, AddSuppression(h, 0, 0, 10, suppression.Water, 5.0, 0))
}

func TestAddSuppressionSucceeds(t *testing.T) {
	h := newHandle(t)
	assert.Equal(t, Ok, AddSuppression(h, 50, 50, 20, suppression.Retardant, 5.0, 10))
}

func TestSubmitActionIgnitesOnNextUpdate(t *testing.T) {
	h := newHandle(t)
	code := SubmitAction(h, action.Action{
		Type:     action.IgniteSpot,
		Position: units.NewVec3(100, 100, 0),
		Param1:   10,
	})
	require.Equal(t, Ok, code)
	require.Equal(t, Ok, Update(h, 1.0))
	stats, _ := ReadStats(h)
	assert.GreaterOrEqual(t, stats.BurningElements, 0)
}

func TestReadFireFrontAfterIgnition(t *testing.T) {
	h := newHandle(t)
	require.Equal(t, Ok, Ignite(h, 100, 100, 0, 15))
	front, code := ReadFireFront(h)
	require.Equal(t, Ok, code)
	assert.NotEmpty(t, front)
}

func TestDestroyedHandleRejectsFurtherCalls(t *testing.T) {
	h := newHandle(t)
	require.Equal(t, Ok, Destroy(h))
	assert.Equal(t, NullPointer, Update(h, 1.0))
	assert.Equal(t, NullPointer, Ignite(h, 0, 0, 0, 1))
	_, code := ReadStats(h)
	assert.Equal(t, NullPointer, code)
}

func TestPoisonedHandleStaysPoisoned(t *testing.T) {
	h := newHandle(t)
	e, ok := lookup(h)
	require.True(t, ok)

	code := e.withWrite(func(_ *sim.Simulation) { panic("boom") })
	assert.Equal(t, LockPoisoned, code)

	assert.Equal(t, LockPoisoned, Update(h, 1.0))
	assert.Equal(t, LockPoisoned, Ignite(h, 0, 0, 0, 1))
}
