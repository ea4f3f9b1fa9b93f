package persistence

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineubob/wildfiresim/action"
	"github.com/mineubob/wildfiresim/units"
)

func TestNewWorldStateFullyRecovered(t *testing.T) {
	w := NewWorldState(10, 10)
	assert.Equal(t, 100, len(w.FuelRemaining))
	assert.Equal(t, float32(1.0), w.FuelRemainingAt(5, 5))
}

func TestApplyDamageClampsAtZero(t *testing.T) {
	w := NewWorldState(10, 10)
	w.ApplyDamage(5, 5, 0.3)
	assert.InDelta(t, 0.7, w.FuelRemainingAt(5, 5), 1e-6)

	w.ApplyDamage(5, 5, 0.5)
	assert.InDelta(t, 0.2, w.FuelRemainingAt(5, 5), 1e-6)

	w.ApplyDamage(5, 5, 1.0)
	assert.Equal(t, float32(0), w.FuelRemainingAt(5, 5))
}

func TestApplyDamageOutOfRangeIsIgnored(t *testing.T) {
	w := NewWorldState(4, 4)
	assert.NotPanics(t, func() { w.ApplyDamage(-1, 0, 0.5) })
	assert.NotPanics(t, func() { w.ApplyDamage(100, 100, 0.5) })
}

func TestUpdateRecoveryOneYear(t *testing.T) {
	w := NewWorldState(4, 4)
	w.ApplyDamage(0, 0, 0.5)
	oneYearLater := w.LastUpdate.Add(365 * 24 * time.Hour)

	w.UpdateRecovery(oneYearLater)
	assert.InDelta(t, 0.6, w.FuelRemainingAt(0, 0), 0.01)
}

func TestUpdateRecoveryNeverOvershootsFull(t *testing.T) {
	w := NewWorldState(4, 4)
	w.ApplyDamage(0, 0, 0.05)
	tenYearsLater := w.LastUpdate.Add(10 * 365 * 24 * time.Hour)

	w.UpdateRecovery(tenYearsLater)
	assert.Equal(t, float32(1.0), w.FuelRemainingAt(0, 0))
}

func TestCalculateBurnedAreaHectares(t *testing.T) {
	w := NewWorldState(100, 100)
	for i := 0; i < 100; i++ {
		w.ApplyDamage(i%100, i/100, 0.5)
	}
	area := w.CalculateBurnedArea(5.0)
	assert.InDelta(t, 0.25, area, 0.01)
}

func TestResetRestoresFullFuel(t *testing.T) {
	w := NewWorldState(4, 4)
	w.ApplyDamage(0, 0, 1.0)
	w.TotalBurnedHectares = 100
	w.Reset(time.Now())
	assert.Equal(t, float32(1.0), w.FuelRemainingAt(0, 0))
	assert.Equal(t, 0.0, w.TotalBurnedHectares)
}

func TestWorldStateSaveLoadRoundTrip(t *testing.T) {
	w := NewWorldState(10, 10)
	w.ApplyDamage(5, 5, 0.3)
	w.TotalBurnedHectares = 10

	path := filepath.Join(t.TempDir(), "nested", "world.yaml")
	require.NoError(t, w.Save(path))

	loaded, err := LoadWorldState(path)
	require.NoError(t, err)
	assert.Equal(t, w.Width, loaded.Width)
	assert.Equal(t, w.Height, loaded.Height)
	assert.InDelta(t, 0.7, loaded.FuelRemainingAt(5, 5), 1e-6)
	assert.Equal(t, 10.0, loaded.TotalBurnedHectares)
}

func TestLoadWorldStateMissingFile(t *testing.T) {
	_, err := LoadWorldState(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestReplayWriterReaderRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, ReplayMetadata{RunID: "test-run", Seed: 42, TickRate: 10, Quality: 1, TerrainDigest: "abc123"})
	require.NoError(t, err)

	require.NoError(t, w.WriteTick(Tick{
		T: 0.1,
		Actions: []action.Action{
			{Type: action.IgniteSpot, PlayerID: 1, Position: units.NewVec3(1, 2, 0), Param1: 10},
		},
	}))
	require.NoError(t, w.WriteTick(Tick{
		T: 0.2,
		Snapshot: &Snapshot{
			Width: 2, Height: 1,
			Phi:         []float32{-1, 1},
			Temperature: []float32{900, 300},
		},
	}))
	require.NoError(t, w.Close())

	r, err := NewReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, int64(42), r.Meta.Seed)

	first, err := r.NextTick()
	require.NoError(t, err)
	assert.InDelta(t, 0.1, first.T, 1e-9)
	require.Len(t, first.Actions, 1)
	assert.Equal(t, action.IgniteSpot, first.Actions[0].Type)

	second, err := r.NextTick()
	require.NoError(t, err)
	require.NotNil(t, second.Snapshot)
	assert.Equal(t, 2, second.Snapshot.Width)

	_, err = r.NextTick()
	assert.ErrorIs(t, err, io.EOF)
}
