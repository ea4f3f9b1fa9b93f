package spatial

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mineubob/wildfiresim/units"
)

func TestInsertThenQueryFindsElement(t *testing.T) {
	idx := New(10, units.Vec3{})
	idx.Insert(1, units.NewVec3(5, 5, 5))

	results := idx.QueryRadius(units.NewVec3(5, 5, 5), 1)
	assert.Contains(t, results, ElementID(1))
}

func TestQueryRadiusIsSupersetAcrossCells(t *testing.T) {
	idx := New(10, units.Vec3{})
	idx.Insert(1, units.NewVec3(0, 0, 0))
	idx.Insert(2, units.NewVec3(15, 0, 0))

	results := idx.QueryRadius(units.NewVec3(0, 0, 0), 20)
	assert.Contains(t, results, ElementID(1))
	assert.Contains(t, results, ElementID(2))
}

func TestRemovePrunesEmptyCell(t *testing.T) {
	idx := New(10, units.Vec3{})
	pos := units.NewVec3(1, 1, 1)
	idx.Insert(1, pos)
	assert.Equal(t, 1, idx.CellCount())

	idx.Remove(1, pos)
	assert.Equal(t, 0, idx.CellCount())
	assert.Equal(t, 0, idx.ElementCount())
}

func TestRemoveUnknownIDIsNoop(t *testing.T) {
	idx := New(10, units.Vec3{})
	assert.NotPanics(t, func() { idx.Remove(99, units.NewVec3(0, 0, 0)) })
}

func TestElementCountAcrossMultipleCells(t *testing.T) {
	idx := New(5, units.Vec3{})
	idx.Insert(1, units.NewVec3(0, 0, 0))
	idx.Insert(2, units.NewVec3(0, 0, 0))
	idx.Insert(3, units.NewVec3(100, 100, 100))

	assert.Equal(t, 3, idx.ElementCount())
	assert.Equal(t, 2, idx.CellCount())
}

func TestRebuildReplacesContents(t *testing.T) {
	idx := New(5, units.Vec3{})
	idx.Insert(1, units.NewVec3(0, 0, 0))

	positions := map[ElementID]units.Vec3{
		2: units.NewVec3(50, 50, 50),
		3: units.NewVec3(60, 60, 60),
	}
	idx.Rebuild([]ElementID{2, 3}, func(id ElementID) units.Vec3 { return positions[id] })

	assert.Equal(t, 2, idx.ElementCount())
	results := idx.QueryRadius(units.NewVec3(50, 50, 50), 1)
	assert.Contains(t, results, ElementID(2))
	assert.NotContains(t, results, ElementID(1))
}

func TestNewRejectsNonPositiveCellSize(t *testing.T) {
	idx := New(0, units.Vec3{})
	idx.Insert(1, units.NewVec3(0, 0, 0))
	assert.Equal(t, 1, idx.ElementCount())
}
