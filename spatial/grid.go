// Package spatial implements the Morton-hashed uniform grid: a
// mapping from Morton-encoded cell key to the element ids living there,
// supporting insert/remove/query_radius/rebuild. Restyled from Gekko3D-gekko's
// SpatialHashGrid (mod_spatialgrid.go, a simple multiplicative 3D hash) onto
// the bit-interleaved Morton key of crates/core/src/core_types/spatial.rs.
package spatial

import (
	"math"

	"github.com/mineubob/wildfiresim/units"
)

// ElementID is a stable element identifier, matching element.ID.
type ElementID uint32

const mortonBits = 21 // bits per axis interleaved into the 64-bit key

// maxQueryCapacity bounds the pre-allocated result slice for QueryRadius to
// 2000 entries regardless of how many cells the radius spans.
const maxQueryCapacity = 2000

// Index is the hash-based uniform grid with Morton encoding. The zero
// value is not usable; construct with New.
type Index struct {
	cellSize units.Length
	origin units.Vec3
	cells map[uint64][]ElementID
}

// New builds an Index with the given uniform cell size and domain origin
// (used to shift coordinates into non-negative space before encoding).
func New(cellSize units.Length, origin units.Vec3) *Index {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &Index{
		cellSize: cellSize,
		origin: origin,
		cells: make(map[uint64][]ElementID),
	}
}

func (idx *Index) cellCoord(p units.Vec3) (int32, int32, int32) {
	cs := float64(idx.cellSize)
	ix := int32(math.Floor((float64(p.X) - float64(idx.origin.X)) / cs))
	iy := int32(math.Floor((float64(p.Y) - float64(idx.origin.Y)) / cs))
	iz := int32(math.Floor((float64(p.Z) - float64(idx.origin.Z)) / cs))
	return ix, iy, iz
}

// mortonEncode interleaves the low mortonBits of each (shifted-to-unsigned)
// coordinate into a single 64-bit key, giving spatial locality in the map.
func mortonEncode(x, y, z int32) uint64 {
	ux, uy, uz := uint64(uint32(x)), uint64(uint32(y)), uint64(uint32(z))
	var result uint64
	for i := uint(0); i < mortonBits; i++ {
		result |= ((ux & (1 << i)) << (2 * i)) |
		((uy & (1 << i)) << (2*i + 1)) |
		((uz & (1 << i)) << (2*i + 2))
	}
	return result
}

func (idx *Index) hashPosition(p units.Vec3) uint64 {
	ix, iy, iz := idx.cellCoord(p)
	return mortonEncode(ix, iy, iz)
}

// Insert adds id to the cell containing pos. Out-of-bounds positions simply
// quantize to whatever hash cell they fall in — there is no bounds failure
// mode.
func (idx *Index) Insert(id ElementID, pos units.Vec3) {
	key := idx.hashPosition(pos)
	idx.cells[key] = append(idx.cells[key], id)
}

// Remove deletes id from the cell containing pos, pruning the cell's slice
// entry from the map once it is empty.
func (idx *Index) Remove(id ElementID, pos units.Vec3) {
	key := idx.hashPosition(pos)
	bucket, ok := idx.cells[key]
	if !ok {
		return
	}
	for i, existing := range bucket {
		if existing == id {
			bucket = append(bucket[:i], bucket[i+1:]...)
			break
		}
	}
	if len(bucket) == 0 {
		delete(idx.cells, key)
	} else {
		idx.cells[key] = bucket
	}
}

// QueryRadius returns a superset of the ids within the r-ball around pos; it
// scans ceil(r/cellSize) cells per axis and never filters to exact distance
// — that's the caller's responsibility.
func (idx *Index) QueryRadius(pos units.Vec3, radius units.Length) []ElementID {
	cellsNeeded := int32(math.Ceil(float64(radius) / float64(idx.cellSize)))
	estimated := int((cellsNeeded*2 + 1) * (cellsNeeded*2 + 1) * (cellsNeeded*2 + 1) * 10)
	if estimated > maxQueryCapacity {
		estimated = maxQueryCapacity
	}
	results := make([]ElementID, 0, estimated)

	cs := float64(idx.cellSize)
	for dx := -cellsNeeded; dx <= cellsNeeded; dx++ {
		for dy := -cellsNeeded; dy <= cellsNeeded; dy++ {
			for dz := -cellsNeeded; dz <= cellsNeeded; dz++ {
				offset := units.Vec3{
					X: pos.X + units.Length(float64(dx)*cs),
					Y: pos.Y + units.Length(float64(dy)*cs),
					Z: pos.Z + units.Length(float64(dz)*cs),
				}
				key := idx.hashPosition(offset)
				results = append(results, idx.cells[key]...)
			}
		}
	}
	return results
}

// Rebuild clears the index and reinserts every id in ids, looking up its
// current position through positionFn.
func (idx *Index) Rebuild(ids []ElementID, positionFn func(ElementID) units.Vec3) {
	for k := range idx.cells {
		delete(idx.cells, k)
	}
	for _, id := range ids {
		idx.Insert(id, positionFn(id))
	}
}

// CellCount reports the number of populated cells, useful for diagnostics.
func (idx *Index) CellCount() int { return len(idx.cells) }

// ElementCount reports the total number of (id, cell) memberships.
func (idx *Index) ElementCount() int {
	n := 0
	for _, bucket := range idx.cells {
		n += len(bucket)
	}
	return n
}
