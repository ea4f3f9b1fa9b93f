package ffi

import (
	"github.com/mineubob/wildfiresim/terrain"
	"github.com/mineubob/wildfiresim/units"
)

// TerrainKind selects which terrain.Terrain constructor a TerrainDescriptor
// dispatches to, mirroring the Rust crate's #[repr(C)] Terrain enum variants
// (crates/ffi/src/terrain.rs) one for one.
type TerrainKind int

const (
	TerrainFlat TerrainKind = iota
	TerrainSingleHill
	TerrainValleyBetweenHills
	TerrainFromHeightmap
)

// TerrainDescriptor is the FFI-facing union of terrain constructor
// parameters; only the fields relevant to Kind are read. Heightmap carries
// row-major nx*ny samples copied from the caller's buffer before this
// struct is handed to Create — by the time build runs there is no raw
// pointer left to validate, only a Go slice.
type TerrainDescriptor struct {
	Kind TerrainKind

	Width, Height  float64
	Resolution     float64
	BaseElevation  float64
	HillHeight     float64
	HillRadius     float64
	Heightmap      []float32
	HeightmapNX    int
	HeightmapNY    int
	ElevationScale float64
}

// build resolves the descriptor into a concrete Terrain, or InvalidTerrainParameters
// when dimensions are non-positive or non-finite or a non-empty heightmap's
// length is not nx*ny. A null/zero-sized
// heightmap degrades deterministically to flat terrain at BaseElevation,
// matching the Rust crate's fire_sim_new fallback for Terrain::FromHeightmap.
func (d TerrainDescriptor) build() (*terrain.Terrain, ErrorCode) {
	if !validateTerrain(d.Width, d.Height) {
		return nil, InvalidTerrainParameters
	}

	switch d.Kind {
	case TerrainFlat:
		return terrain.Flat(units.Length(d.Width), units.Length(d.Height)), Ok

	case TerrainSingleHill:
		if d.Resolution <= 0 || d.HillRadius <= 0 {
			return nil, InvalidTerrainParameters
		}
		return terrain.SingleHill(units.Length(d.Width), units.Length(d.Height), units.Length(d.Resolution), d.BaseElevation, d.HillHeight, units.Length(d.HillRadius)), Ok

	case TerrainValleyBetweenHills:
		if d.Resolution <= 0 {
			return nil, InvalidTerrainParameters
		}
		return terrain.ValleyBetweenHills(units.Length(d.Width), units.Length(d.Height), units.Length(d.Resolution), d.BaseElevation, d.HillHeight), Ok

	case TerrainFromHeightmap:
		if len(d.Heightmap) == 0 || d.HeightmapNX <= 0 || d.HeightmapNY <= 0 {
			return terrain.FromHeightmap(units.Length(d.Width), units.Length(d.Height), nil, 0, 0, d.ElevationScale, d.BaseElevation), Ok
		}
		if len(d.Heightmap) != d.HeightmapNX*d.HeightmapNY {
			return nil, InvalidTerrainParameters
		}
		return terrain.FromHeightmap(units.Length(d.Width), units.Length(d.Height), d.Heightmap, d.HeightmapNX, d.HeightmapNY, d.ElevationScale, d.BaseElevation), Ok

	default:
		return nil, InvalidParameter
	}
}
