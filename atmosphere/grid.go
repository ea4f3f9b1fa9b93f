// Package atmosphere implements the 3D Eulerian atmospheric grid: dense
// cells carrying temperature, wind, gas mass fractions, and a terrain
// elevation cache; wind refresh and plume-rise kernels couple it to the
// terrain and to burning elements. Grounded on
// crates/core/src/core_types/atmospheric.rs (wind-field update, plume rise)
// and restyled after Gekko3D-gekko's chunked-parallel CA stepper
// (ca_ecs.go stepSmoke) and SpatialHashGrid dense-array conventions.
package atmosphere

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/mineubob/wildfiresim/terrain"
	"github.com/mineubob/wildfiresim/units"
)

// Cell is one 3D atmospheric grid cell.
type Cell struct {
	Temperature units.Kelvin
	Wind units.Vec3

	Oxygen units.Fraction
	CarbonDioxide units.Fraction
	CarbonMonoxide units.Fraction
	WaterVapor units.Fraction
	Smoke units.Fraction

	Elevation units.Length // baked from terrain at grid construction
}

const ambientOxygen = 0.21

func defaultCell(elevation units.Length, ambient units.Kelvin) Cell {
	return Cell{
		Temperature: ambient,
		Oxygen: ambientOxygen,
		Elevation: elevation,
	}
}

// Grid is the dense (nx,ny,nz) array of atmospheric cells.
type Grid struct {
	NX, NY, NZ int
	CellSize units.Length

	cells []Cell

	ambientTemperature units.Kelvin
	lastBaseWind units.Vec3

	visualExportEnabled bool
}

// NewGrid constructs a grid of the given cell counts and uniform cell size,
// baking in per-column terrain elevation.
func NewGrid(nx, ny, nz int, cellSize units.Length, terr *terrain.Terrain, ambient units.Kelvin) *Grid {
	g := &Grid{
		NX: nx, NY: ny, NZ: nz,
		CellSize: cellSize,
		ambientTemperature: ambient,
		cells: make([]Cell, nx*ny*nz),
	}
	for iz := 0; iz < nz; iz++ {
		for iy := 0; iy < ny; iy++ {
			for ix := 0; ix < nx; ix++ {
				var elev units.Length
				if terr != nil {
					elev = units.Length(terr.ElevationAt(float64(ix)*float64(cellSize), float64(iy)*float64(cellSize)))
				}
				g.cells[g.index(ix, iy, iz)] = defaultCell(elev, ambient)
			}
		}
	}
	return g
}

func (g *Grid) index(ix, iy, iz int) int {
	return ix + iy*g.NX + iz*g.NX*g.NY
}

func (g *Grid) inBounds(ix, iy, iz int) bool {
	return ix >= 0 && ix < g.NX && iy >= 0 && iy < g.NY && iz >= 0 && iz < g.NZ
}

// CellAt returns a pointer to the cell containing world position p, or nil
// if p falls outside the grid.
func (g *Grid) CellAt(p units.Vec3) *Cell {
	ix := int(float64(p.X) / float64(g.CellSize))
	iy := int(float64(p.Y) / float64(g.CellSize))
	iz := int(float64(p.Z) / float64(g.CellSize))
	if !g.inBounds(ix, iy, iz) {
		return nil
	}
	return &g.cells[g.index(ix, iy, iz)]
}

// CellAtIndices returns a pointer to the cell at grid indices, or nil when
// out of bounds.
func (g *Grid) CellAtIndices(ix, iy, iz int) *Cell {
	if !g.inBounds(ix, iy, iz) {
		return nil
	}
	return &g.cells[g.index(ix, iy, iz)]
}

// windDeltaThreshold gates RefreshWindField: the wind field is recomputed
// only once the base-wind magnitude delta exceeds this many m/s.
const windDeltaThreshold = 0.1

// RefreshWindField recomputes per-cell wind from baseWind, terrain slope,
// and aspect, parallelized with one errgroup goroutine per z layer, the way
// crates/core/src/core_types/atmospheric.rs partitions with
// `par_chunks_mut`. No-op when the wind has not moved enough to matter.
func (g *Grid) RefreshWindField(baseWind units.Vec3, terr *terrain.Terrain) {
	delta := baseWind.Sub(g.lastBaseWind).Norm()
	if delta < windDeltaThreshold {
		return
	}
	g.lastBaseWind = baseWind

	var eg errgroup.Group
	for iz := 0; iz < g.NZ; iz++ {
		iz := iz
		eg.Go(func() error {
			for iy := 0; iy < g.NY; iy++ {
				for ix := 0; ix < g.NX; ix++ {
					cell := &g.cells[g.index(ix, iy, iz)]
					g.updateCellWind(cell, ix, iy, iz, baseWind, terr)
				}
			}
			return nil
		})
	}
	_ = eg.Wait() // pure computation; stage body never returns an error
}

func (g *Grid) updateCellWind(cell *Cell, ix, iy, iz int, baseWind units.Vec3, terr *terrain.Terrain) {
	heightAboveTerrain := units.Length(iz)*g.CellSize - cell.Elevation
	var heightFactor float64
	if heightAboveTerrain > 0 {
		heightFactor = 1.0 + math.Min(float64(heightAboveTerrain)/10.0, 0.5)
	} else {
		heightFactor = 0.5
	}

	channelingFactor := 1.0
	if terr != nil {
		slope := terr.SlopeAt(ix, iy)
		if slope > 15 {
			windX, windY := baseWind.XY()
			windLen := math.Hypot(windX, windY)
			var alignment float64
			if windLen > 1e-9 {
				ax, ay := terr.AspectUnit(ix, iy)
				alignment = (windX*ax + windY*ay) / windLen
			}
			channelingFactor = 1.0 + math.Abs(alignment)*0.3
		}
	}

	cell.Wind = baseWind.Scale(heightFactor * channelingFactor)
}

// plumeTempThreshold is the trigger for buoyant plume rise.
const plumeTempThreshold = 50.0 // K above ambient
const maxPlumeRiseCells = 5

// SimulatePlumeRise transports heat and smoke upward from each source
// position whose cell exceeds ambient by plumeTempThreshold kelvin, rising
// at most maxPlumeRiseCells cells before dissipating.
func (g *Grid) SimulatePlumeRise(sources []units.Vec3, dt float64) {
	const g0 = 9.81
	for _, pos := range sources {
		source := g.CellAt(pos)
		if source == nil {
			continue
		}
		tempExcess := float64(source.Temperature) - float64(g.ambientTemperature)
		if tempExcess <= plumeTempThreshold {
			continue
		}
		buoyancyVel := math.Sqrt(2 * g0 * tempExcess / float64(g.ambientTemperature))
		riseDistance := buoyancyVel * dt
		cellsToRise := int(math.Floor(riseDistance / float64(g.CellSize)))
		if cellsToRise > maxPlumeRiseCells {
			cellsToRise = maxPlumeRiseCells
		}

		cx := int(float64(pos.X) / float64(g.CellSize))
		cy := int(float64(pos.Y) / float64(g.CellSize))
		cz := int(float64(pos.Z) / float64(g.CellSize))
		sourceSmoke := source.Smoke

		for dz := 1; dz <= cellsToRise; dz++ {
			targetZ := cz + dz
			if targetZ < 0 || targetZ >= g.NZ {
				continue
			}
			spreadRadius := dz / 2
			dilution := 1.0 / float64(dz*dz)
			for dy := -spreadRadius; dy <= spreadRadius; dy++ {
				for dx := -spreadRadius; dx <= spreadRadius; dx++ {
					tx, ty := cx+dx, cy+dy
					if tx < 0 || tx >= g.NX || ty < 0 || ty >= g.NY {
						continue
					}
					target := &g.cells[g.index(tx, ty, targetZ)]
					target.Temperature += units.Kelvin(tempExcess * 0.1 * dilution)
					target.Smoke += units.Fraction(float64(sourceSmoke) * 0.1 * dilution)
				}
			}
		}
	}
}

// o2RatioFloor is the stoichiometric-ratio floor below which
// OxygenLimitedMultiplier returns 0; above it the multiplier ramps linearly
// to 1 at a ratio of 1.0.
const o2RatioFloor = 0.15

// OxygenLimitedMultiplier returns the [0,1] scalar multiplier kernel C7
// applies to a burn rate given the cell the burning element occupies.
func (c *Cell) OxygenLimitedMultiplier(baseBurnRate, o2PerKgFuel, cellVolume float64) float64 {
	o2Required := baseBurnRate * o2PerKgFuel
	if o2Required <= 0 {
		return 1.0
	}
	o2Available := float64(c.Oxygen) * cellVolume
	ratio := o2Available / o2Required
	switch {
	case ratio >= 1.0:
		return 1.0
	case ratio <= o2RatioFloor:
		return 0.0
	default:
		return (ratio - o2RatioFloor) / (1.0 - o2RatioFloor)
	}
}

// AmbientTemperature returns the grid's configured ambient temperature.
func (g *Grid) AmbientTemperature() units.Kelvin { return g.ambientTemperature }

// EnableVisualExport flips the feature flag gating the fuel-type-grid-to-GPU
// upload contract used by a renderer; the upload itself is out of scope
// here and left to the caller.
func (g *Grid) EnableVisualExport(enabled bool) { g.visualExportEnabled = enabled }

// VisualExportSnapshot copies temperature into dst when visual export is
// enabled, returning false (and leaving dst untouched) otherwise.
func (g *Grid) VisualExportSnapshot(dst []float32) bool {
	if !g.visualExportEnabled || len(dst) < len(g.cells) {
		return false
	}
	for i, c := range g.cells {
		dst[i] = float32(c.Temperature)
	}
	return true
}
