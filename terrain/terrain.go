// Package terrain models the elevation raster and per-cell fuel-code
// lookup. Grounded on crates/ffi/src/terrain.rs (the four descriptor
// variants) and crates/core/src/grid/fuel_loader.rs (the DBCA Western
// Australian fuel-code table), restyled after Gekko3D-gekko's constructor
// pattern (NewPhysicsWorld, NewSpatialHashGrid) and its small precomputed
// caches (mod_spatialgrid.go's AABB cache).
package terrain

import (
	"fmt"
	"math"

	"github.com/mineubob/wildfiresim/fuel"
	"github.com/mineubob/wildfiresim/units"
)

// Terrain is an elevation raster with a lazily-built slope/aspect cache and
// an optional fuel-code grid.
type Terrain struct {
	Width, Height units.Length // domain extent, meters
	Resolution units.Length // grid cell spacing for the elevation raster
	nx, ny int

	elevations []float64 // row-major, (nx)x(ny)
	baseElev float64

	slopeCache []units.Degrees
	aspectCache []units.Degrees
	cacheBuilt bool

	fuelCodes []uint8 // optional, row-major nx*ny; nil if absent
	fuelNX int
	fuelNY int
	fuelTable FuelCodeTable
}

// FuelCodeTable maps a raster fuel code to a fuel.Archetype constructor. A
// nil entry (or missing index) means "non-fuel."
type FuelCodeTable map[uint8]func() fuel.Archetype

// DBCAWesternAustralia is the default fuel-code table:
// 1=jarrah->stringybark, 2=marri->smooth-bark, 3=grassland, 4=karri->
// stringybark, 5=mallee->shrubland, 6=heath->shrubland,
// 7=wetland->green vegetation, 0/8=non-fuel.
func DBCAWesternAustralia() FuelCodeTable {
	return FuelCodeTable{
		1: fuel.EucalyptusStringybark,
		2: fuel.EucalyptusSmoothBark,
		3: fuel.DryGrass,
		4: fuel.EucalyptusStringybark,
		5: fuel.Shrubland,
		6: fuel.Shrubland,
		7: fuel.GreenVegetation,
	}
}

func idx(x, y, nx int) int { return y*nx + x }

func newGrid(width, height, resolution units.Length, base float64) *Terrain {
	if resolution <= 0 {
		resolution = 10
	}
	nx := int(math.Max(1, math.Ceil(float64(width)/float64(resolution))))
	ny := int(math.Max(1, math.Ceil(float64(height)/float64(resolution))))
	t := &Terrain{
		Width: width, Height: height, Resolution: resolution,
		nx: nx, ny: ny,
		elevations: make([]float64, nx*ny),
		baseElev: base,
	}
	for i := range t.elevations {
		t.elevations[i] = base
	}
	return t
}

// Flat constructs a level terrain of the given width/height at base
// elevation 0.
func Flat(width, height units.Length) *Terrain {
	return newGrid(width, height, 10, 0)
}

// SingleHill constructs a terrain with one radially-symmetric hill.
func SingleHill(width, height, resolution units.Length, baseElevation, hillHeight float64, hillRadius units.Length) *Terrain {
	t := newGrid(width, height, resolution, baseElevation)
	cx, cy := float64(width)/2, float64(height)/2
	for y := 0; y < t.ny; y++ {
		for x := 0; x < t.nx; x++ {
			wx := float64(x) * float64(resolution)
			wy := float64(y) * float64(resolution)
			d := math.Hypot(wx-cx, wy-cy)
			r := float64(hillRadius)
			bump := 0.0
			if r > 0 && d < r {
				bump = hillHeight * (1 - d/r) * (1 - d/r)
			}
			t.elevations[idx(x, y, t.nx)] = baseElevation + bump
		}
	}
	return t
}

// ValleyBetweenHills constructs two hills with a valley floor between them
// along the x axis.
func ValleyBetweenHills(width, height, resolution units.Length, baseElevation, hillHeight float64) *Terrain {
	t := newGrid(width, height, resolution, baseElevation)
	cy := float64(height) / 2
	hill1X := float64(width) * 0.25
	hill2X := float64(width) * 0.75
	r := float64(width) * 0.3
	for y := 0; y < t.ny; y++ {
		for x := 0; x < t.nx; x++ {
			wx := float64(x) * float64(resolution)
			wy := float64(y) * float64(resolution)
			d1 := math.Hypot(wx-hill1X, wy-cy)
			d2 := math.Hypot(wx-hill2X, wy-cy)
			bump1, bump2 := 0.0, 0.0
			if d1 < r {
				bump1 = hillHeight * (1 - d1/r) * (1 - d1/r)
			}
			if d2 < r {
				bump2 = hillHeight * (1 - d2/r) * (1 - d2/r)
			}
			h := bump1
			if bump2 > h {
				h = bump2
			}
			t.elevations[idx(x, y, t.nx)] = baseElevation + h
		}
	}
	return t
}

// FromHeightmap builds a terrain from an nx*ny row-major elevation raster
// scaled by elevationScale and offset by baseElevation. A nil or
// zero-sized heightmap deterministically degrades to Flat at
// baseElevation.
func FromHeightmap(width, height units.Length, heightmap []float32, nx, ny int, elevationScale, baseElevation float64) *Terrain {
	if len(heightmap) == 0 || nx <= 0 || ny <= 0 {
		t := newGrid(width, height, 10, baseElevation)
		return t
	}
	resolution := units.Length(math.Max(float64(width)/float64(nx), 1e-6))
	t := &Terrain{
		Width: width, Height: height, Resolution: resolution,
		nx: nx, ny: ny,
		elevations: make([]float64, nx*ny),
		baseElev: baseElevation,
	}
	for i := 0; i < nx*ny && i < len(heightmap); i++ {
		t.elevations[i] = baseElevation + float64(heightmap[i])*elevationScale
	}
	return t
}

func (t *Terrain) clampIdx(ix, iy int) (int, int) {
	if ix < 0 {
		ix = 0
	}
	if ix >= t.nx {
		ix = t.nx - 1
	}
	if iy < 0 {
		iy = 0
	}
	if iy >= t.ny {
		iy = t.ny - 1
	}
	return ix, iy
}

// ElevationAt bilinearly-samples elevation at world coordinates (x, y).
func (t *Terrain) ElevationAt(x, y float64) float64 {
	fx := x / float64(t.Resolution)
	fy := y / float64(t.Resolution)
	ix0 := int(math.Floor(fx))
	iy0 := int(math.Floor(fy))
	ix1, iy1 := ix0+1, iy0+1
	tx := fx - float64(ix0)
	ty := fy - float64(iy0)

	cix0, ciy0 := t.clampIdx(ix0, iy0)
	cix1, ciy1 := t.clampIdx(ix1, iy0)
	cix2, ciy2 := t.clampIdx(ix0, iy1)
	cix3, ciy3 := t.clampIdx(ix1, iy1)

	h00 := t.elevations[idx(cix0, ciy0, t.nx)]
	h10 := t.elevations[idx(cix1, ciy1, t.nx)]
	h01 := t.elevations[idx(cix2, ciy2, t.nx)]
	h11 := t.elevations[idx(cix3, ciy3, t.nx)]

	top := h00*(1-tx) + h10*tx
	bottom := h01*(1-tx) + h11*tx
	return top*(1-ty) + bottom*ty
}

// ensureCache lazily computes the slope/aspect cache once; subsequent
// SlopeAt/AspectAt calls read straight from it.
func (t *Terrain) ensureCache() {
	if t.cacheBuilt {
		return
	}
	t.slopeCache = make([]units.Degrees, t.nx*t.ny)
	t.aspectCache = make([]units.Degrees, t.nx*t.ny)
	cs := float64(t.Resolution)
	for y := 0; y < t.ny; y++ {
		for x := 0; x < t.nx; x++ {
			xE, _ := t.clampIdx(x+1, y)
			xW, _ := t.clampIdx(x-1, y)
			_, yN := t.clampIdx(x, y-1)
			_, yS := t.clampIdx(x, y+1)

			hE := t.elevations[idx(xE, y, t.nx)]
			hW := t.elevations[idx(xW, y, t.nx)]
			hN := t.elevations[idx(x, yN, t.nx)]
			hS := t.elevations[idx(x, yS, t.nx)]

			dzdx := (hE - hW) / (2 * cs)
			dzdy := (hS - hN) / (2 * cs)

			slopeRad := math.Atan(math.Hypot(dzdx, dzdy))
			slopeDeg := slopeRad * 180 / math.Pi

			aspectRad := math.Atan2(dzdx, -dzdy)
			aspectDeg := aspectRad*180/math.Pi + 180 // 0=N, clockwise
			if aspectDeg >= 360 {
				aspectDeg -= 360
			}

			i := idx(x, y, t.nx)
			t.slopeCache[i] = units.Degrees(slopeDeg)
			t.aspectCache[i] = units.Degrees(aspectDeg)
		}
	}
	t.cacheBuilt = true
}

// SlopeAt returns the cached slope magnitude at grid indices (ix, iy).
func (t *Terrain) SlopeAt(ix, iy int) units.Degrees {
	t.ensureCache()
	ix, iy = t.clampIdx(ix, iy)
	return t.slopeCache[idx(ix, iy, t.nx)]
}

// AspectAt returns the cached aspect in degrees (0=N, clockwise) at grid
// indices (ix, iy).
func (t *Terrain) AspectAt(ix, iy int) units.Degrees {
	t.ensureCache()
	ix, iy = t.clampIdx(ix, iy)
	return t.aspectCache[idx(ix, iy, t.nx)]
}

// AspectUnit returns the horizontal unit vector pointing in the aspect
// direction at (ix, iy), used by kernels.ChannelingFactor.
func (t *Terrain) AspectUnit(ix, iy int) (float64, float64) {
	a := float64(t.AspectAt(ix, iy))
	rad := a * math.Pi / 180
	return math.Sin(rad), -math.Cos(rad)
}

// SetFuelCodeGrid attaches a per-cell fuel-code raster and the table used
// to resolve codes to archetypes. Returns an error if the grid dimensions
// don't match width*height.
func (t *Terrain) SetFuelCodeGrid(codes []uint8, width, height int, table FuelCodeTable) error {
	if len(codes) != width*height {
		return fmt.Errorf("terrain: fuel grid size mismatch: expected %dx%d=%d, got %d", width, height, width*height, len(codes))
	}
	t.fuelCodes = codes
	t.fuelNX, t.fuelNY = width, height
	if table == nil {
		table = DBCAWesternAustralia()
	}
	t.fuelTable = table
	return nil
}

// FuelAt resolves the fuel archetype at grid indices (ix, iy), returning
// (archetype, true) when the cell carries a burnable fuel code, or
// (zero, false) for non-fuel/absent grid.
func (t *Terrain) FuelAt(ix, iy int) (fuel.Archetype, bool) {
	if t.fuelCodes == nil {
		return fuel.Archetype{}, false
	}
	ix, iy = clampTo(ix, t.fuelNX), clampTo(iy, t.fuelNY)
	code := t.fuelCodes[idx(ix, iy, t.fuelNX)]
	ctor, ok := t.fuelTable[code]
	if !ok || ctor == nil {
		return fuel.Archetype{}, false
	}
	return ctor(), true
}

func clampTo(v, n int) int {
	if v < 0 {
		return 0
	}
	if v >= n {
		return n - 1
	}
	return v
}

// Dimensions returns the elevation raster's grid resolution (nx, ny).
func (t *Terrain) Dimensions() (int, int) { return t.nx, t.ny }
