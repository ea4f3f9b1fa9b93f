// Package cpu implements the field solver's on-host data-parallel backend
// , the default and always-available fallback when no GPU adapter is
// usable. Grounded on crates/core/src/physics/combustion_physics.rs for the
// per-cell equations and restyled after Gekko3D-gekko's chunked-parallel CA
// stepper (ca_ecs.go's par_chunks-style partitioning) using
// golang.org/x/sync/errgroup instead of Gekko3D-gekko's raw goroutine
// partitioning.
package cpu

import (
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/mineubob/wildfiresim/kernels"
	"github.com/mineubob/wildfiresim/units"
)

// cell is one 2D field-solver grid cell.
type cell struct {
	Temperature units.Kelvin
	Moisture units.Fraction
	FuelFrac units.Fraction // remaining fuel, [0,1]
	LevelSet float32 // phi: negative = burning/burnt interior, positive = unburnt
	O2Proxy units.Fraction
}

// Backend is the CPU field-solver implementation.
type Backend struct {
	width, height int
	cellSize units.Length

	cells []cell
	scratch []cell // double-buffer for the stencil passes
	workers int
}

const thermalDiffusivity = 0.15 // m^2/s, effective numerical diffusivity
const radiationConversion = 1e-6 // scales W/m^2 into per-step Kelvin units
const fuelConsumptionRate = 0.05 // 1/s, nominal combustion rate at full temperature
const heatReleasePerFuelUnit = 1200.0 // Kelvin released per unit fuel fraction consumed
const o2DepletionPerFuelUnit = 1.0
const moistureEvaporationRate = 0.02
const moistureRecoveryRate = 0.01
const baseSpreadRate = 0.3 // m/s, nominal unmodified spread speed used by the level-set advection

// New constructs a CPU backend of the given grid dimensions and cell size,
// all cells initialized at ambient with full fuel and an unburnt level set.
func New(width, height int, cellSize units.Length, ambient units.Kelvin) *Backend {
	n := width * height
	b := &Backend{
		width: width, height: height, cellSize: cellSize,
		cells: make([]cell, n),
		scratch: make([]cell, n),
		workers: 8,
	}
	for i := range b.cells {
		b.cells[i] = cell{
			Temperature: ambient,
			Moisture: 0.15,
			FuelFrac: 1.0,
			LevelSet: 1.0,
			O2Proxy: 0.21,
		}
	}
	return b
}

func (b *Backend) idx(x, y int) int { return y*b.width + x }

func (b *Backend) clamp(x, y int) (int, int) {
	if x < 0 {
		x = 0
	}
	if x >= b.width {
		x = b.width - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= b.height {
		y = b.height - 1
	}
	return x, y
}

// forEachRow partitions [0,height) into b.workers chunks and runs fn
// concurrently over disjoint row ranges, the way ca_ecs.go partitions its
// grid across goroutines.
func (b *Backend) forEachRow(fn func(yStart, yEnd int)) {
	rows := b.height
	workers := b.workers
	if workers > rows {
		workers = rows
	}
	if workers < 1 {
		workers = 1
	}
	chunk := (rows + workers - 1) / workers

	var eg errgroup.Group
	for w := 0; w < workers; w++ {
		yStart := w * chunk
		yEnd := yStart + chunk
		if yEnd > rows {
			yEnd = rows
		}
		if yStart >= yEnd {
			continue
		}
		eg.Go(func() error {
			fn(yStart, yEnd)
			return nil
		})
	}
	_ = eg.Wait()
}

// StepHeatTransfer applies radiation, diffusion, and wind advection across
// the grid in a single pass.
func (b *Backend) StepHeatTransfer(dt float64, windX, windY float64, ambient units.Kelvin) {
	cs := float64(b.cellSize)
	copy(b.scratch, b.cells)

	b.forEachRow(func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			for x := 0; x < b.width; x++ {
				c := b.cells[b.idx(x, y)]

				xE, yE := b.clamp(x+1, y)
				xW, yW := b.clamp(x-1, y)
				xN, yN := b.clamp(x, y-1)
				xS, yS := b.clamp(x, y+1)

				lap := float64(b.cells[b.idx(xE, yE)].Temperature) +
				float64(b.cells[b.idx(xW, yW)].Temperature) +
				float64(b.cells[b.idx(xN, yN)].Temperature) +
				float64(b.cells[b.idx(xS, yS)].Temperature) -
				4*float64(c.Temperature)
				diffusion := thermalDiffusivity * lap / (cs * cs)

				radiation := kernels.StefanBoltzmann * 0.9 *
				(math.Pow(float64(c.Temperature), 4) - math.Pow(float64(ambient), 4)) * radiationConversion

				upwindX := b.idx(xW, yW)
				if windX < 0 {
					upwindX = b.idx(xE, yE)
				}
				upwindY := b.idx(xN, yN)
				if windY < 0 {
					upwindY = b.idx(xS, yS)
				}
				advectionX := -windX * (float64(c.Temperature) - float64(b.cells[upwindX].Temperature)) / cs
				advectionY := -windY * (float64(c.Temperature) - float64(b.cells[upwindY].Temperature)) / cs

				newTemp := float64(c.Temperature) + dt*(diffusion-radiation+advectionX+advectionY)
				if newTemp < float64(ambient) {
					newTemp = float64(ambient)
				}
				b.scratch[b.idx(x, y)].Temperature = units.Kelvin(newTemp)
			}
		}
	})

	b.cells, b.scratch = b.scratch, b.cells
}

// StepCombustion consumes fuel and releases heat in burning cells (level
// set <= 0), depleting the oxygen proxy proportionally.
func (b *Backend) StepCombustion(dt float64) {
	b.forEachRow(func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			for x := 0; x < b.width; x++ {
				c := &b.cells[b.idx(x, y)]
				if c.LevelSet > 0 || c.FuelFrac <= 0 {
					continue
				}
				o2Factor := units.Clamp01(float64(c.O2Proxy) / 0.21)
				consumed := fuelConsumptionRate * float64(c.FuelFrac) * o2Factor * dt
				if consumed > float64(c.FuelFrac) {
					consumed = float64(c.FuelFrac)
				}
				c.FuelFrac -= units.Fraction(consumed)
				c.Temperature += units.Kelvin(consumed * heatReleasePerFuelUnit)
				newO2 := float64(c.O2Proxy) - consumed*o2DepletionPerFuelUnit
				c.O2Proxy = units.Fraction(units.Clamp01(newO2))
			}
		}
	})
}

// StepMoisture evaporates moisture under heat and recovers it toward
// ambient humidity.
func (b *Backend) StepMoisture(dt float64, humidity units.Fraction) {
	b.forEachRow(func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			for x := 0; x < b.width; x++ {
				c := &b.cells[b.idx(x, y)]
				heatExcess := math.Max(0, float64(c.Temperature)-373.15)
				evap := moistureEvaporationRate * heatExcess * 0.01 * dt
				recovery := moistureRecoveryRate * (float64(humidity) - float64(c.Moisture)) * dt
				newMoisture := float64(c.Moisture) - evap + recovery
				c.Moisture = units.Fraction(units.Clamp01(newMoisture))
			}
		}
	})
}

// StepLevelSet evolves phi with an upwind scheme for phi_t +
// s*|grad(phi)| = 0, using a per-cell spread rate derived from local fuel
// and wind-modulated intensity.
func (b *Backend) StepLevelSet(dt float64) {
	cs := float64(b.cellSize)
	copy(b.scratch, b.cells)

	b.forEachRow(func(yStart, yEnd int) {
		for y := yStart; y < yEnd; y++ {
			for x := 0; x < b.width; x++ {
				c := b.cells[b.idx(x, y)]

				xE, yE := b.clamp(x+1, y)
				xW, yW := b.clamp(x-1, y)
				xN, yN := b.clamp(x, y-1)
				xS, yS := b.clamp(x, y+1)

				dPlusX := (float64(b.cells[b.idx(xE, yE)].LevelSet) - float64(c.LevelSet)) / cs
				dMinusX := (float64(c.LevelSet) - float64(b.cells[b.idx(xW, yW)].LevelSet)) / cs
				dPlusY := (float64(b.cells[b.idx(xN, yN)].LevelSet) - float64(c.LevelSet)) / cs
				dMinusY := (float64(c.LevelSet) - float64(b.cells[b.idx(xS, yS)].LevelSet)) / cs

				gradMagSq := math.Pow(math.Max(math.Max(dMinusX, 0), math.Min(dPlusX, 0)), 2) +
				math.Pow(math.Max(math.Max(dMinusY, 0), math.Min(dPlusY, 0)), 2)

				spreadRate := baseSpreadRate * float64(c.FuelFrac)
				newPhi := float64(c.LevelSet) - dt*spreadRate*math.Sqrt(gradMagSq)
				b.scratch[b.idx(x, y)].LevelSet = float32(newPhi)
			}
		}
	})

	b.cells, b.scratch = b.scratch, b.cells
}

// StepIgnitionSync pulls cells whose temperature reaches ignitionTemp into
// the burning region of the level set.
func (b *Backend) StepIgnitionSync(ignitionTemp units.Kelvin) {
	for i := range b.cells {
		c := &b.cells[i]
		if c.Temperature >= ignitionTemp && c.LevelSet >= 0 {
			c.LevelSet = -1
		}
	}
}

// IgniteAt sets phi = -radius within a disc centered at (x, y) and raises
// temperature to ignitionTemp+margin.
func (b *Backend) IgniteAt(x, y, radius float64, ignitionTemp units.Kelvin, margin float64) {
	cs := float64(b.cellSize)
	cx, cy := x/cs, y/cs
	cellRadius := radius / cs

	minX := int(math.Floor(cx - cellRadius))
	maxX := int(math.Ceil(cx + cellRadius))
	minY := int(math.Floor(cy - cellRadius))
	maxY := int(math.Ceil(cy + cellRadius))

	for gy := minY; gy <= maxY; gy++ {
		for gx := minX; gx <= maxX; gx++ {
			if gx < 0 || gx >= b.width || gy < 0 || gy >= b.height {
				continue
			}
			d := math.Hypot(float64(gx)-cx, float64(gy)-cy)
			if d > cellRadius {
				continue
			}
			c := &b.cells[b.idx(gx, gy)]
			c.LevelSet = float32(-radius)
			c.Temperature = ignitionTemp + units.Kelvin(margin)
		}
	}
}

// WriteTemperature overwrites the temperature field from an external
// source (the gpu backend's shader readback), leaving every other field
// untouched.
func (b *Backend) WriteTemperature(values []float32) {
	n := len(b.cells)
	if len(values) < n {
		n = len(values)
	}
	for i := 0; i < n; i++ {
		b.cells[i].Temperature = units.Kelvin(values[i])
	}
}

// ReadTemperature returns a fresh copy of the temperature field.
func (b *Backend) ReadTemperature() []float32 {
	out := make([]float32, len(b.cells))
	for i, c := range b.cells {
		out[i] = float32(c.Temperature)
	}
	return out
}

// ReadLevelSet returns a fresh copy of the level-set field.
func (b *Backend) ReadLevelSet() []float32 {
	out := make([]float32, len(b.cells))
	for i, c := range b.cells {
		out[i] = c.LevelSet
	}
	return out
}

// Dimensions reports the grid's width, height, and cell size.
func (b *Backend) Dimensions() (int, int, units.Length) { return b.width, b.height, b.cellSize }

// IsGPUAccelerated always reports false for the CPU backend.
func (b *Backend) IsGPUAccelerated() bool { return false }

// Close is a no-op; the CPU backend owns no external resources.
func (b *Backend) Close() {}
