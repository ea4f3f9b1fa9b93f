package ffi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/mineubob/wildfiresim/fieldsolver"
	"github.com/mineubob/wildfiresim/internal/applog"
	"github.com/mineubob/wildfiresim/sim"
	"github.com/mineubob/wildfiresim/weather"
)

// Handle identifies a live simulation across the FFI boundary. It stands in
// for the Rust crate's *mut FireSimState; callers never see the simulation
// value itself, only this opaque integer.
type Handle uint64

// defaultGroundMassKg is the per-element mass used when Create seeds the
// ground fuel layer from the terrain's fuel grid, since the stable ABI's
// create() takes only terrain/quality/weather and has no separate
// add-element call (unlike demo-headless/src/main.rs's manual
// add_fuel_element loop, which this Go binding has no analogue for at the
// FFI boundary).
const defaultGroundMassKg = 2.0

type handleEntry struct {
	mu       sync.RWMutex
	sim      *sim.Simulation
	poisoned bool
}

// withWrite recovers from any panic inside fn, marks the entry permanently
// poisoned, and reports LockPoisoned — the Go analogue of the Rust crate's
// RwLock::read().expect("... poisoned"), translated from "panic the
// caller's thread" to "return a typed error forever after". withRead also
// recovers a panic and reports LockPoisoned for that call, but leaves the
// entry unpoisoned, as a Rust read guard leaves its lock.
func (e *handleEntry) withWrite(fn func(*sim.Simulation)) (code ErrorCode) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.poisoned {
		return LockPoisoned
	}
	defer func() {
		if r := recover(); r != nil {
			e.poisoned = true
			code = setLastError(LockPoisoned, fmt.Sprintf("simulation panicked: %v", r))
		}
	}()
	fn(e.sim)
	return Ok
}

func (e *handleEntry) withRead(fn func(*sim.Simulation)) (code ErrorCode) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.poisoned {
		return LockPoisoned
	}
	defer func() {
		if r := recover(); r != nil {
			code = setLastError(LockPoisoned, fmt.Sprintf("simulation panicked: %v", r))
		}
	}()
	fn(e.sim)
	return Ok
}

var (
	registryMu sync.RWMutex
	registry   = make(map[Handle]*handleEntry)
	nextHandle uint64
)

func lookup(h Handle) (*handleEntry, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	e, ok := registry[h]
	return e, ok
}

// Create builds a terrain from descriptor, seeds its ground fuel layer,
// and registers a new handle for it. Returns (0, code) on failure; 0 is
// never a live handle (nextHandle is incremented before use, so the first
// handle issued is 1, matching the Rust crate's
// null-pointer-means-failure convention without reusing Go's nil).
func Create(descriptor TerrainDescriptor, quality fieldsolver.Quality, forcing weather.Forcing, seed int64, preferGPU bool, logger applog.Logger) (Handle, ErrorCode) {
	terr, code := descriptor.build()
	if code != Ok {
		return 0, setLastError(code, "invalid terrain descriptor")
	}

	s := sim.New(sim.Config{
		Terrain:   terr,
		Quality:   quality,
		Forcing:   forcing,
		Seed:      seed,
		PreferGPU: preferGPU,
		Logger:    logger,
	})
	s.PopulateGround(defaultGroundMassKg)

	id := Handle(atomic.AddUint64(&nextHandle, 1))
	registryMu.Lock()
	registry[id] = &handleEntry{sim: s}
	registryMu.Unlock()

	clearLastError()
	return id, Ok
}

// Destroy releases a handle. Destroying an unknown or already-destroyed
// handle is a no-op that reports NullPointer, mirroring fire_sim_destroy's
// null-pointer-is-a-no-op contract without risking a double-free (Go's GC
// reclaims the Simulation once the map entry is gone either way).
func Destroy(h Handle) ErrorCode {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, ok := registry[h]; !ok {
		return setLastError(NullPointer, "unknown handle")
	}
	delete(registry, h)
	return clearLastError()
}

// validateTerrain reports whether a dimension is usable for TerrainDescriptor.build.
func validateTerrain(width, height float64) bool {
	return width > 0 && height > 0 && !isNonFinite(width) && !isNonFinite(height)
}

func isNonFinite(v float64) bool {
	return v != v || v > 1e18 || v < -1e18
}
