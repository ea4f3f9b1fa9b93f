// Command cshared builds the actual c-shared artifact: `go build
// -buildmode=c-shared` only works from package main, so the cgo //export
// wrappers live here, thin and panic-free, delegating everything to the
// pure-Go ffi package (which is what the tests in ffi/ actually exercise).
// Grounded on the Rust crate's crates/ffi/src/lib.rs —
// #[no_mangle] pub extern "C" fn ... — translated to cgo's //export
// convention one function at a time.
package main

/*
#include <stdint.h>
#include <stddef.h>

typedef struct wfsim_stats {
	uint64_t tick;
	double   sim_time;
	int32_t  burning_elements;
	int32_t  total_elements;
	int32_t  airborne_embers;
	int32_t  active_droplets;
	int32_t  coverage_count;
	double   total_burned_mass_kg;
	double   ffdi;
	int32_t  haines_index;
	double   pyrocb_potential;
	int32_t  fire_whirl_active;
} wfsim_stats;

typedef struct wfsim_vec3 {
	double x, y, z;
} wfsim_vec3;
*/
import "C"

import (
	"unsafe"

	"github.com/mineubob/wildfiresim/action"
	"github.com/mineubob/wildfiresim/ffi"
	"github.com/mineubob/wildfiresim/fieldsolver"
	"github.com/mineubob/wildfiresim/internal/applog"
	"github.com/mineubob/wildfiresim/suppression"
	"github.com/mineubob/wildfiresim/units"
	"github.com/mineubob/wildfiresim/weather"
)

// terrainKind wire values, mirroring ffi.TerrainKind; kept separate so the
// C header's integer contract doesn't silently drift if the Go iota order
// ever changes.
const (
	cTerrainFlat              = 0
	cTerrainSingleHill        = 1
	cTerrainValleyBetweenHills = 2
	cTerrainFromHeightmap     = 3
)

//export wfsim_create
func wfsim_create(
	terrainKind C.int32_t,
	width, height, resolution, baseElevation, hillHeight, hillRadius C.double,
	heightmap *C.float, heightmapNX, heightmapNY C.int32_t, elevationScale C.double,
	qualityPreset C.int32_t,
	temperatureC, humidityPct, windSpeedKmh, windDirectionDeg, droughtFactor C.double,
	preferGPU C.int32_t,
	seed C.int64_t,
	outHandle *C.uint64_t,
) C.int32_t {
	if outHandle == nil {
		return C.int32_t(ffi.NullPointer)
	}

	desc := ffi.TerrainDescriptor{
		Kind:           ffi.TerrainKind(terrainKind),
		Width:          float64(width),
		Height:         float64(height),
		Resolution:     float64(resolution),
		BaseElevation:  float64(baseElevation),
		HillHeight:     float64(hillHeight),
		HillRadius:     float64(hillRadius),
		HeightmapNX:    int(heightmapNX),
		HeightmapNY:    int(heightmapNY),
		ElevationScale: float64(elevationScale),
	}
	if heightmap != nil && heightmapNX > 0 && heightmapNY > 0 {
		n := int(heightmapNX) * int(heightmapNY)
		src := unsafe.Slice((*float32)(unsafe.Pointer(heightmap)), n)
		desc.Heightmap = append([]float32(nil), src...)
	}

	forcing := weather.Forcing{
		Temperature:   units.Celsius(temperatureC),
		HumidityPct:   float64(humidityPct),
		WindSpeedKmh:  float64(windSpeedKmh),
		WindDirection: units.Degrees(windDirectionDeg),
		DroughtFactor: float64(droughtFactor),
	}

	h, code := ffi.Create(desc, fieldsolver.Quality(qualityPreset), forcing, int64(seed), preferGPU != 0, applog.NewNopLogger())
	if code != ffi.Ok {
		return C.int32_t(code)
	}
	*outHandle = C.uint64_t(h)
	return C.int32_t(ffi.Ok)
}

//export wfsim_destroy
func wfsim_destroy(handle C.uint64_t) C.int32_t {
	return C.int32_t(ffi.Destroy(ffi.Handle(handle)))
}

//export wfsim_update
func wfsim_update(handle C.uint64_t, dt C.double) C.int32_t {
	return C.int32_t(ffi.Update(ffi.Handle(handle), float64(dt)))
}

//export wfsim_ignite
func wfsim_ignite(handle C.uint64_t, x, y, z, radius C.double) C.int32_t {
	return C.int32_t(ffi.Ignite(ffi.Handle(handle), float64(x), float64(y), float64(z), float64(radius)))
}

//export wfsim_add_suppression
func wfsim_add_suppression(handle C.uint64_t, x, y, z C.double, agentKind C.int32_t, totalMassKg C.double, count C.int32_t) C.int32_t {
	return C.int32_t(ffi.AddSuppression(ffi.Handle(handle), float64(x), float64(y), float64(z), suppression.AgentKind(agentKind), float64(totalMassKg), int(count)))
}

//export wfsim_submit_ignite_action
func wfsim_submit_ignite_action(handle C.uint64_t, playerID C.uint32_t, timestamp C.double, x, y, z, radius C.double) C.int32_t {
	a := action.Action{
		Type:      action.IgniteSpot,
		PlayerID:  uint32(playerID),
		Timestamp: float64(timestamp),
		Position:  units.NewVec3(float64(x), float64(y), float64(z)),
		Param1:    float64(radius),
	}
	return C.int32_t(ffi.SubmitAction(ffi.Handle(handle), a))
}

//export wfsim_submit_suppression_action
func wfsim_submit_suppression_action(handle C.uint64_t, playerID C.uint32_t, timestamp C.double, x, y, z, totalMassKg C.double, agentKind C.uint32_t) C.int32_t {
	a := action.Action{
		Type:      action.ApplySuppression,
		PlayerID:  uint32(playerID),
		Timestamp: float64(timestamp),
		Position:  units.NewVec3(float64(x), float64(y), float64(z)),
		Param1:    float64(totalMassKg),
		Param2:    uint32(agentKind),
	}
	return C.int32_t(ffi.SubmitAction(ffi.Handle(handle), a))
}

//export wfsim_submit_weather_action
func wfsim_submit_weather_action(handle C.uint64_t, playerID C.uint32_t, timestamp, droughtFactor C.double, windDirectionDeg C.uint32_t) C.int32_t {
	a := action.Action{
		Type:      action.ModifyWeather,
		PlayerID:  uint32(playerID),
		Timestamp: float64(timestamp),
		Param1:    float64(droughtFactor),
		Param2:    uint32(windDirectionDeg),
	}
	return C.int32_t(ffi.SubmitAction(ffi.Handle(handle), a))
}

//export wfsim_read_stats
func wfsim_read_stats(handle C.uint64_t, out *C.wfsim_stats) C.int32_t {
	if out == nil {
		return C.int32_t(ffi.NullPointer)
	}
	stats, code := ffi.ReadStats(ffi.Handle(handle))
	if code != ffi.Ok {
		return C.int32_t(code)
	}
	out.tick = C.uint64_t(stats.Tick)
	out.sim_time = C.double(stats.SimTime)
	out.burning_elements = C.int32_t(stats.BurningElements)
	out.total_elements = C.int32_t(stats.TotalElements)
	out.airborne_embers = C.int32_t(stats.AirborneEmbers)
	out.active_droplets = C.int32_t(stats.ActiveDroplets)
	out.coverage_count = C.int32_t(stats.CoverageCount)
	out.total_burned_mass_kg = C.double(stats.TotalBurnedMassKg)
	out.ffdi = C.double(stats.FFDI)
	out.haines_index = C.int32_t(stats.HainesIndex)
	out.pyrocb_potential = C.double(stats.PyroCbPotential)
	if stats.FireWhirlActive {
		out.fire_whirl_active = 1
	}
	return C.int32_t(ffi.Ok)
}

// wfsim_read_fire_front fills outVertices (caller-allocated, capacity
// maxVertices) and sets *outCount to the number written, truncating rather
// than overflowing the caller's buffer when the front has more vertices.
//
//export wfsim_read_fire_front
func wfsim_read_fire_front(handle C.uint64_t, outVertices *C.wfsim_vec3, maxVertices C.int32_t, outCount *C.int32_t) C.int32_t {
	if outVertices == nil || outCount == nil {
		return C.int32_t(ffi.NullPointer)
	}
	front, code := ffi.ReadFireFront(ffi.Handle(handle))
	if code != ffi.Ok {
		return C.int32_t(code)
	}
	n := len(front)
	if n > int(maxVertices) {
		n = int(maxVertices)
	}
	dst := unsafe.Slice(outVertices, int(maxVertices))
	for i := 0; i < n; i++ {
		dst[i] = C.wfsim_vec3{
			x: C.double(front[i].X),
			y: C.double(front[i].Y),
			z: C.double(front[i].Z),
		}
	}
	*outCount = C.int32_t(n)
	return C.int32_t(ffi.Ok)
}

//export wfsim_last_error
func wfsim_last_error() *C.char {
	return C.CString(ffi.LastError())
}

//export wfsim_last_error_code
func wfsim_last_error_code() C.int32_t {
	return C.int32_t(ffi.LastErrorCode())
}

func main() {}
