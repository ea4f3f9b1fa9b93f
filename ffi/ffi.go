package ffi

import (
	"math"

	"github.com/mineubob/wildfiresim/action"
	"github.com/mineubob/wildfiresim/sim"
	"github.com/mineubob/wildfiresim/suppression"
	"github.com/mineubob/wildfiresim/units"
)

// maxUpdateDt caps a single Update call at 10fps worth of simulated time, so
// a host-side hitch or a slow first frame can't hand the solver a dt large
// enough to blow up the level-set advection.
const maxUpdateDt = 0.1

// Update advances the simulation identified by h by dt seconds. A
// non-finite or non-positive dt is a silent no-op that still reports Ok,
// matching fire_sim_update's "no-op, not an error" contract for bad dt; a
// dt above maxUpdateDt is clamped rather than rejected.
func Update(h Handle, dt float64) ErrorCode {
	e, ok := lookup(h)
	if !ok {
		return setLastError(NullPointer, "unknown handle")
	}
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt <= 0 {
		return clearLastError()
	}
	if dt > maxUpdateDt {
		dt = maxUpdateDt
	}
	code := e.withWrite(func(s *sim.Simulation) { s.Step(dt) })
	if code != Ok {
		return code
	}
	return clearLastError()
}

// Ignite force-ignites every fuel element within radius meters of (x,y,z)
// that can still ignite (see sim.Simulation.Ignite).
func Ignite(h Handle, x, y, z, radius float64) ErrorCode {
	e, ok := lookup(h)
	if !ok {
		return setLastError(NullPointer, "unknown handle")
	}
	if radius <= 0 || math.IsNaN(radius) {
		return setLastError(InvalidParameter, "ignition radius must be positive")
	}
	code := e.withWrite(func(s *sim.Simulation) { s.Ignite(x, y, z, radius) })
	if code != Ok {
		return code
	}
	return clearLastError()
}

// AddSuppression spawns count droplets of kind totaling totalMassKg above
// (x,y,z). count <= 0 is InvalidParameter rather than a silent no-op, since
// unlike dt there is no physically meaningful "do nothing" reading of a
// suppression drop request.
func AddSuppression(h Handle, x, y, z float64, kind suppression.AgentKind, totalMassKg float64, count int) ErrorCode {
	e, ok := lookup(h)
	if !ok {
		return setLastError(NullPointer, "unknown handle")
	}
	if count <= 0 || totalMassKg <= 0 {
		return setLastError(InvalidParameter, "suppression drop requires positive count and mass")
	}
	code := e.withWrite(func(s *sim.Simulation) {
		s.AddSuppression(units.NewVec3(x, y, z), kind, totalMassKg, count)
	})
	if code != Ok {
		return code
	}
	return clearLastError()
}

// SubmitAction enqueues an action for execution on the next Update, draining
// in the timestamp/player_id/submission-order priority action.Queue uses.
func SubmitAction(h Handle, a action.Action) ErrorCode {
	e, ok := lookup(h)
	if !ok {
		return setLastError(NullPointer, "unknown handle")
	}
	switch a.Type {
	case action.ApplySuppression, action.IgniteSpot, action.ModifyWeather:
	default:
		return setLastError(InvalidParameter, "unknown action type")
	}
	code := e.withWrite(func(s *sim.Simulation) { s.SubmitAction(a) })
	if code != Ok {
		return code
	}
	return clearLastError()
}

// ReadStats returns the current snapshot for h.
func ReadStats(h Handle) (sim.Stats, ErrorCode) {
	e, ok := lookup(h)
	if !ok {
		return sim.Stats{}, setLastError(NullPointer, "unknown handle")
	}
	var out sim.Stats
	code := e.withRead(func(s *sim.Simulation) { out = s.Stats() })
	if code != Ok {
		return sim.Stats{}, code
	}
	return out, clearLastError()
}

// ReadFireFront returns the current fire-front vertex approximation for h.
func ReadFireFront(h Handle) ([]units.Vec3, ErrorCode) {
	e, ok := lookup(h)
	if !ok {
		return nil, setLastError(NullPointer, "unknown handle")
	}
	var out []units.Vec3
	code := e.withRead(func(s *sim.Simulation) { out = s.FireFront() })
	if code != Ok {
		return nil, code
	}
	return out, clearLastError()
}
