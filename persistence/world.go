// Package persistence serializes the two on-disk formats the simulation
// crosses process boundaries with: a persistent world file tracking fuel
// damage/recovery across sessions, and an append-only replay log. Grounded
// on crates/core/src/simulation/persistence.rs (PersistentWorldState: load/
// save/apply_damage/update_recovery/calculate_burned_area), restyled with
// gopkg.in/yaml.v3 the way theRebelliousNerd-codenerd's internal/config
// package round-trips its YAML config file (os.ReadFile + yaml.Unmarshal,
// yaml.Marshal + os.WriteFile).
package persistence

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// recoveryRatePerYear is the fraction of fuel that regrows per year of
// elapsed wall-clock time between loads, matching persistence.rs's 10%
// per year recovery rate.
const recoveryRatePerYear = 0.10

// damagedThreshold below this fuel fraction a cell counts as "burned" for
// CalculateBurnedArea, matching persistence.rs's `f < 0.9` predicate.
const damagedThreshold = 0.9

// hectareSquareMeters is the m^2-per-hectare conversion constant.
const hectareSquareMeters = 10000.0

// WorldState is the persistent fuel-damage grid: one fraction in [0,1] per
// terrain cell, independent of any live Element — elements are regenerated
// fresh each session from FuelRemaining when a world is loaded.
type WorldState struct {
	Width               int       `yaml:"width"`
	Height              int       `yaml:"height"`
	FuelRemaining       []float32 `yaml:"fuel_remaining"`
	LastUpdate          time.Time `yaml:"last_update"`
	TotalBurnedHectares float64   `yaml:"total_burned_hectares"`
}

// NewWorldState builds a fully-recovered world of the given grid size.
func NewWorldState(width, height int) *WorldState {
	fuel := make([]float32, width*height)
	for i := range fuel {
		fuel[i] = 1.0
	}
	return &WorldState{
		Width:         width,
		Height:        height,
		FuelRemaining: fuel,
		LastUpdate:    time.Now(),
	}
}

func (w *WorldState) index(x, y int) (int, bool) {
	if x < 0 || y < 0 || x >= w.Width || y >= w.Height {
		return 0, false
	}
	idx := y*w.Width + x
	return idx, idx < len(w.FuelRemaining)
}

// ApplyDamage reduces the fuel fraction at (x, y) by damage, floored at 0.
// Out-of-range coordinates are silently ignored, per the propagation
// policy's "recoverable within-step anomalies are silently tolerated".
func (w *WorldState) ApplyDamage(x, y int, damage float32) {
	idx, ok := w.index(x, y)
	if !ok {
		return
	}
	remaining := w.FuelRemaining[idx] - damage
	if remaining < 0 {
		remaining = 0
	}
	w.FuelRemaining[idx] = remaining
}

// FuelRemainingAt returns the fuel fraction at (x, y), or 1.0 (fully
// recovered) for an out-of-range query.
func (w *WorldState) FuelRemainingAt(x, y int) float32 {
	idx, ok := w.index(x, y)
	if !ok {
		return 1.0
	}
	return w.FuelRemaining[idx]
}

// UpdateRecovery advances regrowth to now, adding recoveryRatePerYear per
// elapsed year to every cell (capped at full fuel), then stamps LastUpdate.
func (w *WorldState) UpdateRecovery(now time.Time) {
	yearsElapsed := now.Sub(w.LastUpdate).Hours() / 24 / 365.25
	if yearsElapsed < 0 {
		yearsElapsed = 0
	}
	recovery := float32(recoveryRatePerYear * yearsElapsed)

	for i, f := range w.FuelRemaining {
		grown := f + recovery
		if grown > 1.0 {
			grown = 1.0
		}
		w.FuelRemaining[i] = grown
	}
	w.LastUpdate = now
}

// CalculateBurnedArea returns the hectares covered by cells whose fuel
// fraction has dropped below damagedThreshold, at the given cell size.
func (w *WorldState) CalculateBurnedArea(cellSizeMeters float64) float64 {
	cellArea := cellSizeMeters * cellSizeMeters
	burned := 0
	for _, f := range w.FuelRemaining {
		if f < damagedThreshold {
			burned++
		}
	}
	return float64(burned) * cellArea / hectareSquareMeters
}

// Reset restores every cell to full fuel and zeroes the burned-area tally.
func (w *WorldState) Reset(now time.Time) {
	for i := range w.FuelRemaining {
		w.FuelRemaining[i] = 1.0
	}
	w.TotalBurnedHectares = 0
	w.LastUpdate = now
}

// LoadWorldState reads and decodes a world file from path.
func LoadWorldState(path string) (*WorldState, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("persistence: read world file: %w", err)
	}
	var w WorldState
	if err := yaml.Unmarshal(data, &w); err != nil {
		return nil, fmt.Errorf("persistence: parse world file: %w", err)
	}
	return &w, nil
}

// Save encodes and writes the world state to path, creating parent
// directories as needed.
func (w *WorldState) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("persistence: create world file directory: %w", err)
	}
	data, err := yaml.Marshal(w)
	if err != nil {
		return fmt.Errorf("persistence: marshal world state: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("persistence: write world file: %w", err)
	}
	return nil
}
