package fieldsolver

import (
	"github.com/mineubob/wildfiresim/fieldsolver/cpu"
	gpubackend "github.com/mineubob/wildfiresim/fieldsolver/gpu"
	"github.com/mineubob/wildfiresim/internal/applog"
	"github.com/mineubob/wildfiresim/units"
)

// Select resolves the quality preset to grid dimensions and picks a
// backend, selection rule: attempt GPU; on absence log info and
// fall back; on failure (device/limits) log warning and fall back; never
// silently downgrade without logging the reason. Grounded on Gekko3D-gekko's
// UseRenderer/UseVoxelRT selection logging (renderer_select.go).
func Select(domainWidth, domainHeight units.Length, q Quality, ambient units.Kelvin, preferGPU bool, logger applog.Logger) Backend {
	width, height, cellSize := ResolveGridDimensions(domainWidth, domainHeight, q)

	if logger == nil {
		logger = applog.NewNopLogger()
	}

	if !preferGPU {
		logger.Infof("field solver: GPU backend not requested, using CPU backend (%dx%d @ %.2fm)", width, height, float64(cellSize))
		return cpu.New(width, height, cellSize, ambient)
	}

	instance, adapter, err := gpubackend.Probe()
	if err != nil {
		logger.Infof("field solver: no GPU adapter available (%v), falling back to CPU backend", err)
		return cpu.New(width, height, cellSize, ambient)
	}

	backend, err := gpubackend.New(instance, adapter, width, height, cellSize, ambient)
	if err != nil {
		logger.Warnf("field solver: GPU backend initialization failed (%v), falling back to CPU backend", err)
		adapter.Release()
		instance.Release()
		return cpu.New(width, height, cellSize, ambient)
	}

	logger.Infof("field solver: GPU backend selected (%dx%d @ %.2fm)", width, height, float64(cellSize))
	return backend
}
