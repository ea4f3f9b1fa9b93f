package cmd

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mineubob/wildfiresim/fieldsolver"
)

func TestLoadScenarioMissingPathReturnsDefault(t *testing.T) {
	s, err := LoadScenario(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultScenario(), s)
}

func TestLoadScenarioEmptyPathReturnsDefault(t *testing.T) {
	s, err := LoadScenario("")
	require.NoError(t, err)
	assert.Equal(t, DefaultScenario(), s)
}

func TestQualityPresetMapping(t *testing.T) {
	assert.Equal(t, fieldsolver.QualityLow, Scenario{Quality: "low"}.qualityPreset())
	assert.Equal(t, fieldsolver.QualityHigh, Scenario{Quality: "high"}.qualityPreset())
	assert.Equal(t, fieldsolver.QualityUltra, Scenario{Quality: "ultra"}.qualityPreset())
	assert.Equal(t, fieldsolver.QualityMedium, Scenario{Quality: "bogus"}.qualityPreset())
}

func TestWeatherScenarioToForcing(t *testing.T) {
	w := WeatherScenario{TemperatureC: 30, HumidityPct: 20, WindSpeedKmh: 40, WindDirectionDeg: 90, DroughtFactor: 8}
	f := w.toForcing()
	assert.Equal(t, 30.0, float64(f.Temperature))
	assert.Equal(t, 90.0, float64(f.WindDirection))
}
