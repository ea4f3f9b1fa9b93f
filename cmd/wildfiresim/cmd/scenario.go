package cmd

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mineubob/wildfiresim/fieldsolver"
	"github.com/mineubob/wildfiresim/units"
	"github.com/mineubob/wildfiresim/weather"
)

// WeatherScenario mirrors weather.Forcing with yaml tags, since Forcing
// itself carries none (it's a kernel-facing type, not a config surface).
type WeatherScenario struct {
	TemperatureC     float64 `yaml:"temperature_c"`
	HumidityPct      float64 `yaml:"humidity_pct"`
	WindSpeedKmh     float64 `yaml:"wind_speed_kmh"`
	WindDirectionDeg float64 `yaml:"wind_direction_deg"`
	DroughtFactor    float64 `yaml:"drought_factor"`
}

func (w WeatherScenario) toForcing() weather.Forcing {
	return weather.Forcing{
		Temperature:   units.Celsius(w.TemperatureC),
		HumidityPct:   w.HumidityPct,
		WindSpeedKmh:  w.WindSpeedKmh,
		WindDirection: units.Degrees(w.WindDirectionDeg),
		DroughtFactor: w.DroughtFactor,
	}
}

// SuppressionEvent schedules a single air-drop partway through the run,
// matching ultra_demo.rs's "Enable water suppression at halfway point".
type SuppressionEvent struct {
	AtFractionOfDuration float64 `yaml:"at_fraction_of_duration"`
	Kind                 string  `yaml:"kind"` // water|retardant|foam|gel
	TotalMassKg          float64 `yaml:"total_mass_kg"`
	DropletCount         int     `yaml:"droplet_count"`
}

// Scenario is the wildfiresim CLI's run configuration, grounded on
// ultra_demo.rs's Args (size/duration/terrain/suppression) expanded with
// the weather and persistence knobs the Rust demo hardcoded.
type Scenario struct {
	Terrain    string  `yaml:"terrain"` // flat|hill|valley
	Width      float64 `yaml:"width"`
	Height     float64 `yaml:"height"`
	HillHeight float64 `yaml:"hill_height"`
	HillRadius float64 `yaml:"hill_radius"`

	Quality string `yaml:"quality"` // low|medium|high|ultra
	Seed    int64  `yaml:"seed"`

	DurationSeconds       float64 `yaml:"duration_seconds"`
	DtSeconds             float64 `yaml:"dt_seconds"`
	ReportIntervalSeconds float64 `yaml:"report_interval_seconds"`

	IgniteX      float64 `yaml:"ignite_x"`
	IgniteY      float64 `yaml:"ignite_y"`
	IgniteZ      float64 `yaml:"ignite_z"`
	IgniteRadius float64 `yaml:"ignite_radius"`

	Weather     WeatherScenario    `yaml:"weather"`
	Suppression *SuppressionEvent  `yaml:"suppression,omitempty"`
	ReplayOut   string             `yaml:"replay_out,omitempty"`
	WorldFile   string             `yaml:"world_file,omitempty"`
}

// DefaultScenario is the built-in "medium hill fire" demo, matching
// ultra_demo.rs's default flags (size=medium, duration=60, terrain=hill,
// suppression=true).
func DefaultScenario() Scenario {
	return Scenario{
		Terrain:               "hill",
		Width:                 200,
		Height:                200,
		HillHeight:            80,
		HillRadius:            40,
		Quality:               "medium",
		Seed:                  1,
		DurationSeconds:       60,
		DtSeconds:             0.1,
		ReportIntervalSeconds: 5,
		IgniteX:               100,
		IgniteY:               100,
		IgniteZ:               0,
		IgniteRadius:          5,
		Weather: WeatherScenario{
			TemperatureC: 45, HumidityPct: 10, WindSpeedKmh: 60, DroughtFactor: 10,
		},
		Suppression: &SuppressionEvent{
			AtFractionOfDuration: 0.5,
			Kind:                 "water",
			TotalMassKg:          2000,
			DropletCount:         40,
		},
	}
}

// LoadScenario reads path if non-empty, falling back to DefaultScenario on
// a missing path, mirroring internal/config.Load's "defaults if file
// doesn't exist" behavior.
func LoadScenario(path string) (Scenario, error) {
	scenario := DefaultScenario()
	if path == "" {
		return scenario, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return scenario, nil
		}
		return Scenario{}, fmt.Errorf("read scenario file: %w", err)
	}
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario file: %w", err)
	}
	return scenario, nil
}

func (s Scenario) qualityPreset() fieldsolver.Quality {
	switch s.Quality {
	case "low":
		return fieldsolver.QualityLow
	case "high":
		return fieldsolver.QualityHigh
	case "ultra":
		return fieldsolver.QualityUltra
	default:
		return fieldsolver.QualityMedium
	}
}
