package cmd

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/mineubob/wildfiresim/internal/applog"
	"github.com/mineubob/wildfiresim/persistence"
	"github.com/mineubob/wildfiresim/sim"
	"github.com/mineubob/wildfiresim/suppression"
	"github.com/mineubob/wildfiresim/terrain"
	"github.com/mineubob/wildfiresim/units"
)

var debugLogging bool

func init() {
	runCmd.Flags().BoolVar(&debugLogging, "debug", false, "enable debug-level logging")
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a scenario to completion, printing periodic reports.",
	Long: "run loads a scenario (or the built-in default) and steps the " +
		"simulation to completion, reporting burning-element and fuel-" +
		"consumption counts the way demo-headless's main loop does.",
	RunE: func(cmd *cobra.Command, args []string) error {
		scenario, err := LoadScenario(configFile)
		if err != nil {
			return err
		}
		return runScenario(scenario)
	},
}

func buildTerrain(s Scenario) *terrain.Terrain {
	w, h := units.Length(s.Width), units.Length(s.Height)
	switch s.Terrain {
	case "valley":
		return terrain.ValleyBetweenHills(w, h, 5, 0, s.HillHeight)
	case "flat":
		return terrain.Flat(w, h)
	default:
		return terrain.SingleHill(w, h, 5, 0, s.HillHeight, units.Length(s.HillRadius))
	}
}

func suppressionKind(name string) suppression.AgentKind {
	switch name {
	case "retardant":
		return suppression.Retardant
	case "foam":
		return suppression.Foam
	case "gel":
		return suppression.Gel
	default:
		return suppression.Water
	}
}

func runScenario(s Scenario) error {
	fmt.Println("========================================")
	fmt.Println("WILDFIRE SIMULATION")
	fmt.Println("========================================")
	fmt.Printf("terrain=%s quality=%s duration=%.0fs seed=%d\n", s.Terrain, s.Quality, s.DurationSeconds, s.Seed)

	logger, err := applog.NewZapLogger("wildfiresim", debugLogging)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer logger.Sync()

	terr := buildTerrain(s)
	driver := sim.New(sim.Config{
		Terrain: terr,
		Quality: s.qualityPreset(),
		Forcing: s.Weather.toForcing(),
		Seed:    s.Seed,
		Logger:  logger,
	})
	driver.PopulateGround(2.0)
	driver.Ignite(s.IgniteX, s.IgniteY, s.IgniteZ, s.IgniteRadius)

	var replayWriter *persistence.Writer
	if s.ReplayOut != "" {
		f, err := os.Create(s.ReplayOut)
		if err != nil {
			return fmt.Errorf("create replay file: %w", err)
		}
		defer f.Close()
		replayWriter, err = persistence.NewWriter(f, persistence.ReplayMetadata{
			RunID: uuid.NewString(), Seed: s.Seed, TickRate: 1.0 / s.DtSeconds,
			Quality: int(s.qualityPreset()), TerrainDigest: terr.Digest(),
		})
		if err != nil {
			return fmt.Errorf("start replay: %w", err)
		}
		defer replayWriter.Close()
	}

	fmt.Println("\nTime(s) | Burning | Embers | Droplets | Consumed(kg) | FFDI")
	fmt.Println("--------|---------|--------|----------|--------------|------")

	suppressed := false
	simTime := 0.0
	nextReport := 0.0

	for simTime < s.DurationSeconds {
		if s.Suppression != nil && !suppressed && simTime >= s.Suppression.AtFractionOfDuration*s.DurationSeconds {
			kind := suppressionKind(s.Suppression.Kind)
			driver.AddSuppression(units.NewVec3(s.IgniteX, s.IgniteY, 30), kind, s.Suppression.TotalMassKg, s.Suppression.DropletCount)
			suppressed = true
			fmt.Printf("  -> %s drop released at t=%.1fs\n", s.Suppression.Kind, simTime)
		}

		driver.Step(s.DtSeconds)
		simTime += s.DtSeconds

		if replayWriter != nil {
			if werr := replayWriter.WriteTick(persistence.Tick{T: simTime}); werr != nil {
				return fmt.Errorf("write replay tick: %w", werr)
			}
		}

		if simTime >= nextReport {
			stats := driver.Stats()
			fmt.Printf("%7.1f | %7d | %6d | %8d | %12.2f | %4.1f\n",
				simTime, stats.BurningElements, stats.AirborneEmbers, stats.ActiveDroplets,
				stats.TotalBurnedMassKg, stats.FFDI)
			nextReport += s.ReportIntervalSeconds
		}
	}

	stats := driver.Stats()
	fmt.Println("\n=== Simulation Complete ===")
	fmt.Printf("Final time: %.1fs\n", simTime)
	fmt.Printf("Total fuel consumed: %.2f kg\n", stats.TotalBurnedMassKg)
	fmt.Printf("Final burning elements: %d\n", stats.BurningElements)

	if s.WorldFile != "" {
		nx, ny := terr.Dimensions()
		world := persistence.NewWorldState(nx, ny)
		if err := world.Save(s.WorldFile); err != nil {
			return fmt.Errorf("save world file: %w", err)
		}
	}
	return nil
}
