// Command wildfiresim is the headless demo driver: load a YAML scenario,
// step the simulation, and print periodic reports. Grounded on
// demo-headless/src/main.rs and ultra_demo.rs, restyled after
// spatialmodel-inmap's inmap/main.go + inmap/cmd split (a thin main
// delegating to a cobra root command).
package main

import (
	"fmt"
	"os"

	"github.com/mineubob/wildfiresim/cmd/wildfiresim/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
