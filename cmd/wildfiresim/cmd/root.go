// Package cmd contains the wildfiresim command-line interface's
// subcommands, grounded on spatialmodel-inmap's inmap/cmd package
// (RootCmd + PersistentFlags for a shared config file path).
package cmd

import (
	"github.com/spf13/cobra"
)

var configFile string

// RootCmd is the wildfiresim CLI's entry command.
var RootCmd = &cobra.Command{
	Use:   "wildfiresim",
	Short: "Headless wildfire spread simulation demo.",
	Long: "wildfiresim runs the fire simulation engine outside of any game " +
		"process, for scripted scenarios, regression demos, and replay capture.",
}

func init() {
	RootCmd.PersistentFlags().StringVar(&configFile, "config", "", "scenario YAML file (defaults built in if omitted)")
	RootCmd.AddCommand(runCmd)
}

// Execute runs the CLI, returning the first error encountered.
func Execute() error {
	return RootCmd.Execute()
}
