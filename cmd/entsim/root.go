package main

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "entsim",
	Short: "Entsim runs entity-based discrete-event simulations.",
	Long: `Entsim runs entity-based discrete-event simulations described by ` +
		`scenario files. A scenario declares the priority patterns, the entity ` +
		`templates with their behaviors, the entities to create, and the events ` +
		`to schedule.`,
}

// Execute runs the root command.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
