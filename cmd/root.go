package cmd

import (
	"os"

	"github.com/abys/geosync/constants"
	"github.com/spf13/cobra"
)

var (
	// Default values may be set at compile time.
	version          = "0.1.0"
	buildDate        = "2026-01-01T00:00+0300"
	stackDumpOnPanic bool
)

var rootCmd = &cobra.Command{
	Use:   constants.ServiceName,
	Short: "Copy spatial data from a PostgreSQL view into an Oracle table using ogr2ogr",
	Long: `geosync moves rows, including their geometry, from a PostgreSQL view into an Oracle Spatial
table. It is designed to be run by cron: each run checks its dependencies and connections,
empties or creates the destination table, loads it with ogr2ogr, verifies the row count,
builds the spatial index when the table is new and refreshes optimizer statistics.

Connection details are read from environment variables, optionally loaded from an env file.
The exit code is 0 on success and 1 on failure.`,
}

func init() {
	// General setup.
	cobra.EnableCommandSorting = false
	// Global flags.
	rootCmd.PersistentFlags().BoolVar(&stackDumpOnPanic, "print-stack", false, "Print a stack dump if there is a panic")
	_ = rootCmd.PersistentFlags().MarkHidden("print-stack")
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		// Execute() prints the error.
		os.Exit(constants.ExitCodeFailure)
	}
}
