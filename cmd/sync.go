package cmd

import (
	"github.com/abys/geosync/actions"
	"github.com/abys/geosync/constants"
	"github.com/spf13/cobra"
)

var syncCfg = actions.SyncConfig{}

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Run one sync job from the PostgreSQL view into the Oracle table",
	Long: `Run one sync job.

The run stops at the first fatal error and exits with code 1:

- ogr2ogr must be installed with the OCI and PostgreSQL drivers.
- Both databases must accept a connection.
- An existing destination table is truncated, its sequence is reset and rows are appended.
  A missing table is created by ogr2ogr and a spatial index is built afterwards.
- A destination table left empty by the load fails the run.
- A failure to refresh optimizer statistics is logged as a warning only.

Use --test to check dependencies and connections only, or --dry-run to print the
commands that would be run.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true // failures are data errors, not usage errors.
		syncCfg.EnvFileRequired = flagChanged(cmd.Flags(), "env-file")
		syncCfg.StackDumpOnPanic = stackDumpOnPanic
		syncCfg.Stdout = cmd.OutOrStdout()
		syncCfg.Stderr = cmd.ErrOrStderr()
		return actions.RunSync(&syncCfg)
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().SortFlags = false
	switches.addFlag(syncCmd, &syncCfg.JobName, "job", "", false, "")
	switches.addFlag(syncCmd, &syncCfg.JobFile, "job-file", "", false, "")
	switches.addFlag(syncCmd, &syncCfg.EnvFile, "env-file", constants.DefaultEnvFile, false, "")
	switches.addFlag(syncCmd, &syncCfg.TestOnly, "test", "false", false, "")
	switches.addFlag(syncCmd, &syncCfg.DryRun, "dry-run", "false", false, "")
	switches.addFlag(syncCmd, &syncCfg.LogLevel, "log-level", "", false, "")
}
