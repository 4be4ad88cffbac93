package cmd

import (
	"github.com/abys/geosync/actions"
	"github.com/spf13/cobra"
)

var jobsCfg = actions.JobsConfig{}

var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "List the configured sync jobs",
	Long: `List the built-in sync jobs, merged with any jobs found in --job-file.
The output can be saved, edited and passed back to 'sync --job-file'.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		jobsCfg.Stdout = cmd.OutOrStdout()
		return actions.ListJobs(&jobsCfg)
	},
}

func init() {
	rootCmd.AddCommand(jobsCmd)
	jobsCmd.Flags().SortFlags = false
	switches.addFlag(jobsCmd, &jobsCfg.JobFile, "job-file", "", false, "")
	switches.addFlag(jobsCmd, &jobsCfg.Output, "output", "yaml", false, "")
}
