package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information for geosync",
	Long:  `Show version information for geosync`,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, err := fmt.Fprintf(cmd.OutOrStdout(), `geosync
  Version:	%v
  Build date:	%v
`, version, buildDate)
		return err
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
