package cmd

import (
	"context"

	"github.com/spf13/cobra"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Initialize every extension and report overall health",
	RunE: func(cmd *cobra.Command, _ []string) error {
		m, _, err := buildManager(cmd)
		if err != nil {
			return err
		}
		report, err := m.Initialize(context.Background())
		if err != nil {
			return err
		}

		code, err := writeReport(cmd, report)
		if err != nil {
			return err
		}
		if report.HadError {
			cmd.Println("status: degraded")
		} else {
			cmd.Println("status: healthy")
		}
		exitWithCode(code)
		return nil
	},
}

func init() {
	addCommonFlags(healthCmd)
	rootCmd.AddCommand(healthCmd)
}
