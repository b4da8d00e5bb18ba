package cmd

import (
	"context"

	"github.com/shivasurya/plugify/analytics"
	"github.com/spf13/cobra"
)

var termCmd = &cobra.Command{
	Use:   "term",
	Short: "Initialize every extension then immediately terminate them (smoke test)",
	RunE: func(cmd *cobra.Command, _ []string) error {
		m, _, err := buildManager(cmd)
		if err != nil {
			return err
		}

		report, err := m.Initialize(context.Background())
		if err != nil {
			return err
		}

		analytics.ReportEvent(analytics.TerminateStarted)
		m.Terminate(context.Background())
		analytics.ReportEvent(analytics.TerminateCompleted)

		code, err := writeReport(cmd, report)
		if err != nil {
			return err
		}
		exitWithCode(code)
		return nil
	},
}

func init() {
	addCommonFlags(termCmd)
	rootCmd.AddCommand(termCmd)
}
