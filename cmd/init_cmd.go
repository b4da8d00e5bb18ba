package cmd

import (
	"context"

	"github.com/shivasurya/plugify/analytics"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Discover, resolve, load, export, and start every extension under base-dir",
	RunE: func(cmd *cobra.Command, _ []string) error {
		analytics.ReportEvent(analytics.InitializeStarted)

		m, _, err := buildManager(cmd)
		if err != nil {
			analytics.ReportEvent(analytics.InitializeFailed)
			return err
		}

		report, err := m.Initialize(context.Background())
		if err != nil {
			analytics.ReportEvent(analytics.InitializeFailed)
			return err
		}
		analytics.ReportEventWithProperties(analytics.InitializeCompleted, map[string]interface{}{
			"extension_count": len(report.Extensions),
			"had_error":       report.HadError,
		})

		code, err := writeReport(cmd, report)
		if err != nil {
			return err
		}
		exitWithCode(code)
		return nil
	},
}

func init() {
	addCommonFlags(initCmd)
	rootCmd.AddCommand(initCmd)
}
