package cmd

import (
	"context"
	"fmt"

	"github.com/shivasurya/plugify/analytics"
	"github.com/shivasurya/plugify/internal/plugify"
	"github.com/shivasurya/plugify/output"
	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load <name>",
	Short: "Run discovery and the load/export/start passes, then report one extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.LoadRequested)

		m, _, err := buildManager(cmd)
		if err != nil {
			return err
		}
		report, err := m.Initialize(context.Background())
		if err != nil {
			return err
		}

		var filtered plugify.Report
		for _, r := range report.Extensions {
			if r.Name == args[0] || r.ID == args[0] {
				filtered.Extensions = append(filtered.Extensions, r)
			}
		}
		if len(filtered.Extensions) == 0 {
			return fmt.Errorf("no such extension: %s", args[0])
		}
		filtered.HadError = output.DetermineExitCode(filtered.Extensions, false) != output.ExitCodeSuccess

		code, err := writeReport(cmd, filtered)
		if err != nil {
			return err
		}
		exitWithCode(code)
		return nil
	},
}

func init() {
	addCommonFlags(loadCmd)
	rootCmd.AddCommand(loadCmd)
}
