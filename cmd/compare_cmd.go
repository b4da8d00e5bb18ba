package cmd

import (
	"context"
	"fmt"

	"github.com/shivasurya/plugify/analytics"
	"github.com/spf13/cobra"
)

var compareCmd = &cobra.Command{
	Use:   "compare <a> <b>",
	Short: "Initialize every extension and diff two of their states/versions",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.CompareRequested)

		m, _, err := buildManager(cmd)
		if err != nil {
			return err
		}
		if _, err := m.Initialize(context.Background()); err != nil {
			return err
		}

		a, ok := m.FindExtension(args[0])
		if !ok {
			return fmt.Errorf("no such extension: %s", args[0])
		}
		b, ok := m.FindExtension(args[1])
		if !ok {
			return fmt.Errorf("no such extension: %s", args[1])
		}

		cmd.Printf("%-20s %-12s %-10s\n", "field", a.Name(), b.Name())
		cmd.Printf("%-20s %-12s %-10s\n", "kind", a.Manifest().Kind(), b.Manifest().Kind())
		cmd.Printf("%-20s %-12s %-10s\n", "version", a.Manifest().Version, b.Manifest().Version)
		cmd.Printf("%-20s %-12s %-10s\n", "language", a.Manifest().Language, b.Manifest().Language)
		cmd.Printf("%-20s %-12s %-10s\n", "state", a.State(), b.State())
		return nil
	},
}

func init() {
	addCommonFlags(compareCmd)
	rootCmd.AddCommand(compareCmd)
}
