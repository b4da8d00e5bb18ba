package cmd

import (
	"context"

	"github.com/shivasurya/plugify/analytics"
	"github.com/spf13/cobra"
)

var reloadCmd = &cobra.Command{
	Use:   "reload <name>",
	Short: "Initialize every extension, then unload and reload one of them",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.ReloadRequested)

		m, _, err := buildManager(cmd)
		if err != nil {
			return err
		}
		if _, err := m.Initialize(context.Background()); err != nil {
			return err
		}
		if err := m.Reload(context.Background(), args[0]); err != nil {
			return err
		}

		e, _ := m.FindExtension(args[0])
		cmd.Printf("%s: %s\n", e.Name(), e.State())
		return nil
	},
}

func init() {
	addCommonFlags(reloadCmd)
	rootCmd.AddCommand(reloadCmd)
}
