package cmd

import (
	"context"
	"strings"

	"github.com/shivasurya/plugify/internal/plugify"
	"github.com/shivasurya/plugify/output"
	"github.com/spf13/cobra"
)

var searchCmd = &cobra.Command{
	Use:   "search <q>",
	Short: "Initialize every extension and list the ones whose name or language matches q",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, _, err := buildManager(cmd)
		if err != nil {
			return err
		}
		full, err := m.Initialize(context.Background())
		if err != nil {
			return err
		}

		q := strings.ToLower(args[0])
		var matched plugify.Report
		for _, r := range full.Extensions {
			if strings.Contains(strings.ToLower(r.Name), q) || strings.Contains(strings.ToLower(r.Language), q) {
				matched.Extensions = append(matched.Extensions, r)
			}
		}
		matched.HadError = output.DetermineExitCode(matched.Extensions, false) != output.ExitCodeSuccess

		code, err := writeReport(cmd, matched)
		if err != nil {
			return err
		}
		exitWithCode(code)
		return nil
	},
}

func init() {
	addCommonFlags(searchCmd)
	rootCmd.AddCommand(searchCmd)
}
