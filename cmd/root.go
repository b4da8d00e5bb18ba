package cmd

import (
	"fmt"
	"os"

	"github.com/shivasurya/plugify/analytics"
	"github.com/shivasurya/plugify/output"
	"github.com/spf13/cobra"
)

var (
	verboseFlag bool
	Version     = "0.1.0"
	GitCommit   = "HEAD"
)

var rootCmd = &cobra.Command{
	Use:   "plugify",
	Short: "Cross-language plugin runtime: extension lifecycle, dependency resolution, JIT call bridge",
	Long: `Plugify loads extensions described by manifest files, resolves their
dependencies and language modules, and bridges calls between a plugin's own
language and the host process through a generated JIT call thunk.`,
	PersistentPreRun: func(cmd *cobra.Command, _ []string) {
		disableMetrics, _ := cmd.Flags().GetBool("disable-metrics") //nolint:all
		verboseFlag, _ = cmd.Flags().GetBool("verbose")             //nolint:all
		analytics.LoadEnvFile()
		analytics.Init(disableMetrics)
		analytics.SetVersion(Version)

		// Show banner for help command
		if cmd.Name() == "help" || (len(os.Args) == 1 || (len(os.Args) == 2 && (os.Args[1] == "--help" || os.Args[1] == "-h"))) {
			noBanner, _ := cmd.Flags().GetBool("no-banner")
			logger := output.NewLogger(output.VerbosityDefault)
			if output.ShouldShowBanner(logger.IsTTY(), noBanner) {
				output.PrintBanner(logger.GetWriter(), Version, output.DefaultBannerOptions())
			} else if logger.IsTTY() && !noBanner {
				fmt.Fprintln(os.Stderr, output.GetCompactBanner(Version))
				fmt.Fprintln(os.Stderr)
			}
		}
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("disable-metrics", false, "Disable metrics collection")
	rootCmd.PersistentFlags().Bool("verbose", false, "Verbose output")
	rootCmd.PersistentFlags().Bool("no-banner", false, "Disable startup banner")
}
