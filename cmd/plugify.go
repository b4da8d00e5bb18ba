package cmd

import (
	"os"

	"github.com/shivasurya/plugify/internal/config"
	"github.com/shivasurya/plugify/internal/plugify"
	"github.com/shivasurya/plugify/internal/service"
	"github.com/shivasurya/plugify/output"
	"github.com/spf13/cobra"
)

// addCommonFlags attaches the base-dir/config/format/output-file flags
// every subcommand that touches a Manager shares.
func addCommonFlags(cmd *cobra.Command) {
	cmd.Flags().String("base-dir", "", "Base directory containing plugins/ and modules/ (overrides config)")
	cmd.Flags().String("config", "", "Path to plugify.yaml")
	cmd.Flags().String("format", "text", "Output format: text, json, csv")
	cmd.Flags().String("output-file", "", "Write formatted output to a file instead of stdout")
}

// buildManager loads config, wires the default service.Locator
// collaborators, and returns a ready-to-Initialize Manager plus the
// output.Logger backing it so callers can also print banners/progress.
func buildManager(cmd *cobra.Command) (*plugify.Manager, *output.Logger, error) {
	configPath, _ := cmd.Flags().GetString("config")
	baseDir, _ := cmd.Flags().GetString("base-dir")

	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if baseDir != "" {
		cfg.BaseDir = baseDir
	}

	verbosity := output.VerbosityDefault
	if verboseFlag {
		verbosity = output.VerbosityVerbose
	}
	logger := output.NewLogger(verbosity)

	loc := service.New()
	loc.RegisterFilesystem(service.OSFilesystem{})
	loc.RegisterManifestParser(service.ManifestParserFunc{})
	loc.RegisterDependencyResolver(service.ResolverFunc{})
	loc.RegisterAssemblyLoader(service.AssemblyLoaderFunc{})
	loc.RegisterLogger(service.LoggerAdapter{Logger: logger})
	loc.RegisterProgressReporter(service.ProgressAdapter{Logger: logger})

	return plugify.New(loc, cfg), logger, nil
}

// writeReport renders a Report's extensions through the requested
// formatter, to stdout or to --output-file, and returns the process exit
// code the command should use.
func writeReport(cmd *cobra.Command, report plugify.Report) (int, error) {
	format, _ := cmd.Flags().GetString("format")
	outputFile, _ := cmd.Flags().GetString("output-file")

	w := os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return int(output.ExitCodeError), err
		}
		defer f.Close()
		w = f
	}

	opts := output.NewDefaultOptions()
	var err error
	switch format {
	case "json":
		err = output.NewJSONFormatterWithWriter(w, opts).Format(report.Extensions)
	case "csv":
		err = output.NewCSVFormatterWithWriter(w, opts).Format(report.Extensions)
	default:
		err = output.NewTextFormatterWithWriter(w, opts, nil).Format(report.Extensions)
	}
	if err != nil {
		return int(output.ExitCodeError), err
	}
	return int(report.ExitCode()), nil
}

// exitWithCode mirrors the teacher's own RunE convention: cobra commands
// here return an error for genuine failures, but a degraded-yet-successful
// run still needs to set a non-zero process exit code without cobra
// treating it as a command error.
func exitWithCode(code int) {
	if code != 0 {
		os.Exit(code)
	}
}
