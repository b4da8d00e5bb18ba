package cmd

import (
	"os"
	"strings"

	"github.com/shivasurya/plugify/analytics"
	"github.com/shivasurya/plugify/internal/manifest"
	"github.com/shivasurya/plugify/internal/resolve"
	"github.com/shivasurya/plugify/output"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <path>",
	Short: "Parse and resolve a single manifest file, emitting SARIF diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		analytics.ReportEvent(analytics.ValidateRequested)

		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		kind := manifest.KindPlugin
		if strings.HasSuffix(path, ".pmodule") {
			kind = manifest.KindModule
		}

		var diagnostics []output.Diagnostic
		result, parseErr := manifest.Parse(data, kind, manifest.ParseOptions{})
		if parseErr != nil {
			diagnostics = append(diagnostics, output.Diagnostic{
				RuleID:   "manifest-malformed",
				Message:  parseErr.Error(),
				File:     path,
				Severity: "error",
			})
		} else {
			for _, w := range result.Warnings {
				diagnostics = append(diagnostics, output.Diagnostic{
					RuleID: "manifest-warning", Message: w, File: path, Severity: "warning",
				})
			}
			resolution := resolve.Resolve([]manifest.Manifest{result.Manifest})
			for _, issue := range resolution.Diagnostics {
				diagnostics = append(diagnostics, output.Diagnostic{
					RuleID:   "unresolved-dependency",
					Message:  issue.Message,
					File:     path,
					Severity: issue.Severity.String(),
				})
			}
		}

		outputFile, _ := cmd.Flags().GetString("output-file")
		w := os.Stdout
		if outputFile != "" {
			f, err := os.Create(outputFile)
			if err != nil {
				return err
			}
			defer f.Close()
			w = f
		}

		if err := output.NewSARIFFormatterWithWriter(w, output.NewDefaultOptions()).Format(diagnostics); err != nil {
			return err
		}

		for _, d := range diagnostics {
			if d.Severity == "error" {
				exitWithCode(int(output.ExitCodeDegraded))
				return nil
			}
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().String("output-file", "", "Write SARIF output to a file instead of stdout")
	rootCmd.AddCommand(validateCmd)
}
