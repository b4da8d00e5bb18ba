package cmd

import (
	"context"
	"fmt"

	"github.com/shivasurya/plugify/internal/manifest"
	"github.com/shivasurya/plugify/internal/plugify"
	"github.com/shivasurya/plugify/output"
	"github.com/spf13/cobra"
)

var pluginsCmd = &cobra.Command{
	Use:   "plugins",
	Short: "Initialize and list every plugin extension",
	RunE:  listByKind(manifest.KindPlugin),
}

var modulesCmd = &cobra.Command{
	Use:   "modules",
	Short: "Initialize and list every language module extension",
	RunE:  listByKind(manifest.KindModule),
}

func listByKind(kind manifest.Kind) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, _ []string) error {
		m, _, err := buildManager(cmd)
		if err != nil {
			return err
		}
		full, err := m.Initialize(context.Background())
		if err != nil {
			return err
		}

		var filtered plugify.Report
		for _, r := range full.Extensions {
			if r.Kind == kind.String() {
				filtered.Extensions = append(filtered.Extensions, r)
			}
		}
		filtered.HadError = output.DetermineExitCode(filtered.Extensions, false) != output.ExitCodeSuccess

		code, err := writeReport(cmd, filtered)
		if err != nil {
			return err
		}
		exitWithCode(code)
		return nil
	}
}

var pluginCmd = &cobra.Command{
	Use:   "plugin <id>",
	Short: "Initialize and show one plugin's detail",
	Args:  cobra.ExactArgs(1),
	RunE:  showOne(manifest.KindPlugin),
}

var moduleCmd = &cobra.Command{
	Use:   "module <id>",
	Short: "Initialize and show one language module's detail",
	Args:  cobra.ExactArgs(1),
	RunE:  showOne(manifest.KindModule),
}

func showOne(kind manifest.Kind) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		m, _, err := buildManager(cmd)
		if err != nil {
			return err
		}
		if _, err := m.Initialize(context.Background()); err != nil {
			return err
		}

		e, ok := m.FindExtension(args[0])
		if !ok || e.Manifest().Kind() != kind {
			return fmt.Errorf("no such %s: %s", kind, args[0])
		}

		cmd.Printf("name:     %s\n", e.Name())
		cmd.Printf("kind:     %s\n", e.Manifest().Kind())
		cmd.Printf("version:  %s\n", e.Manifest().Version)
		cmd.Printf("language: %s\n", e.Manifest().Language)
		cmd.Printf("state:    %s\n", e.State())
		for _, w := range e.Warnings() {
			cmd.Printf("warning:  %s\n", w)
		}
		for _, er := range e.Errors() {
			cmd.Printf("error:    %s\n", er)
		}
		return nil
	}
}

func init() {
	addCommonFlags(pluginsCmd)
	addCommonFlags(modulesCmd)
	addCommonFlags(pluginCmd)
	addCommonFlags(moduleCmd)
	rootCmd.AddCommand(pluginsCmd, modulesCmd, pluginCmd, moduleCmd)
}
