package cmd

import (
	"context"
	"fmt"

	"github.com/shivasurya/plugify/output"
	"github.com/spf13/cobra"
)

var treeCmd = &cobra.Command{
	Use:   "tree <id>",
	Short: "Initialize, then print the dependency tree rooted at one extension",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, logger, err := buildManager(cmd)
		if err != nil {
			return err
		}
		if _, err := m.Initialize(context.Background()); err != nil {
			return err
		}

		root, ok := m.FindExtension(args[0])
		if !ok {
			return fmt.Errorf("no such extension: %s", args[0])
		}

		depends := make(map[string][]string)
		for _, e := range m.Extensions() {
			for _, dep := range e.Manifest().Dependencies {
				depends[e.Name()] = append(depends[e.Name()], dep.Name)
			}
		}

		formatter := output.NewTextFormatter(output.NewDefaultOptions(), logger)
		formatter.FormatTree(root.Name(), depends)
		return nil
	},
}

func init() {
	addCommonFlags(treeCmd)
	rootCmd.AddCommand(treeCmd)
}
