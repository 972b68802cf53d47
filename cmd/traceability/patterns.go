// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/pdiddy/traceability-engine/internal/patterns"
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the identifier patterns in use",
	Long: `Patterns prints the requirement patterns per category and the test
identifier patterns, including any extra patterns from the config file
(scan.patterns.safety, scan.patterns.security, scan.patterns.tests).`,
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadTraceConfig()
		if err != nil {
			return err
		}
		reg, err := patterns.New(cfg.Scan.Patterns)
		if err != nil {
			return err
		}
		printPatterns(cmd.OutOrStdout(), reg)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(patternsCmd)
}

func printPatterns(w io.Writer, reg *patterns.Registry) {
	for _, c := range reg.Categories() {
		fmt.Fprintf(w, "%s:\n", c)
		for _, re := range reg.Patterns(c) {
			fmt.Fprintf(w, "  %s\n", re)
		}
	}
	fmt.Fprintln(w, "tests:")
	for _, re := range reg.TestPatterns() {
		fmt.Fprintf(w, "  %s\n", re)
	}
}
