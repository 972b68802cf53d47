// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the traceability CLI. It links
// requirement definitions in documentation to implementation and test
// references and reports verification coverage.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/traceability-engine/internal/coverage"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is configured from --verbose before any subcommand runs.
var logger = slog.New(slog.NewTextHandler(os.Stderr, nil))

// rootCmd is the base command for the traceability CLI.
var rootCmd = &cobra.Command{
	Use:   "traceability",
	Short: "Requirements traceability for safety and security work products",
	Long: `traceability scans project documentation, source code, and tests for
requirement identifiers (FSR-12, CSG-4, ...) and test identifiers (T-FSR-1,
SEC-3, ...), links them into a traceability matrix, and reports how many
requirements are implemented, tested, and verified.

Reports are written as JSON, YAML, Markdown, and HTML. Runs can be recorded
in a SQLite history and exported as Prometheus textfile metrics.`,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if viper.GetBool("verbose") {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./traceability.yaml or ~/.config/traceability/traceability.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("traceability")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "traceability"))
		}
	}

	viper.SetEnvPrefix("TRACEABILITY")
	viper.SetEnvKeyReplacer(envKeyReplacer)
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// exitCode maps a command error to the process exit status: 2 when
// verification coverage is below the threshold, 1 otherwise.
func exitCode(err error) int {
	var te *coverage.ThresholdError
	if errors.As(err, &te) {
		return 2
	}
	return 1
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		code := exitCode(err)
		if code == 2 {
			fmt.Fprintf(os.Stderr, "\nWarning: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(code)
	}
}
