// Package cmd implements the CLI commands for ActaPipe using Cobra.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/gaurav-prasanna/actapipe/config"
	"github.com/spf13/cobra"
)

// Persistent flag variables.
var (
	flagConfig   string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "actapipe",
	Short: "ActaPipe: turn congressional session transcripts into speaker-attributed interventions",
	Long: `ActaPipe reads session transcripts (Gaceta del Congreso PDFs, HTML pages or
pre-extracted runs JSON), removes publication boilerplate, extracts session
metadata and splits the text into (speaker, intervention) pairs.

Usage:
  actapipe process <file|dir|url>... [flags]
  actapipe flatten <sessions.json|dir>... [flags]
  actapipe serve [flags]`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn or error")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads --config, applies --log-level and installs the logger
// as the slog default.
func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return cfg, nil, err
	}
	if flagLogLevel != "" {
		cfg.LogLevel = flagLogLevel
		if err := cfg.Validate(); err != nil {
			return cfg, nil, err
		}
	}
	logger := cfg.NewLogger(os.Stderr)
	slog.SetDefault(logger)
	return cfg, logger, nil
}
