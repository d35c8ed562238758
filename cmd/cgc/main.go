// Package main is the entry point for the cgc CLI.
package main

import (
	"fmt"
	"os"

	"github.com/helixml/cgc/internal/config"
	"github.com/spf13/cobra"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "cgc",
		Short:         "Compare gene calls",
		Long:          `cgc compares the gene calls of two or more gene callers run on the same genome and reports their superset, consensus and common core.`,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.AddCommand(compareCmd())
	cmd.AddCommand(inputCmd())
	cmd.AddCommand(runsCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// loadConfig loads configuration from .env file and environment variables.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.LoadConfig(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
