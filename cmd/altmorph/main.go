// Package main is the entry point for the altmorph CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ordbanken/altmorph/application/service"
	"github.com/ordbanken/altmorph/internal/config"
)

// Version information set via ldflags during build.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd := rootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitCode(err))
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "altmorph",
		Short: "Morphological text augmentation tools",
		Long: `Altmorph augments Norwegian text corpora with morphological
alternatives and inspects remote datasets before processing them.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(processCmd())
	cmd.AddCommand(probeCmd())
	cmd.AddCommand(versionCmd())

	return cmd
}

// exitCode maps probe failure stages to their documented exit codes;
// everything else exits 1.
func exitCode(err error) int {
	switch {
	case errors.Is(err, service.ErrDescribeFailed):
		return 2
	case errors.Is(err, service.ErrStreamFailed):
		return 3
	default:
		return 1
	}
}

// loadConfig loads configuration from the .env file and environment.
func loadConfig(envFile string) (config.AppConfig, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return config.AppConfig{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
