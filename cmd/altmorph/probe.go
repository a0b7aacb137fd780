package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ordbanken/altmorph/application/service"
	"github.com/ordbanken/altmorph/infrastructure/huggingface"
	"github.com/ordbanken/altmorph/internal/config"
	"github.com/ordbanken/altmorph/internal/log"
)

func probeCmd() *cobra.Command {
	var (
		envFile    string
		datasetRef string
		datasetCfg string
		split      string
		maxRows    int
		useToken   bool
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "probe",
		Short: "Inspect a remote dataset's schema and sample rows",
		Long: `Probe a dataset hosted on the Hugging Face Hub and print its
configs, splits, feature schema, a few sample rows and field-name
heuristics for picking the text and id columns.

The report goes to stdout; diagnostics go to stderr.

Exit codes:
  2  describing the dataset failed
  3  fetching sample rows failed

Environment variables:
  HF_TOKEN    Access token for gated datasets (sent with --use-token)
  LOG_FORMAT  Log format: pretty, json (default: pretty)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProbe(envFile, datasetRef, datasetCfg, split, maxRows, useToken, debug)
		},
	}

	cmd.Flags().StringVar(&envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVarP(&datasetRef, "dataset", "d", "", "Dataset name, e.g. NbAiLab/NPSC (required)")
	cmd.Flags().StringVar(&datasetCfg, "config", "", "Dataset config name")
	cmd.Flags().StringVar(&split, "split", "", "Split to sample (default: train when available)")
	cmd.Flags().IntVar(&maxRows, "max-rows", config.DefaultProbeMaxRows, "Sample rows to print")
	cmd.Flags().BoolVar(&useToken, "use-token", false, "Authenticate with HF_TOKEN")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug diagnostics")

	_ = cmd.MarkFlagRequired("dataset")

	return cmd
}

func runProbe(envFile, datasetRef, datasetCfg, split string, maxRows int, useToken, debug bool) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}

	verbosity := config.DefaultVerbosity
	if debug {
		verbosity = 2
	}
	logger := log.New(os.Stderr, cfg.LogFormat(), verbosity)

	clientOpts := []huggingface.Option{}
	if useToken && cfg.HFToken() != "" {
		clientOpts = append(clientOpts, huggingface.WithToken(cfg.HFToken()))
	}
	catalog := huggingface.NewClient(clientOpts...)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	probe := service.NewProbe(catalog, os.Stdout, service.WithProbeLogger(logger))
	return probe.Run(ctx, service.ProbeParams{
		Dataset: datasetRef,
		Config:  datasetCfg,
		Split:   split,
		MaxRows: maxRows,
	})
}
