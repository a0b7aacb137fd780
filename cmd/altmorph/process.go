package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ordbanken/altmorph/application/service"
	"github.com/ordbanken/altmorph/domain/alternatives"
	"github.com/ordbanken/altmorph/infrastructure/jsonl"
	"github.com/ordbanken/altmorph/infrastructure/ordbank"
	"github.com/ordbanken/altmorph/internal/config"
	"github.com/ordbanken/altmorph/internal/log"
)

// processFlags carries every flag of the process command.
type processFlags struct {
	envFile string
	profile string

	input     string
	output    string
	textField string
	altField  string

	apiKey     string
	baseURL    string
	cacheDir   string
	maxRetries int

	lang           string
	timeout        float64
	maxWorkers     int
	verbosity      int
	logitThreshold float64
	lemmaThreshold int

	includeImperatives     bool
	includeDeterminatives  bool
	includeGenderAdj       bool
	includeNumberAmbiguous bool

	logFormat string
}

func processCmd() *cobra.Command {
	var flags processFlags

	cmd := &cobra.Command{
		Use:   "process",
		Short: "Augment a JSONL corpus with morphological alternatives",
		Long: `Read a line-delimited JSON corpus, send each record's text to the
alternatives service and write augmented copies to the output file.

Options are resolved in the following order (later sources override earlier):
  1. Default values
  2. Profile file (if --profile specified)
  3. Command line flags

Environment variables:
  ORDBANK_API_KEY   Default API key when --api-key is absent
  ORDBANK_BASE_URL  Alternatives-service base URL
  HTTP_CACHE_DIR    On-disk HTTP response cache directory
  LOG_FORMAT        Log format: pretty, json (default: pretty)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runProcess(cmd, flags)
		},
	}

	cmd.Flags().StringVar(&flags.envFile, "env-file", "", "Path to .env file (default: .env in current directory)")
	cmd.Flags().StringVar(&flags.profile, "profile", "", "Path to a YAML profile with generator options")

	cmd.Flags().StringVarP(&flags.input, "input", "i", "", "Input JSONL file (required)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "Output JSONL file (required)")
	cmd.Flags().StringVar(&flags.textField, "text-field", config.DefaultTextField, "Record field holding the source text")
	cmd.Flags().StringVar(&flags.altField, "alt-field", config.DefaultAltField, "Record field the alternatives are written to")

	cmd.Flags().StringVar(&flags.apiKey, "api-key", "", "API key (default: ORDBANK_API_KEY)")
	cmd.Flags().StringVar(&flags.baseURL, "base-url", "", "Alternatives-service base URL")
	cmd.Flags().StringVar(&flags.cacheDir, "cache-dir", "", "Cache service responses under this directory")
	cmd.Flags().IntVar(&flags.maxRetries, "max-retries", ordbank.DefaultMaxRetries, "Retries per request on transient failures")

	cmd.Flags().StringVar(&flags.lang, "lang", string(alternatives.LanguageBokmaal), "Target language: nob, nno")
	cmd.Flags().Float64Var(&flags.timeout, "timeout", alternatives.DefaultTimeout.Seconds(), "Per-request timeout in seconds")
	cmd.Flags().IntVar(&flags.maxWorkers, "max-workers", alternatives.DefaultMaxWorkers, "Parallel lookups inside the service")
	cmd.Flags().IntVarP(&flags.verbosity, "verbosity", "v", config.DefaultVerbosity, "Verbosity: 0 errors only, 1 normal, 2 debug, 3 debug with results")
	cmd.Flags().Float64Var(&flags.logitThreshold, "logit-threshold", alternatives.DefaultLogitThreshold, "Acceptability threshold for generated variants")
	cmd.Flags().IntVar(&flags.lemmaThreshold, "lemma-threshold", alternatives.DefaultLemmaThreshold, "Max candidate base forms before a term is filtered")

	cmd.Flags().BoolVar(&flags.includeImperatives, "include-imperatives", false, "Include imperative alternatives")
	cmd.Flags().BoolVar(&flags.includeDeterminatives, "include-determinatives", false, "Include determiner alternatives")
	cmd.Flags().BoolVar(&flags.includeGenderAdj, "include-gender-adj", false, "Include gender-dependent adjective alternatives")
	cmd.Flags().BoolVar(&flags.includeNumberAmbiguous, "include-number-ambiguous", false, "Include number-ambiguous noun alternatives")

	cmd.Flags().StringVar(&flags.logFormat, "log-format", "", "Log format: pretty, json (default: LOG_FORMAT or pretty)")

	_ = cmd.MarkFlagRequired("input")
	_ = cmd.MarkFlagRequired("output")

	return cmd
}

func runProcess(cmd *cobra.Command, flags processFlags) error {
	cfg, err := loadConfig(flags.envFile)
	if err != nil {
		return err
	}
	cfg = applyProcessOverrides(cfg, flags)

	if cfg.APIKey() == "" {
		return errors.New("API key required: set ORDBANK_API_KEY or use --api-key")
	}

	opts, err := resolveOptions(cmd, flags)
	if err != nil {
		return err
	}

	logger := log.New(os.Stderr, cfg.LogFormat(), flags.verbosity)

	generator, err := buildGenerator(cfg, opts, flags.maxRetries)
	if err != nil {
		return err
	}

	src, err := jsonl.Open(flags.input)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	dst, err := jsonl.Create(flags.output)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting processing",
		"version", version,
		"input", flags.input,
		"output", flags.output,
		"lang", string(opts.Language()))

	batch := service.NewBatch(generator,
		service.WithTextField(flags.textField),
		service.WithAltField(flags.altField),
		service.WithLogger(logger))

	_, runErr := batch.Run(ctx, src, dst)
	if err := dst.Close(); err != nil && runErr == nil {
		runErr = err
	}

	if errors.Is(runErr, context.Canceled) {
		return errors.New("processing interrupted")
	}
	return runErr
}

// resolveOptions merges defaults, the optional profile and explicit
// flags into the generator options. Only flags the user actually set
// override the profile.
func resolveOptions(cmd *cobra.Command, flags processFlags) (alternatives.Options, error) {
	var opts []alternatives.Option

	if flags.profile != "" {
		profile, err := config.LoadProfile(flags.profile)
		if err != nil {
			return alternatives.Options{}, err
		}
		profileOpts, err := profile.Options()
		if err != nil {
			return alternatives.Options{}, err
		}
		opts = append(opts, profileOpts...)
	}

	flagOpts, err := flagOptions(cmd, flags)
	if err != nil {
		return alternatives.Options{}, err
	}
	opts = append(opts, flagOpts...)

	return alternatives.NewOptions(opts...), nil
}

// flagOptions converts explicitly set command line flags to generator
// options.
func flagOptions(cmd *cobra.Command, flags processFlags) ([]alternatives.Option, error) {
	var opts []alternatives.Option

	if cmd.Flags().Changed("lang") {
		lang, err := alternatives.ParseLanguage(flags.lang)
		if err != nil {
			return nil, err
		}
		opts = append(opts, alternatives.WithLanguage(lang))
	}
	if cmd.Flags().Changed("timeout") {
		opts = append(opts, alternatives.WithTimeout(
			time.Duration(flags.timeout*float64(time.Second))))
	}
	if cmd.Flags().Changed("max-workers") {
		opts = append(opts, alternatives.WithMaxWorkers(flags.maxWorkers))
	}
	if cmd.Flags().Changed("logit-threshold") {
		opts = append(opts, alternatives.WithLogitThreshold(flags.logitThreshold))
	}
	if cmd.Flags().Changed("lemma-threshold") {
		opts = append(opts, alternatives.WithLemmaThreshold(flags.lemmaThreshold))
	}
	if cmd.Flags().Changed("include-imperatives") {
		opts = append(opts, alternatives.WithImperatives(flags.includeImperatives))
	}
	if cmd.Flags().Changed("include-determinatives") {
		opts = append(opts, alternatives.WithDeterminatives(flags.includeDeterminatives))
	}
	if cmd.Flags().Changed("include-gender-adj") {
		opts = append(opts, alternatives.WithGenderAdj(flags.includeGenderAdj))
	}
	if cmd.Flags().Changed("include-number-ambiguous") {
		opts = append(opts, alternatives.WithNumberAmbiguous(flags.includeNumberAmbiguous))
	}

	// The service's own verbosity scale sits two below the CLI's;
	// WithVerbosity clamps the result at zero.
	opts = append(opts, alternatives.WithVerbosity(flags.verbosity-2))
	return opts, nil
}

// buildGenerator wires the service client, with the caching transport
// when a cache directory is configured.
func buildGenerator(cfg config.AppConfig, opts alternatives.Options, maxRetries int) (alternatives.Generator, error) {
	clientOpts := []ordbank.ClientOption{
		ordbank.WithMaxRetries(maxRetries),
	}

	if cfg.CacheDir() != "" {
		transport, err := ordbank.NewCachingTransport(cfg.CacheDir(), nil)
		if err != nil {
			return nil, err
		}
		clientOpts = append(clientOpts, ordbank.WithHTTPClient(&http.Client{Transport: transport}))
	}

	return ordbank.NewClient(cfg.BaseURL(), cfg.APIKey(), opts, clientOpts...), nil
}

// applyProcessOverrides applies command line flag overrides to the
// environment-derived config.
func applyProcessOverrides(cfg config.AppConfig, flags processFlags) config.AppConfig {
	var opts []config.AppConfigOption

	if flags.apiKey != "" {
		opts = append(opts, config.WithAPIKey(flags.apiKey))
	}
	if flags.baseURL != "" {
		opts = append(opts, config.WithBaseURL(flags.baseURL))
	}
	if flags.cacheDir != "" {
		opts = append(opts, config.WithCacheDir(flags.cacheDir))
	}
	if flags.logFormat != "" {
		opts = append(opts, config.WithLogFormat(config.LogFormat(flags.logFormat)))
	}

	return cfg.Apply(opts...)
}
