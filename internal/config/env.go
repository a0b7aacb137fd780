package config

import (
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration. Variable names
// carry no shared prefix; each names its own concern.
type EnvConfig struct {
	// OrdbankAPIKey is the default credential for the alternatives
	// service when --api-key is absent.
	// Env: ORDBANK_API_KEY
	OrdbankAPIKey string `envconfig:"ORDBANK_API_KEY"`

	// OrdbankBaseURL overrides the alternatives-service base URL.
	// Env: ORDBANK_BASE_URL
	OrdbankBaseURL string `envconfig:"ORDBANK_BASE_URL"`

	// HFToken authenticates dataset probes against gated datasets.
	// Env: HF_TOKEN
	HFToken string `envconfig:"HF_TOKEN"`

	// HTTPCacheDir enables on-disk caching of service responses.
	// Env: HTTP_CACHE_DIR
	HTTPCacheDir string `envconfig:"HTTP_CACHE_DIR"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	opts := []AppConfigOption{
		WithAPIKey(e.OrdbankAPIKey),
		WithHFToken(e.HFToken),
		WithCacheDir(e.HTTPCacheDir),
		WithLogFormat(parseLogFormat(e.LogFormat)),
	}
	if e.OrdbankBaseURL != "" {
		opts = append(opts, WithBaseURL(e.OrdbankBaseURL))
	}
	return NewAppConfigWithOptions(opts...)
}

// parseLogFormat parses a log format string; anything but "json" means
// pretty.
func parseLogFormat(s string) LogFormat {
	if strings.ToLower(s) == "json" {
		return LogFormatJSON
	}
	return LogFormatPretty
}
