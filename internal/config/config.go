// Package config provides application configuration. The environment is
// read only at the CLI boundary; everything downstream receives explicit
// structures built here.
package config

// Default configuration values.
const (
	DefaultBaseURL      = "https://ordbank.uib.no/api"
	DefaultTextField    = "text"
	DefaultAltField     = "alt"
	DefaultVerbosity    = 1
	DefaultProbeMaxRows = 3
)

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// AppConfig holds the environment-derived application configuration.
type AppConfig struct {
	apiKey    string
	baseURL   string
	hfToken   string
	cacheDir  string
	logFormat LogFormat
}

// NewAppConfig creates an AppConfig with defaults.
func NewAppConfig() AppConfig {
	return AppConfig{
		baseURL:   DefaultBaseURL,
		logFormat: LogFormatPretty,
	}
}

// APIKey returns the Ordbank API key, possibly empty.
func (c AppConfig) APIKey() string { return c.apiKey }

// BaseURL returns the alternatives-service base URL.
func (c AppConfig) BaseURL() string { return c.baseURL }

// HFToken returns the Hugging Face access token, possibly empty.
func (c AppConfig) HFToken() string { return c.hfToken }

// CacheDir returns the HTTP response cache directory; empty disables
// caching.
func (c AppConfig) CacheDir() string { return c.cacheDir }

// LogFormat returns the log output format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithAPIKey sets the Ordbank API key.
func WithAPIKey(key string) AppConfigOption {
	return func(c *AppConfig) { c.apiKey = key }
}

// WithBaseURL sets the alternatives-service base URL.
func WithBaseURL(url string) AppConfigOption {
	return func(c *AppConfig) {
		if url != "" {
			c.baseURL = url
		}
	}
}

// WithHFToken sets the Hugging Face access token.
func WithHFToken(token string) AppConfigOption {
	return func(c *AppConfig) { c.hfToken = token }
}

// WithCacheDir sets the HTTP response cache directory.
func WithCacheDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.cacheDir = dir }
}

// WithLogFormat sets the log output format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
