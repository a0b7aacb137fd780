package config

import "testing"

func TestNewAppConfig_Defaults(t *testing.T) {
	cfg := NewAppConfig()

	if cfg.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want %q", cfg.BaseURL(), DefaultBaseURL)
	}
	if cfg.LogFormat() != LogFormatPretty {
		t.Errorf("LogFormat() = %q, want pretty", cfg.LogFormat())
	}
	if cfg.APIKey() != "" {
		t.Errorf("APIKey() = %q, want empty", cfg.APIKey())
	}
	if cfg.CacheDir() != "" {
		t.Errorf("CacheDir() = %q, want empty", cfg.CacheDir())
	}
}

func TestAppConfig_Options(t *testing.T) {
	cfg := NewAppConfigWithOptions(
		WithAPIKey("secret"),
		WithBaseURL("https://example.test/api"),
		WithHFToken("hf_x"),
		WithCacheDir("/tmp/cache"),
		WithLogFormat(LogFormatJSON),
	)

	if cfg.APIKey() != "secret" {
		t.Errorf("APIKey() = %q", cfg.APIKey())
	}
	if cfg.BaseURL() != "https://example.test/api" {
		t.Errorf("BaseURL() = %q", cfg.BaseURL())
	}
	if cfg.HFToken() != "hf_x" {
		t.Errorf("HFToken() = %q", cfg.HFToken())
	}
	if cfg.CacheDir() != "/tmp/cache" {
		t.Errorf("CacheDir() = %q", cfg.CacheDir())
	}
	if cfg.LogFormat() != LogFormatJSON {
		t.Errorf("LogFormat() = %q", cfg.LogFormat())
	}
}

func TestWithBaseURL_EmptyKeepsDefault(t *testing.T) {
	cfg := NewAppConfigWithOptions(WithBaseURL(""))
	if cfg.BaseURL() != DefaultBaseURL {
		t.Errorf("BaseURL() = %q, want default", cfg.BaseURL())
	}
}

func TestAppConfig_Apply(t *testing.T) {
	cfg := NewAppConfig().Apply(WithAPIKey("k"))
	if cfg.APIKey() != "k" {
		t.Errorf("APIKey() = %q, want k", cfg.APIKey())
	}
}
