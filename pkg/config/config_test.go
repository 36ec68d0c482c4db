package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"SPOTR_BASE_URL", "SPOTR_API_KEY", "SPOTR_MOCK_MODE", "SPOTR_MOCK_DATA_DIR",
		"SPOTR_WEB_APP_URL", "SPOTR_LOG_LEVEL", "SPOTR_HTTP_TIMEOUT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())
	t.Setenv("SPOTR_BASE_URL", " https://api.spotr.test ")
	t.Setenv("SPOTR_API_KEY", "secret")
	t.Setenv("SPOTR_HTTP_TIMEOUT", "5s")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "https://api.spotr.test" {
		t.Fatalf("unexpected base url: %q", cfg.BaseURL)
	}
	if cfg.APIKey != "secret" {
		t.Fatalf("unexpected api key: %q", cfg.APIKey)
	}
	if cfg.HTTPTimeout != 5*time.Second {
		t.Fatalf("unexpected timeout: %v", cfg.HTTPTimeout)
	}
	if cfg.MockDataDir != DefaultMockDataDir {
		t.Fatalf("expected default mock dir, got %q", cfg.MockDataDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate returned error: %v", err)
	}
}

func TestValidateMissingConnectionSettings(t *testing.T) {
	clearEnv(t)
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	err = cfg.Validate()
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
	if len(cfgErr.Missing) != 2 {
		t.Fatalf("expected both settings missing, got %v", cfgErr.Missing)
	}
	if !strings.Contains(err.Error(), "SPOTR_BASE_URL and SPOTR_API_KEY must be set") {
		t.Fatalf("unexpected message: %s", err)
	}
}

func TestValidateRejectsRelativeBaseURL(t *testing.T) {
	t.Parallel()

	cfg := &Config{BaseURL: "spotr.local", APIKey: "k"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected invalid base url error")
	}
}

func TestValidateMockModeSkipsConnectionSettings(t *testing.T) {
	t.Parallel()

	cfg := &Config{MockMode: true, MockDataDir: "mock-data"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected mock mode to validate, got %v", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	t.Chdir(dir)
	path := filepath.Join(dir, "spotr.yaml")
	content := "base_url: https://file.spotr.test\napi_key: from-file\nmock_mode: true\nmock_data_dir: fixtures\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SPOTR_API_KEY", "from-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.BaseURL != "https://file.spotr.test" {
		t.Fatalf("expected base url from file, got %q", cfg.BaseURL)
	}
	if cfg.APIKey != "from-env" {
		t.Fatalf("expected env to override file, got %q", cfg.APIKey)
	}
	if !cfg.MockMode || cfg.MockDataDir != "fixtures" {
		t.Fatalf("unexpected mock settings: %+v", cfg)
	}
}

func TestLoadExplicitMissingFile(t *testing.T) {
	clearEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	var cfgErr *ConfigurationError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected ConfigurationError, got %v", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("SPOTR_BASE_URL=https://dotenv.spotr.test\n"), 0o600); err != nil {
		t.Fatalf("write .env: %v", err)
	}

	if err := LoadDotEnv(path, filepath.Join(dir, "absent.env")); err != nil {
		t.Fatalf("LoadDotEnv returned error: %v", err)
	}
	t.Cleanup(func() { os.Unsetenv("SPOTR_BASE_URL") })
	if got := os.Getenv("SPOTR_BASE_URL"); got != "https://dotenv.spotr.test" {
		t.Fatalf("expected .env value, got %q", got)
	}
}
