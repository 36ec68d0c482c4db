package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Server identity
const (
	ServerName    = "spotr"
	ServerTitle   = "Spotr"
	ServerVersion = "1.0.0"
)

// Backend and runtime defaults
const (
	EnvPrefix          = "SPOTR"
	APIKeyHeader       = "X-Spotr-Api-Key"
	DefaultHTTPTimeout = 30 * time.Second
	DefaultMockDataDir = "mock-data"
	DefaultWebAppURL   = "http://localhost:3000"
	DefaultMockAPIAddr = ":3000"
	DefaultLogLevel    = "info"
	ConfigFileName     = "spotr"
)

// Config holds the process settings. It is read-only once loaded.
type Config struct {
	BaseURL     string        `mapstructure:"base_url"`
	APIKey      string        `mapstructure:"api_key"`
	MockMode    bool          `mapstructure:"mock_mode"`
	MockDataDir string        `mapstructure:"mock_data_dir"`
	WebAppURL   string        `mapstructure:"web_app_url"`
	ShareSecret string        `mapstructure:"share_secret"`
	LogLevel    string        `mapstructure:"log_level"`
	HTTPTimeout time.Duration `mapstructure:"http_timeout"`
	MockAPIAddr string        `mapstructure:"mock_api_addr"`
}

// ConfigurationError is a fatal startup problem with the settings.
type ConfigurationError struct {
	Missing []string
	Err     error
}

func (e *ConfigurationError) Error() string {
	var parts []string
	if len(e.Missing) > 0 {
		parts = append(parts, strings.Join(e.Missing, " and ")+" must be set")
	}
	if e.Err != nil {
		parts = append(parts, e.Err.Error())
	}
	return "configuration error: " + strings.Join(parts, "; ")
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// LoadDotEnv loads KEY=VALUE pairs from the given files (".env" when none
// are given) without overriding variables already set. Missing files are
// ignored.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("load %s: %w", p, err)
		}
	}
	return nil
}

// Load reads settings from SPOTR_* environment variables and an optional
// config file. When configFile is empty, spotr.yaml is searched for in the
// working directory and $HOME/.config/spotr.
func Load(configFile string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	v.SetDefault("base_url", "")
	v.SetDefault("api_key", "")
	v.SetDefault("mock_mode", false)
	v.SetDefault("mock_data_dir", DefaultMockDataDir)
	v.SetDefault("web_app_url", DefaultWebAppURL)
	v.SetDefault("share_secret", "")
	v.SetDefault("log_level", DefaultLogLevel)
	v.SetDefault("http_timeout", DefaultHTTPTimeout)
	v.SetDefault("mock_api_addr", DefaultMockAPIAddr)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(ConfigFileName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "spotr"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return nil, &ConfigurationError{Err: fmt.Errorf("read config file: %w", err)}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, &ConfigurationError{Err: fmt.Errorf("decode config: %w", err)}
	}
	cfg.BaseURL = strings.TrimSpace(cfg.BaseURL)
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	if cfg.HTTPTimeout <= 0 {
		cfg.HTTPTimeout = DefaultHTTPTimeout
	}
	return &cfg, nil
}

// Validate checks the connection settings. The base URL and API key are
// only required when talking to the real backend.
func (c *Config) Validate() error {
	if c.MockMode {
		if strings.TrimSpace(c.MockDataDir) == "" {
			return &ConfigurationError{Missing: []string{"SPOTR_MOCK_DATA_DIR"}}
		}
		return nil
	}

	var missing []string
	if c.BaseURL == "" {
		missing = append(missing, "SPOTR_BASE_URL")
	}
	if c.APIKey == "" {
		missing = append(missing, "SPOTR_API_KEY")
	}
	if len(missing) > 0 {
		return &ConfigurationError{Missing: missing}
	}

	u, err := url.ParseRequestURI(c.BaseURL)
	if err != nil || u.Host == "" {
		return &ConfigurationError{Err: fmt.Errorf("invalid SPOTR_BASE_URL %q", c.BaseURL)}
	}
	return nil
}
