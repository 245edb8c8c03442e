package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"
)

const (
	defaultPort         = 8000
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 30 * time.Second
	defaultHTTPTimeout  = 15 * time.Second
)

// Config represents the main application configuration
type Config struct {
	// Metadata provider
	TMDb TMDbConfig `yaml:"tmdb"`

	// Embed-redirector
	Stream StreamConfig `yaml:"stream"`

	// Inbound HTTP server
	Server ServerConfig `yaml:"server"`

	// Outbound HTTP calls
	HTTP HTTPConfig `yaml:"http"`

	// Application settings
	App AppConfig `yaml:"app"`
}

// TMDbConfig holds TMDb API configuration
type TMDbConfig struct {
	APIKey  string `yaml:"api_key"`
	BaseURL string `yaml:"base_url,omitempty"`
}

// StreamConfig holds embed-redirector configuration
type StreamConfig struct {
	BaseURL string `yaml:"base_url,omitempty"`
}

// ServerConfig holds the listener settings
type ServerConfig struct {
	Port         int           `yaml:"port"`
	ReadTimeout  time.Duration `yaml:"read_timeout,omitempty"`
	WriteTimeout time.Duration `yaml:"write_timeout,omitempty"`
}

// HTTPConfig holds outbound client settings
type HTTPConfig struct {
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// AppConfig holds application-level settings
type AppConfig struct {
	LogLevel  string `yaml:"log_level"`          // "debug", "info", "warn", "error"
	LogFormat string `yaml:"log_format"`         // "json", "text"
	LogFile   string `yaml:"log_file,omitempty"` // rotated copy of the log, optional
}

// Load loads configuration from a YAML file with environment variable overrides.
// A missing file is not an error: the service can be configured from the environment alone.
func Load(path string) (*Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	// Override with environment variables
	cfg.applyEnvOverrides()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// applyEnvOverrides overrides config values with environment variables
func (c *Config) applyEnvOverrides() {
	// TMDb; the bare TMDB_API_KEY is honoured for existing deployments
	if v := os.Getenv("TMDB_API_KEY"); v != "" {
		c.TMDb.APIKey = v
	}
	if v := os.Getenv("MEDIABROWSER_TMDB_API_KEY"); v != "" {
		c.TMDb.APIKey = v
	}
	if v := os.Getenv("MEDIABROWSER_TMDB_BASE_URL"); v != "" {
		c.TMDb.BaseURL = v
	}

	// Stream
	if v := os.Getenv("MEDIABROWSER_STREAM_BASE_URL"); v != "" {
		c.Stream.BaseURL = v
	}

	// Server
	if v := os.Getenv("MEDIABROWSER_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Server.Port = port
		}
	}

	// Outbound HTTP
	if v := os.Getenv("MEDIABROWSER_HTTP_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.HTTP.Timeout = d
		}
	}

	// App
	if v := os.Getenv("MEDIABROWSER_LOG_LEVEL"); v != "" {
		c.App.LogLevel = v
	}
	if v := os.Getenv("MEDIABROWSER_LOG_FORMAT"); v != "" {
		c.App.LogFormat = v
	}
	if v := os.Getenv("MEDIABROWSER_LOG_FILE"); v != "" {
		c.App.LogFile = v
	}
}

// Validate validates the configuration and fills in defaults
func (c *Config) Validate() error {
	if c.TMDb.APIKey == "" {
		return fmt.Errorf("tmdb.api_key is required (or set TMDB_API_KEY)")
	}
	if err := validateBaseURL("tmdb.base_url", c.TMDb.BaseURL); err != nil {
		return err
	}
	if err := validateBaseURL("stream.base_url", c.Stream.BaseURL); err != nil {
		return err
	}

	if c.Server.Port == 0 {
		c.Server.Port = defaultPort
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}
	if c.Server.ReadTimeout == 0 {
		c.Server.ReadTimeout = defaultReadTimeout
	}
	if c.Server.WriteTimeout == 0 {
		c.Server.WriteTimeout = defaultWriteTimeout
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}

	if c.HTTP.Timeout == 0 {
		c.HTTP.Timeout = defaultHTTPTimeout
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout must not be negative")
	}

	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	switch strings.ToLower(c.App.LogLevel) {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("app.log_level must be one of debug, info, warn, error")
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "json"
	}
	if c.App.LogFormat != "json" && c.App.LogFormat != "text" {
		return fmt.Errorf("app.log_format must be 'json' or 'text'")
	}

	return nil
}

// validateBaseURL accepts an empty value (use the built-in default) or an absolute http(s) URL.
func validateBaseURL(field, raw string) error {
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s is not a valid URL: %w", field, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must use http or https", field)
	}
	if u.Host == "" {
		return fmt.Errorf("%s is missing host", field)
	}
	return nil
}
