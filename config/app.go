package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"time"
)

// ServiceName is the name used for config file lookup and telemetry.
const ServiceName = "studyhub"

// Credential backend identifiers.
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
	BackendNone   = "none"
)

const (
	defaultBaseURL       = "http://localhost:8080"
	defaultTimeout       = 30 * time.Second
	defaultUploadTimeout = 120 * time.Second
	defaultTokenKey      = "access_token"
)

// Config is the complete studyhub client configuration.
type Config struct {
	ServiceConfig `yaml:",inline" mapstructure:",squash"`

	API         APIConfig        `yaml:"api" mapstructure:"api"`
	Credentials CredentialConfig `yaml:"credentials" mapstructure:"credentials"`
	Telemetry   TelemetryConfig  `yaml:"telemetry" mapstructure:"telemetry"`
}

// APIConfig configures the backend connection.
type APIConfig struct {
	// BaseURL is the single backend origin all endpoints are resolved against.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	// Timeout bounds ordinary requests. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`
	// UploadTimeout bounds multipart uploads. Defaults to 120s.
	UploadTimeout time.Duration `yaml:"upload_timeout" mapstructure:"upload_timeout"`
	// UserAgent is sent with every request when set.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`
}

// CredentialConfig selects where the access token is persisted.
type CredentialConfig struct {
	// Backend is one of file, sqlite, memory, none. Defaults to file.
	Backend string `yaml:"backend" mapstructure:"backend"`
	// Path is the file or database location for file and sqlite backends.
	Path string `yaml:"path" mapstructure:"path"`
	// Key is the persisted key holding the token. Defaults to access_token.
	Key string `yaml:"key" mapstructure:"key"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	Enabled        bool          `yaml:"enabled" mapstructure:"enabled"`
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = ServiceName
	}
	c.ServiceConfig.ApplyDefaults()

	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	if c.API.Timeout <= 0 {
		c.API.Timeout = defaultTimeout
	}
	if c.API.UploadTimeout <= 0 {
		c.API.UploadTimeout = defaultUploadTimeout
	}

	if c.Credentials.Backend == "" {
		c.Credentials.Backend = BackendFile
	}
	if c.Credentials.Key == "" {
		c.Credentials.Key = defaultTokenKey
	}
	if c.Credentials.Path == "" {
		c.Credentials.Path = defaultCredentialPath(c.Name, c.Credentials.Backend)
	}

	if c.Telemetry.Endpoint == "" {
		c.Telemetry.Endpoint = "localhost:4318"
	}
	if c.Telemetry.SampleRate <= 0 {
		c.Telemetry.SampleRate = 1.0
	}
	if c.Telemetry.MetricInterval <= 0 {
		c.Telemetry.MetricInterval = 15 * time.Second
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}

	u, err := url.Parse(c.API.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("config.api.base_url must be an absolute URL (got: %q)", c.API.BaseURL)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("config.api.base_url must use http or https (got: %s)", u.Scheme)
	}
	if c.API.Timeout <= 0 || c.API.UploadTimeout <= 0 {
		return fmt.Errorf("config.api timeouts must be positive")
	}

	backends := []string{BackendFile, BackendSQLite, BackendMemory, BackendNone}
	if !slices.Contains(backends, c.Credentials.Backend) {
		return fmt.Errorf("config.credentials.backend must be one of %v (got: %s)", backends, c.Credentials.Backend)
	}
	if (c.Credentials.Backend == BackendFile || c.Credentials.Backend == BackendSQLite) && c.Credentials.Path == "" {
		return fmt.Errorf("config.credentials.path is required for the %s backend", c.Credentials.Backend)
	}

	if c.Telemetry.SampleRate > 1 {
		return fmt.Errorf("config.telemetry.sample_rate must be within (0, 1] (got: %v)", c.Telemetry.SampleRate)
	}
	return nil
}

// defaultCredentialPath places credentials under the user config directory.
func defaultCredentialPath(service, backend string) string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	switch backend {
	case BackendFile:
		return filepath.Join(dir, service, "credentials.toml")
	case BackendSQLite:
		return filepath.Join(dir, service, "credentials.db")
	default:
		return ""
	}
}
