package httpclient

import (
	"fmt"
	"net/url"
	"time"
)

const (
	// DefaultTimeout bounds ordinary requests.
	DefaultTimeout = 30 * time.Second
	// DefaultUploadTimeout bounds file uploads.
	DefaultUploadTimeout = 120 * time.Second
)

// Config configures the HTTP client.
type Config struct {
	// BaseURL is the backend origin prepended to all request paths.
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout bounds one ordinary request attempt. Defaults to 30s.
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// UploadTimeout bounds one upload attempt. Defaults to 120s.
	UploadTimeout time.Duration `yaml:"upload_timeout" mapstructure:"upload_timeout"`

	// UserAgent is sent with every request when set.
	UserAgent string `yaml:"user_agent" mapstructure:"user_agent"`

	// Headers are default headers applied to all requests.
	Headers map[string]string `yaml:"headers" mapstructure:"headers"`
}

// ApplyDefaults fills in zero-value fields with sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UploadTimeout <= 0 {
		c.UploadTimeout = DefaultUploadTimeout
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	if c.UploadTimeout <= 0 {
		return fmt.Errorf("httpclient: upload timeout must be positive")
	}
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("httpclient: invalid base url: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return fmt.Errorf("httpclient: base url must be http or https, got %q", c.BaseURL)
		}
	}
	return nil
}
