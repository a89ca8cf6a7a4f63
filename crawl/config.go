package crawl

import (
	"fmt"
	"time"

	"github.com/kbukum/corebundle/security"
)

// Config controls a crawl.
type Config struct {
	// MaxDepth is the number of link hops followed from the seeds (default: 3).
	MaxDepth int `mapstructure:"max_depth"`
	// MaxRequests stops the crawl after this many requests (default: 500).
	MaxRequests int `mapstructure:"max_requests"`
	// Delay is the pause between two requests to the same host (default: 100ms).
	Delay time.Duration `mapstructure:"delay"`
	// Timeout bounds a single request (default: 10s).
	Timeout time.Duration `mapstructure:"timeout"`
	// Retries is the number of attempts per URL for transient failures (default: 2).
	Retries int `mapstructure:"retries"`
	// UserAgent is sent with every request.
	UserAgent string `mapstructure:"user_agent"`
	// TLS configures certificate checks against the crawled sites.
	TLS security.TLSConfig `mapstructure:"tls"`
}

// ApplyDefaults sets defaults for zero-valued fields.
func (c *Config) ApplyDefaults() {
	if c.MaxDepth <= 0 {
		c.MaxDepth = 3
	}
	if c.MaxRequests <= 0 {
		c.MaxRequests = 500
	}
	if c.Delay == 0 {
		c.Delay = 100 * time.Millisecond
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	if c.Retries <= 0 {
		c.Retries = 2
	}
	if c.UserAgent == "" {
		c.UserAgent = "contao/crawler"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Delay < 0 {
		return fmt.Errorf("crawl delay must not be negative")
	}
	if err := c.TLS.Validate(); err != nil {
		return fmt.Errorf("crawl: %w", err)
	}
	return nil
}
