package template

import "fmt"

// Config configures the template engine.
type Config struct {
	// Dir is an optional override directory searched before the embedded templates.
	Dir string `mapstructure:"dir"`

	// CacheSize bounds the number of compiled templates kept (default: 128).
	CacheSize int `mapstructure:"cache_size"`

	// Extension is appended to template names (default: ".html").
	Extension string `mapstructure:"extension"`

	// Debug disables the compiled template cache.
	Debug bool `mapstructure:"debug"`
}

// ApplyDefaults sets sensible defaults.
func (c *Config) ApplyDefaults() {
	if c.CacheSize == 0 {
		c.CacheSize = 128
	}
	if c.Extension == "" {
		c.Extension = ".html"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.CacheSize < 1 {
		return fmt.Errorf("template: cache_size must be positive (got %d)", c.CacheSize)
	}
	return nil
}
