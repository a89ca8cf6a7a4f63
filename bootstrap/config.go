package bootstrap

import (
	"fmt"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/config"
	"github.com/kbukum/corebundle/crawl"
	"github.com/kbukum/corebundle/database"
	"github.com/kbukum/corebundle/observability"
	"github.com/kbukum/corebundle/server"
	"github.com/kbukum/corebundle/template"
	"github.com/kbukum/corebundle/validation"
)

// Config constrains the config type of App. Any struct embedding
// config.ServiceConfig gets GetServiceConfig promoted.
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}

// PickerConfig orders the picker builders.
type PickerConfig struct {
	// Order lists builder names asked first; the rest follow in
	// registration order.
	Order []string `mapstructure:"order"`
}

// BackendConfig holds settings of the built-in backend fragments.
type BackendConfig struct {
	// PreviewURL is the frontend preview entry point.
	PreviewURL string `mapstructure:"preview_url" validate:"urlpath"`
	// VersionsLimit bounds the dashboard version list.
	VersionsLimit int `mapstructure:"versions_limit" validate:"gte=1,lte=100"`
}

// SearchConfig controls the search index.
type SearchConfig struct {
	// Disabled drops the database indexer, which removes the search index
	// crawl subscriber as well.
	Disabled bool `mapstructure:"disabled"`
}

// AppConfig is the configuration of the corebundle service.
type AppConfig struct {
	config.ServiceConfig `mapstructure:",squash"`

	Server        server.Config        `mapstructure:"server"`
	Database      database.Config      `mapstructure:"database"`
	Auth          auth.Config          `mapstructure:"auth"`
	Templates     template.Config      `mapstructure:"templates"`
	Picker        PickerConfig         `mapstructure:"picker"`
	Backend       BackendConfig        `mapstructure:"backend"`
	Search        SearchConfig         `mapstructure:"search"`
	Crawl         crawl.Config         `mapstructure:"crawl"`
	Observability observability.Config `mapstructure:"observability"`
}

// ApplyDefaults fills every section.
func (c *AppConfig) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Templates.ApplyDefaults()
	c.Crawl.ApplyDefaults()
	if c.Observability.Environment == "" {
		c.Observability.Environment = c.Environment
	}
	c.Observability.ApplyDefaults()
	if c.Backend.PreviewURL == "" {
		c.Backend.PreviewURL = "/preview.php"
	}
	if c.Backend.VersionsLimit == 0 {
		c.Backend.VersionsLimit = 10
	}
	if c.Debug {
		c.Templates.Debug = true
	}
}

// Validate checks every section, then the struct tags.
func (c *AppConfig) Validate() error {
	sections := []struct {
		name string
		fn   func() error
	}{
		{"service", c.ServiceConfig.Validate},
		{"server", c.Server.Validate},
		{"database", c.Database.Validate},
		{"auth", c.Auth.Validate},
		{"templates", c.Templates.Validate},
		{"crawl", c.Crawl.Validate},
		{"observability", c.Observability.Validate},
	}
	for _, s := range sections {
		if err := s.fn(); err != nil {
			return fmt.Errorf("%s: %w", s.name, err)
		}
	}
	return validation.Struct(c)
}

// LoadConfig reads the service configuration. CONTAO_ variables override
// the file.
func LoadConfig(serviceName string, opts ...config.LoaderOption) (*AppConfig, error) {
	cfg := &AppConfig{}
	opts = append([]config.LoaderOption{config.WithEnvPrefix("CONTAO")}, opts...)
	if err := config.Load(serviceName, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	return cfg, nil
}
