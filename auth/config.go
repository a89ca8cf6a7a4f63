package auth

import (
	"fmt"

	"github.com/kbukum/corebundle/auth/jwt"
	"github.com/kbukum/corebundle/auth/password"
)

// Config holds authentication configuration.
type Config struct {
	// JWT configures token signing for the backend session and preview.
	JWT jwt.Config `mapstructure:"jwt"`

	// Password configures backend password hashing.
	Password password.Config `mapstructure:"password"`

	// BackendCookie is the name of the backend session cookie.
	BackendCookie string `mapstructure:"backend_cookie"`

	// PreviewCookie is the name of the frontend preview cookie.
	PreviewCookie string `mapstructure:"preview_cookie"`

	// LoginPath is where unauthenticated backend requests are sent.
	LoginPath string `mapstructure:"login_path" validate:"urlpath"`
}

// ApplyDefaults sets sensible defaults.
func (c *Config) ApplyDefaults() {
	c.JWT.ApplyDefaults()
	c.Password.ApplyDefaults()
	if c.BackendCookie == "" {
		c.BackendCookie = "contao_backend"
	}
	if c.PreviewCookie == "" {
		c.PreviewCookie = "contao_preview"
	}
	if c.LoginPath == "" {
		c.LoginPath = "/contao/login"
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if err := c.JWT.Validate(); err != nil {
		return fmt.Errorf("auth.jwt: %w", err)
	}
	if err := c.Password.Validate(); err != nil {
		return fmt.Errorf("auth.password: %w", err)
	}
	if c.BackendCookie == c.PreviewCookie {
		return fmt.Errorf("auth: backend_cookie and preview_cookie must differ")
	}
	return nil
}

// Describe returns a one-liner for the startup summary.
func (c *Config) Describe() string {
	return fmt.Sprintf("JWT(%s) TTL=%s password=%s", c.JWT.Method, c.JWT.AccessTokenTTL, c.Password.Algorithm)
}
