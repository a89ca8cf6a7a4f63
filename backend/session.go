package backend

import (
	"fmt"
	"net/http"
	"time"
)

// SessionConfig describes the backend session cookie.
type SessionConfig struct {
	Cookie    string
	TTL       time.Duration
	Secure    bool
	LoginPath string
	// HomePath is where a successful login lands.
	HomePath string
}

// ApplyDefaults sets sensible defaults.
func (c *SessionConfig) ApplyDefaults() {
	if c.Cookie == "" {
		c.Cookie = "contao_backend"
	}
	if c.TTL == 0 {
		c.TTL = 8 * time.Hour
	}
	if c.LoginPath == "" {
		c.LoginPath = "/contao/login"
	}
	if c.HomePath == "" {
		c.HomePath = "/contao"
	}
}

// Validate checks the configuration.
func (c *SessionConfig) Validate() error {
	if c.TTL < 0 {
		return fmt.Errorf("backend: session ttl must be non-negative (got %s)", c.TTL)
	}
	return nil
}

func (c SessionConfig) cookie(value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     c.Cookie,
		Value:    value,
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true,
		Secure:   c.Secure,
		SameSite: http.SameSiteLaxMode,
	}
}
