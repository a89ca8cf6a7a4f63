package picker

import (
	"bytes"
	"compress/gzip"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"maps"
)

// Config is the per-request picker configuration.
type Config struct {
	// Context is the picker context, e.g. "page", "file" or "link".
	Context string `json:"context"`
	// Extras are context-specific options such as fieldType or source.
	Extras map[string]any `json:"extras,omitempty"`
	// Value is the current field value.
	Value string `json:"value,omitempty"`
	// Current is the name of the provider the picker was opened on.
	Current string `json:"current,omitempty"`
}

// Extra returns the extras entry for key.
func (c Config) Extra(key string) (any, bool) {
	v, ok := c.Extras[key]
	return v, ok
}

// ExtraString returns a string extra or "" when missing.
func (c Config) ExtraString(key string) string {
	if s, ok := c.Extras[key].(string); ok {
		return s
	}
	return ""
}

// Clone returns a copy with its own extras map.
func (c Config) Clone() Config {
	out := c
	out.Extras = maps.Clone(c.Extras)
	return out
}

// WithCurrent returns a copy pointing at provider name.
func (c Config) WithCurrent(name string) Config {
	out := c.Clone()
	out.Current = name
	return out
}

// URLEncode serializes the config into a URL-safe token. ConfigFromData
// reverses it.
func (c Config) URLEncode() (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("picker: encode config: %w", err)
	}

	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		return "", fmt.Errorf("picker: compress config: %w", err)
	}
	if err := zw.Close(); err != nil {
		return "", fmt.Errorf("picker: compress config: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf.Bytes()), nil
}

// ConfigFromData decodes a token produced by URLEncode.
func ConfigFromData(data string) (Config, error) {
	compressed, err := base64.RawURLEncoding.DecodeString(data)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	zr, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	var cfg Config
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidData, err)
	}
	if cfg.Context == "" {
		return Config{}, fmt.Errorf("%w: missing context", ErrInvalidData)
	}
	return cfg, nil
}

// ParseExtras decodes the extras query parameter. An empty string yields an
// empty map; anything that is not a JSON object is ErrInvalidExtras.
func ParseExtras(raw string) (map[string]any, error) {
	if raw == "" {
		return map[string]any{}, nil
	}
	var extras map[string]any
	if err := json.Unmarshal([]byte(raw), &extras); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidExtras, err)
	}
	if extras == nil {
		return nil, fmt.Errorf("%w: null", ErrInvalidExtras)
	}
	return extras, nil
}
