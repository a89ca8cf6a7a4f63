package picker

import (
	"encoding/json"
	"net/url"
	"slices"

	"github.com/kbukum/corebundle/provider"
)

// ProviderBuilder builds pickers from registered providers.
type ProviderBuilder struct {
	providers *provider.Registry[Provider]
	pickerURL string
}

var _ Builder = (*ProviderBuilder)(nil)

// NewProviderBuilder creates a builder whose URLs point at pickerURL.
func NewProviderBuilder(pickerURL string) *ProviderBuilder {
	return &ProviderBuilder{
		providers: provider.NewRegistry[Provider](),
		pickerURL: pickerURL,
	}
}

// AddProvider registers a provider.
func (b *ProviderBuilder) AddProvider(p Provider) error {
	return b.providers.Add(p)
}

// Providers returns the registered providers in order.
func (b *ProviderBuilder) Providers() []Provider {
	return b.providers.All()
}

// Freeze rejects further providers.
func (b *ProviderBuilder) Freeze() { b.providers.Freeze() }

// Create returns a picker with every provider supporting cfg.Context. The
// "providers" extra limits the candidates by name.
func (b *ProviderBuilder) Create(cfg Config) (*Picker, bool) {
	allowed := allowedProviders(cfg.Extras)
	matching := b.matching(cfg.Context, allowed)
	if len(matching) == 0 {
		return nil, false
	}
	return NewPicker(cfg, matching), true
}

// CreateFromData decodes data and calls Create.
func (b *ProviderBuilder) CreateFromData(data string) (*Picker, bool) {
	cfg, err := ConfigFromData(data)
	if err != nil {
		return nil, false
	}
	return b.Create(cfg)
}

// SupportsContext reports whether any allowed provider serves context.
func (b *ProviderBuilder) SupportsContext(context string, allowed []string) bool {
	return len(b.matching(context, allowed)) > 0
}

// URL returns the picker URL, or "" when the context is unsupported. Extras
// are JSON-encoded with sorted keys so equal input gives equal output.
func (b *ProviderBuilder) URL(context string, extras map[string]any, value string) string {
	if !b.SupportsContext(context, allowedProviders(extras)) {
		return ""
	}
	q := url.Values{}
	q.Set("context", context)
	if len(extras) > 0 {
		raw, err := json.Marshal(extras)
		if err != nil {
			return ""
		}
		q.Set("extras", string(raw))
	}
	if value != "" {
		q.Set("value", value)
	}
	return b.pickerURL + "?" + q.Encode()
}

func (b *ProviderBuilder) matching(context string, allowed []string) []Provider {
	var out []Provider
	for _, p := range b.providers.All() {
		if allowed != nil && !slices.Contains(allowed, p.Name()) {
			continue
		}
		if p.SupportsContext(context) {
			out = append(out, p)
		}
	}
	return out
}

func allowedProviders(extras map[string]any) []string {
	raw, ok := extras["providers"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case []string:
		return v
	case []any:
		names := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				names = append(names, s)
			}
		}
		return names
	}
	return nil
}
