package preview

import (
	"github.com/kbukum/corebundle/provider"
)

// Manager holds the toolbar providers in registration order.
type Manager struct {
	providers *provider.Registry[ToolbarProvider]
}

// NewManager creates an empty manager.
func NewManager() *Manager {
	return &Manager{providers: provider.NewRegistry[ToolbarProvider]()}
}

// AddProvider registers p, replacing any provider with the same name in place.
func (m *Manager) AddProvider(p ToolbarProvider) error {
	return m.providers.Add(p)
}

// Providers returns every provider in registration order.
func (m *Manager) Providers() []ToolbarProvider {
	return m.providers.All()
}

// ProviderNames returns the provider names in registration order.
func (m *Manager) ProviderNames() []string {
	return m.providers.Names()
}

// Provider returns the provider named name.
func (m *Manager) Provider(name string) (ToolbarProvider, bool) {
	return m.providers.Get(name)
}

// Templates maps each provider name to its template name.
func (m *Manager) Templates() map[string]string {
	all := m.providers.All()
	out := make(map[string]string, len(all))
	for _, p := range all {
		out[p.Name()] = p.TemplateName()
	}
	return out
}

// Freeze rejects further registrations.
func (m *Manager) Freeze() {
	m.providers.Freeze()
}
