package picker

// MenuItem is one provider tab in the picker navigation.
type MenuItem struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Current bool   `json:"current"`
}

// Picker is a resolved picker: a config plus the providers serving it.
type Picker struct {
	cfg       Config
	providers []Provider
	current   Provider
}

// NewPicker creates a picker. The current provider is the one named by
// cfg.Current, else the first whose SupportsValue holds, else the first.
func NewPicker(cfg Config, providers []Provider) *Picker {
	p := &Picker{cfg: cfg, providers: providers}
	p.current = p.pickCurrent()
	return p
}

func (p *Picker) pickCurrent() Provider {
	if len(p.providers) == 0 {
		return nil
	}
	if p.cfg.Current != "" {
		for _, prov := range p.providers {
			if prov.Name() == p.cfg.Current {
				return prov
			}
		}
	}
	for _, prov := range p.providers {
		if prov.SupportsValue(p.cfg) {
			return prov
		}
	}
	return p.providers[0]
}

// Config returns the picker configuration.
func (p *Picker) Config() Config { return p.cfg }

// Providers returns the providers serving this picker.
func (p *Picker) Providers() []Provider { return p.providers }

// Current returns the active provider, or nil for an empty picker.
func (p *Picker) Current() Provider { return p.current }

// Menu lists every provider with its URL.
func (p *Picker) Menu() []MenuItem {
	items := make([]MenuItem, 0, len(p.providers))
	for _, prov := range p.providers {
		items = append(items, MenuItem{
			Name:    prov.Name(),
			URL:     prov.URL(p.cfg),
			Current: p.current != nil && prov.Name() == p.current.Name(),
		})
	}
	return items
}

// CurrentURL returns the URL of the active provider, or "".
func (p *Picker) CurrentURL() string {
	if p.current == nil {
		return ""
	}
	return p.current.URL(p.cfg)
}
