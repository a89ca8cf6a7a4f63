package fragment

import (
	"strings"
	"unicode"
)

// Renderer strategies.
const (
	RendererForward = "forward"
	RendererInline  = "inline"
	RendererESI     = "esi"
)

// DefaultCategory is used when a tag declares no category.
const DefaultCategory = "miscellaneous"

// Config is the registered configuration of one fragment.
type Config struct {
	// Key is "<tag>.<type>".
	Key string `json:"key" yaml:"key"`
	// ServiceID is the definition the fragment is built from.
	ServiceID string `json:"service" yaml:"service"`
	Tag       string `json:"tag" yaml:"tag"`
	Type      string `json:"type" yaml:"type"`
	Category  string `json:"category" yaml:"category"`
	Template  string `json:"template" yaml:"template"`
	Renderer  string `json:"renderer" yaml:"renderer"`
	// Method is an optional handler name passed to the fragment.
	Method   string `json:"method,omitempty" yaml:"method,omitempty"`
	Priority int    `json:"priority" yaml:"priority"`
	// Lazy is set when the fragment is wrapped in a proxy.
	Lazy bool `json:"lazy" yaml:"lazy"`
}

// TypeFromName derives a fragment type from a Go type name:
// "PreviewLinksController" becomes "preview_links".
func TypeFromName(name string) string {
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	name = strings.TrimPrefix(name, "*")
	name = strings.TrimSuffix(name, "Controller")

	var b strings.Builder
	runes := []rune(name)
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// Split before an upper-case rune that starts a new word.
			if i > 0 && (unicode.IsLower(runes[i-1]) || unicode.IsDigit(runes[i-1]) ||
				(i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
