package picker

import (
	"net/url"
	"regexp"
	"slices"
	"strings"
)

// Provider contributes one tab to a picker, e.g. the page tree or the file
// manager.
type Provider interface {
	Name() string
	// SupportsContext reports whether the provider serves context.
	SupportsContext(context string) bool
	// SupportsValue reports whether cfg.Value points into this provider.
	SupportsValue(cfg Config) bool
	// URL returns the backend URL showing this provider for cfg.
	URL(cfg Config) string
}

// TableProvider is a provider backed by one backend module. It serves the
// "link" context plus its own contexts and recognizes values by insert tag.
type TableProvider struct {
	name      string
	module    string
	contexts  []string
	insertTag *regexp.Regexp
	plain     func(value string) bool
	backend   string
}

var _ Provider = (*TableProvider)(nil)

// Name returns the provider name.
func (p *TableProvider) Name() string { return p.name }

// SupportsContext reports whether the provider serves context.
func (p *TableProvider) SupportsContext(context string) bool {
	return slices.Contains(p.contexts, context)
}

// SupportsValue reports whether cfg.Value belongs to this provider. In the
// link context only insert tags count; otherwise plain values do too.
func (p *TableProvider) SupportsValue(cfg Config) bool {
	if cfg.Value == "" {
		return false
	}
	if p.insertTag != nil && p.insertTag.MatchString(cfg.Value) {
		return true
	}
	if cfg.Context == "link" || p.plain == nil {
		return false
	}
	return p.plain(cfg.Value)
}

// URL returns the backend module URL with the encoded picker config.
func (p *TableProvider) URL(cfg Config) string {
	q := url.Values{}
	q.Set("do", p.module)
	q.Set("popup", "1")
	if token, err := cfg.WithCurrent(p.name).URLEncode(); err == nil {
		q.Set("picker", token)
	}
	return p.backend + "?" + q.Encode()
}

// NewPageProvider serves the page tree.
func NewPageProvider(backend string) *TableProvider {
	return &TableProvider{
		name:      "pagePicker",
		module:    "page",
		contexts:  []string{"page", "link"},
		insertTag: regexp.MustCompile(`^\{\{link_url::\d+\}\}$`),
		plain:     isNumeric,
		backend:   backend,
	}
}

// NewFileProvider serves the file manager.
func NewFileProvider(backend string) *TableProvider {
	return &TableProvider{
		name:      "filePicker",
		module:    "files",
		contexts:  []string{"file", "link"},
		insertTag: regexp.MustCompile(`^\{\{file::[^}]+\}\}$`),
		plain: func(v string) bool {
			return strings.Contains(v, "/") || strings.Contains(v, ".")
		},
		backend: backend,
	}
}

// NewArticleProvider serves articles.
func NewArticleProvider(backend string) *TableProvider {
	return &TableProvider{
		name:      "articlePicker",
		module:    "article",
		contexts:  []string{"article", "link"},
		insertTag: regexp.MustCompile(`^\{\{article_url::\d+\}\}$`),
		plain:     isNumeric,
		backend:   backend,
	}
}

func isNumeric(v string) bool {
	if v == "" {
		return false
	}
	for _, r := range v {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
