package picker

// Builder creates pickers for the contexts it supports.
type Builder interface {
	// Create returns a picker for cfg, or false when cfg is not supported.
	Create(cfg Config) (*Picker, bool)
	// CreateFromData resumes a picker from a URLEncode token.
	CreateFromData(data string) (*Picker, bool)
	// SupportsContext reports whether the builder handles context. A non-nil
	// allowed list restricts the providers that may be considered.
	SupportsContext(context string, allowed []string) bool
	// URL returns the picker URL for the arguments. It must be pure.
	URL(context string, extras map[string]any, value string) string
}
