package provider

// Named is anything registered under a unique name.
type Named interface {
	// Name returns the entry's unique name.
	Name() string
}
