package di

// ServiceNames lists the well-known service IDs of the bundle. Compiler
// passes and factories refer to services through these names only.
type ServiceNames struct {
	// Core infrastructure
	Config    string
	Database  string
	Renderer  string
	Sanitizer string

	// Repositories
	Members  string
	Users    string
	Versions string

	// Security
	BackendTokens  string
	PreviewTokens  string
	PasswordHasher string

	// Picker
	PickerBuilder  string
	PickerResolver string

	// Frontend preview
	PreviewManager       string
	PreviewAuthenticator string
	PreviewTokenChecker  string

	// Fragments
	FragmentRegistry string
	FragmentRenderer string

	// Search and crawl
	SearchIndexer         string
	Crawler               string
	SearchIndexSubscriber string
}

// Services contains the bundle's service IDs.
var Services = ServiceNames{
	// Core infrastructure
	Config:    "config",
	Database:  "database",
	Renderer:  "contao.template.renderer",
	Sanitizer: "contao.html_sanitizer",

	// Repositories
	Members:  "contao.repository.member",
	Users:    "contao.repository.user",
	Versions: "contao.repository.version",

	// Security
	BackendTokens:  "contao.security.backend_tokens",
	PreviewTokens:  "contao.security.preview_tokens",
	PasswordHasher: "contao.security.password_hasher",

	// Picker
	PickerBuilder:  "contao.picker.builder",
	PickerResolver: "contao.picker.resolver",

	// Frontend preview
	PreviewManager:       "contao.frontend_preview.provider_manager",
	PreviewAuthenticator: "contao.security.frontend_preview_authenticator",
	PreviewTokenChecker:  "contao.security.token_checker",

	// Fragments
	FragmentRegistry: "contao.fragment.registry",
	FragmentRenderer: "contao.fragment.renderer",

	// Search and crawl
	SearchIndexer:         "contao.search.indexer",
	Crawler:               "contao.crawl.escargot_factory",
	SearchIndexSubscriber: "contao.crawl.escargot_subscriber.search_index",
}
