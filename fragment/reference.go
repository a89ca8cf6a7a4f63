package fragment

// ProxyFactory wraps a fragment constructor so the concrete fragment is
// built on first use.
type ProxyFactory func(key string, build func() (Fragment, error)) Fragment

// Reference identifies one kind of pluggable content.
type Reference struct {
	// Tag is the service tag the kind is declared with.
	Tag string
	// GlobalsKey is the globals table key; empty kinds are not listed there.
	GlobalsKey string
	// TemplatePrefix builds the default template name.
	TemplatePrefix string
	// Proxy, when set, defers construction of the fragment.
	Proxy ProxyFactory
}

// Tags of the built-in fragment kinds.
const (
	TagBackendModule   = "contao.backend_module"
	TagFrontendModule  = "contao.frontend_module"
	TagContentElement  = "contao.content_element"
	TagDashboardWidget = "contao.dashboard_widget"
)

// Globals keys of the built-in fragment kinds.
const (
	GlobalsBackendModules  = "BE_MOD"
	GlobalsFrontendModules = "FE_MOD"
	GlobalsContentElements = "TL_CTE"
)

// BackendModule is the backend module kind.
func BackendModule() Reference {
	return Reference{Tag: TagBackendModule, GlobalsKey: GlobalsBackendModules, TemplatePrefix: "backend/be_"}
}

// FrontendModule is the frontend module kind. Modules are built lazily.
func FrontendModule() Reference {
	return Reference{Tag: TagFrontendModule, GlobalsKey: GlobalsFrontendModules, TemplatePrefix: "module/mod_", Proxy: NewLazy}
}

// ContentElement is the content element kind. Elements are built lazily.
func ContentElement() Reference {
	return Reference{Tag: TagContentElement, GlobalsKey: GlobalsContentElements, TemplatePrefix: "content/ce_", Proxy: NewLazy}
}

// DashboardWidget is the dashboard widget kind. It has no globals entry.
func DashboardWidget() Reference {
	return Reference{Tag: TagDashboardWidget, TemplatePrefix: "backend/be_"}
}

// References returns the built-in kinds in registration order.
func References() []Reference {
	return []Reference{BackendModule(), FrontendModule(), ContentElement(), DashboardWidget()}
}
