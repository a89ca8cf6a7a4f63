package preview

import (
	"context"

	"github.com/kbukum/corebundle/auth"
)

// ToolbarProvider contributes one section to the preview toolbar.
type ToolbarProvider interface {
	// Name is the unique section name.
	Name() string
	// TemplateName is the template the section renders with.
	TemplateName() string
	// Supports reports whether the section is offered to user. Unsupported
	// providers are left out of the toolbar.
	Supports(user *auth.BackendUser) bool
	// RenderToolbarSection renders the section HTML for user.
	RenderToolbarSection(ctx context.Context, user *auth.BackendUser) (string, error)
}
