package preview

import (
	"context"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/template"
)

// MemberSwitchProvider renders the "preview as member" form.
type MemberSwitchProvider struct {
	renderer template.Renderer
	action   string
}

var _ ToolbarProvider = (*MemberSwitchProvider)(nil)

// NewMemberSwitchProvider creates the provider. action is the form target.
func NewMemberSwitchProvider(renderer template.Renderer, action string) *MemberSwitchProvider {
	return &MemberSwitchProvider{renderer: renderer, action: action}
}

func (p *MemberSwitchProvider) Name() string { return "member_switch" }

func (p *MemberSwitchProvider) TemplateName() string { return "frontend_preview/member_switch" }

// Supports offers the form to every backend user; whether the member field
// is editable is decided while rendering.
func (p *MemberSwitchProvider) Supports(user *auth.BackendUser) bool {
	return user != nil && user.Username != ""
}

// RenderToolbarSection renders the form with the current preview state.
func (p *MemberSwitchProvider) RenderToolbarSection(ctx context.Context, user *auth.BackendUser) (string, error) {
	data := map[string]any{
		"action":           p.action,
		"can_switch":       user.CanAccessMembers(),
		"username":         "",
		"show_unpublished": false,
		"placeholder":      "Username",
	}
	if claims, ok := ClaimsFromContext(ctx); ok {
		data["username"] = claims.FrontendUsername
		data["show_unpublished"] = claims.ShowUnpublished
	}
	return p.renderer.Render(ctx, p.TemplateName(), data)
}
