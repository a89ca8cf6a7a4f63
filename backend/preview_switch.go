package backend

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/auth/authctx"
	apperrors "github.com/kbukum/corebundle/errors"
	"github.com/kbukum/corebundle/logger"
	"github.com/kbukum/corebundle/preview"
	"github.com/kbukum/corebundle/server"
	"github.com/kbukum/corebundle/template"
)

// Form submit identifiers of the preview switch.
const (
	FormSwitch   = "tl_switch"
	FormDatalist = "datalist_members"
)

// ToolbarTemplate is the template the toolbar sections are wrapped in.
const ToolbarTemplate = "frontend_preview/toolbar"

// ToolbarProviders lists the toolbar sections in display order.
type ToolbarProviders interface {
	Providers() []preview.ToolbarProvider
}

// PreviewAuthenticator switches the frontend preview identity.
type PreviewAuthenticator interface {
	AuthenticateFrontendUser(ctx context.Context, w http.ResponseWriter, username string, showUnpublished bool) (bool, error)
	AuthenticateFrontendGuest(ctx context.Context, w http.ResponseWriter, showUnpublished bool) error
}

// PreviewState reads the current preview identity from a request.
type PreviewState interface {
	Claims(r *http.Request) (*auth.PreviewClaims, bool)
	FrontendUsername(r *http.Request) string
}

// MemberLister lists member usernames for the switch datalist.
type MemberLister interface {
	DatalistUsernames(ctx context.Context, user *auth.BackendUser, prefix string) ([]string, error)
}

// ToolbarSection is one rendered toolbar section.
type ToolbarSection struct {
	Name string `json:"name"`
	HTML string `json:"html"`
}

// PreviewSwitchController serves the frontend preview toolbar: GET renders
// it, POST switches the previewed member or lists members. Only
// XMLHttpRequests from backend users get an answer; everything else is a
// 404 without body.
type PreviewSwitchController struct {
	providers     ToolbarProviders
	renderer      template.Renderer
	authenticator PreviewAuthenticator
	state         PreviewState
	members       MemberLister
	log           *logger.Logger
}

// NewPreviewSwitchController creates the controller.
func NewPreviewSwitchController(providers ToolbarProviders, renderer template.Renderer, authenticator PreviewAuthenticator, state PreviewState, members MemberLister) *PreviewSwitchController {
	return &PreviewSwitchController{
		providers:     providers,
		renderer:      renderer,
		authenticator: authenticator,
		state:         state,
		members:       members,
		log:           logger.Get("backend").WithComponent("preview_switch"),
	}
}

// Handle serves every method on the preview switch route.
func (ctl *PreviewSwitchController) Handle(c *gin.Context) {
	user, ok := authctx.Get[*auth.BackendUser](c.Request.Context())
	if !ok || user == nil || user.Username == "" || c.GetHeader("X-Requested-With") != "XMLHttpRequest" {
		server.RespondWithError(c, apperrors.PageNotFound("Bad response"))
		return
	}

	if c.Request.Method == http.MethodGet {
		ctl.toolbar(c, user)
		return
	}

	switch c.PostForm("FORM_SUBMIT") {
	case FormSwitch:
		ctl.switchPreview(c, user)
	case FormDatalist:
		ctl.datalist(c, user)
	default:
		server.RespondEmpty(c, http.StatusBadRequest)
	}
}

// Toolbar renders the sections of every provider supporting user, in
// registration order.
func (ctl *PreviewSwitchController) Toolbar(ctx context.Context, user *auth.BackendUser) (string, error) {
	providers := ctl.providers.Providers()
	sections := make([]ToolbarSection, 0, len(providers))
	byName := make(map[string]string, len(providers))
	for _, p := range providers {
		if !p.Supports(user) {
			continue
		}
		out, err := p.RenderToolbarSection(ctx, user)
		if err != nil {
			return "", apperrors.TemplateFailure(err).WithDetail(logger.FieldProvider, p.Name())
		}
		sections = append(sections, ToolbarSection{Name: p.Name(), HTML: out})
		byName[p.Name()] = out
	}

	data := map[string]any{
		"sections":    sectionData(sections),
		"section_map": byName,
	}
	html, err := ctl.renderer.Render(ctx, ToolbarTemplate, data)
	if err != nil {
		return "", apperrors.TemplateFailure(err)
	}
	return html, nil
}

func (ctl *PreviewSwitchController) toolbar(c *gin.Context, user *auth.BackendUser) {
	ctx := c.Request.Context()
	if claims, ok := ctl.state.Claims(c.Request); ok {
		ctx = preview.ContextWithClaims(ctx, claims)
	}

	html, err := ctl.Toolbar(ctx, user)
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	server.RespondHTML(c, http.StatusOK, html)
}

func (ctl *PreviewSwitchController) switchPreview(c *gin.Context, user *auth.BackendUser) {
	ctx := c.Request.Context()
	username := ctl.state.FrontendUsername(c.Request)
	if user.CanAccessMembers() {
		username = c.PostForm("user")
	}
	showUnpublished := c.PostForm("unpublished") != "hide"

	if username == "" {
		if err := ctl.authenticator.AuthenticateFrontendGuest(ctx, c.Writer, showUnpublished); err != nil {
			server.RespondWithError(c, apperrors.Internal(err))
			return
		}
		server.RespondEmpty(c, http.StatusOK)
		return
	}

	ok, err := ctl.authenticator.AuthenticateFrontendUser(ctx, c.Writer, username, showUnpublished)
	if err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}
	if !ok {
		ctl.log.WithContext(ctx).Info("Preview switch ignored", map[string]interface{}{
			logger.FieldUser: username,
			"backend_user":   user.Username,
		})
	}
	server.RespondEmpty(c, http.StatusOK)
}

func (ctl *PreviewSwitchController) datalist(c *gin.Context, user *auth.BackendUser) {
	names, err := ctl.members.DatalistUsernames(c.Request.Context(), user, c.PostForm("value"))
	if err != nil {
		server.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, names)
}

// sectionData converts sections into the maps the template engine reads.
func sectionData(sections []ToolbarSection) []map[string]any {
	out := make([]map[string]any, len(sections))
	for i, s := range sections {
		out[i] = map[string]any{"name": s.Name, "html": s.HTML}
	}
	return out
}
