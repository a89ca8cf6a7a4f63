package backend

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/auth/authctx"
	apperrors "github.com/kbukum/corebundle/errors"
	"github.com/kbukum/corebundle/fragment"
	"github.com/kbukum/corebundle/server"
	"github.com/kbukum/corebundle/template"
)

// DashboardController renders the backend start page: the dashboard widgets,
// or the backend module named by ?do=.
type DashboardController struct {
	registry   *fragment.Registry
	fragments  *fragment.Renderer
	renderer   template.Renderer
	logoutPath string
}

// NewDashboardController creates the controller.
func NewDashboardController(registry *fragment.Registry, fragments *fragment.Renderer, renderer template.Renderer, logoutPath string) *DashboardController {
	return &DashboardController{registry: registry, fragments: fragments, renderer: renderer, logoutPath: logoutPath}
}

// Show renders the start page for the authenticated user.
func (ctl *DashboardController) Show(c *gin.Context) {
	ctx := c.Request.Context()
	user, err := authctx.GetOrError[*auth.BackendUser](ctx)
	if err != nil {
		server.RespondWithError(c, apperrors.Unauthorized(""))
		return
	}

	var blocks []map[string]any
	if do := c.Query("do"); do != "" {
		if !user.CanAccessModule(do) {
			server.RespondWithError(c, apperrors.Forbidden("Not allowed to access backend module "+do))
			return
		}
		out, ok, err := ctl.fragments.Render(ctx, fragment.GlobalsBackendModules, fragment.Model{Type: do})
		if err != nil {
			server.RespondWithError(c, apperrors.TemplateFailure(err))
			return
		}
		if !ok {
			server.RespondWithError(c, apperrors.NotFound("backend module", do))
			return
		}
		blocks = append(blocks, map[string]any{"name": do, "html": out})
	} else {
		for _, cfg := range ctl.registry.ByTag(fragment.TagDashboardWidget) {
			out, err := ctl.fragments.RenderKey(ctx, cfg.Key, fragment.Model{Type: cfg.Type})
			if err != nil {
				server.RespondWithError(c, apperrors.TemplateFailure(err))
				return
			}
			blocks = append(blocks, map[string]any{"name": cfg.Type, "html": out})
		}
	}

	html, err := ctl.renderer.Render(ctx, mainTemplate, map[string]any{
		"title":  "Contao",
		"user":   user,
		"logout": ctl.logoutPath,
		"blocks": blocks,
	})
	if err != nil {
		server.RespondWithError(c, apperrors.TemplateFailure(err))
		return
	}
	server.RespondHTML(c, http.StatusOK, html)
}

// FragmentController answers the sub-requests of esi includes.
type FragmentController struct {
	fragments *fragment.Renderer
}

// NewFragmentController creates the controller.
func NewFragmentController(fragments *fragment.Renderer) *FragmentController {
	return &FragmentController{fragments: fragments}
}

// Render renders ?key= for the model ?id=. Unknown keys are a silent 404.
func (ctl *FragmentController) Render(c *gin.Context) {
	key := c.Query("key")
	id, err := strconv.Atoi(c.DefaultQuery("id", "0"))
	if key == "" || err != nil {
		server.RespondWithError(c, apperrors.PageNotFound("invalid fragment request"))
		return
	}
	out, err := ctl.fragments.Inline(c.Request.Context(), key, fragment.Model{ID: id})
	if err != nil {
		server.RespondWithError(c, apperrors.PageNotFound("fragment not available").WithCause(err))
		return
	}
	server.RespondHTML(c, http.StatusOK, out)
}
