package backend

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/auth/authctx"
	"github.com/kbukum/corebundle/auth/jwt"
	"github.com/kbukum/corebundle/auth/password"
	apperrors "github.com/kbukum/corebundle/errors"
	"github.com/kbukum/corebundle/logger"
	"github.com/kbukum/corebundle/picker"
	"github.com/kbukum/corebundle/repository"
	"github.com/kbukum/corebundle/server"
	"github.com/kbukum/corebundle/template"
	"github.com/kbukum/corebundle/validation"
)

const (
	loginTemplate = "backend/be_login"
	mainTemplate  = "backend/be_main"

	// tl_user.username is a varchar(64).
	maxUsername = 64
)

// PickerFactory creates a picker for a configuration.
type PickerFactory interface {
	Create(cfg picker.Config) (*picker.Picker, bool)
}

// UserStore loads backend users.
type UserStore interface {
	FindByUsername(ctx context.Context, username string) (*repository.User, error)
	UpdatePassword(ctx context.Context, id uint, hash string) error
}

// PreviewLogout drops the frontend preview identity.
type PreviewLogout interface {
	RemoveFrontendAuthentication(w http.ResponseWriter)
}

// Deps are the collaborators of BackendController.
type Deps struct {
	Pickers  PickerFactory
	Users    UserStore
	Hasher   *password.Hasher
	Tokens   *jwt.Service[*auth.BackendClaims]
	Preview  PreviewLogout
	Renderer template.Renderer
	Session  SessionConfig
}

// BackendController serves the picker entry point, login and logout.
type BackendController struct {
	deps Deps
	log  *logger.Logger
}

// NewBackendController creates the controller.
func NewBackendController(deps Deps) *BackendController {
	deps.Session.ApplyDefaults()
	return &BackendController{deps: deps, log: logger.Get("backend")}
}

// Picker resolves context, extras and value from the query into a picker
// and redirects to the URL of its current provider.
func (ctl *BackendController) Picker(c *gin.Context) {
	extras, err := picker.ParseExtras(c.Query("extras"))
	if err != nil {
		server.RespondWithError(c, picker.ToAppError(err))
		return
	}

	cfg := picker.Config{
		Context: c.Query("context"),
		Extras:  extras,
		Value:   c.Query("value"),
	}
	p, ok := ctl.deps.Pickers.Create(cfg)
	if !ok || p.CurrentURL() == "" {
		server.RespondWithError(c, picker.ToAppError(picker.ErrUnsupportedContext))
		return
	}
	c.Redirect(http.StatusFound, p.CurrentURL())
}

// LoginForm renders the login form.
func (ctl *BackendController) LoginForm(c *gin.Context) {
	ctl.renderLogin(c, http.StatusOK, "", "")
}

// Login checks username and password against tl_user and starts a backend
// session. Unknown users and wrong passwords get the same answer.
func (ctl *BackendController) Login(c *gin.Context) {
	ctx := c.Request.Context()
	username := strings.TrimSpace(c.PostForm("username"))
	pass := c.PostForm("password")
	form := validation.NewForm().
		Required("username", username).
		MaxLength("username", username, maxUsername).
		Required("password", pass)
	if form.HasErrors() {
		ctl.renderLogin(c, http.StatusBadRequest, username, "Please enter your username and password.")
		return
	}

	user, err := ctl.deps.Users.FindByUsername(ctx, username)
	if err != nil {
		if appErr, ok := apperrors.AsAppError(err); !ok || appErr.Code != apperrors.ErrCodeNotFound {
			server.RespondWithError(c, err)
			return
		}
		ctl.rejectLogin(c, username, "unknown user")
		return
	}
	if err := ctl.deps.Hasher.Verify(pass, user.Password); err != nil {
		if !errors.Is(err, password.ErrMismatch) {
			ctl.log.WithContext(ctx).Warn("Password verification failed", map[string]interface{}{
				logger.FieldUser:  username,
				logger.FieldError: err.Error(),
			})
		}
		ctl.rejectLogin(c, username, "wrong password")
		return
	}
	ctl.rehash(ctx, user, pass)

	principal := user.BackendUser()
	token, err := ctl.deps.Tokens.GenerateWithTTL(&auth.BackendClaims{User: principal}, ctl.deps.Session.TTL)
	if err != nil {
		server.RespondWithError(c, apperrors.Internal(err))
		return
	}
	http.SetCookie(c.Writer, ctl.deps.Session.cookie(token, int(ctl.deps.Session.TTL.Seconds())))

	ctl.log.WithContext(ctx).Info("Backend user logged in", map[string]interface{}{
		logger.FieldUser: principal.Username,
	})
	c.Redirect(http.StatusSeeOther, safeRedirect(c.PostForm("redirect"), ctl.deps.Session.HomePath))
}

// Logout ends the backend session and the frontend preview and redirects
// to the login page.
func (ctl *BackendController) Logout(c *gin.Context) {
	if user, ok := authctx.Get[*auth.BackendUser](c.Request.Context()); ok {
		ctl.log.WithContext(c.Request.Context()).Info("Backend user logged out", map[string]interface{}{
			logger.FieldUser: user.Username,
		})
	}
	http.SetCookie(c.Writer, ctl.deps.Session.cookie("", -1))
	if ctl.deps.Preview != nil {
		ctl.deps.Preview.RemoveFrontendAuthentication(c.Writer)
	}
	c.Redirect(http.StatusFound, ctl.deps.Session.LoginPath)
}

func (ctl *BackendController) rejectLogin(c *gin.Context, username, reason string) {
	ctl.log.WithContext(c.Request.Context()).Info("Backend login rejected", map[string]interface{}{
		logger.FieldUser: username,
		"reason":         reason,
	})
	ctl.renderLogin(c, http.StatusUnauthorized, username, "Login failed. Please check your username and password.")
}

func (ctl *BackendController) renderLogin(c *gin.Context, status int, username, message string) {
	html, err := ctl.deps.Renderer.Render(c.Request.Context(), loginTemplate, map[string]any{
		"title":    "Login",
		"action":   ctl.deps.Session.LoginPath,
		"username": username,
		"error":    message,
	})
	if err != nil {
		server.RespondWithError(c, apperrors.TemplateFailure(err))
		return
	}
	server.RespondHTML(c, status, html)
}

// rehash upgrades a hash made with another algorithm. Failures only log.
func (ctl *BackendController) rehash(ctx context.Context, user *repository.User, pass string) {
	if !ctl.deps.Hasher.NeedsRehash(user.Password) {
		return
	}
	hash, err := ctl.deps.Hasher.Hash(pass)
	if err == nil {
		err = ctl.deps.Users.UpdatePassword(ctx, user.ID, hash)
	}
	if err != nil {
		ctl.log.WithContext(ctx).Warn("Password rehash failed", map[string]interface{}{
			logger.FieldUser:  user.Username,
			logger.FieldError: err.Error(),
		})
	}
}

// safeRedirect accepts only local absolute paths.
func safeRedirect(target, fallback string) string {
	if target == "" || !strings.HasPrefix(target, "/") || strings.HasPrefix(target, "//") {
		return fallback
	}
	u, err := url.Parse(target)
	if err != nil || u.Host != "" || u.Scheme != "" {
		return fallback
	}
	return target
}
