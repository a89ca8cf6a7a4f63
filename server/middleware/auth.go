package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/auth/authctx"
	apperrors "github.com/kbukum/corebundle/errors"
	"github.com/kbukum/corebundle/logger"
)

// BackendAuthConfig configures BackendAuth.
type BackendAuthConfig struct {
	// Validator parses the backend session token into *auth.BackendClaims.
	Validator auth.TokenValidator
	// Cookie is the session cookie name. A Bearer header is accepted too.
	Cookie string
}

// BackendAuth resolves the backend session token, if any, and stores the
// *auth.BackendUser in the request context. Requests without a valid token
// pass through anonymous; handlers decide what that means.
func BackendAuth(cfg BackendAuthConfig) gin.HandlerFunc {
	log := logger.Get("auth")
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" && cfg.Cookie != "" {
			token, _ = c.Cookie(cfg.Cookie)
		}
		if token == "" {
			c.Next()
			return
		}

		parsed, err := cfg.Validator.ValidateToken(token)
		if err != nil {
			log.WithContext(c.Request.Context()).Debug("Backend token rejected", map[string]interface{}{
				logger.FieldError: err.Error(),
			})
			c.Next()
			return
		}
		claims, ok := parsed.(*auth.BackendClaims)
		if !ok || claims.User.Username == "" {
			log.WithContext(c.Request.Context()).Debug("Backend token carries no user")
			c.Next()
			return
		}
		user := claims.User
		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), &user))
		c.Next()
	}
}

// RequireBackendUser redirects anonymous requests to loginPath.
func RequireBackendUser(loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if hasBackendUser(c) {
			c.Next()
			return
		}
		r := apperrors.Redirect(loginPath, 0)
		c.Redirect(r.Status, r.Location)
		c.Abort()
	}
}

// RequireBackendUserOrNotFound answers anonymous requests with an empty 404,
// so internal endpoints are not revealed.
func RequireBackendUserOrNotFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !hasBackendUser(c) {
			c.AbortWithStatus(http.StatusNotFound)
			return
		}
		c.Next()
	}
}

func hasBackendUser(c *gin.Context) bool {
	user, ok := authctx.Get[*auth.BackendUser](c.Request.Context())
	return ok && user != nil && user.Username != ""
}

func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(header, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
