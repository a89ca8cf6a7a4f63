package preview

import (
	"context"
	"net/http"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/auth/jwt"
)

type claimsKey struct{}

// ContextWithClaims stores the request's preview claims.
func ContextWithClaims(ctx context.Context, claims *auth.PreviewClaims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFromContext returns the preview claims stored by ContextWithClaims.
func ClaimsFromContext(ctx context.Context) (*auth.PreviewClaims, bool) {
	claims, ok := ctx.Value(claimsKey{}).(*auth.PreviewClaims)
	return claims, ok && claims != nil
}

// TokenChecker reads the preview state from the request cookie.
type TokenChecker struct {
	tokens *jwt.Service[*auth.PreviewClaims]
	cookie string
}

// NewTokenChecker creates a checker for the named cookie.
func NewTokenChecker(tokens *jwt.Service[*auth.PreviewClaims], cookie string) *TokenChecker {
	return &TokenChecker{tokens: tokens, cookie: cookie}
}

// Claims returns the verified preview claims of r.
func (c *TokenChecker) Claims(r *http.Request) (*auth.PreviewClaims, bool) {
	cookie, err := r.Cookie(c.cookie)
	if err != nil || cookie.Value == "" {
		return nil, false
	}
	claims, err := c.tokens.Parse(cookie.Value)
	if err != nil {
		return nil, false
	}
	return claims, true
}

// FrontendUsername returns the previewed member, or "" for a guest or no
// preview at all.
func (c *TokenChecker) FrontendUsername(r *http.Request) string {
	if claims, ok := c.Claims(r); ok {
		return claims.FrontendUsername
	}
	return ""
}

// ShowUnpublished reports whether unpublished content is shown. Without a
// preview token it is false.
func (c *TokenChecker) ShowUnpublished(r *http.Request) bool {
	if claims, ok := c.Claims(r); ok {
		return claims.ShowUnpublished
	}
	return false
}
