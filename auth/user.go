package auth

import (
	"slices"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// BackendUser is the authenticated administrative actor.
type BackendUser struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name,omitempty"`
	IsAdmin  bool   `json:"admin"`
	// MemberGroups are the member group IDs the user may manage.
	MemberGroups []int `json:"amg,omitempty"`
	// Modules are the backend modules the user may open.
	Modules []string `json:"modules,omitempty"`
}

// CanAccessMembers reports whether the user may list or impersonate
// frontend members.
func (u *BackendUser) CanAccessMembers() bool {
	if u == nil {
		return false
	}
	return u.IsAdmin || len(u.MemberGroups) > 0
}

// CanAccessModule reports whether the user may open a backend module.
func (u *BackendUser) CanAccessModule(module string) bool {
	if u == nil {
		return false
	}
	return u.IsAdmin || slices.Contains(u.Modules, module)
}

// Token types. Backend and preview tokens share the signing key, so each
// service accepts only its own type.
const (
	TokenTypeBackend = "contao-backend+jwt"
	TokenTypePreview = "contao-preview+jwt"
)

// BackendClaims are the claims of the backend session token.
type BackendClaims struct {
	gojwt.RegisteredClaims
	User BackendUser `json:"user"`
}

// SetDefaults fills the registered time claims before signing.
func (c *BackendClaims) SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string) {
	if c.Subject == "" {
		c.Subject = c.User.Username
	}
	setRegistered(&c.RegisteredClaims, now, ttl, issuer, audience)
}

// PreviewClaims are the claims of the frontend preview token.
type PreviewClaims struct {
	gojwt.RegisteredClaims
	// FrontendUsername is empty when previewing as a guest.
	FrontendUsername string `json:"fe_user,omitempty"`
	ShowUnpublished  bool   `json:"unpublished"`
}

// SetDefaults fills the registered time claims before signing.
func (c *PreviewClaims) SetDefaults(now time.Time, ttl time.Duration, issuer string, audience []string) {
	setRegistered(&c.RegisteredClaims, now, ttl, issuer, audience)
}

func setRegistered(rc *gojwt.RegisteredClaims, now time.Time, ttl time.Duration, issuer string, audience []string) {
	if rc.IssuedAt == nil {
		rc.IssuedAt = gojwt.NewNumericDate(now)
	}
	if rc.ExpiresAt == nil && ttl > 0 {
		rc.ExpiresAt = gojwt.NewNumericDate(now.Add(ttl))
	}
	if rc.Issuer == "" {
		rc.Issuer = issuer
	}
	if len(rc.Audience) == 0 && len(audience) > 0 {
		rc.Audience = audience
	}
}
