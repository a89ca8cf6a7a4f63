package preview

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/auth/jwt"
	"github.com/kbukum/corebundle/logger"
)

// MemberFinder checks whether a frontend member may be previewed.
type MemberFinder interface {
	IsActive(ctx context.Context, username string, at time.Time) (bool, error)
}

// Authenticator issues and removes the preview cookie.
type Authenticator struct {
	tokens  *jwt.Service[*auth.PreviewClaims]
	members MemberFinder
	cookie  string
	ttl     time.Duration
	secure  bool
	now     func() time.Time
	log     *logger.Logger
}

// NewAuthenticator creates an authenticator writing the named cookie.
func NewAuthenticator(tokens *jwt.Service[*auth.PreviewClaims], members MemberFinder, cookie string, ttl time.Duration, secure bool) *Authenticator {
	return &Authenticator{
		tokens:  tokens,
		members: members,
		cookie:  cookie,
		ttl:     ttl,
		secure:  secure,
		now:     time.Now,
		log:     logger.Get("preview"),
	}
}

// AuthenticateFrontendUser previews the site as username. It reports false
// and leaves the cookie untouched when the member is unknown or inactive.
func (a *Authenticator) AuthenticateFrontendUser(ctx context.Context, w http.ResponseWriter, username string, showUnpublished bool) (bool, error) {
	active, err := a.members.IsActive(ctx, username, a.now())
	if err != nil {
		return false, fmt.Errorf("preview: look up member: %w", err)
	}
	if !active {
		a.log.WithContext(ctx).Info("Preview member not found or inactive", map[string]interface{}{
			logger.FieldUser: username,
		})
		return false, nil
	}
	return true, a.issue(w, &auth.PreviewClaims{
		FrontendUsername: username,
		ShowUnpublished:  showUnpublished,
	})
}

// AuthenticateFrontendGuest previews the site without a member.
func (a *Authenticator) AuthenticateFrontendGuest(ctx context.Context, w http.ResponseWriter, showUnpublished bool) error {
	a.log.WithContext(ctx).Debug("Preview as guest", map[string]interface{}{
		"unpublished": showUnpublished,
	})
	return a.issue(w, &auth.PreviewClaims{ShowUnpublished: showUnpublished})
}

// RemoveFrontendAuthentication clears the preview cookie.
func (a *Authenticator) RemoveFrontendAuthentication(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (a *Authenticator) issue(w http.ResponseWriter, claims *auth.PreviewClaims) error {
	token, err := a.tokens.GenerateWithTTL(claims, a.ttl)
	if err != nil {
		return fmt.Errorf("preview: issue token: %w", err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     a.cookie,
		Value:    token,
		Path:     "/",
		MaxAge:   int(a.ttl.Seconds()),
		HttpOnly: true,
		Secure:   a.secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}
