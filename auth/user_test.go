package auth

import (
	"context"
	"testing"

	"github.com/kbukum/corebundle/auth/authctx"
)

func TestCanAccessMembers(t *testing.T) {
	tests := []struct {
		name string
		user *BackendUser
		want bool
	}{
		{"nil", nil, false},
		{"admin", &BackendUser{IsAdmin: true}, true},
		{"with groups", &BackendUser{MemberGroups: []int{2}}, true},
		{"without groups", &BackendUser{}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.user.CanAccessMembers(); got != tc.want {
				t.Errorf("CanAccessMembers() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBackendUserThroughContext(t *testing.T) {
	ctx := authctx.Set(context.Background(), &BackendUser{Username: "k.jones"})
	user, ok := authctx.Get[*BackendUser](ctx)
	if !ok || user.Username != "k.jones" {
		t.Fatalf("expected user from context, got %+v (ok=%v)", user, ok)
	}
	if _, err := authctx.GetOrError[*PreviewClaims](ctx); err == nil {
		t.Error("wrong type must not resolve")
	}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	cfg := Config{}
	cfg.JWT.Secret = "0123456789abcdef"
	cfg.ApplyDefaults()
	if cfg.BackendCookie == "" || cfg.PreviewCookie == "" {
		t.Fatal("cookie names must default")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate: %v", err)
	}
	cfg.PreviewCookie = cfg.BackendCookie
	if err := cfg.Validate(); err == nil {
		t.Error("identical cookie names must be rejected")
	}
}
