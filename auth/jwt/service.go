// Package jwt provides a generic token service over golang-jwt.
//
// The service is parameterized by a claims type T that embeds
// jwt.RegisteredClaims:
//
//	svc, err := jwt.NewService(cfg, func() *auth.BackendClaims { return &auth.BackendClaims{} })
//	token, err := svc.GenerateWithTTL(claims, cfg.AccessTokenTTL)
//	claims, err := svc.Parse(token)
package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken is returned for tokens that fail verification.
var ErrInvalidToken = errors.New("jwt: invalid token")

// Option customizes a Service.
type Option func(*options)

type options struct {
	tokenType string
}

// WithTokenType stamps generated tokens with a "typ" header and makes Parse
// reject tokens carrying any other type. Services sharing a secret must use
// distinct types.
func WithTokenType(typ string) Option {
	return func(o *options) { o.tokenType = typ }
}

// Service generates and parses tokens for claims type T.
type Service[T gojwt.Claims] struct {
	cfg      Config
	opts     options
	newEmpty func() T
	now      func() time.Time
}

// NewService creates a token service. newEmpty returns a fresh T for parsing.
func NewService[T gojwt.Claims](cfg *Config, newEmpty func() T, opts ...Option) (*Service[T], error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("jwt: %w", err)
	}
	s := &Service[T]{cfg: *cfg, newEmpty: newEmpty, now: time.Now}
	for _, opt := range opts {
		opt(&s.opts)
	}
	return s, nil
}

// Generate signs claims as they are.
func (s *Service[T]) Generate(claims T) (string, error) {
	token := gojwt.NewWithClaims(s.cfg.signingMethod(), claims)
	if s.opts.tokenType != "" {
		token.Header["typ"] = s.opts.tokenType
	}
	signed, err := token.SignedString([]byte(s.cfg.Secret))
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}

// GenerateWithTTL fills the standard time claims, when T supports it, and
// signs the token.
func (s *Service[T]) GenerateWithTTL(claims T, ttl time.Duration) (string, error) {
	if setter, ok := any(claims).(interface {
		SetDefaults(time.Time, time.Duration, string, []string)
	}); ok {
		setter.SetDefaults(s.now(), ttl, s.cfg.Issuer, s.cfg.Audience)
	}
	return s.Generate(claims)
}

// Parse verifies a token and returns its claims.
func (s *Service[T]) Parse(tokenString string) (T, error) {
	var zero T
	claims := s.newEmpty()
	token, err := gojwt.ParseWithClaims(tokenString, claims, s.keyFunc, s.parserOptions()...)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return zero, ErrInvalidToken
	}
	parsed, ok := token.Claims.(T)
	if !ok {
		return zero, errors.New("jwt: unexpected claims type")
	}
	return parsed, nil
}

// ValidatorFunc adapts Parse for middleware that does not know T.
func (s *Service[T]) ValidatorFunc() func(string) (any, error) {
	return func(token string) (any, error) {
		return s.Parse(token)
	}
}

func (s *Service[T]) keyFunc(token *gojwt.Token) (interface{}, error) {
	if token.Method.Alg() != s.cfg.signingMethod().Alg() {
		return nil, fmt.Errorf("unexpected signing method: %s", token.Method.Alg())
	}
	if s.opts.tokenType != "" {
		if typ, _ := token.Header["typ"].(string); typ != s.opts.tokenType {
			return nil, fmt.Errorf("unexpected token type %q", typ)
		}
	}
	return []byte(s.cfg.Secret), nil
}

func (s *Service[T]) parserOptions() []gojwt.ParserOption {
	opts := []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{s.cfg.signingMethod().Alg()}),
	}
	if s.cfg.Issuer != "" {
		opts = append(opts, gojwt.WithIssuer(s.cfg.Issuer))
	}
	if len(s.cfg.Audience) > 0 {
		opts = append(opts, gojwt.WithAudience(s.cfg.Audience[0]))
	}
	return opts
}
