package middleware_test

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/auth/authctx"
	"github.com/kbukum/corebundle/auth/jwt"
	apperrors "github.com/kbukum/corebundle/errors"
	"github.com/kbukum/corebundle/logger"
	"github.com/kbukum/corebundle/observability"
	"github.com/kbukum/corebundle/server/middleware"
	"github.com/kbukum/corebundle/testutil"
)

func TestRecoveryAnswers500(t *testing.T) {
	r := testutil.NewEngine()
	r.Use(middleware.Recovery(logger.NewNop()))
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := testutil.Do(r, testutil.Request{Path: "/boom"})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", w.Code)
	}
	var body apperrors.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if body.Error.Code != apperrors.ErrCodeInternal {
		t.Errorf("unexpected code %s", body.Error.Code)
	}
}

func TestRequestID(t *testing.T) {
	r := testutil.NewEngine()
	r.Use(middleware.RequestID())
	r.GET("/", func(c *gin.Context) {
		c.String(http.StatusOK, "%v", c.Request.Context().Value(logger.RequestIDKey))
	})

	tests := []struct {
		name     string
		incoming string
	}{
		{"generated", ""},
		{"propagated", "req-42"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := testutil.Request{Path: "/"}
			if tc.incoming != "" {
				req.Headers = map[string]string{middleware.HeaderRequestID: tc.incoming}
			}
			w := testutil.Do(r, req)

			id := w.Header().Get(middleware.HeaderRequestID)
			if id == "" {
				t.Fatal("missing response request ID")
			}
			if tc.incoming != "" && id != tc.incoming {
				t.Errorf("expected %q, got %q", tc.incoming, id)
			}
			if w.Body.String() != id {
				t.Errorf("context ID %q differs from header %q", w.Body.String(), id)
			}
		})
	}
}

func TestCORS(t *testing.T) {
	cfg := &middleware.CORSConfig{
		AllowedOrigins: []string{"https://admin.example.com"},
		AllowedMethods: []string{"GET", "POST"},
	}
	r := testutil.NewEngine()
	r.Use(middleware.GinCORS(cfg))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := testutil.Do(r, testutil.Request{Path: "/x", Headers: map[string]string{"Origin": "https://admin.example.com"}})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "https://admin.example.com" {
		t.Errorf("allowed origin not echoed: %q", got)
	}

	w = testutil.Do(r, testutil.Request{Path: "/x", Headers: map[string]string{"Origin": "https://evil.example.com"}})
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin must not be allowed, got %q", got)
	}

	w = testutil.Do(r, testutil.Request{
		Method: http.MethodOptions,
		Path:   "/x",
		Headers: map[string]string{
			"Origin":                        "https://admin.example.com",
			"Access-Control-Request-Method": "POST",
		},
	})
	if w.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", w.Code)
	}
}

func TestBodySizeLimit(t *testing.T) {
	r := testutil.NewEngine()
	r.Use(middleware.GinBodySizeLimit("8B"))
	r.POST("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := testutil.Do(r, testutil.Request{Method: http.MethodPost, Path: "/x", Body: strings.NewReader("0123456789")})
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413, got %d", w.Code)
	}
	w = testutil.Do(r, testutil.Request{Method: http.MethodPost, Path: "/x", Body: strings.NewReader("small")})
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func newBackendTokens(t *testing.T) *jwt.Service[*auth.BackendClaims] {
	t.Helper()
	svc, err := jwt.NewService(&jwt.Config{Secret: "0123456789abcdef"}, func() *auth.BackendClaims { return &auth.BackendClaims{} })
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestBackendAuth(t *testing.T) {
	tokens := newBackendTokens(t)
	token, err := tokens.GenerateWithTTL(&auth.BackendClaims{User: auth.BackendUser{Username: "k.jones", IsAdmin: true}}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateWithTTL: %v", err)
	}
	userless, err := tokens.GenerateWithTTL(&auth.BackendClaims{}, time.Hour)
	if err != nil {
		t.Fatalf("GenerateWithTTL: %v", err)
	}

	r := testutil.NewEngine()
	r.Use(middleware.BackendAuth(middleware.BackendAuthConfig{
		Validator: auth.TokenValidatorFunc(tokens.ValidatorFunc()),
		Cookie:    "contao_backend",
	}))
	r.GET("/me", func(c *gin.Context) {
		user, ok := authctx.Get[*auth.BackendUser](c.Request.Context())
		if !ok {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, user.Username)
	})

	tests := []struct {
		name string
		req  testutil.Request
		want string
	}{
		{"cookie", testutil.Request{Path: "/me", Cookies: []*http.Cookie{{Name: "contao_backend", Value: token}}}, "k.jones"},
		{"bearer", testutil.Request{Path: "/me", Headers: map[string]string{"Authorization": "Bearer " + token}}, "k.jones"},
		{"none", testutil.Request{Path: "/me"}, "anonymous"},
		{"garbage", testutil.Request{Path: "/me", Cookies: []*http.Cookie{{Name: "contao_backend", Value: "nope"}}}, "anonymous"},
		{"no user", testutil.Request{Path: "/me", Cookies: []*http.Cookie{{Name: "contao_backend", Value: userless}}}, "anonymous"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := testutil.Do(r, tc.req)
			if w.Body.String() != tc.want {
				t.Errorf("expected %q, got %q", tc.want, w.Body.String())
			}
		})
	}
}

func TestRequireBackendUserRedirects(t *testing.T) {
	r := testutil.NewEngine()
	r.GET("/contao/picker", middleware.RequireBackendUser("/contao/login"), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := testutil.Do(r, testutil.Request{Path: "/contao/picker"})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	if loc := w.Header().Get("Location"); loc != "/contao/login" {
		t.Errorf("unexpected location %q", loc)
	}
}

func TestRequireBackendUserOrNotFound(t *testing.T) {
	tests := []struct {
		name     string
		user     *auth.BackendUser
		wantCode int
	}{
		{"anonymous", nil, http.StatusNotFound},
		{"empty user", &auth.BackendUser{}, http.StatusNotFound},
		{"backend user", &auth.BackendUser{Username: "k.jones"}, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := testutil.NewEngine()
			r.Use(func(c *gin.Context) {
				if tc.user != nil {
					c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), tc.user))
				}
				c.Next()
			})
			r.GET("/_fragment", middleware.RequireBackendUserOrNotFound(), func(c *gin.Context) {
				c.String(http.StatusOK, "fragment")
			})

			w := testutil.Do(r, testutil.Request{Path: "/_fragment"})
			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, w.Code)
			}
			if tc.wantCode == http.StatusNotFound && w.Body.Len() != 0 {
				t.Errorf("expected empty body, got %q", w.Body.String())
			}
		})
	}
}

func TestRateLimit(t *testing.T) {
	r := testutil.NewEngine()
	r.Use(middleware.RateLimit(middleware.RateLimitConfig{
		RequestsPerMinute: 2,
		KeyFunc:           func(*gin.Context) string { return "client" },
	}))
	r.POST("/login", func(c *gin.Context) { c.Status(http.StatusOK) })

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, testutil.Do(r, testutil.Request{Method: http.MethodPost, Path: "/login"}).Code)
	}
	if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
		t.Errorf("unexpected status sequence %v", codes)
	}
}

func TestTelemetryRecordsRouteSpan(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	r := testutil.NewEngine()
	r.Use(middleware.Telemetry())
	r.GET("/contao/preview_switch", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	testutil.Do(r, testutil.Request{Path: "/contao/preview_switch"})

	ended := rec.Ended()
	if len(ended) != 1 {
		t.Fatalf("expected 1 span, got %d", len(ended))
	}
	span := ended[0]
	if span.Name() != "GET /contao/preview_switch" {
		t.Errorf("unexpected span name %q", span.Name())
	}
	want := map[attribute.Key]attribute.Value{
		observability.AttrRoute:  attribute.StringValue("/contao/preview_switch"),
		observability.AttrStatus: attribute.IntValue(http.StatusNotFound),
	}
	for _, kv := range span.Attributes() {
		if v, ok := want[kv.Key]; ok && v != kv.Value {
			t.Errorf("%s = %v, want %v", kv.Key, kv.Value.Emit(), v.Emit())
		}
	}
}
