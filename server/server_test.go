package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/corebundle/component"
	apperrors "github.com/kbukum/corebundle/errors"
	"github.com/kbukum/corebundle/logger"
	"github.com/kbukum/corebundle/testutil"
)

func TestConfigDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()
	if cfg.Port != 8080 || cfg.MaxBodySize != "10MB" || cfg.LoginRateLimit != 10 {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
	bad := Config{Port: 70000}
	if err := bad.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestRespondWithError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantBody    string
		wantType    string
		wantHeaders map[string]string
	}{
		{
			name:       "silent not found",
			err:        apperrors.PageNotFound("Bad response"),
			wantStatus: http.StatusNotFound,
			wantType:   "text/html",
		},
		{
			name:       "silent template failure",
			err:        apperrors.TemplateFailure(errors.New("bad tag")),
			wantStatus: http.StatusInternalServerError,
			wantType:   "text/html",
		},
		{
			name:       "bad request",
			err:        apperrors.BadRequest("Invalid picker extras"),
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid picker extras",
			wantType:   "application/json",
		},
		{
			name:        "redirect",
			err:         apperrors.Redirect("/contao/login", http.StatusFound),
			wantStatus:  http.StatusFound,
			wantHeaders: map[string]string{"Location": "/contao/login"},
		},
		{
			name:       "plain error",
			err:        errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   string(apperrors.ErrCodeInternal),
			wantType:   "application/json",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := testutil.NewEngine()
			r.GET("/", func(c *gin.Context) { RespondWithError(c, tc.err) })

			w := testutil.Do(r, testutil.Request{Path: "/"})
			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d", tc.wantStatus, w.Code)
			}
			if tc.wantType != "" && !strings.HasPrefix(w.Header().Get("Content-Type"), tc.wantType) {
				t.Errorf("Content-Type = %q, want %s", w.Header().Get("Content-Type"), tc.wantType)
			}
			if tc.wantType == "text/html" && w.Body.Len() != 0 {
				t.Errorf("silent error leaked a body: %q", w.Body.String())
			}
			if tc.wantBody != "" && !strings.Contains(w.Body.String(), tc.wantBody) {
				t.Errorf("body %q does not contain %q", w.Body.String(), tc.wantBody)
			}
			for k, v := range tc.wantHeaders {
				if got := w.Header().Get(k); got != v {
					t.Errorf("%s = %q, want %q", k, got, v)
				}
			}
		})
	}
}

type stubComponent struct {
	name   string
	status component.HealthStatus
}

func (s stubComponent) Name() string                    { return s.name }
func (s stubComponent) Start(ctx context.Context) error { return nil }
func (s stubComponent) Stop(ctx context.Context) error  { return nil }
func (s stubComponent) Health(ctx context.Context) component.Health {
	return component.Health{Name: s.name, Status: s.status}
}

func TestDefaultEndpoints(t *testing.T) {
	reg := component.NewRegistry()
	if err := reg.Register(stubComponent{name: "database", status: component.StatusDegraded}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	srv := New(Config{Port: 0}, logger.NewNop())
	srv.ApplyDefaults("corebundle", reg.HealthAll)

	w := testutil.Do(srv.Handler(), testutil.Request{Path: "/health"})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for degraded, got %d", w.Code)
	}
	var body struct {
		Status     string             `json:"status"`
		Components []component.Health `json:"components"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("health is not JSON: %v", err)
	}
	if body.Status != "degraded" || len(body.Components) != 1 {
		t.Errorf("unexpected health body: %+v", body)
	}

	if w := testutil.Do(srv.Handler(), testutil.Request{Path: "/ready"}); w.Code != http.StatusOK {
		t.Errorf("degraded must still be ready, got %d", w.Code)
	}
	if w := testutil.Do(srv.Handler(), testutil.Request{Path: "/info"}); !strings.Contains(w.Body.String(), "corebundle") {
		t.Errorf("info misses service name: %s", w.Body.String())
	}
}

func TestComponentLifecycleAndRoutes(t *testing.T) {
	srv := New(Config{Host: "127.0.0.1", Port: 0}, logger.NewNop())
	srv.GinEngine().GET("/contao/picker", func(c *gin.Context) {})
	srv.GinEngine().POST("/contao/login", func(c *gin.Context) {})
	srv.RegisterDefaultEndpoints("corebundle", nil)

	sc := NewComponent(srv)
	if h := sc.Health(context.Background()); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	testutil.Start(t, sc)
	if h := sc.Health(context.Background()); h.Status != component.StatusHealthy {
		t.Errorf("expected healthy after start, got %s", h.Status)
	}

	resp, err := http.Get("http://" + srv.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200 over the wire, got %d", resp.StatusCode)
	}

	var paths []string
	for _, r := range sc.Routes() {
		paths = append(paths, r.Method+" "+r.Path)
	}
	want := []string{"POST /contao/login", "GET /contao/picker", "GET /health", "GET /info", "GET /ready"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("routes mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatHandlerName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"github.com/kbukum/corebundle/backend.(*PreviewSwitchController).Handle-fm", "PreviewSwitchController.Handle"},
		{"github.com/kbukum/corebundle/server/endpoint.Health.func1", "health"},
	}
	for _, tc := range tests {
		if got := formatHandlerName(tc.in); got != tc.want {
			t.Errorf("formatHandlerName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
