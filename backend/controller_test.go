package backend

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/corebundle/auth"
	"github.com/kbukum/corebundle/auth/authctx"
	"github.com/kbukum/corebundle/auth/jwt"
	"github.com/kbukum/corebundle/auth/password"
	"github.com/kbukum/corebundle/di"
	"github.com/kbukum/corebundle/fragment"
	"github.com/kbukum/corebundle/picker"
	"github.com/kbukum/corebundle/repository"
	"github.com/kbukum/corebundle/server/middleware"
	"github.com/kbukum/corebundle/template"
	"github.com/kbukum/corebundle/testutil"
)

func newResolver(t *testing.T) *picker.Resolver {
	t.Helper()
	builder := picker.NewProviderBuilder(PathPicker)
	for _, p := range []picker.Provider{picker.NewPageProvider(PathBackend), picker.NewFileProvider(PathBackend)} {
		if err := builder.AddProvider(p); err != nil {
			t.Fatalf("AddProvider: %v", err)
		}
	}
	resolver := picker.NewResolver(nil)
	if err := resolver.Add("contao.picker.builder", builder); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return resolver
}

type previewRecorder struct{ removed int }

func (p *previewRecorder) RemoveFrontendAuthentication(http.ResponseWriter) { p.removed++ }

type backendFixture struct {
	ctl     *BackendController
	tokens  *jwt.Service[*auth.BackendClaims]
	preview *previewRecorder
	users   *repository.UserRepository
}

func newBackendFixture(t *testing.T) *backendFixture {
	t.Helper()
	tokens, err := jwt.NewService(&jwt.Config{Secret: "0123456789abcdef"}, func() *auth.BackendClaims { return &auth.BackendClaims{} })
	if err != nil {
		t.Fatalf("jwt.NewService: %v", err)
	}
	engine, err := template.New(template.Config{})
	if err != nil {
		t.Fatalf("template.New: %v", err)
	}

	db := testutil.OpenDB(t, repository.Models()...)
	hasher := password.NewHasher(password.Config{BcryptCost: 4})
	hash, err := hasher.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	users := []repository.User{
		{Username: "k.jones", Name: "Kevin Jones", Password: hash, Admin: "1"},
		{Username: "gone", Password: hash, Disable: "1"},
	}
	if err := db.GormDB.Create(&users).Error; err != nil {
		t.Fatalf("seed users: %v", err)
	}

	f := &backendFixture{tokens: tokens, preview: &previewRecorder{}, users: repository.NewUserRepository(db)}
	f.ctl = NewBackendController(Deps{
		Pickers:  newResolver(t),
		Users:    f.users,
		Hasher:   hasher,
		Tokens:   tokens,
		Preview:  f.preview,
		Renderer: engine,
	})
	return f
}

func (f *backendFixture) engine(user *auth.BackendUser) *gin.Engine {
	r := testutil.NewEngine()
	r.Use(func(c *gin.Context) {
		if user != nil {
			c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), user))
		}
		c.Next()
	})
	Mount(r, Routes{Backend: f.ctl})
	return r
}

func TestPickerRedirectsToCurrentProvider(t *testing.T) {
	f := newBackendFixture(t)
	r := f.engine(&auth.BackendUser{Username: "k.jones", IsAdmin: true})

	q := url.Values{}
	q.Set("context", "link")
	q.Set("extras", `{"fieldType":"radio"}`)
	q.Set("value", "{{file::files/a.jpg}}")
	w := testutil.Do(r, testutil.Request{Path: PathPicker + "?" + q.Encode()})

	if w.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d: %s", w.Code, w.Body.String())
	}
	p, ok := newResolver(t).Create(picker.Config{
		Context: "link",
		Extras:  map[string]any{"fieldType": "radio"},
		Value:   "{{file::files/a.jpg}}",
	})
	if !ok {
		t.Fatal("resolver declined link context")
	}
	if loc := w.Header().Get("Location"); loc != p.CurrentURL() {
		t.Errorf("Location = %q, want %q", loc, p.CurrentURL())
	}
	if !strings.Contains(w.Header().Get("Location"), "do=files") {
		t.Errorf("file value should open the file picker, got %q", w.Header().Get("Location"))
	}
}

func TestPickerErrorsAreDistinct400s(t *testing.T) {
	f := newBackendFixture(t)
	r := f.engine(&auth.BackendUser{Username: "k.jones", IsAdmin: true})

	tests := []struct {
		name  string
		query string
		want  string
	}{
		{"extras not json", "context=page&extras=%7Bnope", picker.MsgInvalidExtras},
		{"extras not an object", "context=page&extras=%5B1%5D", picker.MsgInvalidExtras},
		{"unknown context", "context=calendar", picker.MsgUnsupportedContext},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := testutil.Do(r, testutil.Request{Path: PathPicker + "?" + tc.query})
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), tc.want) {
				t.Errorf("body %q does not mention %q", w.Body.String(), tc.want)
			}
		})
	}
}

func TestPickerRequiresBackendUser(t *testing.T) {
	f := newBackendFixture(t)
	w := testutil.Do(f.engine(nil), testutil.Request{Path: PathPicker + "?context=page"})
	if w.Code != http.StatusSeeOther || w.Header().Get("Location") != PathLogin {
		t.Errorf("expected redirect to login, got %d %q", w.Code, w.Header().Get("Location"))
	}
}

func TestLogout(t *testing.T) {
	f := newBackendFixture(t)
	w := testutil.Do(f.engine(&auth.BackendUser{Username: "k.jones"}), testutil.Request{Path: PathLogout})

	if w.Code != http.StatusFound || w.Header().Get("Location") != PathLogin {
		t.Fatalf("expected 302 to login, got %d %q", w.Code, w.Header().Get("Location"))
	}
	var cleared bool
	for _, c := range w.Result().Cookies() {
		if c.Name == "contao_backend" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Error("backend cookie not cleared")
	}
	if f.preview.removed != 1 {
		t.Errorf("preview authentication not removed")
	}
}

func TestLogin(t *testing.T) {
	tests := []struct {
		name       string
		form       url.Values
		wantStatus int
	}{
		{"valid", form("username", "k.jones", "password", "s3cret-pass"), http.StatusSeeOther},
		{"wrong password", form("username", "k.jones", "password", "guess"), http.StatusUnauthorized},
		{"unknown user", form("username", "nobody", "password", "s3cret-pass"), http.StatusUnauthorized},
		{"disabled user", form("username", "gone", "password", "s3cret-pass"), http.StatusUnauthorized},
		{"missing password", form("username", "k.jones"), http.StatusBadRequest},
		{"overlong username", form("username", strings.Repeat("k", 65), "password", "s3cret-pass"), http.StatusBadRequest},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newBackendFixture(t)
			w := testutil.Do(f.engine(nil), testutil.Request{Method: http.MethodPost, Path: PathLogin, Form: tc.form})
			if w.Code != tc.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tc.wantStatus, w.Code, w.Body.String())
			}
			if tc.wantStatus != http.StatusSeeOther {
				if !strings.Contains(w.Body.String(), "tl_login_form") {
					t.Errorf("expected the login form again, got %q", w.Body.String())
				}
				return
			}

			if loc := w.Header().Get("Location"); loc != PathBackend {
				t.Errorf("Location = %q, want %q", loc, PathBackend)
			}
			var token string
			for _, c := range w.Result().Cookies() {
				if c.Name == "contao_backend" {
					token = c.Value
				}
			}
			claims, err := f.tokens.Parse(token)
			if err != nil {
				t.Fatalf("session cookie is not a valid token: %v", err)
			}
			if claims.User.Username != "k.jones" || !claims.User.IsAdmin {
				t.Errorf("unexpected session user %+v", claims.User)
			}
		})
	}
}

func TestLoginRehashesForeignAlgorithm(t *testing.T) {
	f := newBackendFixture(t)
	argon := password.NewHasher(password.Config{Algorithm: password.AlgorithmArgon2id, Argon2Memory: 1024, Argon2Threads: 1})
	hash, err := argon.Hash("s3cret-pass")
	if err != nil {
		t.Fatalf("Hash: %v", err)
	}
	user, err := f.users.FindByUsername(context.Background(), "k.jones")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if err := f.users.UpdatePassword(context.Background(), user.ID, hash); err != nil {
		t.Fatalf("UpdatePassword: %v", err)
	}

	w := testutil.Do(f.engine(nil), testutil.Request{
		Method: http.MethodPost, Path: PathLogin, Form: form("username", "k.jones", "password", "s3cret-pass"),
	})
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", w.Code)
	}
	user, err = f.users.FindByUsername(context.Background(), "k.jones")
	if err != nil {
		t.Fatalf("FindByUsername: %v", err)
	}
	if !strings.HasPrefix(user.Password, "$2") {
		t.Errorf("expected a bcrypt hash after login, got %q", user.Password)
	}
}

func TestLoginRateLimit(t *testing.T) {
	f := newBackendFixture(t)
	r := testutil.NewEngine()
	Mount(r, Routes{
		Backend:    f.ctl,
		LoginLimit: middleware.RateLimit(middleware.RateLimitConfig{RequestsPerMinute: 1}),
	})

	bad := form("username", "k.jones", "password", "guess")
	if w := testutil.Do(r, testutil.Request{Method: http.MethodPost, Path: PathLogin, Form: bad}); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	if w := testutil.Do(r, testutil.Request{Method: http.MethodPost, Path: PathLogin, Form: bad}); w.Code != http.StatusTooManyRequests {
		t.Errorf("expected 429, got %d", w.Code)
	}
}

func TestSafeRedirect(t *testing.T) {
	tests := map[string]string{
		"":                  "/contao",
		"/contao?do=page":   "/contao?do=page",
		"//evil.example":    "/contao",
		"https://evil.test": "/contao",
		"relative":          "/contao",
	}
	for in, want := range tests {
		if got := safeRedirect(in, "/contao"); got != want {
			t.Errorf("safeRedirect(%q) = %q, want %q", in, got, want)
		}
	}
}

func newFragments(t *testing.T) (*fragment.Registry, *fragment.Renderer) {
	t.Helper()
	defs := []di.Definition{
		{
			ID:   "app.widget.welcome",
			Type: "WelcomeWidget",
			Tags: []di.Tag{di.NewTag(fragment.TagDashboardWidget)},
			Factory: func(di.Resolver) (any, error) {
				return fragment.Fragment(fragment.Func(func(context.Context, fragment.Config, fragment.Model) (string, error) {
					return "<p>welcome</p>", nil
				})), nil
			},
		},
		{
			ID:   "app.module.reports",
			Type: "ReportsController",
			Tags: []di.Tag{di.NewTag(fragment.TagBackendModule, "renderer", fragment.RendererESI)},
			Factory: func(di.Resolver) (any, error) {
				return fragment.Fragment(fragment.Func(func(_ context.Context, _ fragment.Config, m fragment.Model) (string, error) {
					return "<table>reports</table>", nil
				})), nil
			},
		},
	}
	return compileFragments(t, defs)
}

func compileFragments(t *testing.T, defs []di.Definition) (*fragment.Registry, *fragment.Renderer) {
	t.Helper()
	b := di.NewBuilder()
	for _, def := range defs {
		if err := b.Register(def); err != nil {
			t.Fatalf("Register: %v", err)
		}
	}

	reg := fragment.NewRegistry()
	for _, ref := range []fragment.Reference{fragment.BackendModule(), fragment.DashboardWidget()} {
		if err := fragment.NewRegisterPass(ref, reg).Process(b); err != nil {
			t.Fatalf("Process: %v", err)
		}
	}
	container, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := reg.Bind(container); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	reg.Freeze()
	return reg, fragment.NewRenderer(reg, PathFragment)
}

func TestDashboard(t *testing.T) {
	reg, renderer := newFragments(t)
	engine, err := template.New(template.Config{})
	if err != nil {
		t.Fatalf("template.New: %v", err)
	}
	f := newBackendFixture(t)
	dashboard := NewDashboardController(reg, renderer, engine, PathLogout)

	mount := func(user *auth.BackendUser) *gin.Engine {
		r := testutil.NewEngine()
		r.Use(func(c *gin.Context) {
			c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), user))
			c.Next()
		})
		Mount(r, Routes{Backend: f.ctl, Dashboard: dashboard, Fragment: NewFragmentController(renderer)})
		return r
	}

	admin := mount(&auth.BackendUser{Username: "k.jones", IsAdmin: true})
	w := testutil.Do(admin, testutil.Request{Path: PathBackend})
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<p>welcome</p>") {
		t.Errorf("dashboard misses widget: %d %s", w.Code, w.Body.String())
	}

	w = testutil.Do(admin, testutil.Request{Path: PathBackend + "?do=reports"})
	if !strings.Contains(w.Body.String(), "esi:include") {
		t.Errorf("esi module should render an include, got %s", w.Body.String())
	}
	w = testutil.Do(admin, testutil.Request{Path: PathFragment + "?key=contao.backend_module.reports&id=1"})
	if w.Code != http.StatusOK || w.Body.String() != "<table>reports</table>" {
		t.Errorf("fragment endpoint: %d %q", w.Code, w.Body.String())
	}
	if w := testutil.Do(admin, testutil.Request{Path: PathBackend + "?do=missing"}); w.Code != http.StatusNotFound {
		t.Errorf("unknown module: expected 404, got %d", w.Code)
	}

	editor := mount(&auth.BackendUser{Username: "editor", Modules: []string{"page"}})
	if w := testutil.Do(editor, testutil.Request{Path: PathBackend + "?do=reports"}); w.Code != http.StatusForbidden {
		t.Errorf("module without access: expected 403, got %d", w.Code)
	}
	if w := testutil.Do(editor, testutil.Request{Path: PathFragment + "?key=nope"}); w.Code != http.StatusNotFound || w.Body.Len() != 0 {
		t.Errorf("unknown fragment: expected empty 404, got %d %q", w.Code, w.Body.String())
	}
}

func staticWidget(id, typeName, html string, priority int) di.Definition {
	return di.Definition{
		ID:   id,
		Type: typeName,
		Tags: []di.Tag{di.NewTag(fragment.TagDashboardWidget, "priority", priority)},
		Factory: func(di.Resolver) (any, error) {
			return fragment.Fragment(fragment.Func(func(context.Context, fragment.Config, fragment.Model) (string, error) {
				return html, nil
			})), nil
		},
	}
}

func TestDashboardWidgetsByPriority(t *testing.T) {
	reg, renderer := compileFragments(t, []di.Definition{
		staticWidget("app.widget.low", "LowWidget", "<p>low</p>", 0),
		staticWidget("app.widget.high", "HighWidget", "<p>high</p>", 100),
	})
	engine, err := template.New(template.Config{})
	if err != nil {
		t.Fatalf("template.New: %v", err)
	}
	f := newBackendFixture(t)
	dashboard := NewDashboardController(reg, renderer, engine, PathLogout)

	r := testutil.NewEngine()
	r.Use(func(c *gin.Context) {
		c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), &auth.BackendUser{Username: "k.jones", IsAdmin: true}))
		c.Next()
	})
	Mount(r, Routes{Backend: f.ctl, Dashboard: dashboard})

	w := testutil.Do(r, testutil.Request{Path: PathBackend})
	body := w.Body.String()
	high, low := strings.Index(body, "<p>high</p>"), strings.Index(body, "<p>low</p>")
	if w.Code != http.StatusOK || high < 0 || low < 0 {
		t.Fatalf("dashboard misses widgets: %d %s", w.Code, body)
	}
	if high > low {
		t.Errorf("priority 100 widget rendered after priority 0 widget:\n%s", body)
	}
}

func TestFragmentEndpointHiddenFromAnonymous(t *testing.T) {
	_, renderer := newFragments(t)
	f := newBackendFixture(t)

	tests := []struct {
		name     string
		user     *auth.BackendUser
		wantCode int
	}{
		{"anonymous", nil, http.StatusNotFound},
		{"userless session", &auth.BackendUser{}, http.StatusNotFound},
		{"backend user", &auth.BackendUser{Username: "k.jones"}, http.StatusOK},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := testutil.NewEngine()
			Mount(r, Routes{
				Backend:  f.ctl,
				Fragment: NewFragmentController(renderer),
				Auth: func(c *gin.Context) {
					if tc.user != nil {
						c.Request = c.Request.WithContext(authctx.Set(c.Request.Context(), tc.user))
					}
					c.Next()
				},
			})

			w := testutil.Do(r, testutil.Request{Path: PathFragment + "?key=contao.dashboard_widget.welcome_widget"})
			if w.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d: %s", tc.wantCode, w.Code, w.Body.String())
			}
			if tc.wantCode == http.StatusNotFound && w.Body.Len() != 0 {
				t.Errorf("expected empty body, got %q", w.Body.String())
			}
			if tc.wantCode == http.StatusOK && w.Body.String() != "<p>welcome</p>" {
				t.Errorf("unexpected fragment body %q", w.Body.String())
			}
		})
	}
}
