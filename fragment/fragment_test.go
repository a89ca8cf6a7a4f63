package fragment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kbukum/corebundle/di"
)

func echo(name string) Func {
	return func(_ context.Context, cfg Config, m Model) (string, error) {
		return name + ":" + cfg.Template + ":" + m.String("text"), nil
	}
}

func define(t *testing.T, b *di.Builder, id, typeName string, built *int, tags ...di.Tag) {
	t.Helper()
	err := b.Register(di.Definition{
		ID:   id,
		Type: typeName,
		Tags: tags,
		Factory: func(di.Resolver) (any, error) {
			if built != nil {
				*built++
			}
			return Fragment(echo(id)), nil
		},
	})
	if err != nil {
		t.Fatalf("Register(%s): %v", id, err)
	}
}

func TestTypeFromName(t *testing.T) {
	tests := map[string]string{
		"AccordionController":     "accordion",
		"PreviewLinksController":  "preview_links",
		"element.HTMLModule":      "html_module",
		"*element.TextController": "text",
		"versions":                "versions",
	}
	for in, want := range tests {
		if got := TypeFromName(in); got != want {
			t.Errorf("TypeFromName(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestRegisterPassDefaults(t *testing.T) {
	b := di.NewBuilder()
	define(t, b, "app.element.accordion", "AccordionController", nil, di.NewTag(TagContentElement))

	reg := NewRegistry()
	if err := NewRegisterPass(ContentElement(), reg).Process(b); err != nil {
		t.Fatalf("Process: %v", err)
	}

	cfg, ok := reg.Get("contao.content_element.accordion")
	if !ok {
		t.Fatalf("expected registration, keys=%v", reg.Keys())
	}
	want := Config{
		Key:       "contao.content_element.accordion",
		ServiceID: "app.element.accordion",
		Tag:       TagContentElement,
		Type:      "accordion",
		Category:  DefaultCategory,
		Template:  "content/ce_accordion",
		Renderer:  RendererForward,
		Lazy:      true,
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterPassPriorityOrdering(t *testing.T) {
	b := di.NewBuilder()
	define(t, b, "a", "", nil, di.NewTag(TagContentElement, "type", "a", "category", "texts"))
	define(t, b, "b", "", nil, di.NewTag(TagContentElement, "type", "b", "category", "texts", "priority", 10))
	define(t, b, "c", "", nil, di.NewTag(TagContentElement, "type", "c", "category", "texts"))
	define(t, b, "d", "", nil, di.NewTag(TagContentElement, "type", "d", "category", "media", "priority", -5))

	reg := NewRegistry()
	if err := NewRegisterPass(ContentElement(), reg).Process(b); err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := map[string][]string{
		"texts": {"b", "a", "c"},
		"media": {"d"},
	}
	if diff := cmp.Diff(want, reg.Globals(GlobalsContentElements)); diff != "" {
		t.Errorf("globals mismatch (-want +got):\n%s", diff)
	}
}

func TestRegisterPassWithoutGlobalsKey(t *testing.T) {
	b := di.NewBuilder()
	define(t, b, "w", "VersionsController", nil, di.NewTag(TagDashboardWidget))

	reg := NewRegistry()
	if err := NewRegisterPass(DashboardWidget(), reg).Process(b); err != nil {
		t.Fatalf("Process: %v", err)
	}
	if _, ok := reg.Get("contao.dashboard_widget.versions"); !ok {
		t.Error("widget must be registered")
	}
	if len(reg.GlobalsKeys()) != 0 {
		t.Errorf("dashboard widgets have no globals entry, got %v", reg.GlobalsKeys())
	}
}

func TestRegisterPassRejectsUnknownRenderer(t *testing.T) {
	b := di.NewBuilder()
	define(t, b, "x", "", nil, di.NewTag(TagFrontendModule, "type", "x", "renderer", "teleport"))
	if err := NewRegisterPass(FrontendModule(), NewRegistry()).Process(b); err == nil {
		t.Error("expected unknown renderer error")
	}
}

func TestProxiedFragmentsBuildOnFirstRender(t *testing.T) {
	built := 0
	b := di.NewBuilder()
	define(t, b, "app.text", "TextController", &built, di.NewTag(TagContentElement))
	define(t, b, "app.links", "PreviewLinksController", nil, di.NewTag(TagBackendModule))

	reg := NewRegistry()
	for _, ref := range []Reference{BackendModule(), ContentElement()} {
		if err := NewRegisterPass(ref, reg).Process(b); err != nil {
			t.Fatalf("Process: %v", err)
		}
	}
	reg.Freeze()

	c, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if err := reg.Bind(c); err != nil {
		t.Fatalf("Bind: %v", err)
	}
	if built != 0 {
		t.Fatalf("proxied content element built before first render")
	}

	r := NewRenderer(reg, "/_fragment")
	out, ok, err := r.Render(context.Background(), GlobalsContentElements, Model{Type: "text", Data: map[string]any{"text": "hi"}})
	if err != nil || !ok {
		t.Fatalf("Render = %v, %v", ok, err)
	}
	if out != "app.text:content/ce_text:hi" {
		t.Errorf("unexpected output %q", out)
	}
	_, _, _ = r.Render(context.Background(), GlobalsContentElements, Model{Type: "text"})
	if built != 1 {
		t.Errorf("expected one construction, got %d", built)
	}
}

func TestRendererUnknownType(t *testing.T) {
	reg := NewRegistry()
	reg.Freeze()
	_, ok, err := NewRenderer(reg, "/_fragment").Render(context.Background(), GlobalsContentElements, Model{Type: "nope"})
	if ok || err != nil {
		t.Errorf("expected absent result, got ok=%v err=%v", ok, err)
	}
}

func TestRendererESI(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Add(Config{Key: "contao.frontend_module.nav", Type: "nav", Category: DefaultCategory, Renderer: RendererESI}, GlobalsFrontendModules, nil)
	reg.Freeze()

	out, ok, err := NewRenderer(reg, "/_fragment").Render(context.Background(), GlobalsFrontendModules, Model{ID: 7, Type: "nav"})
	if err != nil || !ok {
		t.Fatalf("Render = %v, %v", ok, err)
	}
	if !strings.HasPrefix(out, `<esi:include src="/_fragment?`) || !strings.Contains(out, "id=7") {
		t.Errorf("unexpected esi output %q", out)
	}
}

func TestRegistryFrozenAndUnbound(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Add(Config{Key: "k", Type: "k"}, "", nil)
	reg.Freeze()
	if err := reg.Add(Config{Key: "late"}, "", nil); !errors.Is(err, ErrFrozen) {
		t.Errorf("expected ErrFrozen, got %v", err)
	}
	if _, err := reg.Fragment("k"); !errors.Is(err, ErrNotBound) {
		t.Errorf("expected ErrNotBound, got %v", err)
	}
}

func TestRegistryReAddReplacesInPlace(t *testing.T) {
	reg := NewRegistry()
	_ = reg.Add(Config{Key: "a", Type: "a", Category: "x", Priority: 1}, "TL_CTE", nil)
	_ = reg.Add(Config{Key: "b", Type: "b", Category: "x"}, "TL_CTE", nil)
	_ = reg.Add(Config{Key: "a", Type: "a", Category: "y"}, "TL_CTE", nil)

	if diff := cmp.Diff([]string{"a", "b"}, reg.Keys()); diff != "" {
		t.Errorf("keys mismatch (-want +got):\n%s", diff)
	}
	want := map[string][]string{"x": {"b"}, "y": {"a"}}
	if diff := cmp.Diff(want, reg.Globals("TL_CTE")); diff != "" {
		t.Errorf("globals mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryReAddKeepsTiePosition(t *testing.T) {
	reg := NewRegistry()
	for _, key := range []string{"a", "b", "c"} {
		_ = reg.Add(Config{Key: key, Type: key, Category: "x"}, "TL_CTE", nil)
	}
	_ = reg.Add(Config{Key: "a", Type: "a", Category: "x", Template: "ce_a_v2"}, "TL_CTE", nil)

	if diff := cmp.Diff(map[string][]string{"x": {"a", "b", "c"}}, reg.Globals("TL_CTE")); diff != "" {
		t.Errorf("globals mismatch (-want +got):\n%s", diff)
	}
	if cfg, _ := reg.Lookup("TL_CTE", "a"); cfg.Template != "ce_a_v2" {
		t.Errorf("replacement not stored, got template %q", cfg.Template)
	}
}

func TestRegistryByTag(t *testing.T) {
	reg := NewRegistry()
	entries := []Config{
		{Key: "w.low", Tag: "w", Type: "low"},
		{Key: "m.mod", Tag: "m", Type: "mod", Priority: 500},
		{Key: "w.high", Tag: "w", Type: "high", Priority: 100},
		{Key: "w.tie", Tag: "w", Type: "tie"},
	}
	for _, cfg := range entries {
		if err := reg.Add(cfg, "", nil); err != nil {
			t.Fatalf("Add(%s): %v", cfg.Key, err)
		}
	}

	var got []string
	for _, cfg := range reg.ByTag("w") {
		got = append(got, cfg.Key)
	}
	if diff := cmp.Diff([]string{"w.high", "w.low", "w.tie"}, got); diff != "" {
		t.Errorf("ByTag mismatch (-want +got):\n%s", diff)
	}
	if len(reg.ByTag("missing")) != 0 {
		t.Error("unknown tag should list nothing")
	}
}

func TestLazyRemembersFailure(t *testing.T) {
	calls := 0
	l := NewLazy("k", func() (Fragment, error) {
		calls++
		return nil, errors.New("boom")
	})
	for i := 0; i < 3; i++ {
		if _, err := l.Render(context.Background(), Config{}, Model{}); err == nil {
			t.Fatal("expected error")
		}
	}
	if calls != 1 {
		t.Errorf("expected one build attempt, got %d", calls)
	}
}
