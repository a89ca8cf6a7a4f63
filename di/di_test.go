package di

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type closer struct {
	closed *[]string
	id     string
}

func (c *closer) Close() error {
	*c.closed = append(*c.closed, c.id)
	return nil
}

func value(v any) Factory {
	return func(Resolver) (any, error) { return v, nil }
}

func TestRegisterKeepsPositionOnOverwrite(t *testing.T) {
	b := NewBuilder()
	_ = b.Register(Definition{ID: "a", Factory: value(1)})
	_ = b.Register(Definition{ID: "b", Factory: value(2)})
	_ = b.Register(Definition{ID: "a", Factory: value(3)})

	if diff := cmp.Diff([]string{"a", "b"}, b.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
	c, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if got := MustResolve[int](c, "a"); got != 3 {
		t.Errorf("expected overwritten value 3, got %d", got)
	}
}

func TestRegisterValidation(t *testing.T) {
	b := NewBuilder()
	if err := b.Register(Definition{Factory: value(1)}); err == nil {
		t.Error("expected error for empty ID")
	}
	if err := b.Register(Definition{ID: "x"}); err == nil {
		t.Error("expected error for missing factory")
	}
}

func TestFindTaggedOrderAndPriority(t *testing.T) {
	b := NewBuilder()
	_ = b.Register(Definition{ID: "low", Factory: value(nil), Tags: []Tag{NewTag("t", "priority", -1)}})
	_ = b.Register(Definition{ID: "plain", Factory: value(nil)})
	_ = b.Register(Definition{ID: "mid1", Factory: value(nil), Tags: []Tag{NewTag("t")}})
	_ = b.Register(Definition{ID: "high", Factory: value(nil), Tags: []Tag{NewTag("t", "priority", "10")}})
	_ = b.Register(Definition{ID: "mid2", Factory: value(nil), Tags: []Tag{NewTag("t", "priority", 0)}})

	ids := func(ts []TaggedService) []string {
		var out []string
		for _, s := range ts {
			out = append(out, s.ID)
		}
		return out
	}
	if diff := cmp.Diff([]string{"low", "mid1", "high", "mid2"}, ids(b.FindTagged("t"))); diff != "" {
		t.Errorf("FindTagged mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"high", "mid1", "mid2", "low"}, ids(b.FindTaggedByPriority("t"))); diff != "" {
		t.Errorf("FindTaggedByPriority mismatch (-want +got):\n%s", diff)
	}
}

func TestRemove(t *testing.T) {
	b := NewBuilder()
	_ = b.Register(Definition{ID: "a", Factory: value(1)})
	_ = b.Register(Definition{ID: "b", Factory: value(2)})
	b.Remove("a")
	if b.Has("a") {
		t.Error("a should be removed")
	}
	if diff := cmp.Diff([]string{"b"}, b.IDs()); diff != "" {
		t.Errorf("IDs mismatch (-want +got):\n%s", diff)
	}
}

func TestLazyDefinitionsBuiltOnFirstResolve(t *testing.T) {
	built := 0
	b := NewBuilder()
	_ = b.Register(Definition{ID: "lazy", Lazy: true, Factory: func(Resolver) (any, error) {
		built++
		return "x", nil
	}})
	c, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if built != 0 {
		t.Fatalf("lazy definition built during compile")
	}
	_, _ = c.Resolve("lazy")
	_, _ = c.Resolve("lazy")
	if built != 1 {
		t.Errorf("expected one construction, got %d", built)
	}
}

func TestCallsRunAfterFactory(t *testing.T) {
	b := NewBuilder()
	_ = b.Set("prefix", "p-")
	def := Definition{ID: "list", Factory: value(&[]string{})}
	def.AddCall(func(r Resolver, inst any) error {
		prefix := MustResolve[string](r, "prefix")
		list := inst.(*[]string)
		*list = append(*list, prefix+"one")
		return nil
	})
	_ = b.Register(def)

	c, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	list := MustResolve[*[]string](c, "list")
	if diff := cmp.Diff([]string{"p-one"}, *list); diff != "" {
		t.Errorf("call result mismatch (-want +got):\n%s", diff)
	}
}

func TestCompileTwiceFails(t *testing.T) {
	b := NewBuilder()
	if _, err := b.Compile(); err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := b.Compile(); !errors.Is(err, ErrCompiled) {
		t.Errorf("expected ErrCompiled, got %v", err)
	}
	if err := b.Register(Definition{ID: "late", Factory: value(1)}); !errors.Is(err, ErrCompiled) {
		t.Errorf("expected ErrCompiled on late register, got %v", err)
	}
}

func TestCircularReference(t *testing.T) {
	b := NewBuilder()
	_ = b.Register(Definition{ID: "a", Lazy: true, Factory: func(r Resolver) (any, error) { return r.Resolve("b") }})
	_ = b.Register(Definition{ID: "b", Lazy: true, Factory: func(r Resolver) (any, error) { return r.Resolve("a") }})
	c, err := b.Compile()
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}
	if _, err := c.Resolve("a"); err == nil {
		t.Error("expected circular reference error")
	}
}

func TestResolveTypeMismatch(t *testing.T) {
	b := NewBuilder()
	_ = b.Register(Definition{ID: "n", Factory: value(42)})
	c, _ := b.Compile()

	if _, err := Resolve[string](c, "n"); err == nil {
		t.Error("expected type mismatch error")
	}
	if _, ok := TryResolve[int](c, "missing"); ok {
		t.Error("expected missing service")
	}
	if _, err := c.Resolve("missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestCloseReverseOrder(t *testing.T) {
	var closed []string
	b := NewBuilder()
	_ = b.Register(Definition{ID: "first", Factory: value(&closer{closed: &closed, id: "first"})})
	_ = b.Register(Definition{ID: "second", Factory: value(&closer{closed: &closed, id: "second"})})
	c, _ := b.Compile()
	if err := c.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if diff := cmp.Diff([]string{"second", "first"}, closed); diff != "" {
		t.Errorf("close order mismatch (-want +got):\n%s", diff)
	}
}

func TestTagAttributes(t *testing.T) {
	tag := NewTag("contao.content_element", "category", "texts", "priority", 5, "dangling")
	if tag.String("category", "miscellaneous") != "texts" {
		t.Error("expected category texts")
	}
	if tag.String("template", "ce_x") != "ce_x" {
		t.Error("expected default template")
	}
	if tag.Int("priority", 0) != 5 {
		t.Error("expected priority 5")
	}
	if _, ok := tag.Attributes["dangling"]; ok {
		t.Error("dangling key must be ignored")
	}
}
