package provider

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

type testProvider struct {
	name    string
	version int
}

func (p *testProvider) Name() string { return p.name }

func names(ps []*testProvider) []string {
	out := make([]string, 0, len(ps))
	for _, p := range ps {
		out = append(out, p.name)
	}
	return out
}

func TestRegistryKeepsRegistrationOrder(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	for _, n := range []string{"preview", "beta", "alpha"} {
		if err := reg.Add(&testProvider{name: n}); err != nil {
			t.Fatalf("Add(%s) failed: %v", n, err)
		}
	}

	want := []string{"preview", "beta", "alpha"}
	if diff := cmp.Diff(want, names(reg.All())); diff != "" {
		t.Errorf("All() order mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, reg.Names()); diff != "" {
		t.Errorf("Names() order mismatch (-want +got):\n%s", diff)
	}
}

func TestRegistryLastRegistrationWinsInPlace(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	_ = reg.Add(&testProvider{name: "a", version: 1})
	_ = reg.Add(&testProvider{name: "b", version: 1})
	_ = reg.Add(&testProvider{name: "a", version: 2})

	if reg.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", reg.Len())
	}
	if diff := cmp.Diff([]string{"a", "b"}, reg.Names()); diff != "" {
		t.Errorf("overwrite moved the entry (-want +got):\n%s", diff)
	}
	got, ok := reg.Get("a")
	if !ok || got.version != 2 {
		t.Errorf("expected version 2 of a, got %+v (ok=%v)", got, ok)
	}
}

func TestRegistryGetMissingIsAbsent(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	p, ok := reg.Get("missing")
	if ok {
		t.Error("expected ok=false for unknown name")
	}
	if p != nil {
		t.Errorf("expected zero value, got %+v", p)
	}
}

func TestRegistryFreeze(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	_ = reg.Add(&testProvider{name: "a"})
	reg.Freeze()

	err := reg.Add(&testProvider{name: "b"})
	if !errors.Is(err, ErrFrozen) {
		t.Fatalf("expected ErrFrozen, got %v", err)
	}
	if !reg.Frozen() || reg.Len() != 1 {
		t.Errorf("frozen registry changed: frozen=%v len=%d", reg.Frozen(), reg.Len())
	}
}

func TestRegistryAllReturnsCopy(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	_ = reg.Add(&testProvider{name: "a"})
	all := reg.All()
	all[0] = &testProvider{name: "mutated"}

	if got, _ := reg.Get("a"); got.name != "a" {
		t.Error("mutating the returned slice must not change the registry")
	}
}

func TestRegistryConcurrentReadsAfterFreeze(t *testing.T) {
	reg := NewRegistry[*testProvider]()
	_ = reg.Add(&testProvider{name: "a"})
	_ = reg.Add(&testProvider{name: "b"})
	reg.Freeze()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if len(reg.All()) != 2 {
				t.Error("unexpected length")
			}
			if _, ok := reg.Get("b"); !ok {
				t.Error("expected b")
			}
		}()
	}
	wg.Wait()
}
