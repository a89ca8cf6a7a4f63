package compiler

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/kbukum/corebundle/crawl"
	"github.com/kbukum/corebundle/di"
	"github.com/kbukum/corebundle/fragment"
	"github.com/kbukum/corebundle/observability"
	"github.com/kbukum/corebundle/search"
)

type stubPass struct {
	name  string
	err   error
	calls *[]string
}

func (p *stubPass) Name() string { return p.name }
func (p *stubPass) Process(*di.Builder) error {
	if p.calls != nil {
		*p.calls = append(*p.calls, p.name)
	}
	return p.err
}

func TestDefaultPassOrder(t *testing.T) {
	p := NewDefaultPipeline(fragment.NewRegistry())
	want := []string{
		"picker-provider",
		"frontend-preview-provider",
		"register-fragments:contao.backend_module",
		"register-fragments:contao.frontend_module",
		"register-fragments:contao.content_element",
		"register-fragments:contao.dashboard_widget",
		"search-indexer",
		"crawler",
	}
	if diff := cmp.Diff(want, p.Names()); diff != "" {
		t.Errorf("pass order mismatch (-want +got):\n%s", diff)
	}
	if err := p.Validate(); err != nil {
		t.Errorf("default pipeline must validate: %v", err)
	}
}

func TestRunValidatesBeforeRunningAnything(t *testing.T) {
	var calls []string
	p := NewPipeline(
		&stubPass{name: "crawler", calls: &calls},
		&stubPass{name: "search-indexer", calls: &calls},
	).MustPrecede("search-indexer", "crawler")

	err := p.Run(context.Background(), di.NewBuilder())
	if !errors.Is(err, ErrOrder) {
		t.Fatalf("expected ErrOrder, got %v", err)
	}
	if len(calls) != 0 {
		t.Errorf("no pass may run on a violated constraint, ran %v", calls)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		pipeline *Pipeline
		wantErr  bool
	}{
		{"ok", NewPipeline(&stubPass{name: "a"}, &stubPass{name: "b"}).MustPrecede("a", "b"), false},
		{"unknown pass", NewPipeline(&stubPass{name: "a"}).MustPrecede("a", "b"), true},
		{"duplicate pass", NewPipeline(&stubPass{name: "a"}, &stubPass{name: "a"}), true},
		{"self constraint", NewPipeline(&stubPass{name: "a"}).MustPrecede("a", "a"), true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.pipeline.Validate(); (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRunOnce(t *testing.T) {
	var calls []string
	finished := 0
	p := NewPipeline(&stubPass{name: "a", calls: &calls}, &stubPass{name: "b", calls: &calls}).
		OnFinish(func() { finished++ })

	b := di.NewBuilder()
	if err := p.Run(context.Background(), b); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if err := p.Run(context.Background(), b); !errors.Is(err, ErrAlreadyCompiled) {
		t.Errorf("expected ErrAlreadyCompiled, got %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if finished != 1 {
		t.Errorf("finish hook ran %d times", finished)
	}
}

func TestRunStopsAtFailingPass(t *testing.T) {
	var calls []string
	boom := errors.New("boom")
	finished := false
	p := NewPipeline(
		&stubPass{name: "a", calls: &calls, err: boom},
		&stubPass{name: "b", calls: &calls},
	).OnFinish(func() { finished = true })

	err := p.Run(context.Background(), di.NewBuilder())
	if !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	if diff := cmp.Diff([]string{"a"}, calls); diff != "" {
		t.Errorf("calls mismatch (-want +got):\n%s", diff)
	}
	if finished {
		t.Error("finish hook must not run after a failure")
	}
}

func TestRunEmitsSpanPerPass(t *testing.T) {
	rec := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(rec)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	p := NewPipeline(&stubPass{name: "a"}, &stubPass{name: "b"})
	if err := p.Run(context.Background(), di.NewBuilder()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	var names []string
	for _, s := range rec.Ended() {
		names = append(names, s.Name())
	}
	want := []string{observability.SpanCompilerPass, observability.SpanCompilerPass, observability.SpanCompile}
	if diff := cmp.Diff(want, names); diff != "" {
		t.Errorf("spans mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultPipelineWiresSearchAndCrawler(t *testing.T) {
	registry := fragment.NewRegistry()
	b := di.NewBuilder()
	_ = b.Register(di.Definition{
		ID:      di.Services.SearchIndexer,
		Factory: func(di.Resolver) (any, error) { return search.NewDelegatingIndexer(), nil },
	})
	_ = b.Register(di.Definition{
		ID:      di.Services.Crawler,
		Factory: func(di.Resolver) (any, error) { return crawl.New(crawl.Config{}, nil), nil },
	})
	_ = b.Register(di.Definition{
		ID:   "contao.content_element.text",
		Type: "TextController",
		Tags: []di.Tag{di.NewTag(fragment.TagContentElement, "category", "texts")},
		Factory: func(di.Resolver) (any, error) {
			return fragment.Func(func(context.Context, fragment.Config, fragment.Model) (string, error) { return "", nil }), nil
		},
	})

	if err := NewDefaultPipeline(registry).Run(context.Background(), b); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !registry.Frozen() {
		t.Error("fragment registry must be frozen after the pipeline")
	}
	if b.Has(di.Services.SearchIndexer) {
		t.Error("indexer without tagged indexers must be removed")
	}
	if b.Has(di.Services.SearchIndexSubscriber) {
		t.Error("search index subscriber requires the indexer")
	}

	want := map[string][]string{"texts": {"text"}}
	if diff := cmp.Diff(want, registry.Globals(fragment.GlobalsContentElements)); diff != "" {
		t.Errorf("TL_CTE mismatch (-want +got):\n%s", diff)
	}
}
