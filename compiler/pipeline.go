package compiler

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/corebundle/di"
	"github.com/kbukum/corebundle/logger"
	"github.com/kbukum/corebundle/observability"
)

var (
	// ErrAlreadyCompiled is returned when Run is called a second time.
	ErrAlreadyCompiled = errors.New("compiler: pipeline already ran")
	// ErrOrder is returned when the pass order violates a constraint.
	ErrOrder = errors.New("compiler: pass order violates constraint")
)

// Pass processes the builder's definitions.
type Pass interface {
	Name() string
	Process(b *di.Builder) error
}

// Constraint requires Before to run ahead of After.
type Constraint struct {
	Before string
	After  string
}

// Pipeline runs passes in order, exactly once.
type Pipeline struct {
	passes      []Pass
	constraints []Constraint
	finish      []func()
	ran         bool
	log         *logger.Logger
	metrics     *observability.Metrics
}

// NewPipeline creates a pipeline running passes in the given order.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{
		passes:  passes,
		log:     logger.Get("compiler"),
		metrics: observability.MustMetrics(),
	}
}

// MustPrecede declares that the pass named before has to run ahead of the
// pass named after.
func (p *Pipeline) MustPrecede(before, after string) *Pipeline {
	p.constraints = append(p.constraints, Constraint{Before: before, After: after})
	return p
}

// OnFinish registers fn to run after the last pass succeeded.
func (p *Pipeline) OnFinish(fn func()) *Pipeline {
	p.finish = append(p.finish, fn)
	return p
}

// Names returns the pass names in run order.
func (p *Pipeline) Names() []string {
	names := make([]string, len(p.passes))
	for i, pass := range p.passes {
		names[i] = pass.Name()
	}
	return names
}

// Constraints returns the declared ordering constraints.
func (p *Pipeline) Constraints() []Constraint {
	return slices.Clone(p.constraints)
}

// Validate checks pass names are unique and every constraint holds.
func (p *Pipeline) Validate() error {
	index := make(map[string]int, len(p.passes))
	for i, pass := range p.passes {
		name := pass.Name()
		if _, dup := index[name]; dup {
			return fmt.Errorf("compiler: duplicate pass %q", name)
		}
		index[name] = i
	}
	for _, c := range p.constraints {
		before, ok := index[c.Before]
		if !ok {
			return fmt.Errorf("%w: unknown pass %q", ErrOrder, c.Before)
		}
		after, ok := index[c.After]
		if !ok {
			return fmt.Errorf("%w: unknown pass %q", ErrOrder, c.After)
		}
		if before >= after {
			return fmt.Errorf("%w: %s must run before %s", ErrOrder, c.Before, c.After)
		}
	}
	return nil
}

// Run validates the order and processes every pass. A failing pass aborts
// the build; the pipeline cannot be run again either way.
func (p *Pipeline) Run(ctx context.Context, b *di.Builder) (err error) {
	if p.ran {
		return ErrAlreadyCompiled
	}
	p.ran = true

	if err := p.Validate(); err != nil {
		return err
	}

	ctx, span := observability.StartSpan(ctx, observability.SpanCompile)
	defer func() { observability.EndSpan(span, err) }()

	start := time.Now()
	for _, pass := range p.passes {
		if err := p.runPass(ctx, pass, b); err != nil {
			p.log.Error("Compiler pass failed", map[string]interface{}{
				logger.FieldPass:  pass.Name(),
				logger.FieldError: err.Error(),
			})
			return fmt.Errorf("compiler pass %s: %w", pass.Name(), err)
		}
	}
	for _, fn := range p.finish {
		fn()
	}

	p.log.Info("Compiler passes finished", map[string]interface{}{
		"passes":             len(p.passes),
		logger.FieldDuration: time.Since(start).Milliseconds(),
	})
	return nil
}

func (p *Pipeline) runPass(ctx context.Context, pass Pass, b *di.Builder) (err error) {
	ctx, span := observability.StartSpan(ctx, observability.SpanCompilerPass,
		trace.WithAttributes(attribute.String(observability.AttrPass, pass.Name())))
	start := time.Now()
	defer func() {
		p.metrics.RecordPass(ctx, pass.Name(), err, time.Since(start))
		observability.EndSpan(span, err)
	}()

	p.log.Debug("Running compiler pass", map[string]interface{}{logger.FieldPass: pass.Name()})
	return pass.Process(b)
}
