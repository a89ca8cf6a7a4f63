package bootstrap

import (
	"context"
	"fmt"

	"github.com/kbukum/corebundle/backend"
	"github.com/kbukum/corebundle/database"
	"github.com/kbukum/corebundle/observability"
	"github.com/kbukum/corebundle/server"
)

// Service is the core bundle application: the database component, the
// compiled bundle and, when serving, the HTTP server.
type Service struct {
	*App[*AppConfig]

	// Bundle is set during the configure phase.
	Bundle *Bundle

	db *database.Component
}

// NewService creates the application for cfg. Telemetry is installed once
// the database is up and flushed on shutdown.
func NewService(cfg *AppConfig, opts ...Option) (*Service, error) {
	app, err := NewApp(cfg, opts...)
	if err != nil {
		return nil, err
	}
	s := &Service{
		App: app,
		db:  database.NewComponent(cfg.Database, app.Logger).WithAutoMigrate(Models()...),
	}
	if err := app.RegisterComponent(s.db); err != nil {
		return nil, err
	}

	var shutdown observability.ShutdownFunc
	app.OnStart(func(ctx context.Context) error {
		var err error
		shutdown, err = observability.Init(ctx, cfg.Observability, cfg.Name, cfg.Version)
		if err != nil {
			return fmt.Errorf("telemetry: %w", err)
		}
		return nil
	})
	app.OnStop(func(ctx context.Context) error {
		if shutdown == nil {
			return nil
		}
		return shutdown(ctx)
	})

	app.OnConfigure(func(ctx context.Context, a *App[*AppConfig]) error {
		bundle, err := Build(ctx, a.Cfg, s.db.DB())
		if err != nil {
			return fmt.Errorf("building bundle: %w", err)
		}
		s.Bundle = bundle
		a.OnStop(func(context.Context) error { return bundle.Container.Close() })
		bundle.Describe(a.Summary)
		return nil
	})
	return s, nil
}

// Serve mounts the backend routes on a new HTTP server and runs until a
// signal arrives.
func (s *Service) Serve(ctx context.Context) error {
	s.OnConfigure(func(_ context.Context, a *App[*AppConfig]) error {
		routes, err := s.Bundle.Routes(a.Cfg)
		if err != nil {
			return err
		}
		srv := server.New(a.Cfg.Server, a.Logger)
		srv.ApplyDefaults(a.Name, a.Components.HealthAll)
		backend.Mount(srv.GinEngine(), routes)
		return a.RegisterComponent(server.NewComponent(srv))
	})
	return s.Run(ctx)
}

// Task runs fn against the compiled bundle without an HTTP server.
func (s *Service) Task(ctx context.Context, fn func(ctx context.Context, b *Bundle) error) error {
	return s.RunTask(ctx, func(ctx context.Context) error {
		return fn(ctx, s.Bundle)
	})
}
