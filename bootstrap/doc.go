// Package bootstrap wires the core bundle into a running service.
//
// App runs components and hooks through a fixed lifecycle: components
// start, OnStart hooks run, the configure phase builds whatever needs the
// infrastructure, components registered while configuring start, OnReady
// hooks run and the startup summary is printed.
//
// Service builds on App: it declares every bundle service on a di.Builder,
// runs the compiler passes, compiles the container and mounts the backend
// routes.
//
//	cfg, err := bootstrap.LoadConfig("corebundle")
//	svc, err := bootstrap.NewService(cfg)
//	err = svc.Serve(ctx)
package bootstrap
