// Package observability wires OpenTelemetry tracing and metrics.
//
// Spans are opened around every compiler pass, every HTTP request and
// every crawled URL. When telemetry is disabled the global no-op providers
// stay in place and the instrumentation costs nothing:
//
//	shutdown, err := observability.Init(ctx, cfg, "corebundle", version.Version)
//	defer shutdown(ctx)
//
//	ctx, span := observability.StartSpan(ctx, "compiler.pass")
//	defer span.End()
package observability
