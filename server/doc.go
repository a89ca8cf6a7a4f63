// Package server provides the HTTP server for the backend endpoints: a gin
// engine behind an h2c handler, run as a component.
//
// # Middleware
//
// Built-in middleware (server/middleware):
//
//   - Recovery: panic recovery with structured logging
//   - RequestID: request ID generation and propagation into the logger context
//   - RequestLogger: request logging with duration tracking
//   - Telemetry: one span and one metric sample per request
//   - CORS and BodySizeLimit
//   - BackendAuth: backend session token to authenticated user
//   - RateLimit: per-client request budget, used on the login endpoint
//
// # Endpoints
//
// Built-in endpoints (server/endpoint):
//
//   - /health: component health aggregation
//   - /ready: readiness probe
//   - /info: build information
package server
