// Package component defines lifecycle-managed infrastructure (database,
// HTTP server) and the registry that starts and stops it in order.
package component
