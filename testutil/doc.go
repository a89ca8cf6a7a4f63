// Package testutil holds helpers shared by package tests: throwaway sqlite
// databases, component lifecycle wiring and gin request recording.
package testutil
