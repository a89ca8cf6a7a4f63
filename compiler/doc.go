// Package compiler runs the build-time passes that turn tagged service
// definitions into registries: picker providers, preview toolbar providers,
// fragments, search indexers and crawl subscribers.
//
// The pipeline runs once, in a fixed order, before the container is
// compiled. Ordering constraints between passes are checked before the
// first pass runs.
package compiler
