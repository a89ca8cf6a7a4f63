// Package template renders the bundle's HTML through pongo2.
//
// Templates are addressed by name without extension ("frontend_preview/toolbar").
// A configured directory is searched before the embedded defaults, so a
// deployment can override any template by dropping a file with the same
// relative path. Compiled templates are kept in a bounded LRU cache.
package template
