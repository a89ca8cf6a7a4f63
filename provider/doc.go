// Package provider implements the ordered, name-keyed plugin registry that
// backs the preview toolbar and the picker.
//
// Entries are registered once at startup, in a deliberate order, and the
// registry is frozen before the server accepts requests:
//
//	reg := provider.NewRegistry[preview.ToolbarProvider]()
//	_ = reg.Add(previewProvider)
//	reg.Freeze()
//	p, ok := reg.Get("preview")
//
// Lookups never fail loudly: an unknown name yields (zero, false) and only
// HTTP handlers turn that absence into a status code.
package provider
