// Package picker resolves resource pickers for the backend.
//
// A Config names the picker context ("page", "file", "link", ...), carries
// free-form extras and the current field value. Builders turn a Config into a
// Picker; the Resolver asks its builders in a fixed order and the first one
// that supports the context wins:
//
//	r := picker.NewResolver([]string{"default"})
//	_ = r.Add("default", picker.NewProviderBuilder("/contao/picker"))
//	p, ok := r.Create(picker.Config{Context: "page"})
//
// Builder lookups return (nil, false) rather than errors. HTTP handlers map
// that to ErrUnsupportedContext and malformed extras to ErrInvalidExtras.
package picker
