package di

import "fmt"

// MustResolve resolves a service with type safety and panics on error.
// Use it only while wiring the application, never in request handlers.
func MustResolve[T any](r Resolver, id string) T {
	result, err := Resolve[T](r, id)
	if err != nil {
		panic(err.Error())
	}
	return result
}

// Resolve resolves a service with type safety.
//
//	builder, err := di.Resolve[*picker.ProviderBuilder](c, "contao.picker.builder")
func Resolve[T any](r Resolver, id string) (T, error) {
	var zero T
	instance, err := r.Resolve(id)
	if err != nil {
		return zero, fmt.Errorf("di: failed to resolve %s: %w", id, err)
	}
	result, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("di: service %s is %T, expected %T", id, instance, zero)
	}
	return result, nil
}

// TryResolve resolves an optional service; it reports false when missing or
// of the wrong type.
func TryResolve[T any](r Resolver, id string) (T, bool) {
	result, err := Resolve[T](r, id)
	if err != nil {
		var zero T
		return zero, false
	}
	return result, true
}
