// Package pointer provides helpers for optional values.
package pointer

// To returns a pointer to v.
func To[T any](v T) *T {
	return &v
}

// DerefOrEmpty returns the value p points to, or the zero value when p is nil.
func DerefOrEmpty[T any](p *T) T {
	if p == nil {
		var zero T
		return zero
	}

	return *p
}
