// Package collections provides generic collection utilities.
package collections

// Concat joins slices into a newly allocated slice, keeping element order.
// Nil and empty inputs contribute nothing.
func Concat[T any](slices ...[]T) []T {
	n := 0
	for _, s := range slices {
		n += len(s)
	}

	out := make([]T, 0, n)
	for _, s := range slices {
		out = append(out, s...)
	}
	return out
}
