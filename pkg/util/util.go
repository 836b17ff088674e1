package util

// Find returns the first element matching the predicate, or the zero value
// when nothing matches.
func Find[T any](items []T, fn func(item T) bool) T {
	for _, item := range items {
		if fn(item) {
			return item
		}
	}
	var zero T
	return zero
}

// Filter returns the elements matching the predicate, preserving order.
func Filter[T any](items []T, fn func(item T) bool) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if fn(item) {
			out = append(out, item)
		}
	}
	return out
}

// Map transforms each element through fn, preserving order.
func Map[T any, U any](items []T, fn func(item T) U) []U {
	out := make([]U, len(items))
	for i, item := range items {
		out[i] = fn(item)
	}
	return out
}

// Reduce folds the slice into an accumulator.
func Reduce[T any, A any](items []T, fn func(acc A, item T) A, initial A) A {
	acc := initial
	for _, item := range items {
		acc = fn(acc, item)
	}
	return acc
}
