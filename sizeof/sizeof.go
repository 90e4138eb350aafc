package sizeof

import "unsafe"

// Slice is the header plus the backing array of the first len(v) elements.
func Slice[T any](v []T) uint64 {
	return Array(len(v), unsafe.Sizeof(*new(T)))
}

// Array is Slice for a slice of n elements of the given size.
func Array(n int, elem uintptr) uint64 {
	return 24 + uint64(elem)*uint64(n)
}
