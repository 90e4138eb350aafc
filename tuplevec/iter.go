package tuplevec

import "unsafe"

func elem[V any](p *V, i int) *V {
	return (*V)(unsafe.Add(unsafe.Pointer(p), uintptr(i)*unsafe.Sizeof(*p)))
}

type iterator[It, R any] interface {
	Add(n int) It
	Deref() R
	Index() int
	Equal(o It) bool
}

// Reverse walks an iterator backwards. It refers to the row before its base,
// so a Reverse built from End dereferences to the last row.
type Reverse[It iterator[It, R], R any] struct {
	base It
}

func MakeReverse[It iterator[It, R], R any](base It) Reverse[It, R] {
	return Reverse[It, R]{base: base}
}

func (r Reverse[It, R]) Base() It             { return r.base }
func (r Reverse[It, R]) Deref() R             { return r.base.Add(-1).Deref() }
func (r Reverse[It, R]) Next() Reverse[It, R] { return r.Add(1) }
func (r Reverse[It, R]) Prev() Reverse[It, R] { return r.Add(-1) }

func (r Reverse[It, R]) Add(n int) Reverse[It, R] {
	return Reverse[It, R]{base: r.base.Add(-n)}
}

// Index is the position of the referred row in the container.
func (r Reverse[It, R]) Index() int { return r.base.Index() - 1 }

// Equal compares the bases, so reverse iterators taken before and after a
// reallocation never compare equal.
func (r Reverse[It, R]) Equal(o Reverse[It, R]) bool {
	return r.base.Equal(o.base)
}
