package tuplevec

import (
	"unsafe"

	"github.com/histdb/tuplevec/layout"
)

// column is the untyped face of a leaf. Impl runs every row operation as a
// loop over its columns, so each method only touches its own array. Nothing
// here checks bounds: callers guarantee indexes and capacity.
type column interface {
	desc() layout.Column
	base() unsafe.Pointer
	setBase(p unsafe.Pointer)

	// relocate moves [from, to) into dst starting at index at and zeroes the
	// source slots.
	relocate(dst unsafe.Pointer, at, from, to int)

	// insertZero opens a gap of n zero values at pos in [0, size).
	insertZero(pos, n, size int)

	// insertRange opens a gap of n at pos in [0, size) and copies src[0:n]
	// into it. alias is set when src points into this column.
	insertRange(pos, size int, src unsafe.Pointer, n int, alias bool)

	// assign copies src[0:n] over [at, at+n). Overlap is allowed.
	assign(at, n int, src unsafe.Pointer)

	// erase closes [first, last) in [0, size) and zeroes the vacated tail.
	erase(first, last, size int)

	destroy(from, to int)
	moveRow(dst, src int)
	swapRows(i, j int)

	// bytes is the raw memory of [0, n). Only meaningful for pointer free
	// columns.
	bytes(n int) []byte

	// clone copies src[0:n] into fresh memory outside of any allocation.
	clone(src unsafe.Pointer, n int) unsafe.Pointer
}

type leaf[V any] struct {
	p *V
}

func newLeaf[V any]() column { return new(leaf[V]) }

func (l *leaf[V]) desc() layout.Column      { return layout.Of[V]() }
func (l *leaf[V]) base() unsafe.Pointer     { return unsafe.Pointer(l.p) }
func (l *leaf[V]) setBase(p unsafe.Pointer) { l.p = (*V)(p) }

func (l *leaf[V]) slice(n int) []V { return unsafe.Slice(l.p, n) }

func (l *leaf[V]) relocate(dst unsafe.Pointer, at, from, to int) {
	if from == to {
		return
	}
	src := l.slice(to)[from:to]
	copy(unsafe.Slice((*V)(dst), at+to-from)[at:], src)
	clear(src)
}

func (l *leaf[V]) insertZero(pos, n, size int) {
	s := l.slice(size + n)
	copy(s[pos+n:], s[pos:size])
	clear(s[pos : pos+n])
}

func (l *leaf[V]) insertRange(pos, size int, src unsafe.Pointer, n int, alias bool) {
	s := l.slice(size + n)
	in := unsafe.Slice((*V)(src), n)
	if alias {
		in = append([]V(nil), in...)
	}
	copy(s[pos+n:], s[pos:size])
	copy(s[pos:pos+n], in)
}

func (l *leaf[V]) assign(at, n int, src unsafe.Pointer) {
	copy(l.slice(at + n)[at:], unsafe.Slice((*V)(src), n))
}

func (l *leaf[V]) erase(first, last, size int) {
	s := l.slice(size)
	copy(s[first:], s[last:])
	clear(s[size-(last-first):])
}

func (l *leaf[V]) destroy(from, to int) { clear(l.slice(to)[from:to]) }

func (l *leaf[V]) moveRow(dst, src int) {
	if dst == src {
		return
	}
	s := l.slice(max(dst, src) + 1)
	var zero V
	s[dst], s[src] = s[src], zero
}

func (l *leaf[V]) swapRows(i, j int) {
	s := l.slice(max(i, j) + 1)
	s[i], s[j] = s[j], s[i]
}

func (l *leaf[V]) bytes(n int) []byte {
	var v V
	if l.p == nil {
		return nil
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(l.p)), uintptr(n)*unsafe.Sizeof(v))
}

func (l *leaf[V]) clone(src unsafe.Pointer, n int) unsafe.Pointer {
	c := append([]V(nil), unsafe.Slice((*V)(src), n)...)
	return unsafe.Pointer(unsafe.SliceData(c))
}
