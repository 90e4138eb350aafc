package alloc

import (
	"unsafe"

	"github.com/zeebo/errs/v2"

	"github.com/histdb/tuplevec/layout"
)

// Fixed owns one block sized for a fixed number of rows and hands it out
// whenever it is free and large enough. Other requests go to the overflow
// allocator, or panic with ErrCapacityExceeded if there is none.
type Fixed struct {
	_ [0]func() // no equality

	inline   Block
	inUse    bool
	overflow Allocator
}

// NewFixed reserves room for rows rows of cols. A nil overflow disables
// growth past rows.
func NewFixed(cols []layout.Column, rows int, overflow Allocator) *Fixed {
	return &Fixed{
		inline:   Heap{}.Allocate(layout.Plan(cols, rows)),
		overflow: overflow,
	}
}

func (f *Fixed) Rows() int           { return f.inline.Cap() }
func (f *Fixed) CanOverflow() bool   { return f.overflow != nil }
func (f *Fixed) Overflow() Allocator { return f.overflow }

// Owns reports if p is the inline block.
func (f *Fixed) Owns(p unsafe.Pointer) bool {
	return p != nil && p == f.inline.Ptr
}

func (f *Fixed) Allocate(l layout.T) Block {
	switch {
	case l.Cap == 0:
		return Block{Layout: l}
	case !f.inUse && l.Cap <= f.inline.Cap():
		f.inUse = true
		return f.inline
	case f.overflow == nil:
		panic(errs.Errorf("%w: %d rows requested with %d inline",
			ErrCapacityExceeded, l.Cap, f.inline.Cap()))
	}

	Logger().Debug("alloc: fixed overflow", "rows", l.Cap, "inline", f.inline.Cap())
	return f.overflow.Allocate(l)
}

func (f *Fixed) Deallocate(b Block) {
	switch {
	case b.Ptr == nil:
	case f.Owns(b.Ptr):
		f.inUse = false
	case f.overflow != nil:
		f.overflow.Deallocate(b)
	}
}
