// Package alloc provides the memory sources for packed column storage.
//
// An Allocator hands out a Block for a planned layout. The layout stored in
// the returned Block is authoritative: an allocator may return a block with
// more capacity than requested and callers must address columns through the
// returned layout.
package alloc

import (
	"reflect"
	"unsafe"

	"github.com/zeebo/errs/v2"

	"github.com/histdb/tuplevec/layout"
)

var ErrCapacityExceeded = errs.Errorf("fixed capacity exceeded")

type Block struct {
	Ptr    unsafe.Pointer
	Layout layout.T
}

func (b Block) Cap() int { return b.Layout.Cap }

// Base returns the address of column i in the block.
func (b Block) Base(i int) unsafe.Pointer { return b.Layout.Base(b.Ptr, i) }

type Allocator interface {
	Allocate(l layout.T) Block
	Deallocate(b Block)
}

// Heap allocates from the Go heap. Pointer free layouts get an aligned byte
// block, anything else gets a typed block so the collector can scan it. Typed
// blocks are sized for a power of two rows, but the returned layout keeps the
// requested capacity.
// Deallocate is a no-op: blocks are reclaimed once unreachable.
type Heap struct{}

func (Heap) Allocate(l layout.T) Block {
	switch {
	case l.Cap == 0:
		return Block{Layout: l}
	case l.Pointers:
		l = l.Rounded()
		return Block{Ptr: reflect.New(l.Struct()).UnsafePointer(), Layout: l}
	default:
		return Block{Ptr: alignedBytes(l.Size, l.Align), Layout: l}
	}
}

func (Heap) Deallocate(Block) {}

// alignedBytes over allocates by align bytes and returns the first aligned
// address. The interior pointer keeps the whole backing array alive.
func alignedBytes(size, align uintptr) unsafe.Pointer {
	buf := make([]byte, size+align)
	base := unsafe.Pointer(unsafe.SliceData(buf))
	off := (align - uintptr(base)&(align-1)) & (align - 1)
	return unsafe.Add(base, off)
}
