package alloc

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/zeebo/assert"

	"github.com/histdb/tuplevec/layout"
)

var (
	plain  = []layout.Column{layout.Of[uint8](), layout.Of[complex128](), layout.Of[int32]()}
	pointy = []layout.Column{layout.Of[int](), layout.Of[*int](), layout.Of[string]()}
)

func checkBlock(t *testing.T, b Block) {
	t.Helper()

	assert.That(t, b.Ptr != nil)
	assert.Equal(t, uintptr(b.Ptr)%b.Layout.Align, uintptr(0))
	for i, c := range b.Layout.Columns {
		assert.Equal(t, uintptr(b.Base(i))%c.Align, uintptr(0))
		assert.That(t, b.Layout.Contains(b.Ptr, b.Base(i)))
	}
}

func TestHeap(t *testing.T) {
	var h Heap

	for _, cols := range [][]layout.Column{plain, pointy} {
		for n := 1; n < 100; n += 7 {
			b := h.Allocate(layout.Plan(cols, n))
			checkBlock(t, b)
			assert.Equal(t, b.Cap(), n)
			h.Deallocate(b)
		}
	}

	assert.That(t, h.Allocate(layout.Plan(plain, 0)).Ptr == nil)
}

func TestHeapZeroed(t *testing.T) {
	b := Heap{}.Allocate(layout.Plan(plain, 16))
	bytes := unsafe.Slice((*byte)(b.Ptr), b.Layout.Size)
	for _, v := range bytes {
		assert.Equal(t, v, byte(0))
	}
}

func TestArena(t *testing.T) {
	var a Arena

	b1 := a.Allocate(layout.Plan(plain, 10))
	b2 := a.Allocate(layout.Plan(plain, 20))
	checkBlock(t, b1)
	checkBlock(t, b2)
	assert.NotEqual(t, b1.Ptr, b2.Ptr)

	used := a.Used()
	a.Deallocate(b2)
	assert.That(t, a.Used() < used)

	b3 := a.Allocate(layout.Plan(plain, 20))
	assert.Equal(t, b3.Ptr, b2.Ptr)
	assert.Equal(t, a.Peak(), used)

	big := a.Allocate(layout.Plan(plain, lSlab))
	checkBlock(t, big)
	assert.Equal(t, len(a.slabs), 2)

	a.Reset()
	assert.Equal(t, a.Used(), uintptr(0))
	assert.Equal(t, len(a.slabs), 1)
	assert.That(t, a.Peak() >= used)
}

func TestArenaPointers(t *testing.T) {
	var a Arena

	b := a.Allocate(layout.Plan(pointy, 8))
	checkBlock(t, b)
	assert.Equal(t, len(a.slabs), 0)
	a.Deallocate(b)
}

func TestFixed(t *testing.T) {
	f := NewFixed(plain, 4, Heap{})
	assert.Equal(t, f.Rows(), 4)
	assert.That(t, f.CanOverflow())

	in := f.Allocate(layout.Plan(plain, 2))
	checkBlock(t, in)
	assert.That(t, f.Owns(in.Ptr))
	assert.Equal(t, in.Cap(), 4)

	out := f.Allocate(layout.Plan(plain, 8))
	checkBlock(t, out)
	assert.That(t, !f.Owns(out.Ptr))

	f.Deallocate(in)
	again := f.Allocate(layout.Plan(plain, 3))
	assert.Equal(t, again.Ptr, in.Ptr)
}

func TestFixedNoOverflow(t *testing.T) {
	f := NewFixed(pointy, 4, nil)
	assert.That(t, !f.CanOverflow())

	b := f.Allocate(layout.Plan(pointy, 4))
	checkBlock(t, b)

	var err error
	func() {
		defer func() { err, _ = recover().(error) }()
		f.Allocate(layout.Plan(pointy, 5))
	}()
	assert.That(t, errors.Is(err, ErrCapacityExceeded))
}

func TestHeapRoundsTypedBlocks(t *testing.T) {
	var h Heap

	b := h.Allocate(layout.Plan(pointy, 5))
	checkBlock(t, b)
	assert.Equal(t, b.Cap(), 5)
	assert.Equal(t, b.Layout.Size, layout.Plan(pointy, 8).Size)

	// pointer free blocks are sized exactly
	p := h.Allocate(layout.Plan(plain, 5))
	assert.Equal(t, p.Layout.Size, layout.Plan(plain, 5).Size)
}
