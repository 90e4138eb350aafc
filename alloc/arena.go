package alloc

import (
	"unsafe"

	"github.com/histdb/tuplevec/layout"
)

const (
	lSlab    = 64 << 10
	lSlabMax = 64 << 20
)

// Arena is a bump allocator over byte slabs for pointer free layouts. Layouts
// with pointers are forwarded to the heap. Freeing the most recent block
// rewinds the bump pointer, anything else is held until Reset.
type Arena struct {
	_ [0]func() // no equality

	slabs [][]byte
	pos   uintptr // bump offset into the last slab
	next  uintptr // size of the next slab

	used uintptr
	peak uintptr
}

func (a *Arena) Size() uint64 {
	var n uint64
	for _, s := range a.slabs {
		n += uint64(cap(s))
	}
	return 0 +
		/* slabs */ 24 + 24*uint64(cap(a.slabs)) + n +
		/* pos   */ 8 +
		/* next  */ 8 +
		/* used  */ 8 +
		/* peak  */ 8 +
		0
}

// Used is the number of bytes handed out and not yet rewound.
func (a *Arena) Used() uintptr { return a.used }

// Peak is the high water mark of Used. It survives Reset.
func (a *Arena) Peak() uintptr { return a.peak }

func (a *Arena) Allocate(l layout.T) Block {
	if l.Cap == 0 {
		return Block{Layout: l}
	} else if l.Pointers {
		return Heap{}.Allocate(l)
	}

	if len(a.slabs) > 0 {
		if p, ok := a.bump(l.Size, l.Align); ok {
			return Block{Ptr: p, Layout: l}
		}
	}

	a.grow(l.Size + l.Align)
	p, _ := a.bump(l.Size, l.Align)
	return Block{Ptr: p, Layout: l}
}

func (a *Arena) bump(size, align uintptr) (unsafe.Pointer, bool) {
	slab := a.slabs[len(a.slabs)-1]
	base := uintptr(unsafe.Pointer(unsafe.SliceData(slab)))

	start := (base+a.pos+align-1)&^(align-1) - base
	if start+size > uintptr(len(slab)) {
		return nil, false
	}

	clear(slab[start : start+size])

	a.used += start + size - a.pos
	a.peak = max(a.peak, a.used)
	a.pos = start + size
	return unsafe.Add(unsafe.Pointer(unsafe.SliceData(slab)), start), true
}

//go:noinline
func (a *Arena) grow(need uintptr) {
	if a.next == 0 {
		a.next = lSlab
	}
	for a.next < need {
		a.next *= 2
	}

	Logger().Debug("alloc: arena slab", "bytes", a.next, "slabs", len(a.slabs)+1)

	a.slabs = append(a.slabs, make([]byte, a.next))
	a.pos = 0
	if a.next < lSlabMax {
		a.next *= 2
	}
}

func (a *Arena) Deallocate(b Block) {
	if b.Ptr == nil {
		return
	} else if b.Layout.Pointers {
		Heap{}.Deallocate(b)
		return
	} else if len(a.slabs) == 0 {
		return
	}

	slab := a.slabs[len(a.slabs)-1]
	base := uintptr(unsafe.Pointer(unsafe.SliceData(slab)))
	p := uintptr(b.Ptr)

	if p >= base && p+b.Layout.Size == base+a.pos {
		a.used -= b.Layout.Size
		a.pos = p - base
	}
}

// Reset makes all of the arena memory available again, keeping only the
// largest slab. Every block handed out before is invalid afterwards.
func (a *Arena) Reset() {
	if len(a.slabs) == 0 {
		return
	}
	last := a.slabs[len(a.slabs)-1]
	clear(a.slabs)

	a.slabs = append(a.slabs[:0], last)
	a.pos = 0
	a.used = 0
}
