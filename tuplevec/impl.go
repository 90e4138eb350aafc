package tuplevec

import (
	"unsafe"

	"github.com/zeebo/errs/v2"

	"github.com/histdb/tuplevec/alloc"
	"github.com/histdb/tuplevec/layout"
	"github.com/histdb/tuplevec/sizeof"
)

// Impl is the column storage shared by every arity. It owns one allocation
// holding all of the columns and keeps their base pointers in step with it.
//
// Operations that touch several columns are not atomic: a panic part way
// through can leave columns at different lengths.
type Impl struct {
	_ [0]func() // no equality

	cols  []column
	descs []layout.Column
	block alloc.Block
	size  int
	alloc alloc.Allocator
}

func (v *Impl) setup(o options, mk ...func() column) {
	v.cols = make([]column, len(mk))
	v.descs = make([]layout.Column, len(mk))
	for i, m := range mk {
		v.cols[i] = m()
		v.descs[i] = v.cols[i].desc()
	}

	v.alloc = o.alloc
	if v.alloc == nil {
		v.alloc = alloc.Heap{}
	}
	v.block = alloc.Block{Layout: layout.Plan(v.descs, 0)}

	if o.capacity > 0 {
		v.Reserve(o.capacity)
	}
}

func (v *Impl) setupFixed(rows int, overflow bool, o options, mk ...func() column) {
	ov := o.alloc
	if !overflow {
		ov = nil
	} else if ov == nil {
		ov = alloc.Heap{}
	}

	v.setup(options{}, mk...)
	v.alloc = alloc.NewFixed(v.descs, rows, ov)
	v.Reserve(max(rows, o.capacity))
}

func (v *Impl) Len() int     { return v.size }
func (v *Impl) Cap() int     { return v.block.Cap() }
func (v *Impl) Empty() bool  { return v.size == 0 }
func (v *Impl) Columns() int { return len(v.cols) }

func (v *Impl) Allocator() alloc.Allocator { return v.alloc }

func (v *Impl) Size() uint64 {
	return 0 +
		/* cols  */ sizeof.Slice(v.cols) +
		/* descs */ sizeof.Slice(v.descs) +
		/* block */ 8 + uint64(v.block.Layout.Size) +
		/* size  */ 8 +
		/* alloc */ 16 +
		0
}

// CanOverflow reports if a fixed container may grow past its inline rows.
// Containers that are not fixed can always grow.
func (v *Impl) CanOverflow() bool {
	f, ok := v.alloc.(*alloc.Fixed)
	return !ok || f.CanOverflow()
}

// HasOverflowed reports if a fixed container lives outside its inline
// storage.
func (v *Impl) HasOverflowed() bool {
	f, ok := v.alloc.(*alloc.Fixed)
	return ok && v.block.Ptr != nil && !f.Owns(v.block.Ptr)
}

// FixedRows is the inline capacity of a fixed container, or 0.
func (v *Impl) FixedRows() int {
	if f, ok := v.alloc.(*alloc.Fixed); ok {
		return f.Rows()
	}
	return 0
}

//
// capacity
//

func (v *Impl) growCap(required int) int {
	return max(2*v.Cap(), required, 1)
}

// pinned reports if the current block is a fixed inline block that can
// already hold capacity rows.
func (v *Impl) pinned(capacity int) bool {
	f, ok := v.alloc.(*alloc.Fixed)
	return ok && f.Owns(v.block.Ptr) && capacity <= f.Rows()
}

// realloc moves the rows into a block with room for capacity rows leaving a
// zeroed gap of n rows at gap.
//
//go:noinline
func (v *Impl) realloc(capacity, gap, n int) {
	old := v.block
	next := v.alloc.Allocate(layout.Plan(v.descs, capacity))

	for i, c := range v.cols {
		dst := next.Base(i)
		c.relocate(dst, 0, 0, gap)
		c.relocate(dst, gap+n, gap, v.size)
		c.setBase(dst)
	}

	v.block = next
	v.alloc.Deallocate(old)

	Logger().Debug("tuplevec: reallocate",
		"from", old.Cap(), "to", next.Cap(), "rows", v.size, "bytes", next.Layout.Size)
}

// Reserve grows the capacity to at least n rows. It never shrinks.
func (v *Impl) Reserve(n int) {
	if n > v.Cap() {
		v.realloc(n, v.size, 0)
	}
}

// ShrinkToFit reallocates so that the capacity equals the length. A fixed
// container already in its inline storage keeps it.
func (v *Impl) ShrinkToFit() {
	if v.size < v.Cap() && !v.pinned(v.size) {
		v.realloc(v.size, v.size, 0)
	}
}

// SetCapacity reallocates to exactly n rows, destroying rows past n. A
// negative n means the current length.
func (v *Impl) SetCapacity(n int) {
	if n < 0 {
		n = v.size
	} else if n < v.size {
		v.truncate(n)
	}
	if n != v.Cap() && !v.pinned(n) {
		v.realloc(n, v.size, 0)
	}
}

//
// row fan out
//
// Slots past the length are always zero: allocators hand out zeroed memory
// and every path that vacates a slot destroys it. The typed containers open
// zero rows here and then store their values straight into the columns.
//

// pushBack grows the length by one and returns the index of the new row.
func (v *Impl) pushBack() int {
	i := v.size
	if i == v.Cap() {
		v.realloc(v.growCap(i+1), i, 0)
	}
	v.size++
	return i
}

// insertZero opens n zero rows at pos.
func (v *Impl) insertZero(pos, n int) {
	switch {
	case n <= 0:
		return

	case v.size+n > v.Cap():
		v.realloc(v.growCap(v.size+n), pos, n)

	case pos < v.size:
		for _, c := range v.cols {
			c.insertZero(pos, n, v.size)
		}
	}
	v.size += n
}

func (v *Impl) aliases(src []unsafe.Pointer) bool {
	for _, p := range src {
		if v.block.Layout.Contains(v.block.Ptr, p) {
			return true
		}
	}
	return false
}

// insertRange inserts n rows at pos copied from the per column arrays in src.
// src may point into this container.
func (v *Impl) insertRange(pos, n int, src []unsafe.Pointer) {
	if n <= 0 {
		return
	}
	alias := v.aliases(src)

	if v.size+n > v.Cap() {
		if alias {
			src = append([]unsafe.Pointer(nil), src...)
			for i, c := range v.cols {
				src[i] = c.clone(src[i], n)
			}
		}
		v.realloc(v.growCap(v.size+n), pos, n)
		for i, c := range v.cols {
			c.insertRange(pos, pos, src[i], n, false)
		}
	} else {
		for i, c := range v.cols {
			c.insertRange(pos, v.size, src[i], n, alias)
		}
	}
	v.size += n
}

// replace drops every row and moves to an empty block with room for capacity
// rows. The new block is allocated before any row is destroyed, so a failing
// allocator leaves the container untouched.
func (v *Impl) replace(capacity int) {
	next := v.alloc.Allocate(layout.Plan(v.descs, capacity))

	v.truncate(0)
	old := v.block
	for i, c := range v.cols {
		c.setBase(next.Base(i))
	}
	v.block = next
	v.alloc.Deallocate(old)

	Logger().Debug("tuplevec: replace",
		"from", old.Cap(), "to", next.Cap(), "bytes", next.Layout.Size)
}

// assignZero replaces the contents with n zero rows. Growing past the
// capacity reallocates to exactly n.
func (v *Impl) assignZero(n int) {
	if n > v.Cap() {
		v.replace(n)
	}
	v.truncate(0)
	v.size = n
}

// assignRange replaces the contents with n rows copied from src.
func (v *Impl) assignRange(n int, src []unsafe.Pointer) {
	if n > v.Cap() {
		v.replace(n)
	}
	for i, c := range v.cols {
		if n > 0 {
			c.assign(0, n, src[i])
		}
		if n < v.size {
			c.destroy(n, v.size)
		}
	}
	v.size = n
}

// resize sets the length to n. New rows are zero.
func (v *Impl) resize(n int) {
	if n <= v.size {
		v.truncate(n)
		return
	}
	if n > v.Cap() {
		v.realloc(v.growCap(n), v.size, 0)
	}
	v.size = n
}

func (v *Impl) truncate(n int) {
	for _, c := range v.cols {
		c.destroy(n, v.size)
	}
	v.size = n
}

func (v *Impl) swapRows(i, j int) {
	for _, c := range v.cols {
		c.swapRows(i, j)
	}
}

func (v *Impl) swap(o *Impl) {
	v.cols, o.cols = o.cols, v.cols
	v.descs, o.descs = o.descs, v.descs
	v.block, o.block = o.block, v.block
	v.size, o.size = o.size, v.size
	v.alloc, o.alloc = o.alloc, v.alloc
}

//
// removal
//

// Clear destroys every row. The capacity is unchanged.
func (v *Impl) Clear() { v.truncate(0) }

// Reset destroys every row and releases the allocation.
func (v *Impl) Reset() {
	v.truncate(0)
	if v.block.Ptr != nil {
		v.realloc(0, 0, 0)
	}
}

func (v *Impl) PopBack() {
	v.checkIndex(v.size - 1)
	v.truncate(v.size - 1)
}

// EraseAt removes row i keeping the order of the rest.
func (v *Impl) EraseAt(i int) { v.EraseRangeAt(i, i+1) }

// EraseRangeAt removes rows [first, last) keeping the order of the rest.
func (v *Impl) EraseRangeAt(first, last int) {
	if debug && (first < 0 || first > last || last > v.size) {
		panic(errs.Errorf("%w: erase [%d, %d) of %d", ErrInvalidIterator, first, last, v.size))
	}
	if first == last {
		return
	}
	for _, c := range v.cols {
		c.erase(first, last, v.size)
	}
	v.size -= last - first
}

// EraseUnsortedAt removes row i by moving the last row into its place.
func (v *Impl) EraseUnsortedAt(i int) {
	v.checkIndex(i)
	last := v.size - 1
	for _, c := range v.cols {
		if i != last {
			c.moveRow(i, last)
		} else {
			c.destroy(last, v.size)
		}
	}
	v.size--
}

//
// checks
//

type IterStatus uint8

const (
	IterValid IterStatus = 1 << iota
	IterCurrent
	IterCanDeref

	IterNone IterStatus = 0
)

func (v *Impl) validateIterator(i int, p unsafe.Pointer) IterStatus {
	if len(v.cols) > 0 && p != v.cols[0].base() {
		return IterNone
	}
	switch {
	case 0 <= i && i < v.size:
		return IterValid | IterCurrent | IterCanDeref
	case i == v.size:
		return IterValid | IterCurrent
	}
	return IterNone
}

func (v *Impl) checkIter(i int, p unsafe.Pointer, deref bool) {
	if !debug {
		return
	}
	want := IterValid | IterCurrent
	if deref {
		want |= IterCanDeref
	}
	if v.validateIterator(i, p)&want != want {
		panic(errs.Errorf("%w: index %d of %d", ErrInvalidIterator, i, v.size))
	}
}

func (v *Impl) checkPair(first, last int, pf, pl unsafe.Pointer) {
	if !debug {
		return
	}
	v.checkIter(first, pf, false)
	v.checkIter(last, pl, false)
	if first > last {
		panic(errs.Errorf("%w: first %d after last %d", ErrInvalidIterator, first, last))
	}
}

func (v *Impl) checkIndex(i int) {
	if uint(i) >= uint(v.size) {
		panic(errs.Errorf("%w: %d with length %d", ErrOutOfRange, i, v.size))
	}
}

func (v *Impl) errIndex(i int) error {
	if uint(i) >= uint(v.size) {
		return errs.Errorf("%w: %d with length %d", ErrOutOfRange, i, v.size)
	}
	return nil
}

// Validate reports if the container state is consistent: the length fits the
// capacity and every column base sits aligned at its planned offset inside
// the allocation.
func (v *Impl) Validate() bool {
	if v.size > v.Cap() {
		return false
	}

	l := v.block.Layout
	if v.block.Ptr == nil {
		for _, c := range v.cols {
			if c.base() != nil {
				return false
			}
		}
		return v.Cap() == 0
	}

	for i, c := range v.cols {
		p := c.base()
		switch {
		case p != v.block.Base(i):
			return false
		case uintptr(p)%v.descs[i].Align != 0:
			return false
		case l.Bytes(i) > 0 && !l.Contains(v.block.Ptr, p):
			return false
		case l.Offsets[i]+l.Bytes(i) > l.Size:
			return false
		case i > 0 && l.Offsets[i-1]+l.Bytes(i-1) > l.Offsets[i]:
			return false
		}
	}
	return true
}

//
// helpers for the typed containers
//

func (v *Impl) bases() []unsafe.Pointer {
	ps := make([]unsafe.Pointer, len(v.cols))
	for i, c := range v.cols {
		ps[i] = c.base()
	}
	return ps
}

// cloneInto sets dst up with the same kind of storage and copies the rows.
func (v *Impl) cloneInto(dst *Impl, mk ...func() column) {
	if f, ok := v.alloc.(*alloc.Fixed); ok {
		ov := f.Overflow()
		dst.setupFixed(f.Rows(), ov != nil, options{alloc: ov}, mk...)
	} else {
		dst.setup(options{alloc: v.alloc}, mk...)
	}
	dst.assignRange(v.size, v.bases())
}

func columnAt[V any](v *Impl, i int) []V {
	if v.cols == nil {
		return nil
	}
	return unsafe.Slice((*V)(v.cols[i].base()), v.size)
}

// Column returns the column holding values of type V. It fails if no column
// or more than one column has that type.
func Column[V any](v *Impl) ([]V, error) {
	found := -1
	for i, c := range v.cols {
		if _, ok := c.(*leaf[V]); !ok {
			continue
		} else if found >= 0 {
			return nil, errs.Errorf("%w: %T in columns %d and %d", ErrAmbiguousColumn, *new(V), found, i)
		}
		found = i
	}
	if found < 0 {
		return nil, errs.Errorf("%w: %T", ErrNoColumn, *new(V))
	}
	return columnAt[V](v, found), nil
}
