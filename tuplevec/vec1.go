package tuplevec

import (
	"cmp"
	"iter"
	"slices"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/histdb/tuplevec/rwutils"
)

// Tuple1 is a row of a T1 by value.
type Tuple1[A any] struct {
	V0 A
}

// Ref1 is a row of a T1 by reference: one pointer into each column.
type Ref1[A any] struct {
	P0 *A
}

func (r Ref1[A]) Load() Tuple1[A] { return Tuple1[A]{*r.P0} }
func (r Ref1[A]) Get() A          { return *r.P0 }

func (r Ref1[A]) Store(t Tuple1[A]) {
	*r.P0 = t.V0
}

// Iter1 is a random access iterator over the rows of a T1. It snapshots
// the column bases when it is created, so any reallocation invalidates it.
type Iter1[A any] struct {
	i  int
	p0 *A
}

func (it Iter1[A]) Index() int         { return it.i }
func (it Iter1[A]) Next() Iter1[A]     { return it.Add(1) }
func (it Iter1[A]) Prev() Iter1[A]     { return it.Add(-1) }
func (it Iter1[A]) Move() MoveIter1[A] { return MoveIter1[A]{it} }

func (it Iter1[A]) Add(n int) Iter1[A] {
	it.i += n
	return it
}

// Distance is the number of rows from o to it.
func (it Iter1[A]) Distance(o Iter1[A]) int { return it.i - o.i }

// Equal compares the index and the first column base, so iterators taken
// before and after a reallocation never compare equal.
func (it Iter1[A]) Equal(o Iter1[A]) bool {
	return it.i == o.i && it.p0 == o.p0
}

func (it Iter1[A]) Less(o Iter1[A]) bool { return it.i < o.i }

// Deref returns the row at the iterator. It is rebuilt on every call.
func (it Iter1[A]) Deref() Ref1[A] { return it.At(0) }

// At returns the row n places after the iterator.
func (it Iter1[A]) At(n int) Ref1[A] {
	i := it.i + n
	return Ref1[A]{elem(it.p0, i)}
}

func (it Iter1[A]) ptrs() []unsafe.Pointer {
	i := it.i
	return []unsafe.Pointer{unsafe.Pointer(elem(it.p0, i))}
}

// MoveIter1 moves rows out of a container: Deref returns the row by value
// and leaves zero values behind.
type MoveIter1[A any] struct {
	it Iter1[A]
}

func (m MoveIter1[A]) Base() Iter1[A]              { return m.it }
func (m MoveIter1[A]) Index() int                  { return m.it.i }
func (m MoveIter1[A]) Next() MoveIter1[A]          { return MoveIter1[A]{m.it.Next()} }
func (m MoveIter1[A]) Prev() MoveIter1[A]          { return MoveIter1[A]{m.it.Prev()} }
func (m MoveIter1[A]) Add(n int) MoveIter1[A]      { return MoveIter1[A]{m.it.Add(n)} }
func (m MoveIter1[A]) Equal(o MoveIter1[A]) bool   { return m.it.Equal(o.it) }
func (m MoveIter1[A]) Distance(o MoveIter1[A]) int { return m.it.Distance(o.it) }

func (m MoveIter1[A]) Deref() Tuple1[A] {
	r := m.it.Deref()
	t := r.Load()
	r.Store(Tuple1[A]{})
	return t
}

// T1 is a structure of arrays vector with 1 column. The zero value is an
// empty container backed by the heap.
type T1[A any] struct {
	Impl
}

func New1[A any](opts ...Option) *T1[A] {
	v := new(T1[A])
	v.setup(collect(opts), newLeaf[A])
	return v
}

// NewFixed1 returns a container with inline storage for rows rows. Growing
// past it moves the rows to the overflow allocator (the heap unless set with
// WithAllocator) if overflow is set, and panics with ErrCapacityExceeded if
// not.
func NewFixed1[A any](rows int, overflow bool, opts ...Option) *T1[A] {
	v := new(T1[A])
	v.setupFixed(rows, overflow, collect(opts), newLeaf[A])
	return v
}

func (v *T1[A]) init() {
	if v.cols == nil {
		v.setup(options{}, newLeaf[A])
	}
}

func (v *T1[A]) Reserve(n int)         { v.init(); v.Impl.Reserve(n) }
func (v *T1[A]) SetCapacity(n int)     { v.init(); v.Impl.SetCapacity(n) }
func (v *T1[A]) ReadFrom(r *rwutils.R) { v.init(); v.Impl.ReadFrom(r) }
func (v *T1[A]) AppendTo(w *rwutils.W) { v.init(); v.Impl.AppendTo(w) }

func (v *T1[A]) bases() *A {
	if v.cols == nil {
		return nil
	}
	return (*A)(v.cols[0].base())
}

// store writes the row into [from, to), which must already be rows.
func (v *T1[A]) store(from, to int, a A) {
	p0 := v.bases()
	for i := from; i < to; i++ {
		*elem(p0, i) = a
	}
}

func (v *T1[A]) Get0() []A { return columnAt[A](&v.Impl, 0) }

// Data returns the base of every column.
func (v *T1[A]) Data() Ref1[A] {
	p0 := v.bases()
	return Ref1[A]{p0}
}

func (v *T1[A]) Begin() Iter1[A] {
	p0 := v.bases()
	return Iter1[A]{0, p0}
}

func (v *T1[A]) End() Iter1[A] { return v.Begin().Add(v.size) }

func (v *T1[A]) RBegin() Reverse[Iter1[A], Ref1[A]] { return MakeReverse[Iter1[A], Ref1[A]](v.End()) }
func (v *T1[A]) REnd() Reverse[Iter1[A], Ref1[A]]   { return MakeReverse[Iter1[A], Ref1[A]](v.Begin()) }

// At returns row i, or an error wrapping ErrOutOfRange.
func (v *T1[A]) At(i int) (Ref1[A], error) {
	if err := v.errIndex(i); err != nil {
		return Ref1[A]{}, err
	}
	return v.Begin().At(i), nil
}

// Index returns row i. It panics with ErrOutOfRange if i is not a row.
func (v *T1[A]) Index(i int) Ref1[A] {
	v.checkIndex(i)
	return v.Begin().At(i)
}

func (v *T1[A]) Front() Ref1[A] { return v.Index(0) }
func (v *T1[A]) Back() Ref1[A]  { return v.Index(v.size - 1) }

// All yields every row with its index.
func (v *T1[A]) All() iter.Seq2[int, Ref1[A]] {
	return func(yield func(int, Ref1[A]) bool) {
		it := v.Begin()
		for i := range v.size {
			if !yield(i, it.At(i)) {
				return
			}
		}
	}
}

//
// appending
//

func (v *T1[A]) PushBack(a A) {
	v.init()
	i := v.pushBack()
	v.store(i, i+1, a)
}

// EmplaceBack appends a row and returns it.
func (v *T1[A]) EmplaceBack(a A) Ref1[A] {
	v.PushBack(a)
	return v.Begin().At(v.size - 1)
}

func (v *T1[A]) PushBackTuple(t Tuple1[A]) { v.PushBack(t.V0) }

// PushBackMove appends the row in t and zeroes t.
func (v *T1[A]) PushBackMove(t *Tuple1[A]) {
	v.PushBack(t.V0)
	*t = Tuple1[A]{}
}

// PushBackZero appends a row of zero values and returns it.
func (v *T1[A]) PushBackZero() Ref1[A] {
	v.init()
	return v.Begin().At(v.pushBack())
}

// PushBackUninitialized grows the length by one without writing the new row.
// Destroyed slots are always zeroed, so the row reads as zero values.
func (v *T1[A]) PushBackUninitialized() Ref1[A] {
	v.init()
	return v.Begin().At(v.pushBack())
}

//
// inserting
//

func (v *T1[A]) Insert(pos Iter1[A], a A) Iter1[A] {
	return v.InsertN(pos, 1, a)
}

// InsertN inserts n copies of a row before pos and returns an iterator to the
// first of them.
func (v *T1[A]) InsertN(pos Iter1[A], n int, a A) Iter1[A] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)
	v.insertZero(pos.i, n)
	v.store(pos.i, pos.i+max(n, 0), a)
	return v.Begin().Add(pos.i)
}

func (v *T1[A]) InsertTuple(pos Iter1[A], t Tuple1[A]) Iter1[A] {
	return v.InsertN(pos, 1, t.V0)
}

// InsertTupleMove inserts the row in t before pos and zeroes t.
func (v *T1[A]) InsertTupleMove(pos Iter1[A], t *Tuple1[A]) Iter1[A] {
	it := v.InsertN(pos, 1, t.V0)
	*t = Tuple1[A]{}
	return it
}

// InsertRange copies the rows [first, last) of any T1, this one included,
// before pos.
func (v *T1[A]) InsertRange(pos, first, last Iter1[A]) Iter1[A] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)
	v.insertRange(pos.i, last.i-first.i, first.ptrs())
	return v.Begin().Add(pos.i)
}

// InsertMove moves the rows [first, last) of another T1 before pos. The
// source rows are left as zero values. Moving rows within the same container
// copies them.
func (v *T1[A]) InsertMove(pos Iter1[A], first, last MoveIter1[A]) Iter1[A] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)

	n, src := last.it.i-first.it.i, first.it.ptrs()
	alias := v.aliases(src)
	v.insertRange(pos.i, n, src)
	if !alias {
		for i := range n {
			first.it.At(i).Store(Tuple1[A]{})
		}
	}
	return v.Begin().Add(pos.i)
}

func (v *T1[A]) InsertTuples(pos Iter1[A], rows ...Tuple1[A]) Iter1[A] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)
	v.insertRange(pos.i, len(rows), columns1(rows))
	return v.Begin().Add(pos.i)
}

func columns1[A any](rows []Tuple1[A]) []unsafe.Pointer {
	if len(rows) == 0 {
		return nil
	}
	c0 := make([]A, len(rows))
	for i, r := range rows {
		c0[i] = r.V0
	}
	return []unsafe.Pointer{unsafe.Pointer(&c0[0])}
}

//
// erasing
//

// Erase removes the row at pos keeping the order of the rest and returns an
// iterator to the row that followed it.
func (v *T1[A]) Erase(pos Iter1[A]) Iter1[A] {
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), true)
	v.EraseAt(pos.i)
	return v.Begin().Add(pos.i)
}

func (v *T1[A]) EraseRange(first, last Iter1[A]) Iter1[A] {
	v.checkPair(first.i, last.i, unsafe.Pointer(first.p0), unsafe.Pointer(last.p0))
	v.EraseRangeAt(first.i, last.i)
	return v.Begin().Add(first.i)
}

// EraseUnsorted removes the row at pos by moving the last row into it.
func (v *T1[A]) EraseUnsorted(pos Iter1[A]) Iter1[A] {
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), true)
	v.EraseUnsortedAt(pos.i)
	return v.Begin().Add(pos.i)
}

func (v *T1[A]) EraseReverse(pos Reverse[Iter1[A], Ref1[A]]) Reverse[Iter1[A], Ref1[A]] {
	return MakeReverse[Iter1[A], Ref1[A]](v.Erase(pos.Base().Prev()))
}

func (v *T1[A]) EraseRangeReverse(first, last Reverse[Iter1[A], Ref1[A]]) Reverse[Iter1[A], Ref1[A]] {
	return MakeReverse[Iter1[A], Ref1[A]](v.EraseRange(last.Base(), first.Base()))
}

func (v *T1[A]) EraseUnsortedReverse(pos Reverse[Iter1[A], Ref1[A]]) Reverse[Iter1[A], Ref1[A]] {
	return MakeReverse[Iter1[A], Ref1[A]](v.EraseUnsorted(pos.Base().Prev()))
}

//
// sizing and assignment
//

// Resize sets the length to n, appending zero rows or destroying the tail.
func (v *T1[A]) Resize(n int) {
	v.init()
	v.resize(n)
}

// ResizeWith sets the length to n, appending copies of a row or destroying
// the tail.
func (v *T1[A]) ResizeWith(n int, a A) {
	v.init()
	old := v.size
	v.resize(n)
	v.store(old, n, a)
}

// Assign replaces the contents with n copies of a row.
func (v *T1[A]) Assign(n int, a A) {
	v.init()
	v.assignZero(n)
	v.store(0, n, a)
}

// AssignRange replaces the contents with the rows [first, last) of any T1.
func (v *T1[A]) AssignRange(first, last Iter1[A]) {
	v.init()
	v.assignRange(last.i-first.i, first.ptrs())
}

// AssignMove replaces the contents with the rows [first, last) of another
// T1, leaving zero values behind in the source.
func (v *T1[A]) AssignMove(first, last MoveIter1[A]) {
	v.init()

	n, src := last.it.i-first.it.i, first.it.ptrs()
	alias := v.aliases(src)
	v.assignRange(n, src)
	if !alias {
		for i := range n {
			first.it.At(i).Store(Tuple1[A]{})
		}
	}
}

func (v *T1[A]) AssignTuples(rows ...Tuple1[A]) {
	v.init()
	v.assignRange(len(rows), columns1(rows))
}

// Swap exchanges the contents of the containers without copying rows.
func (v *T1[A]) Swap(o *T1[A]) {
	v.init()
	o.init()
	v.swap(&o.Impl)
}

// Clone returns a copy with the same kind of storage.
func (v *T1[A]) Clone() *T1[A] {
	v.init()
	c := new(T1[A])
	v.cloneInto(&c.Impl, newLeaf[A])
	return c
}

func (v *T1[A]) ValidateIterator(it Iter1[A]) IterStatus {
	return v.validateIterator(it.i, unsafe.Pointer(it.p0))
}

//
// bulk
//

// SortFunc orders the rows by less. Every column is permuted together.
func (v *T1[A]) SortFunc(less func(x, y Ref1[A]) bool) {
	it := v.Begin()
	v.sortRows(func(i, j int) bool { return less(it.At(i), it.At(j)) }, false)
}

// SortStableFunc is SortFunc keeping equal rows in their original order.
func (v *T1[A]) SortStableFunc(less func(x, y Ref1[A]) bool) {
	it := v.Begin()
	v.sortRows(func(i, j int) bool { return less(it.At(i), it.At(j)) }, true)
}

// IndexesWhere returns the indexes of the rows matching pred, suitable for
// EraseMask.
func (v *T1[A]) IndexesWhere(pred func(Ref1[A]) bool) *roaring.Bitmap {
	bm := roaring.New()
	for i, r := range v.All() {
		if pred(r) {
			bm.Add(uint32(i))
		}
	}
	return bm
}

//
// comparison
//

func Equal1[A comparable](x, y *T1[A]) bool {
	return x.size == y.size &&
		slices.Equal(x.Get0(), y.Get0())
}

// Compare1 orders containers lexicographically by row and then by length.
func Compare1[A cmp.Ordered](x, y *T1[A]) int {
	n := min(x.size, y.size)
	x0, y0 := x.Get0()[:n], y.Get0()[:n]

	for i := range n {
		if c := cmp.Compare(x0[i], y0[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(x.size, y.size)
}

func Less1[A cmp.Ordered](x, y *T1[A]) bool {
	return Compare1(x, y) < 0
}
