package tuplevec

import (
	"cmp"
	"iter"
	"slices"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/histdb/tuplevec/rwutils"
)

// Tuple2 is a row of a T2 by value.
type Tuple2[A, B any] struct {
	V0 A
	V1 B
}

// Ref2 is a row of a T2 by reference: one pointer into each column.
type Ref2[A, B any] struct {
	P0 *A
	P1 *B
}

func (r Ref2[A, B]) Load() Tuple2[A, B] { return Tuple2[A, B]{*r.P0, *r.P1} }
func (r Ref2[A, B]) Get() (A, B)        { return *r.P0, *r.P1 }

func (r Ref2[A, B]) Store(t Tuple2[A, B]) {
	*r.P0, *r.P1 = t.V0, t.V1
}

// Iter2 is a random access iterator over the rows of a T2. It snapshots
// the column bases when it is created, so any reallocation invalidates it.
type Iter2[A, B any] struct {
	i  int
	p0 *A
	p1 *B
}

func (it Iter2[A, B]) Index() int            { return it.i }
func (it Iter2[A, B]) Next() Iter2[A, B]     { return it.Add(1) }
func (it Iter2[A, B]) Prev() Iter2[A, B]     { return it.Add(-1) }
func (it Iter2[A, B]) Move() MoveIter2[A, B] { return MoveIter2[A, B]{it} }

func (it Iter2[A, B]) Add(n int) Iter2[A, B] {
	it.i += n
	return it
}

// Distance is the number of rows from o to it.
func (it Iter2[A, B]) Distance(o Iter2[A, B]) int { return it.i - o.i }

// Equal compares the index and the first column base, so iterators taken
// before and after a reallocation never compare equal.
func (it Iter2[A, B]) Equal(o Iter2[A, B]) bool {
	return it.i == o.i && it.p0 == o.p0
}

func (it Iter2[A, B]) Less(o Iter2[A, B]) bool { return it.i < o.i }

// Deref returns the row at the iterator. It is rebuilt on every call.
func (it Iter2[A, B]) Deref() Ref2[A, B] { return it.At(0) }

// At returns the row n places after the iterator.
func (it Iter2[A, B]) At(n int) Ref2[A, B] {
	i := it.i + n
	return Ref2[A, B]{elem(it.p0, i), elem(it.p1, i)}
}

func (it Iter2[A, B]) ptrs() []unsafe.Pointer {
	i := it.i
	return []unsafe.Pointer{unsafe.Pointer(elem(it.p0, i)), unsafe.Pointer(elem(it.p1, i))}
}

// MoveIter2 moves rows out of a container: Deref returns the row by value
// and leaves zero values behind.
type MoveIter2[A, B any] struct {
	it Iter2[A, B]
}

func (m MoveIter2[A, B]) Base() Iter2[A, B]              { return m.it }
func (m MoveIter2[A, B]) Index() int                     { return m.it.i }
func (m MoveIter2[A, B]) Next() MoveIter2[A, B]          { return MoveIter2[A, B]{m.it.Next()} }
func (m MoveIter2[A, B]) Prev() MoveIter2[A, B]          { return MoveIter2[A, B]{m.it.Prev()} }
func (m MoveIter2[A, B]) Add(n int) MoveIter2[A, B]      { return MoveIter2[A, B]{m.it.Add(n)} }
func (m MoveIter2[A, B]) Equal(o MoveIter2[A, B]) bool   { return m.it.Equal(o.it) }
func (m MoveIter2[A, B]) Distance(o MoveIter2[A, B]) int { return m.it.Distance(o.it) }

func (m MoveIter2[A, B]) Deref() Tuple2[A, B] {
	r := m.it.Deref()
	t := r.Load()
	r.Store(Tuple2[A, B]{})
	return t
}

// T2 is a structure of arrays vector with 2 columns. The zero value is an
// empty container backed by the heap.
type T2[A, B any] struct {
	Impl
}

func New2[A, B any](opts ...Option) *T2[A, B] {
	v := new(T2[A, B])
	v.setup(collect(opts), newLeaf[A], newLeaf[B])
	return v
}

// NewFixed2 returns a container with inline storage for rows rows. Growing
// past it moves the rows to the overflow allocator (the heap unless set with
// WithAllocator) if overflow is set, and panics with ErrCapacityExceeded if
// not.
func NewFixed2[A, B any](rows int, overflow bool, opts ...Option) *T2[A, B] {
	v := new(T2[A, B])
	v.setupFixed(rows, overflow, collect(opts), newLeaf[A], newLeaf[B])
	return v
}

func (v *T2[A, B]) init() {
	if v.cols == nil {
		v.setup(options{}, newLeaf[A], newLeaf[B])
	}
}

func (v *T2[A, B]) Reserve(n int)         { v.init(); v.Impl.Reserve(n) }
func (v *T2[A, B]) SetCapacity(n int)     { v.init(); v.Impl.SetCapacity(n) }
func (v *T2[A, B]) ReadFrom(r *rwutils.R) { v.init(); v.Impl.ReadFrom(r) }
func (v *T2[A, B]) AppendTo(w *rwutils.W) { v.init(); v.Impl.AppendTo(w) }

func (v *T2[A, B]) bases() (*A, *B) {
	if v.cols == nil {
		return nil, nil
	}
	return (*A)(v.cols[0].base()), (*B)(v.cols[1].base())
}

// store writes the row into [from, to), which must already be rows.
func (v *T2[A, B]) store(from, to int, a A, b B) {
	p0, p1 := v.bases()
	for i := from; i < to; i++ {
		*elem(p0, i), *elem(p1, i) = a, b
	}
}

func (v *T2[A, B]) Get0() []A { return columnAt[A](&v.Impl, 0) }
func (v *T2[A, B]) Get1() []B { return columnAt[B](&v.Impl, 1) }

// Data returns the base of every column.
func (v *T2[A, B]) Data() Ref2[A, B] {
	p0, p1 := v.bases()
	return Ref2[A, B]{p0, p1}
}

func (v *T2[A, B]) Begin() Iter2[A, B] {
	p0, p1 := v.bases()
	return Iter2[A, B]{0, p0, p1}
}

func (v *T2[A, B]) End() Iter2[A, B] { return v.Begin().Add(v.size) }

func (v *T2[A, B]) RBegin() Reverse[Iter2[A, B], Ref2[A, B]] { return MakeReverse[Iter2[A, B], Ref2[A, B]](v.End()) }
func (v *T2[A, B]) REnd() Reverse[Iter2[A, B], Ref2[A, B]]   { return MakeReverse[Iter2[A, B], Ref2[A, B]](v.Begin()) }

// At returns row i, or an error wrapping ErrOutOfRange.
func (v *T2[A, B]) At(i int) (Ref2[A, B], error) {
	if err := v.errIndex(i); err != nil {
		return Ref2[A, B]{}, err
	}
	return v.Begin().At(i), nil
}

// Index returns row i. It panics with ErrOutOfRange if i is not a row.
func (v *T2[A, B]) Index(i int) Ref2[A, B] {
	v.checkIndex(i)
	return v.Begin().At(i)
}

func (v *T2[A, B]) Front() Ref2[A, B] { return v.Index(0) }
func (v *T2[A, B]) Back() Ref2[A, B]  { return v.Index(v.size - 1) }

// All yields every row with its index.
func (v *T2[A, B]) All() iter.Seq2[int, Ref2[A, B]] {
	return func(yield func(int, Ref2[A, B]) bool) {
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

func (v *T2[A, B]) PushBack(a A, b B) {
	v.init()
	i := v.pushBack()
	v.store(i, i+1, a, b)
}

// EmplaceBack appends a row and returns it.
func (v *T2[A, B]) EmplaceBack(a A, b B) Ref2[A, B] {
	v.PushBack(a, b)
	return v.Begin().At(v.size - 1)
}

func (v *T2[A, B]) PushBackTuple(t Tuple2[A, B]) { v.PushBack(t.V0, t.V1) }

// PushBackMove appends the row in t and zeroes t.
func (v *T2[A, B]) PushBackMove(t *Tuple2[A, B]) {
	v.PushBack(t.V0, t.V1)
	*t = Tuple2[A, B]{}
}

// PushBackZero appends a row of zero values and returns it.
func (v *T2[A, B]) PushBackZero() Ref2[A, B] {
	v.init()
	return v.Begin().At(v.pushBack())
}

// PushBackUninitialized grows the length by one without writing the new row.
// Destroyed slots are always zeroed, so the row reads as zero values.
func (v *T2[A, B]) PushBackUninitialized() Ref2[A, B] {
	v.init()
	return v.Begin().At(v.pushBack())
}

//
// inserting
//

func (v *T2[A, B]) Insert(pos Iter2[A, B], a A, b B) Iter2[A, B] {
	return v.InsertN(pos, 1, a, b)
}

// InsertN inserts n copies of a row before pos and returns an iterator to the
// first of them.
func (v *T2[A, B]) InsertN(pos Iter2[A, B], n int, a A, b B) Iter2[A, B] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)
	v.insertZero(pos.i, n)
	v.store(pos.i, pos.i+max(n, 0), a, b)
	return v.Begin().Add(pos.i)
}

func (v *T2[A, B]) InsertTuple(pos Iter2[A, B], t Tuple2[A, B]) Iter2[A, B] {
	return v.InsertN(pos, 1, t.V0, t.V1)
}

// InsertTupleMove inserts the row in t before pos and zeroes t.
func (v *T2[A, B]) InsertTupleMove(pos Iter2[A, B], t *Tuple2[A, B]) Iter2[A, B] {
	it := v.InsertN(pos, 1, t.V0, t.V1)
	*t = Tuple2[A, B]{}
	return it
}

// InsertRange copies the rows [first, last) of any T2, this one included,
// before pos.
func (v *T2[A, B]) InsertRange(pos, first, last Iter2[A, B]) Iter2[A, B] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)
	v.insertRange(pos.i, last.i-first.i, first.ptrs())
	return v.Begin().Add(pos.i)
}

// InsertMove moves the rows [first, last) of another T2 before pos. The
// source rows are left as zero values. Moving rows within the same container
// copies them.
func (v *T2[A, B]) InsertMove(pos Iter2[A, B], first, last MoveIter2[A, B]) Iter2[A, B] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)

	n, src := last.it.i-first.it.i, first.it.ptrs()
	alias := v.aliases(src)
	v.insertRange(pos.i, n, src)
	if !alias {
		for i := range n {
			first.it.At(i).Store(Tuple2[A, B]{})
		}
	}
	return v.Begin().Add(pos.i)
}

func (v *T2[A, B]) InsertTuples(pos Iter2[A, B], rows ...Tuple2[A, B]) Iter2[A, B] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)
	v.insertRange(pos.i, len(rows), columns2(rows))
	return v.Begin().Add(pos.i)
}

func columns2[A, B any](rows []Tuple2[A, B]) []unsafe.Pointer {
	if len(rows) == 0 {
		return nil
	}
	c0 := make([]A, len(rows))
	c1 := make([]B, len(rows))
	for i, r := range rows {
		c0[i], c1[i] = r.V0, r.V1
	}
	return []unsafe.Pointer{unsafe.Pointer(&c0[0]), unsafe.Pointer(&c1[0])}
}

//
// erasing
//

// Erase removes the row at pos keeping the order of the rest and returns an
// iterator to the row that followed it.
func (v *T2[A, B]) Erase(pos Iter2[A, B]) Iter2[A, B] {
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), true)
	v.EraseAt(pos.i)
	return v.Begin().Add(pos.i)
}

func (v *T2[A, B]) EraseRange(first, last Iter2[A, B]) Iter2[A, B] {
	v.checkPair(first.i, last.i, unsafe.Pointer(first.p0), unsafe.Pointer(last.p0))
	v.EraseRangeAt(first.i, last.i)
	return v.Begin().Add(first.i)
}

// EraseUnsorted removes the row at pos by moving the last row into it.
func (v *T2[A, B]) EraseUnsorted(pos Iter2[A, B]) Iter2[A, B] {
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), true)
	v.EraseUnsortedAt(pos.i)
	return v.Begin().Add(pos.i)
}

func (v *T2[A, B]) EraseReverse(pos Reverse[Iter2[A, B], Ref2[A, B]]) Reverse[Iter2[A, B], Ref2[A, B]] {
	return MakeReverse[Iter2[A, B], Ref2[A, B]](v.Erase(pos.Base().Prev()))
}

func (v *T2[A, B]) EraseRangeReverse(first, last Reverse[Iter2[A, B], Ref2[A, B]]) Reverse[Iter2[A, B], Ref2[A, B]] {
	return MakeReverse[Iter2[A, B], Ref2[A, B]](v.EraseRange(last.Base(), first.Base()))
}

func (v *T2[A, B]) EraseUnsortedReverse(pos Reverse[Iter2[A, B], Ref2[A, B]]) Reverse[Iter2[A, B], Ref2[A, B]] {
	return MakeReverse[Iter2[A, B], Ref2[A, B]](v.EraseUnsorted(pos.Base().Prev()))
}

//
// sizing and assignment
//

// Resize sets the length to n, appending zero rows or destroying the tail.
func (v *T2[A, B]) Resize(n int) {
	v.init()
	v.resize(n)
}

// ResizeWith sets the length to n, appending copies of a row or destroying
// the tail.
func (v *T2[A, B]) ResizeWith(n int, a A, b B) {
	v.init()
	old := v.size
	v.resize(n)
	v.store(old, n, a, b)
}

// Assign replaces the contents with n copies of a row.
func (v *T2[A, B]) Assign(n int, a A, b B) {
	v.init()
	v.assignZero(n)
	v.store(0, n, a, b)
}

// AssignRange replaces the contents with the rows [first, last) of any T2.
func (v *T2[A, B]) AssignRange(first, last Iter2[A, B]) {
	v.init()
	v.assignRange(last.i-first.i, first.ptrs())
}

// AssignMove replaces the contents with the rows [first, last) of another
// T2, leaving zero values behind in the source.
func (v *T2[A, B]) AssignMove(first, last MoveIter2[A, B]) {
	v.init()

	n, src := last.it.i-first.it.i, first.it.ptrs()
	alias := v.aliases(src)
	v.assignRange(n, src)
	if !alias {
		for i := range n {
			first.it.At(i).Store(Tuple2[A, B]{})
		}
	}
}

func (v *T2[A, B]) AssignTuples(rows ...Tuple2[A, B]) {
	v.init()
	v.assignRange(len(rows), columns2(rows))
}

// Swap exchanges the contents of the containers without copying rows.
func (v *T2[A, B]) Swap(o *T2[A, B]) {
	v.init()
	o.init()
	v.swap(&o.Impl)
}

// Clone returns a copy with the same kind of storage.
func (v *T2[A, B]) Clone() *T2[A, B] {
	v.init()
	c := new(T2[A, B])
	v.cloneInto(&c.Impl, newLeaf[A], newLeaf[B])
	return c
}

func (v *T2[A, B]) ValidateIterator(it Iter2[A, B]) IterStatus {
	return v.validateIterator(it.i, unsafe.Pointer(it.p0))
}

//
// bulk
//

// SortFunc orders the rows by less. Every column is permuted together.
func (v *T2[A, B]) SortFunc(less func(x, y Ref2[A, B]) bool) {
	it := v.Begin()
	v.sortRows(func(i, j int) bool { return less(it.At(i), it.At(j)) }, false)
}

// SortStableFunc is SortFunc keeping equal rows in their original order.
func (v *T2[A, B]) SortStableFunc(less func(x, y Ref2[A, B]) bool) {
	it := v.Begin()
	v.sortRows(func(i, j int) bool { return less(it.At(i), it.At(j)) }, true)
}

// IndexesWhere returns the indexes of the rows matching pred, suitable for
// EraseMask.
func (v *T2[A, B]) IndexesWhere(pred func(Ref2[A, B]) bool) *roaring.Bitmap {
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

func Equal2[A, B comparable](x, y *T2[A, B]) bool {
	return x.size == y.size &&
		slices.Equal(x.Get0(), y.Get0()) &&
		slices.Equal(x.Get1(), y.Get1())
}

// Compare2 orders containers lexicographically by row and then by length.
func Compare2[A, B cmp.Ordered](x, y *T2[A, B]) int {
	n := min(x.size, y.size)
	x0, y0 := x.Get0()[:n], y.Get0()[:n]
	x1, y1 := x.Get1()[:n], y.Get1()[:n]

	for i := range n {
		if c := cmp.Compare(x0[i], y0[i]); c != 0 {
			return c
		}
		if c := cmp.Compare(x1[i], y1[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(x.size, y.size)
}

func Less2[A, B cmp.Ordered](x, y *T2[A, B]) bool {
	return Compare2(x, y) < 0
}
