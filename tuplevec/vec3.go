package tuplevec

import (
	"cmp"
	"iter"
	"slices"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/histdb/tuplevec/rwutils"
)

// Tuple3 is a row of a T3 by value.
type Tuple3[A, B, C any] struct {
	V0 A
	V1 B
	V2 C
}

// Ref3 is a row of a T3 by reference: one pointer into each column.
type Ref3[A, B, C any] struct {
	P0 *A
	P1 *B
	P2 *C
}

func (r Ref3[A, B, C]) Load() Tuple3[A, B, C] { return Tuple3[A, B, C]{*r.P0, *r.P1, *r.P2} }
func (r Ref3[A, B, C]) Get() (A, B, C)        { return *r.P0, *r.P1, *r.P2 }

func (r Ref3[A, B, C]) Store(t Tuple3[A, B, C]) {
	*r.P0, *r.P1, *r.P2 = t.V0, t.V1, t.V2
}

// Iter3 is a random access iterator over the rows of a T3. It snapshots
// the column bases when it is created, so any reallocation invalidates it.
type Iter3[A, B, C any] struct {
	i  int
	p0 *A
	p1 *B
	p2 *C
}

func (it Iter3[A, B, C]) Index() int               { return it.i }
func (it Iter3[A, B, C]) Next() Iter3[A, B, C]     { return it.Add(1) }
func (it Iter3[A, B, C]) Prev() Iter3[A, B, C]     { return it.Add(-1) }
func (it Iter3[A, B, C]) Move() MoveIter3[A, B, C] { return MoveIter3[A, B, C]{it} }

func (it Iter3[A, B, C]) Add(n int) Iter3[A, B, C] {
	it.i += n
	return it
}

// Distance is the number of rows from o to it.
func (it Iter3[A, B, C]) Distance(o Iter3[A, B, C]) int { return it.i - o.i }

// Equal compares the index and the first column base, so iterators taken
// before and after a reallocation never compare equal.
func (it Iter3[A, B, C]) Equal(o Iter3[A, B, C]) bool {
	return it.i == o.i && it.p0 == o.p0
}

func (it Iter3[A, B, C]) Less(o Iter3[A, B, C]) bool { return it.i < o.i }

// Deref returns the row at the iterator. It is rebuilt on every call.
func (it Iter3[A, B, C]) Deref() Ref3[A, B, C] { return it.At(0) }

// At returns the row n places after the iterator.
func (it Iter3[A, B, C]) At(n int) Ref3[A, B, C] {
	i := it.i + n
	return Ref3[A, B, C]{elem(it.p0, i), elem(it.p1, i), elem(it.p2, i)}
}

func (it Iter3[A, B, C]) ptrs() []unsafe.Pointer {
	i := it.i
	return []unsafe.Pointer{unsafe.Pointer(elem(it.p0, i)), unsafe.Pointer(elem(it.p1, i)), unsafe.Pointer(elem(it.p2, i))}
}

// MoveIter3 moves rows out of a container: Deref returns the row by value
// and leaves zero values behind.
type MoveIter3[A, B, C any] struct {
	it Iter3[A, B, C]
}

func (m MoveIter3[A, B, C]) Base() Iter3[A, B, C]              { return m.it }
func (m MoveIter3[A, B, C]) Index() int                        { return m.it.i }
func (m MoveIter3[A, B, C]) Next() MoveIter3[A, B, C]          { return MoveIter3[A, B, C]{m.it.Next()} }
func (m MoveIter3[A, B, C]) Prev() MoveIter3[A, B, C]          { return MoveIter3[A, B, C]{m.it.Prev()} }
func (m MoveIter3[A, B, C]) Add(n int) MoveIter3[A, B, C]      { return MoveIter3[A, B, C]{m.it.Add(n)} }
func (m MoveIter3[A, B, C]) Equal(o MoveIter3[A, B, C]) bool   { return m.it.Equal(o.it) }
func (m MoveIter3[A, B, C]) Distance(o MoveIter3[A, B, C]) int { return m.it.Distance(o.it) }

func (m MoveIter3[A, B, C]) Deref() Tuple3[A, B, C] {
	r := m.it.Deref()
	t := r.Load()
	r.Store(Tuple3[A, B, C]{})
	return t
}

// T3 is a structure of arrays vector with 3 columns. The zero value is an
// empty container backed by the heap.
type T3[A, B, C any] struct {
	Impl
}

func New3[A, B, C any](opts ...Option) *T3[A, B, C] {
	v := new(T3[A, B, C])
	v.setup(collect(opts), newLeaf[A], newLeaf[B], newLeaf[C])
	return v
}

// NewFixed3 returns a container with inline storage for rows rows. Growing
// past it moves the rows to the overflow allocator (the heap unless set with
// WithAllocator) if overflow is set, and panics with ErrCapacityExceeded if
// not.
func NewFixed3[A, B, C any](rows int, overflow bool, opts ...Option) *T3[A, B, C] {
	v := new(T3[A, B, C])
	v.setupFixed(rows, overflow, collect(opts), newLeaf[A], newLeaf[B], newLeaf[C])
	return v
}

func (v *T3[A, B, C]) init() {
	if v.cols == nil {
		v.setup(options{}, newLeaf[A], newLeaf[B], newLeaf[C])
	}
}

func (v *T3[A, B, C]) Reserve(n int)         { v.init(); v.Impl.Reserve(n) }
func (v *T3[A, B, C]) SetCapacity(n int)     { v.init(); v.Impl.SetCapacity(n) }
func (v *T3[A, B, C]) ReadFrom(r *rwutils.R) { v.init(); v.Impl.ReadFrom(r) }
func (v *T3[A, B, C]) AppendTo(w *rwutils.W) { v.init(); v.Impl.AppendTo(w) }

func (v *T3[A, B, C]) bases() (*A, *B, *C) {
	if v.cols == nil {
		return nil, nil, nil
	}
	return (*A)(v.cols[0].base()), (*B)(v.cols[1].base()), (*C)(v.cols[2].base())
}

// store writes the row into [from, to), which must already be rows.
func (v *T3[A, B, C]) store(from, to int, a A, b B, c C) {
	p0, p1, p2 := v.bases()
	for i := from; i < to; i++ {
		*elem(p0, i), *elem(p1, i), *elem(p2, i) = a, b, c
	}
}

func (v *T3[A, B, C]) Get0() []A { return columnAt[A](&v.Impl, 0) }
func (v *T3[A, B, C]) Get1() []B { return columnAt[B](&v.Impl, 1) }
func (v *T3[A, B, C]) Get2() []C { return columnAt[C](&v.Impl, 2) }

// Data returns the base of every column.
func (v *T3[A, B, C]) Data() Ref3[A, B, C] {
	p0, p1, p2 := v.bases()
	return Ref3[A, B, C]{p0, p1, p2}
}

func (v *T3[A, B, C]) Begin() Iter3[A, B, C] {
	p0, p1, p2 := v.bases()
	return Iter3[A, B, C]{0, p0, p1, p2}
}

func (v *T3[A, B, C]) End() Iter3[A, B, C] { return v.Begin().Add(v.size) }

func (v *T3[A, B, C]) RBegin() Reverse[Iter3[A, B, C], Ref3[A, B, C]] { return MakeReverse[Iter3[A, B, C], Ref3[A, B, C]](v.End()) }
func (v *T3[A, B, C]) REnd() Reverse[Iter3[A, B, C], Ref3[A, B, C]]   { return MakeReverse[Iter3[A, B, C], Ref3[A, B, C]](v.Begin()) }

// At returns row i, or an error wrapping ErrOutOfRange.
func (v *T3[A, B, C]) At(i int) (Ref3[A, B, C], error) {
	if err := v.errIndex(i); err != nil {
		return Ref3[A, B, C]{}, err
	}
	return v.Begin().At(i), nil
}

// Index returns row i. It panics with ErrOutOfRange if i is not a row.
func (v *T3[A, B, C]) Index(i int) Ref3[A, B, C] {
	v.checkIndex(i)
	return v.Begin().At(i)
}

func (v *T3[A, B, C]) Front() Ref3[A, B, C] { return v.Index(0) }
func (v *T3[A, B, C]) Back() Ref3[A, B, C]  { return v.Index(v.size - 1) }

// All yields every row with its index.
func (v *T3[A, B, C]) All() iter.Seq2[int, Ref3[A, B, C]] {
	return func(yield func(int, Ref3[A, B, C]) bool) {
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

func (v *T3[A, B, C]) PushBack(a A, b B, c C) {
	v.init()
	i := v.pushBack()
	v.store(i, i+1, a, b, c)
}

// EmplaceBack appends a row and returns it.
func (v *T3[A, B, C]) EmplaceBack(a A, b B, c C) Ref3[A, B, C] {
	v.PushBack(a, b, c)
	return v.Begin().At(v.size - 1)
}

func (v *T3[A, B, C]) PushBackTuple(t Tuple3[A, B, C]) { v.PushBack(t.V0, t.V1, t.V2) }

// PushBackMove appends the row in t and zeroes t.
func (v *T3[A, B, C]) PushBackMove(t *Tuple3[A, B, C]) {
	v.PushBack(t.V0, t.V1, t.V2)
	*t = Tuple3[A, B, C]{}
}

// PushBackZero appends a row of zero values and returns it.
func (v *T3[A, B, C]) PushBackZero() Ref3[A, B, C] {
	v.init()
	return v.Begin().At(v.pushBack())
}

// PushBackUninitialized grows the length by one without writing the new row.
// Destroyed slots are always zeroed, so the row reads as zero values.
func (v *T3[A, B, C]) PushBackUninitialized() Ref3[A, B, C] {
	v.init()
	return v.Begin().At(v.pushBack())
}

//
// inserting
//

func (v *T3[A, B, C]) Insert(pos Iter3[A, B, C], a A, b B, c C) Iter3[A, B, C] {
	return v.InsertN(pos, 1, a, b, c)
}

// InsertN inserts n copies of a row before pos and returns an iterator to the
// first of them.
func (v *T3[A, B, C]) InsertN(pos Iter3[A, B, C], n int, a A, b B, c C) Iter3[A, B, C] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)
	v.insertZero(pos.i, n)
	v.store(pos.i, pos.i+max(n, 0), a, b, c)
	return v.Begin().Add(pos.i)
}

func (v *T3[A, B, C]) InsertTuple(pos Iter3[A, B, C], t Tuple3[A, B, C]) Iter3[A, B, C] {
	return v.InsertN(pos, 1, t.V0, t.V1, t.V2)
}

// InsertTupleMove inserts the row in t before pos and zeroes t.
func (v *T3[A, B, C]) InsertTupleMove(pos Iter3[A, B, C], t *Tuple3[A, B, C]) Iter3[A, B, C] {
	it := v.InsertN(pos, 1, t.V0, t.V1, t.V2)
	*t = Tuple3[A, B, C]{}
	return it
}

// InsertRange copies the rows [first, last) of any T3, this one included,
// before pos.
func (v *T3[A, B, C]) InsertRange(pos, first, last Iter3[A, B, C]) Iter3[A, B, C] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)
	v.insertRange(pos.i, last.i-first.i, first.ptrs())
	return v.Begin().Add(pos.i)
}

// InsertMove moves the rows [first, last) of another T3 before pos. The
// source rows are left as zero values. Moving rows within the same container
// copies them.
func (v *T3[A, B, C]) InsertMove(pos Iter3[A, B, C], first, last MoveIter3[A, B, C]) Iter3[A, B, C] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)

	n, src := last.it.i-first.it.i, first.it.ptrs()
	alias := v.aliases(src)
	v.insertRange(pos.i, n, src)
	if !alias {
		for i := range n {
			first.it.At(i).Store(Tuple3[A, B, C]{})
		}
	}
	return v.Begin().Add(pos.i)
}

func (v *T3[A, B, C]) InsertTuples(pos Iter3[A, B, C], rows ...Tuple3[A, B, C]) Iter3[A, B, C] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)
	v.insertRange(pos.i, len(rows), columns3(rows))
	return v.Begin().Add(pos.i)
}

func columns3[A, B, C any](rows []Tuple3[A, B, C]) []unsafe.Pointer {
	if len(rows) == 0 {
		return nil
	}
	c0 := make([]A, len(rows))
	c1 := make([]B, len(rows))
	c2 := make([]C, len(rows))
	for i, r := range rows {
		c0[i], c1[i], c2[i] = r.V0, r.V1, r.V2
	}
	return []unsafe.Pointer{unsafe.Pointer(&c0[0]), unsafe.Pointer(&c1[0]), unsafe.Pointer(&c2[0])}
}

//
// erasing
//

// Erase removes the row at pos keeping the order of the rest and returns an
// iterator to the row that followed it.
func (v *T3[A, B, C]) Erase(pos Iter3[A, B, C]) Iter3[A, B, C] {
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), true)
	v.EraseAt(pos.i)
	return v.Begin().Add(pos.i)
}

func (v *T3[A, B, C]) EraseRange(first, last Iter3[A, B, C]) Iter3[A, B, C] {
	v.checkPair(first.i, last.i, unsafe.Pointer(first.p0), unsafe.Pointer(last.p0))
	v.EraseRangeAt(first.i, last.i)
	return v.Begin().Add(first.i)
}

// EraseUnsorted removes the row at pos by moving the last row into it.
func (v *T3[A, B, C]) EraseUnsorted(pos Iter3[A, B, C]) Iter3[A, B, C] {
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), true)
	v.EraseUnsortedAt(pos.i)
	return v.Begin().Add(pos.i)
}

func (v *T3[A, B, C]) EraseReverse(pos Reverse[Iter3[A, B, C], Ref3[A, B, C]]) Reverse[Iter3[A, B, C], Ref3[A, B, C]] {
	return MakeReverse[Iter3[A, B, C], Ref3[A, B, C]](v.Erase(pos.Base().Prev()))
}

func (v *T3[A, B, C]) EraseRangeReverse(first, last Reverse[Iter3[A, B, C], Ref3[A, B, C]]) Reverse[Iter3[A, B, C], Ref3[A, B, C]] {
	return MakeReverse[Iter3[A, B, C], Ref3[A, B, C]](v.EraseRange(last.Base(), first.Base()))
}

func (v *T3[A, B, C]) EraseUnsortedReverse(pos Reverse[Iter3[A, B, C], Ref3[A, B, C]]) Reverse[Iter3[A, B, C], Ref3[A, B, C]] {
	return MakeReverse[Iter3[A, B, C], Ref3[A, B, C]](v.EraseUnsorted(pos.Base().Prev()))
}

//
// sizing and assignment
//

// Resize sets the length to n, appending zero rows or destroying the tail.
func (v *T3[A, B, C]) Resize(n int) {
	v.init()
	v.resize(n)
}

// ResizeWith sets the length to n, appending copies of a row or destroying
// the tail.
func (v *T3[A, B, C]) ResizeWith(n int, a A, b B, c C) {
	v.init()
	old := v.size
	v.resize(n)
	v.store(old, n, a, b, c)
}

// Assign replaces the contents with n copies of a row.
func (v *T3[A, B, C]) Assign(n int, a A, b B, c C) {
	v.init()
	v.assignZero(n)
	v.store(0, n, a, b, c)
}

// AssignRange replaces the contents with the rows [first, last) of any T3.
func (v *T3[A, B, C]) AssignRange(first, last Iter3[A, B, C]) {
	v.init()
	v.assignRange(last.i-first.i, first.ptrs())
}

// AssignMove replaces the contents with the rows [first, last) of another
// T3, leaving zero values behind in the source.
func (v *T3[A, B, C]) AssignMove(first, last MoveIter3[A, B, C]) {
	v.init()

	n, src := last.it.i-first.it.i, first.it.ptrs()
	alias := v.aliases(src)
	v.assignRange(n, src)
	if !alias {
		for i := range n {
			first.it.At(i).Store(Tuple3[A, B, C]{})
		}
	}
}

func (v *T3[A, B, C]) AssignTuples(rows ...Tuple3[A, B, C]) {
	v.init()
	v.assignRange(len(rows), columns3(rows))
}

// Swap exchanges the contents of the containers without copying rows.
func (v *T3[A, B, C]) Swap(o *T3[A, B, C]) {
	v.init()
	o.init()
	v.swap(&o.Impl)
}

// Clone returns a copy with the same kind of storage.
func (v *T3[A, B, C]) Clone() *T3[A, B, C] {
	v.init()
	c := new(T3[A, B, C])
	v.cloneInto(&c.Impl, newLeaf[A], newLeaf[B], newLeaf[C])
	return c
}

func (v *T3[A, B, C]) ValidateIterator(it Iter3[A, B, C]) IterStatus {
	return v.validateIterator(it.i, unsafe.Pointer(it.p0))
}

//
// bulk
//

// SortFunc orders the rows by less. Every column is permuted together.
func (v *T3[A, B, C]) SortFunc(less func(x, y Ref3[A, B, C]) bool) {
	it := v.Begin()
	v.sortRows(func(i, j int) bool { return less(it.At(i), it.At(j)) }, false)
}

// SortStableFunc is SortFunc keeping equal rows in their original order.
func (v *T3[A, B, C]) SortStableFunc(less func(x, y Ref3[A, B, C]) bool) {
	it := v.Begin()
	v.sortRows(func(i, j int) bool { return less(it.At(i), it.At(j)) }, true)
}

// IndexesWhere returns the indexes of the rows matching pred, suitable for
// EraseMask.
func (v *T3[A, B, C]) IndexesWhere(pred func(Ref3[A, B, C]) bool) *roaring.Bitmap {
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

func Equal3[A, B, C comparable](x, y *T3[A, B, C]) bool {
	return x.size == y.size &&
		slices.Equal(x.Get0(), y.Get0()) &&
		slices.Equal(x.Get1(), y.Get1()) &&
		slices.Equal(x.Get2(), y.Get2())
}

// Compare3 orders containers lexicographically by row and then by length.
func Compare3[A, B, C cmp.Ordered](x, y *T3[A, B, C]) int {
	n := min(x.size, y.size)
	x0, y0 := x.Get0()[:n], y.Get0()[:n]
	x1, y1 := x.Get1()[:n], y.Get1()[:n]
	x2, y2 := x.Get2()[:n], y.Get2()[:n]

	for i := range n {
		if c := cmp.Compare(x0[i], y0[i]); c != 0 {
			return c
		}
		if c := cmp.Compare(x1[i], y1[i]); c != 0 {
			return c
		}
		if c := cmp.Compare(x2[i], y2[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(x.size, y.size)
}

func Less3[A, B, C cmp.Ordered](x, y *T3[A, B, C]) bool {
	return Compare3(x, y) < 0
}
