package tuplevec

import (
	"cmp"
	"iter"
	"slices"
	"unsafe"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/histdb/tuplevec/rwutils"
)

// Tuple4 is a row of a T4 by value.
type Tuple4[A, B, C, D any] struct {
	V0 A
	V1 B
	V2 C
	V3 D
}

// Ref4 is a row of a T4 by reference: one pointer into each column.
type Ref4[A, B, C, D any] struct {
	P0 *A
	P1 *B
	P2 *C
	P3 *D
}

func (r Ref4[A, B, C, D]) Load() Tuple4[A, B, C, D] { return Tuple4[A, B, C, D]{*r.P0, *r.P1, *r.P2, *r.P3} }
func (r Ref4[A, B, C, D]) Get() (A, B, C, D)        { return *r.P0, *r.P1, *r.P2, *r.P3 }

func (r Ref4[A, B, C, D]) Store(t Tuple4[A, B, C, D]) {
	*r.P0, *r.P1, *r.P2, *r.P3 = t.V0, t.V1, t.V2, t.V3
}

// Iter4 is a random access iterator over the rows of a T4. It snapshots
// the column bases when it is created, so any reallocation invalidates it.
type Iter4[A, B, C, D any] struct {
	i  int
	p0 *A
	p1 *B
	p2 *C
	p3 *D
}

func (it Iter4[A, B, C, D]) Index() int                  { return it.i }
func (it Iter4[A, B, C, D]) Next() Iter4[A, B, C, D]     { return it.Add(1) }
func (it Iter4[A, B, C, D]) Prev() Iter4[A, B, C, D]     { return it.Add(-1) }
func (it Iter4[A, B, C, D]) Move() MoveIter4[A, B, C, D] { return MoveIter4[A, B, C, D]{it} }

func (it Iter4[A, B, C, D]) Add(n int) Iter4[A, B, C, D] {
	it.i += n
	return it
}

// Distance is the number of rows from o to it.
func (it Iter4[A, B, C, D]) Distance(o Iter4[A, B, C, D]) int { return it.i - o.i }

// Equal compares the index and the first column base, so iterators taken
// before and after a reallocation never compare equal.
func (it Iter4[A, B, C, D]) Equal(o Iter4[A, B, C, D]) bool {
	return it.i == o.i && it.p0 == o.p0
}

func (it Iter4[A, B, C, D]) Less(o Iter4[A, B, C, D]) bool { return it.i < o.i }

// Deref returns the row at the iterator. It is rebuilt on every call.
func (it Iter4[A, B, C, D]) Deref() Ref4[A, B, C, D] { return it.At(0) }

// At returns the row n places after the iterator.
func (it Iter4[A, B, C, D]) At(n int) Ref4[A, B, C, D] {
	i := it.i + n
	return Ref4[A, B, C, D]{elem(it.p0, i), elem(it.p1, i), elem(it.p2, i), elem(it.p3, i)}
}

func (it Iter4[A, B, C, D]) ptrs() []unsafe.Pointer {
	i := it.i
	return []unsafe.Pointer{unsafe.Pointer(elem(it.p0, i)), unsafe.Pointer(elem(it.p1, i)), unsafe.Pointer(elem(it.p2, i)), unsafe.Pointer(elem(it.p3, i))}
}

// MoveIter4 moves rows out of a container: Deref returns the row by value
// and leaves zero values behind.
type MoveIter4[A, B, C, D any] struct {
	it Iter4[A, B, C, D]
}

func (m MoveIter4[A, B, C, D]) Base() Iter4[A, B, C, D]              { return m.it }
func (m MoveIter4[A, B, C, D]) Index() int                           { return m.it.i }
func (m MoveIter4[A, B, C, D]) Next() MoveIter4[A, B, C, D]          { return MoveIter4[A, B, C, D]{m.it.Next()} }
func (m MoveIter4[A, B, C, D]) Prev() MoveIter4[A, B, C, D]          { return MoveIter4[A, B, C, D]{m.it.Prev()} }
func (m MoveIter4[A, B, C, D]) Add(n int) MoveIter4[A, B, C, D]      { return MoveIter4[A, B, C, D]{m.it.Add(n)} }
func (m MoveIter4[A, B, C, D]) Equal(o MoveIter4[A, B, C, D]) bool   { return m.it.Equal(o.it) }
func (m MoveIter4[A, B, C, D]) Distance(o MoveIter4[A, B, C, D]) int { return m.it.Distance(o.it) }

func (m MoveIter4[A, B, C, D]) Deref() Tuple4[A, B, C, D] {
	r := m.it.Deref()
	t := r.Load()
	r.Store(Tuple4[A, B, C, D]{})
	return t
}

// T4 is a structure of arrays vector with 4 columns. The zero value is an
// empty container backed by the heap.
type T4[A, B, C, D any] struct {
	Impl
}

func New4[A, B, C, D any](opts ...Option) *T4[A, B, C, D] {
	v := new(T4[A, B, C, D])
	v.setup(collect(opts), newLeaf[A], newLeaf[B], newLeaf[C], newLeaf[D])
	return v
}

// NewFixed4 returns a container with inline storage for rows rows. Growing
// past it moves the rows to the overflow allocator (the heap unless set with
// WithAllocator) if overflow is set, and panics with ErrCapacityExceeded if
// not.
func NewFixed4[A, B, C, D any](rows int, overflow bool, opts ...Option) *T4[A, B, C, D] {
	v := new(T4[A, B, C, D])
	v.setupFixed(rows, overflow, collect(opts), newLeaf[A], newLeaf[B], newLeaf[C], newLeaf[D])
	return v
}

func (v *T4[A, B, C, D]) init() {
	if v.cols == nil {
		v.setup(options{}, newLeaf[A], newLeaf[B], newLeaf[C], newLeaf[D])
	}
}

func (v *T4[A, B, C, D]) Reserve(n int)         { v.init(); v.Impl.Reserve(n) }
func (v *T4[A, B, C, D]) SetCapacity(n int)     { v.init(); v.Impl.SetCapacity(n) }
func (v *T4[A, B, C, D]) ReadFrom(r *rwutils.R) { v.init(); v.Impl.ReadFrom(r) }
func (v *T4[A, B, C, D]) AppendTo(w *rwutils.W) { v.init(); v.Impl.AppendTo(w) }

func (v *T4[A, B, C, D]) bases() (*A, *B, *C, *D) {
	if v.cols == nil {
		return nil, nil, nil, nil
	}
	return (*A)(v.cols[0].base()), (*B)(v.cols[1].base()), (*C)(v.cols[2].base()), (*D)(v.cols[3].base())
}

// store writes the row into [from, to), which must already be rows.
func (v *T4[A, B, C, D]) store(from, to int, a A, b B, c C, d D) {
	p0, p1, p2, p3 := v.bases()
	for i := from; i < to; i++ {
		*elem(p0, i), *elem(p1, i), *elem(p2, i), *elem(p3, i) = a, b, c, d
	}
}

func (v *T4[A, B, C, D]) Get0() []A { return columnAt[A](&v.Impl, 0) }
func (v *T4[A, B, C, D]) Get1() []B { return columnAt[B](&v.Impl, 1) }
func (v *T4[A, B, C, D]) Get2() []C { return columnAt[C](&v.Impl, 2) }
func (v *T4[A, B, C, D]) Get3() []D { return columnAt[D](&v.Impl, 3) }

// Data returns the base of every column.
func (v *T4[A, B, C, D]) Data() Ref4[A, B, C, D] {
	p0, p1, p2, p3 := v.bases()
	return Ref4[A, B, C, D]{p0, p1, p2, p3}
}

func (v *T4[A, B, C, D]) Begin() Iter4[A, B, C, D] {
	p0, p1, p2, p3 := v.bases()
	return Iter4[A, B, C, D]{0, p0, p1, p2, p3}
}

func (v *T4[A, B, C, D]) End() Iter4[A, B, C, D] { return v.Begin().Add(v.size) }

func (v *T4[A, B, C, D]) RBegin() Reverse[Iter4[A, B, C, D], Ref4[A, B, C, D]] { return MakeReverse[Iter4[A, B, C, D], Ref4[A, B, C, D]](v.End()) }
func (v *T4[A, B, C, D]) REnd() Reverse[Iter4[A, B, C, D], Ref4[A, B, C, D]]   { return MakeReverse[Iter4[A, B, C, D], Ref4[A, B, C, D]](v.Begin()) }

// At returns row i, or an error wrapping ErrOutOfRange.
func (v *T4[A, B, C, D]) At(i int) (Ref4[A, B, C, D], error) {
	if err := v.errIndex(i); err != nil {
		return Ref4[A, B, C, D]{}, err
	}
	return v.Begin().At(i), nil
}

// Index returns row i. It panics with ErrOutOfRange if i is not a row.
func (v *T4[A, B, C, D]) Index(i int) Ref4[A, B, C, D] {
	v.checkIndex(i)
	return v.Begin().At(i)
}

func (v *T4[A, B, C, D]) Front() Ref4[A, B, C, D] { return v.Index(0) }
func (v *T4[A, B, C, D]) Back() Ref4[A, B, C, D]  { return v.Index(v.size - 1) }

// All yields every row with its index.
func (v *T4[A, B, C, D]) All() iter.Seq2[int, Ref4[A, B, C, D]] {
	return func(yield func(int, Ref4[A, B, C, D]) bool) {
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

func (v *T4[A, B, C, D]) PushBack(a A, b B, c C, d D) {
	v.init()
	i := v.pushBack()
	v.store(i, i+1, a, b, c, d)
}

// EmplaceBack appends a row and returns it.
func (v *T4[A, B, C, D]) EmplaceBack(a A, b B, c C, d D) Ref4[A, B, C, D] {
	v.PushBack(a, b, c, d)
	return v.Begin().At(v.size - 1)
}

func (v *T4[A, B, C, D]) PushBackTuple(t Tuple4[A, B, C, D]) { v.PushBack(t.V0, t.V1, t.V2, t.V3) }

// PushBackMove appends the row in t and zeroes t.
func (v *T4[A, B, C, D]) PushBackMove(t *Tuple4[A, B, C, D]) {
	v.PushBack(t.V0, t.V1, t.V2, t.V3)
	*t = Tuple4[A, B, C, D]{}
}

// PushBackZero appends a row of zero values and returns it.
func (v *T4[A, B, C, D]) PushBackZero() Ref4[A, B, C, D] {
	v.init()
	return v.Begin().At(v.pushBack())
}

// PushBackUninitialized grows the length by one without writing the new row.
// Destroyed slots are always zeroed, so the row reads as zero values.
func (v *T4[A, B, C, D]) PushBackUninitialized() Ref4[A, B, C, D] {
	v.init()
	return v.Begin().At(v.pushBack())
}

//
// inserting
//

func (v *T4[A, B, C, D]) Insert(pos Iter4[A, B, C, D], a A, b B, c C, d D) Iter4[A, B, C, D] {
	return v.InsertN(pos, 1, a, b, c, d)
}

// InsertN inserts n copies of a row before pos and returns an iterator to the
// first of them.
func (v *T4[A, B, C, D]) InsertN(pos Iter4[A, B, C, D], n int, a A, b B, c C, d D) Iter4[A, B, C, D] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)
	v.insertZero(pos.i, n)
	v.store(pos.i, pos.i+max(n, 0), a, b, c, d)
	return v.Begin().Add(pos.i)
}

func (v *T4[A, B, C, D]) InsertTuple(pos Iter4[A, B, C, D], t Tuple4[A, B, C, D]) Iter4[A, B, C, D] {
	return v.InsertN(pos, 1, t.V0, t.V1, t.V2, t.V3)
}

// InsertTupleMove inserts the row in t before pos and zeroes t.
func (v *T4[A, B, C, D]) InsertTupleMove(pos Iter4[A, B, C, D], t *Tuple4[A, B, C, D]) Iter4[A, B, C, D] {
	it := v.InsertN(pos, 1, t.V0, t.V1, t.V2, t.V3)
	*t = Tuple4[A, B, C, D]{}
	return it
}

// InsertRange copies the rows [first, last) of any T4, this one included,
// before pos.
func (v *T4[A, B, C, D]) InsertRange(pos, first, last Iter4[A, B, C, D]) Iter4[A, B, C, D] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)
	v.insertRange(pos.i, last.i-first.i, first.ptrs())
	return v.Begin().Add(pos.i)
}

// InsertMove moves the rows [first, last) of another T4 before pos. The
// source rows are left as zero values. Moving rows within the same container
// copies them.
func (v *T4[A, B, C, D]) InsertMove(pos Iter4[A, B, C, D], first, last MoveIter4[A, B, C, D]) Iter4[A, B, C, D] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)

	n, src := last.it.i-first.it.i, first.it.ptrs()
	alias := v.aliases(src)
	v.insertRange(pos.i, n, src)
	if !alias {
		for i := range n {
			first.it.At(i).Store(Tuple4[A, B, C, D]{})
		}
	}
	return v.Begin().Add(pos.i)
}

func (v *T4[A, B, C, D]) InsertTuples(pos Iter4[A, B, C, D], rows ...Tuple4[A, B, C, D]) Iter4[A, B, C, D] {
	v.init()
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), false)
	v.insertRange(pos.i, len(rows), columns4(rows))
	return v.Begin().Add(pos.i)
}

func columns4[A, B, C, D any](rows []Tuple4[A, B, C, D]) []unsafe.Pointer {
	if len(rows) == 0 {
		return nil
	}
	c0 := make([]A, len(rows))
	c1 := make([]B, len(rows))
	c2 := make([]C, len(rows))
	c3 := make([]D, len(rows))
	for i, r := range rows {
		c0[i], c1[i], c2[i], c3[i] = r.V0, r.V1, r.V2, r.V3
	}
	return []unsafe.Pointer{unsafe.Pointer(&c0[0]), unsafe.Pointer(&c1[0]), unsafe.Pointer(&c2[0]), unsafe.Pointer(&c3[0])}
}

//
// erasing
//

// Erase removes the row at pos keeping the order of the rest and returns an
// iterator to the row that followed it.
func (v *T4[A, B, C, D]) Erase(pos Iter4[A, B, C, D]) Iter4[A, B, C, D] {
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), true)
	v.EraseAt(pos.i)
	return v.Begin().Add(pos.i)
}

func (v *T4[A, B, C, D]) EraseRange(first, last Iter4[A, B, C, D]) Iter4[A, B, C, D] {
	v.checkPair(first.i, last.i, unsafe.Pointer(first.p0), unsafe.Pointer(last.p0))
	v.EraseRangeAt(first.i, last.i)
	return v.Begin().Add(first.i)
}

// EraseUnsorted removes the row at pos by moving the last row into it.
func (v *T4[A, B, C, D]) EraseUnsorted(pos Iter4[A, B, C, D]) Iter4[A, B, C, D] {
	v.checkIter(pos.i, unsafe.Pointer(pos.p0), true)
	v.EraseUnsortedAt(pos.i)
	return v.Begin().Add(pos.i)
}

func (v *T4[A, B, C, D]) EraseReverse(pos Reverse[Iter4[A, B, C, D], Ref4[A, B, C, D]]) Reverse[Iter4[A, B, C, D], Ref4[A, B, C, D]] {
	return MakeReverse[Iter4[A, B, C, D], Ref4[A, B, C, D]](v.Erase(pos.Base().Prev()))
}

func (v *T4[A, B, C, D]) EraseRangeReverse(first, last Reverse[Iter4[A, B, C, D], Ref4[A, B, C, D]]) Reverse[Iter4[A, B, C, D], Ref4[A, B, C, D]] {
	return MakeReverse[Iter4[A, B, C, D], Ref4[A, B, C, D]](v.EraseRange(last.Base(), first.Base()))
}

func (v *T4[A, B, C, D]) EraseUnsortedReverse(pos Reverse[Iter4[A, B, C, D], Ref4[A, B, C, D]]) Reverse[Iter4[A, B, C, D], Ref4[A, B, C, D]] {
	return MakeReverse[Iter4[A, B, C, D], Ref4[A, B, C, D]](v.EraseUnsorted(pos.Base().Prev()))
}

//
// sizing and assignment
//

// Resize sets the length to n, appending zero rows or destroying the tail.
func (v *T4[A, B, C, D]) Resize(n int) {
	v.init()
	v.resize(n)
}

// ResizeWith sets the length to n, appending copies of a row or destroying
// the tail.
func (v *T4[A, B, C, D]) ResizeWith(n int, a A, b B, c C, d D) {
	v.init()
	old := v.size
	v.resize(n)
	v.store(old, n, a, b, c, d)
}

// Assign replaces the contents with n copies of a row.
func (v *T4[A, B, C, D]) Assign(n int, a A, b B, c C, d D) {
	v.init()
	v.assignZero(n)
	v.store(0, n, a, b, c, d)
}

// AssignRange replaces the contents with the rows [first, last) of any T4.
func (v *T4[A, B, C, D]) AssignRange(first, last Iter4[A, B, C, D]) {
	v.init()
	v.assignRange(last.i-first.i, first.ptrs())
}

// AssignMove replaces the contents with the rows [first, last) of another
// T4, leaving zero values behind in the source.
func (v *T4[A, B, C, D]) AssignMove(first, last MoveIter4[A, B, C, D]) {
	v.init()

	n, src := last.it.i-first.it.i, first.it.ptrs()
	alias := v.aliases(src)
	v.assignRange(n, src)
	if !alias {
		for i := range n {
			first.it.At(i).Store(Tuple4[A, B, C, D]{})
		}
	}
}

func (v *T4[A, B, C, D]) AssignTuples(rows ...Tuple4[A, B, C, D]) {
	v.init()
	v.assignRange(len(rows), columns4(rows))
}

// Swap exchanges the contents of the containers without copying rows.
func (v *T4[A, B, C, D]) Swap(o *T4[A, B, C, D]) {
	v.init()
	o.init()
	v.swap(&o.Impl)
}

// Clone returns a copy with the same kind of storage.
func (v *T4[A, B, C, D]) Clone() *T4[A, B, C, D] {
	v.init()
	c := new(T4[A, B, C, D])
	v.cloneInto(&c.Impl, newLeaf[A], newLeaf[B], newLeaf[C], newLeaf[D])
	return c
}

func (v *T4[A, B, C, D]) ValidateIterator(it Iter4[A, B, C, D]) IterStatus {
	return v.validateIterator(it.i, unsafe.Pointer(it.p0))
}

//
// bulk
//

// SortFunc orders the rows by less. Every column is permuted together.
func (v *T4[A, B, C, D]) SortFunc(less func(x, y Ref4[A, B, C, D]) bool) {
	it := v.Begin()
	v.sortRows(func(i, j int) bool { return less(it.At(i), it.At(j)) }, false)
}

// SortStableFunc is SortFunc keeping equal rows in their original order.
func (v *T4[A, B, C, D]) SortStableFunc(less func(x, y Ref4[A, B, C, D]) bool) {
	it := v.Begin()
	v.sortRows(func(i, j int) bool { return less(it.At(i), it.At(j)) }, true)
}

// IndexesWhere returns the indexes of the rows matching pred, suitable for
// EraseMask.
func (v *T4[A, B, C, D]) IndexesWhere(pred func(Ref4[A, B, C, D]) bool) *roaring.Bitmap {
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

func Equal4[A, B, C, D comparable](x, y *T4[A, B, C, D]) bool {
	return x.size == y.size &&
		slices.Equal(x.Get0(), y.Get0()) &&
		slices.Equal(x.Get1(), y.Get1()) &&
		slices.Equal(x.Get2(), y.Get2()) &&
		slices.Equal(x.Get3(), y.Get3())
}

// Compare4 orders containers lexicographically by row and then by length.
func Compare4[A, B, C, D cmp.Ordered](x, y *T4[A, B, C, D]) int {
	n := min(x.size, y.size)
	x0, y0 := x.Get0()[:n], y.Get0()[:n]
	x1, y1 := x.Get1()[:n], y.Get1()[:n]
	x2, y2 := x.Get2()[:n], y.Get2()[:n]
	x3, y3 := x.Get3()[:n], y.Get3()[:n]

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
		if c := cmp.Compare(x3[i], y3[i]); c != 0 {
			return c
		}
	}
	return cmp.Compare(x.size, y.size)
}

func Less4[A, B, C, D cmp.Ordered](x, y *T4[A, B, C, D]) bool {
	return Compare4(x, y) < 0
}
