// Package soavec stores the fields of a struct type as one slice per field.
//
// Unlike the packed containers in tuplevec, every column is its own
// allocation, so growing one never moves another and each column can be
// handed out as a plain slice. Unexported fields are stored like any other.
package soavec

import (
	"iter"
	"reflect"
	"unsafe"

	"github.com/zeebo/errs/v2"

	"github.com/histdb/tuplevec/alloc"
	"github.com/histdb/tuplevec/sizeof"
	"github.com/histdb/tuplevec/tuplevec"
)

var ErrNotStruct = errs.Errorf("row type is not a struct")

type column struct {
	typ reflect.Type
	off uintptr
	s   reflect.Value // len(s) is the capacity
}

func (c *column) field(p unsafe.Pointer) reflect.Value {
	return reflect.NewAt(c.typ, unsafe.Add(p, c.off)).Elem()
}

func (c *column) clear(from, to int) {
	for i := from; i < to; i++ {
		c.s.Index(i).SetZero()
	}
}

// T is a vector of R stored as one slice per field of R. The zero value is
// an empty vector.
type T[R any] struct {
	_ [0]func() // no equality

	cols []column
	size int
}

func New[R any](capacity int) *T[R] {
	v := new(T[R])
	v.Reserve(capacity)
	return v
}

func (v *T[R]) init() {
	if v.cols != nil {
		return
	}

	rt := reflect.TypeFor[R]()
	if rt.Kind() != reflect.Struct {
		panic(errs.Errorf("%w: %v", ErrNotStruct, rt))
	}

	v.cols = make([]column, rt.NumField())
	for i := range v.cols {
		f := rt.Field(i)
		v.cols[i] = column{
			typ: f.Type,
			off: f.Offset,
			s:   reflect.MakeSlice(reflect.SliceOf(f.Type), 0, 0),
		}
	}
}

func (v *T[R]) Len() int    { return v.size }
func (v *T[R]) Empty() bool { return v.size == 0 }

func (v *T[R]) Cap() int {
	if len(v.cols) == 0 {
		return 0
	}
	return v.cols[0].s.Len()
}

func (v *T[R]) Columns() int {
	v.init()
	return len(v.cols)
}

func (v *T[R]) Size() uint64 {
	n := sizeof.Slice(v.cols) + 8
	for _, c := range v.cols {
		n += sizeof.Array(c.s.Len(), c.typ.Size())
	}
	return n
}

//
// capacity
//

func (v *T[R]) realloc(capacity int) {
	for i := range v.cols {
		c := &v.cols[i]
		s := reflect.MakeSlice(c.s.Type(), capacity, capacity)
		reflect.Copy(s, c.s.Slice(0, v.size))
		c.s = s
	}

	alloc.Logger().Debug("soavec: reallocate", "to", capacity, "rows", v.size)
}

func (v *T[R]) ensure(required int) {
	if required > v.Cap() {
		v.realloc(max(2*v.Cap(), required, 1))
	}
}

// Reserve grows the capacity to at least n rows.
func (v *T[R]) Reserve(n int) {
	v.init()
	if n > v.Cap() {
		v.realloc(n)
	}
}

func (v *T[R]) ShrinkToFit() {
	if v.size < v.Cap() {
		v.realloc(v.size)
	}
}

//
// rows
//

func (v *T[R]) load(i int) (r R) {
	p := unsafe.Pointer(&r)
	for j := range v.cols {
		c := &v.cols[j]
		c.field(p).Set(c.s.Index(i))
	}
	return r
}

func (v *T[R]) store(i int, r *R) {
	p := unsafe.Pointer(r)
	for j := range v.cols {
		c := &v.cols[j]
		c.s.Index(i).Set(c.field(p))
	}
}

func (v *T[R]) checkIndex(i, n int) {
	if uint(i) >= uint(n) {
		panic(errs.Errorf("%w: %d with length %d", tuplevec.ErrOutOfRange, i, v.size))
	}
}

func (v *T[R]) PushBack(r R) {
	v.init()
	v.ensure(v.size + 1)
	v.store(v.size, &r)
	v.size++
}

// Insert places r before row i. i may equal Len.
func (v *T[R]) Insert(i int, r R) {
	v.init()
	v.checkIndex(i, v.size+1)
	v.ensure(v.size + 1)
	for _, c := range v.cols {
		reflect.Copy(c.s.Slice(i+1, v.size+1), c.s.Slice(i, v.size))
	}
	v.store(i, &r)
	v.size++
}

// Erase removes row i keeping the order of the rest.
func (v *T[R]) Erase(i int) {
	v.checkIndex(i, v.size)
	for _, c := range v.cols {
		reflect.Copy(c.s.Slice(i, v.size-1), c.s.Slice(i+1, v.size))
		c.clear(v.size-1, v.size)
	}
	v.size--
}

// EraseUnsorted removes row i by moving the last row into its place.
func (v *T[R]) EraseUnsorted(i int) {
	v.checkIndex(i, v.size)
	last := v.size - 1
	for _, c := range v.cols {
		if i != last {
			c.s.Index(i).Set(c.s.Index(last))
		}
		c.clear(last, v.size)
	}
	v.size--
}

func (v *T[R]) PopBack() { v.Erase(v.size - 1) }

// Resize sets the length to n, appending zero rows or clearing the tail.
func (v *T[R]) Resize(n int) {
	v.init()
	if n < v.size {
		for _, c := range v.cols {
			c.clear(n, v.size)
		}
	} else {
		v.ensure(n)
	}
	v.size = n
}

func (v *T[R]) Clear() { v.Resize(0) }

func (v *T[R]) Index(i int) R {
	v.checkIndex(i, v.size)
	return v.load(i)
}

func (v *T[R]) At(i int) (R, error) {
	if uint(i) >= uint(v.size) {
		var zero R
		return zero, errs.Errorf("%w: %d with length %d", tuplevec.ErrOutOfRange, i, v.size)
	}
	return v.load(i), nil
}

func (v *T[R]) Set(i int, r R) {
	v.checkIndex(i, v.size)
	v.store(i, &r)
}

// Swap exchanges rows i and j.
func (v *T[R]) Swap(i, j int) {
	v.checkIndex(i, v.size)
	v.checkIndex(j, v.size)
	if i == j {
		return
	}
	for _, c := range v.cols {
		tmp := reflect.New(c.typ).Elem()
		tmp.Set(c.s.Index(i))
		c.s.Index(i).Set(c.s.Index(j))
		c.s.Index(j).Set(tmp)
	}
}

func (v *T[R]) All() iter.Seq2[int, R] {
	return func(yield func(int, R) bool) {
		for i := range v.size {
			if !yield(i, v.load(i)) {
				return
			}
		}
	}
}

// Column returns field i of every row as a slice aliasing the storage. It
// fails if field i does not have type F.
func Column[F, R any](v *T[R], i int) ([]F, error) {
	v.init()
	if i < 0 || i >= len(v.cols) {
		return nil, errs.Errorf("%w: field %d of %d", tuplevec.ErrNoColumn, i, len(v.cols))
	}

	c := &v.cols[i]
	if ft := reflect.TypeFor[F](); ft != c.typ {
		return nil, errs.Errorf("%w: field %d is %v not %v", tuplevec.ErrNoColumn, i, c.typ, ft)
	}
	return c.s.Slice(0, v.size).Interface().([]F), nil
}
