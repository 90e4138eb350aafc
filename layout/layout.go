package layout

import (
	"math/bits"
	"reflect"
	"strconv"
	"unsafe"
)

// Column describes the element type of one array in a packed allocation.
type Column struct {
	Type  reflect.Type
	Size  uintptr
	Align uintptr
}

func Of[V any]() Column {
	var v V
	return Column{
		Type:  reflect.TypeFor[V](),
		Size:  unsafe.Sizeof(v),
		Align: unsafe.Alignof(v),
	}
}

// HasPointers reports if the garbage collector has to scan values of the
// column's type.
func (c Column) HasPointers() bool { return hasPointers(c.Type) }

func hasPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.UnsafePointer, reflect.Map, reflect.Chan,
		reflect.Func, reflect.Interface, reflect.String, reflect.Slice:
		return true
	case reflect.Array:
		return t.Len() > 0 && hasPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if hasPointers(t.Field(i).Type) {
				return true
			}
		}
	}
	return false
}

// T is the layout of one allocation holding Cap elements of every column.
type T struct {
	Columns  []Column
	Cap      int
	Offsets  []uintptr
	Size     uintptr
	Align    uintptr
	Pointers bool

	room int // elements each array has space for, at least Cap
}

func alignUp(n, align uintptr) uintptr {
	return (n + align - 1) &^ (align - 1)
}

// Plan lays out capacity elements of each column one after the other. Every
// array starts at the running cursor rounded up to its column's alignment and
// the block as a whole is aligned to the largest column alignment.
func Plan(cols []Column, capacity int) (l T) {
	l = T{
		Columns: cols,
		Cap:     capacity,
		Offsets: make([]uintptr, len(cols)),
		Align:   1,
		room:    capacity,
	}
	if capacity == 0 {
		return l
	}

	var cursor uintptr
	var trailingEmpty bool
	for i, c := range cols {
		cursor = alignUp(cursor, c.Align)
		l.Offsets[i] = cursor
		cursor += uintptr(capacity) * c.Size
		trailingEmpty = c.Size == 0

		l.Align = max(l.Align, c.Align)
		l.Pointers = l.Pointers || c.HasPointers()
	}

	// keep the base of a trailing zero sized array inside the block
	if trailingEmpty && cursor > 0 {
		cursor++
	}

	l.Size = alignUp(cursor, l.Align)
	return l
}

// Rounded lays the arrays out for the next power of two at or above Cap and
// keeps Cap. Blocks built from Struct use it, so only one type per column
// list and power of two is ever created.
func (l T) Rounded() T {
	if l.Cap <= 1 {
		return l
	}
	r := Plan(l.Columns, 1<<bits.Len(uint(l.Cap-1)))
	r.Cap = l.Cap
	return r
}

// Base returns the address of column i inside block.
func (l T) Base(block unsafe.Pointer, i int) unsafe.Pointer {
	if block == nil {
		return nil
	}
	return unsafe.Add(block, l.Offsets[i])
}

// Bytes is the number of bytes column i occupies.
func (l T) Bytes(i int) uintptr { return uintptr(l.Cap) * l.Columns[i].Size }

// Contains reports if p lies in [block, block+Size).
func (l T) Contains(block, p unsafe.Pointer) bool {
	if block == nil || p == nil {
		return false
	}
	b, q := uintptr(block), uintptr(p)
	return b <= q && q < b+l.Size
}

// Struct returns a struct type with one array field per column whose field
// offsets equal Offsets. Allocating it gives the garbage collector an
// exact pointer map of the block.
func (l T) Struct() reflect.Type {
	fields := make([]reflect.StructField, 0, len(l.Columns)+1)
	for i, c := range l.Columns {
		fields = append(fields, reflect.StructField{
			Name: "C" + strconv.Itoa(i),
			Type: reflect.ArrayOf(l.room, c.Type),
		})
	}
	return reflect.StructOf(fields)
}
