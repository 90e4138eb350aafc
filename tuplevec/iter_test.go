package tuplevec

import (
	"errors"
	"testing"

	"github.com/zeebo/assert"
)

func filled(n int) *T2[int, string] {
	v := New2[int, string]()
	for i := range n {
		v.PushBack(i, string(rune('a'+i%26)))
	}
	return v
}

func TestIterLaws(t *testing.T) {
	v := filled(10)
	a := v.Begin()

	for n := range 10 {
		b := a.Add(n)
		assert.Equal(t, b.Distance(a), n)
		assert.Equal(t, b.Index(), n)
		assert.Equal(t, b.Deref(), a.At(n))
		assert.Equal(t, a.Less(b), 0 < n)
		assert.That(t, !b.Less(a))
		assert.That(t, b.Next().Prev().Equal(b))
	}

	assert.That(t, a.Add(10).Equal(v.End()))
	assert.Equal(t, v.End().Distance(v.Begin()), v.Len())
}

func TestIterStatus(t *testing.T) {
	v := filled(3)

	assert.Equal(t, v.ValidateIterator(v.Begin()), IterValid|IterCurrent|IterCanDeref)
	assert.Equal(t, v.ValidateIterator(v.End()), IterValid|IterCurrent)
	assert.Equal(t, v.ValidateIterator(v.End().Next()), IterNone)
	assert.Equal(t, v.ValidateIterator(v.Begin().Prev()), IterNone)
	assert.Equal(t, v.ValidateIterator(filled(3).Begin()), IterNone)

	old := v.Begin()
	v.Reserve(100)
	assert.Equal(t, v.ValidateIterator(old), IterNone)
	assert.That(t, !v.Begin().Equal(old))
}

func TestIterDebug(t *testing.T) {
	if !debug {
		t.Skip("iterator checks need -tags tuplevec_debug")
	}

	v, w := filled(3), filled(3)

	err := recoverErr(func() { v.Erase(w.Begin()) })
	assert.That(t, errors.Is(err, ErrInvalidIterator))

	err = recoverErr(func() { v.Erase(v.End()) })
	assert.That(t, errors.Is(err, ErrInvalidIterator))

	err = recoverErr(func() { v.EraseRange(v.End(), v.Begin()) })
	assert.That(t, errors.Is(err, ErrInvalidIterator))

	err = recoverErr(func() { v.Insert(v.End().Next(), 0, "") })
	assert.That(t, errors.Is(err, ErrInvalidIterator))
	assert.Equal(t, v.Len(), 3)
}

func TestMoveSemantics(t *testing.T) {
	v := New2[int, *int]()
	x := 5

	moved := Tuple2[int, *int]{1, &x}
	v.PushBackMove(&moved)
	assert.Equal(t, moved, Tuple2[int, *int]{})
	assert.Equal(t, *v.Front().P1, &x)

	copied := Tuple2[int, *int]{2, &x}
	v.PushBackTuple(copied)
	assert.Equal(t, copied.V1, &x)

	ins := Tuple2[int, *int]{3, &x}
	v.InsertTupleMove(v.Begin(), &ins)
	assert.Equal(t, ins, Tuple2[int, *int]{})
	assert.DeepEqual(t, v.Get0(), []int{3, 1, 2})
}

func TestMoveIter(t *testing.T) {
	src := filled(4)
	dst := filled(1)

	m := src.Begin().Move()
	assert.Equal(t, m.Deref(), Tuple2[int, string]{0, "a"})
	assert.Equal(t, src.Front().Load(), Tuple2[int, string]{})
	assert.Equal(t, m.Next().Index(), 1)
	assert.Equal(t, src.End().Move().Distance(m), 4)

	dst.InsertMove(dst.End(), src.Begin().Move().Add(1), src.End().Move())
	assert.DeepEqual(t, dst.Get0(), []int{0, 1, 2, 3})
	assert.DeepEqual(t, dst.Get1(), []string{"a", "b", "c", "d"})

	// the sources are left behind as zero values.
	assert.Equal(t, src.Len(), 4)
	assert.DeepEqual(t, src.Get1(), []string{"", "", "", ""})

	// moving within one container copies.
	dst.InsertMove(dst.Begin(), dst.Begin().Move(), dst.End().Move())
	assert.DeepEqual(t, dst.Get0(), []int{0, 1, 2, 3, 0, 1, 2, 3})
}

func TestAssignMove(t *testing.T) {
	src := filled(3)
	dst := filled(5)

	dst.AssignMove(src.Begin().Move(), src.End().Move())
	assert.DeepEqual(t, dst.Get0(), []int{0, 1, 2})
	assert.DeepEqual(t, dst.Get1(), []string{"a", "b", "c"})
	assert.DeepEqual(t, src.Get1(), []string{"", "", ""})

	dst.AssignMove(dst.Begin().Move().Add(1), dst.End().Move())
	assert.DeepEqual(t, dst.Get1(), []string{"b", "c"})
}

func TestReverseIter(t *testing.T) {
	v := filled(5)

	r := v.RBegin()
	assert.Equal(t, *r.Deref().P0, 4)
	assert.Equal(t, *r.Add(4).Deref().P0, 0)
	assert.That(t, r.Add(5).Equal(v.REnd()))
	assert.That(t, r.Next().Prev().Equal(r))
	assert.That(t, r.Base().Equal(v.End()))
}

func TestReverseIterRealloc(t *testing.T) {
	v := filled(5)

	r := v.RBegin()
	assert.That(t, r.Equal(v.RBegin()))
	assert.That(t, r.Add(2).Equal(v.REnd().Add(-3)))

	v.Reserve(100)
	assert.That(t, !r.Equal(v.RBegin()))
	assert.Equal(t, r.Index(), v.RBegin().Index())
}
