package soavec

import (
	"errors"
	"slices"
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"

	"github.com/histdb/tuplevec/testhelp"
	"github.com/histdb/tuplevec/tuplevec"
)

type point struct {
	X, Y  int32
	label string
	seen  bool
}

func TestBasic(t *testing.T) {
	var v T[point]
	v.PushBack(point{1, 2, "a", true})
	v.PushBack(point{3, 4, "b", false})
	v.Insert(1, point{5, 6, "c", true})

	assert.Equal(t, v.Len(), 3)
	assert.Equal(t, v.Columns(), 4)
	assert.Equal(t, v.Index(1), point{5, 6, "c", true})

	xs, err := Column[int32](&v, 0)
	assert.NoError(t, err)
	assert.DeepEqual(t, xs, []int32{1, 5, 3})

	labels, err := Column[string](&v, 2)
	assert.NoError(t, err)
	assert.DeepEqual(t, labels, []string{"a", "c", "b"})

	_, err = Column[int64](&v, 0)
	assert.That(t, errors.Is(err, tuplevec.ErrNoColumn))
	_, err = Column[int32](&v, 9)
	assert.That(t, errors.Is(err, tuplevec.ErrNoColumn))

	v.Set(0, point{label: "z"})
	v.Swap(0, 2)
	assert.Equal(t, v.Index(0), point{3, 4, "b", false})
	assert.Equal(t, v.Index(2), point{label: "z"})

	v.EraseUnsorted(0)
	assert.Equal(t, v.Len(), 2)
	assert.Equal(t, v.Index(0), point{label: "z"})

	v.Erase(0)
	r, err := v.At(0)
	assert.NoError(t, err)
	assert.Equal(t, r, point{5, 6, "c", true})

	_, err = v.At(1)
	assert.That(t, errors.Is(err, tuplevec.ErrOutOfRange))
}

func TestCapacity(t *testing.T) {
	v := New[point](0)
	assert.Equal(t, v.Cap(), 0)

	var caps []int
	for i := range 9 {
		v.PushBack(point{X: int32(i)})
		if len(caps) == 0 || caps[len(caps)-1] != v.Cap() {
			caps = append(caps, v.Cap())
		}
	}
	assert.DeepEqual(t, caps, []int{1, 2, 4, 8, 16})

	v.ShrinkToFit()
	assert.Equal(t, v.Cap(), 9)

	v.Resize(3)
	v.Resize(5)
	assert.Equal(t, v.Index(4), point{})

	v.Reserve(100)
	assert.Equal(t, v.Cap(), 100)
	assert.That(t, v.Size() > 100*(4+4+16+1))

	v.Clear()
	assert.That(t, v.Empty())
	assert.Equal(t, v.Cap(), 100)
}

func TestNotStruct(t *testing.T) {
	var err error
	func() {
		defer func() { err, _ = recover().(error) }()
		New[int](1)
	}()
	assert.That(t, errors.Is(err, ErrNotStruct))
}

func TestMatchesPacked(t *testing.T) {
	rng := mwc.Rand()

	var s T[testhelp.Row]
	p := tuplevec.New3[uint64, string, float32]()

	for range 3000 {
		r := testhelp.RandomRow(rng)
		pos := int(rng.Uint64n(uint64(s.Len() + 1)))

		switch op := rng.Uint32n(10); {
		case op < 4:
			s.PushBack(r)
			p.PushBack(r.K, r.S, r.F)

		case op < 6:
			s.Insert(pos, r)
			p.Insert(p.Begin().Add(pos), r.K, r.S, r.F)

		case op < 7 && s.Len() > 0:
			i := int(rng.Uint64n(uint64(s.Len())))
			s.Erase(i)
			p.Erase(p.Begin().Add(i))

		case op < 8 && s.Len() > 0:
			i := int(rng.Uint64n(uint64(s.Len())))
			s.EraseUnsorted(i)
			p.EraseUnsorted(p.Begin().Add(i))

		case op < 9:
			n := int(rng.Uint64n(uint64(2*s.Len() + 1)))
			s.Resize(n)
			p.Resize(n)
		}

		ks, _ := Column[uint64](&s, 0)
		ss, _ := Column[string](&s, 1)
		fs, _ := Column[float32](&s, 2)
		assert.Equal(t, s.Len(), p.Len())
		assert.That(t, slices.Equal(ks, p.Get0()))
		assert.That(t, slices.Equal(ss, p.Get1()))
		assert.That(t, slices.Equal(fs, p.Get2()))
	}

	for i, r := range s.All() {
		k, str, f := p.Index(i).Get()
		assert.Equal(t, r, testhelp.Row{K: k, S: str, F: f})
	}
}
