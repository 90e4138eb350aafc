package layout

import (
	"reflect"
	"testing"
	"unsafe"

	"github.com/zeebo/assert"
)

func TestPlan(t *testing.T) {
	cols := []Column{Of[int8](), Of[int64](), Of[int32]()}
	l := Plan(cols, 3)

	assert.DeepEqual(t, l.Offsets, []uintptr{0, 8, 32})
	assert.Equal(t, l.Size, uintptr(48))
	assert.Equal(t, l.Align, uintptr(8))
	assert.That(t, !l.Pointers)

	st := l.Struct()
	for i := range cols {
		assert.Equal(t, st.Field(i).Offset, l.Offsets[i])
	}
	assert.Equal(t, st.Size(), l.Size)
}

func TestPlanOrder(t *testing.T) {
	l := Plan([]Column{Of[int32](), Of[int8](), Of[int64]()}, 5)

	assert.DeepEqual(t, l.Offsets, []uintptr{0, 20, 32})
	assert.Equal(t, l.Size, uintptr(72))
}

func TestPlanZeroCapacity(t *testing.T) {
	l := Plan([]Column{Of[int64](), Of[string]()}, 0)

	assert.Equal(t, l.Size, uintptr(0))
	assert.DeepEqual(t, l.Offsets, []uintptr{0, 0})
	assert.That(t, l.Base(nil, 1) == nil)
}

func TestPlanTrailingEmpty(t *testing.T) {
	l := Plan([]Column{Of[int32](), Of[struct{}]()}, 4)

	assert.Equal(t, l.Offsets[1], uintptr(16))
	assert.That(t, l.Offsets[1] < l.Size)
	assert.Equal(t, l.Struct().Size(), l.Size)
}

func TestPlanPointers(t *testing.T) {
	type inner struct {
		a int
		b [2]*int
	}

	assert.That(t, Plan([]Column{Of[int](), Of[string]()}, 1).Pointers)
	assert.That(t, Plan([]Column{Of[inner]()}, 1).Pointers)
	assert.That(t, !Plan([]Column{Of[[0]*int](), Of[[4]float32]()}, 1).Pointers)
}

func TestPlanDisjointAligned(t *testing.T) {
	cols := []Column{Of[byte](), Of[complex128](), Of[uint16](), Of[[3]byte](), Of[float32]()}

	for capacity := 1; capacity < 40; capacity++ {
		l := Plan(cols, capacity)
		for i := range cols {
			assert.Equal(t, l.Offsets[i]%cols[i].Align, uintptr(0))
			assert.That(t, l.Offsets[i]+l.Bytes(i) <= l.Size)
			if i > 0 {
				assert.That(t, l.Offsets[i-1]+l.Bytes(i-1) <= l.Offsets[i])
			}
		}
	}
}

func TestContains(t *testing.T) {
	l := Plan([]Column{Of[uint64]()}, 2)
	var block [3]uint64
	base := unsafe.Pointer(&block)

	assert.That(t, l.Contains(base, base))
	assert.That(t, l.Contains(base, unsafe.Pointer(&block[1])))
	assert.That(t, !l.Contains(base, unsafe.Pointer(&block[2])))
	assert.That(t, !l.Contains(nil, base))
}

func TestRounded(t *testing.T) {
	cols := []Column{Of[int32](), Of[string](), Of[byte]()}
	types := make(map[reflect.Type]bool)

	for n := 1; n <= 2000; n++ {
		l := Plan(cols, n).Rounded()
		assert.Equal(t, l.Cap, n)

		st := l.Struct()
		assert.Equal(t, st.Size(), l.Size)
		for i := range cols {
			assert.Equal(t, st.Field(i).Offset, l.Offsets[i])
			assert.That(t, l.Offsets[i]+l.Bytes(i) <= l.Size)
		}
		types[st] = true
	}

	// one type for each power of two up to 2048
	assert.Equal(t, len(types), 12)
}
