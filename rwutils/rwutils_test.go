package rwutils

import (
	"bytes"
	"errors"
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"
)

func testRoundTrip[T any](
	t *testing.T,
	write func(*W, T),
	read func(*R) T,
	gen func(*mwc.T) T,
) {
	var (
		rng = mwc.Rand()
		out bytes.Buffer
		w   W
		r   R
		vs  []T
	)

	w.Init(&out, nil)
	for i := 0; i < 1000; i++ {
		v := gen(rng)
		write(&w, v)
		vs = append(vs, v)
	}
	assert.NoError(t, w.Done())

	r.Init(out.Bytes())
	for _, v := range vs {
		assert.Equal(t, read(&r), v)
	}
	rest, err := r.Done()
	assert.NoError(t, err)
	assert.Equal(t, len(rest), 0)
}

func TestReadWriter(t *testing.T) {
	t.Run("Varint", func(t *testing.T) {
		testRoundTrip(t, (*W).Varint, (*R).Varint, func(rng *mwc.T) uint64 {
			return rng.Uint64n(1 << rng.Uint64n(64))
		})
	})

	t.Run("Uint64", func(t *testing.T) {
		testRoundTrip(t, (*W).Uint64, (*R).Uint64, (*mwc.T).Uint64)
	})

	t.Run("Uint32", func(t *testing.T) {
		testRoundTrip(t, (*W).Uint32, (*R).Uint32, (*mwc.T).Uint32)
	})

	t.Run("Uint8", func(t *testing.T) {
		testRoundTrip(t, (*W).Uint8, (*R).Uint8, func(rng *mwc.T) uint8 {
			return uint8(rng.Uint32())
		})
	})
}

func TestBytes(t *testing.T) {
	var out bytes.Buffer
	var w W

	big := bytes.Repeat([]byte("x"), 10000)

	w.Init(&out, make([]byte, 0, 128))
	w.Uint8(1)
	w.Bytes([]byte("hello"))
	w.Bytes(big)
	w.Uint32(7)
	assert.NoError(t, w.Done())

	var r R
	r.Init(out.Bytes())
	assert.Equal(t, r.Uint8(), uint8(1))
	assert.Equal(t, string(r.Bytes(5)), "hello")
	assert.That(t, bytes.Equal(r.Bytes(len(big)), big))
	assert.Equal(t, r.Uint32(), uint32(7))
	assert.Equal(t, r.Remaining(), 0)
}

func TestShort(t *testing.T) {
	var r R
	r.Init([]byte{1, 2, 3})

	assert.Equal(t, r.Uint64(), uint64(0))
	assert.Error(t, r.Err())

	// later reads keep the first error and return zero values.
	assert.Equal(t, r.Uint8(), uint8(0))
	_, err := r.Done()
	assert.Error(t, err)
}

func TestInvalid(t *testing.T) {
	first := errors.New("first")

	var r R
	r.Init([]byte{1, 2, 3, 4})
	r.Invalid(first)
	r.Invalid(errors.New("second"))

	assert.Equal(t, r.Uint8(), uint8(0))
	assert.Equal(t, r.Err(), first)
	assert.Equal(t, r.Remaining(), 0)
}
