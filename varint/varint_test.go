package varint

import (
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"

	"github.com/histdb/tuplevec/buffer"
)

func TestVarint(t *testing.T) {
	t.Run("Boundaries", func(t *testing.T) {
		for i := uint(0); i <= 64; i++ {
			exp := uint64(1)<<i - 1
			enc := Append(nil, exp)
			assert.Equal(t, len(enc), Len(exp))
			assert.That(t, len(enc) <= 9)

			dec, rest, ok := Consume(buffer.OfLen(enc))
			assert.That(t, ok)
			assert.Equal(t, dec, exp)
			assert.Equal(t, rest.Remaining(), uintptr(0))
		}
	})

	t.Run("Lengths", func(t *testing.T) {
		assert.Equal(t, Len(0), 1)
		assert.Equal(t, Len(1<<7-1), 1)
		assert.Equal(t, Len(1<<7), 2)
		assert.Equal(t, Len(1<<56-1), 8)
		assert.Equal(t, Len(1<<56), 9)
	})

	t.Run("Stream", func(t *testing.T) {
		rng := mwc.Rand()

		var enc []byte
		exp := make([]uint64, 1000)
		for i := range exp {
			exp[i] = rng.Uint64() >> rng.Uint64n(64)
			enc = Append(enc, exp[i])
		}

		buf := buffer.OfLen(enc)
		for _, v := range exp {
			dec, next, ok := Consume(buf)
			assert.That(t, ok)
			assert.Equal(t, dec, v)
			buf = next
		}
		_, _, ok := Consume(buf)
		assert.That(t, !ok)
	})

	t.Run("Truncated", func(t *testing.T) {
		enc := Append(nil, 1<<40)
		for n := range len(enc) {
			_, _, ok := Consume(buffer.OfLen(enc[:n]))
			assert.That(t, !ok)
		}
	})
}

func BenchmarkVarint(b *testing.B) {
	rng := mwc.Rand()

	vals := make([]uint64, 1<<16)
	var enc []byte
	for i := range vals {
		vals[i] = uint64(1<<rng.Uint32n(65) - 1)
		enc = Append(enc, vals[i])
	}

	b.Run("Append", func(b *testing.B) {
		buf := make([]byte, 0, 16)
		for i := 0; i < b.N; i++ {
			buf = Append(buf[:0], vals[i%len(vals)])
		}
	})

	b.Run("Consume", func(b *testing.B) {
		buf := buffer.OfLen(enc)
		for i := 0; i < b.N; i++ {
			if buf.Remaining() == 0 {
				buf = buffer.OfLen(enc)
			}
			_, buf, _ = Consume(buf)
		}
	})
}
