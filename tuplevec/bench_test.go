package tuplevec

import (
	"runtime"
	"testing"

	"github.com/aclements/go-perfevent/perfbench"
	"github.com/zeebo/mwc"
)

func BenchmarkPushBack(b *testing.B) {
	b.Run("Packed", func(b *testing.B) {
		v := New3[uint64, float32, uint8]()

		perfbench.Open(b)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if v.Len() == 1<<16 {
				v.Clear()
			}
			v.PushBack(uint64(i), float32(i), uint8(i))
		}
	})

	b.Run("Slices", func(b *testing.B) {
		var (
			k []uint64
			f []float32
			u []uint8
		)

		perfbench.Open(b)
		b.ReportAllocs()
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			if len(k) == 1<<16 {
				k, f, u = k[:0], f[:0], u[:0]
			}
			k = append(k, uint64(i))
			f = append(f, float32(i))
			u = append(u, uint8(i))
		}
	})
}

func BenchmarkIterate(b *testing.B) {
	v := New3[uint64, float32, uint8]()
	for i := range 1 << 12 {
		v.PushBack(uint64(i), float32(i), uint8(i))
	}

	b.Run("Iter", func(b *testing.B) {
		var sum uint64

		perfbench.Open(b)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for it, end := v.Begin(), v.End(); !it.Equal(end); it = it.Next() {
				sum += *it.Deref().P0
			}
		}
		runtime.KeepAlive(sum)
	})

	b.Run("Column", func(b *testing.B) {
		var sum uint64

		perfbench.Open(b)
		b.ResetTimer()

		for i := 0; i < b.N; i++ {
			for _, k := range v.Get0() {
				sum += k
			}
		}
		runtime.KeepAlive(sum)
	})
}

func BenchmarkInsertErase(b *testing.B) {
	rng := mwc.Rand()
	v := New2[uint64, string]()
	for i := range 1024 {
		v.PushBack(uint64(i), "")
	}

	perfbench.Open(b)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		pos := v.Begin().Add(int(rng.Uint64n(uint64(v.Len()))))
		v.Insert(pos, uint64(i), "x")
		v.Erase(v.Begin().Add(int(rng.Uint64n(uint64(v.Len())))))
	}
}
