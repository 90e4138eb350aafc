package testhelp

import (
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/zeebo/assert"
	"github.com/zeebo/errs/v2"
	"github.com/zeebo/mwc"
)

// Tempfile creates a file that is closed and removed by the returned func.
func Tempfile(tb testing.TB) (*os.File, func()) {
	name := filepath.Join(tb.TempDir(), "snapshot")

	fh, err := os.Create(name)
	assert.NoError(tb, err)
	return fh, func() {
		assert.NoError(tb, errs.Combine(fh.Close(), os.Remove(name)))
	}
}

// Row is the shape most container tests use: a key, a pointer bearing
// string and a small float.
type Row struct {
	K uint64
	S string
	F float32
}

func RandomRow(rng *mwc.T) Row {
	k := rng.Uint64n(1000)
	return Row{
		K: k,
		S: Name(rng, int(k%7)),
		F: float32(rng.Uint32n(1 << 20)),
	}
}

func Name(rng *mwc.T, n int) string {
	v := make([]byte, n)
	for i := range v {
		v[i] = 'a' + byte(rng.Uint32n(26))
	}
	return string(v)
}

// Oracle keeps Rows as three plain slices. Containers under test are checked
// against it after every operation.
type Oracle struct {
	K []uint64
	S []string
	F []float32
}

func (o *Oracle) Len() int { return len(o.K) }

func (o *Oracle) Row(i int) Row { return Row{o.K[i], o.S[i], o.F[i]} }

func (o *Oracle) PushBack(r Row) {
	o.K = append(o.K, r.K)
	o.S = append(o.S, r.S)
	o.F = append(o.F, r.F)
}

func (o *Oracle) Insert(i, n int, r Row) {
	o.K = slices.Insert(o.K, i, repeat(r.K, n)...)
	o.S = slices.Insert(o.S, i, repeat(r.S, n)...)
	o.F = slices.Insert(o.F, i, repeat(r.F, n)...)
}

func (o *Oracle) Erase(first, last int) {
	o.K = slices.Delete(o.K, first, last)
	o.S = slices.Delete(o.S, first, last)
	o.F = slices.Delete(o.F, first, last)
}

func (o *Oracle) EraseUnsorted(i int) {
	last := len(o.K) - 1
	o.K[i], o.S[i], o.F[i] = o.K[last], o.S[last], o.F[last]
	o.Erase(last, last+1)
}

func (o *Oracle) Resize(n int) {
	if n <= len(o.K) {
		o.Erase(n, len(o.K))
		return
	}
	o.Insert(len(o.K), n-len(o.K), Row{})
}

func (o *Oracle) Clear() { o.Erase(0, len(o.K)) }

func repeat[T any](v T, n int) []T {
	out := make([]T, n)
	for i := range out {
		out[i] = v
	}
	return out
}
