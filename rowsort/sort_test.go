package rowsort

import (
	"slices"
	"testing"

	"github.com/aclements/go-perfevent/perfbench"
	"github.com/zeebo/assert"
	"github.com/zeebo/mwc"
)

// table is two parallel columns sorted by key.
type table struct {
	key []int
	pos []int
}

func newTable(keys []int) *table {
	t := &table{key: keys, pos: make([]int, len(keys))}
	for i := range t.pos {
		t.pos[i] = i
	}
	return t
}

func (t *table) Less(i, j int) bool { return t.key[i] < t.key[j] }

func (t *table) Swap(i, j int) {
	t.key[i], t.key[j] = t.key[j], t.key[i]
	t.pos[i], t.pos[j] = t.pos[j], t.pos[i]
}

// check asserts the rows are sorted and that every row kept its columns
// together.
func (t *table) check(tb testing.TB, orig []int) {
	tb.Helper()

	assert.That(tb, slices.IsSorted(t.key))
	for i, p := range t.pos {
		assert.Equal(tb, t.key[i], orig[p])
	}
}

func randomInts(rng *mwc.T, n int, limit uint64) []int {
	x := make([]int, n)
	for i := range x {
		x[i] = int(rng.Uint64n(limit))
	}
	return x
}

func TestSort(t *testing.T) {
	rng := mwc.Rand()

	for _, n := range []int{0, 1, 2, 11, 12, 13, 50, 51, 1000, 10000} {
		for _, limit := range []uint64{2, 100, 1 << 40} {
			keys := randomInts(rng, n, limit)
			orig := slices.Clone(keys)

			tab := newTable(keys)
			Sort(tab, n)
			tab.check(t, orig)
		}
	}
}

func TestSortPatterns(t *testing.T) {
	const n = 2000

	for name, gen := range map[string]func(i int) int{
		"ascending":  func(i int) int { return i },
		"descending": func(i int) int { return n - i },
		"constant":   func(i int) int { return 7 },
		"sawtooth":   func(i int) int { return i % 17 },
		"organpipe": func(i int) int {
			if i < n/2 {
				return i
			}
			return n - i
		},
		"almost": func(i int) int {
			if i%300 == 0 {
				return n - i
			}
			return i
		},
	} {
		t.Run(name, func(t *testing.T) {
			keys := make([]int, n)
			for i := range keys {
				keys[i] = gen(i)
			}
			orig := slices.Clone(keys)

			tab := newTable(keys)
			Sort(tab, n)
			tab.check(t, orig)
		})
	}
}

func TestStable(t *testing.T) {
	rng := mwc.Rand()

	for _, n := range []int{0, 1, 19, 20, 21, 40, 41, 1000, 5000} {
		keys := randomInts(rng, n, 10)
		orig := slices.Clone(keys)

		tab := newTable(keys)
		Stable(tab, n)
		tab.check(t, orig)

		for i := 1; i < n; i++ {
			if tab.key[i] == tab.key[i-1] {
				assert.That(t, tab.pos[i-1] < tab.pos[i])
			}
		}
	}
}

func BenchmarkSort(b *testing.B) {
	rng := mwc.Rand()
	src := randomInts(rng, 1<<12, 1<<32)
	tab := newTable(make([]int, len(src)))

	perfbench.Open(b)
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		copy(tab.key, src)
		Sort(tab, len(src))
	}
}
