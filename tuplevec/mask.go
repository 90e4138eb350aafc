package tuplevec

import "github.com/RoaringBitmap/roaring/v2"

// EraseMask removes every row whose index is in bm, keeping the order of the
// rest, and returns how many rows were removed. Indexes past the end are
// ignored.
func (v *Impl) EraseMask(bm *roaring.Bitmap) int {
	if bm == nil || bm.IsEmpty() || v.size == 0 {
		return 0
	}

	it := bm.Iterator()
	next := func() int {
		if it.HasNext() {
			return int(it.Next())
		}
		return -1
	}

	w, skip := 0, next()
	for r := range v.size {
		if r == skip {
			skip = next()
			continue
		}
		if w != r {
			for _, c := range v.cols {
				c.moveRow(w, r)
			}
		}
		w++
	}

	removed := v.size - w
	v.truncate(w)
	return removed
}
