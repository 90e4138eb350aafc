package tuplevec

import "github.com/histdb/tuplevec/rowsort"

// rowOrder sorts an Impl in place: every swap moves the row in each column.
type rowOrder struct {
	*Impl
	less func(i, j int) bool
}

func (o rowOrder) Less(i, j int) bool { return o.less(i, j) }
func (o rowOrder) Swap(i, j int)      { o.swapRows(i, j) }

// sortRows permutes every column by the row order less describes.
func (v *Impl) sortRows(less func(i, j int) bool, stable bool) {
	o := rowOrder{Impl: v, less: less}
	if stable {
		rowsort.Stable(o, v.size)
	} else {
		rowsort.Sort(o, v.size)
	}
}
