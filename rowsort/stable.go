// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the Go LICENSE file.

package rowsort

// Stable orders n rows keeping equal rows in their original order. It only
// swaps, so it needs no scratch space: O(n*log(n)) calls to Less and
// O(n*log(n)*log(n)) calls to Swap.
func Stable(r Rows, n int) {
	blockSize := 20
	a, b := 0, blockSize
	for b <= n {
		insertion(r, a, b)
		a = b
		b += blockSize
	}
	insertion(r, a, n)

	for blockSize < n {
		a, b = 0, 2*blockSize
		for b <= n {
			symMerge(r, a, a+blockSize, b)
			a = b
			b += 2 * blockSize
		}
		if m := a + blockSize; m < n {
			symMerge(r, a, m, n)
		}
		blockSize *= 2
	}
}

// symMerge merges the sorted runs [a, m) and [m, b) with the SymMerge
// algorithm of Kim and Kutzner, "Stable Minimum Storage Merging by Symmetric
// Comparisons".
func symMerge(r Rows, a, m, b int) {
	// a single element on the left can be placed with a binary search and a
	// rotation by swaps.
	if m-a == 1 {
		i, j := m, b
		for i < j {
			h := int(uint(i+j) >> 1)
			if r.Less(h, a) {
				i = h + 1
			} else {
				j = h
			}
		}
		for k := a; k < i-1; k++ {
			r.Swap(k, k+1)
		}
		return
	}

	// same for a single element on the right.
	if b-m == 1 {
		i, j := a, m
		for i < j {
			h := int(uint(i+j) >> 1)
			if !r.Less(m, h) {
				i = h + 1
			} else {
				j = h
			}
		}
		for k := m; k > i; k-- {
			r.Swap(k, k-1)
		}
		return
	}

	mid := int(uint(a+b) >> 1)
	n := mid + m
	var start, stop int
	if m > mid {
		start, stop = n-b, mid
	} else {
		start, stop = a, m
	}
	p := n - 1

	for start < stop {
		c := int(uint(start+stop) >> 1)
		if !r.Less(p-c, c) {
			start = c + 1
		} else {
			stop = c
		}
	}

	end := n - start
	if start < m && m < end {
		rotate(r, start, m, end)
	}
	if a < start && start < mid {
		symMerge(r, a, start, mid)
	}
	if mid < end && end < b {
		symMerge(r, mid, end, b)
	}
}

// swapRange swaps rows [a, a+n) with [b, b+n).
func swapRange(r Rows, a, b, n int) {
	for i := range n {
		r.Swap(a+i, b+i)
	}
}

// rotate exchanges the blocks [a, m) and [m, b).
func rotate(r Rows, a, m, b int) {
	i, j := m-a, b-m
	for i != j {
		if i > j {
			swapRange(r, m-i, m, j)
			i -= j
		} else {
			swapRange(r, m-i, m+j-i, i)
			j -= i
		}
	}
	swapRange(r, m-i, m, i)
}
