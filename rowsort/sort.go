// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the Go LICENSE file.

// Package rowsort orders tables whose rows are spread over several arrays.
// Rows are only ever compared and swapped by index, so a swap can move one
// element in every column.
package rowsort

import "math/bits"

// Rows is a table of rows addressed by index.
type Rows interface {
	Less(i, j int) bool
	Swap(i, j int)
}

const (
	smallRun   = 12 // insertion sort at or below this many rows
	nintherRun = 50 // pick the pivot from nine rows at or above this many
	fixupMoves = 8  // moves allowed when finishing an almost sorted run
)

// Sort orders n rows with a pattern defeating quicksort. It is not stable.
func Sort(r Rows, n int) {
	s := sorter{r: r, seed: uint64(n) | 1}
	s.sort(0, n, bits.Len(uint(n)))
}

type sorter struct {
	r    Rows
	seed uint64
}

// sort orders [a, b). budget is the number of unbalanced partitions left
// before falling back to heap sort. Every row before a is known to be no
// greater than the rows in [a, b).
func (s *sorter) sort(a, b, budget int) {
	balanced, partitioned := true, true

	for b-a > smallRun {
		if budget == 0 {
			s.heap(a, b)
			return
		}
		if !balanced {
			s.shuffle(a, b)
			budget--
		}

		p, ordered := s.pivot(a, b)
		if ordered && balanced && partitioned {
			if s.fixup(a, b) {
				return
			}
			p, _ = s.pivot(a, b)
		}

		s.r.Swap(a, p)

		// a pivot equal to the row before the range is the smallest value in
		// it, so the run of equal rows can be skipped in one pass.
		if a > 0 && !s.r.Less(a-1, a) {
			a = s.partitionEqual(a, b)
			continue
		}

		mid, clean := s.partition(a, b)
		partitioned = clean

		left, right := mid-a, b-mid-1
		balanced = min(left, right) >= (b-a)/8

		if left < right {
			s.sort(a, mid, budget)
			a = mid + 1
		} else {
			s.sort(mid+1, b, budget)
			b = mid
		}
	}

	insertion(s.r, a, b)
}

// pivot picks a pivot row for [a, b) and reports if the sampled rows were
// already in order.
func (s *sorter) pivot(a, b int) (int, bool) {
	n := b - a
	q := n / 4
	x, y, z := a+q, a+2*q, a+3*q

	swaps := 0
	if n >= nintherRun {
		x = s.median(x-1, x, x+1, &swaps)
		y = s.median(y-1, y, y+1, &swaps)
		z = s.median(z-1, z, z+1, &swaps)
	}
	return s.median(x, y, z, &swaps), swaps == 0
}

// median returns the index of the middle row of i, j and k.
func (s *sorter) median(i, j, k int, swaps *int) int {
	if s.r.Less(j, i) {
		i, j = j, i
		*swaps++
	}
	if s.r.Less(k, j) {
		j = k
		*swaps++
		if s.r.Less(j, i) {
			j = i
		}
	}
	return j
}

// partition splits [a, b) around the pivot at a and returns its final index.
// clean reports that no rows had to move.
func (s *sorter) partition(a, b int) (mid int, clean bool) {
	i, j := a+1, b-1
	scan := func() {
		for i <= j && s.r.Less(i, a) {
			i++
		}
		for i <= j && !s.r.Less(j, a) {
			j--
		}
	}

	clean = true
	for scan(); i < j; scan() {
		s.r.Swap(i, j)
		clean = false
		i++
		j--
	}

	s.r.Swap(j, a)
	return j, clean
}

// partitionEqual moves the rows equal to the pivot at a to the front of
// [a, b) and returns the end of that run. No row in [a, b) is less than the
// pivot.
func (s *sorter) partitionEqual(a, b int) int {
	i, j := a+1, b-1
	for {
		for i <= j && !s.r.Less(a, i) {
			i++
		}
		for i <= j && s.r.Less(a, j) {
			j--
		}
		if i > j {
			return i
		}
		s.r.Swap(i, j)
		i++
		j--
	}
}

// fixup insertion sorts [a, b) if it takes no more than a few moves and
// reports if it did.
func (s *sorter) fixup(a, b int) bool {
	moves := 0
	for i := a + 1; i < b; i++ {
		if !s.r.Less(i, i-1) {
			continue
		}
		if moves++; moves > fixupMoves {
			return false
		}
		for j := i; j > a && s.r.Less(j, j-1); j-- {
			s.r.Swap(j, j-1)
		}
	}
	return true
}

// shuffle swaps a few rows around the middle of [a, b) with pseudo random
// rows to break up inputs that keep producing bad pivots.
func (s *sorter) shuffle(a, b int) {
	n := b - a
	mask := uint64(1)<<bits.Len(uint(n)) - 1
	mid := a + n/2

	for k := -1; k <= 1; k++ {
		s.seed ^= s.seed << 13
		s.seed ^= s.seed >> 17
		s.seed ^= s.seed << 5

		o := int(s.seed & mask)
		if o >= n {
			o -= n
		}
		s.r.Swap(mid+k, a+o)
	}
}

func (s *sorter) heap(a, b int) {
	n := b - a
	for i := n/2 - 1; i >= 0; i-- {
		s.sift(a, i, n)
	}
	for end := n - 1; end > 0; end-- {
		s.r.Swap(a, a+end)
		s.sift(a, 0, end)
	}
}

// sift restores the heap below root for the heap of n rows starting at a.
func (s *sorter) sift(a, root, n int) {
	for {
		c := 2*root + 1
		if c >= n {
			return
		}
		if c+1 < n && s.r.Less(a+c, a+c+1) {
			c++
		}
		if !s.r.Less(a+root, a+c) {
			return
		}
		s.r.Swap(a+root, a+c)
		root = c
	}
}

func insertion(r Rows, a, b int) {
	for i := a + 1; i < b; i++ {
		for j := i; j > a && r.Less(j, j-1); j-- {
			r.Swap(j, j-1)
		}
	}
}
