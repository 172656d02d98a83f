package index

import (
	"fmt"
	"iter"
)

// Index is a position along each axis of a tensor-product grid. The same
// type names elements, quadrature points and degrees of freedom.
type Index struct {
	X, Y int
}

// Sub returns the component-wise difference i - j
func (i Index) Sub(j Index) Index {
	return Index{X: i.X - j.X, Y: i.Y - j.Y}
}

// Add returns the component-wise sum i + j
func (i Index) Add(j Index) Index {
	return Index{X: i.X + j.X, Y: i.Y + j.Y}
}

// String formats i as (X,Y)
func (i Index) String() string {
	return fmt.Sprintf("(%d,%d)", i.X, i.Y)
}

// Range is the half-open integer interval [Begin, End)
type Range struct {
	Begin, End int
}

// NewRange creates [begin, end); end < begin panics
func NewRange(begin, end int) Range {
	if end < begin {
		panic(fmt.Sprintf("invalid range [%d,%d)", begin, end))
	}
	return Range{Begin: begin, End: end}
}

// Len returns the number of integers in r
func (r Range) Len() int { return r.End - r.Begin }

// Contains reports whether Begin <= i < End
func (r Range) Contains(i int) bool { return i >= r.Begin && i < r.End }

// All yields Begin, Begin+1, ..., End-1
func (r Range) All() iter.Seq[int] {
	return func(yield func(int) bool) {
		for i := r.Begin; i < r.End; i++ {
			if !yield(i) {
				return
			}
		}
	}
}

// Product yields every pair (a, b) with a from as and b from bs in
// lexicographic order: as is the outer loop, bs the inner one. bs is ranged
// over once per element of as, so it must be restartable.
func Product(as, bs iter.Seq[int]) iter.Seq[Index] {
	return func(yield func(Index) bool) {
		for a := range as {
			for b := range bs {
				if !yield(Index{X: a, Y: b}) {
					return
				}
			}
		}
	}
}

// ProductRange is Product over two integer ranges
func ProductRange(rx, ry Range) iter.Seq[Index] {
	return Product(rx.All(), ry.All())
}

// Count drains seq and returns the number of values it produced
func Count[T any](seq iter.Seq[T]) (n int) {
	for range seq {
		n++
	}
	return
}
