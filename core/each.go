package core

import "iter"

// Each inserts one task per index, calling fn(i) for i from lo towards hi
// (exclusive) in increments of step. A negative step counts down; a zero step
// inserts nothing.
func (p *Pool) Each(lo, step, hi int, fn func(i int)) {
	switch {
	case step > 0:
		for i := lo; i < hi; i += step {
			p.Insert(func() { fn(i) })
			// Distances are compared unsigned so i+step is never taken past hi.
			if uint(hi-i) <= uint(step) {
				break
			}
		}
	case step < 0:
		for i := lo; i > hi; i += step {
			p.Insert(func() { fn(i) })
			if uint(i-hi) <= uint(-step) {
				break
			}
		}
	}
}

// EachItem inserts one task per element of items.
func EachItem[T any](p *Pool, items []T, fn func(T)) {
	for _, item := range items {
		p.Insert(func() { fn(item) })
	}
}

// EachSeq inserts one task per value yielded by seq.
func EachSeq[T any](p *Pool, seq iter.Seq[T], fn func(T)) {
	for item := range seq {
		p.Insert(func() { fn(item) })
	}
}
