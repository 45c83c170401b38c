package interpolate

import (
	"fmt"
	"math"
)

// searcher locates the bracketing interval of a point within a strictly
// increasing or strictly decreasing sequence.
type searcher struct {
	xs     []float64
	lo, hi float64
	n      int
	incr   bool
}

func (s *searcher) init(xs []float64) error {
	if len(xs) == 0 {
		return fmt.Errorf("Cannot interpolate over an empty sequence.")
	}
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsInf(xs[i], 0) {
			return fmt.Errorf("Element %d of the sequence, %g, is not "+
				"finite.", i, xs[i])
		}
	}

	s.xs = xs
	s.n = len(xs)
	s.incr = xs[s.n-1] >= xs[0]
	for i := 1; i < s.n; i++ {
		if (xs[i] > xs[i-1]) != s.incr || xs[i] == xs[i-1] {
			return fmt.Errorf("The sequence is not strictly monotone: "+
				"elements %d and %d are %g and %g.", i-1, i, xs[i-1], xs[i])
		}
	}

	s.lo, s.hi = math.Min(xs[0], xs[s.n-1]), math.Max(xs[0], xs[s.n-1])
	return nil
}

// inRange returns true if x lies on the tabulated domain.
func (s *searcher) inRange(x float64) bool {
	return x >= s.lo && x <= s.hi
}

// search returns the index i of the interval [xs[i], xs[i+1]] containing x.
// An exact match of the first point returns 0 and an exact match of the
// last point returns n-2, so i+1 is always a valid index when n >= 2. The
// result is only meaningful when inRange(x).
func (s *searcher) search(x float64) int {
	if x == s.xs[0] {
		return 0
	} else if x == s.xs[s.n-1] {
		return s.n - 2
	}

	lo, hi := -1, s.n
	for hi-lo > 1 {
		mid := (lo + hi) / 2
		if s.incr == (x >= s.xs[mid]) {
			lo = mid
		} else {
			hi = mid
		}
	}

	if lo < 0 {
		return 0
	} else if lo > s.n-2 {
		return s.n - 2
	}
	return lo
}

func (s *searcher) val(i int) float64 {
	return s.xs[i]
}
