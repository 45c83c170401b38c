package interpolate

import (
	"fmt"
)

// Linear is a linear interpolator.
type Linear struct {
	xs   searcher
	vals []float64
}

// NewLinear creates a linear interpolator for a sequence of at least two
// strictly increasing or strictly decreasing points, xs, which take on the
// values given by vals.
//
// Lookups will occur in O(log |xs|).
func NewLinear(xs, vals []float64) (*Linear, error) {
	if len(xs) != len(vals) {
		return nil, fmt.Errorf("The sequence has %d points, but %d values.",
			len(xs), len(vals))
	} else if len(xs) < 2 {
		return nil, fmt.Errorf("Linear interpolation needs at least two "+
			"points, but got %d.", len(xs))
	}
	lin := &Linear{vals: vals}
	if err := lin.xs.init(xs); err != nil {
		return nil, err
	}
	return lin, nil
}

// Eval returns the interpolated value at x.
//
// Eval panics if called on a values outside the supplied range on inputs.
func (lin *Linear) Eval(x float64) float64 {
	if !lin.xs.inRange(x) {
		panic(fmt.Sprintf(
			"Value %g out of range bounds [%g, %g]", x, lin.xs.lo, lin.xs.hi,
		))
	}

	i1 := lin.xs.search(x)
	i2 := i1 + 1
	x1, x2 := lin.xs.val(i1), lin.xs.val(i2)
	v1, v2 := lin.vals[i1], lin.vals[i2]

	return ((v2-v1)/(x2-x1))*(x-x1) + v1
}

// EvalAll evaluates the interpolator at all the given x values. If an output
// array is given, the output is written to that array (the array is still
// returned as a convenience).
//
// If more than one output array is provided, only the first is used.
func (lin *Linear) EvalAll(xs []float64, out ...[]float64) []float64 {
	return evalAll(lin, xs, out)
}
