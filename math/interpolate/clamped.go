package interpolate

import (
	"fmt"
)

// Clamped is a 4-point cubic interpolator which never extrapolates: queries
// outside the tabulated domain return the value at the nearer endpoint.
// Intervals within one index of either end of the table are interpolated
// linearly, since the cubic needs a point on each side.
//
// For an interior interval i with fractional position f, the interpolant is
// a0 f^3 + a1 f^2 + a2 f + a3 where
//
//	a0 = y[i+2] - y[i+1] - y[i-1] + y[i]
//	a1 = y[i-1] - y[i] - a0
//	a2 = y[i+1] - y[i-1]
//	a3 = y[i]
type Clamped struct {
	xs   searcher
	vals []float64
}

// NewClamped creates a clamped interpolator over at least one strictly
// monotone point.
func NewClamped(xs, vals []float64) (*Clamped, error) {
	if len(xs) != len(vals) {
		return nil, fmt.Errorf("The sequence has %d points, but %d values.",
			len(xs), len(vals))
	}
	c := &Clamped{vals: vals}
	if err := c.xs.init(xs); err != nil {
		return nil, err
	}
	return c, nil
}

// Eval returns the interpolated value at x. Exact matches of a tabulated
// point return its value exactly.
func (c *Clamped) Eval(x float64) float64 {
	n, y := c.xs.n, c.vals
	if n == 1 {
		return y[0]
	}

	x0, xn := c.xs.xs[0], c.xs.xs[n-1]
	if c.xs.incr {
		if x > xn {
			return y[n-1]
		} else if x < x0 {
			return y[0]
		}
	} else {
		if x < xn {
			return y[n-1]
		} else if x > x0 {
			return y[0]
		}
	}

	i := c.xs.search(x)
	f := (x - c.xs.val(i)) / (c.xs.val(i+1) - c.xs.val(i))
	if i > 1 && i < n-2 {
		f2 := f * f
		a0 := y[i+2] - y[i+1] - y[i-1] + y[i]
		a1 := y[i-1] - y[i] - a0
		a2 := y[i+1] - y[i-1]
		a3 := y[i]
		return a0*f*f2 + a1*f2 + a2*f + a3
	}
	return f*y[i+1] + (1-f)*y[i]
}

// EvalAll evaluates the interpolator at all the given x values. If an output
// array is given, the output is written to that array.
func (c *Clamped) EvalAll(xs []float64, out ...[]float64) []float64 {
	return evalAll(c, xs, out)
}

// Domain returns the smallest and largest tabulated points.
func (c *Clamped) Domain() (lo, hi float64) {
	return c.xs.lo, c.xs.hi
}
