/*package interpolate implements 1D interpolators over tabulated, strictly
monotone sequences.
*/
package interpolate

// Interpolator is a 1D interpolator. Interpolators hold no mutable state
// after construction and may be shared between goroutines.
type Interpolator interface {
	// Eval evaluates the interpolator at x.
	Eval(x float64) float64
	// EvalAll evaluates a sequeunce of values and returns the result. An
	// optional output array can be supplied to prevent unneeded heap
	// allocations.
	EvalAll(xs []float64, out ...[]float64) []float64
}

var (
	_ Interpolator = &Linear{}
	_ Interpolator = &Clamped{}
)

func evalAll(f Interpolator, xs []float64, out [][]float64) []float64 {
	if len(out) == 0 {
		out = [][]float64{make([]float64, len(xs))}
	}
	for i, x := range xs {
		out[0][i] = f.Eval(x)
	}
	return out[0]
}
