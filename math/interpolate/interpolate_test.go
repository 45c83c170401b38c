package interpolate

import (
	"math"
	"testing"
)

func TestSearch(t *testing.T) {
	incr := []float64{0, 1, 2, 3, 4}
	decr := []float64{4, 3, 2, 1, 0}
	tests := []struct {
		xs []float64
		x  float64
		i  int
	}{
		{incr, 0, 0},
		{incr, 0.5, 0},
		{incr, 1, 1},
		{incr, 3.5, 3},
		{incr, 4, 3},
		{decr, 4, 0},
		{decr, 3.5, 0},
		{decr, 3, 1},
		{decr, 0.5, 3},
		{decr, 0, 3},
	}

	for i := range tests {
		s := &searcher{}
		if err := s.init(tests[i].xs); err != nil {
			t.Fatalf("%d) unexpected error: %s", i, err.Error())
		}
		if idx := s.search(tests[i].x); idx != tests[i].i {
			t.Errorf("%d) search(%g) in %v = %d, expected %d.",
				i, tests[i].x, tests[i].xs, idx, tests[i].i)
		}
	}
}

func TestSearcherInit(t *testing.T) {
	tests := []struct {
		xs []float64
		ok bool
	}{
		{[]float64{}, false},
		{[]float64{1}, true},
		{[]float64{1, 2, 2, 3}, false},
		{[]float64{1, 3, 2}, false},
		{[]float64{3, 2, 1}, true},
		{[]float64{1, math.NaN()}, false},
		{[]float64{1, math.Inf(1)}, false},
	}

	for i := range tests {
		s := &searcher{}
		if err := s.init(tests[i].xs); (err == nil) != tests[i].ok {
			t.Errorf("%d) init(%v) gave error %v.", i, tests[i].xs, err)
		}
	}
}

func TestLinear(t *testing.T) {
	lin, err := NewLinear([]float64{0, 1, 3}, []float64{0, 2, 0})
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	xs := []float64{0, 0.25, 1, 2, 3}
	exp := []float64{0, 0.5, 2, 1, 0}
	out := lin.EvalAll(xs)
	for i := range xs {
		if math.Abs(out[i]-exp[i]) > 1e-12 {
			t.Errorf("%d) Eval(%g) = %g, expected %g.", i, xs[i], out[i], exp[i])
		}
	}

	if _, err := NewLinear([]float64{1}, []float64{1}); err == nil {
		t.Errorf("Expected an error for a one-point Linear.")
	}
	if _, err := NewLinear([]float64{1, 2}, []float64{1}); err == nil {
		t.Errorf("Expected an error for mismatched lengths.")
	}
}

func TestClampedExactAndClamp(t *testing.T) {
	xs := []float64{0, 0.5, 1, 1.5, 2, 2.5, 3}
	ys := []float64{0, 1.3, 2.9, 4.1, 5.2, 5.9, 7.7}
	c, err := NewClamped(xs, ys)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}

	for i := range xs {
		if y := c.Eval(xs[i]); y != ys[i] {
			t.Errorf("%d) Eval(%g) = %g, expected exactly %g.", i, xs[i], y, ys[i])
		}
	}
	if y := c.Eval(-10); y != ys[0] {
		t.Errorf("Eval below the domain = %g, expected %g.", y, ys[0])
	}
	if y := c.Eval(10); y != ys[len(ys)-1] {
		t.Errorf("Eval above the domain = %g, expected %g.", y, ys[len(ys)-1])
	}
	if lo, hi := c.Domain(); lo != 0 || hi != 3 {
		t.Errorf("Domain() = (%g, %g).", lo, hi)
	}

	// Decreasing tables clamp in the same way.
	rx := []float64{3, 2, 1, 0}
	ry := []float64{30, 20, 10, 0}
	r, err := NewClamped(rx, ry)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if y := r.Eval(5); y != 30 {
		t.Errorf("Decreasing Eval(5) = %g, expected 30.", y)
	}
	if y := r.Eval(-1); y != 0 {
		t.Errorf("Decreasing Eval(-1) = %g, expected 0.", y)
	}
	if y := r.Eval(2.5); math.Abs(y-25) > 1e-12 {
		t.Errorf("Decreasing Eval(2.5) = %g, expected 25.", y)
	}
}

func TestClampedSinglePoint(t *testing.T) {
	c, err := NewClamped([]float64{2}, []float64{7})
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	for _, x := range []float64{-1, 2, 5} {
		if y := c.Eval(x); y != 7 {
			t.Errorf("Eval(%g) = %g, expected 7.", x, y)
		}
	}
}

func TestClampedCubic(t *testing.T) {
	xs := []float64{0, 1, 2, 3, 4, 5}
	ys := []float64{0, 1, 4, 9, 16, 25}
	c, err := NewClamped(xs, ys)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}

	tests := []struct {
		x, y float64
	}{
		// Linear near the edges.
		{0.5, 0.5},
		{1.5, 2.5},
		{4.5, 20.5},
		// i = 2: a0 = 10, a1 = -13, a2 = 8, a3 = 4.
		{2.5, 10*0.125 - 13*0.25 + 8*0.5 + 4},
		// i = 3: a0 = 14, a1 = -19, a2 = 12, a3 = 9.
		{3.5, 14*0.125 - 19*0.25 + 12*0.5 + 9},
	}

	for i := range tests {
		if y := c.Eval(tests[i].x); math.Abs(y-tests[i].y) > 1e-12 {
			t.Errorf("%d) Eval(%g) = %g, expected %g.",
				i, tests[i].x, y, tests[i].y)
		}
	}
}

func TestClampedErrors(t *testing.T) {
	tests := []struct {
		xs, ys []float64
	}{
		{[]float64{}, []float64{}},
		{[]float64{1, 2}, []float64{1}},
		{[]float64{1, 1}, []float64{1, 2}},
		{[]float64{1, 3, 2}, []float64{1, 2, 3}},
	}
	for i := range tests {
		if _, err := NewClamped(tests[i].xs, tests[i].ys); err == nil {
			t.Errorf("%d) Expected NewClamped to fail.", i)
		}
	}
}

func BenchmarkClamped(b *testing.B) {
	n := 4000
	xs, ys := make([]float64, n), make([]float64, n)
	for i := range xs {
		xs[i] = float64(i) * 1e-3
		ys[i] = math.Sqrt(xs[i])
	}
	c, _ := NewClamped(xs, ys)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		c.Eval(float64(i%n) * 1e-3 * 0.999)
	}
}
