package lightcone

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Grid is an N x N map over the unit square stored in row-major order:
// cell (ix, iy) is Data[iy*N + ix].
type Grid struct {
	N    int
	Data []float64
}

// NewGrid returns an empty n x n grid.
func NewGrid(n int) *Grid {
	return &Grid{n, make([]float64, n*n)}
}

// At returns the value of cell (ix, iy).
func (g *Grid) At(ix, iy int) float64 { return g.Data[iy*g.N+ix] }

// Sum returns the total of every cell.
func (g *Grid) Sum() float64 { return floats.Sum(g.Data) }

// Add adds the cells of h to g. The grids must be the same size.
func (g *Grid) Add(h *Grid) {
	floats.Add(g.Data, h.Data)
}

// kernel is the one-dimensional weight of a cell whose center is delta
// away from a particle, for cells of width dl.
func kernel(delta, dl float64) float64 {
	q := math.Abs(delta) / dl
	switch {
	case q <= 0.5:
		return 0.75 - q*q
	case q <= 1.5:
		return 0.5 * (1.5 - q) * (1.5 - q)
	}
	return 0
}

// Deposit spreads a unit weight at (x, y) in the unit square over the
// 3 x 3 block of cells around it. Weight falling on cells outside the grid
// is lost.
func (g *Grid) Deposit(x, y float64) {
	n := g.N
	dl := 1 / float64(n)
	gx, gy := int(math.Floor(x*float64(n))), int(math.Floor(y*float64(n)))

	var wx, wy [3]float64
	for k := -1; k <= 1; k++ {
		wx[k+1] = kernel(x-(float64(gx+k)+0.5)*dl, dl)
		wy[k+1] = kernel(y-(float64(gy+k)+0.5)*dl, dl)
	}

	for j := -1; j <= 1; j++ {
		iy := gy + j
		if iy < 0 || iy >= n {
			continue
		}
		for i := -1; i <= 1; i++ {
			ix := gx + i
			if ix < 0 || ix >= n {
				continue
			}
			g.Data[iy*n+ix] += wx[i+1] * wy[j+1]
		}
	}
}

// Normalize rescales the grid so that its total is count * mass. Grids
// with no particles are left alone.
func (g *Grid) Normalize(count int64, mass float64) {
	if count == 0 {
		return
	}
	sum := g.Sum()
	if sum == 0 {
		return
	}
	floats.Scale(float64(count)*mass/sum, g.Data)
}

// Rasterize deposits every point onto an n x n grid and rescales it so
// that the total is len(points) * mass.
func Rasterize(points [][2]float64, n int, mass float64) *Grid {
	g := NewGrid(n)
	for _, p := range points {
		g.Deposit(p[0], p[1])
	}
	g.Normalize(int64(len(points)), mass)
	return g
}
