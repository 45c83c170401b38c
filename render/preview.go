package render

import (
	"fmt"
	"image/color"
	"math"

	"github.com/fogleman/gg"
	"gonum.org/v1/gonum/floats"

	"github.com/phil-mansfield/lenscone/lightcone"
	"github.com/phil-mansfield/lenscone/math/interpolate"
)

// Colormap maps values in [0, 1] to colors by interpolating linearly
// between evenly spaced anchor colors.
type Colormap struct {
	r, g, b *interpolate.Linear
}

// NewColormap creates a Colormap from at least two anchors.
func NewColormap(anchors []color.RGBA) (*Colormap, error) {
	if len(anchors) < 2 {
		return nil, fmt.Errorf("A colormap needs at least two anchor "+
			"colors, but got %d.", len(anchors))
	}
	ts := make([]float64, len(anchors))
	rs := make([]float64, len(anchors))
	gs := make([]float64, len(anchors))
	bs := make([]float64, len(anchors))
	for i, c := range anchors {
		ts[i] = float64(i) / float64(len(anchors)-1)
		rs[i], gs[i], bs[i] = float64(c.R), float64(c.G), float64(c.B)
	}

	cmap := &Colormap{}
	var err error
	if cmap.r, err = interpolate.NewLinear(ts, rs); err != nil {
		return nil, err
	}
	if cmap.g, err = interpolate.NewLinear(ts, gs); err != nil {
		return nil, err
	}
	if cmap.b, err = interpolate.NewLinear(ts, bs); err != nil {
		return nil, err
	}
	return cmap, nil
}

// At returns the color at t. Values outside [0, 1] are clamped.
func (c *Colormap) At(t float64) color.RGBA {
	if t < 0 || math.IsNaN(t) {
		t = 0
	} else if t > 1 {
		t = 1
	}
	return color.RGBA{
		R: uint8(math.Round(c.r.Eval(t))),
		G: uint8(math.Round(c.g.Eval(t))),
		B: uint8(math.Round(c.b.Eval(t))),
		A: 255,
	}
}

var viridisAnchors = []color.RGBA{
	{68, 1, 84, 255},
	{72, 35, 116, 255},
	{64, 67, 135, 255},
	{52, 94, 141, 255},
	{41, 120, 142, 255},
	{32, 144, 140, 255},
	{34, 167, 132, 255},
	{68, 190, 112, 255},
	{121, 209, 81, 255},
	{189, 222, 38, 255},
	{253, 231, 37, 255},
}

// Viridis is matplotlib's viridis colormap.
var Viridis = mustColormap(viridisAnchors)

func mustColormap(anchors []color.RGBA) *Colormap {
	cmap, err := NewColormap(anchors)
	if err != nil {
		panic(err.Error())
	}
	return cmap
}

// RenderPreview draws a map with each cell covering scale x scale pixels.
// Cells are colored by the logarithm of their value, scaled between the
// smallest and largest positive cells. Empty cells get the bottom color.
// The y axis points up.
func RenderPreview(g *lightcone.Grid, cmap *Colormap, scale int) *gg.Context {
	if scale < 1 {
		scale = 1
	}
	dc := gg.NewContext(g.N*scale, g.N*scale)
	dc.SetColor(cmap.At(0))
	dc.Clear()

	logs := make([]float64, 0, len(g.Data))
	for _, x := range g.Data {
		if x > 0 {
			logs = append(logs, math.Log10(x))
		}
	}
	if len(logs) == 0 {
		return dc
	}
	lo, hi := floats.Min(logs), floats.Max(logs)
	width := hi - lo
	if width == 0 {
		width = 1
	}

	s := float64(scale)
	for iy := 0; iy < g.N; iy++ {
		for ix := 0; ix < g.N; ix++ {
			x := g.At(ix, iy)
			if x <= 0 {
				continue
			}
			dc.SetColor(cmap.At((math.Log10(x) - lo) / width))
			dc.DrawRectangle(float64(ix)*s, float64(g.N-1-iy)*s, s, s)
			dc.Fill()
		}
	}
	return dc
}

// PreviewSink writes a PNG preview of the summed map of each plane.
type PreviewSink struct {
	Names    *Namer
	Colormap *Colormap
	Scale    int
}

// WriteMaps writes the preview of one plane.
func (s *PreviewSink) WriteMaps(m *lightcone.PlaneMaps) error {
	cmap := s.Colormap
	if cmap == nil {
		cmap = Viridis
	}
	dc := RenderPreview(m.Total, cmap, s.Scale)
	fname := s.Names.Preview(m.Plane.Index)
	if err := dc.SavePNG(fname); err != nil {
		return fmt.Errorf("Could not write the preview %s: %w", fname, err)
	}
	return nil
}
