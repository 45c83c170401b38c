package lightcone

import (
	"fmt"
	"math"
)

// Projection is the position of an object on the sky. RA and Dec are in
// radians and Dist is the comoving distance in Mpc/h.
type Projection struct {
	RA, Dec, Dist float64
}

// Projector selects cone-frame positions inside the field of view of a
// plane and maps them onto the unit square of the plane's pixel grid. The
// observer sits at (0.5, 0.5, 0) and looks along the depth axis.
type Projector struct {
	BoxSize     float64 // Mpc/h
	FieldOfView float64 // radians
}

// NewProjector creates a Projector for a square field of view given in
// degrees. It is an error for the field of view to be wider than a
// single box at the source distance ds.
func NewProjector(boxSize, fovDeg, ds float64) (*Projector, error) {
	fov := fovDeg * math.Pi / 180
	if err := CheckFieldOfView(boxSize, fov, ds); err != nil {
		return nil, err
	}
	return &Projector{boxSize, fov}, nil
}

// CheckFieldOfView checks that a field of view of fov radians fits inside
// one box of size boxSize at distance ds.
func CheckFieldOfView(boxSize, fov, ds float64) error {
	if fov <= 0 {
		return configErrorf("The field of view is %g degrees, but it "+
			"must be positive.", fov*180/math.Pi)
	}
	if fov*ds > boxSize {
		return consistencyErrorf("A field of view of %g degrees is %g "+
			"Mpc/h across at the source distance %g Mpc/h, which is "+
			"larger than the box size %g Mpc/h. The field of view can be "+
			"at most %g degrees.", fov*180/math.Pi, fov*ds, ds, boxSize,
			boxSize/ds*180/math.Pi)
	}
	return nil
}

// Project returns the sky position of a cone-frame position.
func (p *Projector) Project(c [3]float64) Projection {
	x, y, z := c[0]-0.5, c[1]-0.5, c[2]
	r := math.Sqrt(x*x + y*y + z*z)
	proj := Projection{Dist: r * p.BoxSize}
	if r > 0 {
		proj.Dec = math.Asin(x / r)
	}
	proj.RA = math.Atan2(y, z)
	return proj
}

// Select returns the sky position of c and whether it lies inside the
// plane and the field of view.
func (p *Projector) Select(c [3]float64, plane *Plane) (Projection, bool) {
	proj := p.Project(c)
	if proj.Dist < plane.DistLow || proj.Dist >= plane.DistHigh {
		return proj, false
	}
	half := p.FieldOfView / 2
	ok := math.Abs(proj.RA) <= half && math.Abs(proj.Dec) <= half
	return proj, ok
}

// Remap maps a selected cone-frame position onto the unit square of the
// field of view at distance dist. Results outside [0, 1) mean the position
// wasn't selected by Select and are returned as errors.
func (p *Projector) Remap(c [3]float64, dist float64) (u, v float64, err error) {
	fovInBox := p.FieldOfView * dist / p.BoxSize
	u = (c[0]-0.5)/fovInBox + 0.5
	v = (c[1]-0.5)/fovInBox + 0.5
	if !(u >= 0 && u < 1 && v >= 0 && v < 1) {
		return 0, 0, fmt.Errorf("The position (%g, %g, %g) at distance "+
			"%g Mpc/h maps to (%g, %g), outside the field of view.",
			c[0], c[1], c[2], dist, u, v)
	}
	return u, v, nil
}
