package lightcone

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/phil-mansfield/lenscone/io"
	"github.com/phil-mansfield/lenscone/math/rand"
)

// Face is one of the six ways of assigning box axes to cone axes, like the
// faces of a die.
type Face uint8

const (
	FaceXYZ Face = iota + 1
	FaceXZY
	FaceYZX
	FaceYXZ
	FaceZXY
	FaceZYX
)

// NFaces is the number of distinct faces.
const NFaces = 6

// faceAxes[f][i] is the box axis which becomes cone axis i.
var faceAxes = [NFaces + 1][3]int{
	{},
	{0, 1, 2},
	{0, 2, 1},
	{1, 2, 0},
	{1, 0, 2},
	{2, 0, 1},
	{2, 1, 0},
}

const axisNames = "xyz"

// Valid returns true if f is one of the six faces.
func (f Face) Valid() bool { return f >= FaceXYZ && f <= FaceZYX }

// Axes returns the box axis which becomes each cone axis.
func (f Face) Axes() [3]int { return faceAxes[f] }

// Apply maps a box-frame vector to the cone frame.
func (f Face) Apply(b [3]float64) [3]float64 {
	ax := &faceAxes[f]
	return [3]float64{b[ax[0]], b[ax[1]], b[ax[2]]}
}

// Inverse maps a cone-frame vector back to the box frame.
func (f Face) Inverse(c [3]float64) [3]float64 {
	ax := &faceAxes[f]
	var b [3]float64
	for i := 0; i < 3; i++ {
		b[ax[i]] = c[i]
	}
	return b
}

// Matrix returns the signed permutation matrix M with c = M b for a
// box-frame vector b reflected by signs and then permuted by f. Periodic
// wrapping is not included.
func (f Face) Matrix(signs [3]float64) *mat.Dense {
	m := mat.NewDense(3, 3, nil)
	ax := &faceAxes[f]
	for i := 0; i < 3; i++ {
		m.Set(i, ax[i], signs[ax[i]])
	}
	return m
}

func (f Face) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Face(%d)", uint8(f))
	}
	ax := &faceAxes[f]
	return string([]byte{axisNames[ax[0]], axisNames[ax[1]], axisNames[ax[2]]})
}

// FaceFromAxes returns the face which assigns box axes 'x', 'y', 'z' to
// the cone axes in the order given.
func FaceFromAxes(axes [3]byte) (Face, error) {
	for f := FaceXYZ; f <= FaceZYX; f++ {
		ax := &faceAxes[f]
		if axes[0] == axisNames[ax[0]] && axes[1] == axisNames[ax[1]] &&
			axes[2] == axisNames[ax[2]] {
			return f, nil
		}
	}
	return 0, fmt.Errorf("The axes '%s' aren't a permutation of 'xyz'.",
		string(axes[:]))
}

// Replica is the orientation of one copy of the simulation box. Center is
// in units of the box size.
type Replica struct {
	Index  int
	Center [3]float64
	Face   Face
	Signs  [3]float64
}

// Wrap maps x into [0, 1) periodically.
func Wrap(x float64) float64 {
	x -= math.Floor(x)
	if x >= 1 {
		x = 0
	}
	return x
}

// Transform maps a box-frame position, in the same units as boxSize, to
// the cone frame. Transverse coordinates are in [0, 1) and the depth
// coordinate is in [Index, Index + 1).
func (r *Replica) Transform(pos [3]float64, boxSize float64) [3]float64 {
	var b [3]float64
	for k := 0; k < 3; k++ {
		b[k] = Wrap(r.Signs[k] * pos[k] / boxSize)
	}
	c := r.Face.Apply(b)
	for k := 0; k < 3; k++ {
		c[k] = Wrap(c[k] - r.Center[k])
	}
	c[2] += float64(r.Index)
	return c
}

// Seeds are the seeds of the three random streams used by DrawReplicas.
type Seeds struct {
	Center, Face, Sign int64
}

// DrawReplicas draws n random replica orientations. Replica i draws its
// center, face, and signs from generators seeded with Center + 13 i,
// Face + 5 i, and Sign + 8 i respectively.
func DrawReplicas(n int, seeds Seeds, gt rand.GeneratorType) []Replica {
	reps := make([]Replica, n)
	for i := range reps {
		r := &reps[i]
		r.Index = i

		cgen := rand.New(gt, uint64(seeds.Center+13*int64(i)))
		cgen.UniformAt(0, 1, r.Center[:])

		fgen := rand.New(gt, uint64(seeds.Face+5*int64(i)))
		r.Face = Face(fgen.UniformInt(int(FaceXYZ), int(FaceZYX)+1))

		sgen := rand.New(gt, uint64(seeds.Sign+8*int64(i)))
		for k := 0; k < 3; k++ {
			r.Signs[k] = sgen.Sign()
		}
	}
	return reps
}

// ImportReplicas reads the replica orientations of a cone record.
func ImportReplicas(rec *io.ConeRecord) ([]Replica, error) {
	reps := make([]Replica, len(rec.Cubes))
	for i, cube := range rec.Cubes {
		face, err := FaceFromAxes(cube.Axes)
		if err != nil {
			return nil, configErrorf("Cube %d of the cone record is "+
				"invalid: %s", i+1, err.Error())
		}
		r := &reps[i]
		r.Index, r.Face = i, face
		for k := 0; k < 3; k++ {
			r.Center[k] = cube.Center[k] / rec.BoxSize
			if cube.Reflect[k] {
				r.Signs[k] = -1
			} else {
				r.Signs[k] = +1
			}
		}
	}
	return reps, nil
}

// ConeGeometry is the information in a cone record that isn't in the
// planes or replicas.
type ConeGeometry struct {
	BoxSize        float64
	OmegaM, OmegaL float64
	SourceRedshift float64
	SourceDistance float64
	FieldOfView    float64
}

// ExportCone creates a cone record which ImportPlanes and ImportReplicas
// turn back into planes and reps.
func ExportCone(
	planes []Plane, reps []Replica, geom ConeGeometry,
) *io.ConeRecord {
	rec := &io.ConeRecord{
		BoxSize:        geom.BoxSize,
		OmegaM:         geom.OmegaM,
		OmegaL:         geom.OmegaL,
		SourceRedshift: geom.SourceRedshift,
		SourceDistance: geom.SourceDistance,
		FieldOfView:    geom.FieldOfView,
		Planes:         make([]io.ConePlane, len(planes)),
		Cubes:          make([]io.ConeCube, len(reps)),
	}

	for i, p := range planes {
		rec.Planes[i] = io.ConePlane{
			Box: p.Replica + 1, Snap: p.Snapshot.ID, DistanceHigh: p.DistHigh,
		}
	}
	for i, r := range reps {
		c := &rec.Cubes[i]
		ax := r.Face.Axes()
		for k := 0; k < 3; k++ {
			c.Reflect[k] = r.Signs[k] < 0
			c.Axes[k] = axisNames[ax[k]]
			c.Center[k] = r.Center[k] * geom.BoxSize
		}
		c.Index = float64(i + 1)
	}
	return rec
}
