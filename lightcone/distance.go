package lightcone

import (
	"github.com/phil-mansfield/lenscone/math/interpolate"
)

// DistanceTable converts between redshift and comoving distance (Mpc/h).
// Queries outside the table return the value at the nearer end.
type DistanceTable struct {
	distance, redshift *interpolate.Clamped
}

// NewDistanceTable creates a DistanceTable from parallel redshift and
// distance columns. Both columns must be strictly monotone.
func NewDistanceTable(z, d []float64) (*DistanceTable, error) {
	if len(z) != len(d) {
		return nil, configErrorf("The distance table has %d redshifts "+
			"but %d distances.", len(z), len(d))
	}

	distance, err := interpolate.NewClamped(z, d)
	if err != nil {
		return nil, configErrorf("The redshift column of the distance "+
			"table is invalid: %s", err.Error())
	}
	redshift, err := interpolate.NewClamped(d, z)
	if err != nil {
		return nil, configErrorf("The distance column of the distance "+
			"table is invalid: %s", err.Error())
	}
	return &DistanceTable{distance, redshift}, nil
}

// Distance returns the comoving distance to redshift z.
func (t *DistanceTable) Distance(z float64) float64 {
	return t.distance.Eval(z)
}

// Redshift returns the redshift at comoving distance d.
func (t *DistanceTable) Redshift(d float64) float64 {
	return t.redshift.Eval(d)
}

// Redshifts returns the redshift at each of the comoving distances ds.
func (t *DistanceTable) Redshifts(ds []float64) []float64 {
	return t.redshift.EvalAll(ds)
}

// MaxRedshift returns the largest tabulated redshift.
func (t *DistanceTable) MaxRedshift() float64 {
	_, hi := t.distance.Domain()
	return hi
}

// SourceDistance returns the comoving distance to a source redshift. It
// is an error for the source to lie past the end of the table.
func (t *DistanceTable) SourceDistance(zs float64) (float64, error) {
	if zs > t.MaxRedshift() {
		return 0, configErrorf("The source redshift, %g, is larger than "+
			"the highest redshift in the distance table, %g.",
			zs, t.MaxRedshift())
	} else if zs <= 0 {
		return 0, configErrorf("The source redshift is %g, but it must "+
			"be positive.", zs)
	}
	return t.Distance(zs), nil
}
