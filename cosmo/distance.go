package cosmo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/integrate/quad"
)

// quadPoints is the number of Gauss-Legendre points used per integration
// interval. 1/E(z) is smooth enough that this is exact to double precision
// for any interval narrower than dz ~ 1.
const quadPoints = 16

// FlatTolerance is how far OmegaM + OmegaL may be from one before a
// cosmology is treated as curved.
const FlatTolerance = 1e-3

func invHubbleFrac(omegaM, omegaL float64) func(float64) float64 {
	return func(z float64) float64 {
		return 1 / HubbleFrac(omegaM, omegaL, z)
	}
}

// ComovingDistance returns the line-of-sight comoving distance to redshift
// z in Mpc/h for a flat universe.
func ComovingDistance(omegaM, omegaL, z float64) float64 {
	if z <= 0 {
		return 0
	}
	f := invHubbleFrac(omegaM, omegaL)
	n := int(math.Ceil(z))
	sum := 0.0
	for i := 0; i < n; i++ {
		lo, hi := float64(i), math.Min(float64(i+1), z)
		sum += quad.Fixed(f, lo, hi, quadPoints, nil, 0)
	}
	return sum * HubbleDistance
}

// DistanceTable tabulates the comoving distance in Mpc/h on the redshift
// grid 0, dz, 2dz, ... up to and including the first point at or above
// zMax.
func DistanceTable(omegaM, omegaL, zMax, dz float64) (z, d []float64, err error) {
	if dz <= 0 {
		return nil, nil, fmt.Errorf("The redshift step %g is not positive.", dz)
	} else if zMax < 0 {
		return nil, nil, fmt.Errorf("The maximum redshift %g is negative.", zMax)
	} else if omegaM < 0 || omegaM+omegaL <= 0 {
		return nil, nil, fmt.Errorf("The cosmology OmegaM = %g, OmegaL = %g "+
			"does not have a positive expansion rate.", omegaM, omegaL)
	} else if math.Abs(omegaM+omegaL-1) > FlatTolerance {
		return nil, nil, fmt.Errorf("The cosmology OmegaM = %g, OmegaL = %g "+
			"is not flat. Supply a DistanceTable file for curved "+
			"cosmologies.", omegaM, omegaL)
	}

	n := int(math.Ceil(zMax/dz-1e-9)) + 1
	if n < 2 {
		n = 2
	}
	z, d = make([]float64, n), make([]float64, n)

	f := invHubbleFrac(omegaM, omegaL)
	for i := 1; i < n; i++ {
		z[i] = float64(i) * dz
		d[i] = d[i-1] + HubbleDistance*quad.Fixed(f, z[i-1], z[i], quadPoints/2, nil, 0)
	}
	return z, d, nil
}
