/*package cosmo contains the few pieces of background cosmology lenscone
needs: the expansion rate, the critical and mean densities, and the
comoving distance-redshift relation.*/
package cosmo

import (
	"math"
)

// HubbleFrac calculates E(z) = H(z)/H0 for a universe with no curvature
// or radiation: E(z)**2 = OmegaM (1 + z)**3 + OmegaL.
func HubbleFrac(omegaM, omegaL, z float64) float64 {
	return math.Sqrt(omegaM*math.Pow(1.0+z, 3.0) + omegaL)
}

// (And by "Mks", I mean "Mks/h".)
func rhoCriticalMks(omegaM, omegaL, z float64) float64 {
	// 100 km/s/Mpc in s^-1.
	H100Mks := 100 * 1000 / MpcMks
	H := HubbleFrac(omegaM, omegaL, z) * H100Mks
	return 3.0 * H * H / (8.0 * math.Pi * GMks)
}

// RhoCritical calculates the critical density of the universe at redshift
// z in (Msun/h) / (Mpc/h)^3.
func RhoCritical(omegaM, omegaL, z float64) float64 {
	return rhoCriticalMks(omegaM, omegaL, z) * math.Pow(MpcMks, 3) / MSunMks
}

// RhoAverage calculates the comoving mean matter density in
// (Msun/h) / (Mpc/h)^3. It does not depend on redshift.
func RhoAverage(omegaM, omegaL float64) float64 {
	return RhoCritical(omegaM, omegaL, 0) * omegaM
}
