/*package render writes the products of a light cone run: FITS mass maps,
PNG previews of those maps, per-plane halo catalogues, the plane list, and
a YAML manifest describing the run.*/
package render

import (
	"fmt"
	"path/filepath"

	"github.com/phil-mansfield/lenscone/lightcone"
)

// TotalSpecies is the species index used for summed maps.
const TotalSpecies = -1

// Namer names the files a run writes into a directory.
type Namer struct {
	Dir        string
	Simulation string
	Pixels     int
}

// Map returns the name of the FITS map of one species of a plane, or of the
// summed map if species is TotalSpecies.
func (n *Namer) Map(plane, species int, compress bool) string {
	var name string
	if species == TotalSpecies {
		name = fmt.Sprintf("%s.%03d.plane_%d.fits",
			n.Simulation, plane, n.Pixels)
	} else {
		name = fmt.Sprintf("%s.%03d.ptype%d_plane_%d.fits",
			n.Simulation, plane, species, n.Pixels)
	}
	if compress {
		name += ".gz"
	}
	return filepath.Join(n.Dir, name)
}

// Preview returns the name of the PNG preview of a plane.
func (n *Namer) Preview(plane int) string {
	return filepath.Join(n.Dir, fmt.Sprintf("%s.%03d.plane_%d.png",
		n.Simulation, plane, n.Pixels))
}

// Groups returns the name of the FOF catalogue of a plane.
func (n *Namer) Groups(plane int) string {
	return filepath.Join(n.Dir, fmt.Sprintf("fofinfield_%s.%03d.dat",
		n.Simulation, plane))
}

// Subhalos returns the name of the subhalo catalogue of a plane.
func (n *Namer) Subhalos(plane int) string {
	return filepath.Join(n.Dir, fmt.Sprintf("subinfield_%s.%03d.dat",
		n.Simulation, plane))
}

// PlaneList returns the name of the plane list.
func (n *Namer) PlaneList() string {
	return filepath.Join(n.Dir, "planes_list.txt")
}

// Cone returns the name of the cone record.
func (n *Namer) Cone() string {
	return filepath.Join(n.Dir, n.Simulation+".cone")
}

// Manifest returns the name of the run manifest.
func (n *Namer) Manifest() string {
	return filepath.Join(n.Dir, "manifest.yaml")
}

// MapSinks sends each plane's maps to several sinks in order.
type MapSinks []lightcone.MapSink

// WriteMaps calls WriteMaps on every sink, stopping at the first error.
func (ms MapSinks) WriteMaps(m *lightcone.PlaneMaps) error {
	for _, sink := range ms {
		if err := sink.WriteMaps(m); err != nil {
			return err
		}
	}
	return nil
}
