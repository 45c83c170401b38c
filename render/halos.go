package render

import (
	"bufio"
	"fmt"
	"os"

	"github.com/phil-mansfield/lenscone/catalog"
	"github.com/phil-mansfield/lenscone/lightcone"
)

// HaloSink writes the groups and subhalos of each plane to text
// catalogues. Angles are in radians and distances in Mpc/h.
type HaloSink struct {
	Names *Namer
}

var (
	groupIntNames   = []string{"ID"}
	groupFloatNames = []string{"Mass", "RA", "Dec", "Redshift", "Distance",
		"M200", "R200"}
	subIntNames   = []string{"ID", "Group"}
	subFloatNames = []string{"RA", "Dec", "Distance", "Redshift", "Mass",
		"VelDisp", "VMax", "HalfMassRadius", "RMax"}
)

// WriteHalos writes both catalogues of a plane.
func (s *HaloSink) WriteHalos(h *lightcone.PlaneHalos) error {
	header, lines := GroupLines(h.Groups)
	if err := writeLines(s.Names.Groups(h.Plane.Index), header, lines); err != nil {
		return err
	}
	header, lines = SubhaloLines(h.Subhalos)
	return writeLines(s.Names.Subhalos(h.Plane.Index), header, lines)
}

// GroupLines formats groups with the columns
// id mass ra dec z d m200 r200.
func GroupLines(groups []lightcone.SelectedGroup) (string, []string) {
	ids := make([]int, len(groups))
	fcols := make([][]float64, len(groupFloatNames))
	for j := range fcols {
		fcols[j] = make([]float64, len(groups))
	}
	for i, g := range groups {
		ids[i] = g.ID
		row := []float64{g.Mass, g.Sky.RA, g.Sky.Dec, g.Redshift,
			g.Sky.Dist, g.M200, g.R200}
		for j := range row {
			fcols[j][i] = row[j]
		}
	}
	return formatTable([][]int{ids}, fcols, groupIntNames, groupFloatNames)
}

// SubhaloLines formats subhalos with the columns
// id group ra dec d z msub veldisp vmax halfmassradius rmax.
func SubhaloLines(subs []lightcone.SelectedSubhalo) (string, []string) {
	icols := [][]int{make([]int, len(subs)), make([]int, len(subs))}
	fcols := make([][]float64, len(subFloatNames))
	for j := range fcols {
		fcols[j] = make([]float64, len(subs))
	}
	for i, s := range subs {
		icols[0][i], icols[1][i] = s.ID, s.Group
		row := []float64{s.Sky.RA, s.Sky.Dec, s.Sky.Dist, s.Redshift,
			s.Mass, s.VelDisp, s.VMax, s.HalfMassRadius, s.RMax}
		for j := range row {
			fcols[j][i] = row[j]
		}
	}
	return formatTable(icols, fcols, subIntNames, subFloatNames)
}

func formatTable(
	icols [][]int, fcols [][]float64, intNames, floatNames []string,
) (string, []string) {
	n := len(icols) + len(fcols)
	order, sizes := make([]int, n), make([]int, n)
	for i := range order {
		order[i], sizes[i] = i, 1
	}
	header := catalog.CommentString(intNames, floatNames, order, sizes)
	return header, catalog.FormatCols(icols, fcols, order)
}

func writeLines(fname, header string, lines []string) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)
	err = catalog.Write(w, header, lines)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("Could not write %s: %w", fname, err)
	}
	return nil
}

// PlaneLines formats the plane list with the columns
// plane zmid dlow dhigh replica snap zsnap.
func PlaneLines(planes []lightcone.Plane) (string, []string) {
	icols := [][]int{make([]int, len(planes)), make([]int, len(planes)),
		make([]int, len(planes))}
	fcols := [][]float64{make([]float64, len(planes)),
		make([]float64, len(planes)), make([]float64, len(planes)),
		make([]float64, len(planes))}
	for i, p := range planes {
		icols[0][i], icols[1][i], icols[2][i] = p.Index, p.Replica, p.Snapshot.ID
		fcols[0][i], fcols[1][i] = p.MidRedshift, p.DistLow
		fcols[2][i], fcols[3][i] = p.DistHigh, p.Snapshot.Redshift
	}

	intNames := []string{"Plane", "Replica", "Snapshot"}
	floatNames := []string{"MidRedshift", "DistLow", "DistHigh",
		"SnapshotRedshift"}
	order := []int{0, 3, 4, 5, 1, 2, 6}
	sizes := []int{1, 1, 1, 1, 1, 1, 1}
	header := catalog.CommentString(intNames, floatNames, order, sizes)
	return header, catalog.FormatCols(icols, fcols, order)
}

// WritePlaneList writes the plane list to a file.
func WritePlaneList(fname string, planes []lightcone.Plane) error {
	header, lines := PlaneLines(planes)
	return writeLines(fname, header, lines)
}
