package lightcone

import (
	"math"
	"sort"

	"github.com/phil-mansfield/lenscone/io"
)

// MaxSplits is the default number of box lengths a shell may be split at.
const MaxSplits = 512

// Plane is one radial shell of the light cone, [DistLow, DistHigh) in
// Mpc/h, filled with particles from Snapshot placed in box replica
// Replica. Index counts planes from 1.
type Plane struct {
	Index             int
	Snapshot          Snapshot
	Replica           int
	DistLow, DistHigh float64
	MidRedshift       float64
}

// Width returns the radial extent of the plane.
func (p *Plane) Width() float64 { return p.DistHigh - p.DistLow }

// PartitionParams are the inputs to Partition that don't come from the
// snapshot list.
type PartitionParams struct {
	BoxSize        float64
	SourceRedshift float64
	MaxSplits      int
}

// Partition divides [0, D(zs)) into planes. snaps are the snapshots with
// z <= zs and next is the first snapshot past zs, which may be nil.
//
// Each snapshot is placed at its own comoving distance and supplies the
// shell reaching out to the next snapshot. The nearest shell starts at
// zero and the farthest ends at the source. Shells are then split at
// every multiple of the box size, so each plane lies inside a single
// replica: Replica == floor(DistLow / BoxSize).
func Partition(
	table *DistanceTable, snaps []Snapshot, next *Snapshot, p PartitionParams,
) ([]Plane, error) {
	L := p.BoxSize
	if L <= 0 {
		return nil, configErrorf("The box size is %g, but it must be "+
			"positive.", L)
	}
	maxSplits := p.MaxSplits
	if maxSplits <= 0 {
		maxSplits = MaxSplits
	}
	ds, err := table.SourceDistance(p.SourceRedshift)
	if err != nil {
		return nil, err
	}

	nRep := int(ds/L) + 1
	shells := []Plane{}
	for _, snap := range snaps {
		d := table.Distance(snap.Redshift)
		j := int(math.Floor(d / L))
		if j < 0 || j >= nRep {
			continue
		}
		shells = append(shells, Plane{
			Snapshot: snap, Replica: j, DistLow: d,
		})
	}
	sort.SliceStable(shells, func(i, j int) bool {
		return shells[i].DistLow < shells[j].DistLow
	})

	for i := range shells {
		if i == len(shells)-1 {
			shells[i].DistHigh = ds
		} else {
			shells[i].DistHigh = shells[i+1].DistLow
		}
	}
	if len(shells) > 0 {
		shells[0].DistLow = 0
	}

	if len(shells) == 0 || shells[len(shells)-1].DistHigh < ds {
		shells, err = appendTrailing(shells, snaps, next, ds, L)
		if err != nil {
			return nil, err
		}
	}

	planes := []Plane{}
	for _, shell := range shells {
		split, err := splitShell(shell, L, maxSplits)
		if err != nil {
			return nil, err
		}
		planes = append(planes, split...)
	}

	mids := make([]float64, len(planes))
	for i := range planes {
		planes[i].Index = i + 1
		mids[i] = planes[i].DistLow + planes[i].Width()/2
	}
	for i, z := range table.Redshifts(mids) {
		planes[i].MidRedshift = z
	}

	if err = CheckCoverage(planes, ds); err != nil {
		return nil, err
	}
	return planes, nil
}

// appendTrailing adds a shell reaching out to ds using next, or the last
// usable snapshot if there is no next one.
func appendTrailing(
	shells []Plane, snaps []Snapshot, next *Snapshot, ds, L float64,
) ([]Plane, error) {
	var snap Snapshot
	switch {
	case next != nil:
		snap = *next
	case len(snaps) > 0:
		snap = snaps[len(snaps)-1]
	default:
		return nil, configErrorf("No snapshots are available to fill " +
			"the light cone.")
	}

	low, replica := 0.0, 0
	if len(shells) > 0 {
		last := shells[len(shells)-1]
		low, replica = last.DistHigh, last.Replica+1
	}
	return append(shells, Plane{
		Snapshot: snap, Replica: replica, DistLow: low, DistHigh: ds,
	}), nil
}

// splitShell splits a shell at every multiple of L that it straddles and
// drops it if it has zero width.
func splitShell(shell Plane, L float64, maxSplits int) ([]Plane, error) {
	if shell.DistHigh <= shell.DistLow {
		return nil, nil
	}

	// k is the first multiple of L past DistLow.
	k := int(math.Floor(shell.DistLow / L))
	if float64(k)*L > shell.DistLow {
		k--
	}
	k++
	out := []Plane{}
	low := shell.DistLow
	for ; float64(k)*L < shell.DistHigh; k++ {
		if k > maxSplits {
			return nil, consistencyErrorf("The shell [%g, %g) supplied "+
				"by snapshot %d straddles more than %d box lengths. The "+
				"snapshot list is too coarse for the requested depth; "+
				"add snapshots or increase MaxSplits.", shell.DistLow,
				shell.DistHigh, shell.Snapshot.ID, maxSplits)
		}
		edge := float64(k) * L
		if edge > low {
			piece := shell
			piece.DistLow, piece.DistHigh = low, edge
			piece.Replica = k - 1
			out = append(out, piece)
			low = edge
		}
	}

	piece := shell
	piece.DistLow = low
	piece.Replica = k - 1
	return append(out, piece), nil
}

// CheckCoverage checks that planes tile [0, ds) without gaps or overlaps.
// A negative ds skips the check of the far edge.
func CheckCoverage(planes []Plane, ds float64) error {
	if len(planes) == 0 {
		return consistencyErrorf("The light cone contains no planes.")
	}
	if planes[0].DistLow != 0 {
		return consistencyErrorf("The first plane starts at %g instead of "+
			"zero.", planes[0].DistLow)
	}
	for i := range planes {
		p := &planes[i]
		if p.Width() <= 0 {
			return consistencyErrorf("Plane %d has the bounds [%g, %g).",
				p.Index, p.DistLow, p.DistHigh)
		}
		if i > 0 && planes[i-1].DistHigh != p.DistLow {
			return consistencyErrorf("Plane %d ends at %g, but plane %d "+
				"starts at %g.", planes[i-1].Index, planes[i-1].DistHigh,
				p.Index, p.DistLow)
		}
	}
	last := planes[len(planes)-1]
	if ds >= 0 && last.DistHigh != ds {
		return consistencyErrorf("The last plane ends at %g, but the "+
			"source is at %g.", last.DistHigh, ds)
	}
	return nil
}

// Replicas returns the number of box replicas used by planes.
func Replicas(planes []Plane) int {
	n := 0
	for i := range planes {
		if planes[i].Replica+1 > n {
			n = planes[i].Replica + 1
		}
	}
	return n
}

// ImportPlanes reads planes from a cone record. Plane i covers
// [DistanceHigh[i-1], DistanceHigh[i]), with the first plane starting at
// zero. Snapshot redshifts come from the catalog.
func ImportPlanes(
	rec *io.ConeRecord, table *DistanceTable, cat *SnapshotCatalog,
) ([]Plane, error) {
	planes := make([]Plane, len(rec.Planes))
	low := 0.0
	for i, cp := range rec.Planes {
		snap, err := cat.Lookup(cp.Snap)
		if err != nil {
			return nil, err
		}
		planes[i] = Plane{
			Index:    i + 1,
			Snapshot: snap,
			Replica:  cp.Box - 1,
			DistLow:  low,
			DistHigh: cp.DistanceHigh,
		}
		planes[i].MidRedshift = table.Redshift((low + cp.DistanceHigh) / 2)
		low = cp.DistanceHigh
	}

	if err := CheckCoverage(planes, -1); err != nil {
		return nil, &ConfigError{"The cone record's planes are invalid: " +
			err.Error()}
	}
	return planes, nil
}
