package lightcone

import (
	"github.com/phil-mansfield/lenscone/io"
	"github.com/phil-mansfield/lenscone/math/interpolate"
)

// MaxSnapshots is the default bound on snapshot ids.
const MaxSnapshots = 1024

// Snapshot is a simulation output and its redshift.
type Snapshot struct {
	ID       int
	Redshift float64
}

// SnapshotCatalog maps snapshot ids to redshifts.
type SnapshotCatalog struct {
	known    map[int]bool
	redshift *interpolate.Clamped
}

// NewSnapshotCatalog creates a catalog from a redshift list. Snapshot ids
// must be strictly monotone and lie in [0, maxSnapshots).
func NewSnapshotCatalog(
	rl *io.RedshiftList, maxSnapshots int,
) (*SnapshotCatalog, error) {
	if maxSnapshots <= 0 {
		maxSnapshots = MaxSnapshots
	}

	ids := make([]float64, len(rl.Snaps))
	known := map[int]bool{}
	for i, snap := range rl.Snaps {
		if snap < 0 || snap >= maxSnapshots {
			return nil, configErrorf("The redshift list contains the "+
				"snapshot %d, but snapshot ids must be in the range "+
				"[0, %d). Increase MaxSnapshots if this is intended.",
				snap, maxSnapshots)
		}
		ids[i] = float64(snap)
		known[snap] = true
	}

	redshift, err := interpolate.NewClamped(ids, rl.Z)
	if err != nil {
		return nil, configErrorf("The snapshot ids in the redshift list "+
			"are invalid: %s", err.Error())
	}
	return &SnapshotCatalog{known, redshift}, nil
}

// Lookup returns the snapshot with the given id.
func (c *SnapshotCatalog) Lookup(id int) (Snapshot, error) {
	if !c.known[id] {
		return Snapshot{}, dataGapf("The snapshot %d isn't in the "+
			"redshift list, so its redshift is unknown.", id)
	}
	return Snapshot{id, c.redshift.Eval(float64(id))}, nil
}

// Select returns the snapshots in ids, in order, up to the first one whose
// redshift is larger than zs. That snapshot is returned as next, or nil
// if there isn't one. Snapshots after it are ignored.
func (c *SnapshotCatalog) Select(
	ids []int, zs float64,
) (snaps []Snapshot, next *Snapshot, err error) {
	for _, id := range ids {
		snap, err := c.Lookup(id)
		if err != nil {
			return nil, nil, err
		}
		if snap.Redshift > zs {
			return snaps, &snap, nil
		}
		snaps = append(snaps, snap)
	}
	return snaps, nil, nil
}
