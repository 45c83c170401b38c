package io

import (
	"fmt"

	"github.com/phil-mansfield/lenscone/catalog"
	"github.com/phil-mansfield/lenscone/cosmo"
)

// RedshiftList is the table of every snapshot a simulation wrote, with its
// scale factor and redshift.
type RedshiftList struct {
	Snaps []int
	A, Z  []float64
}

// ReadRedshiftList reads a three-column 'snap a z' table.
func ReadRedshiftList(fname string) (*RedshiftList, error) {
	icols, fcols, err := catalog.ReadFile(fname, []int{0}, []int{1, 2})
	if err != nil {
		return nil, err
	}
	if len(icols[0]) == 0 {
		return nil, fmt.Errorf("The redshift list %s is empty.", fname)
	}
	return &RedshiftList{Snaps: icols[0], A: fcols[0], Z: fcols[1]}, nil
}

// ReadSnapshotList reads a list of snapshot ids, one per line.
func ReadSnapshotList(fname string) ([]int, error) {
	icols, _, err := catalog.ReadFile(fname, []int{0}, nil)
	if err != nil {
		return nil, err
	}
	if len(icols[0]) == 0 {
		return nil, fmt.Errorf("The snapshot list %s is empty.", fname)
	}
	return icols[0], nil
}

// ReadDistanceTable reads a two-column 'z D' table where D is the comoving
// distance in units of c/H0. The returned distances are in Mpc/h.
func ReadDistanceTable(fname string) (z, d []float64, err error) {
	_, fcols, err := catalog.ReadFile(fname, nil, []int{0, 1})
	if err != nil {
		return nil, nil, err
	}
	z, d = fcols[0], fcols[1]
	for i := range d {
		d[i] *= cosmo.HubbleDistance
	}
	return z, d, nil
}
