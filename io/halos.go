package io

import (
	"fmt"

	"github.com/phil-mansfield/lenscone/catalog"
)

// FOFGroup is a friends-of-friends group. Positions are in the same units
// as the snapshot positions.
type FOFGroup struct {
	ID         int
	Mass       float64
	Pos        [3]float64
	M200, R200 float64
}

// Subhalo is a bound substructure of a FOF group.
type Subhalo struct {
	ID, Group      int
	Mass           float64
	Pos            [3]float64
	VelDisp, VMax  float64
	HalfMassRadius float64
	RMax           float64
}

// HaloCatalog holds the groups and subhalos of one snapshot.
type HaloCatalog struct {
	Groups   []FOFGroup
	Subhalos []Subhalo
}

// ReadFOF reads a FOF group table with the columns
// id mass x y z m200 r200.
func ReadFOF(fname string) ([]FOFGroup, error) {
	icols, fcols, err := catalog.ReadFile(fname,
		[]int{0}, []int{1, 2, 3, 4, 5, 6})
	if err != nil {
		return nil, err
	}

	groups := make([]FOFGroup, len(icols[0]))
	for i := range groups {
		groups[i] = FOFGroup{
			ID:   icols[0][i],
			Mass: fcols[0][i],
			Pos:  [3]float64{fcols[1][i], fcols[2][i], fcols[3][i]},
			M200: fcols[4][i],
			R200: fcols[5][i],
		}
	}
	return groups, nil
}

// ReadSubhalos reads a subhalo table with the columns
// id group mass x y z veldisp vmax halfmassradius rmax.
func ReadSubhalos(fname string) ([]Subhalo, error) {
	icols, fcols, err := catalog.ReadFile(fname,
		[]int{0, 1}, []int{2, 3, 4, 5, 6, 7, 8, 9})
	if err != nil {
		return nil, err
	}

	subs := make([]Subhalo, len(icols[0]))
	for i := range subs {
		subs[i] = Subhalo{
			ID:             icols[0][i],
			Group:          icols[1][i],
			Mass:           fcols[0][i],
			Pos:            [3]float64{fcols[1][i], fcols[2][i], fcols[3][i]},
			VelDisp:        fcols[4][i],
			VMax:           fcols[5][i],
			HalfMassRadius: fcols[6][i],
			RMax:           fcols[7][i],
		}
	}
	return subs, nil
}

// HaloNamer gives the names of the halo catalogues of a snapshot. An empty
// name means that catalogue isn't available.
type HaloNamer interface {
	HaloCatalogs(snap int) (fof, sub string)
}

// Halos reads and caches halo catalogues by snapshot.
type Halos struct {
	names HaloNamer
	cache *loadingCache[int, *HaloCatalog]
}

// NewHalos creates a Halos reader which keeps the last cacheSize
// catalogues in memory.
func NewHalos(names HaloNamer, cacheSize int) (*Halos, error) {
	h := &Halos{names: names}
	var err error
	h.cache, err = newLoadingCache(cacheSize, h.load)
	if err != nil {
		return nil, err
	}
	return h, nil
}

func (h *Halos) load(snap int) (*HaloCatalog, error) {
	fof, sub := h.names.HaloCatalogs(snap)
	cat := &HaloCatalog{}
	var err error
	if fof != "" {
		if cat.Groups, err = ReadFOF(fof); err != nil {
			return nil, fmt.Errorf("Could not read the FOF catalogue of "+
				"snapshot %d: %w", snap, err)
		}
	}
	if sub != "" {
		if cat.Subhalos, err = ReadSubhalos(sub); err != nil {
			return nil, fmt.Errorf("Could not read the subhalo catalogue "+
				"of snapshot %d: %w", snap, err)
		}
	}
	return cat, nil
}

// Read returns the halo catalogue of a snapshot.
func (h *Halos) Read(snap int) (*HaloCatalog, error) {
	return h.cache.get(snap)
}
