package lightcone

import (
	"math"
	"sync"
	"time"

	"github.com/phil-mansfield/lenscone/io"
	"github.com/phil-mansfield/lenscone/logging"
)

const (
	// FileUnitsPerMpc converts snapshot lengths (kpc/h) to Mpc/h.
	FileUnitsPerMpc = 1e3
	// BoxSizeTolerance is the largest allowed difference, in Mpc/h,
	// between the configured box size and a snapshot's box size.
	BoxSizeTolerance = 1e-2
)

// ParticleSource supplies the shards of simulation snapshots.
type ParticleSource interface {
	Shards() int
	Header(snap int) (*io.Header, error)
	ReadShard(snap, shard int) (*io.Header, *io.Particles, error)
}

// HaloSource supplies the halo catalogue of a snapshot.
type HaloSource interface {
	Read(snap int) (*io.HaloCatalog, error)
}

// PlaneMaps are the mass maps of one plane. Species[k] is the map of
// particle type k, normalized to Counts[k] * Header.Mass[k], and Total is
// their sum.
type PlaneMaps struct {
	Plane   Plane
	Header  *io.Header
	Species [io.NSpecies]*Grid
	Counts  [io.NSpecies]int64
	Total   *Grid
}

// SelectedGroup is a FOF group inside a plane's field of view.
type SelectedGroup struct {
	io.FOFGroup
	Sky      Projection
	Redshift float64
}

// SelectedSubhalo is a subhalo inside a plane's field of view.
type SelectedSubhalo struct {
	io.Subhalo
	Sky      Projection
	Redshift float64
}

// PlaneHalos are the halos inside one plane.
type PlaneHalos struct {
	Plane    Plane
	Groups   []SelectedGroup
	Subhalos []SelectedSubhalo
}

// MapSink receives the maps of each plane.
type MapSink interface {
	WriteMaps(m *PlaneMaps) error
}

// CatalogSink receives the halos of each plane.
type CatalogSink interface {
	WriteHalos(h *PlaneHalos) error
}

// Pipeline builds the maps of a light cone one plane at a time. Halos and
// Catalogs may be nil, in which case no halo catalogues are made.
type Pipeline struct {
	Projector *Projector
	Table     *DistanceTable
	Replicas  []Replica
	Pixels    int
	// Workers is the number of species rasterized concurrently.
	Workers int

	Particles ParticleSource
	Halos     HaloSource
	Maps      MapSink
	Catalogs  CatalogSink
}

// Run processes every plane in order and stops at the first error.
func (p *Pipeline) Run(planes []Plane) error {
	for i := range planes {
		plane := planes[i]
		t0 := time.Now()

		maps, err := p.ProcessPlane(plane)
		if err != nil {
			return err
		}
		if err = p.Maps.WriteMaps(maps); err != nil {
			return err
		}

		if p.Halos != nil && p.Catalogs != nil {
			halos, err := p.SelectHalos(plane, maps.Header.BoxSize)
			if err != nil {
				return err
			}
			if err = p.Catalogs.WriteHalos(halos); err != nil {
				return err
			}
		}

		logging.Perff("Plane %d: [%.2f, %.2f) Mpc/h from snapshot %d, "+
			"%d particles, %.3g s, %s", plane.Index, plane.DistLow,
			plane.DistHigh, plane.Snapshot.ID, sumCounts(maps.Counts),
			time.Since(t0).Seconds(), logging.MemString())
	}
	return nil
}

func sumCounts(counts [io.NSpecies]int64) int64 {
	n := int64(0)
	for _, c := range counts {
		n += c
	}
	return n
}

// CheckBoxSize checks that a snapshot header agrees with the box size in
// Mpc/h.
func CheckBoxSize(hd *io.Header, boxSize float64) error {
	hdBox := hd.BoxSize / FileUnitsPerMpc
	if math.Abs(boxSize-hdBox) > BoxSizeTolerance {
		return consistencyErrorf("The box size is set to %g Mpc/h, but "+
			"the snapshot header gives a box size of %g Mpc/h.",
			boxSize, hdBox)
	}
	return nil
}

func (p *Pipeline) replica(plane *Plane) (*Replica, error) {
	if plane.Replica < 0 || plane.Replica >= len(p.Replicas) {
		return nil, consistencyErrorf("Plane %d uses box replica %d, but "+
			"only %d replicas exist.", plane.Index, plane.Replica,
			len(p.Replicas))
	}
	rep := &p.Replicas[plane.Replica]
	logging.Debugf("Plane %d: replica %d, face %s, signs %v, center %.4f",
		plane.Index, rep.Index, rep.Face, rep.Signs, rep.Center)
	return rep, nil
}

// ProcessPlane rasterizes every particle inside a plane. The raw weights of
// all the shards of the snapshot are summed before each species map is
// normalized.
func (p *Pipeline) ProcessPlane(plane Plane) (*PlaneMaps, error) {
	rep, err := p.replica(&plane)
	if err != nil {
		return nil, err
	}

	hd, err := p.Particles.Header(plane.Snapshot.ID)
	if err != nil {
		return nil, err
	}
	if err = CheckBoxSize(hd, p.Projector.BoxSize); err != nil {
		return nil, err
	}

	maps := &PlaneMaps{Plane: plane, Header: hd, Total: NewGrid(p.Pixels)}
	for k := range maps.Species {
		maps.Species[k] = NewGrid(p.Pixels)
	}

	for shard := 0; shard < p.Particles.Shards(); shard++ {
		shd, parts, err := p.Particles.ReadShard(plane.Snapshot.ID, shard)
		if err != nil {
			return nil, err
		}
		if err = CheckBoxSize(shd, p.Projector.BoxSize); err != nil {
			return nil, err
		}
		if err = p.depositShard(maps, rep, shd.BoxSize, parts); err != nil {
			return nil, err
		}
	}

	for k := range maps.Species {
		maps.Species[k].Normalize(maps.Counts[k], hd.Mass[k])
		maps.Total.Add(maps.Species[k])
	}
	return maps, nil
}

// depositShard adds the particles of one shard to the species maps.
func (p *Pipeline) depositShard(
	maps *PlaneMaps, rep *Replica, fileBox float64, parts *io.Particles,
) error {
	var counts [io.NSpecies]int64
	var errs [io.NSpecies]error

	if p.Workers <= 1 {
		for k := range parts.Pos {
			counts[k], errs[k] = p.depositSpecies(maps.Species[k],
				&maps.Plane, rep, fileBox, parts.Pos[k])
		}
	} else {
		sem := make(chan struct{}, p.Workers)
		wg := &sync.WaitGroup{}
		for k := range parts.Pos {
			if len(parts.Pos[k]) == 0 {
				continue
			}
			wg.Add(1)
			sem <- struct{}{}
			go func(k int) {
				defer func() { <-sem; wg.Done() }()
				counts[k], errs[k] = p.depositSpecies(maps.Species[k],
					&maps.Plane, rep, fileBox, parts.Pos[k])
			}(k)
		}
		wg.Wait()
	}

	for k := range errs {
		if errs[k] != nil {
			return errs[k]
		}
		maps.Counts[k] += counts[k]
	}
	return nil
}

// depositSpecies deposits the particles of one species which fall inside
// the plane and returns how many there were.
func (p *Pipeline) depositSpecies(
	g *Grid, plane *Plane, rep *Replica, fileBox float64, pos [][3]float32,
) (int64, error) {
	n := int64(0)
	for i := range pos {
		x := [3]float64{float64(pos[i][0]), float64(pos[i][1]),
			float64(pos[i][2])}
		c := rep.Transform(x, fileBox)
		sky, ok := p.Projector.Select(c, plane)
		if !ok {
			continue
		}
		u, v, err := p.Projector.Remap(c, sky.Dist)
		if err != nil {
			return 0, err
		}
		g.Deposit(u, v)
		n++
	}
	return n, nil
}

// SelectHalos returns the halos of the plane's snapshot which lie inside
// the plane. fileBox is the box size in the catalogue's length units.
func (p *Pipeline) SelectHalos(plane Plane, fileBox float64) (*PlaneHalos, error) {
	rep, err := p.replica(&plane)
	if err != nil {
		return nil, err
	}
	cat, err := p.Halos.Read(plane.Snapshot.ID)
	if err != nil {
		return nil, err
	}

	out := &PlaneHalos{Plane: plane}
	for _, g := range cat.Groups {
		sky, z, ok, err := p.selectHalo(&plane, rep, g.Pos, fileBox)
		if err != nil {
			return nil, err
		} else if ok {
			out.Groups = append(out.Groups, SelectedGroup{g, sky, z})
		}
	}
	for _, s := range cat.Subhalos {
		sky, z, ok, err := p.selectHalo(&plane, rep, s.Pos, fileBox)
		if err != nil {
			return nil, err
		} else if ok {
			out.Subhalos = append(out.Subhalos, SelectedSubhalo{s, sky, z})
		}
	}
	return out, nil
}

func (p *Pipeline) selectHalo(
	plane *Plane, rep *Replica, pos [3]float64, fileBox float64,
) (Projection, float64, bool, error) {
	c := rep.Transform(pos, fileBox)
	sky, ok := p.Projector.Select(c, plane)
	if !ok {
		return sky, 0, false, nil
	}
	z := p.Table.Redshift(sky.Dist)
	if z < 0 {
		return sky, 0, false, dataGapf("A halo at %g Mpc/h in plane %d "+
			"maps to the redshift %g.", sky.Dist, plane.Index, z)
	}
	return sky, z, true, nil
}
