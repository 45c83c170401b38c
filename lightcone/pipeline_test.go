package lightcone

import (
	"errors"
	"fmt"
	"testing"

	"github.com/phil-mansfield/lenscone/io"
)

type memSnapshot struct {
	hd     io.Header
	shards []*io.Particles
}

type memSource struct {
	snaps  map[int]*memSnapshot
	nShard int
	reads  int
}

func (m *memSource) Shards() int { return m.nShard }

func (m *memSource) Header(snap int) (*io.Header, error) {
	s, ok := m.snaps[snap]
	if !ok {
		return nil, fmt.Errorf("No snapshot %d.", snap)
	}
	hd := s.hd
	return &hd, nil
}

func (m *memSource) ReadShard(snap, shard int) (*io.Header, *io.Particles, error) {
	s, ok := m.snaps[snap]
	if !ok || shard >= len(s.shards) {
		return nil, nil, fmt.Errorf("No shard %d of snapshot %d.", shard, snap)
	}
	m.reads++
	hd := s.hd
	return &hd, s.shards[shard], nil
}

type memHalos map[int]*io.HaloCatalog

func (m memHalos) Read(snap int) (*io.HaloCatalog, error) {
	cat, ok := m[snap]
	if !ok {
		return nil, fmt.Errorf("No halos for snapshot %d.", snap)
	}
	return cat, nil
}

type memMaps struct{ maps []*PlaneMaps }

func (m *memMaps) WriteMaps(pm *PlaneMaps) error {
	m.maps = append(m.maps, pm)
	return nil
}

type memCatalogs struct{ halos []*PlaneHalos }

func (m *memCatalogs) WriteHalos(h *PlaneHalos) error {
	m.halos = append(m.halos, h)
	return nil
}

// testSource is a 100 Mpc/h box at z = 0.03 with two shards. Shard 0
// holds a type 1 particle at the center of the box. Shard 1 holds a type 1
// particle on the optical axis at 20 Mpc/h and a type 4 particle far
// outside the field of view.
func testSource() *memSource {
	hd := io.Header{
		Mass:     [io.NSpecies]float64{0, 2, 0, 0, 0.5, 0},
		Redshift: 0.03, BoxSize: 100e3, H100: 0.7,
		OmegaM: 0.3, OmegaL: 0.7,
	}
	s0, s1 := &io.Particles{}, &io.Particles{}
	s0.Pos[1] = [][3]float32{{50e3, 50e3, 50e3}}
	s1.Pos[1] = [][3]float32{{50e3, 50e3, 20e3}}
	s1.Pos[4] = [][3]float32{{0, 0, 50e3}}
	return &memSource{
		snaps:  map[int]*memSnapshot{7: {hd, []*io.Particles{s0, s1}}},
		nShard: 2,
	}
}

func testPipeline(t *testing.T, workers int) (*Pipeline, []Plane) {
	table := linearTable(t)
	planes, err := Partition(table, []Snapshot{{7, 0.03}}, nil,
		PartitionParams{BoxSize: 100, SourceRedshift: 0.05})
	if err != nil {
		t.Fatal(err)
	}
	proj, err := NewProjector(100, 30, table.Distance(0.05))
	if err != nil {
		t.Fatal(err)
	}

	reps := make([]Replica, Replicas(planes))
	for i := range reps {
		reps[i] = Replica{Index: i, Face: FaceXYZ, Signs: [3]float64{1, 1, 1}}
	}

	return &Pipeline{
		Projector: proj, Table: table, Replicas: reps,
		Pixels: 4, Workers: workers,
		Particles: testSource(),
		Maps:      &memMaps{},
	}, planes
}

func TestPipelineMaps(t *testing.T) {
	for _, workers := range []int{1, 4} {
		p, planes := testPipeline(t, workers)
		if len(planes) != 2 {
			t.Fatalf("Expected 2 planes, got %d.", len(planes))
		}
		if err := p.Run(planes); err != nil {
			t.Fatalf("Unexpected error: %s", err.Error())
		}
		maps := p.Maps.(*memMaps).maps
		if len(maps) != 2 {
			t.Fatalf("Expected maps for 2 planes, got %d.", len(maps))
		}

		expCounts := [][io.NSpecies]int64{
			{0, 2, 0, 0, 0, 0},
			{0, 1, 0, 0, 0, 0},
		}
		for i, m := range maps {
			if m.Counts != expCounts[i] {
				t.Errorf("workers = %d, plane %d) counts = %v.",
					workers, i+1, m.Counts)
			}
			target := float64(expCounts[i][1]) * 2
			if !almostEq(m.Species[1].Sum(), target, 1e-9) ||
				!almostEq(m.Total.Sum(), target, 1e-9) {
				t.Errorf("workers = %d, plane %d) species sum = %g, "+
					"total = %g, not %g.", workers, i+1,
					m.Species[1].Sum(), m.Total.Sum(), target)
			}
			if m.Species[4].Sum() != 0 {
				t.Errorf("workers = %d, plane %d) type 4 map sums to %g.",
					workers, i+1, m.Species[4].Sum())
			}

			// Particles on the optical axis sit on the corner shared by
			// the four central cells.
			for _, c := range [][2]int{{1, 1}, {1, 2}, {2, 1}, {2, 2}} {
				if !almostEq(m.Total.At(c[0], c[1]), target/4, 1e-9) {
					t.Errorf("workers = %d, plane %d) cell %v = %g.",
						workers, i+1, c, m.Total.At(c[0], c[1]))
				}
			}
		}
	}
}

func TestPipelineWorkersMatch(t *testing.T) {
	serial, planes := testPipeline(t, 1)
	parallel, _ := testPipeline(t, 3)
	for _, p := range []*Pipeline{serial, parallel} {
		if err := p.Run(planes); err != nil {
			t.Fatal(err)
		}
	}
	sm, pm := serial.Maps.(*memMaps).maps, parallel.Maps.(*memMaps).maps
	for i := range sm {
		for k := range sm[i].Species {
			a, b := sm[i].Species[k].Data, pm[i].Species[k].Data
			for j := range a {
				if a[j] != b[j] {
					t.Errorf("Plane %d, species %d differs between runs.", i+1, k)
					break
				}
			}
		}
	}
}

func TestPipelineHalos(t *testing.T) {
	p, planes := testPipeline(t, 1)
	p.Halos = memHalos{7: &io.HaloCatalog{
		Groups: []io.FOFGroup{
			{ID: 0, Mass: 10, Pos: [3]float64{50e3, 50e3, 20e3}},
			{ID: 1, Mass: 20, Pos: [3]float64{0, 0, 50e3}},
		},
		Subhalos: []io.Subhalo{
			{ID: 3, Group: 0, Pos: [3]float64{50e3, 50e3, 50e3}},
		},
	}}
	p.Catalogs = &memCatalogs{}

	if err := p.Run(planes); err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	halos := p.Catalogs.(*memCatalogs).halos
	if len(halos) != 2 {
		t.Fatalf("Expected halos for 2 planes, got %d.", len(halos))
	}

	if len(halos[0].Groups) != 1 || halos[0].Groups[0].ID != 0 {
		t.Errorf("Plane 1 selected the groups %+v.", halos[0].Groups)
	} else {
		g := halos[0].Groups[0]
		if !almostEq(g.Sky.Dist, 20, 1e-9) || !almostEq(g.Redshift, 20.0/3000, 1e-12) {
			t.Errorf("Group 0 was placed at %+v, z = %g.", g.Sky, g.Redshift)
		}
	}
	if len(halos[0].Subhalos) != 1 || halos[0].Subhalos[0].ID != 3 {
		t.Errorf("Plane 1 selected the subhalos %+v.", halos[0].Subhalos)
	}

	// In the second replica the group is at 120 Mpc/h and the subhalo at
	// 150 Mpc/h, which is the far edge of the cone.
	if len(halos[1].Groups) != 1 || len(halos[1].Subhalos) != 0 {
		t.Errorf("Plane 2 selected %d groups and %d subhalos.",
			len(halos[1].Groups), len(halos[1].Subhalos))
	}
}

func TestPipelineErrors(t *testing.T) {
	p, planes := testPipeline(t, 1)
	p.Projector.BoxSize = 90
	var cerr *ConsistencyError
	if err := p.Run(planes); !errors.As(err, &cerr) {
		t.Errorf("Expected a ConsistencyError for the box size, got %v.", err)
	}

	p, planes = testPipeline(t, 1)
	p.Particles.(*memSource).nShard = 3
	if err := p.Run(planes); err == nil {
		t.Errorf("Expected an error for a missing shard.")
	}

	p, planes = testPipeline(t, 1)
	p.Replicas = p.Replicas[:1]
	if err := p.Run(planes); !errors.As(err, &cerr) {
		t.Errorf("Expected a ConsistencyError for a missing replica, got %v.", err)
	}

	p, planes = testPipeline(t, 1)
	planes[0].Snapshot.ID = 8
	if err := p.Run(planes); err == nil {
		t.Errorf("Expected an error for a missing snapshot.")
	}
}
