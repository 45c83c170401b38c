package render

import (
	"bytes"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"

	"github.com/phil-mansfield/lenscone/catalog"
	"github.com/phil-mansfield/lenscone/io"
	"github.com/phil-mansfield/lenscone/lightcone"
)

func testMaps() *lightcone.PlaneMaps {
	m := &lightcone.PlaneMaps{
		Plane: lightcone.Plane{
			Index: 3, Snapshot: lightcone.Snapshot{ID: 60, Redshift: 0.25},
			Replica: 1, DistLow: 140, DistHigh: 210, MidRedshift: 0.06,
		},
		Header: &io.Header{
			Mass:     [io.NSpecies]float64{0.1, 0.5, 0, 0, 0.05, 0},
			Redshift: 0.25, H100: 0.7, OmegaM: 0.3, OmegaL: 0.7,
			BoxSize: 100e3,
		},
		Counts: [io.NSpecies]int64{4, 2, 0, 0, 0, 0},
		Total:  lightcone.NewGrid(4),
	}
	for k := range m.Species {
		m.Species[k] = lightcone.NewGrid(4)
	}
	m.Species[0].Data[5] = 0.4
	m.Species[1].Data[5], m.Species[1].Data[6] = 0.6, 0.4
	m.Total.Add(m.Species[0])
	m.Total.Add(m.Species[1])
	return m
}

func TestNamer(t *testing.T) {
	n := &Namer{Dir: "out", Simulation: "sim", Pixels: 2048}
	tests := []struct {
		name, expected string
	}{
		{n.Map(7, TotalSpecies, false), "out/sim.007.plane_2048.fits"},
		{n.Map(12, 1, true), "out/sim.012.ptype1_plane_2048.fits.gz"},
		{n.Preview(7), "out/sim.007.plane_2048.png"},
		{n.Groups(7), "out/fofinfield_sim.007.dat"},
		{n.Subhalos(7), "out/subinfield_sim.007.dat"},
		{n.PlaneList(), "out/planes_list.txt"},
		{n.Cone(), "out/sim.cone"},
		{n.Manifest(), "out/manifest.yaml"},
	}
	for i := range tests {
		if filepath.ToSlash(tests[i].name) != tests[i].expected {
			t.Errorf("%d) Got the name %s, expected %s.",
				i, tests[i].name, tests[i].expected)
		}
	}
}

func TestWriteReadFITS(t *testing.T) {
	m := testMaps()
	buf := &bytes.Buffer{}
	if err := WriteFITS(buf, m.Total, MapCards(m, TotalSpecies, 5)); err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}

	g, hdr, err := ReadFITS(buf)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if g.N != 4 {
		t.Fatalf("Read a %d x %d map.", g.N, g.N)
	}
	for i := range g.Data {
		if math.Abs(g.Data[i]-m.Total.Data[i]) > 1e-6 {
			t.Errorf("Pixel %d is %g, not %g.", i, g.Data[i], m.Total.Data[i])
		}
	}

	floatKeys := []struct {
		name  string
		value float64
	}{
		{"REDSHIFT", 0.25}, {"PHYSSIZE", 5}, {"PIXUNIT", 1e10 / 0.7},
		{"DLLOW", 200}, {"DLUP", 300}, {"HUBBLE", 0.7}, {"M1", 0.5},
	}
	for i := range floatKeys {
		card := hdr.Get(floatKeys[i].name)
		if card == nil {
			t.Errorf("%d) The key %s is missing.", i, floatKeys[i].name)
			continue
		}
		x, ok := cardFloat(card.Value)
		if !ok || math.Abs(x-floatKeys[i].value) > 1e-6*math.Abs(floatKeys[i].value) {
			t.Errorf("%d) %s = %v, not %g.", i, floatKeys[i].name,
				card.Value, floatKeys[i].value)
		}
	}
	for _, key := range []string{"NPART0", "NPART5", "M5", "OMEGAM", "OMEGAL"} {
		if hdr.Get(key) == nil {
			t.Errorf("The key %s is missing.", key)
		}
	}
}

func cardFloat(v interface{}) (float64, bool) {
	switch x := v.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int:
		return float64(x), true
	case int64:
		return float64(x), true
	}
	return 0, false
}

func TestMapCardsSpecies(t *testing.T) {
	m := testMaps()
	cards := MapCards(m, 1, 5)
	names := map[string]bool{}
	for _, c := range cards {
		names[c.Name] = true
	}
	if !names["NPART1"] || !names["M1"] || names["NPART0"] || names["M4"] {
		t.Errorf("Species 1 has the cards %v.", names)
	}
	if len(MapCards(m, TotalSpecies, 5)) != len(cards)+10 {
		t.Errorf("The summed map has %d cards.", len(MapCards(m, TotalSpecies, 5)))
	}
}

func TestFITSSink(t *testing.T) {
	dir := t.TempDir()
	names := &Namer{Dir: dir, Simulation: "sim", Pixels: 4}
	m := testMaps()

	sink := &FITSSink{Names: names, FieldOfView: 5, EachSpecies: true}
	if err := sink.WriteMaps(m); err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	for k := 0; k < io.NSpecies; k++ {
		_, err := os.Stat(names.Map(3, k, false))
		if exists := err == nil; exists != (m.Counts[k] > 0) {
			t.Errorf("Species %d map exists: %v, but it has %d particles.",
				k, exists, m.Counts[k])
		}
	}

	sink = &FITSSink{Names: names, FieldOfView: 5, Compress: true}
	if err := sink.WriteMaps(m); err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	f, err := os.Open(names.Map(3, TotalSpecies, true))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	zr, err := gzip.NewReader(f)
	if err != nil {
		t.Fatalf("The compressed map isn't gzipped: %s", err.Error())
	}
	g, _, err := ReadFITS(zr)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if math.Abs(g.Sum()-m.Total.Sum()) > 1e-6 {
		t.Errorf("The compressed map sums to %g, not %g.", g.Sum(), m.Total.Sum())
	}
}

func TestColormap(t *testing.T) {
	cmap, err := NewColormap([]color.RGBA{{0, 0, 0, 255}, {200, 100, 50, 255}})
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		t float64
		c color.RGBA
	}{
		{0, color.RGBA{0, 0, 0, 255}},
		{-1, color.RGBA{0, 0, 0, 255}},
		{0.5, color.RGBA{100, 50, 25, 255}},
		{1, color.RGBA{200, 100, 50, 255}},
		{3, color.RGBA{200, 100, 50, 255}},
	}
	for i := range tests {
		if c := cmap.At(tests[i].t); c != tests[i].c {
			t.Errorf("%d) At(%g) = %v, not %v.", i, tests[i].t, c, tests[i].c)
		}
	}

	if _, err = NewColormap([]color.RGBA{{}}); err == nil {
		t.Errorf("Expected an error for a single anchor.")
	}
	if Viridis.At(0) != viridisAnchors[0] || Viridis.At(1) != viridisAnchors[10] {
		t.Errorf("Viridis has the wrong endpoints.")
	}
}

func TestRenderPreview(t *testing.T) {
	g := lightcone.NewGrid(2)
	g.Data[0], g.Data[3] = 1, 100
	dc := RenderPreview(g, Viridis, 10)
	img := dc.Image()
	if b := img.Bounds(); b.Dx() != 20 || b.Dy() != 20 {
		t.Fatalf("The preview is %d x %d.", b.Dx(), b.Dy())
	}

	// Cell (0, 0) is at the bottom left and cell (1, 1) at the top right.
	tests := []struct {
		x, y int
		c    color.RGBA
	}{
		{5, 15, viridisAnchors[0]},
		{15, 5, viridisAnchors[10]},
		{15, 15, viridisAnchors[0]},
	}
	for i := range tests {
		r, gr, b, _ := img.At(tests[i].x, tests[i].y).RGBA()
		c := tests[i].c
		if absDiff(r>>8, uint32(c.R)) > 1 || absDiff(gr>>8, uint32(c.G)) > 1 ||
			absDiff(b>>8, uint32(c.B)) > 1 {
			t.Errorf("%d) Pixel (%d, %d) is (%d, %d, %d), not %v.",
				i, tests[i].x, tests[i].y, r>>8, gr>>8, b>>8, c)
		}
	}
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}

func TestHaloLines(t *testing.T) {
	groups := []lightcone.SelectedGroup{
		{FOFGroup: io.FOFGroup{ID: 4, Mass: 12.5, M200: 10, R200: 0.3},
			Sky: lightcone.Projection{RA: 0.01, Dec: -0.02, Dist: 150},
			Redshift: 0.05},
	}
	header, lines := GroupLines(groups)
	if !strings.HasPrefix(header, "# Column contents: ID(0) Mass(1) RA(2)") {
		t.Errorf("Group header is '%s'.", header)
	}
	if len(lines) != 1 {
		t.Fatalf("Got %d group lines.", len(lines))
	}
	if fields := strings.Fields(lines[0]); len(fields) != 8 ||
		fields[0] != "4" || fields[3] != "-0.02" || fields[5] != "150" {
		t.Errorf("Group line is '%s'.", lines[0])
	}

	subs := []lightcone.SelectedSubhalo{
		{Subhalo: io.Subhalo{ID: 9, Group: 4, Mass: 1.5, VMax: 200, RMax: 0.02},
			Sky: lightcone.Projection{RA: 0.01, Dec: 0.02, Dist: 150},
			Redshift: 0.05},
	}
	_, lines = SubhaloLines(subs)
	if fields := strings.Fields(lines[0]); len(fields) != 11 ||
		fields[1] != "4" || fields[4] != "150" || fields[5] != "0.05" ||
		fields[10] != "0.02" {
		t.Errorf("Subhalo line is '%s'.", lines[0])
	}

	dir := t.TempDir()
	sink := &HaloSink{Names: &Namer{Dir: dir, Simulation: "sim"}}
	err := sink.WriteHalos(&lightcone.PlaneHalos{
		Plane: lightcone.Plane{Index: 2}, Groups: groups,
	})
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	data, err := os.ReadFile(filepath.Join(dir, "subinfield_sim.002.dat"))
	if err != nil || strings.Count(string(data), "\n") != 1 {
		t.Errorf("The empty subhalo catalogue is '%s', %v.", data, err)
	}
}

func TestPlaneList(t *testing.T) {
	planes := []lightcone.Plane{
		{Index: 1, Snapshot: lightcone.Snapshot{ID: 62, Redshift: 0},
			Replica: 0, DistLow: 0, DistHigh: 100, MidRedshift: 0.0166},
		{Index: 2, Snapshot: lightcone.Snapshot{ID: 58, Redshift: 0.1},
			Replica: 1, DistLow: 100, DistHigh: 250, MidRedshift: 0.058},
	}
	header, lines := PlaneLines(planes)
	if !strings.Contains(header, "Plane(0) MidRedshift(1) DistLow(2) "+
		"DistHigh(3) Replica(4) Snapshot(5) SnapshotRedshift(6)") {
		t.Errorf("Plane list header is '%s'.", header)
	}
	expected := [][]string{
		{"1", "0.0166", "0", "100", "0", "62", "0"},
		{"2", "0.058", "100", "250", "1", "58", "0.1"},
	}
	for i := range expected {
		fields := strings.Fields(lines[i])
		if strings.Join(fields, " ") != strings.Join(expected[i], " ") {
			t.Errorf("%d) Plane line is '%s'.", i, lines[i])
		}
	}

	fname := filepath.Join(t.TempDir(), "planes_list.txt")
	if err := WritePlaneList(fname, planes); err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	_, fcols, err := catalog.ReadFile(fname, []int{0}, []int{2, 3})
	if err != nil || fcols[1][1] != 250 {
		t.Errorf("Reading the plane list gave %v, %v.", fcols, err)
	}
}

func TestManifest(t *testing.T) {
	planes := []lightcone.Plane{
		{Index: 1, Snapshot: lightcone.Snapshot{ID: 62}, DistHigh: 100},
	}
	reps := []lightcone.Replica{{Index: 0, Face: lightcone.FaceZXY,
		Signs: [3]float64{1, -1, 1}, Center: [3]float64{0.5, 0.25, 0}}}

	m := &Manifest{
		Version: "0.4.1", Mode: "maps", Simulation: "sim",
		Geometry:  GeometryInfo{BoxSize: 100, SourceRedshift: 1, FieldOfView: 1},
		Cosmology: NewCosmologyInfo(0.3, 0.7, 0.7),
	}
	m.SetPlanes(planes, reps)
	if math.Abs(m.Cosmology.RhoCritical/2.775e11-1) > 1e-2 ||
		math.Abs(m.Cosmology.RhoMean/m.Cosmology.RhoCritical-0.3) > 1e-12 {
		t.Errorf("Densities are %+v.", m.Cosmology)
	}

	fname := filepath.Join(t.TempDir(), "manifest.yaml")
	if err := WriteManifest(fname, m); err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	data, _ := os.ReadFile(fname)
	if !strings.Contains(string(data), "face: zxy") {
		t.Errorf("The manifest doesn't record the face:\n%s", data)
	}

	read, err := ReadManifest(fname)
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if read.Simulation != "sim" || len(read.Planes) != 1 ||
		read.Planes[0].DistHigh != 100 || read.Replicas[0].Signs[1] != -1 ||
		read.Geometry.BoxSize != 100 {
		t.Errorf("Read the manifest %+v.", read)
	}

	rot := reps[0].Face.Matrix(reps[0].Signs)
	if len(read.Replicas[0].Rotation) != 3 {
		t.Fatalf("Read the rotation %v.", read.Replicas[0].Rotation)
	}
	for i, row := range read.Replicas[0].Rotation {
		if len(row) != 3 {
			t.Fatalf("%d) Read the rotation row %v.", i, row)
		}
		for j := range row {
			if row[j] != rot.At(i, j) {
				t.Errorf("(%d, %d) Rotation is %g, not %g.",
					i, j, row[j], rot.At(i, j))
			}
		}
	}
}

func TestMapSinks(t *testing.T) {
	dir := t.TempDir()
	names := &Namer{Dir: dir, Simulation: "sim", Pixels: 4}
	sinks := MapSinks{
		&FITSSink{Names: names, FieldOfView: 5},
		&PreviewSink{Names: names, Scale: 2},
	}
	if err := sinks.WriteMaps(testMaps()); err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	for _, fname := range []string{names.Map(3, TotalSpecies, false),
		names.Preview(3)} {
		if _, err := os.Stat(fname); err != nil {
			t.Errorf("%s wasn't written.", fname)
		}
	}

	names.Dir = filepath.Join(dir, "missing")
	if err := sinks.WriteMaps(testMaps()); err == nil {
		t.Errorf("Expected an error for a missing directory.")
	}
}
