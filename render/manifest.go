package render

import (
	"fmt"
	"os"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/yaml.v3"

	"github.com/phil-mansfield/lenscone/cosmo"
	"github.com/phil-mansfield/lenscone/lightcone"
)

// Manifest describes a finished run: how the cone was built and what it
// contains. It is written as manifest.yaml next to the maps.
type Manifest struct {
	Version    string        `yaml:"version"`
	Mode       string        `yaml:"mode"`
	Simulation string        `yaml:"simulation"`
	Geometry   GeometryInfo  `yaml:"geometry"`
	Cosmology  CosmologyInfo `yaml:"cosmology"`
	Random     RandomInfo    `yaml:"randomization"`
	Outputs    OutputInfo    `yaml:"outputs"`
	Planes     []PlaneInfo   `yaml:"planes"`
	Replicas   []ReplicaInfo `yaml:"replicas"`
}

// GeometryInfo is the size and shape of the cone. Distances are in Mpc/h
// and angles in degrees.
type GeometryInfo struct {
	BoxSize        float64 `yaml:"box_size"`
	SourceRedshift float64 `yaml:"source_redshift"`
	SourceDistance float64 `yaml:"source_distance"`
	FieldOfView    float64 `yaml:"field_of_view"`
	Pixels         int     `yaml:"pixels,omitempty"`
}

// CosmologyInfo holds the cosmological parameters of the run. Densities
// are in (Msun/h) / (Mpc/h)^3.
type CosmologyInfo struct {
	OmegaM      float64 `yaml:"omega_m"`
	OmegaL      float64 `yaml:"omega_l"`
	H100        float64 `yaml:"h100"`
	RhoMean     float64 `yaml:"rho_mean"`
	RhoCritical float64 `yaml:"rho_critical"`
}

// RandomInfo records where the replica orientations came from.
type RandomInfo struct {
	ConeFile   string `yaml:"cone_file,omitempty"`
	Generator  string `yaml:"generator,omitempty"`
	SeedCenter int64  `yaml:"seed_center"`
	SeedFace   int64  `yaml:"seed_face"`
	SeedSign   int64  `yaml:"seed_sign"`
}

// OutputInfo lists the files of the run.
type OutputInfo struct {
	PlaneList string `yaml:"plane_list"`
	Cone      string `yaml:"cone"`
	Species   string `yaml:"species,omitempty"`
	Compress  bool   `yaml:"compress,omitempty"`
	Previews  bool   `yaml:"previews,omitempty"`
}

// PlaneInfo is one plane of the cone.
type PlaneInfo struct {
	Index            int     `yaml:"index"`
	MidRedshift      float64 `yaml:"mid_redshift"`
	DistLow          float64 `yaml:"dist_low"`
	DistHigh         float64 `yaml:"dist_high"`
	Replica          int     `yaml:"replica"`
	Snapshot         int     `yaml:"snapshot"`
	SnapshotRedshift float64 `yaml:"snapshot_redshift"`
}

// ReplicaInfo is the orientation of one box replica. Center is in units
// of the box size. Rotation holds the rows of the signed permutation
// matrix taking box coordinates to cone coordinates.
type ReplicaInfo struct {
	Index    int         `yaml:"index"`
	Face     string      `yaml:"face"`
	Signs    []float64   `yaml:"signs,flow"`
	Center   []float64   `yaml:"center,flow"`
	Rotation [][]float64 `yaml:"rotation,flow"`
}

// NewCosmologyInfo fills in the densities of a cosmology.
func NewCosmologyInfo(omegaM, omegaL, h100 float64) CosmologyInfo {
	return CosmologyInfo{
		OmegaM: omegaM, OmegaL: omegaL, H100: h100,
		RhoMean:     cosmo.RhoAverage(omegaM, omegaL),
		RhoCritical: cosmo.RhoCritical(omegaM, omegaL, 0),
	}
}

// SetPlanes records the planes and replicas of a cone.
func (m *Manifest) SetPlanes(planes []lightcone.Plane, reps []lightcone.Replica) {
	m.Planes = make([]PlaneInfo, len(planes))
	for i, p := range planes {
		m.Planes[i] = PlaneInfo{
			Index: p.Index, MidRedshift: p.MidRedshift,
			DistLow: p.DistLow, DistHigh: p.DistHigh, Replica: p.Replica,
			Snapshot: p.Snapshot.ID, SnapshotRedshift: p.Snapshot.Redshift,
		}
	}
	m.Replicas = make([]ReplicaInfo, len(reps))
	for i, r := range reps {
		rot := r.Face.Matrix(r.Signs)
		rows := make([][]float64, 3)
		for j := range rows {
			rows[j] = mat.Row(nil, j, rot)
		}
		m.Replicas[i] = ReplicaInfo{
			Index: r.Index, Face: r.Face.String(),
			Signs:    []float64{r.Signs[0], r.Signs[1], r.Signs[2]},
			Center:   []float64{r.Center[0], r.Center[1], r.Center[2]},
			Rotation: rows,
		}
	}
}

// WriteManifest writes a manifest as YAML.
func WriteManifest(fname string, m *Manifest) error {
	out, err := yaml.Marshal(m)
	if err != nil {
		return err
	}
	if err = os.WriteFile(fname, out, 0644); err != nil {
		return fmt.Errorf("Could not write the manifest %s: %w", fname, err)
	}
	return nil
}

// ReadManifest reads a manifest written by WriteManifest.
func ReadManifest(fname string) (*Manifest, error) {
	data, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	m := &Manifest{}
	if err = yaml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("Could not parse the manifest %s: %w", fname, err)
	}
	return m, nil
}
