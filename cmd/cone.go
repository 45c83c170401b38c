package cmd

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/phil-mansfield/lenscone/io"
	"github.com/phil-mansfield/lenscone/lightcone"
	"github.com/phil-mansfield/lenscone/logging"
	"github.com/phil-mansfield/lenscone/math/rand"
	"github.com/phil-mansfield/lenscone/parse"
	"github.com/phil-mansfield/lenscone/render"
	"github.com/phil-mansfield/lenscone/version"
)

// ConeConfig holds the variables shared by every mode which lays out a
// light cone.
type ConeConfig struct {
	BoxSize, SourceRedshift, FieldOfView float64

	SeedCenter, SeedFace, SeedSign int64
	Generator                      string
	ConeFile                       string

	MaxSplits, MaxSnapshots int64

	gen rand.GeneratorType
}

func (config *ConeConfig) addVars(vars *parse.ConfigVars) {
	vars.Float(&config.BoxSize, "BoxSize", -1)
	vars.Float(&config.SourceRedshift, "SourceRedshift", -1)
	vars.Float(&config.FieldOfView, "FieldOfView", -1)
	vars.Int(&config.SeedCenter, "SeedCenter", 1)
	vars.Int(&config.SeedFace, "SeedFace", 2)
	vars.Int(&config.SeedSign, "SeedSign", 3)
	vars.String(&config.Generator, "Generator", "Xorshift")
	vars.String(&config.ConeFile, "ConeFile", "")
	vars.Int(&config.MaxSplits, "MaxSplits", lightcone.MaxSplits)
	vars.Int(&config.MaxSnapshots, "MaxSnapshots", lightcone.MaxSnapshots)
}

func (config *ConeConfig) validate() error {
	switch {
	case config.BoxSize == -1:
		return fmt.Errorf("The 'BoxSize' variable isn't set.")
	case config.BoxSize <= 0:
		return fmt.Errorf("The 'BoxSize' variable is set to %g, but it "+
			"must be positive.", config.BoxSize)
	case config.SourceRedshift == -1:
		return fmt.Errorf("The 'SourceRedshift' variable isn't set.")
	case config.SourceRedshift <= 0:
		return fmt.Errorf("The 'SourceRedshift' variable is set to %g, "+
			"but it must be positive.", config.SourceRedshift)
	case config.FieldOfView == -1:
		return fmt.Errorf("The 'FieldOfView' variable isn't set.")
	case config.FieldOfView <= 0 || config.FieldOfView >= 180:
		return fmt.Errorf("The 'FieldOfView' variable is set to %g, but "+
			"it must be between 0 and 180 degrees.", config.FieldOfView)
	case config.MaxSplits <= 0:
		return fmt.Errorf("The 'MaxSplits' variable is set to %d, but it "+
			"must be positive.", config.MaxSplits)
	case config.MaxSnapshots <= 0:
		return fmt.Errorf("The 'MaxSnapshots' variable is set to %d, but "+
			"it must be positive.", config.MaxSnapshots)
	}

	var err error
	if config.gen, err = rand.ParseGeneratorType(config.Generator); err != nil {
		return fmt.Errorf("The 'Generator' variable is invalid: %s",
			err.Error())
	}

	if config.ConeFile != "" {
		if err = validateFile(config.ConeFile); err != nil {
			return fmt.Errorf("The 'ConeFile' variable is set to '%s', "+
				"but %s", config.ConeFile, err.Error())
		}
	}
	return nil
}

const coneExample = `# Size of the simulation box in Mpc/h. It must match the snapshot headers.
BoxSize = 500

# Redshift of the source plane. The cone runs from the observer to here.
SourceRedshift = 1.0

# Width of the square field of view in degrees.
FieldOfView = 5

# Seeds of the random streams which pick the center, face, and axis
# reflections of each box replica, and the generator drawing them. One of
# Xorshift, Golang, or Tausworthe.
SeedCenter = 1
SeedFace = 2
SeedSign = 3
Generator = Xorshift

# A .cone file written by an earlier run. If set, its planes and replica
# orientations are reused and the seeds and SnapshotList are ignored.
#
# ConeFile = path/to/L500_N1024.cone

# Safety limits. A single snapshot shell may span at most MaxSplits boxes
# and snapshot ids must be below MaxSnapshots.
#
# MaxSplits = 512
# MaxSnapshots = 1024`

// Cone is a laid out light cone: its planes, the orientation of each box
// replica, and the tools to project positions onto it.
type Cone struct {
	Table     *lightcone.DistanceTable
	Planes    []lightcone.Plane
	Replicas  []lightcone.Replica
	Projector *lightcone.Projector
	// SourceDistance is the comoving distance to the source in Mpc/h.
	SourceDistance float64
}

// Build lays out the light cone, either from the snapshot list or from
// ConeFile.
func (config *ConeConfig) Build(gConfig *GlobalConfig) (*Cone, error) {
	zs := config.SourceRedshift
	table, err := gConfig.Distances(zs)
	if err != nil {
		return nil, err
	}
	ds, err := table.SourceDistance(zs)
	if err != nil {
		return nil, err
	}

	rl, err := io.ReadRedshiftList(gConfig.RedshiftList)
	if err != nil {
		return nil, err
	}
	cat, err := lightcone.NewSnapshotCatalog(rl, int(config.MaxSnapshots))
	if err != nil {
		return nil, err
	}

	c := &Cone{Table: table, SourceDistance: ds}
	if config.ConeFile != "" {
		err = config.importCone(c, cat)
	} else {
		err = config.drawCone(c, gConfig, cat)
	}
	if err != nil {
		return nil, err
	}

	c.Projector, err = lightcone.NewProjector(config.BoxSize,
		config.FieldOfView, ds)
	if err != nil {
		return nil, err
	}

	logging.Perff("The cone reaches %.2f Mpc/h with %d planes and %d "+
		"replicas.", ds, len(c.Planes), len(c.Replicas))
	for _, r := range c.Replicas {
		logging.Debugf("Replica %d: face %s, signs %v, center %.4f",
			r.Index, r.Face, r.Signs, r.Center)
	}
	return c, nil
}

func (config *ConeConfig) drawCone(
	c *Cone, gConfig *GlobalConfig, cat *lightcone.SnapshotCatalog,
) error {
	if gConfig.SnapshotList == "" {
		return fmt.Errorf("Neither the 'SnapshotList' nor the 'ConeFile' " +
			"variable is set, so there are no snapshots to build the " +
			"cone from.")
	}
	ids, err := io.ReadSnapshotList(gConfig.SnapshotList)
	if err != nil {
		return err
	}
	snaps, next, err := cat.Select(ids, config.SourceRedshift)
	if err != nil {
		return err
	}

	c.Planes, err = lightcone.Partition(c.Table, snaps, next,
		lightcone.PartitionParams{
			BoxSize:        config.BoxSize,
			SourceRedshift: config.SourceRedshift,
			MaxSplits:      int(config.MaxSplits),
		})
	if err != nil {
		return err
	}

	seeds := lightcone.Seeds{
		Center: config.SeedCenter, Face: config.SeedFace, Sign: config.SeedSign,
	}
	c.Replicas = lightcone.DrawReplicas(lightcone.Replicas(c.Planes),
		seeds, config.gen)
	return nil
}

func (config *ConeConfig) importCone(
	c *Cone, cat *lightcone.SnapshotCatalog,
) error {
	rec, err := io.ReadCone(config.ConeFile)
	if err != nil {
		return err
	}
	if math.Abs(rec.BoxSize-config.BoxSize) > lightcone.BoxSizeTolerance {
		return &lightcone.ConsistencyError{Msg: fmt.Sprintf("The cone file "+
			"%s was made for a %g Mpc/h box, but 'BoxSize' = %g.",
			config.ConeFile, rec.BoxSize, config.BoxSize)}
	}

	if c.Planes, err = lightcone.ImportPlanes(rec, c.Table, cat); err != nil {
		return err
	}
	far := c.Planes[len(c.Planes)-1].DistHigh
	if math.Abs(far-c.SourceDistance) > lightcone.BoxSizeTolerance {
		return &lightcone.ConsistencyError{Msg: fmt.Sprintf("The cone file "+
			"%s ends at %g Mpc/h, but the source is at %g Mpc/h.",
			config.ConeFile, far, c.SourceDistance)}
	}

	if c.Replicas, err = lightcone.ImportReplicas(rec); err != nil {
		return err
	}
	if n := lightcone.Replicas(c.Planes); n > len(c.Replicas) {
		return &lightcone.ConfigError{Msg: fmt.Sprintf("The planes of the "+
			"cone file %s use %d replicas, but it only has %d cubes.",
			config.ConeFile, n, len(c.Replicas))}
	}
	return nil
}

// writeCone writes the plane list, the cone record, and the manifest of a
// run. setOutputs fills in the mode-specific parts of the manifest.
func writeCone(
	mode string, gConfig *GlobalConfig, config *ConeConfig, c *Cone,
	names *render.Namer, setOutputs func(m *render.Manifest),
) error {
	if err := render.WritePlaneList(names.PlaneList(), c.Planes); err != nil {
		return err
	}

	rec := lightcone.ExportCone(c.Planes, c.Replicas, lightcone.ConeGeometry{
		BoxSize: config.BoxSize, OmegaM: gConfig.OmegaM,
		OmegaL: gConfig.OmegaL, SourceRedshift: config.SourceRedshift,
		SourceDistance: c.SourceDistance, FieldOfView: config.FieldOfView,
	})
	f, err := os.Create(names.Cone())
	if err != nil {
		return err
	}
	err = io.WriteCone(f, rec)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("Could not write the cone file %s: %w",
			names.Cone(), err)
	}

	m := &render.Manifest{
		Version:    version.SourceVersion,
		Mode:       mode,
		Simulation: gConfig.Simulation,
		Geometry: render.GeometryInfo{
			BoxSize:        config.BoxSize,
			SourceRedshift: config.SourceRedshift,
			SourceDistance: c.SourceDistance,
			FieldOfView:    config.FieldOfView,
		},
		Cosmology: render.NewCosmologyInfo(gConfig.OmegaM, gConfig.OmegaL,
			gConfig.H100),
		Random: render.RandomInfo{
			ConeFile:   config.ConeFile,
			Generator:  config.gen.String(),
			SeedCenter: config.SeedCenter,
			SeedFace:   config.SeedFace,
			SeedSign:   config.SeedSign,
		},
		Outputs: render.OutputInfo{
			PlaneList: filepath.Base(names.PlaneList()),
			Cone:      filepath.Base(names.Cone()),
		},
	}
	m.SetPlanes(c.Planes, c.Replicas)
	if setOutputs != nil {
		setOutputs(m)
	}
	return render.WriteManifest(names.Manifest(), m)
}
