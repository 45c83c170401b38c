package cmd

import (
	"fmt"
	"log"
	"time"

	"github.com/phil-mansfield/lenscone/cmd/env"
	"github.com/phil-mansfield/lenscone/io"
	"github.com/phil-mansfield/lenscone/lightcone"
	"github.com/phil-mansfield/lenscone/logging"
	"github.com/phil-mansfield/lenscone/parse"
	"github.com/phil-mansfield/lenscone/render"
)

// MapsConfig contains the configuration fields for the 'maps' mode of the
// lenscone tool.
type MapsConfig struct {
	ConeConfig

	Pixels        int64
	SpeciesOutput string
	CompressFITS  bool
	Previews      bool
	PreviewScale  int64
	Workers       int64
}

var _ Mode = &MapsConfig{}

// ExampleConfig creates an example maps.config file.
func (config *MapsConfig) ExampleConfig() string {
	return "[maps.config]\n" + coneExample + `

# Width of each map in pixels.
Pixels = 2048

# 'all' writes one summed map per plane and 'each' writes one map per
# particle type present in the plane. Defaults to all.
SpeciesOutput = all

# Whether maps are gzipped (.fits.gz). Defaults to false.
# CompressFITS = false

# Whether a PNG preview of each plane is written, and how many image
# pixels each map pixel covers. Default to false and 1.
# Previews = false
# PreviewScale = 1

# Number of particle types rasterized at the same time. Defaults to 1.
# Workers = 1`
}

// ReadConfig reads in a maps.config file into config.
func (config *MapsConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("maps.config")
	config.addVars(vars)
	vars.Int(&config.Pixels, "Pixels", -1)
	vars.String(&config.SpeciesOutput, "SpeciesOutput", "all")
	vars.Bool(&config.CompressFITS, "CompressFITS", false)
	vars.Bool(&config.Previews, "Previews", false)
	vars.Int(&config.PreviewScale, "PreviewScale", 1)
	vars.Int(&config.Workers, "Workers", 1)

	if fname == "" {
		return fmt.Errorf("The maps mode needs a maps.config file.")
	}
	if err := parse.ReadConfig(fname, vars); err != nil {
		return err
	}
	return config.validate()
}

func (config *MapsConfig) validate() error {
	if err := config.ConeConfig.validate(); err != nil {
		return err
	}
	switch {
	case config.Pixels == -1:
		return fmt.Errorf("The 'Pixels' variable isn't set.")
	case config.Pixels <= 0:
		return fmt.Errorf("The 'Pixels' variable is set to %d, but it "+
			"must be positive.", config.Pixels)
	case config.PreviewScale <= 0:
		return fmt.Errorf("The 'PreviewScale' variable is set to %d, but "+
			"it must be positive.", config.PreviewScale)
	case config.Workers <= 0:
		return fmt.Errorf("The 'Workers' variable is set to %d, but it "+
			"must be positive.", config.Workers)
	}

	switch config.SpeciesOutput {
	case "all", "each":
	default:
		return fmt.Errorf("The 'SpeciesOutput' variable is set to '%s', "+
			"but it must be 'all' or 'each'.", config.SpeciesOutput)
	}
	return nil
}

// Run executes the maps mode of the lenscone tool.
func (config *MapsConfig) Run(
	flags []string, gConfig *GlobalConfig, e *env.Environment, stdin []string,
) ([]string, error) {
	if len(flags) > 0 {
		return nil, fmt.Errorf("The maps mode doesn't take flags, but "+
			"was given %v.", flags)
	}

	if logging.Mode != logging.Nil {
		log.Println(`
###################
## lenscone maps ##
###################`,
		)
	}
	var t time.Time
	if logging.Mode >= logging.Performance {
		t = time.Now()
	}

	c, err := config.Build(gConfig)
	if err != nil {
		return nil, err
	}
	if err = e.Validate(planeSnapshots(c.Planes)); err != nil {
		return nil, err
	}

	snaps, err := io.NewSnapshots(e, gConfig.SnapshotType, gConfig.Order(),
		io.DefaultCacheSize)
	if err != nil {
		return nil, err
	}

	names := &render.Namer{Dir: gConfig.OutputDir,
		Simulation: gConfig.Simulation, Pixels: int(config.Pixels)}
	sinks := render.MapSinks{&render.FITSSink{
		Names: names, FieldOfView: config.FieldOfView,
		EachSpecies: config.SpeciesOutput == "each",
		Compress:    config.CompressFITS,
	}}
	if config.Previews {
		sinks = append(sinks, &render.PreviewSink{
			Names: names, Scale: int(config.PreviewScale),
		})
	}

	p := &lightcone.Pipeline{
		Projector: c.Projector,
		Table:     c.Table,
		Replicas:  c.Replicas,
		Pixels:    int(config.Pixels),
		Workers:   int(config.Workers),
		Particles: snaps,
		Maps:      sinks,
	}
	if e.HasHalos() {
		halos, err := io.NewHalos(e, io.DefaultCacheSize)
		if err != nil {
			return nil, err
		}
		p.Halos, p.Catalogs = halos, &render.HaloSink{Names: names}
	}

	err = writeCone("maps", gConfig, &config.ConeConfig, c, names,
		func(m *render.Manifest) {
			m.Geometry.Pixels = int(config.Pixels)
			m.Outputs.Species = config.SpeciesOutput
			m.Outputs.Compress = config.CompressFITS
			m.Outputs.Previews = config.Previews
		})
	if err != nil {
		return nil, err
	}

	if err = p.Run(c.Planes); err != nil {
		return nil, err
	}

	if logging.Mode >= logging.Performance {
		log.Printf("Time: %s", time.Since(t).String())
		log.Printf("Memory:\n%s", logging.MemString())
	}
	return nil, nil
}

// planeSnapshots returns the ids of the snapshots used by planes, without
// repeats.
func planeSnapshots(planes []lightcone.Plane) []int {
	seen := map[int]bool{}
	ids := []int{}
	for _, p := range planes {
		if !seen[p.Snapshot.ID] {
			seen[p.Snapshot.ID] = true
			ids = append(ids, p.Snapshot.ID)
		}
	}
	return ids
}
