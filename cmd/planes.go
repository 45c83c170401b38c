package cmd

import (
	"fmt"
	"log"

	"github.com/phil-mansfield/lenscone/cmd/env"
	"github.com/phil-mansfield/lenscone/logging"
	"github.com/phil-mansfield/lenscone/parse"
	"github.com/phil-mansfield/lenscone/render"
)

// PlanesConfig contains the configuration fields for the 'planes' mode of
// the lenscone tool. It lays out a cone without reading any particles.
type PlanesConfig struct {
	ConeConfig
}

var _ Mode = &PlanesConfig{}

// ExampleConfig creates an example planes.config file.
func (config *PlanesConfig) ExampleConfig() string {
	return "[planes.config]\n" + coneExample
}

// ReadConfig reads in a planes.config file into config.
func (config *PlanesConfig) ReadConfig(fname string) error {
	vars := parse.NewConfigVars("planes.config")
	config.addVars(vars)

	if fname == "" {
		return fmt.Errorf("The planes mode needs a planes.config file.")
	}
	if err := parse.ReadConfig(fname, vars); err != nil {
		return err
	}
	return config.validate()
}

// Run executes the planes mode of the lenscone tool. It writes the plane
// list, cone file, and manifest and returns the plane list.
func (config *PlanesConfig) Run(
	flags []string, gConfig *GlobalConfig, e *env.Environment, stdin []string,
) ([]string, error) {
	if len(flags) > 0 {
		return nil, fmt.Errorf("The planes mode doesn't take flags, but "+
			"was given %v.", flags)
	}

	if logging.Mode != logging.Nil {
		log.Println(`
#####################
## lenscone planes ##
#####################`,
		)
	}

	c, err := config.Build(gConfig)
	if err != nil {
		return nil, err
	}

	names := &render.Namer{Dir: gConfig.OutputDir,
		Simulation: gConfig.Simulation}
	if err = writeCone("planes", gConfig, &config.ConeConfig, c, names, nil); err != nil {
		return nil, err
	}

	header, lines := render.PlaneLines(c.Planes)
	return append([]string{header}, lines...), nil
}
