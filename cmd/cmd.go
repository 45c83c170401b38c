/*package cmd contains code for running lenscone in its various command
line modes */
package cmd

import (
	"encoding/binary"
	"fmt"
	"os"
	"strings"

	"github.com/phil-mansfield/lenscone/cmd/env"
	"github.com/phil-mansfield/lenscone/cosmo"
	"github.com/phil-mansfield/lenscone/io"
	"github.com/phil-mansfield/lenscone/lightcone"
	"github.com/phil-mansfield/lenscone/logging"
	"github.com/phil-mansfield/lenscone/parse"
	"github.com/phil-mansfield/lenscone/version"
)

// DistanceStep is the redshift spacing of distance tables computed from
// the cosmology.
const DistanceStep = 0.001

var ModeNames map[string]Mode = map[string]Mode{
	"planes": &PlanesConfig{},
	"maps":   &MapsConfig{},
}

// Mode represents the interface used by the main binary when interacting with
// a given command line mode.
type Mode interface {
	// ReadConfig reads a mode-specific config file and stores its contents
	// within the Mode.
	ReadConfig(fname string) error
	// ExampleConfig returns the text of an example config file of this mode.
	ExampleConfig() string
	// Run executes the mode. It takes a list of tokenized command line flags,
	// an initialized GlobalConfig struct, the file names of the simulation,
	// and a slice of lines representing the contents of stdin. It will
	// return a slice of lines that should be written to stdout along with
	// an error if one occurs.
	Run(
		flags []string, gConfig *GlobalConfig, e *env.Environment,
		stdin []string,
	) ([]string, error)
}

// GlobalConfig is a config file used by every mode. It contains information on
// where the simulation's files are and how to read them.
type GlobalConfig struct {
	Version string

	Simulation     string
	SnapshotFormat string
	SnapshotType   string
	Files          int64
	ByteOrder      string

	RedshiftList  string
	SnapshotList  string
	DistanceTable string

	OmegaM, OmegaL, H100 float64

	HaloFormat, SubhaloFormat string

	OutputDir string
	LogMode   string

	order   binary.ByteOrder
	logFlag logging.Flag
}

var _ Mode = &GlobalConfig{}

func (config *GlobalConfig) vars() *parse.ConfigVars {
	vars := parse.NewConfigVars("config")
	vars.String(&config.Version, "Version", version.SourceVersion)
	vars.String(&config.Simulation, "Simulation", "")
	vars.String(&config.SnapshotFormat, "SnapshotFormat", "")
	vars.String(&config.SnapshotType, "SnapshotType", "Gadget")
	vars.Int(&config.Files, "Files", 1)
	vars.String(&config.ByteOrder, "ByteOrder", "SystemOrder")
	vars.String(&config.RedshiftList, "RedshiftList", "")
	vars.String(&config.SnapshotList, "SnapshotList", "")
	vars.String(&config.DistanceTable, "DistanceTable", "cosmology")
	vars.Float(&config.OmegaM, "OmegaM", -1)
	vars.Float(&config.OmegaL, "OmegaL", -1)
	vars.Float(&config.H100, "H100", -1)
	vars.String(&config.HaloFormat, "HaloFormat", "")
	vars.String(&config.SubhaloFormat, "SubhaloFormat", "")
	vars.String(&config.OutputDir, "OutputDir", "")
	vars.String(&config.LogMode, "LogMode", "nil")
	return vars
}

// ReadConfig reads a config file and returns an error, if applicable.
func (config *GlobalConfig) ReadConfig(fname string) error {
	err := parse.ReadConfig(fname, config.vars())
	if err != nil {
		return err
	}

	if err = config.validate(); err != nil {
		return err
	}

	return nil
}

// validate checks that all the user-generated fields of GlobalConfig are
// properly set.
func (config *GlobalConfig) validate() error {
	if err := version.Check(config.Version); err != nil {
		return err
	}

	if config.Simulation == "" {
		return fmt.Errorf("The 'Simulation' variable isn't set.")
	}

	if config.SnapshotFormat == "" {
		return fmt.Errorf("The 'SnapshotFormat' variable isn't set.")
	} else if _, _, err := io.Readers(config.SnapshotType); err != nil {
		return err
	}

	var err error
	if config.order, err = io.ParseByteOrder(config.ByteOrder); err != nil {
		return err
	}
	if config.logFlag, err = logging.ParseFlag(config.LogMode); err != nil {
		return err
	}

	if config.RedshiftList == "" {
		return fmt.Errorf("The 'RedshiftList' variable isn't set.")
	} else if err = validateFile(config.RedshiftList); err != nil {
		return fmt.Errorf("The 'RedshiftList' variable is set to '%s', "+
			"but %s", config.RedshiftList, err.Error())
	}
	if config.SnapshotList != "" {
		if err = validateFile(config.SnapshotList); err != nil {
			return fmt.Errorf("The 'SnapshotList' variable is set to '%s', "+
				"but %s", config.SnapshotList, err.Error())
		}
	}

	switch {
	case config.OmegaM < 0:
		return fmt.Errorf("The 'OmegaM' variable isn't set.")
	case config.OmegaL < 0:
		return fmt.Errorf("The 'OmegaL' variable isn't set.")
	case config.H100 <= 0:
		return fmt.Errorf("The 'H100' variable isn't set.")
	}

	if config.DistanceTable == "" {
		return fmt.Errorf("The 'DistanceTable' variable isn't set.")
	} else if !config.UsesCosmology() {
		if err = validateFile(config.DistanceTable); err != nil {
			return fmt.Errorf("The 'DistanceTable' variable is set to "+
				"'%s', but %s", config.DistanceTable, err.Error())
		}
	}

	if config.OutputDir == "" {
		return fmt.Errorf("The 'OutputDir' variable isn't set.")
	} else if err = validateDir(config.OutputDir); err != nil {
		return fmt.Errorf("The 'OutputDir' variable is set to '%s', but %s",
			config.OutputDir, err.Error())
	}

	return nil
}

// validateDir returns an error if there are any problems with the given
// directory.
func validateDir(name string) error {
	if info, err := os.Stat(name); err != nil {
		return fmt.Errorf("%s does not exist.", name)
	} else if !info.IsDir() {
		return fmt.Errorf("%s is not a directory.", name)
	}

	return nil
}

func validateFile(name string) error {
	if info, err := os.Stat(name); err != nil {
		return fmt.Errorf("%s does not exist.", name)
	} else if info.IsDir() {
		return fmt.Errorf("%s is a directory.", name)
	}
	return nil
}

// UsesCosmology returns true if distances are integrated from OmegaM and
// OmegaL instead of being read from a table.
func (config *GlobalConfig) UsesCosmology() bool {
	return strings.ToLower(config.DistanceTable) == "cosmology"
}

// Order returns the byte order of the snapshot files.
func (config *GlobalConfig) Order() binary.ByteOrder {
	return config.order
}

// LogFlag returns the logging mode requested by 'LogMode'.
func (config *GlobalConfig) LogFlag() logging.Flag {
	return config.logFlag
}

// Environment returns the names of the simulation's files.
func (config *GlobalConfig) Environment() (*env.Environment, error) {
	e := &env.Environment{}
	if err := e.InitGadget(config.SnapshotFormat, config.Files); err != nil {
		return nil, err
	}
	if err := e.InitText(config.HaloFormat, config.SubhaloFormat); err != nil {
		return nil, err
	}
	return e, nil
}

// Distances returns a distance table which reaches at least the source
// redshift zs.
func (config *GlobalConfig) Distances(zs float64) (*lightcone.DistanceTable, error) {
	var (
		z, d []float64
		err  error
	)
	if config.UsesCosmology() {
		z, d, err = cosmo.DistanceTable(config.OmegaM, config.OmegaL,
			zs+1, DistanceStep)
	} else {
		z, d, err = io.ReadDistanceTable(config.DistanceTable)
	}
	if err != nil {
		return nil, err
	}
	logging.Debugf("Distance table with %d rows up to z = %g",
		len(z), z[len(z)-1])
	return lightcone.NewDistanceTable(z, d)
}

// ExampleConfig returns an example configuration file.
func (config *GlobalConfig) ExampleConfig() string {
	return fmt.Sprintf(`[config]
# Target version of lenscone. This option merely allows lenscone to notice
# when its source and configuration files are not from the same version.
#
# This variable defaults to the source version if not included.
Version = %s

# Name of the simulation. Output files are prefixed with it.
Simulation = L500_N1024

# SnapshotFormat is a format string (a la printf()) giving the name of each
# snapshot file. The last verb is the index of the file within the snapshot
# and every other verb is the snapshot id. For example, if your directory
# structure was
# path/to/snapshots/
#     snapdir_061/
#         snap_061.0
#         snap_061.1
#     snapdir_062/
#         ...
# it could be specified with the following values:
SnapshotFormat = path/to/snapshots/snapdir_%%03d/snap_%%03d.%%d
Files = 2

# Supported SnapshotTypes: Gadget
SnapshotType = Gadget

# Byte order of the snapshot files. One of LittleEndian, BigEndian, or
# SystemOrder. Defaults to SystemOrder.
ByteOrder = LittleEndian

# A three-column 'snap a z' table of every snapshot the simulation wrote.
RedshiftList = path/to/redshift_list.txt

# The snapshots available for the cone, one per line, nearest first. Only
# the modes which build new cones need it.
SnapshotList = path/to/snapshot_list.txt

# Either a two-column 'z D' table with D in units of c/H0, or 'cosmology'
# to integrate distances from OmegaM and OmegaL.
DistanceTable = cosmology

OmegaM = 0.27
OmegaL = 0.73
H100 = 0.7

# Format strings for the FOF group and subhalo catalogues of a snapshot.
# Every verb is the snapshot id. Leave them unset to skip halo catalogues.
#
# HaloFormat = path/to/groups_%%03d/fof.txt
# SubhaloFormat = path/to/groups_%%03d/subhalos.txt

# Directory that every output file is written to.
OutputDir = path/to/output/

# One of nil, performance, or debug. Defaults to nil.
LogMode = performance`, version.SourceVersion)
}

// Run is a dummy method which allows GlobalConfig to conform to the Mode
// interface for testing purposes.
func (config *GlobalConfig) Run(
	flags []string, gConfig *GlobalConfig, e *env.Environment, stdin []string,
) ([]string, error) {
	panic("GlobalConfig.Run() should never be executed.")
}
