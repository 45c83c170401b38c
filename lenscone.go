/*package main is the lenscone binary. It cuts light cones out of periodic
N-body snapshots and writes the mass maps and halo catalogues of each lens
plane.*/
package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/phil-mansfield/lenscone/cmd"
	"github.com/phil-mansfield/lenscone/logging"
	"github.com/phil-mansfield/lenscone/version"
)

var helpStrings = map[string]string{
	"planes": `The planes mode lays out a light cone without reading any particles.
It writes planes_list.txt, <Simulation>.cone, and manifest.yaml to OutputDir
and prints the plane list.`,
	"maps": `The maps mode lays out a light cone and writes a FITS mass map of
every plane, plus halo catalogues and PNG previews if they're configured.
Setting ConeFile to the .cone file of an earlier run rebuilds the same cone.`,

	"config":        new(cmd.GlobalConfig).ExampleConfig(),
	"planes.config": cmd.ModeNames["planes"].ExampleConfig(),
	"maps.config":   cmd.ModeNames["maps"].ExampleConfig(),
}

var modeDescriptions = `My help modes are:
lenscone help
lenscone help [ planes | maps ]
lenscone help [ config | planes.config | maps.config ]

My analysis modes are:
lenscone planes ____.config ____.planes.config
lenscone maps   ____.config ____.maps.config`

func main() {
	args := os.Args
	if len(args) <= 1 {
		fmt.Fprintf(
			os.Stderr, "I was not supplied with a mode.\nFor help, type "+
				"'./lenscone help'.\n",
		)
		os.Exit(1)
	}

	if args[1] == "help" {
		switch len(args) - 2 {
		case 0:
			fmt.Println(modeDescriptions)
		case 1:
			text, ok := helpStrings[args[2]]
			if !ok {
				fmt.Printf("I don't recognize the help target '%s'\n", args[2])
			} else {
				fmt.Println(text)
			}
		default:
			fmt.Println("The help mode can only take a single argument.")
		}
		os.Exit(0)
	} else if args[1] == "version" {
		fmt.Printf("lenscone version %s\n", version.SourceVersion)
		os.Exit(0)
	}

	mode, ok := cmd.ModeNames[args[1]]
	if !ok {
		fmt.Fprintf(
			os.Stderr, "You passed me the mode '%s', which I don't "+
				"recognize.\nFor help, type './lenscone help'\n", args[1],
		)
		os.Exit(1)
	}

	var lines []string
	if stdinIsPipe() {
		var err error
		lines, err = stdinLines()
		if err != nil {
			log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
		}
	}

	flags := getFlags(args)
	config, _ := getConfig(args)
	gConfig, err := getGlobalConfig(args)
	if err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}
	logging.Mode = gConfig.LogFlag()

	if err = mode.ReadConfig(config); err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}

	e, err := gConfig.Environment()
	if err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}

	out, err := mode.Run(flags, gConfig, e, lines)
	if err != nil {
		log.Fatalf("Error running mode %s:\n%s\n", args[1], err.Error())
	}

	for i := range out {
		fmt.Println(out[i])
	}
}

// stdinIsPipe returns true if stdin is a pipe or file rather than a
// terminal.
func stdinIsPipe() bool {
	info, err := os.Stdin.Stat()
	return err == nil && info.Mode()&os.ModeCharDevice == 0
}

// stdinLines reads stdin and splits it into lines.
func stdinLines() ([]string, error) {
	bs, err := io.ReadAll(os.Stdin)
	if err != nil {
		return nil, fmt.Errorf(
			"Error reading stdin: %s.", err.Error(),
		)
	}
	text := string(bs)
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines, nil
}

// getFlags returns the flag tokens from the command line arguments.
func getFlags(args []string) []string {
	return args[2 : len(args)-configNum(args)]
}

// getGlobalConfig reads the base config file named in the command line
// arguments, or in $LENSCONE_GLOBAL_CONFIG.
func getGlobalConfig(args []string) (*cmd.GlobalConfig, error) {
	name := os.Getenv("LENSCONE_GLOBAL_CONFIG")
	if name != "" {
		if configNum(args) > 1 {
			return nil, fmt.Errorf("$LENSCONE_GLOBAL_CONFIG has been " +
				"set, so you may only pass a single config file as a " +
				"parameter.")
		}
	} else {
		switch configNum(args) {
		case 0:
			return nil, fmt.Errorf("No config files provided in command " +
				"line arguments.")
		case 1:
			name = args[len(args)-1]
		case 2:
			name = args[len(args)-2]
		default:
			return nil, fmt.Errorf("Passed too many config files as arguments.")
		}
	}

	config := &cmd.GlobalConfig{}
	if err := config.ReadConfig(name); err != nil {
		return nil, err
	}
	return config, nil
}

// getConfig returns the name of the mode-specific config file from the
// command line arguments.
func getConfig(args []string) (string, bool) {
	if os.Getenv("LENSCONE_GLOBAL_CONFIG") != "" && configNum(args) == 1 {
		return args[len(args)-1], true
	} else if os.Getenv("LENSCONE_GLOBAL_CONFIG") == "" &&
		configNum(args) == 2 {

		return args[len(args)-1], true
	}
	return "", false
}

// configNum returns the number of configuration files at the end of the
// argument list (up to 2).
func configNum(args []string) int {
	num := 0
	for i := len(args) - 1; i >= 2; i-- {
		if isConfig(args[i]) {
			num++
		} else {
			break
		}
	}
	return num
}

// isConfig returns true if the given string is a config file name.
func isConfig(s string) bool {
	return strings.HasSuffix(s, ".config")
}
