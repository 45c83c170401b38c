/*package version tracks the version of the lenscone source and checks that
config files were written against it.*/
package version

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceVersion is the semantic version number of the source code.
const SourceVersion = "0.4.1"

// Parse parses a semantic version number string and returns an error if
// the string is invalid.
func Parse(s string) (major, minor, patch int, err error) {
	toks := strings.Split(strings.TrimSpace(s), ".")
	if len(toks) != 3 {
		return -1, -1, -1, fmt.Errorf("The version string '%s' does not "+
			"take the form of three period-separated non-negative numbers.", s)
	}

	nums := [3]int{}
	for i := range toks {
		nums[i], err = strconv.Atoi(toks[i])
		if err != nil || nums[i] < 0 {
			return -1, -1, -1, fmt.Errorf("The version string '%s' does "+
				"not take the form of three period-separated non-negative "+
				"numbers.", s)
		}
	}

	return nums[0], nums[1], nums[2], nil
}

// Later returns true if s1 represents a later version of the source than
// s2. An error is returned if either is invalid.
func Later(s1, s2 string) (bool, error) {
	major1, minor1, patch1, err := Parse(s1)
	if err != nil {
		return false, err
	}
	major2, minor2, patch2, err := Parse(s2)
	if err != nil {
		return false, err
	}

	switch {
	case major1 != major2:
		return major1 > major2, nil
	case minor1 != minor2:
		return minor1 > minor2, nil
	default:
		return patch1 > patch2, nil
	}
}

// Check returns an error if a config file's 'Version' variable does not
// match SourceVersion. Patch releases never change the config format, so
// only the major and minor numbers are compared.
func Check(configVersion string) error {
	major, minor, _, err := Parse(configVersion)
	if err != nil {
		return fmt.Errorf("I couldn't parse the 'Version' variable: %s",
			err.Error())
	}
	smajor, sminor, _, _ := Parse(SourceVersion)
	if major != smajor || minor != sminor {
		return fmt.Errorf("The 'Version' variable is set to %s, but the "+
			"version of the source is %s.", configVersion, SourceVersion)
	}
	return nil
}

// Format writes a version number in the form Parse accepts.
func Format(major, minor, patch int) string {
	return fmt.Sprintf("%d.%d.%d", major, minor, patch)
}
