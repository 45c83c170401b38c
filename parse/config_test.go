package parse

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestScalarConv(t *testing.T) {
	var (
		i int64
		f float64
		s string
		b bool
	)

	tests := []struct {
		conv conversionFunc
		in   string
		ok   bool
	}{
		{intConv(&i), " 41891", true},
		{intConv(&i), "meow", false},
		{floatConv(&f), "2.5e3\t", true},
		{floatConv(&f), "meow", false},
		{stringConv(&s), "  snapdir ", true},
		{boolConv(&b), "true", true},
		{boolConv(&b), "meow", false},
	}

	for j := range tests {
		if ok := tests[j].conv(tests[j].in); ok != tests[j].ok {
			t.Errorf("%d) conversion of '%s' returned %v.", j, tests[j].in, ok)
		}
	}

	if i != 41891 || f != 2500 || s != "snapdir" || !b {
		t.Errorf("Conversions wrote (%d, %g, '%s', %v).", i, f, s, b)
	}
}

func TestListConv(t *testing.T) {
	ints := []int64{7}
	if !intsConv(&ints)("1, 2 , 3") || !int64sEq(ints, []int64{1, 2, 3}) {
		t.Errorf("intsConv gave %v.", ints)
	}
	if intsConv(&ints)("1,meow,3") || !int64sEq(ints, []int64{1, 2, 3}) {
		t.Errorf("intsConv overwrote its target on invalid input: %v.", ints)
	}
	if !intsConv(&ints)("") || len(ints) != 0 {
		t.Errorf("intsConv gave %v for an empty list.", ints)
	}

	floats := []float64{1, 2, 3, 4}
	if !floatsConv(&floats)("1, 2.5") || len(floats) != 2 ||
		floats[0] != 1 || floats[1] != 2.5 {
		t.Errorf("floatsConv gave %v.", floats)
	}

	strs := []string{"x"}
	if !stringsConv(&strs)("dorothy, maddy , sahil") ||
		!stringsEq(strs, []string{"dorothy", "maddy", "sahil"}) {
		t.Errorf("stringsConv gave %v.", strs)
	}

	bools := []bool{}
	if !boolsConv(&bools)("true, false,    true") || len(bools) != 3 ||
		!bools[0] || bools[1] || !bools[2] {
		t.Errorf("boolsConv gave %v.", bools)
	}
	if boolsConv(&bools)("true,meow") {
		t.Errorf("boolsConv successful on invalid input.")
	}
}

func TestRemoveComments(t *testing.T) {
	table := []struct {
		in, out  []string
		lineNums []int
	}{
		{[]string{}, []string{}, []int{}},
		{[]string{"#", "  ", "\t"}, []string{}, []int{}},
		{[]string{"[maps]", "a = 1 # one", "# b = 2", " c=3"},
			[]string{"[maps]", "a = 1", "c=3"}, []int{0, 1, 3}},
	}

	for i := range table {
		out, lineNums := removeComments(table[i].in)
		if !stringsEq(out, table[i].out) || !intsEq(lineNums, table[i].lineNums) {
			t.Errorf("%d) removeComments(%q) = %q, %v.", i, table[i].in,
				out, lineNums)
		}
	}
}

func TestAssociationList(t *testing.T) {
	table := []struct {
		in          []string
		names, vals []string
		errLine     int
	}{
		{[]string{"A = 1", "bB=  x, y"}, []string{"a", "bb"},
			[]string{"1", "x, y"}, -1},
		{[]string{"a =", "b = 2"}, []string{"a", "b"}, []string{"", "2"}, -1},
		{[]string{"a = 1", "b"}, nil, nil, 1},
		{[]string{" = 1"}, nil, nil, 0},
	}

	for i := range table {
		names, vals, errLine := associationList(table[i].in)
		if errLine != table[i].errLine {
			t.Errorf("%d) expected error line %d, got %d.", i,
				table[i].errLine, errLine)
		} else if errLine == -1 && (!stringsEq(names, table[i].names) ||
			!stringsEq(vals, table[i].vals)) {
			t.Errorf("%d) associationList gave %q, %q.", i, names, vals)
		}
	}
}

type testConfig struct {
	pixels  int64
	boxSize float64
	sim     string
	gzip    bool
	seeds   []int64
}

func (c *testConfig) vars() *ConfigVars {
	vars := NewConfigVars("maps")
	vars.Int(&c.pixels, "Pixels", 512)
	vars.Float(&c.boxSize, "BoxSize", 100)
	vars.String(&c.sim, "Simulation", "")
	vars.Bool(&c.gzip, "CompressFITS", false)
	vars.Ints(&c.seeds, "Seeds", []int64{1, 2, 3})
	return vars
}

func TestParseConfig(t *testing.T) {
	table := []struct {
		text string
		ok   bool
		errs string
	}{
		{"[maps]\n", true, ""},
		{"# comment\n[maps]\nPixels = 2048\nboxsize=1000 # Mpc/h\n" +
			"Simulation = L1000\ncompressfits = true\nSeeds = 4, 5, 6\n",
			true, ""},
		{"Pixels = 2048\n", false, "header"},
		{"[planes]\nPixels = 2048\n", false, "header"},
		{"[maps]\n\nPixels 2048\n", false, "line 3"},
		{"[maps]\nPixel = 2048\n", false, "'pixel'"},
		{"[maps]\nPixels = 1\n\nPIXELS = 2\n", false, "Lines 2 and 4"},
		{"[maps]\nBoxSize = big\n", false, "'big'"},
	}

	for i := range table {
		c := &testConfig{}
		err := ParseConfig("test.config", table[i].text, c.vars())
		if (err == nil) != table[i].ok {
			t.Errorf("%d) ParseConfig gave error %v.", i, err)
			continue
		}
		if err != nil && !strings.Contains(err.Error(), table[i].errs) {
			t.Errorf("%d) expected error mentioning %s, got '%s'.",
				i, table[i].errs, err.Error())
		}
	}

	c := &testConfig{}
	err := ParseConfig("test.config", table[1].text, c.vars())
	if err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if c.pixels != 2048 || c.boxSize != 1000 || c.sim != "L1000" ||
		!c.gzip || !int64sEq(c.seeds, []int64{4, 5, 6}) {
		t.Errorf("ParseConfig read %+v.", *c)
	}

	c = &testConfig{}
	if err = ParseConfig("test.config", "[maps]", c.vars()); err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if c.pixels != 512 || c.boxSize != 100 || !int64sEq(c.seeds, []int64{1, 2, 3}) {
		t.Errorf("Defaults not kept: %+v.", *c)
	}
}

func TestReadConfig(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "maps.config")
	err := os.WriteFile(fname, []byte("[maps]\nPixels = 64\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	c := &testConfig{}
	if err = ReadConfig(fname, c.vars()); err != nil {
		t.Fatalf("Unexpected error: %s", err.Error())
	}
	if c.pixels != 64 {
		t.Errorf("Expected Pixels = 64, got %d.", c.pixels)
	}

	if err = ReadConfig(fname+".missing", c.vars()); err == nil {
		t.Errorf("Expected an error for a missing file.")
	}
}

func stringsEq(xs, ys []string) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}
	return true
}

func intsEq(xs, ys []int) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}
	return true
}

func int64sEq(xs, ys []int64) bool {
	if len(xs) != len(ys) {
		return false
	}
	for i := range xs {
		if xs[i] != ys[i] {
			return false
		}
	}
	return true
}
