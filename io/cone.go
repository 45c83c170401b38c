package io

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ConePlane is one plane of a cone record. Box is the 1-indexed box
// replica and DistanceHigh is the far edge of the plane in Mpc/h. The near
// edge is the far edge of the previous plane, or zero.
type ConePlane struct {
	Box, Snap    int
	DistanceHigh float64
}

// ConeCube is the randomization of one box replica. Reflect gives the axes
// that are reflected and Axes gives which box axis ('x', 'y', or 'z') is
// mapped to each cone axis. Center is the recentering offset in Mpc/h.
type ConeCube struct {
	Reflect [3]bool
	Axes    [3]byte
	Center  [3]float64
	Index   float64
}

// ConeRecord describes a light cone exactly enough to rebuild it. The
// OmegaM, OmegaL, and FieldOfView values are informational.
type ConeRecord struct {
	BoxSize        float64
	OmegaM, OmegaL float64
	SourceRedshift float64
	SourceDistance float64
	FieldOfView    float64

	Planes []ConePlane
	Cubes  []ConeCube
}

var coneHeaderNames = [8]string{
	"Box size:", "Omega m:", "Omega l:", "Source z:",
	"Source D:", "FoV degrees:", "N cubes:", "N planes:",
}

// tokenReader hands out whitespace-separated tokens of a file.
type tokenReader struct {
	s     *bufio.Scanner
	fname string
}

func (tr *tokenReader) next(what string) (string, error) {
	if !tr.s.Scan() {
		if err := tr.s.Err(); err != nil {
			return "", err
		}
		return "", fmt.Errorf("The cone record %s ended while I was "+
			"looking for %s.", tr.fname, what)
	}
	return tr.s.Text(), nil
}

func (tr *tokenReader) skip(n int, what string) error {
	for i := 0; i < n; i++ {
		if _, err := tr.next(what); err != nil {
			return err
		}
	}
	return nil
}

func (tr *tokenReader) float(what string) (float64, error) {
	tok, err := tr.next(what)
	if err != nil {
		return 0, err
	}
	x, err := strconv.ParseFloat(tok, 64)
	if err != nil {
		return 0, fmt.Errorf("In the cone record %s, %s is '%s', which "+
			"isn't a number.", tr.fname, what, tok)
	}
	return x, nil
}

func (tr *tokenReader) int(what string) (int, error) {
	tok, err := tr.next(what)
	if err != nil {
		return 0, err
	}
	x, err := strconv.Atoi(tok)
	if err != nil {
		return 0, fmt.Errorf("In the cone record %s, %s is '%s', which "+
			"isn't an integer.", tr.fname, what, tok)
	}
	return x, nil
}

func (tr *tokenReader) flag(what string) (bool, error) {
	tok, err := tr.next(what)
	if err != nil {
		return false, err
	}
	switch tok {
	case "T":
		return true, nil
	case "F":
		return false, nil
	}
	return false, fmt.Errorf("In the cone record %s, %s is '%s', but it "+
		"must be 'T' or 'F'.", tr.fname, what, tok)
}

func (tr *tokenReader) axis(what string) (byte, error) {
	tok, err := tr.next(what)
	if err != nil {
		return 0, err
	}
	switch tok {
	case "x", "y", "z":
		return tok[0], nil
	}
	return 0, fmt.Errorf("In the cone record %s, %s is '%s', but it must "+
		"be 'x', 'y', or 'z'.", tr.fname, what, tok)
}

// ReadCone reads a cone record file.
func ReadCone(fname string) (*ConeRecord, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseCone(f, fname)
}

// ParseCone parses a cone record. fname is only used in error messages.
//
// The record starts with eight header lines of two label tokens and a
// value: box size, two cosmological parameters, source redshift, source
// distance, field of view, the number of cubes, and the number of planes.
// A label token is followed by one 'box snap distance' line per plane and
// another label token is followed by one line per cube:
//
//	Rx Ry Rz Ax Ay Az x0 y0 z0 index
//
// where R is a T/F reflection flag and A is an axis letter.
func ParseCone(r io.Reader, fname string) (*ConeRecord, error) {
	s := bufio.NewScanner(r)
	s.Split(bufio.ScanWords)
	tr := &tokenReader{s, fname}

	rec := &ConeRecord{}
	header := [6]*float64{
		&rec.BoxSize, &rec.OmegaM, &rec.OmegaL,
		&rec.SourceRedshift, &rec.SourceDistance, &rec.FieldOfView,
	}
	for i := range header {
		if err := tr.skip(2, "a header label"); err != nil {
			return nil, err
		}
		x, err := tr.float(fmt.Sprintf("header value %d", i+1))
		if err != nil {
			return nil, err
		}
		*header[i] = x
	}

	counts := [2]int{}
	for i := range counts {
		if err := tr.skip(2, "a header label"); err != nil {
			return nil, err
		}
		n, err := tr.int(fmt.Sprintf("header value %d", i+7))
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return nil, fmt.Errorf("The cone record %s says it contains "+
				"%d %s.", fname, n, []string{"cubes", "planes"}[i])
		}
		counts[i] = n
	}
	nCubes, nPlanes := counts[0], counts[1]

	if rec.BoxSize <= 0 {
		return nil, fmt.Errorf("The cone record %s has a box size of %g.",
			fname, rec.BoxSize)
	}

	if err := tr.skip(1, "the plane label"); err != nil {
		return nil, err
	}
	rec.Planes = make([]ConePlane, nPlanes)
	for i := range rec.Planes {
		what := fmt.Sprintf("plane %d", i+1)
		p := &rec.Planes[i]
		var err error
		if p.Box, err = tr.int(what + "'s box"); err != nil {
			return nil, err
		}
		if p.Snap, err = tr.int(what + "'s snapshot"); err != nil {
			return nil, err
		}
		if p.DistanceHigh, err = tr.float(what + "'s distance"); err != nil {
			return nil, err
		}
		if p.Box < 1 || p.Box > nCubes {
			return nil, fmt.Errorf("In the cone record %s, %s uses box %d, "+
				"but there are only %d cubes.", fname, what, p.Box, nCubes)
		}
	}

	if err := tr.skip(1, "the cube label"); err != nil {
		return nil, err
	}
	rec.Cubes = make([]ConeCube, nCubes)
	for i := range rec.Cubes {
		what := fmt.Sprintf("cube %d", i+1)
		c := &rec.Cubes[i]
		var err error
		for k := 0; k < 3; k++ {
			if c.Reflect[k], err = tr.flag(what + "'s reflection"); err != nil {
				return nil, err
			}
		}
		for k := 0; k < 3; k++ {
			if c.Axes[k], err = tr.axis(what + "'s axis"); err != nil {
				return nil, err
			}
		}
		for k := 0; k < 3; k++ {
			if c.Center[k], err = tr.float(what + "'s center"); err != nil {
				return nil, err
			}
		}
		if c.Index, err = tr.float(what + "'s index"); err != nil {
			return nil, err
		}
	}

	return rec, nil
}

// WriteCone writes a cone record in the format ParseCone reads.
func WriteCone(w io.Writer, rec *ConeRecord) error {
	bw := bufio.NewWriter(w)
	values := []string{
		formatFloat(rec.BoxSize), formatFloat(rec.OmegaM),
		formatFloat(rec.OmegaL), formatFloat(rec.SourceRedshift),
		formatFloat(rec.SourceDistance), formatFloat(rec.FieldOfView),
		strconv.Itoa(len(rec.Cubes)), strconv.Itoa(len(rec.Planes)),
	}
	for i := range values {
		fmt.Fprintf(bw, "%s %s\n", coneHeaderNames[i], values[i])
	}

	fmt.Fprintln(bw, "Planes:")
	for _, p := range rec.Planes {
		fmt.Fprintf(bw, "%d %d %s\n", p.Box, p.Snap, formatFloat(p.DistanceHigh))
	}

	fmt.Fprintln(bw, "Cubes:")
	for _, c := range rec.Cubes {
		toks := make([]string, 0, 10)
		for k := 0; k < 3; k++ {
			if c.Reflect[k] {
				toks = append(toks, "T")
			} else {
				toks = append(toks, "F")
			}
		}
		for k := 0; k < 3; k++ {
			toks = append(toks, string(c.Axes[k]))
		}
		for k := 0; k < 3; k++ {
			toks = append(toks, formatFloat(c.Center[k]))
		}
		toks = append(toks, formatFloat(c.Index))
		fmt.Fprintln(bw, strings.Join(toks, " "))
	}

	return bw.Flush()
}

func formatFloat(x float64) string {
	return strconv.FormatFloat(x, 'g', -1, 64)
}
