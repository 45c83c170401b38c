/*The io package contains code for reading simulation outputs from disk and
for reading and writing the small text records that describe a light cone.

Particle snapshots are read from Gadget-1 format files (the header block
followed by a block of float32 positions grouped by particle type). Halo
catalogues, redshift lists, snapshot lists, and distance tables are
whitespace-separated text tables. A cone record (.cone) stores the plane
boundaries and box randomizations of a light cone so that it can be rebuilt
exactly.

If you want to add support for a new particle format, write a function with
the same signature as ReadGadget and add a case for it to
ParticleReader().*/
package io

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"
)

// NSpecies is the number of particle types stored in a snapshot.
const NSpecies = 6

// Header contains the information lenscone needs from a snapshot file.
// Positions and BoxSize are in the simulation's length units (kpc/h for
// Gadget files) and masses are in 1e10 Msun/h.
type Header struct {
	NPart      [NSpecies]int64
	NPartTotal [NSpecies]int64
	Mass       [NSpecies]float64

	Time, Redshift       float64
	BoxSize              float64
	OmegaM, OmegaL, H100 float64
	NumFiles             int
}

// Particles holds the positions of every particle in a file, grouped by
// particle type.
type Particles struct {
	Pos [NSpecies][][3]float32
}

// N returns the total number of particles.
func (p *Particles) N() int {
	n := 0
	for i := range p.Pos {
		n += len(p.Pos[i])
	}
	return n
}

// ParticleReader is a function which reads a single snapshot file.
type ParticleReader func(fname string, order binary.ByteOrder) (
	*Header, *Particles, error,
)

// HeaderReader is a function which reads only the header of a snapshot file.
type HeaderReader func(fname string, order binary.ByteOrder) (*Header, error)

// Readers returns the readers associated with a SnapshotFormat name.
func Readers(format string) (ParticleReader, HeaderReader, error) {
	switch strings.ToLower(format) {
	case "gadget", "gadget-1", "gadget1":
		return ReadGadget, ReadGadgetHeader, nil
	}
	return nil, nil, fmt.Errorf("The snapshot format '%s' isn't supported. "+
		"The only supported format is 'Gadget'.", format)
}

// ParseByteOrder converts the value of a ByteOrder variable to a
// binary.ByteOrder.
func ParseByteOrder(s string) (binary.ByteOrder, error) {
	switch s {
	case "LittleEndian":
		return binary.LittleEndian, nil
	case "BigEndian":
		return binary.BigEndian, nil
	case "SystemOrder", "":
		if IsSysOrder(binary.LittleEndian) {
			return binary.LittleEndian, nil
		}
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("The 'ByteOrder' variable is set to '%s', but "+
		"it must be one of 'LittleEndian', 'BigEndian', or 'SystemOrder'.", s)
}

// IsSysOrder returns true if end is the byte order of the current machine.
func IsSysOrder(end binary.ByteOrder) bool {
	little := binary.NativeEndian.Uint16([]byte{1, 0}) == 1
	if little {
		return end == binary.LittleEndian
	}
	return end == binary.BigEndian
}

func readInt32(r io.Reader, order binary.ByteOrder) (int32, error) {
	var n int32
	err := binary.Read(r, order, &n)
	return n, err
}

func writeInt32(w io.Writer, order binary.ByteOrder, n int32) error {
	return binary.Write(w, order, n)
}
