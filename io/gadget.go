package io

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"
)

// gadgetHeader is the on-disk layout of a Gadget-1 header block. It is
// exactly 256 bytes long.
type gadgetHeader struct {
	NPart                    [6]int32
	Mass                     [6]float64
	Time, Redshift           float64
	FlagSfr, FlagFeedback    int32
	NPartTotal               [6]int32
	FlagCooling, NumFiles    int32
	BoxSize, Omega0          float64
	OmegaLambda, HubbleParam float64

	Padding [96]byte
}

const gadgetHeaderSize = 256

func (gh *gadgetHeader) postprocess(out *Header) {
	for i := 0; i < NSpecies; i++ {
		out.NPart[i] = int64(gh.NPart[i])
		out.NPartTotal[i] = int64(gh.NPartTotal[i])
		out.Mass[i] = gh.Mass[i]
	}
	out.Time, out.Redshift = gh.Time, gh.Redshift
	out.BoxSize = gh.BoxSize
	out.OmegaM, out.OmegaL = gh.Omega0, gh.OmegaLambda
	out.H100 = gh.HubbleParam
	out.NumFiles = int(gh.NumFiles)
}

func (gh *gadgetHeader) preprocess(hd *Header) {
	for i := 0; i < NSpecies; i++ {
		gh.NPart[i] = int32(hd.NPart[i])
		gh.NPartTotal[i] = int32(hd.NPartTotal[i])
		gh.Mass[i] = hd.Mass[i]
	}
	gh.Time, gh.Redshift = hd.Time, hd.Redshift
	gh.BoxSize = hd.BoxSize
	gh.Omega0, gh.OmegaLambda = hd.OmegaM, hd.OmegaL
	gh.HubbleParam = hd.H100
	gh.NumFiles = int32(hd.NumFiles)
}

// readRecordMarker reads a Fortran record marker and checks that it has the
// expected size.
func readRecordMarker(
	r io.Reader, order binary.ByteOrder, size int, block, fname string,
) error {
	n, err := readInt32(r, order)
	if err != nil {
		return fmt.Errorf("Could not read the %s block of %s: %w",
			block, fname, err)
	}
	if int(n) != size {
		return fmt.Errorf("The %s block of %s has size %d, but I expected "+
			"%d. The file may be corrupted or the 'ByteOrder' variable "+
			"may be wrong.", block, fname, n, size)
	}
	return nil
}

func readGadgetHeader(
	r io.Reader, order binary.ByteOrder, fname string,
) (*gadgetHeader, error) {
	if err := readRecordMarker(r, order, gadgetHeaderSize,
		"header", fname); err != nil {
		return nil, err
	}
	gh := &gadgetHeader{}
	if err := binary.Read(r, order, gh); err != nil {
		return nil, fmt.Errorf("Could not read the header of %s: %w",
			fname, err)
	}
	if err := readRecordMarker(r, order, gadgetHeaderSize,
		"header", fname); err != nil {
		return nil, err
	}

	for i := range gh.NPart {
		if gh.NPart[i] < 0 {
			return nil, fmt.Errorf("The header of %s says there are %d "+
				"particles of type %d.", fname, gh.NPart[i], i)
		}
	}
	if gh.BoxSize <= 0 {
		return nil, fmt.Errorf("The header of %s gives the box size %g.",
			fname, gh.BoxSize)
	}
	return gh, nil
}

// ReadGadgetHeader reads the header of a Gadget-1 file.
func ReadGadgetHeader(fname string, order binary.ByteOrder) (*Header, error) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	gh, err := readGadgetHeader(f, order, fname)
	if err != nil {
		return nil, err
	}
	hd := &Header{}
	gh.postprocess(hd)
	return hd, nil
}

// ReadGadget reads the header and particle positions of a Gadget-1 file.
// Positions outside [0, BoxSize) are wrapped back into the box.
func ReadGadget(fname string, order binary.ByteOrder) (
	*Header, *Particles, error,
) {
	f, err := os.Open(fname)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	r := bufio.NewReaderSize(f, 1<<20)

	gh, err := readGadgetHeader(r, order, fname)
	if err != nil {
		return nil, nil, err
	}
	hd := &Header{}
	gh.postprocess(hd)

	n := 0
	for i := range hd.NPart {
		n += int(hd.NPart[i])
	}
	if err = readRecordMarker(r, order, 12*n, "position", fname); err != nil {
		return nil, nil, err
	}

	p := &Particles{}
	buf := make([]byte, 12*4096)
	for i := 0; i < NSpecies; i++ {
		p.Pos[i] = make([][3]float32, hd.NPart[i])
		if err = readVectors(r, order, buf, p.Pos[i]); err != nil {
			return nil, nil, fmt.Errorf("Could not read the positions of "+
				"type %d particles in %s: %w", i, fname, err)
		}
	}

	if err = readRecordMarker(r, order, 12*n, "position", fname); err != nil {
		return nil, nil, err
	}

	if err = fix(hd, p, fname); err != nil {
		return nil, nil, err
	}
	return hd, p, nil
}

// readVectors fills xs with float32 triplets, reading through buf.
func readVectors(
	r io.Reader, order binary.ByteOrder, buf []byte, xs [][3]float32,
) error {
	perBuf := len(buf) / 12
	for start := 0; start < len(xs); start += perBuf {
		end := start + perBuf
		if end > len(xs) {
			end = len(xs)
		}
		b := buf[:12*(end-start)]
		if _, err := io.ReadFull(r, b); err != nil {
			return err
		}
		for i := start; i < end; i++ {
			off := 12 * (i - start)
			for k := 0; k < 3; k++ {
				bits := order.Uint32(b[off+4*k:])
				xs[i][k] = math.Float32frombits(bits)
			}
		}
	}
	return nil
}

// fix wraps positions into the box and checks for corruption.
func fix(hd *Header, p *Particles, fname string) error {
	tw := float32(hd.BoxSize)
	for s := range p.Pos {
		xs := p.Pos[s]
		for i := range xs {
			for j := 0; j < 3; j++ {
				x := xs[i][j]
				if math.IsNaN(float64(x)) || math.IsInf(float64(x), 0) ||
					x < -tw || x > 2*tw {
					return fmt.Errorf(
						"Corruption detected in the file %s. I can't "+
							"analyze it.", fname,
					)
				}

				if x < 0 {
					x += tw
				} else if x >= tw {
					x -= tw
				}
				if x >= tw {
					// float32 rounding of x + tw.
					x = 0
				}
				xs[i][j] = x
			}
		}
	}
	return nil
}

// WriteGadget writes a Gadget-1 file containing a header block and a
// position block. NPart is taken from the lengths of p.Pos.
func WriteGadget(
	fname string, order binary.ByteOrder, hd *Header, p *Particles,
) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(f)

	out := *hd
	n := 0
	for i := range p.Pos {
		out.NPart[i] = int64(len(p.Pos[i]))
		n += len(p.Pos[i])
	}
	gh := &gadgetHeader{}
	gh.preprocess(&out)

	err = writeGadget(w, order, gh, p, n)
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func writeGadget(
	w io.Writer, order binary.ByteOrder, gh *gadgetHeader, p *Particles, n int,
) error {
	if err := writeInt32(w, order, gadgetHeaderSize); err != nil {
		return err
	}
	if err := binary.Write(w, order, gh); err != nil {
		return err
	}
	if err := writeInt32(w, order, gadgetHeaderSize); err != nil {
		return err
	}

	if err := writeInt32(w, order, int32(12*n)); err != nil {
		return err
	}
	for i := range p.Pos {
		if err := binary.Write(w, order, p.Pos[i]); err != nil {
			return err
		}
	}
	return writeInt32(w, order, int32(12*n))
}
