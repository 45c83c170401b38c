package render

import (
	"fmt"
	"io"
	"os"

	"github.com/astrogo/fitsio"
	"github.com/klauspost/compress/gzip"

	"github.com/phil-mansfield/lenscone/lightcone"
	"github.com/phil-mansfield/lenscone/logging"
)

// FITSSink writes the maps of each plane as FITS images. If EachSpecies is
// true, every species with particles in the plane gets its own file;
// otherwise only the summed map is written.
type FITSSink struct {
	Names       *Namer
	FieldOfView float64 // degrees
	EachSpecies bool
	Compress    bool
}

// WriteMaps writes the maps of one plane.
func (s *FITSSink) WriteMaps(m *lightcone.PlaneMaps) error {
	if !s.EachSpecies {
		fname := s.Names.Map(m.Plane.Index, TotalSpecies, s.Compress)
		return s.write(fname, m.Total, MapCards(m, TotalSpecies, s.FieldOfView))
	}

	for k := range m.Species {
		if m.Counts[k] == 0 {
			continue
		}
		fname := s.Names.Map(m.Plane.Index, k, s.Compress)
		err := s.write(fname, m.Species[k], MapCards(m, k, s.FieldOfView))
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *FITSSink) write(
	fname string, g *lightcone.Grid, cards []fitsio.Card,
) error {
	f, err := os.Create(fname)
	if err != nil {
		return err
	}

	var w io.Writer = f
	var zw *gzip.Writer
	if s.Compress {
		zw = gzip.NewWriter(f)
		w = zw
	}

	err = WriteFITS(w, g, cards)
	if zw != nil {
		if cerr := zw.Close(); err == nil {
			err = cerr
		}
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("Could not write the map %s: %w", fname, err)
	}
	if info, err := os.Stat(fname); err == nil {
		logging.Debugf("Wrote %s (%s)", fname, logging.SizeString(info.Size()))
	}
	return nil
}

// MapCards returns the header cards of a map. Distances are converted from
// Mpc/h to Mpc. For a single species only that species' particle count
// and mass are included.
func MapCards(m *lightcone.PlaneMaps, species int, fovDeg float64) []fitsio.Card {
	hd := m.Header
	h := hd.H100
	cards := []fitsio.Card{
		{Name: "REDSHIFT", Value: hd.Redshift, Comment: "snapshot redshift"},
		{Name: "PHYSSIZE", Value: fovDeg, Comment: "field of view [deg]"},
		{Name: "PIXUNIT", Value: 1e10 / h, Comment: "pixel mass unit [Msun]"},
		{Name: "DLLOW", Value: m.Plane.DistLow / h, Comment: "comoving distance in Mpc"},
		{Name: "DLUP", Value: m.Plane.DistHigh / h, Comment: "comoving distance in Mpc"},
	}

	for k := range m.Counts {
		if species == TotalSpecies || species == k {
			cards = append(cards, fitsio.Card{
				Name: fmt.Sprintf("NPART%d", k), Value: int(m.Counts[k]),
				Comment: fmt.Sprintf("type %d particles in the map", k),
			})
		}
	}

	cards = append(cards,
		fitsio.Card{Name: "HUBBLE", Value: h},
		fitsio.Card{Name: "OMEGAM", Value: hd.OmegaM},
		fitsio.Card{Name: "OMEGAL", Value: hd.OmegaL},
	)

	for k := range hd.Mass {
		if species == TotalSpecies || species == k {
			cards = append(cards, fitsio.Card{
				Name: fmt.Sprintf("M%d", k), Value: hd.Mass[k],
				Comment: fmt.Sprintf("type %d particle mass [1e10 Msun/h]", k),
			})
		}
	}
	return cards
}

// WriteFITS writes a grid as a single-precision FITS image with the given
// header cards.
func WriteFITS(w io.Writer, g *lightcone.Grid, cards []fitsio.Card) error {
	f, err := fitsio.Create(w)
	if err != nil {
		return err
	}

	img := fitsio.NewImage(-32, []int{g.N, g.N})
	if err = img.Header().Append(cards...); err != nil {
		return err
	}

	data := make([]float32, len(g.Data))
	for i := range data {
		data[i] = float32(g.Data[i])
	}
	if err = img.Write(data); err != nil {
		return err
	}
	if err = f.Write(img); err != nil {
		return err
	}
	if err = img.Close(); err != nil {
		return err
	}
	return f.Close()
}

// ReadFITS reads an image written by WriteFITS and returns its data and
// header.
func ReadFITS(r io.Reader) (*lightcone.Grid, *fitsio.Header, error) {
	f, err := fitsio.Open(r)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	img, ok := f.HDU(0).(fitsio.Image)
	if !ok {
		return nil, nil, fmt.Errorf("The first HDU isn't an image.")
	}
	axes := img.Header().Axes()
	if len(axes) != 2 || axes[0] != axes[1] {
		return nil, nil, fmt.Errorf("The image has the shape %v, but "+
			"lenscone maps are square.", axes)
	}

	data := make([]float32, axes[0]*axes[1])
	if err = img.Read(&data); err != nil {
		return nil, nil, err
	}
	g := lightcone.NewGrid(axes[0])
	for i := range data {
		g.Data[i] = float64(data[i])
	}
	return g, img.Header(), nil
}
