/*package env names the files of a simulation: the shards of each particle
snapshot and the halo catalogues written alongside them.*/
package env

import (
	"fmt"
	"os"
)

type Environment struct {
	Catalogs
	Halos
}

//////////////
// Catalogs //
//////////////

// Catalogs names the shards of particle snapshots. The last verb of the
// format is the shard index and every other verb is the snapshot id, so
// "snapdir_%03d/snap_%03d.%d" names shard 4 of snapshot 62 as
// "snapdir_062/snap_062.4".
type Catalogs struct {
	format string
	verbs  int
	files  int
}

// Blocks returns the number of shards per snapshot.
func (cat *Catalogs) Blocks() int {
	return cat.files
}

// ParticleCatalog returns the name of one shard of a snapshot.
func (cat *Catalogs) ParticleCatalog(snap, block int) string {
	if cat.verbs == 1 {
		return fmt.Sprintf(cat.format, snap)
	}
	args := make([]interface{}, cat.verbs)
	for i := 0; i < cat.verbs-1; i++ {
		args[i] = snap
	}
	args[cat.verbs-1] = block
	return fmt.Sprintf(cat.format, args...)
}

// InitGadget sets up the names of Gadget snapshots split over files shards.
func (cat *Catalogs) InitGadget(format string, files int64) error {
	if files <= 0 {
		return fmt.Errorf("The 'Files' variable is set to %d, but it must "+
			"be positive.", files)
	}
	verbs := CountVerbs(format)
	switch {
	case verbs == 0:
		return fmt.Errorf("The 'SnapshotFormat' variable, '%s', doesn't "+
			"have a '%%' verb for the snapshot id.", format)
	case verbs == 1 && files > 1:
		return fmt.Errorf("The 'SnapshotFormat' variable, '%s', only has "+
			"one '%%' verb, but 'Files' = %d, so it also needs a verb for "+
			"the shard index.", format, files)
	}

	cat.format, cat.verbs, cat.files = format, verbs, int(files)
	return nil
}

// Validate checks that every shard of the given snapshots exists.
func (cat *Catalogs) Validate(snaps []int) error {
	for _, snap := range snaps {
		for block := 0; block < cat.files; block++ {
			fname := cat.ParticleCatalog(snap, block)
			if _, err := os.Stat(fname); err != nil {
				return fmt.Errorf("Shard %d of snapshot %d, %s, does not "+
					"exist.", block, snap, fname)
			}
		}
	}
	return nil
}

// CountVerbs returns the number of formatting verbs in a format string,
// not counting the '%%' escape.
func CountVerbs(format string) int {
	n := 0
	for i := 0; i < len(format); i++ {
		if format[i] != '%' {
			continue
		}
		if i+1 < len(format) && format[i+1] == '%' {
			i++
			continue
		}
		n++
	}
	return n
}

///////////
// Halos //
///////////

// Halos names the FOF and subhalo catalogues of each snapshot. Every verb
// in a format is the snapshot id.
type Halos struct {
	fofFormat, subFormat string
	fofVerbs, subVerbs   int
}

// HaloCatalogs returns the names of the catalogues of a snapshot. A
// catalogue type with no format gets an empty name.
func (h *Halos) HaloCatalogs(snap int) (fof, sub string) {
	return formatSnap(h.fofFormat, h.fofVerbs, snap),
		formatSnap(h.subFormat, h.subVerbs, snap)
}

// HasHalos returns true if any halo catalogues are configured.
func (h *Halos) HasHalos() bool {
	return h.fofFormat != "" || h.subFormat != ""
}

// InitText sets up the names of text halo catalogues. Either format may
// be empty.
func (h *Halos) InitText(fofFormat, subFormat string) error {
	h.fofFormat, h.subFormat = fofFormat, subFormat
	h.fofVerbs, h.subVerbs = CountVerbs(fofFormat), CountVerbs(subFormat)
	if fofFormat != "" && h.fofVerbs == 0 {
		return fmt.Errorf("The 'HaloFormat' variable, '%s', doesn't have a "+
			"'%%' verb for the snapshot id.", fofFormat)
	}
	if subFormat != "" && h.subVerbs == 0 {
		return fmt.Errorf("The 'SubhaloFormat' variable, '%s', doesn't "+
			"have a '%%' verb for the snapshot id.", subFormat)
	}
	return nil
}

func formatSnap(format string, verbs, snap int) string {
	if format == "" {
		return ""
	}
	args := make([]interface{}, verbs)
	for i := range args {
		args[i] = snap
	}
	return fmt.Sprintf(format, args...)
}
