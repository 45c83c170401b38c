package io

import (
	"encoding/binary"
	"fmt"
)

// Namer gives the name of every file in a snapshot.
type Namer interface {
	// ParticleCatalog returns the name of one shard of a snapshot.
	ParticleCatalog(snap, shard int) string
	// Blocks returns the number of shards per snapshot.
	Blocks() int
}

// Snapshots reads the shards of simulation snapshots. Headers are cached
// by file name.
type Snapshots struct {
	names      Namer
	order      binary.ByteOrder
	read       ParticleReader
	readHeader HeaderReader
	headers    *loadingCache[string, *Header]
}

// NewSnapshots creates a Snapshots reader for files of the given
// SnapshotFormat.
func NewSnapshots(
	names Namer, format string, order binary.ByteOrder, cacheSize int,
) (*Snapshots, error) {
	read, readHeader, err := Readers(format)
	if err != nil {
		return nil, err
	}
	s := &Snapshots{names: names, order: order,
		read: read, readHeader: readHeader}
	s.headers, err = newLoadingCache(cacheSize, func(fname string) (*Header, error) {
		return s.readHeader(fname, s.order)
	})
	if err != nil {
		return nil, err
	}
	return s, nil
}

// Shards returns the number of files per snapshot.
func (s *Snapshots) Shards() int { return s.names.Blocks() }

// Header returns the header of the first shard of a snapshot.
func (s *Snapshots) Header(snap int) (*Header, error) {
	return s.headers.get(s.names.ParticleCatalog(snap, 0))
}

// ReadShard reads one file of a snapshot. A missing file is an error.
func (s *Snapshots) ReadShard(snap, shard int) (*Header, *Particles, error) {
	if shard < 0 || shard >= s.Shards() {
		return nil, nil, fmt.Errorf("Shard %d of snapshot %d was requested, "+
			"but snapshots only have %d shards.", shard, snap, s.Shards())
	}
	fname := s.names.ParticleCatalog(snap, shard)
	hd, p, err := s.read(fname, s.order)
	if err != nil {
		return nil, nil, err
	}
	s.headers.lru.Add(fname, hd)
	return hd, p, nil
}
