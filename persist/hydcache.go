// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package persist implements the two binary artifacts of §6: a
// random-access intermediate hydraulics cache consumed by the
// sequential extended-period driver, and an append-only output
// snapshot writer. Both are transcribed directly from spec.md's
// byte-layout description, since no original_source file for either
// format survived the filtered retrieval pack.
package persist

import (
	"encoding/binary"
	"fmt"
	"io"
)

// hydMagic tags a hydraulics cache so Reopen can reject a foreign or
// truncated stream before trusting its record layout.
const hydMagic uint32 = 0x45504843 // "EPHC"

var order = binary.LittleEndian

// Record is one hydraulic time step's complete state snapshot, laid
// out exactly as spec.md §6 describes: elapsed time, then five
// per-object float blocks, then the step size to the next record.
type Record struct {
	ElapsedTime int32
	Demand      []float32 // Nnodes
	Head        []float32 // Nnodes
	Flow        []float32 // Nlinks
	Status      []float32 // Nlinks
	Setting     []float32 // Nlinks
	NextHydStep int32
}

// HydCache is a random-access sequence of Records backed by a seekable
// stream (normally a file, but any io.ReadWriteSeeker works, which
// keeps it testable without touching a filesystem).
type HydCache struct {
	rw      io.ReadWriteSeeker
	Nnodes  int
	Nlinks  int
	recSize int64
	Count   int
}

const headerSize = 4 + 4 + 4 // magic, nnodes, nlinks

func recordSize(nnodes, nlinks int) int64 {
	return 4 + 4*int64(nnodes) + 4*int64(nnodes) + 4*int64(nlinks) + 4*int64(nlinks) + 4*int64(nlinks) + 4
}

// Create starts a fresh cache for a network of the given size, writing
// the header at the start of rw.
func Create(rw io.ReadWriteSeeker, nnodes, nlinks int) (*HydCache, error) {
	c := &HydCache{rw: rw, Nnodes: nnodes, Nlinks: nlinks, recSize: recordSize(nnodes, nlinks)}
	if _, err := rw.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	hdr := make([]byte, headerSize)
	order.PutUint32(hdr[0:4], hydMagic)
	order.PutUint32(hdr[4:8], uint32(nnodes))
	order.PutUint32(hdr[8:12], uint32(nlinks))
	if _, err := rw.Write(hdr); err != nil {
		return nil, err
	}
	return c, nil
}

// Reopen validates an existing cache's header and recovers its record
// count from the stream length, with no schema-version field to check
// since the format carries none (§9 Open Question).
func Reopen(rw io.ReadWriteSeeker) (*HydCache, error) {
	if _, err := rw.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	hdr := make([]byte, headerSize)
	if _, err := io.ReadFull(rw, hdr); err != nil {
		return nil, fmt.Errorf("persist: cannot read hydraulics cache header: %w", err)
	}
	if order.Uint32(hdr[0:4]) != hydMagic {
		return nil, fmt.Errorf("persist: not a hydraulics cache (bad magic number)")
	}
	nnodes := int(order.Uint32(hdr[4:8]))
	nlinks := int(order.Uint32(hdr[8:12]))
	c := &HydCache{rw: rw, Nnodes: nnodes, Nlinks: nlinks, recSize: recordSize(nnodes, nlinks)}

	size, err := rw.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	body := size - headerSize - 1 // trailing EOF marker byte
	if body < 0 {
		body = 0
	}
	c.Count = int(body / c.recSize)
	return c, nil
}

// WriteRecord appends rec as the next sequential record (random access
// for replay is via ReadRecord; writes during a hydraulic run are
// always sequential, one per accepted time step).
func (c *HydCache) WriteRecord(rec *Record) error {
	if len(rec.Demand) != c.Nnodes || len(rec.Head) != c.Nnodes {
		return fmt.Errorf("persist: record node count mismatch")
	}
	if len(rec.Flow) != c.Nlinks || len(rec.Status) != c.Nlinks || len(rec.Setting) != c.Nlinks {
		return fmt.Errorf("persist: record link count mismatch")
	}
	off := headerSize + int64(c.Count)*c.recSize
	if _, err := c.rw.Seek(off, io.SeekStart); err != nil {
		return err
	}
	buf := make([]byte, c.recSize)
	p := 0
	order.PutUint32(buf[p:], uint32(rec.ElapsedTime))
	p += 4
	p = putFloats(buf, p, rec.Demand)
	p = putFloats(buf, p, rec.Head)
	p = putFloats(buf, p, rec.Flow)
	p = putFloats(buf, p, rec.Status)
	p = putFloats(buf, p, rec.Setting)
	order.PutUint32(buf[p:], uint32(rec.NextHydStep))
	if _, err := c.rw.Write(buf); err != nil {
		return err
	}
	c.Count++
	return nil
}

// ReadRecord reads the i'th record (0-based), the random-access
// property the sequential quality driver relies on to replay
// hydraulics snapshots out of step order with quality time.
func (c *HydCache) ReadRecord(i int) (*Record, error) {
	if i < 0 || i >= c.Count {
		return nil, fmt.Errorf("persist: record %d out of range [0,%d)", i, c.Count)
	}
	off := headerSize + int64(i)*c.recSize
	if _, err := c.rw.Seek(off, io.SeekStart); err != nil {
		return nil, err
	}
	buf := make([]byte, c.recSize)
	if _, err := io.ReadFull(c.rw, buf); err != nil {
		return nil, err
	}
	rec := &Record{}
	p := 0
	rec.ElapsedTime = int32(order.Uint32(buf[p:]))
	p += 4
	rec.Demand, p = getFloats(buf, p, c.Nnodes)
	rec.Head, p = getFloats(buf, p, c.Nnodes)
	rec.Flow, p = getFloats(buf, p, c.Nlinks)
	rec.Status, p = getFloats(buf, p, c.Nlinks)
	rec.Setting, p = getFloats(buf, p, c.Nlinks)
	rec.NextHydStep = int32(order.Uint32(buf[p:]))
	return rec, nil
}

// Close appends the terminating zero-step record and end-of-file
// marker byte spec.md describes, then leaves the stream positioned at
// its logical end.
func (c *HydCache) Close() error {
	term := &Record{
		Demand: make([]float32, c.Nnodes), Head: make([]float32, c.Nnodes),
		Flow: make([]float32, c.Nlinks), Status: make([]float32, c.Nlinks), Setting: make([]float32, c.Nlinks),
	}
	if err := c.WriteRecord(term); err != nil {
		return err
	}
	if _, err := c.rw.Write([]byte{0xff}); err != nil {
		return err
	}
	return nil
}

func putFloats(buf []byte, p int, vals []float32) int {
	for _, v := range vals {
		order.PutUint32(buf[p:], floatBits(v))
		p += 4
	}
	return p
}

func getFloats(buf []byte, p, n int) ([]float32, int) {
	out := make([]float32, n)
	for i := range out {
		out[i] = bitsFloat(order.Uint32(buf[p:]))
		p += 4
	}
	return out, p
}
