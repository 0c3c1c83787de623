// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package persist

import (
	"bytes"
	"io"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// memStream is a minimal in-memory io.ReadWriteSeeker, standing in for
// a file during tests so HydCache's random-access contract can be
// exercised without touching a filesystem.
type memStream struct {
	buf []byte
	pos int64
}

func (m *memStream) Write(p []byte) (int, error) {
	end := m.pos + int64(len(p))
	if end > int64(len(m.buf)) {
		grown := make([]byte, end)
		copy(grown, m.buf)
		m.buf = grown
	}
	copy(m.buf[m.pos:end], p)
	m.pos = end
	return len(p), nil
}

func (m *memStream) Read(p []byte) (int, error) {
	if m.pos >= int64(len(m.buf)) {
		return 0, io.EOF
	}
	n := copy(p, m.buf[m.pos:])
	m.pos += int64(n)
	return n, nil
}

func (m *memStream) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		m.pos = offset
	case io.SeekCurrent:
		m.pos += offset
	case io.SeekEnd:
		m.pos = int64(len(m.buf)) + offset
	}
	return m.pos, nil
}

// Test_persist01 checks that records written to a fresh cache come
// back unchanged via random-access ReadRecord.
func Test_persist01(tst *testing.T) {

	chk.PrintTitle("persist01: hydraulics cache round-trips records")

	m := &memStream{}
	c, err := Create(m, 2, 1)
	if err != nil {
		tst.Fatalf("Create: %v", err)
	}

	r0 := &Record{ElapsedTime: 0, Demand: []float32{1, 2}, Head: []float32{10, 20}, Flow: []float32{5}, Status: []float32{1}, Setting: []float32{0}, NextHydStep: 3600}
	r1 := &Record{ElapsedTime: 3600, Demand: []float32{1, 2}, Head: []float32{11, 19}, Flow: []float32{4.5}, Status: []float32{1}, Setting: []float32{0}, NextHydStep: 3600}

	if err := c.WriteRecord(r0); err != nil {
		tst.Fatalf("WriteRecord 0: %v", err)
	}
	if err := c.WriteRecord(r1); err != nil {
		tst.Fatalf("WriteRecord 1: %v", err)
	}
	if err := c.Close(); err != nil {
		tst.Fatalf("Close: %v", err)
	}

	chk.IntAssert(c.Count, 3) // two real records plus the terminator

	got0, err := c.ReadRecord(0)
	if err != nil {
		tst.Fatalf("ReadRecord 0: %v", err)
	}
	chk.Scalar(tst, "r0 head[1]", 1e-6, float64(got0.Head[1]), 20)
	chk.IntAssert(int(got0.NextHydStep), 3600)

	got1, err := c.ReadRecord(1)
	if err != nil {
		tst.Fatalf("ReadRecord 1: %v", err)
	}
	chk.Scalar(tst, "r1 flow[0]", 1e-6, float64(got1.Flow[0]), 4.5)
}

// Test_persist02 checks that Reopen recovers the header and record
// count from a stream written by a prior Create/WriteRecord/Close
// sequence.
func Test_persist02(tst *testing.T) {

	chk.PrintTitle("persist02: reopen recovers header and record count")

	m := &memStream{}
	c, err := Create(m, 1, 1)
	if err != nil {
		tst.Fatalf("Create: %v", err)
	}
	rec := &Record{Demand: []float32{1}, Head: []float32{5}, Flow: []float32{2}, Status: []float32{1}, Setting: []float32{0}, NextHydStep: 60}
	if err := c.WriteRecord(rec); err != nil {
		tst.Fatalf("WriteRecord: %v", err)
	}
	if err := c.Close(); err != nil {
		tst.Fatalf("Close: %v", err)
	}

	reopened, err := Reopen(m)
	if err != nil {
		tst.Fatalf("Reopen: %v", err)
	}
	chk.IntAssert(reopened.Nnodes, 1)
	chk.IntAssert(reopened.Nlinks, 1)
	chk.IntAssert(reopened.Count, 2)

	got, err := reopened.ReadRecord(0)
	if err != nil {
		tst.Fatalf("ReadRecord: %v", err)
	}
	chk.Scalar(tst, "head", 1e-6, float64(got.Head[0]), 5)
}

// Test_persist03 checks that Reopen rejects a stream with a bad magic
// number.
func Test_persist03(tst *testing.T) {

	chk.PrintTitle("persist03: reopen rejects a bad magic number")

	m := &memStream{buf: bytes.Repeat([]byte{0}, 64)}
	if _, err := Reopen(m); err == nil {
		tst.Fatalf("expected an error for a zero-magic stream")
	}
}
