// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package persist

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/cpmech/epanet-go/epaerr"
	"github.com/cpmech/epanet-go/netw"
)

// outMagic opens and closes a binary output file, letting a reader
// confirm the stream wasn't truncated mid-write (§6).
const outMagic uint32 = 0x45504F55 // "EPOU"

// codeVersion is this port's output-format revision, unrelated to any
// upstream version numbering.
const codeVersion = 1

// nodeVarsPerPeriod and linkVarsPerPeriod are the per-object float
// counts §6 fixes for every reporting period: node (demand, head,
// pressure, quality) and link (flow, velocity, headloss, status,
// setting, bulk reaction coefficient, wall reaction coefficient, one
// reserved slot).
const (
	nodeVarsPerPeriod = 4
	linkVarsPerPeriod = 8
)

// OutputWriter appends one binary snapshot block per reporting period
// to w, framed by a fixed header (object counts, option flags, ID
// tables) and a footer (average reaction rates, period count, warning
// flag, closing magic number).
type OutputWriter struct {
	w        io.Writer
	nnodes   int
	nlinks   int
	nperiods int
}

// NewOutputWriter writes the header and returns a writer ready for
// WritePeriod calls.
func NewOutputWriter(w io.Writer, net *netw.Network) (*OutputWriter, error) {
	o := &OutputWriter{w: w, nnodes: net.Nnodes(), nlinks: net.Nlinks()}

	var hdr []byte
	hdr = appendU32(hdr, outMagic)
	hdr = appendU32(hdr, codeVersion)
	hdr = appendU32(hdr, uint32(net.Nnodes()))
	hdr = appendU32(hdr, uint32(net.Njuncs))
	hdr = appendU32(hdr, uint32(net.Nlinks()))
	hdr = appendU32(hdr, uint32(net.Opts.Formula))
	hdr = appendU32(hdr, uint32(net.Opts.QualMode))
	hdr = appendF32(hdr, float32(net.Opts.ReportStep))
	hdr = appendF32(hdr, float32(net.Opts.Pstart))
	hdr = appendF32(hdr, float32(net.Opts.Dur))

	for i := 1; i <= net.Nnodes(); i++ {
		hdr = appendIDString(hdr, net.NodeIdx.Key(i))
	}
	for k := 1; k <= net.Nlinks(); k++ {
		hdr = appendIDString(hdr, net.LinkIdx.Key(k))
	}

	if _, err := w.Write(hdr); err != nil {
		return nil, err
	}
	return o, nil
}

// WritePeriod appends one reporting period's node and link variable
// block, read directly off the network's current solved state.
func (o *OutputWriter) WritePeriod(net *netw.Network) error {
	if net.Nnodes() != o.nnodes || net.Nlinks() != o.nlinks {
		return fmt.Errorf("persist: network size changed since OutputWriter was opened")
	}
	buf := make([]byte, 0, 4*(nodeVarsPerPeriod*o.nnodes+linkVarsPerPeriod*o.nlinks))
	for i := 1; i <= o.nnodes; i++ {
		n := net.Nodes[i]
		demand := n.Demand
		pressure := n.Head - n.Elevation
		buf = appendF32(buf, float32(demand))
		buf = appendF32(buf, float32(n.Head))
		buf = appendF32(buf, float32(pressure))
		buf = appendF32(buf, float32(n.Quality))
	}
	for k := 1; k <= o.nlinks; k++ {
		l := net.Links[k]
		var velocity float64
		if l.Diameter > 0 {
			area := 3.14159265358979323846 * l.Diameter * l.Diameter / 4
			velocity = l.Flow / area
		}
		buf = appendF32(buf, float32(l.Flow))
		buf = appendF32(buf, float32(velocity))
		buf = appendF32(buf, float32(headloss(net, l)))
		buf = appendF32(buf, float32(l.Status))
		buf = appendF32(buf, float32(l.Setting))
		buf = appendF32(buf, float32(l.BulkCoeff))
		buf = appendF32(buf, float32(l.WallCoeff))
		buf = appendF32(buf, 0) // reserved
	}
	if _, err := o.w.Write(buf); err != nil {
		return err
	}
	o.nperiods++
	return nil
}

func headloss(net *netw.Network, l *netw.Link) float64 {
	return net.Nodes[l.From].Head - net.Nodes[l.To].Head
}

// Close appends the footer documented in §6: average bulk/wall
// reaction rates over the run, the total period count, the
// accumulated warning flag, and the closing magic number.
func (o *OutputWriter) Close(avgBulkRate, avgWallRate float64, warn epaerr.Warning) error {
	var ftr []byte
	ftr = appendF32(ftr, float32(avgBulkRate))
	ftr = appendF32(ftr, float32(avgWallRate))
	ftr = appendU32(ftr, uint32(o.nperiods))
	ftr = appendU32(ftr, uint32(warn))
	ftr = appendU32(ftr, outMagic)
	_, err := o.w.Write(ftr)
	return err
}

func appendU32(buf []byte, v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return append(buf, b...)
}

func appendF32(buf []byte, v float32) []byte {
	return appendU32(buf, floatBits(v))
}

// appendIDString writes a length-prefixed ID so the fixed 31-char
// limit (§6) doesn't force every ID table entry to pad to full width.
func appendIDString(buf []byte, id string) []byte {
	buf = appendU32(buf, uint32(len(id)))
	return append(buf, []byte(id)...)
}
