// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"testing"

	"github.com/cpmech/epanet-go/netw"
	"github.com/cpmech/gosl/chk"
)

// onePipeNetwork builds a reservoir feeding a single junction through
// one pipe, the smallest topology Validate accepts.
func onePipeNetwork(tst *testing.T) *netw.Network {
	net := netw.New()
	j, err := net.AddJunction("J1", 10)
	if err != nil {
		tst.Fatalf("AddJunction: %v", err)
	}
	r, err := net.AddReservoir("R1", 100)
	if err != nil {
		tst.Fatalf("AddReservoir: %v", err)
	}
	net.Nodes[j].Demands = []netw.Demand{{Base: 0.05}}
	_, err = net.AddLink("P1", netw.Pipe, r, j, 1000, 0.3, 100, 0)
	if err != nil {
		tst.Fatalf("AddLink: %v", err)
	}
	net.Opts.Dur = 2 * 3600
	net.Opts.Hstep = 3600
	return net
}

func Test_engine01(tst *testing.T) {

	chk.PrintTitle("engine01: open/initH/runH/nextH lifecycle")

	net := onePipeNetwork(tst)
	p, err := Open(net)
	if err != nil {
		tst.Fatalf("Open: %v", err)
	}

	if err := p.OpenH(); err != nil {
		tst.Fatalf("OpenH: %v", err)
	}
	if err := p.InitH(11); err != nil {
		tst.Fatalf("InitH: %v", err)
	}
	chk.Scalar(tst, "Htime after InitH", 1e-12, p.Htime, 0)

	if _, err := p.RunH(); err != nil {
		tst.Fatalf("RunH: %v", err)
	}
	chk.Scalar(tst, "junction demand", 1e-9, net.Nodes[1].Demand, 0.05)

	steps := 0
	for {
		dt, err := p.NextH()
		if err != nil {
			tst.Fatalf("NextH: %v", err)
		}
		if dt == 0 {
			break
		}
		if _, err := p.RunH(); err != nil {
			tst.Fatalf("RunH (step %d): %v", steps, err)
		}
		steps++
		if steps > 10 {
			tst.Fatalf("NextH never reached duration")
		}
	}
	chk.Scalar(tst, "final Htime", 1e-9, p.Htime, net.Opts.Dur)

	if err := p.Close(); err != nil {
		tst.Fatalf("Close: %v", err)
	}
}

func Test_engine02(tst *testing.T) {

	chk.PrintTitle("engine02: quality lifecycle rides on top of hydraulics")

	net := onePipeNetwork(tst)
	net.Opts.QualMode = netw.QualAge
	p, err := Open(net)
	if err != nil {
		tst.Fatalf("Open: %v", err)
	}

	if err := p.OpenH(); err != nil {
		tst.Fatalf("OpenH: %v", err)
	}
	if err := p.InitH(11); err != nil {
		tst.Fatalf("InitH: %v", err)
	}
	if _, err := p.RunH(); err != nil {
		tst.Fatalf("RunH: %v", err)
	}

	if err := p.OpenQ(); err != nil {
		tst.Fatalf("OpenQ: %v", err)
	}
	if err := p.InitQ(0); err != nil {
		tst.Fatalf("InitQ: %v", err)
	}
	chk.Scalar(tst, "Qtime after InitQ", 1e-12, p.Qtime, 0)

	for steps := 0; p.Qtime < net.Opts.Dur; steps++ {
		if _, err := p.NextQ(); err != nil {
			tst.Fatalf("NextQ: %v", err)
		}
		if steps > 100 {
			tst.Fatalf("NextQ never reached duration")
		}
	}
	chk.Scalar(tst, "final Qtime", 1e-9, p.Qtime, net.Opts.Dur)
	chk.Scalar(tst, "final Htime", 1e-9, p.Htime, net.Opts.Dur)

	if err := p.Close(); err != nil {
		tst.Fatalf("Close: %v", err)
	}
}

func Test_engine03(tst *testing.T) {

	chk.PrintTitle("engine03: topology mutation blocked while hydraulics open")

	net := onePipeNetwork(tst)
	p, err := Open(net)
	if err != nil {
		tst.Fatalf("Open: %v", err)
	}
	if err := p.OpenH(); err != nil {
		tst.Fatalf("OpenH: %v", err)
	}
	if _, err := p.AddJunction("J2", 5); err == nil {
		tst.Fatalf("expected AddJunction to fail while hydraulics are open")
	}
}

func Test_engine04(tst *testing.T) {

	chk.PrintTitle("engine04: interleaved driver runs hydraulics and quality to completion")

	net := onePipeNetwork(tst)
	net.Opts.QualMode = netw.QualAge
	p, err := Open(net)
	if err != nil {
		tst.Fatalf("Open: %v", err)
	}
	if err := p.RunInterleaved(false); err != nil {
		tst.Fatalf("RunInterleaved: %v", err)
	}
	chk.Scalar(tst, "Htime", 1e-9, p.Htime, net.Opts.Dur)
	chk.Scalar(tst, "Qtime", 1e-9, p.Qtime, net.Opts.Dur)
}
