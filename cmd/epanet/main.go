// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command epanet runs an extended-period hydraulic and water-quality
// simulation against a small programmatically-built network, since the
// textual input-file parser is out of scope (§1 Non-goals). It exists
// to exercise package engine end-to-end the way gofem's main.go drives
// package fem, not to replace a full command-line network editor.
package main

import (
	"flag"
	"os"

	"github.com/cpmech/epanet-go/engine"
	"github.com/cpmech/epanet-go/netw"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

func main() {

	interleaved := flag.Bool("interleaved", true, "use the interleaved extended-period driver instead of sequential")
	hours := flag.Float64("hours", 24, "simulation duration, in hours")
	verbose := flag.Bool("verbose", true, "print progress and a final summary")
	flag.Parse()

	defer func() {
		if err := recover(); err != nil {
			io.PfRed("ERROR: %v\n", err)
			os.Exit(1)
		}
	}()

	if *verbose {
		io.PfWhite("\nepanet-go -- hydraulic and water-quality network simulation\n\n")
	}

	net := demoNetwork(*hours)
	p, err := engine.Open(net)
	if err != nil {
		chk.Panic("cannot open project: %v", err)
	}

	if *interleaved {
		if err := p.RunInterleaved(*verbose); err != nil {
			chk.Panic("interleaved run failed: %v", err)
		}
	} else {
		if err := p.RunSequential(nil, *verbose); err != nil {
			chk.Panic("sequential run failed: %v", err)
		}
	}

	if *verbose {
		printSummary(p)
	}
}

// demoNetwork builds a reservoir supplying a tank through a pump and a
// junction with a diurnal demand pattern, a network just large enough
// to exercise every node/link kind the engine package drives.
func demoNetwork(hours float64) *netw.Network {
	net := netw.New()

	j1, err := net.AddJunction("J1", 650)
	if err != nil {
		chk.Panic("AddJunction: %v", err)
	}
	res, err := net.AddReservoir("R1", 700)
	if err != nil {
		chk.Panic("AddReservoir: %v", err)
	}
	tank, err := net.AddTank("T1", 680, 10, 2, 20, 12, 0)
	if err != nil {
		chk.Panic("AddTank: %v", err)
	}

	pat, err := net.AddPattern("DIURNAL", []float64{0.5, 0.6, 0.8, 1.2, 1.4, 1.1, 0.9, 0.7})
	if err != nil {
		chk.Panic("AddPattern: %v", err)
	}
	net.Nodes[j1].Demands = []netw.Demand{{Base: 0.04, PatternIdx: pat}}

	_, err = net.AddLink("PIPE1", netw.Pipe, j1, tank, 500, 0.25, 120, 0)
	if err != nil {
		chk.Panic("AddLink PIPE1: %v", err)
	}
	pump, err := net.AddLink("PUMP1", netw.Pump, res, j1, 0, 0, 0, 0)
	if err != nil {
		chk.Panic("AddLink PUMP1: %v", err)
	}
	curve, err := net.AddCurve("PCURVE", netw.PumpHeadCurve, []float64{0, 0.06, 0.1}, []float64{120, 90, 60})
	if err != nil {
		chk.Panic("AddCurve: %v", err)
	}
	net.Links[pump].Pump = &netw.PumpData{CurveType: netw.CustomCurve, CurveIdx: curve, Speed: 1.0}
	net.Links[pump].Setting = 1.0
	net.Links[pump].InitialSetting = 1.0

	net.Opts.Dur = hours * 3600
	net.Opts.QualMode = netw.QualAge

	return net
}

func printSummary(p *engine.Project) {
	io.Pf("\n> final elapsed hydraulic time = %.0f s\n", p.Htime)
	io.Pf("> final elapsed quality time    = %.0f s\n", p.Qtime)
	io.Pf("> system peak energy draw       = %.2f kW\n", p.Energy.Emax)
	if warns := p.Warnflag.Strings(); len(warns) > 0 {
		io.PfYel("> warnings: %v\n", warns)
	}
}
