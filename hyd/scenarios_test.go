// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hyd

import (
	"math"
	"testing"

	"github.com/cpmech/epanet-go/netw"
	"github.com/cpmech/gosl/chk"
)

// hwResistance mirrors computeResistance's Hazen-Williams branch so a
// test can independently predict a pipe's headloss without reaching
// into unexported solver state.
func hwResistance(length, diameter, roughness float64) float64 {
	return 4.727 * length / math.Pow(roughness, 1.852) / math.Pow(diameter, 4.871)
}

// Test_hydScenario1HazenWilliams checks a single reservoir-pipe-junction
// network against the closed-form Hazen-Williams headloss: with one
// pipe and one demand, the solved flow is pinned by mass balance to the
// junction's demand, so the converged head must equal the reservoir
// head minus resistance*Q^1.852 to within the solver's own Hacc
// tolerance (§8 scenario 1). The internal solve works in EPANET's
// customary ft/cfs units, so the 4.727 coefficient is used here rather
// than spec.md's illustrative SI 10.67 (unit conversion is out of
// scope, SPEC_FULL.md §1).
func Test_hydScenario1HazenWilliams(tst *testing.T) {

	chk.PrintTitle("hyd01: single-pipe network matches closed-form Hazen-Williams headloss")

	net := netw.New()
	j, err := net.AddJunction("J1", 0)
	if err != nil {
		tst.Fatalf("AddJunction: %v", err)
	}
	r, err := net.AddReservoir("R1", 100)
	if err != nil {
		tst.Fatalf("AddReservoir: %v", err)
	}
	length, diameter, roughness := 1000.0, 1.0, 120.0
	if _, err := net.AddLink("P1", netw.Pipe, r, j, length, diameter, roughness, 0); err != nil {
		tst.Fatalf("AddLink: %v", err)
	}

	s := Open(net)
	const demand = 2.0 // cfs
	s.D[j] = demand
	net.Links[1].Flow = demand // initial guess, substitutes for engine's initlinkflow

	if _, err := s.Solve(); err != nil {
		tst.Fatalf("Solve: %v", err)
	}

	r1 := hwResistance(length, diameter, roughness)
	wantHead := 100 - r1*math.Pow(demand, net.Opts.Hexp())
	gotHead := net.Nodes[j].Head
	if math.Abs(gotHead-wantHead) > 1.0e-3 {
		tst.Fatalf("head = %.6f, want %.6f (closed-form)", gotHead, wantHead)
	}
	if math.Abs(net.Links[1].Flow-demand) > 1.0e-4 {
		tst.Fatalf("flow = %.6f, want %.6f", net.Links[1].Flow, demand)
	}
}

// Test_hydScenario2TankFillTiming checks that the flow hyd.Solver
// computes into a tank across a two-pipe series path matches the
// closed-form Hazen-Williams series solution, and that the fill time
// implied by that flow (engine.tankTimeStep's (Vmax-V)/|Q|, recomputed
// here from the tank's own geometry) is positive and finite (§8
// scenario 2). The timestep selector itself lives in package engine;
// this exercises the hydraulic half of that computation, which is
// package hyd's responsibility.
func Test_hydScenario2TankFillTiming(tst *testing.T) {

	chk.PrintTitle("hyd02: series-pipe flow into a tank matches closed-form headloss and implies a sane fill time")

	net := netw.New()
	jmid, err := net.AddJunction("Jmid", 50)
	if err != nil {
		tst.Fatalf("AddJunction: %v", err)
	}
	r, err := net.AddReservoir("R1", 120)
	if err != nil {
		tst.Fatalf("AddReservoir: %v", err)
	}
	const tankDiameter = 10.0
	tk, err := net.AddTank("T1", 50, 10, 0, 20, tankDiameter, 0)
	if err != nil {
		tst.Fatalf("AddTank: %v", err)
	}
	len1, len2, diameter, roughness := 200.0, 300.0, 1.0, 120.0
	if _, err := net.AddLink("P1", netw.Pipe, r, jmid, len1, diameter, roughness, 0); err != nil {
		tst.Fatalf("AddLink P1: %v", err)
	}
	if _, err := net.AddLink("P2", netw.Pipe, jmid, tk, len2, diameter, roughness, 0); err != nil {
		tst.Fatalf("AddLink P2: %v", err)
	}

	s := Open(net)
	s.D[jmid] = 0
	net.Links[1].Flow = 1.0
	net.Links[2].Flow = 1.0

	if _, err := s.Solve(); err != nil {
		tst.Fatalf("Solve: %v", err)
	}

	r1 := hwResistance(len1, diameter, roughness)
	r2 := hwResistance(len2, diameter, roughness)
	hexp := net.Opts.Hexp()
	tankHead := net.Nodes[tk].Head
	wantQ := math.Pow((120-tankHead)/(r1+r2), 1.0/hexp)
	gotQ := net.Links[2].Flow
	if math.Abs(gotQ-wantQ) > 1.0e-3 {
		tst.Fatalf("tank inflow = %.6f, want %.6f (closed-form series headloss)", gotQ, wantQ)
	}
	if math.Abs(net.Links[1].Flow-net.Links[2].Flow) > 1.0e-6 {
		tst.Fatalf("flow not conserved across zero-demand junction: P1=%.6f P2=%.6f", net.Links[1].Flow, net.Links[2].Flow)
	}

	tank := net.Nodes[tk]
	area := math.Pi / 4.0 * tankDiameter * tankDiameter
	fillTime := area * (tank.MaxLevel - (tank.Head - tank.Elevation)) / gotQ
	if fillTime <= 0 || math.IsInf(fillTime, 0) || math.IsNaN(fillTime) {
		tst.Fatalf("fill time = %v, want a positive finite duration", fillTime)
	}
}

// Test_hydScenario3PRVStatusCycling checks that a PRV starts ACTIVE
// (pinning its downstream head to the setpoint) while upstream headloss
// is small, and transitions to OPEN once downstream demand grows large
// enough that the valve can no longer sustain the setpoint (§8 scenario
// 3; prvstatus() in hydraul.c).
func Test_hydScenario3PRVStatusCycling(tst *testing.T) {

	chk.PrintTitle("hyd03: PRV cycles ACTIVE to OPEN as downstream demand grows")

	newNet := func() (net *netw.Network, jmid, j1, prv int) {
		net = netw.New()
		var err error
		jmid, err = net.AddJunction("Jmid", 0)
		if err != nil {
			tst.Fatalf("AddJunction Jmid: %v", err)
		}
		j1, err = net.AddJunction("J1", 0)
		if err != nil {
			tst.Fatalf("AddJunction J1: %v", err)
		}
		r, err := net.AddReservoir("R1", 100)
		if err != nil {
			tst.Fatalf("AddReservoir: %v", err)
		}
		if _, err := net.AddLink("P0", netw.Pipe, r, jmid, 500, 1.0, 100, 0); err != nil {
			tst.Fatalf("AddLink P0: %v", err)
		}
		prv, err = net.AddLink("V1", netw.PRV, jmid, j1, 0, 0, 0, 0)
		if err != nil {
			tst.Fatalf("AddLink V1: %v", err)
		}
		net.Links[prv].Setting = 30
		net.Links[prv].Status = netw.Active // openhyd() starts active control valves ACTIVE
		return
	}

	// Low downstream demand: upstream pipe headloss stays small, so the
	// unthrottled head at Jmid would exceed the 30ft setpoint and the
	// valve must keep throttling.
	net, _, j1, prv := newNet()
	s := Open(net)
	s.D[j1] = 2.0
	net.Links[1].Flow = 2.0
	net.Links[2].Flow = 2.0
	if _, err := s.Solve(); err != nil {
		tst.Fatalf("Solve (low demand): %v", err)
	}
	chk.IntAssert(int(net.Links[prv].Status), int(netw.Active))
	if math.Abs(net.Nodes[j1].Head-30) > 1.0e-2 {
		tst.Fatalf("downstream head = %.4f, want 30 (pinned by active PRV)", net.Nodes[j1].Head)
	}

	// High downstream demand: upstream pipe headloss grows enough that
	// Jmid's unthrottled head falls below the setpoint, so the valve
	// gives up throttling and goes fully open.
	net, _, j1, prv = newNet()
	s = Open(net)
	s.D[j1] = 50.0
	net.Links[1].Flow = 50.0
	net.Links[2].Flow = 50.0
	if _, err := s.Solve(); err != nil {
		tst.Fatalf("Solve (high demand): %v", err)
	}
	chk.IntAssert(int(net.Links[prv].Status), int(netw.Open))
	if net.Nodes[j1].Head >= 30-Htol {
		tst.Fatalf("downstream head = %.4f, want < 30 (valve open, no longer throttling)", net.Nodes[j1].Head)
	}
}
