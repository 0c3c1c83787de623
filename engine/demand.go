// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "github.com/cpmech/epanet-go/netw"

// applyDemands multiplies each junction's base demand list by its
// pattern's current multiplier and writes the sum into hyd.Solver.D
// (the per-node demand array Solve reads before assembling the
// matrix), mirroring demands() in hydraul.c. It also records the
// result on Node.Demand so controls and reports can read a junction's
// imposed demand the same way they read a tank's solved net flow.
func (p *Project) applyDemands() {
	net := p.Net
	for i := 1; i <= net.Njuncs; i++ {
		n := net.Nodes[i]
		var d float64
		for _, dem := range n.Demands {
			d += dem.Base * patternMultiplier(net, dem.PatternIdx, p.Htime)
		}
		p.Hyd.D[i] = d
		n.Demand = d
	}
}

// patternMultiplier resolves a demand's effective multiplier: its own
// pattern if set, else the network's default pattern, else 1.0 (an
// unpatterned demand is constant).
func patternMultiplier(net *netw.Network, patternIdx int, htime float64) float64 {
	if patternIdx == 0 {
		patternIdx = net.Opts.DefaultPatternIdx
	}
	if patternIdx <= 0 || patternIdx >= len(net.Patterns) {
		return 1.0
	}
	return net.Patterns[patternIdx].At(htime, net.Opts.PatternStep, net.Opts.Pstart)
}

// syncNodeDemand copies each tank/reservoir's just-solved net flow
// (hyd.Solver.D, which newFlows populates for fixed-grade nodes) onto
// Node.Demand, so AttrDemand rule premises resolve uniformly across
// every node kind regardless of whether the flow was imposed (a
// junction's demand) or solved (a tank's net inflow/outflow). Under
// pressure-dependent analysis a junction's delivered demand can fall
// short of what applyDemands imposed, so Node.Demand is overwritten
// with the solver's actual delivered amount (hyd.Solver.Pda) rather
// than the target passed into the solve.
func (p *Project) syncNodeDemand() {
	net := p.Net
	if net.Opts.PDAEnabled {
		for i := 1; i <= net.Njuncs; i++ {
			net.Nodes[i].Demand = p.Hyd.Pda[i]
		}
	}
	for i := net.Njuncs + 1; i <= net.Nnodes(); i++ {
		net.Nodes[i].Demand = p.Hyd.D[i]
	}
}
