// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hyd

import (
	"math"

	"github.com/cpmech/epanet-go/netw"
	"github.com/cpmech/epanet-go/sparse"
)

// Solver owns the working arrays of the gradient-method solve: the
// reordered/factored sparse system plus the per-node/per-link scratch
// that Todini's algorithm threads through one hydraulic time step. It
// is built once per topology (Open) and reused across every time step
// of an extended-period run, since the symbolic factorization and
// minimum-degree order depend only on the network graph, not on its
// current flows.
type Solver struct {
	Net   *netw.Network
	Graph *sparse.Graph
	Order *sparse.Reordered
	Sym   *sparse.Symbolic

	Njuncs int

	Aii []float64 // diagonal, size Njuncs+1, indexed by row
	Aij []float64 // off-diagonal, size Ncoeffs+1, indexed by coeff slot
	F   []float64 // RHS, size Njuncs+1, indexed by row
	X   []float64 // net nodal flow imbalance, size Nnodes+1, indexed by node

	D   []float64 // per-node total demand; caller fills before each solve
	E   []float64 // per-junction emitter flow, size Njuncs+1
	Pda []float64 // per-junction actual delivered demand, size Njuncs+1; equals D[i] unless Opts.PDAEnabled reduces it

	RelaxFactor float64
}

// Open builds the adjacency graph, minimum-degree order and symbolic
// factorization for net's current topology, and computes the
// flow-independent pipe/pump resistance coefficients (openhyd()/
// resistance() in hydraul.c). The network's topology must not change
// afterwards without calling Open again.
func Open(net *netw.Network) *Solver {
	njuncs := net.Njuncs
	endpoints := make([]sparse.Endpoint, net.Nlinks())
	for k := 1; k <= net.Nlinks(); k++ {
		endpoints[k-1] = sparse.Endpoint{From: net.Links[k].From, To: net.Links[k].To}
	}
	g := sparse.BuildGraph(net.Nnodes(), endpoints)
	order := sparse.Reorder(g, njuncs)
	sym := sparse.StoreSparse(g, njuncs, order)

	s := &Solver{
		Net:    net,
		Graph:  g,
		Order:  order,
		Sym:    sym,
		Njuncs: njuncs,
		Aii:    make([]float64, njuncs+1),
		Aij:    make([]float64, order.Ncoeffs+1),
		F:      make([]float64, njuncs+1),
		X:      make([]float64, net.Nnodes()+1),
		D:      make([]float64, net.Nnodes()+1),
		E:      make([]float64, njuncs+1),
		Pda:    make([]float64, njuncs+1),
	}
	for k := 1; k <= net.Nlinks(); k++ {
		computeResistance(net, net.Links[k])
	}
	return s
}

// computeResistance sets l.Resistance, the flow-independent part of its
// head-loss coefficient (resistance() in hydraul.c): Hazen-Williams,
// Darcy-Weisbach (friction factor applied later, in pipeCoeff) or
// Chezy-Manning for pipes; a large placeholder for pumps, whose actual
// resistance lives in l.Pump.
func computeResistance(net *netw.Network, l *netw.Link) {
	l.Resistance = CSmall
	switch l.Kind {
	case netw.CVPipe, netw.Pipe:
		e := l.Roughness
		d := l.Diameter
		length := l.Length
		switch net.Opts.Formula {
		case netw.HazenWilliams:
			l.Resistance = 4.727 * length / math.Pow(e, 1.852) / math.Pow(d, 4.871)
		case netw.DarcyWeisbach:
			area := math.Pi * d * d / 4.0
			l.Resistance = length / 2.0 / 32.2 / d / (area * area)
		case netw.ChezyManning:
			l.Resistance = math.Pow(4.0*e/(1.49*math.Pi*d*d), 2) * math.Pow(d/4.0, -1.333) * length
		}
	case netw.Pump:
		l.Resistance = CBig
	}
}

// row maps a node index to its position in the Njuncs-sized linear
// system; only meaningful for junction nodes (node <= Njuncs).
func (s *Solver) row(node int) int { return s.Order.Row[node] }
