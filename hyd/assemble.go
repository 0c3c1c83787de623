// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hyd

import (
	"math"

	"github.com/cpmech/epanet-go/netw"
)

// newCoeffs clears and rebuilds Aii/Aij/F/X and every link's P/Y for the
// current flow estimate (newcoeffs() in hydraul.c).
func (s *Solver) newCoeffs() {
	for i := range s.Aii {
		s.Aii[i] = 0
	}
	for i := range s.Aij {
		s.Aij[i] = 0
	}
	for i := range s.F {
		s.F[i] = 0
	}
	for i := range s.X {
		s.X[i] = 0
	}
	for k := 1; k <= s.Net.Nlinks(); k++ {
		s.Net.Links[k].P = 0
		s.Net.Links[k].Y = 0
	}
	s.linkCoeffs()
	s.emitterCoeffs()
	s.nodeCoeffs()
	s.valveCoeffs()
}

// linkCoeffs computes every ordinary link's P/Y (deferring active-state
// PRV/PSV/FCV links to valveCoeffs) and folds each into the nodal flow
// imbalance X and the global matrix/RHS (linkcoeffs() in hydraul.c).
func (s *Solver) linkCoeffs() {
	net := s.Net
	for k := 1; k <= net.Nlinks(); k++ {
		l := net.Links[k]
		if linearize(net, l) {
			continue
		}

		n1, n2 := l.From, l.To
		s.X[n1] -= l.Flow
		s.X[n2] += l.Flow
		s.Aij[s.Graph.Ndx[k]] -= l.P

		if n1 <= s.Njuncs {
			s.Aii[s.row(n1)] += l.P
			s.F[s.row(n1)] += l.Y
		} else {
			s.F[s.row(n2)] += l.P * net.Nodes[n1].Head
		}
		if n2 <= s.Njuncs {
			s.Aii[s.row(n2)] += l.P
			s.F[s.row(n2)] -= l.Y
		} else {
			s.F[s.row(n1)] += l.P * net.Nodes[n2].Head
		}
	}
}

// emitterCoeffs folds each junction's pressure-driven emitter outflow
// into the matrix as a fictitious pipe to a reservoir at the junction's
// elevation (emittercoeffs() in hydraul.c).
func (s *Solver) emitterCoeffs() {
	net := s.Net
	gamma := net.Opts.EmitterExponent
	if gamma == 0 {
		gamma = 0.5
	}
	qexp := 1.0 / gamma
	for i := 1; i <= s.Njuncs; i++ {
		n := net.Nodes[i]
		if n.EmitterCoefficient == 0 {
			continue
		}
		ke := math.Max(CSmall, math.Pow(n.EmitterCoefficient, -qexp))
		q := s.E[i]
		z := ke * math.Pow(abs(q), qexp)
		p := qexp * z / abs(q)
		if p < RQtol {
			p = 1.0 / RQtol
		} else {
			p = 1.0 / p
		}
		y := sgn(q) * z * p
		s.Aii[s.row(i)] += p
		s.F[s.row(i)] += y + p*n.Elevation
		s.X[i] -= q
	}
}

// emitFlowChange returns the Newton update for junction i's emitter
// flow given the just-solved head (emitflowchange() in hydraul.c).
func (s *Solver) emitFlowChange(i int) float64 {
	net := s.Net
	n := net.Nodes[i]
	gamma := net.Opts.EmitterExponent
	if gamma == 0 {
		gamma = 0.5
	}
	qexp := 1.0 / gamma
	ke := math.Max(CSmall, math.Pow(n.EmitterCoefficient, -qexp))
	p := qexp * ke * math.Pow(abs(s.E[i]), qexp-1.0)
	if p < RQtol {
		p = 1.0 / RQtol
	} else {
		p = 1.0 / p
	}
	return s.E[i]/qexp - p*(n.Head-n.Elevation)
}

// nodeCoeffs folds each junction's net demand into its row of the RHS
// (nodecoeffs() in hydraul.c). When pressure-dependent analysis (PDA)
// is enabled, a junction's demand is not a head-independent constant:
// it is linearized around the current head estimate and folded into
// Aii as well, exactly the way a demand-independent D[i] only ever
// touches F. Below Pmin or at/above Preq the demand is locally
// constant (zero, or the full requested amount) and the ordinary
// constant-demand path applies.
func (s *Solver) nodeCoeffs() {
	net := s.Net
	opts := net.Opts
	pexp := opts.Pexp
	if pexp == 0 {
		pexp = 0.5
	}
	span := opts.Preq - opts.Pmin
	for i := 1; i <= s.Njuncs; i++ {
		n := net.Nodes[i]
		full := s.D[i]
		if opts.PDAEnabled && full > 0 && span > 0 {
			pressure := n.Head - n.Elevation
			if pressure <= opts.Pmin {
				s.Pda[i] = 0
				s.F[s.row(i)] += s.X[i]
				continue
			}
			if pressure < opts.Preq {
				ratio := (pressure - opts.Pmin) / span
				frac := math.Pow(ratio, 1.0/pexp)
				q0 := full * frac
				cond := full * frac / (pexp * (pressure - opts.Pmin))
				s.Aii[s.row(i)] += cond
				s.X[i] += cond*n.Head - q0
				s.F[s.row(i)] += s.X[i]
				s.Pda[i] = q0
				continue
			}
		}
		s.Pda[i] = full
		s.X[i] -= full
		s.F[s.row(i)] += s.X[i]
	}
}

// valveCoeffs augments the matrix/RHS for every PRV/PSV/FCV whose
// status is not fixed OPEN/CLOSED (valvecoeffs() in hydraul.c).
func (s *Solver) valveCoeffs() {
	net := s.Net
	for k := 1; k <= net.Nlinks(); k++ {
		l := net.Links[k]
		if !l.IsPRVPSVFCV() || !l.HasSetting() {
			continue
		}
		switch l.Kind {
		case netw.PRV:
			s.prvCoeff(k, l)
		case netw.PSV:
			s.psvCoeff(k, l)
		case netw.FCV:
			s.fcvCoeff(k, l)
		}
	}
}

// prvCoeff implements prvcoeff() in hydraul.c: when ACTIVE, pins the
// downstream head to the valve's setpoint and forces its flow to match
// the downstream imbalance; otherwise treats it as a plain valve.
func (s *Solver) prvCoeff(k int, l *netw.Link) {
	n1, n2 := l.From, l.To
	i, j := s.row(n1), s.row(n2)
	hset := s.Net.Nodes[n2].Elevation + l.Setting

	if l.Status == netw.Active {
		l.P = 0.0
		l.Y = l.Flow + s.X[n2]
		s.F[j] += hset * CBig
		s.Aii[j] += CBig
		if s.X[n2] < 0.0 {
			s.F[i] += s.X[n2]
		}
		return
	}

	valveCoeff(l)
	s.Aij[s.Graph.Ndx[k]] -= l.P
	s.Aii[i] += l.P
	s.Aii[j] += l.P
	s.F[i] += l.Y - l.Flow
	s.F[j] -= l.Y - l.Flow
}

// psvCoeff implements psvcoeff() in hydraul.c: the upstream-head
// mirror of prvCoeff.
func (s *Solver) psvCoeff(k int, l *netw.Link) {
	n1, n2 := l.From, l.To
	i, j := s.row(n1), s.row(n2)
	hset := s.Net.Nodes[n1].Elevation + l.Setting

	if l.Status == netw.Active {
		l.P = 0.0
		l.Y = l.Flow - s.X[n1]
		s.F[i] += hset * CBig
		s.Aii[i] += CBig
		if s.X[n1] > 0.0 {
			s.F[j] += s.X[n1]
		}
		return
	}

	valveCoeff(l)
	s.Aij[s.Graph.Ndx[k]] -= l.P
	s.Aii[i] += l.P
	s.Aii[j] += l.P
	s.F[i] += l.Y - l.Flow
	s.F[j] -= l.Y - l.Flow
}

// fcvCoeff implements fcvcoeff() in hydraul.c: when ACTIVE, breaks the
// network at the valve and treats its setting as an external
// demand/supply pair at its two end nodes.
func (s *Solver) fcvCoeff(k int, l *netw.Link) {
	n1, n2 := l.From, l.To
	i, j := s.row(n1), s.row(n2)
	q := l.Setting

	if l.Status == netw.Active {
		s.X[n1] -= q
		s.F[i] -= q
		s.X[n2] += q
		s.F[j] += q
		l.P = 1.0 / CBig
		s.Aij[s.Graph.Ndx[k]] -= l.P
		s.Aii[i] += l.P
		s.Aii[j] += l.P
		l.Y = l.Flow - q
		return
	}

	valveCoeff(l)
	s.Aij[s.Graph.Ndx[k]] -= l.P
	s.Aii[i] += l.P
	s.Aii[j] += l.P
	s.F[i] += l.Y - l.Flow
	s.F[j] -= l.Y - l.Flow
}
