// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hyd

import (
	"github.com/cpmech/epanet-go/ctrl"
	"github.com/cpmech/epanet-go/epaerr"
	"github.com/cpmech/epanet-go/netw"
	"github.com/cpmech/epanet-go/sparse"
)

// Result summarizes one call to Solve: how many outer iterations it
// took and the converged relative flow-change error (§4.6).
type Result struct {
	Iterations int
	RelError   float64
	Warnings   epaerr.Warning
}

// Solve runs Todini's gradient-method Newton iteration to convergence
// for the network's current demands/status (netsolve() in hydraul.c):
// it assembles the linearized system, factors and solves it via
// package sparse, updates flows, and periodically rescans link/valve
// status until the relative flow change drops below Hacc or the
// iteration budget is exhausted.
func (s *Solver) Solve() (*Result, error) {
	net := s.Net
	opts := net.Opts

	nextCheck := opts.CheckFreq
	s.RelaxFactor = 1.0

	maxTrials := opts.MaxIter
	if opts.ExtraIter > 0 {
		maxTrials += opts.ExtraIter
	}

	res := &Result{}
	var relErr float64
	iter := 1
	for iter <= maxTrials {
		s.newCoeffs()

		if err := sparse.Solve(s.Sym, s.Aii, s.Aij, s.F); err != nil {
			if ice, ok := err.(*sparse.IllConditionedError); ok {
				if s.badValve(s.Order.Order[ice.Row]) {
					continue
				}
			}
			return res, err
		}

		for i := 1; i <= s.Njuncs; i++ {
			net.Nodes[i].Head = s.F[s.row(i)]
		}
		relErr = s.newFlows()
		res.RelError = relErr

		s.RelaxFactor = 1.0
		valveChange := false
		if opts.DampLimit > 0 {
			if relErr <= opts.DampLimit {
				s.RelaxFactor = 0.6
				valveChange = s.valveStatus()
			}
		} else {
			valveChange = s.valveStatus()
		}

		if relErr <= opts.Hacc {
			if iter > opts.MaxIter {
				break
			}
			statusChanged := valveChange
			if s.linkStatus() {
				statusChanged = true
			}
			if ctrl.ApplyPressureSwitches(net, s.Njuncs, Htol) > 0 {
				statusChanged = true
			}
			if !statusChanged {
				break
			}
			nextCheck = iter + opts.CheckFreq
		} else if iter <= opts.MaxCheck && iter == nextCheck {
			s.linkStatus()
			nextCheck += opts.CheckFreq
		}
		iter++
	}
	res.Iterations = iter

	for i := 1; i <= s.Njuncs; i++ {
		s.D[i] += s.E[i]
	}

	if relErr > opts.Hacc {
		res.Warnings |= epaerr.WarnSystemUnbalanced
		return res, epaerr.ErrCannotSolveHyd
	}
	return res, nil
}

// newFlows updates every link's flow from the just-solved heads and
// returns the ratio of total flow correction to total flow, the
// convergence metric driving the outer loop (newflows() in hydraul.c).
func (s *Solver) newFlows() float64 {
	net := s.Net

	for n := s.Njuncs + 1; n <= net.Nnodes(); n++ {
		s.D[n] = 0
	}

	var qsum, dqsum float64
	for k := 1; k <= net.Nlinks(); k++ {
		l := net.Links[k]
		n1, n2 := l.From, l.To
		dh := net.Nodes[n1].Head - net.Nodes[n2].Head
		dq := (l.Y - l.P*dh) * s.RelaxFactor

		if l.Kind == netw.Pump && l.Pump.CurveType == netw.ConstantPower && dq > l.Flow {
			dq = l.Flow / 2.0
		}
		l.Flow -= dq

		qsum += abs(l.Flow)
		dqsum += abs(dq)

		if l.Status > netw.Closed {
			if n1 > s.Njuncs {
				s.D[n1] -= l.Flow
			}
			if n2 > s.Njuncs {
				s.D[n2] += l.Flow
			}
		}
	}

	for k := 1; k <= s.Njuncs; k++ {
		if net.Nodes[k].EmitterCoefficient == 0 {
			continue
		}
		dq := s.emitFlowChange(k)
		s.E[k] -= dq
		qsum += abs(s.E[k])
		dqsum += abs(dq)
	}

	if qsum > net.Opts.Hacc {
		return dqsum / qsum
	}
	return dqsum
}
