// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qual

import (
	"math"

	"github.com/cpmech/epanet-go/netw"
)

// State is a project's complete mutable water-quality state: the
// segment arena, every pipe's segment queue, and every tank's mixing
// state. Pumps, valves and check-valve pipes carry no internal volume
// in this model (their physical holdup is negligible next to a real
// pipe's) and so are treated as zero-volume pass-throughs: the quality
// leaving one is simply the quality of whichever node feeds it this
// step. Package engine owns stepping State forward in lock-step with
// the hydraulic solution (§4.11, §4.12).
type State struct {
	pool  *Pool
	pipes map[int]*Queue
	tanks map[int]*TankState
}

// NewState builds the initial quality state for a just-opened network:
// every pipe gets one segment spanning its full volume at its upstream
// node's initial quality, and every tank gets a TankState sized from
// its mixing model.
func NewState(net *netw.Network) *State {
	s := &State{
		pool:  NewPool(4 * net.Nlinks()),
		pipes: map[int]*Queue{},
		tanks: map[int]*TankState{},
	}
	for k := 1; k <= net.Nlinks(); k++ {
		l := net.Links[k]
		if l.Kind != netw.Pipe && l.Kind != netw.CVPipe {
			continue
		}
		q := &Queue{}
		vol := pipeVolume(l)
		if vol > 0 {
			q.segs = []int{s.pool.Alloc(vol, net.Nodes[l.From].InitialQuality)}
		}
		s.pipes[k] = q
	}
	for i := net.Njuncs + 1; i <= net.Nnodes(); i++ {
		if net.Nodes[i].Kind == netw.Tank {
			ts := NewTankState(net.Nodes[i])
			if ts.Queue != nil && ts.Volume > 0 {
				ts.Queue.segs = []int{s.pool.Alloc(ts.Volume, net.Nodes[i].InitialQuality)}
			}
			s.tanks[i] = ts
		}
	}
	return s
}

func pipeVolume(l *netw.Link) float64 {
	return l.Length * math.Pi * l.Diameter * l.Diameter / 4
}

// Reorient re-examines every pipe's flow direction and reverses its
// queue if it has flipped since the last hydraulic period (§4.11 rule
// 2). Call once right after a hydraulic solve, before Step.
func (s *State) Reorient(net *netw.Network) {
	for k, q := range s.pipes {
		q.Reorient(net.Links[k].Flow)
	}
}

// Step advances every pipe, tank and node's quality by one quality
// time step dt (seconds), given the flows from the most recent
// hydraulic solve and the elapsed simulation time now (seconds, for
// pattern lookup). It implements §4.11 rules 1-6 in one explicit
// (forward-Euler) pass per step, the same single-pass-per-Qstep
// structure spec.md describes for the interleaved driver.
func (s *State) Step(net *netw.Network, now, dt float64) {
	opts := net.Opts
	ageMode := opts.QualMode == netw.QualAge
	traceMode := opts.QualMode == netw.QualTrace

	// 1. react every pipe segment and every tank's reactive volume.
	for k, q := range s.pipes {
		l := net.Links[k]
		bkb, bn0, bclimit := reactionParams(l.BulkCoeff, opts.BulkOrder, opts.BulkLimitingPotential, ageMode, traceMode)
		q.React(s.pool, func(c float64) float64 { return ReactBulk(c, bkb, bn0, bclimit, dt) })
		if l.WallCoeff != 0 && !ageMode && !traceMode {
			q.React(s.pool, func(c float64) float64 { return ReactWall(c, l.WallCoeff, opts.WallOrder, l.Diameter, dt) })
		}
	}
	for i, ts := range s.tanks {
		n := net.Nodes[i]
		tkb, tn0, tclimit := reactionParams(n.BulkCoeff, opts.BulkOrder, opts.BulkLimitingPotential, ageMode, traceMode)
		ts.React(s.pool, tkb, tn0, tclimit, dt)
	}

	// 2. snapshot each node's previous quality; accumulate inflow and
	// outflow volumes per node from the current flow field.
	prevQuality := make([]float64, net.Nnodes()+1)
	for i := 1; i < len(prevQuality); i++ {
		prevQuality[i] = net.Nodes[i].Quality
	}
	inflowVol := make([]float64, net.Nnodes()+1)
	inflowMass := make([]float64, net.Nnodes()+1)
	outflowVol := make([]float64, net.Nnodes()+1)

	for k := 1; k <= net.Nlinks(); k++ {
		l := net.Links[k]
		if l.Status <= netw.Closed || l.Flow == 0 {
			continue
		}
		from, to := l.From, l.To
		if l.Flow < 0 {
			from, to = to, from
		}
		vol := math.Abs(l.Flow) * dt
		outflowVol[from] += vol

		var outQuality float64
		if q, ok := s.pipes[k]; ok {
			outQuality, _ = q.Discharge(s.pool, vol)
		} else {
			outQuality = prevQuality[from]
		}
		inflowVol[to] += vol
		inflowMass[to] += vol * outQuality
	}

	// 3. compute each node's new quality.
	for i := 1; i <= net.Nnodes(); i++ {
		n := net.Nodes[i]
		var c float64
		switch n.Kind {
		case netw.Tank:
			ts := s.tanks[i]
			cin := 0.0
			if inflowVol[i] > 0 {
				cin = inflowMass[i] / inflowVol[i]
			}
			c = ts.Mix(n, s.pool, inflowVol[i], cin, outflowVol[i])
			n.Volume = ts.Volume
		case netw.Reservoir:
			// a reservoir's water is not itself aged or mixed by the
			// network: in age mode it always supplies zero-age water.
			if ageMode {
				c = 0
			} else {
				c = prevQuality[i]
			}
		default: // junction
			if inflowVol[i] > 0 {
				c = inflowMass[i] / inflowVol[i]
			} else {
				c = prevQuality[i]
			}
			c = applySource(net, n, c, inflowVol[i], dt, now)
		}
		n.Quality = c
	}
	if traceMode && net.Opts.TraceNodeIdx > 0 {
		net.Nodes[net.Opts.TraceNodeIdx].Quality = 100
	}

	// 4. push each node's new quality into every outgoing pipe as fresh
	// upstream inflow (§4.11 rule 2).
	for k, q := range s.pipes {
		l := net.Links[k]
		if l.Status <= netw.Closed || l.Flow == 0 {
			continue
		}
		from := l.From
		if l.Flow < 0 {
			from = l.To
		}
		q.Inflow(s.pool, math.Abs(l.Flow)*dt, net.Nodes[from].Quality)
	}
}

// reactionParams selects the (kb, n0, climit) triple a segment reacts
// with: real bulk kinetics in chemical mode, a unit constant-rate
// "reaction" of +1 concentration-unit-per-second in age mode (so
// ReactBulk's order-0 closed form does the aging for free), and no
// reaction at all in trace mode.
func reactionParams(linkOrTankCoeff, order, climit float64, ageMode, traceMode bool) (kb, n0, cl float64) {
	switch {
	case traceMode:
		return 0, 0, 0
	case ageMode:
		return 1, 0, 0
	default:
		return linkOrTankCoeff, order, climit
	}
}
