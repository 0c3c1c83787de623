// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"math"

	"github.com/cpmech/epanet-go/ctrl"
	"github.com/cpmech/epanet-go/epaerr"
	"github.com/cpmech/epanet-go/hyd"
	"github.com/cpmech/epanet-go/netw"
)

// OpenH builds the solver's symbolic factorization and resistance
// coefficients for the network's current topology (openH in §6). It is
// a no-op if hydraulics are already open.
func (p *Project) OpenH() error {
	if p.hydOpen {
		return nil
	}
	p.Hyd = hyd.Open(p.Net)
	p.Energy = hyd.NewEnergyReport()
	p.hydOpen = true
	return nil
}

// InitH prepares the network for a fresh extended-period hydraulic run
// (initH(saveflag) in §6): saveflag's tens digit selects whether link
// flows/statuses are reset to their initial values, its units digit
// whether a hydraulics cache records the run (left for the caller's
// SaveH loop to act on; this port keeps cache wiring at the call site
// rather than inside Project, since not every caller wants one).
func (p *Project) InitH(saveflag int) error {
	if !p.hydOpen {
		return epaerr.ErrHydNotInit
	}
	if reinitFlows := saveflag/10 != 0; reinitFlows {
		for k := 1; k <= p.Net.Nlinks(); k++ {
			l := p.Net.Links[k]
			l.Status = l.InitialStatus
			l.Setting = l.InitialSetting
			if l.Status > netw.Closed {
				l.Flow = initialFlowGuess(l)
			} else {
				l.Flow = 0
			}
		}
	}
	for i := p.Net.Njuncs + 1; i <= p.Net.Nnodes(); i++ {
		n := p.Net.Nodes[i]
		if n.Kind == netw.Tank {
			n.Head = n.Elevation + n.InitLevel
			n.Volume = tankVolume(p.Net, n, n.InitLevel)
		}
	}
	p.Htime = 0
	p.nextHydStep = p.Net.Opts.Hstep
	p.haltFlag = false
	p.hydInit = true
	return nil
}

// initialFlowGuess seeds a non-closed link's flow so the first Newton
// iteration never starts from an exactly-singular Q=0 linearization
// (initflow() in hydraul.c): one foot-per-second through the pipe's
// cross-section, or a nominal 1 flow unit for links without a
// diameter (pumps, valves).
func initialFlowGuess(l *netw.Link) float64 {
	if l.Diameter > 0 {
		area := math.Pi * l.Diameter * l.Diameter / 4
		return area
	}
	return 1.0
}

// RunH solves hydraulics for the current Htime, updating energy
// accounting and the project's accumulated warning flag, and returns
// the elapsed time of the solution (runH(&t) in §6).
func (p *Project) RunH() (float64, error) {
	if !p.hydInit {
		return 0, epaerr.ErrHydNotInit
	}
	p.applyDemands()
	res, err := p.Hyd.Solve()
	p.Warnflag |= res.Warnings
	p.syncNodeDemand()
	if err != nil {
		return p.Htime, err
	}
	p.Hyd.AddEnergy(p.Energy, p.Htime, p.Net.Opts.Hstep, nil)
	return p.Htime, nil
}

// NextH advances Htime by the next scheduled event (demand period,
// report period, tank fill/drain, control trigger, or the remaining
// duration, whichever is soonest), applying every control mechanism
// along the way, and returns the step size taken (nextH(&dt) in §6).
// A zero return means the simulation has reached its duration.
func (p *Project) NextH() (float64, error) {
	if !p.hydInit {
		return 0, epaerr.ErrHydNotInit
	}
	if p.haltFlag {
		dt := p.Net.Opts.Dur - p.Htime
		p.Htime = p.Net.Opts.Dur
		return dt, nil
	}

	step := p.nextEventStep()
	if p.Htime+step >= p.Net.Opts.Dur {
		step = p.Net.Opts.Dur - p.Htime
	}
	p.updateTankLevels(step)
	p.Htime += step

	ctrl.ApplySimpleControls(p.Net, p.Htime, p.Net.Opts.Pstart)
	p.evaluateRules()

	p.nextHydStep = p.nextEventStep()
	return step, nil
}

// evaluateRules applies rule-based controls once per NextH, at the new
// Htime and its clock time. Opts.Rulestep is not used: the hydraulic
// step is not divided into rule sub-steps, and tank levels are not
// advanced between rule evaluations.
func (p *Project) evaluateRules() {
	if len(p.Net.Rules) == 0 {
		return
	}
	clockTime := math.Mod(p.Htime+p.Net.Opts.Pstart, secPerDay)
	ctrl.ApplyRules(p.Net, p.Htime, clockTime)
}

// SaveH is the hook a caller's own hydraulics-cache loop calls once
// per accepted step (saveH in §6); Project itself stays agnostic of
// whether a cache is attached (see InitH).
func (p *Project) SaveH() error {
	if !p.hydInit {
		return epaerr.ErrHydNotInit
	}
	return nil
}

// CloseH releases the hydraulic solver.
func (p *Project) CloseH() error {
	p.Hyd = nil
	p.hydOpen = false
	p.hydInit = false
	return nil
}

const secPerDay = 86400.0
