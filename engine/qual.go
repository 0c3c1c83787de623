// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"math"

	"github.com/cpmech/epanet-go/epaerr"
	"github.com/cpmech/epanet-go/qual"
)

// OpenQ builds the water-quality transport state for the network's
// current topology and initial qualities (openQ in §6).
func (p *Project) OpenQ() error {
	if p.qualOpen {
		return nil
	}
	p.Qual = qual.NewState(p.Net)
	p.qualOpen = true
	return nil
}

// InitQ resets Qtime to zero. Hydraulics must already be open and
// initialized, since quality transport has nothing to advect without
// a flow field (initQ(saveflag) in §6; saveflag is accepted for
// interface parity but otherwise unused here, since the output
// snapshot writer of package persist is driven by the caller, not by
// Project itself).
func (p *Project) InitQ(saveflag int) error {
	if !p.qualOpen {
		return epaerr.ErrQualNotInit
	}
	if !p.hydInit {
		return epaerr.ErrHydNotInit
	}
	p.Qtime = 0
	p.qualInit = true
	return nil
}

// RunQ reports the quality state's current time without advancing it
// (runQ(&t) in §6): the caller reads node/link quality immediately
// after, valid as of Qtime.
func (p *Project) RunQ() (float64, error) {
	if !p.qualInit {
		return 0, epaerr.ErrQualNotInit
	}
	return p.Qtime, nil
}

// NextQ advances quality transport to the next event and returns the
// step size actually taken (nextQ(&dt) in §6). Quality never runs
// ahead of hydraulics: once Qtime has caught up to Htime, NextQ first
// advances and re-solves hydraulics, then reorients pipe segment
// queues for any flow reversal (§4.11 rule 2), before taking its own
// Qstep (§4.12 interleaved mode).
func (p *Project) NextQ() (float64, error) {
	if !p.qualInit {
		return 0, epaerr.ErrQualNotInit
	}
	if p.Qtime >= p.Htime {
		if _, err := p.NextH(); err != nil {
			return 0, err
		}
		if _, err := p.RunH(); err != nil {
			return 0, err
		}
		p.Qual.Reorient(p.Net)
	}
	dt := math.Min(p.Net.Opts.Qstep, p.Htime-p.Qtime)
	if dt <= 0 {
		dt = p.Net.Opts.Qstep
	}
	p.Qual.Step(p.Net, p.Qtime, dt)
	p.Qtime += dt
	return dt, nil
}

// StepQ advances quality by exactly one Qstep-sized increment, never
// crossing a hydraulic event on its own, and returns the simulation
// time remaining (stepQ(&tleft) in §6 — distinct from NextQ, which
// advances to the next event and may itself trigger a hydraulic
// re-solve; see DESIGN.md).
func (p *Project) StepQ() (float64, error) {
	if !p.qualInit {
		return 0, epaerr.ErrQualNotInit
	}
	dt := p.Net.Opts.Qstep
	p.Qual.Step(p.Net, p.Qtime, dt)
	p.Qtime += dt
	tleft := p.Net.Opts.Dur - p.Qtime
	if tleft < 0 {
		tleft = 0
	}
	return tleft, nil
}

// CloseQ releases the quality transport state.
func (p *Project) CloseQ() error {
	p.Qual = nil
	p.qualOpen = false
	p.qualInit = false
	return nil
}
