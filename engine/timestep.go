// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"math"

	"github.com/cpmech/epanet-go/netw"
)

// nextEventStep computes the next hydraulic time step per §4.9: the
// smallest of the remaining hydraulic step, the next demand-pattern
// boundary, the next report-period boundary, the time for any tank to
// fill or drain, and the time until any simple control's trigger
// fires (timestep()/tanktimestep()/controltimestep() in hydraul.c).
func (p *Project) nextEventStep() float64 {
	opts := p.Net.Opts
	step := opts.Hstep
	if s := nextPeriodBoundary(p.Htime+opts.Pstart, opts.PatternStep); s < step {
		step = s
	}
	if s := nextPeriodBoundary(p.Htime, opts.ReportStep); s < step {
		step = s
	}
	if s := p.tankTimeStep(); s < step {
		step = s
	}
	if s := p.controlTimeStep(); s < step {
		step = s
	}
	if step < 0 {
		step = 0
	}
	return step
}

// nextPeriodBoundary returns the time remaining until t next lands on
// a multiple of period, or +Inf if period is not configured.
func nextPeriodBoundary(t, period float64) float64 {
	if period <= 0 {
		return math.Inf(1)
	}
	rem := period - math.Mod(t, period)
	if rem == period {
		return period
	}
	return rem
}

// tankTimeStep returns the soonest time any tank would hit Vmin or
// Vmax at its current net flow (tanktimestep() in hydraul.c).
func (p *Project) tankTimeStep() float64 {
	net := p.Net
	step := math.Inf(1)
	for i := net.Njuncs + 1; i <= net.Nnodes(); i++ {
		n := net.Nodes[i]
		if n.Kind != netw.Tank {
			continue
		}
		q := p.Hyd.D[i]
		if q == 0 {
			continue
		}
		vmin, vmax := tankCapacity(net, n)
		var t float64
		if q > 0 {
			t = (vmax - n.Volume) / q
		} else {
			t = (n.Volume - vmin) / -q
		}
		if t <= 0 {
			continue
		}
		if t < step {
			step = t
		}
	}
	return step
}

// controlTimeStep returns the soonest time any simple control's
// trigger condition will hold, by projecting the current clock (timer
// and time-of-day triggers) or the current tank net flow (level
// triggers) forward (controltimestep() in hydraul.c).
func (p *Project) controlTimeStep() float64 {
	net := p.Net
	step := math.Inf(1)
	for i := range net.SimpleControls {
		c := &net.SimpleControls[i]
		switch c.Trigger {
		case netw.Timer:
			if c.Threshold > p.Htime {
				step = math.Min(step, c.Threshold-p.Htime)
			}
		case netw.TimeOfDay:
			clock := math.Mod(p.Htime+net.Opts.Pstart, secPerDay)
			dt := c.Threshold - clock
			if dt <= 0 {
				dt += secPerDay
			}
			step = math.Min(step, dt)
		case netw.LowLevel, netw.HighLevel:
			if s, ok := p.tankTriggerStep(c); ok {
				step = math.Min(step, s)
			}
		}
	}
	return step
}

// tankTriggerStep returns the time until the tank named by a simple
// control's NodeIdx crosses its threshold level, given the tank's
// current net flow.
func (p *Project) tankTriggerStep(c *netw.SimpleControl) (float64, bool) {
	net := p.Net
	n := net.Nodes[c.NodeIdx]
	if n.Kind != netw.Tank {
		return 0, false
	}
	q := p.Hyd.D[c.NodeIdx]
	targetVol := tankVolume(net, n, c.Threshold)
	switch {
	case q > 0 && targetVol > n.Volume:
		return (targetVol - n.Volume) / q, true
	case q < 0 && targetVol < n.Volume:
		return (n.Volume - targetVol) / -q, true
	default:
		return 0, false
	}
}
