// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hyd

import (
	"math"

	"github.com/cpmech/epanet-go/netw"
)

// PumpEnergy accumulates the per-pump energy statistics EPANET reports
// over an extended-period run: time online, efficiency-weighted hours,
// kW-per-flow hours, total kW-hours, peak demand and cost-hours
// (Pump[j].Energy[0..5] in hydraul.c).
type PumpEnergy struct {
	HoursOnline   float64
	EfficiencyHrs float64
	KwPerFlowHrs  float64
	KwHrs         float64
	PeakKw        float64
	CostHrs       float64
}

// EnergyReport accumulates per-pump PumpEnergy (keyed by link index)
// plus the system-wide peak demand charge across an extended-period
// run (addenergy()'s Emax in hydraul.c).
type EnergyReport struct {
	Pumps map[int]*PumpEnergy
	Emax  float64
}

// NewEnergyReport returns an empty accumulator.
func NewEnergyReport() *EnergyReport {
	return &EnergyReport{Pumps: map[int]*PumpEnergy{}}
}

// AddEnergy accrues every pump's energy statistics for one time step of
// duration hstep seconds starting at clock time now (seconds into the
// simulation), using costPattern (if non-zero) to modulate the
// network-wide default energy price (addenergy() in hydraul.c).
func (s *Solver) AddEnergy(report *EnergyReport, now, hstep float64, costPattern []float64) {
	net := s.Net
	opts := net.Opts

	var dt float64
	switch {
	case opts.Dur == 0:
		dt = 1.0
	case now < opts.Dur:
		dt = hstep / 3600.0
	default:
		return
	}

	f0 := 1.0
	if len(costPattern) > 0 {
		period := int(now/opts.PatternStep) % len(costPattern)
		f0 = costPattern[period]
	}

	var psum float64
	for k := 1; k <= net.Nlinks(); k++ {
		l := net.Links[k]
		if l.Kind != netw.Pump || l.Status <= netw.Closed {
			continue
		}
		q := math.Max(QZero, abs(l.Flow))

		c := opts.EnergyPrice
		if l.Pump.EnergyPrice > 0 {
			c = l.Pump.EnergyPrice
		}
		c *= f0

		kw, eff := s.getEnergy(l)
		psum += kw

		pe := report.Pumps[k]
		if pe == nil {
			pe = &PumpEnergy{}
			report.Pumps[k] = pe
		}
		pe.HoursOnline += dt
		pe.EfficiencyHrs += eff * dt
		pe.KwPerFlowHrs += kw / q * dt
		pe.KwHrs += kw * dt
		pe.PeakKw = math.Max(pe.PeakKw, kw)
		pe.CostHrs += c * kw * dt
	}
	report.Emax = math.Max(report.Emax, psum)
}

// getEnergy computes the instantaneous kW draw and efficiency of a pump
// (getenergy() in hydraul.c). Only pump links are handled (l.Pump must
// be set); a closed pump returns zero kW and zero efficiency.
func (s *Solver) getEnergy(l *netw.Link) (kw, eff float64) {
	net := s.Net
	if l.Status <= netw.Closed {
		return 0, 0
	}
	q := abs(l.Flow)
	dh := abs(net.Nodes[l.From].Head - net.Nodes[l.To].Head)

	e := net.Opts.DefaultPumpEfficiency
	if l.Pump.EfficiencyCurve > 0 {
		e = net.Curves[l.Pump.EfficiencyCurve].Interp(q)
	}
	e = math.Min(e, 1.0)
	e = math.Max(e, 0.01)

	kw = dh * q * net.Opts.SpecificGravity / 8.814 / e * KWperHP
	return kw, e
}
