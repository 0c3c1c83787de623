// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netw

// QualityMode selects the water-quality simulation mode (§4.11).
type QualityMode int

const (
	QualNone QualityMode = iota
	QualChemical
	QualAge
	QualTrace
)

// Options gathers the run-wide knobs that the out-of-scope textual
// parser (§1) would otherwise fill in from an input file's [OPTIONS],
// [TIMES] and [REACTIONS] sections. A project driven purely through the
// programmatic API populates this struct directly; Default returns
// EPANET's documented defaults so tests do not have to restate them.
type Options struct {
	Formula HeadlossFormula

	// hydraulic convergence (§4.6)
	MaxIter        int
	Hacc           float64
	HeadErrorLimit float64 // 0 => not configured
	FlowChangeLimit float64
	DampLimit      float64
	CheckFreq      int
	MaxCheck       int
	ExtraIter      int

	// pressure-driven analysis (§glossary PDA): below Pmin a junction
	// receives no demand, at or above Preq it receives its full demand,
	// and in between demand scales as ((P-Pmin)/(Preq-Pmin))^(1/Pexp)
	// (§4.6). Unrelated to EmitterExponent below, which governs a
	// different flow-pressure relationship (an emitter's orifice law).
	PDAEnabled bool
	Pmin       float64
	Preq       float64
	Pexp       float64

	// EmitterExponent is the flow exponent of the emitter orifice law
	// Q = Ke*P^EmitterExponent (§3 EmitterCoefficient), kept distinct
	// from Pexp so enabling PDA never perturbs emitter behavior and
	// vice versa.
	EmitterExponent float64

	// time steps, all in seconds (§4.9, §4.11, §4.12)
	Dur       float64
	Hstep     float64
	Qstep     float64
	Rulestep  float64
	PatternStep float64
	ReportStep  float64
	Pstart      float64

	DefaultPatternIdx int
	TraceNodeIdx      int // 0 => trace mode disabled

	QualMode    QualityMode
	QualName    string // chemical species name, when QualMode == QualChemical
	RelativeDiffusivity float64

	// reaction kinetics (§4.11)
	BulkOrder  float64
	WallOrder  float64
	BulkLimitingPotential float64

	SpecificGravity float64
	EnergyPrice     float64
	EnergyPatternIdx int
	DefaultPumpEfficiency float64
}

// Hexp returns the flow exponent of the active head-loss formula: 1.852
// for Hazen-Williams, 2.0 for Darcy-Weisbach or Chezy-Manning (set in
// initoptions()/inittanks() of input1.c).
func (o *Options) Hexp() float64 {
	if o.Formula == HazenWilliams {
		return 1.852
	}
	return 2.0
}

// Default returns the conventional EPANET defaults.
func Default() *Options {
	return &Options{
		Formula:         HazenWilliams,
		MaxIter:         200,
		Hacc:            0.001,
		DampLimit:       0,
		CheckFreq:       2,
		MaxCheck:        10,
		ExtraIter:       0,
		Pmin:            0,
		Preq:            0.1,
		Pexp:            0.5,
		EmitterExponent: 0.5,
		Dur:             0,
		Hstep:           3600,
		Qstep:           300,
		Rulestep:        360,
		PatternStep:     3600,
		ReportStep:      3600,
		Pstart:          0,
		SpecificGravity: 1.0,
		DefaultPumpEfficiency: 0.75,
	}
}
