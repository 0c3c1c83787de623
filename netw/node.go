// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netw

// NodeKind tags the three node variants of §3.
type NodeKind int

const (
	Junction NodeKind = iota
	Reservoir
	Tank
)

func (k NodeKind) String() string {
	switch k {
	case Junction:
		return "junction"
	case Reservoir:
		return "reservoir"
	case Tank:
		return "tank"
	default:
		return "unknown"
	}
}

// SourceKind identifies how a quality source injects mass at a node.
type SourceKind int

const (
	NoSource SourceKind = iota
	ConcenSource
	MassSource
	SetpointSource
	FlowPacedSource
)

// QualSource attaches a water-quality injection to a node.
type QualSource struct {
	Kind       SourceKind
	Strength   float64 // concentration, mass/time, or setpoint concentration
	PatternIdx int     // 0 => no modulating pattern
}

// Demand is one entry of a junction's demand list.
type Demand struct {
	Base       float64
	PatternIdx int // 0 => use the network default pattern
	Name       string
}

// MixModel enumerates tank water-quality mixing models (§3 Tank).
type MixModel int

const (
	MixComplete MixModel = iota
	Mix2Comp
	MixFIFO
	MixLIFO
)

// Node is the common representation for junctions, reservoirs and tanks.
// Kind-specific fields are zero-valued when not applicable, mirroring
// the teacher's practice (gofem's Node struct) of one struct per object
// type with role-specific fields grouped by banner comment rather than
// split into a separate type per variant, since §3 binds the three node
// kinds tightly to a single index space (1..Nnodes).
type Node struct {
	ID                 string
	Kind               NodeKind
	Elevation          float64
	InitialQuality     float64
	EmitterCoefficient float64
	ReportFlag         bool
	Source             *QualSource

	// junction-only
	Demands []Demand

	// reservoir-only: head may vary with a pattern
	HeadPatternIdx int

	// tank-only
	InitLevel    float64
	MinLevel     float64
	MaxLevel     float64
	MinVolume    float64
	Diameter     float64
	VolumeCurve  int // index into Network.Curves, 0 => none
	Mixing       MixModel
	MixFraction  float64 // 2-compartment mixing zone ratio, in (0,1]
	BulkCoeff    float64
	CanOverflow  bool

	// hydraulic state (mutates during a solve)
	Head     float64
	Volume   float64
	Demand   float64 // net demand delivered by the last hydraulic solve

	// water-quality state (mutates during a solve)
	Quality float64
}

// Area returns the cross-sectional area implied by Diameter, for tanks
// without a volume curve (§4.10: V = Vmin + A*(H-Hmin), A = pi*d^2/4).
func (n *Node) Area() float64 {
	const pi = 3.14159265358979323846
	return pi * n.Diameter * n.Diameter / 4
}

// IsFixedGrade reports whether the node is a reservoir or a tank. Both
// have a known head within a single hydraulic solve: neither gets an
// unknown row in the matrix, and each contributes its head to its
// neighbors' RHS terms. A tank's head changes between steps as its
// level is integrated.
func (n *Node) IsFixedGrade() bool {
	return n.Kind == Reservoir || n.Kind == Tank
}
