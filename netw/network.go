// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package netw holds the per-project network data model: nodes, links,
// patterns, curves, simple controls and rule-based controls, plus the
// run-wide Options that parameterize a solve. The project exclusively
// owns every value reachable from a *Network; relations between
// components are expressed as 1-based slice indices, never pointers,
// so that deletion and resizing stay centrally enforceable (§3
// Ownership).
package netw

import (
	"fmt"
	"math"

	"github.com/cpmech/epanet-go/idx"
)

// ActionCode selects cascade-delete vs fail-on-reference semantics for
// delete operations (§6).
type ActionCode int

const (
	Unconditional ActionCode = iota
	Conditional
)

// Network is the topology + component-property owner for one project.
// The hydraulic solver treats Nodes[1..Njuncs] as junctions and
// Nodes[Njuncs+1..Nnodes] as tanks and reservoirs. Nodes are appended
// in call order and nothing reorders them, so that layout holds only
// when every junction is added before any tank or reservoir.
type Network struct {
	Nodes []*Node // 1-based: Nodes[0] is a dummy placeholder
	Links []*Link // 1-based: Links[0] is a dummy placeholder

	NodeIdx *idx.Table
	LinkIdx *idx.Table

	Patterns []*Pattern // 1-based; Patterns[0] is a dummy placeholder
	Curves   []*Curve   // 1-based; Curves[0] is a dummy placeholder

	PatternIdx *idx.Table
	CurveIdx   *idx.Table

	SimpleControls []SimpleControl
	Rules          []*Rule

	Njuncs int // number of junction nodes; Nodes[1..Njuncs]
	Opts   *Options
}

// New returns an empty network ready for programmatic population.
func New() *Network {
	return &Network{
		Nodes:      []*Node{nil},
		Links:      []*Link{nil},
		NodeIdx:    idx.New(),
		LinkIdx:    idx.New(),
		Patterns:   []*Pattern{nil},
		Curves:     []*Curve{nil},
		PatternIdx: idx.New(),
		CurveIdx:   idx.New(),
		Opts:       Default(),
	}
}

// AddJunction appends a junction node and returns its 1-based index.
// Junctions must be added before any tank/reservoir: the order is not
// checked, and a junction added after one lands above index Njuncs,
// where the solver does not treat it as a junction.
func (n *Network) AddJunction(id string, elevation float64) (int, error) {
	ni, err := n.NodeIdx.Insert(id)
	if err != nil {
		return 0, err
	}
	n.Nodes = append(n.Nodes, &Node{ID: id, Kind: Junction, Elevation: elevation})
	n.Njuncs++
	return ni, nil
}

// AddReservoir appends a reservoir node and returns its 1-based index.
func (n *Network) AddReservoir(id string, head float64) (int, error) {
	ni, err := n.NodeIdx.Insert(id)
	if err != nil {
		return 0, err
	}
	n.Nodes = append(n.Nodes, &Node{ID: id, Kind: Reservoir, Elevation: head, Head: head})
	return ni, nil
}

// AddTank appends a tank node and returns its 1-based index.
func (n *Network) AddTank(id string, elevation, initLevel, minLevel, maxLevel, diameter, minVolume float64) (int, error) {
	ni, err := n.NodeIdx.Insert(id)
	if err != nil {
		return 0, err
	}
	if !(minLevel <= initLevel && initLevel <= maxLevel) {
		return 0, fmt.Errorf("netw: tank %q initial level %.3f not in [%.3f, %.3f]", id, initLevel, minLevel, maxLevel)
	}
	t := &Node{
		ID: id, Kind: Tank, Elevation: elevation,
		InitLevel: initLevel, MinLevel: minLevel, MaxLevel: maxLevel,
		Diameter: diameter, MinVolume: minVolume,
		Head: elevation + initLevel,
	}
	n.Nodes = append(n.Nodes, t)
	return ni, nil
}

// AddLink validates endpoints (distinct, existing) and appends a link,
// returning its 1-based index (§3 invariants).
func (n *Network) AddLink(id string, kind LinkKind, from, to int, length, diameter, roughness, minorLoss float64) (int, error) {
	if from == to {
		return 0, fmt.Errorf("netw: link %q has identical end nodes %d", id, from)
	}
	if from < 1 || from >= len(n.Nodes) || to < 1 || to >= len(n.Nodes) {
		return 0, fmt.Errorf("netw: link %q references a non-existent node", id)
	}
	li, err := n.LinkIdx.Insert(id)
	if err != nil {
		return 0, err
	}
	l := &Link{
		ID: id, Kind: kind, From: from, To: to,
		Length: length, Diameter: diameter, Roughness: roughness, MinorLossCoeff: minorLoss,
		InitialStatus: Open, Status: Open,
	}
	if kind.IsValve() && kind != GPV {
		// NaN marks "no active numeric setting": the valve's status is
		// fixed OPEN/CLOSED by the user rather than throttling to a
		// setpoint (EPANET's MISSING sentinel in hydraul.c). A GPV's
		// Setting instead holds a required headloss-curve index, so it
		// is left at its zero value for the caller to fill in.
		l.InitialSetting = math.NaN()
		l.Setting = math.NaN()
	}
	n.Links = append(n.Links, l)
	return li, nil
}

// HasSetting reports whether l carries an active numeric setting (a
// throttling setpoint for a valve, or a speed for a pump) rather than
// being fixed OPEN/CLOSED.
func (l *Link) HasSetting() bool { return !math.IsNaN(l.Setting) }

// AddPattern appends a pattern and returns its 1-based index.
func (n *Network) AddPattern(id string, mul []float64) (int, error) {
	pi, err := n.PatternIdx.Insert(id)
	if err != nil {
		return 0, err
	}
	n.Patterns = append(n.Patterns, &Pattern{ID: id, Mul: mul})
	return pi, nil
}

// AddCurve appends a curve and returns its 1-based index.
func (n *Network) AddCurve(id string, role CurveRole, x, y []float64) (int, error) {
	c := &Curve{ID: id, Role: role, X: x, Y: y}
	if err := c.Validate(); err != nil {
		return 0, err
	}
	ci, err := n.CurveIdx.Insert(id)
	if err != nil {
		return 0, err
	}
	n.Curves = append(n.Curves, c)
	return ci, nil
}

// Nnodes returns the total node count.
func (n *Network) Nnodes() int { return len(n.Nodes) - 1 }

// Nlinks returns the total link count.
func (n *Network) Nlinks() int { return len(n.Links) - 1 }

// IsFixedGrade reports whether node index ni is a reservoir or tank.
func (n *Network) IsFixedGrade(ni int) bool {
	return n.Nodes[ni].IsFixedGrade()
}

// Validate checks the network-wide invariants of §3 that are not
// already enforced incrementally by Add*: at least one fixed-grade
// node, and the valve-adjacency rules (no PRV/PSV/FCV directly on a
// tank/reservoir, no two PRVs sharing a downstream node, no two PSVs
// sharing an upstream node, no PRV/PSV pair in direct opposition, no
// FCV directly opposing a PRV/PSV).
func (n *Network) Validate() error {
	hasFixedGrade := false
	for i := 1; i <= n.Nnodes(); i++ {
		if n.Nodes[i].IsFixedGrade() {
			hasFixedGrade = true
			break
		}
	}
	if !hasFixedGrade {
		return fmt.Errorf("netw: network has no reservoir or tank")
	}

	prvDownstream := map[int]int{} // downstream node -> link index
	psvUpstream := map[int]int{}   // upstream node -> link index
	for li := 1; li <= n.Nlinks(); li++ {
		l := n.Links[li]
		if !l.IsPRVPSVFCV() {
			continue
		}
		if n.Nodes[l.From].IsFixedGrade() || n.Nodes[l.To].IsFixedGrade() {
			return fmt.Errorf("netw: %s %q cannot connect directly to a tank or reservoir", l.Kind, l.ID)
		}
		switch l.Kind {
		case PRV:
			if other, ok := prvDownstream[l.To]; ok {
				return fmt.Errorf("netw: PRVs %q and %q share downstream node", l.ID, n.Links[other].ID)
			}
			prvDownstream[l.To] = li
		case PSV:
			if other, ok := psvUpstream[l.From]; ok {
				return fmt.Errorf("netw: PSVs %q and %q share upstream node", l.ID, n.Links[other].ID)
			}
			psvUpstream[l.From] = li
		}
	}
	for li := 1; li <= n.Nlinks(); li++ {
		l := n.Links[li]
		if l.Kind != PRV && l.Kind != PSV {
			continue
		}
		for lj := 1; lj <= n.Nlinks(); lj++ {
			if lj == li {
				continue
			}
			o := n.Links[lj]
			if !(o.Kind == PRV || o.Kind == PSV) {
				continue
			}
			if l.To == o.From && l.From == o.To {
				return fmt.Errorf("netw: %s %q and %s %q are in direct opposition", l.Kind, l.ID, o.Kind, o.ID)
			}
		}
	}
	return nil
}

// DeleteLink removes link li, cascading to simple controls that
// reference it when action is Unconditional, or failing if any
// reference exists when action is Conditional (§6 action codes).
func (n *Network) DeleteLink(li int, action ActionCode) error {
	refs := n.linkReferences(li)
	if action == Conditional && len(refs) > 0 {
		return fmt.Errorf("netw: link index %d is referenced by %d control(s)", li, len(refs))
	}
	kept := n.SimpleControls[:0]
	for _, c := range n.SimpleControls {
		if c.LinkIdx == li {
			continue
		}
		if c.LinkIdx > li {
			c.LinkIdx--
		}
		kept = append(kept, c)
	}
	n.SimpleControls = kept
	for _, r := range n.Rules {
		r.Then = dropLinkActions(r.Then, li)
		r.Else = dropLinkActions(r.Else, li)
	}
	if err := n.LinkIdx.Delete(li); err != nil {
		return err
	}
	n.Links = append(n.Links[:li], n.Links[li+1:]...)
	return nil
}

func (n *Network) linkReferences(li int) []int {
	var out []int
	for i, c := range n.SimpleControls {
		if c.LinkIdx == li {
			out = append(out, i)
		}
	}
	return out
}

func dropLinkActions(actions []Action, li int) []Action {
	kept := actions[:0]
	for _, a := range actions {
		if a.LinkIdx == li {
			continue
		}
		if a.LinkIdx > li {
			a.LinkIdx--
		}
		kept = append(kept, a)
	}
	return kept
}

// DeleteNode removes node ni, cascading to incident links (and, via
// DeleteLink, their referencing controls) when action is Unconditional,
// or failing if any incident link or reference exists when Conditional.
func (n *Network) DeleteNode(ni int, action ActionCode) error {
	var incident []int
	for li := 1; li <= n.Nlinks(); li++ {
		if n.Links[li].From == ni || n.Links[li].To == ni {
			incident = append(incident, li)
		}
	}
	if action == Conditional && len(incident) > 0 {
		return fmt.Errorf("netw: node index %d has %d incident link(s)", ni, len(incident))
	}
	for i := len(incident) - 1; i >= 0; i-- {
		if err := n.DeleteLink(incident[i], Unconditional); err != nil {
			return err
		}
	}
	wasJunction := n.Nodes[ni].Kind == Junction
	if err := n.NodeIdx.Delete(ni); err != nil {
		return err
	}
	n.Nodes = append(n.Nodes[:ni], n.Nodes[ni+1:]...)
	if wasJunction {
		n.Njuncs--
	}
	for li := 1; li <= n.Nlinks(); li++ {
		if n.Links[li].From > ni {
			n.Links[li].From--
		}
		if n.Links[li].To > ni {
			n.Links[li].To--
		}
	}
	return nil
}

// Clone returns a deep copy of the network, used by round-trip property
// tests (§8) so that they do not depend on the out-of-scope textual
// parser to exercise "set then get" semantics end-to-end.
func (n *Network) Clone() *Network {
	c := New()
	*c.Opts = *n.Opts
	for i := 1; i <= n.Nnodes(); i++ {
		orig := n.Nodes[i]
		cp := *orig
		if orig.Source != nil {
			s := *orig.Source
			cp.Source = &s
		}
		cp.Demands = append([]Demand(nil), orig.Demands...)
		c.Nodes = append(c.Nodes, &cp)
		if _, err := c.NodeIdx.Insert(orig.ID); err != nil {
			panic(err)
		}
	}
	c.Njuncs = n.Njuncs
	for i := 1; i <= n.Nlinks(); i++ {
		orig := n.Links[i]
		cp := *orig
		if orig.Pump != nil {
			p := *orig.Pump
			cp.Pump = &p
		}
		c.Links = append(c.Links, &cp)
		if _, err := c.LinkIdx.Insert(orig.ID); err != nil {
			panic(err)
		}
	}
	for i := 1; i < len(n.Patterns); i++ {
		p := *n.Patterns[i]
		p.Mul = append([]float64(nil), n.Patterns[i].Mul...)
		c.Patterns = append(c.Patterns, &p)
		if _, err := c.PatternIdx.Insert(p.ID); err != nil {
			panic(err)
		}
	}
	for i := 1; i < len(n.Curves); i++ {
		cu := *n.Curves[i]
		cu.X = append([]float64(nil), n.Curves[i].X...)
		cu.Y = append([]float64(nil), n.Curves[i].Y...)
		c.Curves = append(c.Curves, &cu)
		if _, err := c.CurveIdx.Insert(cu.ID); err != nil {
			panic(err)
		}
	}
	c.SimpleControls = append([]SimpleControl(nil), n.SimpleControls...)
	for _, r := range n.Rules {
		rc := *r
		rc.Premises = append([]Premise(nil), r.Premises...)
		rc.Then = append([]Action(nil), r.Then...)
		rc.Else = append([]Action(nil), r.Else...)
		c.Rules = append(c.Rules, &rc)
	}
	return c
}
