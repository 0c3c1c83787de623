// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qual

import (
	"math"

	"github.com/cpmech/epanet-go/netw"
)

// applySource folds a node's quality source (if any) into its
// just-computed mixed concentration c (§4.11 rule 3). inflow is the
// total inflow volume that produced c and dt the current quality time
// step, both needed to turn a mass-rate source into a concentration;
// now, with net.Opts.PatternStep, locates the source's modulating
// pattern, if any.
func applySource(net *netw.Network, n *netw.Node, c, inflow, dt, now float64) float64 {
	src := n.Source
	if src == nil || src.Kind == netw.NoSource {
		return c
	}
	mult := 1.0
	if src.PatternIdx > 0 && src.PatternIdx < len(net.Patterns) {
		mult = net.Patterns[src.PatternIdx].At(now, net.Opts.PatternStep, 0)
	}
	strength := src.Strength * mult

	switch src.Kind {
	case netw.ConcenSource:
		// a booster of fixed concentration added to the node's own
		// outflow, which only matters when the node is actually
		// injecting water into the network (inflow to the network, not
		// from it) — modeled here as fully replacing the computed
		// background concentration whenever any flow is present.
		if inflow > 0 || n.IsFixedGrade() {
			return strength
		}
		return c
	case netw.MassSource:
		if inflow <= 0 || dt <= 0 {
			return c
		}
		return c + (strength*dt)/inflow
	case netw.SetpointSource:
		return math.Max(c, strength)
	case netw.FlowPacedSource:
		return c + strength
	}
	return c
}
