// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package ctrl evaluates the two control mechanisms of §3/§4.8: simple
// IF-threshold-THEN controls and priority-ordered rule-based controls.
// It is transcribed from the control-checking half of hydraul.c
// (controls() and pswitch()) and from the rule-evaluation scheme
// described in §4.8, sitting above package hyd the way hydraul.c's
// control functions sit above its own matrix-assembly code: neither
// function here touches the sparse system, only link status/setting
// and the network's own state.
package ctrl

import (
	"math"

	"github.com/cpmech/epanet-go/netw"
)

const secPerDay = 86400.0

// ApplySimpleControls scans every simple control and applies the ones
// whose trigger condition currently holds, returning how many links
// actually changed status or setting (controls()+pswitch() in
// hydraul.c, unified here: both functions apply the same
// threshold-to-action shape, differing only in which node kind feeds
// the threshold check).
//
// htime is the elapsed simulation time in seconds and tstart is the
// clock-time-of-day offset at htime==0, both seconds; together they
// give the wall-clock time of day a TimeOfDay trigger compares against.
func ApplySimpleControls(net *netw.Network, htime, tstart float64) int {
	changed := 0
	for i := range net.SimpleControls {
		c := &net.SimpleControls[i]
		if !triggerHolds(net, c, htime, tstart) {
			continue
		}
		if applyAction(net, c.LinkIdx, c.NewStatus, c.NewSetting) {
			changed++
		}
	}
	return changed
}

// triggerHolds reports whether a simple control's single condition is
// satisfied right now.
func triggerHolds(net *netw.Network, c *netw.SimpleControl, htime, tstart float64) bool {
	switch c.Trigger {
	case netw.LowLevel:
		return nodeLevel(net, c.NodeIdx) <= c.Threshold
	case netw.HighLevel:
		return nodeLevel(net, c.NodeIdx) >= c.Threshold
	case netw.Timer:
		return htime == c.Threshold
	case netw.TimeOfDay:
		return math.Mod(htime+tstart, secPerDay) == c.Threshold
	}
	return false
}

// nodeLevel returns a tank's water level (head above its elevation) or
// a junction's head directly, matching how EPANET's controls() reads
// H[n] regardless of node kind for a level-triggered simple control.
func nodeLevel(net *netw.Network, nodeIdx int) float64 {
	n := net.Nodes[nodeIdx]
	if n.Kind == netw.Tank {
		return n.Head - n.Elevation
	}
	return n.Head
}

// ApplyPressureSwitches re-checks junction-pressure-triggered simple
// controls (LowLevel/HighLevel whose node is a junction) against the
// current head solution, applying htol slack exactly as pswitch() does
// in hydraul.c. This is the only simple-control check that belongs
// inside the hydraulic Newton loop itself: junction head is the
// quantity being solved for, so a pressure switch can flip mid-solve
// and force another iteration, unlike tank-level, timer and
// time-of-day triggers, none of which can change within one hydraulic
// solution.
func ApplyPressureSwitches(net *netw.Network, njuncs int, htol float64) int {
	changed := 0
	for i := range net.SimpleControls {
		c := &net.SimpleControls[i]
		if c.NodeIdx <= 0 || c.NodeIdx > njuncs {
			continue
		}
		var holds bool
		switch c.Trigger {
		case netw.LowLevel:
			holds = net.Nodes[c.NodeIdx].Head <= c.Threshold+htol
		case netw.HighLevel:
			holds = net.Nodes[c.NodeIdx].Head >= c.Threshold-htol
		default:
			continue
		}
		if !holds {
			continue
		}
		if applyAction(net, c.LinkIdx, c.NewStatus, c.NewSetting) {
			changed++
		}
	}
	return changed
}

// applyAction writes a new status/setting to a link if either differs
// from its current value, returning whether anything changed. A
// setting of NaN ("no setting") never overwrites the link's current
// setting, mirroring the MISSING-sentinel skip in hydraul.c.
func applyAction(net *netw.Network, linkIdx int, status netw.Status, setting float64) bool {
	l := net.Links[linkIdx]
	changed := false
	if l.Status != status {
		l.Status = status
		changed = true
	}
	if !math.IsNaN(setting) && l.Setting != setting {
		l.Setting = setting
		changed = true
	}
	return changed
}
