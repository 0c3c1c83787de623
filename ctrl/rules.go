// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrl

import (
	"sort"

	"github.com/cpmech/epanet-go/netw"
)

// ApplyRules evaluates every rule's premise list against the network's
// current state and applies the THEN actions of rules that fire (or
// the ELSE actions of rules that don't, when present), resolving
// conflicts between rules that act on the same link by priority, with
// ties broken by declaration order (§3, §4.8 scenario 6: "highest
// priority wins; among equal priorities, the rule appearing earlier in
// the rule list wins"). Returns how many links actually changed.
func ApplyRules(net *netw.Network, htime, clockTime float64) int {
	type firing struct {
		priority float64
		actions  []netw.Action
	}
	var fired []firing
	for _, r := range net.Rules {
		ok := r.Evaluate(func(p *netw.Premise) bool {
			return premiseHolds(net, p, htime, clockTime)
		})
		switch {
		case ok && len(r.Then) > 0:
			fired = append(fired, firing{r.Priority, r.Then})
		case !ok && len(r.Else) > 0:
			fired = append(fired, firing{r.Priority, r.Else})
		}
	}

	// Highest priority first; sort.SliceStable preserves declaration
	// order among equal priorities, which is exactly the tiebreak rule.
	sort.SliceStable(fired, func(i, j int) bool { return fired[i].priority > fired[j].priority })

	applied := map[int]bool{}
	changed := 0
	for _, f := range fired {
		for _, a := range f.actions {
			if applied[a.LinkIdx] {
				continue
			}
			applied[a.LinkIdx] = true
			if applyAction(net, a.LinkIdx, a.NewStatus, a.NewSetting) {
				changed++
			}
		}
	}
	return changed
}

// premiseHolds resolves a single rule premise against live network
// state: node level/pressure/demand, link flow/status/setting, or the
// two system clocks (checkpremise() in EPANET's rules.c, reimplemented
// here directly from §3/§4.8 since rules.c was not part of the
// filtered original source).
func premiseHolds(net *netw.Network, p *netw.Premise, htime, clockTime float64) bool {
	if p.Object == netw.ObjLink && p.Attr == netw.AttrStatus {
		return compareStatus(net.Links[p.ObjectIdx].Status, p.Op, p.StatusVal)
	}

	var v float64
	switch p.Object {
	case netw.ObjNode:
		n := net.Nodes[p.ObjectIdx]
		switch p.Attr {
		case netw.AttrLevel:
			v = n.Head - n.Elevation
		case netw.AttrPressure:
			v = n.Head - n.Elevation
		case netw.AttrDemand:
			v = n.Demand
		}
	case netw.ObjLink:
		l := net.Links[p.ObjectIdx]
		switch p.Attr {
		case netw.AttrFlow:
			v = l.Flow
		case netw.AttrSetting:
			v = l.Setting
		}
	case netw.ObjSystem:
		switch p.Attr {
		case netw.AttrTime:
			v = htime
		case netw.AttrClockTime:
			v = clockTime
		}
	}
	return compareValue(v, p.Op, p.Value)
}

func compareValue(v float64, op netw.CompareOp, target float64) bool {
	switch op {
	case netw.OpEQ:
		return v == target
	case netw.OpNE:
		return v != target
	case netw.OpLE, netw.OpBelow:
		return v <= target
	case netw.OpGE, netw.OpAbove:
		return v >= target
	case netw.OpLT:
		return v < target
	case netw.OpGT:
		return v > target
	}
	return false
}

func compareStatus(s netw.Status, op netw.CompareOp, target netw.Status) bool {
	switch op {
	case netw.OpIs, netw.OpEQ:
		return s == target
	case netw.OpNot, netw.OpNE:
		return s != target
	}
	return false
}
