// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrl

import (
	"testing"

	"github.com/cpmech/epanet-go/netw"
	"github.com/cpmech/gosl/chk"
)

// Test_rules01 checks that a rule whose AND-joined premises both hold
// fires its THEN actions, and that a false premise suppresses it in
// favor of ELSE.
func Test_rules01(tst *testing.T) {

	chk.PrintTitle("rules01: AND-joined premises gate THEN vs ELSE")

	n := newTankPipeNetwork(tst)
	tank := n.Nodes[2]
	tank.Head = tank.Elevation + 15

	n.Rules = []*netw.Rule{
		{
			ID: "R1",
			Premises: []netw.Premise{
				{Logic: netw.LogicNone, Object: netw.ObjNode, ObjectIdx: 2, Attr: netw.AttrLevel, Op: netw.OpGE, Value: 10},
				{Logic: netw.LogicAnd, Object: netw.ObjSystem, Attr: netw.AttrTime, Op: netw.OpGE, Value: 0},
			},
			Then:     []netw.Action{{LinkIdx: 1, NewStatus: netw.Closed, NewSetting: 0}},
			Else:     []netw.Action{{LinkIdx: 1, NewStatus: netw.Open, NewSetting: 0}},
			Priority: 1,
		},
	}

	chk.IntAssert(ApplyRules(n, 0, 0), 1)
	chk.IntAssert(int(n.Links[1].Status), int(netw.Closed))

	tank.Head = tank.Elevation + 1 // level premise now false
	n.Links[1].Status = netw.Closed
	chk.IntAssert(ApplyRules(n, 0, 0), 1)
	chk.IntAssert(int(n.Links[1].Status), int(netw.Open))
}

// Test_rules02 checks that when two rules act on the same link, the
// higher-priority rule's action wins regardless of declaration order.
func Test_rules02(tst *testing.T) {

	chk.PrintTitle("rules02: higher priority wins a same-link conflict")

	n := newTankPipeNetwork(tst)

	n.Rules = []*netw.Rule{
		{
			ID:       "low-priority-first",
			Premises: []netw.Premise{{Object: netw.ObjSystem, Attr: netw.AttrTime, Op: netw.OpGE, Value: 0}},
			Then:     []netw.Action{{LinkIdx: 1, NewStatus: netw.Open}},
			Priority: 1,
		},
		{
			ID:       "high-priority-second",
			Premises: []netw.Premise{{Object: netw.ObjSystem, Attr: netw.AttrTime, Op: netw.OpGE, Value: 0}},
			Then:     []netw.Action{{LinkIdx: 1, NewStatus: netw.Closed}},
			Priority: 5,
		},
	}

	changed := ApplyRules(n, 0, 0)
	chk.IntAssert(changed, 1)
	chk.IntAssert(int(n.Links[1].Status), int(netw.Closed))
}

// Test_rules03 checks ties break by declaration order (first rule in
// the list wins).
func Test_rules03(tst *testing.T) {

	chk.PrintTitle("rules03: equal priority breaks by declaration order")

	n := newTankPipeNetwork(tst)

	n.Rules = []*netw.Rule{
		{
			ID:       "first",
			Premises: []netw.Premise{{Object: netw.ObjSystem, Attr: netw.AttrTime, Op: netw.OpGE, Value: 0}},
			Then:     []netw.Action{{LinkIdx: 1, NewStatus: netw.Closed}},
			Priority: 2,
		},
		{
			ID:       "second",
			Premises: []netw.Premise{{Object: netw.ObjSystem, Attr: netw.AttrTime, Op: netw.OpGE, Value: 0}},
			Then:     []netw.Action{{LinkIdx: 1, NewStatus: netw.Open}},
			Priority: 2,
		},
	}

	ApplyRules(n, 0, 0)
	chk.IntAssert(int(n.Links[1].Status), int(netw.Closed))
}

// Test_rules04 checks a link-status premise using IS/NOT.
func Test_rules04(tst *testing.T) {

	chk.PrintTitle("rules04: link status premise with IS/NOT")

	n := newTankPipeNetwork(tst)
	n.Links[1].Status = netw.Open

	n.Rules = []*netw.Rule{
		{
			ID:       "status-is-open",
			Premises: []netw.Premise{{Object: netw.ObjLink, ObjectIdx: 1, Attr: netw.AttrStatus, Op: netw.OpIs, StatusVal: netw.Open}},
			Then:     []netw.Action{{LinkIdx: 1, NewStatus: netw.Closed}},
			Priority: 1,
		},
	}

	chk.IntAssert(ApplyRules(n, 0, 0), 1)
	chk.IntAssert(int(n.Links[1].Status), int(netw.Closed))
}
