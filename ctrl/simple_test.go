// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package ctrl

import (
	"testing"

	"github.com/cpmech/epanet-go/netw"
	"github.com/cpmech/gosl/chk"
)

func newTankPipeNetwork(tst *testing.T) *netw.Network {
	n := netw.New()
	j, err := n.AddJunction("J1", 0)
	if err != nil {
		tst.Fatalf("AddJunction: %v", err)
	}
	tk, err := n.AddTank("T1", 100, 10, 0, 20, 50, 0)
	if err != nil {
		tst.Fatalf("AddTank: %v", err)
	}
	if _, err := n.AddLink("P1", netw.Pipe, tk, j, 1000, 12, 100, 0); err != nil {
		tst.Fatalf("AddLink: %v", err)
	}
	return n
}

// Test_ctrl01 checks that a low-level simple control closes a link once
// the tank it watches drops to the threshold, and leaves it alone
// otherwise (controls() in hydraul.c).
func Test_ctrl01(tst *testing.T) {

	chk.PrintTitle("ctrl01: low-level tank control closes a link")

	n := newTankPipeNetwork(tst)
	tank := n.Nodes[2]
	tank.Head = tank.Elevation + 5 // level 5, above the 2.0 threshold

	n.SimpleControls = []netw.SimpleControl{
		{LinkIdx: 1, NewStatus: netw.Closed, Trigger: netw.LowLevel, NodeIdx: 2, Threshold: 2.0},
	}

	if ApplySimpleControls(n, 0, 0) != 0 {
		tst.Fatalf("control fired above threshold")
	}
	chk.IntAssert(int(n.Links[1].Status), int(netw.Open))

	tank.Head = tank.Elevation + 1 // level 1, below threshold
	changed := ApplySimpleControls(n, 3600, 0)
	chk.IntAssert(changed, 1)
	chk.IntAssert(int(n.Links[1].Status), int(netw.Closed))

	// re-applying with the level still below threshold is a no-op
	chk.IntAssert(ApplySimpleControls(n, 7200, 0), 0)
}

// Test_ctrl02 checks that a timer control fires exactly at its
// scheduled elapsed time and not before or after.
func Test_ctrl02(tst *testing.T) {

	chk.PrintTitle("ctrl02: timer control fires once at its scheduled time")

	n := newTankPipeNetwork(tst)
	n.SimpleControls = []netw.SimpleControl{
		{LinkIdx: 1, NewStatus: netw.Closed, Trigger: netw.Timer, Threshold: 7200},
	}

	chk.IntAssert(ApplySimpleControls(n, 3600, 0), 0)
	chk.IntAssert(ApplySimpleControls(n, 7200, 0), 1)
	chk.IntAssert(int(n.Links[1].Status), int(netw.Closed))
	chk.IntAssert(ApplySimpleControls(n, 10800, 0), 0)
}

// Test_ctrl03 checks that a time-of-day control wraps the simulation
// clock against a 24-hour day.
func Test_ctrl03(tst *testing.T) {

	chk.PrintTitle("ctrl03: time-of-day control wraps at 24 hours")

	n := newTankPipeNetwork(tst)
	n.SimpleControls = []netw.SimpleControl{
		{LinkIdx: 1, NewStatus: netw.Closed, Trigger: netw.TimeOfDay, Threshold: 6 * 3600},
	}

	// one full day plus 6 hours elapsed, started at clock time 0
	chk.IntAssert(ApplySimpleControls(n, secPerDay+6*3600, 0), 1)
	chk.IntAssert(int(n.Links[1].Status), int(netw.Closed))
}
