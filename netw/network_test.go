// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netw

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// smallNetwork builds a reservoir, a junction and a pipe between them,
// the minimal topology Validate accepts.
func smallNetwork(tst *testing.T) (*Network, int, int, int) {
	n := New()
	r, err := n.AddReservoir("R1", 100)
	if err != nil {
		tst.Fatalf("AddReservoir: %v", err)
	}
	j, err := n.AddJunction("J1", 10)
	if err != nil {
		tst.Fatalf("AddJunction: %v", err)
	}
	p, err := n.AddLink("P1", Pipe, r, j, 1000, 0.3, 100, 0)
	if err != nil {
		tst.Fatalf("AddLink: %v", err)
	}
	return n, r, j, p
}

func Test_network01(tst *testing.T) {

	chk.PrintTitle("network01: a reservoir-junction-pipe network validates")

	n, _, _, _ := smallNetwork(tst)
	if err := n.Validate(); err != nil {
		tst.Fatalf("Validate: %v", err)
	}
	chk.IntAssert(n.Nnodes(), 2)
	chk.IntAssert(n.Nlinks(), 1)
}

func Test_network02(tst *testing.T) {

	chk.PrintTitle("network02: a network with no fixed-grade node is rejected")

	n := New()
	j1, err := n.AddJunction("J1", 10)
	if err != nil {
		tst.Fatalf("AddJunction: %v", err)
	}
	j2, err := n.AddJunction("J2", 5)
	if err != nil {
		tst.Fatalf("AddJunction: %v", err)
	}
	if _, err := n.AddLink("P1", Pipe, j1, j2, 1000, 0.3, 100, 0); err != nil {
		tst.Fatalf("AddLink: %v", err)
	}
	if err := n.Validate(); err == nil {
		tst.Fatalf("expected Validate to reject a network with no tank or reservoir")
	}
}

func Test_network03(tst *testing.T) {

	chk.PrintTitle("network03: a PRV directly downstream of a reservoir is rejected")

	n := New()
	r, err := n.AddReservoir("R1", 100)
	if err != nil {
		tst.Fatalf("AddReservoir: %v", err)
	}
	j, err := n.AddJunction("J1", 10)
	if err != nil {
		tst.Fatalf("AddJunction: %v", err)
	}
	if _, err := n.AddLink("V1", PRV, r, j, 0, 0.3, 0, 0); err != nil {
		tst.Fatalf("AddLink: %v", err)
	}
	if err := n.Validate(); err == nil {
		tst.Fatalf("expected Validate to reject a PRV adjacent to a reservoir")
	}
}

func Test_network04(tst *testing.T) {

	chk.PrintTitle("network04: DeleteNode cascades to incident links and reindexes")

	n, r, j, _ := smallNetwork(tst)
	j2, err := n.AddJunction("J2", 8)
	if err != nil {
		tst.Fatalf("AddJunction: %v", err)
	}
	if _, err := n.AddLink("P2", Pipe, j, j2, 500, 0.2, 100, 0); err != nil {
		tst.Fatalf("AddLink: %v", err)
	}
	chk.IntAssert(n.Nnodes(), 3)
	chk.IntAssert(n.Nlinks(), 2)

	if err := n.DeleteNode(j, Unconditional); err != nil {
		tst.Fatalf("DeleteNode: %v", err)
	}
	chk.IntAssert(n.Nnodes(), 2)
	chk.IntAssert(n.Nlinks(), 0) // both incident pipes are gone
	if n.Nodes[1].ID != "R1" {
		tst.Fatalf("reservoir should remain at index 1 after deletion, got %q", n.Nodes[1].ID)
	}
	_ = r
}

func Test_network05(tst *testing.T) {

	chk.PrintTitle("network05: DeleteLink with Conditional fails when a control references it")

	n, _, _, p := smallNetwork(tst)
	n.SimpleControls = append(n.SimpleControls, SimpleControl{LinkIdx: p, Trigger: Timer, Threshold: 3600})

	if err := n.DeleteLink(p, Conditional); err == nil {
		tst.Fatalf("expected Conditional delete to fail with a referencing control")
	}
	if err := n.DeleteLink(p, Unconditional); err != nil {
		tst.Fatalf("Unconditional DeleteLink: %v", err)
	}
	chk.IntAssert(n.Nlinks(), 0)
	chk.IntAssert(len(n.SimpleControls), 0)
}

func Test_network06(tst *testing.T) {

	chk.PrintTitle("network06: Clone produces an independent deep copy")

	n, _, j, _ := smallNetwork(tst)
	c := n.Clone()

	c.Nodes[j].Elevation = 999
	if n.Nodes[j].Elevation == 999 {
		tst.Fatalf("mutating the clone's node mutated the original")
	}
	chk.IntAssert(c.Nnodes(), n.Nnodes())
	chk.IntAssert(c.Nlinks(), n.Nlinks())
}
