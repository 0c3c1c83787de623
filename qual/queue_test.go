// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qual

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_queue01 checks that Inflow/Discharge conserve mass across a
// single plug of water pushed through a queue.
func Test_queue01(tst *testing.T) {

	chk.PrintTitle("queue01: inflow then discharge conserves mass")

	pool := NewPool(8)
	q := &Queue{}
	q.Inflow(pool, 10, 2.0)

	quality, discharged := q.Discharge(pool, 10)
	chk.Scalar(tst, "discharged", 1e-12, discharged, 10)
	chk.Scalar(tst, "quality", 1e-12, quality, 2.0)
	chk.IntAssert(len(q.segs), 0)
}

// Test_queue02 checks that a partial discharge blends across two
// segments of different quality in proportion to the volume consumed
// from each.
func Test_queue02(tst *testing.T) {

	chk.PrintTitle("queue02: partial discharge blends across segments")

	pool := NewPool(8)
	q := &Queue{}
	q.segs = []int{pool.Alloc(5, 0.0), pool.Alloc(5, 10.0)}

	quality, discharged := q.Discharge(pool, 7.5)
	chk.Scalar(tst, "discharged", 1e-12, discharged, 7.5)
	// 5 units at 0 + 2.5 units at 10 => mean 2.5/7.5*10 = 10/3
	chk.Scalar(tst, "quality", 1e-9, quality, 10.0/3.0)
	chk.IntAssert(len(q.segs), 1)
}

// Test_queue03 checks that Reorient only flips the segment order when
// the flow sign actually changes, and is a no-op on the first call.
func Test_queue03(tst *testing.T) {

	chk.PrintTitle("queue03: reorient flips on sign change only")

	pool := NewPool(8)
	q := &Queue{}
	a := pool.Alloc(1, 1.0)
	b := pool.Alloc(1, 2.0)
	q.segs = []int{a, b}

	q.Reorient(5) // first orientation: no flip
	chk.IntAssert(q.segs[0], a)

	q.Reorient(5) // same sign: no flip
	chk.IntAssert(q.segs[0], a)

	q.Reorient(-5) // sign flip: reverse
	chk.IntAssert(q.segs[0], b)
	chk.IntAssert(q.segs[1], a)
}

// Test_queue04 checks that DischargeBack (LIFO) removes the most
// recently added segment first.
func Test_queue04(tst *testing.T) {

	chk.PrintTitle("queue04: DischargeBack removes the newest segment first")

	pool := NewPool(8)
	q := &Queue{}
	q.segs = []int{pool.Alloc(5, 1.0), pool.Alloc(5, 99.0)}

	quality, discharged := q.DischargeBack(pool, 5)
	chk.Scalar(tst, "discharged", 1e-12, discharged, 5)
	chk.Scalar(tst, "quality", 1e-12, quality, 99.0)
}
