// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qual

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
)

// Test_reaction01 checks the exact first-order decay closed form.
func Test_reaction01(tst *testing.T) {

	chk.PrintTitle("reaction01: first-order decay matches exp(kb*t)")

	c0 := 1.0
	kb := -0.5 // per second
	dt := 2.0
	got := ReactBulk(c0, kb, 1, 0, dt)
	want := c0 * math.Exp(kb*dt)
	chk.Scalar(tst, "c", 1e-12, got, want)
}

// Test_reaction02 checks the exact zero-order closed form, including
// the floor at zero for a decaying species.
func Test_reaction02(tst *testing.T) {

	chk.PrintTitle("reaction02: zero-order reaction is a constant rate, floored at zero")

	chk.Scalar(tst, "growth", 1e-12, ReactBulk(1.0, 0.5, 0, 0, 2.0), 2.0)
	chk.Scalar(tst, "decay-floored", 1e-12, ReactBulk(0.5, -1.0, 0, 0, 2.0), 0.0)
}

// Test_reaction03 checks that a zero bulk coefficient never changes
// concentration, for any order.
func Test_reaction03(tst *testing.T) {

	chk.PrintTitle("reaction03: zero bulk coefficient is a no-op")

	chk.Scalar(tst, "c", 1e-12, ReactBulk(3.3, 0, 2, 0, 10), 3.3)
}

// Test_reaction04 checks that wall reaction scales with 4/diameter and
// vanishes for a zero wall coefficient.
func Test_reaction04(tst *testing.T) {

	chk.PrintTitle("reaction04: wall reaction scales with surface/volume ratio")

	c0 := 2.0
	kw := -0.1
	d := 0.5
	dt := 1.0
	got := ReactWall(c0, kw, 1, d, dt)
	want := c0 + kw*(4.0/d)*c0*dt
	chk.Scalar(tst, "c", 1e-12, got, want)

	chk.Scalar(tst, "no-op", 1e-12, ReactWall(c0, 0, 1, d, dt), c0)
}
