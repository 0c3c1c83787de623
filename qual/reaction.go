// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qual

import "math"

// ReactBulk integrates a segment's bulk reaction over dt for kinetic
// order n0 (§4.11 rule 1). Order 0 (whatever climit is) and order 1
// with no limiting potential are integrated exactly (a constant-rate
// and an exponential decay/growth respectively, the two closed forms
// EPANET itself uses); every other order, and order 1 with a nonzero
// limiting potential climit, takes one explicit Euler step, since the
// general nth-order-with-limiting case has no closed form and
// quality.c was not part of the retained original source to transcribe
// its own (RK-based) treatment from.
func ReactBulk(c, kb, n0, climit, dt float64) float64 {
	if kb == 0 || dt <= 0 {
		return c
	}
	switch {
	case n0 == 0:
		c2 := c + kb*dt
		if c2 < 0 {
			return 0
		}
		return c2
	case n0 == 1 && climit == 0:
		return c * math.Exp(kb*dt)
	default:
		c2 := c + bulkRate(c, kb, n0, climit)*dt
		if c2 < 0 {
			return 0
		}
		return c2
	}
}

// bulkRate is the instantaneous dC/dt for nth-order kinetics with an
// optional limiting potential: without a limit the rate is the plain
// kb*C^n0; with one, growth (kb>0) slows as C approaches climit from
// below and decay (kb<0) slows as C approaches climit from above.
func bulkRate(c, kb, n0, climit float64) float64 {
	c = math.Max(c, 0)
	if climit == 0 {
		return kb * math.Pow(c, n0)
	}
	if kb > 0 {
		return kb * (climit - c) * math.Pow(c, n0-1)
	}
	return kb * (c - climit) * math.Pow(c, n0-1)
}

// ReactWall integrates a pipe segment's wall reaction over dt for
// kinetic order n1, scaling the per-area wall coefficient kw by the
// pipe's surface-to-volume ratio 4/diameter (§4.11 rule 1). This omits
// EPANET's turbulent mass-transfer correction (a Reynolds/Schmidt-
// number-dependent limiting coefficient computed in quality.c, which
// was not retained in the filtered original source and has no
// parameters in spec.md to ground it on): the wall coefficient alone is
// assumed rate-limiting, a standard simplification for the reaction-
// dominated regime most network water-quality studies target.
func ReactWall(c, kw, n1, diameter, dt float64) float64 {
	if kw == 0 || dt <= 0 || diameter <= 0 {
		return c
	}
	avRatio := 4.0 / diameter
	rate := kw * avRatio * math.Pow(math.Max(c, 0), n1)
	c2 := c + rate*dt
	if c2 < 0 {
		return 0
	}
	return c2
}
