// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package hyd implements the gradient-method hydraulic solver (§4.4–§4.7):
// per-link headloss linearization, global matrix/RHS assembly including
// active-valve augmentation, the damped Newton outer iteration, link and
// valve status state machines, and pump energy accounting. It is
// transcribed from EPANET's hydraul.c, which implements Todini & Pilati's
// gradient algorithm on top of the sparse solver in package sparse.
package hyd

import "math"

// Regime-split constants for the Darcy-Weisbach friction factor
// (DWcoeff in hydraul.c): A1..A4 bound the Reynolds-number regimes,
// A8/A9/AA/AB/AC are the Colebrook/Dunlop interpolation coefficients.
const (
	a1 = 0.314159265359e04 // 1000*Pi; Re >= 4000 boundary (w = Re*Pi/4)
	a2 = 0.157079632679e04 // 500*Pi;  Re = 2000 boundary
	a3 = 0.502654824574e02 // 16*Pi;   laminar coefficient
	a4 = 6.283185307       // 2*Pi;    Re = 8 boundary

	a8 = 4.61841319859      // 5.74*(Pi/4)^0.9
	a9 = -8.685889638e-01   // -2/ln(10)
	aa = -1.5634601348      // -2*0.9*2/ln(10)
	ab = 3.28895476345e-03  // 5.74/(4000^0.9)
	ac = -5.14214965799e-03 // aa*ab
)

// CBig is the very large conductance used to "pin" a node's head or a
// valve's flow when its matrix coefficient must dominate all others
// (e.g. an active PRV forcing downstream head to its setting).
const CBig = 1.0e8

// RQtol is the minimum resistance*flow product below which a link's
// head-loss slope is clamped to avoid a singular/huge P coefficient
// (pipecoeff, valvecoeff, emittercoeffs in hydraul.c).
const RQtol = 1.0e-7

// Htol and Qtol are the head/flow tolerances used by the status state
// machines to decide "no change" from floating point noise.
const (
	Htol = 0.0005
	Qtol = 0.0001
)

// QZero is the flow treated as exactly zero for CLOSED links and other
// zero-flow bookkeeping (QZERO in hydraul.c).
const QZero = 1.0e-7

// CSmall is a tiny floor resistance assigned to a link so it never
// produces a zero/undefined headloss slope (resistance() in hydraul.c).
const CSmall = 1.0e-6

// Viscos is water's kinematic viscosity, ft^2/s at 20C (VISCOS in
// EPANET's unit tables; the unit-conversion table itself is out of
// scope per spec.md so this one physical constant is carried directly).
const Viscos = 1.1e-5

// KWperHP converts horsepower to kilowatts (addenergy()/getenergy()).
const KWperHP = 0.7457

func abs(x float64) float64 { return math.Abs(x) }

func sgn(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
