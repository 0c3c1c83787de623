// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netw

import (
	"fmt"
	"math"

	"github.com/cpmech/gosl/la"
)

// CurveRole distinguishes the roles a Curve can play (§3).
type CurveRole int

const (
	GenericCurve CurveRole = iota
	VolumeCurve
	PumpHeadCurve
	PumpEfficiencyCurve
	ValveHeadlossCurve
)

// Curve is an ordered set of (x,y) points with strictly increasing x,
// interpolated piecewise-linearly and clamped at the endpoints outside
// its domain (§9 design notes).
type Curve struct {
	ID   string
	Role CurveRole
	X    []float64
	Y    []float64
}

// Validate checks the strictly-increasing-x invariant (§3).
func (c *Curve) Validate() error {
	for i := 1; i < len(c.X); i++ {
		if c.X[i] <= c.X[i-1] {
			return fmt.Errorf("netw: curve %q x-values are not strictly increasing at index %d", c.ID, i)
		}
	}
	return nil
}

// Interp returns the piecewise-linear interpolated y for the given x,
// clamping to the first/last point when x lies outside [X[0], X[n-1]].
func (c *Curve) Interp(x float64) float64 {
	n := len(c.X)
	if n == 0 {
		return 0
	}
	if n == 1 || x <= c.X[0] {
		return c.Y[0]
	}
	if x >= c.X[n-1] {
		return c.Y[n-1]
	}
	lo := 0
	for i := 1; i < n; i++ {
		if x <= c.X[i] {
			lo = i - 1
			break
		}
	}
	dx := c.X[lo+1] - c.X[lo]
	if dx == 0 {
		return c.Y[lo]
	}
	frac := (x - c.X[lo]) / dx
	return c.Y[lo] + frac*(c.Y[lo+1]-c.Y[lo])
}

// Slope returns the local derivative dy/dx of the segment containing x
// (clamped to the boundary segment's slope outside the domain, same
// convention as Interp).
func (c *Curve) Slope(x float64) float64 {
	n := len(c.X)
	if n < 2 {
		return 0
	}
	lo := 0
	if x <= c.X[0] {
		lo = 0
	} else if x >= c.X[n-1] {
		lo = n - 2
	} else {
		for i := 1; i < n; i++ {
			if x <= c.X[i] {
				lo = i - 1
				break
			}
		}
	}
	dx := c.X[lo+1] - c.X[lo]
	if dx == 0 {
		return 0
	}
	return (c.Y[lo+1] - c.Y[lo]) / dx
}

// AvgSlope returns the average slope across all curve segments, used by
// §4.10 to derive a tank's "nominal diameter" from its volume curve:
// sqrt(4*avgSlope/pi).
func (c *Curve) AvgSlope() float64 {
	if len(c.X) < 2 {
		return 0
	}
	return (c.Y[len(c.Y)-1] - c.Y[0]) / (c.X[len(c.X)-1] - c.X[0])
}

// FitPump derives a power-function pump curve h(Q) = h0 - r*Q^n from
// one design point or from three points {(0,h0), (Qdes,hdes), (Qmax,hmax)}
// the way EPANET turns a 1-point or 3-point [PUMPS] entry into a curve:
// a single point is expanded with EPANET's standard 133%/0% shutoff/
// runout spacing, then the shutoff head (the Q=0 point) gives h0
// directly and the exponent follows in closed form from the other two
// points.
func FitPump(q, h []float64) (h0, r, n float64, err error) {
	if len(q) == 1 {
		q = []float64{0, q[0], 2 * q[0]}
		h = []float64{1.33 * h[0], h[0], 0}
	}
	if len(q) != 3 || len(h) != 3 {
		return 0, 0, 0, fmt.Errorf("netw: FitPump requires 1 or 3 points, got %d", len(q))
	}
	if q[0] != 0 {
		return 0, 0, 0, fmt.Errorf("netw: FitPump: first point must be the shutoff point (Q=0)")
	}
	h0 = h[0]
	if q[1] <= 0 || q[2] <= q[1] {
		return 0, 0, 0, fmt.Errorf("netw: FitPump: flows must satisfy 0 < Qdes < Qmax")
	}
	if h[1] <= h[2] || h0 <= h[1] {
		return 0, 0, 0, fmt.Errorf("netw: FitPump: heads must decrease strictly with flow")
	}
	n = math.Log((h0-h[1])/(h0-h[2])) / math.Log(q[1]/q[2])
	r = (h0 - h[1]) / math.Pow(q[1], n)
	return h0, r, n, nil
}

// FitQuadraticEfficiency least-squares fits an efficiency-vs-flow curve
// e(Q) = a + b*Q + c*Q^2 from N>=3 sampled points, solving the 3x3
// normal-equations system with a gosl/la-allocated dense matrix (the
// teacher's mdl/ packages use la.MatAlloc for exactly this kind of small
// parameter-fitting system; unlike the core §4.2-4.3 sparse solve, a
// one-shot 3x3 dense solve is legitimately in la's wheelhouse).
func FitQuadraticEfficiency(q, e []float64) (a, b, c float64, err error) {
	if len(q) < 3 || len(q) != len(e) {
		return 0, 0, 0, fmt.Errorf("netw: FitQuadraticEfficiency needs >=3 matching points")
	}
	// normal equations: A^T A x = A^T y, with A's rows = [1, Q, Q^2]
	ata := la.MatAlloc(3, 3)
	aty := make([]float64, 3)
	for k := range q {
		row := [3]float64{1, q[k], q[k] * q[k]}
		for i := 0; i < 3; i++ {
			aty[i] += row[i] * e[k]
			for j := 0; j < 3; j++ {
				ata[i][j] += row[i] * row[j]
			}
		}
	}
	x, err := solve3x3(ata, aty)
	if err != nil {
		return 0, 0, 0, err
	}
	return x[0], x[1], x[2], nil
}

// solve3x3 solves a 3x3 dense linear system by Gaussian elimination with
// partial pivoting (gosl/la does not itself export a generic small dense
// solver, so the elimination is written out here, operating on the
// la.MatAlloc-backed matrix).
func solve3x3(a [][]float64, b []float64) ([]float64, error) {
	n := 3
	m := la.MatAlloc(n, n+1)
	for i := 0; i < n; i++ {
		copy(m[i], a[i])
		m[i][n] = b[i]
	}
	for col := 0; col < n; col++ {
		piv := col
		for r := col + 1; r < n; r++ {
			if math.Abs(m[r][col]) > math.Abs(m[piv][col]) {
				piv = r
			}
		}
		if math.Abs(m[piv][col]) < 1e-14 {
			return nil, fmt.Errorf("netw: singular system in solve3x3")
		}
		m[col], m[piv] = m[piv], m[col]
		for r := 0; r < n; r++ {
			if r == col {
				continue
			}
			f := m[r][col] / m[col][col]
			for cc := col; cc <= n; cc++ {
				m[r][cc] -= f * m[col][cc]
			}
		}
	}
	x := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = m[i][n] / m[i][i]
	}
	return x, nil
}
