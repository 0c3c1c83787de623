// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hyd

import (
	"math"

	"github.com/cpmech/epanet-go/netw"
)

// linearize writes a link's P (inverse head-loss gradient) and Y (flow
// correction) coefficients for the current flow estimate into l.P/l.Y
// (§4.4). It dispatches on link kind exactly as linkcoeffs() does in
// hydraul.c, deferring PRV/PSV/FCV links with an active numeric setting
// to the valve pass in assemble.go.
func linearize(net *netw.Network, l *netw.Link) (deferToValvePass bool) {
	switch l.Kind {
	case netw.CVPipe, netw.Pipe:
		pipeCoeff(net, l)
	case netw.Pump:
		pumpCoeff(net, l)
	case netw.PBV:
		pbvCoeff(net, l)
	case netw.TCV:
		tcvCoeff(net, l)
	case netw.GPV:
		gpvCoeff(net, l)
	case netw.FCV, netw.PRV, netw.PSV:
		if !l.HasSetting() {
			valveCoeff(l)
		} else {
			return true
		}
	}
	return false
}

// pipeCoeff computes P/Y for a pipe or check-valve pipe (pipecoeff() in
// hydraul.c).
func pipeCoeff(net *netw.Network, l *netw.Link) {
	if l.Status <= netw.Closed {
		l.P = 1.0 / CBig
		l.Y = l.Flow
		return
	}

	q := abs(l.Flow)
	ml := l.MinorLossCoeff
	r := l.Resistance
	hexp := net.Opts.Hexp()

	f := 1.0
	if net.Opts.Formula == netw.DarcyWeisbach {
		f, _ = dwFrictionFactor(l)
	}
	r1 := f*r + ml

	if r1*q < RQtol {
		l.P = 1.0 / RQtol
		l.Y = l.Flow / hexp
		return
	}

	if net.Opts.Formula == netw.DarcyWeisbach {
		hpipe := r1 * q * q
		p := 1.0 / (2.0 * r1 * q)
		l.P = p
		l.Y = sgn(l.Flow) * hpipe * p
		return
	}

	hpipe := r * math.Pow(q, hexp)
	p := hexp * hpipe
	var hml float64
	if ml > 0 {
		hml = ml * q * q
		p += 2.0 * hml
	}
	p = l.Flow / p
	l.P = abs(p)
	l.Y = p * (hpipe + hml)
}

// dwFrictionFactor computes the Darcy-Weisbach friction factor by
// Reynolds-number regime: Colebrook (turbulent), Dunlop's cubic
// interpolation (transition, 2000<Re<4000), Hagen-Poiseuille (laminar),
// or a fixed f=8 below Re=8 (DWcoeff() in hydraul.c). The derivative
// term is intentionally not returned/used — EPANET ignores it too,
// since including it slows convergence more than it helps.
func dwFrictionFactor(l *netw.Link) (f float64, _ float64) {
	q := abs(l.Flow)
	s := Viscos * l.Diameter
	if q == 0 {
		return 8.0, 0
	}
	w := q / s
	switch {
	case w >= a1:
		y1 := a8 / math.Pow(w, 0.9)
		y2 := l.Roughness/(3.7*l.Diameter) + y1
		y3 := a9 * math.Log(y2)
		f = 1.0 / (y3 * y3)
	case w > a2:
		y2 := l.Roughness/(3.7*l.Diameter) + ab
		y3 := a9 * math.Log(y2)
		fa := 1.0 / (y3 * y3)
		fb := (2.0 + ac/(y2*y3)) * fa
		r := w / a2
		x1 := 7.0*fa - fb
		x2 := 0.128 - 17.0*fa + 2.5*fb
		x3 := -0.128 + 13.0*fa - (fb + fb)
		x4 := r * (0.032 - 3.0*fa + 0.5*fb)
		f = x1 + r*(x2+r*(x3+x4))
	case w > a4:
		f = a3 * s / q
	default:
		f = 8.0
	}
	return f, 0
}

// pumpCoeff computes P/Y for a pump (pumpcoeff() in hydraul.c). Speed k
// scales the underlying curve per the affinity laws.
func pumpCoeff(net *netw.Network, l *netw.Link) {
	k := l.Setting
	if l.Status <= netw.Closed || k == 0 {
		l.P = 1.0 / CBig
		l.Y = l.Flow
		return
	}
	pd := l.Pump
	q := math.Max(abs(l.Flow), 1e-6)

	h0, r, n := pd.ShutoffHead, pd.ResistanceCoeff, pd.FlowExponent
	if pd.CurveType == netw.CustomCurve {
		curve := net.Curves[pd.CurveIdx]
		ih0, ir := curveCoeff(curve, q/k)
		h0, r, n = -ih0, -ir, 1.0
	}

	h0 = k * k * h0
	r = r * math.Pow(k, 2.0-n)
	if n != 1.0 {
		r = n * r * math.Pow(q, n-1.0)
	}

	l.P = 1.0 / math.Max(r, RQtol)
	l.Y = l.Flow/n + l.P*h0
}

// curveCoeff finds the local intercept/slope of a pump's custom
// head-vs-flow curve at flow q by bracketing the linear segment that
// contains q and extrapolating from its two endpoints if q falls
// outside the curve's domain (curvecoeff() in hydraul.c).
func curveCoeff(c *netw.Curve, q float64) (h0, r float64) {
	n := len(c.X)
	k2 := 0
	for k2 < n && c.X[k2] < q {
		k2++
	}
	if k2 == 0 {
		k2++
	} else if k2 == n {
		k2--
	}
	k1 := k2 - 1
	r = (c.Y[k2] - c.Y[k1]) / (c.X[k2] - c.X[k1])
	h0 = c.Y[k1] - r*c.X[k1]
	return h0, r
}

// valveCoeff computes P/Y for a link treated as a plain pipe with only
// its minor-loss coefficient contributing resistance — the fallback
// used by every valve kind when closed, fixed open, or reduced to an
// equivalent orifice (valvecoeff() in hydraul.c).
func valveCoeff(l *netw.Link) {
	if l.Status <= netw.Closed {
		l.P = 1.0 / CBig
		l.Y = l.Flow
		return
	}
	if l.MinorLossCoeff > 0 {
		p := 2.0 * l.MinorLossCoeff * abs(l.Flow)
		if p < RQtol {
			p = RQtol
		}
		l.P = 1.0 / p
		l.Y = l.Flow / 2.0
		return
	}
	l.P = 1.0 / RQtol
	l.Y = l.Flow
}

// gpvCoeff computes P/Y for a general purpose valve. Unlike every other
// valve kind, a GPV's Setting field does not hold a throttling setpoint
// (and so is never left as the "no setting" NaN sentinel): it holds the
// 1-based index of the headloss-vs-flow curve assigned to it, exactly
// as K[k] doubles as a curve index for GPVs in hydraul.c.
func gpvCoeff(net *netw.Network, l *netw.Link) {
	if l.Status == netw.Closed {
		valveCoeff(l)
		return
	}
	q := math.Max(abs(l.Flow), 1e-6)
	curve := net.Curves[int(math.Round(l.Setting))]
	h0, r := curveCoeff(curve, q)
	p := 1.0 / math.Max(r, RQtol)
	l.P = p
	l.Y = p * (h0 + r*q) * sgn(l.Flow)
}

// pbvCoeff computes P/Y for a pressure breaker valve, which forces a
// fixed headloss equal to its setting whenever that loss exceeds the
// valve's own minor loss at the current flow (pbvcoeff() in hydraul.c).
func pbvCoeff(net *netw.Network, l *netw.Link) {
	if !l.HasSetting() {
		valveCoeff(l)
		return
	}
	if l.MinorLossCoeff*l.Flow*l.Flow > l.Setting {
		valveCoeff(l)
		return
	}
	l.P = CBig
	l.Y = l.Setting * CBig
}

// tcvCoeff computes P/Y for a throttle control valve by translating its
// setting into an equivalent minor-loss coefficient and reusing the
// plain valve formula (tcvcoeff() in hydraul.c).
func tcvCoeff(net *netw.Network, l *netw.Link) {
	km := l.MinorLossCoeff
	if l.HasSetting() {
		d2 := l.Diameter * l.Diameter
		l.MinorLossCoeff = 0.02517 * l.Setting / (d2 * d2)
	}
	valveCoeff(l)
	l.MinorLossCoeff = km
}
