// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package hyd

import "github.com/cpmech/epanet-go/netw"

// big stands in for EPANET's BIG sentinel: an effectively-infinite head
// bound for constant-horsepower pumps, which have no shutoff head.
const big = 1.0e10

// cvStatus updates a check-valve pipe's status from the current
// headloss and flow, preventing reverse flow (cvstatus() in
// hydraul.c).
func cvStatus(s netw.Status, dh, q float64) netw.Status {
	if abs(dh) > Htol {
		if dh < -Htol {
			return netw.Closed
		}
		if q < -Qtol {
			return netw.Closed
		}
		return netw.Open
	}
	if q < -Qtol {
		return netw.Closed
	}
	return s
}

// pumpStatus updates an open pump's status, demoting it to XHead if its
// head gain exceeds the curve's shutoff head scaled by speed squared
// (pumpstatus() in hydraul.c). A custom curve's shutoff head is its
// first head value.
func pumpStatus(net *netw.Network, l *netw.Link, dh float64) netw.Status {
	hmax := big
	switch l.Pump.CurveType {
	case netw.ConstantPower:
	case netw.CustomCurve:
		if c := net.Curves[l.Pump.CurveIdx]; len(c.Y) > 0 {
			hmax = l.Setting * l.Setting * c.Y[0]
		}
	default:
		hmax = l.Setting * l.Setting * l.Pump.ShutoffHead
	}
	if dh > hmax+Htol {
		return netw.XHead
	}
	return netw.Open
}

// prvStatus updates a pressure reducing valve's status against its
// current head bracket (prvstatus() in hydraul.c).
func prvStatus(l *netw.Link, s netw.Status, hset, h1, h2 float64) netw.Status {
	if !l.HasSetting() {
		return s
	}
	hml := l.MinorLossCoeff * l.Flow * l.Flow

	switch s {
	case netw.Active:
		switch {
		case l.Flow < -Qtol:
			return netw.Closed
		case h1-hml < hset-Htol:
			return netw.Open
		default:
			return netw.Active
		}
	case netw.Open:
		switch {
		case l.Flow < -Qtol:
			return netw.Closed
		case h2 >= hset+Htol:
			return netw.Active
		default:
			return netw.Open
		}
	case netw.Closed:
		switch {
		case h1 >= hset+Htol && h2 < hset-Htol:
			return netw.Active
		case h1 < hset-Htol && h1 > h2+Htol:
			return netw.Open
		default:
			return netw.Closed
		}
	case netw.XPressure:
		if l.Flow < -Qtol {
			return netw.Closed
		}
		return s
	}
	return s
}

// psvStatus is the upstream-head mirror of prvStatus (psvstatus() in
// hydraul.c).
func psvStatus(l *netw.Link, s netw.Status, hset, h1, h2 float64) netw.Status {
	if !l.HasSetting() {
		return s
	}
	hml := l.MinorLossCoeff * l.Flow * l.Flow

	switch s {
	case netw.Active:
		switch {
		case l.Flow < -Qtol:
			return netw.Closed
		case h2+hml > hset+Htol:
			return netw.Open
		default:
			return netw.Active
		}
	case netw.Open:
		switch {
		case l.Flow < -Qtol:
			return netw.Closed
		case h1 < hset-Htol:
			return netw.Active
		default:
			return netw.Open
		}
	case netw.Closed:
		switch {
		case h2 > hset+Htol && h1 > h2+Htol:
			return netw.Open
		case h1 >= hset+Htol && h1 > h2+Htol:
			return netw.Active
		default:
			return netw.Closed
		}
	case netw.XPressure:
		if l.Flow < -Qtol {
			return netw.Closed
		}
		return s
	}
	return s
}

// fcvStatus updates a flow control valve's status, demoting it to XFCV
// on reverse flow or an adverse head gradient, and promoting it back to
// Active once the flow catches up to its setting (fcvstatus() in
// hydraul.c).
func fcvStatus(l *netw.Link, s netw.Status, h1, h2 float64) netw.Status {
	switch {
	case h1-h2 < -Htol:
		return netw.XFCV
	case l.Flow < -Qtol:
		return netw.XFCV
	case s == netw.XFCV && l.Flow >= l.Setting:
		return netw.Active
	default:
		return s
	}
}

// tankStatus temporarily closes a link that would overfill a full tank
// or drain an empty one (tankstatus() in hydraul.c).
func tankStatus(net *netw.Network, l *netw.Link, njuncs int) {
	n1, n2 := l.From, l.To
	q := l.Flow
	i := n1 - njuncs
	if i <= 0 {
		i = n2 - njuncs
		if i <= 0 {
			return
		}
		n1, n2 = n2, n1
		q = -q
	}
	tank := net.Nodes[n1]
	if tank.Diameter == 0 || l.Status <= netw.Closed {
		return
	}
	h := net.Nodes[n1].Head - net.Nodes[n2].Head

	if net.Nodes[n1].Head >= tank.MaxLevel+tank.Elevation-Htol {
		switch {
		case l.Kind == netw.Pump:
			if l.To == n1 {
				l.Status = netw.TempClosed
			}
		case cvStatus(netw.Open, h, q) == netw.Closed:
			l.Status = netw.TempClosed
		}
	}
	if net.Nodes[n1].Head <= tank.MinLevel+tank.Elevation+Htol {
		switch {
		case l.Kind == netw.Pump:
			if l.From == n1 {
				l.Status = netw.TempClosed
			}
		case cvStatus(netw.Closed, h, q) == netw.Open:
			l.Status = netw.TempClosed
		}
	}
}

// valveStatus re-evaluates every non-fixed PRV/PSV's status after a
// converged (or near-converged) head solution, returning whether any
// changed (valvestatus() in hydraul.c). FCVs are handled in linkStatus.
func (s *Solver) valveStatus() bool {
	net := s.Net
	changed := false
	for k := 1; k <= net.Nlinks(); k++ {
		l := net.Links[k]
		if !l.IsPRVPSVFCV() || !l.HasSetting() {
			continue
		}
		if l.Kind == netw.FCV {
			continue
		}
		n1, n2 := l.From, l.To
		h1, h2 := net.Nodes[n1].Head, net.Nodes[n2].Head
		old := l.Status
		switch l.Kind {
		case netw.PRV:
			hset := net.Nodes[n2].Elevation + l.Setting
			l.Status = prvStatus(l, old, hset, h1, h2)
		case netw.PSV:
			hset := net.Nodes[n1].Elevation + l.Setting
			l.Status = psvStatus(l, old, hset, h1, h2)
		}
		if old != l.Status {
			changed = true
		}
	}
	return changed
}

// linkStatus re-evaluates CVs, pumps, non-fixed FCVs and links bordering
// tanks after a converged head solution (linkstatus() in hydraul.c).
func (s *Solver) linkStatus() bool {
	net := s.Net
	changed := false
	for k := 1; k <= net.Nlinks(); k++ {
		l := net.Links[k]
		n1, n2 := l.From, l.To
		dh := net.Nodes[n1].Head - net.Nodes[n2].Head

		old := l.Status
		if old == netw.XHead || old == netw.TempClosed {
			l.Status = netw.Open
		}

		if l.Kind == netw.CVPipe {
			l.Status = cvStatus(l.Status, dh, l.Flow)
		}
		if l.Kind == netw.Pump && l.Status >= netw.Open && l.Setting > 0 {
			l.Status = pumpStatus(net, l, -dh)
		}
		if l.Kind == netw.FCV && l.HasSetting() {
			l.Status = fcvStatus(l, old, net.Nodes[n1].Head, net.Nodes[n2].Head)
		}
		if n1 > s.Njuncs || n2 > s.Njuncs {
			tankStatus(net, l, s.Njuncs)
		}
		if old != l.Status {
			changed = true
		}
	}
	return changed
}

// badValve reports whether node n belongs to an active PRV/PSV/FCV; if
// so it demotes that valve to its pressure/flow-inconsistent status and
// returns true so the outer iteration can retry (badvalve() in
// hydraul.c).
func (s *Solver) badValve(n int) bool {
	net := s.Net
	for k := 1; k <= net.Nlinks(); k++ {
		l := net.Links[k]
		if !l.IsPRVPSVFCV() {
			continue
		}
		if n != l.From && n != l.To {
			continue
		}
		if l.Status == netw.Active {
			if l.Kind == netw.FCV {
				l.Status = netw.XFCV
			} else {
				l.Status = netw.XPressure
			}
			return true
		}
		return false
	}
	return false
}
