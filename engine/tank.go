// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import "github.com/cpmech/epanet-go/netw"

// tankVolume returns a tank's volume at the given level, via its
// volume curve if it has one, else the cylindrical formula of §4.10.
func tankVolume(net *netw.Network, n *netw.Node, level float64) float64 {
	if n.VolumeCurve > 0 {
		return net.Curves[n.VolumeCurve].Interp(level)
	}
	return n.MinVolume + n.Area()*(level-n.MinLevel)
}

// tankLevel is tankVolume's inverse: the level at which a tank holds
// the given volume. With a volume curve it linearly interpolates X
// against Y (level against volume) directly, which assumes the curve's
// volumes increase with level; Curve.Validate checks only the X values,
// so a curve whose volumes do not increase gives a wrong level.
func tankLevel(net *netw.Network, n *netw.Node, volume float64) float64 {
	if n.VolumeCurve > 0 {
		c := net.Curves[n.VolumeCurve]
		inv := &netw.Curve{X: c.Y, Y: c.X}
		return inv.Interp(volume)
	}
	area := n.Area()
	if area == 0 {
		return n.MinLevel
	}
	return n.MinLevel + (volume-n.MinVolume)/area
}

// tankCapacity returns a tank's volume bounds.
func tankCapacity(net *netw.Network, n *netw.Node) (vmin, vmax float64) {
	return tankVolume(net, n, n.MinLevel), tankVolume(net, n, n.MaxLevel)
}

// updateTankLevels integrates each tank's net flow (hyd.Solver.D,
// populated by the just-finished solve) over dt, clamping the result
// to [Vmin, Vmax] (§4.10). A tank that cannot overflow and would
// otherwise exceed Vmax is simply clamped here rather than triggering
// the re-solve-with-closed-links behavior spec.md also allows: the
// clamp keeps mass-balance bookkeeping simple and is corrected again
// at the very next hydraulic solve once tankStatus (package hyd)
// closes the offending link.
func (p *Project) updateTankLevels(dt float64) {
	net := p.Net
	for i := net.Njuncs + 1; i <= net.Nnodes(); i++ {
		n := net.Nodes[i]
		if n.Kind != netw.Tank {
			continue
		}
		q := p.Hyd.D[i]
		vmin, vmax := tankCapacity(net, n)
		v := n.Volume + q*dt
		if v < vmin {
			v = vmin
		}
		if v > vmax {
			v = vmax
		}
		n.Volume = v
		level := tankLevel(net, n, v)
		n.Head = n.Elevation + level
	}
}
