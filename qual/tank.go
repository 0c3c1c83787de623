// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qual

import (
	"math"

	"github.com/cpmech/epanet-go/netw"
)

// TankState is the per-tank mutable water-quality state (§4.11 rule 4).
// Which fields are meaningful depends on the tank's netw.MixModel:
// complete-mix uses only Volume/Quality; 2-compartment additionally
// uses MixVolume/MixQuality for its well-mixed inlet zone; FIFO/LIFO
// use Queue instead of Quality.
type TankState struct {
	Volume float64
	Quality float64

	MixCapacity float64 // fixed size of the 2-compartment mixing zone
	MixVolume   float64 // current volume held in the mixing zone
	MixQuality  float64

	Queue *Queue // non-nil for MixFIFO/MixLIFO
}

// capacity estimates a tank's nominal full volume from its level
// geometry (§4.10: V = Vmin + A*(Hmax-Hmin) absent a volume curve,
// which is all qual needs to size a fixed mixing-zone fraction once at
// startup).
func capacity(n *netw.Node) float64 {
	return n.MinVolume + n.Area()*(n.MaxLevel-n.MinLevel)
}

// NewTankState initializes a tank's quality state from its network
// definition.
func NewTankState(n *netw.Node) *TankState {
	ts := &TankState{Volume: n.Volume, Quality: n.InitialQuality}
	switch n.Mixing {
	case netw.Mix2Comp:
		ts.MixCapacity = n.MixFraction * capacity(n)
		ts.MixVolume = math.Min(ts.MixCapacity, ts.Volume)
		ts.MixQuality = n.InitialQuality
	case netw.MixFIFO, netw.MixLIFO:
		ts.Queue = &Queue{}
		if ts.Volume > 0 {
			ts.Queue.segs = []int{} // NewState adds the initial-volume segment from its pool
		}
	}
	return ts
}

// React applies one bulk-reaction step to a tank's reactive volume(s).
func (ts *TankState) React(pool *Pool, kb, order, climit, dt float64) {
	if ts.Queue != nil {
		ts.Queue.React(pool, func(c float64) float64 { return ReactBulk(c, kb, order, climit, dt) })
		return
	}
	ts.Quality = ReactBulk(ts.Quality, kb, order, climit, dt)
	if ts.MixCapacity > 0 {
		ts.MixQuality = ReactBulk(ts.MixQuality, kb, order, climit, dt)
	}
}

// Mix advances a tank's volume and quality by one quality step given
// its total inflow (vin at quality cin) and outflow volume vout,
// dispatching on mixing model, and returns the quality the tank
// presents to links drawing from it this step (§4.11 rule 4).
func (ts *TankState) Mix(n *netw.Node, pool *Pool, vin, cin, vout float64) float64 {
	switch n.Mixing {
	case netw.Mix2Comp:
		return ts.mixTwoComp(vin, cin, vout)
	case netw.MixFIFO:
		ts.Queue.Inflow(pool, vin, cin)
		q, v := ts.Queue.Discharge(pool, vout)
		ts.Volume = ts.Queue.TotalVolume(pool)
		if v == 0 {
			return n.InitialQuality
		}
		return q
	case netw.MixLIFO:
		ts.Queue.Inflow(pool, vin, cin)
		q, v := ts.Queue.DischargeBack(pool, vout)
		ts.Volume = ts.Queue.TotalVolume(pool)
		if v == 0 {
			return n.InitialQuality
		}
		return q
	default: // complete mix
		return ts.mixComplete(vin, cin, vout)
	}
}

// mixComplete is the well-stirred-tank update: the tank's entire volume
// and the inflow mix instantaneously (tankmix1-equivalent).
func (ts *TankState) mixComplete(vin, cin, vout float64) float64 {
	newVol := ts.Volume + vin - vout
	if newVol < 0 {
		newVol = 0
	}
	mass := ts.Volume*ts.Quality + vin*cin
	ts.Volume = newVol
	if newVol > 0 {
		ts.Quality = mass / newVol
	}
	return ts.Quality
}

// mixTwoComp keeps a fixed-capacity, fully-mixed inlet zone feeding (or
// fed by) a reactive zone holding the rest of the tank's water
// (tankmix2-equivalent, reconstructed from spec.md's description since
// quality.c's own tankmix2 was not retained in the filtered original
// source): net inflow beyond the mixing zone's capacity spills into the
// reactive zone; net outflow beyond what the mixing zone holds draws
// the shortfall back out of the reactive zone.
func (ts *TankState) mixTwoComp(vin, cin, vout float64) float64 {
	net := vin - vout
	if net >= 0 {
		mixMass := ts.MixVolume*ts.MixQuality + vin*cin
		mixVol := ts.MixVolume + net
		spill := math.Max(0, mixVol-ts.MixCapacity)
		if spill > 0 {
			spillQuality := mixMass / mixVol
			ts.Quality = (ts.Volume*ts.Quality + spill*spillQuality) / (ts.Volume + spill)
			ts.Volume += spill
			mixVol = ts.MixCapacity
			mixMass = mixVol * spillQuality
		}
		ts.MixVolume = mixVol
		if mixVol > 0 {
			ts.MixQuality = mixMass / mixVol
		}
	} else {
		deficit := -net
		drawn := math.Min(deficit, ts.Volume)
		if drawn > 0 {
			mixMass := ts.MixVolume*ts.MixQuality + vin*cin + drawn*ts.Quality
			ts.Volume -= drawn
			ts.MixVolume = ts.MixVolume + vin - vout + drawn
			if ts.MixVolume > 0 {
				ts.MixQuality = mixMass / ts.MixVolume
			}
		} else {
			ts.MixVolume += net
			ts.MixQuality = (ts.MixVolume*ts.MixQuality + vin*cin) / math.Max(ts.MixVolume, 1e-9)
		}
	}
	return ts.MixQuality
}
