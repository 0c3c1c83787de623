// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package qual

import "math"

// mergeTolerance is the relative concentration difference below which
// a new inflow is merged into the queue's existing end segment instead
// of starting a new one, keeping the segment count bounded on a steady
// flow (chosen directly; the filtered original source did not retain
// quality.c's own constant for this).
const mergeTolerance = 1e-3

// Queue is a pipe's (or a FIFO/LIFO tank's) ordered list of segments,
// indices into a shared Pool. By convention the front of the queue is
// the end nearest the downstream node — water leaves the network there
// — and new inflow is appended to the back, nearest the upstream node
// (§4.11 rule 2).
type Queue struct {
	segs []int
	sign float64 // flow sign this queue was last oriented for; 0 = not yet set
}

// TotalVolume sums every segment's volume.
func (q *Queue) TotalVolume(pool *Pool) float64 {
	var v float64
	for _, idx := range q.segs {
		v += pool.Get(idx).Volume
	}
	return v
}

// Reorient reverses the segment order if the sign of flow has flipped
// since the queue was last oriented, so "front" keeps meaning "nearest
// the current downstream node" (§4.11 rule 2: "flow reversals reorient
// the segment queue"). Call once at the start of each new hydraulic
// period, before any Discharge/Inflow for that period.
func (q *Queue) Reorient(flow float64) {
	s := sign(flow)
	if s == 0 {
		return
	}
	if q.sign != 0 && s != q.sign {
		for i, j := 0, len(q.segs)-1; i < j; i, j = i+1, j-1 {
			q.segs[i], q.segs[j] = q.segs[j], q.segs[i]
		}
	}
	q.sign = s
}

func sign(x float64) float64 {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}

// Discharge removes up to volume from the front of the queue (the
// downstream end), blending across however many segments that
// consumes, frees any segment it fully drains, and returns the
// volume-weighted average quality of what was removed together with
// the volume actually available (less than volume only if the queue
// ran dry, which a consistent advection step should never trigger).
func (q *Queue) Discharge(pool *Pool, volume float64) (quality, discharged float64) {
	var mass float64
	for volume > 0 && len(q.segs) > 0 {
		idx := q.segs[0]
		seg := pool.Get(idx)
		take := math.Min(volume, seg.Volume)
		mass += take * seg.Quality
		discharged += take
		seg.Volume -= take
		volume -= take
		if seg.Volume <= 0 {
			pool.Free(idx)
			q.segs = q.segs[1:]
		}
	}
	if discharged == 0 {
		return 0, 0
	}
	return mass / discharged, discharged
}

// DischargeBack is Discharge's mirror at the back of the queue (the
// upstream end), used by LIFO tank mixing where the most recently
// arrived water is the first to leave.
func (q *Queue) DischargeBack(pool *Pool, volume float64) (quality, discharged float64) {
	var mass float64
	for volume > 0 && len(q.segs) > 0 {
		n := len(q.segs) - 1
		idx := q.segs[n]
		seg := pool.Get(idx)
		take := math.Min(volume, seg.Volume)
		mass += take * seg.Quality
		discharged += take
		seg.Volume -= take
		volume -= take
		if seg.Volume <= 0 {
			pool.Free(idx)
			q.segs = q.segs[:n]
		}
	}
	if discharged == 0 {
		return 0, 0
	}
	return mass / discharged, discharged
}

// Inflow appends volume at the given quality to the back of the queue
// (the upstream end), merging into the existing back segment when its
// quality is close enough to avoid segment growth on steady flow.
func (q *Queue) Inflow(pool *Pool, volume, quality float64) {
	if volume <= 0 {
		return
	}
	if n := len(q.segs); n > 0 {
		back := pool.Get(q.segs[n-1])
		denom := math.Max(math.Abs(back.Quality), math.Abs(quality))
		if denom == 0 || math.Abs(back.Quality-quality)/denom < mergeTolerance {
			newVol := back.Volume + volume
			back.Quality = (back.Quality*back.Volume + quality*volume) / newVol
			back.Volume = newVol
			return
		}
	}
	q.segs = append(q.segs, pool.Alloc(volume, quality))
}

// React replaces every segment's quality c with react(c), in place;
// react returns the new concentration (e.g. a ReactBulk closure over dt).
func (q *Queue) React(pool *Pool, react func(c float64) float64) {
	for _, idx := range q.segs {
		seg := pool.Get(idx)
		seg.Quality = react(seg.Quality)
	}
}
