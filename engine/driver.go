// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package engine

import (
	"time"

	"github.com/cpmech/epanet-go/netw"
	"github.com/cpmech/epanet-go/persist"
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
)

// RunSequential drives an extended-period simulation in §4.12's
// sequential mode: hydraulics are solved over the whole duration first,
// each accepted step snapshotted to cache, then quality is replayed
// against the cached flow field. It mirrors FEM.Run's open/loop/onexit
// shape, trading stages for hydraulic steps.
func (p *Project) RunSequential(cache *persist.HydCache, verbose bool) (err error) {
	cputime := time.Now()
	defer func() { err = p.onexit(cputime, err, verbose) }()

	if err = p.OpenH(); err != nil {
		return
	}
	if err = p.InitH(11); err != nil {
		return
	}
	if verbose {
		io.Pf("> solving hydraulics\n")
	}
	for {
		if _, err = p.RunH(); err != nil {
			return
		}
		if cache != nil {
			if err = p.saveHydRecord(cache); err != nil {
				return
			}
		}
		var dt float64
		dt, err = p.NextH()
		if err != nil {
			return
		}
		if dt == 0 {
			break
		}
	}
	if err = p.CloseH(); err != nil {
		return
	}

	if p.Net.Opts.QualMode == 0 {
		return
	}
	if cache == nil {
		return chk.Err("sequential water-quality run requires a hydraulics cache")
	}
	if verbose {
		io.Pf("> replaying water quality\n")
	}
	if err = p.OpenQ(); err != nil {
		return
	}
	p.Qtime = 0
	p.qualInit = true
	for rec := 0; rec < cache.Count-1; rec++ {
		if err = p.replayHydRecord(cache, rec); err != nil {
			return
		}
		p.Qual.Reorient(p.Net)
		for p.Qtime < p.Htime {
			dt := p.Net.Opts.Qstep
			if p.Htime-p.Qtime < dt {
				dt = p.Htime - p.Qtime
			}
			p.Qual.Step(p.Net, p.Qtime, dt)
			p.Qtime += dt
		}
	}
	return p.CloseQ()
}

// RunInterleaved drives an extended-period simulation in §4.12's
// interleaved mode, the form preferred for programmatic callers:
// hydraulics and quality advance together, a hydraulic re-solve firing
// whenever quality time catches up to it. It returns once Htime and
// Qtime both reach the run duration.
func (p *Project) RunInterleaved(verbose bool) (err error) {
	cputime := time.Now()
	defer func() { err = p.onexit(cputime, err, verbose) }()

	if err = p.OpenH(); err != nil {
		return
	}
	if err = p.InitH(11); err != nil {
		return
	}
	runQuality := p.Net.Opts.QualMode != 0
	if runQuality {
		if err = p.OpenQ(); err != nil {
			return
		}
		if err = p.InitQ(0); err != nil {
			return
		}
	}
	if _, err = p.RunH(); err != nil {
		return
	}

	for {
		if runQuality {
			if _, err = p.NextQ(); err != nil {
				return
			}
			if p.Qtime >= p.Net.Opts.Dur {
				break
			}
			continue
		}
		var dt float64
		dt, err = p.NextH()
		if err != nil {
			return
		}
		if dt == 0 {
			break
		}
		if _, err = p.RunH(); err != nil {
			return
		}
	}

	if runQuality {
		if err = p.CloseQ(); err != nil {
			return
		}
	}
	return p.CloseH()
}

// saveHydRecord appends the current hydraulic state to a cache. Cache
// records are 0-based arrays of exactly Nnodes/Nlinks entries, unlike
// Network's 1-based slices with a dummy index-0 entry, so entry k of
// the record holds node/link k+1.
func (p *Project) saveHydRecord(cache *persist.HydCache) error {
	net := p.Net
	rec := &persist.Record{
		ElapsedTime: int32(p.Htime),
		Demand:      make([]float32, net.Nnodes()),
		Head:        make([]float32, net.Nnodes()),
		Flow:        make([]float32, net.Nlinks()),
		Status:      make([]float32, net.Nlinks()),
		Setting:     make([]float32, net.Nlinks()),
		NextHydStep: int32(p.nextHydStep),
	}
	for i := 1; i <= net.Nnodes(); i++ {
		rec.Demand[i-1] = float32(net.Nodes[i].Demand)
		rec.Head[i-1] = float32(net.Nodes[i].Head)
	}
	for k := 1; k <= net.Nlinks(); k++ {
		l := net.Links[k]
		rec.Flow[k-1] = float32(l.Flow)
		rec.Status[k-1] = float32(l.Status)
		rec.Setting[k-1] = float32(l.Setting)
	}
	if err := cache.WriteRecord(rec); err != nil {
		return chk.Err("cannot write hydraulics cache record: %v", err)
	}
	return nil
}

// replayHydRecord restores a cached hydraulic state onto the network
// so quality transport can advect against it without re-solving.
func (p *Project) replayHydRecord(cache *persist.HydCache, i int) error {
	rec, err := cache.ReadRecord(i)
	if err != nil {
		return chk.Err("cannot read hydraulics cache record %d: %v", i, err)
	}
	net := p.Net
	for n := 1; n <= net.Nnodes(); n++ {
		net.Nodes[n].Demand = float64(rec.Demand[n-1])
		net.Nodes[n].Head = float64(rec.Head[n-1])
	}
	for k := 1; k <= net.Nlinks(); k++ {
		l := net.Links[k]
		l.Flow = float64(rec.Flow[k-1])
		l.Status = netw.Status(rec.Status[k-1])
		l.Setting = float64(rec.Setting[k-1])
	}
	p.Htime = float64(rec.ElapsedTime)
	p.nextHydStep = float64(rec.NextHydStep)
	return nil
}

// onexit prints a final status line and folds any replay error into the
// one already in flight, the way FEM.onexit reports FE stage outcomes.
func (p *Project) onexit(cputime time.Time, prevErr error, verbose bool) error {
	if verbose {
		if prevErr == nil {
			io.PfGreen("> success (warnings: %v)\n", p.Warnflag.Strings())
			io.Pf("> elapsed = %v\n", time.Now().Sub(cputime))
		} else {
			io.PfRed("> failed: %v\n", prevErr)
		}
	}
	return prevErr
}
