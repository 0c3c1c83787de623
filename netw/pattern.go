// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netw

// Pattern is an ordered, cyclically-wrapped sequence of multipliers
// applied to demands, sources or pump settings (§3, §glossary).
type Pattern struct {
	ID  string
	Mul []float64
}

// At returns the multiplier in effect at elapsed time t, given the
// pattern step length and Pstart offset (both in seconds). An empty
// pattern evaluates to 1.0 (no modulation).
func (p *Pattern) At(t, step, pstart float64) float64 {
	if len(p.Mul) == 0 {
		return 1.0
	}
	if step <= 0 {
		step = 3600
	}
	period := int64((t+pstart)/step) % int64(len(p.Mul))
	if period < 0 {
		period += int64(len(p.Mul))
	}
	return p.Mul[period]
}
