// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import (
	"fmt"
	"math"
)

// IllConditionedError reports the 1-based row/node where the Cholesky
// factorization found a non-positive pivot (§4.3: "ill-conditioned at
// row j"). The caller maps Row back to a node index to decide whether
// it touches an active control valve and can be recovered (§4.6).
type IllConditionedError struct {
	Row int
}

func (e *IllConditionedError) Error() string {
	return fmt.Sprintf("sparse: ill-conditioned system at row %d", e.Row)
}

// Solve performs in-place sparse Cholesky factorization of the
// symmetric system described by (s, aii, aij) and solves for b,
// overwriting both aii/aij (with the factor) and b (with the solution),
// using Xlnz/Nzsub/Lnz for column structure and link/first working
// vectors to traverse the columns that modify each column — this is
// linsolve() in smatrix.c, itself adapted from George & Liu's GSFCT and
// GSSLV. Returns an *IllConditionedError naming the offending row if a
// pivot is non-positive; aii/aij/b are left partially modified in that
// case, matching the source (the caller is expected to abort or demote
// a valve and rebuild from scratch, never to resume the factorization).
func Solve(s *Symbolic, aii, aij []float64, b []float64) error {
	n := s.N
	link := make([]int, n+1)
	first := make([]int, n+1)
	temp := make([]float64, n+1)

	for j := 1; j <= n; j++ {
		diagj := 0.0
		k := link[j]
		for k != 0 {
			newk := link[k]
			kfirst := first[k]
			ljk := aij[s.Lnz[kfirst]]
			diagj += ljk * ljk
			istrt := kfirst + 1
			istop := s.Xlnz[k+1] - 1
			if istop >= istrt {
				first[k] = istrt
				isub := s.Nzsub[istrt]
				link[k] = link[isub]
				link[isub] = k
				for i := istrt; i <= istop; i++ {
					isub = s.Nzsub[i]
					temp[isub] += aij[s.Lnz[i]] * ljk
				}
			}
			k = newk
		}

		diagj = aii[j] - diagj
		if diagj <= 0.0 {
			return &IllConditionedError{Row: j}
		}
		diagj = math.Sqrt(diagj)
		aii[j] = diagj

		istrt := s.Xlnz[j]
		istop := s.Xlnz[j+1] - 1
		if istop >= istrt {
			first[j] = istrt
			isub := s.Nzsub[istrt]
			link[j] = link[isub]
			link[isub] = j
			for i := istrt; i <= istop; i++ {
				isub = s.Nzsub[i]
				bj := (aij[s.Lnz[i]] - temp[isub]) / diagj
				aij[s.Lnz[i]] = bj
				temp[isub] = 0.0
			}
		}
	}

	// forward substitution
	for j := 1; j <= n; j++ {
		bj := b[j] / aii[j]
		b[j] = bj
		istrt := s.Xlnz[j]
		istop := s.Xlnz[j+1] - 1
		for i := istrt; i <= istop; i++ {
			isub := s.Nzsub[i]
			b[isub] -= aij[s.Lnz[i]] * bj
		}
	}

	// backward substitution
	for j := n; j >= 1; j-- {
		bj := b[j]
		istrt := s.Xlnz[j]
		istop := s.Xlnz[j+1] - 1
		for i := istrt; i <= istop; i++ {
			isub := s.Nzsub[i]
			bj -= aij[s.Lnz[i]] * b[isub]
		}
		b[j] = bj / aii[j]
	}
	return nil
}
