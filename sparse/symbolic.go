// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

// Symbolic is the compressed-column symbolic factorization output
// (§4.2): Xlnz[1..n+1] are column-start pointers into Nzsub,
// Nzsub[1..nz] are the row indices of the lower-triangle non-zeros
// (sorted ascending per column), and Lnz[1..nz] maps each Nzsub slot
// back to the originating link's coefficient position.
type Symbolic struct {
	N     int
	Xlnz  []int
	Nzsub []int
	Lnz   []int
}

// StoreSparse builds the (unsorted) column storage for the lower
// triangular non-zeros of the n x n reordered matrix, using the
// fill-in-augmented adjacency lists produced by Reorder (storesparse()
// in smatrix.c), then sorts each column's row indices ascending via two
// transposition passes (ordersparse()/transpose()).
func StoreSparse(g *Graph, n int, re *Reordered) *Symbolic {
	xlnz := make([]int, n+2)
	nzsub := make([]int, re.Ncoeffs+2)
	lnz := make([]int, re.Ncoeffs+2)

	k := 0
	xlnz[1] = 1
	for i := 1; i <= n; i++ {
		m := 0
		ii := re.Order[i]
		for _, e := range g.Adj[ii] {
			j := re.Row[e.Node]
			l := e.Link
			if j > i && j <= n {
				m++
				k++
				nzsub[k] = j
				lnz[k] = l
			}
		}
		xlnz[i+1] = xlnz[i] + m
	}

	s := &Symbolic{N: n, Xlnz: xlnz, Nzsub: nzsub, Lnz: lnz}
	s.order(re.Ncoeffs)
	return s
}

// order sorts each column's row indices ascending by transposing the
// matrix twice (ordersparse()/transpose() in smatrix.c). Transposing a
// compressed-column structure re-buckets its entries by target column;
// doing that twice returns to the original column pointers (Xlnz is
// unchanged, since column sizes are invariant under double transpose)
// with each column's row indices now in ascending order.
func (s *Symbolic) order(ncoeffs int) {
	n := s.N
	origXlnz := append([]int(nil), s.Xlnz...)

	// counts per row of the original matrix give the column pointers
	// of its transpose.
	nzt := make([]int, n+2)
	for i := 1; i <= n; i++ {
		for k := s.Xlnz[i]; k < s.Xlnz[i+1]; k++ {
			nzt[s.Nzsub[k]]++
		}
	}
	xlnzt := make([]int, n+2)
	xlnzt[1] = 1
	for i := 1; i <= n; i++ {
		xlnzt[i+1] = xlnzt[i] + nzt[i]
	}
	nzsubt := make([]int, ncoeffs+2)
	lnzt := make([]int, ncoeffs+2)
	transpose(n, s.Xlnz, s.Nzsub, s.Lnz, xlnzt, nzsubt, lnzt)

	// transposing back uses the ORIGINAL column pointers, since they
	// are invariant; only the row-index order within each column
	// changes.
	nzsub2 := make([]int, ncoeffs+2)
	lnz2 := make([]int, ncoeffs+2)
	transpose(n, xlnzt, nzsubt, lnzt, origXlnz, nzsub2, lnz2)

	s.Xlnz, s.Nzsub, s.Lnz = origXlnz, nzsub2, lnz2
}

// transpose determines the sparse storage scheme of the transpose of
// the matrix (il, jl, xl), writing into the pre-sized (ilt, jlt, xlt)
// (transpose() in smatrix.c).
func transpose(n int, il, jl, xl, ilt, jlt, xlt []int) {
	nzt := make([]int, n+2)
	for i := 1; i <= n; i++ {
		for k := il[i]; k < il[i+1]; k++ {
			j := jl[k]
			kk := ilt[j] + nzt[j]
			jlt[kk] = i
			xlt[kk] = xl[k]
			nzt[j]++
		}
	}
}
