// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package sparse

import "github.com/cpmech/gosl/utl"

// Reordered carries the outcome of minimum-degree reordering: the
// row-to-node permutation, the reverse map, and the running non-zero
// count. The fill-in adjacency lists themselves stay in the Graph.
type Reordered struct {
	Order   []int // Order[k] = node index assigned to elimination step k
	Row     []int // Row[node] = elimination step (row) assigned to node
	Ncoeffs int   // total non-zero count, starting from Nlinks and growing with fill-in
}

// Reorder applies minimum-degree ordering restricted to the first
// njuncs nodes (junctions); fixed-grade nodes keep degree 0 and are
// placed last, exactly as reordernodes()/mindegree()/growlist()/
// newlink() in smatrix.c. g.Adj is mutated in place to record the
// fill-in edges introduced during elimination, which the caller then
// feeds to StoreSparse.
func Reorder(g *Graph, njuncs int) *Reordered {
	n := g.Nnodes
	degree := g.Degree(njuncs)
	order := make([]int, n+1)
	row := make([]int, n+1)
	for k := 1; k <= n; k++ {
		order[k] = k
		row[k] = k
	}
	ncoeffs := g.Nlinks
	for k := 1; k <= njuncs; k++ {
		m := minDegree(degree, order, k, njuncs)
		knode := order[m]
		ncoeffs = growList(g, degree, knode, ncoeffs)
		order[m] = order[k]
		order[k] = knode
		degree[knode] = 0
	}
	for k := 1; k <= njuncs; k++ {
		row[order[k]] = k
	}
	return &Reordered{Order: order, Row: row, Ncoeffs: ncoeffs}
}

// minDegree finds, among order[k..n], the position of the node with the
// smallest degree, breaking ties by the current array order (first
// found wins, matching mindegree()'s strict "<" comparison). utl.Min
// drives the update: imin only advances when the running minimum
// actually decreases, so equal-degree nodes never displace an earlier
// candidate.
func minDegree(degree, order []int, k, n int) int {
	min, imin := n, n
	for i := k; i <= n; i++ {
		m := degree[order[i]]
		if next := utl.Min(min, m); next != min {
			min = next
			imin = i
		}
	}
	return imin
}

// growList augments knode's adjacency list with fill-in edges between
// every pair of still-active neighbors that are not already linked,
// returning the updated non-zero count (growList + newlink + linked +
// addlink in smatrix.c).
//
// smatrix.c walks a linked list and can both iterate it and append to
// it in the same pass because new entries are pushed to the head and
// the traversal pointer only ever moves forward along the original
// nodes. A slice snapshot of the original entries reproduces the same
// traversal order while appends go to g.Adj[...] directly.
func growList(g *Graph, degree []int, knode int, ncoeffs int) int {
	original := append([]Edge(nil), g.Adj[knode]...)
	for i, e := range original {
		node := e.Node
		if node <= 0 || degree[node] <= 0 {
			continue
		}
		degree[node]--
		ncoeffs = newLink(g, degree, node, original[i+1:], ncoeffs)
	}
	return ncoeffs
}

// newLink connects inode (the end node of one of knode's adjacency
// entries) to the end node of every entry that follows it in knode's
// original adjacency list, adding a fill-in edge wherever the other end
// is still active and not yet linked to inode (newlink/linked/addlink
// in smatrix.c).
func newLink(g *Graph, degree []int, inode int, rest []Edge, ncoeffs int) int {
	for _, b := range rest {
		jnode := b.Node
		if jnode <= 0 || degree[jnode] <= 0 {
			continue
		}
		if linked(g, inode, jnode) {
			continue
		}
		ncoeffs++
		g.Adj[inode] = append(g.Adj[inode], Edge{Node: jnode, Link: ncoeffs})
		g.Adj[jnode] = append(g.Adj[jnode], Edge{Node: inode, Link: ncoeffs})
		degree[inode]++
		degree[jnode]++
	}
	return ncoeffs
}

// linked reports whether i and j already appear in each other's
// adjacency list.
func linked(g *Graph, i, j int) bool {
	for _, e := range g.Adj[i] {
		if e.Node == j {
			return true
		}
	}
	return false
}
