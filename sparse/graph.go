// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package sparse implements the from-scratch symbolic-and-numeric
// sparse linear solver at the heart of the hydraulic engine (§4.2,
// §4.3): adjacency-list construction with parallel-link folding,
// minimum-degree node reordering restricted to junctions, two-pass
// symbolic factorization producing compressed column non-zero indices,
// and a column-oriented sparse Cholesky solve. The algorithm is
// transcribed from EPANET's smatrix.c (buildlists/reordernodes/
// storesparse/ordersparse/linsolve), which implements the method of
// George & Liu, "Computer Solution of Large Sparse Positive Definite
// Systems" (Prentice-Hall, 1981).
package sparse

import "fmt"

// Edge is one entry of a node's adjacency list: the neighboring node
// and the link connecting to it. Node == 0 marks a parallel-link entry
// that has been folded away for the symbolic phase (§4.2).
type Edge struct {
	Node int
	Link int
}

// Endpoint describes one link's end nodes, as seen by the solver —
// independent of netw.Link so this package has no dependency on the
// network data model.
type Endpoint struct {
	From, To int
}

// Graph is the per-node adjacency structure built at "open" time.
type Graph struct {
	Nnodes int
	Nlinks int
	Adj    [][]Edge // 1-based: Adj[i] lists node i's neighbors
	Ndx    []int    // 1-based per link: coefficient-slot index (§4.2)
}

// BuildGraph constructs the adjacency lists for every link, folding
// parallel links (same endpoint pair) into a single adjacency entry and
// recording each link's coefficient slot in Ndx, mirroring
// buildlists(TRUE) + paralink/xparalinks in smatrix.c.
func BuildGraph(nnodes int, links []Endpoint) *Graph {
	g := &Graph{
		Nnodes: nnodes,
		Nlinks: len(links),
		Adj:    make([][]Edge, nnodes+1),
		Ndx:    make([]int, len(links)+1),
	}
	for k := 1; k <= len(links); k++ {
		i, j := links[k-1].From, links[k-1].To
		pmark := g.parallelOf(i, j, k)
		if pmark == 0 {
			g.Adj[i] = append(g.Adj[i], Edge{Node: j, Link: k})
			g.Adj[j] = append(g.Adj[j], Edge{Node: i, Link: k})
		} else {
			g.Adj[i] = append(g.Adj[i], Edge{Node: 0, Link: k})
			g.Adj[j] = append(g.Adj[j], Edge{Node: 0, Link: k})
		}
	}
	return g
}

// parallelOf returns the index of an existing link between i and j, or
// 0 if none exists yet, recording g.Ndx[k] either way (paralink in
// smatrix.c).
func (g *Graph) parallelOf(i, j, k int) int {
	for _, e := range g.Adj[i] {
		if e.Node == j {
			g.Ndx[k] = e.Link
			return e.Link
		}
	}
	g.Ndx[k] = k
	return 0
}

// FullAdjGraph rebuilds the adjacency lists without folding parallel
// links, for connectivity checking after the symbolic phase has
// consumed the folded version (buildlists(FALSE) in smatrix.c).
func FullAdjGraph(nnodes int, links []Endpoint) *Graph {
	g := &Graph{Nnodes: nnodes, Nlinks: len(links), Adj: make([][]Edge, nnodes+1)}
	for k := 1; k <= len(links); k++ {
		i, j := links[k-1].From, links[k-1].To
		g.Adj[i] = append(g.Adj[i], Edge{Node: j, Link: k})
		g.Adj[j] = append(g.Adj[j], Edge{Node: i, Link: k})
	}
	return g
}

// Degree counts, for each junction node (1..njuncs), the number of
// distinct non-parallel adjacent links; fixed-grade nodes are given
// degree 0 so the reordering pass places them last (countdegree()).
func (g *Graph) Degree(njuncs int) []int {
	deg := make([]int, g.Nnodes+1)
	for i := 1; i <= njuncs; i++ {
		for _, e := range g.Adj[i] {
			if e.Node > 0 {
				deg[i]++
			}
		}
	}
	return deg
}

// ConnectedFrom returns the set of node indices reachable from start
// using the (non-folded) adjacency lists.
func (g *Graph) ConnectedFrom(start int) map[int]bool {
	seen := map[int]bool{start: true}
	queue := []int{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		for _, e := range g.Adj[n] {
			nb := e.Node
			if nb == 0 || seen[nb] {
				continue
			}
			seen[nb] = true
			queue = append(queue, nb)
		}
	}
	return seen
}

func (e Edge) String() string { return fmt.Sprintf("(node=%d link=%d)", e.Node, e.Link) }
