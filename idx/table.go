// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package idx maps string component IDs to stable 1-based integer
// indices, separately for nodes and links. It plays the role of
// EPANET's hash.c but uses a native Go map, which already gives a
// deterministic, case-sensitive, collision-free index with none of the
// bookkeeping a hand-rolled hash table needs in a garbage-collected
// language.
package idx

import "fmt"

// NotFound is the sentinel returned by Find for an absent key.
const NotFound = 0

// Table is a bidirectional string-ID <-> 1-based-index mapping.
type Table struct {
	byID  map[string]int
	byIdx []string // byIdx[i-1] == ID of index i
}

// New returns an empty table.
func New() *Table {
	return &Table{byID: make(map[string]int)}
}

// Insert adds id with a newly assigned index and returns it. It fails
// with an error if id already exists.
func (t *Table) Insert(id string) (int, error) {
	if _, exists := t.byID[id]; exists {
		return NotFound, fmt.Errorf("idx: duplicate ID %q", id)
	}
	n := len(t.byIdx) + 1
	t.byID[id] = n
	t.byIdx = append(t.byIdx, id)
	return n, nil
}

// Find returns the index of id, or NotFound if absent.
func (t *Table) Find(id string) int {
	if n, ok := t.byID[id]; ok {
		return n
	}
	return NotFound
}

// Key returns the ID stored at index n, or "" if n is out of range.
func (t *Table) Key(n int) string {
	if n < 1 || n > len(t.byIdx) {
		return ""
	}
	return t.byIdx[n-1]
}

// Update renames the component at index n from its current ID to newID.
// It fails if newID is already used by another index.
func (t *Table) Update(n int, newID string) error {
	if n < 1 || n > len(t.byIdx) {
		return fmt.Errorf("idx: index %d out of range", n)
	}
	if existing, ok := t.byID[newID]; ok && existing != n {
		return fmt.Errorf("idx: duplicate ID %q", newID)
	}
	old := t.byIdx[n-1]
	delete(t.byID, old)
	t.byIdx[n-1] = newID
	t.byID[newID] = n
	return nil
}

// Delete removes the component at index n and compacts the table,
// shifting every higher index down by one and relabelling byID
// accordingly. Callers that keep parallel component slices indexed the
// same way must perform the matching compaction themselves.
func (t *Table) Delete(n int) error {
	if n < 1 || n > len(t.byIdx) {
		return fmt.Errorf("idx: index %d out of range", n)
	}
	delete(t.byID, t.byIdx[n-1])
	t.byIdx = append(t.byIdx[:n-1], t.byIdx[n:]...)
	for i := n - 1; i < len(t.byIdx); i++ {
		t.byID[t.byIdx[i]] = i + 1
	}
	return nil
}

// Len returns the number of entries currently stored.
func (t *Table) Len() int {
	return len(t.byIdx)
}
