// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package idx

import (
	"testing"

	"github.com/cpmech/gosl/chk"
)

func Test_idx01(tst *testing.T) {

	chk.PrintTitle("idx01: insert/find/key round-trip, duplicate rejected")

	t := New()
	i1, err := t.Insert("J1")
	if err != nil {
		tst.Fatalf("Insert J1: %v", err)
	}
	i2, err := t.Insert("J2")
	if err != nil {
		tst.Fatalf("Insert J2: %v", err)
	}
	chk.IntAssert(i1, 1)
	chk.IntAssert(i2, 2)
	chk.IntAssert(t.Find("J1"), 1)
	chk.IntAssert(t.Find("J2"), 2)
	chk.IntAssert(t.Find("nope"), NotFound)
	if t.Key(1) != "J1" || t.Key(2) != "J2" {
		tst.Fatalf("Key round-trip failed: Key(1)=%q Key(2)=%q", t.Key(1), t.Key(2))
	}
	if t.Key(99) != "" {
		tst.Fatalf("Key out of range should return empty string, got %q", t.Key(99))
	}
	chk.IntAssert(t.Len(), 2)

	if _, err := t.Insert("J1"); err == nil {
		tst.Fatalf("expected duplicate insert to fail")
	}
}

func Test_idx02(tst *testing.T) {

	chk.PrintTitle("idx02: update renames a key without disturbing its index")

	t := New()
	t.Insert("A")
	t.Insert("B")

	if err := t.Update(1, "A2"); err != nil {
		tst.Fatalf("Update: %v", err)
	}
	chk.IntAssert(t.Find("A2"), 1)
	chk.IntAssert(t.Find("A"), NotFound)

	if err := t.Update(2, "A2"); err == nil {
		tst.Fatalf("expected rename to an in-use ID to fail")
	}
	if err := t.Update(99, "X"); err == nil {
		tst.Fatalf("expected update of an out-of-range index to fail")
	}
}

func Test_idx03(tst *testing.T) {

	chk.PrintTitle("idx03: delete compacts the table and relabels higher indices")

	t := New()
	t.Insert("A")
	t.Insert("B")
	t.Insert("C")

	if err := t.Delete(1); err != nil {
		tst.Fatalf("Delete: %v", err)
	}
	chk.IntAssert(t.Len(), 2)
	chk.IntAssert(t.Find("A"), NotFound)
	chk.IntAssert(t.Find("B"), 1)
	chk.IntAssert(t.Find("C"), 2)
	if t.Key(1) != "B" || t.Key(2) != "C" {
		tst.Fatalf("compaction mismatch: Key(1)=%q Key(2)=%q", t.Key(1), t.Key(2))
	}

	if err := t.Delete(0); err == nil {
		tst.Fatalf("expected delete of index 0 to fail")
	}
}
