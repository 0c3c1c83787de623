// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package netw

// TriggerKind enumerates what causes a simple control to fire (§3).
type TriggerKind int

const (
	LowLevel TriggerKind = iota
	HighLevel
	Timer
	TimeOfDay
)

// SimpleControl is an IF-threshold-THEN-set-link-status/setting rule
// with a single condition (§3).
type SimpleControl struct {
	LinkIdx    int
	NewStatus  Status
	NewSetting float64
	Trigger    TriggerKind
	NodeIdx    int     // node referenced by LowLevel/HighLevel triggers
	Threshold  float64 // tank level for Low/HighLevel, seconds for Timer/TimeOfDay
}

// CompareOp enumerates the comparison operators usable in a rule
// premise (§3: "= != <= >= < > IS NOT BELOW ABOVE").
type CompareOp int

const (
	OpEQ CompareOp = iota
	OpNE
	OpLE
	OpGE
	OpLT
	OpGT
	OpIs
	OpNot
	OpBelow
	OpAbove
)

// LogicOp is the conjunction joining one premise to the next.
type LogicOp int

const (
	LogicNone LogicOp = iota // first premise in the list
	LogicAnd
	LogicOr
)

// ObjectKind tells a Premise which table to look an attribute up in.
type ObjectKind int

const (
	ObjNode ObjectKind = iota
	ObjLink
	ObjSystem
)

// Attribute enumerates the node/link/system attributes a rule premise
// can reference (§3 rule-based control).
type Attribute int

const (
	AttrLevel Attribute = iota // tank level / node head
	AttrPressure
	AttrDemand
	AttrFlow
	AttrStatus
	AttrSetting
	AttrTime
	AttrClockTime
)

// Premise is one clause of a rule's boolean expression.
type Premise struct {
	Logic      LogicOp
	Object     ObjectKind
	ObjectIdx  int // node or link index; unused for ObjSystem
	Attr       Attribute
	Op         CompareOp
	Value      float64
	StatusVal  Status // used when Attr == AttrStatus
}

// Action sets a link's status/setting when a rule's premises are
// satisfied (the THEN or ELSE clause, §3).
type Action struct {
	LinkIdx    int
	NewStatus  Status
	NewSetting float64
}

// Rule is one rule-based control: an ordered premise list (AND binds
// tighter than OR, §4.8), THEN actions, ELSE actions and a priority
// used to resolve conflicts when multiple rules act on the same link in
// one evaluation (§3, §8 scenario 6).
type Rule struct {
	ID       string
	Premises []Premise
	Then     []Action
	Else     []Action
	Priority float64
}

// Evaluate returns true if the rule's premise list is satisfied, given
// a function that resolves a single premise to a boolean. AND binds
// tighter than OR: the expression is evaluated as a disjunction of
// conjunctive clauses, i.e. P1 AND P2 OR P3 AND P4 means
// (P1 AND P2) OR (P3 AND P4).
func (r *Rule) Evaluate(test func(p *Premise) bool) bool {
	if len(r.Premises) == 0 {
		return false
	}
	clauseResult := true
	overall := false
	for i := range r.Premises {
		p := &r.Premises[i]
		if p.Logic == LogicOr {
			overall = overall || clauseResult
			clauseResult = test(p)
			continue
		}
		// LogicNone (first premise) and LogicAnd both continue the
		// current conjunctive clause.
		clauseResult = clauseResult && test(p)
	}
	overall = overall || clauseResult
	return overall
}
