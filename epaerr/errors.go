// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package epaerr defines the error taxonomy of the simulation engine:
// system errors (101-120), input errors (200-251), file errors (301-309)
// and the non-fatal runtime warnings tracked via Warnflag.
package epaerr

import "fmt"

// Code is a taxonomic error code returned by every API entry point.
// It implements the error interface so callers that only want a Go
// error can use a Code directly; callers that need the numeric code
// for report-text parity can type-assert back to Code.
type Code int

// system errors: memory, uninitialised solver, cannot solve
const (
	ErrMemory           Code = 101
	ErrHydNotInit       Code = 103
	ErrNoHydFile        Code = 104
	ErrQualNotInit      Code = 105
	ErrFileNotOpen      Code = 106
	ErrFileNotInit      Code = 107
	ErrCannotSolveHyd   Code = 110
	ErrCannotSolveQual  Code = 120
	ErrBadHandle        Code = 102
)

// input errors: syntax, topology, curves, references
const (
	ErrInputSyntax        Code = 200
	ErrUndefinedObject    Code = 203
	ErrUndefinedNode      Code = 203
	ErrUndefinedLink      Code = 204
	ErrDuplicateID        Code = 215
	ErrUndefinedPattern    Code = 205
	ErrUndefinedCurve     Code = 206
	ErrInvalidOption      Code = 213
	ErrSameEndpoints      Code = 222
	ErrIllegalValveTank   Code = 219
	ErrIllegalValveValve  Code = 220
	ErrPumpCurveInvalid   Code = 227
	ErrNonMonotonicCurve  Code = 230
	ErrDisconnectedNet    Code = 233
	ErrNoFixedGradeNode   Code = 223
	ErrTankLevelsInvalid  Code = 225
	ErrInvalidParamCode   Code = 251
)

// file errors: I/O failures on the four external streams
const (
	ErrCannotOpenInputFile   Code = 302
	ErrCannotOpenReportFile  Code = 303
	ErrCannotOpenOutputFile  Code = 304
	ErrCannotOpenHydFile     Code = 305
	ErrCannotReadHydFile     Code = 306
	ErrCannotSaveHydFile     Code = 308
	ErrCannotSaveOutputFile  Code = 309
)

// Error implements the error interface with a short, stable message.
func (c Code) Error() string {
	if msg, ok := messages[c]; ok {
		return fmt.Sprintf("error %d: %s", int(c), msg)
	}
	return fmt.Sprintf("error %d", int(c))
}

var messages = map[Code]string{
	ErrMemory:              "insufficient memory available",
	ErrBadHandle:           "no such project handle",
	ErrHydNotInit:          "hydraulics solver not initialized",
	ErrNoHydFile:           "no hydraulics intermediate file available",
	ErrQualNotInit:         "quality solver not initialized",
	ErrFileNotOpen:         "file not open",
	ErrFileNotInit:         "file not initialized",
	ErrCannotSolveHyd:      "cannot solve hydraulic equations",
	ErrCannotSolveQual:     "cannot solve water quality equations",
	ErrInputSyntax:         "input syntax error",
	ErrUndefinedNode:       "undefined node reference",
	ErrUndefinedLink:       "undefined link reference",
	ErrDuplicateID:         "duplicate ID",
	ErrUndefinedPattern:    "undefined pattern reference",
	ErrUndefinedCurve:      "undefined curve reference",
	ErrInvalidOption:       "invalid option value",
	ErrSameEndpoints:       "link has identical end nodes",
	ErrIllegalValveTank:    "PRV/PSV/FCV cannot be connected directly to a tank or reservoir",
	ErrIllegalValveValve:   "illegal valve-valve adjacency",
	ErrPumpCurveInvalid:    "illegal pump head curve",
	ErrNonMonotonicCurve:   "curve x-values are not strictly increasing",
	ErrDisconnectedNet:     "network is disconnected",
	ErrNoFixedGradeNode:    "network has no tanks or reservoirs",
	ErrTankLevelsInvalid:   "tank initial/min/max levels are inconsistent",
	ErrInvalidParamCode:    "invalid parameter code",
	ErrCannotOpenInputFile: "cannot open input file",
	ErrCannotOpenReportFile: "cannot open report file",
	ErrCannotOpenOutputFile: "cannot open output file",
	ErrCannotOpenHydFile:   "cannot open hydraulics file",
	ErrCannotReadHydFile:   "cannot read hydraulics file",
	ErrCannotSaveHydFile:   "cannot save hydraulics file",
	ErrCannotSaveOutputFile: "cannot save output file",
}

// Warning is a bitmask of non-fatal runtime conditions accumulated in
// Project.Warnflag over the course of a run.
type Warning uint32

const (
	WarnNone Warning = 0

	WarnSystemUnbalanced Warning = 1 << (iota - 1)
	WarnNegativePressure
	WarnPumpOutsideCurve
	WarnValveCannotMaintain
	WarnNetworkDisconnected
	WarnIllConditioned
)

// Strings returns the set of warning names present in w, for logging.
func (w Warning) Strings() []string {
	names := []struct {
		bit  Warning
		name string
	}{
		{WarnSystemUnbalanced, "system-unbalanced"},
		{WarnNegativePressure, "negative-pressure"},
		{WarnPumpOutsideCurve, "pump-outside-curve"},
		{WarnValveCannotMaintain, "valve-cannot-maintain"},
		{WarnNetworkDisconnected, "network-disconnected"},
		{WarnIllConditioned, "ill-conditioned-recovered"},
	}
	var out []string
	for _, n := range names {
		if w&n.bit != 0 {
			out = append(out, n.name)
		}
	}
	return out
}
