// Copyright 2024 The epanet-go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package engine exposes the thread-safe project API of §6 as methods
// on *Project: the lifecycle state machine (open → init → run/next* →
// close for both hydraulics and quality), demand-pattern application,
// time-step selection (§4.9), the extended-period driver (§4.12) and
// energy accounting (§4.13). It is the orchestration layer that sits
// above package hyd (the Newton solver) and package qual (transport),
// the way gofem's FEM type sits above Domain and an FEsolver without
// doing any of their heavy lifting itself.
package engine

import (
	"fmt"

	"github.com/cpmech/epanet-go/epaerr"
	"github.com/cpmech/epanet-go/hyd"
	"github.com/cpmech/epanet-go/netw"
	"github.com/cpmech/epanet-go/qual"
)

// Project is a project handle driving one network through a hydraulic
// and, optionally, water-quality simulation. It carries no internal
// lock (§5): the caller serializes access to a single Project, and may
// drive independent Projects concurrently from separate goroutines.
type Project struct {
	Net    *netw.Network
	Hyd    *hyd.Solver
	Qual   *qual.State
	Energy *hyd.EnergyReport

	Htime float64 // elapsed hydraulic simulation time, seconds
	Qtime float64 // elapsed quality simulation time, seconds

	nextHydStep float64

	hydOpen  bool
	hydInit  bool
	qualOpen bool
	qualInit bool

	haltFlag bool

	// Warnflag accumulates every non-fatal warning seen since the
	// project was opened (§7 propagation policy).
	Warnflag epaerr.Warning
}

// Open validates net's topology (§3 invariants) and returns a project
// handle over it. The network may still be mutated freely until OpenH
// is called (§5 ordering guarantees).
func Open(net *netw.Network) (*Project, error) {
	if err := net.Validate(); err != nil {
		return nil, err
	}
	return &Project{Net: net}, nil
}

// Close releases every solver the project opened. It is idempotent.
func (p *Project) Close() error {
	if p.qualOpen {
		if err := p.CloseQ(); err != nil {
			return err
		}
	}
	if p.hydOpen {
		if err := p.CloseH(); err != nil {
			return err
		}
	}
	return nil
}

// Halt sets the cooperative cancellation flag (§5): the next NextH
// call forces completion by advancing Htime straight to Dur rather
// than to the next event.
func (p *Project) Halt() { p.haltFlag = true }

// GetError renders code as the human-readable message an API caller
// presents to its own user (§6 geterror).
func GetError(code epaerr.Code) string { return code.Error() }

// AddJunction, AddReservoir, AddTank, AddLink, DeleteLink and DeleteNode
// are thin passthroughs to the network's own topology operations: the
// project adds no behavior of its own to object creation, only to
// object creation's ordering relative to an open solve (enforced by
// requireTopologyMutable).

func (p *Project) AddJunction(id string, elevation float64) (int, error) {
	if err := p.requireTopologyMutable(); err != nil {
		return 0, err
	}
	return p.Net.AddJunction(id, elevation)
}

func (p *Project) AddReservoir(id string, head float64) (int, error) {
	if err := p.requireTopologyMutable(); err != nil {
		return 0, err
	}
	return p.Net.AddReservoir(id, head)
}

func (p *Project) AddTank(id string, elevation, initLevel, minLevel, maxLevel, diameter, minVolume float64) (int, error) {
	if err := p.requireTopologyMutable(); err != nil {
		return 0, err
	}
	return p.Net.AddTank(id, elevation, initLevel, minLevel, maxLevel, diameter, minVolume)
}

func (p *Project) AddLink(id string, kind netw.LinkKind, from, to int, length, diameter, roughness, minorLoss float64) (int, error) {
	if err := p.requireTopologyMutable(); err != nil {
		return 0, err
	}
	return p.Net.AddLink(id, kind, from, to, length, diameter, roughness, minorLoss)
}

func (p *Project) DeleteLink(li int, action netw.ActionCode) error {
	if err := p.requireTopologyMutable(); err != nil {
		return err
	}
	return p.Net.DeleteLink(li, action)
}

func (p *Project) DeleteNode(ni int, action netw.ActionCode) error {
	if err := p.requireTopologyMutable(); err != nil {
		return err
	}
	return p.Net.DeleteNode(ni, action)
}

// requireTopologyMutable enforces §5's ordering guarantee that
// topology mutation is permitted only outside an active solve.
func (p *Project) requireTopologyMutable() error {
	if p.hydOpen {
		return fmt.Errorf("engine: cannot mutate topology while hydraulics are open")
	}
	return nil
}
