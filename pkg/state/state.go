// Package state projects purchase state onto an upgrade graph.
//
// Projection is cheap and side-effect free. It is meant to run on every
// economy change while the layout stays untouched.
package state

import (
	"fmt"

	"github.com/matzehuels/upgradetree/pkg/dag"
)

// NodeState is the visual state of an upgrade.
type NodeState int

const (
	// Locked upgrades have at least one unpurchased prerequisite.
	Locked NodeState = iota
	// Available upgrades are not purchased and all prerequisites are.
	Available
	// Unlocked upgrades have been purchased.
	Unlocked
)

func (s NodeState) String() string {
	switch s {
	case Locked:
		return "locked"
	case Available:
		return "available"
	case Unlocked:
		return "unlocked"
	default:
		return fmt.Sprintf("NodeState(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s NodeState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name.
func (s *NodeState) UnmarshalText(b []byte) error {
	for _, v := range []NodeState{Locked, Available, Unlocked} {
		if v.String() == string(b) {
			*s = v
			return nil
		}
	}
	return fmt.Errorf("unknown node state %q", b)
}

// EdgeState is the visual state of a prerequisite edge.
type EdgeState int

const (
	// Unsatisfied edges start at an upgrade that is not purchased yet.
	Unsatisfied EdgeState = iota
	// Satisfied edges start at a purchased upgrade.
	Satisfied
)

func (s EdgeState) String() string {
	switch s {
	case Unsatisfied:
		return "unsatisfied"
	case Satisfied:
		return "satisfied"
	default:
		return fmt.Sprintf("EdgeState(%d)", int(s))
	}
}

// MarshalText encodes the state by name.
func (s EdgeState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// UnmarshalText decodes a state name.
func (s *EdgeState) UnmarshalText(b []byte) error {
	switch string(b) {
	case "unsatisfied":
		*s = Unsatisfied
	case "satisfied":
		*s = Satisfied
	default:
		return fmt.Errorf("unknown edge state %q", b)
	}
	return nil
}

// Provider exposes the purchase state owned by the game economy.
type Provider interface {
	IsPurchased(id string) bool
	Cost(id string) int
	Balance() int
}

// Node is the projected state of one upgrade.
type Node struct {
	State       NodeState
	Cost        int
	Purchasable bool // Available and affordable
}

// EdgeKey identifies an edge by its endpoints.
type EdgeKey struct{ From, To string }

// Snapshot is the projected state of a whole graph.
type Snapshot struct {
	Nodes   map[string]Node
	Edges   map[EdgeKey]EdgeState
	Balance int
}

// Project computes the state of every node and edge of g.
//
// A node is Unlocked iff purchased, Available iff not purchased and every
// prerequisite in g is purchased, and Locked otherwise. An edge is Satisfied
// iff its prerequisite is Unlocked. Prerequisites missing from g play no role.
func Project(g *dag.DAG, p Provider) Snapshot {
	snap := Snapshot{
		Nodes:   make(map[string]Node, g.NodeCount()),
		Edges:   make(map[EdgeKey]EdgeState, g.EdgeCount()),
		Balance: p.Balance(),
	}

	for _, n := range g.Nodes() {
		cost := p.Cost(n.ID)
		st := nodeState(g, p, n.ID)
		snap.Nodes[n.ID] = Node{
			State:       st,
			Cost:        cost,
			Purchasable: st == Available && snap.Balance >= cost,
		}
	}
	for _, e := range g.Edges() {
		es := Unsatisfied
		if p.IsPurchased(e.From) {
			es = Satisfied
		}
		snap.Edges[EdgeKey{e.From, e.To}] = es
	}
	return snap
}

func nodeState(g *dag.DAG, p Provider, id string) NodeState {
	if p.IsPurchased(id) {
		return Unlocked
	}
	for _, req := range g.Parents(id) {
		if !p.IsPurchased(req) {
			return Locked
		}
	}
	return Available
}

// State returns the state of the node, or Locked if it is unknown.
func (s Snapshot) State(id string) NodeState { return s.Nodes[id].State }

// Purchasable reports whether the node can be bought right now.
func (s Snapshot) Purchasable(id string) bool { return s.Nodes[id].Purchasable }

// Count returns how many nodes are in the given state.
func (s Snapshot) Count(st NodeState) int {
	n := 0
	for _, node := range s.Nodes {
		if node.State == st {
			n++
		}
	}
	return n
}

// Static is a fixed [Provider] backed by plain values. It is handy for
// previews and tests.
type Static struct {
	Purchased map[string]bool
	Costs     map[string]int
	Gold      int
}

func (s Static) IsPurchased(id string) bool { return s.Purchased[id] }
func (s Static) Cost(id string) int         { return s.Costs[id] }
func (s Static) Balance() int               { return s.Gold }
