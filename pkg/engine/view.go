package engine

import (
	"time"

	"github.com/matzehuels/upgradetree/pkg/layout"
	"github.com/matzehuels/upgradetree/pkg/observability"
	"github.com/matzehuels/upgradetree/pkg/state"
)

// ViewNode is everything a renderer needs to draw one upgrade.
type ViewNode struct {
	ID          string
	Label       string
	Description string
	Row         int
	Index       int
	X, Y        float64
	State       state.NodeState
	Cost        int
	Purchasable bool
}

// ViewEdge is everything a renderer needs to draw one prerequisite edge.
type ViewEdge struct {
	From, To string
	Segment  layout.Segment
	State    state.EdgeState
}

// View is a renderable snapshot: the fixed geometry of a build combined
// with the current purchase state.
type View struct {
	BuildID     string
	Nodes       []ViewNode
	Edges       []ViewEdge
	Diagnostics []Diagnostic
	Balance     int
	Layers      int
	Spacing     layout.Spacing
	Degraded    bool

	CrossingsBefore int
	CrossingsAfter  int
}

// Project derives the visual state of every node and edge from p. Edge
// segments are recomputed from the current node coordinates. The layout
// itself is not touched, so Project can run on every economy change.
func (b *Build) Project(p state.Provider) View {
	start := time.Now()
	g := b.Model.Graph()
	snap := state.Project(g, p)

	v := View{
		BuildID:         b.ID,
		Diagnostics:     b.Report.Diagnostics,
		Balance:         snap.Balance,
		Layers:          b.Layers(),
		Spacing:         b.Layout.Spacing,
		Degraded:        b.Degraded,
		CrossingsBefore: b.CrossingsBefore,
		CrossingsAfter:  b.CrossingsAfter,
	}

	for _, n := range b.Layout.Nodes {
		ns := snap.Nodes[n.ID]
		var desc string
		if d, ok := b.Model.Def(n.ID); ok {
			desc = d.Description
		}
		v.Nodes = append(v.Nodes, ViewNode{
			ID:          n.ID,
			Label:       n.Label,
			Description: desc,
			Row:         n.Row,
			Index:       n.Index,
			X:           n.X,
			Y:           n.Y,
			State:       ns.State,
			Cost:        ns.Cost,
			Purchasable: ns.Purchasable,
		})
	}
	for _, e := range layout.Edges(g, b.Layout.Nodes) {
		v.Edges = append(v.Edges, ViewEdge{
			From:    e.From,
			To:      e.To,
			Segment: e.Segment,
			State:   snap.Edges[state.EdgeKey{From: e.From, To: e.To}],
		})
	}

	observability.Engine().OnRefresh(b.ID, time.Since(start))
	return v
}

// Node returns the view node with the given ID.
func (v View) Node(id string) (ViewNode, bool) {
	for _, n := range v.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return ViewNode{}, false
}

// Edge returns the view edge between two upgrades.
func (v View) Edge(from, to string) (ViewEdge, bool) {
	for _, e := range v.Edges {
		if e.From == from && e.To == to {
			return e, true
		}
	}
	return ViewEdge{}, false
}

// Count returns how many nodes are in the given state.
func (v View) Count(st state.NodeState) int {
	n := 0
	for _, node := range v.Nodes {
		if node.State == st {
			n++
		}
	}
	return n
}
