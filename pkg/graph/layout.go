package graph

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"

	"github.com/matzehuels/upgradetree/pkg/dag"
	"github.com/matzehuels/upgradetree/pkg/engine"
	"github.com/matzehuels/upgradetree/pkg/layout"
	"github.com/matzehuels/upgradetree/pkg/state"
)

// Layout is the serialized form of a projected upgrade tree: fixed geometry
// plus the purchase state at the time it was captured.
type Layout struct {
	BuildID string `json:"build_id" bson:"build_id"`

	// Geometry
	LayerSpacing float64          `json:"layer_spacing" bson:"layer_spacing"`
	NodeSpacing  float64          `json:"node_spacing" bson:"node_spacing"`
	Layers       int              `json:"layers" bson:"layers"`
	Nodes        []Node           `json:"nodes" bson:"nodes"`
	Edges        []Edge           `json:"edges" bson:"edges"`
	Rows         map[int][]string `json:"rows,omitempty" bson:"rows,omitempty"`

	// State
	Balance int `json:"balance" bson:"balance"`

	// Build report
	Degraded        bool         `json:"degraded,omitempty" bson:"degraded,omitempty"`
	CrossingsBefore int          `json:"crossings_before" bson:"crossings_before"`
	CrossingsAfter  int          `json:"crossings_after" bson:"crossings_after"`
	Diagnostics     []Diagnostic `json:"diagnostics,omitempty" bson:"diagnostics,omitempty"`
}

// FromView converts a view into its serialized form.
func FromView(v engine.View) Layout {
	l := Layout{
		BuildID:         v.BuildID,
		LayerSpacing:    v.Spacing.Layer,
		NodeSpacing:     v.Spacing.Node,
		Layers:          v.Layers,
		Nodes:           make([]Node, 0, len(v.Nodes)),
		Edges:           make([]Edge, 0, len(v.Edges)),
		Rows:            make(map[int][]string),
		Balance:         v.Balance,
		Degraded:        v.Degraded,
		CrossingsBefore: v.CrossingsBefore,
		CrossingsAfter:  v.CrossingsAfter,
		Diagnostics:     v.Diagnostics,
	}
	for _, n := range v.Nodes {
		l.Nodes = append(l.Nodes, Node{
			ID:          n.ID,
			Label:       n.Label,
			Description: n.Description,
			Row:         n.Row,
			Index:       n.Index,
			X:           n.X,
			Y:           n.Y,
			State:       n.State,
			Cost:        n.Cost,
			Purchasable: n.Purchasable,
		})
		l.Rows[n.Row] = append(l.Rows[n.Row], n.ID)
	}
	for _, e := range v.Edges {
		l.Edges = append(l.Edges, Edge{
			From:  e.From,
			To:    e.To,
			X1:    e.Segment.X1,
			Y1:    e.Segment.Y1,
			X2:    e.Segment.X2,
			Y2:    e.Segment.Y2,
			State: e.State,
		})
	}
	return l
}

// View converts the layout back into a view for rendering.
func (l Layout) View() engine.View {
	v := engine.View{
		BuildID:         l.BuildID,
		Balance:         l.Balance,
		Layers:          l.Layers,
		Spacing:         layout.Spacing{Layer: l.LayerSpacing, Node: l.NodeSpacing},
		Degraded:        l.Degraded,
		CrossingsBefore: l.CrossingsBefore,
		CrossingsAfter:  l.CrossingsAfter,
		Diagnostics:     l.Diagnostics,
	}
	for _, n := range l.Nodes {
		v.Nodes = append(v.Nodes, engine.ViewNode{
			ID:          n.ID,
			Label:       n.DisplayLabel(),
			Description: n.Description,
			Row:         n.Row,
			Index:       n.Index,
			X:           n.X,
			Y:           n.Y,
			State:       n.State,
			Cost:        n.Cost,
			Purchasable: n.Purchasable,
		})
	}
	for _, e := range l.Edges {
		v.Edges = append(v.Edges, engine.ViewEdge{
			From:    e.From,
			To:      e.To,
			Segment: layout.Segment{X1: e.X1, Y1: e.Y1, X2: e.X2, Y2: e.Y2},
			State:   e.State,
		})
	}
	return v
}

// DAG rebuilds the prerequisite graph of the layout with every node in its
// row.
func (l Layout) DAG() *dag.DAG {
	g := dag.New()
	for _, n := range l.Nodes {
		_ = g.AddNode(dag.Node{ID: n.ID, Label: n.Label, Row: n.Row})
	}
	for _, e := range l.Edges {
		_ = g.AddEdge(dag.Edge{From: e.From, To: e.To})
	}
	return g
}

// WithState returns a copy of the layout whose node and edge state comes
// from p. Coordinates are kept as they are.
func (l Layout) WithState(p state.Provider) Layout {
	snap := state.Project(l.DAG(), p)

	out := l
	out.Nodes = slices.Clone(l.Nodes)
	out.Edges = slices.Clone(l.Edges)
	out.Balance = snap.Balance
	for i := range out.Nodes {
		ns := snap.Nodes[out.Nodes[i].ID]
		out.Nodes[i].State = ns.State
		out.Nodes[i].Cost = ns.Cost
		out.Nodes[i].Purchasable = ns.Purchasable
	}
	for i := range out.Edges {
		e := &out.Edges[i]
		e.State = snap.Edges[state.EdgeKey{From: e.From, To: e.To}]
	}
	return out
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout and checks that
// every edge refers to a node of the layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}

	ids := make(map[string]bool, len(l.Nodes))
	for _, n := range l.Nodes {
		if n.ID == "" {
			return Layout{}, fmt.Errorf("layout node without id")
		}
		ids[n.ID] = true
	}
	for _, e := range l.Edges {
		if !ids[e.From] || !ids[e.To] {
			return Layout{}, fmt.Errorf("layout edge %s→%s references an unknown node", e.From, e.To)
		}
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
