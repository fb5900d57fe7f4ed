package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"maps"

	"github.com/matzehuels/upgradetree/pkg/dag"
)

// Graph is the node-link serialization of an upgrade graph. Edges point from
// a prerequisite to the upgrade requiring it.
type Graph struct {
	Nodes []Node `json:"nodes" bson:"nodes"`
	Edges []Edge `json:"edges" bson:"edges"`
}

// FromDAG converts a DAG to its serialization format.
// Nodes are sorted by ID; edges keep insertion order.
func FromDAG(g *dag.DAG) Graph {
	out := Graph{
		Nodes: make([]Node, 0, g.NodeCount()),
		Edges: make([]Edge, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		node := Node{ID: n.ID, Row: n.Row, Meta: cleanMeta(n.Meta)}
		if n.Label != n.ID {
			node.Label = n.Label
		}
		out.Nodes = append(out.Nodes, node)
	}
	for _, e := range g.Edges() {
		out.Edges = append(out.Edges, Edge{From: e.From, To: e.To})
	}
	return out
}

// MarshalGraph converts a DAG to indented JSON bytes.
func MarshalGraph(g *dag.DAG) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteGraph(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteGraph writes a DAG as JSON to an io.Writer.
func WriteGraph(g *dag.DAG, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromDAG(g)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// UnmarshalGraph deserializes JSON bytes to a Graph.
func UnmarshalGraph(data []byte) (Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return Graph{}, err
	}
	return g, nil
}

// cleanMeta copies metadata without empty strings and nil values.
// Returns nil if nothing is left.
func cleanMeta(m dag.Metadata) map[string]any {
	out := maps.Clone(map[string]any(m))
	maps.DeleteFunc(out, func(_ string, v any) bool {
		s, isString := v.(string)
		return v == nil || (isString && s == "")
	})
	if len(out) == 0 {
		return nil
	}
	return out
}
