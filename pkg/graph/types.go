package graph

import (
	"github.com/matzehuels/upgradetree/pkg/engine"
	"github.com/matzehuels/upgradetree/pkg/state"
)

// Node is the node type shared by [Graph] and [Layout]. Graph exports only
// fill the structural fields; layouts add position and state.
type Node struct {
	ID          string          `json:"id" bson:"id"`
	Label       string          `json:"label,omitempty" bson:"label,omitempty"`
	Description string          `json:"description,omitempty" bson:"description,omitempty"`
	Row         int             `json:"row,omitempty" bson:"row,omitempty"`
	Index       int             `json:"index,omitempty" bson:"index,omitempty"`
	X           float64         `json:"x,omitempty" bson:"x,omitempty"`
	Y           float64         `json:"y,omitempty" bson:"y,omitempty"`
	State       state.NodeState `json:"state,omitzero" bson:"state,omitempty"`
	Cost        int             `json:"cost,omitempty" bson:"cost,omitempty"`
	Purchasable bool            `json:"purchasable,omitempty" bson:"purchasable,omitempty"`
	Meta        map[string]any  `json:"meta,omitempty" bson:"meta,omitempty"`
}

// DisplayLabel returns the label if set, otherwise the ID.
func (n Node) DisplayLabel() string {
	if n.Label != "" {
		return n.Label
	}
	return n.ID
}

// Edge is a directed prerequisite edge. Layouts include its segment.
type Edge struct {
	From  string          `json:"from" bson:"from"`
	To    string          `json:"to" bson:"to"`
	X1    float64         `json:"x1,omitempty" bson:"x1,omitempty"`
	Y1    float64         `json:"y1,omitempty" bson:"y1,omitempty"`
	X2    float64         `json:"x2,omitempty" bson:"x2,omitempty"`
	Y2    float64         `json:"y2,omitempty" bson:"y2,omitempty"`
	State state.EdgeState `json:"state,omitzero" bson:"state,omitempty"`
}

// Diagnostic mirrors [engine.Diagnostic] on the wire.
type Diagnostic = engine.Diagnostic
