package dag_test

import (
	"fmt"

	"github.com/matzehuels/upgradetree/pkg/dag"
)

func ExampleDAG_basic() {
	// A chain of upgrades: U1 → U2 → U3
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "U1", Row: 0})
	_ = g.AddNode(dag.Node{ID: "U2", Row: 1})
	_ = g.AddNode(dag.Node{ID: "U3", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "U1", To: "U2"})
	_ = g.AddEdge(dag.Edge{From: "U2", To: "U3"})

	fmt.Println("Nodes:", g.NodeCount())
	fmt.Println("Edges:", g.EdgeCount())
	fmt.Println("Rows:", g.RowCount())
	fmt.Println("Valid:", g.Validate() == nil)
	// Output:
	// Nodes: 3
	// Edges: 2
	// Rows: 3
	// Valid: true
}

func ExampleDAG_traversal() {
	// D requires both B and C, which both require A
	g := dag.New()
	_ = g.AddNode(dag.Node{ID: "A", Row: 0})
	_ = g.AddNode(dag.Node{ID: "B", Row: 1})
	_ = g.AddNode(dag.Node{ID: "C", Row: 1})
	_ = g.AddNode(dag.Node{ID: "D", Row: 2})
	_ = g.AddEdge(dag.Edge{From: "A", To: "B"})
	_ = g.AddEdge(dag.Edge{From: "A", To: "C"})
	_ = g.AddEdge(dag.Edge{From: "C", To: "D"})
	_ = g.AddEdge(dag.Edge{From: "B", To: "D"})

	fmt.Println("Dependents of A:", g.Children("A"))
	fmt.Println("Prerequisites of D:", g.Parents("D"))
	fmt.Println("Sources:", dag.NodeIDs(g.Sources()))
	// Output:
	// Dependents of A: [B C]
	// Prerequisites of D: [C B]
	// Sources: [A]
}

func ExampleCountCrossings() {
	g := dag.New()
	for _, id := range []string{"a", "b", "x", "y"} {
		_ = g.AddNode(dag.Node{ID: id})
	}
	_ = g.AddEdge(dag.Edge{From: "a", To: "y"})
	_ = g.AddEdge(dag.Edge{From: "b", To: "x"})

	crossed := map[int][]string{0: {"a", "b"}, 1: {"x", "y"}}
	straight := map[int][]string{0: {"a", "b"}, 1: {"y", "x"}}
	fmt.Println(dag.CountCrossings(g, crossed), dag.CountCrossings(g, straight))
	// Output:
	// 1 0
}
