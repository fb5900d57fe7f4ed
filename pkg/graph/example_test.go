package graph_test

import (
	"fmt"
	"os"

	"github.com/matzehuels/upgradetree/pkg/engine"
	"github.com/matzehuels/upgradetree/pkg/graph"
	"github.com/matzehuels/upgradetree/pkg/state"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

func ExampleWriteGraph() {
	model, _ := engine.BuildModel([]upgrade.Def{
		{ID: "A", Name: "Alpha", Cost: 2},
		{ID: "B", Requires: []string{"A"}},
	}, nil)

	if err := graph.WriteGraph(model.Graph(), os.Stdout); err != nil {
		fmt.Println("Error:", err)
	}
	// Output:
	// {
	//   "nodes": [
	//     {
	//       "id": "A",
	//       "label": "Alpha",
	//       "meta": {
	//         "cost": 2
	//       }
	//     },
	//     {
	//       "id": "B",
	//       "row": 1,
	//       "meta": {
	//         "cost": 0
	//       }
	//     }
	//   ],
	//   "edges": [
	//     {
	//       "from": "A",
	//       "to": "B"
	//     }
	//   ]
	// }
}

func ExampleFromView() {
	b := engine.New(engine.Options{}).Build([]upgrade.Def{
		{ID: "A", Cost: 1},
		{ID: "B", Cost: 3, Requires: []string{"A"}},
	})
	l := graph.FromView(b.Project(state.Static{
		Purchased: map[string]bool{"A": true},
		Costs:     map[string]int{"A": 1, "B": 3},
		Gold:      5,
	}))

	for _, n := range l.Nodes {
		fmt.Printf("%s row=%d y=%v %s purchasable=%v\n", n.ID, n.Row, n.Y, n.State, n.Purchasable)
	}
	for _, e := range l.Edges {
		fmt.Printf("%s→%s %s\n", e.From, e.To, e.State)
	}
	// Output:
	// A row=0 y=0 unlocked purchasable=false
	// B row=1 y=-64 available purchasable=true
	// A→B satisfied
}
