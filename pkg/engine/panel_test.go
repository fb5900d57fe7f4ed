package engine_test

import (
	"testing"

	"github.com/matzehuels/upgradetree/pkg/economy"
	"github.com/matzehuels/upgradetree/pkg/engine"
	"github.com/matzehuels/upgradetree/pkg/errors"
	"github.com/matzehuels/upgradetree/pkg/state"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

func findNode(t *testing.T, v engine.View, id string) engine.ViewNode {
	t.Helper()
	for _, n := range v.Nodes {
		if n.ID == id {
			return n
		}
	}
	t.Fatalf("node %q not placed", id)
	return engine.ViewNode{}
}

func TestPanel_FreeFormIDs(t *testing.T) {
	defs := []upgrade.Def{
		{ID: "Fire Duck", Cost: 10},
		{ID: "Y", Cost: 10, Requires: []string{"Fire Duck"}},
	}
	econ := economy.New(defs, 100, nil)
	panel := engine.NewPanel(engine.New(engine.Options{}), econ, econ.Purchase)

	b := panel.Show(defs)
	if !b.Report.Empty() {
		t.Errorf("Report = %v, want no diagnostics", b.Report.Diagnostics)
	}
	v := panel.Refresh()
	if len(v.Nodes) != 2 || len(v.Edges) != 1 {
		t.Fatalf("placed %d nodes and %d edges, want 2 and 1", len(v.Nodes), len(v.Edges))
	}
	if n := findNode(t, v, "Y"); n.State != state.Locked || n.Purchasable || n.Row != 1 {
		t.Errorf("Y = %v purchasable=%v row=%d, want locked in row 1", n.State, n.Purchasable, n.Row)
	}

	if err := panel.Activate("Y"); !errors.Is(err, errors.ErrCodePrerequisitesUnmet) {
		t.Errorf("Activate(Y) = %v, want PREREQUISITES_UNMET", err)
	}
	if err := panel.Activate("Fire Duck"); err != nil {
		t.Fatalf("Activate(Fire Duck) error: %v", err)
	}
	if n := findNode(t, panel.Refresh(), "Y"); n.State != state.Available || !n.Purchasable {
		t.Errorf("Y = %v purchasable=%v, want available and purchasable", n.State, n.Purchasable)
	}
	if err := panel.Activate("Y"); err != nil {
		t.Errorf("Activate(Y) error: %v", err)
	}
	if econ.Balance() != 80 {
		t.Errorf("Balance() = %d, want 80", econ.Balance())
	}
}
