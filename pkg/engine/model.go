package engine

import (
	"io"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/upgradetree/pkg/dag"
	"github.com/matzehuels/upgradetree/pkg/dag/transform"
	"github.com/matzehuels/upgradetree/pkg/errors"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

// Model is the validated upgrade graph of one build. Edges point from a
// prerequisite to the upgrade that requires it; references to undefined IDs
// are not part of the graph.
//
// A Model is immutable once built and owned by a single [Build].
type Model struct {
	g        *dag.DAG
	defs     map[string]upgrade.Def
	ids      []string // declaration order
	layering transform.Layering
}

// BuildModel builds the graph for defs, assigns layers, and reports every
// anomaly as a diagnostic. It never fails: invalid or duplicate definitions
// are skipped, unknown prerequisites are dropped, and nodes caught in or
// behind a cycle are pinned to layer 0.
//
// logger may be nil.
func BuildModel(defs []upgrade.Def, logger *log.Logger) (*Model, Report) {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	var report Report
	m := &Model{
		g:    dag.New(),
		defs: make(map[string]upgrade.Def, len(defs)),
	}

	for _, d := range defs {
		if err := errors.ValidateUpgradeID(d.ID); err != nil {
			diag := report.add(InvalidID, d.ID, "", "skipping upgrade %q: %s", d.ID, errors.UserMessage(err))
			logger.Warn(diag.Message)
			continue
		}
		if _, dup := m.defs[d.ID]; dup {
			diag := report.add(DuplicateID, d.ID, "", "upgrade %q is defined more than once; keeping the first definition", d.ID)
			logger.Warn(diag.Message)
			continue
		}
		m.defs[d.ID] = d
		m.ids = append(m.ids, d.ID)
		_ = m.g.AddNode(dag.Node{
			ID:    d.ID,
			Label: d.DisplayName(),
			Meta: dag.Metadata{
				"cost":        d.Cost,
				"description": d.Description,
			},
		})
	}

	for _, id := range m.ids {
		seen := make(map[string]bool)
		for _, req := range m.defs[id].Requires {
			if req == "" || seen[req] {
				continue
			}
			seen[req] = true
			if _, ok := m.defs[req]; !ok {
				diag := report.add(UnknownPrerequisite, id, req, "upgrade %q requires missing id %q", id, req)
				logger.Warn(diag.Message)
				continue
			}
			_ = m.g.AddEdge(dag.Edge{From: req, To: id})
		}
	}

	m.layering = transform.AssignLayers(m.g)
	if !m.layering.Resolved() {
		onCycle := transform.CycleMembers(m.g, m.layering.Unresolved)
		for _, id := range m.layering.Unresolved {
			var diag Diagnostic
			if _, found := slices.BinarySearch(onCycle, id); found {
				diag = report.add(CyclicDependency, id, "", "upgrade %q lies on a dependency cycle", id)
			} else {
				diag = report.add(CyclicDependency, id, "", "upgrade %q depends on a dependency cycle", id)
			}
			logger.Error(diag.Message)
		}
	}

	return m, report
}

// Graph returns the underlying DAG with rows assigned. Callers must not
// modify it.
func (m *Model) Graph() *dag.DAG { return m.g }

// Layering returns the layer assignment computed for the model.
func (m *Model) Layering() transform.Layering { return m.layering }

// IDs returns the accepted upgrade IDs in declaration order.
func (m *Model) IDs() []string { return slices.Clone(m.ids) }

// Len returns the number of accepted upgrades.
func (m *Model) Len() int { return len(m.ids) }

// Def returns the definition of an accepted upgrade.
func (m *Model) Def(id string) (upgrade.Def, bool) {
	d, ok := m.defs[id]
	return d, ok
}

// Prerequisites returns the existing prerequisites of id in declaration order.
func (m *Model) Prerequisites(id string) []string { return slices.Clone(m.g.Parents(id)) }

// Dependents returns the upgrades that require id.
func (m *Model) Dependents(id string) []string { return slices.Clone(m.g.Children(id)) }

// Layer returns the layer of id, or -1 if id is not part of the model.
func (m *Model) Layer(id string) int {
	n, ok := m.g.Node(id)
	if !ok {
		return -1
	}
	return n.Row
}
