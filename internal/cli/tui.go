package cli

import (
	"fmt"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/upgradetree/pkg/economy"
	"github.com/matzehuels/upgradetree/pkg/engine"
	"github.com/matzehuels/upgradetree/pkg/errors"
	"github.com/matzehuels/upgradetree/pkg/state"
	"github.com/matzehuels/upgradetree/pkg/upgrade"
)

// Panel styles
var (
	panelSelectedStyle = lipgloss.NewStyle().Reverse(true)
	panelRowLabelStyle = lipgloss.NewStyle().Foreground(colorDim).Width(5)
	panelDetailStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(colorDim).
				Padding(0, 1)
	panelMessageStyle = lipgloss.NewStyle().Foreground(colorGreen)
	panelErrorStyle   = lipgloss.NewStyle().Foreground(colorRed)
)

// panelStats are the stats shown under the tree, in display order.
var panelStats = []upgrade.Stat{
	upgrade.StatBreakerDamage,
	upgrade.StatBreakerRadius,
	upgrade.StatSessionDuration,
	upgrade.StatGoldMultiplier,
}

// =============================================================================
// PanelModel - Interactive upgrade tree
// =============================================================================

// PanelModel is the bubbletea model for the interactive upgrade panel. Up and
// down move between layers, left and right move within a layer.
type PanelModel struct {
	panel *engine.Panel
	econ  *economy.Economy
	defs  []upgrade.Def
	index map[string]upgrade.Def
	save  func() error

	view engine.View
	rows [][]engine.ViewNode // by layer, each ordered by index

	Row, Col int
	Message  string
	Failed   bool
	Quitting bool
}

// NewPanelModel creates a panel model over econ. The panel is shown with
// defs if it is hidden. save may be nil when no store is configured.
func NewPanelModel(panel *engine.Panel, econ *economy.Economy, defs []upgrade.Def, save func() error) PanelModel {
	if !panel.Visible() {
		panel.Show(defs)
	}
	m := PanelModel{
		panel: panel,
		econ:  econ,
		defs:  defs,
		index: upgrade.Index(defs),
		save:  save,
	}
	m.refresh()
	return m
}

func (m PanelModel) Init() tea.Cmd {
	return nil
}

func (m PanelModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch key.String() {
	case "q", "ctrl+c", "esc":
		m.Quitting = true
		return m, tea.Quit
	case "up", "k":
		if m.Row < len(m.rows)-1 {
			m.Row++
		}
	case "down", "j":
		if m.Row > 0 {
			m.Row--
		}
	case "left", "h":
		if m.Col > 0 {
			m.Col--
		}
	case "right", "l":
		m.Col++
	case "enter", " ":
		m.buy()
	case "g":
		reward := m.econ.KillReward()
		if err := m.econ.Earn(reward); err != nil {
			m.fail(err)
		} else {
			m.notify("+%d gold", reward)
		}
	case "r":
		b := m.panel.Show(m.defs)
		m.notify("Rebuilt %d layers, %d crossings", b.Layers(), b.CrossingsAfter)
	case "s":
		m.write()
	}

	m.refresh()
	return m, nil
}

// Selected returns the upgrade under the cursor.
func (m PanelModel) Selected() (engine.ViewNode, bool) {
	if m.Row >= len(m.rows) || m.Col >= len(m.rows[m.Row]) {
		return engine.ViewNode{}, false
	}
	return m.rows[m.Row][m.Col], true
}

// Balance returns the current gold balance.
func (m PanelModel) Balance() int { return m.view.Balance }

func (m *PanelModel) buy() {
	n, ok := m.Selected()
	if !ok {
		return
	}
	if err := m.panel.Activate(n.ID); err != nil {
		m.fail(err)
		return
	}
	m.notify("Bought %s for %d gold", n.Label, n.Cost)
}

func (m *PanelModel) write() {
	if m.save == nil {
		m.fail(errors.New(errors.ErrCodeUnsupported, "no save slot selected (use --slot)"))
		return
	}
	if err := m.save(); err != nil {
		m.fail(err)
		return
	}
	m.notify("Saved")
}

func (m *PanelModel) notify(format string, args ...any) {
	m.Message = fmt.Sprintf(format, args...)
	m.Failed = false
}

func (m *PanelModel) fail(err error) {
	m.Message = errors.UserMessage(err)
	m.Failed = true
}

// refresh re-projects the view and keeps the cursor inside the grid.
func (m *PanelModel) refresh() {
	m.view = m.panel.Refresh()
	m.rows = make([][]engine.ViewNode, m.view.Layers)
	for _, n := range m.view.Nodes {
		if n.Row < len(m.rows) {
			m.rows[n.Row] = append(m.rows[n.Row], n)
		}
	}
	for _, row := range m.rows {
		slices.SortFunc(row, func(a, b engine.ViewNode) int { return a.Index - b.Index })
	}

	m.Row = min(m.Row, max(len(m.rows)-1, 0))
	if m.Row < len(m.rows) {
		m.Col = min(m.Col, max(len(m.rows[m.Row])-1, 0))
	} else {
		m.Col = 0
	}
}

func (m PanelModel) View() string {
	if m.Quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(StyleTitle.Render("Upgrades"))
	b.WriteString("  ")
	b.WriteString(StyleNumber.Render(fmt.Sprintf("%d gold", m.view.Balance)))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  ·  %d/%d unlocked", m.view.Count(state.Unlocked), len(m.view.Nodes))))
	b.WriteString("\n\n")

	// Later layers are drawn on top, so the tree grows upward.
	for r := len(m.rows) - 1; r >= 0; r-- {
		b.WriteString(panelRowLabelStyle.Render(fmt.Sprintf("L%d", r)))
		for c, n := range m.rows[r] {
			b.WriteString(" ")
			b.WriteString(m.cell(n, r == m.Row && c == m.Col))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")

	if n, ok := m.Selected(); ok {
		b.WriteString(panelDetailStyle.Render(m.detail(n)))
		b.WriteString("\n")
	}

	b.WriteString(m.statsLine())
	b.WriteString("\n")

	if m.Message != "" {
		style := panelMessageStyle
		if m.Failed {
			style = panelErrorStyle
		}
		b.WriteString(style.Render(m.Message))
		b.WriteString("\n")
	}

	b.WriteString(StyleDim.Render("↑/↓ layer  ←/→ upgrade  ⏎ buy  g earn  r rebuild  s save  q quit"))
	b.WriteString("\n")
	return b.String()
}

func (m PanelModel) cell(n engine.ViewNode, selected bool) string {
	text := fmt.Sprintf("[%s %d]", n.Label, n.Cost)
	if n.State == state.Unlocked {
		text = fmt.Sprintf("[%s ✓]", n.Label)
	}
	style := stateStyle(n.State)
	if n.Purchasable {
		style = style.Bold(true)
	}
	if selected {
		style = style.Inherit(panelSelectedStyle)
	}
	return style.Render(text)
}

func (m PanelModel) detail(n engine.ViewNode) string {
	var lines []string
	lines = append(lines, StyleTitle.Render(n.Label)+StyleDim.Render(" ("+n.ID+")"))
	if n.Description != "" {
		lines = append(lines, n.Description)
	}
	lines = append(lines, stateStyle(n.State).Render(n.State.String())+StyleDim.Render(fmt.Sprintf(" · cost %d", n.Cost)))

	if d, ok := m.index[n.ID]; ok {
		if !d.Effect.IsZero() {
			lines = append(lines, StyleHighlight.Render(d.Effect.String()))
		}
		if len(d.Requires) > 0 {
			lines = append(lines, StyleDim.Render("requires "+strings.Join(d.Requires, ", ")))
		}
	}
	if build := m.panel.Build(); build != nil {
		for _, diag := range build.Report.ForNode(n.ID) {
			lines = append(lines, StyleWarning.Render(diag.Message))
		}
	}
	return strings.Join(lines, "\n")
}

func (m PanelModel) statsLine() string {
	stats := m.econ.Stats()
	parts := make([]string, 0, len(panelStats)+1)
	for _, s := range panelStats {
		parts = append(parts, fmt.Sprintf("%s %g", s, stats.Get(s)))
	}
	parts = append(parts, fmt.Sprintf("reward %d", m.econ.KillReward()))
	return StyleDim.Render(strings.Join(parts, " · "))
}
