package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"qramgrover/circuit"
	"qramgrover/grover"
	"qramgrover/sim"
)

// focus represents which panel/mode has keyboard input.
type focus int

const (
	focusCircuit focus = iota
	focusQASM
	focusDetail
)

// keyMap holds the viewer's key bindings.
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Left    key.Binding
	Right   key.Binding
	Detail  key.Binding
	Focus   key.Binding
	NextTab key.Binding
	PrevTab key.Binding
	Save    key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "qubit up")),
		Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "qubit down")),
		Left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "step back")),
		Right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "step forward")),
		Detail:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("⏎", "gate detail")),
		Focus:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "edit QASM")),
		NextTab: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next tab")),
		PrevTab: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev tab")),
		Save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("^S", "save QASM")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Left, k.Right, k.Detail, k.Focus, k.NextTab, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Detail, k.Focus, k.NextTab, k.PrevTab},
		{k.Save, k.Help, k.Quit},
	}
}

// sampledMsg carries the counts of a background run of the circuit with the
// given fingerprint.
type sampledMsg struct {
	fingerprint string
	counts      sim.Counts
	err         error
}

// Model is the search viewer: the circuit grid on the left, a tabbed panel
// with counts, editable QASM and segments on the right.
type Model struct {
	ctx      context.Context // cancels background sampling when the program exits
	engine   *sim.Engine
	shots    int
	savePath string

	circ     circuit.Circuit
	measured []int
	sched    circuit.Schedule
	targets  *roaring.Bitmap
	counts   sim.Counts
	sampling bool

	cursor     gridPos
	width      int
	height     int
	tab        sideTab
	qasmEditor textarea.Model
	focus      focus
	lastQASM   string
	statusMsg  string // transient status message (e.g. save confirmation)

	keys keyMap
	help help.Model
}

func newModel(ctx context.Context, res *grover.Result, engine *sim.Engine, shots int, savePath string) Model {
	ta := textarea.New()
	ta.Placeholder = "Edit QASM here..."
	ta.SetWidth(40)
	ta.SetHeight(20)
	ta.ShowLineNumbers = true

	m := Model{
		ctx:        ctx,
		engine:     engine,
		shots:      shots,
		savePath:   savePath,
		circ:       res.Plan.Circuit,
		measured:   res.Plan.Measured,
		sched:      res.Plan.Circuit.Schedule(true),
		targets:    res.Targets,
		counts:     res.Counts,
		qasmEditor: ta,
		focus:      focusCircuit,
		keys:       defaultKeyMap(),
		help:       help.New(),
	}
	m.lastQASM = m.circ.ToQASM(m.measured)
	m.qasmEditor.SetValue(m.lastQASM)
	return m
}

// sampleCmd runs the current circuit in the background.
func (m Model) sampleCmd() tea.Cmd {
	ctx, c, measured, shots, engine := m.ctx, m.circ, m.measured, m.shots, m.engine
	return func() tea.Msg {
		counts, err := engine.Sample(ctx, c, measured, shots)
		return sampledMsg{fingerprint: c.Fingerprint(), counts: counts, err: err}
	}
}

// parseQASMInput rebuilds the circuit from the editor when its text changed
// and the new text parses. The circuit is then re-sampled.
func (m *Model) parseQASMInput() tea.Cmd {
	src := m.qasmEditor.Value()
	if src == m.lastQASM {
		return nil
	}
	m.lastQASM = src

	c, measured, err := circuit.ParseQASM(src)
	if err != nil {
		m.statusMsg = err.Error()
		return nil
	}
	if len(measured) == 0 {
		m.statusMsg = "no measure statements, keeping previous circuit"
		return nil
	}

	m.circ, m.measured = c, measured
	m.sched = c.Schedule(true)
	m.cursor.qubit = min(m.cursor.qubit, c.NumQubits()-1)
	m.cursor.step = min(m.cursor.step, max(len(m.sched.Steps)-1, 0))
	m.counts = nil
	m.sampling = true
	return m.sampleCmd()
}

// ──────────────────────────── Init / Update ────────────────────────────

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width - 4
		m.qasmEditor.SetWidth(max(msg.Width/3-6, 20))
		ctrlH := 6
		circH := msg.Height - ctrlH - 4
		m.qasmEditor.SetHeight(max(circH-8, 4))

	case sampledMsg:
		if msg.fingerprint != m.circ.Fingerprint() {
			break
		}
		m.sampling = false
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Sample error: %v", msg.err)
			break
		}
		m.counts = msg.counts

	case tea.KeyMsg:
		m.statusMsg = ""
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		switch m.focus {
		case focusDetail:
			if msg.String() == "esc" || key.Matches(msg, m.keys.Detail) {
				m.focus = focusCircuit
			}

		case focusCircuit:
			switch {
			case key.Matches(msg, m.keys.Quit):
				return m, tea.Quit
			case key.Matches(msg, m.keys.Focus):
				m.focus = focusQASM
				m.tab = tabQASM
				cmds = append(cmds, m.qasmEditor.Focus())
			case key.Matches(msg, m.keys.NextTab):
				m.tab = (m.tab + 1) % sideTab(len(sideTabs))
			case key.Matches(msg, m.keys.PrevTab):
				m.tab = (m.tab + sideTab(len(sideTabs)) - 1) % sideTab(len(sideTabs))
			case key.Matches(msg, m.keys.Up):
				if m.cursor.qubit > 0 {
					m.cursor.qubit--
				}
			case key.Matches(msg, m.keys.Down):
				if m.cursor.qubit < m.circ.NumQubits()-1 {
					m.cursor.qubit++
				}
			case key.Matches(msg, m.keys.Left):
				if m.cursor.step > 0 {
					m.cursor.step--
				}
			case key.Matches(msg, m.keys.Right):
				if m.cursor.step < len(m.sched.Steps)-1 {
					m.cursor.step++
				}
			case key.Matches(msg, m.keys.Detail):
				if i, _ := m.sched.GateAt(m.circ, m.cursor.step, m.cursor.qubit); i >= 0 {
					m.focus = focusDetail
				}
			case key.Matches(msg, m.keys.Save):
				if err := writeQASM(m.savePath, m.circ.ToQASM(m.measured)); err != nil {
					m.statusMsg = fmt.Sprintf("Save error: %v", err)
				} else {
					m.statusMsg = "Saved " + m.savePath
				}
			case key.Matches(msg, m.keys.Help):
				m.help.ShowAll = !m.help.ShowAll
			}

		case focusQASM:
			if key.Matches(msg, m.keys.Focus) || msg.String() == "esc" {
				m.focus = focusCircuit
				m.qasmEditor.Blur()
				break
			}
			var cmd tea.Cmd
			m.qasmEditor, cmd = m.qasmEditor.Update(msg)
			cmds = append(cmds, cmd, m.parseQASMInput())
		}
	}

	return m, tea.Batch(cmds...)
}

// ──────────────────────────── View ────────────────────────────

// stepsThatFit returns how many steps from start fit in avail columns,
// barrier columns included. At least one step is always shown.
func stepsThatFit(sched circuit.Schedule, start, avail int) int {
	used, n := 0, 0
	for s := start; s < len(sched.Steps); s++ {
		need := cellW
		if _, ok := sched.Barriers[s]; ok && s > 0 {
			need += barrierW
		}
		if used+need > avail {
			break
		}
		used += need
		n++
	}
	return max(n, 1)
}

// renderCircuitPanel renders the circuit grid panel.
func (m Model) renderCircuitPanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Render("Search Circuit"))
	fmt.Fprintf(&sb, "  %s\n\n", dimStyle.Render(fmt.Sprintf("%d qubits, %d gates, depth %d",
		m.circ.NumQubits(), m.circ.Len(), m.circ.Depth())))

	// Keep one cell of room for the measurement column.
	avail := width - labelVisualW - 4 - cellW
	start := 0
	for m.cursor.step >= start+stepsThatFit(m.sched, start, avail) {
		start++
	}
	n := stepsThatFit(m.sched, start, avail)

	if start > 0 {
		fmt.Fprintf(&sb, "  ◀ showing steps %d–%d\n", start, start+n-1)
	}
	cursor := m.cursor
	sb.WriteString(renderGrid(m.circ, m.sched, m.measured, start, start+n, &cursor))

	fmt.Fprintf(&sb, "\n  Position: Step %d, Qubit %d", m.cursor.step, m.cursor.qubit)
	if i, _ := m.sched.GateAt(m.circ, m.cursor.step, m.cursor.qubit); i >= 0 {
		fmt.Fprintf(&sb, "  │  %s", gateStyle.Render(m.circ.Gate(i).String()))
		if seg := segmentOf(m.circ, i); seg != "" {
			fmt.Fprintf(&sb, " in %s", segmentStyle.Render(seg))
		}
	}
	if m.statusMsg != "" {
		fmt.Fprintf(&sb, "  │  %s", activeTabStyle.Render(m.statusMsg))
	}

	return circuitStyle.Width(width).Height(height).Render(sb.String())
}

// renderSidePanel renders the tabbed counts / QASM / segments panel.
func (m Model) renderSidePanel(width, height int) string {
	var sb strings.Builder

	sb.WriteString(renderTabs(m.tab))
	if m.focus == focusQASM {
		sb.WriteString(activeTabStyle.Render(" [EDITING]"))
	}
	sb.WriteString("\n")
	if m.sampling {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("sampling %d shots…", m.shots)))
	}
	sb.WriteString("\n")

	switch m.tab {
	case tabCounts:
		// Counts of the previous circuit are hidden while it is re-sampled.
		if !m.sampling {
			processed := m.counts.Above(1)
			sb.WriteString(renderHistogram(processed, len(m.measured), max(width-44, 4), m.targets))
			sb.WriteString("\n")
			sb.WriteString(formatCounts(processed))
		}
	case tabQASM:
		sb.WriteString(m.qasmEditor.View())
	case tabSegments:
		sb.WriteString(renderSegments(m.circ))
	}

	return sidePanelStyle.Width(width).Height(height).Render(sb.String())
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	sideWidth := m.width / 3
	circuitWidth := m.width - sideWidth - 4
	controlsHeight := 6
	circuitHeight := max(m.height-controlsHeight-2, 6)

	circuitPanel := m.renderCircuitPanel(circuitWidth, circuitHeight)
	sidePanel := m.renderSidePanel(sideWidth, circuitHeight)
	controlsPanel := controlsStyle.Width(m.width - 4).Height(controlsHeight - 2).Render(m.help.View(m.keys))

	topRow := lipgloss.JoinHorizontal(lipgloss.Top, circuitPanel, sidePanel)
	frame := lipgloss.JoinVertical(lipgloss.Left, topRow, controlsPanel)

	if m.focus == focusDetail {
		if i, _ := m.sched.GateAt(m.circ, m.cursor.step, m.cursor.qubit); i >= 0 {
			frame = overlayAt(frame, renderGateDetail(m.circ, i), 2, 2)
		}
	}
	return frame
}
