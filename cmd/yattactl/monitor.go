package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/yatta-wm/yatta/internal/ipc"
)

// monitorTickInterval paces how often the dashboard polls get-tree.
// Grounded on termtile's internal/tui status-bar refresh, which
// re-queries the daemon on every bubbletea message rather than a fixed
// tick; yatta instead drives refreshes off a tea.Tick since the
// dashboard has no daemon-mutating interactions of its own.
const monitorTickInterval = 500 * time.Millisecond

var (
	monitorHeaderStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	monitorDimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	monitorFocusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	monitorFloatStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	monitorErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	monitorPausedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true)
)

func runMonitor(client *ipc.Client, args []string) int {
	if len(args) != 0 {
		fmt.Fprintln(os.Stderr, "monitor takes no arguments")
		return exitUsage
	}

	p := tea.NewProgram(newMonitorModel(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "monitor: %v\n", err)
		return exitDaemonUnreachable
	}
	return exitOK
}

type monitorModel struct {
	client *ipc.Client
	tree   *ipc.TreeData
	err    error
	width  int
	height int
}

type treeMsg struct {
	tree *ipc.TreeData
	err  error
}

func newMonitorModel(client *ipc.Client) monitorModel {
	return monitorModel{client: client}
}

func (m monitorModel) Init() tea.Cmd {
	return m.pollCmd()
}

// pollCmd fetches the tree once; Update re-schedules the next poll
// after monitorTickInterval so the dashboard keeps refreshing as long
// as the program runs.
func (m monitorModel) pollCmd() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		tree, err := client.GetTree()
		return treeMsg{tree: tree, err: err}
	}
}

func (m monitorModel) tickCmd() tea.Cmd {
	return tea.Tick(monitorTickInterval, func(time.Time) tea.Msg {
		return m.pollCmd()()
	})
}

func (m monitorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
		return m, nil
	case treeMsg:
		m.tree, m.err = msg.tree, msg.err
		return m, m.tickCmd()
	}
	return m, nil
}

func (m monitorModel) View() string {
	var b strings.Builder

	b.WriteString(monitorHeaderStyle.Render("yattactl monitor"))
	b.WriteString(monitorDimStyle.Render("  (q to quit)"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(monitorErrorStyle.Render(fmt.Sprintf("daemon unreachable: %v", m.err)))
		b.WriteString("\n")
		return b.String()
	}
	if m.tree == nil {
		b.WriteString(monitorDimStyle.Render("connecting..."))
		return b.String()
	}
	if m.tree.Paused {
		b.WriteString(monitorPausedStyle.Render("PAUSED"))
		b.WriteString("\n\n")
	}

	for _, mon := range m.tree.Monitors {
		marker := " "
		if mon.Active {
			marker = "*"
		}
		fmt.Fprintf(&b, "%smonitor %d  %dx%d @ (%d,%d)\n", marker, mon.ID, mon.Width, mon.Height, mon.X, mon.Y)

		for _, ws := range mon.Workspaces {
			if !ws.Active && len(ws.Windows) == 0 {
				continue
			}
			wsMarker := "  "
			if ws.Active {
				wsMarker = " >"
			}
			label := fmt.Sprintf("%sworkspace %d [%s]", wsMarker, ws.Index, ws.Layout)
			if ws.Monocle {
				label += " (monocle)"
			}
			b.WriteString(monitorDimStyle.Render(label))
			b.WriteString("\n")

			for _, win := range ws.Windows {
				line := fmt.Sprintf("      %s (%s) %dx%d", win.Title, win.Class, win.Width, win.Height)
				switch {
				case win.Focused:
					b.WriteString(monitorFocusedStyle.Render(line))
				case win.Floating:
					b.WriteString(monitorFloatStyle.Render(line + " [float]"))
				default:
					b.WriteString(line)
				}
				if win.Minimized {
					b.WriteString(monitorDimStyle.Render(" [minimized]"))
				}
				b.WriteString("\n")
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
