package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/wingman/internal/ipc"
)

// statusTickMsg drives the periodic daemon poll for the status tab.
type statusTickMsg struct{}

func statusTick() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg {
		return statusTickMsg{}
	})
}

// StatusTab is the sub-model for the live daemon status tab.
type StatusTab struct {
	client *ipc.Client

	status   *ipc.StatusData
	monitors []ipc.MonitorInfo
	lastErr  string

	width  int
	height int
}

// NewStatusTab creates a StatusTab and performs an initial poll.
func NewStatusTab(client *ipc.Client) StatusTab {
	st := StatusTab{client: client}
	st.refresh()
	return st
}

// Connected reports whether the last poll reached the daemon.
func (st StatusTab) Connected() bool {
	return st.status != nil
}

// Phase returns the daemon's preview phase, or "" when disconnected.
func (st StatusTab) Phase() string {
	if st.status == nil {
		return ""
	}
	return st.status.Phase
}

// Strategy returns the daemon's placement strategy, or "" when disconnected.
func (st StatusTab) Strategy() string {
	if st.status == nil {
		return ""
	}
	return st.status.Strategy
}

func (st *StatusTab) refresh() {
	if st.client == nil {
		return
	}
	data, err := st.client.GetStatus()
	if err != nil {
		st.status = nil
		st.monitors = nil
		st.lastErr = err.Error()
		return
	}
	st.status = data
	st.lastErr = ""
	if mons, err := st.client.GetMonitors(); err == nil {
		st.monitors = mons.Monitors
	}
}

// Init implements tea.Model.
func (st StatusTab) Init() tea.Cmd {
	return statusTick()
}

// Update implements tea.Model.
func (st StatusTab) Update(msg tea.Msg) (StatusTab, tea.Cmd) {
	switch msg := msg.(type) {
	case statusTickMsg:
		st.refresh()
		return st, statusTick()

	case tea.WindowSizeMsg:
		st.width = msg.Width
		st.height = msg.Height
		return st, nil

	case tea.KeyMsg:
		if msg.String() == "r" {
			st.refresh()
			return st, nil
		}
	}
	return st, nil
}

// View implements tea.Model.
func (st StatusTab) View() string {
	if st.status == nil {
		return st.viewDisconnected()
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(14).
		Align(lipgloss.Right).
		PaddingRight(2)
	valueStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("15")).
		Bold(true)
	dimStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241"))

	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	s := st.status
	uptime := (time.Duration(s.UptimeSeconds) * time.Second).String()

	lines := []string{
		"",
		row("Preview", s.Phase),
		row("Strategy", s.Strategy),
		row("Uptime", uptime),
	}
	if s.PreviewWidth > 0 && s.PreviewHeight > 0 {
		lines = append(lines, row("Companion", fmt.Sprintf("%.0f×%.0f at (%.0f, %.0f)",
			s.PreviewWidth, s.PreviewHeight, s.PreviewX, s.PreviewY)))
	}
	lines = append(lines, "")

	for _, m := range st.monitors {
		id := m.ID
		if m.Primary {
			id += "*"
		}
		lines = append(lines, row(id, fmt.Sprintf("%.0f×%.0f at (%.0f, %.0f)  work %.0f×%.0f at (%.0f, %.0f)",
			m.Width, m.Height, m.X, m.Y,
			m.WorkWidth, m.WorkHeight, m.WorkX, m.WorkY)))
	}

	lines = append(lines, "", dimStyle.Render("  "+summarizeMonitors(st.monitors)))

	// Monitor map fills the remaining height.
	mapHeight := st.height - len(lines) - 4
	if mapHeight >= 4 {
		mapWidth := st.width - 8
		if mapWidth > 72 {
			mapWidth = 72
		}
		if mapWidth >= 8 {
			var pr *previewRect
			if s.Phase == "active" && s.PreviewWidth > 0 {
				pr = &previewRect{X: s.PreviewX, Y: s.PreviewY, Width: s.PreviewWidth, Height: s.PreviewHeight}
			}
			if mapHeight > 14 {
				mapHeight = 14
			}
			mapLines := renderMonitorMap(st.monitors, pr, mapWidth, mapHeight)
			mapStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("247"))
			lines = append(lines, "", mapStyle.Render(strings.Join(mapLines, "\n")))
		}
	}

	lines = append(lines, "", dimStyle.Render("  Press 'r' to refresh"))

	contentStyle := lipgloss.NewStyle().
		Width(st.width).
		Height(st.height).
		Padding(1, 2)
	return contentStyle.Render(strings.Join(lines, "\n"))
}

func (st StatusTab) viewDisconnected() string {
	msg := "daemon not running"
	if st.lastErr != "" {
		msg += "\n\n" + st.lastErr
	}
	msg += "\n\nstart it with: wingman daemon"

	style := lipgloss.NewStyle().
		Width(st.width).
		Height(st.height).
		Foreground(lipgloss.Color("241")).
		Align(lipgloss.Center, lipgloss.Center)
	return style.Render(msg)
}
