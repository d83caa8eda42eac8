// Package tui is the interactive terminal front end for wingman: a tabbed
// bubbletea app showing live daemon status, the size preset library and
// the daemon settings, with config editing and save built in.
package tui

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/1broseidon/wingman/internal/config"
	"github.com/1broseidon/wingman/internal/ipc"
)

// model is the root bubbletea model for the TUI.
type model struct {
	configPath string
	cfg        *config.Config
	ipcClient  *ipc.Client

	// Tab navigation
	activeTab Tab

	// Sub-models
	statusTab   StatusTab
	presetsTab  PresetsTab
	settingsTab SettingsTab

	// Save overlay
	originalConfig *config.Config
	saveOverlay    SaveOverlay

	// Terminal dimensions
	width  int
	height int
}

// Run launches the interactive TUI. configPath overrides the default
// config location when non-empty.
func Run(configPath string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) || !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("tui requires an interactive terminal (stdin/stdout must be TTYs)")
	}

	p := tea.NewProgram(newModel(configPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func newModel(configPath string) model {
	m := model{
		configPath: configPath,
		activeTab:  TabStatus,
	}

	m.loadConfig()

	// Snapshot original config for diff preview on save
	if m.cfg != nil {
		m.originalConfig = cloneConfig(m.cfg)
	}

	m.ipcClient = ipc.NewClient()

	m.statusTab = NewStatusTab(m.ipcClient)
	m.presetsTab = NewPresetsTab(m.ipcClient, m.cfg)
	m.settingsTab = NewSettingsTab(m.cfg)

	return m
}

func (m *model) loadConfig() {
	var cfg *config.Config
	var err error

	if m.configPath == "" {
		cfg, err = config.Load()
	} else {
		cfg, err = config.LoadFromPath(m.configPath)
	}
	if err != nil {
		return
	}
	m.cfg = cfg
}

// contentHeight returns the height available for tab content.
func (m model) contentHeight() int {
	// Approximate: status bar (1) + tab bar (2 with margin) + help bar (1) = 4 lines
	h := m.height - 4
	if h < 1 {
		h = 1
	}
	return h
}

// Init implements tea.Model.
func (m model) Init() tea.Cmd {
	return m.statusTab.Init()
}

// Update implements tea.Model.
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// The status poll keeps running regardless of the active tab so the
	// top status bar stays current.
	if _, ok := msg.(statusTickMsg); ok {
		var cmd tea.Cmd
		m.statusTab, cmd = m.statusTab.Update(msg)
		return m, cmd
	}

	// Save overlay captures all input when active
	if m.saveOverlay.Active() {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
			prevPhase := m.saveOverlay.phase
			m.saveOverlay = m.saveOverlay.Update(msg, m.cfg, m.ipcClient, m.statusTab.Connected())
			// After successful save, update the original snapshot
			if prevPhase == savePreview && m.saveOverlay.SaveSucceeded() {
				m.originalConfig = cloneConfig(m.cfg)
			}
		case tea.WindowSizeMsg:
			m.width = msg.Width
			m.height = msg.Height
		}
		return m, nil
	}

	// ctrl+s triggers the save overlay from any context (including form editing)
	if km, ok := msg.(tea.KeyMsg); ok && km.String() == "ctrl+s" {
		if m.cfg != nil {
			m.saveOverlay.Show(m.originalConfig, m.cfg)
		}
		return m, nil
	}

	// When a sub-model captures input, delegate all messages to it
	// (the form consumes keys; only ctrl+c escapes to quit)
	capturing := (m.activeTab == TabPresets && m.presetsTab.editing) ||
		(m.activeTab == TabSettings && m.settingsTab.editing)
	if capturing {
		switch msg := msg.(type) {
		case tea.KeyMsg:
			if msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case tea.WindowSizeMsg:
			m.width = msg.Width
			m.height = msg.Height
			m.forwardSize()
			return m, nil
		}
		var cmd tea.Cmd
		switch m.activeTab {
		case TabPresets:
			m.presetsTab, cmd = m.presetsTab.Update(msg)
		case TabSettings:
			m.settingsTab, cmd = m.settingsTab.Update(msg)
		}
		return m, cmd
	}

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "tab":
			m.activeTab = (m.activeTab + 1) % tabCount
			return m, nil

		case "shift+tab":
			m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
			return m, nil

		case "1":
			m.activeTab = TabStatus
			return m, nil
		case "2":
			m.activeTab = TabPresets
			return m, nil
		case "3":
			m.activeTab = TabSettings
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.forwardSize()
		return m, nil
	}

	// Delegate to active tab's sub-model
	var cmd tea.Cmd
	switch m.activeTab {
	case TabStatus:
		m.statusTab, cmd = m.statusTab.Update(msg)
	case TabPresets:
		m.presetsTab, cmd = m.presetsTab.Update(msg)
	case TabSettings:
		m.settingsTab, cmd = m.settingsTab.Update(msg)
	}
	return m, cmd
}

// forwardSize resends the window size to all sub-models with the height
// available for tab content.
func (m *model) forwardSize() {
	subMsg := tea.WindowSizeMsg{Width: m.width, Height: m.contentHeight()}
	m.statusTab, _ = m.statusTab.Update(subMsg)
	m.presetsTab, _ = m.presetsTab.Update(subMsg)
	m.settingsTab, _ = m.settingsTab.Update(subMsg)
}

// View implements tea.Model.
func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	// Status bar (top)
	statusBar := renderStatusBar(m.statusTab.Connected(), m.statusTab.Phase(), m.statusTab.Strategy(), m.width)

	// Tab bar
	tabBar := renderTabBar(m.activeTab, m.width)

	// Help bar (bottom)
	helpBar := renderHelpBar(m.width)

	// Calculate content height: total - statusBar - tabBar - helpBar
	usedHeight := lipgloss.Height(statusBar) + lipgloss.Height(tabBar) + lipgloss.Height(helpBar)
	contentHeight := m.height - usedHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Tab content (or save overlay)
	var content string
	if m.saveOverlay.Active() {
		content = m.saveOverlay.View(m.width, contentHeight)
	} else {
		switch m.activeTab {
		case TabStatus:
			content = m.statusTab.View()
		case TabPresets:
			content = m.presetsTab.View()
		case TabSettings:
			content = m.settingsTab.View()
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		statusBar,
		tabBar,
		content,
		helpBar,
	)
}
