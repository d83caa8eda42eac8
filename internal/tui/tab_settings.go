package tui

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/wingman/internal/config"
	"github.com/1broseidon/wingman/internal/placement"
)

// SettingsTab is the sub-model for the settings tab.
type SettingsTab struct {
	cfg *config.Config

	// Display dimensions
	width  int
	height int

	// Edit mode
	editing bool
	form    *huh.Form

	// Form-bound values (strings for huh, converted on submit)
	fStrategy       string
	fMargin         string
	fEdgeRatio      string
	fHFactor        string
	fDockEdge       string
	fOffsetX        string
	fOffsetY        string
	fDefaultWidth   string
	fDefaultHeight  string
	fDebounce       string
	fPreviewKey     string
	fApplyKey       string
	fCancelKey      string
	fCycleKey       string
	fPaletteKey     string
	fPaletteBackend string
	fPollMS         string
	fRefreshSec     string
	fLogLevel       string
}

// NewSettingsTab creates a SettingsTab from the loaded config.
func NewSettingsTab(cfg *config.Config) SettingsTab {
	return SettingsTab{cfg: cfg}
}

// Init implements tea.Model.
func (s SettingsTab) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (s SettingsTab) Update(msg tea.Msg) (SettingsTab, tea.Cmd) {
	if s.editing {
		return s.updateEditing(msg)
	}
	return s.updateDisplay(msg)
}

func (s SettingsTab) updateDisplay(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "e" {
			s.startEditing()
			return s, s.form.Init()
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}
	return s, nil
}

func (s SettingsTab) updateEditing(msg tea.Msg) (SettingsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			s.editing = false
			s.form = nil
			return s, nil
		}
	case tea.WindowSizeMsg:
		s.width = msg.Width
		s.height = msg.Height
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.applyForm()
		s.editing = false
		s.form = nil
		return s, nil
	}

	return s, cmd
}

func (s *SettingsTab) startEditing() {
	cfg := s.cfg
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	s.fStrategy = cfg.Strategy
	s.fMargin = formatFloat(cfg.Placement.Margin)
	s.fEdgeRatio = formatFloat(cfg.Placement.EdgeThresholdRatio)
	s.fHFactor = formatFloat(cfg.Placement.HorizontalFactor)
	s.fDockEdge = cfg.Placement.DockEdge
	s.fOffsetX = formatFloat(cfg.Placement.OffsetX)
	s.fOffsetY = formatFloat(cfg.Placement.OffsetY)
	s.fDefaultWidth = formatFloat(cfg.DefaultSize.Width)
	s.fDefaultHeight = formatFloat(cfg.DefaultSize.Height)
	s.fDebounce = strconv.Itoa(cfg.DebounceMS)
	s.fPreviewKey = cfg.PreviewHotkey
	s.fApplyKey = cfg.ApplyHotkey
	s.fCancelKey = cfg.CancelHotkey
	s.fCycleKey = cfg.CyclePresetHotkey
	s.fPaletteKey = cfg.PaletteHotkey
	s.fPaletteBackend = cfg.PaletteBackend
	s.fPollMS = strconv.Itoa(cfg.PollIntervalMS)
	s.fRefreshSec = strconv.Itoa(cfg.MonitorRefreshSec)
	s.fLogLevel = cfg.LogLevel

	strategyOpts := make([]huh.Option[string], 0, len(placement.Names()))
	for _, name := range placement.Names() {
		strategyOpts = append(strategyOpts, huh.NewOption(name, name))
	}

	dockOpts := []huh.Option[string]{
		huh.NewOption("(default: right)", ""),
		huh.NewOption("left", "left"),
		huh.NewOption("right", "right"),
		huh.NewOption("top", "top"),
		huh.NewOption("bottom", "bottom"),
	}

	backendOpts := []huh.Option[string]{
		huh.NewOption("auto", "auto"),
		huh.NewOption("rofi", "rofi"),
		huh.NewOption("fuzzel", "fuzzel"),
		huh.NewOption("wofi", "wofi"),
		huh.NewOption("dmenu", "dmenu"),
	}

	levelOpts := []huh.Option[string]{
		huh.NewOption("debug", "debug"),
		huh.NewOption("info", "info"),
		huh.NewOption("warn", "warn"),
		huh.NewOption("error", "error"),
	}

	w := s.width - 4
	if w < 40 {
		w = 40
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("strategy").
				Title("Strategy").
				Description("How the companion is positioned").
				Options(strategyOpts...).
				Value(&s.fStrategy),

			huh.NewInput().
				Key("margin").
				Title("Margin").
				Description("Gap between target and companion, pixels").
				Value(&s.fMargin),

			huh.NewInput().
				Key("edge_ratio").
				Title("Edge Threshold Ratio").
				Description("Near-edge zone as a fraction of the monitor").
				Value(&s.fEdgeRatio),

			huh.NewInput().
				Key("horizontal_factor").
				Title("Horizontal Factor").
				Description("Weight of side placement over above/below").
				Value(&s.fHFactor),

			huh.NewSelect[string]().
				Key("dock_edge").
				Title("Dock Edge").
				Description("Edge used by the edge-dock strategy").
				Options(dockOpts...).
				Value(&s.fDockEdge),

			huh.NewInput().
				Key("offset_x").
				Title("Offset X").
				Description("Fixed-offset strategy: horizontal offset").
				Value(&s.fOffsetX),

			huh.NewInput().
				Key("offset_y").
				Title("Offset Y").
				Description("Fixed-offset strategy: vertical offset").
				Value(&s.fOffsetY),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("default_width").
				Title("Default Width").
				Description("Companion width when no preset is chosen").
				Value(&s.fDefaultWidth),

			huh.NewInput().
				Key("default_height").
				Title("Default Height").
				Description("Companion height when no preset is chosen").
				Value(&s.fDefaultHeight),

			huh.NewInput().
				Key("debounce_ms").
				Title("Debounce (ms)").
				Description("Coalescing window for preview size updates").
				Value(&s.fDebounce),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("preview_hotkey").
				Title("Preview Hotkey").
				Value(&s.fPreviewKey),
			huh.NewInput().
				Key("apply_hotkey").
				Title("Apply Hotkey").
				Value(&s.fApplyKey),
			huh.NewInput().
				Key("cancel_hotkey").
				Title("Cancel Hotkey").
				Value(&s.fCancelKey),
			huh.NewInput().
				Key("cycle_preset_hotkey").
				Title("Cycle Preset Hotkey").
				Value(&s.fCycleKey),
			huh.NewInput().
				Key("palette_hotkey").
				Title("Palette Hotkey").
				Value(&s.fPaletteKey),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("palette_backend").
				Title("Palette Backend").
				Options(backendOpts...).
				Value(&s.fPaletteBackend),

			huh.NewInput().
				Key("poll_interval_ms").
				Title("Poll Interval (ms)").
				Description("How often the daemon checks the target window").
				Value(&s.fPollMS),

			huh.NewInput().
				Key("monitor_refresh_sec").
				Title("Monitor Refresh (s)").
				Description("How often the daemon re-enumerates monitors").
				Value(&s.fRefreshSec),

			huh.NewSelect[string]().
				Key("log_level").
				Title("Log Level").
				Options(levelOpts...).
				Value(&s.fLogLevel),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	s.editing = true
}

func (s *SettingsTab) applyForm() {
	if s.cfg == nil {
		return
	}

	if s.fStrategy != "" {
		s.cfg.Strategy = s.fStrategy
	}
	if v, err := strconv.ParseFloat(s.fMargin, 64); err == nil && v >= 0 {
		s.cfg.Placement.Margin = v
	}
	if v, err := strconv.ParseFloat(s.fEdgeRatio, 64); err == nil && v > 0 && v < 1 {
		s.cfg.Placement.EdgeThresholdRatio = v
	}
	if v, err := strconv.ParseFloat(s.fHFactor, 64); err == nil && v > 0 {
		s.cfg.Placement.HorizontalFactor = v
	}
	s.cfg.Placement.DockEdge = s.fDockEdge
	if v, err := strconv.ParseFloat(s.fOffsetX, 64); err == nil {
		s.cfg.Placement.OffsetX = v
	}
	if v, err := strconv.ParseFloat(s.fOffsetY, 64); err == nil {
		s.cfg.Placement.OffsetY = v
	}
	if v, err := strconv.ParseFloat(s.fDefaultWidth, 64); err == nil && v > 0 {
		s.cfg.DefaultSize.Width = v
	}
	if v, err := strconv.ParseFloat(s.fDefaultHeight, 64); err == nil && v > 0 {
		s.cfg.DefaultSize.Height = v
	}
	if v, err := strconv.Atoi(s.fDebounce); err == nil && v >= 0 {
		s.cfg.DebounceMS = v
	}
	if s.fPreviewKey != "" {
		s.cfg.PreviewHotkey = s.fPreviewKey
	}
	if s.fApplyKey != "" {
		s.cfg.ApplyHotkey = s.fApplyKey
	}
	if s.fCancelKey != "" {
		s.cfg.CancelHotkey = s.fCancelKey
	}
	if s.fCycleKey != "" {
		s.cfg.CyclePresetHotkey = s.fCycleKey
	}
	if s.fPaletteKey != "" {
		s.cfg.PaletteHotkey = s.fPaletteKey
	}
	if s.fPaletteBackend != "" {
		s.cfg.PaletteBackend = s.fPaletteBackend
	}
	if v, err := strconv.Atoi(s.fPollMS); err == nil && v >= 0 {
		s.cfg.PollIntervalMS = v
	}
	if v, err := strconv.Atoi(s.fRefreshSec); err == nil && v >= 0 {
		s.cfg.MonitorRefreshSec = v
	}
	if s.fLogLevel != "" {
		s.cfg.LogLevel = s.fLogLevel
	}
}

// View implements tea.Model.
func (s SettingsTab) View() string {
	if s.editing && s.form != nil {
		return s.viewEditing()
	}
	return s.viewDisplay()
}

func (s SettingsTab) viewDisplay() string {
	cfg := s.cfg
	if cfg == nil {
		style := lipgloss.NewStyle().
			Width(s.width).
			Height(s.height).
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center, lipgloss.Center)
		return style.Render("No config loaded")
	}

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Width(22).
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

	placementLine := fmt.Sprintf("margin:%s edge:%s factor:%s",
		formatFloat(cfg.Placement.Margin),
		formatFloat(cfg.Placement.EdgeThresholdRatio),
		formatFloat(cfg.Placement.HorizontalFactor))

	offsetLine := fmt.Sprintf("x:%s y:%s dock:%s",
		formatFloat(cfg.Placement.OffsetX),
		formatFloat(cfg.Placement.OffsetY),
		displayOrDefault(cfg.Placement.DockEdge, "right"))

	lines := []string{
		"",
		row("Preview Hotkey", cfg.PreviewHotkey),
		row("Apply Hotkey", cfg.ApplyHotkey),
		row("Cancel Hotkey", cfg.CancelHotkey),
		row("Cycle Preset Hotkey", cfg.CyclePresetHotkey),
		row("Palette Hotkey", cfg.PaletteHotkey),
		"",
		row("Strategy", cfg.Strategy),
		row("Placement", placementLine),
		row("Strategy Options", offsetLine),
		row("Default Size", fmt.Sprintf("%s×%s", formatFloat(cfg.DefaultSize.Width), formatFloat(cfg.DefaultSize.Height))),
		row("Debounce", fmt.Sprintf("%d ms", cfg.DebounceMS)),
		"",
		row("Poll Interval", fmt.Sprintf("%d ms", cfg.PollIntervalMS)),
		row("Monitor Refresh", fmt.Sprintf("%d s", cfg.MonitorRefreshSec)),
		row("Palette Backend", cfg.PaletteBackend),
		row("Log Level", cfg.LogLevel),
		"",
		dimStyle.Render("  Press 'e' to edit settings"),
	}

	content := strings.Join(lines, "\n")

	contentStyle := lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2)

	return contentStyle.Render(content)
}

func (s SettingsTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing Settings") +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  (esc to cancel)")

	formView := s.form.View()

	content := header + "\n\n" + formView

	style := lipgloss.NewStyle().
		Width(s.width).
		Height(s.height).
		Padding(1, 2)

	return style.Render(content)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func displayOrDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
