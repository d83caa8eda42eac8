package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/1broseidon/wingman/internal/config"
	"github.com/1broseidon/wingman/internal/ipc"
)

// presetItem implements list.Item for the preset picker sidebar.
type presetItem struct {
	name   string
	width  float64
	height float64
}

func (i presetItem) Title() string {
	return fmt.Sprintf("%s  %.0f×%.0f", i.name, i.width, i.height)
}

func (i presetItem) Description() string { return "" }
func (i presetItem) FilterValue() string { return i.name }

// statusMsg is sent after an IPC action completes.
type statusMsg struct {
	text string
}

// clearStatusMsg clears the status message after a delay.
type clearStatusMsg struct{}

func flashStatus() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// PresetsTab is the sub-model for the size preset browser tab.
type PresetsTab struct {
	list   list.Model
	client *ipc.Client
	cfg    *config.Config

	// Edit mode
	editing   bool
	form      *huh.Form
	editIndex int // index into cfg.Presets; -1 when adding
	fName     string
	fWidth    string
	fHeight   string

	statusText string

	width  int
	height int
	ready  bool
}

// NewPresetsTab creates a new PresetsTab sub-model.
func NewPresetsTab(client *ipc.Client, cfg *config.Config) PresetsTab {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(buildPresetItems(cfg), delegate, 0, 0)
	l.Title = "Presets"
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return PresetsTab{
		list:      l,
		client:    client,
		cfg:       cfg,
		editIndex: -1,
	}
}

func buildPresetItems(cfg *config.Config) []list.Item {
	if cfg == nil {
		return nil
	}
	items := make([]list.Item, 0, len(cfg.Presets))
	for _, p := range cfg.Presets {
		items = append(items, presetItem{name: p.Name, width: p.Width, height: p.Height})
	}
	return items
}

// Init implements tea.Model.
func (pt PresetsTab) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (pt PresetsTab) Update(msg tea.Msg) (PresetsTab, tea.Cmd) {
	if pt.editing {
		return pt.updateEditing(msg)
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		pt.width = msg.Width
		pt.height = msg.Height
		pt.updateListSize()
		pt.ready = true
		return pt, nil

	case statusMsg:
		pt.statusText = msg.text
		return pt, flashStatus()

	case clearStatusMsg:
		pt.statusText = ""
		return pt, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "enter", "p":
			return pt.previewSelected()
		case "a":
			return pt.applyPreview()
		case "x":
			return pt.cancelPreview()
		case "n":
			pt.startEditing(-1)
			return pt, pt.form.Init()
		case "e":
			if idx := pt.list.Index(); idx >= 0 {
				pt.startEditing(idx)
				return pt, pt.form.Init()
			}
		case "d":
			return pt.deleteSelected()
		}
	}

	var cmd tea.Cmd
	pt.list, cmd = pt.list.Update(msg)
	return pt, cmd
}

func (pt PresetsTab) updateEditing(msg tea.Msg) (PresetsTab, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "esc" {
			pt.editing = false
			pt.form = nil
			return pt, nil
		}
	case tea.WindowSizeMsg:
		pt.width = msg.Width
		pt.height = msg.Height
		pt.updateListSize()
	}

	form, cmd := pt.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		pt.form = f
	}

	if pt.form.State == huh.StateCompleted {
		pt.applyForm()
		pt.editing = false
		pt.form = nil
		return pt, flashStatus()
	}

	return pt, cmd
}

func (pt *PresetsTab) startEditing(idx int) {
	pt.editIndex = idx
	if idx >= 0 && pt.cfg != nil && idx < len(pt.cfg.Presets) {
		p := pt.cfg.Presets[idx]
		pt.fName = p.Name
		pt.fWidth = strconv.FormatFloat(p.Width, 'f', -1, 64)
		pt.fHeight = strconv.FormatFloat(p.Height, 'f', -1, 64)
	} else {
		pt.fName = ""
		pt.fWidth = ""
		pt.fHeight = ""
	}

	w := pt.width - 4
	if w < 40 {
		w = 40
	}

	pt.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("name").
				Title("Name").
				Description("Preset name shown in the palette").
				Value(&pt.fName),

			huh.NewInput().
				Key("width").
				Title("Width").
				Description("Companion width in pixels").
				Value(&pt.fWidth),

			huh.NewInput().
				Key("height").
				Title("Height").
				Description("Companion height in pixels").
				Value(&pt.fHeight),
		),
	).WithWidth(w).WithShowHelp(true).WithShowErrors(true)

	pt.editing = true
}

func (pt *PresetsTab) applyForm() {
	if pt.cfg == nil {
		return
	}

	name := strings.TrimSpace(pt.fName)
	w, errW := strconv.ParseFloat(strings.TrimSpace(pt.fWidth), 64)
	h, errH := strconv.ParseFloat(strings.TrimSpace(pt.fHeight), 64)
	if name == "" || errW != nil || errH != nil || w <= 0 || h <= 0 {
		pt.statusText = "invalid preset: name and positive width/height required"
		return
	}

	p := config.Preset{Name: name, Width: w, Height: h}
	if pt.editIndex >= 0 && pt.editIndex < len(pt.cfg.Presets) {
		pt.cfg.Presets[pt.editIndex] = p
	} else {
		pt.cfg.Presets = append(pt.cfg.Presets, p)
	}
	pt.rebuildItems()
	pt.statusText = fmt.Sprintf("%s: %.0f×%.0f (unsaved, ctrl-s to save)", name, w, h)
}

func (pt *PresetsTab) updateListSize() {
	listHeight := pt.height - 2
	if listHeight < 1 {
		listHeight = 1
	}
	pt.list.SetSize(pt.sidebarWidth(), listHeight)
}

func (pt PresetsTab) sidebarWidth() int {
	sw := pt.width * 35 / 100
	if sw < 20 {
		sw = 20
	}
	if sw > 40 {
		sw = 40
	}
	return sw
}

func (pt PresetsTab) selected() (config.Preset, bool) {
	item, ok := pt.list.SelectedItem().(presetItem)
	if !ok {
		return config.Preset{}, false
	}
	return config.Preset{Name: item.name, Width: item.width, Height: item.height}, true
}

func (pt PresetsTab) previewSelected() (PresetsTab, tea.Cmd) {
	p, ok := pt.selected()
	if !ok {
		return pt, nil
	}
	if err := pt.client.StartPreview(p.Width, p.Height); err != nil {
		pt.statusText = fmt.Sprintf("error: %v", err)
	} else {
		pt.statusText = fmt.Sprintf("previewing: %s (%.0f×%.0f)", p.Name, p.Width, p.Height)
	}
	return pt, flashStatus()
}

func (pt PresetsTab) applyPreview() (PresetsTab, tea.Cmd) {
	if err := pt.client.ApplyPreview(); err != nil {
		pt.statusText = fmt.Sprintf("error: %v", err)
	} else {
		pt.statusText = "applied"
	}
	return pt, flashStatus()
}

func (pt PresetsTab) cancelPreview() (PresetsTab, tea.Cmd) {
	if err := pt.client.StopPreview(); err != nil {
		pt.statusText = fmt.Sprintf("error: %v", err)
	} else {
		pt.statusText = "preview cancelled"
	}
	return pt, flashStatus()
}

func (pt PresetsTab) deleteSelected() (PresetsTab, tea.Cmd) {
	idx := pt.list.Index()
	if pt.cfg == nil || idx < 0 || idx >= len(pt.cfg.Presets) {
		return pt, nil
	}
	name := pt.cfg.Presets[idx].Name
	pt.cfg.Presets = append(pt.cfg.Presets[:idx], pt.cfg.Presets[idx+1:]...)
	pt.rebuildItems()
	pt.statusText = fmt.Sprintf("deleted: %s (unsaved, ctrl-s to save)", name)
	return pt, flashStatus()
}

func (pt *PresetsTab) rebuildItems() {
	pt.list.SetItems(buildPresetItems(pt.cfg))
}

// View implements tea.Model.
func (pt PresetsTab) View() string {
	if pt.editing && pt.form != nil {
		return pt.viewEditing()
	}

	if !pt.ready || pt.width == 0 || pt.height == 0 {
		return ""
	}

	sidebarWidth := pt.sidebarWidth()
	detailWidth := pt.width - sidebarWidth - 3
	if detailWidth < 10 {
		detailWidth = 10
	}

	sidebar := lipgloss.NewStyle().
		Width(sidebarWidth).
		Height(pt.height - 2).
		Render(pt.list.View())

	sep := lipgloss.NewStyle().
		Foreground(lipgloss.Color("238")).
		Render(strings.Repeat("│\n", pt.height-2))

	detail := pt.renderDetail(detailWidth)

	columns := lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " "+sep, detail)
	status := pt.renderTabStatus()

	return lipgloss.JoinVertical(lipgloss.Left, columns, status)
}

func (pt PresetsTab) renderDetail(detailWidth int) string {
	p, ok := pt.selected()
	if !ok {
		return lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render(" no presets configured; press 'n' to add one")
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("15")).
		Render(fmt.Sprintf(" %s  %.0f×%.0f", p.Name, p.Width, p.Height))

	summary := lipgloss.NewStyle().
		Foreground(lipgloss.Color("250")).
		Render(fmt.Sprintf(" aspect %.2f", p.Width/p.Height))

	boxHeight := pt.height - 6
	if boxHeight < 5 {
		boxHeight = 5
	}
	boxWidth := detailWidth - 2
	if boxWidth < 8 {
		boxWidth = 8
	}
	lines := renderPresetBox(p.Width, p.Height, boxWidth, boxHeight)

	box := lipgloss.NewStyle().
		Foreground(lipgloss.Color("247")).
		Render(strings.Join(lines, "\n"))

	return lipgloss.JoinVertical(lipgloss.Left, title, summary, "", box)
}

// renderPresetBox draws the preset rectangle to scale, centered on the canvas.
func renderPresetBox(w, h float64, canvasW, canvasH int) []string {
	if w <= 0 || h <= 0 || canvasW < 8 || canvasH < 4 {
		return emptyCanvas(canvasW, canvasH)
	}

	canvas := make([][]rune, canvasH)
	for i := range canvas {
		canvas[i] = make([]rune, canvasW)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	// Terminal cells are roughly twice as tall as wide.
	aspect := (w / h) * 0.5
	boxW := canvasW - 2
	boxH := int(float64(boxW) / aspect)
	if boxH > canvasH-1 {
		boxH = canvasH - 1
		boxW = int(float64(boxH) * aspect)
	}
	if boxW < 4 {
		boxW = 4
	}
	if boxH < 2 {
		boxH = 2
	}

	x1 := (canvasW - boxW) / 2
	y1 := (canvasH - boxH) / 2
	drawOutline(canvas, x1, y1, x1+boxW-1, y1+boxH-1)
	drawCentered(canvas, fmt.Sprintf("%.0f×%.0f", w, h), x1, y1, x1+boxW-1, y1+boxH-1)

	lines := make([]string, canvasH)
	for i, row := range canvas {
		lines[i] = string(row)
	}
	return lines
}

func (pt PresetsTab) renderTabStatus() string {
	left := ""
	if pt.statusText != "" {
		left = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Render(pt.statusText)
	}

	right := lipgloss.NewStyle().
		Foreground(lipgloss.Color("241")).
		Render("enter/p:preview  a:apply  x:cancel  n:new  e:edit  d:delete")

	gap := pt.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}

	return lipgloss.NewStyle().
		Width(pt.width).
		Padding(0, 1).
		Render(left + strings.Repeat(" ", gap) + right)
}

func (pt PresetsTab) viewEditing() string {
	header := lipgloss.NewStyle().
		Foreground(lipgloss.Color("62")).
		Bold(true).
		Render("Editing Preset") +
		lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Render("  (esc to cancel)")

	content := header + "\n\n" + pt.form.View()

	style := lipgloss.NewStyle().
		Width(pt.width).
		Height(pt.height).
		Padding(1, 2)

	return style.Render(content)
}
