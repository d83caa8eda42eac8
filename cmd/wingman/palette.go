package main

import (
	"errors"
	"flag"
	"fmt"
	"html"
	"os"
	"strings"

	"github.com/1broseidon/wingman/internal/config"
	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/ipc"
	"github.com/1broseidon/wingman/internal/palette"
	"github.com/1broseidon/wingman/internal/placement"
)

func runPalette(args []string) int {
	fs := flag.NewFlagSet("palette", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/wingman/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: wingman palette [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show a launcher palette for wingman actions.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Menu options:")
		fmt.Fprintln(os.Stderr, "  Presets    - Preview a configured companion size")
		fmt.Fprintln(os.Stderr, "  Strategies - Switch the placement strategy")
		fmt.Fprintln(os.Stderr, "  Daemon     - Apply/cancel the preview, reload, status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings (rofi only):")
		fmt.Fprintln(os.Stderr, "  Enter      - Preview the selected size")
		fmt.Fprintln(os.Stderr, "  Alt+Enter  - Preview and apply immediately")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Backends: rofi, dmenu, wofi, fuzzel (configured via palette_backend, default: auto).")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	cfg, err := loadConfigFrom(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	backend, err := palette.NewBackend(cfg.PaletteBackend)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// Build the hierarchical menu with context in the message bar
	menu := palette.NewMenu(backend, buildRootMenu(cfg))
	menu.SetMessage(buildPaletteMessage(buildContextMessage()))

	result, err := menu.Show()
	if err != nil {
		if errors.Is(err, palette.ErrCancelled) {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	// Alt+Return applies the chosen size right away instead of previewing.
	applyNow := result.ExitCode == palette.ExitCustom1
	return executePaletteAction(result.Action, applyNow, cfg)
}

func buildContextMessage() string {
	var parts []string

	client := ipc.NewClient()
	if status, err := client.GetStatus(); err == nil {
		parts = append(parts, fmt.Sprintf("%d monitors", status.MonitorCount))
		if status.Strategy != "" {
			parts = append(parts, status.Strategy)
		}
		if status.Phase == "active" && status.PreviewWidth > 0 {
			parts = append(parts, fmt.Sprintf("preview %gx%g", status.PreviewWidth, status.PreviewHeight))
		}
	}

	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, " • ")
}

func buildPaletteMessage(contextLine string) string {
	const hints = "<span size='small'>Enter: preview | Alt+Enter: apply immediately</span>"

	contextLine = strings.TrimSpace(contextLine)
	if contextLine == "" {
		return hints
	}

	return fmt.Sprintf("%s\n%s", html.EscapeString(contextLine), hints)
}

func buildRootMenu(cfg *config.Config) []palette.MenuItem {
	return []palette.MenuItem{
		{
			Label:   "Presets",
			Icon:    "view-paged",
			Submenu: buildPresetsMenu(cfg),
		},
		{
			Label:   "Strategies",
			Icon:    "preferences-desktop-display",
			Submenu: buildStrategiesMenu(),
		},
		{
			Label:   "Daemon",
			Icon:    "preferences-system",
			Submenu: buildDaemonMenu(),
		},
	}
}

func buildPresetsMenu(cfg *config.Config) []palette.MenuItem {
	// Highlight the size currently on screen, if any
	var activeW, activeH float64
	client := ipc.NewClient()
	if status, err := client.GetStatus(); err == nil && status.Phase == "active" {
		activeW, activeH = status.PreviewWidth, status.PreviewHeight
	}

	items := make([]palette.MenuItem, 0, len(cfg.Presets)+1)
	items = append(items, palette.MenuItem{
		Label:    fmt.Sprintf("default (%gx%g)", cfg.DefaultSize.Width, cfg.DefaultSize.Height),
		Action:   "size:default",
		Icon:     "view-restore-symbolic",
		Meta:     "default size preview",
		IsActive: activeW == cfg.DefaultSize.Width && activeH == cfg.DefaultSize.Height,
	})

	for _, p := range cfg.Presets {
		items = append(items, palette.MenuItem{
			Label:    fmt.Sprintf("%s (%gx%g)", p.Name, p.Width, p.Height),
			Action:   "preset:" + p.Name,
			Icon:     presetIcon(p),
			Meta:     "preset size preview " + p.Name,
			IsActive: activeW == p.Width && activeH == p.Height,
		})
	}

	return items
}

func presetIcon(p config.Preset) string {
	if p.Height <= 0 {
		return "view-app-grid-symbolic"
	}
	ratio := p.Width / p.Height
	switch {
	case ratio >= 1.6:
		return "view-continuous-symbolic"
	case ratio <= 0.8:
		return "view-column-symbolic"
	default:
		return "view-app-grid-symbolic"
	}
}

func buildStrategiesMenu() []palette.MenuItem {
	// Get current strategy for highlighting
	current := ""
	client := ipc.NewClient()
	if status, err := client.GetStatus(); err == nil {
		current = status.Strategy
	}

	names := placement.Names()
	items := make([]palette.MenuItem, 0, len(names))
	for _, name := range names {
		items = append(items, palette.MenuItem{
			Label:    name,
			Action:   "strategy:" + name,
			Icon:     strategyIcon(name),
			IsActive: name == current,
			Meta:     "strategy placement " + name,
		})
	}
	return items
}

func strategyIcon(name string) string {
	switch name {
	case "smart":
		return "view-app-grid-symbolic"
	case "center":
		return "view-fullscreen-symbolic"
	case "fixed-offset":
		return "view-restore-symbolic"
	case "edge-dock":
		return "view-dual-symbolic"
	case "remembered":
		return "document-save"
	default:
		return "view-grid-symbolic"
	}
}

func buildDaemonMenu() []palette.MenuItem {
	return []palette.MenuItem{
		{
			Label:  "Apply preview",
			Action: "apply",
			Icon:   "document-save",
			Meta:   "apply commit preview size",
		},
		{
			Label:  "Cancel preview",
			Action: "cancel",
			Icon:   "window-close",
			Meta:   "cancel stop dismiss preview",
		},
		{
			Label:  "Reload config",
			Action: "reload",
			Icon:   "view-refresh",
			Meta:   "reload refresh config configuration",
		},
		{
			Label:  "Show status",
			Action: "status",
			Icon:   "dialog-information",
			Meta:   "status info information",
		},
	}
}

func executePaletteAction(action string, applyNow bool, cfg *config.Config) int {
	client := ipc.NewClient()

	switch {
	case action == "noop":
		return 0

	case action == "size:default":
		// Zero size tells the daemon to use its configured default.
		return startPreviewAction(client, geometry.Size{}, applyNow)

	case strings.HasPrefix(action, "preset:"):
		name := strings.TrimPrefix(action, "preset:")
		preset, ok := cfg.PresetNamed(name)
		if !ok {
			fmt.Fprintf(os.Stderr, "palette: unknown preset %q\n", name)
			return 1
		}
		return startPreviewAction(client, geometry.Size{Width: preset.Width, Height: preset.Height}, applyNow)

	case strings.HasPrefix(action, "strategy:"):
		name := strings.TrimPrefix(action, "strategy:")
		if err := client.SetStrategy(name, false); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("Strategy set to %s\n", name)
		return 0

	case action == "apply":
		if err := client.ApplyPreview(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case action == "cancel":
		if err := client.StopPreview(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case action == "reload":
		if err := client.Reload(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("Config reloaded")
		return 0

	case action == "status":
		return runStatus(nil)

	default:
		fmt.Fprintf(os.Stderr, "palette: unknown action %q\n", action)
		return 1
	}
}

func startPreviewAction(client *ipc.Client, size geometry.Size, applyNow bool) int {
	if err := client.StartPreview(size.Width, size.Height); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	if applyNow {
		if err := client.ApplyPreview(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
	}
	return 0
}
