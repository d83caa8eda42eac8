package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/1broseidon/wingman/internal/config"
	"github.com/1broseidon/wingman/internal/daemon"
	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/hotkeys"
	"github.com/1broseidon/wingman/internal/ipc"
	"github.com/1broseidon/wingman/internal/logging"
	"github.com/1broseidon/wingman/internal/placement"
	"github.com/1broseidon/wingman/internal/platform"
	"github.com/1broseidon/wingman/internal/tui"
	"github.com/1broseidon/wingman/internal/x11"
	"gopkg.in/yaml.v3"
)

const version = "0.1.0"

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		if len(os.Args) > 2 && (os.Args[2] == "help" || os.Args[2] == "-h" || os.Args[2] == "--help") {
			fmt.Fprintln(os.Stdout, "Usage: wingman daemon")
			os.Exit(0)
		}
		if len(os.Args) > 2 {
			fmt.Fprintln(os.Stderr, "daemon takes no arguments")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Usage: wingman daemon")
			os.Exit(2)
		}
		runDaemon()
	case "status":
		os.Exit(runStatus(os.Args[2:]))
	case "monitors":
		os.Exit(runMonitors(os.Args[2:]))
	case "preview":
		os.Exit(runPreview(os.Args[2:]))
	case "compute":
		os.Exit(runCompute(os.Args[2:]))
	case "strategy":
		os.Exit(runStrategy(os.Args[2:]))
	case "presets":
		os.Exit(runPresets(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "palette":
		os.Exit(runPalette(os.Args[2:]))
	case "tui":
		os.Exit(runTUI(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "version", "--version", "-v":
		fmt.Println("wingman " + version)
		os.Exit(0)
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: wingman <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the wingman daemon (foreground)")
	fmt.Fprintln(w, "  status              Show daemon status")
	fmt.Fprintln(w, "  monitors            List monitors seen by the daemon")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  preview start       Start a companion preview for the active window")
	fmt.Fprintln(w, "  preview update      Resize the running preview")
	fmt.Fprintln(w, "  preview stop        Dismiss the preview")
	fmt.Fprintln(w, "  preview apply       Commit the previewed size to the target window")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  compute             Compute a companion position without previewing")
	fmt.Fprintln(w, "  strategy            Show or set the placement strategy")
	fmt.Fprintln(w, "  presets             List configured size presets")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config show         Print configuration")
	fmt.Fprintln(w, "  config path         Print the config file location")
	fmt.Fprintln(w, "  config init         Write a default config file")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  palette             Open the preset palette (rofi/dmenu/wofi/fuzzel)")
	fmt.Fprintln(w, "  tui                 Open the interactive TUI")
	fmt.Fprintln(w, "  mcp serve           Start the MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'wingman <command> --help' for command-specific options.")
}

// parseSize parses a WxH size argument like "800x600".
func parseSize(s string) (geometry.Size, error) {
	parts := strings.SplitN(strings.ToLower(strings.TrimSpace(s)), "x", 2)
	if len(parts) != 2 {
		return geometry.Size{}, fmt.Errorf("invalid size %q (expected WxH, e.g. 800x600)", s)
	}
	w, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid width in size %q", s)
	}
	h, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return geometry.Size{}, fmt.Errorf("invalid height in size %q", s)
	}
	if w <= 0 || h <= 0 {
		return geometry.Size{}, fmt.Errorf("size must be positive in both dimensions, got %q", s)
	}
	return geometry.Size{Width: w, Height: h}, nil
}

func loadConfigFrom(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}

func runStatus(args []string) int {
	fs := flag.NewFlagSet("status", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wingman status")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Show daemon status via IPC.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "status takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	status, err := client.GetStatus()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	fmt.Printf("daemon_running: %v\n", status.DaemonRunning)
	fmt.Printf("phase:          %s\n", status.Phase)
	fmt.Printf("strategy:       %s\n", status.Strategy)
	fmt.Printf("monitors:       %d\n", status.MonitorCount)
	fmt.Printf("uptime_seconds: %d\n", status.UptimeSeconds)
	if status.Phase == "active" && status.PreviewWidth > 0 {
		fmt.Printf("preview:        %gx%g at (%g, %g)\n",
			status.PreviewWidth, status.PreviewHeight, status.PreviewX, status.PreviewY)
	}
	return 0
}

func runMonitors(args []string) int {
	fs := flag.NewFlagSet("monitors", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wingman monitors [--json]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the monitors the daemon is placing against. The primary")
		fmt.Fprintln(os.Stderr, "monitor is starred.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	jsonOut := fs.Bool("json", false, "Output monitor details as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "monitors takes no arguments")
		fs.Usage()
		return 2
	}

	client := ipc.NewClient()
	data, err := client.GetMonitors()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(data.Monitors); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	for _, m := range data.Monitors {
		name := m.ID
		if m.Primary {
			name += "*"
		}
		fmt.Printf("%-12s %gx%g+%g+%g  work %gx%g+%g+%g  dpi %gx%g\n",
			name,
			m.Width, m.Height, m.X, m.Y,
			m.WorkWidth, m.WorkHeight, m.WorkX, m.WorkY,
			m.DPIX, m.DPIY)
	}
	return 0
}

func printPreviewUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  wingman preview start [--size WxH | --preset NAME]")
	fmt.Fprintln(w, "  wingman preview update --size WxH")
	fmt.Fprintln(w, "  wingman preview stop")
	fmt.Fprintln(w, "  wingman preview apply")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'wingman preview <command> --help' for command-specific options.")
}

func runPreview(args []string) int {
	if len(args) == 0 {
		printPreviewUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printPreviewUsage(os.Stdout)
		return 0
	}

	client := ipc.NewClient()

	switch args[0] {
	case "start":
		fs := flag.NewFlagSet("start", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: wingman preview start [--size WxH | --preset NAME]")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Start a companion preview next to the active window. Without")
			fmt.Fprintln(os.Stderr, "--size or --preset the configured default_size is used.")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Flags:")
			fs.PrintDefaults()
		}
		sizeArg := fs.String("size", "", "Companion size as WxH")
		presetArg := fs.String("preset", "", "Use a named preset from the config")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if fs.NArg() != 0 {
			fmt.Fprintln(os.Stderr, "preview start takes no arguments")
			fs.Usage()
			return 2
		}
		if *sizeArg != "" && *presetArg != "" {
			fmt.Fprintln(os.Stderr, "--size and --preset are mutually exclusive")
			return 2
		}

		var size geometry.Size
		if *sizeArg != "" {
			var err error
			size, err = parseSize(*sizeArg)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 2
			}
		} else if *presetArg != "" {
			cfg, err := config.Load()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
			preset, ok := cfg.PresetNamed(*presetArg)
			if !ok {
				fmt.Fprintf(os.Stderr, "unknown preset %q\n", *presetArg)
				return 1
			}
			size = geometry.Size{Width: preset.Width, Height: preset.Height}
		}

		if err := client.StartPreview(size.Width, size.Height); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "update":
		fs := flag.NewFlagSet("update", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		fs.Usage = func() {
			fmt.Fprintln(os.Stderr, "Usage: wingman preview update --size WxH")
			fmt.Fprintln(os.Stderr, "")
			fmt.Fprintln(os.Stderr, "Resize the running preview. Updates are debounced by the daemon.")
		}
		sizeArg := fs.String("size", "", "New companion size as WxH")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}
		if *sizeArg == "" {
			fmt.Fprintln(os.Stderr, "preview update requires --size")
			fs.Usage()
			return 2
		}
		size, err := parseSize(*sizeArg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 2
		}
		if err := client.UpdatePreview(size.Width, size.Height); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "stop":
		if err := client.StopPreview(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	case "apply":
		if err := client.ApplyPreview(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown preview command: %s\n\n", args[0])
		printPreviewUsage(os.Stderr)
		return 2
	}
}

func runCompute(args []string) int {
	fs := flag.NewFlagSet("compute", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wingman compute [--strategy NAME] [--json] <WxH>")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Compute where a companion of the given size would go for the")
		fmt.Fprintln(os.Stderr, "active window, without showing anything.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	strategyArg := fs.String("strategy", "", "Strategy override (default: the daemon's active strategy)")
	jsonOut := fs.Bool("json", false, "Output the computed placement as JSON")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "compute requires <WxH>")
		fs.Usage()
		return 2
	}

	size, err := parseSize(fs.Arg(0))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	client := ipc.NewClient()
	res, err := client.ComputePosition(size.Width, size.Height, *strategyArg)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if *jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(res); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	fmt.Printf("position: %g,%g\n", res.X, res.Y)
	fmt.Printf("size:     %gx%g\n", res.Width, res.Height)
	fmt.Printf("strategy: %s\n", res.Strategy)
	return 0
}

func runStrategy(args []string) int {
	fs := flag.NewFlagSet("strategy", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wingman strategy [--persist] [name]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Without a name, print the daemon's active placement strategy.")
		fmt.Fprintf(os.Stderr, "With a name, switch to it. Strategies: %s.\n", strings.Join(placement.Names(), ", "))
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	persist := fs.Bool("persist", false, "Also write the strategy to the config file")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	client := ipc.NewClient()

	if fs.NArg() == 0 {
		status, err := client.GetStatus()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(status.Strategy)
		return 0
	}
	if fs.NArg() > 1 {
		fmt.Fprintln(os.Stderr, "strategy takes at most one name")
		fs.Usage()
		return 2
	}

	if err := client.SetStrategy(fs.Arg(0), *persist); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runPresets(args []string) int {
	fs := flag.NewFlagSet("presets", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: wingman presets [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List the size presets from the config file.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Flags:")
		fs.PrintDefaults()
	}
	path := fs.String("path", "", "Config file path (default: ~/.config/wingman/config.yaml)")
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "presets takes no arguments")
		fs.Usage()
		return 2
	}

	cfg, err := loadConfigFrom(*path)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	fmt.Printf("%-12s %gx%g (default)\n", "default", cfg.DefaultSize.Width, cfg.DefaultSize.Height)
	for _, p := range cfg.Presets {
		fmt.Printf("%-12s %gx%g\n", p.Name, p.Width, p.Height)
	}
	return 0
}

func printConfigUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  wingman config show [--path PATH] [--defaults]")
	fmt.Fprintln(w, "  wingman config path")
	fmt.Fprintln(w, "  wingman config init [--path PATH] [--force]")
	fmt.Fprintln(w, "  wingman config validate [--path PATH]")
}

func runConfig(args []string) int {
	if len(args) == 0 {
		printConfigUsage(os.Stderr)
		return 2
	}
	if args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printConfigUsage(os.Stdout)
		return 0
	}

	switch args[0] {
	case "show":
		fs := flag.NewFlagSet("show", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/wingman/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			var err error
			cfg, err = loadConfigFrom(*path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		data, err := yaml.Marshal(cfg)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	case "path":
		p, err := config.DefaultConfigPath()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println(p)
		return 0

	case "init":
		fs := flag.NewFlagSet("init", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/wingman/config.yaml)")
		force := fs.Bool("force", false, "Overwrite an existing config file")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		target := *path
		if target == "" {
			var err error
			target, err = config.DefaultConfigPath()
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		if _, err := os.Stat(target); err == nil && !*force {
			fmt.Fprintf(os.Stderr, "config already exists at %s (use --force to overwrite)\n", target)
			return 1
		}
		if err := config.DefaultConfig().SaveTo(target); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Printf("wrote %s\n", target)
		return 0

	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/wingman/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			if err == flag.ErrHelp {
				return 0
			}
			return 2
		}

		if _, err := loadConfigFrom(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config subcommand: %s\n", args[0])
		return 2
	}
}

func runTUI(args []string) int {
	fs := flag.NewFlagSet("tui", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	path := fs.String("path", "", "Config file path (default: ~/.config/wingman/config.yaml)")

	if len(args) > 0 && (args[0] == "help" || args[0] == "-h" || args[0] == "--help") {
		fmt.Fprintln(os.Stderr, "Usage: wingman tui [--path PATH]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Interactive TUI for daemon status, presets and settings.")
		fmt.Fprintln(os.Stderr, "Works as an offline config editor when the daemon is not running.")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Keybindings:")
		fmt.Fprintln(os.Stderr, "  Tab/Shift+Tab  Switch tabs (1-3 jumps)")
		fmt.Fprintln(os.Stderr, "  Enter, p       Preview selected preset (daemon)")
		fmt.Fprintln(os.Stderr, "  a / x          Apply / cancel the preview (daemon)")
		fmt.Fprintln(os.Stderr, "  n / e / d      New / edit / delete preset")
		fmt.Fprintln(os.Stderr, "  Ctrl+S         Save config (with change preview)")
		fmt.Fprintln(os.Stderr, "  q, Ctrl+C      Quit")
		return 0
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if err := tui.Run(*path); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return 0
}

func runDaemon() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	log.Printf("Configuration loaded (strategy: %s, default size: %gx%g)",
		cfg.Strategy, cfg.DefaultSize.Width, cfg.DefaultSize.Height)

	applyDisplayEnv(cfg)

	// Connect to display server
	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	defer backend.Disconnect()

	log.Println("wingman daemon started successfully")

	// Placement event log
	logCfg := cfg.GetLoggingConfig()
	events, err := logging.NewLogger(logging.Config{
		Enabled:   logCfg.Enabled,
		Level:     logging.ParseLogLevel(logCfg.Level),
		FilePath:  logCfg.File,
		MaxSizeMB: logCfg.MaxSizeMB,
		MaxFiles:  logCfg.MaxFiles,
	})
	if err != nil {
		log.Printf("Warning: event log disabled: %v", err)
	}
	defer events.Close()

	// Companion overlay window
	overlay := x11.NewCompanionOverlay(backend.XUtil(), backend.RootWindow())
	defer overlay.Destroy()

	slogger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))

	engine, err := daemon.NewEngine(cfg, backend, daemon.NewOverlayCompanion(overlay), events, slogger)
	if err != nil {
		log.Fatalf("Failed to initialize placement engine: %v", err)
	}
	log.Printf("Placement engine initialized (%d monitors)", engine.MonitorCount())

	// Setup hotkey handler
	hotkeyHandler := hotkeys.NewHandler(backend, engine)
	hotkeyHandler.SetSizes(geometry.Size{Width: cfg.DefaultSize.Width, Height: cfg.DefaultSize.Height}, cfg.Presets)
	registerHotkeys(hotkeyHandler, cfg)

	// Create config reload channel
	reloadChan := make(chan struct{}, 1)

	// Start IPC server
	ipcServer, err := ipc.NewServer(cfg, engine, reloadChan)
	if err != nil {
		log.Fatalf("Failed to create IPC server: %v", err)
	}
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	// Start target/monitor tracker in background
	tracker := daemon.NewTracker(daemon.TrackerConfig{
		PollInterval:    cfg.PollInterval(),
		RefreshInterval: cfg.MonitorRefresh(),
		Logger:          slogger,
	}, engine)

	trackerCtx, trackerCancel := context.WithCancel(context.Background())
	defer trackerCancel()
	go tracker.Run(trackerCtx)

	// Setup signal handlers
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)

	// Handle signals and config reloads
	go func() {
		for {
			select {
			case sig := <-sigCh:
				switch sig {
				case syscall.SIGHUP:
					log.Println("Received SIGHUP, reloading config...")
					newCfg, err := config.Load()
					if err != nil {
						log.Printf("Config reload failed: %v", err)
						continue
					}
					ipcServer.UpdateConfig(newCfg)
					applyReload(newCfg, engine, tracker, hotkeyHandler)
					log.Println("Config reloaded successfully")

				case os.Interrupt, syscall.SIGTERM:
					log.Println("Shutting down wingman daemon...")
					engine.StopPreview()
					trackerCancel()
					ipcServer.Stop()
					overlay.Destroy()
					events.Close()
					backend.Disconnect()
					os.Exit(0)
				}

			case <-reloadChan:
				// Config was reloaded via IPC, update components
				applyReload(ipcServer.GetConfig(), engine, tracker, hotkeyHandler)
			}
		}
	}()

	// Start event loop (blocking)
	log.Println("Entering event loop...")
	backend.EventLoop()
}

// applyReload fans a fresh config out to the running components.
func applyReload(cfg *config.Config, engine *daemon.Engine, tracker *daemon.Tracker, hk *hotkeys.Handler) {
	engine.ApplyConfig(cfg)
	tracker.SetIntervals(cfg.PollInterval(), cfg.MonitorRefresh())
	hk.SetSizes(geometry.Size{Width: cfg.DefaultSize.Width, Height: cfg.DefaultSize.Height}, cfg.Presets)
}

func registerHotkeys(h *hotkeys.Handler, cfg *config.Config) {
	if cfg.PreviewHotkey != "" {
		if err := h.RegisterPreviewToggle(cfg.PreviewHotkey); err != nil {
			log.Printf("Warning: Failed to register preview hotkey: %v", err)
		} else {
			log.Printf("Preview hotkey registered: %s", cfg.PreviewHotkey)
		}
	}
	if cfg.ApplyHotkey != "" {
		if err := h.RegisterApply(cfg.ApplyHotkey); err != nil {
			log.Printf("Warning: Failed to register apply hotkey: %v", err)
		} else {
			log.Printf("Apply hotkey registered: %s", cfg.ApplyHotkey)
		}
	}
	if cfg.CancelHotkey != "" {
		if err := h.RegisterCancel(cfg.CancelHotkey); err != nil {
			log.Printf("Warning: Failed to register cancel hotkey: %v", err)
		} else {
			log.Printf("Cancel hotkey registered: %s", cfg.CancelHotkey)
		}
	}
	if cfg.CyclePresetHotkey != "" {
		if err := h.RegisterCyclePreset(cfg.CyclePresetHotkey); err != nil {
			log.Printf("Warning: Failed to register cycle preset hotkey: %v", err)
		} else {
			log.Printf("Cycle preset hotkey registered: %s", cfg.CyclePresetHotkey)
		}
	}
	if cfg.PaletteHotkey != "" {
		if err := h.RegisterPalette(cfg.PaletteHotkey, launchPalette); err != nil {
			log.Printf("Warning: Failed to register palette hotkey: %v", err)
		} else {
			log.Printf("Palette hotkey registered: %s", cfg.PaletteHotkey)
		}
	}
}

// launchPalette re-invokes the wingman binary as "wingman palette". The
// palette blocks on its backend process, so it runs outside the daemon.
func launchPalette() {
	exe, err := os.Executable()
	if err != nil {
		log.Printf("Palette: failed to find executable: %v", err)
		return
	}
	cmd := exec.Command(exe, "palette")
	cmd.Stderr = os.Stderr
	if err := cmd.Start(); err != nil {
		log.Printf("Palette: failed to launch: %v", err)
		return
	}
	go cmd.Wait()
}

// applyDisplayEnv exports the configured DISPLAY/XAUTHORITY so the X11
// connection and spawned palette processes target the right server.
func applyDisplayEnv(cfg *config.Config) {
	if cfg.Display != "" {
		os.Setenv("DISPLAY", cfg.Display)
	}
	if cfg.XAuthority != "" {
		os.Setenv("XAUTHORITY", cfg.XAuthority)
	}
}

func slogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
