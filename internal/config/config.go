package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// SizeSpec is a companion window size in logical units.
type SizeSpec struct {
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Preset is a named companion size selectable from the palette, hotkeys
// and the CLI.
type Preset struct {
	Name   string  `yaml:"name"`
	Width  float64 `yaml:"width"`
	Height float64 `yaml:"height"`
}

// Placement tunes the positioning engine and carries per-strategy settings.
type Placement struct {
	// Margin is the gap kept between target and companion, logical units.
	Margin float64 `yaml:"margin"`
	// EdgeThresholdRatio sets the near-edge zone as a fraction of the
	// monitor dimension.
	EdgeThresholdRatio float64 `yaml:"edge_threshold_ratio"`
	// HorizontalFactor weights side placement over above/below.
	HorizontalFactor float64 `yaml:"horizontal_factor"`
	// VisibilityLadder overrides the descending visibility fractions the
	// scorer walks. Empty keeps the built-in ladder.
	VisibilityLadder []float64 `yaml:"visibility_ladder,omitempty"`

	// OffsetX/OffsetY feed the fixed-offset strategy.
	OffsetX float64 `yaml:"offset_x,omitempty"`
	OffsetY float64 `yaml:"offset_y,omitempty"`
	// DockEdge feeds the edge-dock strategy: left, right, top or bottom.
	DockEdge string `yaml:"dock_edge,omitempty"`
	// StatePath is where the remembered strategy keeps its offset
	// (default: ~/.config/wingman/offset.json).
	StatePath string `yaml:"state_path,omitempty"`
}

// Logging configures the placement event log.
type Logging struct {
	// Enabled turns event logging on/off
	Enabled bool `yaml:"enabled,omitempty"`
	// Level controls logging verbosity: debug, info, warn, error
	Level string `yaml:"level,omitempty"`
	// File is the log file path (default: ~/.local/share/wingman/events.log)
	File string `yaml:"file,omitempty"`
	// MaxSizeMB is the maximum log file size before rotation (default: 10)
	MaxSizeMB int `yaml:"max_size_mb,omitempty"`
	// MaxFiles is the number of rotated files to keep (default: 3)
	MaxFiles int `yaml:"max_files,omitempty"`
}

// Config is the wingman configuration.
type Config struct {
	// Strategy selects the placement strategy: smart, center, fixed-offset,
	// edge-dock or remembered.
	Strategy  string    `yaml:"strategy"`
	Placement Placement `yaml:"placement,omitempty"`

	// DebounceMS coalesces preview size updates (default: 100).
	DebounceMS int `yaml:"debounce_ms,omitempty"`

	// DefaultSize is the companion size used when none is given.
	DefaultSize SizeSpec `yaml:"default_size"`
	// Presets are the named sizes offered by the palette and preset cycling.
	Presets []Preset `yaml:"presets,omitempty"`

	// PreviewHotkey toggles the preview for the active window.
	PreviewHotkey string `yaml:"preview_hotkey"`
	// ApplyHotkey applies the previewed size to the target window.
	ApplyHotkey string `yaml:"apply_hotkey"`
	// CancelHotkey dismisses the preview without applying.
	CancelHotkey string `yaml:"cancel_hotkey"`
	// CyclePresetHotkey steps through the configured presets.
	CyclePresetHotkey string `yaml:"cycle_preset_hotkey"`
	// PaletteHotkey opens the preset palette.
	PaletteHotkey  string `yaml:"palette_hotkey"`
	PaletteBackend string `yaml:"palette_backend"`

	// PollIntervalMS is how often the daemon checks the target window for
	// movement (default: 200).
	PollIntervalMS int `yaml:"poll_interval_ms,omitempty"`
	// MonitorRefreshSec is how often the daemon re-enumerates monitors
	// (default: 5).
	MonitorRefreshSec int `yaml:"monitor_refresh_sec,omitempty"`

	Display    string `yaml:"display,omitempty"`
	XAuthority string `yaml:"xauthority,omitempty"`

	LogLevel string  `yaml:"log_level"`
	Logging  Logging `yaml:"logging,omitempty"`
}

// DefaultConfig returns the stock configuration.
func DefaultConfig() *Config {
	return &Config{
		Strategy: "smart",
		Placement: Placement{
			Margin:             10,
			EdgeThresholdRatio: 0.15,
			HorizontalFactor:   1.2,
		},
		DebounceMS:  100,
		DefaultSize: SizeSpec{Width: 800, Height: 600},
		Presets: []Preset{
			{Name: "small", Width: 640, Height: 480},
			{Name: "medium", Width: 960, Height: 720},
			{Name: "wide", Width: 1280, Height: 720},
			{Name: "tall", Width: 600, Height: 1000},
		},
		PreviewHotkey:     "Mod4-Mod1-p", // Super+Alt+P for preview
		ApplyHotkey:       "Mod4-Mod1-a", // Super+Alt+A applies the preview
		CancelHotkey:      "Mod4-Mod1-x", // Super+Alt+X cancels it
		CyclePresetHotkey: "Mod4-Mod1-n", // Super+Alt+N for next preset
		PaletteHotkey:     "Mod4-Mod1-g", // Super+Alt+G for palette
		PaletteBackend:    "auto",
		PollIntervalMS:    200,
		MonitorRefreshSec: 5,
		LogLevel:          "info",
	}
}

// ValidationError reports an invalid config value by its YAML path.
type ValidationError struct {
	Path string
	Err  error
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ValidationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

var validStrategies = map[string]bool{
	"smart": true, "center": true, "fixed-offset": true, "edge-dock": true, "remembered": true,
}

var validPaletteBackends = map[string]bool{
	"auto": true, "rofi": true, "fuzzel": true, "dmenu": true, "wofi": true,
}

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warning": true, "warn": true, "error": true,
}

var validDockEdges = map[string]bool{
	"left": true, "right": true, "top": true, "bottom": true,
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if !validStrategies[c.Strategy] {
		return &ValidationError{Path: "strategy", Err: fmt.Errorf("strategy must be one of: smart, center, fixed-offset, edge-dock, remembered")}
	}
	if c.Strategy == "edge-dock" && !validDockEdges[c.Placement.DockEdge] {
		return &ValidationError{Path: "placement.dock_edge", Err: fmt.Errorf("dock_edge must be one of: left, right, top, bottom")}
	}
	if c.Placement.Margin < 0 {
		return &ValidationError{Path: "placement.margin", Err: fmt.Errorf("margin must be >= 0")}
	}
	if c.Placement.EdgeThresholdRatio <= 0 || c.Placement.EdgeThresholdRatio > 0.5 {
		return &ValidationError{Path: "placement.edge_threshold_ratio", Err: fmt.Errorf("edge_threshold_ratio must be in (0, 0.5]")}
	}
	if c.Placement.HorizontalFactor <= 0 {
		return &ValidationError{Path: "placement.horizontal_factor", Err: fmt.Errorf("horizontal_factor must be > 0")}
	}
	for i, v := range c.Placement.VisibilityLadder {
		if v <= 0 || v > 1 {
			return &ValidationError{Path: "placement.visibility_ladder", Err: fmt.Errorf("ladder values must be in (0, 1]")}
		}
		if i > 0 && v >= c.Placement.VisibilityLadder[i-1] {
			return &ValidationError{Path: "placement.visibility_ladder", Err: fmt.Errorf("ladder values must be strictly descending")}
		}
	}
	if c.DebounceMS < 0 {
		return &ValidationError{Path: "debounce_ms", Err: fmt.Errorf("debounce_ms must be >= 0")}
	}
	if c.DefaultSize.Width <= 0 || c.DefaultSize.Height <= 0 {
		return &ValidationError{Path: "default_size", Err: fmt.Errorf("default_size must be positive in both dimensions")}
	}
	seen := make(map[string]bool)
	for _, p := range c.Presets {
		if p.Name == "" {
			return &ValidationError{Path: "presets", Err: fmt.Errorf("preset name is required")}
		}
		if seen[p.Name] {
			return &ValidationError{Path: "presets." + p.Name, Err: fmt.Errorf("duplicate preset name")}
		}
		seen[p.Name] = true
		if p.Width <= 0 || p.Height <= 0 {
			return &ValidationError{Path: "presets." + p.Name, Err: fmt.Errorf("preset size must be positive in both dimensions")}
		}
	}
	if !validPaletteBackends[c.PaletteBackend] {
		return &ValidationError{Path: "palette_backend", Err: fmt.Errorf("palette_backend must be one of: auto, rofi, fuzzel, dmenu, wofi")}
	}
	if c.PollIntervalMS < 0 {
		return &ValidationError{Path: "poll_interval_ms", Err: fmt.Errorf("poll_interval_ms must be >= 0")}
	}
	if c.MonitorRefreshSec < 0 {
		return &ValidationError{Path: "monitor_refresh_sec", Err: fmt.Errorf("monitor_refresh_sec must be >= 0")}
	}
	if !validLogLevels[c.LogLevel] {
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	return nil
}

// Debounce returns the effective update debounce interval.
func (c *Config) Debounce() time.Duration {
	if c.DebounceMS <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// PollInterval returns the effective target polling interval.
func (c *Config) PollInterval() time.Duration {
	if c.PollIntervalMS <= 0 {
		return 200 * time.Millisecond
	}
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// MonitorRefresh returns the effective monitor re-enumeration interval.
func (c *Config) MonitorRefresh() time.Duration {
	if c.MonitorRefreshSec <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.MonitorRefreshSec) * time.Second
}

// PresetNamed returns the preset with the given name.
func (c *Config) PresetNamed(name string) (Preset, bool) {
	for _, p := range c.Presets {
		if p.Name == name {
			return p, true
		}
	}
	return Preset{}, false
}

// GetLoggingConfig returns the logging configuration with defaults applied.
func (c *Config) GetLoggingConfig() Logging {
	if c == nil {
		return Logging{}
	}
	cfg := c.Logging
	if cfg.File == "" {
		home, err := os.UserHomeDir()
		if err != nil || home == "" {
			home = os.Getenv("HOME")
		}
		if home == "" {
			// Last resort fallback - use current directory
			home = "."
		}
		cfg.File = filepath.Join(home, ".local/share/wingman/events.log")
	}
	if cfg.MaxSizeMB == 0 {
		cfg.MaxSizeMB = 10
	}
	if cfg.MaxFiles == 0 {
		cfg.MaxFiles = 3
	}
	if cfg.Level == "" {
		cfg.Level = "info"
	}
	return cfg
}

// Save writes the configuration to the standard location.
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}

	path, err := DefaultConfigPath()
	if err != nil {
		return err
	}
	return c.SaveTo(path)
}

// SaveTo writes the configuration to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
