// Package daemon wires the placement session to a live window system:
// it binds preview requests to the currently active window, keeps the
// monitor set fresh and feeds lifecycle events to the placement log.
package daemon

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/1broseidon/wingman/internal/config"
	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/logging"
	"github.com/1broseidon/wingman/internal/monitor"
	"github.com/1broseidon/wingman/internal/placement"
	"github.com/1broseidon/wingman/internal/platform"
	"github.com/1broseidon/wingman/internal/session"
)

// boundTarget pins the session's target to the window that was active when
// the preview started. The session keeps previewing against that window
// even when focus moves elsewhere.
type boundTarget struct {
	mu      sync.Mutex
	backend platform.Backend
	wid     platform.WindowID
	bound   bool
}

var _ session.TargetWindow = (*boundTarget)(nil)

func (t *boundTarget) bind(wid platform.WindowID) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.wid = wid
	t.bound = true
}

func (t *boundTarget) clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bound = false
}

func (t *boundTarget) current() (platform.WindowID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.wid, t.bound
}

func (t *boundTarget) Rect() (geometry.Rect, error) {
	wid, ok := t.current()
	if !ok {
		return geometry.Rect{}, fmt.Errorf("no target window bound")
	}
	return t.backend.WindowRect(wid)
}

// Resize changes the target's size in place, keeping its current origin.
func (t *boundTarget) Resize(size geometry.Size) error {
	wid, ok := t.current()
	if !ok {
		return fmt.Errorf("no target window bound")
	}
	rect, err := t.backend.WindowRect(wid)
	if err != nil {
		return err
	}
	return t.backend.MoveResizeWindow(wid, geometry.RectAt(rect.Origin(), size))
}

// Engine is the daemon core: one preview session bound to the active
// window, backed by the platform's monitor enumeration.
type Engine struct {
	mu      sync.Mutex
	cfg     *config.Config
	backend platform.Backend

	refreshMu sync.Mutex
	monitors  *monitor.Set

	sess   *session.Manager
	target *boundTarget
	events *logging.Logger
	logger *slog.Logger
}

// NewEngine builds the daemon core. The initial monitor enumeration is
// best-effort; the tracker retries on its refresh interval.
func NewEngine(cfg *config.Config, backend platform.Backend, companion session.Companion, events *logging.Logger, logger *slog.Logger) (*Engine, error) {
	if logger == nil {
		logger = slog.Default()
	}

	monitors := monitor.NewSet()
	if err := monitors.RefreshFrom(backend); err != nil {
		logger.Warn("initial monitor enumeration failed", "error", err)
	}

	strategy, err := placement.New(cfg.Strategy, TuningFromConfig(cfg), OptionsFromConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to build placement strategy: %w", err)
	}

	target := &boundTarget{backend: backend}
	sess := session.NewManager(target, companion, monitors, strategy, session.Config{
		Tuning:   TuningFromConfig(cfg),
		Debounce: cfg.Debounce(),
		Logger:   logger,
	})

	e := &Engine{
		cfg:      cfg,
		backend:  backend,
		monitors: monitors,
		sess:     sess,
		target:   target,
		events:   events,
		logger:   logger,
	}
	sess.OnEvent = e.onSessionEvent
	return e, nil
}

// StartPreview begins previewing a companion of the given size next to the
// active window. While a preview is already running this acts as an update
// and keeps the original target.
func (e *Engine) StartPreview(size geometry.Size) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.sess.Active() {
		wid, err := e.backend.ActiveWindow()
		if err != nil {
			return fmt.Errorf("failed to find target window: %w", err)
		}
		if !e.backend.IsNormalWindow(wid) {
			return fmt.Errorf("active window is not a normal application window")
		}
		e.target.bind(wid)
		if err := e.sess.Start(size); err != nil {
			e.target.clear()
			return err
		}
		return nil
	}

	return e.sess.Start(size)
}

// UpdatePreview feeds a new companion size into the running session.
func (e *Engine) UpdatePreview(size geometry.Size) error {
	return e.sess.Update(size)
}

// StopPreview cancels the preview and releases the target window.
func (e *Engine) StopPreview() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.sess.Stop()
	e.target.clear()
}

// ApplyPreview resizes the target window to the previewed size and ends
// the session. A failed resize keeps the preview running.
func (e *Engine) ApplyPreview() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err := e.sess.Apply(); err != nil {
		return err
	}
	e.target.clear()
	return nil
}

// ComputePosition runs a placement dry-run against the active window
// without touching the session. An empty strategy name uses the session's
// active strategy.
func (e *Engine) ComputePosition(size geometry.Size, strategyName string) (geometry.Point, string, error) {
	name := strategyName
	if name == "" {
		name = e.sess.StrategyName()
	}

	e.mu.Lock()
	cfg := e.cfg
	e.mu.Unlock()

	strat, err := placement.New(name, TuningFromConfig(cfg), OptionsFromConfig(cfg))
	if err != nil {
		return geometry.Point{}, "", err
	}

	wid, err := e.backend.ActiveWindow()
	if err != nil {
		return geometry.Point{}, "", fmt.Errorf("failed to find target window: %w", err)
	}
	if !e.backend.IsNormalWindow(wid) {
		return geometry.Point{}, "", fmt.Errorf("active window is not a normal application window")
	}
	rect, err := e.backend.WindowRect(wid)
	if err != nil {
		return geometry.Point{}, "", fmt.Errorf("failed to read target window: %w", err)
	}

	pos, err := strat.Position(rect, size, e.monitors.Snapshot())
	if err != nil {
		return geometry.Point{}, "", fmt.Errorf("placement failed: %w", err)
	}

	e.events.Log(logging.EventPlacement, map[string]interface{}{
		"strategy": strat.Name(),
		"width":    size.Width,
		"height":   size.Height,
		"x":        pos.X,
		"y":        pos.Y,
	})
	return pos, strat.Name(), nil
}

// SessionStatus returns a snapshot of the preview session.
func (e *Engine) SessionStatus() session.Status {
	return e.sess.Status()
}

// SessionActive reports whether a preview is running.
func (e *Engine) SessionActive() bool {
	return e.sess.Active()
}

// TargetRect returns the bound target window's current geometry.
func (e *Engine) TargetRect() (geometry.Rect, error) {
	return e.target.Rect()
}

// Monitors re-enumerates the attached monitors and returns them. When
// enumeration fails the last known set is served instead, so transient X
// errors don't blank out status output.
func (e *Engine) Monitors() ([]monitor.Descriptor, error) {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	if err := e.monitors.RefreshFrom(e.backend); err != nil {
		snap := e.monitors.Snapshot()
		if len(snap) > 0 {
			e.logger.Warn("monitor enumeration failed, serving last known set", "error", err)
			return snap, nil
		}
		return nil, err
	}
	return e.monitors.Snapshot(), nil
}

// MonitorCount returns the size of the current monitor set.
func (e *Engine) MonitorCount() int {
	return e.monitors.Len()
}

// RefreshMonitors re-enumerates monitors and reports whether the set
// changed since the last refresh.
func (e *Engine) RefreshMonitors() (bool, error) {
	e.refreshMu.Lock()
	defer e.refreshMu.Unlock()

	before := e.monitors.Snapshot()
	if err := e.monitors.RefreshFrom(e.backend); err != nil {
		return false, err
	}
	after := e.monitors.Snapshot()

	if monitorsEqual(before, after) {
		return false, nil
	}
	e.events.Log(logging.EventMonitorChange, map[string]interface{}{
		"count": len(after),
	})
	return true, nil
}

func monitorsEqual(a, b []monitor.Descriptor) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !descriptorEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func descriptorEqual(a, b monitor.Descriptor) bool {
	return a.ID == b.ID &&
		a.Bounds == b.Bounds &&
		a.WorkArea == b.WorkArea &&
		a.Primary == b.Primary &&
		a.DPIX == b.DPIX &&
		a.DPIY == b.DPIY
}

// SetStrategy switches the live placement strategy. An active preview
// repositions immediately.
func (e *Engine) SetStrategy(name string) error {
	e.mu.Lock()
	cfg := e.cfg
	e.mu.Unlock()

	strat, err := placement.New(name, TuningFromConfig(cfg), OptionsFromConfig(cfg))
	if err != nil {
		return err
	}
	e.sess.SetStrategy(strat)
	e.events.Log(logging.EventStrategyChange, map[string]interface{}{
		"strategy": strat.Name(),
	})
	return nil
}

// StrategyName returns the session's active strategy name.
func (e *Engine) StrategyName() string {
	return e.sess.StrategyName()
}

// TargetMoved tells the session its target window changed geometry; an
// active preview repositions against the new rect.
func (e *Engine) TargetMoved() {
	e.events.Log(logging.EventTargetMove, nil)
	e.sess.TargetMoved()
}

// Reposition re-runs placement for an active preview without recording a
// target move, for repositioning after monitor layout changes.
func (e *Engine) Reposition() {
	e.sess.TargetMoved()
}

// ApplyConfig installs a reloaded configuration: tuning and debounce take
// effect immediately, and the strategy is rebuilt so option changes (dock
// edge, offsets) stick even when the name stayed the same.
func (e *Engine) ApplyConfig(cfg *config.Config) {
	e.mu.Lock()
	old := e.cfg
	e.cfg = cfg
	e.mu.Unlock()

	e.sess.SetTuning(TuningFromConfig(cfg))
	e.sess.SetDebounce(cfg.Debounce())

	strat, err := placement.New(cfg.Strategy, TuningFromConfig(cfg), OptionsFromConfig(cfg))
	if err != nil {
		e.logger.Warn("failed to rebuild strategy from config", "strategy", cfg.Strategy, "error", err)
		return
	}
	e.sess.SetStrategy(strat)
	if old == nil || cfg.Strategy != old.Strategy {
		e.events.Log(logging.EventStrategyChange, map[string]interface{}{
			"strategy": strat.Name(),
		})
	}
}

// onSessionEvent forwards session lifecycle transitions to the event log.
func (e *Engine) onSessionEvent(ev session.Event) {
	fields := map[string]interface{}{
		"strategy": e.sess.StrategyName(),
		"width":    ev.Size.Width,
		"height":   ev.Size.Height,
		"x":        ev.Position.X,
		"y":        ev.Position.Y,
	}
	switch ev.Kind {
	case session.EventStarted:
		e.events.Log(logging.EventPreviewStart, fields)
	case session.EventUpdated:
		e.events.Log(logging.EventPreviewUpdate, fields)
	case session.EventStopped:
		e.events.Log(logging.EventPreviewStop, fields)
	case session.EventApplied:
		e.events.Log(logging.EventPreviewApply, fields)
	}
}

// TuningFromConfig merges the config's placement block over the default
// tuning. Zero-valued fields keep the defaults, except Margin where zero
// is a legitimate "no gap" setting.
func TuningFromConfig(cfg *config.Config) placement.Tuning {
	t := placement.DefaultTuning()
	if cfg == nil {
		return t
	}
	p := cfg.Placement
	if p.Margin >= 0 {
		t.Margin = p.Margin
	}
	if p.EdgeThresholdRatio > 0 {
		t.EdgeThresholdRatio = p.EdgeThresholdRatio
	}
	if p.HorizontalFactor > 0 {
		t.HorizontalFactor = p.HorizontalFactor
	}
	if len(p.VisibilityLadder) > 0 {
		t.VisibilityLadder = append([]float64(nil), p.VisibilityLadder...)
	}
	return t
}

// OptionsFromConfig extracts the per-strategy settings from config.
func OptionsFromConfig(cfg *config.Config) placement.Options {
	if cfg == nil {
		return placement.Options{}
	}
	return placement.Options{
		OffsetX:   cfg.Placement.OffsetX,
		OffsetY:   cfg.Placement.OffsetY,
		DockEdge:  cfg.Placement.DockEdge,
		StatePath: cfg.Placement.StatePath,
	}
}
