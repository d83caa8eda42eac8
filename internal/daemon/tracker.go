package daemon

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/wingman/internal/geometry"
)

// TrackerConfig holds configuration for the tracker.
type TrackerConfig struct {
	PollInterval    time.Duration
	RefreshInterval time.Duration
	Logger          *slog.Logger
}

// Tracker periodically polls the preview target for movement and keeps the
// monitor set in sync with the window system.
type Tracker struct {
	engine *Engine
	logger *slog.Logger

	mu       sync.Mutex
	poll     time.Duration
	refresh  time.Duration
	lastRect geometry.Rect
	haveRect bool
}

// NewTracker creates a tracker polling the given engine.
func NewTracker(cfg TrackerConfig, engine *Engine) *Tracker {
	poll := cfg.PollInterval
	if poll <= 0 {
		poll = 200 * time.Millisecond
	}
	refresh := cfg.RefreshInterval
	if refresh <= 0 {
		refresh = 5 * time.Second
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Tracker{
		engine:  engine,
		logger:  logger,
		poll:    poll,
		refresh: refresh,
	}
}

// SetIntervals updates the polling cadence. Non-positive values keep the
// current setting; changes take effect after the next tick.
func (t *Tracker) SetIntervals(poll, refresh time.Duration) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if poll > 0 {
		t.poll = poll
	}
	if refresh > 0 {
		t.refresh = refresh
	}
}

func (t *Tracker) pollInterval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.poll
}

func (t *Tracker) refreshInterval() time.Duration {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.refresh
}

// Run starts the tracking loop. Blocks until context is cancelled.
func (t *Tracker) Run(ctx context.Context) {
	currentPoll := t.pollInterval()
	currentRefresh := t.refreshInterval()

	pollTicker := time.NewTicker(currentPoll)
	defer pollTicker.Stop()
	refreshTicker := time.NewTicker(currentRefresh)
	defer refreshTicker.Stop()

	t.logger.Info("tracker started", "poll", currentPoll, "refresh", currentRefresh)

	for {
		select {
		case <-ctx.Done():
			t.logger.Info("tracker stopped")
			return
		case <-pollTicker.C:
			t.pollTarget()
			if d := t.pollInterval(); d != currentPoll {
				currentPoll = d
				pollTicker.Reset(d)
			}
		case <-refreshTicker.C:
			t.refreshMonitors()
			if d := t.refreshInterval(); d != currentRefresh {
				currentRefresh = d
				refreshTicker.Reset(d)
			}
		}
	}
}

// pollTarget performs a single movement check on the preview target.
func (t *Tracker) pollTarget() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			t.logger.Error("tracker panic recovered", "error", err)
		}
	}()

	if !t.engine.SessionActive() {
		t.mu.Lock()
		t.haveRect = false
		t.mu.Unlock()
		return
	}

	rect, err := t.engine.TargetRect()
	if err != nil {
		t.logger.Warn("target window gone, stopping preview", "error", err)
		t.engine.StopPreview()
		t.mu.Lock()
		t.haveRect = false
		t.mu.Unlock()
		return
	}

	t.mu.Lock()
	moved := t.haveRect && rect != t.lastRect
	t.lastRect = rect
	t.haveRect = true
	t.mu.Unlock()

	if moved {
		t.engine.TargetMoved()
	}
}

// refreshMonitors performs a single monitor re-enumeration pass.
func (t *Tracker) refreshMonitors() {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if err := recover(); err != nil {
			t.logger.Error("tracker panic recovered", "error", err)
		}
	}()

	changed, err := t.engine.RefreshMonitors()
	if err != nil {
		t.logger.Warn("monitor refresh failed", "error", err)
		return
	}
	if changed {
		t.logger.Info("monitor layout changed", "count", t.engine.MonitorCount())
		if t.engine.SessionActive() {
			t.engine.Reposition()
		}
	}
}

// PollNow triggers an immediate movement check.
func (t *Tracker) PollNow() {
	t.pollTarget()
}
