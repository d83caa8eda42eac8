// Package session owns the preview lifecycle: a companion window follows a
// target window around, previewing a requested size until the user applies
// or cancels it.
package session

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/monitor"
	"github.com/1broseidon/wingman/internal/placement"
)

// DefaultDebounce is the coalescing window for size updates.
const DefaultDebounce = 100 * time.Millisecond

var (
	// ErrInvalidSize is returned when a preview is started or updated with
	// a size that is not positive in both dimensions.
	ErrInvalidSize = errors.New("companion size must be positive")
	// ErrNotActive is returned by operations that require a running preview.
	ErrNotActive = errors.New("no active preview session")
)

// Phase is the lifecycle state of the preview session.
type Phase int

const (
	// PhaseIdle means no preview is running
	PhaseIdle Phase = iota
	// PhaseActive means the companion window is visible and tracking
	PhaseActive
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	default:
		return "unknown"
	}
}

// EventKind identifies a lifecycle event.
type EventKind int

const (
	EventStarted EventKind = iota
	EventUpdated
	EventStopped
	EventApplied
)

// String returns the string representation of the event kind
func (k EventKind) String() string {
	switch k {
	case EventStarted:
		return "started"
	case EventUpdated:
		return "updated"
	case EventStopped:
		return "stopped"
	case EventApplied:
		return "applied"
	default:
		return "unknown"
	}
}

// Event is delivered to OnEvent after each lifecycle transition. Size is the
// companion size that triggered the transition; Position is where the
// companion was last placed.
type Event struct {
	Kind     EventKind
	Size     geometry.Size
	Position geometry.Point
}

// OnEventFunc receives lifecycle events. It is called on its own goroutine
// without the session lock held.
type OnEventFunc func(Event)

// TargetWindow is the window whose resize is being previewed.
type TargetWindow interface {
	Rect() (geometry.Rect, error)
	Resize(geometry.Size) error
}

// Companion is the preview window that shadows the target.
type Companion interface {
	Show(geometry.Rect) error
	Move(geometry.Rect) error
	Hide() error
}

// Config holds Manager construction options.
type Config struct {
	// Tuning overrides the placement constants; a zero ladder selects
	// placement.DefaultTuning.
	Tuning placement.Tuning
	// Debounce overrides DefaultDebounce when positive.
	Debounce time.Duration
	Logger   *slog.Logger
}

// Manager drives a preview session. All methods are safe for concurrent
// use; the companion and target are only ever touched under the lock.
type Manager struct {
	mu        sync.Mutex
	phase     Phase
	target    TargetWindow
	companion Companion
	monitors  *monitor.Set
	strategy  placement.Strategy
	tuning    placement.Tuning
	debounce  time.Duration
	logger    *slog.Logger

	timer       *time.Timer
	updateID    uint64
	pendingSize *geometry.Size
	lastSize    geometry.Size
	lastPos     geometry.Point

	// OnEvent is called after each lifecycle transition.
	OnEvent OnEventFunc
}

// Status is a point-in-time snapshot of the session for reporting.
type Status struct {
	Phase        Phase
	Strategy     string
	LastSize     geometry.Size
	LastPosition geometry.Point
	PendingSize  *geometry.Size
}

// NewManager creates an idle session manager.
func NewManager(target TargetWindow, companion Companion, monitors *monitor.Set, strategy placement.Strategy, cfg Config) *Manager {
	tuning := cfg.Tuning
	if tuning.VisibilityLadder == nil {
		tuning = placement.DefaultTuning()
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if strategy == nil {
		strategy = placement.NewSmart(tuning)
	}
	if monitors == nil {
		monitors = monitor.NewSet()
	}

	return &Manager{
		phase:     PhaseIdle,
		target:    target,
		companion: companion,
		monitors:  monitors,
		strategy:  strategy,
		tuning:    tuning,
		debounce:  debounce,
		logger:    logger,
	}
}

// Active reports whether a preview is running.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.phase == PhaseActive
}

// Status returns a snapshot of the session state.
func (m *Manager) Status() Status {
	m.mu.Lock()
	defer m.mu.Unlock()

	st := Status{
		Phase:        m.phase,
		Strategy:     m.strategy.Name(),
		LastSize:     m.lastSize,
		LastPosition: m.lastPos,
	}
	if m.pendingSize != nil {
		pending := *m.pendingSize
		st.PendingSize = &pending
	}
	return st
}

// Start begins a preview at the given companion size. If a preview is
// already running it behaves exactly like Update.
func (m *Manager) Start(size geometry.Size) error {
	if !size.IsPositive() {
		return fmt.Errorf("start preview: %w", ErrInvalidSize)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase == PhaseActive {
		m.scheduleUpdateLocked(size)
		return nil
	}

	rect, err := m.target.Rect()
	if err != nil {
		return fmt.Errorf("failed to read target window: %w", err)
	}
	pos := m.positionLocked(rect, size)
	if err := m.companion.Show(geometry.RectAt(pos, size)); err != nil {
		return fmt.Errorf("failed to show companion window: %w", err)
	}

	m.phase = PhaseActive
	m.lastSize = size
	m.lastPos = pos
	m.emitLocked(EventStarted, size)
	return nil
}

// Update requests a new companion size. Calls within the debounce window
// coalesce; only the most recent size is applied, against the target rect
// current at fire time.
func (m *Manager) Update(size geometry.Size) error {
	if !size.IsPositive() {
		return fmt.Errorf("update preview: %w", ErrInvalidSize)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseActive {
		return fmt.Errorf("update preview: %w", ErrNotActive)
	}
	m.scheduleUpdateLocked(size)
	return nil
}

func (m *Manager) scheduleUpdateLocked(size geometry.Size) {
	pending := size
	m.pendingSize = &pending

	m.updateID++
	updateID := m.updateID
	if m.timer != nil {
		m.timer.Stop()
	}
	m.timer = time.AfterFunc(m.debounce, func() {
		m.mu.Lock()
		defer m.mu.Unlock()

		if m.timer == nil || m.updateID != updateID || m.phase != PhaseActive {
			return
		}

		m.timer = nil
		pending := m.pendingSize
		m.pendingSize = nil
		if pending == nil {
			return
		}
		m.repositionLocked(*pending, EventUpdated)
	})
}

// Stop ends the preview and hides the companion window. Calling it while
// idle is a no-op.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseActive {
		return
	}
	size := m.teardownLocked()
	m.emitLocked(EventStopped, size)
}

// Apply resizes the target window to the last previewed size, then ends
// the preview.
func (m *Manager) Apply() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseActive {
		return fmt.Errorf("apply preview: %w", ErrNotActive)
	}

	size := m.lastSize
	if err := m.target.Resize(size); err != nil {
		return fmt.Errorf("failed to resize target window: %w", err)
	}
	m.teardownLocked()
	m.emitLocked(EventApplied, size)
	return nil
}

// teardownLocked cancels the pending update, hides the companion and moves
// the session to idle. Returns the last previewed size.
func (m *Manager) teardownLocked() geometry.Size {
	m.cancelTimerLocked()
	m.pendingSize = nil
	if err := m.companion.Hide(); err != nil {
		m.logger.Warn("failed to hide companion window", "error", err)
	}
	m.phase = PhaseIdle
	return m.lastSize
}

func (m *Manager) cancelTimerLocked() {
	if m.timer == nil {
		return
	}
	m.timer.Stop()
	m.timer = nil
}

// TargetMoved repositions the companion immediately, bypassing the
// debounce, using the last previewed size against the target's current
// rect. It is a no-op while idle.
func (m *Manager) TargetMoved() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.phase != PhaseActive {
		return
	}
	m.repositionLocked(m.lastSize, EventUpdated)
}

// SetStrategy swaps the placement strategy. An active preview repositions
// immediately under the new strategy.
func (m *Manager) SetStrategy(s placement.Strategy) {
	if s == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.strategy = s
	if m.phase == PhaseActive {
		m.repositionLocked(m.lastSize, EventUpdated)
	}
}

// StrategyName returns the active strategy's name.
func (m *Manager) StrategyName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.strategy.Name()
}

// SetTuning replaces the placement tunables used for fallback positions.
// A zero ladder resets to the defaults.
func (m *Manager) SetTuning(t placement.Tuning) {
	if t.VisibilityLadder == nil {
		t = placement.DefaultTuning()
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tuning = t
}

// SetDebounce changes the update coalescing window. Non-positive values
// reset to DefaultDebounce. A pending update keeps its old deadline.
func (m *Manager) SetDebounce(d time.Duration) {
	if d <= 0 {
		d = DefaultDebounce
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.debounce = d
}

// repositionLocked recomputes the companion position for size against the
// target's current rect and moves the companion there.
func (m *Manager) repositionLocked(size geometry.Size, kind EventKind) {
	rect, err := m.target.Rect()
	if err != nil {
		// Target likely closed; the owner is expected to call Stop.
		m.logger.Warn("failed to read target window", "error", err)
		return
	}

	pos := m.positionLocked(rect, size)
	if err := m.companion.Move(geometry.RectAt(pos, size)); err != nil {
		m.logger.Warn("failed to move companion window", "error", err)
	}

	m.lastSize = size
	m.lastPos = pos
	m.observeLocked(rect, pos)
	m.emitLocked(kind, size)
}

// positionLocked runs the strategy with a panic guard. Strategy failures
// degrade to the constrained center of the target's monitor so the
// companion never ends up off screen.
func (m *Manager) positionLocked(target geometry.Rect, size geometry.Size) geometry.Point {
	monitors := m.monitors.Snapshot()

	pos, err := m.runStrategy(target, size, monitors)
	if err != nil {
		m.logger.Warn("placement strategy failed",
			"strategy", m.strategy.Name(),
			"error", err)
		return m.fallbackPosition(target, size, monitors)
	}
	return pos
}

func (m *Manager) runStrategy(target geometry.Rect, size geometry.Size, monitors []monitor.Descriptor) (pos geometry.Point, err error) {
	// Recover from panics to prevent crashing the daemon
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("strategy panic: %v", r)
		}
	}()
	return m.strategy.Position(target, size, monitors)
}

func (m *Manager) fallbackPosition(target geometry.Rect, size geometry.Size, monitors []monitor.Descriptor) geometry.Point {
	if len(monitors) == 0 {
		return geometry.Point{X: target.Right() + m.tuning.Margin, Y: target.Y}
	}
	wa := monitor.Containing(target, monitors).WorkArea
	p := geometry.Point{
		X: wa.CenterX() - size.Width/2,
		Y: wa.CenterY() - size.Height/2,
	}
	return monitor.ConstrainToScreen(geometry.RectAt(p, size), monitors).Origin()
}

// observeLocked feeds the applied placement back to strategies that learn
// from it.
func (m *Manager) observeLocked(target geometry.Rect, pos geometry.Point) {
	obs, ok := m.strategy.(placement.Observer)
	if !ok {
		return
	}
	if err := obs.Observe(target, pos); err != nil {
		m.logger.Warn("failed to record placement", "error", err)
	}
}

func (m *Manager) emitLocked(kind EventKind, size geometry.Size) {
	if m.OnEvent == nil {
		return
	}
	ev := Event{Kind: kind, Size: size, Position: m.lastPos}
	// Call the callback without holding the lock (it may do I/O).
	go m.OnEvent(ev)
}
