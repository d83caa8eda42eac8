package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/monitor"
	"github.com/1broseidon/wingman/internal/placement"
)

type fakeTarget struct {
	mu      sync.Mutex
	rect    geometry.Rect
	rectErr error
	resizes []geometry.Size
}

func (f *fakeTarget) Rect() (geometry.Rect, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.rect, f.rectErr
}

func (f *fakeTarget) Resize(s geometry.Size) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resizes = append(f.resizes, s)
	f.rect.Width = s.Width
	f.rect.Height = s.Height
	return nil
}

func (f *fakeTarget) moveTo(x, y float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rect.X = x
	f.rect.Y = y
}

func (f *fakeTarget) resizeCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.resizes)
}

type fakeCompanion struct {
	mu      sync.Mutex
	visible bool
	rect    geometry.Rect
	shows   int
	moves   int
	hides   int
}

func (f *fakeCompanion) Show(r geometry.Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = true
	f.rect = r
	f.shows++
	return nil
}

func (f *fakeCompanion) Move(r geometry.Rect) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rect = r
	f.moves++
	return nil
}

func (f *fakeCompanion) Hide() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.visible = false
	f.hides++
	return nil
}

func (f *fakeCompanion) snapshot() (visible bool, rect geometry.Rect, shows, moves, hides int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visible, f.rect, f.shows, f.moves, f.hides
}

// countingStrategy records every Position call.
type countingStrategy struct {
	mu         sync.Mutex
	calls      int
	lastTarget geometry.Rect
	lastSize   geometry.Size
	pos        geometry.Point
	err        error
}

func (c *countingStrategy) Name() string { return "counting" }

func (c *countingStrategy) Position(target geometry.Rect, companion geometry.Size, monitors []monitor.Descriptor) (geometry.Point, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls++
	c.lastTarget = target
	c.lastSize = companion
	return c.pos, c.err
}

func (c *countingStrategy) stats() (calls int, lastTarget geometry.Rect, lastSize geometry.Size) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls, c.lastTarget, c.lastSize
}

type panicStrategy struct{}

func (panicStrategy) Name() string { return "panic" }

func (panicStrategy) Position(geometry.Rect, geometry.Size, []monitor.Descriptor) (geometry.Point, error) {
	panic("deliberate test panic")
}

func testMonitors(t *testing.T) *monitor.Set {
	t.Helper()
	set := monitor.NewSet()
	bounds := geometry.Rect{Width: 1920, Height: 1080}
	err := set.Replace([]monitor.Descriptor{{
		ID: "test", Bounds: bounds, WorkArea: bounds, Primary: true, DPIX: 96, DPIY: 96,
	}})
	if err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	return set
}

func waitFor(t *testing.T, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}

func TestStartStopLifecycle(t *testing.T) {
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	companion := &fakeCompanion{}
	strategy := &countingStrategy{pos: geometry.Point{X: 610, Y: 300}}
	m := NewManager(target, companion, testMonitors(t), strategy, Config{})

	if m.Active() {
		t.Fatalf("new manager is active")
	}

	size := geometry.Size{Width: 300, Height: 200}
	if err := m.Start(size); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !m.Active() {
		t.Fatalf("manager not active after Start")
	}

	visible, rect, shows, _, _ := companion.snapshot()
	if !visible || shows != 1 {
		t.Errorf("companion visible=%v shows=%d, want visible once", visible, shows)
	}
	if want := geometry.RectAt(geometry.Point{X: 610, Y: 300}, size); rect != want {
		t.Errorf("companion rect = %+v, want %+v", rect, want)
	}

	m.Stop()
	if m.Active() {
		t.Errorf("manager still active after Stop")
	}
	visible, _, _, _, hides := companion.snapshot()
	if visible || hides != 1 {
		t.Errorf("companion visible=%v hides=%d after Stop, want hidden once", visible, hides)
	}

	// Stop is idempotent.
	m.Stop()
	if _, _, _, _, hides := companion.snapshot(); hides != 1 {
		t.Errorf("second Stop hid again (hides=%d)", hides)
	}
}

func TestStartRejectsNonPositiveSize(t *testing.T) {
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	companion := &fakeCompanion{}
	m := NewManager(target, companion, testMonitors(t), &countingStrategy{}, Config{})

	sizes := []geometry.Size{
		{},
		{Width: 0, Height: 200},
		{Width: 300, Height: 0},
		{Width: -300, Height: 200},
	}
	for _, size := range sizes {
		if err := m.Start(size); !errors.Is(err, ErrInvalidSize) {
			t.Errorf("Start(%+v) = %v, want ErrInvalidSize", size, err)
		}
	}
	if m.Active() {
		t.Errorf("manager became active from invalid starts")
	}
	if _, _, shows, _, _ := companion.snapshot(); shows != 0 {
		t.Errorf("companion was shown %d times", shows)
	}
}

func TestUpdateRequiresActiveSession(t *testing.T) {
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	m := NewManager(target, &fakeCompanion{}, testMonitors(t), &countingStrategy{}, Config{})

	if err := m.Update(geometry.Size{Width: 300, Height: 200}); !errors.Is(err, ErrNotActive) {
		t.Errorf("Update while idle = %v, want ErrNotActive", err)
	}
	if err := m.Apply(); !errors.Is(err, ErrNotActive) {
		t.Errorf("Apply while idle = %v, want ErrNotActive", err)
	}
}

func TestUpdatesCoalesceToLatestSize(t *testing.T) {
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	companion := &fakeCompanion{}
	strategy := &countingStrategy{pos: geometry.Point{X: 610, Y: 300}}
	m := NewManager(target, companion, testMonitors(t), strategy, Config{Debounce: 50 * time.Millisecond})

	if err := m.Start(geometry.Size{Width: 100, Height: 100}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Three rapid updates inside one debounce window.
	for _, w := range []float64{100, 200, 300} {
		if err := m.Update(geometry.Size{Width: w, Height: w}); err != nil {
			t.Fatalf("Update(%v) failed: %v", w, err)
		}
	}

	// One call from Start plus exactly one coalesced recompute.
	waitFor(t, "debounced recompute", func() bool {
		calls, _, _ := strategy.stats()
		return calls >= 2
	})
	time.Sleep(120 * time.Millisecond)

	calls, _, lastSize := strategy.stats()
	if calls != 2 {
		t.Errorf("strategy calls = %d, want 2", calls)
	}
	if want := (geometry.Size{Width: 300, Height: 300}); lastSize != want {
		t.Errorf("recompute used size %+v, want %+v", lastSize, want)
	}
	if _, _, _, moves, _ := companion.snapshot(); moves != 1 {
		t.Errorf("companion moves = %d, want 1", moves)
	}
}

func TestDebounceUsesCurrentTargetRect(t *testing.T) {
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	strategy := &countingStrategy{pos: geometry.Point{X: 610, Y: 300}}
	m := NewManager(target, &fakeCompanion{}, testMonitors(t), strategy, Config{Debounce: 30 * time.Millisecond})

	if err := m.Start(geometry.Size{Width: 300, Height: 200}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := m.Update(geometry.Size{Width: 320, Height: 200}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	// The window moves after the update is queued but before it fires.
	target.moveTo(700, 500)

	waitFor(t, "debounced recompute", func() bool {
		calls, _, _ := strategy.stats()
		return calls >= 2
	})

	_, lastTarget, _ := strategy.stats()
	if lastTarget.X != 700 || lastTarget.Y != 500 {
		t.Errorf("recompute used target %+v, want the moved rect at (700, 500)", lastTarget)
	}
}

func TestApplyResizesTargetAndStops(t *testing.T) {
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	companion := &fakeCompanion{}
	m := NewManager(target, companion, testMonitors(t), &countingStrategy{}, Config{})

	size := geometry.Size{Width: 300, Height: 250}
	if err := m.Start(size); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := m.Apply(); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if target.resizeCount() != 1 {
		t.Fatalf("target resized %d times, want 1", target.resizeCount())
	}
	target.mu.Lock()
	applied := target.resizes[0]
	target.mu.Unlock()
	if applied != size {
		t.Errorf("target resized to %+v, want %+v", applied, size)
	}

	if m.Active() {
		t.Errorf("manager still active after Apply")
	}
	if visible, _, _, _, _ := companion.snapshot(); visible {
		t.Errorf("companion still visible after Apply")
	}
}

func TestTargetMovedRepositionsImmediately(t *testing.T) {
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	companion := &fakeCompanion{}
	strategy := &countingStrategy{pos: geometry.Point{X: 610, Y: 300}}
	m := NewManager(target, companion, testMonitors(t), strategy, Config{Debounce: time.Hour})

	if err := m.Start(geometry.Size{Width: 300, Height: 200}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	target.moveTo(800, 600)
	m.TargetMoved()

	// Synchronous: no debounce wait needed.
	calls, lastTarget, lastSize := strategy.stats()
	if calls != 2 {
		t.Errorf("strategy calls = %d, want 2", calls)
	}
	if lastTarget.X != 800 || lastTarget.Y != 600 {
		t.Errorf("reposition used target %+v, want the moved rect", lastTarget)
	}
	if want := (geometry.Size{Width: 300, Height: 200}); lastSize != want {
		t.Errorf("reposition used size %+v, want last previewed %+v", lastSize, want)
	}
	if _, _, _, moves, _ := companion.snapshot(); moves != 1 {
		t.Errorf("companion moves = %d, want 1", moves)
	}
}

func TestSetStrategyRepositionsActiveSession(t *testing.T) {
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	companion := &fakeCompanion{}
	first := &countingStrategy{pos: geometry.Point{X: 610, Y: 300}}
	m := NewManager(target, companion, testMonitors(t), first, Config{})

	size := geometry.Size{Width: 300, Height: 200}
	if err := m.Start(size); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	second := &countingStrategy{pos: geometry.Point{X: 50, Y: 50}}
	m.SetStrategy(second)

	if calls, _, _ := second.stats(); calls != 1 {
		t.Errorf("new strategy calls = %d, want immediate reposition", calls)
	}
	_, rect, _, _, _ := companion.snapshot()
	if want := geometry.RectAt(geometry.Point{X: 50, Y: 50}, size); rect != want {
		t.Errorf("companion rect = %+v, want %+v", rect, want)
	}
}

func TestStrategyErrorFallsBackToMonitorCenter(t *testing.T) {
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	companion := &fakeCompanion{}
	broken := &countingStrategy{err: fmt.Errorf("strategy exploded")}
	m := NewManager(target, companion, testMonitors(t), broken, Config{})

	size := geometry.Size{Width: 300, Height: 200}
	if err := m.Start(size); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	// Constrained center of the 1920x1080 monitor for a 300x200 companion.
	_, rect, _, _, _ := companion.snapshot()
	if want := geometry.RectAt(geometry.Point{X: 810, Y: 440}, size); rect != want {
		t.Errorf("fallback rect = %+v, want %+v", rect, want)
	}
}

func TestStrategyPanicIsCaught(t *testing.T) {
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	companion := &fakeCompanion{}
	m := NewManager(target, companion, testMonitors(t), panicStrategy{}, Config{})

	size := geometry.Size{Width: 300, Height: 200}
	if err := m.Start(size); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if !m.Active() {
		t.Fatalf("manager not active after panicking strategy")
	}
	_, rect, _, _, _ := companion.snapshot()
	if want := geometry.RectAt(geometry.Point{X: 810, Y: 440}, size); rect != want {
		t.Errorf("fallback rect = %+v, want %+v", rect, want)
	}
}

func TestMonitorsVanishingMidSession(t *testing.T) {
	monitors := testMonitors(t)
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	companion := &fakeCompanion{}
	m := NewManager(target, companion, monitors, placement.NewSmart(placement.DefaultTuning()), Config{})

	// 300x150 so the smart placement (vertically centered, y=325) differs
	// from the offset fallback (top-aligned, y=300).
	size := geometry.Size{Width: 300, Height: 150}
	if err := m.Start(size); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, rect, _, _, _ := companion.snapshot(); rect.Y != 325 {
		t.Fatalf("initial companion rect = %+v, want centered at y=325", rect)
	}

	// All monitors disappear (output unplugged).
	if err := monitors.Replace(nil); err != nil {
		t.Fatalf("Replace failed: %v", err)
	}
	m.TargetMoved()

	// Degrades to the plain offset right of the target, no error, no panic.
	_, rect, _, _, _ := companion.snapshot()
	want := geometry.RectAt(geometry.Point{X: 610, Y: 300}, size)
	if rect != want {
		t.Errorf("companion rect = %+v, want offset fallback %+v", rect, want)
	}
	if !m.Active() {
		t.Errorf("session dropped out of active")
	}
}

func TestStartWhileActiveBehavesAsUpdate(t *testing.T) {
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	companion := &fakeCompanion{}
	strategy := &countingStrategy{pos: geometry.Point{X: 610, Y: 300}}
	m := NewManager(target, companion, testMonitors(t), strategy, Config{Debounce: 30 * time.Millisecond})

	if err := m.Start(geometry.Size{Width: 100, Height: 100}); err != nil {
		t.Fatalf("first Start failed: %v", err)
	}
	if err := m.Start(geometry.Size{Width: 250, Height: 150}); err != nil {
		t.Fatalf("second Start failed: %v", err)
	}

	waitFor(t, "debounced recompute", func() bool {
		calls, _, _ := strategy.stats()
		return calls >= 2
	})

	_, _, shows, moves, _ := companion.snapshot()
	if shows != 1 {
		t.Errorf("companion shown %d times, want 1", shows)
	}
	if moves != 1 {
		t.Errorf("companion moved %d times, want 1", moves)
	}
	_, _, lastSize := strategy.stats()
	if want := (geometry.Size{Width: 250, Height: 150}); lastSize != want {
		t.Errorf("recompute used size %+v, want %+v", lastSize, want)
	}
}

func TestEvents(t *testing.T) {
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	m := NewManager(target, &fakeCompanion{}, testMonitors(t), &countingStrategy{pos: geometry.Point{X: 610, Y: 300}}, Config{Debounce: 20 * time.Millisecond})

	events := make(chan Event, 16)
	m.OnEvent = func(ev Event) { events <- ev }

	next := func(want EventKind) Event {
		t.Helper()
		select {
		case ev := <-events:
			if ev.Kind != want {
				t.Fatalf("event = %v, want %v", ev.Kind, want)
			}
			return ev
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for %v event", want)
			return Event{}
		}
	}

	if err := m.Start(geometry.Size{Width: 300, Height: 200}); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	ev := next(EventStarted)
	if want := (geometry.Size{Width: 300, Height: 200}); ev.Size != want {
		t.Errorf("started event size = %+v, want %+v", ev.Size, want)
	}

	if err := m.Update(geometry.Size{Width: 320, Height: 220}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	ev = next(EventUpdated)
	if want := (geometry.Size{Width: 320, Height: 220}); ev.Size != want {
		t.Errorf("updated event size = %+v, want %+v", ev.Size, want)
	}

	m.Stop()
	next(EventStopped)

	// A fresh preview that gets applied emits applied, not stopped.
	if err := m.Start(geometry.Size{Width: 280, Height: 180}); err != nil {
		t.Fatalf("restart failed: %v", err)
	}
	next(EventStarted)
	if err := m.Apply(); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}
	ev = next(EventApplied)
	if want := (geometry.Size{Width: 280, Height: 180}); ev.Size != want {
		t.Errorf("applied event size = %+v, want %+v", ev.Size, want)
	}

	select {
	case ev := <-events:
		t.Errorf("unexpected extra event %v", ev.Kind)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStatusSnapshot(t *testing.T) {
	target := &fakeTarget{rect: geometry.Rect{X: 400, Y: 300, Width: 200, Height: 200}}
	strategy := &countingStrategy{pos: geometry.Point{X: 610, Y: 300}}
	m := NewManager(target, &fakeCompanion{}, testMonitors(t), strategy, Config{Debounce: time.Hour})

	st := m.Status()
	if st.Phase != PhaseIdle || st.Strategy != "counting" {
		t.Errorf("idle status = %+v", st)
	}

	size := geometry.Size{Width: 300, Height: 200}
	if err := m.Start(size); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if err := m.Update(geometry.Size{Width: 400, Height: 300}); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	st = m.Status()
	if st.Phase != PhaseActive {
		t.Errorf("status phase = %v, want active", st.Phase)
	}
	if st.LastSize != size {
		t.Errorf("status last size = %+v, want %+v", st.LastSize, size)
	}
	if st.LastPosition != (geometry.Point{X: 610, Y: 300}) {
		t.Errorf("status last position = %+v", st.LastPosition)
	}
	if st.PendingSize == nil || st.PendingSize.Width != 400 {
		t.Errorf("status pending size = %+v, want 400x300 queued", st.PendingSize)
	}
}
