package monitor

import (
	"fmt"
	"sync"

	"github.com/1broseidon/wingman/internal/geometry"
)

// Descriptor is an immutable snapshot of one attached display.
type Descriptor struct {
	ID       string
	Bounds   geometry.Rect // full pixel bounds within the virtual screen
	WorkArea geometry.Rect // Bounds minus panels and docks
	Primary  bool
	DPIX     float64
	DPIY     float64
}

// Set holds the currently attached monitors. Refreshes replace the whole
// slice at once so readers never observe a partially updated set.
type Set struct {
	mu       sync.RWMutex
	monitors []Descriptor
}

// NewSet returns an empty monitor set.
func NewSet() *Set {
	return &Set{}
}

// Replace validates monitors and installs them as the new set. Empty or
// duplicate IDs and non-positive DPI values are rejected, in which case the
// previous set is kept.
func (s *Set) Replace(monitors []Descriptor) error {
	seen := make(map[string]struct{}, len(monitors))
	for _, m := range monitors {
		if m.ID == "" {
			return fmt.Errorf("monitor with empty id")
		}
		if _, dup := seen[m.ID]; dup {
			return fmt.Errorf("duplicate monitor id %q", m.ID)
		}
		seen[m.ID] = struct{}{}
		if m.DPIX <= 0 || m.DPIY <= 0 {
			return fmt.Errorf("monitor %q has non-positive dpi %.1fx%.1f", m.ID, m.DPIX, m.DPIY)
		}
	}

	fresh := make([]Descriptor, len(monitors))
	copy(fresh, monitors)

	s.mu.Lock()
	s.monitors = fresh
	s.mu.Unlock()
	return nil
}

// Snapshot returns a copy of the current monitors in enumeration order.
func (s *Set) Snapshot() []Descriptor {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Descriptor, len(s.monitors))
	copy(out, s.monitors)
	return out
}

// Len returns the number of monitors in the set.
func (s *Set) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.monitors)
}

// Primary returns the monitor marked primary, falling back to the first
// monitor. ok is false for an empty set.
func (s *Set) Primary() (Descriptor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.monitors) == 0 {
		return Descriptor{}, false
	}
	for _, m := range s.monitors {
		if m.Primary {
			return m, true
		}
	}
	return s.monitors[0], true
}

// Source enumerates the attached monitors from the window system.
type Source interface {
	Enumerate() ([]Descriptor, error)
}

// RefreshFrom re-enumerates monitors from src and installs the result.
func (s *Set) RefreshFrom(src Source) error {
	monitors, err := src.Enumerate()
	if err != nil {
		return fmt.Errorf("failed to enumerate monitors: %w", err)
	}
	return s.Replace(monitors)
}
