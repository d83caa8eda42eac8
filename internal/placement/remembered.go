package placement

import (
	"sync"

	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/monitor"
)

// Remembered reuses the companion's last applied offset relative to the
// target window. Until an offset has been observed it behaves like Smart.
// Observed offsets persist across restarts through an OffsetStore.
type Remembered struct {
	mu       sync.Mutex
	dx, dy   float64
	known bool

	store    *OffsetStore
	fallback *Smart
}

var (
	_ Strategy = (*Remembered)(nil)
	_ Observer = (*Remembered)(nil)
)

// NewRemembered builds the strategy, loading any previously saved offset.
func NewRemembered(store *OffsetStore, t Tuning) (*Remembered, error) {
	r := &Remembered{store: store, fallback: NewSmart(t)}
	if store != nil {
		dx, dy, ok, err := store.Load()
		if err != nil {
			return nil, err
		}
		r.dx, r.dy, r.known = dx, dy, ok
	}
	return r, nil
}

func (r *Remembered) Name() string { return "remembered" }

func (r *Remembered) Position(target geometry.Rect, companion geometry.Size, monitors []monitor.Descriptor) (geometry.Point, error) {
	r.mu.Lock()
	dx, dy, have := r.dx, r.dy, r.known
	r.mu.Unlock()

	if !have {
		return r.fallback.Position(target, companion, monitors)
	}
	p := geometry.Point{X: target.X + dx, Y: target.Y + dy}
	if len(monitors) == 0 {
		return p, nil
	}
	return constrained(p, companion, monitors), nil
}

// Observe records the offset between the applied position and the target,
// and persists it.
func (r *Remembered) Observe(target geometry.Rect, pos geometry.Point) error {
	dx := pos.X - target.X
	dy := pos.Y - target.Y

	r.mu.Lock()
	r.dx, r.dy, r.known = dx, dy, true
	r.mu.Unlock()

	if r.store == nil {
		return nil
	}
	return r.store.Save(dx, dy)
}
