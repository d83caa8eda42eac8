package placement

import (
	"fmt"

	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/monitor"
)

// Strategy computes where the companion window should go for a given target
// rect and requested companion size. Implementations must be safe to call
// with an empty monitor slice and must return a usable point rather than an
// off-screen one whenever monitors are known.
type Strategy interface {
	Name() string
	Position(target geometry.Rect, companion geometry.Size, monitors []monitor.Descriptor) (geometry.Point, error)
}

// Observer is implemented by strategies that learn from placements the
// session actually applied.
type Observer interface {
	Observe(target geometry.Rect, pos geometry.Point) error
}

// Options carries the per-strategy settings from config.
type Options struct {
	// OffsetX and OffsetY are the fixed-offset strategy's displacement from
	// the target's top-left corner, in logical units.
	OffsetX float64
	OffsetY float64

	// DockEdge names the screen edge for the edge-dock strategy: "left",
	// "right", "top" or "bottom".
	DockEdge string

	// StatePath is where the remembered strategy persists its offset.
	StatePath string
}

// New builds the named strategy. An empty name selects smart.
func New(name string, t Tuning, opts Options) (Strategy, error) {
	switch name {
	case "", "smart":
		return NewSmart(t), nil
	case "center":
		return &Center{tuning: t}, nil
	case "fixed-offset":
		return &FixedOffset{tuning: t, DX: opts.OffsetX, DY: opts.OffsetY}, nil
	case "edge-dock":
		edge, err := parseDockEdge(opts.DockEdge)
		if err != nil {
			return nil, err
		}
		return &EdgeDock{tuning: t, Edge: edge}, nil
	case "remembered":
		return NewRemembered(NewOffsetStore(opts.StatePath), t)
	default:
		return nil, fmt.Errorf("unknown placement strategy %q", name)
	}
}

// Names lists the selectable strategy names in presentation order.
func Names() []string {
	return []string{"smart", "center", "fixed-offset", "edge-dock", "remembered"}
}

func parseDockEdge(s string) (EdgeFlags, error) {
	switch s {
	case "left":
		return EdgeLeft, nil
	case "right":
		return EdgeRight, nil
	case "top":
		return EdgeTop, nil
	case "bottom":
		return EdgeBottom, nil
	default:
		return 0, fmt.Errorf("unknown dock edge %q (want left, right, top or bottom)", s)
	}
}

// offsetFallback is the degraded placement used when no monitor geometry is
// available at all: a plain gap right of the target.
func offsetFallback(target geometry.Rect, t Tuning) geometry.Point {
	return geometry.Point{X: target.Right() + t.Margin, Y: target.Y}
}

func constrained(p geometry.Point, companion geometry.Size, monitors []monitor.Descriptor) geometry.Point {
	return monitor.ConstrainToScreen(geometry.RectAt(p, companion), monitors).Origin()
}

// Smart runs the full placement pipeline: measure free space around the
// target, detect near edges, generate ordered candidates, then score them
// down the visibility ladder.
type Smart struct {
	tuning Tuning
}

var _ Strategy = (*Smart)(nil)

// NewSmart returns the default strategy with the given tuning.
func NewSmart(t Tuning) *Smart {
	return &Smart{tuning: t}
}

func (s *Smart) Name() string { return "smart" }

func (s *Smart) Position(target geometry.Rect, companion geometry.Size, monitors []monitor.Descriptor) (geometry.Point, error) {
	if len(monitors) == 0 {
		return offsetFallback(target, s.tuning), nil
	}
	mon := monitor.Containing(target, monitors)
	space := SpaceAround(target, mon)
	near := DetectNearEdges(space, mon, s.tuning)
	candidates := Candidates(near, space, companion, s.tuning)
	return SelectPosition(target, companion, candidates, monitors, s.tuning), nil
}

// Center places the companion in the middle of the target's monitor.
type Center struct {
	tuning Tuning
}

var _ Strategy = (*Center)(nil)

func (c *Center) Name() string { return "center" }

func (c *Center) Position(target geometry.Rect, companion geometry.Size, monitors []monitor.Descriptor) (geometry.Point, error) {
	if len(monitors) == 0 {
		return offsetFallback(target, c.tuning), nil
	}
	wa := monitor.Containing(target, monitors).WorkArea
	p := geometry.Point{
		X: wa.CenterX() - companion.Width/2,
		Y: wa.CenterY() - companion.Height/2,
	}
	return constrained(p, companion, monitors), nil
}

// FixedOffset places the companion at a constant displacement from the
// target's top-left corner.
type FixedOffset struct {
	tuning Tuning
	DX     float64
	DY     float64
}

var _ Strategy = (*FixedOffset)(nil)

func (f *FixedOffset) Name() string { return "fixed-offset" }

func (f *FixedOffset) Position(target geometry.Rect, companion geometry.Size, monitors []monitor.Descriptor) (geometry.Point, error) {
	p := geometry.Point{X: target.X + f.DX, Y: target.Y + f.DY}
	if len(monitors) == 0 {
		return p, nil
	}
	return constrained(p, companion, monitors), nil
}

// EdgeDock pins the companion against one work-area edge of the target's
// monitor, staying aligned with the target along the other axis.
type EdgeDock struct {
	tuning Tuning
	Edge   EdgeFlags
}

var _ Strategy = (*EdgeDock)(nil)

func (e *EdgeDock) Name() string { return "edge-dock" }

func (e *EdgeDock) Position(target geometry.Rect, companion geometry.Size, monitors []monitor.Descriptor) (geometry.Point, error) {
	if len(monitors) == 0 {
		return offsetFallback(target, e.tuning), nil
	}
	wa := monitor.Containing(target, monitors).WorkArea
	m := e.tuning.Margin

	var p geometry.Point
	switch e.Edge {
	case EdgeLeft:
		p = geometry.Point{X: wa.X + m, Y: target.Y}
	case EdgeRight:
		p = geometry.Point{X: wa.Right() - companion.Width - m, Y: target.Y}
	case EdgeTop:
		p = geometry.Point{X: target.X, Y: wa.Y + m}
	case EdgeBottom:
		p = geometry.Point{X: target.X, Y: wa.Bottom() - companion.Height - m}
	default:
		return geometry.Point{}, fmt.Errorf("edge-dock strategy has no edge configured")
	}
	return constrained(p, companion, monitors), nil
}
