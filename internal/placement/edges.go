package placement

import (
	"strings"

	"github.com/1broseidon/wingman/internal/geometry"
	"github.com/1broseidon/wingman/internal/monitor"
)

const (
	// rightEdgeBias widens the right-edge proximity threshold. A companion
	// anchored past the right screen edge is the most common bad placement,
	// so right-edge detection fires earlier than the other three.
	rightEdgeBias = 1.25

	// hidpiInflateSlope controls how much the proximity thresholds grow on
	// monitors scaled above 1.0: threshold *= 1 + (scale-1)*hidpiInflateSlope.
	hidpiInflateSlope = 0.5
)

// Space holds the free logical distance between each edge of the target
// window and the corresponding edge of the containing monitor's work area.
// Fields go negative when the target straddles or exceeds the monitor.
type Space struct {
	Left   float64
	Right  float64
	Top    float64
	Bottom float64
}

// SpaceAround measures the space between target and the monitor's work area.
func SpaceAround(target geometry.Rect, mon *monitor.Descriptor) Space {
	if mon == nil {
		return Space{}
	}
	wa := mon.WorkArea
	return Space{
		Left:   target.X - wa.X,
		Right:  wa.Right() - target.Right(),
		Top:    target.Y - wa.Y,
		Bottom: wa.Bottom() - target.Bottom(),
	}
}

// EdgeFlags is a bitset of monitor edges the target window is near.
type EdgeFlags uint8

const (
	EdgeLeft EdgeFlags = 1 << iota
	EdgeRight
	EdgeTop
	EdgeBottom
)

// Has reports whether all edges in mask are set.
func (f EdgeFlags) Has(mask EdgeFlags) bool {
	return f&mask == mask
}

// String returns the set edges as a comma-separated list, or "none".
func (f EdgeFlags) String() string {
	var parts []string
	if f.Has(EdgeLeft) {
		parts = append(parts, "left")
	}
	if f.Has(EdgeRight) {
		parts = append(parts, "right")
	}
	if f.Has(EdgeTop) {
		parts = append(parts, "top")
	}
	if f.Has(EdgeBottom) {
		parts = append(parts, "bottom")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, ",")
}

// DetectNearEdges reports which monitor edges the target window is near.
// Thresholds scale with the monitor dimensions (ratio of width for the
// horizontal edges, of height for the vertical ones) and inflate on
// high-DPI monitors, where a fixed pixel distance covers less glass.
func DetectNearEdges(space Space, mon *monitor.Descriptor, t Tuning) EdgeFlags {
	if mon == nil {
		return 0
	}

	hThreshold := mon.Bounds.Width * t.EdgeThresholdRatio
	vThreshold := mon.Bounds.Height * t.EdgeThresholdRatio
	if scale := monitor.Scale(mon); scale > 1.0 {
		inflate := 1 + (scale-1)*hidpiInflateSlope
		hThreshold *= inflate
		vThreshold *= inflate
	}

	var flags EdgeFlags
	if space.Left < hThreshold {
		flags |= EdgeLeft
	}
	if space.Right < hThreshold*rightEdgeBias {
		flags |= EdgeRight
	}
	if space.Top < vThreshold {
		flags |= EdgeTop
	}
	if space.Bottom < vThreshold {
		flags |= EdgeBottom
	}
	return flags
}

// HorizontalSpaceBetter reports whether the companion fits better beside the
// target than above or below it. Each axis is scored as the best free space
// divided by the companion dimension it would need; the horizontal score is
// weighted by the tuning factor. Degenerate companion sizes prefer horizontal.
func HorizontalSpaceBetter(space Space, companion geometry.Size, t Tuning) bool {
	if companion.Width <= 0 || companion.Height <= 0 {
		return true
	}
	horizontal := max(space.Left, space.Right) / companion.Width * t.HorizontalFactor
	vertical := max(space.Top, space.Bottom) / companion.Height
	return horizontal >= vertical
}
