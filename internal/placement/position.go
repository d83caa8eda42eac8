package placement

import (
	"github.com/1broseidon/wingman/internal/geometry"
)

// RelativePosition is a symbolic placement of the companion window relative
// to the target window. Locate turns it into absolute coordinates.
type RelativePosition int

const (
	// PosRight places the companion right of the target, top edges aligned
	PosRight RelativePosition = iota
	// PosRightCentered places the companion right of the target, vertically centered
	PosRightCentered
	// PosLeft places the companion left of the target, top edges aligned
	PosLeft
	// PosLeftCentered places the companion left of the target, vertically centered
	PosLeftCentered
	// PosBelow places the companion below the target, left edges aligned
	PosBelow
	// PosBelowCentered places the companion below the target, horizontally centered
	PosBelowCentered
	// PosAbove places the companion above the target, left edges aligned
	PosAbove
	// PosAboveCentered places the companion above the target, horizontally centered
	PosAboveCentered
	// PosTopLeft places the companion diagonally off the target's top-left corner
	PosTopLeft
	// PosTopRight places the companion diagonally off the target's top-right corner
	PosTopRight
	// PosBottomLeft places the companion diagonally off the target's bottom-left corner
	PosBottomLeft
	// PosBottomRight places the companion diagonally off the target's bottom-right corner
	PosBottomRight

	positionCount = iota
)

// String returns the string representation of the position
func (p RelativePosition) String() string {
	switch p {
	case PosRight:
		return "right"
	case PosRightCentered:
		return "right-centered"
	case PosLeft:
		return "left"
	case PosLeftCentered:
		return "left-centered"
	case PosBelow:
		return "below"
	case PosBelowCentered:
		return "below-centered"
	case PosAbove:
		return "above"
	case PosAboveCentered:
		return "above-centered"
	case PosTopLeft:
		return "top-left"
	case PosTopRight:
		return "top-right"
	case PosBottomLeft:
		return "bottom-left"
	case PosBottomRight:
		return "bottom-right"
	default:
		return "unknown"
	}
}

// Horizontal reports whether the position sits beside the target (left or
// right side). Diagonal corners are neither horizontal nor vertical.
func (p RelativePosition) Horizontal() bool {
	switch p {
	case PosRight, PosRightCentered, PosLeft, PosLeftCentered:
		return true
	}
	return false
}

// Vertical reports whether the position sits above or below the target.
func (p RelativePosition) Vertical() bool {
	switch p {
	case PosBelow, PosBelowCentered, PosAbove, PosAboveCentered:
		return true
	}
	return false
}

// leftVariant reports whether the position anchors the companion to the left
// side of the target. These are the positions boosted when the target hugs
// the right screen edge.
func (p RelativePosition) leftVariant() bool {
	return p == PosLeft || p == PosLeftCentered
}

// AllPositions returns every RelativePosition in canonical order.
func AllPositions() []RelativePosition {
	out := make([]RelativePosition, positionCount)
	for i := range out {
		out[i] = RelativePosition(i)
	}
	return out
}

// Locate maps a RelativePosition to the top-left point of a companion window
// of the given size, spaced margin logical units away from the target. The
// mapping is pure; callers constrain or score the result separately.
func Locate(p RelativePosition, target geometry.Rect, companion geometry.Size, margin float64) geometry.Point {
	rightX := target.Right() + margin
	leftX := target.X - companion.Width - margin
	belowY := target.Bottom() + margin
	aboveY := target.Y - companion.Height - margin

	switch p {
	case PosRight:
		return geometry.Point{X: rightX, Y: target.Y}
	case PosRightCentered:
		return geometry.Point{X: rightX, Y: target.CenterY() - companion.Height/2}
	case PosLeft:
		return geometry.Point{X: leftX, Y: target.Y}
	case PosLeftCentered:
		return geometry.Point{X: leftX, Y: target.CenterY() - companion.Height/2}
	case PosBelow:
		return geometry.Point{X: target.X, Y: belowY}
	case PosBelowCentered:
		return geometry.Point{X: target.CenterX() - companion.Width/2, Y: belowY}
	case PosAbove:
		return geometry.Point{X: target.X, Y: aboveY}
	case PosAboveCentered:
		return geometry.Point{X: target.CenterX() - companion.Width/2, Y: aboveY}
	case PosTopLeft:
		return geometry.Point{X: leftX, Y: aboveY}
	case PosTopRight:
		return geometry.Point{X: rightX, Y: aboveY}
	case PosBottomLeft:
		return geometry.Point{X: leftX, Y: belowY}
	case PosBottomRight:
		return geometry.Point{X: rightX, Y: belowY}
	default:
		return geometry.Point{X: rightX, Y: target.Y}
	}
}
